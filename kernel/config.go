package kernel

import (
	"time"

	"github.com/sisoputnfrba/tp-2025-2c-LosCuervosXeneizes/memoria"
)

// Config son los parámetros de la máquina simulada
type Config struct {
	CiclosPorTick      int    `json:"CICLOS_POR_TICK"`
	FrecuenciaTimer    int    `json:"FRECUENCIA_TIMER"`
	CiclosPorRTC       int    `json:"CICLOS_POR_RTC"`
	RetardoCicloUs     int    `json:"RETARDO_CICLO_US"`
	EntradasTLB        int    `json:"ENTRADAS_TLB"`
	ReemplazoTLB       string `json:"REEMPLAZO_TLB"`
	FalloDetieneKernel bool   `json:"FALLO_DETIENE_KERNEL"`
}

// ConfigPorDefecto devuelve una máquina que se planifica solo por ciclos
func ConfigPorDefecto() Config {
	return Config{
		CiclosPorTick: 1000,
		CiclosPorRTC:  10,
		EntradasTLB:   16,
		ReemplazoTLB:  memoria.ReemplazoLRU,
	}
}

func (c Config) normalizada() Config {
	// Sin ninguna fuente de ticks la terminal 0 nunca arrancaría
	if c.CiclosPorTick <= 0 && c.FrecuenciaTimer <= 0 {
		c.CiclosPorTick = ConfigPorDefecto().CiclosPorTick
	}
	if c.EntradasTLB < 0 {
		c.EntradasTLB = 0
	}
	return c
}

func (c Config) retardo() time.Duration {
	return time.Duration(c.RetardoCicloUs) * time.Microsecond
}
