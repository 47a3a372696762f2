package dispositivos

import (
	"errors"
	"fmt"
)

const (
	FrecuenciaBase    = 1024
	FrecuenciaMinima  = 2
	FrecuenciaInicial = 2
)

var ErrFrecuenciaInvalida = errors.New("frecuencia de RTC inválida")

// RTC virtualiza el reloj de tiempo real: el hardware interrumpe a
// FrecuenciaBase y cada terminal ve solo las interrupciones que ocurren
// mientras ejecuta, divididas por su factor.
type RTC struct {
	contadores [CantTerminales]int
	factores   [CantTerminales]int
}

func NuevoRTC() *RTC {
	r := &RTC{}
	for t := range r.factores {
		r.factores[t] = FrecuenciaBase / FrecuenciaInicial
	}
	return r
}

func (r *RTC) Abrir(terminal int) {
	r.factores[terminal] = FrecuenciaBase / FrecuenciaInicial
	r.contadores[terminal] = 0
}

func (r *RTC) Cerrar(terminal int) {
	r.factores[terminal] = 0
	r.contadores[terminal] = 0
}

// Interrupcion cuenta una interrupción del hardware para terminal
func (r *RTC) Interrupcion(terminal int) {
	r.contadores[terminal]++
}

// Consumir devuelve true y reinicia el contador cuando la terminal ya vio
// tantas interrupciones como su factor.
func (r *RTC) Consumir(terminal int) bool {
	if r.contadores[terminal] < r.factores[terminal] {
		return false
	}
	r.contadores[terminal] = 0
	return true
}

// FijarFrecuencia acepta potencias de dos entre FrecuenciaMinima y FrecuenciaBase
func (r *RTC) FijarFrecuencia(terminal int, frecuencia uint32) error {
	if frecuencia < FrecuenciaMinima || frecuencia > FrecuenciaBase || frecuencia&(frecuencia-1) != 0 {
		return fmt.Errorf("%w: %d Hz", ErrFrecuenciaInvalida, frecuencia)
	}
	r.factores[terminal] = FrecuenciaBase / int(frecuencia)
	return nil
}

// Frecuencia devuelve la frecuencia virtual de una terminal, 0 si está cerrado
func (r *RTC) Frecuencia(terminal int) int {
	if r.factores[terminal] == 0 {
		return 0
	}
	return FrecuenciaBase / r.factores[terminal]
}
