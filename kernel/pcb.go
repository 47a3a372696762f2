package kernel

import "github.com/sisoputnfrba/tp-2025-2c-LosCuervosXeneizes/dispositivos"

const (
	MaxProcesos      = 6
	CantTerminales   = dispositivos.CantTerminales
	CantDescriptores = 8
	LargoArgumento   = 32
	LargoNombre      = 32

	PadreRaiz   = -1 // padre de las shells raíz
	SinArrancar = -1 // terminal que todavía no tiene proceso
	SinTerminal = -1 // Asignar para un proceso que no es raíz

	// EstadoExcepcion es el estado con el que termina un proceso por una
	// excepción; queda fuera del rango 0-255 de los programas.
	EstadoExcepcion = 256
)

// Descriptor es una entrada de la tabla de archivos abiertos de un proceso
type Descriptor struct {
	Operaciones Operaciones
	Inodo       uint32
	Posicion    uint32
	EnUso       bool
}

// PCB representa el bloque de control de un proceso
type PCB struct {
	PID              int
	Padre            int
	Terminal         int
	Nombre           string
	Descriptores     [CantDescriptores]Descriptor
	ContextoGuardado Contexto // dónde seguir después de una expropiación
	ContextoRetorno  Contexto // el execute del padre, para halt
	Entrada          uint32
	Activo           bool
	Argumento        string

	puerta chan int32
}

// EsRaiz indica si el proceso es la shell raíz de una terminal
func (p *PCB) EsRaiz() bool {
	return p.Padre == PadreRaiz
}

// Terminal es una de las sesiones de consola
type Terminal struct {
	PidActual int
}

// Arrancada indica si la terminal ya tiene su shell
func (t Terminal) Arrancada() bool {
	return t.PidActual != SinArrancar
}
