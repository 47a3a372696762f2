package kernel

import "errors"

// Errores internos del kernel. En la frontera de las llamadas al sistema
// todos se reducen a -1.
var (
	ErrDescriptorInvalido      = errors.New("descriptor inválido")
	ErrArgumentoInvalido       = errors.New("argumento inválido")
	ErrRecursosAgotados        = errors.New("recursos agotados")
	ErrNoEjecutable            = errors.New("no es un ejecutable")
	ErrNoSoportado             = errors.New("operación no soportada")
	ErrDispositivoNoDisponible = errors.New("dispositivo no disponible")

	ErrApagado = errors.New("la máquina está apagada")
)
