package kernel

import (
	"fmt"
	"runtime"

	"github.com/sisoputnfrba/tp-2025-2c-LosCuervosXeneizes/utils"
)

// Excepcion es el vector de una excepción del procesador
type Excepcion int

const (
	ExcDivision          Excepcion = 0
	ExcOpcodeInvalido    Excepcion = 6
	ExcProteccionGeneral Excepcion = 13
	ExcFalloPagina       Excepcion = 14
)

func (e Excepcion) String() string {
	switch e {
	case ExcDivision:
		return "Exception: divide by zero"
	case ExcOpcodeInvalido:
		return "Exception: invalid opcode"
	case ExcProteccionGeneral:
		return "Exception: general protection fault"
	case ExcFalloPagina:
		return "Exception: page fault"
	default:
		return fmt.Sprintf("Exception: %d", int(e))
	}
}

// excepcion atiende una excepción del proceso actual. Por defecto lo termina
// con EstadoExcepcion; con FalloDetieneKernel apaga la máquina. No vuelve.
func (k *Kernel) excepcion(e Excepcion) {
	k.cpu.Cli()
	pid := k.pidActual()

	k.consola.Escribir([]byte(e.String() + "\n"))
	utils.ErrorLog.Error(fmt.Sprintf("## (%d) - %s", pid, e), "vector", int(e))

	if k.config.FalloDetieneKernel {
		utils.ErrorLog.Error("Kernel detenido por excepción", "pid", pid, "vector", int(e))
		k.cpu.Apagar()
		runtime.Goexit()
	}
	k.halt(EstadoExcepcion)
}
