package kernel

import (
	"fmt"

	"github.com/sisoputnfrba/tp-2025-2c-LosCuervosXeneizes/memoria"
	"github.com/sisoputnfrba/tp-2025-2c-LosCuervosXeneizes/utils"
)

// planificar es el manejador del timer. Corre con las interrupciones
// deshabilitadas y rota la CPU entre las terminales.
func (k *Kernel) planificar() {
	actual := k.terminalEjecutando

	// Una terminal sin arrancar solo puede estar ejecutando el flujo ocioso
	if !k.terminales[actual].Arrancada() {
		k.registrar(actual)
		if k.arrancarShellRaiz(actual) == nil {
			k.cpu.Esperar(k.ocioso)
		}
		return
	}

	pcb := k.pcbActual()
	propio := k.cpu.GuardarContexto(pcb.puerta)
	pcb.ContextoGuardado = propio

	sig := (actual + 1) % CantTerminales
	k.seleccionarTerminal(sig)
	k.registrar(sig)

	if !k.terminales[sig].Arrancada() {
		if err := k.arrancarShellRaiz(sig); err != nil {
			k.seleccionarTerminal(actual)
			k.paginacion.MapearRegionUsuario(memoria.MarcoProceso(pcb.PID))
			k.cpu.FijarPilaKernel(memoria.PilaKernel(pcb.PID))
			return
		}
		k.cpu.Esperar(propio)
		return
	}

	siguiente := k.tabla.PCB(k.terminales[sig].PidActual)
	k.paginacion.MapearRegionUsuario(memoria.MarcoProceso(siguiente.PID))
	k.cpu.FijarPilaKernel(memoria.PilaKernel(siguiente.PID))
	utils.InfoLog.Debug(fmt.Sprintf("## Cambio de contexto (%d) -> (%d)", pcb.PID, siguiente.PID),
		"terminal", sig)
	k.cpu.Transferir(siguiente.ContextoGuardado, 0)
	k.cpu.Esperar(propio)
}

// seleccionarTerminal pasa la terminal a ejecutando y redirige su salida
func (k *Kernel) seleccionarTerminal(terminal int) {
	k.terminalEjecutando = terminal
	destino := k.consola.SeleccionarDestino(terminal, k.consola.Visible())
	k.paginacion.RedirigirVideoUsuario(destino)
}

func (k *Kernel) registrar(terminal int) {
	k.ticks++
	k.selecciones[terminal]++
	if k.alPlanificar != nil {
		k.alPlanificar(terminal)
	}
}
