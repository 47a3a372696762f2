package kernel

import (
	"fmt"

	"github.com/sisoputnfrba/tp-2025-2c-LosCuervosXeneizes/dispositivos"
	"github.com/sisoputnfrba/tp-2025-2c-LosCuervosXeneizes/utils"
)

// manejarTecla es la interrupción de teclado. Lo tecleado va siempre a la
// terminal visible, no a la que está ejecutando.
func (k *Kernel) manejarTecla(t dispositivos.Tecla) {
	v := k.consola.Visible()

	switch t.Tipo {
	case dispositivos.TeclaCaracter:
		if k.teclado.Agregar(v, t.Caracter) {
			k.consola.Eco(t.Caracter)
		}

	case dispositivos.TeclaEnter:
		if k.teclado.Enter(v) {
			k.consola.Eco('\n')
		}

	case dispositivos.TeclaRetroceso:
		if k.teclado.Retroceso(v) {
			k.consola.Retroceso()
		}

	case dispositivos.TeclaTab:
		for _, b := range k.teclado.Autocompletar(v, k.fs.Nombres()) {
			k.consola.Eco(b)
		}

	case dispositivos.TeclaArriba, dispositivos.TeclaAbajo:
		borrar, nueva, ok := k.teclado.Historial(v, t.Tipo == dispositivos.TeclaArriba)
		if !ok {
			return
		}
		for i := 0; i < borrar; i++ {
			k.consola.Retroceso()
		}
		for _, b := range nueva {
			k.consola.Eco(b)
		}

	case dispositivos.TeclaLimpiar:
		k.consola.LimpiarVisible()
		for _, b := range k.teclado.Linea(v) {
			k.consola.Eco(b)
		}

	case dispositivos.TeclaTerminal:
		k.cambiarTerminal(t.Terminal)
	}
}

func (k *Kernel) cambiarTerminal(terminal int) {
	anterior := k.consola.Visible()
	if err := k.consola.CambiarVisible(terminal); err != nil {
		utils.ErrorLog.Error("No se pudo cambiar de terminal", "terminal", terminal, "error", err)
		return
	}
	if anterior == terminal {
		return
	}
	k.paginacion.RedirigirVideoUsuario(k.consola.Destino())
	utils.InfoLog.Info(fmt.Sprintf("## Terminal visible: %d -> %d", anterior, terminal))
}
