package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sisoputnfrba/tp-2025-2c-LosCuervosXeneizes/dispositivos"
	"github.com/sisoputnfrba/tp-2025-2c-LosCuervosXeneizes/kernel"
	"github.com/sisoputnfrba/tp-2025-2c-LosCuervosXeneizes/utils"
)

// HandlerHandshake responde a una terminal remota que se conecta
func HandlerHandshake(msg *utils.Mensaje) (interface{}, error) {
	utils.InfoLog.Info("Handshake recibido", "origen", msg.Origen)

	pantalla, err := maquina.Pantalla(-1)
	if err != nil {
		return map[string]interface{}{"status": "ERROR", "message": err.Error()}, nil
	}
	return map[string]interface{}{
		"status":     "OK",
		"message":    "Handshake recibido",
		"terminales": kernel.CantTerminales,
		"visible":    pantalla.Visible,
	}, nil
}

// HandlerTecla entrega una tecla como interrupción de teclado
func HandlerTecla(msg *utils.Mensaje) (interface{}, error) {
	return utils.HandlerGenerico(msg, func(msg *utils.Mensaje) (interface{}, error) {
		nombre := utils.ExtraerTexto(msg, "tipo", dispositivos.TeclaCaracter.String())
		tipo, ok := dispositivos.TipoTeclaDe(nombre)
		if !ok {
			utils.ErrorLog.Warn("Tecla desconocida", "origen", msg.Origen, "tipo", nombre)
			return map[string]interface{}{"status": "ERROR", "message": "Tecla desconocida"}, nil
		}

		tecla := dispositivos.Tecla{
			Tipo:     tipo,
			Caracter: byte(utils.ExtraerEntero(msg, "caracter", 0)),
			Terminal: utils.ExtraerEntero(msg, "terminal", 0),
		}
		if tipo == dispositivos.TeclaTerminal {
			if err := maquina.CambiarTerminal(tecla.Terminal); err != nil {
				return nil, err
			}
			return map[string]interface{}{"status": "OK"}, nil
		}
		if err := maquina.Teclear(tecla); err != nil {
			return nil, err
		}
		return map[string]interface{}{"status": "OK"}, nil
	})
}

// HandlerEscribir teclea un texto completo, '\n' incluido
func HandlerEscribir(msg *utils.Mensaje) (interface{}, error) {
	return utils.HandlerGenerico(msg, func(msg *utils.Mensaje) (interface{}, error) {
		texto := utils.ExtraerTexto(msg, "texto", "")
		if err := maquina.Escribir(texto); err != nil {
			return nil, err
		}
		return map[string]interface{}{"status": "OK", "caracteres": len(texto)}, nil
	})
}

// HandlerPantalla devuelve el texto de una terminal; sin terminal, la visible
func HandlerPantalla(msg *utils.Mensaje) (interface{}, error) {
	return maquina.Pantalla(utils.ExtraerEntero(msg, "terminal", -1))
}

func HandlerCambiarTerminal(msg *utils.Mensaje) (interface{}, error) {
	return utils.HandlerGenerico(msg, func(msg *utils.Mensaje) (interface{}, error) {
		terminal, err := utils.ExigirEntero(msg, "terminal")
		if err != nil {
			return nil, err
		}
		if err := maquina.CambiarTerminal(terminal); err != nil {
			return nil, fmt.Errorf("%w: %v", utils.ErrDatosInvalidos, err)
		}
		utils.InfoLog.Info(fmt.Sprintf("## Terminal visible: %d", terminal), "origen", msg.Origen)
		return map[string]interface{}{"status": "OK", "visible": terminal}, nil
	})
}

// HandlerCaptura guarda el PNG de una terminal en CAPTURAS_PATH. Las
// capturas simultáneas están limitadas por MAX_CAPTURAS_SIMULTANEAS.
func HandlerCaptura(msg *utils.Mensaje) (interface{}, error) {
	if !capturas.TryWait() {
		utils.InfoLog.Warn("Captura rechazada", "en_curso", capturas.Ocupados())
		return map[string]interface{}{"status": "ERROR", "message": "Demasiadas capturas en curso"}, nil
	}
	defer capturas.Signal()

	terminal := utils.ExtraerEntero(msg, "terminal", -1)
	if err := os.MkdirAll(kernelConfig.CapturasPath, 0755); err != nil {
		return nil, fmt.Errorf("error creando directorio de capturas: %w", err)
	}

	ruta := filepath.Join(kernelConfig.CapturasPath,
		fmt.Sprintf("terminal%d-%s.png", terminal, time.Now().Format("20060102-150405.000")))
	if err := maquina.GuardarCaptura(terminal, ruta); err != nil {
		return nil, fmt.Errorf("error guardando captura: %w", err)
	}

	utils.InfoLog.Info("## Captura de pantalla", "terminal", terminal, "archivo", ruta)
	return map[string]interface{}{"status": "OK", "archivo": ruta}, nil
}

func HandlerProcesos(msg *utils.Mensaje) (interface{}, error) {
	procesos, err := maquina.Procesos()
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{"status": "OK", "procesos": procesos}, nil
}

// HandlerVolcado escribe el marco de memoria de un proceso en DUMP_PATH
func HandlerVolcado(msg *utils.Mensaje) (interface{}, error) {
	return utils.HandlerGenerico(msg, func(msg *utils.Mensaje) (interface{}, error) {
		pid, err := utils.ExigirEntero(msg, "pid")
		if err != nil {
			return nil, err
		}
		ruta, err := maquina.Volcar(pid, kernelConfig.DumpPath)
		if err != nil {
			utils.ErrorLog.Error("Error en el volcado de memoria", "pid", pid, "error", err)
			return map[string]interface{}{"status": "ERROR", "message": err.Error()}, nil
		}
		utils.InfoLog.Info(fmt.Sprintf("## (%d) - Memory Dump solicitado", pid), "archivo", ruta)
		return map[string]interface{}{"status": "OK", "archivo": ruta}, nil
	})
}

func HandlerMetricas(msg *utils.Mensaje) (interface{}, error) {
	return map[string]interface{}{"status": "OK", "metricas": maquina.Metricas()}, nil
}
