package main

import (
	"context"
	"fmt"
	"time"

	"github.com/sisoputnfrba/tp-2025-2c-LosCuervosXeneizes/archivos"
	"github.com/sisoputnfrba/tp-2025-2c-LosCuervosXeneizes/kernel"
	"github.com/sisoputnfrba/tp-2025-2c-LosCuervosXeneizes/programas"
	"github.com/sisoputnfrba/tp-2025-2c-LosCuervosXeneizes/utils"
)

var (
	kernelModulo *utils.Modulo
	kernelConfig *KernelConfig
	maquina      *kernel.Kernel
	capturas     *utils.Semaforo
)

func inicializarKernel(configPath string) error {
	kernelModulo = utils.NuevoModulo("Kernel", configPath)
	kernelConfig = utils.CargarConfiguracion[KernelConfig](configPath)

	utils.InicializarLogger(kernelConfig.LogLevel, "Kernel")
	utils.InfoLog.Info("Inicializando Kernel", "config_path", configPath)

	fs, err := cargarSistemaArchivos(kernelConfig.ImagenFS)
	if err != nil {
		return err
	}
	utils.InfoLog.Info("Sistema de archivos montado", "entradas", fs.Cantidad())

	maquina = kernel.Nuevo(kernelConfig.Config, fs, programas.Registro())
	capturas = utils.NewSemaforo(kernelConfig.MaxCapturas)

	registrarHandlers()
	kernelModulo.IniciarServidor(kernelConfig.IPKernel, kernelConfig.PortKernel)

	maquina.Arrancar()

	utils.InfoLog.Info("Kernel inicializado correctamente")
	return nil
}

// cargarSistemaArchivos monta IMAGEN_FS; sin imagen configurada usa la que
// se arma con los programas incluidos.
func cargarSistemaArchivos(ruta string) (*archivos.SistemaArchivos, error) {
	if ruta == "" {
		utils.InfoLog.Info("Sin IMAGEN_FS, se usa la imagen incorporada")
		return programas.SistemaArchivos()
	}
	fs, err := archivos.Cargar(ruta)
	if err != nil {
		return nil, fmt.Errorf("no se pudo montar %s: %w", ruta, err)
	}
	return fs, nil
}

// registrarHandlers registra todos los manejadores HTTP
func registrarHandlers() {
	kernelModulo.RegistrarHandler(fmt.Sprintf("%d", utils.MensajeHandshake), "handshake", HandlerHandshake)
	kernelModulo.RegistrarHandler(fmt.Sprintf("%d", utils.MensajeTeclado), "default", HandlerTecla)
	kernelModulo.RegistrarHandler(fmt.Sprintf("%d", utils.MensajePantalla), "default", HandlerPantalla)
	kernelModulo.RegistrarHandler(fmt.Sprintf("%d", utils.MensajeTerminal), "default", HandlerCambiarTerminal)
	kernelModulo.RegistrarHandler(fmt.Sprintf("%d", utils.MensajeCaptura), "default", HandlerCaptura)
	kernelModulo.RegistrarHandler(fmt.Sprintf("%d", utils.MensajeProcesos), "default", HandlerProcesos)
	kernelModulo.RegistrarHandler(fmt.Sprintf("%d", utils.MensajeMemoryDump), "default", HandlerVolcado)
	kernelModulo.RegistrarHandler(fmt.Sprintf("%d", utils.MensajeMetricas), "default", HandlerMetricas)
	kernelModulo.RegistrarHandler(fmt.Sprintf("%d", utils.MensajeOperacion), "ESCRIBIR", HandlerEscribir)

	utils.InfoLog.Info("Handlers registrados correctamente")
}

func finalizarKernel() {
	maquina.Detener()

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := kernelModulo.Detener(ctx); err != nil {
		utils.ErrorLog.Error("Error cerrando el servidor HTTP", "error", err)
	}
}
