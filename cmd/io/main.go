package main

import (
	"fmt"
	"os"
	"time"

	"github.com/sisoputnfrba/tp-2025-2c-LosCuervosXeneizes/utils"
)

var kernelClient *utils.HTTPClient

func main() {
	// Verificar argumentos mínimos
	if len(os.Args) < 2 {
		fmt.Println("Uso: ./io <ruta_configuracion> [comando_inicial]")
		fmt.Println("Ejemplo: ./io configs/io.json \"cat frame0.txt\"")
		os.Exit(1)
	}

	rutaConfig := os.Args[1]

	// Verificar que el archivo de configuración existe
	if _, err := os.Stat(rutaConfig); os.IsNotExist(err) {
		fmt.Printf("Error: El archivo de configuración '%s' no existe\n", rutaConfig)
		os.Exit(1)
	}

	inicializarModulo(rutaConfig)

	datosHandshake := map[string]interface{}{
		"nombre": "terminal",
		"tipo":   "IO",
	}
	if err := conectarConReintentos(kernelClient, "Kernel", datosHandshake, config.Reintentos); err != nil {
		utils.ErrorLog.Error("No se pudo conectar con el Kernel", "error", err)
		os.Exit(1)
	}

	if len(os.Args) > 2 {
		teclearComando(os.Args[2])
	}

	terminal, err := abrirTerminal(kernelClient, time.Duration(config.IntervaloPantalla)*time.Millisecond)
	if err != nil {
		utils.ErrorLog.Error("No se pudo abrir la terminal", "error", err)
		os.Exit(1)
	}
	defer terminal.Cerrar()

	if err := terminal.Ejecutar(); err != nil {
		utils.ErrorLog.Error("Terminal finalizada con error", "error", err)
	}
}

func inicializarModulo(rutaConfig string) {
	utils.InicializarLogger("INFO", "IO")

	config = utils.CargarConfiguracion[IOConfig](rutaConfig)
	if config.IntervaloPantalla <= 0 {
		config.IntervaloPantalla = 100
	}

	// Actualizar nivel de log
	utils.InicializarLogger(config.LogLevel, "IO")

	utils.InfoLog.Info("Módulo IO inicializado",
		"config_path", rutaConfig,
		"kernel", fmt.Sprintf("%s:%d", config.IPKernel, config.PortKernel),
		"intervalo_pantalla_ms", config.IntervaloPantalla,
		"nivel_log", config.LogLevel)

	// cada tecla y cada refresco es un pedido; no tiene sentido esperar mucho
	kernelClient = utils.NewHTTPClient(config.IPKernel, config.PortKernel, "IO->Kernel").ConTimeout(time.Second)
}

// conectarConReintentos verifica el Kernel y le hace el handshake; con
// intentosMax <= 0 reintenta indefinidamente.
func conectarConReintentos(cliente *utils.HTTPClient, destino string, datos map[string]interface{}, intentosMax int) error {
	for intento := 1; intentosMax <= 0 || intento <= intentosMax; intento++ {
		err := cliente.VerificarConexion()
		if err == nil {
			var respuesta map[string]interface{}
			err = cliente.EnviarYDecodificar(utils.MensajeHandshake, "handshake", datos, &respuesta)
			if err == nil && respuesta["status"] == "OK" {
				utils.InfoLog.Info("Handshake exitoso", "destino", destino, "respuesta", respuesta)
				return nil
			}
			if err == nil {
				err = fmt.Errorf("handshake rechazado: %v", respuesta["message"])
			}
		}

		utils.InfoLog.Warn("Fallo al conectar, reintentando", "destino", destino, "intento", intento, "error", err)
		time.Sleep(2 * time.Second)
	}
	return fmt.Errorf("no se pudo conectar con %s después de %d intentos", destino, intentosMax)
}

// teclearComando escribe un comando en la terminal visible como si se lo
// hubiera tecleado, Enter incluido
func teclearComando(comando string) {
	if _, err := kernelClient.EnviarHTTPOperacion("ESCRIBIR", map[string]interface{}{"texto": comando + "\n"}); err != nil {
		utils.ErrorLog.Error("No se pudo enviar el comando inicial", "comando", comando, "error", err)
		return
	}
	utils.InfoLog.Info("Comando inicial enviado", "comando", comando)
}
