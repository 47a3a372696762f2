package main

// Estructura de configuración para la terminal remota
type IOConfig struct {
	IPKernel          string `json:"IP_KERNEL"`
	PortKernel        int    `json:"PUERTO_KERNEL"`
	LogLevel          string `json:"LOG_LEVEL"`
	IntervaloPantalla int    `json:"INTERVALO_PANTALLA_MS"`
	Reintentos        int    `json:"REINTENTOS_CONEXION"`
}

// Variables globales
var (
	config *IOConfig
)
