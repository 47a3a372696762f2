package utils

import (
	"log/slog"
	"os"
)

// Hasta que el módulo llame a InicializarLogger los paquetes de biblioteca
// (kernel, memoria, dispositivos) escriben con el logger por defecto.
var (
	InfoLog  = slog.Default()
	ErrorLog = slog.Default()
)

// NivelLog traduce el LOG_LEVEL de los archivos de configuración
func NivelLog(logLevel string) slog.Level {
	switch logLevel {
	case "debug", "DEBUG":
		return slog.LevelDebug
	case "info", "INFO":
		return slog.LevelInfo
	case "warn", "WARN":
		return slog.LevelWarn
	case "error", "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// InicializarLogger configura los loggers globales
func InicializarLogger(logLevel string, moduleName string) {
	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: NivelLog(logLevel),
	})

	logger := slog.New(handler).With("modulo", moduleName)

	InfoLog = logger
	ErrorLog = logger
}
