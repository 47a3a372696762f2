package utils

import (
	"fmt"
	"log/slog"
)

// ============================================================================
// Constantes para tipos de mensajes entre módulos
// ============================================================================
const (
	// === COMUNICACIÓN BÁSICA (1-9) ===
	MensajeHandshake = 1 // Conexión inicial de una terminal remota
	MensajeOperacion = 2 // Operaciones genéricas

	// === TERMINALES (10-19) ===
	MensajeTeclado  = 10 // Tecla presionada en la terminal remota
	MensajePantalla = 11 // Contenido de la pantalla
	MensajeTerminal = 12 // Cambio de terminal visible
	MensajeCaptura  = 13 // Captura PNG de una pantalla

	// === INSPECCIÓN DEL KERNEL (20-29) ===
	MensajeProcesos   = 20 // Tabla de procesos
	MensajeMemoryDump = 21 // Volcado del marco de un proceso
	MensajeMetricas   = 22 // Métricas de memoria
)

// ExtraerEntero extrae un entero de los datos del mensaje
func ExtraerEntero(msg *Mensaje, clave string, valorPorDefecto int) int {
	if datosMap, ok := msg.Datos.(map[string]interface{}); ok {
		if valor, ok := datosMap[clave].(float64); ok {
			return int(valor)
		}
	}
	return valorPorDefecto
}

// ExtraerTexto extrae un string de los datos del mensaje
func ExtraerTexto(msg *Mensaje, clave string, valorPorDefecto string) string {
	if datosMap, ok := msg.Datos.(map[string]interface{}); ok {
		if valor, ok := datosMap[clave].(string); ok {
			return valor
		}
	}
	return valorPorDefecto
}

// ExigirEntero es ExtraerEntero para campos obligatorios
func ExigirEntero(msg *Mensaje, clave string) (int, error) {
	if datosMap, ok := msg.Datos.(map[string]interface{}); ok {
		if valor, ok := datosMap[clave].(float64); ok {
			return int(valor), nil
		}
	}
	return 0, fmt.Errorf("%w: campo %s ausente o inválido en %s", ErrDatosInvalidos, clave, msg.Operacion)
}

// HandlerGenerico registra la operación recibida y delega en el procesador
func HandlerGenerico(msg *Mensaje, procesador func(msg *Mensaje) (interface{}, error)) (interface{}, error) {
	slog.Debug("Operación recibida", "origen", msg.Origen, "tipo", msg.Tipo, "operacion", msg.Operacion)
	return procesador(msg)
}
