package utils

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"strconv"
)

// Modulo representa un módulo genérico del sistema
type Modulo struct {
	Nombre      string
	Server      *HTTPServer
	Clientes    map[string]*HTTPClient
	ConfigPath  string
	HandlerFunc map[string]map[string]HTTPHandlerFunc
}

// NuevoModulo crea una nueva instancia de un módulo
func NuevoModulo(nombre string, configPath string) *Modulo {
	return &Modulo{
		Nombre:      nombre,
		Clientes:    make(map[string]*HTTPClient),
		ConfigPath:  configPath,
		HandlerFunc: make(map[string]map[string]HTTPHandlerFunc),
	}
}

// RegistrarHandler registra un handler para un tipo de mensaje y operación específicos
func (m *Modulo) RegistrarHandler(tipo string, operacion string, handler HTTPHandlerFunc) {
	if _, existe := m.HandlerFunc[tipo]; !existe {
		m.HandlerFunc[tipo] = make(map[string]HTTPHandlerFunc)
	}
	m.HandlerFunc[tipo][operacion] = handler
}

// IniciarServidor crea el servidor HTTP del módulo en ip:puerto y lo pone a
// atender en segundo plano
func (m *Modulo) IniciarServidor(ip string, puerto int) {
	m.Server = NewHTTPServer(ip, puerto, m.Nombre)
	m.arrancarServidor()
	slog.Info("Servidor HTTP iniciado", "módulo", m.Nombre, "dirección", fmt.Sprintf("%s:%d", ip, puerto))
}

// IniciarServidorEn es IniciarServidor sobre un listener ya abierto
func (m *Modulo) IniciarServidorEn(ln net.Listener) {
	m.Server = NewHTTPServer("", 0, m.Nombre)
	m.Server.Listener = ln
	m.arrancarServidor()
	slog.Info("Servidor HTTP iniciado", "módulo", m.Nombre, "dirección", ln.Addr().String())
}

func (m *Modulo) arrancarServidor() {
	// Un handler por tipo que despacha según la operación
	for tipoStr, handlersPorOperacion := range m.HandlerFunc {
		tipo, err := strconv.Atoi(tipoStr)
		if err != nil {
			slog.Error("Error al convertir tipo de mensaje a entero", "tipo", tipoStr, "error", err)
			continue
		}
		m.Server.RegisterHTTPHandler(tipo, despachar(tipo, handlersPorOperacion))
	}

	m.Server.preparar()
	go func() {
		if err := m.Server.Start(); err != nil {
			slog.Error("Error al iniciar servidor HTTP", "error", err)
			os.Exit(1)
		}
	}()
}

func despachar(tipo int, handlersPorOperacion map[string]HTTPHandlerFunc) HTTPHandlerFunc {
	return func(msg *Mensaje) (interface{}, error) {
		operacion := msg.Operacion
		if operacion == "" {
			operacion = "default"
		}

		handler, existe := handlersPorOperacion[operacion]
		if !existe {
			handler, existe = handlersPorOperacion["default"]
			if !existe {
				slog.Error("No hay handler para operación", "tipo", tipo, "operacion", operacion)
				return nil, fmt.Errorf("%w: no hay handler para operación %s", ErrDatosInvalidos, operacion)
			}
		}
		return handler(msg)
	}
}

// CargarConfiguracion decodifica el JSON de ruta en un T; termina el proceso si no puede
func CargarConfiguracion[T any](ruta string) *T {
	slog.Info("Cargando configuración", "ruta", ruta)

	// Crear directorio si no existe
	dir := filepath.Dir(ruta)
	if err := os.MkdirAll(dir, 0755); err != nil {
		slog.Error("Error al crear directorio de configuración", "error", err)
		os.Exit(1)
	}

	// Obtener ruta absoluta
	absPath, err := filepath.Abs(ruta)
	if err != nil {
		slog.Error("Error obteniendo ruta absoluta", "error", err, "ruta", ruta)
		os.Exit(1)
	}

	// Abrir archivo
	file, err := os.Open(absPath)
	if err != nil {
		slog.Error("Error abriendo archivo de configuración", "error", err, "archivo", absPath)
		os.Exit(1)
	}
	defer file.Close()

	// Decodificar JSON directamente al tipo genérico
	var config T
	decoder := json.NewDecoder(file)
	if err := decoder.Decode(&config); err != nil {
		slog.Error("Error decodificando configuración", "error", err, "archivo", absPath)
		os.Exit(1)
	}

	slog.Info("Configuración cargada correctamente")
	return &config
}

// Detener cierra el servidor HTTP del módulo si llegó a iniciarse
func (m *Modulo) Detener(ctx context.Context) error {
	if m.Server == nil {
		return nil
	}
	slog.Info("Deteniendo servidor HTTP", "módulo", m.Nombre)
	return m.Server.Stop(ctx)
}
