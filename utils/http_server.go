package utils

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"
)

const (
	RutaMensaje = "/mensaje"
	RutaSalud   = "/health"

	maxCuerpoMensaje = 1 << 20
)

// ErrDatosInvalidos lo envuelven los handlers cuando el pedido está mal
// armado; el servidor responde 400 en lugar de 500.
var ErrDatosInvalidos = errors.New("datos inválidos")

// HTTPHandlerFunc es el tipo para los manejadores de mensajes HTTP
type HTTPHandlerFunc func(*Mensaje) (interface{}, error)

// HTTPServer atiende los mensajes de un módulo. Con Listener asignado
// sirve sobre él en lugar de abrir IP:Puerto.
type HTTPServer struct {
	IP       string
	Puerto   int
	Nombre   string
	Listener net.Listener

	server   *http.Server
	handlers map[int]HTTPHandlerFunc
	inicio   time.Time
}

// NewHTTPServer crea un nuevo servidor HTTP
func NewHTTPServer(ip string, puerto int, nombre string) *HTTPServer {
	return &HTTPServer{
		IP:       ip,
		Puerto:   puerto,
		Nombre:   nombre,
		handlers: make(map[int]HTTPHandlerFunc),
	}
}

// RegisterHTTPHandler registra un manejador para un tipo específico de mensaje
func (s *HTTPServer) RegisterHTTPHandler(tipoMensaje int, handler HTTPHandlerFunc) {
	s.handlers[tipoMensaje] = handler
}

// preparar arma el http.Server; Start lo llama si nadie lo hizo antes
func (s *HTTPServer) preparar() {
	if s.server != nil {
		return
	}
	mux := http.NewServeMux()
	mux.HandleFunc(RutaMensaje, s.manejarMensaje)
	mux.HandleFunc(RutaSalud, s.manejarSalud)

	s.inicio = time.Now()
	s.server = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", s.IP, s.Puerto),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
}

// Start bloquea sirviendo hasta Stop
func (s *HTTPServer) Start() error {
	s.preparar()

	var err error
	if s.Listener != nil {
		slog.Info("Servidor HTTP escuchando", "módulo", s.Nombre, "dirección", s.Listener.Addr().String())
		err = s.server.Serve(s.Listener)
	} else {
		slog.Info("Servidor HTTP escuchando", "módulo", s.Nombre, "dirección", s.server.Addr)
		err = s.server.ListenAndServe()
	}
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (s *HTTPServer) manejarMensaje(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Método no permitido", http.StatusMethodNotAllowed)
		return
	}

	var mensaje Mensaje
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxCuerpoMensaje)).Decode(&mensaje); err != nil {
		http.Error(w, fmt.Sprintf("Error decodificando mensaje: %v", err), http.StatusBadRequest)
		return
	}

	handler, existe := s.handlers[mensaje.Tipo]
	if !existe {
		http.Error(w, fmt.Sprintf("No hay manejador para el tipo de mensaje %d", mensaje.Tipo), http.StatusBadRequest)
		return
	}

	respuesta, err := handler(&mensaje)
	if err != nil {
		estado := http.StatusInternalServerError
		if errors.Is(err, ErrDatosInvalidos) {
			estado = http.StatusBadRequest
		}
		slog.Debug("Mensaje rechazado", "tipo", mensaje.Tipo, "operacion", mensaje.Operacion, "estado", estado, "error", err)
		http.Error(w, fmt.Sprintf("Error en el manejador: %v", err), estado)
		return
	}

	responderJSON(w, respuesta)
}

func (s *HTTPServer) manejarSalud(w http.ResponseWriter, r *http.Request) {
	responderJSON(w, map[string]interface{}{
		"status":     "ok",
		"module":     s.Nombre,
		"uptime_seg": int(time.Since(s.inicio).Seconds()),
	})
}

func responderJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Error codificando respuesta", "error", err)
	}
}

// Stop cierra el servidor esperando las peticiones en curso
func (s *HTTPServer) Stop(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}
