package utils

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strconv"
	"testing"
	"time"
)

func TestSemaforo(t *testing.T) {
	s := NewSemaforo(2)
	if !s.TryWait() || !s.TryWait() {
		t.Fatal("no se pudieron tomar los dos lugares")
	}
	if s.TryWait() {
		t.Error("TryWait tomó un tercer lugar")
	}
	if s.Ocupados() != 2 {
		t.Errorf("Ocupados() = %d", s.Ocupados())
	}
	s.Signal()
	s.Signal()
	s.Signal()
	if s.Ocupados() != 0 {
		t.Errorf("Ocupados() después de liberar = %d", s.Ocupados())
	}
}

func TestExtraerCampos(t *testing.T) {
	msg := &Mensaje{Operacion: "TECLA", Datos: map[string]interface{}{
		"caracter": float64('a'),
		"tipo":     "ENTER",
	}}
	if got := ExtraerEntero(msg, "caracter", -1); got != 'a' {
		t.Errorf("ExtraerEntero = %d", got)
	}
	if got := ExtraerEntero(msg, "terminal", -1); got != -1 {
		t.Errorf("ExtraerEntero sin campo = %d", got)
	}
	if got := ExtraerTexto(msg, "tipo", ""); got != "ENTER" {
		t.Errorf("ExtraerTexto = %q", got)
	}
	if _, err := ExigirEntero(msg, "pid"); err == nil {
		t.Error("ExigirEntero aceptó un campo ausente")
	}
	if _, err := ExigirEntero(&Mensaje{Datos: "basura"}, "pid"); err == nil {
		t.Error("ExigirEntero aceptó datos que no son un objeto")
	}
}

func TestNivelLog(t *testing.T) {
	if NivelLog("debug") >= NivelLog("INFO") {
		t.Error("debug no es más verboso que info")
	}
	if NivelLog("cualquiera") != NivelLog("INFO") {
		t.Error("un nivel desconocido no cae en info")
	}
}

func TestServidorYCliente(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}

	m := NuevoModulo("Prueba", "")
	m.RegistrarHandler(strconv.Itoa(MensajePantalla), "default", func(msg *Mensaje) (interface{}, error) {
		return map[string]interface{}{"terminal": ExtraerEntero(msg, "terminal", -1), "origen": msg.Origen}, nil
	})
	m.RegistrarHandler(strconv.Itoa(MensajeMemoryDump), "VOLCADO", func(msg *Mensaje) (interface{}, error) {
		pid, err := ExigirEntero(msg, "pid")
		return map[string]interface{}{"pid": pid}, err
	})
	m.IniciarServidorEn(ln)
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		m.Detener(ctx)
	}()

	puerto := ln.Addr().(*net.TCPAddr).Port
	cliente := NewHTTPClient("127.0.0.1", puerto, "Cliente")

	// el servidor arranca en otra goroutine
	var errConexion error
	for i := 0; i < 50; i++ {
		if errConexion = cliente.VerificarConexion(); errConexion == nil {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	if errConexion != nil {
		t.Fatal(errConexion)
	}

	var respuesta struct {
		Terminal int    `json:"terminal"`
		Origen   string `json:"origen"`
	}
	if err := cliente.EnviarYDecodificar(MensajePantalla, "PANTALLA", map[string]interface{}{"terminal": 2}, &respuesta); err != nil {
		t.Fatal(err)
	}
	if respuesta.Terminal != 2 || respuesta.Origen != "Cliente" {
		t.Errorf("respuesta = %+v", respuesta)
	}

	tests := []struct {
		tipo      int
		operacion string
		datos     map[string]interface{}
		estado    int
	}{
		{MensajeOperacion, "NADA", nil, http.StatusBadRequest},
		{MensajeMemoryDump, "VOLCADO", map[string]interface{}{}, http.StatusBadRequest},
		{MensajeMemoryDump, "OTRA", nil, http.StatusBadRequest},
	}
	for _, tt := range tests {
		_, err := cliente.EnviarHTTPMensaje(tt.tipo, tt.operacion, tt.datos)
		var errHTTP *ErrorHTTP
		if !errors.As(err, &errHTTP) || errHTTP.Estado != tt.estado {
			t.Errorf("mensaje %d/%s: error = %v, want estado %d", tt.tipo, tt.operacion, err, tt.estado)
		}
	}
	if _, err := cliente.EnviarHTTPMensaje(MensajeMemoryDump, "VOLCADO", map[string]interface{}{"pid": 3}); err != nil {
		t.Errorf("VOLCADO con pid: %v", err)
	}
}
