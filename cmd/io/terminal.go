package main

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	tty "github.com/mattn/go-tty"

	"github.com/sisoputnfrba/tp-2025-2c-LosCuervosXeneizes/dispositivos"
	"github.com/sisoputnfrba/tp-2025-2c-LosCuervosXeneizes/kernel"
	"github.com/sisoputnfrba/tp-2025-2c-LosCuervosXeneizes/utils"
)

const (
	ctrlC = 0x03
	ctrlL = 0x0c
	ctrlP = 0x10
	esc   = 0x1b
	del   = 0x7f
)

// evento es lo que sale de decodificar una secuencia de teclas
type evento struct {
	tecla   dispositivos.Tecla
	captura bool
	salir   bool
	ignorar bool
}

// decodificar lee una tecla completa de la terminal en modo crudo. Alt+1..3
// y F1..F3 cambian de terminal; Ctrl+P pide una captura.
func decodificar(leer func() (rune, error)) (evento, error) {
	r, err := leer()
	if err != nil {
		return evento{}, err
	}

	switch {
	case r == '\r' || r == '\n':
		return evento{tecla: dispositivos.Tecla{Tipo: dispositivos.TeclaEnter}}, nil
	case r == del || r == '\b':
		return evento{tecla: dispositivos.Tecla{Tipo: dispositivos.TeclaRetroceso}}, nil
	case r == '\t':
		return evento{tecla: dispositivos.Tecla{Tipo: dispositivos.TeclaTab}}, nil
	case r == ctrlL:
		return evento{tecla: dispositivos.Tecla{Tipo: dispositivos.TeclaLimpiar}}, nil
	case r == ctrlC:
		return evento{salir: true}, nil
	case r == ctrlP:
		return evento{captura: true}, nil
	case r == esc:
		return decodificarEscape(leer)
	case r >= 0x20 && r < del:
		return evento{tecla: dispositivos.Tecla{Tipo: dispositivos.TeclaCaracter, Caracter: byte(r)}}, nil
	}
	return evento{ignorar: true}, nil
}

func decodificarEscape(leer func() (rune, error)) (evento, error) {
	r, err := leer()
	if err != nil {
		return evento{}, err
	}
	if r >= '1' && r <= '0'+kernel.CantTerminales {
		return evento{tecla: dispositivos.Tecla{Tipo: dispositivos.TeclaTerminal, Terminal: int(r - '1')}}, nil
	}
	if r != '[' && r != 'O' {
		return evento{ignorar: true}, nil
	}

	final, err := leer()
	if err != nil {
		return evento{}, err
	}
	switch final {
	case 'A':
		return evento{tecla: dispositivos.Tecla{Tipo: dispositivos.TeclaArriba}}, nil
	case 'B':
		return evento{tecla: dispositivos.Tecla{Tipo: dispositivos.TeclaAbajo}}, nil
	case 'P', 'Q', 'R':
		return evento{tecla: dispositivos.Tecla{Tipo: dispositivos.TeclaTerminal, Terminal: int(final - 'P')}}, nil
	}
	return evento{ignorar: true}, nil
}

// renderizar arma la secuencia ANSI que redibuja la pantalla completa
func renderizar(e kernel.EstadoPantalla) string {
	var sb strings.Builder
	sb.WriteString("\x1b[H\x1b[2J")
	for i, linea := range e.Lineas {
		if i > 0 {
			sb.WriteString("\r\n")
		}
		sb.WriteString(linea)
	}
	fmt.Fprintf(&sb, "\x1b[%d;%dH", e.CursorY+1, e.CursorX+1)
	return sb.String()
}

// terminalRemota traduce el teclado local en mensajes al Kernel y dibuja la
// pantalla visible que devuelve.
type terminalRemota struct {
	tty       *tty.TTY
	restaurar func() error
	kernel    *utils.HTTPClient
	intervalo time.Duration

	mu     sync.Mutex
	ultima string
	salir  chan struct{}
}

func abrirTerminal(kernelClient *utils.HTTPClient, intervalo time.Duration) (*terminalRemota, error) {
	t, err := tty.Open()
	if err != nil {
		return nil, fmt.Errorf("error abriendo tty: %w", err)
	}
	return &terminalRemota{
		tty:       t,
		restaurar: t.MustRaw(),
		kernel:    kernelClient,
		intervalo: intervalo,
		salir:     make(chan struct{}),
	}, nil
}

// Ejecutar atiende el teclado hasta Ctrl+C
func (t *terminalRemota) Ejecutar() error {
	go t.refrescar()
	defer close(t.salir)

	for {
		ev, err := decodificar(t.tty.ReadRune)
		if err != nil {
			return err
		}
		switch {
		case ev.salir:
			utils.InfoLog.Info("Terminal remota finalizada por el usuario")
			return nil
		case ev.ignorar:
			continue
		case ev.captura:
			t.pedirCaptura()
			continue
		}

		if err := t.enviarTecla(ev.tecla); err != nil {
			utils.ErrorLog.Error("Error enviando tecla al Kernel", "tecla", ev.tecla.Tipo.String(), "error", err)
			continue
		}
		t.dibujar()
	}
}

func (t *terminalRemota) enviarTecla(tecla dispositivos.Tecla) error {
	var respuesta map[string]interface{}
	err := t.kernel.EnviarYDecodificar(utils.MensajeTeclado, "TECLA", map[string]interface{}{
		"tipo":     tecla.Tipo.String(),
		"caracter": int(tecla.Caracter),
		"terminal": tecla.Terminal,
	}, &respuesta)
	if err != nil {
		return err
	}
	if respuesta["status"] != "OK" {
		return errors.New(fmt.Sprint(respuesta["message"]))
	}
	return nil
}

func (t *terminalRemota) pedirCaptura() {
	respuesta, err := t.kernel.EnviarHTTPMensaje(utils.MensajeCaptura, "CAPTURA", map[string]interface{}{"terminal": -1})
	if err != nil {
		utils.ErrorLog.Error("Error pidiendo captura", "error", err)
		return
	}
	utils.InfoLog.Debug("Captura solicitada", "respuesta", respuesta)
}

func (t *terminalRemota) refrescar() {
	ticker := time.NewTicker(t.intervalo)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			t.dibujar()
		case <-t.salir:
			return
		}
	}
}

// dibujar pide la pantalla visible y la redibuja solo si cambió
func (t *terminalRemota) dibujar() {
	var estado kernel.EstadoPantalla
	if err := t.kernel.EnviarYDecodificar(utils.MensajePantalla, "PANTALLA", map[string]interface{}{"terminal": -1}, &estado); err != nil {
		utils.ErrorLog.Debug("Error pidiendo la pantalla", "error", err)
		return
	}

	salida := renderizar(estado)

	t.mu.Lock()
	defer t.mu.Unlock()
	if salida == t.ultima {
		return
	}
	t.ultima = salida
	t.tty.Output().WriteString(salida)
}

func (t *terminalRemota) Cerrar() {
	if t.restaurar != nil {
		t.restaurar()
	}
	t.tty.Output().WriteString("\x1b[H\x1b[2J")
	t.tty.Close()
}
