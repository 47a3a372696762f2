// Package dispositivos contiene los dispositivos de la máquina que el kernel
// expone a los programas: la consola de texto, el teclado y el RTC.
package dispositivos

import (
	"fmt"
	"strings"

	"github.com/sisoputnfrba/tp-2025-2c-LosCuervosXeneizes/memoria"
)

const (
	Columnas       = 80
	Filas          = 25
	Atributo       = 0x07
	TamPantalla    = Columnas * Filas * 2
	CantTerminales = 3
	TamTab         = 4
)

// MemoriaVideo es la parte de la memoria física que usa la consola
type MemoriaVideo interface {
	LeerFisica(dir uint32, buf []byte)
	EscribirFisica(dir uint32, datos []byte)
}

// DireccionRespaldo devuelve el buffer fuera de pantalla de una terminal
func DireccionRespaldo(terminal int) uint32 {
	return memoria.VideoFisico + uint32(terminal+1)*memoria.TamPagina
}

// Pantalla es el estado de dibujo de una terminal
type Pantalla struct {
	X, Y     int
	Respaldo uint32
}

// Consola dibuja las tres terminales. La visible vive en la memoria de video
// física; las otras dos en sus buffers de respaldo.
type Consola struct {
	mem        MemoriaVideo
	pantallas  [CantTerminales]Pantalla
	visible    int
	ejecutando int
	destino    uint32
}

func NuevaConsola(mem MemoriaVideo) *Consola {
	c := &Consola{mem: mem, destino: memoria.VideoFisico}
	for i := range c.pantallas {
		c.pantallas[i].Respaldo = DireccionRespaldo(i)
		c.borrar(c.pantallas[i].Respaldo)
	}
	c.borrar(memoria.VideoFisico)
	return c
}

// SeleccionarDestino decide dónde escribe la terminal que está ejecutando: la
// memoria de video si es la visible, su respaldo si no.
func (c *Consola) SeleccionarDestino(ejecutando, visible int) uint32 {
	c.ejecutando = ejecutando
	if ejecutando == visible {
		c.destino = memoria.VideoFisico
	} else {
		c.destino = c.pantallas[ejecutando].Respaldo
	}
	return c.destino
}

func (c *Consola) Destino() uint32 { return c.destino }
func (c *Consola) Visible() int    { return c.visible }
func (c *Consola) Ejecutando() int { return c.ejecutando }

// Putc escribe un byte en la terminal que está ejecutando
func (c *Consola) Putc(b byte) {
	c.putc(&c.pantallas[c.ejecutando], c.destino, b)
}

// Escribir pone todos los bytes y devuelve cuántos no eran NUL
func (c *Consola) Escribir(datos []byte) int {
	n := 0
	for _, b := range datos {
		c.Putc(b)
		if b != 0 {
			n++
		}
	}
	return n
}

// Eco escribe en la terminal visible; lo usa el teclado
func (c *Consola) Eco(b byte) {
	c.putc(&c.pantallas[c.visible], memoria.VideoFisico, b)
}

// Retroceso borra la celda anterior al cursor de la terminal visible
func (c *Consola) Retroceso() {
	p := &c.pantallas[c.visible]
	if p.X == 0 && p.Y == 0 {
		return
	}
	p.X--
	if p.X < 0 {
		p.X = Columnas - 1
		p.Y--
	}
	c.celda(memoria.VideoFisico, p.X, p.Y, ' ')
}

// LimpiarVisible borra la terminal visible y lleva el cursor al origen
func (c *Consola) LimpiarVisible() {
	c.borrar(memoria.VideoFisico)
	c.pantallas[c.visible].X = 0
	c.pantallas[c.visible].Y = 0
}

// CambiarVisible guarda la pantalla visible en su respaldo y trae la nueva
func (c *Consola) CambiarVisible(nueva int) error {
	if nueva < 0 || nueva >= CantTerminales {
		return fmt.Errorf("terminal %d inexistente", nueva)
	}
	if nueva == c.visible {
		return nil
	}

	buf := make([]byte, TamPantalla)
	c.mem.LeerFisica(memoria.VideoFisico, buf)
	c.mem.EscribirFisica(c.pantallas[c.visible].Respaldo, buf)
	c.mem.LeerFisica(c.pantallas[nueva].Respaldo, buf)
	c.mem.EscribirFisica(memoria.VideoFisico, buf)

	c.visible = nueva
	c.SeleccionarDestino(c.ejecutando, c.visible)
	return nil
}

// Celdas devuelve los pares (caracter, atributo) de una terminal
func (c *Consola) Celdas(terminal int) []byte {
	buf := make([]byte, TamPantalla)
	c.mem.LeerFisica(c.fuente(terminal), buf)
	return buf
}

// Texto devuelve las filas de una terminal sin los espacios finales
func (c *Consola) Texto(terminal int) []string {
	celdas := c.Celdas(terminal)
	filas := make([]string, Filas)
	for y := 0; y < Filas; y++ {
		var sb strings.Builder
		for x := 0; x < Columnas; x++ {
			b := celdas[(y*Columnas+x)*2]
			if b == 0 {
				b = ' '
			}
			sb.WriteByte(b)
		}
		filas[y] = strings.TrimRight(sb.String(), " ")
	}
	return filas
}

func (c *Consola) Cursor(terminal int) (int, int) {
	return c.pantallas[terminal].X, c.pantallas[terminal].Y
}

func (c *Consola) fuente(terminal int) uint32 {
	if terminal == c.visible {
		return memoria.VideoFisico
	}
	return c.pantallas[terminal].Respaldo
}

func (c *Consola) putc(p *Pantalla, base uint32, b byte) {
	switch b {
	case 0:
		return
	case '\n', '\r':
		p.X = 0
		p.Y++
	case '\t':
		for i := 0; i < TamTab; i++ {
			c.putc(p, base, ' ')
		}
		return
	default:
		c.celda(base, p.X, p.Y, b)
		p.X++
		if p.X == Columnas {
			p.X = 0
			p.Y++
		}
	}
	if p.Y == Filas {
		c.desplazar(base)
		p.Y = Filas - 1
	}
}

func (c *Consola) celda(base uint32, x, y int, b byte) {
	c.mem.EscribirFisica(base+uint32((y*Columnas+x)*2), []byte{b, Atributo})
}

func (c *Consola) desplazar(base uint32) {
	fila := Columnas * 2
	buf := make([]byte, TamPantalla-fila)
	c.mem.LeerFisica(base+uint32(fila), buf)
	c.mem.EscribirFisica(base, buf)
	c.mem.EscribirFisica(base+uint32(TamPantalla-fila), filaVacia())
}

func (c *Consola) borrar(base uint32) {
	vacia := filaVacia()
	for y := 0; y < Filas; y++ {
		c.mem.EscribirFisica(base+uint32(y*Columnas*2), vacia)
	}
}

func filaVacia() []byte {
	fila := make([]byte, Columnas*2)
	for i := 0; i < len(fila); i += 2 {
		fila[i] = ' '
		fila[i+1] = Atributo
	}
	return fila
}
