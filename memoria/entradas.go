package memoria

import "fmt"

// Entrada es una entrada de directorio o de tabla de páginas con el mismo
// empaquetado de bits que usa el hardware.
type Entrada uint32

// Bandera es uno de los bits bajos de una Entrada
type Bandera uint32

const (
	Presente         Bandera = 1 << 0
	Escritura        Bandera = 1 << 1
	Usuario          Bandera = 1 << 2
	EscrituraDirecta Bandera = 1 << 3
	SinCache         Bandera = 1 << 4
	Accedida         Bandera = 1 << 5
	Sucia            Bandera = 1 << 6
	PaginaGrande     Bandera = 1 << 7
	Global           Bandera = 1 << 8

	mascaraBase       = 0xFFFFF000
	mascaraBaseGrande = 0xFFC00000
)

// NuevaEntrada arma una entrada; base tiene que estar alineada al tamaño de página
func NuevaEntrada(base uint32, banderas Bandera) Entrada {
	if banderas&PaginaGrande != 0 {
		return Entrada(base&mascaraBaseGrande) | Entrada(banderas)
	}
	return Entrada(base&mascaraBase) | Entrada(banderas)
}

func (e Entrada) Tiene(b Bandera) bool { return uint32(e)&uint32(b) != 0 }

func (e Entrada) Presente() bool { return e.Tiene(Presente) }
func (e Entrada) Grande() bool   { return e.Tiene(PaginaGrande) }

// Base devuelve la dirección física apuntada
func (e Entrada) Base() uint32 {
	if e.Grande() {
		return uint32(e) & mascaraBaseGrande
	}
	return uint32(e) & mascaraBase
}

func (e Entrada) String() string {
	if !e.Presente() {
		return "no presente"
	}
	permisos := "R"
	if e.Tiene(Escritura) {
		permisos += "W"
	}
	if e.Tiene(Usuario) {
		permisos += "U"
	}
	tam := "4K"
	if e.Grande() {
		tam = "4M"
	}
	return fmt.Sprintf("%#08x %s %s", e.Base(), tam, permisos)
}
