package dispositivos

import (
	"fmt"
	"image"
	"image/color"
	"io"

	"github.com/fogleman/gg"
	"golang.org/x/image/font/basicfont"
)

const (
	anchoCelda = 7
	altoCelda  = 13
)

// paleta VGA de 16 colores indexada por los nibbles del atributo
var paleta = [16]color.RGBA{
	{0x00, 0x00, 0x00, 0xFF}, {0x00, 0x00, 0xAA, 0xFF}, {0x00, 0xAA, 0x00, 0xFF}, {0x00, 0xAA, 0xAA, 0xFF},
	{0xAA, 0x00, 0x00, 0xFF}, {0xAA, 0x00, 0xAA, 0xFF}, {0xAA, 0x55, 0x00, 0xFF}, {0xAA, 0xAA, 0xAA, 0xFF},
	{0x55, 0x55, 0x55, 0xFF}, {0x55, 0x55, 0xFF, 0xFF}, {0x55, 0xFF, 0x55, 0xFF}, {0x55, 0xFF, 0xFF, 0xFF},
	{0xFF, 0x55, 0x55, 0xFF}, {0xFF, 0x55, 0xFF, 0xFF}, {0xFF, 0xFF, 0x55, 0xFF}, {0xFF, 0xFF, 0xFF, 0xFF},
}

// Renderizar dibuja las celdas de una pantalla de texto con la fuente 7x13
func Renderizar(celdas []byte) (image.Image, error) {
	if len(celdas) != TamPantalla {
		return nil, fmt.Errorf("pantalla de %d bytes, se esperaban %d", len(celdas), TamPantalla)
	}

	dc := gg.NewContext(Columnas*anchoCelda, Filas*altoCelda)
	dc.SetColor(paleta[0])
	dc.Clear()
	dc.SetFontFace(basicfont.Face7x13)

	ascenso := float64(basicfont.Face7x13.Ascent)
	for y := 0; y < Filas; y++ {
		for x := 0; x < Columnas; x++ {
			i := (y*Columnas + x) * 2
			caracter, atributo := celdas[i], celdas[i+1]
			px, py := float64(x*anchoCelda), float64(y*altoCelda)

			if fondo := atributo >> 4 & 0x7; fondo != 0 {
				dc.SetColor(paleta[fondo])
				dc.DrawRectangle(px, py, anchoCelda, altoCelda)
				dc.Fill()
			}
			if caracter <= ' ' || caracter >= 0x7F {
				continue
			}
			dc.SetColor(paleta[atributo&0xF])
			dc.DrawString(string(rune(caracter)), px, py+ascenso)
		}
	}
	return dc.Image(), nil
}

// Capturar escribe en w el PNG de la pantalla de una terminal
func (c *Consola) Capturar(terminal int, w io.Writer) error {
	img, err := Renderizar(c.Celdas(terminal))
	if err != nil {
		return err
	}
	return CodificarPNG(img, w)
}

// CodificarPNG escribe img en w
func CodificarPNG(img image.Image, w io.Writer) error {
	return gg.NewContextForImage(img).EncodePNG(w)
}

// GuardarCaptura renderiza una pantalla ya copiada y la guarda como PNG en ruta
func GuardarCaptura(celdas []byte, ruta string) error {
	img, err := Renderizar(celdas)
	if err != nil {
		return err
	}
	return gg.SavePNG(ruta, img)
}
