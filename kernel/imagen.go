package kernel

import (
	"encoding/binary"

	"github.com/sisoputnfrba/tp-2025-2c-LosCuervosXeneizes/memoria"
)

const (
	// MagiaEjecutable son los primeros cuatro bytes de todo ejecutable
	MagiaEjecutable = "\x7fELF"
	OffsetEntrada   = 24
	TamCabecera     = 52
)

// ConstruirEjecutable arma una imagen con cabecera ELF mínima: la magia, el
// punto de entrada en el offset 24 y el cuerpo a continuación.
func ConstruirEjecutable(entrada uint32, cuerpo []byte) []byte {
	imagen := make([]byte, TamCabecera+len(cuerpo))
	copy(imagen, MagiaEjecutable)
	imagen[4] = 1 // 32 bits
	imagen[5] = 1 // little endian
	imagen[6] = 1
	binary.LittleEndian.PutUint16(imagen[16:18], 2) // ET_EXEC
	binary.LittleEndian.PutUint16(imagen[18:20], 3) // EM_386
	binary.LittleEndian.PutUint32(imagen[20:24], 1)
	binary.LittleEndian.PutUint32(imagen[OffsetEntrada:OffsetEntrada+4], entrada)
	binary.LittleEndian.PutUint16(imagen[40:42], TamCabecera)
	copy(imagen[TamCabecera:], cuerpo)
	return imagen
}

// EntradaPrograma es el punto de entrada que corresponde al i-ésimo programa
// de un registro; cae dentro de la imagen cargada.
func EntradaPrograma(i int) uint32 {
	return memoria.DireccionCarga + TamCabecera + uint32(i)*0x10
}
