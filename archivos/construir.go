package archivos

import (
	"encoding/binary"
	"fmt"
)

// Archivo describe una entrada a incluir al construir una imagen. Los datos
// se ignoran salvo para archivos regulares.
type Archivo struct {
	Nombre string
	Tipo   TipoArchivo
	Datos  []byte
}

// Construir arma una imagen con el mismo formato que lee Montar. Cada
// archivo regular recibe un inodo propio; el directorio y el RTC usan el
// inodo 0, igual que las imágenes del curso.
func Construir(archivos []Archivo) ([]byte, error) {
	if len(archivos) > MaxEntradas {
		return nil, fmt.Errorf("demasiados archivos: %d, máximo %d", len(archivos), MaxEntradas)
	}

	inodos := 0
	bloques := 0
	for _, a := range archivos {
		if len(a.Nombre) == 0 || len(a.Nombre) > LargoNombre {
			return nil, fmt.Errorf("nombre inválido %q", a.Nombre)
		}
		if a.Tipo != TipoRegular {
			continue
		}
		n := (len(a.Datos) + TamBloque - 1) / TamBloque
		if n > BloquesPorInodo {
			return nil, fmt.Errorf("archivo %s demasiado grande: %d bytes", a.Nombre, len(a.Datos))
		}
		inodos++
		bloques += n
	}
	// Siempre hay al menos un inodo para que el 0 exista
	if inodos == 0 {
		inodos = 1
	}

	imagen := make([]byte, (1+inodos+bloques)*TamBloque)
	binary.LittleEndian.PutUint32(imagen[0:4], uint32(len(archivos)))
	binary.LittleEndian.PutUint32(imagen[4:8], uint32(inodos))
	binary.LittleEndian.PutUint32(imagen[8:12], uint32(bloques))

	baseDatos := (1 + inodos) * TamBloque
	sigInodo := 0
	sigBloque := 0
	for i, a := range archivos {
		entrada := imagen[offsetEntradas+i*TamEntrada : offsetEntradas+(i+1)*TamEntrada]
		copy(entrada[:LargoNombre], a.Nombre)
		binary.LittleEndian.PutUint32(entrada[32:36], uint32(a.Tipo))

		if a.Tipo != TipoRegular {
			continue
		}
		binary.LittleEndian.PutUint32(entrada[36:40], uint32(sigInodo))

		inodo := imagen[(1+sigInodo)*TamBloque : (2+sigInodo)*TamBloque]
		binary.LittleEndian.PutUint32(inodo[0:4], uint32(len(a.Datos)))
		for j := 0; j*TamBloque < len(a.Datos); j++ {
			binary.LittleEndian.PutUint32(inodo[4+j*4:8+j*4], uint32(sigBloque))
			fin := (j + 1) * TamBloque
			if fin > len(a.Datos) {
				fin = len(a.Datos)
			}
			copy(imagen[baseDatos+sigBloque*TamBloque:], a.Datos[j*TamBloque:fin])
			sigBloque++
		}
		sigInodo++
	}
	return imagen, nil
}
