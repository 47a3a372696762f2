// Package archivos implementa el sistema de archivos de solo lectura que usa
// el kernel: un bloque de arranque con las entradas de directorio, un bloque
// por inodo y bloques de datos de 4KB.
package archivos

import (
	"encoding/binary"
	"errors"
	"fmt"
	"os"
)

const (
	TamBloque       = 4096
	TamEntrada      = 64
	LargoNombre     = 32
	MaxEntradas     = 63
	BloquesPorInodo = (TamBloque / 4) - 1

	offsetEntradas = 64
)

// TipoArchivo es el tipo guardado en cada entrada de directorio
type TipoArchivo uint32

const (
	TipoRTC        TipoArchivo = 0
	TipoDirectorio TipoArchivo = 1
	TipoRegular    TipoArchivo = 2
)

func (t TipoArchivo) String() string {
	switch t {
	case TipoRTC:
		return "RTC"
	case TipoDirectorio:
		return "DIRECTORIO"
	case TipoRegular:
		return "REGULAR"
	default:
		return fmt.Sprintf("TIPO(%d)", uint32(t))
	}
}

var (
	ErrNoEncontrado   = errors.New("archivo no encontrado")
	ErrImagenInvalida = errors.New("imagen de sistema de archivos inválida")
	ErrFueraDeRango   = errors.New("índice fuera de rango")
)

// Entrada es una entrada de directorio ya decodificada
type Entrada struct {
	Nombre string
	Tipo   TipoArchivo
	Inodo  uint32
}

// SistemaArchivos lee sobre una imagen en memoria; nunca la modifica
type SistemaArchivos struct {
	imagen       []byte
	cantEntradas uint32
	cantInodos   uint32
	cantBloques  uint32
}

// Montar valida el bloque de arranque de la imagen
func Montar(imagen []byte) (*SistemaArchivos, error) {
	if len(imagen) < TamBloque {
		return nil, fmt.Errorf("%w: %d bytes, menos que un bloque", ErrImagenInvalida, len(imagen))
	}

	s := &SistemaArchivos{
		imagen:       imagen,
		cantEntradas: binary.LittleEndian.Uint32(imagen[0:4]),
		cantInodos:   binary.LittleEndian.Uint32(imagen[4:8]),
		cantBloques:  binary.LittleEndian.Uint32(imagen[8:12]),
	}

	if s.cantEntradas > MaxEntradas {
		return nil, fmt.Errorf("%w: %d entradas de directorio", ErrImagenInvalida, s.cantEntradas)
	}
	esperado := uint64(1+s.cantInodos+s.cantBloques) * TamBloque
	if uint64(len(imagen)) < esperado {
		return nil, fmt.Errorf("%w: se esperaban %d bytes y hay %d", ErrImagenInvalida, esperado, len(imagen))
	}
	return s, nil
}

// Cargar lee la imagen desde disco y la monta
func Cargar(ruta string) (*SistemaArchivos, error) {
	imagen, err := os.ReadFile(ruta)
	if err != nil {
		return nil, fmt.Errorf("error leyendo imagen %s: %w", ruta, err)
	}
	return Montar(imagen)
}

// Cantidad devuelve la cantidad de entradas de directorio
func (s *SistemaArchivos) Cantidad() uint32 {
	return s.cantEntradas
}

// BuscarPorNombre compara como mucho LargoNombre bytes, igual que el nombre
// almacenado que no lleva terminador cuando ocupa los 32 bytes.
func (s *SistemaArchivos) BuscarPorNombre(nombre string) (Entrada, error) {
	if len(nombre) == 0 || len(nombre) > LargoNombre {
		return Entrada{}, fmt.Errorf("%w: %q", ErrNoEncontrado, nombre)
	}
	for i := uint32(0); i < s.cantEntradas; i++ {
		e := s.entrada(i)
		if e.Nombre == nombre {
			return e, nil
		}
	}
	return Entrada{}, fmt.Errorf("%w: %q", ErrNoEncontrado, nombre)
}

// BuscarPorIndice devuelve la i-ésima entrada del directorio
func (s *SistemaArchivos) BuscarPorIndice(i uint32) (Entrada, error) {
	if i >= s.cantEntradas {
		return Entrada{}, fmt.Errorf("%w: entrada %d de %d", ErrFueraDeRango, i, s.cantEntradas)
	}
	return s.entrada(i), nil
}

func (s *SistemaArchivos) entrada(i uint32) Entrada {
	base := offsetEntradas + int(i)*TamEntrada
	crudo := s.imagen[base : base+TamEntrada]

	nombre := crudo[:LargoNombre]
	for j, b := range nombre {
		if b == 0 {
			nombre = nombre[:j]
			break
		}
	}
	return Entrada{
		Nombre: string(nombre),
		Tipo:   TipoArchivo(binary.LittleEndian.Uint32(crudo[32:36])),
		Inodo:  binary.LittleEndian.Uint32(crudo[36:40]),
	}
}

// Largo devuelve el tamaño en bytes del archivo de un inodo
func (s *SistemaArchivos) Largo(inodo uint32) (uint32, error) {
	if inodo >= s.cantInodos {
		return 0, fmt.Errorf("%w: inodo %d de %d", ErrFueraDeRango, inodo, s.cantInodos)
	}
	base := (1 + int(inodo)) * TamBloque
	return binary.LittleEndian.Uint32(s.imagen[base : base+4]), nil
}

// LeerDatos copia en buf los bytes del inodo a partir de offset. Devuelve la
// cantidad copiada; 0 significa fin de archivo.
func (s *SistemaArchivos) LeerDatos(inodo, offset uint32, buf []byte) (int, error) {
	largo, err := s.Largo(inodo)
	if err != nil {
		return 0, err
	}
	if offset >= largo {
		return 0, nil
	}

	baseInodo := (1 + int(inodo)) * TamBloque
	baseDatos := (1 + int(s.cantInodos)) * TamBloque

	leidos := 0
	for leidos < len(buf) && offset < largo {
		indice := offset / TamBloque
		if indice >= BloquesPorInodo {
			break
		}
		pos := baseInodo + 4 + int(indice)*4
		bloque := binary.LittleEndian.Uint32(s.imagen[pos : pos+4])
		if bloque >= s.cantBloques {
			return leidos, fmt.Errorf("%w: bloque de datos %d en inodo %d", ErrImagenInvalida, bloque, inodo)
		}

		dentro := offset % TamBloque
		n := TamBloque - dentro
		if resto := largo - offset; resto < n {
			n = resto
		}
		if falta := uint32(len(buf) - leidos); falta < n {
			n = falta
		}

		origen := baseDatos + int(bloque)*TamBloque + int(dentro)
		copy(buf[leidos:], s.imagen[origen:origen+int(n)])
		leidos += int(n)
		offset += n
	}
	return leidos, nil
}

// LeerTodo devuelve el contenido completo del archivo de un inodo
func (s *SistemaArchivos) LeerTodo(inodo uint32) ([]byte, error) {
	largo, err := s.Largo(inodo)
	if err != nil {
		return nil, err
	}
	buf := make([]byte, largo)
	n, err := s.LeerDatos(inodo, 0, buf)
	if err != nil {
		return nil, err
	}
	return buf[:n], nil
}

// Nombres lista los nombres de todas las entradas en orden de directorio
func (s *SistemaArchivos) Nombres() []string {
	nombres := make([]string, 0, s.cantEntradas)
	for i := uint32(0); i < s.cantEntradas; i++ {
		nombres = append(nombres, s.entrada(i).Nombre)
	}
	return nombres
}
