package programas

import (
	"encoding/binary"
	"strings"

	"github.com/sisoputnfrba/tp-2025-2c-LosCuervosXeneizes/kernel"
)

const (
	entrada = 0
	salida  = 1

	tamLinea = 128
)

func puts(u *kernel.Usuario, s string) {
	u.WriteString(salida, s)
}

// leerLinea lee una línea del teclado sin el '\n'
func leerLinea(u *kernel.Usuario) (string, bool) {
	datos, r := u.Read(entrada, tamLinea)
	if r < 0 {
		return "", false
	}
	return strings.TrimSuffix(string(datos), "\n"), true
}

// leerArchivo devuelve el contenido completo de un archivo
func leerArchivo(u *kernel.Usuario, nombre string) ([]byte, bool) {
	fd := u.Open(nombre)
	if fd < 0 {
		return nil, false
	}
	defer u.Close(fd)

	var contenido []byte
	for {
		datos, r := u.Read(fd, 1024)
		if r < 0 {
			return nil, false
		}
		if r == 0 {
			return contenido, true
		}
		contenido = append(contenido, datos...)
	}
}

// abrirRTC abre el reloj y lo deja en frecuencia Hz
func abrirRTC(u *kernel.Usuario, frecuencia uint32) (int32, bool) {
	fd := u.Open("rtc")
	if fd < 0 {
		return -1, false
	}
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], frecuencia)
	if u.Write(fd, b[:]) < 0 {
		u.Close(fd)
		return -1, false
	}
	return fd, true
}

func esperarRTC(u *kernel.Usuario, fd int32) {
	u.Read(fd, 4)
}
