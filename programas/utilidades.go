package programas

import (
	"strconv"
	"strings"

	"github.com/sisoputnfrba/tp-2025-2c-LosCuervosXeneizes/kernel"
)

// Ls lista el directorio, un nombre por línea
func Ls(u *kernel.Usuario) uint8 {
	fd := u.Open(".")
	if fd < 0 {
		puts(u, "directory open failed\n")
		return 2
	}
	for {
		nombre, r := u.Read(fd, kernel.LargoNombre+1)
		if r < 0 {
			puts(u, "directory entry read failed\n")
			return 3
		}
		if r == 0 {
			break
		}
		puts(u, string(nombre)+"\n")
	}
	if u.Close(fd) < 0 {
		puts(u, "directory close failed\n")
		return 2
	}
	return 0
}

// Cat copia a la pantalla el archivo pasado como argumento
func Cat(u *kernel.Usuario) uint8 {
	nombre, r := u.Getargs(1024)
	if r < 0 {
		puts(u, "could not read arguments\n")
		return 3
	}
	fd := u.Open(nombre)
	if fd < 0 {
		puts(u, "file open failed\n")
		return 2
	}
	defer u.Close(fd)

	for {
		datos, r := u.Read(fd, 1024)
		if r < 0 {
			puts(u, "file read failed\n")
			return 3
		}
		if r == 0 {
			return 0
		}
		if u.Write(salida, datos) < 0 {
			return 3
		}
	}
}

// Grep imprime las líneas de cada archivo que contienen el argumento
func Grep(u *kernel.Usuario) uint8 {
	patron, r := u.Getargs(1024)
	if r < 0 {
		puts(u, "could not read arguments\n")
		return 3
	}

	dir := u.Open(".")
	if dir < 0 {
		puts(u, "directory open failed\n")
		return 2
	}
	defer u.Close(dir)

	for {
		nombre, r := u.Read(dir, kernel.LargoNombre+1)
		if r < 0 {
			return 3
		}
		if r == 0 {
			return 0
		}
		if string(nombre) == "." || string(nombre) == "rtc" {
			continue
		}
		contenido, ok := leerArchivo(u, string(nombre))
		if !ok {
			continue
		}
		for _, linea := range strings.Split(string(contenido), "\n") {
			if strings.Contains(linea, patron) {
				puts(u, string(nombre)+":"+linea+"\n")
			}
		}
	}
}

func Hello(u *kernel.Usuario) uint8 {
	puts(u, "Hi, what's your name? ")
	nombre, ok := leerLinea(u)
	if !ok {
		puts(u, "Can't read name from keyboard.\n")
		return 3
	}
	puts(u, "Hello, "+nombre+"\n")
	return 0
}

// Counter cuenta hasta el número que se ingresa, a 32 Hz
func Counter(u *kernel.Usuario) uint8 {
	puts(u, "Enter the Test Number: ")
	linea, ok := leerLinea(u)
	if !ok {
		return 3
	}
	n, err := strconv.Atoi(strings.TrimSpace(linea))
	if err != nil || n < 0 {
		puts(u, "invalid number\n")
		return 2
	}

	rtc, ok := abrirRTC(u, 32)
	if !ok {
		puts(u, "rtc open failed\n")
		return 2
	}
	defer u.Close(rtc)
	for i := 1; i <= n; i++ {
		esperarRTC(u, rtc)
		puts(u, strconv.Itoa(i)+"\n")
	}
	return 0
}

func Testprint(u *kernel.Usuario) uint8 {
	puts(u, "Hi, my name is testprint, and I'm a program running on 391OS\n")
	return 0
}

// Pingpong dibuja una pelota que rebota entre los bordes; no termina
func Pingpong(u *kernel.Usuario) uint8 {
	rtc, ok := abrirRTC(u, 32)
	if !ok {
		puts(u, "rtc open failed\n")
		return 2
	}
	const ancho = 78
	pos, paso := 0, 1
	for {
		puts(u, strings.Repeat(" ", pos)+"o\n")
		esperarRTC(u, rtc)
		if pos+paso < 0 || pos+paso > ancho {
			paso = -paso
		}
		pos += paso
	}
}
