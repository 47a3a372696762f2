// Package programas tiene los programas de usuario de la máquina y la imagen
// del sistema de archivos con la que arranca por defecto.
package programas

import (
	"github.com/sisoputnfrba/tp-2025-2c-LosCuervosXeneizes/archivos"
	"github.com/sisoputnfrba/tp-2025-2c-LosCuervosXeneizes/kernel"
)

type definicion struct {
	nombre   string
	programa kernel.Programa
}

// El orden fija el punto de entrada de cada programa
var definiciones = []definicion{
	{"shell", Shell},
	{"ls", Ls},
	{"cat", Cat},
	{"grep", Grep},
	{"hello", Hello},
	{"counter", Counter},
	{"testprint", Testprint},
	{"pingpong", Pingpong},
	{"fish", Fish},
	{"sigtest", Sigtest},
	{"syserr", Syserr},
}

// Registro relaciona cada punto de entrada con su código
func Registro() map[uint32]kernel.Programa {
	registro := make(map[uint32]kernel.Programa, len(definiciones))
	for i, d := range definiciones {
		registro[kernel.EntradaPrograma(i)] = d.programa
	}
	return registro
}

// Nombres devuelve los nombres de los programas en orden de registro
func Nombres() []string {
	nombres := make([]string, len(definiciones))
	for i, d := range definiciones {
		nombres[i] = d.nombre
	}
	return nombres
}

// Archivos devuelve todas las entradas de la imagen por defecto
func Archivos() []archivos.Archivo {
	lista := []archivos.Archivo{
		{Nombre: ".", Tipo: archivos.TipoDirectorio},
		{Nombre: "rtc", Tipo: archivos.TipoRTC},
	}
	for i, d := range definiciones {
		lista = append(lista, archivos.Archivo{
			Nombre: d.nombre,
			Tipo:   archivos.TipoRegular,
			Datos:  kernel.ConstruirEjecutable(kernel.EntradaPrograma(i), []byte(d.nombre)),
		})
	}
	for _, texto := range textos {
		lista = append(lista, archivos.Archivo{
			Nombre: texto.nombre,
			Tipo:   archivos.TipoRegular,
			Datos:  []byte(texto.contenido),
		})
	}
	return lista
}

// Imagen construye la imagen por defecto
func Imagen() ([]byte, error) {
	return archivos.Construir(Archivos())
}

// SistemaArchivos monta la imagen por defecto
func SistemaArchivos() (*archivos.SistemaArchivos, error) {
	img, err := Imagen()
	if err != nil {
		return nil, err
	}
	return archivos.Montar(img)
}
