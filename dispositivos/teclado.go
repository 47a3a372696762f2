package dispositivos

import "strings"

const (
	TamBufferTeclado = 128
	MaxHistorial     = 10
)

// TipoTecla distingue los caracteres de las teclas con función propia
type TipoTecla int

const (
	TeclaCaracter TipoTecla = iota
	TeclaEnter
	TeclaRetroceso
	TeclaTab
	TeclaArriba
	TeclaAbajo
	TeclaLimpiar  // Ctrl+L
	TeclaTerminal // Alt+F1..F3
)

var nombresTecla = map[TipoTecla]string{
	TeclaCaracter:  "CARACTER",
	TeclaEnter:     "ENTER",
	TeclaRetroceso: "RETROCESO",
	TeclaTab:       "TAB",
	TeclaArriba:    "ARRIBA",
	TeclaAbajo:     "ABAJO",
	TeclaLimpiar:   "LIMPIAR",
	TeclaTerminal:  "TERMINAL",
}

func (t TipoTecla) String() string {
	if nombre, ok := nombresTecla[t]; ok {
		return nombre
	}
	return "DESCONOCIDA"
}

// TipoTeclaDe es la inversa de String; la usan las terminales remotas
func TipoTeclaDe(nombre string) (TipoTecla, bool) {
	for t, n := range nombresTecla {
		if n == strings.ToUpper(nombre) {
			return t, true
		}
	}
	return 0, false
}

// Tecla es un evento ya decodificado del teclado
type Tecla struct {
	Tipo     TipoTecla
	Caracter byte
	Terminal int
}

type lineaTeclado struct {
	datos        []byte
	lista        bool
	historial    [][]byte
	posHistorial int
}

// Teclado mantiene la línea en edición de cada terminal. La línea queda
// lista con Enter y la consume la lectura de la terminal.
type Teclado struct {
	lineas [CantTerminales]lineaTeclado
}

func NuevoTeclado() *Teclado {
	return &Teclado{}
}

// Agregar suma un caracter si entra; deja lugar para el '\n' final
func (t *Teclado) Agregar(terminal int, b byte) bool {
	l := &t.lineas[terminal]
	if l.lista || len(l.datos) >= TamBufferTeclado-1 {
		return false
	}
	l.datos = append(l.datos, b)
	return true
}

// Enter cierra la línea y la guarda en el historial
func (t *Teclado) Enter(terminal int) bool {
	l := &t.lineas[terminal]
	if l.lista {
		return false
	}
	if len(l.datos) > 0 {
		l.historial = append(l.historial, append([]byte(nil), l.datos...))
		if len(l.historial) > MaxHistorial {
			l.historial = l.historial[1:]
		}
	}
	l.posHistorial = len(l.historial)
	l.datos = append(l.datos, '\n')
	l.lista = true
	return true
}

func (t *Teclado) Retroceso(terminal int) bool {
	l := &t.lineas[terminal]
	if l.lista || len(l.datos) == 0 {
		return false
	}
	l.datos = l.datos[:len(l.datos)-1]
	return true
}

func (t *Teclado) LineaLista(terminal int) bool {
	return t.lineas[terminal].lista
}

// Linea devuelve lo escrito hasta ahora
func (t *Teclado) Linea(terminal int) []byte {
	return t.lineas[terminal].datos
}

// Tomar devuelve hasta n bytes de la línea lista, incluido el '\n', y vacía el buffer
func (t *Teclado) Tomar(terminal int, n int) ([]byte, bool) {
	l := &t.lineas[terminal]
	if !l.lista {
		return nil, false
	}
	if n > len(l.datos) {
		n = len(l.datos)
	}
	linea := append([]byte(nil), l.datos[:n]...)
	l.datos = l.datos[:0]
	l.lista = false
	return linea, true
}

// Historial reemplaza la línea en edición por la anterior (arriba) o la
// siguiente. Devuelve cuántos caracteres había para que se borren en pantalla.
func (t *Teclado) Historial(terminal int, arriba bool) (borrar int, nueva []byte, ok bool) {
	l := &t.lineas[terminal]
	if l.lista || len(l.historial) == 0 {
		return 0, nil, false
	}

	pos := l.posHistorial
	if arriba {
		if pos == 0 {
			return 0, nil, false
		}
		pos--
	} else {
		if pos >= len(l.historial) {
			return 0, nil, false
		}
		pos++
	}
	l.posHistorial = pos

	borrar = len(l.datos)
	if pos == len(l.historial) {
		l.datos = l.datos[:0]
	} else {
		l.datos = append(l.datos[:0], l.historial[pos]...)
	}
	return borrar, l.datos, true
}

// Autocompletar completa la última palabra contra nombres y devuelve lo que
// se agregó. Con varias coincidencias agrega el prefijo común.
func (t *Teclado) Autocompletar(terminal int, nombres []string) []byte {
	l := &t.lineas[terminal]
	if l.lista {
		return nil
	}
	inicio := strings.LastIndexByte(string(l.datos), ' ') + 1
	palabra := string(l.datos[inicio:])

	comun := ""
	encontrado := false
	for _, nombre := range nombres {
		if !strings.HasPrefix(nombre, palabra) {
			continue
		}
		if !encontrado {
			comun, encontrado = nombre, true
			continue
		}
		comun = prefijoComun(comun, nombre)
	}
	if !encontrado || len(comun) == len(palabra) {
		return nil
	}

	agregado := []byte(comun[len(palabra):])
	if libre := TamBufferTeclado - 1 - len(l.datos); len(agregado) > libre {
		agregado = agregado[:libre]
	}
	l.datos = append(l.datos, agregado...)
	return agregado
}

func prefijoComun(a, b string) string {
	i := 0
	for i < len(a) && i < len(b) && a[i] == b[i] {
		i++
	}
	return a[:i]
}
