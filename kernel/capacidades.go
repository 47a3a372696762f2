package kernel

import (
	"encoding/binary"
	"fmt"

	"github.com/sisoputnfrba/tp-2025-2c-LosCuervosXeneizes/archivos"
)

// TipoCapacidad identifica la variante de Operaciones ligada a un descriptor
type TipoCapacidad int

const (
	CapConsola TipoCapacidad = iota
	CapRTC
	CapDirectorio
	CapArchivo
)

func (t TipoCapacidad) String() string {
	switch t {
	case CapConsola:
		return "CONSOLA"
	case CapRTC:
		return "RTC"
	case CapDirectorio:
		return "DIRECTORIO"
	case CapArchivo:
		return "ARCHIVO"
	default:
		return fmt.Sprintf("CAPACIDAD(%d)", int(t))
	}
}

// Operaciones es lo que un descriptor sabe hacer. Leer y Escribir trabajan
// sobre buffers del kernel; el gateway copia desde y hacia el usuario.
type Operaciones interface {
	Tipo() TipoCapacidad
	Abrir(k *Kernel, d *Descriptor) error
	Cerrar(k *Kernel, d *Descriptor) error
	Leer(k *Kernel, d *Descriptor, buf []byte) (int, error)
	Escribir(k *Kernel, d *Descriptor, datos []byte) (int, error)
}

// capacidadDe elige las operaciones según el tipo de la entrada de directorio
func capacidadDe(tipo archivos.TipoArchivo) (Operaciones, error) {
	switch tipo {
	case archivos.TipoRTC:
		return dispositivoRTC{}, nil
	case archivos.TipoDirectorio:
		return directorio{}, nil
	case archivos.TipoRegular:
		return archivoRegular{}, nil
	default:
		return nil, fmt.Errorf("%w: tipo de archivo %v", ErrDispositivoNoDisponible, tipo)
	}
}

// sinApertura lo embeben las capacidades que no hacen nada al abrir o cerrar
type sinApertura struct{}

func (sinApertura) Abrir(*Kernel, *Descriptor) error  { return nil }
func (sinApertura) Cerrar(*Kernel, *Descriptor) error { return nil }

type soloLectura struct{}

func (soloLectura) Escribir(*Kernel, *Descriptor, []byte) (int, error) {
	return 0, fmt.Errorf("%w: escritura", ErrNoSoportado)
}

type soloEscritura struct{}

func (soloEscritura) Leer(*Kernel, *Descriptor, []byte) (int, error) {
	return 0, fmt.Errorf("%w: lectura", ErrNoSoportado)
}

// entradaConsola es el fd 0: la línea del teclado de la terminal del proceso
type entradaConsola struct {
	sinApertura
	soloLectura
}

func (entradaConsola) Tipo() TipoCapacidad { return CapConsola }

func (entradaConsola) Leer(k *Kernel, d *Descriptor, buf []byte) (int, error) {
	terminal := k.terminalEjecutando
	for {
		if linea, ok := k.teclado.Tomar(terminal, len(buf)); ok {
			return copy(buf, linea), nil
		}
		k.cpu.Ciclo()
	}
}

// salidaConsola es el fd 1: la pantalla de la terminal que ejecuta
type salidaConsola struct {
	sinApertura
	soloEscritura
}

func (salidaConsola) Tipo() TipoCapacidad { return CapConsola }

func (salidaConsola) Escribir(k *Kernel, d *Descriptor, datos []byte) (int, error) {
	return k.consola.Escribir(datos), nil
}

type dispositivoRTC struct{}

func (dispositivoRTC) Tipo() TipoCapacidad { return CapRTC }

func (dispositivoRTC) Abrir(k *Kernel, d *Descriptor) error {
	k.rtc.Abrir(k.terminalEjecutando)
	return nil
}

func (dispositivoRTC) Cerrar(k *Kernel, d *Descriptor) error {
	k.rtc.Cerrar(k.terminalEjecutando)
	return nil
}

// Leer bloquea hasta la próxima interrupción virtual de la terminal
func (dispositivoRTC) Leer(k *Kernel, d *Descriptor, buf []byte) (int, error) {
	terminal := k.terminalEjecutando
	for !k.rtc.Consumir(terminal) {
		k.cpu.Ciclo()
	}
	return 0, nil
}

// Escribir recibe la frecuencia como entero de 4 bytes
func (dispositivoRTC) Escribir(k *Kernel, d *Descriptor, datos []byte) (int, error) {
	if len(datos) != 4 {
		return 0, fmt.Errorf("%w: frecuencia de %d bytes", ErrArgumentoInvalido, len(datos))
	}
	frecuencia := binary.LittleEndian.Uint32(datos)
	if err := k.rtc.FijarFrecuencia(k.terminalEjecutando, frecuencia); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrArgumentoInvalido, err)
	}
	return 0, nil
}

// directorio devuelve un nombre por lectura; la posición es el índice de entrada
type directorio struct {
	soloLectura
}

func (directorio) Tipo() TipoCapacidad { return CapDirectorio }

func (directorio) Abrir(k *Kernel, d *Descriptor) error {
	d.Posicion = 0
	return nil
}

func (directorio) Cerrar(*Kernel, *Descriptor) error { return nil }

func (directorio) Leer(k *Kernel, d *Descriptor, buf []byte) (int, error) {
	entrada, err := k.fs.BuscarPorIndice(d.Posicion)
	if err != nil {
		// fin del directorio
		return 0, nil
	}
	d.Posicion++
	nombre := entrada.Nombre
	if len(nombre) > LargoNombre {
		nombre = nombre[:LargoNombre]
	}
	return copy(buf, nombre), nil
}

type archivoRegular struct {
	sinApertura
	soloLectura
}

func (archivoRegular) Tipo() TipoCapacidad { return CapArchivo }

func (archivoRegular) Leer(k *Kernel, d *Descriptor, buf []byte) (int, error) {
	n, err := k.fs.LeerDatos(d.Inodo, d.Posicion, buf)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrDispositivoNoDisponible, err)
	}
	d.Posicion += uint32(n)
	return n, nil
}
