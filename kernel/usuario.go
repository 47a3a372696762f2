package kernel

import (
	"encoding/binary"

	"github.com/sisoputnfrba/tp-2025-2c-LosCuervosXeneizes/memoria"
)

// Usuario es lo único que ve un programa: instrucciones que pasan por la
// MMU en modo usuario y la entrada de llamadas al sistema. Los buffers de
// las llamadas se arman en la pila de usuario del proceso.
type Usuario struct {
	k   *Kernel
	pid int
	sp  uint32
}

func nuevoUsuario(k *Kernel, pid int) *Usuario {
	return &Usuario{k: k, pid: pid, sp: memoria.PilaUsuario}
}

func (u *Usuario) PID() int {
	return u.pid
}

// Ciclo ejecuta una instrucción que no toca memoria
func (u *Usuario) Ciclo() {
	u.k.cpu.Ciclo()
}

// Llamar es int 0x80
func (u *Usuario) Llamar(num Syscall, a1, a2, a3 uint32) int32 {
	u.Ciclo()
	return u.k.LlamadaSistema(num, a1, a2, a3)
}

// Cargar lee memoria de usuario; una dirección inválida es un fallo de página
func (u *Usuario) Cargar(dir uint32, buf []byte) {
	u.Ciclo()
	if err := u.k.paginacion.LeerUsuario(dir, buf); err != nil {
		u.k.excepcion(ExcFalloPagina)
	}
}

func (u *Usuario) Guardar(dir uint32, datos []byte) {
	u.Ciclo()
	if err := u.k.paginacion.EscribirUsuario(dir, datos); err != nil {
		u.k.excepcion(ExcFalloPagina)
	}
}

func (u *Usuario) CargarPalabra(dir uint32) uint32 {
	var b [4]byte
	u.Cargar(dir, b[:])
	return binary.LittleEndian.Uint32(b[:])
}

func (u *Usuario) GuardarPalabra(dir uint32, valor uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], valor)
	u.Guardar(dir, b[:])
}

// Dividir es idiv: dividir por cero levanta la excepción 0
func (u *Usuario) Dividir(a, b int32) int32 {
	u.Ciclo()
	if b == 0 {
		u.k.excepcion(ExcDivision)
	}
	return a / b
}

// reservar baja la pila n bytes alineados a 4 y devuelve el nuevo tope
func (u *Usuario) reservar(n int) uint32 {
	tam := uint32((n + 3) &^ 3)
	if n < 0 || u.sp-tam < memoria.InicioUsuario || u.sp < tam {
		u.k.excepcion(ExcFalloPagina)
	}
	u.sp -= tam
	return u.sp
}

// apilar copia datos a la pila; con cadena agrega el NUL final
func (u *Usuario) apilar(datos []byte, cadena bool) uint32 {
	n := len(datos)
	if cadena {
		n++
	}
	dir := u.reservar(n)
	u.Guardar(dir, datos)
	if cadena {
		u.Guardar(dir+uint32(len(datos)), []byte{0})
	}
	return dir
}

// Halt no vuelve
func (u *Usuario) Halt(estado uint8) {
	u.Llamar(SysHalt, uint32(estado), 0, 0)
}

func (u *Usuario) Execute(comando string) int32 {
	marca := u.sp
	defer func() { u.sp = marca }()
	return u.Llamar(SysExecute, u.apilar([]byte(comando), true), 0, 0)
}

// Read devuelve lo leído y el resultado crudo de la llamada
func (u *Usuario) Read(fd int32, n int) ([]byte, int32) {
	marca := u.sp
	defer func() { u.sp = marca }()

	buf := u.reservar(n)
	r := u.Llamar(SysRead, uint32(fd), buf, uint32(n))
	if r <= 0 {
		return nil, r
	}
	datos := make([]byte, r)
	u.Cargar(buf, datos)
	return datos, r
}

func (u *Usuario) Write(fd int32, datos []byte) int32 {
	marca := u.sp
	defer func() { u.sp = marca }()
	return u.Llamar(SysWrite, uint32(fd), u.apilar(datos, false), uint32(len(datos)))
}

func (u *Usuario) WriteString(fd int32, s string) int32 {
	return u.Write(fd, []byte(s))
}

func (u *Usuario) Open(nombre string) int32 {
	marca := u.sp
	defer func() { u.sp = marca }()
	return u.Llamar(SysOpen, u.apilar([]byte(nombre), true), 0, 0)
}

func (u *Usuario) Close(fd int32) int32 {
	return u.Llamar(SysClose, uint32(fd), 0, 0)
}

// Getargs devuelve el argumento hasta el primer NUL
func (u *Usuario) Getargs(n int) (string, int32) {
	marca := u.sp
	defer func() { u.sp = marca }()

	buf := u.reservar(n)
	r := u.Llamar(SysGetargs, buf, uint32(n), 0)
	if r < 0 {
		return "", r
	}
	datos := make([]byte, n)
	u.Cargar(buf, datos)
	for i, b := range datos {
		if b == 0 {
			datos = datos[:i]
			break
		}
	}
	return string(datos), r
}

// Vidmap pide el mapeo de video usando una variable en la pila
func (u *Usuario) Vidmap() (uint32, int32) {
	marca := u.sp
	defer func() { u.sp = marca }()

	dir := u.reservar(4)
	r := u.Llamar(SysVidmap, dir, 0, 0)
	if r < 0 {
		return 0, r
	}
	return u.CargarPalabra(dir), r
}

// VidmapEn pasa un puntero arbitrario
func (u *Usuario) VidmapEn(puntero uint32) int32 {
	return u.Llamar(SysVidmap, puntero, 0, 0)
}

func (u *Usuario) SetHandler(senal int32, manejador uint32) int32 {
	return u.Llamar(SysSetHandler, uint32(senal), manejador, 0)
}

func (u *Usuario) Sigreturn() int32 {
	return u.Llamar(SysSigreturn, 0, 0, 0)
}
