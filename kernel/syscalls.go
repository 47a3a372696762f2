package kernel

import (
	"fmt"

	"github.com/sisoputnfrba/tp-2025-2c-LosCuervosXeneizes/dispositivos"
	"github.com/sisoputnfrba/tp-2025-2c-LosCuervosXeneizes/memoria"
	"github.com/sisoputnfrba/tp-2025-2c-LosCuervosXeneizes/utils"
)

// Syscall es el número que selecciona la llamada al sistema
type Syscall uint32

const (
	SysHalt Syscall = iota + 1
	SysExecute
	SysRead
	SysWrite
	SysOpen
	SysClose
	SysGetargs
	SysVidmap
	SysSetHandler
	SysSigreturn
)

var nombresSyscall = map[Syscall]string{
	SysHalt:       "HALT",
	SysExecute:    "EXECUTE",
	SysRead:       "READ",
	SysWrite:      "WRITE",
	SysOpen:       "OPEN",
	SysClose:      "CLOSE",
	SysGetargs:    "GETARGS",
	SysVidmap:     "VIDMAP",
	SysSetHandler: "SET_HANDLER",
	SysSigreturn:  "SIGRETURN",
}

func (s Syscall) String() string {
	if nombre, ok := nombresSyscall[s]; ok {
		return nombre
	}
	return fmt.Sprintf("SYSCALL(%d)", uint32(s))
}

const (
	// TamComando es el largo máximo de la línea que recibe execute
	TamComando = dispositivos.TamBufferTeclado
	// Ninguna transferencia puede exceder la región de usuario
	maxTransferencia = memoria.TamPaginaGrande
)

// LlamadaSistema es la única entrada privilegiada. Devuelve un valor no
// negativo o -1 ante cualquier error. SysHalt no vuelve.
func (k *Kernel) LlamadaSistema(num Syscall, a1, a2, a3 uint32) int32 {
	switch num {
	case SysHalt:
		k.halt(int32(a1 & 0xFF))
		return 0

	case SysExecute:
		comando, err := k.leerCadena(a1, TamComando)
		if err != nil {
			return k.fallo(num, err)
		}
		if len(comando) > TamComando {
			return k.fallo(num, fmt.Errorf("%w: comando de más de %d bytes", ErrArgumentoInvalido, TamComando))
		}
		return k.execute(comando)

	case SysRead:
		n, err := k.read(int(int32(a1)), a2, int32(a3))
		return k.resultado(num, n, err)

	case SysWrite:
		n, err := k.write(int(int32(a1)), a2, int32(a3))
		return k.resultado(num, n, err)

	case SysOpen:
		nombre, err := k.leerCadena(a1, LargoNombre)
		if err != nil {
			return k.fallo(num, err)
		}
		fd, err := k.open(nombre)
		return k.resultado(num, fd, err)

	case SysClose:
		return k.resultado(num, 0, k.close(int(int32(a1))))

	case SysGetargs:
		return k.resultado(num, 0, k.getargs(a1, int32(a2)))

	case SysVidmap:
		dir, err := k.vidmap(a1)
		return k.resultado(num, int(dir), err)

	case SysSetHandler, SysSigreturn:
		// No hay entrega de señales: se aceptan y no hacen nada
		return 0

	default:
		return k.fallo(num, fmt.Errorf("%w: llamada %d inexistente", ErrArgumentoInvalido, uint32(num)))
	}
}

func (k *Kernel) resultado(num Syscall, n int, err error) int32 {
	if err != nil {
		return k.fallo(num, err)
	}
	return int32(n)
}

func (k *Kernel) fallo(num Syscall, err error) int32 {
	utils.InfoLog.Debug("Llamada al sistema fallida", "pid", k.pidActual(), "syscall", num.String(), "error", err)
	return -1
}

// leerCadena lee una cadena terminada en NUL de memoria de usuario. Si no
// termina dentro de max bytes la devuelve con max+1 bytes para que el que
// llama la rechace por larga.
func (k *Kernel) leerCadena(dir uint32, max int) (string, error) {
	if dir == 0 {
		return "", fmt.Errorf("%w: puntero nulo", ErrArgumentoInvalido)
	}
	s, err := k.paginacion.LeerCadenaUsuario(dir, max+1)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrArgumentoInvalido, err)
	}
	return s, nil
}

// descriptorES aplica la política común de rechazo de read y write
func (k *Kernel) descriptorES(fd int, buf uint32, n int32) (*Descriptor, error) {
	if fd < 0 || fd >= CantDescriptores {
		return nil, fmt.Errorf("%w: fd %d", ErrDescriptorInvalido, fd)
	}
	if buf == 0 || n < 0 {
		return nil, fmt.Errorf("%w: buffer %#x, %d bytes", ErrArgumentoInvalido, buf, n)
	}
	if int(n) > maxTransferencia {
		return nil, fmt.Errorf("%w: %d bytes", ErrArgumentoInvalido, n)
	}
	d, err := k.tabla.Descriptor(k.pidActual(), fd)
	if err != nil {
		return nil, err
	}
	if !d.EnUso {
		return nil, fmt.Errorf("%w: fd %d cerrado", ErrDescriptorInvalido, fd)
	}
	return d, nil
}

func (k *Kernel) read(fd int, buf uint32, n int32) (int, error) {
	d, err := k.descriptorES(fd, buf, n)
	if err != nil {
		return 0, err
	}
	if err := k.paginacion.ValidarUsuario(buf, int(n), true); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrArgumentoInvalido, err)
	}

	datos := make([]byte, n)
	leidos, err := d.Operaciones.Leer(k, d, datos)
	if err != nil {
		return 0, err
	}
	if leidos > 0 {
		if err := k.paginacion.EscribirUsuario(buf, datos[:leidos]); err != nil {
			return 0, fmt.Errorf("%w: %v", ErrArgumentoInvalido, err)
		}
	}
	return leidos, nil
}

func (k *Kernel) write(fd int, buf uint32, n int32) (int, error) {
	d, err := k.descriptorES(fd, buf, n)
	if err != nil {
		return 0, err
	}
	datos := make([]byte, n)
	if err := k.paginacion.LeerUsuario(buf, datos); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrArgumentoInvalido, err)
	}
	return d.Operaciones.Escribir(k, d, datos)
}

func (k *Kernel) open(nombre string) (int, error) {
	if len(nombre) == 0 || len(nombre) > LargoNombre {
		return 0, fmt.Errorf("%w: nombre %q", ErrArgumentoInvalido, nombre)
	}
	entrada, err := k.fs.BuscarPorNombre(nombre)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrDispositivoNoDisponible, err)
	}
	ops, err := capacidadDe(entrada.Tipo)
	if err != nil {
		return 0, err
	}

	anterior := k.cpu.Cli()
	defer k.cpu.Restaurar(anterior)

	pcb := k.pcbActual()
	fd := -1
	for i := 2; i < CantDescriptores; i++ {
		if !pcb.Descriptores[i].EnUso {
			fd = i
			break
		}
	}
	if fd < 0 {
		return 0, fmt.Errorf("%w: no hay descriptores libres", ErrRecursosAgotados)
	}

	d := &pcb.Descriptores[fd]
	*d = Descriptor{Operaciones: ops, EnUso: true}
	if ops.Tipo() == CapArchivo {
		d.Inodo = entrada.Inodo
	}
	if err := ops.Abrir(k, d); err != nil {
		*d = Descriptor{}
		return 0, err
	}

	utils.InfoLog.Debug(fmt.Sprintf("(%d) - Abre %s", pcb.PID, nombre), "fd", fd, "tipo", ops.Tipo().String())
	return fd, nil
}

func (k *Kernel) close(fd int) error {
	if fd < 2 || fd >= CantDescriptores {
		return fmt.Errorf("%w: fd %d no se puede cerrar", ErrDescriptorInvalido, fd)
	}

	anterior := k.cpu.Cli()
	defer k.cpu.Restaurar(anterior)

	d, err := k.tabla.Descriptor(k.pidActual(), fd)
	if err != nil {
		return err
	}
	if !d.EnUso {
		return fmt.Errorf("%w: fd %d ya está cerrado", ErrDescriptorInvalido, fd)
	}
	err = d.Operaciones.Cerrar(k, d)
	*d = Descriptor{}
	return err
}

// getargs copia el argumento con su NUL final si entra en n bytes
func (k *Kernel) getargs(buf uint32, n int32) error {
	pcb := k.pcbActual()
	if pcb.Argumento == "" {
		return fmt.Errorf("%w: el proceso %d no tiene argumentos", ErrArgumentoInvalido, pcb.PID)
	}
	if buf == 0 || n <= 0 {
		return fmt.Errorf("%w: buffer %#x, %d bytes", ErrArgumentoInvalido, buf, n)
	}

	datos := append([]byte(pcb.Argumento), 0)
	if int(n) < len(datos) {
		datos = datos[:n]
	}
	if err := k.paginacion.EscribirUsuario(buf, datos); err != nil {
		return fmt.Errorf("%w: %v", ErrArgumentoInvalido, err)
	}
	return nil
}

func (k *Kernel) vidmap(puntero uint32) (uint32, error) {
	anterior := k.cpu.Cli()
	defer k.cpu.Restaurar(anterior)

	dir, err := k.paginacion.MapearVideoUsuario(puntero, k.consola.Destino())
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrArgumentoInvalido, err)
	}
	utils.InfoLog.Debug(fmt.Sprintf("(%d) - Mapea video", k.pidActual()), "direccion", fmt.Sprintf("%#x", dir))
	return dir, nil
}
