// Package memoria simula la unidad de paginación de la máquina: memoria
// física, directorio y tablas de páginas, TLB y los mapeos que el kernel
// instala para cada proceso.
package memoria

const (
	TamPagina       = 0x1000   // 4KB
	TamPaginaGrande = 0x400000 // 4MB
	EntradasTabla   = 1024

	InicioKernel  = 0x400000
	FinKernel     = 0x800000 // fondo de las pilas de kernel
	TamPilaKernel = 0x2000

	InicioUsuario  = 0x08000000
	FinUsuario     = InicioUsuario + TamPaginaGrande
	DireccionCarga = 0x08048000
	PilaUsuario    = FinUsuario - 4

	VideoFisico  = 0xB8000
	VideoUsuario = 0x40000000

	// Las tablas de páginas viven en memoria de kernel en direcciones fijas
	dirTablaBaja  = 0x401000
	dirTablaVideo = 0x402000
)

var (
	indiceUsuario = InicioUsuario >> 22
	indiceVideo   = VideoUsuario >> 22
)

// MarcoProceso devuelve el marco físico de 4MB de un pid
func MarcoProceso(pid int) uint32 {
	return FinKernel + uint32(pid)*TamPaginaGrande
}

// PilaKernel devuelve el tope de la pila de kernel de un pid
func PilaKernel(pid int) uint32 {
	return FinKernel - TamPilaKernel*uint32(pid+1)
}
