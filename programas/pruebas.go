package programas

import (
	"fmt"
	"strings"

	"github.com/sisoputnfrba/tp-2025-2c-LosCuervosXeneizes/kernel"
	"github.com/sisoputnfrba/tp-2025-2c-LosCuervosXeneizes/memoria"
)

// Sigtest instala manejadores y después provoca una excepción: con "0" un
// fallo de página, con "1" una división por cero.
func Sigtest(u *kernel.Usuario) uint8 {
	modo, r := u.Getargs(kernel.LargoArgumento + 1)
	if r < 0 || (modo != "0" && modo != "1") {
		puts(u, "usage: sigtest [0|1]\n")
		return 1
	}

	if modo == "0" {
		for senal := int32(0); senal < 5; senal++ {
			r := u.SetHandler(senal, kernel.EntradaPrograma(0))
			puts(u, fmt.Sprintf("set_handler(%d) = %d\n", senal, r))
		}
		puts(u, fmt.Sprintf("sigreturn() = %d\n", u.Sigreturn()))
		puts(u, "accessing address 0\n")
		u.Cargar(0, make([]byte, 4))
		return 0
	}

	puts(u, "dividing by zero\n")
	return uint8(u.Dividir(1, 0))
}

type casoSyserr struct {
	nombre string
	prueba func(u *kernel.Usuario) bool
}

var casosSyserr = []casoSyserr{
	{"read fd 9", func(u *kernel.Usuario) bool {
		_, r := u.Read(9, 4)
		return r == -1
	}},
	{"write fd -1", func(u *kernel.Usuario) bool { return u.WriteString(-1, "x") == -1 }},
	{"write stdin", func(u *kernel.Usuario) bool { return u.WriteString(entrada, "x") == -1 }},
	{"read NULL", func(u *kernel.Usuario) bool { return u.Llamar(kernel.SysRead, entrada, 0, 4) == -1 }},
	{"close stdin/stdout", func(u *kernel.Usuario) bool { return u.Close(entrada) == -1 && u.Close(salida) == -1 }},
	{"close unused", func(u *kernel.Usuario) bool { return u.Close(7) == -1 }},
	{"open missing", func(u *kernel.Usuario) bool { return u.Open("nonexistent") == -1 }},
	{"open long name", func(u *kernel.Usuario) bool {
		return u.Open(strings.Repeat("v", kernel.LargoNombre+1)) == -1
	}},
	{"open all fds", func(u *kernel.Usuario) bool {
		var fds []int32
		for i := 2; i < kernel.CantDescriptores; i++ {
			fd := u.Open("frame0.txt")
			if fd < 0 {
				return false
			}
			fds = append(fds, fd)
		}
		ok := u.Open("frame0.txt") == -1
		for _, fd := range fds {
			ok = u.Close(fd) == 0 && ok
		}
		return ok
	}},
	{"write file", func(u *kernel.Usuario) bool {
		fd := u.Open("frame0.txt")
		defer u.Close(fd)
		return fd >= 0 && u.WriteString(fd, "x") == -1
	}},
	{"execute missing", func(u *kernel.Usuario) bool { return u.Execute("nonexistent") == -1 }},
	{"execute text", func(u *kernel.Usuario) bool { return u.Execute("frame0.txt") == -1 }},
	{"vidmap bad pointer", func(u *kernel.Usuario) bool {
		return u.VidmapEn(0) == -1 && u.VidmapEn(memoria.InicioKernel) == -1
	}},
	{"getargs NULL", func(u *kernel.Usuario) bool {
		return u.Llamar(kernel.SysGetargs, 0, kernel.LargoArgumento+1, 0) == -1
	}},
}

// Syserr corre los casos de error de las llamadas al sistema. Con un
// argumento numérico corre solo ese caso.
func Syserr(u *kernel.Usuario) uint8 {
	casos := casosSyserr
	if arg, r := u.Getargs(kernel.LargoArgumento + 1); r == 0 {
		var n int
		if _, err := fmt.Sscanf(arg, "%d", &n); err != nil || n < 0 || n >= len(casosSyserr) {
			puts(u, fmt.Sprintf("usage: syserr [0-%d]\n", len(casosSyserr)-1))
			return 1
		}
		casos = casosSyserr[n : n+1]
	}

	pasaron := 0
	for _, c := range casos {
		if c.prueba(u) {
			pasaron++
			puts(u, "PASS: "+c.nombre+"\n")
		} else {
			puts(u, "FAIL: "+c.nombre+"\n")
		}
	}
	puts(u, fmt.Sprintf("syserr: %d/%d passed\n", pasaron, len(casos)))
	if pasaron != len(casos) {
		return 1
	}
	return 0
}
