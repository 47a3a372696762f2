package programas

import (
	"github.com/sisoputnfrba/tp-2025-2c-LosCuervosXeneizes/kernel"
)

const Prompt = "391OS> "

// Shell lee comandos y los ejecuta hasta recibir exit
func Shell(u *kernel.Usuario) uint8 {
	for {
		puts(u, Prompt)
		linea, ok := leerLinea(u)
		if !ok {
			puts(u, "read from keyboard failed\n")
			return 3
		}
		if linea == "exit" {
			return 0
		}
		if linea == "" {
			continue
		}

		switch estado := u.Execute(linea); {
		case estado == -1:
			puts(u, "no such command\n")
		case estado == kernel.EstadoExcepcion:
			puts(u, "program terminated by exception\n")
		case estado != 0:
			puts(u, "program terminated abnormally\n")
		}
	}
}
