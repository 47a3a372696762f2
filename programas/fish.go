package programas

import (
	"github.com/sisoputnfrba/tp-2025-2c-LosCuervosXeneizes/dispositivos"
	"github.com/sisoputnfrba/tp-2025-2c-LosCuervosXeneizes/kernel"
)

// Fish alterna frame0.txt y frame1.txt escribiendo directo en la memoria de
// video; no termina.
func Fish(u *kernel.Usuario) uint8 {
	video, r := u.Vidmap()
	if r < 0 {
		puts(u, "vidmap failed\n")
		return 2
	}
	rtc, ok := abrirRTC(u, 8)
	if !ok {
		puts(u, "rtc open failed\n")
		return 2
	}

	var cuadros [2][]byte
	for i, nombre := range []string{"frame0.txt", "frame1.txt"} {
		if cuadros[i], ok = leerArchivo(u, nombre); !ok {
			puts(u, "could not read "+nombre+"\n")
			return 2
		}
	}

	for i := 0; ; i ^= 1 {
		dibujar(u, video, cuadros[i])
		esperarRTC(u, rtc)
	}
}

func dibujar(u *kernel.Usuario, video uint32, cuadro []byte) {
	x, y := 0, 0
	for _, c := range cuadro {
		if c == '\n' {
			x, y = 0, y+1
			continue
		}
		if x < dispositivos.Columnas && y < dispositivos.Filas {
			u.Guardar(video+uint32(2*(y*dispositivos.Columnas+x)), []byte{c})
		}
		x++
	}
}
