package kernel

import (
	"sort"
	"testing"

	"github.com/sisoputnfrba/tp-2025-2c-LosCuervosXeneizes/archivos"
	"github.com/sisoputnfrba/tp-2025-2c-LosCuervosXeneizes/memoria"
)

// Entrada que tiene cabecera válida pero ningún código detrás
const entradaHuerfana = memoria.DireccionCarga + 0xFFF0

// sistemaDePrueba arma una imagen con los archivos fijos y un ejecutable por
// programa, en orden alfabético.
func sistemaDePrueba(t *testing.T, programas map[string]Programa) (*archivos.SistemaArchivos, map[uint32]Programa) {
	t.Helper()

	lista := []archivos.Archivo{
		{Nombre: ".", Tipo: archivos.TipoDirectorio},
		{Nombre: "rtc", Tipo: archivos.TipoRTC},
		{Nombre: "frame0.txt", Tipo: archivos.TipoRegular, Datos: []byte("pez\n")},
		{Nombre: "noexec", Tipo: archivos.TipoRegular, Datos: []byte("no soy un programa")},
		{Nombre: "huerfano", Tipo: archivos.TipoRegular, Datos: ConstruirEjecutable(entradaHuerfana, nil)},
	}

	nombres := make([]string, 0, len(programas))
	for nombre := range programas {
		nombres = append(nombres, nombre)
	}
	sort.Strings(nombres)

	registro := make(map[uint32]Programa)
	for i, nombre := range nombres {
		entrada := EntradaPrograma(i)
		registro[entrada] = programas[nombre]
		lista = append(lista, archivos.Archivo{
			Nombre: nombre,
			Tipo:   archivos.TipoRegular,
			Datos:  ConstruirEjecutable(entrada, []byte(nombre)),
		})
	}

	img, err := archivos.Construir(lista)
	if err != nil {
		t.Fatalf("Construir: %v", err)
	}
	fs, err := archivos.Montar(img)
	if err != nil {
		t.Fatalf("Montar: %v", err)
	}
	return fs, registro
}

// kernelDetenido devuelve un kernel sin arrancar con la shell de la
// terminal 0 simulada como proceso actual.
func kernelDetenido(t *testing.T) *Kernel {
	t.Helper()
	fs, registro := sistemaDePrueba(t, map[string]Programa{
		"prog": func(u *Usuario) uint8 { return 0 },
	})
	k := Nuevo(ConfigPorDefecto(), fs, registro)
	if _, err := k.tabla.Asignar(0, PadreRaiz); err != nil {
		t.Fatal(err)
	}
	k.terminales[0].PidActual = 0
	k.paginacion.MapearRegionUsuario(memoria.MarcoProceso(0))
	return k
}

// Los datos de prueba viven en la región de usuario, lejos de la imagen
const (
	dirCadena = memoria.DireccionCarga + 0x10000
	dirBuffer = memoria.DireccionCarga + 0x20000
)

func cadenaUsuario(t *testing.T, k *Kernel, s string) uint32 {
	t.Helper()
	if err := k.paginacion.EscribirUsuario(dirCadena, append([]byte(s), 0)); err != nil {
		t.Fatal(err)
	}
	return dirCadena
}

func leerBuffer(t *testing.T, k *Kernel, n int) []byte {
	t.Helper()
	buf := make([]byte, n)
	if err := k.paginacion.LeerUsuario(dirBuffer, buf); err != nil {
		t.Fatal(err)
	}
	return buf
}

func abrir(t *testing.T, k *Kernel, nombre string) int32 {
	t.Helper()
	return k.LlamadaSistema(SysOpen, cadenaUsuario(t, k, nombre), 0, 0)
}
