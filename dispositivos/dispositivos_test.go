package dispositivos

import (
	"bytes"
	"errors"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sisoputnfrba/tp-2025-2c-LosCuervosXeneizes/memoria"
)

func nuevaConsola() *Consola {
	return NuevaConsola(memoria.NuevaMemoriaFisica())
}

func TestEscribirCuentaNoNulos(t *testing.T) {
	c := nuevaConsola()
	n := c.Escribir([]byte("hola\x00\n"))
	if n != 5 {
		t.Errorf("Escribir = %d, want 5", n)
	}
	if got := c.Texto(0)[0]; got != "hola" {
		t.Errorf("fila 0 = %q", got)
	}
	if x, y := c.Cursor(0); x != 0 || y != 1 {
		t.Errorf("cursor = (%d,%d), want (0,1)", x, y)
	}
}

func TestPutcTabYSaltoDeLinea(t *testing.T) {
	c := nuevaConsola()
	c.Escribir([]byte("a\tb"))
	if got := c.Texto(0)[0]; got != "a    b" {
		t.Errorf("fila con tab = %q", got)
	}

	// al completar la fila el cursor baja
	c = nuevaConsola()
	c.Escribir(bytes.Repeat([]byte("x"), Columnas+1))
	if x, y := c.Cursor(0); x != 1 || y != 1 {
		t.Errorf("cursor después de %d caracteres = (%d,%d)", Columnas+1, x, y)
	}
}

func TestDesplazamiento(t *testing.T) {
	c := nuevaConsola()
	for i := 0; i < Filas; i++ {
		c.Escribir([]byte{byte('A' + i), '\n'})
	}
	texto := c.Texto(0)
	if texto[0] != "B" {
		t.Errorf("después de desplazar la primera fila es %q, want B", texto[0])
	}
	if texto[Filas-1] != "" {
		t.Errorf("la última fila debería quedar vacía: %q", texto[Filas-1])
	}
	if _, y := c.Cursor(0); y != Filas-1 {
		t.Errorf("cursor en fila %d", y)
	}
}

func TestDestinoSegunTerminalVisible(t *testing.T) {
	c := nuevaConsola()

	if d := c.SeleccionarDestino(1, 0); d != DireccionRespaldo(1) {
		t.Errorf("terminal 1 en segundo plano escribe en %#x", d)
	}
	c.Escribir([]byte("fondo"))
	if c.Texto(0)[0] != "" {
		t.Errorf("la terminal de fondo ensució la visible: %q", c.Texto(0)[0])
	}
	if c.Texto(1)[0] != "fondo" {
		t.Errorf("terminal 1 = %q", c.Texto(1)[0])
	}

	if d := c.SeleccionarDestino(0, 0); d != memoria.VideoFisico {
		t.Errorf("terminal visible escribe en %#x", d)
	}
}

func TestCambiarVisibleIntercambiaBuffers(t *testing.T) {
	c := nuevaConsola()
	c.SeleccionarDestino(0, 0)
	c.Escribir([]byte("cero"))
	c.SeleccionarDestino(2, 0)
	c.Escribir([]byte("dos"))

	if err := c.CambiarVisible(2); err != nil {
		t.Fatal(err)
	}
	if c.Visible() != 2 {
		t.Fatalf("Visible() = %d", c.Visible())
	}
	if c.Destino() != memoria.VideoFisico {
		t.Errorf("la terminal 2 ejecutando y visible escribe en %#x", c.Destino())
	}
	if c.Texto(2)[0] != "dos" || c.Texto(0)[0] != "cero" {
		t.Errorf("después del cambio: t0=%q t2=%q", c.Texto(0)[0], c.Texto(2)[0])
	}

	if err := c.CambiarVisible(3); err == nil {
		t.Error("CambiarVisible(3) no falló")
	}
}

func TestEcoYRetroceso(t *testing.T) {
	c := nuevaConsola()
	for _, b := range []byte("ls") {
		c.Eco(b)
	}
	c.Retroceso()
	if got := c.Texto(0)[0]; got != "l" {
		t.Errorf("después de retroceso = %q", got)
	}
	c.Retroceso()
	c.Retroceso()
	if x, y := c.Cursor(0); x != 0 || y != 0 {
		t.Errorf("retroceso en el origen movió el cursor a (%d,%d)", x, y)
	}
}

func TestTecladoLinea(t *testing.T) {
	k := NuevoTeclado()
	for _, b := range []byte("cat") {
		k.Agregar(0, b)
	}
	if k.LineaLista(0) {
		t.Fatal("línea lista antes de Enter")
	}
	if _, ok := k.Tomar(0, 10); ok {
		t.Fatal("Tomar devolvió una línea sin Enter")
	}
	k.Enter(0)
	if k.Agregar(0, 'x') {
		t.Error("se aceptó un caracter con la línea pendiente")
	}

	linea, ok := k.Tomar(0, 10)
	if !ok || string(linea) != "cat\n" {
		t.Errorf("Tomar = %q, %v", linea, ok)
	}
	if k.LineaLista(0) || len(k.Linea(0)) != 0 {
		t.Error("el buffer no quedó vacío")
	}
}

func TestTecladoTomarTrunca(t *testing.T) {
	k := NuevoTeclado()
	for _, b := range []byte("hello") {
		k.Agregar(1, b)
	}
	k.Enter(1)
	linea, _ := k.Tomar(1, 3)
	if string(linea) != "hel" {
		t.Errorf("Tomar(3) = %q", linea)
	}
}

func TestTecladoLimite(t *testing.T) {
	k := NuevoTeclado()
	for i := 0; i < TamBufferTeclado+10; i++ {
		k.Agregar(0, 'a')
	}
	if got := len(k.Linea(0)); got != TamBufferTeclado-1 {
		t.Errorf("línea de %d caracteres, want %d", got, TamBufferTeclado-1)
	}
	k.Enter(0)
	linea, _ := k.Tomar(0, 1000)
	if len(linea) != TamBufferTeclado || linea[len(linea)-1] != '\n' {
		t.Errorf("línea tomada de %d bytes", len(linea))
	}
}

func TestTecladoHistorial(t *testing.T) {
	k := NuevoTeclado()
	for _, cmd := range []string{"ls", "cat frame0.txt"} {
		for _, b := range []byte(cmd) {
			k.Agregar(0, b)
		}
		k.Enter(0)
		k.Tomar(0, 128)
	}

	k.Agregar(0, 'x')
	borrar, nueva, ok := k.Historial(0, true)
	if !ok || borrar != 1 || string(nueva) != "cat frame0.txt" {
		t.Errorf("arriba = %d, %q, %v", borrar, nueva, ok)
	}
	_, nueva, _ = k.Historial(0, true)
	if string(nueva) != "ls" {
		t.Errorf("arriba dos veces = %q", nueva)
	}
	if _, _, ok := k.Historial(0, true); ok {
		t.Error("se pudo subir más allá del primer comando")
	}
	k.Historial(0, false)
	_, nueva, _ = k.Historial(0, false)
	if len(nueva) != 0 {
		t.Errorf("bajar al final debería dejar la línea vacía: %q", nueva)
	}
}

func TestTecladoAutocompletar(t *testing.T) {
	nombres := []string{".", "rtc", "frame0.txt", "frame1.txt", "fish", "shell"}
	tests := []struct {
		escrito string
		want    string
	}{
		{"sh", "ell"},
		{"cat fr", "ame"},
		{"cat frame1", ".txt"},
		{"f", ""},
		{"zzz", ""},
	}
	for _, tt := range tests {
		k := NuevoTeclado()
		for _, b := range []byte(tt.escrito) {
			k.Agregar(0, b)
		}
		if got := string(k.Autocompletar(0, nombres)); got != tt.want {
			t.Errorf("Autocompletar(%q) = %q, want %q", tt.escrito, got, tt.want)
		}
	}
}

func TestRTCVirtualizado(t *testing.T) {
	r := NuevoRTC()
	r.Abrir(0)
	if r.Frecuencia(0) != FrecuenciaInicial {
		t.Fatalf("frecuencia inicial = %d", r.Frecuencia(0))
	}
	if err := r.FijarFrecuencia(0, 256); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 3; i++ {
		r.Interrupcion(0)
	}
	if r.Consumir(0) {
		t.Error("a 256 Hz alcanzaron 3 interrupciones")
	}
	r.Interrupcion(0)
	if !r.Consumir(0) {
		t.Error("a 256 Hz no alcanzaron 4 interrupciones")
	}
	if r.Consumir(0) {
		t.Error("el contador no se reinició")
	}

	// las interrupciones de otra terminal no cuentan
	r.Abrir(1)
	r.Interrupcion(0)
	if r.Consumir(1) {
		t.Error("la terminal 1 vio interrupciones de la 0")
	}
}

func TestRTCFrecuenciasInvalidas(t *testing.T) {
	r := NuevoRTC()
	for _, f := range []uint32{0, 1, 3, 100, 2048} {
		if err := r.FijarFrecuencia(0, f); !errors.Is(err, ErrFrecuenciaInvalida) {
			t.Errorf("FijarFrecuencia(%d) error = %v", f, err)
		}
	}
	for _, f := range []uint32{2, 4, 1024} {
		if err := r.FijarFrecuencia(0, f); err != nil {
			t.Errorf("FijarFrecuencia(%d) error = %v", f, err)
		}
	}
}

func TestCapturaPNG(t *testing.T) {
	c := nuevaConsola()
	c.Escribir([]byte("391OS> "))

	var buf bytes.Buffer
	if err := c.Capturar(0, &buf); err != nil {
		t.Fatal(err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("PNG inválido: %v", err)
	}
	if b := img.Bounds(); b.Dx() != Columnas*anchoCelda || b.Dy() != Filas*altoCelda {
		t.Errorf("captura de %dx%d", b.Dx(), b.Dy())
	}

	if _, err := Renderizar([]byte("corto")); err == nil || !strings.Contains(err.Error(), "bytes") {
		t.Errorf("Renderizar con pantalla corta: %v", err)
	}
}

func TestNombresDeTecla(t *testing.T) {
	for tipo := TeclaCaracter; tipo <= TeclaTerminal; tipo++ {
		got, ok := TipoTeclaDe(tipo.String())
		if !ok || got != tipo {
			t.Errorf("TipoTeclaDe(%q) = %v, %v", tipo.String(), got, ok)
		}
	}
	if got, ok := TipoTeclaDe("enter"); !ok || got != TeclaEnter {
		t.Errorf("TipoTeclaDe(enter) = %v, %v", got, ok)
	}
	if _, ok := TipoTeclaDe("F13"); ok {
		t.Error("TipoTeclaDe aceptó una tecla inexistente")
	}
}

func TestGuardarCaptura(t *testing.T) {
	c := nuevaConsola()
	c.Escribir([]byte("hola"))

	ruta := filepath.Join(t.TempDir(), "t0.png")
	if err := GuardarCaptura(c.Celdas(0), ruta); err != nil {
		t.Fatal(err)
	}
	archivo, err := os.Open(ruta)
	if err != nil {
		t.Fatal(err)
	}
	defer archivo.Close()
	if _, err := png.Decode(archivo); err != nil {
		t.Errorf("PNG inválido: %v", err)
	}
}

func TestNulNoSeDibuja(t *testing.T) {
	c := nuevaConsola()
	c.Escribir([]byte("ho\x00la"))
	if got := c.Texto(0)[0]; got != "hola" {
		t.Errorf("fila 0 = %q, want hola", got)
	}
	if x, _ := c.Cursor(0); x != 4 {
		t.Errorf("cursor en x=%d, want 4", x)
	}
}
