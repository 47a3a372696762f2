package programas

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/sisoputnfrba/tp-2025-2c-LosCuervosXeneizes/kernel"
)

func arrancar(t *testing.T) *kernel.Kernel {
	t.Helper()
	fs, err := SistemaArchivos()
	if err != nil {
		t.Fatalf("SistemaArchivos: %v", err)
	}
	config := kernel.ConfigPorDefecto()
	config.CiclosPorTick = 50
	config.CiclosPorRTC = 1

	k := kernel.Nuevo(config, fs, Registro())
	k.Arrancar()
	t.Cleanup(k.Detener)
	esperarTexto(t, k, 0, Prompt)
	return k
}

func pantalla(t *testing.T, k *kernel.Kernel, terminal int) string {
	t.Helper()
	p, err := k.Pantalla(terminal)
	if err != nil {
		t.Fatal(err)
	}
	return strings.Join(p.Lineas, "\n")
}

// esperarTexto espera a que el texto aparezca en la pantalla de la terminal
func esperarTexto(t *testing.T, k *kernel.Kernel, terminal int, texto string) {
	t.Helper()
	texto = strings.TrimSpace(texto)
	limite := time.Now().Add(5 * time.Second)
	for {
		actual := pantalla(t, k, terminal)
		if strings.Contains(actual, texto) {
			return
		}
		if time.Now().After(limite) {
			t.Fatalf("la terminal %d no muestra %q:\n%s", terminal, texto, actual)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func ejecutar(t *testing.T, k *kernel.Kernel, linea string) {
	t.Helper()
	if err := k.Escribir(linea + "\n"); err != nil {
		t.Fatal(err)
	}
}

func TestRegistroCubreTodosLosEjecutables(t *testing.T) {
	fs, err := SistemaArchivos()
	if err != nil {
		t.Fatal(err)
	}
	registro := Registro()
	for _, nombre := range Nombres() {
		e, err := fs.BuscarPorNombre(nombre)
		if err != nil {
			t.Fatalf("%s no está en la imagen", nombre)
		}
		img, _ := fs.LeerTodo(e.Inodo)
		entrada := uint32(img[24]) | uint32(img[25])<<8 | uint32(img[26])<<16 | uint32(img[27])<<24
		if _, ok := registro[entrada]; !ok {
			t.Errorf("%s: entrada %#x sin programa", nombre, entrada)
		}
	}
	if _, err := fs.BuscarPorNombre("verylargetextwithverylongname.tx"); err != nil {
		t.Error(err)
	}
}

func TestShellEnLasTresTerminales(t *testing.T) {
	k := arrancar(t)
	for terminal := 1; terminal < kernel.CantTerminales; terminal++ {
		esperarTexto(t, k, terminal, Prompt)
	}
}

func TestLs(t *testing.T) {
	k := arrancar(t)
	ejecutar(t, k, "ls")
	for _, nombre := range []string{"frame1.txt", "verylargetextwithverylongname.tx", "syserr"} {
		esperarTexto(t, k, 0, nombre)
	}
}

func TestCat(t *testing.T) {
	k := arrancar(t)
	ejecutar(t, k, "cat frame0.txt")
	esperarTexto(t, k, 0, "><(((('>")

	ejecutar(t, k, "cat")
	esperarTexto(t, k, 0, "could not read arguments")
	esperarTexto(t, k, 0, "program terminated abnormally")
}

func TestGrep(t *testing.T) {
	k := arrancar(t)
	ejecutar(t, k, "grep leer")
	esperarTexto(t, k, 0, "created.txt:solo se puede leer")
}

func TestHello(t *testing.T) {
	k := arrancar(t)
	ejecutar(t, k, "hello")
	esperarTexto(t, k, 0, "Hi, what's your name?")
	ejecutar(t, k, "Ana")
	esperarTexto(t, k, 0, "Hello, Ana")
}

func TestComandoDesconocido(t *testing.T) {
	k := arrancar(t)
	ejecutar(t, k, "nope")
	esperarTexto(t, k, 0, "no such command")
}

func TestSigtest(t *testing.T) {
	k := arrancar(t)
	ejecutar(t, k, "sigtest 0")
	esperarTexto(t, k, 0, "sigreturn() = 0")
	esperarTexto(t, k, 0, kernel.ExcFalloPagina.String())
	esperarTexto(t, k, 0, "program terminated by exception")
}

func TestSyserr(t *testing.T) {
	k := arrancar(t)
	ejecutar(t, k, "syserr")
	esperarTexto(t, k, 0, fmt.Sprintf("syserr: %d/%d passed", len(casosSyserr), len(casosSyserr)))
	if p := pantalla(t, k, 0); strings.Contains(p, "FAIL") {
		t.Errorf("casos fallidos:\n%s", p)
	}
}

func TestFishDibujaEnLaPantalla(t *testing.T) {
	k := arrancar(t)
	ejecutar(t, k, "fish")
	esperarTexto(t, k, 0, "~~~~~~~~~~")
	esperarTexto(t, k, 0, "><_/ )")
}

func TestExitRelanzaLaShell(t *testing.T) {
	k := arrancar(t)
	ejecutar(t, k, "exit")

	limite := time.Now().Add(5 * time.Second)
	for strings.Count(pantalla(t, k, 0), strings.TrimSpace(Prompt)) < 2 {
		if time.Now().After(limite) {
			t.Fatalf("no apareció un segundo prompt:\n%s", pantalla(t, k, 0))
		}
		time.Sleep(5 * time.Millisecond)
	}
}
