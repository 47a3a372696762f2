package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sisoputnfrba/tp-2025-2c-LosCuervosXeneizes/kernel"
	"github.com/sisoputnfrba/tp-2025-2c-LosCuervosXeneizes/programas"
	"github.com/sisoputnfrba/tp-2025-2c-LosCuervosXeneizes/utils"
)

// prepararKernel arma la máquina sin arrancarla: los handlers corren directo
func prepararKernel(t *testing.T) {
	t.Helper()
	fs, err := programas.SistemaArchivos()
	if err != nil {
		t.Fatal(err)
	}
	dir := t.TempDir()
	maquina = kernel.Nuevo(kernel.ConfigPorDefecto(), fs, programas.Registro())
	kernelConfig = &KernelConfig{
		CapturasPath: filepath.Join(dir, "capturas"),
		DumpPath:     filepath.Join(dir, "dump"),
	}
	capturas = utils.NewSemaforo(1)
}

func mensaje(datos map[string]interface{}) *utils.Mensaje {
	return &utils.Mensaje{Origen: "test", Datos: datos}
}

func estado(t *testing.T, respuesta interface{}) string {
	t.Helper()
	m, ok := respuesta.(map[string]interface{})
	if !ok {
		t.Fatalf("respuesta de tipo %T", respuesta)
	}
	s, _ := m["status"].(string)
	return s
}

func TestHandlerTeclaEscribeEnLaVisible(t *testing.T) {
	prepararKernel(t)

	for _, c := range "ls" {
		resp, err := HandlerTecla(mensaje(map[string]interface{}{"tipo": "CARACTER", "caracter": float64(c)}))
		if err != nil || estado(t, resp) != "OK" {
			t.Fatalf("HandlerTecla(%q) = %v, %v", c, resp, err)
		}
	}

	resp, err := HandlerPantalla(mensaje(map[string]interface{}{"terminal": float64(0)}))
	if err != nil {
		t.Fatal(err)
	}
	pantalla := resp.(kernel.EstadoPantalla)
	if pantalla.Lineas[0] != "ls" || pantalla.CursorX != 2 {
		t.Errorf("pantalla = %q, cursor %d", pantalla.Lineas[0], pantalla.CursorX)
	}

	resp, _ = HandlerTecla(mensaje(map[string]interface{}{"tipo": "F13"}))
	if estado(t, resp) != "ERROR" {
		t.Errorf("tecla desconocida aceptada: %v", resp)
	}
}

func TestHandlerEscribir(t *testing.T) {
	prepararKernel(t)
	resp, err := HandlerEscribir(mensaje(map[string]interface{}{"texto": "cat"}))
	if err != nil || estado(t, resp) != "OK" {
		t.Fatalf("HandlerEscribir = %v, %v", resp, err)
	}
	pantalla, _ := maquina.Pantalla(-1)
	if pantalla.Lineas[0] != "cat" {
		t.Errorf("pantalla = %q", pantalla.Lineas[0])
	}
}

func TestHandlerCambiarTerminal(t *testing.T) {
	prepararKernel(t)

	if _, err := HandlerCambiarTerminal(mensaje(map[string]interface{}{})); err == nil {
		t.Error("se aceptó un cambio sin terminal")
	}
	if _, err := HandlerCambiarTerminal(mensaje(map[string]interface{}{"terminal": float64(3)})); err == nil {
		t.Error("se aceptó la terminal 3")
	}

	if _, err := HandlerCambiarTerminal(mensaje(map[string]interface{}{"terminal": float64(2)})); err != nil {
		t.Fatal(err)
	}
	pantalla, _ := maquina.Pantalla(-1)
	if pantalla.Visible != 2 || pantalla.Terminal != 2 {
		t.Errorf("visible = %d, terminal = %d", pantalla.Visible, pantalla.Terminal)
	}
}

func TestHandlerCaptura(t *testing.T) {
	prepararKernel(t)

	resp, err := HandlerCaptura(mensaje(map[string]interface{}{"terminal": float64(1)}))
	if err != nil || estado(t, resp) != "OK" {
		t.Fatalf("HandlerCaptura = %v, %v", resp, err)
	}
	ruta := resp.(map[string]interface{})["archivo"].(string)
	if info, err := os.Stat(ruta); err != nil || info.Size() == 0 {
		t.Errorf("captura %s: %v", ruta, err)
	}

	// con el semáforo tomado la captura se rechaza
	capturas.Wait()
	resp, _ = HandlerCaptura(mensaje(map[string]interface{}{}))
	if estado(t, resp) != "ERROR" {
		t.Errorf("captura con el cupo lleno = %v", resp)
	}
	capturas.Signal()
}

func TestHandlerVolcadoSinProceso(t *testing.T) {
	prepararKernel(t)

	if _, err := HandlerVolcado(mensaje(map[string]interface{}{})); err == nil {
		t.Error("volcado sin pid aceptado")
	}
	resp, err := HandlerVolcado(mensaje(map[string]interface{}{"pid": float64(4)}))
	if err != nil || estado(t, resp) != "ERROR" {
		t.Errorf("volcado de un pid libre = %v, %v", resp, err)
	}
}

func TestHandlerProcesosYMetricas(t *testing.T) {
	prepararKernel(t)

	resp, err := HandlerProcesos(mensaje(nil))
	if err != nil || estado(t, resp) != "OK" {
		t.Fatalf("HandlerProcesos = %v, %v", resp, err)
	}
	if procesos := resp.(map[string]interface{})["procesos"].([]kernel.EstadoProceso); len(procesos) != 0 {
		t.Errorf("procesos antes de arrancar = %+v", procesos)
	}

	resp, _ = HandlerMetricas(mensaje(nil))
	if estado(t, resp) != "OK" {
		t.Errorf("HandlerMetricas = %v", resp)
	}
}

func TestHandlerHandshake(t *testing.T) {
	prepararKernel(t)
	resp, err := HandlerHandshake(mensaje(map[string]interface{}{"nombre": "terminal"}))
	if err != nil || estado(t, resp) != "OK" {
		t.Fatalf("HandlerHandshake = %v, %v", resp, err)
	}
	if n := resp.(map[string]interface{})["terminales"]; n != kernel.CantTerminales {
		t.Errorf("terminales = %v", n)
	}
}
