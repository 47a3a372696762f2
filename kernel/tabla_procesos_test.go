package kernel

import (
	"errors"
	"testing"
)

func TestAsignarPidsReservadosYLibres(t *testing.T) {
	tabla := NuevaTablaProcesos()
	if tabla.Cantidad() != CantTerminales {
		t.Fatalf("Cantidad inicial = %d", tabla.Cantidad())
	}

	raiz, err := tabla.Asignar(1, 7)
	if err != nil {
		t.Fatal(err)
	}
	if raiz.PID != 1 || raiz.Padre != PadreRaiz || !raiz.EsRaiz() {
		t.Errorf("raíz de la terminal 1 = pid %d padre %d", raiz.PID, raiz.Padre)
	}
	if tabla.Cantidad() != CantTerminales {
		t.Errorf("una raíz cambió la cantidad a %d", tabla.Cantidad())
	}

	for want := CantTerminales; want < MaxProcesos; want++ {
		pcb, err := tabla.Asignar(SinTerminal, 1)
		if err != nil {
			t.Fatal(err)
		}
		if pcb.PID != want || pcb.Padre != 1 {
			t.Errorf("Asignar = pid %d padre %d, want pid %d", pcb.PID, pcb.Padre, want)
		}
	}
	if !tabla.Llena() {
		t.Fatal("la tabla no está llena")
	}
	if _, err := tabla.Asignar(SinTerminal, 1); !errors.Is(err, ErrRecursosAgotados) {
		t.Errorf("Asignar con la tabla llena: %v", err)
	}

	tabla.Liberar(4)
	pcb, _ := tabla.Asignar(SinTerminal, 3)
	if pcb.PID != 4 {
		t.Errorf("después de liberar el 4 se asignó %d", pcb.PID)
	}
}

func TestAsignarInicializaDescriptores(t *testing.T) {
	tabla := NuevaTablaProcesos()
	pcb, _ := tabla.Asignar(SinTerminal, 0)
	pcb.Argumento = "viejo"
	pcb.Descriptores[4] = Descriptor{Operaciones: archivoRegular{}, EnUso: true}
	tabla.Liberar(pcb.PID)

	pcb, _ = tabla.Asignar(SinTerminal, 0)
	if pcb.Argumento != "" || pcb.Descriptores[4].EnUso {
		t.Errorf("el PCB reutilizado conserva estado: %+v", pcb)
	}
	if !pcb.Descriptores[0].EnUso || !pcb.Descriptores[1].EnUso {
		t.Error("fd 0 y 1 no quedaron abiertos")
	}
	if !pcb.Activo {
		t.Error("PCB inactivo")
	}
}

func TestLiberarRaizNoLiberaElPid(t *testing.T) {
	tabla := NuevaTablaProcesos()
	tabla.Asignar(0, PadreRaiz)
	tabla.Liberar(0)
	if !tabla.EnUso(0) || tabla.Cantidad() != CantTerminales {
		t.Error("se liberó el pid reservado de la terminal 0")
	}
	if tabla.PCB(0).Activo {
		t.Error("la raíz sigue activa")
	}

	tabla.Liberar(99)
	if _, err := tabla.Descriptor(0, 8); !errors.Is(err, ErrDescriptorInvalido) {
		t.Errorf("Descriptor(0, 8): %v", err)
	}
}
