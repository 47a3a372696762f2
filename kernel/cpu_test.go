package kernel

import "testing"

func TestCicloRespetaElFlagDeInterrupciones(t *testing.T) {
	c := NuevaCPU(Config{CiclosPorTick: 3})
	ticks := 0
	c.manejadorTimer = func() {
		if c.Interrupciones() {
			t.Error("el manejador corrió con interrupciones habilitadas")
		}
		ticks++
	}

	for i := 0; i < 9; i++ {
		c.Ciclo()
	}
	if ticks != 0 {
		t.Fatalf("%d ticks con interrupciones deshabilitadas", ticks)
	}

	// el tick pendiente se atiende en el primer ciclo con IF
	c.Sti()
	c.Ciclo()
	if ticks != 1 {
		t.Fatalf("ticks = %d, want 1", ticks)
	}
	c.Ciclo()
	c.Ciclo()
	if ticks != 2 {
		t.Errorf("ticks = %d después del ciclo 12", ticks)
	}
	if !c.Interrupciones() {
		t.Error("IF quedó deshabilitado después del manejador")
	}
}

func TestCliRestaurar(t *testing.T) {
	c := NuevaCPU(Config{})
	c.Sti()
	anterior := c.Cli()
	interna := c.Cli()
	c.Restaurar(interna)
	if c.Interrupciones() {
		t.Error("Restaurar de una sección anidada habilitó interrupciones")
	}
	c.Restaurar(anterior)
	if !c.Interrupciones() {
		t.Error("Restaurar no volvió a habilitar interrupciones")
	}
}

func TestInterrumpirCorreEnLaCPU(t *testing.T) {
	c := NuevaCPU(Config{})
	corrio := 0
	if err := c.Interrumpir(func() { corrio++ }); err != nil {
		t.Fatal(err)
	}
	c.Ciclo()
	if corrio != 0 {
		t.Fatal("la interrupción corrió con IF deshabilitado")
	}
	c.Sti()
	c.Ciclo()
	if corrio != 1 {
		t.Errorf("la interrupción corrió %d veces", corrio)
	}

	c.Apagar()
	if err := c.Interrumpir(func() {}); err != ErrApagado {
		t.Errorf("Interrumpir con la máquina apagada = %v", err)
	}
}

func TestRTCCadaCiertosCiclos(t *testing.T) {
	c := NuevaCPU(Config{CiclosPorRTC: 4})
	rtc := 0
	c.manejadorRTC = func() { rtc++ }
	c.Sti()
	for i := 0; i < 12; i++ {
		c.Ciclo()
	}
	if rtc != 3 {
		t.Errorf("%d interrupciones de RTC en 12 ciclos", rtc)
	}
}

func TestTransferirYEsperar(t *testing.T) {
	c := NuevaCPU(Config{})
	defer c.Detener()

	principal := c.NuevoContexto(make(chan int32, 1), 0x1000)
	hijo := c.NuevoContexto(make(chan int32, 1), 0x2000)
	c.Lanzar(hijo, func() {
		if c.esp != 0x2000 {
			t.Errorf("esp del hijo = %#x", c.esp)
		}
		c.Transferir(principal, 42)
	})

	c.Transferir(hijo, 0)
	if v := c.Esperar(principal); v != 42 {
		t.Errorf("valor recibido = %d", v)
	}
}
