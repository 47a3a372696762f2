package kernel

import (
	"runtime"
	"sync"
	"time"
)

// Contexto es la instantánea opaca de un flujo de ejecución suspendido: los
// dos registros de control y la puerta por la que se lo reanuda.
type Contexto struct {
	ESP uint32
	EBP uint32

	reanudar chan int32
}

// Valido indica si el contexto puede reanudarse
func (c Contexto) Valido() bool {
	return c.reanudar != nil
}

// CPU es el único hilo de ejecución de la máquina. Cada proceso corre en su
// propia goroutine, pero solo una tiene la CPU: las demás están bloqueadas
// en la puerta de su Contexto.
type CPU struct {
	interrupciones bool
	ciclos         uint64
	esp, ebp       uint32
	esp0           uint32 // pila de kernel del TSS

	ciclosPorTick  uint64
	ciclosPorRTC   uint64
	frecuenciaHz   int
	retardo        time.Duration
	timerPendiente bool
	rtcPendiente   bool

	timer chan struct{}
	buzon chan func()

	manejadorTimer func()
	manejadorRTC   func()

	apagado    chan struct{}
	apagarUna  sync.Once
	goroutines sync.WaitGroup
}

func NuevaCPU(config Config) *CPU {
	return &CPU{
		ciclosPorTick: uint64(max(config.CiclosPorTick, 0)),
		ciclosPorRTC:  uint64(max(config.CiclosPorRTC, 0)),
		frecuenciaHz:  config.FrecuenciaTimer,
		retardo:       config.retardo(),
		timer:         make(chan struct{}, 1),
		buzon:         make(chan func(), 64),
		apagado:       make(chan struct{}),
	}
}

// Cli deshabilita las interrupciones y devuelve el estado anterior
func (c *CPU) Cli() bool {
	anterior := c.interrupciones
	c.interrupciones = false
	return anterior
}

func (c *CPU) Sti() {
	c.interrupciones = true
}

// Restaurar vuelve al estado que devolvió Cli
func (c *CPU) Restaurar(anterior bool) {
	c.interrupciones = anterior
}

func (c *CPU) Interrupciones() bool {
	return c.interrupciones
}

func (c *CPU) Ciclos() uint64 {
	return c.ciclos
}

// Ciclo es el límite entre instrucciones: cuenta el ciclo, levanta las
// líneas de interrupción que correspondan y, si las interrupciones están
// habilitadas, las atiende. Puede no volver nunca si la máquina se apaga.
func (c *CPU) Ciclo() {
	select {
	case <-c.apagado:
		runtime.Goexit()
	default:
	}

	c.ciclos++
	if c.retardo > 0 {
		time.Sleep(c.retardo)
	}
	if c.ciclosPorRTC > 0 && c.ciclos%c.ciclosPorRTC == 0 {
		c.rtcPendiente = true
	}
	if c.ciclosPorTick > 0 && c.ciclos%c.ciclosPorTick == 0 {
		c.timerPendiente = true
	}

	if !c.interrupciones {
		return
	}
	c.atender()
}

func (c *CPU) atender() {
	select {
	case <-c.timer:
		c.timerPendiente = true
	default:
	}

	if c.rtcPendiente {
		c.rtcPendiente = false
		c.irq(c.manejadorRTC)
	}
	for hay := true; hay; {
		select {
		case f := <-c.buzon:
			c.irq(f)
		default:
			hay = false
		}
	}
	// el timer va último porque puede cambiar de contexto
	if c.timerPendiente {
		c.timerPendiente = false
		c.irq(c.manejadorTimer)
	}
}

func (c *CPU) irq(manejador func()) {
	if manejador == nil {
		return
	}
	c.interrupciones = false
	manejador()
	c.interrupciones = true
}

// Interrumpir encola trabajo de un dispositivo para que corra en la CPU en
// el próximo ciclo con interrupciones habilitadas.
func (c *CPU) Interrumpir(f func()) error {
	select {
	case <-c.apagado:
		return ErrApagado
	default:
	}
	select {
	case c.buzon <- f:
		return nil
	case <-c.apagado:
		return ErrApagado
	}
}

// GuardarContexto captura los registros actuales junto con la puerta del
// flujo que los guarda.
func (c *CPU) GuardarContexto(puerta chan int32) Contexto {
	return Contexto{ESP: c.esp, EBP: c.ebp, reanudar: puerta}
}

// NuevoContexto es el contexto de un flujo que todavía no corrió
func (c *CPU) NuevoContexto(puerta chan int32, pila uint32) Contexto {
	return Contexto{ESP: pila, EBP: pila, reanudar: puerta}
}

// FijarPilaKernel apunta el TSS a la pila de kernel de un proceso
func (c *CPU) FijarPilaKernel(esp0 uint32) {
	c.esp0 = esp0
}

func (c *CPU) PilaKernel() uint32 {
	return c.esp0
}

// Transferir restaura ctx y le pasa la CPU con valor. Quien llama tiene que
// bloquearse enseguida en Esperar o terminar su goroutine.
func (c *CPU) Transferir(ctx Contexto, valor int32) {
	c.esp, c.ebp = ctx.ESP, ctx.EBP
	select {
	case ctx.reanudar <- valor:
	case <-c.apagado:
		runtime.Goexit()
	}
}

// Esperar bloquea el flujo actual hasta que alguien le transfiera la CPU
func (c *CPU) Esperar(ctx Contexto) int32 {
	select {
	case valor := <-ctx.reanudar:
		return valor
	case <-c.apagado:
		runtime.Goexit()
	}
	return 0
}

// Lanzar crea el flujo de ctx; no corre hasta que se le transfiera la CPU
func (c *CPU) Lanzar(ctx Contexto, cuerpo func()) {
	c.goroutines.Add(1)
	go func() {
		defer c.goroutines.Done()
		c.Esperar(ctx)
		cuerpo()
	}()
}

// IniciarTimer arranca el reloj de tiempo real si hay frecuencia configurada
func (c *CPU) IniciarTimer() {
	if c.frecuenciaHz <= 0 {
		return
	}
	periodo := time.Second / time.Duration(c.frecuenciaHz)

	c.goroutines.Add(1)
	go func() {
		defer c.goroutines.Done()
		ticker := time.NewTicker(periodo)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				select {
				case c.timer <- struct{}{}:
				default:
				}
			case <-c.apagado:
				return
			}
		}
	}()
}

// Apagar detiene la máquina sin esperar; sirve desde adentro de la CPU
func (c *CPU) Apagar() {
	c.apagarUna.Do(func() { close(c.apagado) })
}

// Detener apaga la máquina y espera a que terminen todas las goroutines
func (c *CPU) Detener() {
	c.Apagar()
	c.goroutines.Wait()
}

func (c *CPU) Apagado() <-chan struct{} {
	return c.apagado
}
