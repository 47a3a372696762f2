// Package kernel es el núcleo de procesos de la máquina: tabla de procesos,
// llamadas al sistema, execute/halt y el planificador de terminales.
package kernel

import (
	"fmt"
	"sync/atomic"

	"github.com/sisoputnfrba/tp-2025-2c-LosCuervosXeneizes/archivos"
	"github.com/sisoputnfrba/tp-2025-2c-LosCuervosXeneizes/dispositivos"
	"github.com/sisoputnfrba/tp-2025-2c-LosCuervosXeneizes/memoria"
	"github.com/sisoputnfrba/tp-2025-2c-LosCuervosXeneizes/utils"
)

// Programa es el código de usuario que corresponde a un punto de entrada.
// El valor devuelto es el estado con el que termina el proceso.
type Programa func(u *Usuario) uint8

// Kernel agrupa todo el estado de la máquina. Salvo los métodos exportados
// marcados como seguros, se usa solo desde la CPU.
type Kernel struct {
	config     Config
	cpu        *CPU
	paginacion *memoria.Paginacion
	consola    *dispositivos.Consola
	teclado    *dispositivos.Teclado
	rtc        *dispositivos.RTC
	fs         *archivos.SistemaArchivos
	programas  map[uint32]Programa

	tabla              *TablaProcesos
	terminales         [CantTerminales]Terminal
	terminalEjecutando int
	ocioso             Contexto

	ticks        uint64
	selecciones  [CantTerminales]uint64
	alPlanificar func(terminal int)

	corriendo atomic.Bool
}

// Nuevo arma la máquina sin arrancarla
func Nuevo(config Config, fs *archivos.SistemaArchivos, programas map[uint32]Programa) *Kernel {
	config = config.normalizada()
	fisica := memoria.NuevaMemoriaFisica()

	k := &Kernel{
		config:     config,
		cpu:        NuevaCPU(config),
		paginacion: memoria.NuevaPaginacion(fisica, config.EntradasTLB, config.ReemplazoTLB),
		consola:    dispositivos.NuevaConsola(fisica),
		teclado:    dispositivos.NuevoTeclado(),
		rtc:        dispositivos.NuevoRTC(),
		fs:         fs,
		programas:  programas,
		tabla:      NuevaTablaProcesos(),
	}
	for i := range k.terminales {
		k.terminales[i].PidActual = SinArrancar
	}
	k.cpu.manejadorTimer = k.planificar
	k.cpu.manejadorRTC = k.interrupcionRTC
	return k
}

// AlPlanificar registra una función que recibe cada terminal elegida por el
// planificador. Corre en la CPU; tiene que llamarse antes de Arrancar.
func (k *Kernel) AlPlanificar(f func(terminal int)) {
	k.alPlanificar = f
}

// Arrancar pone a correr la máquina. El primer tick del timer arranca la
// shell de la terminal 0.
func (k *Kernel) Arrancar() {
	if k.corriendo.Swap(true) {
		return
	}
	utils.InfoLog.Info("Arrancando kernel",
		"ciclos_por_tick", k.config.CiclosPorTick,
		"frecuencia_timer", k.config.FrecuenciaTimer,
		"archivos", k.fs.Cantidad())

	k.ocioso = k.cpu.NuevoContexto(make(chan int32, 1), memoria.FinKernel)
	k.cpu.Lanzar(k.ocioso, k.bucleOcioso)
	k.cpu.IniciarTimer()
	k.cpu.Transferir(k.ocioso, 0)
}

func (k *Kernel) bucleOcioso() {
	k.cpu.Sti()
	for {
		k.cpu.Ciclo()
	}
}

// Detener apaga la máquina y espera a todas sus goroutines. Es seguro
// llamarlo desde cualquier goroutine que no sea de la CPU.
func (k *Kernel) Detener() {
	k.cpu.Detener()
	k.corriendo.Store(false)
	utils.InfoLog.Info("Kernel detenido", "ticks", k.ticks, "ciclos", k.cpu.Ciclos(),
		"paginas_fisicas", k.paginacion.Fisica().PaginasEnUso())
}

// Apagado se cierra cuando la máquina se detiene, también por una excepción fatal
func (k *Kernel) Apagado() <-chan struct{} {
	return k.cpu.Apagado()
}

// Inspeccionar corre f en la CPU entre dos instrucciones, con el kernel en
// un estado consistente. Si la máquina no está corriendo, f corre directo.
func (k *Kernel) Inspeccionar(f func()) error {
	if !k.corriendo.Load() {
		f()
		return nil
	}

	listo := make(chan struct{})
	if err := k.cpu.Interrumpir(func() {
		defer close(listo)
		f()
	}); err != nil {
		return err
	}
	select {
	case <-listo:
		return nil
	case <-k.cpu.Apagado():
		return ErrApagado
	}
}

// Teclear entrega una tecla como interrupción de teclado
func (k *Kernel) Teclear(t dispositivos.Tecla) error {
	if !k.corriendo.Load() {
		k.manejarTecla(t)
		return nil
	}
	return k.cpu.Interrumpir(func() { k.manejarTecla(t) })
}

// Escribir teclea cada caracter de s; '\n' se entrega como Enter
func (k *Kernel) Escribir(s string) error {
	for i := 0; i < len(s); i++ {
		t := dispositivos.Tecla{Tipo: dispositivos.TeclaCaracter, Caracter: s[i]}
		if s[i] == '\n' {
			t = dispositivos.Tecla{Tipo: dispositivos.TeclaEnter}
		}
		if err := k.Teclear(t); err != nil {
			return err
		}
	}
	return nil
}

// CambiarTerminal es Alt+F1..F3
func (k *Kernel) CambiarTerminal(terminal int) error {
	if terminal < 0 || terminal >= CantTerminales {
		return fmt.Errorf("%w: terminal %d", ErrArgumentoInvalido, terminal)
	}
	return k.Teclear(dispositivos.Tecla{Tipo: dispositivos.TeclaTerminal, Terminal: terminal})
}

// EstadoPantalla es lo que muestra una terminal
type EstadoPantalla struct {
	Terminal int      `json:"terminal"`
	Visible  int      `json:"visible"`
	Lineas   []string `json:"lineas"`
	CursorX  int      `json:"cursor_x"`
	CursorY  int      `json:"cursor_y"`
	Pid      int      `json:"pid"`
}

// Pantalla devuelve el texto de una terminal; -1 es la visible
func (k *Kernel) Pantalla(terminal int) (EstadoPantalla, error) {
	var e EstadoPantalla
	err := k.Inspeccionar(func() {
		if terminal < 0 || terminal >= CantTerminales {
			terminal = k.consola.Visible()
		}
		x, y := k.consola.Cursor(terminal)
		e = EstadoPantalla{
			Terminal: terminal,
			Visible:  k.consola.Visible(),
			Lineas:   k.consola.Texto(terminal),
			CursorX:  x,
			CursorY:  y,
			Pid:      k.terminales[terminal].PidActual,
		}
	})
	return e, err
}

// GuardarCaptura guarda en ruta el PNG de una terminal; -1 es la visible
func (k *Kernel) GuardarCaptura(terminal int, ruta string) error {
	var celdas []byte
	err := k.Inspeccionar(func() {
		if terminal < 0 || terminal >= CantTerminales {
			terminal = k.consola.Visible()
		}
		celdas = k.consola.Celdas(terminal)
	})
	if err != nil {
		return err
	}
	return dispositivos.GuardarCaptura(celdas, ruta)
}

// Procesos devuelve la tabla de procesos
func (k *Kernel) Procesos() ([]EstadoProceso, error) {
	var estados []EstadoProceso
	err := k.Inspeccionar(func() {
		estados = k.tabla.Instantanea()
	})
	return estados, err
}

// Volcar escribe el marco de memoria de pid en dir
func (k *Kernel) Volcar(pid int, dir string) (string, error) {
	var activo bool
	if err := k.Inspeccionar(func() {
		activo = k.tabla.EnUso(pid) && k.tabla.PCB(pid).Activo
	}); err != nil {
		return "", err
	}
	if !activo {
		return "", fmt.Errorf("%w: pid %d sin proceso", ErrArgumentoInvalido, pid)
	}
	return k.paginacion.Volcar(pid, dir)
}

// Metricas devuelve las métricas de memoria de todos los pids
func (k *Kernel) Metricas() map[int]memoria.MetricasProceso {
	_, todas := k.paginacion.Metricas().Todas()
	return todas
}

func (k *Kernel) pidActual() int {
	return k.terminales[k.terminalEjecutando].PidActual
}

func (k *Kernel) pcbActual() *PCB {
	return k.tabla.PCB(k.pidActual())
}

func (k *Kernel) interrupcionRTC() {
	k.rtc.Interrupcion(k.terminalEjecutando)
}
