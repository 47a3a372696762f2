package kernel

import (
	"fmt"

	"github.com/sisoputnfrba/tp-2025-2c-LosCuervosXeneizes/utils"
)

// TablaProcesos es el arreglo fijo de PCBs; el pid es el índice. Los pids de
// 0 a CantTerminales-1 están reservados para las shells raíz y nunca vuelven
// a la lista libre.
type TablaProcesos struct {
	pcbs     [MaxProcesos]PCB
	enUso    [MaxProcesos]bool
	cantidad int
}

func NuevaTablaProcesos() *TablaProcesos {
	t := &TablaProcesos{cantidad: CantTerminales}
	for pid := 0; pid < CantTerminales; pid++ {
		t.enUso[pid] = true
		t.pcbs[pid] = PCB{PID: pid, Padre: PadreRaiz, Terminal: pid}
	}
	return t
}

// Asignar prepara un PCB. Con terminalRaiz reutiliza el pid reservado de esa
// terminal; con SinTerminal toma el pid libre más bajo con padre como padre.
func (t *TablaProcesos) Asignar(terminalRaiz int, padre int) (*PCB, error) {
	var pid int
	if terminalRaiz != SinTerminal {
		if terminalRaiz < 0 || terminalRaiz >= CantTerminales {
			return nil, fmt.Errorf("%w: terminal %d", ErrArgumentoInvalido, terminalRaiz)
		}
		pid = terminalRaiz
		padre = PadreRaiz
	} else {
		pid = t.pidLibre()
		if pid < 0 {
			return nil, fmt.Errorf("%w: tabla de procesos llena (%d)", ErrRecursosAgotados, t.cantidad)
		}
		t.enUso[pid] = true
		t.cantidad++
	}

	pcb := &t.pcbs[pid]
	*pcb = PCB{
		PID:      pid,
		Padre:    padre,
		Terminal: terminalRaiz,
		Activo:   true,
		puerta:   make(chan int32, 1),
	}
	pcb.Descriptores[0] = Descriptor{Operaciones: entradaConsola{}, EnUso: true}
	pcb.Descriptores[1] = Descriptor{Operaciones: salidaConsola{}, EnUso: true}

	utils.InfoLog.Debug("PCB asignado", "pid", pid, "padre", padre, "procesos", t.cantidad)
	return pcb, nil
}

func (t *TablaProcesos) pidLibre() int {
	for pid := CantTerminales; pid < MaxProcesos; pid++ {
		if !t.enUso[pid] {
			return pid
		}
	}
	return -1
}

// Liberar marca el PCB inactivo y devuelve el pid a la lista libre, salvo
// que sea de una shell raíz.
func (t *TablaProcesos) Liberar(pid int) {
	if pid < 0 || pid >= MaxProcesos {
		return
	}
	t.pcbs[pid].Activo = false
	if pid < CantTerminales || !t.enUso[pid] {
		return
	}
	t.enUso[pid] = false
	t.cantidad--
}

// Descriptor devuelve la entrada fd de la tabla del proceso pid
func (t *TablaProcesos) Descriptor(pid int, fd int) (*Descriptor, error) {
	if fd < 0 || fd >= CantDescriptores {
		return nil, fmt.Errorf("%w: fd %d", ErrDescriptorInvalido, fd)
	}
	if pid < 0 || pid >= MaxProcesos {
		return nil, fmt.Errorf("%w: pid %d", ErrDescriptorInvalido, pid)
	}
	return &t.pcbs[pid].Descriptores[fd], nil
}

// PCB devuelve el PCB de pid, o nil si pid está fuera de rango
func (t *TablaProcesos) PCB(pid int) *PCB {
	if pid < 0 || pid >= MaxProcesos {
		return nil
	}
	return &t.pcbs[pid]
}

// EnUso indica si pid está marcado en la lista libre
func (t *TablaProcesos) EnUso(pid int) bool {
	return pid >= 0 && pid < MaxProcesos && t.enUso[pid]
}

// Cantidad cuenta los pids en uso, incluidas las tres shells reservadas
func (t *TablaProcesos) Cantidad() int {
	return t.cantidad
}

func (t *TablaProcesos) Llena() bool {
	return t.cantidad >= MaxProcesos
}

// EstadoProceso es la vista de un PCB que se expone para inspección
type EstadoProceso struct {
	PID          int      `json:"pid"`
	Padre        int      `json:"padre"`
	Terminal     int      `json:"terminal"`
	Nombre       string   `json:"nombre"`
	Argumento    string   `json:"argumento"`
	Activo       bool     `json:"activo"`
	Descriptores []string `json:"descriptores"`
}

// Instantanea lista los PCBs activos
func (t *TablaProcesos) Instantanea() []EstadoProceso {
	var estados []EstadoProceso
	for pid := range t.pcbs {
		pcb := &t.pcbs[pid]
		if !pcb.Activo {
			continue
		}
		e := EstadoProceso{
			PID:       pcb.PID,
			Padre:     pcb.Padre,
			Terminal:  pcb.Terminal,
			Nombre:    pcb.Nombre,
			Argumento: pcb.Argumento,
			Activo:    pcb.Activo,
		}
		for _, d := range pcb.Descriptores {
			if d.EnUso {
				e.Descriptores = append(e.Descriptores, d.Operaciones.Tipo().String())
			} else {
				e.Descriptores = append(e.Descriptores, "-")
			}
		}
		estados = append(estados, e)
	}
	return estados
}
