package memoria

import (
	"sort"
	"sync"

	"github.com/sisoputnfrba/tp-2025-2c-LosCuervosXeneizes/utils"
)

// MetricasProceso almacena estadísticas sobre el uso de memoria de un proceso
type MetricasProceso struct {
	LecturasMemoria   int `json:"lecturas"`
	EscriturasMemoria int `json:"escrituras"`
	AciertosTLB       int `json:"tlb_hits"`
	FallosTLB         int `json:"tlb_misses"`
	FallosPagina      int `json:"fallos_pagina"`
	Remapeos          int `json:"remapeos"`
}

// Metricas agrupa los contadores por pid
type Metricas struct {
	mu         sync.Mutex
	porProceso map[int]*MetricasProceso
}

func NuevaMetricas() *Metricas {
	return &Metricas{porProceso: make(map[int]*MetricasProceso)}
}

func (m *Metricas) de(pid int) *MetricasProceso {
	if _, existe := m.porProceso[pid]; !existe {
		m.porProceso[pid] = &MetricasProceso{}
	}
	return m.porProceso[pid]
}

func (m *Metricas) actualizar(pid int, f func(*MetricasProceso)) {
	if pid < 0 {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	f(m.de(pid))
}

func (m *Metricas) lectura(pid int) {
	m.actualizar(pid, func(mp *MetricasProceso) { mp.LecturasMemoria++ })
}
func (m *Metricas) escritura(pid int) {
	m.actualizar(pid, func(mp *MetricasProceso) { mp.EscriturasMemoria++ })
}
func (m *Metricas) aciertoTLB(pid int) {
	m.actualizar(pid, func(mp *MetricasProceso) { mp.AciertosTLB++ })
}
func (m *Metricas) falloTLB(pid int) { m.actualizar(pid, func(mp *MetricasProceso) { mp.FallosTLB++ }) }

func (m *Metricas) falloPagina(pid int) {
	m.actualizar(pid, func(mp *MetricasProceso) { mp.FallosPagina++ })
	utils.InfoLog.Debug("Fallo de página", "pid", pid)
}

func (m *Metricas) remapeo(pid int) {
	m.actualizar(pid, func(mp *MetricasProceso) { mp.Remapeos++ })
}

// Proceso devuelve una copia de las métricas de un pid
func (m *Metricas) Proceso(pid int) MetricasProceso {
	m.mu.Lock()
	defer m.mu.Unlock()
	if mp, existe := m.porProceso[pid]; existe {
		return *mp
	}
	return MetricasProceso{}
}

// Reiniciar borra las métricas de un pid; se usa cuando el pid se reasigna
func (m *Metricas) Reiniciar(pid int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.porProceso, pid)
}

// Todas devuelve una copia de todas las métricas, con los pids ordenados
func (m *Metricas) Todas() ([]int, map[int]MetricasProceso) {
	m.mu.Lock()
	defer m.mu.Unlock()

	pids := make([]int, 0, len(m.porProceso))
	copia := make(map[int]MetricasProceso, len(m.porProceso))
	for pid, mp := range m.porProceso {
		pids = append(pids, pid)
		copia[pid] = *mp
	}
	sort.Ints(pids)
	return pids, copia
}
