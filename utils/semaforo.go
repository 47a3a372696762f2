package utils

// Semaforo implementa un semáforo contador con canales. La capacidad es la
// cantidad de Wait que pueden estar adentro a la vez.
type Semaforo struct {
	c chan struct{}
}

// NewSemaforo crea un semáforo con capacidad inicial
func NewSemaforo(capacidad int) *Semaforo {
	if capacidad <= 0 {
		capacidad = 1
	}
	return &Semaforo{
		c: make(chan struct{}, capacidad),
	}
}

// Wait (P) ocupa un lugar, bloquea si no queda ninguno
func (s *Semaforo) Wait() {
	s.c <- struct{}{}
}

// Signal (V) libera un lugar
func (s *Semaforo) Signal() {
	select {
	case <-s.c:
	default:
		// Nadie adentro, no hay nada que liberar
	}
}

// TryWait intenta ocupar un lugar sin bloquear
func (s *Semaforo) TryWait() bool {
	select {
	case s.c <- struct{}{}:
		return true
	default:
		return false
	}
}

// Ocupados devuelve cuántos lugares están tomados
func (s *Semaforo) Ocupados() int {
	return len(s.c)
}
