package memoria

// Algoritmos de reemplazo de la TLB
const (
	ReemplazoFIFO = "FIFO"
	ReemplazoLRU  = "LRU"
)

type entradaTLB struct {
	pagina    uint32 // número de página virtual
	marco     uint32 // base física de la página de 4KB
	usuario   bool
	escritura bool
	valida    bool
	carga     uint64 // para FIFO
	ultimoUso uint64 // para LRU
}

// TLB cachea traducciones de páginas de 4KB. No distingue procesos: cualquier
// cambio de mapeo tiene que terminar en Vaciar.
type TLB struct {
	entradas  []entradaTLB
	algoritmo string
	reloj     uint64
}

func NuevaTLB(cantidad int, algoritmo string) *TLB {
	if algoritmo != ReemplazoLRU {
		algoritmo = ReemplazoFIFO
	}
	return &TLB{
		entradas:  make([]entradaTLB, cantidad),
		algoritmo: algoritmo,
	}
}

func (t *TLB) buscar(pagina uint32) (entradaTLB, bool) {
	t.reloj++
	for i := range t.entradas {
		if t.entradas[i].valida && t.entradas[i].pagina == pagina {
			t.entradas[i].ultimoUso = t.reloj
			return t.entradas[i], true
		}
	}
	return entradaTLB{}, false
}

func (t *TLB) agregar(e entradaTLB) {
	if len(t.entradas) == 0 {
		return
	}
	t.reloj++
	e.valida = true
	e.carga = t.reloj
	e.ultimoUso = t.reloj

	victima := 0
	for i, actual := range t.entradas {
		if !actual.valida {
			t.entradas[i] = e
			return
		}
		switch t.algoritmo {
		case ReemplazoLRU:
			if actual.ultimoUso < t.entradas[victima].ultimoUso {
				victima = i
			}
		default:
			if actual.carga < t.entradas[victima].carga {
				victima = i
			}
		}
	}
	t.entradas[victima] = e
}

// Vaciar invalida todas las entradas
func (t *TLB) Vaciar() {
	for i := range t.entradas {
		t.entradas[i].valida = false
	}
}

// Validas devuelve cuántas entradas están cargadas
func (t *TLB) Validas() int {
	n := 0
	for _, e := range t.entradas {
		if e.valida {
			n++
		}
	}
	return n
}
