package memoria

import "sync"

type pagina [TamPagina]byte

// MemoriaFisica guarda solo las páginas de 4KB que alguna vez se escribieron;
// el resto se lee como ceros.
type MemoriaFisica struct {
	mu      sync.RWMutex
	paginas map[uint32]*pagina
}

func NuevaMemoriaFisica() *MemoriaFisica {
	return &MemoriaFisica{paginas: make(map[uint32]*pagina)}
}

// LeerFisica copia len(buf) bytes desde dir
func (m *MemoriaFisica) LeerFisica(dir uint32, buf []byte) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for len(buf) > 0 {
		desplazamiento := dir % TamPagina
		n := copy(buf, m.bytesDe(dir&^(TamPagina-1), desplazamiento, len(buf)))
		if n == 0 {
			// Página nunca escrita
			n = int(TamPagina - desplazamiento)
			if n > len(buf) {
				n = len(buf)
			}
			clear(buf[:n])
		}
		buf = buf[n:]
		dir += uint32(n)
	}
}

func (m *MemoriaFisica) bytesDe(base, desde uint32, max int) []byte {
	p, ok := m.paginas[base]
	if !ok {
		return nil
	}
	fin := int(desde) + max
	if fin > TamPagina {
		fin = TamPagina
	}
	return p[desde:fin]
}

// EscribirFisica copia datos a partir de dir
func (m *MemoriaFisica) EscribirFisica(dir uint32, datos []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for len(datos) > 0 {
		base := dir &^ (TamPagina - 1)
		p, ok := m.paginas[base]
		if !ok {
			p = new(pagina)
			m.paginas[base] = p
		}
		n := copy(p[dir-base:], datos)
		datos = datos[n:]
		dir += uint32(n)
	}
}

// PaginasEnUso devuelve cuántas páginas de 4KB tienen contenido
func (m *MemoriaFisica) PaginasEnUso() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.paginas)
}
