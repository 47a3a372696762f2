package memoria

import (
	"encoding/binary"
	"errors"
	"fmt"
	"sync"

	"github.com/sisoputnfrba/tp-2025-2c-LosCuervosXeneizes/utils"
)

var (
	ErrFalloPagina     = errors.New("fallo de página")
	ErrPunteroInvalido = errors.New("puntero fuera del rango del programa")
)

type tablaPaginas [EntradasTabla]Entrada

// Paginacion es el único directorio de páginas de la máquina. Todos los
// procesos lo comparten: lo que cambia entre ellos es la entrada de la región
// de usuario, que se reescribe en cada lanzamiento y en cada cambio de contexto.
type Paginacion struct {
	mu         sync.Mutex
	fisica     *MemoriaFisica
	directorio tablaPaginas
	tablas     map[uint32]*tablaPaginas
	tlb        *TLB
	metricas   *Metricas
	pidActual  int
}

// NuevaPaginacion arma el mapeo del kernel: la página de video y los tres
// buffers de respaldo de las terminales dentro de los primeros 4MB, y el
// kernel como página de 4MB.
func NuevaPaginacion(fisica *MemoriaFisica, entradasTLB int, reemplazoTLB string) *Paginacion {
	p := &Paginacion{
		fisica:    fisica,
		tablas:    make(map[uint32]*tablaPaginas),
		tlb:       NuevaTLB(entradasTLB, reemplazoTLB),
		metricas:  NuevaMetricas(),
		pidActual: -1,
	}

	baja := new(tablaPaginas)
	for i := uint32(0); i < 4; i++ {
		dir := uint32(VideoFisico) + i*TamPagina
		baja[dir/TamPagina] = NuevaEntrada(dir, Presente|Escritura)
	}
	p.tablas[dirTablaBaja] = baja
	p.tablas[dirTablaVideo] = new(tablaPaginas)

	p.directorio[0] = NuevaEntrada(dirTablaBaja, Presente|Escritura)
	p.directorio[1] = NuevaEntrada(InicioKernel, Presente|Escritura|PaginaGrande|Global)
	return p
}

// MapearRegionUsuario instala el marco de 4MB en la región fija de usuario
func (p *Paginacion) MapearRegionUsuario(marco uint32) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.directorio[indiceUsuario] = NuevaEntrada(marco, Presente|Escritura|Usuario|PaginaGrande)
	p.pidActual = int((marco - FinKernel) / TamPaginaGrande)
	p.tlb.Vaciar()
	p.metricas.remapeo(p.pidActual)
}

// MapearVideoUsuario valida que el puntero esté dentro del programa, mapea la
// dirección fija de video de usuario sobre destino y escribe esa dirección
// a través del puntero.
func (p *Paginacion) MapearVideoUsuario(puntero uint32, destino uint32) (uint32, error) {
	if puntero < InicioUsuario || puntero > FinUsuario-4 {
		return 0, fmt.Errorf("%w: %#x", ErrPunteroInvalido, puntero)
	}

	p.mu.Lock()
	p.directorio[indiceVideo] = NuevaEntrada(dirTablaVideo, Presente|Escritura|Usuario)
	p.tablas[dirTablaVideo][0] = NuevaEntrada(destino, Presente|Escritura|Usuario)
	p.tlb.Vaciar()
	p.mu.Unlock()

	utils.InfoLog.Debug("Video mapeado en espacio de usuario",
		"virtual", fmt.Sprintf("%#x", VideoUsuario), "fisica", fmt.Sprintf("%#x", destino))

	var valor [4]byte
	binary.LittleEndian.PutUint32(valor[:], VideoUsuario)
	if err := p.EscribirUsuario(puntero, valor[:]); err != nil {
		return 0, err
	}
	return VideoUsuario, nil
}

// RedirigirVideoUsuario cambia la página física detrás del video de usuario,
// si algún proceso lo mapeó.
func (p *Paginacion) RedirigirVideoUsuario(destino uint32) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.directorio[indiceVideo].Presente() {
		return
	}
	p.tablas[dirTablaVideo][0] = NuevaEntrada(destino, Presente|Escritura|Usuario)
	p.tlb.Vaciar()
}

// VideoMapeado indica si la dirección de video de usuario está instalada
func (p *Paginacion) VideoMapeado() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.directorio[indiceVideo].Presente()
}

// EntradaDirectorio devuelve la entrada i del directorio
func (p *Paginacion) EntradaDirectorio(i int) Entrada {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.directorio[i]
}

// Traducir resuelve una dirección virtual a física. usuario indica un acceso
// desde modo usuario, que no puede tocar páginas de supervisor.
func (p *Paginacion) Traducir(virtual uint32, usuario, escritura bool) (uint32, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.traducir(virtual, usuario, escritura)
}

func (p *Paginacion) traducir(virtual uint32, usuario, escritura bool) (uint32, error) {
	pagina := virtual / TamPagina
	desplazamiento := virtual % TamPagina

	e, ok := p.tlb.buscar(pagina)
	if ok {
		p.metricas.aciertoTLB(p.pidActual)
	} else {
		p.metricas.falloTLB(p.pidActual)
		var err error
		e, err = p.recorrer(virtual)
		if err != nil {
			p.metricas.falloPagina(p.pidActual)
			return 0, err
		}
		p.tlb.agregar(e)
	}

	if usuario && !e.usuario {
		p.metricas.falloPagina(p.pidActual)
		return 0, fmt.Errorf("%w: %#x es de supervisor", ErrFalloPagina, virtual)
	}
	if escritura && !e.escritura {
		p.metricas.falloPagina(p.pidActual)
		return 0, fmt.Errorf("%w: %#x es de solo lectura", ErrFalloPagina, virtual)
	}
	return e.marco + desplazamiento, nil
}

// recorrer hace la caminata de dos niveles sin pasar por la TLB
func (p *Paginacion) recorrer(virtual uint32) (entradaTLB, error) {
	pde := p.directorio[virtual>>22]
	if !pde.Presente() {
		return entradaTLB{}, fmt.Errorf("%w: %#x sin entrada de directorio", ErrFalloPagina, virtual)
	}

	if pde.Grande() {
		return entradaTLB{
			pagina:    virtual / TamPagina,
			marco:     pde.Base() + (virtual&(TamPaginaGrande-1))&^(TamPagina-1),
			usuario:   pde.Tiene(Usuario),
			escritura: pde.Tiene(Escritura),
		}, nil
	}

	tabla, ok := p.tablas[pde.Base()]
	if !ok {
		return entradaTLB{}, fmt.Errorf("%w: tabla %#x inexistente", ErrFalloPagina, pde.Base())
	}
	pte := tabla[(virtual>>12)&(EntradasTabla-1)]
	if !pte.Presente() {
		return entradaTLB{}, fmt.Errorf("%w: %#x sin entrada de tabla", ErrFalloPagina, virtual)
	}
	return entradaTLB{
		pagina:    virtual / TamPagina,
		marco:     pte.Base(),
		usuario:   pde.Tiene(Usuario) && pte.Tiene(Usuario),
		escritura: pde.Tiene(Escritura) && pte.Tiene(Escritura),
	}, nil
}

// ValidarUsuario verifica que los n bytes desde virtual sean accesibles
// desde modo usuario, sin copiar nada.
func (p *Paginacion) ValidarUsuario(virtual uint32, n int, escritura bool) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if n <= 0 {
		return nil
	}
	fin := uint64(virtual) + uint64(n)
	if fin > 1<<32 {
		return fmt.Errorf("%w: %#x+%d desborda", ErrFalloPagina, virtual, n)
	}
	for pagina := uint64(virtual) &^ (TamPagina - 1); pagina < fin; pagina += TamPagina {
		dir := uint32(pagina)
		if pagina < uint64(virtual) {
			dir = virtual
		}
		if _, err := p.traducir(dir, true, escritura); err != nil {
			return err
		}
	}
	return nil
}

// LeerUsuario copia memoria virtual de usuario a buf, página por página
func (p *Paginacion) LeerUsuario(virtual uint32, buf []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	for len(buf) > 0 {
		fisica, err := p.traducir(virtual, true, false)
		if err != nil {
			return err
		}
		n := int(TamPagina - virtual%TamPagina)
		if n > len(buf) {
			n = len(buf)
		}
		p.fisica.LeerFisica(fisica, buf[:n])
		p.metricas.lectura(p.pidActual)
		buf = buf[n:]
		virtual += uint32(n)
	}
	return nil
}

// EscribirUsuario copia datos a memoria virtual de usuario
func (p *Paginacion) EscribirUsuario(virtual uint32, datos []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	for len(datos) > 0 {
		fisica, err := p.traducir(virtual, true, true)
		if err != nil {
			return err
		}
		n := int(TamPagina - virtual%TamPagina)
		if n > len(datos) {
			n = len(datos)
		}
		p.fisica.EscribirFisica(fisica, datos[:n])
		p.metricas.escritura(p.pidActual)
		datos = datos[n:]
		virtual += uint32(n)
	}
	return nil
}

// LeerCadenaUsuario lee hasta el primer NUL o hasta max bytes. Si no encontró
// el terminador el resultado tiene exactamente max bytes.
func (p *Paginacion) LeerCadenaUsuario(virtual uint32, max int) (string, error) {
	var cadena []byte
	var b [1]byte
	for len(cadena) < max {
		if err := p.LeerUsuario(virtual, b[:]); err != nil {
			return "", err
		}
		if b[0] == 0 {
			break
		}
		cadena = append(cadena, b[0])
		virtual++
	}
	return string(cadena), nil
}

// Metricas devuelve los contadores de acceso por proceso
func (p *Paginacion) Metricas() *Metricas {
	return p.metricas
}

// Fisica expone la memoria física para los dispositivos mapeados
func (p *Paginacion) Fisica() *MemoriaFisica {
	return p.fisica
}
