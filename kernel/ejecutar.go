package kernel

import (
	"encoding/binary"
	"fmt"
	"runtime"
	"strings"

	"github.com/sisoputnfrba/tp-2025-2c-LosCuervosXeneizes/memoria"
	"github.com/sisoputnfrba/tp-2025-2c-LosCuervosXeneizes/utils"
)

// ProgramaShell es el programa que arranca cada terminal
const ProgramaShell = "shell"

// separarComando devuelve el nombre del programa y su único argumento. Los
// separadores son espacios; un '\n' termina el comando. A partir del tercer
// token no se mira nada.
func separarComando(comando string) (string, string, error) {
	if i := strings.IndexByte(comando, '\n'); i >= 0 {
		comando = comando[:i]
	}
	tokens := strings.FieldsFunc(comando, func(r rune) bool { return r == ' ' })
	if len(tokens) == 0 {
		return "", "", fmt.Errorf("%w: comando vacío", ErrArgumentoInvalido)
	}

	nombre := tokens[0]
	if len(nombre) > LargoNombre {
		return "", "", fmt.Errorf("%w: nombre de %d bytes", ErrArgumentoInvalido, len(nombre))
	}
	argumento := ""
	if len(tokens) > 1 {
		argumento = tokens[1]
		if len(argumento) > LargoArgumento {
			return "", "", fmt.Errorf("%w: argumento de %d bytes", ErrArgumentoInvalido, len(argumento))
		}
	}
	return nombre, argumento, nil
}

// leerEjecutable trae la imagen completa de un programa y su punto de entrada
func (k *Kernel) leerEjecutable(nombre string) ([]byte, uint32, error) {
	entrada, err := k.fs.BuscarPorNombre(nombre)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrNoEjecutable, err)
	}
	imagen, err := k.fs.LeerTodo(entrada.Inodo)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrNoEjecutable, err)
	}
	if len(imagen) > memoria.FinUsuario-memoria.DireccionCarga {
		return nil, 0, fmt.Errorf("%w: %s ocupa %d bytes", ErrNoEjecutable, nombre, len(imagen))
	}
	dir, err := entradaDe(imagen)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %s", err, nombre)
	}
	return imagen, dir, nil
}

// crearProceso hace todo lo de execute salvo pasarle la CPU al proceso.
// Con terminalRaiz distinto de SinTerminal crea la shell de esa terminal.
func (k *Kernel) crearProceso(comando string, terminalRaiz int, padre int) (*PCB, error) {
	if terminalRaiz == SinTerminal && k.tabla.Llena() {
		return nil, fmt.Errorf("%w: tabla de procesos llena (%d)", ErrRecursosAgotados, k.tabla.Cantidad())
	}

	nombre, argumento, err := separarComando(comando)
	if err != nil {
		return nil, err
	}
	imagen, entrada, err := k.leerEjecutable(nombre)
	if err != nil {
		return nil, err
	}

	pcb, err := k.tabla.Asignar(terminalRaiz, padre)
	if err != nil {
		return nil, err
	}
	pcb.Nombre = nombre
	pcb.Argumento = argumento
	pcb.Entrada = entrada
	if terminalRaiz == SinTerminal {
		pcb.Terminal = k.tabla.PCB(padre).Terminal
	}

	k.paginacion.Metricas().Reiniciar(pcb.PID)
	k.paginacion.MapearRegionUsuario(memoria.MarcoProceso(pcb.PID))
	if err := k.paginacion.EscribirUsuario(memoria.DireccionCarga, imagen); err != nil {
		k.tabla.Liberar(pcb.PID)
		if terminalRaiz == SinTerminal {
			k.paginacion.MapearRegionUsuario(memoria.MarcoProceso(padre))
		}
		return nil, fmt.Errorf("%w: %v", ErrNoEjecutable, err)
	}

	k.terminales[pcb.Terminal].PidActual = pcb.PID
	utils.InfoLog.Info(fmt.Sprintf("## (%d) Se crea el proceso - %s", pcb.PID, nombre),
		"padre", pcb.Padre, "terminal", pcb.Terminal, "argumento", argumento,
		"entrada", fmt.Sprintf("%#x", entrada))
	return pcb, nil
}

// execute crea el hijo y le pasa la CPU. Vuelve recién cuando el hijo hace
// halt, con el estado que haya pasado.
func (k *Kernel) execute(comando string) int32 {
	anterior := k.cpu.Cli()

	padre := k.pcbActual()
	if padre == nil {
		k.cpu.Restaurar(anterior)
		return k.fallo(SysExecute, fmt.Errorf("%w: no hay proceso en ejecución", ErrArgumentoInvalido))
	}
	pcb, err := k.crearProceso(comando, SinTerminal, padre.PID)
	if err != nil {
		k.cpu.Restaurar(anterior)
		return k.fallo(SysExecute, err)
	}

	retorno := k.cpu.GuardarContexto(padre.puerta)
	pcb.ContextoRetorno = retorno
	k.lanzar(pcb)

	estado := k.cpu.Esperar(retorno)
	k.cpu.Restaurar(anterior)
	return estado
}

// arrancarShellRaiz crea la shell de una terminal y le pasa la CPU. Si
// vuelve sin error, quien llama tiene que bloquearse o terminar.
func (k *Kernel) arrancarShellRaiz(terminal int) error {
	pcb, err := k.crearProceso(ProgramaShell, terminal, PadreRaiz)
	if err != nil {
		utils.ErrorLog.Error("No se pudo arrancar la shell", "terminal", terminal, "error", err)
		return err
	}
	utils.InfoLog.Info(fmt.Sprintf("## Terminal %d arrancada con el proceso %d", terminal, pcb.PID))
	k.lanzar(pcb)
	return nil
}

// lanzar crea el flujo del proceso con su pila de kernel y le transfiere la CPU
func (k *Kernel) lanzar(pcb *PCB) {
	pid, entrada := pcb.PID, pcb.Entrada
	pila := memoria.PilaKernel(pid)

	k.cpu.FijarPilaKernel(pila)
	ctx := k.cpu.NuevoContexto(pcb.puerta, pila)
	pcb.ContextoGuardado = ctx
	k.cpu.Lanzar(ctx, func() { k.ejecutarPrograma(pid, entrada) })
	k.cpu.Transferir(ctx, 0)
}

// ejecutarPrograma es el cuerpo de la goroutine de un proceso: entra a modo
// usuario en el punto de entrada y termina siempre por halt.
func (k *Kernel) ejecutarPrograma(pid int, entrada uint32) {
	k.cpu.Sti()

	programa, ok := k.programas[entrada]
	if !ok {
		utils.ErrorLog.Error(fmt.Sprintf("## (%d) - Punto de entrada sin código", pid),
			"entrada", fmt.Sprintf("%#x", entrada))
		k.excepcion(ExcOpcodeInvalido)
	}

	defer func() {
		if r := recover(); r != nil {
			utils.ErrorLog.Error(fmt.Sprintf("## (%d) - Pánico en modo usuario", pid), "panic", r)
			k.excepcion(ExcProteccionGeneral)
		}
	}()

	estado := programa(nuevoUsuario(k, pid))
	k.halt(int32(estado))
}

// halt termina el proceso actual. No vuelve.
func (k *Kernel) halt(estado int32) {
	k.cpu.Cli()
	pcb := k.pcbActual()

	for fd := 0; fd < CantDescriptores; fd++ {
		// 0 y 1 fallan y quedan abiertos
		_ = k.close(fd)
	}
	pcb.Argumento = ""
	utils.InfoLog.Info(fmt.Sprintf("## (%d) - Finaliza el proceso", pcb.PID),
		"nombre", pcb.Nombre, "estado", estado)

	if pcb.EsRaiz() {
		terminal := pcb.Terminal
		k.tabla.Liberar(pcb.PID)
		if err := k.arrancarShellRaiz(terminal); err != nil {
			k.terminales[terminal].PidActual = SinArrancar
			k.cpu.Transferir(k.ocioso, 0)
		}
		runtime.Goexit()
	}

	padre := k.tabla.PCB(pcb.Padre)
	retorno := pcb.ContextoRetorno
	k.tabla.Liberar(pcb.PID)

	k.terminales[pcb.Terminal].PidActual = padre.PID
	k.paginacion.MapearRegionUsuario(memoria.MarcoProceso(padre.PID))
	k.cpu.FijarPilaKernel(memoria.PilaKernel(padre.PID))
	k.cpu.Transferir(retorno, estado)
	runtime.Goexit()
}

// entradaDe valida la cabecera y devuelve el punto de entrada
func entradaDe(imagen []byte) (uint32, error) {
	if len(imagen) < OffsetEntrada+4 || string(imagen[:len(MagiaEjecutable)]) != MagiaEjecutable {
		return 0, fmt.Errorf("%w: cabecera inválida", ErrNoEjecutable)
	}
	return binary.LittleEndian.Uint32(imagen[OffsetEntrada : OffsetEntrada+4]), nil
}
