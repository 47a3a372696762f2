package memoria

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sisoputnfrba/tp-2025-2c-LosCuervosXeneizes/utils"
)

// Volcar escribe el marco de 4MB de pid en dir/<pid>-<timestamp>.dmp y
// devuelve la ruta del archivo.
func (p *Paginacion) Volcar(pid int, dir string) (string, error) {
	utils.InfoLog.Info("Iniciando memory dump", "pid", pid)

	timestamp := time.Now().Format("20060102-150405")
	nombreArchivo := fmt.Sprintf("%d-%s.dmp", pid, timestamp)
	rutaCompleta := filepath.Join(dir, nombreArchivo)

	if err := os.MkdirAll(dir, 0755); err != nil {
		utils.ErrorLog.Error("Error creando directorio dump", "error", err)
		return "", fmt.Errorf("error al crear directorio para dumps: %v", err)
	}

	contenido := make([]byte, TamPaginaGrande)
	p.fisica.LeerFisica(MarcoProceso(pid), contenido)

	if err := os.WriteFile(rutaCompleta, contenido, 0644); err != nil {
		utils.ErrorLog.Error("Error escribiendo dump", "archivo", rutaCompleta, "error", err)
		return "", fmt.Errorf("error al escribir en archivo de dump: %v", err)
	}

	utils.InfoLog.Info(fmt.Sprintf("## PID: %d Memory Dump solicitado", pid))
	return rutaCompleta, nil
}
