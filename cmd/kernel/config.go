package main

import "github.com/sisoputnfrba/tp-2025-2c-LosCuervosXeneizes/kernel"

// KernelConfig define la configuración del módulo Kernel. Los parámetros de
// la máquina se leen del mismo JSON.
type KernelConfig struct {
	IPKernel     string `json:"IP_KERNEL"`
	PortKernel   int    `json:"PUERTO_KERNEL"`
	LogLevel     string `json:"LOG_LEVEL"`
	ImagenFS     string `json:"IMAGEN_FS,omitempty"`
	CapturasPath string `json:"CAPTURAS_PATH"`
	DumpPath     string `json:"DUMP_PATH"`
	MaxCapturas  int    `json:"MAX_CAPTURAS_SIMULTANEAS"`

	kernel.Config
}
