package utils

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// Mensaje es el sobre de todo lo que viaja entre el Kernel y las terminales
type Mensaje struct {
	Tipo      int         `json:"tipo"`
	Operacion string      `json:"operacion"`
	Origen    string      `json:"origen"`
	Datos     interface{} `json:"datos"`
}

// ErrorHTTP es una respuesta del otro módulo con estado distinto de 200
type ErrorHTTP struct {
	Estado int
	Cuerpo string
}

func (e *ErrorHTTP) Error() string {
	return fmt.Sprintf("respuesta HTTP no exitosa: %d - %s", e.Estado, e.Cuerpo)
}

// HTTPClient envía Mensajes a otro módulo
type HTTPClient struct {
	BaseURL string
	Nombre  string
	client  *http.Client
}

// NewHTTPClient crea un nuevo cliente HTTP; Nombre viaja como Origen
func NewHTTPClient(ip string, puerto int, nombre string) *HTTPClient {
	return &HTTPClient{
		BaseURL: fmt.Sprintf("http://%s:%d", ip, puerto),
		Nombre:  nombre,
		client: &http.Client{
			Timeout: 5 * time.Second,
		},
	}
}

// ConTimeout cambia el timeout de cada pedido
func (c *HTTPClient) ConTimeout(d time.Duration) *HTTPClient {
	c.client.Timeout = d
	return c
}

// EnviarHTTPMensaje envía un mensaje y devuelve la respuesta sin tipar
func (c *HTTPClient) EnviarHTTPMensaje(tipo int, operacion string, datos interface{}) (interface{}, error) {
	var resultado interface{}
	if err := c.EnviarYDecodificar(tipo, operacion, datos, &resultado); err != nil {
		return nil, err
	}
	return resultado, nil
}

// EnviarYDecodificar envía un mensaje y decodifica la respuesta en destino.
// Con destino nil la respuesta se descarta.
func (c *HTTPClient) EnviarYDecodificar(tipo int, operacion string, datos interface{}, destino interface{}) error {
	jsonData, err := json.Marshal(Mensaje{
		Tipo:      tipo,
		Operacion: operacion,
		Origen:    c.Nombre,
		Datos:     datos,
	})
	if err != nil {
		return fmt.Errorf("error al serializar mensaje: %w", err)
	}

	resp, err := c.client.Post(c.BaseURL+RutaMensaje, "application/json", bytes.NewReader(jsonData))
	if err != nil {
		return fmt.Errorf("error al enviar mensaje HTTP: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		cuerpo, _ := io.ReadAll(resp.Body)
		return &ErrorHTTP{Estado: resp.StatusCode, Cuerpo: string(bytes.TrimSpace(cuerpo))}
	}
	if destino == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(destino); err != nil {
		return fmt.Errorf("error al decodificar respuesta en %T: %w", destino, err)
	}
	return nil
}

// VerificarConexion verifica si un módulo está disponible
func (c *HTTPClient) VerificarConexion() error {
	resp, err := c.client.Get(c.BaseURL + RutaSalud)
	if err != nil {
		return fmt.Errorf("error al verificar conexión con %s: %w", c.BaseURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &ErrorHTTP{Estado: resp.StatusCode}
	}

	var result map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("error al decodificar respuesta de verificación: %w", err)
	}

	slog.Info("Conexión verificada", "destino", c.BaseURL, "módulo", result["module"])
	return nil
}

// EnviarHTTPOperacion envía un MensajeOperacion
func (c *HTTPClient) EnviarHTTPOperacion(operacion string, datos map[string]interface{}) (interface{}, error) {
	return c.EnviarHTTPMensaje(MensajeOperacion, operacion, datos)
}
