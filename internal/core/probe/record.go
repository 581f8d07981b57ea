// Package probe decodifica la salida JSON por líneas de la herramienta de
// probing HTTP en registros normalizados listos para clasificar.
package probe

import (
	"net/url"
	"strings"

	"recon-triage/internal/platform/urlutil"
)

// Scheme identifica el esquema con el que respondió un host.
type Scheme string

const (
	SchemeHTTP    Scheme = "http"
	SchemeHTTPS   Scheme = "https"
	SchemeUnknown Scheme = "unknown"
)

// HostRecord representa un host probado. Es inmutable una vez creado: el
// clasificador y el detector de interés solo lo leen.
type HostRecord struct {
	// Host es el subdominio probado (campo obligatorio).
	Host string
	// Input es la línea original que recibió la herramienta de probing.
	Input string
	// StatusCode es el código HTTP de la respuesta; válido solo si HasStatus.
	StatusCode int
	HasStatus  bool
	// Scheme es el esquema con el que respondió el host.
	Scheme Scheme
	// FinalURL es la última URL tras seguir redirects.
	FinalURL string
	Title    string
	// TechStack queda vacío en modo simple.
	TechStack []string
	// Err se rellena solo cuando el probe falló (connection refused, timeout).
	Err string
}

// Alive indica si el registro representa una respuesta HTTP real.
func (r *HostRecord) Alive() bool {
	return r.Err == "" && r.HasStatus
}

// DisplayURL devuelve la URL sin esquema para listados alineados.
func (r *HostRecord) DisplayURL() string {
	if r.FinalURL != "" {
		return urlutil.StripScheme(r.FinalURL)
	}
	return r.Host
}

// ParseScheme normaliza un esquema de la salida del prober.
func ParseScheme(raw string) Scheme {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "http":
		return SchemeHTTP
	case "https":
		return SchemeHTTPS
	default:
		return SchemeUnknown
	}
}

// schemeFromURL deduce el esquema desde una URL cuando el prober no lo indicó.
func schemeFromURL(rawURL string) Scheme {
	return ParseScheme(urlutil.ExtractScheme(rawURL))
}

// hostFromURL extrae el hostname de una URL, o "" si no se puede.
func hostFromURL(rawURL string) string {
	trimmed := strings.TrimSpace(rawURL)
	if trimmed == "" {
		return ""
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	parsed, err := url.Parse(trimmed)
	if err != nil {
		return ""
	}
	return strings.ToLower(parsed.Hostname())
}
