// Package triage clasifica registros de probe en categorías operacionales,
// los etiqueta con hallazgos de interés y los agrega en un reporte acotado.
package triage

// Category es el estado operacional de un host. Cada registro cae en
// exactamente una categoría.
type Category string

const (
	CategoryFullyOperational Category = "fully_operational"
	CategoryHTTPSOnly        Category = "https_only"
	CategoryHTTPOnly         Category = "http_only"
	CategoryRedirecting      Category = "redirects"
	CategoryServerError      Category = "errors"
	CategoryAccessBlocked    Category = "blocked"
	CategoryNoResponse       Category = "no_response"
)

// CategoryOrder fija el orden de presentación en reportes y consola.
// Nunca se itera el set de categorías desde un map.
var CategoryOrder = []Category{
	CategoryFullyOperational,
	CategoryHTTPSOnly,
	CategoryHTTPOnly,
	CategoryRedirecting,
	CategoryServerError,
	CategoryAccessBlocked,
	CategoryNoResponse,
}

var categoryNames = map[Category]string{
	CategoryFullyOperational: "FULLY OPERATIONAL",
	CategoryHTTPSOnly:        "HTTPS ONLY",
	CategoryHTTPOnly:         "HTTP ONLY",
	CategoryRedirecting:      "REDIRECTING",
	CategoryServerError:      "SERVER ERRORS",
	CategoryAccessBlocked:    "ACCESS BLOCKED",
	CategoryNoResponse:       "NO RESPONSE",
}

// DisplayName devuelve el nombre legible de la categoría.
func (c Category) DisplayName() string {
	if name, ok := categoryNames[c]; ok {
		return name
	}
	return string(c)
}

// Known indica si la categoría pertenece al set cerrado de siete.
func (c Category) Known() bool {
	_, ok := categoryNames[c]
	return ok
}
