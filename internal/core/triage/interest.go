package triage

import (
	"strings"

	"recon-triage/internal/core/probe"
	"recon-triage/internal/platform/urlutil"
)

// InterestTag marca un host con un patrón de endpoint relevante para
// seguridad. Es ortogonal a la categoría: un registro puede llevar cero,
// una o las tres etiquetas.
type InterestTag string

const (
	TagAdminPanel  InterestTag = "admin_panels"
	TagAPIEndpoint InterestTag = "api_endpoints"
	TagDevServer   InterestTag = "development_servers"
)

// TagOrder fija el orden de presentación de las etiquetas.
var TagOrder = []InterestTag{TagAdminPanel, TagAPIEndpoint, TagDevServer}

var tagNames = map[InterestTag]string{
	TagAdminPanel:  "Admin Panels",
	TagAPIEndpoint: "API Endpoints",
	TagDevServer:   "Development Servers",
}

// DisplayName devuelve el nombre legible de la etiqueta.
func (t InterestTag) DisplayName() string {
	if name, ok := tagNames[t]; ok {
		return name
	}
	return string(t)
}

// Patterns contiene las tablas de patrones del detector de interés. Se pasa
// explícitamente (nunca estado global) para que los tests puedan sustituir
// tablas sin afectar a otros componentes.
type Patterns struct {
	// AdminPaths se compara contra el path de la URL final.
	AdminPaths []string
	// AdminTitleWords se compara contra el título de la página.
	AdminTitleWords []string
	// APIPaths se compara contra el path de la URL final.
	APIPaths []string
	// APIHostPrefixes se compara contra el hostname (ej. "api.").
	APIHostPrefixes []string
	// DevPorts son puertos explícitos típicos de servidores de desarrollo.
	DevPorts []string
}

// DefaultPatterns devuelve las tablas con las que se distribuye el detector.
func DefaultPatterns() Patterns {
	return Patterns{
		AdminPaths:      []string{"/admin", "/login", "/panel", "/dashboard"},
		AdminTitleWords: []string{"admin", "login", "dashboard", "control panel"},
		APIPaths:        []string{"/api", "/v1", "/v2", "/v3", "/graphql", "/rest"},
		APIHostPrefixes: []string{"api."},
		DevPorts:        []string{"3000", "5000", "8000", "8080", "9000", "4200"},
	}
}

// WithOverrides devuelve una copia con las tablas no vacías sustituidas.
func (p Patterns) WithOverrides(adminPaths, apiPaths, devPorts []string) Patterns {
	out := p
	if len(adminPaths) > 0 {
		out.AdminPaths = adminPaths
	}
	if len(apiPaths) > 0 {
		out.APIPaths = apiPaths
	}
	if len(devPorts) > 0 {
		out.DevPorts = devPorts
	}
	return out
}

// Tag evalúa las tres tablas de forma independiente y devuelve las
// etiquetas que aplican, siempre en el orden de TagOrder. Nunca inspecciona
// el status code.
func (p Patterns) Tag(rec *probe.HostRecord) []InterestTag {
	if rec == nil {
		return nil
	}

	var tags []InterestTag
	if p.matchesAdmin(rec) {
		tags = append(tags, TagAdminPanel)
	}
	if p.matchesAPI(rec) {
		tags = append(tags, TagAPIEndpoint)
	}
	if p.matchesDevServer(rec) {
		tags = append(tags, TagDevServer)
	}
	return tags
}

func (p Patterns) matchesAdmin(rec *probe.HostRecord) bool {
	path := strings.ToLower(urlutil.ExtractPath(rec.FinalURL))
	for _, pattern := range p.AdminPaths {
		if pattern != "" && strings.Contains(path, strings.ToLower(pattern)) {
			return true
		}
	}
	title := strings.ToLower(rec.Title)
	if title == "" {
		return false
	}
	for _, word := range p.AdminTitleWords {
		if word != "" && strings.Contains(title, strings.ToLower(word)) {
			return true
		}
	}
	return false
}

func (p Patterns) matchesAPI(rec *probe.HostRecord) bool {
	path := strings.ToLower(urlutil.ExtractPath(rec.FinalURL))
	for _, pattern := range p.APIPaths {
		if pattern != "" && strings.Contains(path, strings.ToLower(pattern)) {
			return true
		}
	}
	host := strings.ToLower(rec.Host)
	for _, prefix := range p.APIHostPrefixes {
		if prefix != "" && strings.HasPrefix(host, strings.ToLower(prefix)) {
			return true
		}
	}
	return false
}

func (p Patterns) matchesDevServer(rec *probe.HostRecord) bool {
	port := urlutil.ExtractPort(rec.FinalURL)
	if port == "" {
		port = urlutil.ExtractPort(rec.Host)
	}
	if port == "" {
		return false
	}
	for _, dev := range p.DevPorts {
		if dev != "" && port == strings.TrimSpace(dev) {
			return true
		}
	}
	return false
}
