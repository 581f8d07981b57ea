package netutil

import (
	"net"
	"strings"

	"golang.org/x/net/publicsuffix"
)

// Scope representa los límites canónicos de una enumeración: el dominio
// objetivo y su dominio registrable (eTLD+1). Los subdominios que subfinder
// devuelva fuera de estos límites se descartan antes de probar nada.
type Scope struct {
	hostname    string
	registrable string
	ip          net.IP
}

// NewScope construye un Scope desde el target dado. Si no se puede
// normalizar como dominio/IP válido devuelve nil (sin filtrado).
func NewScope(target string) *Scope {
	normalized := NormalizeDomain(target)
	if normalized == "" {
		return nil
	}

	if ip := net.ParseIP(normalized); ip != nil {
		return &Scope{hostname: normalized, ip: ip}
	}

	registrable := normalized
	if effective, err := publicsuffix.EffectiveTLDPlusOne(normalized); err == nil && effective != "" {
		registrable = strings.ToLower(effective)
	}

	return &Scope{
		hostname:    normalized,
		registrable: registrable,
	}
}

// AllowsDomain indica si el dominio proporcionado cae dentro del scope.
func (s *Scope) AllowsDomain(candidate string) bool {
	if s == nil {
		return true
	}

	normalized := NormalizeDomain(candidate)
	if normalized == "" {
		return false
	}

	// Si el scope es IP, solo aceptamos esa misma IP exacta.
	if s.ip != nil {
		if net.ParseIP(normalized) == nil {
			return false
		}
		return normalized == s.hostname
	}

	if net.ParseIP(normalized) != nil {
		return false
	}

	if normalized == s.hostname || normalized == s.registrable {
		return true
	}

	// Subdominios bajo el hostname o el dominio registrable.
	if strings.HasSuffix(normalized, "."+s.hostname) {
		return true
	}
	return strings.HasSuffix(normalized, "."+s.registrable)
}
