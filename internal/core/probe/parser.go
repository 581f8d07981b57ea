package probe

import (
	"encoding/json"
	"errors"
	"strings"

	"recon-triage/internal/platform/logx"
)

var (
	// ErrMalformedLine indica una línea que no decodifica como JSON válido.
	ErrMalformedLine = errors.New("línea de probe malformada")
	// ErrMissingHost indica un registro decodificado sin host identificable.
	ErrMissingHost = errors.New("registro de probe sin host")
	// ErrNoOutcome indica un registro sin status code y sin error: no se
	// puede determinar si el host respondió, así que se rechaza.
	ErrNoOutcome = errors.New("registro de probe sin status ni error")
)

// probeLine refleja los campos que emite httpx con -json. Los campos
// desconocidos se ignoran y el orden no importa.
type probeLine struct {
	URL        string   `json:"url"`
	Input      string   `json:"input"`
	Host       string   `json:"host"`
	Port       string   `json:"port"`
	StatusCode *int     `json:"status_code"`
	Scheme     string   `json:"scheme"`
	FinalURL   string   `json:"final_url"`
	Title      string   `json:"title"`
	Tech       []string `json:"tech"`
	Failed     bool     `json:"failed"`
	Error      string   `json:"error"`
}

// Diagnostics acumula los fallos de parseo de una pasada. Las líneas
// malformadas nunca abortan el run; solo se cuentan y se loguean.
type Diagnostics struct {
	MalformedLines int
	MissingHost    int
	NoOutcome      int
	samples        []string
}

const diagnosticsSampleLimit = 5

func (d *Diagnostics) record(line string, err error) {
	switch {
	case errors.Is(err, ErrMissingHost):
		d.MissingHost++
	case errors.Is(err, ErrNoOutcome):
		d.NoOutcome++
	default:
		d.MalformedLines++
	}
	if len(d.samples) < diagnosticsSampleLimit {
		d.samples = append(d.samples, strings.TrimSpace(line))
	}
	logx.Debug("línea de probe descartada", logx.Fields{
		"tool":   "httpx",
		"reason": err.Error(),
	})
}

// Total devuelve el número de líneas descartadas.
func (d *Diagnostics) Total() int {
	return d.MalformedLines + d.MissingHost + d.NoOutcome
}

// Samples devuelve hasta cinco líneas descartadas, para logs.
func (d *Diagnostics) Samples() []string {
	return d.samples
}

// Parser convierte líneas crudas del prober en HostRecords.
type Parser struct {
	diag *Diagnostics
}

// NewParser crea un parser que reporta fallos en diag. diag puede ser nil.
func NewParser(diag *Diagnostics) *Parser {
	if diag == nil {
		diag = &Diagnostics{}
	}
	return &Parser{diag: diag}
}

// Diagnostics expone el sink de diagnóstico del parser.
func (p *Parser) Diagnostics() *Diagnostics {
	return p.diag
}

// ParseLine decodifica una línea del prober. Devuelve (nil, false) para
// líneas vacías o inválidas; los fallos quedan registrados en Diagnostics.
func (p *Parser) ParseLine(line string) (*HostRecord, bool) {
	rec, err := parseLine(line)
	if err != nil {
		if !errors.Is(err, errBlankLine) {
			p.diag.record(line, err)
		}
		return nil, false
	}
	return rec, true
}

var errBlankLine = errors.New("línea vacía")

func parseLine(line string) (*HostRecord, error) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return nil, errBlankLine
	}

	var raw probeLine
	if err := json.Unmarshal([]byte(trimmed), &raw); err != nil {
		return nil, ErrMalformedLine
	}

	// httpx rellena "host" con la IP resuelta, no con el hostname probado:
	// ese viaja en "input" y en la URL. "host" queda como último recurso
	// para que los registros casen con los hosts enumerados.
	host := hostFromURL(raw.Input)
	if host == "" {
		host = hostFromURL(raw.URL)
	}
	if host == "" {
		host = strings.ToLower(strings.TrimSpace(raw.Host))
	}
	if host == "" {
		return nil, ErrMissingHost
	}

	errMsg := strings.TrimSpace(raw.Error)
	if errMsg == "" && raw.Failed {
		errMsg = "probe failed"
	}

	// Exactamente uno de {status, error} determina el resultado del probe.
	if raw.StatusCode == nil && errMsg == "" {
		return nil, ErrNoOutcome
	}

	finalURL := strings.TrimSpace(raw.FinalURL)
	if finalURL == "" {
		finalURL = strings.TrimSpace(raw.URL)
	}

	scheme := ParseScheme(raw.Scheme)
	if scheme == SchemeUnknown {
		scheme = schemeFromURL(finalURL)
	}

	rec := &HostRecord{
		Host:     host,
		Input:    strings.TrimSpace(raw.Input),
		Scheme:   scheme,
		FinalURL: finalURL,
		Title:    strings.TrimSpace(raw.Title),
		Err:      errMsg,
	}
	if raw.StatusCode != nil {
		rec.StatusCode = *raw.StatusCode
		rec.HasStatus = true
	}
	if len(raw.Tech) > 0 {
		rec.TechStack = append([]string(nil), raw.Tech...)
	}

	return rec, nil
}
