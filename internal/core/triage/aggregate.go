package triage

import (
	"fmt"
	"time"

	"recon-triage/internal/core/probe"
)

// HostEntry es la vista de un registro dentro del reporte.
type HostEntry struct {
	Host       string   `json:"host"`
	URL        string   `json:"url,omitempty"`
	CleanURL   string   `json:"clean_url,omitempty"`
	StatusCode int      `json:"status_code,omitempty"`
	Title      string   `json:"title,omitempty"`
	Tech       []string `json:"tech,omitempty"`
	Error      string   `json:"error,omitempty"`
	Tags       []string `json:"tags,omitempty"`
}

// CategoryGroup es una categoría con su lista acotada y su total real.
// Total siempre refleja todos los registros de la categoría, aunque la
// lista esté truncada.
type CategoryGroup struct {
	Category Category    `json:"-"`
	Total    int         `json:"total"`
	Hosts    []HostEntry `json:"hosts"`
}

// TagGroup es una etiqueta de interés con los hosts que la llevan.
type TagGroup struct {
	Tag   InterestTag `json:"-"`
	Total int         `json:"total"`
	Hosts []string    `json:"hosts"`
}

// Summary contiene los contadores globales del run.
type Summary struct {
	Discovered  int `json:"total_discovered"`
	Resolved    int `json:"dns_resolved"`
	Alive       int `json:"online_hosts"`
	WebServices int `json:"web_services"`

	FullyOperational int `json:"fully_operational"`
	HTTPSOnly        int `json:"https_only"`
	HTTPOnly         int `json:"http_only"`
	Redirecting      int `json:"redirects"`
	ServerError      int `json:"errors"`
	AccessBlocked    int `json:"blocked"`
	NoResponse       int `json:"no_response"`

	AdminPanels  int `json:"admin_panels"`
	APIEndpoints int `json:"api_endpoints"`
	DevServers   int `json:"development_servers"`
}

// CategoryCount devuelve el contador de una categoría del summary.
func (s Summary) CategoryCount(c Category) int {
	switch c {
	case CategoryFullyOperational:
		return s.FullyOperational
	case CategoryHTTPSOnly:
		return s.HTTPSOnly
	case CategoryHTTPOnly:
		return s.HTTPOnly
	case CategoryRedirecting:
		return s.Redirecting
	case CategoryServerError:
		return s.ServerError
	case CategoryAccessBlocked:
		return s.AccessBlocked
	case CategoryNoResponse:
		return s.NoResponse
	default:
		return 0
	}
}

// Report es el resultado agregado de un run completo (o parcial).
type Report struct {
	Target      string
	GeneratedAt time.Time
	Partial     bool
	MaxHosts    int
	Summary     Summary
	Categories  []CategoryGroup // siempre en CategoryOrder
	Interesting []TagGroup      // siempre en TagOrder
}

type bucket struct {
	total int
	hosts []HostEntry
}

// Aggregator pliega registros clasificados y etiquetados en un Report.
// Mantiene contadores independientes y listas en orden de llegada; nada se
// deriva de iterar maps.
type Aggregator struct {
	maxHosts   int
	discovered int
	resolved   map[string]struct{}
	alive      int
	webSvc     int

	buckets  map[Category]*bucket
	tagHosts map[InterestTag][]string
}

// NewAggregator crea un agregador. maxHosts acota las listas por categoría;
// config.MaxHostsUnbounded (0) desactiva el truncado.
func NewAggregator(maxHosts int) *Aggregator {
	if maxHosts < 0 {
		maxHosts = 0
	}
	a := &Aggregator{
		maxHosts: maxHosts,
		resolved: make(map[string]struct{}),
		buckets:  make(map[Category]*bucket, len(CategoryOrder)),
		tagHosts: make(map[InterestTag][]string, len(TagOrder)),
	}
	for _, c := range CategoryOrder {
		a.buckets[c] = &bucket{}
	}
	return a
}

// AddDiscovered cuenta una línea del enumerador (antes de filtrar nada).
func (a *Aggregator) AddDiscovered() {
	a.discovered++
}

// AddResolved registra un host con nombre parseado correctamente.
func (a *Aggregator) AddResolved(host string) {
	if host == "" {
		return
	}
	a.resolved[host] = struct{}{}
}

// Add pliega un registro clasificado y etiquetado. Una categoría fuera del
// set cerrado es un defecto de programación: el clasificador es total, así
// que aquí se falla en voz alta en lugar de tragar el registro.
func (a *Aggregator) Add(rec *probe.HostRecord, cat Category, tags []InterestTag) {
	b, ok := a.buckets[cat]
	if !ok {
		panic(fmt.Sprintf("triage: categoría desconocida %q para host %s", cat, rec.Host))
	}

	a.AddResolved(rec.Host)

	if cat != CategoryNoResponse {
		a.alive++
		if rec.FinalURL != "" {
			a.webSvc++
		}
	}

	entry := HostEntry{
		Host:     rec.Host,
		URL:      rec.FinalURL,
		CleanURL: rec.DisplayURL(),
		Title:    rec.Title,
		Error:    rec.Err,
	}
	if rec.HasStatus {
		entry.StatusCode = rec.StatusCode
	}
	if len(rec.TechStack) > 0 {
		entry.Tech = append([]string(nil), rec.TechStack...)
	}
	for _, tag := range tags {
		entry.Tags = append(entry.Tags, string(tag))
		a.tagHosts[tag] = append(a.tagHosts[tag], rec.DisplayURL())
	}

	b.total++
	if a.maxHosts == 0 || len(b.hosts) < a.maxHosts {
		b.hosts = append(b.hosts, entry)
	}
}

// AddMissing sintetiza un NoResponse para un host enumerado que nunca
// produjo registro de probe.
func (a *Aggregator) AddMissing(host string) {
	if host == "" {
		return
	}
	a.AddResolved(host)

	b := a.buckets[CategoryNoResponse]
	b.total++
	if a.maxHosts == 0 || len(b.hosts) < a.maxHosts {
		b.hosts = append(b.hosts, HostEntry{Host: host, CleanURL: host})
	}
}

// Report construye el reporte final. No consume el agregador: llamadas
// sucesivas con los mismos datos devuelven valores idénticos.
func (a *Aggregator) Report(target string, generatedAt time.Time, partial bool) *Report {
	report := &Report{
		Target:      target,
		GeneratedAt: generatedAt,
		Partial:     partial,
		MaxHosts:    a.maxHosts,
		Summary: Summary{
			Discovered:  a.discovered,
			Resolved:    len(a.resolved),
			Alive:       a.alive,
			WebServices: a.webSvc,
		},
	}

	for _, cat := range CategoryOrder {
		b := a.buckets[cat]
		hosts := append([]HostEntry(nil), b.hosts...)
		if hosts == nil {
			hosts = []HostEntry{}
		}
		report.Categories = append(report.Categories, CategoryGroup{
			Category: cat,
			Total:    b.total,
			Hosts:    hosts,
		})

		switch cat {
		case CategoryFullyOperational:
			report.Summary.FullyOperational = b.total
		case CategoryHTTPSOnly:
			report.Summary.HTTPSOnly = b.total
		case CategoryHTTPOnly:
			report.Summary.HTTPOnly = b.total
		case CategoryRedirecting:
			report.Summary.Redirecting = b.total
		case CategoryServerError:
			report.Summary.ServerError = b.total
		case CategoryAccessBlocked:
			report.Summary.AccessBlocked = b.total
		case CategoryNoResponse:
			report.Summary.NoResponse = b.total
		}
	}

	for _, tag := range TagOrder {
		hosts := append([]string(nil), a.tagHosts[tag]...)
		if hosts == nil {
			hosts = []string{}
		}
		report.Interesting = append(report.Interesting, TagGroup{
			Tag:   tag,
			Total: len(hosts),
			Hosts: hosts,
		})

		switch tag {
		case TagAdminPanel:
			report.Summary.AdminPanels = len(hosts)
		case TagAPIEndpoint:
			report.Summary.APIEndpoints = len(hosts)
		case TagDevServer:
			report.Summary.DevServers = len(hosts)
		}
	}

	return report
}
