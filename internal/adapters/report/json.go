package report

import (
	"encoding/json"
	"strconv"
	"time"

	"recon-triage/internal/core/triage"
)

// Las claves JSON viven en structs (nunca maps) para que el orden de
// serialización sea fijo y el reporte byte-idéntico entre runs.

type jsonMetadata struct {
	Target      string `json:"domain"`
	GeneratedAt string `json:"timestamp"`
	Tool        string `json:"tool"`
	MaxHosts    string `json:"max_hosts"`
	Partial     bool   `json:"partial,omitempty"`
}

type jsonCategories struct {
	FullyOperational triage.CategoryGroup `json:"fully_operational"`
	HTTPSOnly        triage.CategoryGroup `json:"https_only"`
	HTTPOnly         triage.CategoryGroup `json:"http_only"`
	Redirecting      triage.CategoryGroup `json:"redirects"`
	ServerError      triage.CategoryGroup `json:"errors"`
	AccessBlocked    triage.CategoryGroup `json:"blocked"`
	NoResponse       triage.CategoryGroup `json:"no_response"`
}

type jsonInteresting struct {
	AdminPanels  triage.TagGroup `json:"admin_panels"`
	APIEndpoints triage.TagGroup `json:"api_endpoints"`
	DevServers   triage.TagGroup `json:"development_servers"`
}

type jsonReport struct {
	Metadata         jsonMetadata    `json:"metadata"`
	Summary          triage.Summary  `json:"statistics"`
	Categories       jsonCategories  `json:"categorized_results"`
	InterestingFinds jsonInteresting `json:"interesting_finds"`
}

// RenderJSON serializa el reporte como documento JSON UTF-8 con orden de
// claves estable. Es una función pura del reporte: no lo muta ni reordena.
func RenderJSON(r *triage.Report) ([]byte, error) {
	doc := jsonReport{
		Metadata: jsonMetadata{
			Target:      r.Target,
			GeneratedAt: r.GeneratedAt.UTC().Format(time.RFC3339),
			Tool:        "recon-triage",
			MaxHosts:    maxHostsLabel(r.MaxHosts),
			Partial:     r.Partial,
		},
		Summary: r.Summary,
	}

	for _, group := range r.Categories {
		switch group.Category {
		case triage.CategoryFullyOperational:
			doc.Categories.FullyOperational = group
		case triage.CategoryHTTPSOnly:
			doc.Categories.HTTPSOnly = group
		case triage.CategoryHTTPOnly:
			doc.Categories.HTTPOnly = group
		case triage.CategoryRedirecting:
			doc.Categories.Redirecting = group
		case triage.CategoryServerError:
			doc.Categories.ServerError = group
		case triage.CategoryAccessBlocked:
			doc.Categories.AccessBlocked = group
		case triage.CategoryNoResponse:
			doc.Categories.NoResponse = group
		}
	}

	for _, group := range r.Interesting {
		switch group.Tag {
		case triage.TagAdminPanel:
			doc.InterestingFinds.AdminPanels = group
		case triage.TagAPIEndpoint:
			doc.InterestingFinds.APIEndpoints = group
		case triage.TagDevServer:
			doc.InterestingFinds.DevServers = group
		}
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

func maxHostsLabel(maxHosts int) string {
	if maxHosts == 0 {
		return "all"
	}
	return strconv.Itoa(maxHosts)
}
