package report

import (
	"fmt"
	"strings"

	"recon-triage/internal/core/triage"
)

const (
	headerRule  = "======================================================================"
	sectionRule = "----------------------------------------"
	blockRule   = "============================================================"
)

// RenderText produce el reporte de texto plano, línea a línea, con la misma
// información que el JSON. Es una función pura del reporte.
func RenderText(r *triage.Report) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s\n", headerRule)
	fmt.Fprintf(&b, "RECONNAISSANCE REPORT - %s\n", r.Target)
	fmt.Fprintf(&b, "Generated: %s\n", r.GeneratedAt.UTC().Format("2006-01-02 15:04:05"))
	if r.Partial {
		b.WriteString("NOTE: partial results (upstream stream terminated early)\n")
	}
	fmt.Fprintf(&b, "%s\n\n", headerRule)

	b.WriteString("STATISTICS\n")
	fmt.Fprintf(&b, "%s\n", sectionRule)
	writeStat(&b, "Total Discovered", r.Summary.Discovered)
	writeStat(&b, "DNS Resolved", r.Summary.Resolved)
	writeStat(&b, "Online Hosts", r.Summary.Alive)
	writeStat(&b, "Web Services", r.Summary.WebServices)
	for _, cat := range triage.CategoryOrder {
		writeStat(&b, titleCase(cat.DisplayName()), r.Summary.CategoryCount(cat))
	}
	for _, group := range r.Interesting {
		writeStat(&b, group.Tag.DisplayName(), group.Total)
	}

	b.WriteString("\n\nCATEGORIZED RESULTS\n")
	fmt.Fprintf(&b, "%s\n", blockRule)

	for _, group := range r.Categories {
		if group.Total == 0 {
			continue
		}
		shown := len(group.Hosts)
		if shown < group.Total {
			fmt.Fprintf(&b, "\n%s (%d hosts, showing %d)\n", group.Category.DisplayName(), group.Total, shown)
		} else {
			fmt.Fprintf(&b, "\n%s (%d hosts)\n", group.Category.DisplayName(), group.Total)
		}
		fmt.Fprintf(&b, "%s\n", sectionRule)
		for _, host := range group.Hosts {
			if host.StatusCode != 0 {
				fmt.Fprintf(&b, "%s (Status: %d)\n", host.CleanURL, host.StatusCode)
			} else if host.Error != "" {
				fmt.Fprintf(&b, "%s (Error: %s)\n", host.CleanURL, host.Error)
			} else {
				fmt.Fprintf(&b, "%s (no probe response)\n", host.CleanURL)
			}
			if host.Title != "" {
				fmt.Fprintf(&b, "  Title: %s\n", host.Title)
			}
		}
	}

	b.WriteString("\n\nINTERESTING FINDS\n")
	fmt.Fprintf(&b, "%s\n", blockRule)
	for _, group := range r.Interesting {
		fmt.Fprintf(&b, "\n%s (%d found)\n", group.Tag.DisplayName(), group.Total)
		for _, host := range group.Hosts {
			fmt.Fprintf(&b, "  - %s\n", host)
		}
	}

	return b.String()
}

func writeStat(b *strings.Builder, label string, value int) {
	fmt.Fprintf(b, "%s: %d\n", label, value)
}

// titleCase convierte "FULLY OPERATIONAL" en "Fully Operational".
func titleCase(upper string) string {
	words := strings.Fields(strings.ToLower(upper))
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
