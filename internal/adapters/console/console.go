// Package console imprime la vista interactiva del run: banner, progreso,
// estadísticas, resumen por categoría y hallazgos de interés.
package console

import (
	"fmt"
	"strings"

	"github.com/common-nighthawk/go-figure"
	"github.com/fatih/color"

	"recon-triage/internal/core/triage"
	"recon-triage/internal/platform/urlutil"
)

const lineWidth = 70

var (
	infoTag    = color.New(color.FgBlue).Sprint("[*]")
	successTag = color.New(color.FgGreen).Sprint("[+]")
	warnTag    = color.New(color.FgYellow).Sprint("[!]")
	errorTag   = color.New(color.FgRed).Sprint("[-]")

	cyan    = color.New(color.FgCyan)
	green   = color.New(color.FgGreen)
	yellow  = color.New(color.FgYellow)
	magenta = color.New(color.FgMagenta)
)

var categoryColors = map[triage.Category]*color.Color{
	triage.CategoryFullyOperational: color.New(color.FgGreen),
	triage.CategoryHTTPSOnly:        color.New(color.FgBlue),
	triage.CategoryHTTPOnly:         color.New(color.FgYellow),
	triage.CategoryRedirecting:      color.New(color.FgMagenta),
	triage.CategoryServerError:      color.New(color.FgRed),
	triage.CategoryAccessBlocked:    color.New(color.FgRed),
	triage.CategoryNoResponse:       color.New(color.FgHiYellow),
}

// EnableColors activa/desactiva los colores ANSI de toda la vista.
func EnableColors(enabled bool) {
	color.NoColor = !enabled
}

// Banner imprime la cabecera de la herramienta.
func Banner() {
	figure.NewColorFigure("recon-triage", "doom", "cyan", true).Print()
	_, _ = cyan.Println(strings.Repeat("=", lineWidth))
	_, _ = green.Println("    Subfinder + httpx triage | smart categorization")
	_, _ = cyan.Println(strings.Repeat("=", lineWidth))
}

// Info imprime una línea de progreso informativa.
func Info(format string, a ...interface{}) {
	fmt.Printf("%s %s\n", infoTag, fmt.Sprintf(format, a...))
}

// Success imprime una línea de progreso de éxito.
func Success(format string, a ...interface{}) {
	fmt.Printf("%s %s\n", successTag, fmt.Sprintf(format, a...))
}

// Warning imprime una advertencia.
func Warning(format string, a ...interface{}) {
	fmt.Printf("%s %s\n", warnTag, fmt.Sprintf(format, a...))
}

// Error imprime un fallo.
func Error(format string, a ...interface{}) {
	fmt.Printf("%s %s\n", errorTag, fmt.Sprintf(format, a...))
}

// Stats imprime el bloque de estadísticas en dos columnas.
func Stats(s triage.Summary) {
	fmt.Println()
	_, _ = cyan.Println("COMPREHENSIVE STATISTICS")
	fmt.Println(strings.Repeat("-", lineWidth))

	left := [][2]interface{}{
		{"Total Discovered", s.Discovered},
		{"DNS Resolved", s.Resolved},
		{"Online Hosts", s.Alive},
		{"Web Services", s.WebServices},
	}
	right := [][2]interface{}{
		{"Fully Operational", s.FullyOperational},
		{"Redirects", s.Redirecting},
		{"Blocked", s.AccessBlocked},
		{"Server Errors", s.ServerError},
	}

	for i := range left {
		fmt.Printf("%s%s   %s%s\n",
			cyan.Sprintf("%-25s", left[i][0]),
			green.Sprintf("%10d", left[i][1]),
			cyan.Sprintf("%-25s", right[i][0]),
			green.Sprintf("%10d", right[i][1]),
		)
	}
}

// CategoryOverview imprime el resumen de categorías con porcentajes y el
// modo de listado (todo o top N).
func CategoryOverview(r *triage.Report) {
	fmt.Println()
	_, _ = cyan.Println(strings.Repeat("=", lineWidth))
	_, _ = cyan.Println("CATEGORIZED RESULTS - SMART VIEW")
	_, _ = cyan.Println(strings.Repeat("=", lineWidth))
	fmt.Println()
	_, _ = magenta.Println("CATEGORY OVERVIEW")
	fmt.Println(strings.Repeat("-", lineWidth))

	total := 0
	for _, group := range r.Categories {
		total += group.Total
	}

	for _, group := range r.Categories {
		if group.Total == 0 {
			continue
		}
		percentage := 0.0
		if total > 0 {
			percentage = float64(group.Total) / float64(total) * 100
		}
		mode := "Showing all"
		if r.MaxHosts > 0 && group.Total > r.MaxHosts {
			mode = fmt.Sprintf("Top %d", r.MaxHosts)
		}
		fmt.Printf("  %-20s %s (%5.1f%%) - %s\n",
			group.Category.DisplayName(),
			green.Sprintf("%4d", group.Total),
			percentage,
			mode,
		)
	}

	fmt.Println()
	_, _ = cyan.Printf("Total hosts across all categories: %d\n", total)
}

// Categories imprime el detalle de cada categoría, truncado a maxHosts con
// una muestra de lo no mostrado.
func Categories(r *triage.Report) {
	for _, group := range r.Categories {
		if group.Total == 0 {
			continue
		}
		printCategory(group, r.MaxHosts)
	}
}

func printCategory(group triage.CategoryGroup, maxHosts int) {
	col, ok := categoryColors[group.Category]
	if !ok {
		col = color.New(color.FgWhite)
	}

	fmt.Println()
	_, _ = col.Println(strings.Repeat("-", lineWidth))
	if len(group.Hosts) < group.Total {
		_, _ = col.Printf("%s (%d hosts - Showing top %d)\n", group.Category.DisplayName(), group.Total, len(group.Hosts))
	} else {
		_, _ = col.Printf("%s (%d hosts - Showing ALL)\n", group.Category.DisplayName(), group.Total)
	}
	_, _ = col.Println(strings.Repeat("-", lineWidth))

	for i, host := range group.Hosts {
		status := "-"
		if host.StatusCode != 0 {
			status = fmt.Sprintf("%d", host.StatusCode)
		}
		title := host.Title
		if title == "" {
			title = "No Title"
		}
		fmt.Printf("  %3d. %s %s %s\n",
			i+1,
			col.Sprintf("%4s", status),
			cyan.Sprintf("%-43s", urlutil.Truncate(host.CleanURL, 40)),
			urlutil.Truncate(title, 40),
		)
	}

	remaining := group.Total - len(group.Hosts)
	if remaining > 0 {
		fmt.Println()
		_, _ = yellow.Printf("Not shown (%d hosts)\n", remaining)
	}
}

// InterestingFinds imprime los hallazgos de interés, con tope de listado.
func InterestingFinds(r *triage.Report) {
	any := false
	for _, group := range r.Interesting {
		if group.Total > 0 {
			any = true
			break
		}
	}
	if !any {
		return
	}

	const displayCap = 8

	fmt.Println()
	_, _ = magenta.Println("INTERESTING FINDS")
	fmt.Println(strings.Repeat("-", lineWidth))

	for _, group := range r.Interesting {
		if group.Total == 0 {
			continue
		}
		fmt.Println()
		_, _ = yellow.Printf("%s: (%d found)\n", group.Tag.DisplayName(), group.Total)
		shown := group.Hosts
		if len(shown) > displayCap+2 {
			shown = shown[:displayCap]
		}
		for _, host := range shown {
			fmt.Printf("  - %s\n", host)
		}
		if rest := group.Total - len(shown); rest > 0 {
			_, _ = yellow.Printf("  ... and %d more\n", rest)
		}
	}
}
