// Package app orquesta el run completo: enumeración con subfinder, probing
// con httpx y el plegado de resultados en el reporte final.
package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"recon-triage/internal/adapters/console"
	"recon-triage/internal/adapters/report"
	"recon-triage/internal/adapters/sources"
	"recon-triage/internal/core/probe"
	"recon-triage/internal/core/runner"
	"recon-triage/internal/core/triage"
	"recon-triage/internal/platform/config"
	apperrors "recon-triage/internal/platform/errors"
	"recon-triage/internal/platform/logx"
	"recon-triage/internal/platform/netutil"
)

// Seams para tests, al estilo de los sources intercambiables.
var (
	sourceSubfinder = sources.Subfinder
	sourceHTTPX     = sources.HTTPX
	timeNow         = time.Now
)

// lineBufferSize amortigua ráfagas de las herramientas externas.
const lineBufferSize = 512

// ErrStreamFailed marca un run cuyo stream upstream terminó con error; el
// reporte parcial ya quedó escrito cuando se devuelve.
var ErrStreamFailed = errors.New("el stream de la herramienta externa falló")

// Run ejecuta el pipeline completo para cfg.Target.
func Run(cfg *config.Config) error {
	console.EnableColors(!cfg.NoColor)
	console.Banner()
	console.Info("Target: %s", cfg.Target)
	if cfg.MaxHosts == config.MaxHostsUnbounded {
		console.Info("Max hosts per category: all")
	} else {
		console.Info("Max hosts per category: %d", cfg.MaxHosts)
	}

	ctx := context.Background()

	agg := triage.NewAggregator(cfg.MaxHosts)
	patterns := triage.DefaultPatterns().
		WithOverrides(cfg.AdminPatterns, cfg.APIPatterns, cfg.DevPorts)
	scope := netutil.NewScope(cfg.Target)

	// Etapa 1: enumeración.
	console.Info("Running subfinder for: %s", cfg.Target)
	hosts, enumErr := enumerate(ctx, cfg, scope, agg)
	if enumErr != nil && apperrors.IsMissingBinary(enumErr) {
		return enumErr
	}
	if errors.Is(enumErr, runner.ErrMissingBinary) {
		return apperrors.NewMissingBinaryError("subfinder")
	}
	if errors.Is(enumErr, context.DeadlineExceeded) {
		enumErr = apperrors.NewTimeoutError("subfinder", cfg.TimeoutS, "la enumeración no terminó a tiempo")
	}
	partial := enumErr != nil
	console.Success("Found %d subdomains in scope", len(hosts))

	// Etapa 2: probing + plegado.
	console.Info("Running httpx on %d subdomains...", len(hosts))
	records, outcomes, diag, probeErr := probeAll(ctx, cfg, hosts)
	if probeErr != nil && apperrors.IsMissingBinary(probeErr) {
		return probeErr
	}
	if errors.Is(probeErr, context.DeadlineExceeded) {
		probeErr = apperrors.NewTimeoutError("httpx", cfg.TimeoutS, "el probing no terminó a tiempo")
	}
	if probeErr == nil && len(hosts) > 0 && len(records) == 0 && diag.Total() > 0 {
		// Hubo salida pero ninguna línea decodificó: la herramienta está
		// emitiendo un formato que no entendemos.
		sample := ""
		if s := diag.Samples(); len(s) > 0 {
			sample = s[0]
		}
		probeErr = apperrors.NewInvalidOutputError("httpx", "ninguna línea decodificó como JSON de probe", sample)
	}
	partial = partial || probeErr != nil
	console.Success("Processed %d probe results", len(records))

	if diag.Total() > 0 {
		console.Warning("Skipped %d malformed probe lines", diag.Total())
		logx.Warn("líneas de probe descartadas", logx.Fields{
			"tool":    "httpx",
			"total":   diag.Total(),
			"samples": diag.Samples(),
		})
	}

	probed := make(map[string]struct{}, len(records))
	for _, rec := range records {
		cat := triage.Classify(rec, outcomes)
		tags := patterns.Tag(rec)
		agg.Add(rec, cat, tags)
		probed[rec.Host] = struct{}{}
	}

	// Hosts enumerados que nunca produjeron registro de probe: NoResponse
	// por omisión, en orden de enumeración.
	for _, host := range hosts {
		if _, ok := probed[host]; !ok {
			agg.AddMissing(host)
		}
	}

	rep := agg.Report(cfg.Target, timeNow(), partial)

	console.Stats(rep.Summary)
	console.CategoryOverview(rep)
	console.Categories(rep)
	console.InterestingFinds(rep)

	paths, writeErr := report.Write(rep, cfg.OutDir)
	if writeErr != nil {
		console.Error("Report write failed: %v", writeErr)
	}
	if paths.JSON != "" {
		console.Success("JSON report: %s", paths.JSON)
	}
	if paths.Text != "" {
		console.Success("Text report: %s", paths.Text)
	}

	if partial {
		console.Warning("Upstream stream terminated early; results are partial")
		streamErr := enumErr
		if streamErr == nil {
			streamErr = probeErr
		}
		return fmt.Errorf("%w: %w", ErrStreamFailed, streamErr)
	}
	return writeErr
}

// enumerate corre subfinder y devuelve los hosts únicos dentro del scope,
// en orden de descubrimiento. Cada línea cuenta como discovered; solo las
// normalizables cuentan como resolved.
func enumerate(ctx context.Context, cfg *config.Config, scope *netutil.Scope, agg *triage.Aggregator) ([]string, error) {
	runCtx, cancel := runner.WithTimeout(ctx, cfg.TimeoutS)
	defer cancel()

	lines := make(chan string, lineBufferSize)

	var (
		hosts []string
		seen  = make(map[string]struct{})
	)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for line := range lines {
			agg.AddDiscovered()
			normalized := netutil.NormalizeDomain(line)
			if normalized == "" {
				continue
			}
			if !scope.AllowsDomain(normalized) {
				logx.Debug("subdominio fuera de scope", logx.Fields{
					"tool": "subfinder",
					"host": normalized,
				})
				continue
			}
			agg.AddResolved(normalized)
			if _, ok := seen[normalized]; ok {
				continue
			}
			seen[normalized] = struct{}{}
			hosts = append(hosts, normalized)
		}
	}()

	err := sourceSubfinder(runCtx, cfg.Target, lines)
	close(lines)
	wg.Wait()

	return hosts, err
}

// probeAll corre httpx sobre los hosts y parsea su salida en una sola
// pasada, construyendo a la vez el índice de esquemas por host.
func probeAll(ctx context.Context, cfg *config.Config, hosts []string) ([]*probe.HostRecord, triage.SchemeOutcomes, *probe.Diagnostics, error) {
	runCtx, cancel := runner.WithTimeout(ctx, cfg.TimeoutS)
	defer cancel()

	parser := probe.NewParser(nil)
	outcomes := triage.NewSchemeOutcomes()

	lines := make(chan string, lineBufferSize)

	var records []*probe.HostRecord
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for line := range lines {
			rec, ok := parser.ParseLine(line)
			if !ok {
				continue
			}
			records = append(records, rec)
			outcomes.Observe(rec)
		}
	}()

	err := sourceHTTPX(runCtx, hosts, cfg.Simple, lines)
	close(lines)
	wg.Wait()

	return records, outcomes, parser.Diagnostics(), err
}
