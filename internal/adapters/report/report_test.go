package report

import (
	"bytes"
	"encoding/json"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"recon-triage/internal/core/probe"
	"recon-triage/internal/core/triage"
)

var reportTime = time.Date(2026, 8, 23, 10, 30, 0, 0, time.UTC)

func sampleReport(t *testing.T, maxHosts int) *triage.Report {
	t.Helper()

	agg := triage.NewAggregator(maxHosts)
	outcomes := triage.NewSchemeOutcomes()
	patterns := triage.DefaultPatterns()

	records := []*probe.HostRecord{
		{
			Host: "a.example.com", StatusCode: 200, HasStatus: true,
			Scheme: probe.SchemeHTTPS, FinalURL: "https://a.example.com/admin",
			Title: "Admin Console", TechStack: []string{"nginx"},
		},
		{
			Host: "b.example.com", StatusCode: 200, HasStatus: true,
			Scheme: probe.SchemeHTTPS, FinalURL: "https://b.example.com/",
		},
		{
			Host: "c.example.com", StatusCode: 301, HasStatus: true,
			Scheme: probe.SchemeHTTP, FinalURL: "http://c.example.com/",
		},
		{Host: "d.example.com", Err: "connection refused"},
	}
	for _, rec := range records {
		outcomes.Observe(rec)
	}
	for range records {
		agg.AddDiscovered()
	}
	for _, rec := range records {
		agg.AddResolved(rec.Host)
		agg.Add(rec, triage.Classify(rec, outcomes), patterns.Tag(rec))
	}

	return agg.Report("example.com", reportTime, false)
}

func TestRenderJSONIsIdempotent(t *testing.T) {
	rep := sampleReport(t, 25)

	first, err := RenderJSON(rep)
	if err != nil {
		t.Fatalf("RenderJSON: %v", err)
	}
	second, err := RenderJSON(rep)
	if err != nil {
		t.Fatalf("RenderJSON: %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Fatalf("two renders of the same report differ")
	}
}

func TestRenderJSONShape(t *testing.T) {
	rep := sampleReport(t, 25)

	data, err := RenderJSON(rep)
	if err != nil {
		t.Fatalf("RenderJSON: %v", err)
	}
	if !bytes.HasSuffix(data, []byte("\n")) {
		t.Fatalf("JSON document must end with a newline")
	}

	var doc struct {
		Metadata struct {
			Domain    string `json:"domain"`
			Timestamp string `json:"timestamp"`
			Tool      string `json:"tool"`
			MaxHosts  string `json:"max_hosts"`
		} `json:"metadata"`
		Statistics  triage.Summary `json:"statistics"`
		Categorized map[string]struct {
			Total int                `json:"total"`
			Hosts []triage.HostEntry `json:"hosts"`
		} `json:"categorized_results"`
		Interesting map[string]struct {
			Total int      `json:"total"`
			Hosts []string `json:"hosts"`
		} `json:"interesting_finds"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("report is not valid JSON: %v", err)
	}

	if doc.Metadata.Domain != "example.com" {
		t.Fatalf("domain = %q", doc.Metadata.Domain)
	}
	if doc.Metadata.Tool != "recon-triage" {
		t.Fatalf("tool = %q", doc.Metadata.Tool)
	}
	if doc.Metadata.Timestamp != "2026-08-23T10:30:00Z" {
		t.Fatalf("timestamp = %q", doc.Metadata.Timestamp)
	}
	if doc.Metadata.MaxHosts != "25" {
		t.Fatalf("max_hosts = %q", doc.Metadata.MaxHosts)
	}

	for _, key := range []string{
		"fully_operational", "https_only", "http_only", "redirects",
		"errors", "blocked", "no_response",
	} {
		if _, ok := doc.Categorized[key]; !ok {
			t.Fatalf("categorized_results missing key %q", key)
		}
	}
	if got := doc.Categorized["https_only"].Total; got != 2 {
		t.Fatalf("https_only total = %d, want 2", got)
	}
	if got := doc.Interesting["admin_panels"].Total; got != 1 {
		t.Fatalf("admin_panels total = %d, want 1", got)
	}
	if diff := cmp.Diff(rep.Summary, doc.Statistics); diff != "" {
		t.Fatalf("statistics round trip (-want +got):\n%s", diff)
	}
}

func TestRenderJSONUnboundedMaxHosts(t *testing.T) {
	rep := sampleReport(t, 0)

	data, err := RenderJSON(rep)
	if err != nil {
		t.Fatalf("RenderJSON: %v", err)
	}
	if !bytes.Contains(data, []byte(`"max_hosts": "all"`)) {
		t.Fatalf("unbounded report should label max_hosts as all:\n%s", data)
	}
}

func TestRenderTextIsIdempotent(t *testing.T) {
	rep := sampleReport(t, 25)

	first := RenderText(rep)
	second := RenderText(rep)
	if first != second {
		t.Fatalf("two renders of the same report differ")
	}
}

func TestRenderTextContent(t *testing.T) {
	text := RenderText(sampleReport(t, 25))

	for _, want := range []string{
		"RECONNAISSANCE REPORT - example.com",
		"Generated: 2026-08-23 10:30:00",
		"Total Discovered: 4",
		"Online Hosts: 3",
		"HTTPS ONLY (2 hosts)",
		"a.example.com/admin (Status: 200)",
		"  Title: Admin Console",
		"d.example.com (Error: connection refused)",
		"Admin Panels (1 found)",
	} {
		if !strings.Contains(text, want) {
			t.Fatalf("text report missing %q:\n%s", want, text)
		}
	}
}

func TestRenderTextAnnotatesTruncation(t *testing.T) {
	text := RenderText(sampleReport(t, 1))

	if !strings.Contains(text, "HTTPS ONLY (2 hosts, showing 1)") {
		t.Fatalf("truncated category must show the true total:\n%s", text)
	}
}

func TestWriteCreatesBothFiles(t *testing.T) {
	rep := sampleReport(t, 25)
	outdir := t.TempDir()

	paths, err := Write(rep, outdir)
	if err != nil {
		t.Fatalf("Write: %v", err)
	}

	wantBase := "recon_example.com_" + "1787481000"
	if !strings.HasSuffix(paths.JSON, wantBase+".json") {
		t.Fatalf("json path = %q", paths.JSON)
	}
	if !strings.HasSuffix(paths.Text, wantBase+".txt") {
		t.Fatalf("text path = %q", paths.Text)
	}

	jsonData, err := os.ReadFile(paths.JSON)
	if err != nil {
		t.Fatalf("read json: %v", err)
	}
	wantJSON, err := RenderJSON(rep)
	if err != nil {
		t.Fatalf("RenderJSON: %v", err)
	}
	if !bytes.Equal(jsonData, wantJSON) {
		t.Fatalf("written JSON differs from rendered JSON")
	}

	textData, err := os.ReadFile(paths.Text)
	if err != nil {
		t.Fatalf("read text: %v", err)
	}
	if string(textData) != RenderText(rep) {
		t.Fatalf("written text differs from rendered text")
	}
}
