package probe

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseLineValidRecord(t *testing.T) {
	parser := NewParser(nil)

	line := `{"url":"https://a.example.com","host":"a.example.com","status_code":200,` +
		`"scheme":"https","final_url":"https://a.example.com/admin","title":"Panel",` +
		`"tech":["nginx","PHP"],"unknown_field":42}`

	rec, ok := parser.ParseLine(line)
	if !ok {
		t.Fatalf("ParseLine rejected a valid line")
	}

	want := &HostRecord{
		Host:       "a.example.com",
		StatusCode: 200,
		HasStatus:  true,
		Scheme:     SchemeHTTPS,
		FinalURL:   "https://a.example.com/admin",
		Title:      "Panel",
		TechStack:  []string{"nginx", "PHP"},
	}
	if diff := cmp.Diff(want, rec); diff != "" {
		t.Fatalf("unexpected record (-want +got):\n%s", diff)
	}
	if parser.Diagnostics().Total() != 0 {
		t.Fatalf("expected no diagnostics, got %d", parser.Diagnostics().Total())
	}
}

func TestParseLineHostFallbacks(t *testing.T) {
	tests := []struct {
		name string
		line string
		want string
	}{
		{
			name: "input wins over host",
			line: `{"input":"i.example.com","host":"h.example.com","url":"https://u.example.com","status_code":200}`,
			want: "i.example.com",
		},
		{
			name: "url hostname when input missing",
			line: `{"host":"h.example.com","url":"https://u.example.com:8443/path","status_code":200}`,
			want: "u.example.com",
		},
		{
			name: "host field as last resort",
			line: `{"host":"h.example.com","status_code":200}`,
			want: "h.example.com",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			parser := NewParser(nil)
			rec, ok := parser.ParseLine(tc.line)
			if !ok {
				t.Fatalf("ParseLine rejected line %q", tc.line)
			}
			if rec.Host != tc.want {
				t.Fatalf("host = %q, want %q", rec.Host, tc.want)
			}
		})
	}
}

func TestParseLineResolvedIPNeverKeysRecord(t *testing.T) {
	parser := NewParser(nil)

	// httpx pone la IP resuelta en "host"; el registro debe quedar bajo el
	// hostname probado para casar con la lista enumerada.
	line := `{"url":"https://a.example.com","input":"a.example.com",` +
		`"host":"93.184.216.34","port":"443","status_code":200,"scheme":"https",` +
		`"final_url":"https://a.example.com/","title":"Home"}`

	rec, ok := parser.ParseLine(line)
	if !ok {
		t.Fatalf("ParseLine rejected a realistic line")
	}
	if rec.Host != "a.example.com" {
		t.Fatalf("Host = %q, want the probed hostname, not the resolved IP", rec.Host)
	}
}

func TestParseLineFailures(t *testing.T) {
	tests := []struct {
		name string
		line string
	}{
		{name: "truncated json", line: `{"url":"https://a.example.com","status`},
		{name: "not json", line: "plain text output"},
		{name: "empty object", line: `{}`},
		{name: "missing host everywhere", line: `{"status_code":200,"title":"x"}`},
		{name: "no status and no error", line: `{"host":"a.example.com"}`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			diag := &Diagnostics{}
			parser := NewParser(diag)
			if _, ok := parser.ParseLine(tc.line); ok {
				t.Fatalf("ParseLine accepted %q", tc.line)
			}
			if diag.Total() != 1 {
				t.Fatalf("diagnostics total = %d, want 1", diag.Total())
			}
		})
	}
}

func TestParseLineBlankLinesAreNotDiagnosed(t *testing.T) {
	diag := &Diagnostics{}
	parser := NewParser(diag)

	for _, line := range []string{"", "   ", "\t"} {
		if _, ok := parser.ParseLine(line); ok {
			t.Fatalf("ParseLine accepted blank line %q", line)
		}
	}
	if diag.Total() != 0 {
		t.Fatalf("blank lines should not count as malformed, got %d", diag.Total())
	}
}

func TestParseLineProbeFailure(t *testing.T) {
	parser := NewParser(nil)

	rec, ok := parser.ParseLine(`{"host":"b.example.com","error":"connection refused"}`)
	if !ok {
		t.Fatalf("ParseLine rejected failed-probe record")
	}
	if rec.Err != "connection refused" {
		t.Fatalf("Err = %q, want connection refused", rec.Err)
	}
	if rec.Alive() {
		t.Fatalf("failed probe must not be alive")
	}
}

func TestParseLineFailedFlagWithoutError(t *testing.T) {
	parser := NewParser(nil)

	rec, ok := parser.ParseLine(`{"host":"c.example.com","failed":true}`)
	if !ok {
		t.Fatalf("ParseLine rejected failed record")
	}
	if rec.Err == "" {
		t.Fatalf("expected synthesized error message for failed flag")
	}
}

func TestParseLineSchemeFromFinalURL(t *testing.T) {
	parser := NewParser(nil)

	rec, ok := parser.ParseLine(`{"host":"d.example.com","status_code":200,"url":"http://d.example.com"}`)
	if !ok {
		t.Fatalf("ParseLine rejected record")
	}
	if rec.Scheme != SchemeHTTP {
		t.Fatalf("Scheme = %q, want http", rec.Scheme)
	}
	if rec.FinalURL != "http://d.example.com" {
		t.Fatalf("FinalURL = %q", rec.FinalURL)
	}
}

func TestDiagnosticsSamplesAreBounded(t *testing.T) {
	diag := &Diagnostics{}
	parser := NewParser(diag)

	for i := 0; i < 20; i++ {
		parser.ParseLine("not json at all")
	}
	if got := len(diag.Samples()); got > diagnosticsSampleLimit {
		t.Fatalf("samples = %d, want at most %d", got, diagnosticsSampleLimit)
	}
	if diag.MalformedLines != 20 {
		t.Fatalf("MalformedLines = %d, want 20", diag.MalformedLines)
	}
}
