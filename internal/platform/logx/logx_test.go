package logx

import (
	"bytes"
	"strings"
	"testing"
)

func resetSampling() {
	sampleState.Lock()
	sampleState.counters = make(map[string]int64)
	sampleState.Unlock()
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    Level
		wantErr bool
	}{
		{in: "error", want: LevelError},
		{in: "err", want: LevelError},
		{in: "WARN", want: LevelWarn},
		{in: "warning", want: LevelWarn},
		{in: " info ", want: LevelInfo},
		{in: "debug", want: LevelDebug},
		{in: "trace", want: LevelTrace},
		{in: "verbose", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tc := range tests {
		got, err := ParseLevel(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Errorf("ParseLevel(%q) aceptó un nivel inválido", tc.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseLevel(%q): %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseLevel(%q) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestSetVerbosity(t *testing.T) {
	t.Cleanup(func() { SetLevel(LevelInfo) })

	tests := []struct {
		v    int
		want Level
	}{
		{v: 0, want: LevelInfo},
		{v: 1, want: LevelInfo},
		{v: 2, want: LevelDebug},
		{v: 3, want: LevelTrace},
		{v: 9, want: LevelTrace},
	}
	for _, tc := range tests {
		SetVerbosity(tc.v)
		if got := GetLevel(); got != tc.want {
			t.Errorf("SetVerbosity(%d) dejó nivel %d, want %d", tc.v, got, tc.want)
		}
	}
}

func TestSetOutputCapturesMessages(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	t.Cleanup(func() {
		SetOutput(nil)
		SetLevel(LevelInfo)
	})
	SetLevel(LevelInfo)

	Infof("hola %s", "mundo")
	if !strings.Contains(buf.String(), "hola mundo") {
		t.Fatalf("el mensaje no llegó al writer: %q", buf.String())
	}
}

func TestPrintfShortcutsAllLevels(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	t.Cleanup(func() {
		SetOutput(nil)
		SetLevel(LevelInfo)
	})
	SetLevel(LevelTrace)

	Errorf("nivel %s", "error")
	Warnf("nivel %s", "warn")
	Infof("nivel %s", "info")
	Debugf("nivel %s", "debug")
	Tracef("nivel %s", "trace")

	for _, want := range []string{"nivel error", "nivel warn", "nivel info", "nivel debug", "nivel trace"} {
		if !strings.Contains(buf.String(), want) {
			t.Fatalf("falta %q en la salida: %q", want, buf.String())
		}
	}
}

func TestDebugSamplingPerTool(t *testing.T) {
	resetSampling()
	t.Cleanup(resetSampling)

	rate := sampleRates["httpx"]

	// El primer evento pasa; los siguientes rate-1 se descartan.
	if shouldSampleFields(LevelDebug, Fields{"tool": "httpx"}) {
		t.Fatalf("el primer evento debug no debe muestrearse")
	}
	for i := 1; i < rate; i++ {
		if !shouldSampleFields(LevelDebug, Fields{"tool": "httpx"}) {
			t.Fatalf("el evento %d debería descartarse por sampling", i)
		}
	}
	if shouldSampleFields(LevelDebug, Fields{"tool": "httpx"}) {
		t.Fatalf("el evento %d (nuevo ciclo) debe pasar", rate)
	}
}

func TestSamplingOnlyAppliesToDebug(t *testing.T) {
	resetSampling()
	t.Cleanup(resetSampling)

	for i := 0; i < 100; i++ {
		if shouldSampleFields(LevelInfo, Fields{"tool": "httpx"}) {
			t.Fatalf("info nunca se muestrea")
		}
		if shouldSampleFields(LevelWarn, Fields{"tool": "subfinder"}) {
			t.Fatalf("warn nunca se muestrea")
		}
	}
}

func TestSamplingIgnoresUnknownTools(t *testing.T) {
	resetSampling()
	t.Cleanup(resetSampling)

	for i := 0; i < 100; i++ {
		if shouldSampleFields(LevelDebug, Fields{"tool": "nmap"}) {
			t.Fatalf("herramientas sin rate configurado no se muestrean")
		}
		if shouldSampleFields(LevelDebug, Fields{"other": "x"}) {
			t.Fatalf("eventos sin tool no se muestrean")
		}
	}
}
