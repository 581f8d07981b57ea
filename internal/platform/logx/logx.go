package logx

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

// Level representa el nivel de logging.
type Level uint8

const (
	LevelError Level = iota
	LevelWarn
	LevelInfo
	LevelDebug
	LevelTrace
)

// Fields representa pares clave-valor para structured logging.
type Fields map[string]any

type state struct {
	mu     sync.RWMutex
	logger zerolog.Logger
	level  Level
}

var cfg = &state{
	logger: zerolog.New(zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: "15:04:05",
		NoColor:    false,
	}).With().Timestamp().Logger(),
	level: LevelInfo,
}

// sampleRates reduce el ruido de herramientas que emiten miles de líneas:
// solo 1 de cada N eventos debug por herramienta llega al log.
var sampleRates = map[string]int{
	"httpx":     25,
	"subfinder": 25,
}

var sampleState = struct {
	sync.Mutex
	counters map[string]int64
}{counters: make(map[string]int64)}

// SetVerbosity configura el nivel: 0/1=info, 2=debug, 3+=trace.
func SetVerbosity(v int) {
	switch {
	case v <= 1:
		SetLevel(LevelInfo)
	case v == 2:
		SetLevel(LevelDebug)
	default:
		SetLevel(LevelTrace)
	}
}

// SetLevel cambia el nivel mínimo de logging.
func SetLevel(l Level) {
	cfg.mu.Lock()
	cfg.level = l
	cfg.mu.Unlock()

	var zlevel zerolog.Level
	switch l {
	case LevelError:
		zlevel = zerolog.ErrorLevel
	case LevelWarn:
		zlevel = zerolog.WarnLevel
	case LevelInfo:
		zlevel = zerolog.InfoLevel
	case LevelDebug:
		zlevel = zerolog.DebugLevel
	case LevelTrace:
		zlevel = zerolog.TraceLevel
	default:
		zlevel = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(zlevel)
}

// GetLevel retorna el nivel actual.
func GetLevel() Level {
	cfg.mu.RLock()
	defer cfg.mu.RUnlock()
	return cfg.level
}

// ParseLevel convierte string a Level.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "error", "err":
		return LevelError, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "info":
		return LevelInfo, nil
	case "debug":
		return LevelDebug, nil
	case "trace":
		return LevelTrace, nil
	default:
		return 0, fmt.Errorf("logx: nivel desconocido %q", s)
	}
}

// SetOutput redirige la salida del logger (nil vuelve a stderr).
func SetOutput(w io.Writer) {
	cfg.mu.Lock()
	defer cfg.mu.Unlock()

	if w == nil {
		w = os.Stderr
	}
	cfg.logger = zerolog.New(zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: "15:04:05",
		NoColor:    false,
	}).With().Timestamp().Logger()
}

// EnableColors activa/desactiva colores ANSI.
func EnableColors(enabled bool) {
	cfg.mu.Lock()
	defer cfg.mu.Unlock()

	cfg.logger = zerolog.New(zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: "15:04:05",
		NoColor:    !enabled,
	}).With().Timestamp().Logger()
}

// Atajos de nivel con formato printf.
func Errorf(format string, a ...interface{}) {
	logger := currentLogger()
	logger.Error().Msgf(format, a...)
}

func Warnf(format string, a ...interface{}) {
	logger := currentLogger()
	logger.Warn().Msgf(format, a...)
}

func Infof(format string, a ...interface{}) {
	logger := currentLogger()
	logger.Info().Msgf(format, a...)
}

func Debugf(format string, a ...interface{}) {
	logger := currentLogger()
	logger.Debug().Msgf(format, a...)
}

func Tracef(format string, a ...interface{}) {
	logger := currentLogger()
	logger.Trace().Msgf(format, a...)
}

// Variantes con fields estructurados.
func Error(msg string, fields Fields) { logFields(LevelError, msg, fields) }
func Warn(msg string, fields Fields)  { logFields(LevelWarn, msg, fields) }
func Info(msg string, fields Fields)  { logFields(LevelInfo, msg, fields) }
func Debug(msg string, fields Fields) { logFields(LevelDebug, msg, fields) }
func Trace(msg string, fields Fields) { logFields(LevelTrace, msg, fields) }

func logFields(lvl Level, msg string, fields Fields) {
	if shouldSampleFields(lvl, fields) {
		return
	}
	logger := currentLogger()

	var event *zerolog.Event
	switch lvl {
	case LevelError:
		event = logger.Error()
	case LevelWarn:
		event = logger.Warn()
	case LevelInfo:
		event = logger.Info()
	case LevelDebug:
		event = logger.Debug()
	default:
		event = logger.Trace()
	}
	for k, v := range fields {
		event = event.Interface(k, v)
	}
	event.Msg(msg)
}

func currentLogger() zerolog.Logger {
	cfg.mu.RLock()
	defer cfg.mu.RUnlock()
	return cfg.logger
}

// shouldSampleFields implementa sampling para reducir noise en logs debug.
func shouldSampleFields(lvl Level, fields Fields) bool {
	if lvl < LevelDebug || len(fields) == 0 {
		return false
	}
	toolRaw, ok := fields["tool"]
	if !ok {
		return false
	}
	tool, ok := toolRaw.(string)
	if !ok {
		return false
	}
	tool = strings.ToLower(strings.TrimSpace(tool))
	rate, ok := sampleRates[tool]
	if !ok || rate <= 1 {
		return false
	}
	sampleState.Lock()
	defer sampleState.Unlock()
	count := sampleState.counters[tool] + 1
	sampleState.counters[tool] = count
	return count%int64(rate) != 1
}
