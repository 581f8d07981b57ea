package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	apperrors "recon-triage/internal/platform/errors"
)

// MaxHostsUnbounded indica que las categorías no se truncan.
const MaxHostsUnbounded = 0

// DefaultMaxHosts es el tope por categoría cuando el usuario no indica otro.
const DefaultMaxHosts = 25

// Config reúne toda la configuración que consume el pipeline.
type Config struct {
	Target    string
	OutDir    string
	MaxHosts  int // MaxHostsUnbounded (0) = sin límite
	Simple    bool
	TimeoutS  int
	Verbosity int
	NoColor   bool

	// Overrides de las tablas de patrones de interés. Vacío = defaults.
	AdminPatterns []string
	APIPatterns   []string
	DevPorts      []string
}

type fileConfig struct {
	Target        *string     `json:"target" yaml:"target"`
	OutDir        *string     `json:"outdir" yaml:"outdir"`
	MaxHosts      *string     `json:"max_hosts" yaml:"max_hosts"`
	Simple        *bool       `json:"simple" yaml:"simple"`
	TimeoutS      *int        `json:"timeout" yaml:"timeout"`
	Verbosity     *int        `json:"verbosity" yaml:"verbosity"`
	NoColor       *bool       `json:"no_color" yaml:"no_color"`
	AdminPatterns *stringList `json:"admin_patterns" yaml:"admin_patterns"`
	APIPatterns   *stringList `json:"api_patterns" yaml:"api_patterns"`
	DevPorts      *stringList `json:"dev_ports" yaml:"dev_ports"`
}

type stringList []string

func (s *stringList) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*s = nil
		return nil
	}

	switch trimmed[0] {
	case '[':
		var aux []string
		if err := json.Unmarshal(trimmed, &aux); err != nil {
			return err
		}
		*s = cleanStringSlice(aux)
		return nil
	case '"':
		var single string
		if err := json.Unmarshal(trimmed, &single); err != nil {
			return err
		}
		*s = cleanStringSlice(strings.Split(single, ","))
		return nil
	default:
		return errors.New("el valor debe ser un string o una lista")
	}
}

func (s *stringList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.SequenceNode:
		aux := make([]string, 0, len(value.Content))
		for _, node := range value.Content {
			aux = append(aux, node.Value)
		}
		*s = cleanStringSlice(aux)
		return nil
	case yaml.ScalarNode:
		*s = cleanStringSlice(strings.Split(value.Value, ","))
		return nil
	case yaml.MappingNode, yaml.DocumentNode:
		return errors.New("el valor debe ser un string o una lista")
	default:
		*s = nil
		return nil
	}
}

// ParseMaxHosts interpreta el valor de -max-hosts: un entero positivo o
// "all" para no truncar.
func ParseMaxHosts(raw string) (int, error) {
	trimmed := strings.ToLower(strings.TrimSpace(raw))
	if trimmed == "" {
		return DefaultMaxHosts, nil
	}
	if trimmed == "all" {
		return MaxHostsUnbounded, nil
	}
	n, err := strconv.Atoi(trimmed)
	if err != nil || n < 1 {
		return 0, apperrors.NewConfigurationError("max-hosts", raw,
			"debe ser un entero positivo o 'all'",
			"Ejemplos: -max-hosts=50 o -max-hosts=all")
	}
	return n, nil
}

// ParseFlags construye la configuración desde flags y, opcionalmente, un
// archivo YAML/JSON. Los flags indicados explícitamente tienen precedencia
// sobre el archivo.
func ParseFlags() (*Config, error) {
	configPath := flag.String("config", "", "Ruta a un archivo de configuración (YAML o JSON)")
	target := flag.String("target", "", "Target domain (ej: example.com)")
	outdir := flag.String("outdir", ".", "Directorio de salida para los reportes")
	maxHosts := flag.String("max-hosts", strconv.Itoa(DefaultMaxHosts), "Máximo de hosts por categoría (número o 'all')")
	simple := flag.Bool("simple", false, "Modo simple de httpx (sin tech detection)")
	timeout := flag.Int("timeout", 600, "Timeout por herramienta (segundos)")
	verbosity := flag.Int("v", 0, "Verbosity (0=info,2=debug,3=trace)")
	noColor := flag.Bool("no-color", false, "Deshabilitar colores en consola")
	adminPatterns := flag.String("admin-patterns", "", "Patrones de admin panel, CSV (override)")
	apiPatterns := flag.String("api-patterns", "", "Patrones de API endpoint, CSV (override)")
	devPorts := flag.String("dev-ports", "", "Puertos de dev server, CSV (override)")

	flag.Parse()

	setFlags := map[string]bool{}
	flag.Visit(func(f *flag.Flag) {
		setFlags[f.Name] = true
	})

	cfg := &Config{
		Target:        strings.TrimSpace(*target),
		OutDir:        strings.TrimSpace(*outdir),
		Simple:        *simple,
		TimeoutS:      *timeout,
		Verbosity:     *verbosity,
		NoColor:       *noColor,
		AdminPatterns: cleanStringSlice(strings.Split(*adminPatterns, ",")),
		APIPatterns:   cleanStringSlice(strings.Split(*apiPatterns, ",")),
		DevPorts:      cleanStringSlice(strings.Split(*devPorts, ",")),
	}

	maxHostsRaw := *maxHosts

	var fileCfg *fileConfig
	if *configPath != "" {
		info, err := os.Stat(*configPath)
		if err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("no se pudo acceder al archivo de configuración %q: %w", *configPath, err)
			}
		} else if info.IsDir() {
			return nil, fmt.Errorf("la ruta de configuración %q apunta a un directorio", *configPath)
		} else {
			fc, err := loadConfigFile(*configPath)
			if err != nil {
				return nil, fmt.Errorf("no se pudo leer la configuración desde %q: %w", *configPath, err)
			}
			fileCfg = fc
		}
	}

	if fileCfg != nil {
		if fileCfg.Target != nil && !setFlags["target"] {
			cfg.Target = strings.TrimSpace(*fileCfg.Target)
		}
		if fileCfg.OutDir != nil && !setFlags["outdir"] {
			cfg.OutDir = strings.TrimSpace(*fileCfg.OutDir)
		}
		if fileCfg.MaxHosts != nil && !setFlags["max-hosts"] {
			maxHostsRaw = *fileCfg.MaxHosts
		}
		if fileCfg.Simple != nil && !setFlags["simple"] {
			cfg.Simple = *fileCfg.Simple
		}
		if fileCfg.TimeoutS != nil && !setFlags["timeout"] {
			cfg.TimeoutS = *fileCfg.TimeoutS
		}
		if fileCfg.Verbosity != nil && !setFlags["v"] {
			cfg.Verbosity = *fileCfg.Verbosity
		}
		if fileCfg.NoColor != nil && !setFlags["no-color"] {
			cfg.NoColor = *fileCfg.NoColor
		}
		if fileCfg.AdminPatterns != nil && !setFlags["admin-patterns"] {
			cfg.AdminPatterns = []string(*fileCfg.AdminPatterns)
		}
		if fileCfg.APIPatterns != nil && !setFlags["api-patterns"] {
			cfg.APIPatterns = []string(*fileCfg.APIPatterns)
		}
		if fileCfg.DevPorts != nil && !setFlags["dev-ports"] {
			cfg.DevPorts = []string(*fileCfg.DevPorts)
		}
	}

	parsedMax, err := ParseMaxHosts(maxHostsRaw)
	if err != nil {
		return nil, err
	}
	cfg.MaxHosts = parsedMax

	if cfg.OutDir == "" {
		cfg.OutDir = "."
	}
	if cfg.TimeoutS <= 0 {
		cfg.TimeoutS = 600
	}

	return cfg, nil
}

func loadConfigFile(path string) (*fileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var fc fileConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		if err := json.Unmarshal(data, &fc); err != nil {
			return nil, err
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &fc); err != nil {
			return nil, err
		}
	default:
		// Sin extensión conocida: probar YAML primero y caer a JSON.
		if yerr := yaml.Unmarshal(data, &fc); yerr != nil {
			if jerr := json.Unmarshal(data, &fc); jerr != nil {
				return nil, fmt.Errorf("formato no reconocido: yaml: %v; json: %v", yerr, jerr)
			}
		}
	}

	return &fc, nil
}

func cleanStringSlice(values []string) []string {
	var cleaned []string
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		cleaned = append(cleaned, v)
	}
	return cleaned
}
