// Package report escribe los reportes JSON y de texto en disco. Los dos
// renderers son independientes: el fallo de uno no afecta al otro.
package report

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"recon-triage/internal/core/triage"
	"recon-triage/internal/platform/logx"
)

// Paths indica dónde quedaron los reportes escritos.
type Paths struct {
	JSON string
	Text string
}

// Write renderiza y guarda ambos reportes en outdir, creándolo si hace
// falta. Devuelve las rutas escritas; si un renderer falla, el otro se
// escribe igualmente y los errores se acumulan.
func Write(r *triage.Report, outdir string) (Paths, error) {
	if err := os.MkdirAll(outdir, 0755); err != nil {
		return Paths{}, fmt.Errorf("crear outdir: %w", err)
	}

	base := fmt.Sprintf("recon_%s_%d", r.Target, r.GeneratedAt.Unix())
	paths := Paths{
		JSON: filepath.Join(outdir, base+".json"),
		Text: filepath.Join(outdir, base+".txt"),
	}

	var errs []error

	if data, err := RenderJSON(r); err != nil {
		errs = append(errs, fmt.Errorf("render json: %w", err))
		paths.JSON = ""
	} else if err := os.WriteFile(paths.JSON, data, 0644); err != nil {
		errs = append(errs, fmt.Errorf("write json: %w", err))
		paths.JSON = ""
	} else {
		logx.Debug("reporte escrito", logx.Fields{"path": paths.JSON})
	}

	text := RenderText(r)
	if err := os.WriteFile(paths.Text, []byte(text), 0644); err != nil {
		errs = append(errs, fmt.Errorf("write text: %w", err))
		paths.Text = ""
	} else {
		logx.Debug("reporte escrito", logx.Fields{"path": paths.Text})
	}

	return paths, errors.Join(errs...)
}
