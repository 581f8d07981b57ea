package runner

import (
	"bufio"
	"context"
	"errors"
	"os"
	"os/exec"
	"strings"
	"time"

	apperrors "recon-triage/internal/platform/errors"
	"recon-triage/internal/platform/logx"
)

var ErrMissingBinary = errors.New("missing binary")

// findBinaryMatchingVersion recorre binarios candidatos y devuelve el primero
// cuyo `-version` contenga la subcadena indicada (case-insensitive). Timeout
// corto por binario para evitar bloqueos.
func findBinaryMatchingVersion(match string, candidates ...string) (string, error) {
	match = strings.ToLower(match)
	searchPaths := os.Getenv("PATH")

	for _, candidate := range candidates {
		path, err := exec.LookPath(candidate)
		if err != nil {
			continue
		}
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		cmd := exec.CommandContext(ctx, path, "-version")
		output, execErr := cmd.CombinedOutput()
		cancel()
		if execErr != nil {
			continue
		}
		if strings.Contains(strings.ToLower(string(output)), match) {
			return path, nil
		}
	}

	if len(candidates) > 0 {
		return "", apperrors.NewMissingBinaryError(candidates[0], strings.Split(searchPaths, ":")...)
	}
	return "", ErrMissingBinary
}

// HTTPXBin intenta localizar el binario httpx de ProjectDiscovery.
// Evita confundirlo con el CLI de Python llamado "httpx".
func HTTPXBin() (string, error) {
	return findBinaryMatchingVersion("projectdiscovery", "httpx", "httpx-toolkit")
}

// HasBin indica si un binario con el nombre dado está disponible en PATH.
func HasBin(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}

// RunCommand executes an external command and streams its stdout line-by-line
// to the provided channel. The command respects context cancellation and will
// be terminated if the context is cancelled. Returns a MissingBinaryError if
// the binary is not found, or any other error encountered during execution.
func RunCommand(ctx context.Context, name string, args []string, out chan<- string) error {
	resolvedPath, lookErr := exec.LookPath(name)
	if lookErr != nil {
		logx.Tracef("lookup %s: %v", name, lookErr)
	}

	cmd := exec.CommandContext(ctx, name, args...)
	if resolvedPath != "" {
		cmd.Path = resolvedPath
	}
	// Tras cancelar el contexto, fuerza el cierre de los pipes aunque algún
	// proceso hijo de la herramienta los siga heredando; sin esto la lectura
	// de stdout puede quedar bloqueada indefinidamente.
	cmd.WaitDelay = 2 * time.Second

	logx.Debug("Ejecutando comando", logx.Fields{"name": name, "args": strings.Join(args, " ")})

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		logx.Error("Error stdout pipe", logx.Fields{"command": name, "error": err.Error()})
		return err
	}
	stderr, _ := cmd.StderrPipe()

	start := time.Now()

	if err := cmd.Start(); err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			searchPaths := os.Getenv("PATH")
			return apperrors.NewMissingBinaryError(name, strings.Split(searchPaths, ":")...)
		}
		logx.Error("Error iniciar comando", logx.Fields{"command": name, "error": err.Error()})
		return err
	}

	// Escucha de stderr (debug), con buffer ampliado.
	go func() {
		sc := bufio.NewScanner(stderr)
		sc.Buffer(make([]byte, 0, 64*1024), 2*1024*1024)
		for sc.Scan() {
			logx.Debug("Stderr", logx.Fields{"command": name, "output": sc.Text()})
		}
	}()

	// Lectura de stdout con buffer ampliado: httpx puede emitir líneas >64KiB.
	sc := bufio.NewScanner(stdout)
	sc.Buffer(make([]byte, 0, 64*1024), 2*1024*1024)

	lines := 0
readLoop:
	for sc.Scan() {
		line := sc.Text()
		// Envío context-aware para no quedar bloqueados si out no lee.
		select {
		case <-ctx.Done():
			logx.Warn("Context cancelado", logx.Fields{"command": name})
			break readLoop
		case out <- line:
			lines++
		}
	}
	if err := sc.Err(); err != nil && ctx.Err() == nil {
		logx.Error("Error scan", logx.Fields{"command": name, "error": err.Error()})
		_ = cmd.Wait()
		return err
	}

	if err := cmd.Wait(); err != nil {
		if ctx.Err() != nil {
			logx.Debug("Wait after context cancel", logx.Fields{"command": name, "error": err.Error()})
		} else {
			logx.Error("Error wait", logx.Fields{"command": name, "error": err.Error()})
			return err
		}
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}

	logx.Trace("Comando completado", logx.Fields{
		"command":     name,
		"duration_ms": time.Since(start).Milliseconds(),
		"lines":       lines,
	})

	return nil
}

// WithTimeout creates a new context with a timeout derived from the parent
// context. If seconds is less than or equal to 0, a default of 600 seconds
// is used.
func WithTimeout(parent context.Context, seconds int) (context.Context, context.CancelFunc) {
	if seconds <= 0 {
		seconds = 600
	}
	return context.WithTimeout(parent, time.Duration(seconds)*time.Second)
}
