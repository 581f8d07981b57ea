package sources

import (
	"context"

	"recon-triage/internal/core/runner"
)

var (
	subfinderHasBin = runner.HasBin
	subfinderRunCmd = runner.RunCommand
)

// Subfinder enumera subdominios del target y los emite línea a línea.
func Subfinder(ctx context.Context, target string, out chan<- string) error {
	if !subfinderHasBin("subfinder") {
		return runner.ErrMissingBinary
	}
	return subfinderRunCmd(ctx, "subfinder", []string{"-d", target, "-silent"}, out)
}
