package sources

import (
	"bufio"
	"context"
	"os"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"

	"recon-triage/internal/core/runner"
)

const (
	// httpxDefaultBatchSize determines how many hosts are probed in a single
	// httpx invocation. Larger batches reduce overhead but may cause
	// timeouts on slow systems.
	httpxDefaultBatchSize = 5000

	// httpxIntermediateBufferSize sets the channel buffer for httpx output
	// forwarding. A generous buffer prevents blocking on bursts.
	httpxIntermediateBufferSize = 1024
)

var (
	httpxBinFinder = runner.HTTPXBin
	httpxRunCmd    = runner.RunCommand
	// httpxBatchSize can be overridden for testing or tuning
	httpxBatchSize = httpxDefaultBatchSize
	// httpxWorkerCount defaults to number of CPUs but can be adjusted
	httpxWorkerCount = runtime.NumCPU()
)

// HTTPX prueba la lista de hosts con httpx en modo JSON y reenvía cada
// línea de salida cruda por out. En modo simple no se pide tech detection.
func HTTPX(ctx context.Context, hosts []string, simple bool, out chan<- string) error {
	bin, err := httpxBinFinder()
	if err != nil {
		return err
	}
	if len(hosts) == 0 {
		return nil
	}

	args := []string{"-silent", "-status-code", "-title", "-json"}
	if !simple {
		args = append(args, "-tech-detect")
	}

	intermediate := make(chan string, httpxIntermediateBufferSize)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for line := range intermediate {
			out <- line
		}
	}()
	defer func() {
		close(intermediate)
		wg.Wait()
	}()

	batchSize := httpxBatchSize
	if batchSize <= 0 || batchSize > len(hosts) {
		batchSize = len(hosts)
	}

	var batches [][]string
	for start := 0; start < len(hosts); start += batchSize {
		end := start + batchSize
		if end > len(hosts) {
			end = len(hosts)
		}
		batches = append(batches, hosts[start:end])
	}

	workers := httpxWorkerCount
	if workers < 1 {
		workers = 1
	}
	if workers > len(batches) {
		workers = len(batches)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for _, batch := range batches {
		batch := batch
		g.Go(func() error {
			tmpPath, cleanup, err := writeTempInput(batch)
			if err != nil {
				return err
			}
			defer cleanup()

			batchArgs := append(append([]string(nil), args...), "-l", tmpPath)
			return httpxRunCmd(gctx, bin, batchArgs, intermediate)
		})
	}

	return g.Wait()
}

// writeTempInput vuelca un lote de hosts a un archivo temporal para -l.
func writeTempInput(lines []string) (string, func(), error) {
	tmpFile, err := os.CreateTemp("", "recon-triage-httpx-*.txt")
	if err != nil {
		return "", nil, err
	}

	cleanup := func() {
		os.Remove(tmpFile.Name())
	}

	writer := bufio.NewWriter(tmpFile)
	for _, line := range lines {
		if _, err := writer.WriteString(line + "\n"); err != nil {
			tmpFile.Close()
			cleanup()
			return "", nil, err
		}
	}
	if err := writer.Flush(); err != nil {
		tmpFile.Close()
		cleanup()
		return "", nil, err
	}
	if err := tmpFile.Close(); err != nil {
		cleanup()
		return "", nil, err
	}

	return tmpFile.Name(), cleanup, nil
}
