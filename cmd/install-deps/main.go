package main

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
)

type requirement struct {
	binary string
	module string
}

var requirements = []requirement{
	{binary: "subfinder", module: "github.com/projectdiscovery/subfinder/v2/cmd/subfinder@latest"},
	{binary: "httpx", module: "github.com/projectdiscovery/httpx/cmd/httpx@latest"},
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	if _, err := exec.LookPath("go"); err != nil {
		return errors.New("go binary not found in PATH; install Go to proceed")
	}

	for _, req := range requirements {
		if path, err := exec.LookPath(req.binary); err == nil {
			fmt.Printf("%s already installed at %s\n", req.binary, path)
			continue
		}

		fmt.Printf("Installing %s from %s...\n", req.binary, req.module)
		if err := installModule(req.module); err != nil {
			return fmt.Errorf("failed to install %s: %w", req.binary, err)
		}
	}

	fmt.Println("All requirements satisfied.")
	return nil
}

func installModule(module string) error {
	cmd := exec.Command("go", "install", "-v", module)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}
