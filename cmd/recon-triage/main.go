package main

import (
	"flag"
	"fmt"
	"os"

	"recon-triage/internal/core/app"
	"recon-triage/internal/platform/config"
	"recon-triage/internal/platform/logx"
)

func main() {
	cfg, err := config.ParseFlags()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	logx.SetVerbosity(cfg.Verbosity)
	if cfg.NoColor {
		logx.EnableColors(false)
	}
	logx.Infof("Iniciando recon-triage target=%s outdir=%s max-hosts=%d simple=%v",
		cfg.Target, cfg.OutDir, cfg.MaxHosts, cfg.Simple)

	if cfg.Target == "" {
		fmt.Fprintln(os.Stderr, "uso: -target example.com")
		flag.PrintDefaults()
		os.Exit(1)
	}
	if err := app.Run(cfg); err != nil {
		logx.Errorf("%v", err)
		os.Exit(1)
	}
	logx.Infof("Listo. Reportes creados en: %s", cfg.OutDir)
}
