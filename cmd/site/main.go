// Package main starts the localized admin site.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	sitecmd "github.com/lumenvpn/site/internal/cmd/site"
	"github.com/lumenvpn/site/internal/platform/config"
	"github.com/lumenvpn/site/internal/platform/logging"
	"go.uber.org/zap"
)

func main() {
	if err := config.LoadDotEnv(".env"); err != nil {
		config.Exitf(nil, "load env: %v", err)
	}
	cfg, err := sitecmd.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		config.Exitf(nil, "parse flags: %v", err)
	}
	logger, err := logging.New(logging.Config{Level: cfg.LogLevel, Encoding: cfg.LogEncoding})
	if err != nil {
		config.Exitf(nil, "init logger: %v", err)
	}
	defer logging.Sync(logger)
	restore := zap.ReplaceGlobals(logger.Named("site"))
	defer restore()
	flush := []func(){func() { logging.Sync(logger) }}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := sitecmd.Run(ctx, cfg, zap.L()); err != nil {
		stop()
		config.Exitf(flush, "failed to serve: %v", err)
	}
}
