package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"gopkg.in/DataDog/dd-trace-go.v1/ddtrace/tracer"

	"outreach-mailer/internal/app"
	"outreach-mailer/internal/config"
	"outreach-mailer/internal/logger"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Debug(".env file not found, reading configuration from environment")
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(os.Stderr, cfg.Env, cfg.LogLevel)

	if cfg.TracingEnabled {
		tracer.Start(
			tracer.WithService("outreach-mailer"),
			tracer.WithEnv(cfg.DDEnv),
		)
		defer tracer.Stop()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if _, err := app.Run(ctx, cfg, os.Stdout, log); err != nil {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		log.Error("run aborted", "error", err)
		stop()
		tracer.Stop()
		os.Exit(1)
	}
}
