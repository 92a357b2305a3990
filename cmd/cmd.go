// Package cmd parse args to configure application.
package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/caarlos0/env/v11"
	"observer/app"
)

// EnvPrefix is the prefix of every environment variable read into the configuration.
const EnvPrefix = "OBSERVER_"

// Run starts the application.
func Run() {
	config, err := SetupConfig(os.Stdout, os.Args[1:], os.Environ())
	if err != nil {
		log.Printf("invalid configuration: %v", err)
		os.Exit(1)
	}

	level := slog.LevelInfo
	if config.Debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := app.New(config, os.Stdout, app.WithLogger(logger))
	if err = a.Run(ctx); err != nil {
		log.Printf("failed to run demos: %v", err)
		stop()
		os.Exit(1)
	}
}

// SetupConfig sets up and returns the configuration.
func SetupConfig(w io.Writer, args, environ []string) (app.Config, error) {
	config, err := Parse(w, args, environ)
	if err != nil {
		return config, err
	}
	if err = config.Validate(); err != nil {
		return config, err
	}
	return config, nil
}

// Parse reads the environment, then the command line arguments on top of it.
func Parse(w io.Writer, args, environ []string) (app.Config, error) {
	con := app.DefaultConfig()
	if err := env.ParseWithOptions(&con, env.Options{
		Prefix:      EnvPrefix,
		Environment: env.ToMap(environ),
	}); err != nil {
		return app.Config{}, fmt.Errorf("failed to parse environment: %w", err)
	}

	demos := strings.Join(con.Demos, ",")

	fs := flag.NewFlagSet("observer", flag.ContinueOnError)
	fs.SetOutput(w)
	fs.StringVar(&demos, "demo", demos, "comma separated demos to run: weather, chat, market, monitor or all")
	fs.BoolVar(&con.Debug, "debug", con.Debug, "debug mode")
	fs.IntVar(&con.Metrics.Port, "metrics-port", con.Metrics.Port, "metrics listening port, 0 disables the server")
	fs.StringVar(&con.Metrics.Path, "metrics-path", con.Metrics.Path, "metrics endpoint path")
	fs.DurationVar(&con.Monitor.Interval, "interval", con.Monitor.Interval, "monitor sampling interval")
	fs.IntVar(&con.Monitor.Samples, "samples", con.Monitor.Samples, "monitor samples to take, 0 runs until interrupted")

	err := fs.Parse(args)
	if err != nil {
		return app.Config{}, fmt.Errorf("failed to parse args: %w", err)
	}

	if fs.NArg() != 0 {
		return app.Config{}, errors.New("some args are not parsed")
	}

	con.Demos = splitDemos(demos)
	return con, nil
}

func splitDemos(s string) []string {
	var demos []string
	for _, d := range strings.Split(s, ",") {
		if d = strings.TrimSpace(d); d != "" {
			demos = append(demos, d)
		}
	}
	return demos
}
