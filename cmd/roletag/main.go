package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	flag "github.com/spf13/pflag"

	"github.com/crimson-sun/roletag/internal/config"
	"github.com/crimson-sun/roletag/internal/logging"
	"github.com/crimson-sun/roletag/internal/pipeline"
	"github.com/crimson-sun/roletag/internal/profile"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "roletag: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("roletag", flag.ContinueOnError)
	configPath := fs.StringP("config", "c", "", "YAML config file (default $ROLETAG_CONFIG or ./roletag.yaml)")
	showVersion := fs.Bool("version", false, "print version and exit")
	fl := registerFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *showVersion {
		fmt.Println("roletag", config.Version)
		return nil
	}

	path := *configPath
	if path == "" {
		path = os.Getenv("ROLETAG_CONFIG")
	}
	cfg, err := config.LoadFrom(path)
	if err != nil {
		return err
	}
	fl.apply(fs, &cfg)
	if fs.NArg() > 0 && cfg.Input.Path == "" {
		cfg.Input.Path = fs.Arg(0)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config:\n%w", err)
	}

	level, _ := logging.ParseLevel(cfg.LogLevel)
	logging.Init(cfg.Mode == "predict" && cfg.HasFormat("stdout"), level)

	// Every model resource is built before any output is opened so that a
	// bad lexicon or training file leaves no partial results behind.
	eng, closeEmbedder, err := buildEngine(cfg)
	if err != nil {
		return err
	}
	defer closeEmbedder()

	profiles, err := profile.Load(cfg.Input.Path)
	if err != nil {
		return err
	}
	slog.Info("profiles loaded", "path", cfg.Input.Path, "count", len(profiles))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		sig := <-sigCh
		fmt.Fprintf(os.Stderr, "\nreceived %v, shutting down...\n", sig)
		cancel()
	}()

	out, err := buildOutput(cfg)
	if err != nil {
		return err
	}
	p := pipeline.New(eng, out)

	switch cfg.Mode {
	case "validate":
		v, err := p.Validate(ctx, profiles, cfg.SeniorityMapping)
		if cerr := p.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			return err
		}
		v.Department.Render(os.Stdout)
		fmt.Println()
		v.Seniority.Render(os.Stdout)
		return nil
	default:
		_, err := p.Predict(ctx, profiles)
		if cerr := p.Close(); err == nil {
			err = cerr
		}
		return err
	}
}
