package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	goflags "github.com/jessevdk/go-flags"

	"github.com/KirillGluhov/gallery-api/internal/loadtest"
	"github.com/KirillGluhov/gallery-api/internal/log"
	"github.com/KirillGluhov/gallery-api/internal/report"
)

type options struct {
	URL          string        `long:"url" default:"http://localhost:3000" description:"base URL of the server under test"`
	Dir          string        `long:"dir" default:"loadtests" description:"directory holding <test>.artillery.yml scenarios"`
	Server       string        `long:"server" default:"go run ./cmd/api" description:"command that starts the server"`
	Artillery    string        `long:"artillery" default:"artillery" description:"artillery binary"`
	ReadyTimeout time.Duration `long:"ready-timeout" default:"30s" description:"how long to wait for the server"`
	Args         struct {
		Test string `positional-arg-name:"test" description:"gallery, upload or interaction; all when omitted"`
	} `positional-args:"yes"`
}

func main() {
	var opts options
	parser := goflags.NewParser(&opts, goflags.Default)
	parser.Name = "loadtest"
	if _, err := parser.Parse(); err != nil {
		if goflags.WroteHelp(err) {
			os.Exit(0)
		}
		os.Exit(2)
	}

	logger := log.New(os.Getenv("GALLERY_ENVIRONMENT"))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	proc, err := loadtest.StartProcess(strings.Fields(opts.Server), logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to start server")
	}
	defer func() {
		logger.Info().Msg("stopping server")
		if err := proc.Kill(); err != nil {
			logger.Error().Err(err).Msg("failed to stop server process")
		}
	}()

	orch := &loadtest.Orchestrator{
		BaseURL:      strings.TrimRight(opts.URL, "/"),
		Dir:          opts.Dir,
		ReadyTimeout: opts.ReadyTimeout,
		Runner:       loadtest.ArtilleryRunner{Binary: opts.Artillery, Stdout: os.Stdout, Stderr: os.Stderr},
		Renderer:     report.Renderer{Dir: ".", Log: logger},
		Log:          logger,
	}
	if opts.Args.Test != "" {
		orch.Tests = []string{opts.Args.Test}
	}

	res, err := orch.Run(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("load test session failed")
		return
	}
	if res.Output != "" {
		logger.Info().Str("output", res.Output).Msg("load test session finished")
	}
}
