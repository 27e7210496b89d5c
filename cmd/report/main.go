package main

import (
	"errors"
	"os"

	goflags "github.com/jessevdk/go-flags"

	"github.com/KirillGluhov/gallery-api/internal/log"
	"github.com/KirillGluhov/gallery-api/internal/report"
)

type options struct {
	Args struct {
		Reports []string `positional-arg-name:"report.json"`
	} `positional-args:"yes"`
}

func main() {
	var opts options
	parser := goflags.NewParser(&opts, goflags.Default)
	parser.Name = "report"
	parser.Usage = "<report1.json> [<report2.json> ...]"
	if _, err := parser.Parse(); err != nil {
		if goflags.WroteHelp(err) {
			os.Exit(0)
		}
		os.Exit(2)
	}

	logger := log.New(os.Getenv("GALLERY_ENVIRONMENT"))

	if len(opts.Args.Reports) == 0 {
		parser.WriteHelp(os.Stdout)
		return
	}

	renderer := report.Renderer{Dir: ".", Log: logger}
	res, err := renderer.Run(opts.Args.Reports)
	switch {
	case errors.Is(err, report.ErrNoReports):
		logger.Error().Strs("failed", res.Failed).Msg("no report files could be processed")
	case err != nil:
		logger.Error().Err(err).Msg("html report generation failed")
		os.Exit(1)
	default:
		logger.Info().
			Str("output", res.Output).
			Int("deleted", len(res.Deleted)).
			Int("skipped", len(res.Failed)).
			Msg("html report generated")
	}
}
