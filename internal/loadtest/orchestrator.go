package loadtest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/KirillGluhov/gallery-api/internal/report"
)

const TestInteraction = "interaction"

var AllTests = []string{"gallery", "upload", TestInteraction}

var ErrNotReady = errors.New("server did not become ready")

type Orchestrator struct {
	BaseURL      string
	Dir          string
	Tests        []string
	ReadyTimeout time.Duration
	PollInterval time.Duration
	Client       *http.Client
	Runner       Runner
	Renderer     report.Renderer
	Log          zerolog.Logger
}

// WaitReady polls BaseURL until any HTTP response arrives. The status code
// does not matter, only that the server accepts connections.
func (o *Orchestrator) WaitReady(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, o.readyTimeout())
	defer cancel()

	ticker := time.NewTicker(o.pollInterval())
	defer ticker.Stop()

	o.Log.Info().Str("url", o.BaseURL).Msg("waiting for server")
	for {
		status, err := o.probe(ctx)
		if err == nil {
			o.Log.Info().Int("status", status).Msg("server is up")
			return nil
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("%w within %s: %v", ErrNotReady, o.readyTimeout(), err)
		case <-ticker.C:
		}
	}
}

func (o *Orchestrator) probe(ctx context.Context) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, o.BaseURL, nil)
	if err != nil {
		return 0, err
	}
	resp, err := o.client().Do(req)
	if err != nil {
		return 0, err
	}
	resp.Body.Close()
	return resp.StatusCode, nil
}

// HasImages reports whether GET /all returns a non-empty array. Any failure
// counts as no images.
func (o *Orchestrator) HasImages(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, o.BaseURL+"/all", nil)
	if err != nil {
		o.Log.Error().Err(err).Msg("build /all request failed")
		return false
	}
	resp, err := o.client().Do(req)
	if err != nil {
		o.Log.Error().Err(err).Msg("image check failed")
		return false
	}
	defer resp.Body.Close()

	var images []json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&images); err != nil {
		o.Log.Error().Err(err).Msg("decode /all response failed")
		return false
	}
	return len(images) > 0
}

// RunTests runs each configured test and returns the report files written.
// A failing test is logged and skipped.
func (o *Orchestrator) RunTests(ctx context.Context) []string {
	tests := o.Tests
	if len(tests) == 0 {
		tests = AllTests
	}

	var reports []string
	for _, test := range tests {
		if ctx.Err() != nil {
			break
		}
		if test == TestInteraction && !o.HasImages(ctx) {
			o.Log.Warn().Str("test", test).Msg("gallery is empty, skipping")
			continue
		}

		scenario := ScenarioPath(o.Dir, test)
		if _, err := LoadScenario(scenario); err != nil {
			o.Log.Error().Err(err).Str("test", test).Msg("invalid scenario, skipping")
			continue
		}

		output := ReportPath(o.Dir, test)
		o.Log.Info().Str("test", test).Msg("running load test")
		if err := o.Runner.Run(ctx, scenario, output); err != nil {
			o.Log.Error().Err(err).Str("test", test).Msg("load test failed")
			continue
		}
		reports = append(reports, output)
	}
	return reports
}

// Run drives one full session against an already started server: wait,
// test, render. Stopping the server is left to the caller.
func (o *Orchestrator) Run(ctx context.Context) (report.Result, error) {
	if err := o.WaitReady(ctx); err != nil {
		return report.Result{}, err
	}

	reports := o.RunTests(ctx)
	if len(reports) == 0 {
		o.Log.Warn().Msg("no load test produced a report")
		return report.Result{}, nil
	}

	res, err := o.Renderer.Run(reports)
	if err != nil {
		return res, fmt.Errorf("render reports: %w", err)
	}
	return res, nil
}

func (o *Orchestrator) client() *http.Client {
	if o.Client != nil {
		return o.Client
	}
	return &http.Client{Timeout: 5 * time.Second}
}

func (o *Orchestrator) readyTimeout() time.Duration {
	if o.ReadyTimeout > 0 {
		return o.ReadyTimeout
	}
	return 30 * time.Second
}

func (o *Orchestrator) pollInterval() time.Duration {
	if o.PollInterval > 0 {
		return o.PollInterval
	}
	return time.Second
}
