package report

import (
	"errors"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

var ErrNoReports = errors.New("no report could be parsed")

const outputPrefix = "artillery_html_report_"

type Renderer struct {
	Dir string
	Now func() time.Time
	Log zerolog.Logger
}

type Result struct {
	Output  string
	Parsed  []string
	Failed  []string
	Deleted []string
}

// OutputName follows the ISO-8601 UTC form with ':' and '.' replaced by '-'.
func OutputName(t time.Time) string {
	stamp := t.UTC().Format("2006-01-02T15:04:05.000Z")
	return outputPrefix + strings.NewReplacer(":", "-", ".", "-").Replace(stamp) + ".html"
}

// Run renders every parseable report into one page and removes the inputs
// that made it in. Unparseable inputs are left in place.
func (r Renderer) Run(paths []string) (Result, error) {
	var res Result
	sections := make([]template.HTML, 0, len(paths))

	for _, path := range paths {
		rep, err := LoadFile(path)
		if err != nil {
			r.Log.Error().Err(err).Str("path", path).Msg("skip report")
			res.Failed = append(res.Failed, path)
			continue
		}
		section, err := Section(rep, Label(filepath.Base(path)))
		if err != nil {
			r.Log.Error().Err(err).Str("path", path).Msg("render section failed")
			res.Failed = append(res.Failed, path)
			continue
		}
		sections = append(sections, section)
		res.Parsed = append(res.Parsed, path)
	}

	if len(res.Parsed) == 0 {
		r.Log.Error().Int("inputs", len(paths)).Msg("no report could be processed")
		return res, ErrNoReports
	}

	now := time.Now
	if r.Now != nil {
		now = r.Now
	}
	generatedAt := now()

	doc, err := Document(sections, generatedAt)
	if err != nil {
		return res, fmt.Errorf("render document: %w", err)
	}

	dir := r.Dir
	if dir == "" {
		dir = "."
	}
	output := filepath.Join(dir, OutputName(generatedAt))
	if err := os.WriteFile(output, doc, 0o644); err != nil {
		return res, fmt.Errorf("write %s: %w", output, err)
	}
	res.Output = output
	r.Log.Info().Str("output", output).Int("sections", len(sections)).Msg("html report written")

	for _, path := range res.Parsed {
		if err := os.Remove(path); err != nil {
			r.Log.Error().Err(err).Str("path", path).Msg("remove report failed")
			continue
		}
		res.Deleted = append(res.Deleted, path)
		r.Log.Info().Str("path", filepath.Base(path)).Msg("report removed")
	}
	return res, nil
}
