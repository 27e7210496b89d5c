package report

import (
	"bytes"
	"embed"
	"html/template"
	"strconv"
	"time"
)

const notAvailable = "N/A"

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

type metricRow struct {
	Label string
	Value string
	Class string
}

type endpointRow struct {
	Name  string
	Count string
	Mean  string
	P95   string
	P99   string
}

type sectionView struct {
	Label     string
	Missing   bool
	Metrics   []metricRow
	Latency   []metricRow
	Endpoints []endpointRow
}

// Section renders one report. A report without an aggregate block renders
// an error heading instead of failing.
func Section(r LoadReport, label string) (template.HTML, error) {
	view := sectionView{Label: label, Missing: r.Aggregate == nil}
	if r.Aggregate != nil {
		agg := r.Aggregate
		latency := agg.Summaries[summaryLatency]

		failures := counter(agg.Counters, counterFailed)
		failuresClass := ""
		if v := agg.Counters[counterFailed]; v.Valid && v.Value > 0 {
			failuresClass = "errors"
		}

		view.Metrics = []metricRow{
			{Label: "Total requests", Value: counter(agg.Counters, counterRequests)},
			{Label: "Completed virtual users", Value: counter(agg.Counters, counterCompleted)},
			{Label: "Mean RPS", Value: rate(agg.Rates, rateRequests)},
			{Label: "Failures", Value: failures, Class: failuresClass},
		}
		view.Latency = []metricRow{
			{Label: "Min", Value: millis(latency.Min, -1)},
			{Label: "Mean", Value: millis(latency.Mean, 2)},
			{Label: "p95", Value: millis(latency.P95, -1)},
			{Label: "p99", Value: millis(latency.P99, -1)},
			{Label: "Max", Value: millis(latency.Max, -1)},
		}
		for _, ep := range EndpointMetrics(agg.Summaries) {
			view.Endpoints = append(view.Endpoints, endpointRow{
				Name:  ep.Name,
				Count: number(ep.Summary.Count, -1),
				Mean:  millis(ep.Summary.Mean, 2),
				P95:   millis(ep.Summary.P95, -1),
				P99:   millis(ep.Summary.P99, -1),
			})
		}
	}

	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, "section.html", view); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}

func Document(sections []template.HTML, generatedAt time.Time) ([]byte, error) {
	var buf bytes.Buffer
	err := templates.ExecuteTemplate(&buf, "document.html", struct {
		GeneratedAt string
		Sections    []template.HTML
	}{
		GeneratedAt: generatedAt.Format("2006-01-02 15:04:05 MST"),
		Sections:    sections,
	})
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func counter(values map[string]Number, key string) string {
	return number(values[key], -1)
}

func rate(values map[string]Number, key string) string {
	return number(values[key], 2)
}

func number(v Number, prec int) string {
	if !v.Valid {
		return notAvailable
	}
	return strconv.FormatFloat(v.Value, 'f', prec, 64)
}

func millis(v Number, prec int) string {
	if !v.Valid {
		return notAvailable
	}
	return number(v, prec) + " ms"
}
