package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"
)

// EndpointPrefix marks per-endpoint latency summaries written by the
// metrics-by-endpoint plugin.
const EndpointPrefix = "plugins.metrics-by-endpoint.response_time."

const (
	counterRequests  = "http.requests"
	counterCompleted = "vusers.completed"
	counterFailed    = "vusers.failed"
	rateRequests     = "http.request_rate"
	summaryLatency   = "http.response_time"
)

// Number is a metric value. Absent, null or non-numeric values decode as
// invalid instead of failing the whole report.
type Number struct {
	Value float64
	Valid bool
}

func (n *Number) UnmarshalJSON(data []byte) error {
	var v float64
	if err := json.Unmarshal(data, &v); err != nil || bytes.Equal(data, []byte("null")) {
		*n = Number{}
		return nil
	}
	*n = Number{Value: v, Valid: true}
	return nil
}

type Summary struct {
	Count Number `json:"count"`
	Min   Number `json:"min"`
	Max   Number `json:"max"`
	Mean  Number `json:"mean"`
	P95   Number `json:"p95"`
	P99   Number `json:"p99"`
}

type Aggregate struct {
	Counters  map[string]Number  `json:"counters"`
	Rates     map[string]Number  `json:"rates"`
	Summaries map[string]Summary `json:"summaries"`
}

type LoadReport struct {
	Aggregate *Aggregate `json:"aggregate"`
}

type Endpoint struct {
	Name    string
	Summary Summary
}

func Parse(data []byte) (LoadReport, error) {
	var r LoadReport
	if err := json.Unmarshal(data, &r); err != nil {
		return LoadReport{}, fmt.Errorf("decode report: %w", err)
	}
	return r, nil
}

func LoadFile(path string) (LoadReport, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return LoadReport{}, fmt.Errorf("read %s: %w", path, err)
	}
	r, err := Parse(data)
	if err != nil {
		return LoadReport{}, fmt.Errorf("%s: %w", path, err)
	}
	return r, nil
}

func EndpointMetrics(summaries map[string]Summary) []Endpoint {
	out := make([]Endpoint, 0)
	for key, summary := range summaries {
		name, ok := strings.CutPrefix(key, EndpointPrefix)
		if !ok || name == "" {
			continue
		}
		out = append(out, Endpoint{Name: name, Summary: summary})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

var (
	labelPrefixes  = []string{"artillery_report_", "temp_report_"}
	labelTimestamp = regexp.MustCompile(`\d{4}-.*$`)
)

// Label turns "artillery_report_upload_2024-05-01T10-00-00.json" into "upload".
func Label(filename string) string {
	name := filename
	for _, prefix := range labelPrefixes {
		name = strings.ReplaceAll(name, prefix, " ")
	}
	name = strings.TrimSuffix(name, ".json")
	name = strings.ReplaceAll(name, "_", " ")
	name = labelTimestamp.ReplaceAllString(name, "")
	return strings.Join(strings.Fields(name), " ")
}
