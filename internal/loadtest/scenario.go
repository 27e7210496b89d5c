package loadtest

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

type Scenario struct {
	Config struct {
		Target string `yaml:"target"`
		Phases []struct {
			Duration    int    `yaml:"duration"`
			ArrivalRate int    `yaml:"arrivalRate"`
			Name        string `yaml:"name"`
		} `yaml:"phases"`
	} `yaml:"config"`
	Scenarios []struct {
		Name string `yaml:"name"`
	} `yaml:"scenarios"`
}

func ScenarioPath(dir, test string) string {
	return filepath.Join(dir, test+".artillery.yml")
}

func ReportPath(dir, test string) string {
	return filepath.Join(dir, "temp_report_"+test+".json")
}

// LoadScenario reads just enough of an artillery file to catch a missing
// file or a scenario without a target before artillery is spawned.
func LoadScenario(path string) (Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Scenario{}, fmt.Errorf("read scenario: %w", err)
	}
	var s Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Scenario{}, fmt.Errorf("decode scenario %s: %w", path, err)
	}
	if s.Config.Target == "" {
		return Scenario{}, fmt.Errorf("scenario %s: config.target is empty", path)
	}
	if len(s.Scenarios) == 0 {
		return Scenario{}, fmt.Errorf("scenario %s: no scenarios", path)
	}
	return s, nil
}
