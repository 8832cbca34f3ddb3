package dialogue

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/pratamaditya/ucap/pkg/score"
)

// Line is one scripted exchange in a scenario file.
type Line struct {
	Speaker Speaker
	Text    string
}

// Scenario is a fixed sequence of dialogue lines for one language.
type Scenario struct {
	ID       string
	Title    string
	Language score.Language
	Lines    []Line
}

type rawScenario struct {
	ID       string    `mapstructure:"id"`
	Title    string    `mapstructure:"title"`
	Language string    `mapstructure:"language"`
	Lines    []rawLine `mapstructure:"lines"`
}

type rawLine struct {
	Speaker string `mapstructure:"speaker"`
	Text    string `mapstructure:"text"`
}

// LoadScenarios reads every *.yaml scenario in dir, keyed by scenario id.
func LoadScenarios(dir string) (map[string]Scenario, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read scenario dir: %w", err)
	}
	out := make(map[string]Scenario)
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}
		sc, err := loadScenarioFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("scenario %s: %w", entry.Name(), err)
		}
		if _, dup := out[sc.ID]; dup {
			return nil, fmt.Errorf("scenario %s: duplicate id %q", entry.Name(), sc.ID)
		}
		out[sc.ID] = sc
	}
	return out, nil
}

func loadScenarioFile(path string) (Scenario, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return Scenario{}, err
	}
	var raw rawScenario
	if err := v.Unmarshal(&raw); err != nil {
		return Scenario{}, err
	}
	return buildScenario(raw)
}

func buildScenario(raw rawScenario) (Scenario, error) {
	if strings.TrimSpace(raw.ID) == "" {
		return Scenario{}, fmt.Errorf("id is required")
	}
	if len(raw.Lines) == 0 {
		return Scenario{}, fmt.Errorf("at least one line is required")
	}
	sc := Scenario{
		ID:       raw.ID,
		Title:    raw.Title,
		Language: score.Language(strings.ToLower(strings.TrimSpace(raw.Language))),
	}
	for i, line := range raw.Lines {
		if strings.TrimSpace(line.Text) == "" {
			return Scenario{}, fmt.Errorf("line %d: text is required", i)
		}
		speaker, err := parseSpeaker(line.Speaker)
		if err != nil {
			return Scenario{}, fmt.Errorf("line %d: %w", i, err)
		}
		sc.Lines = append(sc.Lines, Line{Speaker: speaker, Text: line.Text})
	}
	return sc, nil
}

func parseSpeaker(s string) (Speaker, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "other", "scripted_other", "partner":
		return SpeakerScriptedOther, nil
	case "learner", "user":
		return SpeakerLearner, nil
	default:
		return 0, fmt.Errorf("unknown speaker %q", s)
	}
}
