// Package bundlefile reads record bundles from JSON or YAML files shaped like
// {"healthData": [...], "exerciseData": [...], "foodData": [...]}.
package bundlefile

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bnema/fitness-advisor-cli/internal/domain"
	"gopkg.in/yaml.v3"
)

const maxBundleBytes = 4 << 20

type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

type document struct {
	HealthData   []healthEntry   `json:"healthData" yaml:"healthData"`
	ExerciseData []exerciseEntry `json:"exerciseData" yaml:"exerciseData"`
	FoodData     []foodEntry     `json:"foodData" yaml:"foodData"`
}

type foodEntry struct {
	Date     date    `json:"date" yaml:"date"`
	Name     string  `json:"name" yaml:"name"`
	Calories float64 `json:"calories" yaml:"calories"`
	Protein  float64 `json:"protein" yaml:"protein"`
	Carbs    float64 `json:"carbs" yaml:"carbs"`
	Fat      float64 `json:"fat" yaml:"fat"`
}

type exerciseEntry struct {
	Date           date    `json:"date" yaml:"date"`
	Type           string  `json:"type" yaml:"type"`
	Duration       float64 `json:"duration" yaml:"duration"`
	CaloriesBurned float64 `json:"caloriesBurned" yaml:"caloriesBurned"`
}

type healthEntry struct {
	Date          date    `json:"date" yaml:"date"`
	Weight        float64 `json:"weight" yaml:"weight"`
	Height        float64 `json:"height" yaml:"height"`
	BloodPressure string  `json:"bloodPressure" yaml:"bloodPressure"`
	HeartRate     float64 `json:"heartRate" yaml:"heartRate"`
	SleepHours    float64 `json:"sleepHours" yaml:"sleepHours"`
}

// date accepts YYYY-MM-DD or RFC 3339 timestamps. Unparseable values decode
// to the zero time so the record is later treated as invalid.
type date struct {
	time.Time
}

var dateLayouts = []string{"2006-01-02", time.RFC3339Nano, "2006-01-02T15:04:05"}

func parseDate(raw string) time.Time {
	raw = strings.TrimSpace(raw)
	for _, layout := range dateLayouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			return parsed
		}
	}
	return time.Time{}
}

func (d *date) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		d.Time = time.Time{}
		return nil
	}
	d.Time = parseDate(raw)
	return nil
}

func (d *date) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		d.Time = time.Time{}
		return nil
	}
	d.Time = parseDate(node.Value)
	return nil
}

func Load(path string) (domain.DataBundle, error) {
	file, err := os.Open(path)
	if err != nil {
		return domain.DataBundle{}, fmt.Errorf("open bundle file: %w", err)
	}
	defer func() { _ = file.Close() }()

	return Decode(file, FormatFor(path))
}

// FormatFor picks the decoder from the file extension, defaulting to JSON.
func FormatFor(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

func Decode(r io.Reader, format Format) (domain.DataBundle, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxBundleBytes))
	if err != nil {
		return domain.DataBundle{}, fmt.Errorf("read bundle: %w", err)
	}

	var doc document
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return domain.DataBundle{}, fmt.Errorf("decode yaml bundle: %w", err)
		}
	case FormatJSON:
		if len(bytes.TrimSpace(data)) == 0 {
			return domain.DataBundle{}, nil
		}
		if err := json.Unmarshal(data, &doc); err != nil {
			return domain.DataBundle{}, fmt.Errorf("decode json bundle: %w", err)
		}
	default:
		return domain.DataBundle{}, fmt.Errorf("unsupported bundle format %q", format)
	}

	return doc.bundle(), nil
}

func (d document) bundle() domain.DataBundle {
	var bundle domain.DataBundle
	for _, entry := range d.HealthData {
		bundle.HealthRecords = append(bundle.HealthRecords, domain.HealthRecord{
			Date:          entry.Date.Time,
			Weight:        entry.Weight,
			Height:        entry.Height,
			BloodPressure: entry.BloodPressure,
			HeartRate:     entry.HeartRate,
			SleepHours:    entry.SleepHours,
		})
	}
	for _, entry := range d.ExerciseData {
		bundle.ExerciseRecords = append(bundle.ExerciseRecords, domain.ExerciseRecord{
			Date:           entry.Date.Time,
			Type:           entry.Type,
			Duration:       entry.Duration,
			CaloriesBurned: entry.CaloriesBurned,
		})
	}
	for _, entry := range d.FoodData {
		bundle.FoodRecords = append(bundle.FoodRecords, domain.FoodRecord{
			Date:     entry.Date.Time,
			Name:     entry.Name,
			Calories: entry.Calories,
			Protein:  entry.Protein,
			Carbs:    entry.Carbs,
			Fat:      entry.Fat,
		})
	}
	return bundle
}
