package toml

import "fmt"

const currentSchemaVersion = 1

type fileSchema struct {
	Version  int              `toml:"version"`
	Food     []foodSchema     `toml:"food,omitempty"`
	Exercise []exerciseSchema `toml:"exercise,omitempty"`
	Health   []healthSchema   `toml:"health,omitempty"`
}

func (s *fileSchema) applyDefaults() {
	if s.Version == 0 {
		s.Version = currentSchemaVersion
	}
}

func (s fileSchema) validateVersion() error {
	if s.Version > currentSchemaVersion {
		return fmt.Errorf("unsupported records schema version %d (current %d)", s.Version, currentSchemaVersion)
	}

	return nil
}

type foodSchema struct {
	Date     string  `toml:"date"`
	Name     string  `toml:"name"`
	Calories float64 `toml:"calories"`
	Protein  float64 `toml:"protein,omitempty"`
	Carbs    float64 `toml:"carbs,omitempty"`
	Fat      float64 `toml:"fat,omitempty"`
}

type exerciseSchema struct {
	Date           string  `toml:"date"`
	Type           string  `toml:"type"`
	Duration       float64 `toml:"duration"`
	CaloriesBurned float64 `toml:"calories_burned,omitempty"`
}

type healthSchema struct {
	Date          string  `toml:"date"`
	Weight        float64 `toml:"weight,omitempty"`
	Height        float64 `toml:"height,omitempty"`
	BloodPressure string  `toml:"blood_pressure,omitempty"`
	HeartRate     float64 `toml:"heart_rate,omitempty"`
	SleepHours    float64 `toml:"sleep_hours,omitempty"`
}
