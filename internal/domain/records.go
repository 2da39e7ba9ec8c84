package domain

import (
	"strings"
	"time"
)

const MaxRecordsPerCategory = 10

type RecordKind string

const (
	RecordKindFood     RecordKind = "food"
	RecordKindExercise RecordKind = "exercise"
	RecordKindHealth   RecordKind = "health"
)

type FoodRecord struct {
	Date     time.Time
	Name     string
	Calories float64
	Protein  float64
	Carbs    float64
	Fat      float64
}

func (r FoodRecord) Valid() bool {
	return !r.Date.IsZero() && strings.TrimSpace(r.Name) != "" && r.Calories >= 0
}

type ExerciseRecord struct {
	Date           time.Time
	Type           string
	Duration       float64
	CaloriesBurned float64
}

func (r ExerciseRecord) Valid() bool {
	return !r.Date.IsZero() && strings.TrimSpace(r.Type) != "" && r.Duration > 0
}

type HealthRecord struct {
	Date          time.Time
	Weight        float64
	Height        float64
	BloodPressure string
	HeartRate     float64
	SleepHours    float64
}

func (r HealthRecord) Valid() bool {
	if r.Date.IsZero() {
		return false
	}

	return r.Weight > 0 || r.Height > 0 || strings.TrimSpace(r.BloodPressure) != "" || r.HeartRate > 0 || r.SleepHours > 0
}

// DataBundle groups recent records per kind. A nil or empty slice means the
// kind is absent.
type DataBundle struct {
	HealthRecords   []HealthRecord
	ExerciseRecords []ExerciseRecord
	FoodRecords     []FoodRecord
}

func (b DataBundle) IsEmpty() bool {
	return len(b.HealthRecords) == 0 && len(b.ExerciseRecords) == 0 && len(b.FoodRecords) == 0
}

// Only keeps the record kinds selected by fields.
func (b DataBundle) Only(fields RecordFields) DataBundle {
	var out DataBundle
	if fields.Health {
		out.HealthRecords = b.HealthRecords
	}
	if fields.Exercise {
		out.ExerciseRecords = b.ExerciseRecords
	}
	if fields.Food {
		out.FoodRecords = b.FoodRecords
	}
	return out
}
