package prompt

import "github.com/bnema/fitness-advisor-cli/internal/domain"

// Field order here is the serialized key order.

type healthRecordWire struct {
	Date          string  `json:"date"`
	Weight        float64 `json:"weight,omitempty"`
	Height        float64 `json:"height,omitempty"`
	BloodPressure string  `json:"bloodPressure,omitempty"`
	HeartRate     float64 `json:"heartRate,omitempty"`
	SleepHours    float64 `json:"sleepHours,omitempty"`
}

type exerciseRecordWire struct {
	Date           string  `json:"date"`
	Type           string  `json:"type"`
	Duration       float64 `json:"duration"`
	CaloriesBurned float64 `json:"caloriesBurned"`
}

type foodRecordWire struct {
	Date     string  `json:"date"`
	Name     string  `json:"name"`
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
}

func healthWire(records []domain.HealthRecord) []healthRecordWire {
	out := make([]healthRecordWire, 0, len(records))
	for _, r := range records {
		out = append(out, healthRecordWire{
			Date:          r.Date.Format(dateLayout),
			Weight:        r.Weight,
			Height:        r.Height,
			BloodPressure: r.BloodPressure,
			HeartRate:     r.HeartRate,
			SleepHours:    r.SleepHours,
		})
	}
	return out
}

func exerciseWire(records []domain.ExerciseRecord) []exerciseRecordWire {
	out := make([]exerciseRecordWire, 0, len(records))
	for _, r := range records {
		out = append(out, exerciseRecordWire{
			Date:           r.Date.Format(dateLayout),
			Type:           r.Type,
			Duration:       r.Duration,
			CaloriesBurned: r.CaloriesBurned,
		})
	}
	return out
}

func foodWire(records []domain.FoodRecord) []foodRecordWire {
	out := make([]foodRecordWire, 0, len(records))
	for _, r := range records {
		out = append(out, foodRecordWire{
			Date:     r.Date.Format(dateLayout),
			Name:     r.Name,
			Calories: r.Calories,
			Protein:  r.Protein,
			Carbs:    r.Carbs,
			Fat:      r.Fat,
		})
	}
	return out
}
