package domain

import (
	"fmt"
	"strings"
)

type Category string

const (
	CategoryDiet     Category = "diet"
	CategoryExercise Category = "exercise"
	CategorySleep    Category = "sleep"
	CategoryGeneral  Category = "general"
)

func Categories() []Category {
	return []Category{CategoryDiet, CategoryExercise, CategorySleep, CategoryGeneral}
}

func ParseCategory(raw string) (Category, error) {
	normalized := strings.ToLower(strings.TrimSpace(raw))
	if normalized == "" {
		return CategoryGeneral, nil
	}

	for _, category := range Categories() {
		if string(category) == normalized {
			return category, nil
		}
	}

	return "", fmt.Errorf("%w: %q", ErrUnknownCategory, raw)
}

// Fields reports which record kinds the category draws on.
func (c Category) Fields() RecordFields {
	switch c {
	case CategoryDiet:
		return RecordFields{Food: true}
	case CategoryExercise:
		return RecordFields{Exercise: true}
	case CategorySleep:
		return RecordFields{Health: true}
	default:
		return RecordFields{Health: true, Exercise: true, Food: true}
	}
}

type RecordFields struct {
	Health   bool
	Exercise bool
	Food     bool
}
