// Package prompt turns categories and record bundles into backend-agnostic
// instruction text. Everything here is pure.
package prompt

import (
	"encoding/json"
	"slices"
	"strings"

	"github.com/bnema/fitness-advisor-cli/internal/domain"
)

const AdvisorPreamble = "You are a professional health advisor with expertise in fitness, nutrition, and general wellness. " +
	"Please provide helpful, evidence-based advice in a friendly and professional manner. " +
	"Focus on practical, actionable recommendations that are safe and sustainable."

const noRecordsNote = "No recent records were provided."

const structuredInstruction = `Respond with JSON only, in the form {"exercise": [...], "diet": [...], "health": [...]}, ` +
	"with exactly 5 short recommendations in each list."

const dateLayout = "2006-01-02"

type template struct {
	preamble string
	question string
}

var templates = map[domain.Category]template{
	domain.CategoryDiet: {
		preamble: "Act as a health advisor. Review the user's food records below and give personalized nutrition advice.",
		question: "What should this user change or keep in their diet?",
	},
	domain.CategoryExercise: {
		preamble: "Act as a health advisor. Review the user's exercise records below and give personalized fitness advice.",
		question: "How should this user adjust their training?",
	},
	domain.CategorySleep: {
		preamble: "Act as a health advisor. Review the user's health data below and give advice for improving sleep.",
		question: "What can this user do to sleep better?",
	},
	domain.CategoryGeneral: {
		preamble: "Act as a health advisor. Review the user's combined data below and give comprehensive health advice.",
		question: "What are the most important things this user can do to improve their overall health?",
	},
}

// Build renders the prompt for category from bundle. Records outside the
// category are ignored. When the category has no usable records it falls back
// to the general template over whatever is populated.
func Build(category domain.Category, bundle domain.DataBundle) string {
	if _, ok := templates[category]; !ok {
		category = domain.CategoryGeneral
	}

	selected := sanitize(bundle.Only(category.Fields()))
	if selected.IsEmpty() && category != domain.CategoryGeneral {
		category = domain.CategoryGeneral
		selected = sanitize(bundle)
	}

	tpl := templates[category]
	parts := []string{tpl.preamble}
	parts = append(parts, sections(selected)...)
	if selected.IsEmpty() {
		parts = append(parts, noRecordsNote)
	}
	parts = append(parts, tpl.question)

	return strings.Join(parts, "\n\n")
}

// BuildStructured is Build followed by an instruction to answer with a
// recommendation set in JSON.
func BuildStructured(category domain.Category, bundle domain.DataBundle) string {
	return Build(category, bundle) + "\n\n" + structuredInstruction
}

// Chat is the direct-question path used for free-text messages.
func Chat(message string) string {
	return AdvisorPreamble + "\n\nUser: " + strings.TrimSpace(message)
}

func sections(bundle domain.DataBundle) []string {
	var out []string
	if len(bundle.HealthRecords) > 0 {
		out = append(out, section("Health data", healthWire(bundle.HealthRecords)))
	}
	if len(bundle.ExerciseRecords) > 0 {
		out = append(out, section("Exercise records", exerciseWire(bundle.ExerciseRecords)))
	}
	if len(bundle.FoodRecords) > 0 {
		out = append(out, section("Food records", foodWire(bundle.FoodRecords)))
	}
	return out
}

func section[T any](title string, records []T) string {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return title + ":\n[]"
	}
	return title + ":\n" + string(data)
}

// sanitize drops invalid records, orders each kind newest first and caps it.
func sanitize(bundle domain.DataBundle) domain.DataBundle {
	return domain.DataBundle{
		HealthRecords:   recent(bundle.HealthRecords, domain.HealthRecord.Valid, func(r domain.HealthRecord) int64 { return r.Date.UnixNano() }),
		ExerciseRecords: recent(bundle.ExerciseRecords, domain.ExerciseRecord.Valid, func(r domain.ExerciseRecord) int64 { return r.Date.UnixNano() }),
		FoodRecords:     recent(bundle.FoodRecords, domain.FoodRecord.Valid, func(r domain.FoodRecord) int64 { return r.Date.UnixNano() }),
	}
}

func recent[T any](records []T, valid func(T) bool, stamp func(T) int64) []T {
	if len(records) == 0 {
		return nil
	}

	kept := make([]T, 0, len(records))
	for _, record := range records {
		if valid(record) {
			kept = append(kept, record)
		}
	}
	slices.SortStableFunc(kept, func(a, b T) int {
		sa, sb := stamp(a), stamp(b)
		switch {
		case sa > sb:
			return -1
		case sa < sb:
			return 1
		default:
			return 0
		}
	})
	if len(kept) > domain.MaxRecordsPerCategory {
		kept = kept[:domain.MaxRecordsPerCategory]
	}
	if len(kept) == 0 {
		return nil
	}
	return kept
}
