package domain

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCategory(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		raw     string
		want    Category
		wantErr bool
	}{
		{name: "empty defaults to general", raw: "", want: CategoryGeneral},
		{name: "diet", raw: "diet", want: CategoryDiet},
		{name: "mixed case and spaces", raw: "  Exercise ", want: CategoryExercise},
		{name: "sleep", raw: "sleep", want: CategorySleep},
		{name: "unknown", raw: "yoga", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := ParseCategory(tt.raw)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrUnknownCategory)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCategoryFields(t *testing.T) {
	t.Parallel()

	assert.Equal(t, RecordFields{Food: true}, CategoryDiet.Fields())
	assert.Equal(t, RecordFields{Exercise: true}, CategoryExercise.Fields())
	assert.Equal(t, RecordFields{Health: true}, CategorySleep.Fields())
	assert.Equal(t, RecordFields{Health: true, Exercise: true, Food: true}, CategoryGeneral.Fields())
}

func TestRecordValidity(t *testing.T) {
	t.Parallel()

	day := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	assert.True(t, FoodRecord{Date: day, Name: "Oats", Calories: 300}.Valid())
	assert.False(t, FoodRecord{Date: day, Name: " ", Calories: 300}.Valid())
	assert.False(t, FoodRecord{Name: "Oats"}.Valid())
	assert.False(t, FoodRecord{Date: day, Name: "Oats", Calories: -1}.Valid())

	assert.True(t, ExerciseRecord{Date: day, Type: "run", Duration: 30}.Valid())
	assert.False(t, ExerciseRecord{Date: day, Type: "run"}.Valid())

	assert.True(t, HealthRecord{Date: day, SleepHours: 7}.Valid())
	assert.False(t, HealthRecord{Date: day}.Valid())
}

func TestDataBundleOnly(t *testing.T) {
	t.Parallel()

	day := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	bundle := DataBundle{
		HealthRecords:   []HealthRecord{{Date: day, Weight: 70}},
		ExerciseRecords: []ExerciseRecord{{Date: day, Type: "swim", Duration: 20}},
		FoodRecords:     []FoodRecord{{Date: day, Name: "Rice", Calories: 200}},
	}

	diet := bundle.Only(CategoryDiet.Fields())
	assert.Nil(t, diet.HealthRecords)
	assert.Nil(t, diet.ExerciseRecords)
	assert.Len(t, diet.FoodRecords, 1)

	assert.True(t, DataBundle{}.IsEmpty())
	assert.False(t, bundle.IsEmpty())
}

func TestGenerationErrorKindMatching(t *testing.T) {
	t.Parallel()

	cause := errors.New("connection reset")
	err := fmt.Errorf("ask advisor: %w", NewGenerationError(KindTransport, BackendOllama, cause))

	assert.ErrorIs(t, err, ErrTransport)
	assert.NotErrorIs(t, err, ErrTimeout)
	assert.ErrorIs(t, err, cause)

	kind, ok := KindOf(err)
	require.True(t, ok)
	assert.Equal(t, KindTransport, kind)

	_, ok = KindOf(cause)
	assert.False(t, ok)
}

func TestGenerationErrorMessage(t *testing.T) {
	t.Parallel()

	err := &GenerationError{Kind: KindTimeout, Backend: BackendLocal, Category: CategoryDiet, Err: context.DeadlineExceeded}
	assert.Equal(t, "local backend: timeout (category diet): context deadline exceeded", err.Error())
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestGenerationRequestWithDeadline(t *testing.T) {
	t.Parallel()

	ctx, cancel := GenerationRequest{Timeout: time.Minute}.WithDeadline(context.Background(), time.Hour)
	defer cancel()
	deadline, ok := ctx.Deadline()
	require.True(t, ok)
	assert.WithinDuration(t, time.Now().Add(time.Minute), deadline, 5*time.Second)

	ctx, cancel = GenerationRequest{}.WithDeadline(context.Background(), 0)
	defer cancel()
	_, ok = ctx.Deadline()
	assert.False(t, ok)
}

func TestRecommendationSetNormalize(t *testing.T) {
	t.Parallel()

	set := RecommendationSet{
		Exercise: []string{"a", "", "b"},
		Diet:     []string{"1", "2", "3", "4", "5", "6"},
	}.Normalize()

	assert.Equal(t, []string{"a", "b", NoRecommendation, NoRecommendation, NoRecommendation}, set.Exercise)
	assert.Equal(t, []string{"1", "2", "3", "4", "5"}, set.Diet)
	assert.Len(t, set.Health, RecommendationsPerSection)

	defaults := DefaultRecommendations()
	assert.Equal(t, defaults, defaults.Normalize())
}

func TestParseBackendKind(t *testing.T) {
	t.Parallel()

	kind, err := ParseBackendKind(" Ollama")
	require.NoError(t, err)
	assert.Equal(t, BackendOllama, kind)

	_, err = ParseBackendKind("claude")
	assert.ErrorIs(t, err, ErrBackendNotRegistered)
}
