package application

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/bnema/fitness-advisor-cli/internal/domain"
	"github.com/bnema/fitness-advisor-cli/internal/ports"
	"github.com/bnema/fitness-advisor-cli/internal/ports/mocks"
	"github.com/bnema/fitness-advisor-cli/internal/prompt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func mockAnyContext() interface{} {
	return mock.Anything
}

func newAdvisorWithBackend(t *testing.T, records ports.RecordRepository) (*AdvisorService, *mocks.MockBackend) {
	t.Helper()

	selector := mocks.NewMockBackendSelector(t)
	backend := mocks.NewMockBackend(t)
	selector.EXPECT().Active(mockAnyContext()).Return(backend, nil)
	backend.EXPECT().Kind().Return(domain.BackendOllama)

	return NewAdvisorService(selector, records, AdvisorOptions{RequestTimeout: 5 * time.Second}), backend
}

func TestChatReplyRejectsEmptyMessage(t *testing.T) {
	t.Parallel()

	service := NewAdvisorService(mocks.NewMockBackendSelector(t), nil, AdvisorOptions{})

	_, err := service.ChatReply(context.Background(), "   ")
	require.ErrorIs(t, err, domain.ErrEmptyMessage)
}

func TestChatReplyWrapsMessageInAdvisorPrompt(t *testing.T) {
	t.Parallel()

	service, backend := newAdvisorWithBackend(t, nil)
	backend.EXPECT().
		Generate(mockAnyContext(), domain.GenerationRequest{Prompt: prompt.Chat("How much water?"), Timeout: 5 * time.Second}).
		Return(domain.GenerationResult{Text: "About two litres.", Backend: domain.BackendOllama}, nil)

	result, err := service.ChatReply(context.Background(), "How much water?")
	require.NoError(t, err)
	assert.Equal(t, "About two litres.", result.Text)
	assert.Equal(t, domain.BackendOllama, result.Backend)
}

func TestRecommendationsReturnsTextUnmodified(t *testing.T) {
	t.Parallel()

	bundle := domain.DataBundle{FoodRecords: []domain.FoodRecord{
		{Date: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), Name: "Oatmeal", Calories: 300},
	}}
	reply := "  1. Eat more greens.\n2. Less sugar.  "

	service, backend := newAdvisorWithBackend(t, nil)
	backend.EXPECT().
		Generate(mockAnyContext(), domain.GenerationRequest{Prompt: prompt.Build(domain.CategoryDiet, bundle), Timeout: 5 * time.Second}).
		Return(domain.GenerationResult{Text: reply}, nil)

	result, err := service.Recommendations(context.Background(), bundle, domain.CategoryDiet)
	require.NoError(t, err)
	assert.Equal(t, reply, result.Text)
	assert.Equal(t, domain.BackendOllama, result.Backend)
}

func TestRecommendationsFromRecordsLoadsCategoryFields(t *testing.T) {
	t.Parallel()

	bundle := domain.DataBundle{ExerciseRecords: []domain.ExerciseRecord{
		{Date: time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC), Type: "Running", Duration: 30},
	}}

	records := mocks.NewMockRecordRepository(t)
	records.EXPECT().Recent(mockAnyContext(), domain.RecordFields{Exercise: true}, domain.MaxRecordsPerCategory).Return(bundle, nil)

	service, backend := newAdvisorWithBackend(t, records)
	backend.EXPECT().
		Generate(mockAnyContext(), domain.GenerationRequest{Prompt: prompt.Build(domain.CategoryExercise, bundle), Timeout: 5 * time.Second}).
		Return(domain.GenerationResult{Text: "Add intervals."}, nil)

	result, err := service.RecommendationsFromRecords(context.Background(), domain.CategoryExercise)
	require.NoError(t, err)
	assert.Equal(t, "Add intervals.", result.Text)
}

func TestRecommendationsFromRecordsWrapsRepositoryError(t *testing.T) {
	t.Parallel()

	records := mocks.NewMockRecordRepository(t)
	records.EXPECT().Recent(mockAnyContext(), domain.RecordFields{Food: true}, domain.MaxRecordsPerCategory).Return(domain.DataBundle{}, errors.New("disk gone"))

	service := NewAdvisorService(mocks.NewMockBackendSelector(t), records, AdvisorOptions{})

	_, err := service.RecommendationsFromRecords(context.Background(), domain.CategoryDiet)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load recent records: disk gone")
}

func TestGenerationErrorsAreNormalized(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      error
		wantKind error
	}{
		{name: "typed error keeps kind", err: domain.NewGenerationError(domain.KindBackendCrashed, domain.BackendLocal, errors.New("exit 1")), wantKind: domain.ErrBackendCrashed},
		{name: "unknown error is transport", err: errors.New("boom"), wantKind: domain.ErrTransport},
		{name: "deadline is timeout", err: context.DeadlineExceeded, wantKind: domain.ErrTimeout},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			service, backend := newAdvisorWithBackend(t, nil)
			backend.EXPECT().Generate(mockAnyContext(), mock.Anything).Return(domain.GenerationResult{}, tt.err)

			_, err := service.Recommendations(context.Background(), domain.DataBundle{}, domain.CategorySleep)
			require.ErrorIs(t, err, tt.wantKind)

			var genErr *domain.GenerationError
			require.ErrorAs(t, err, &genErr)
			assert.Equal(t, domain.CategorySleep, genErr.Category)
			assert.NotEmpty(t, genErr.Backend)
		})
	}
}

func TestEmptyReplyIsProtocolError(t *testing.T) {
	t.Parallel()

	service, backend := newAdvisorWithBackend(t, nil)
	backend.EXPECT().Generate(mockAnyContext(), mock.Anything).Return(domain.GenerationResult{Text: " \n "}, nil)

	_, err := service.ChatReply(context.Background(), "hello")
	require.ErrorIs(t, err, domain.ErrProtocol)
}

func TestSelectorErrorIsTransportError(t *testing.T) {
	t.Parallel()

	selector := mocks.NewMockBackendSelector(t)
	selector.EXPECT().Active(mockAnyContext()).Return(nil, fmt.Errorf("create gemini backend: %w", errors.New("api key is required")))
	selector.EXPECT().ActiveKind().Return(domain.BackendGemini)

	service := NewAdvisorService(selector, nil, AdvisorOptions{})
	_, err := service.Recommendations(context.Background(), domain.DataBundle{}, domain.CategoryDiet)
	require.ErrorIs(t, err, domain.ErrTransport)

	var genErr *domain.GenerationError
	require.ErrorAs(t, err, &genErr)
	assert.Equal(t, domain.BackendGemini, genErr.Backend)
	assert.Equal(t, domain.CategoryDiet, genErr.Category)
	assert.Contains(t, err.Error(), "api key is required")
}

func TestSelectorErrorKeepsCause(t *testing.T) {
	t.Parallel()

	selector := mocks.NewMockBackendSelector(t)
	selector.EXPECT().Active(mockAnyContext()).Return(nil, domain.ErrBackendNotRegistered)
	selector.EXPECT().ActiveKind().Return(domain.BackendKind("bard"))

	service := NewAdvisorService(selector, nil, AdvisorOptions{})
	_, err := service.ChatReply(context.Background(), "hello")
	require.ErrorIs(t, err, domain.ErrBackendNotRegistered)
	assert.ErrorIs(t, err, domain.ErrTransport)
}

func TestStructuredRecommendationsParsesReply(t *testing.T) {
	t.Parallel()

	service, backend := newAdvisorWithBackend(t, nil)
	backend.EXPECT().Generate(mockAnyContext(), mock.Anything).
		Return(domain.GenerationResult{Text: "```json\n{\"exercise\":[\"walk\"],\"dieet\":[\"fibre\"],\"health\":[\"sleep\"]}\n```"}, nil)

	set, result, err := service.StructuredRecommendations(context.Background(), domain.DataBundle{}, domain.CategoryGeneral)
	require.NoError(t, err)
	assert.Equal(t, domain.BackendOllama, result.Backend)
	assert.Equal(t, "walk", set.Exercise[0])
	assert.Equal(t, "fibre", set.Diet[0])
	assert.Len(t, set.Health, domain.RecommendationsPerSection)
}
