package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bnema/fitness-advisor-cli/internal/domain"
	"github.com/bnema/fitness-advisor-cli/internal/ports"
	"github.com/bnema/fitness-advisor-cli/internal/prompt"
	"go.uber.org/zap"
)

const defaultRecordLimit = domain.MaxRecordsPerCategory

type AdvisorOptions struct {
	RequestTimeout time.Duration
	RecordLimit    int
	Logger         *zap.Logger
}

type AdvisorService struct {
	selector ports.BackendSelector
	records  ports.RecordRepository
	timeout  time.Duration
	limit    int
	logger   *zap.Logger
}

func NewAdvisorService(selector ports.BackendSelector, records ports.RecordRepository, opts AdvisorOptions) *AdvisorService {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	limit := opts.RecordLimit
	if limit <= 0 || limit > domain.MaxRecordsPerCategory {
		limit = defaultRecordLimit
	}

	return &AdvisorService{
		selector: selector,
		records:  records,
		timeout:  opts.RequestTimeout,
		limit:    limit,
		logger:   logger,
	}
}

func (s *AdvisorService) ChatReply(ctx context.Context, message string) (domain.GenerationResult, error) {
	if strings.TrimSpace(message) == "" {
		return domain.GenerationResult{}, domain.ErrEmptyMessage
	}

	return s.generate(ctx, "", prompt.Chat(message))
}

func (s *AdvisorService) Recommendations(ctx context.Context, bundle domain.DataBundle, category domain.Category) (domain.GenerationResult, error) {
	return s.generate(ctx, category, prompt.Build(category, bundle))
}

// RecommendationsFromRecords loads the recent records the category draws on
// and asks for recommendations over them.
func (s *AdvisorService) RecommendationsFromRecords(ctx context.Context, category domain.Category) (domain.GenerationResult, error) {
	bundle, err := s.recentRecords(ctx, category)
	if err != nil {
		return domain.GenerationResult{}, err
	}

	return s.Recommendations(ctx, bundle, category)
}

func (s *AdvisorService) StructuredRecommendations(ctx context.Context, bundle domain.DataBundle, category domain.Category) (domain.RecommendationSet, domain.GenerationResult, error) {
	result, err := s.generate(ctx, category, prompt.BuildStructured(category, bundle))
	if err != nil {
		return domain.RecommendationSet{}, domain.GenerationResult{}, err
	}

	set, parsed := ParseRecommendationSet(result.Text)
	if !parsed {
		s.logger.Warn("reply carried no recommendation json, using defaults",
			zap.String("backend", string(result.Backend)),
			zap.String("category", string(category)),
		)
	}
	return set, result, nil
}

func (s *AdvisorService) StructuredRecommendationsFromRecords(ctx context.Context, category domain.Category) (domain.RecommendationSet, domain.GenerationResult, error) {
	bundle, err := s.recentRecords(ctx, category)
	if err != nil {
		return domain.RecommendationSet{}, domain.GenerationResult{}, err
	}

	return s.StructuredRecommendations(ctx, bundle, category)
}

func (s *AdvisorService) recentRecords(ctx context.Context, category domain.Category) (domain.DataBundle, error) {
	if s.records == nil {
		return domain.DataBundle{}, nil
	}

	bundle, err := s.records.Recent(ctx, category.Fields(), s.limit)
	if err != nil {
		return domain.DataBundle{}, fmt.Errorf("load recent records: %w", err)
	}
	return bundle, nil
}

func (s *AdvisorService) generate(ctx context.Context, category domain.Category, text string) (domain.GenerationResult, error) {
	backend, err := s.selector.Active(ctx)
	if err != nil {
		return domain.GenerationResult{}, normalizeGenerationError(ctx, s.selector.ActiveKind(), category, err)
	}

	kind := backend.Kind()
	started := time.Now()
	result, err := backend.Generate(ctx, domain.GenerationRequest{Prompt: text, Timeout: s.timeout})
	if err != nil {
		err = normalizeGenerationError(ctx, kind, category, err)
		s.logger.Warn("generation failed",
			zap.String("backend", string(kind)),
			zap.String("category", string(category)),
			zap.Error(err),
		)
		return domain.GenerationResult{}, err
	}

	if strings.TrimSpace(result.Text) == "" {
		return domain.GenerationResult{}, &domain.GenerationError{
			Kind:     domain.KindProtocol,
			Backend:  kind,
			Category: category,
			Err:      errors.New("backend returned an empty reply"),
		}
	}
	if result.Backend == "" {
		result.Backend = kind
	}

	s.logger.Debug("generation completed",
		zap.String("backend", string(kind)),
		zap.String("category", string(category)),
		zap.Duration("elapsed", time.Since(started)),
	)
	return result, nil
}

func normalizeGenerationError(ctx context.Context, kind domain.BackendKind, category domain.Category, err error) error {
	var genErr *domain.GenerationError
	if errors.As(err, &genErr) {
		normalized := *genErr
		if normalized.Backend == "" {
			normalized.Backend = kind
		}
		normalized.Category = category
		return &normalized
	}

	errKind := domain.KindTransport
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) || ctx.Err() != nil {
		errKind = domain.KindTimeout
	}
	return &domain.GenerationError{Kind: errKind, Backend: kind, Category: category, Err: err}
}
