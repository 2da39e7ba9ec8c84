package ports

import (
	"context"

	"github.com/bnema/fitness-advisor-cli/internal/domain"
)

type RecordRepository interface {
	Recent(ctx context.Context, fields domain.RecordFields, limit int) (domain.DataBundle, error)
	Append(ctx context.Context, bundle domain.DataBundle) error
}
