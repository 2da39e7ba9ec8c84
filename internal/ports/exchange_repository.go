package ports

import (
	"context"

	"github.com/bnema/fitness-advisor-cli/internal/domain"
)

type ExchangeRepository interface {
	Append(ctx context.Context, exchange domain.Exchange) (domain.Exchange, error)
	Latest(ctx context.Context, limit int) ([]domain.Exchange, error)
}
