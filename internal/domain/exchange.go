package domain

import "time"

type ExchangeAction string

const (
	ExchangeChat           ExchangeAction = "chat"
	ExchangeRecommendation ExchangeAction = "recommendation"
)

// Exchange is one completed question and reply.
type Exchange struct {
	ID        int64
	CreatedAt time.Time
	Backend   BackendKind
	Action    ExchangeAction
	Category  Category
	Input     string
	Reply     string
}
