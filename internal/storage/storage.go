package storage

import (
	"context"

	"arbScope/internal/model"
)

// Sink receives the ranked opportunities of one scan.
type Sink interface {
	PutOpportunities(ctx context.Context, opps []model.ArbitrageOpportunity) error
}
