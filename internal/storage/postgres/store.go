package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"arbScope/internal/model"
)

// Store journals scan results to Postgres.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		return nil, fmt.Errorf("pg dsn is required")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// PutOpportunities appends one scan's ranked results. Scans are transient,
// so this is insert-only: every row records what one scan saw at one time.
func (s *Store) PutOpportunities(ctx context.Context, opps []model.ArbitrageOpportunity) error {
	if len(opps) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, opp := range opps {
		batch.Queue(`
			INSERT INTO opportunities (
				route_id, tokens, dexes, input_amount, expected_output,
				gas_estimate, profit_usd, confidence_score, observed_at, created_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, to_timestamp($9), now())
		`,
			opp.RouteID,
			opp.Tokens,
			opp.Dexes,
			opp.InputAmount,
			opp.ExpectedOutput,
			int64(opp.GasEstimate),
			opp.ProfitUSD,
			opp.ConfidenceScore,
			int64(opp.Timestamp),
		)
	}

	br := s.pool.SendBatch(ctx, batch)
	defer br.Close()

	for range opps {
		if _, err := br.Exec(); err != nil {
			return err
		}
	}
	return nil
}
