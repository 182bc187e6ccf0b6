// Package history persists market snapshots so quote movements can be
// audited after the fact.
package history

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/battvalue/valuator/internal/domain"
)

// ErrNotFound indicates that no stored quote matched the query.
var ErrNotFound = errors.New("quote not found")

// Quote is one persisted market snapshot.
type Quote struct {
	ID             int             `json:"id"`
	Currency       string          `json:"currency"`
	PriceSource    string          `json:"priceSource"`
	FXRate         float64         `json:"fxRate"`
	FXFallbackUsed bool            `json:"fxFallbackUsed"`
	CapturedAt     time.Time       `json:"capturedAt"`
	Data           json.RawMessage `json:"data"`
	CreatedAt      time.Time       `json:"createdAt"`
}

// Repository defines persistent storage for quote history.
type Repository interface {
	Record(ctx context.Context, snapshot domain.MarketSnapshot) error
	Latest(ctx context.Context, currency string) (*Quote, error)
	List(ctx context.Context, currency string, limit int) ([]Quote, error)
}

// PgRepository implements Repository with PostgreSQL.
type PgRepository struct {
	pool *pgxpool.Pool
}

// NewPgRepository creates a new PostgreSQL quote history repository.
func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

// Record stores a snapshot. Re-recording the same currency and capture time
// overwrites the earlier row, so a cache-served snapshot is kept once.
func (r *PgRepository) Record(ctx context.Context, snapshot domain.MarketSnapshot) error {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}

	_, err = r.pool.Exec(ctx,
		`INSERT INTO market_quotes (currency, price_source, fx_rate, fx_fallback_used, captured_at, data)
		 VALUES ($1, $2, $3, $4, $5, $6::jsonb)
		 ON CONFLICT (currency, captured_at)
		 DO UPDATE SET price_source = $2, fx_rate = $3, fx_fallback_used = $4, data = $6::jsonb`,
		snapshot.Currency, snapshot.PriceSource, snapshot.FXRate,
		snapshot.FXFallbackUsed, snapshot.CapturedAt, data)
	if err != nil {
		return fmt.Errorf("recording quote: %w", err)
	}
	return nil
}

func (r *PgRepository) Latest(ctx context.Context, currency string) (*Quote, error) {
	var q Quote
	err := r.pool.QueryRow(ctx,
		`SELECT id, currency, price_source, fx_rate, fx_fallback_used, captured_at, data, created_at
		 FROM market_quotes
		 WHERE currency = $1
		 ORDER BY captured_at DESC
		 LIMIT 1`, currency).
		Scan(&q.ID, &q.Currency, &q.PriceSource, &q.FXRate, &q.FXFallbackUsed, &q.CapturedAt, &q.Data, &q.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("getting latest quote: %w", err)
	}
	return &q, nil
}

func (r *PgRepository) List(ctx context.Context, currency string, limit int) ([]Quote, error) {
	if limit <= 0 {
		limit = 30
	}

	rows, err := r.pool.Query(ctx,
		`SELECT id, currency, price_source, fx_rate, fx_fallback_used, captured_at, data, created_at
		 FROM market_quotes
		 WHERE currency = $1
		 ORDER BY captured_at DESC
		 LIMIT $2`, currency, limit)
	if err != nil {
		return nil, fmt.Errorf("listing quotes: %w", err)
	}
	defer rows.Close()

	var quotes []Quote
	for rows.Next() {
		var q Quote
		if err := rows.Scan(&q.ID, &q.Currency, &q.PriceSource, &q.FXRate, &q.FXFallbackUsed, &q.CapturedAt, &q.Data, &q.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning quote: %w", err)
		}
		quotes = append(quotes, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating quotes: %w", err)
	}
	return quotes, nil
}
