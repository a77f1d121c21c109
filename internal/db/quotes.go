package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/mateo/quotient/internal/types"
)

// SaveQuote stores the latest generated quote for a project. Regenerating a
// quote replaces the previous one; history is not kept.
func (db *DB) SaveQuote(ctx context.Context, projectID uuid.UUID, quote *types.CostQuote) error {
	quoteJSON, err := json.Marshal(quote)
	if err != nil {
		return fmt.Errorf("failed to marshal quote: %w", err)
	}

	_, err = db.pool.Exec(ctx,
		`INSERT INTO quotes (project_id, quote, total_cost)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (project_id) DO UPDATE SET quote = $2, total_cost = $3, created_at = NOW()`,
		projectID, quoteJSON, quote.TotalCost,
	)
	if err != nil {
		return fmt.Errorf("failed to save quote: %w", err)
	}
	return nil
}

// GetQuote retrieves the stored quote for a project, or (nil, nil)
func (db *DB) GetQuote(ctx context.Context, projectID uuid.UUID) (*types.CostQuote, error) {
	var quoteJSON []byte
	err := db.pool.QueryRow(ctx,
		`SELECT quote FROM quotes WHERE project_id = $1`,
		projectID,
	).Scan(&quoteJSON)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get quote: %w", err)
	}

	var quote types.CostQuote
	if err := json.Unmarshal(quoteJSON, &quote); err != nil {
		return nil, fmt.Errorf("failed to decode quote: %w", err)
	}
	return &quote, nil
}
