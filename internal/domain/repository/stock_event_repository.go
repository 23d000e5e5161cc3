package repository

import (
	"context"
	"database/sql"
	"fmt"

	"sweetshop/internal/domain/model"
)

type StockEventRepository interface {
	Insert(ctx context.Context, event *model.StockEvent) error
	ListBySweetID(ctx context.Context, sweetID string) ([]model.StockEvent, error)
}

type pgStockEventRepository struct {
	db *sql.DB
}

func NewPgStockEventRepository(db *sql.DB) StockEventRepository {
	return &pgStockEventRepository{db: db}
}

func (r *pgStockEventRepository) Insert(ctx context.Context, e *model.StockEvent) error {
	query := `INSERT INTO stock_events (id, sweet_id, kind, amount, remaining, actor_id)
	          VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.db.ExecContext(ctx, query, e.ID, e.SweetID, e.Kind, e.Amount, e.Remaining, e.ActorID)
	if err != nil {
		return fmt.Errorf("pgStockEventRepository.Insert: %w", err)
	}
	return nil
}

func (r *pgStockEventRepository) ListBySweetID(ctx context.Context, sweetID string) ([]model.StockEvent, error) {
	query := `SELECT id, sweet_id, kind, amount, remaining, actor_id, created_at
	          FROM stock_events WHERE sweet_id = $1 ORDER BY created_at ASC`
	rows, err := r.db.QueryContext(ctx, query, sweetID)
	if err != nil {
		return nil, fmt.Errorf("pgStockEventRepository.ListBySweetID query: %w", err)
	}
	defer rows.Close()

	events := []model.StockEvent{}
	for rows.Next() {
		var e model.StockEvent
		if err := rows.Scan(&e.ID, &e.SweetID, &e.Kind, &e.Amount, &e.Remaining, &e.ActorID, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("pgStockEventRepository.ListBySweetID scan: %w", err)
		}
		events = append(events, e)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("pgStockEventRepository.ListBySweetID rows.Err: %w", err)
	}
	return events, nil
}
