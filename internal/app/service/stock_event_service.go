package service

import (
	"context"
	"encoding/json"
	"fmt"

	"sweetshop/internal/domain/model"
	"sweetshop/internal/platform/queue"

	"github.com/google/uuid"
)

// StockEventService publishes quantity-mutation events onto the stock queue.
// The stock worker drains the queue and persists the events.
type StockEventService struct {
	queue queue.Queue
}

func NewStockEventService(q queue.Queue) *StockEventService {
	return &StockEventService{queue: q}
}

func (s *StockEventService) EnqueuePurchase(ctx context.Context, sweet *model.Sweet, amount int, actorID string) error {
	return s.enqueue(ctx, model.StockEventPurchase, sweet, amount, actorID)
}

func (s *StockEventService) EnqueueRestock(ctx context.Context, sweet *model.Sweet, amount int, actorID string) error {
	return s.enqueue(ctx, model.StockEventRestock, sweet, amount, actorID)
}

func (s *StockEventService) enqueue(ctx context.Context, kind string, sweet *model.Sweet, amount int, actorID string) error {
	event := model.StockEvent{
		ID:        uuid.NewString(),
		SweetID:   sweet.ID,
		Kind:      kind,
		Amount:    amount,
		Remaining: sweet.Quantity,
		ActorID:   actorID,
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal stock event: %w", err)
	}
	if err := s.queue.Push(ctx, string(payload)); err != nil {
		return fmt.Errorf("failed to push stock event to queue: %w", err)
	}
	return nil
}
