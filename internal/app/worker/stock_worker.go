package worker

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"sweetshop/internal/domain/model"
	"sweetshop/internal/domain/repository"
	"sweetshop/internal/platform/queue"
)

// StockWorker drains the stock-event queue and persists each event to the
// stock_events table. It also flags sweets that a purchase has drained below
// the low-stock threshold.
type StockWorker struct {
	queue             queue.Queue
	eventRepo         repository.StockEventRepository
	lowStockThreshold int
}

func NewStockWorker(q queue.Queue, eventRepo repository.StockEventRepository, lowStockThreshold int) *StockWorker {
	return &StockWorker{
		queue:             q,
		eventRepo:         eventRepo,
		lowStockThreshold: lowStockThreshold,
	}
}

func (w *StockWorker) Start(ctx context.Context) {
	log.Println("Stock worker started.")
	for {
		select {
		case <-ctx.Done():
			log.Println("Stock worker stopping...")
			return
		default:
			payload, err := w.queue.Pop(ctx)
			if err != nil {
				if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					log.Println("Stock worker stopping...")
					return
				}
				log.Printf("ERROR: Failed to pop from stock event queue: %v", err)
				time.Sleep(5 * time.Second) // Wait before retrying
				continue
			}
			w.processEvent(ctx, payload)
		}
	}
}

func (w *StockWorker) processEvent(ctx context.Context, payload string) {
	var event model.StockEvent
	if err := json.Unmarshal([]byte(payload), &event); err != nil {
		log.Printf("ERROR: Dropping malformed stock event payload: %v", err)
		return
	}

	if err := w.eventRepo.Insert(ctx, &event); err != nil {
		log.Printf("ERROR: Failed to persist stock event %s: %v", event.ID, err)
		return
	}

	if event.Kind == model.StockEventPurchase && event.Remaining < w.lowStockThreshold {
		log.Printf("WARN: Sweet %s is low on stock: %d remaining", event.SweetID, event.Remaining)
	}
}
