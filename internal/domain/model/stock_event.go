package model

import (
	"time"
)

const (
	StockEventPurchase = "purchase"
	StockEventRestock  = "restock"
)

// StockEvent records a single quantity mutation on a sweet. Events are
// emitted after the mutation commits and persisted asynchronously by the
// stock worker.
type StockEvent struct {
	ID        string    `json:"id"`
	SweetID   string    `json:"sweet_id"`
	Kind      string    `json:"kind"`
	Amount    int       `json:"amount"`
	Remaining int       `json:"remaining"`
	ActorID   string    `json:"actor_id"`
	CreatedAt time.Time `json:"created_at"`
}
