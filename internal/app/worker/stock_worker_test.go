package worker

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"sweetshop/internal/domain/model"
	"sweetshop/internal/domain/repository"
	"sweetshop/internal/platform/queue"

	"github.com/stretchr/testify/require"
)

func TestStockWorkerPersistsEvents(t *testing.T) {
	q := queue.NewMemoryQueue(16)
	eventRepo := repository.NewMockStockEventRepository()
	w := NewStockWorker(q, eventRepo, 5)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Start(ctx)

	events := []model.StockEvent{
		{ID: "ev-1", SweetID: "sweet-1", Kind: model.StockEventPurchase, Amount: 3, Remaining: 7, ActorID: "user-1"},
		{ID: "ev-2", SweetID: "sweet-1", Kind: model.StockEventRestock, Amount: 10, Remaining: 17, ActorID: "admin-1"},
		{ID: "ev-3", SweetID: "sweet-2", Kind: model.StockEventPurchase, Amount: 1, Remaining: 2, ActorID: "user-2"},
	}
	for _, e := range events {
		payload, err := json.Marshal(e)
		require.NoError(t, err)
		require.NoError(t, q.Push(ctx, string(payload)))
	}

	require.Eventually(t, func() bool {
		return eventRepo.Count() == len(events)
	}, 2*time.Second, 10*time.Millisecond)

	stored, err := eventRepo.ListBySweetID(ctx, "sweet-1")
	require.NoError(t, err)
	require.Len(t, stored, 2)
	require.Equal(t, "ev-1", stored[0].ID)
	require.Equal(t, model.StockEventRestock, stored[1].Kind)
}

func TestStockWorkerSkipsMalformedPayload(t *testing.T) {
	q := queue.NewMemoryQueue(16)
	eventRepo := repository.NewMockStockEventRepository()
	w := NewStockWorker(q, eventRepo, 5)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Start(ctx)

	require.NoError(t, q.Push(ctx, "{not json"))

	good, err := json.Marshal(model.StockEvent{
		ID: "ev-1", SweetID: "sweet-1", Kind: model.StockEventPurchase, Amount: 1, Remaining: 0, ActorID: "user-1",
	})
	require.NoError(t, err)
	require.NoError(t, q.Push(ctx, string(good)))

	require.Eventually(t, func() bool {
		return eventRepo.Count() == 1
	}, 2*time.Second, 10*time.Millisecond)
}

func TestStockWorkerStopsOnCancel(t *testing.T) {
	q := queue.NewMemoryQueue(1)
	eventRepo := repository.NewMockStockEventRepository()
	w := NewStockWorker(q, eventRepo, 5)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Start(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not stop after context cancellation")
	}
}
