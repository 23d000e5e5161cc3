package service

import (
	"context"
	"sync"
	"testing"

	"sweetshop/internal/common"
	"sweetshop/internal/domain/model"
	"sweetshop/internal/domain/repository"
	"sweetshop/internal/platform/queue"

	"github.com/stretchr/testify/require"
)

func newTestSweetService(t *testing.T) (*SweetService, *repository.MockSweetRepository, *queue.MemoryQueue) {
	t.Helper()
	sweetRepo := repository.NewMockSweetRepository()
	eventRepo := repository.NewMockStockEventRepository()
	q := queue.NewMemoryQueue(256)
	return NewSweetService(sweetRepo, eventRepo, NewStockEventService(q)), sweetRepo, q
}

func createSweet(t *testing.T, s *SweetService, name, category string, price float64, quantity int) *model.Sweet {
	t.Helper()
	sweet, err := s.Create(context.Background(), CreateSweetRequest{
		Name:     name,
		Category: category,
		Price:    price,
		Quantity: quantity,
	})
	require.NoError(t, err)
	return sweet
}

func TestCreateSweet(t *testing.T) {
	s, _, _ := newTestSweetService(t)

	sweet := createSweet(t, s, "Chocolate Lava", "Cake", 5.99, 10)
	require.NotEmpty(t, sweet.ID)
	require.Equal(t, "chocolate-lava", sweet.Slug)
	require.True(t, sweet.IsVeg) // default
	require.Nil(t, sweet.ImageURL)
	require.False(t, sweet.CreatedAt.IsZero())
	require.False(t, sweet.UpdatedAt.IsZero())

	isVeg := false
	withFlag, err := s.Create(context.Background(), CreateSweetRequest{
		Name:     "Egg Pudding",
		Category: "Pudding",
		Price:    3,
		Quantity: 4,
		IsVeg:    &isVeg,
	})
	require.NoError(t, err)
	require.False(t, withFlag.IsVeg)
}

func TestCreateSweetValidation(t *testing.T) {
	s, _, _ := newTestSweetService(t)
	ctx := context.Background()

	_, err := s.Create(ctx, CreateSweetRequest{Name: "", Price: 1, Quantity: 1})
	require.ErrorIs(t, err, common.ErrValidation)

	_, err = s.Create(ctx, CreateSweetRequest{Name: "Ladoo", Price: -1, Quantity: 1})
	require.ErrorIs(t, err, common.ErrValidation)

	_, err = s.Create(ctx, CreateSweetRequest{Name: "Ladoo", Price: 1, Quantity: -1})
	require.ErrorIs(t, err, common.ErrValidation)
}

func TestSearchSweets(t *testing.T) {
	s, _, _ := newTestSweetService(t)
	ctx := context.Background()

	createSweet(t, s, "Ladoo", "Traditional", 2.5, 10)
	createSweet(t, s, "Chocolate Lava", "Cake", 5.99, 3)
	createSweet(t, s, "Carrot Halwa", "Traditional", 4.0, 7)

	// Case-insensitive substring on category.
	results, err := s.Search(ctx, model.SweetFilter{Category: "trad"})
	require.NoError(t, err)
	require.Len(t, results, 2)

	// Conjunctive filters.
	minPrice := 3.0
	results, err = s.Search(ctx, model.SweetFilter{Category: "trad", MinPrice: &minPrice})
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.Equal(t, "Carrot Halwa", results[0].Name)

	// Inclusive bounds.
	exact := 2.5
	results, err = s.Search(ctx, model.SweetFilter{MinPrice: &exact, MaxPrice: &exact})
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.Equal(t, "Ladoo", results[0].Name)

	// No filters returns everything.
	results, err = s.Search(ctx, model.SweetFilter{})
	require.NoError(t, err)
	require.Len(t, results, 3)

	// An unsatisfiable range matches nothing rather than failing.
	lo, hi := 1.0, 5.0
	results, err = s.Search(ctx, model.SweetFilter{MinPrice: &hi, MaxPrice: &lo})
	require.NoError(t, err)
	require.Empty(t, results)
}

func TestUpdateSweetPatchSemantics(t *testing.T) {
	s, _, _ := newTestSweetService(t)
	ctx := context.Background()

	sweet := createSweet(t, s, "Ladoo", "Traditional", 2.5, 10)

	newPrice := 3.5
	updated, err := s.Update(ctx, sweet.ID, model.SweetPatch{Price: &newPrice})
	require.NoError(t, err)
	require.Equal(t, 3.5, updated.Price)
	// Omitted fields keep their prior values.
	require.Equal(t, "Ladoo", updated.Name)
	require.Equal(t, "Traditional", updated.Category)
	require.Equal(t, 10, updated.Quantity)

	// Renaming refreshes the slug.
	newName := "Motichoor Ladoo"
	updated, err = s.Update(ctx, sweet.ID, model.SweetPatch{Name: &newName})
	require.NoError(t, err)
	require.Equal(t, "motichoor-ladoo", updated.Slug)

	empty := ""
	_, err = s.Update(ctx, sweet.ID, model.SweetPatch{Name: &empty})
	require.ErrorIs(t, err, common.ErrValidation)

	_, err = s.Update(ctx, "missing-id", model.SweetPatch{Price: &newPrice})
	require.ErrorIs(t, err, common.ErrNotFound)
}

func TestPurchase(t *testing.T) {
	s, _, _ := newTestSweetService(t)
	ctx := context.Background()

	sweet := createSweet(t, s, "Ladoo", "Traditional", 2.5, 10)

	updated, err := s.Purchase(ctx, sweet.ID, 3, "user-1")
	require.NoError(t, err)
	require.Equal(t, 7, updated.Quantity)

	// Over-purchase fails and mutates nothing.
	_, err = s.Purchase(ctx, sweet.ID, 100, "user-1")
	require.ErrorIs(t, err, common.ErrInsufficientStock)

	current, err := s.Get(ctx, sweet.ID)
	require.NoError(t, err)
	require.Equal(t, 7, current.Quantity)

	_, err = s.Purchase(ctx, "missing-id", 1, "user-1")
	require.ErrorIs(t, err, common.ErrNotFound)

	_, err = s.Purchase(ctx, sweet.ID, 0, "user-1")
	require.ErrorIs(t, err, common.ErrValidation)

	_, err = s.Purchase(ctx, sweet.ID, -2, "user-1")
	require.ErrorIs(t, err, common.ErrValidation)
}

func TestRestockPurchaseRoundTrip(t *testing.T) {
	s, _, _ := newTestSweetService(t)
	ctx := context.Background()

	sweet := createSweet(t, s, "Ladoo", "Traditional", 2.5, 10)

	restocked, err := s.Restock(ctx, sweet.ID, 5, "admin-1")
	require.NoError(t, err)
	require.Equal(t, 15, restocked.Quantity)

	purchased, err := s.Purchase(ctx, sweet.ID, 5, "user-1")
	require.NoError(t, err)
	require.Equal(t, 10, purchased.Quantity)

	_, err = s.Restock(ctx, sweet.ID, 0, "admin-1")
	require.ErrorIs(t, err, common.ErrValidation)

	_, err = s.Restock(ctx, "missing-id", 5, "admin-1")
	require.ErrorIs(t, err, common.ErrNotFound)
}

func TestDeleteSweet(t *testing.T) {
	s, _, _ := newTestSweetService(t)
	ctx := context.Background()

	sweet := createSweet(t, s, "Ladoo", "Traditional", 2.5, 10)

	require.NoError(t, s.Delete(ctx, sweet.ID))
	require.ErrorIs(t, s.Delete(ctx, sweet.ID), common.ErrNotFound)

	_, err := s.Get(ctx, sweet.ID)
	require.ErrorIs(t, err, common.ErrNotFound)
}

func TestPurchaseEmitsStockEvent(t *testing.T) {
	s, _, q := newTestSweetService(t)
	ctx := context.Background()

	sweet := createSweet(t, s, "Ladoo", "Traditional", 2.5, 10)
	require.Equal(t, 0, q.Len())

	_, err := s.Purchase(ctx, sweet.ID, 3, "user-1")
	require.NoError(t, err)
	require.Equal(t, 1, q.Len())

	_, err = s.Restock(ctx, sweet.ID, 3, "admin-1")
	require.NoError(t, err)
	require.Equal(t, 2, q.Len())

	// Failed purchases emit nothing.
	_, err = s.Purchase(ctx, sweet.ID, 1000, "user-1")
	require.ErrorIs(t, err, common.ErrInsufficientStock)
	require.Equal(t, 2, q.Len())
}

// TestConcurrentPurchases stresses the quantity invariant: concurrent
// purchases totaling more than the available stock succeed at most once per
// unit of stock and the final quantity is never negative.
func TestConcurrentPurchases(t *testing.T) {
	s, _, _ := newTestSweetService(t)
	ctx := context.Background()

	const stock = 50
	const buyers = 120

	sweet := createSweet(t, s, "Ladoo", "Traditional", 2.5, stock)

	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded := 0

	for i := 0; i < buyers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.Purchase(ctx, sweet.ID, 1, "user-1"); err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	require.Equal(t, stock, succeeded)

	final, err := s.Get(ctx, sweet.ID)
	require.NoError(t, err)
	require.Equal(t, 0, final.Quantity)
}

func TestHistory(t *testing.T) {
	sweetRepo := repository.NewMockSweetRepository()
	eventRepo := repository.NewMockStockEventRepository()
	s := NewSweetService(sweetRepo, eventRepo, nil)
	ctx := context.Background()

	sweet := createSweet(t, s, "Ladoo", "Traditional", 2.5, 10)

	require.NoError(t, eventRepo.Insert(ctx, &model.StockEvent{
		ID: "ev-1", SweetID: sweet.ID, Kind: model.StockEventPurchase, Amount: 3, Remaining: 7, ActorID: "user-1",
	}))

	events, err := s.History(ctx, sweet.ID)
	require.NoError(t, err)
	require.Len(t, events, 1)
	require.Equal(t, model.StockEventPurchase, events[0].Kind)

	_, err = s.History(ctx, "missing-id")
	require.ErrorIs(t, err, common.ErrNotFound)
}
