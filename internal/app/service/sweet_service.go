package service

import (
	"context"
	"fmt"
	"log"

	"sweetshop/internal/common"
	"sweetshop/internal/domain/model"
	"sweetshop/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

type SweetService struct {
	sweetRepo      repository.SweetRepository
	stockEventRepo repository.StockEventRepository
	stockEvents    *StockEventService
}

func NewSweetService(
	sweetRepo repository.SweetRepository,
	stockEventRepo repository.StockEventRepository,
	stockEvents *StockEventService,
) *SweetService {
	return &SweetService{
		sweetRepo:      sweetRepo,
		stockEventRepo: stockEventRepo,
		stockEvents:    stockEvents,
	}
}

type CreateSweetRequest struct {
	Name     string  `json:"name"`
	Category string  `json:"category"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
	ImageURL *string `json:"image_url"`
	IsVeg    *bool   `json:"is_veg"`
}

func (s *SweetService) Create(ctx context.Context, req CreateSweetRequest) (*model.Sweet, error) {
	if req.Name == "" {
		return nil, fmt.Errorf("name is required: %w", common.ErrValidation)
	}
	if req.Price < 0 {
		return nil, fmt.Errorf("price must not be negative: %w", common.ErrValidation)
	}
	if req.Quantity < 0 {
		return nil, fmt.Errorf("quantity must not be negative: %w", common.ErrValidation)
	}

	isVeg := true
	if req.IsVeg != nil {
		isVeg = *req.IsVeg
	}

	sweet := &model.Sweet{
		ID:       uuid.NewString(),
		Name:     req.Name,
		Slug:     slug.Make(req.Name),
		Category: req.Category,
		Price:    req.Price,
		Quantity: req.Quantity,
		ImageURL: req.ImageURL,
		IsVeg:    isVeg,
	}

	if err := s.sweetRepo.Create(ctx, sweet); err != nil {
		return nil, fmt.Errorf("failed to create sweet: %w", err)
	}
	return sweet, nil
}

func (s *SweetService) List(ctx context.Context) ([]model.Sweet, error) {
	return s.sweetRepo.List(ctx)
}

func (s *SweetService) Get(ctx context.Context, id string) (*model.Sweet, error) {
	return s.sweetRepo.FindByID(ctx, id)
}

// Search applies the filter as-is. An unsatisfiable price range (min above
// max) simply matches nothing.
func (s *SweetService) Search(ctx context.Context, filter model.SweetFilter) ([]model.Sweet, error) {
	return s.sweetRepo.Search(ctx, filter)
}

func (s *SweetService) Update(ctx context.Context, id string, patch model.SweetPatch) (*model.Sweet, error) {
	if patch.Name != nil {
		if *patch.Name == "" {
			return nil, fmt.Errorf("name must not be empty: %w", common.ErrValidation)
		}
		newSlug := slug.Make(*patch.Name)
		patch.Slug = &newSlug
	}
	if patch.Price != nil && *patch.Price < 0 {
		return nil, fmt.Errorf("price must not be negative: %w", common.ErrValidation)
	}
	if patch.Quantity != nil && *patch.Quantity < 0 {
		return nil, fmt.Errorf("quantity must not be negative: %w", common.ErrValidation)
	}
	return s.sweetRepo.Update(ctx, id, patch)
}

// Purchase decrements stock by amount for the acting user. The decrement is
// an atomic conditional update, so concurrent purchases either serialize or
// fail with insufficient stock; quantity never goes negative.
func (s *SweetService) Purchase(ctx context.Context, id string, amount int, actorID string) (*model.Sweet, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("amount must be a positive integer: %w", common.ErrValidation)
	}

	sweet, err := s.sweetRepo.DecrementQuantity(ctx, id, amount)
	if err != nil {
		return nil, err
	}

	s.recordEvent(ctx, model.StockEventPurchase, sweet, amount, actorID)
	return sweet, nil
}

func (s *SweetService) Restock(ctx context.Context, id string, amount int, actorID string) (*model.Sweet, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("amount must be a positive integer: %w", common.ErrValidation)
	}

	sweet, err := s.sweetRepo.IncrementQuantity(ctx, id, amount)
	if err != nil {
		return nil, err
	}

	s.recordEvent(ctx, model.StockEventRestock, sweet, amount, actorID)
	return sweet, nil
}

func (s *SweetService) Delete(ctx context.Context, id string) error {
	return s.sweetRepo.Delete(ctx, id)
}

// History returns the recorded stock events for a sweet, verifying it exists
// first so unknown ids surface as 404 rather than an empty list.
func (s *SweetService) History(ctx context.Context, id string) ([]model.StockEvent, error) {
	if _, err := s.sweetRepo.FindByID(ctx, id); err != nil {
		return nil, err
	}
	return s.stockEventRepo.ListBySweetID(ctx, id)
}

// recordEvent is best-effort: a queue outage must not fail a mutation that
// already committed.
func (s *SweetService) recordEvent(ctx context.Context, kind string, sweet *model.Sweet, amount int, actorID string) {
	if s.stockEvents == nil {
		return
	}
	var err error
	if kind == model.StockEventPurchase {
		err = s.stockEvents.EnqueuePurchase(ctx, sweet, amount, actorID)
	} else {
		err = s.stockEvents.EnqueueRestock(ctx, sweet, amount, actorID)
	}
	if err != nil {
		log.Printf("ERROR: Failed to enqueue %s event for sweet %s: %v", kind, sweet.ID, err)
	}
}
