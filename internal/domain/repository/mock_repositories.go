package repository

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"sweetshop/internal/common"
	"sweetshop/internal/domain/model"
)

// MockUserRepository is an in-memory UserRepository for testing purposes.
// It mirrors the store-level guarantees of the Postgres implementation:
// username uniqueness and exact-match lookups.
type MockUserRepository struct {
	mu    sync.Mutex
	Users map[string]*model.User // keyed by username
}

func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{Users: make(map[string]*model.User)}
}

func (m *MockUserRepository) Create(ctx context.Context, user *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.Users[user.Username]; exists {
		return fmt.Errorf("username already taken: %w", common.ErrConflict)
	}
	// Timestamps are written back to the caller's struct, like the SQL
	// implementation's RETURNING clause.
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	u := *user
	m.Users[user.Username] = &u
	return nil
}

func (m *MockUserRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.Users[username]
	if !ok {
		return nil, common.ErrNotFound
	}
	u := *user
	return &u, nil
}

func (m *MockUserRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, user := range m.Users {
		if user.ID == id {
			u := *user
			return &u, nil
		}
	}
	return nil, common.ErrNotFound
}

func (m *MockUserRepository) UpdateRole(ctx context.Context, username, role string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.Users[username]
	if !ok {
		return nil, common.ErrNotFound
	}
	user.Role = role
	user.UpdatedAt = time.Now()
	u := *user
	return &u, nil
}

// MockSweetRepository is an in-memory SweetRepository. Quantity mutations
// hold the same compare-and-mutate guard as the SQL implementation so
// concurrency tests exercise the real invariant.
type MockSweetRepository struct {
	mu     sync.Mutex
	Sweets map[string]*model.Sweet
	order  []string
}

func NewMockSweetRepository() *MockSweetRepository {
	return &MockSweetRepository{Sweets: make(map[string]*model.Sweet)}
}

func (m *MockSweetRepository) Create(ctx context.Context, sweet *model.Sweet) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	sweet.CreatedAt = time.Now()
	sweet.UpdatedAt = sweet.CreatedAt
	s := *sweet
	m.Sweets[sweet.ID] = &s
	m.order = append(m.order, sweet.ID)
	return nil
}

func (m *MockSweetRepository) FindByID(ctx context.Context, id string) (*model.Sweet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sweet, ok := m.Sweets[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	s := *sweet
	return &s, nil
}

func (m *MockSweetRepository) List(ctx context.Context) ([]model.Sweet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sweets := []model.Sweet{}
	for _, id := range m.order {
		if s, ok := m.Sweets[id]; ok {
			sweets = append(sweets, *s)
		}
	}
	return sweets, nil
}

func (m *MockSweetRepository) Search(ctx context.Context, filter model.SweetFilter) ([]model.Sweet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sweets := []model.Sweet{}
	for _, id := range m.order {
		s, ok := m.Sweets[id]
		if !ok {
			continue
		}
		if filter.Name != "" && !strings.Contains(strings.ToLower(s.Name), strings.ToLower(filter.Name)) {
			continue
		}
		if filter.Category != "" && !strings.Contains(strings.ToLower(s.Category), strings.ToLower(filter.Category)) {
			continue
		}
		if filter.MinPrice != nil && s.Price < *filter.MinPrice {
			continue
		}
		if filter.MaxPrice != nil && s.Price > *filter.MaxPrice {
			continue
		}
		sweets = append(sweets, *s)
	}
	return sweets, nil
}

func (m *MockSweetRepository) Update(ctx context.Context, id string, patch model.SweetPatch) (*model.Sweet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sweet, ok := m.Sweets[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	if patch.Name != nil {
		sweet.Name = *patch.Name
	}
	if patch.Slug != nil {
		sweet.Slug = *patch.Slug
	}
	if patch.Category != nil {
		sweet.Category = *patch.Category
	}
	if patch.Price != nil {
		sweet.Price = *patch.Price
	}
	if patch.Quantity != nil {
		sweet.Quantity = *patch.Quantity
	}
	if patch.ImageURL != nil {
		sweet.ImageURL = patch.ImageURL
	}
	if patch.IsVeg != nil {
		sweet.IsVeg = *patch.IsVeg
	}
	sweet.UpdatedAt = time.Now()
	s := *sweet
	return &s, nil
}

func (m *MockSweetRepository) DecrementQuantity(ctx context.Context, id string, amount int) (*model.Sweet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sweet, ok := m.Sweets[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	if sweet.Quantity < amount {
		return nil, common.ErrInsufficientStock
	}
	sweet.Quantity -= amount
	sweet.UpdatedAt = time.Now()
	s := *sweet
	return &s, nil
}

func (m *MockSweetRepository) IncrementQuantity(ctx context.Context, id string, amount int) (*model.Sweet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sweet, ok := m.Sweets[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	sweet.Quantity += amount
	sweet.UpdatedAt = time.Now()
	s := *sweet
	return &s, nil
}

func (m *MockSweetRepository) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.Sweets[id]; !ok {
		return common.ErrNotFound
	}
	delete(m.Sweets, id)
	return nil
}

// MockStockEventRepository is an in-memory StockEventRepository.
type MockStockEventRepository struct {
	mu     sync.Mutex
	Events []model.StockEvent
}

func NewMockStockEventRepository() *MockStockEventRepository {
	return &MockStockEventRepository{}
}

func (m *MockStockEventRepository) Insert(ctx context.Context, event *model.StockEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e := *event
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
	m.Events = append(m.Events, e)
	return nil
}

func (m *MockStockEventRepository) ListBySweetID(ctx context.Context, sweetID string) ([]model.StockEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	events := []model.StockEvent{}
	for _, e := range m.Events {
		if e.SweetID == sweetID {
			events = append(events, e)
		}
	}
	return events, nil
}

// Count reports the number of stored events. Tests poll it while the worker
// drains the queue.
func (m *MockStockEventRepository) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Events)
}
