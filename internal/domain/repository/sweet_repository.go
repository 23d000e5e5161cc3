package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"sweetshop/internal/common"
	"sweetshop/internal/domain/model"
)

const sweetColumns = `id, name, slug, category, price, quantity, image_url, is_veg, created_at, updated_at`

type SweetRepository interface {
	Create(ctx context.Context, sweet *model.Sweet) error
	FindByID(ctx context.Context, id string) (*model.Sweet, error)
	List(ctx context.Context) ([]model.Sweet, error)
	Search(ctx context.Context, filter model.SweetFilter) ([]model.Sweet, error)
	Update(ctx context.Context, id string, patch model.SweetPatch) (*model.Sweet, error)
	DecrementQuantity(ctx context.Context, id string, amount int) (*model.Sweet, error)
	IncrementQuantity(ctx context.Context, id string, amount int) (*model.Sweet, error)
	Delete(ctx context.Context, id string) error
}

type pgSweetRepository struct {
	db *sql.DB
}

func NewPgSweetRepository(db *sql.DB) SweetRepository {
	return &pgSweetRepository{db: db}
}

func scanSweet(row interface{ Scan(...interface{}) error }) (*model.Sweet, error) {
	s := &model.Sweet{}
	err := row.Scan(&s.ID, &s.Name, &s.Slug, &s.Category, &s.Price, &s.Quantity,
		&s.ImageURL, &s.IsVeg, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (r *pgSweetRepository) Create(ctx context.Context, s *model.Sweet) error {
	query := `INSERT INTO sweets (id, name, slug, category, price, quantity, image_url, is_veg)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	          RETURNING created_at, updated_at`
	err := r.db.QueryRowContext(ctx, query, s.ID, s.Name, s.Slug, s.Category, s.Price, s.Quantity, s.ImageURL, s.IsVeg).
		Scan(&s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("pgSweetRepository.Create: %w", err)
	}
	return nil
}

func (r *pgSweetRepository) FindByID(ctx context.Context, id string) (*model.Sweet, error) {
	query := `SELECT ` + sweetColumns + ` FROM sweets WHERE id = $1`
	sweet, err := scanSweet(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgSweetRepository.FindByID: %w", err)
	}
	return sweet, nil
}

func (r *pgSweetRepository) List(ctx context.Context) ([]model.Sweet, error) {
	query := `SELECT ` + sweetColumns + ` FROM sweets ORDER BY created_at ASC`
	return r.querySweets(ctx, query)
}

// Search applies conjunctive filters: case-insensitive substring match on
// name and category, inclusive bounds on price. Absent filters impose no
// constraint.
func (r *pgSweetRepository) Search(ctx context.Context, filter model.SweetFilter) ([]model.Sweet, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT ` + sweetColumns + ` FROM sweets`)

	var conditions []string
	var args []interface{}
	argID := 1

	if filter.Name != "" {
		conditions = append(conditions, fmt.Sprintf("name ILIKE $%d", argID))
		args = append(args, "%"+filter.Name+"%")
		argID++
	}
	if filter.Category != "" {
		conditions = append(conditions, fmt.Sprintf("category ILIKE $%d", argID))
		args = append(args, "%"+filter.Category+"%")
		argID++
	}
	if filter.MinPrice != nil {
		conditions = append(conditions, fmt.Sprintf("price >= $%d", argID))
		args = append(args, *filter.MinPrice)
		argID++
	}
	if filter.MaxPrice != nil {
		conditions = append(conditions, fmt.Sprintf("price <= $%d", argID))
		args = append(args, *filter.MaxPrice)
		argID++
	}

	if len(conditions) > 0 {
		queryBuilder.WriteString(" WHERE " + strings.Join(conditions, " AND "))
	}
	queryBuilder.WriteString(" ORDER BY created_at ASC")

	return r.querySweets(ctx, queryBuilder.String(), args...)
}

// Update applies a partial update in a single statement so concurrent
// patches cannot interleave between a read and a write.
func (r *pgSweetRepository) Update(ctx context.Context, id string, patch model.SweetPatch) (*model.Sweet, error) {
	var sets []string
	var args []interface{}
	argID := 1

	addSet := func(column string, value interface{}) {
		sets = append(sets, fmt.Sprintf("%s = $%d", column, argID))
		args = append(args, value)
		argID++
	}

	if patch.Name != nil {
		addSet("name", *patch.Name)
	}
	if patch.Slug != nil {
		addSet("slug", *patch.Slug)
	}
	if patch.Category != nil {
		addSet("category", *patch.Category)
	}
	if patch.Price != nil {
		addSet("price", *patch.Price)
	}
	if patch.Quantity != nil {
		addSet("quantity", *patch.Quantity)
	}
	if patch.ImageURL != nil {
		addSet("image_url", *patch.ImageURL)
	}
	if patch.IsVeg != nil {
		addSet("is_veg", *patch.IsVeg)
	}

	if len(sets) == 0 {
		// Nothing to change; behave like a plain lookup.
		return r.FindByID(ctx, id)
	}

	sets = append(sets, "updated_at = CURRENT_TIMESTAMP")
	query := fmt.Sprintf(`UPDATE sweets SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(sets, ", "), argID, sweetColumns)
	args = append(args, id)

	sweet, err := scanSweet(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgSweetRepository.Update: %w", err)
	}
	return sweet, nil
}

// DecrementQuantity atomically decrements quantity, guarded so it can never
// go negative. Returns ErrInsufficientStock when the sweet exists but holds
// fewer than amount units.
func (r *pgSweetRepository) DecrementQuantity(ctx context.Context, id string, amount int) (*model.Sweet, error) {
	query := `UPDATE sweets SET quantity = quantity - $2, updated_at = CURRENT_TIMESTAMP
	          WHERE id = $1 AND quantity >= $2
	          RETURNING ` + sweetColumns
	sweet, err := scanSweet(r.db.QueryRowContext(ctx, query, id, amount))
	if err == nil {
		return sweet, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("pgSweetRepository.DecrementQuantity: %w", err)
	}

	// Guard failed: distinguish a missing sweet from insufficient stock.
	if _, findErr := r.FindByID(ctx, id); findErr != nil {
		return nil, findErr
	}
	return nil, common.ErrInsufficientStock
}

func (r *pgSweetRepository) IncrementQuantity(ctx context.Context, id string, amount int) (*model.Sweet, error) {
	query := `UPDATE sweets SET quantity = quantity + $2, updated_at = CURRENT_TIMESTAMP
	          WHERE id = $1
	          RETURNING ` + sweetColumns
	sweet, err := scanSweet(r.db.QueryRowContext(ctx, query, id, amount))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgSweetRepository.IncrementQuantity: %w", err)
	}
	return sweet, nil
}

func (r *pgSweetRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM sweets WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("pgSweetRepository.Delete: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("pgSweetRepository.Delete rows affected: %w", err)
	}
	if affected == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *pgSweetRepository) querySweets(ctx context.Context, query string, args ...interface{}) ([]model.Sweet, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("pgSweetRepository query: %w", err)
	}
	defer rows.Close()

	sweets := []model.Sweet{}
	for rows.Next() {
		var s model.Sweet
		if err := rows.Scan(&s.ID, &s.Name, &s.Slug, &s.Category, &s.Price, &s.Quantity,
			&s.ImageURL, &s.IsVeg, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("pgSweetRepository scan: %w", err)
		}
		sweets = append(sweets, s)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("pgSweetRepository rows.Err: %w", err)
	}
	return sweets, nil
}
