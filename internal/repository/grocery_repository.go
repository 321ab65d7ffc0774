package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"pantry-keeper/internal/domain"

	"github.com/google/uuid"
)

var (
	ErrGroceryItemNotFound = errors.New("grocery item not found")
)

// GroceryRepository defines the interface for grocery item data access.
// Every lookup is scoped to an owner; another user's item is reported as not found.
type GroceryRepository interface {
	Create(ctx context.Context, item *domain.GroceryItem) error
	Update(ctx context.Context, item *domain.GroceryItem) error
	Delete(ctx context.Context, owner, id uuid.UUID) error
	FindByID(ctx context.Context, owner, id uuid.UUID) (*domain.GroceryItem, error)
	ListByOwner(ctx context.Context, owner uuid.UUID) ([]domain.GroceryItem, error)
	Count(ctx context.Context) (int, error)
}

type groceryRepository struct {
	db *sql.DB
}

// NewGroceryRepository creates a new instance of GroceryRepository
func NewGroceryRepository(db *sql.DB) GroceryRepository {
	return &groceryRepository{db: db}
}

const groceryColumns = `id, owner_id, name, category, quantity, unit, price, store_name, total_cost, created_at, updated_at`

func scanGroceryItem(row interface{ Scan(...any) error }, item *domain.GroceryItem) error {
	return row.Scan(
		&item.ID,
		&item.OwnerID,
		&item.Name,
		&item.Category,
		&item.Quantity,
		&item.Unit,
		&item.Price,
		&item.StoreName,
		&item.TotalCost,
		&item.CreatedAt,
		&item.UpdatedAt,
	)
}

func (r *groceryRepository) Create(ctx context.Context, item *domain.GroceryItem) error {
	query := `
		INSERT INTO grocery_items (` + groceryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := r.db.ExecContext(
		ctx,
		query,
		item.ID,
		item.OwnerID,
		item.Name,
		item.Category,
		item.Quantity,
		item.Unit,
		item.Price,
		item.StoreName,
		item.TotalCost,
		item.CreatedAt,
		item.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create grocery item: %w", err)
	}

	return nil
}

func (r *groceryRepository) Update(ctx context.Context, item *domain.GroceryItem) error {
	query := `
		UPDATE grocery_items
		SET name = $3, category = $4, quantity = $5, unit = $6,
		    price = $7, store_name = $8, total_cost = $9
		WHERE id = $1 AND owner_id = $2
		RETURNING updated_at
	`

	err := r.db.QueryRowContext(
		ctx,
		query,
		item.ID,
		item.OwnerID,
		item.Name,
		item.Category,
		item.Quantity,
		item.Unit,
		item.Price,
		item.StoreName,
		item.TotalCost,
	).Scan(&item.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrGroceryItemNotFound
		}
		return fmt.Errorf("failed to update grocery item: %w", err)
	}

	return nil
}

func (r *groceryRepository) Delete(ctx context.Context, owner, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM grocery_items WHERE id = $1 AND owner_id = $2`, id, owner)
	if err != nil {
		return fmt.Errorf("failed to delete grocery item: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	return expectAffected(rowsAffected, ErrGroceryItemNotFound)
}

func (r *groceryRepository) FindByID(ctx context.Context, owner, id uuid.UUID) (*domain.GroceryItem, error) {
	query := `SELECT ` + groceryColumns + ` FROM grocery_items WHERE id = $1 AND owner_id = $2`

	item := &domain.GroceryItem{}
	if err := scanGroceryItem(r.db.QueryRowContext(ctx, query, id, owner), item); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrGroceryItemNotFound
		}
		return nil, fmt.Errorf("failed to find grocery item: %w", err)
	}

	return item, nil
}

// ListByOwner returns the owner's items oldest first
func (r *groceryRepository) ListByOwner(ctx context.Context, owner uuid.UUID) ([]domain.GroceryItem, error) {
	query := `
		SELECT ` + groceryColumns + `
		FROM grocery_items
		WHERE owner_id = $1
		ORDER BY created_at, id
	`

	rows, err := r.db.QueryContext(ctx, query, owner)
	if err != nil {
		return nil, fmt.Errorf("failed to list grocery items: %w", err)
	}
	defer rows.Close()

	items := []domain.GroceryItem{}
	for rows.Next() {
		var item domain.GroceryItem
		if err := scanGroceryItem(rows, &item); err != nil {
			return nil, fmt.Errorf("failed to scan grocery item: %w", err)
		}
		items = append(items, item)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating grocery items: %w", err)
	}

	return items, nil
}

func (r *groceryRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM grocery_items`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count grocery items: %w", err)
	}
	return n, nil
}
