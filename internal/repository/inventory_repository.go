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
	ErrInventoryItemNotFound = errors.New("inventory item not found")
)

// InventoryRepository defines the interface for inventory item data access,
// scoped per owner in the same way as GroceryRepository.
type InventoryRepository interface {
	Create(ctx context.Context, item *domain.InventoryItem) error
	Update(ctx context.Context, item *domain.InventoryItem) error
	Delete(ctx context.Context, owner, id uuid.UUID) error
	FindByID(ctx context.Context, owner, id uuid.UUID) (*domain.InventoryItem, error)
	ListByOwner(ctx context.Context, owner uuid.UUID) ([]domain.InventoryItem, error)
	Count(ctx context.Context) (int, error)
}

type inventoryRepository struct {
	db *sql.DB
}

// NewInventoryRepository creates a new instance of InventoryRepository
func NewInventoryRepository(db *sql.DB) InventoryRepository {
	return &inventoryRepository{db: db}
}

const inventoryColumns = `id, owner_id, name, category, quantity, typical_quantity, unit, expiry_date, location, notes, created_at, updated_at`

func scanInventoryItem(row interface{ Scan(...any) error }, item *domain.InventoryItem) error {
	return row.Scan(
		&item.ID,
		&item.OwnerID,
		&item.Name,
		&item.Category,
		&item.Quantity,
		&item.TypicalQuantity,
		&item.Unit,
		&item.ExpiryDate,
		&item.Location,
		&item.Notes,
		&item.CreatedAt,
		&item.UpdatedAt,
	)
}

func (r *inventoryRepository) Create(ctx context.Context, item *domain.InventoryItem) error {
	query := `
		INSERT INTO inventory_items (` + inventoryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := r.db.ExecContext(
		ctx,
		query,
		item.ID,
		item.OwnerID,
		item.Name,
		item.Category,
		item.Quantity,
		item.TypicalQuantity,
		item.Unit,
		item.ExpiryDate,
		item.Location,
		item.Notes,
		item.CreatedAt,
		item.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create inventory item: %w", err)
	}

	return nil
}

func (r *inventoryRepository) Update(ctx context.Context, item *domain.InventoryItem) error {
	query := `
		UPDATE inventory_items
		SET name = $3, category = $4, quantity = $5, typical_quantity = $6,
		    unit = $7, expiry_date = $8, location = $9, notes = $10
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
		item.TypicalQuantity,
		item.Unit,
		item.ExpiryDate,
		item.Location,
		item.Notes,
	).Scan(&item.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrInventoryItemNotFound
		}
		return fmt.Errorf("failed to update inventory item: %w", err)
	}

	return nil
}

func (r *inventoryRepository) Delete(ctx context.Context, owner, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM inventory_items WHERE id = $1 AND owner_id = $2`, id, owner)
	if err != nil {
		return fmt.Errorf("failed to delete inventory item: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	return expectAffected(rowsAffected, ErrInventoryItemNotFound)
}

func (r *inventoryRepository) FindByID(ctx context.Context, owner, id uuid.UUID) (*domain.InventoryItem, error) {
	query := `SELECT ` + inventoryColumns + ` FROM inventory_items WHERE id = $1 AND owner_id = $2`

	item := &domain.InventoryItem{}
	if err := scanInventoryItem(r.db.QueryRowContext(ctx, query, id, owner), item); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrInventoryItemNotFound
		}
		return nil, fmt.Errorf("failed to find inventory item: %w", err)
	}

	return item, nil
}

func (r *inventoryRepository) ListByOwner(ctx context.Context, owner uuid.UUID) ([]domain.InventoryItem, error) {
	query := `
		SELECT ` + inventoryColumns + `
		FROM inventory_items
		WHERE owner_id = $1
		ORDER BY created_at, id
	`

	rows, err := r.db.QueryContext(ctx, query, owner)
	if err != nil {
		return nil, fmt.Errorf("failed to list inventory items: %w", err)
	}
	defer rows.Close()

	items := []domain.InventoryItem{}
	for rows.Next() {
		var item domain.InventoryItem
		if err := scanInventoryItem(rows, &item); err != nil {
			return nil, fmt.Errorf("failed to scan inventory item: %w", err)
		}
		items = append(items, item)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating inventory items: %w", err)
	}

	return items, nil
}

func (r *inventoryRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM inventory_items`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count inventory items: %w", err)
	}
	return n, nil
}
