package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/revorbit/auto-frames/internal/models"
	"github.com/revorbit/auto-frames/internal/utils"
)

// MaxLineQuantity caps a single cart line.
const MaxLineQuantity = 99

type CartRepository interface {
	ListLines(ctx context.Context, customerID uuid.UUID) ([]models.CartLine, error)
	UpsertLine(ctx context.Context, line *models.CartLine) error
	UpdateQuantity(ctx context.Context, customerID, lineID uuid.UUID, quantity int) (*models.CartLine, error)
	RemoveLine(ctx context.Context, customerID, lineID uuid.UUID) error
	Clear(ctx context.Context, customerID uuid.UUID) error
}

type cartRepository struct {
	DB *sql.DB
}

func NewCartRepo(db *sql.DB) CartRepository {
	return &cartRepository{DB: db}
}

const cartLineColumns = `id, customer_id, product_id, name, unit_price, quantity, image_url, customization_note, created_at, updated_at`

func scanCartLine(row interface{ Scan(dest ...any) error }) (models.CartLine, error) {
	var l models.CartLine
	err := row.Scan(&l.ID, &l.CustomerID, &l.ProductID, &l.Name, &l.UnitPrice, &l.Quantity, &l.ImageURL, &l.CustomizationNote, &l.CreatedAt, &l.UpdatedAt)
	return l, err
}

func (r *cartRepository) ListLines(ctx context.Context, customerID uuid.UUID) ([]models.CartLine, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `SELECT ` + cartLineColumns + ` FROM cart_lines WHERE customer_id = $1 ORDER BY created_at, id`

	rows, err := r.DB.QueryContext(dbCtx, query, customerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query cart lines: %w", err)
	}
	defer rows.Close()

	lines := []models.CartLine{}
	for rows.Next() {
		line, err := scanCartLine(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan cart line: %w", err)
		}
		lines = append(lines, line)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over cart lines: %w", err)
	}

	return lines, nil
}

// UpsertLine merges the line into an existing one for the same product and note,
// adding the quantities and refreshing the catalog price.
func (r *cartRepository) UpsertLine(ctx context.Context, line *models.CartLine) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		INSERT INTO cart_lines (id, customer_id, product_id, name, unit_price, quantity, image_url, customization_note)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (customer_id, product_id, customization_note) DO UPDATE
		SET quantity = LEAST(cart_lines.quantity + EXCLUDED.quantity, $9),
			unit_price = EXCLUDED.unit_price,
			name = EXCLUDED.name,
			image_url = EXCLUDED.image_url,
			updated_at = NOW()
		RETURNING id, quantity, created_at, updated_at
	`

	err := r.DB.QueryRowContext(dbCtx, query, line.ID, line.CustomerID, line.ProductID, line.Name, line.UnitPrice, line.Quantity, line.ImageURL, line.CustomizationNote, MaxLineQuantity).
		Scan(&line.ID, &line.Quantity, &line.CreatedAt, &line.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert cart line: %w", err)
	}

	return nil
}

func (r *cartRepository) UpdateQuantity(ctx context.Context, customerID, lineID uuid.UUID, quantity int) (*models.CartLine, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		UPDATE cart_lines SET quantity = $1, updated_at = NOW()
		WHERE id = $2 AND customer_id = $3
		RETURNING ` + cartLineColumns

	line, err := scanCartLine(r.DB.QueryRowContext(dbCtx, query, quantity, lineID, customerID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("cart line %s: %w", lineID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to update cart line: %w", err)
	}

	return &line, nil
}

func (r *cartRepository) RemoveLine(ctx context.Context, customerID, lineID uuid.UUID) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	result, err := r.DB.ExecContext(dbCtx, `DELETE FROM cart_lines WHERE id = $1 AND customer_id = $2`, lineID, customerID)
	if err != nil {
		return fmt.Errorf("failed to delete cart line: %w", err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get deleted rows: %w", err)
	}

	if deleted == 0 {
		return fmt.Errorf("cart line %s: %w", lineID, ErrNotFound)
	}

	return nil
}

func (r *cartRepository) Clear(ctx context.Context, customerID uuid.UUID) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	if _, err := r.DB.ExecContext(dbCtx, `DELETE FROM cart_lines WHERE customer_id = $1`, customerID); err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}

	return nil
}
