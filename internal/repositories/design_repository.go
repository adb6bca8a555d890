package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/revorbit/auto-frames/internal/models"
	"github.com/revorbit/auto-frames/internal/utils"
)

type DesignRepository interface {
	SaveDraft(ctx context.Context, design *models.Design) error
	GetDesign(ctx context.Context, id uuid.UUID) (*models.Design, error)
	ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]*models.Design, error)
}

type designRepository struct {
	DB *sql.DB
}

func NewDesignRepo(db *sql.DB) DesignRepository {
	return &designRepository{DB: db}
}

// SaveDraft inserts the design or overwrites it while it is still a draft.
func (r *designRepository) SaveDraft(ctx context.Context, design *models.Design) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	configJSON, err := json.Marshal(design.Config)
	if err != nil {
		return fmt.Errorf("failed to marshal design config: %w", err)
	}

	query := `
		INSERT INTO designs (id, customer_id, name, status, config, price)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE
		SET name = EXCLUDED.name, config = EXCLUDED.config, price = EXCLUDED.price, updated_at = NOW()
		WHERE designs.customer_id = EXCLUDED.customer_id AND designs.status = 'draft'
		RETURNING created_at, updated_at
	`

	err = r.DB.QueryRowContext(dbCtx, query, design.ID, design.CustomerID, design.Name, design.Status, configJSON, design.Price).
		Scan(&design.CreatedAt, &design.UpdatedAt)
	if err != nil {
		// the conflict guard filtered the update out
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("design %s is not an editable draft: %w", design.ID, ErrNotFound)
		}
		return fmt.Errorf("failed to save design: %w", err)
	}

	return nil
}

func (r *designRepository) GetDesign(ctx context.Context, id uuid.UUID) (*models.Design, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		SELECT id, customer_id, name, status, config, price, created_at, updated_at
		FROM designs
		WHERE id = $1
	`

	design, err := scanDesign(r.DB.QueryRowContext(dbCtx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("design %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get design: %w", err)
	}

	return design, nil
}

func (r *designRepository) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]*models.Design, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		SELECT id, customer_id, name, status, config, price, created_at, updated_at
		FROM designs
		WHERE customer_id = $1
		ORDER BY updated_at DESC
	`

	rows, err := r.DB.QueryContext(dbCtx, query, customerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list designs: %w", err)
	}
	defer rows.Close()

	designs := []*models.Design{}
	for rows.Next() {
		design, err := scanDesign(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan design: %w", err)
		}
		designs = append(designs, design)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over designs: %w", err)
	}

	return designs, nil
}

func scanDesign(row interface{ Scan(dest ...any) error }) (*models.Design, error) {
	d := &models.Design{}
	var configJSON []byte

	if err := row.Scan(&d.ID, &d.CustomerID, &d.Name, &d.Status, &configJSON, &d.Price, &d.CreatedAt, &d.UpdatedAt); err != nil {
		return nil, err
	}

	if err := json.Unmarshal(configJSON, &d.Config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal design config: %w", err)
	}

	return d, nil
}
