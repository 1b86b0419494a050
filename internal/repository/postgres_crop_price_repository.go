package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shobhit-APP/smart-agriculture-backend/internal/domain"
)

const cropPriceColumns = `id, crop_name, market, province, price_per_kg, recorded_at, created_at, updated_at`

// PostgresCropPriceRepository implements CropPriceRepository using PostgreSQL
type PostgresCropPriceRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresCropPriceRepository creates a new PostgresCropPriceRepository
func NewPostgresCropPriceRepository(pool *pgxpool.Pool) *PostgresCropPriceRepository {
	return &PostgresCropPriceRepository{pool: pool}
}

func scanCropPrice(row pgx.Row) (*domain.CropPrice, error) {
	price := &domain.CropPrice{}
	err := row.Scan(
		&price.ID,
		&price.CropName,
		&price.Market,
		&price.Province,
		&price.PricePerKg,
		&price.RecordedAt,
		&price.CreatedAt,
		&price.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return price, nil
}

// Create inserts a price record and fills in the generated id
func (r *PostgresCropPriceRepository) Create(ctx context.Context, price *domain.CropPrice) error {
	query := `
		INSERT INTO crop_prices (crop_name, market, province, price_per_kg, recorded_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
	return r.pool.QueryRow(ctx, query,
		price.CropName,
		price.Market,
		price.Province,
		price.PricePerKg,
		price.RecordedAt,
		price.CreatedAt,
		price.UpdatedAt,
	).Scan(&price.ID)
}

// GetByID retrieves a price record by id, nil if absent
func (r *PostgresCropPriceRepository) GetByID(ctx context.Context, id int64) (*domain.CropPrice, error) {
	query := `SELECT ` + cropPriceColumns + ` FROM crop_prices WHERE id = $1`
	return scanCropPrice(r.pool.QueryRow(ctx, query, id))
}

// List returns price records matching the filter, most recent first
func (r *PostgresCropPriceRepository) List(ctx context.Context, filter CropPriceFilter) ([]*domain.CropPrice, error) {
	var conditions []string
	var args []interface{}

	if filter.CropName != "" {
		args = append(args, filter.CropName)
		conditions = append(conditions, fmt.Sprintf("crop_name = $%d", len(args)))
	}
	if filter.Market != "" {
		args = append(args, filter.Market)
		conditions = append(conditions, fmt.Sprintf("market = $%d", len(args)))
	}
	if filter.Province != "" {
		args = append(args, filter.Province)
		conditions = append(conditions, fmt.Sprintf("province = $%d", len(args)))
	}

	query := `SELECT ` + cropPriceColumns + ` FROM crop_prices`
	if len(conditions) > 0 {
		query += ` WHERE ` + strings.Join(conditions, " AND ")
	}
	query += ` ORDER BY recorded_at DESC`

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	args = append(args, limit)
	query += fmt.Sprintf(" LIMIT $%d", len(args))
	args = append(args, filter.Offset)
	query += fmt.Sprintf(" OFFSET $%d", len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var prices []*domain.CropPrice
	for rows.Next() {
		price, err := scanCropPrice(rows)
		if err != nil {
			return nil, err
		}
		prices = append(prices, price)
	}
	return prices, rows.Err()
}

// Update persists all mutable fields of a price record
func (r *PostgresCropPriceRepository) Update(ctx context.Context, price *domain.CropPrice) error {
	query := `
		UPDATE crop_prices
		SET crop_name = $2, market = $3, province = $4, price_per_kg = $5, recorded_at = $6, updated_at = $7
		WHERE id = $1
	`
	price.UpdatedAt = time.Now()
	_, err := r.pool.Exec(ctx, query,
		price.ID,
		price.CropName,
		price.Market,
		price.Province,
		price.PricePerKg,
		price.RecordedAt,
		price.UpdatedAt,
	)
	return err
}

// Delete removes a price record
func (r *PostgresCropPriceRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM crop_prices WHERE id = $1`, id)
	return err
}
