package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/sells-group/taxengine/internal/domain"
	"github.com/sells-group/taxengine/internal/domain/repository"
	"github.com/sells-group/taxengine/internal/pkg/errors"
)

type orderRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

// NewOrderRepository creates a new OrderRepository backed by Postgres.
func NewOrderRepository(db *DB) repository.OrderRepository {
	return &orderRepository{
		db:     db.DB,
		logger: db.logger,
	}
}

// Insert persists a fully-computed order, including its breakdown, in one
// atomic step.
func (r *orderRepository) Insert(ctx context.Context, o *domain.Order) error {
	breakdown, err := json.Marshal(o.Breakdown)
	if err != nil {
		r.logger.Error("failed to marshal order breakdown", zap.Error(err))
		return errors.ErrInternalServer
	}

	query := `
		INSERT INTO orders (
			id, lat, lon, subtotal, order_timestamp,
			geo_state, geo_county, geo_locality, geo_source, geo_raw_response,
			composite_rate, tax_amount, total_amount, jurisdictions, breakdown
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING created_at
	`

	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}

	err = r.db.QueryRowContext(ctx, query,
		o.ID, o.Lat, o.Lon, o.Subtotal, o.OrderTimestamp,
		o.GeoState, o.GeoCounty, o.GeoLocality, o.GeoSource, o.GeoRawResponse,
		o.CompositeRate, o.TaxAmount, o.TotalAmount, o.Jurisdictions, breakdown,
	).Scan(&o.CreatedAt)

	if err != nil {
		r.logger.Error("failed to insert order", zap.Error(err))
		return errors.ErrDatabaseError
	}

	return nil
}

const orderColumns = `
	id, lat, lon, subtotal, order_timestamp,
	geo_state, geo_county, geo_locality, geo_source, geo_raw_response,
	composite_rate, tax_amount, total_amount, jurisdictions, breakdown, created_at
`

func (r *orderRepository) scanOrder(row interface {
	Scan(dest ...interface{}) error
}) (*domain.Order, error) {
	var o domain.Order
	var breakdown []byte

	err := row.Scan(
		&o.ID, &o.Lat, &o.Lon, &o.Subtotal, &o.OrderTimestamp,
		&o.GeoState, &o.GeoCounty, &o.GeoLocality, &o.GeoSource, &o.GeoRawResponse,
		&o.CompositeRate, &o.TaxAmount, &o.TotalAmount, &o.Jurisdictions, &breakdown, &o.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(breakdown) > 0 {
		if err := json.Unmarshal(breakdown, &o.Breakdown); err != nil {
			return nil, fmt.Errorf("unmarshal breakdown: %w", err)
		}
	}

	return &o, nil
}

// Get returns a single order by id.
func (r *orderRepository) Get(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`

	o, err := r.scanOrder(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, errors.ErrOrderNotFound
	}
	if err != nil {
		r.logger.Error("failed to get order", zap.String("id", id.String()), zap.Error(err))
		return nil, errors.ErrDatabaseError
	}

	return o, nil
}

// List returns a page of orders under the given ordering.
func (r *orderRepository) List(ctx context.Context, ordering domain.OrderOrdering, page, limit int) (*domain.OrderPage, error) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}

	field := "created_at"
	if ordering.Field == "id" {
		field = "id"
	}

	direction := "ASC"
	if ordering.Descending {
		direction = "DESC"
	}

	offset := (page - 1) * limit

	query := fmt.Sprintf(`SELECT %s FROM orders ORDER BY %s %s LIMIT $1 OFFSET $2`, orderColumns, field, direction)

	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		r.logger.Error("failed to list orders", zap.Error(err))
		return nil, errors.ErrDatabaseError
	}
	defer rows.Close()

	orders := make([]*domain.Order, 0)
	for rows.Next() {
		o, err := r.scanOrder(rows)
		if err != nil {
			r.logger.Error("failed to scan order", zap.Error(err))
			continue
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		r.logger.Error("error iterating order rows", zap.Error(err))
		return nil, errors.ErrDatabaseError
	}

	var total int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM orders`).Scan(&total); err != nil {
		r.logger.Error("failed to count orders", zap.Error(err))
		return nil, errors.ErrDatabaseError
	}

	return &domain.OrderPage{
		Orders: orders,
		Total:  total,
		Page:   page,
		Limit:  limit,
	}, nil
}

// Clear deletes all orders.
func (r *orderRepository) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM orders`); err != nil {
		r.logger.Error("failed to clear orders", zap.Error(err))
		return errors.ErrDatabaseError
	}
	return nil
}
