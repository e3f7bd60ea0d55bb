package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sells-group/taxengine/internal/domain"
)

// OrderRepository persists and lists immutable order records.
type OrderRepository interface {
	// Insert persists a fully-computed order in one atomic step.
	Insert(ctx context.Context, o *domain.Order) error

	// Get returns a single order by id.
	Get(ctx context.Context, id uuid.UUID) (*domain.Order, error)

	// List returns a page of orders under the given ordering.
	List(ctx context.Context, ordering domain.OrderOrdering, page, limit int) (*domain.OrderPage, error)

	// Clear deletes all orders.
	Clear(ctx context.Context) error
}
