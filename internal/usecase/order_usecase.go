package usecase

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sells-group/taxengine/internal/domain"
	"github.com/sells-group/taxengine/internal/domain/repository"
	apperrors "github.com/sells-group/taxengine/internal/pkg/errors"
	"github.com/sells-group/taxengine/internal/usecase/dto"
)

const (
	defaultListPage  = 1
	defaultListLimit = 20
)

// OrderUseCase lists and clears the persisted order ledger.
type OrderUseCase struct {
	orderRepo repository.OrderRepository
	logger    *zap.Logger
}

// NewOrderUseCase constructs an OrderUseCase.
func NewOrderUseCase(orderRepo repository.OrderRepository, logger *zap.Logger) *OrderUseCase {
	return &OrderUseCase{orderRepo: orderRepo, logger: logger}
}

// ListOrders returns a paginated, sortable page of orders.
func (uc *OrderUseCase) ListOrders(ctx context.Context, req dto.ListOrdersRequest) (*dto.ListOrdersResponse, error) {
	page := req.Page
	if page <= 0 {
		page = defaultListPage
	}
	limit := req.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}

	ordering, err := parseOrdering(req.Ordering)
	if err != nil {
		return nil, err
	}

	result, err := uc.orderRepo.List(ctx, ordering, page, limit)
	if err != nil {
		uc.logger.Error("failed to list orders", zap.Error(err))
		return nil, apperrors.ErrDatabaseError
	}

	orders := make([]dto.OrderResponse, len(result.Orders))
	for i, o := range result.Orders {
		orders[i] = dto.FromOrder(o)
	}

	return &dto.ListOrdersResponse{
		Orders: orders,
		Total:  result.Total,
		Page:   page,
		Limit:  limit,
	}, nil
}

// GetOrder returns a single order by id.
func (uc *OrderUseCase) GetOrder(ctx context.Context, id uuid.UUID) (*dto.OrderResponse, error) {
	o, err := uc.orderRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := dto.FromOrder(o)
	return &resp, nil
}

// ClearOrders deletes every persisted order.
func (uc *OrderUseCase) ClearOrders(ctx context.Context) error {
	if err := uc.orderRepo.Clear(ctx); err != nil {
		uc.logger.Error("failed to clear orders", zap.Error(err))
		return apperrors.ErrDatabaseError
	}
	return nil
}

// parseOrdering parses the "(-)?id|(-)?created_at" ordering query parameter.
func parseOrdering(raw string) (domain.OrderOrdering, error) {
	if raw == "" {
		return domain.OrderOrdering{Field: "created_at", Descending: true}, nil
	}

	descending := strings.HasPrefix(raw, "-")
	field := strings.TrimPrefix(raw, "-")

	if field != "id" && field != "created_at" {
		return domain.OrderOrdering{}, apperrors.ErrInvalidOrdering
	}

	return domain.OrderOrdering{Field: field, Descending: descending}, nil
}
