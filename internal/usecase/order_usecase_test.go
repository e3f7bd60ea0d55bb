package usecase_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sells-group/taxengine/internal/domain"
	"github.com/sells-group/taxengine/internal/usecase"
	"github.com/sells-group/taxengine/internal/usecase/dto"
)

func TestOrderUseCase_ListOrders_DefaultsAndOrdering(t *testing.T) {
	ctx := context.Background()
	repo := &mockOrderRepo{}

	repo.On("List", ctx, domain.OrderOrdering{Field: "created_at", Descending: true}, 1, 20).
		Return(&domain.OrderPage{Orders: []*domain.Order{}, Total: 0}, nil)

	uc := usecase.NewOrderUseCase(repo, zap.NewNop())
	resp, err := uc.ListOrders(ctx, dto.ListOrdersRequest{})

	require.NoError(t, err)
	assert.Equal(t, 1, resp.Page)
	assert.Equal(t, 20, resp.Limit)
	repo.AssertExpectations(t)
}

func TestOrderUseCase_ListOrders_ExplicitOrdering(t *testing.T) {
	ctx := context.Background()
	repo := &mockOrderRepo{}

	repo.On("List", ctx, domain.OrderOrdering{Field: "id", Descending: false}, 2, 10).
		Return(&domain.OrderPage{Orders: []*domain.Order{}, Total: 0}, nil)

	uc := usecase.NewOrderUseCase(repo, zap.NewNop())
	_, err := uc.ListOrders(ctx, dto.ListOrdersRequest{Ordering: "id", Page: 2, Limit: 10})
	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestOrderUseCase_ListOrders_InvalidOrdering(t *testing.T) {
	ctx := context.Background()
	repo := &mockOrderRepo{}

	uc := usecase.NewOrderUseCase(repo, zap.NewNop())
	_, err := uc.ListOrders(ctx, dto.ListOrdersRequest{Ordering: "subtotal"})
	assert.Error(t, err)
}

func TestOrderUseCase_ClearOrders(t *testing.T) {
	ctx := context.Background()
	repo := &mockOrderRepo{}
	repo.On("Clear", ctx).Return(nil)

	uc := usecase.NewOrderUseCase(repo, zap.NewNop())
	assert.NoError(t, uc.ClearOrders(ctx))
	repo.AssertExpectations(t)
}

func TestOrderUseCase_GetOrder(t *testing.T) {
	ctx := context.Background()
	repo := &mockOrderRepo{}
	id := uuid.New()
	repo.On("Get", ctx, id).Return(&domain.Order{ID: id, GeoState: "New York"}, nil)

	uc := usecase.NewOrderUseCase(repo, zap.NewNop())
	resp, err := uc.GetOrder(ctx, id)

	require.NoError(t, err)
	assert.Equal(t, "New York", resp.GeoState)
}
