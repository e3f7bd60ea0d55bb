package handler

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	apperrors "github.com/sells-group/taxengine/internal/pkg/errors"
	"github.com/sells-group/taxengine/internal/pkg/utils"
	"github.com/sells-group/taxengine/internal/pkg/validator"
	"github.com/sells-group/taxengine/internal/usecase"
	"github.com/sells-group/taxengine/internal/usecase/dto"
)

// OrderHandler exposes the order boundary adapters: create, list, clear.
type OrderHandler struct {
	taxUC   *usecase.TaxUseCase
	orderUC *usecase.OrderUseCase
	logger  *zap.Logger
}

// NewOrderHandler constructs an OrderHandler.
func NewOrderHandler(taxUC *usecase.TaxUseCase, orderUC *usecase.OrderUseCase, logger *zap.Logger) *OrderHandler {
	return &OrderHandler{taxUC: taxUC, orderUC: orderUC, logger: logger}
}

// CreateOrder computes and persists a single order from a point, subtotal,
// and optional timestamp.
func (h *OrderHandler) CreateOrder(c *fiber.Ctx) error {
	var req dto.ProcessOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, apperrors.ErrInvalidRequest)
	}

	if err := validator.Validate(&req); err != nil {
		return utils.SendError(c, apperrors.ErrInvalidCoordinates.WithDetails(map[string]interface{}{"validation": err.Error()}))
	}

	order, err := h.taxUC.ProcessOrder(c.Context(), req)
	if err != nil {
		return utils.SendError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(utils.SuccessResponse{Data: order})
}

// ListOrders returns a paginated, sortable page of persisted orders.
func (h *OrderHandler) ListOrders(c *fiber.Ctx) error {
	req := dto.ListOrdersRequest{
		Ordering: c.Query("ordering"),
		Page:     c.QueryInt("page", 0),
		Limit:    c.QueryInt("limit", 0),
	}

	resp, err := h.orderUC.ListOrders(c.Context(), req)
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, resp, &utils.Meta{
		Total: int(resp.Total),
		Page:  resp.Page,
		Limit: resp.Limit,
	})
}

// ClearOrders deletes every persisted order.
func (h *OrderHandler) ClearOrders(c *fiber.Ctx) error {
	if err := h.orderUC.ClearOrders(c.Context()); err != nil {
		return utils.SendError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}
