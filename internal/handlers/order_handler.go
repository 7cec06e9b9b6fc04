package handlers

import (
	"net/http"

	"github.com/makpal80/avtoray/internal/dto"
	"github.com/makpal80/avtoray/internal/models"
	"github.com/makpal80/avtoray/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type OrderHandler struct {
	orders service.OrderService
	log    *zap.Logger
}

func NewOrderHandler(orders service.OrderService, log *zap.Logger) *OrderHandler {
	return &OrderHandler{orders: orders, log: log}
}

func toSubmitInput(req dto.CreateOrderRequest) service.SubmitOrderInput {
	items := make([]service.OrderItemInput, 0, len(req.Items))
	for _, it := range req.Items {
		in := service.OrderItemInput{
			ProductID: uuid.MustParse(it.ProductID),
			Quantity:  it.Quantity,
		}
		if it.TypeID != nil {
			vid := uuid.MustParse(*it.TypeID)
			in.VariantID = &vid
		}
		items = append(items, in)
	}
	return service.SubmitOrderInput{Items: items, PaymentMethod: models.PaymentMethod(req.PaymentMethod)}
}

// Create godoc
// @Summary Оформить заказ
// @Description Цены и скидки пересчитываются на сервере по актуальному каталогу
// @Tags orders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.CreateOrderRequest true "Корзина"
// @Success 201 {object} dto.OrderResponse
// @Failure 400 {object} dto.ValidationErrorResponse
// @Failure 401 {object} dto.UnauthorizedErrorResponse
// @Failure 404 {object} dto.NotFoundErrorResponse "Товар не найден"
// @Router /orders [post]
func (h *OrderHandler) Create(c *gin.Context) {
	var req dto.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}
	o, err := h.orders.Submit(c.Request.Context(), toSubmitInput(req))
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, toOrderResponse(o))
}

// Preview godoc
// @Summary Предварительный расчёт корзины
// @Description Справочный расчёт; итог фиксируется при оформлении
// @Tags orders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.CreateOrderRequest true "Корзина"
// @Success 200 {object} dto.PreviewResponse
// @Failure 400 {object} dto.ValidationErrorResponse
// @Router /orders/preview [post]
func (h *OrderHandler) Preview(c *gin.Context) {
	var req dto.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}
	b, err := h.orders.Preview(c.Request.Context(), toSubmitInput(req))
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, toPreviewResponse(b))
}

// ListMine godoc
// @Summary Мои заказы
// @Tags orders
// @Produce json
// @Security BearerAuth
// @Param page query int false "Страница" default(1)
// @Param limit query int false "Размер страницы" default(10)
// @Param status query string false "all|pending|approved|rejected"
// @Success 200 {object} dto.OrderListResponse
// @Router /orders [get]
func (h *OrderHandler) ListMine(c *gin.Context) {
	q, ok := bindListQuery(c)
	if !ok {
		return
	}
	page, err := h.orders.ListMyOrders(c.Request.Context(), q)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, toOrderList(page))
}

// Get godoc
// @Summary Заказ по ID
// @Description Клиент видит только свои заказы, администратор любые
// @Tags orders
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID заказа"
// @Success 200 {object} dto.OrderResponse
// @Failure 404 {object} dto.NotFoundErrorResponse
// @Router /orders/{id} [get]
func (h *OrderHandler) Get(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	o, err := h.orders.GetOrder(c.Request.Context(), id)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, toOrderResponse(o))
}

// AdminList godoc
// @Summary Список заказов
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param page query int false "Страница" default(1)
// @Param limit query int false "Размер страницы" default(10)
// @Param q query string false "Поиск по имени, телефону, марке авто"
// @Param status query string false "all|pending|approved|rejected"
// @Success 200 {object} dto.OrderListResponse
// @Failure 400 {object} dto.ValidationErrorResponse
// @Failure 403 {object} dto.ForbiddenErrorResponse
// @Router /admin/orders [get]
func (h *OrderHandler) AdminList(c *gin.Context) {
	q, ok := bindListQuery(c)
	if !ok {
		return
	}
	page, err := h.orders.ListOrders(c.Request.Context(), q)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, toOrderList(page))
}

// Count godoc
// @Summary Количество заказов по статусам
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.OrderCountResponse
// @Router /admin/orders/count [get]
func (h *OrderHandler) Count(c *gin.Context) {
	counts, err := h.orders.CountOrders(c.Request.Context())
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	resp := dto.OrderCountResponse{
		Pending:  counts[models.OrderStatusPending],
		Approved: counts[models.OrderStatusApproved],
		Rejected: counts[models.OrderStatusRejected],
	}
	resp.Total = resp.Pending + resp.Approved + resp.Rejected
	c.JSON(http.StatusOK, resp)
}

// Approve godoc
// @Summary Подтвердить заказ
// @Description Только из статуса pending; повторный вызов возвращает 409
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID заказа"
// @Success 200 {object} dto.OrderResponse
// @Failure 404 {object} dto.NotFoundErrorResponse
// @Failure 409 {object} dto.ConflictErrorResponse "Заказ уже обработан"
// @Router /admin/orders/{id}/approve [patch]
func (h *OrderHandler) Approve(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	o, err := h.orders.Approve(c.Request.Context(), id)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, toOrderResponse(o))
}

// Reject godoc
// @Summary Отклонить заказ
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID заказа"
// @Success 200 {object} dto.OrderResponse
// @Failure 404 {object} dto.NotFoundErrorResponse
// @Failure 409 {object} dto.ConflictErrorResponse "Заказ уже обработан"
// @Router /admin/orders/{id}/reject [patch]
func (h *OrderHandler) Reject(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	o, err := h.orders.Reject(c.Request.Context(), id)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, toOrderResponse(o))
}

func bindListQuery(c *gin.Context) (service.ListQuery, bool) {
	var q dto.ListOrdersQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		writeBindError(c, err)
		return service.ListQuery{}, false
	}
	return service.ListQuery{Page: q.Page, Limit: q.Limit, Status: q.Status, Q: q.Q}, true
}

func toOrderList(p *service.OrderPage) dto.OrderListResponse {
	items := make([]dto.OrderResponse, 0, len(p.Items))
	for i := range p.Items {
		items = append(items, toOrderResponse(&p.Items[i]))
	}
	return dto.OrderListResponse{Items: items, Total: p.Total, Page: p.Page, Limit: p.Limit}
}
