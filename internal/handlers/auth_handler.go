package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/makpal80/avtoray/internal/dto"
	"github.com/makpal80/avtoray/internal/models"
	"github.com/makpal80/avtoray/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type AuthAPI interface {
	Register(ctx context.Context, in service.RegisterInput) (*models.User, error)
	Login(ctx context.Context, phone, password string) (string, time.Time, error)
	Me(ctx context.Context) (*models.User, error)
	SetDiscount(ctx context.Context, userID uuid.UUID, percent int) (*models.User, error)
}

type AuthHandler struct {
	auth AuthAPI
	log  *zap.Logger
}

func NewAuthHandler(auth AuthAPI, log *zap.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, log: log}
}

// Register godoc
// @Summary Регистрация клиента
// @Tags auth
// @Accept json
// @Produce json
// @Param register body dto.RegisterRequest true "Данные регистрации"
// @Success 201 {object} dto.UserResponse
// @Failure 400 {object} dto.ValidationErrorResponse "Неверные данные"
// @Failure 409 {object} dto.ConflictErrorResponse "Телефон уже зарегистрирован"
// @Failure 500 {object} dto.InternalErrorResponse "Внутренняя ошибка"
// @Router /register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warn("Invalid registration request", zap.Error(err))
		writeBindError(c, err)
		return
	}

	u, err := h.auth.Register(c.Request.Context(), service.RegisterInput{
		Phone:    req.Phone,
		Password: req.Password,
		Name:     req.Name,
		CarBrand: req.CarBrand,
	})
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, toUserResponse(u))
}

// Login godoc
// @Summary Вход по телефону и паролю
// @Tags auth
// @Accept x-www-form-urlencoded
// @Produce json
// @Param username formData string true "Телефон"
// @Param password formData string true "Пароль"
// @Success 200 {object} dto.LoginResponse
// @Failure 400 {object} dto.ValidationErrorResponse "Неверные данные"
// @Failure 401 {object} dto.UnauthorizedErrorResponse "Неверный телефон или пароль"
// @Failure 429 {object} dto.RateLimitedErrorResponse "Слишком много попыток"
// @Router /login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		writeBindError(c, err)
		return
	}

	token, exp, err := h.auth.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, dto.LoginResponse{AccessToken: token, TokenType: "bearer", ExpiresAt: exp.Unix()})
}

// Me godoc
// @Summary Текущий клиент
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.UserResponse
// @Failure 401 {object} dto.UnauthorizedErrorResponse
// @Router /me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	u, err := h.auth.Me(c.Request.Context())
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, toUserResponse(u))
}

// SetDiscount godoc
// @Summary Установить скидку клиента
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID клиента"
// @Param body body dto.SetDiscountRequest true "Скидка, %"
// @Success 200 {object} dto.UserResponse
// @Failure 400 {object} dto.ValidationErrorResponse
// @Failure 403 {object} dto.ForbiddenErrorResponse
// @Failure 404 {object} dto.NotFoundErrorResponse
// @Router /admin/users/{id}/discount [patch]
func (h *AuthHandler) SetDiscount(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var req dto.SetDiscountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}
	u, err := h.auth.SetDiscount(c.Request.Context(), id, *req.DiscountPercent)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, toUserResponse(u))
}

func pathUUID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewValidationError("invalid "+name, []dto.FieldError{
			{Field: name, Message: "must be a valid UUID", Tag: "uuid"},
		}))
		return uuid.Nil, false
	}
	return id, true
}
