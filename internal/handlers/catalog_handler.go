package handlers

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/makpal80/avtoray/internal/cleanup"
	"github.com/makpal80/avtoray/internal/dto"
	"github.com/makpal80/avtoray/internal/models"
	"github.com/makpal80/avtoray/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const maxImageSize = 5 << 20

var imageExts = map[string]bool{".jpg": true, ".jpeg": true, ".png": true, ".webp": true, ".gif": true}

type CatalogAPI interface {
	ListProducts(ctx context.Context, q string) ([]models.Product, error)
	AdminListProducts(ctx context.Context, q string) ([]models.Product, error)
	CreateProduct(ctx context.Context, in service.CreateProductInput) (*models.Product, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, in service.UpdateProductInput) (*models.Product, error)
	AddVariant(ctx context.Context, productID uuid.UUID, name, imageURL string) (*models.ProductVariant, error)
	DeleteVariant(ctx context.Context, variantID uuid.UUID) error
}

type CatalogHandler struct {
	catalog   CatalogAPI
	uploadDir string
	log       *zap.Logger
}

func NewCatalogHandler(catalog CatalogAPI, uploadDir string, log *zap.Logger) *CatalogHandler {
	return &CatalogHandler{catalog: catalog, uploadDir: uploadDir, log: log}
}

// ListProducts godoc
// @Summary Каталог активных товаров
// @Tags products
// @Produce json
// @Param q query string false "Поиск по названию"
// @Success 200 {array} dto.ProductResponse
// @Router /products [get]
func (h *CatalogHandler) ListProducts(c *gin.Context) {
	list, err := h.catalog.ListProducts(c.Request.Context(), c.Query("q"))
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, toProductsResponse(list))
}

// AdminListProducts godoc
// @Summary Все товары, включая неактивные
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param q query string false "Поиск по названию"
// @Success 200 {array} dto.ProductResponse
// @Router /admin/products [get]
func (h *CatalogHandler) AdminListProducts(c *gin.Context) {
	list, err := h.catalog.AdminListProducts(c.Request.Context(), c.Query("q"))
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, toProductsResponse(list))
}

// CreateProduct godoc
// @Summary Создать товар
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.CreateProductRequest true "Товар"
// @Success 201 {object} dto.ProductResponse
// @Failure 400 {object} dto.ValidationErrorResponse
// @Router /admin/products [post]
func (h *CatalogHandler) CreateProduct(c *gin.Context) {
	var req dto.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}
	p, err := h.catalog.CreateProduct(c.Request.Context(), service.CreateProductInput{
		Name:            req.Name,
		Price:           *req.Price,
		DiscountPercent: req.DiscountPercent,
	})
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, toProductResponse(*p))
}

// UpdateProduct godoc
// @Summary Частично обновить товар
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID товара"
// @Param body body dto.UpdateProductRequest true "Поля для изменения"
// @Success 200 {object} dto.ProductResponse
// @Failure 404 {object} dto.NotFoundErrorResponse
// @Router /admin/products/{id} [patch]
func (h *CatalogHandler) UpdateProduct(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}
	p, err := h.catalog.UpdateProduct(c.Request.Context(), id, service.UpdateProductInput{
		Name:            req.Name,
		Price:           req.Price,
		DiscountPercent: req.DiscountPercent,
		Active:          req.Active,
	})
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, toProductResponse(*p))
}

// AddVariant godoc
// @Summary Добавить тип товара с изображением
// @Tags admin
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID товара"
// @Param name formData string true "Название типа"
// @Param file formData file true "Изображение"
// @Success 201 {object} dto.VariantResponse
// @Failure 400 {object} dto.ValidationErrorResponse
// @Failure 404 {object} dto.NotFoundErrorResponse
// @Router /admin/products/{id}/types [post]
func (h *CatalogHandler) AddVariant(c *gin.Context) {
	productID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	name := strings.TrimSpace(c.PostForm("name"))
	if name == "" {
		c.JSON(http.StatusBadRequest, dto.NewValidationError("validation failed", []dto.FieldError{
			{Field: "name", Message: "field is required", Tag: "required"},
		}))
		return
	}
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewValidationError("validation failed", []dto.FieldError{
			{Field: "file", Message: "field is required", Tag: "required"},
		}))
		return
	}
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !imageExts[ext] || file.Size > maxImageSize {
		c.JSON(http.StatusBadRequest, dto.NewValidationError("validation failed", []dto.FieldError{
			{Field: "file", Message: "image up to 5MB (jpg, png, webp, gif)"},
		}))
		return
	}

	if err := os.MkdirAll(h.uploadDir, 0o755); err != nil {
		writeError(c, h.log, err)
		return
	}
	stored := uuid.NewString() + ext
	dst := filepath.Join(h.uploadDir, stored)
	if err := c.SaveUploadedFile(file, dst); err != nil {
		writeError(c, h.log, err)
		return
	}

	v, err := h.catalog.AddVariant(c.Request.Context(), productID, name, cleanup.ImageURL(stored))
	if err != nil {
		_ = os.Remove(dst)
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, toVariantResponse(*v))
}

// DeleteVariant godoc
// @Summary Удалить тип товара
// @Tags admin
// @Security BearerAuth
// @Param type_id path string true "ID типа"
// @Success 204
// @Failure 404 {object} dto.NotFoundErrorResponse
// @Router /admin/products/types/{type_id} [delete]
func (h *CatalogHandler) DeleteVariant(c *gin.Context) {
	id, ok := pathUUID(c, "type_id")
	if !ok {
		return
	}
	if err := h.catalog.DeleteVariant(c.Request.Context(), id); err != nil {
		writeError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}
