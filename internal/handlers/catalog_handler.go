package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"catalog-service/internal/models"
	"catalog-service/internal/repository"
)

type CatalogHandler struct {
	repo   *repository.CatalogRepository
	logger *logrus.Entry
}

func NewCatalogHandler(repo *repository.CatalogRepository, logger *logrus.Logger) *CatalogHandler {
	return &CatalogHandler{
		repo:   repo,
		logger: logger.WithField("component", "catalog-handler"),
	}
}

// GetProducts lists catalog products
// GET /api/v1/catalog/products
func (h *CatalogHandler) GetProducts(c *gin.Context) {
	page, limit := parsePagination(c)

	products, total, err := h.repo.GetProducts(c.Request.Context(), page, limit)
	if err != nil {
		h.logger.WithError(err).Error("Failed to list products")
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "FETCH_FAILED",
				Message: "Failed to fetch products",
			},
		})
		return
	}

	c.JSON(http.StatusOK, models.ProductListResponse{
		Success:    true,
		Data:       products,
		Pagination: buildPagination(page, limit, total),
	})
}

// GetProduct retrieves a single product
// GET /api/v1/catalog/products/:id
func (h *CatalogHandler) GetProduct(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "INVALID_ID",
				Message: "Product ID must be a valid UUID",
				Field:   "id",
			},
		})
		return
	}

	product, err := h.repo.GetProductByID(c.Request.Context(), productID)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, models.ErrorResponse{
				Success: false,
				Error: models.Error{
					Code:    "NOT_FOUND",
					Message: "Product not found",
				},
			})
			return
		}
		h.logger.WithError(err).Error("Failed to fetch product")
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "FETCH_FAILED",
				Message: "Failed to fetch product",
			},
		})
		return
	}

	c.JSON(http.StatusOK, models.ProductResponse{
		Success: true,
		Data:    product,
	})
}

// GetProductPrices lists the per-tenant price rows of a product
// GET /api/v1/catalog/products/:id/prices
func (h *CatalogHandler) GetProductPrices(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "INVALID_ID",
				Message: "Product ID must be a valid UUID",
				Field:   "id",
			},
		})
		return
	}

	prices, err := h.repo.GetTenantPricesForProduct(c.Request.Context(), productID)
	if err != nil {
		h.logger.WithError(err).Error("Failed to fetch tenant prices")
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "FETCH_FAILED",
				Message: "Failed to fetch tenant prices",
			},
		})
		return
	}

	c.JSON(http.StatusOK, models.TenantPriceListResponse{
		Success: true,
		Data:    prices,
	})
}

// GetCategories lists catalog categories
// GET /api/v1/catalog/categories
func (h *CatalogHandler) GetCategories(c *gin.Context) {
	page, limit := parsePagination(c)

	categories, total, err := h.repo.GetCategories(c.Request.Context(), page, limit)
	if err != nil {
		h.logger.WithError(err).Error("Failed to list categories")
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "FETCH_FAILED",
				Message: "Failed to fetch categories",
			},
		})
		return
	}

	c.JSON(http.StatusOK, models.CategoryListResponse{
		Success:    true,
		Data:       categories,
		Pagination: buildPagination(page, limit, total),
	})
}

func parsePagination(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return page, limit
}

func buildPagination(page, limit int, total int64) *models.PaginationInfo {
	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return &models.PaginationInfo{
		Page:        page,
		Limit:       limit,
		Total:       total,
		TotalPages:  totalPages,
		HasNext:     page < totalPages,
		HasPrevious: page > 1,
	}
}
