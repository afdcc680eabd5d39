package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"catalog-service/internal/models"
)

// Cache TTL constants
const (
	CategoryListCacheTTL = 15 * time.Minute
	ProductListCacheTTL  = 5 * time.Minute
)

var (
	ErrCategoryNotFound = errors.New("category not found")
	ErrProductNotFound  = errors.New("product not found")
)

// CatalogStore is the persistence contract the import engine and the handlers
// depend on. Category and product creation are tolerant of concurrent writers:
// a unique-constraint conflict resolves to the already-existing row.
type CatalogStore interface {
	FindCategoryByName(ctx context.Context, name string) (*models.Category, error)
	GetOrCreateCategoryByName(ctx context.Context, name string) (*models.Category, bool, error)
	ListProducts(ctx context.Context) ([]models.Product, error)
	FindProductByName(ctx context.Context, name string) (*models.Product, error)
	CreateProduct(ctx context.Context, product *models.Product) error
	FindTenantPricesForProduct(ctx context.Context, productID uuid.UUID, tenantIDs []string) ([]models.TenantPrice, error)
	BulkCreateTenantPrices(ctx context.Context, prices []*models.TenantPrice) error
}

type CatalogRepository struct {
	db    *gorm.DB
	redis *redis.Client
}

// Ensure CatalogRepository implements the store contract
var _ CatalogStore = (*CatalogRepository)(nil)

func NewCatalogRepository(db *gorm.DB, redisClient *redis.Client) *CatalogRepository {
	return &CatalogRepository{
		db:    db,
		redis: redisClient,
	}
}

// invalidateListCaches drops the cached category/product lists after writes
func (r *CatalogRepository) invalidateListCaches(ctx context.Context) {
	if r.redis == nil {
		return
	}
	keys, _ := r.redis.Keys(ctx, "catalog:list:*").Result()
	if len(keys) > 0 {
		r.redis.Del(ctx, keys...)
	}
}

// ============================================================================
// Category Operations
// ============================================================================

// FindCategoryByName retrieves a category by exact name
func (r *CatalogRepository) FindCategoryByName(ctx context.Context, name string) (*models.Category, error) {
	var category models.Category
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&category).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}
	return &category, nil
}

// GetOrCreateCategoryByName finds a category by exact name or creates it.
// Returns the category and a boolean indicating if it was newly created.
// Uses a transaction to handle race conditions with concurrent writers.
func (r *CatalogRepository) GetOrCreateCategoryByName(ctx context.Context, name string) (*models.Category, bool, error) {
	var category models.Category
	var created bool

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("name = ?", name).First(&category).Error
		if err == nil {
			created = false
			return nil
		}

		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("failed to lookup category: %w", err)
		}

		category = models.Category{
			Name:      name,
			Slug:      generateSlug(name),
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		}

		if err := tx.Create(&category).Error; err != nil {
			// Created by a concurrent request; fetch the winner
			if strings.Contains(err.Error(), "duplicate") {
				if findErr := tx.Where("name = ?", name).First(&category).Error; findErr == nil {
					created = false
					return nil
				}
			}
			return fmt.Errorf("failed to create category '%s': %w", name, err)
		}

		created = true
		return nil
	})

	if err != nil {
		return nil, false, err
	}

	if created {
		r.invalidateListCaches(ctx)
	}

	return &category, created, nil
}

// GetCategories retrieves all categories with caching
func (r *CatalogRepository) GetCategories(ctx context.Context, page, limit int) ([]models.Category, int64, error) {
	cacheKey := fmt.Sprintf("catalog:list:categories:%d:%d", page, limit)

	if r.redis != nil {
		val, err := r.redis.Get(ctx, cacheKey).Result()
		if err == nil {
			var cached struct {
				Categories []models.Category `json:"categories"`
				Total      int64             `json:"total"`
			}
			if err := json.Unmarshal([]byte(val), &cached); err == nil {
				return cached.Categories, cached.Total, nil
			}
		}
	}

	var categories []models.Category
	var total int64
	query := r.db.WithContext(ctx).Model(&models.Category{})
	query.Count(&total)
	err := query.Order("name ASC").Limit(limit).Offset((page - 1) * limit).Find(&categories).Error
	if err != nil {
		return nil, 0, err
	}

	if r.redis != nil {
		payload := struct {
			Categories []models.Category `json:"categories"`
			Total      int64             `json:"total"`
		}{categories, total}
		if data, err := json.Marshal(payload); err == nil {
			r.redis.Set(ctx, cacheKey, data, CategoryListCacheTTL)
		}
	}

	return categories, total, nil
}

// ============================================================================
// Product Operations
// ============================================================================

// ListProducts retrieves the full catalog in one query. The import engine
// primes its name index from this once per batch instead of querying per row.
func (r *CatalogRepository) ListProducts(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if err := r.db.WithContext(ctx).Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// FindProductByName retrieves a product by name (case-insensitive)
func (r *CatalogRepository) FindProductByName(ctx context.Context, name string) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).Where("LOWER(name) = LOWER(?)", name).First(&product).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return &product, nil
}

// CreateProduct creates a new product. A unique-constraint violation on the
// name surfaces as-is; callers recover by re-fetching with FindProductByName.
func (r *CatalogRepository) CreateProduct(ctx context.Context, product *models.Product) error {
	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}
	product.CreatedAt = time.Now()
	product.UpdatedAt = time.Now()

	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return err
	}
	r.invalidateListCaches(ctx)
	return nil
}

// GetProductByID retrieves a single product
func (r *CatalogRepository) GetProductByID(ctx context.Context, productID uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).Where("id = ?", productID).First(&product).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return &product, nil
}

// GetProducts retrieves products with pagination and caching
func (r *CatalogRepository) GetProducts(ctx context.Context, page, limit int) ([]models.Product, int64, error) {
	cacheKey := fmt.Sprintf("catalog:list:products:%d:%d", page, limit)

	if r.redis != nil {
		val, err := r.redis.Get(ctx, cacheKey).Result()
		if err == nil {
			var cached struct {
				Products []models.Product `json:"products"`
				Total    int64            `json:"total"`
			}
			if err := json.Unmarshal([]byte(val), &cached); err == nil {
				return cached.Products, cached.Total, nil
			}
		}
	}

	var products []models.Product
	var total int64
	query := r.db.WithContext(ctx).Model(&models.Product{})
	query.Count(&total)
	err := query.Order("name ASC").Limit(limit).Offset((page - 1) * limit).Find(&products).Error
	if err != nil {
		return nil, 0, err
	}

	if r.redis != nil {
		payload := struct {
			Products []models.Product `json:"products"`
			Total    int64            `json:"total"`
		}{products, total}
		if data, err := json.Marshal(payload); err == nil {
			r.redis.Set(ctx, cacheKey, data, ProductListCacheTTL)
		}
	}

	return products, total, nil
}

// ============================================================================
// Tenant Price Operations
// ============================================================================

// FindTenantPricesForProduct retrieves the existing price rows for a product
// restricted to the given tenants
func (r *CatalogRepository) FindTenantPricesForProduct(ctx context.Context, productID uuid.UUID, tenantIDs []string) ([]models.TenantPrice, error) {
	var prices []models.TenantPrice
	err := r.db.WithContext(ctx).
		Where("product_id = ? AND tenant_id IN ?", productID, tenantIDs).
		Find(&prices).Error
	if err != nil {
		return nil, err
	}
	return prices, nil
}

// BulkCreateTenantPrices inserts the given price rows in one statement.
// Callers are expected to have excluded (product, tenant) pairs that already
// exist; the unique index backstops that.
func (r *CatalogRepository) BulkCreateTenantPrices(ctx context.Context, prices []*models.TenantPrice) error {
	if len(prices) == 0 {
		return nil
	}
	now := time.Now()
	for _, price := range prices {
		if price.ID == uuid.Nil {
			price.ID = uuid.New()
		}
		price.CreatedAt = now
		price.UpdatedAt = now
	}
	return r.db.WithContext(ctx).Create(&prices).Error
}

// GetTenantPricesForProduct retrieves all price rows for a product
func (r *CatalogRepository) GetTenantPricesForProduct(ctx context.Context, productID uuid.UUID) ([]models.TenantPrice, error) {
	var prices []models.TenantPrice
	err := r.db.WithContext(ctx).Where("product_id = ?", productID).Order("tenant_id ASC").Find(&prices).Error
	if err != nil {
		return nil, err
	}
	return prices, nil
}

// generateSlug creates a URL-friendly slug from a name
func generateSlug(name string) string {
	slug := strings.ToLower(name)
	slug = strings.ReplaceAll(slug, " ", "-")
	var result strings.Builder
	for _, r := range slug {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' {
			result.WriteRune(r)
		}
	}
	return result.String()
}
