package importer

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"catalog-service/internal/models"
	"catalog-service/internal/repository"
)

// Writer is the creation capability of one run. Preview and confirm share
// the whole pipeline; the only difference is which Writer is injected, so
// the preview's predicted counts match what confirm will do by construction.
type Writer interface {
	CreateCategory(ctx context.Context, name string) (*models.Category, error)
	CreateProduct(ctx context.Context, item ValidatedItem, categoryID uuid.UUID) (*models.Product, error)
	CreateTenantPrices(ctx context.Context, product *models.Product, tenantIDs []string, price decimal.Decimal) (int, error)
}

// dryWriter performs no writes. It hands back in-memory placeholders that
// carry a name but no durable identity.
type dryWriter struct{}

func (dryWriter) CreateCategory(_ context.Context, name string) (*models.Category, error) {
	return &models.Category{Name: name}, nil
}

func (dryWriter) CreateProduct(_ context.Context, item ValidatedItem, categoryID uuid.UUID) (*models.Product, error) {
	product := &models.Product{
		CategoryID: categoryID,
		Name:       item.Name,
		Active:     item.Active,
	}
	if item.Brand != "" {
		product.Brand = &item.Brand
	}
	if item.Subcategory != "" {
		product.Subcategory = &item.Subcategory
	}
	return product, nil
}

func (dryWriter) CreateTenantPrices(_ context.Context, _ *models.Product, _ []string, _ decimal.Decimal) (int, error) {
	return 0, nil
}

// storeWriter performs real writes through the catalog store
type storeWriter struct {
	store repository.CatalogStore
}

func (w *storeWriter) CreateCategory(ctx context.Context, name string) (*models.Category, error) {
	category, _, err := w.store.GetOrCreateCategoryByName(ctx, name)
	return category, err
}

func (w *storeWriter) CreateProduct(ctx context.Context, item ValidatedItem, categoryID uuid.UUID) (*models.Product, error) {
	product := &models.Product{
		CategoryID: categoryID,
		Name:       item.Name,
		Active:     item.Active,
	}
	if item.Brand != "" {
		product.Brand = &item.Brand
	}
	if item.Subcategory != "" {
		product.Subcategory = &item.Subcategory
	}
	if err := w.store.CreateProduct(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// CreateTenantPrices creates one price row per selected tenant that does
// not already have one. Existing rows are never touched, so re-running the
// same import is a no-op for already-priced tenants.
func (w *storeWriter) CreateTenantPrices(ctx context.Context, product *models.Product, tenantIDs []string, price decimal.Decimal) (int, error) {
	existing, err := w.store.FindTenantPricesForProduct(ctx, product.ID, tenantIDs)
	if err != nil {
		return 0, err
	}

	priced := make(map[string]bool, len(existing))
	for _, row := range existing {
		priced[row.TenantID] = true
	}

	missing := make([]*models.TenantPrice, 0, len(tenantIDs))
	for _, tenantID := range tenantIDs {
		if priced[tenantID] {
			continue
		}
		missing = append(missing, &models.TenantPrice{
			ProductID: product.ID,
			TenantID:  tenantID,
			Price:     price.StringFixed(2),
			Stock:     0,
		})
	}

	if len(missing) == 0 {
		return 0, nil
	}
	if err := w.store.BulkCreateTenantPrices(ctx, missing); err != nil {
		return 0, err
	}
	return len(missing), nil
}
