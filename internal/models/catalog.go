package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Category represents a catalog category shared by all tenants
type Category struct {
	ID          uuid.UUID       `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Name        string          `json:"name" gorm:"not null;uniqueIndex:idx_categories_name"`
	Slug        string          `json:"slug" gorm:"not null"`
	Description *string         `json:"description,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
	DeletedAt   *gorm.DeletedAt `json:"deletedAt,omitempty" gorm:"index"`
}

// Product represents a catalog product shared by all tenants.
// Name uniqueness is case-insensitive (functional index on LOWER(name)),
// which is what the import engine relies on for identity resolution.
type Product struct {
	ID          uuid.UUID       `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	CategoryID  uuid.UUID       `json:"categoryId" gorm:"type:uuid;not null;index"`
	Name        string          `json:"name" gorm:"not null"`
	Brand       *string         `json:"brand,omitempty" gorm:"index"`
	Subcategory *string         `json:"subcategory,omitempty"`
	Active      bool            `json:"active" gorm:"not null;default:true;index"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
	DeletedAt   *gorm.DeletedAt `json:"deletedAt,omitempty" gorm:"index"`
}

// TenantPrice is the per-tenant price row for a product.
// Invariant: at most one row per (product, tenant) pair.
type TenantPrice struct {
	ID         uuid.UUID       `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	ProductID  uuid.UUID       `json:"productId" gorm:"type:uuid;not null;uniqueIndex:idx_tenant_prices_product_tenant"`
	TenantID   string          `json:"tenantId" gorm:"not null;uniqueIndex:idx_tenant_prices_product_tenant;index:idx_tenant_prices_tenant"`
	Price      string          `json:"price" gorm:"not null"`
	PromoPrice *string         `json:"promoPrice,omitempty"`
	Stock      int             `json:"stock" gorm:"not null;default:0"`
	CreatedAt  time.Time       `json:"createdAt"`
	UpdatedAt  time.Time       `json:"updatedAt"`
	DeletedAt  *gorm.DeletedAt `json:"deletedAt,omitempty" gorm:"index"`
}

// Response types
type PaginationInfo struct {
	Page        int   `json:"page"`
	Limit       int   `json:"limit"`
	Total       int64 `json:"total"`
	TotalPages  int   `json:"totalPages"`
	HasNext     bool  `json:"hasNext"`
	HasPrevious bool  `json:"hasPrevious"`
}

type ProductResponse struct {
	Success bool     `json:"success"`
	Data    *Product `json:"data"`
	Message *string  `json:"message,omitempty"`
}

type ProductListResponse struct {
	Success    bool            `json:"success"`
	Data       []Product       `json:"data"`
	Pagination *PaginationInfo `json:"pagination"`
}

type CategoryListResponse struct {
	Success    bool            `json:"success"`
	Data       []Category      `json:"data"`
	Pagination *PaginationInfo `json:"pagination"`
}

type TenantPriceListResponse struct {
	Success bool          `json:"success"`
	Data    []TenantPrice `json:"data"`
}

type ErrorResponse struct {
	Success   bool   `json:"success"`
	Error     Error  `json:"error"`
	Timestamp string `json:"timestamp,omitempty"`
	RequestID string `json:"requestId,omitempty"`
}

type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

type SuccessResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message *string     `json:"message,omitempty"`
}

// TableName returns the table name for the Category model
func (Category) TableName() string {
	return "categories"
}

// TableName returns the table name for the Product model
func (Product) TableName() string {
	return "products"
}

// TableName returns the table name for the TenantPrice model
func (TenantPrice) TableName() string {
	return "tenant_prices"
}
