package importer

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"catalog-service/internal/models"
)

// Structural failures abort the whole batch before any row is processed.
// Everything else is reported per row inside the Result.
var (
	ErrNoTenantsSelected = errors.New("no tenants selected")
	ErrEmptySheet        = errors.New("sheet has no header row")
)

// MissingColumnError reports a required column that could not be resolved
// against the sheet's header row.
type MissingColumnError struct {
	Column string
	Label  string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("required column %q (header %q) not found", e.Column, e.Label)
}

// Row is one line of the uploaded sheet: raw cell values plus the 1-based
// line number used in error reporting. The header row is Line 1.
type Row struct {
	Line  int
	Cells []string
}

// ParsedRecord is the raw field set extracted from one row via the resolved
// column indices. It travels back to the caller inside ErrorRecords so a
// human can correct and resubmit just that row.
type ParsedRecord struct {
	Category    string `json:"category"`
	Brand       string `json:"brand,omitempty"`
	Subcategory string `json:"subcategory,omitempty"`
	Description string `json:"description"`
	ValueText   string `json:"valueText"`
	Status      string `json:"status,omitempty"`
}

// ValidatedItem is a record that passed validation
type ValidatedItem struct {
	Name         string
	CategoryName string
	Brand        string
	Subcategory  string
	Price        decimal.Decimal
	Active       bool
}

// PreviewItem describes a product a dry run would create
type PreviewItem struct {
	Name         string `json:"name"`
	CategoryName string `json:"categoryName"`
	Price        string `json:"price"`
	Active       bool   `json:"active"`
}

// ErrorRecord is a structured, correctable per-row failure
type ErrorRecord struct {
	Line      int          `json:"line"`
	Reason    string       `json:"reason"`
	RawFields ParsedRecord `json:"rawFields"`
}

// Result aggregates the outcome of one batch. Created/existing counts are
// per unique product name, not per row.
type Result struct {
	CreatedCount         int           `json:"createdCount"`
	ExistingCount        int           `json:"existingCount"`
	ErrorCount           int           `json:"errorCount"`
	CreatedNames         []string      `json:"createdNames"`
	ExistingNames        []string      `json:"existingNames"`
	ErrorMessages        []string      `json:"errorMessages"`
	PreviewItems         []PreviewItem `json:"previewItems,omitempty"`
	CreatedCategoryNames []string      `json:"createdCategoryNames,omitempty"`
	ErrorRecords         []ErrorRecord `json:"errorRecords,omitempty"`
	Message              string        `json:"message,omitempty"`

	// CreatedProducts carries the handles persisted by a confirm run so the
	// caller can publish per-product events. Not part of the response body.
	CreatedProducts []*models.Product `json:"-"`
}

func newResult() *Result {
	return &Result{
		CreatedNames:         make([]string, 0),
		ExistingNames:        make([]string, 0),
		ErrorMessages:        make([]string, 0),
		PreviewItems:         make([]PreviewItem, 0),
		CreatedCategoryNames: make([]string, 0),
		ErrorRecords:         make([]ErrorRecord, 0),
	}
}

func (r *Result) addError(line int, reason string, raw ParsedRecord) {
	r.ErrorCount++
	r.ErrorMessages = append(r.ErrorMessages, fmt.Sprintf("line %d: %s", line, reason))
	r.ErrorRecords = append(r.ErrorRecords, ErrorRecord{
		Line:      line,
		Reason:    reason,
		RawFields: raw,
	})
}
