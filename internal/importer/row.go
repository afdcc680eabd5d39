package importer

import (
	"strings"

	"github.com/shopspring/decimal"
)

// availableStatuses is the vocabulary that marks a row as active. An empty
// status also counts as active.
var availableStatuses = map[string]bool{
	"ativo":      true,
	"ativa":      true,
	"disponível": true,
	"disponivel": true,
	"sim":        true,
}

// parseRecord extracts the raw fields of one row at the resolved indices
func parseRecord(cells []string, columns map[string]int) ParsedRecord {
	return ParsedRecord{
		Category:    cellAt(cells, columns[ColCategory]),
		Brand:       cellAt(cells, columns[ColBrand]),
		Subcategory: cellAt(cells, columns[ColSubcategory]),
		Description: cellAt(cells, columns[ColDescription]),
		ValueText:   cellAt(cells, columns[ColValue]),
		Status:      cellAt(cells, columns[ColStatus]),
	}
}

func cellAt(cells []string, idx int) string {
	if idx < 0 || idx >= len(cells) {
		return ""
	}
	return strings.TrimSpace(cells[idx])
}

// isEmptyRow reports whether every cell in the row is blank. Such rows are
// trailing sheet noise and are skipped silently, not counted as errors.
func isEmptyRow(cells []string) bool {
	for _, cell := range cells {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// ValidateRecord checks one extracted record and builds the validated item.
// Checks run in order and short-circuit at the first failure; the returned
// reason is empty on success.
func ValidateRecord(rec ParsedRecord) (ValidatedItem, string) {
	if rec.Description == "" {
		return ValidatedItem{}, "empty description"
	}
	if rec.Category == "" {
		return ValidatedItem{}, "empty category"
	}
	if rec.ValueText == "" {
		return ValidatedItem{}, "empty value"
	}

	price, err := parsePrice(rec.ValueText)
	if err != nil {
		return ValidatedItem{}, "invalid price: " + rec.ValueText
	}
	if !price.IsPositive() {
		return ValidatedItem{}, "price must be greater than zero"
	}

	return ValidatedItem{
		Name:         rec.Description,
		CategoryName: rec.Category,
		Brand:        rec.Brand,
		Subcategory:  rec.Subcategory,
		Price:        price,
		Active:       isActiveStatus(rec.Status),
	}, ""
}

// parsePrice parses a decimal value, normalizing the comma decimal
// separator suppliers use ("12,50") to a dot.
func parsePrice(text string) (decimal.Decimal, error) {
	normalized := strings.ReplaceAll(strings.TrimSpace(text), ",", ".")
	return decimal.NewFromString(normalized)
}

func isActiveStatus(status string) bool {
	normalized := strings.ToLower(strings.TrimSpace(status))
	if normalized == "" {
		return true
	}
	return availableStatuses[normalized]
}

// normalizeName is the product identity key: lowercase with whitespace
// runs collapsed, so "Arroz 5kg" and " ARROZ  5KG " resolve to the same
// product.
func normalizeName(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}
