package importer

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestValidateRecord_ChecksInOrder(t *testing.T) {
	tests := []struct {
		name   string
		rec    ParsedRecord
		reason string
	}{
		{
			name:   "empty description first",
			rec:    ParsedRecord{Description: "", Category: "", ValueText: ""},
			reason: "empty description",
		},
		{
			name:   "empty category second",
			rec:    ParsedRecord{Description: "Arroz 5kg", Category: "", ValueText: ""},
			reason: "empty category",
		},
		{
			name:   "empty value third",
			rec:    ParsedRecord{Description: "Arroz 5kg", Category: "Grãos", ValueText: ""},
			reason: "empty value",
		},
		{
			name:   "unparseable value",
			rec:    ParsedRecord{Description: "Arroz 5kg", Category: "Grãos", ValueText: "R$ dez"},
			reason: "invalid price: R$ dez",
		},
		{
			name:   "zero value",
			rec:    ParsedRecord{Description: "Arroz 5kg", Category: "Grãos", ValueText: "0,00"},
			reason: "price must be greater than zero",
		},
		{
			name:   "negative value",
			rec:    ParsedRecord{Description: "Arroz 5kg", Category: "Grãos", ValueText: "-1,50"},
			reason: "price must be greater than zero",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, reason := ValidateRecord(tt.rec)
			assert.Equal(t, tt.reason, reason)
		})
	}
}

func TestValidateRecord_CommaAndDotAreEquivalent(t *testing.T) {
	comma, reasonComma := ValidateRecord(ParsedRecord{
		Description: "Arroz 5kg", Category: "Grãos", ValueText: "12,50",
	})
	dot, reasonDot := ValidateRecord(ParsedRecord{
		Description: "Arroz 5kg", Category: "Grãos", ValueText: "12.50",
	})

	assert.Empty(t, reasonComma)
	assert.Empty(t, reasonDot)
	assert.True(t, comma.Price.Equal(dot.Price))
	assert.Equal(t, "12.50", comma.Price.StringFixed(2))
}

func TestValidateRecord_BuildsItem(t *testing.T) {
	item, reason := ValidateRecord(ParsedRecord{
		Description: "Arroz 5kg",
		Category:    "Grãos",
		Brand:       "Tio João",
		Subcategory: "Arroz",
		ValueText:   "25,90",
		Status:      "Inativo",
	})

	assert.Empty(t, reason)
	assert.Equal(t, "Arroz 5kg", item.Name)
	assert.Equal(t, "Grãos", item.CategoryName)
	assert.Equal(t, "Tio João", item.Brand)
	assert.Equal(t, "Arroz", item.Subcategory)
	assert.True(t, item.Price.Equal(decimal.RequireFromString("25.90")))
	assert.False(t, item.Active)
}

func TestIsActiveStatus(t *testing.T) {
	active := []string{"", "ativo", "Ativo", "ATIVA", "disponível", "Disponivel", "sim", " Sim "}
	for _, status := range active {
		assert.True(t, isActiveStatus(status), "status %q should be active", status)
	}

	inactive := []string{"inativo", "não", "indisponível", "0", "esgotado"}
	for _, status := range inactive {
		assert.False(t, isActiveStatus(status), "status %q should be inactive", status)
	}
}

func TestNormalizeName(t *testing.T) {
	assert.Equal(t, normalizeName("Arroz 5kg"), normalizeName("  ARROZ   5KG "))
	assert.Equal(t, "arroz 5kg", normalizeName("Arroz\t5kg"))
	assert.NotEqual(t, normalizeName("Arroz 5kg"), normalizeName("Arroz 1kg"))
}

func TestParseRecord_OutOfRangeAndUnresolved(t *testing.T) {
	columns := map[string]int{
		ColDescription: 0,
		ColCategory:    1,
		ColValue:       5,
		ColBrand:       -1,
		ColSubcategory: -1,
		ColStatus:      -1,
	}

	rec := parseRecord([]string{" Arroz 5kg ", "Grãos"}, columns)

	assert.Equal(t, "Arroz 5kg", rec.Description)
	assert.Equal(t, "Grãos", rec.Category)
	assert.Equal(t, "", rec.ValueText)
	assert.Equal(t, "", rec.Brand)
}

func TestIsEmptyRow(t *testing.T) {
	assert.True(t, isEmptyRow(nil))
	assert.True(t, isEmptyRow([]string{"", "  ", "\t"}))
	assert.False(t, isEmptyRow([]string{"", "x", ""}))
}
