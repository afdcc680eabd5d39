package importer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveColumns_DefaultLabels(t *testing.T) {
	header := []string{"Descrição", "Categoria", "Valor", "Marca", "Subcategoria", "Status"}

	columns, err := resolveColumns(header, nil)

	assert.NoError(t, err)
	assert.Equal(t, 0, columns[ColDescription])
	assert.Equal(t, 1, columns[ColCategory])
	assert.Equal(t, 2, columns[ColValue])
	assert.Equal(t, 3, columns[ColBrand])
	assert.Equal(t, 4, columns[ColSubcategory])
	assert.Equal(t, 5, columns[ColStatus])
}

func TestResolveColumns_SubstringAndCaseInsensitive(t *testing.T) {
	header := []string{"DESCRIÇÃO DO PRODUTO", "categ", "Valor Unitário (R$)"}

	columns, err := resolveColumns(header, nil)

	assert.NoError(t, err)
	assert.Equal(t, 0, columns[ColDescription])
	assert.Equal(t, 1, columns[ColCategory])
	assert.Equal(t, 2, columns[ColValue])
	assert.Equal(t, -1, columns[ColBrand])
	assert.Equal(t, -1, columns[ColStatus])
	assert.Equal(t, -1, columns[ColSubcategory])
}

func TestResolveColumns_SubcategoryDoesNotStealCategory(t *testing.T) {
	header := []string{"Subcategoria", "Descrição", "Categoria", "Valor"}

	columns, err := resolveColumns(header, nil)

	assert.NoError(t, err)
	assert.Equal(t, 2, columns[ColCategory])
	assert.Equal(t, 0, columns[ColSubcategory])
}

func TestResolveColumns_DecoratedSubcategoryDoesNotStealCategory(t *testing.T) {
	header := []string{"Descrição", "Categoria Principal", "Subcategoria do Item", "Valor"}

	columns, err := resolveColumns(header, nil)

	assert.NoError(t, err)
	assert.Equal(t, 1, columns[ColCategory])
	assert.Equal(t, 2, columns[ColSubcategory])
}

func TestResolveColumns_TruncatedCategoryBelongsToCategory(t *testing.T) {
	header := []string{"Descrição", "categ", "Valor"}

	columns, err := resolveColumns(header, nil)

	assert.NoError(t, err)
	assert.Equal(t, 1, columns[ColCategory])
	assert.Equal(t, -1, columns[ColSubcategory])
}

func TestResolveColumns_EachHeaderClaimedOnce(t *testing.T) {
	header := []string{"Descrição", "Categoria", "Valor"}

	columns, err := resolveColumns(header, nil)

	assert.NoError(t, err)
	seen := make(map[int]string)
	for logical, idx := range columns {
		if idx < 0 {
			continue
		}
		assert.NotContains(t, seen, idx, "column %d claimed by %s and %s", idx, seen[idx], logical)
		seen[idx] = logical
	}
}

func TestResolveColumns_MappingOverride(t *testing.T) {
	header := []string{"Produto", "Setor", "Preço"}
	mapping := map[string]string{
		ColDescription: "produto",
		ColCategory:    "setor",
		ColValue:       "preço",
	}

	columns, err := resolveColumns(header, mapping)

	assert.NoError(t, err)
	assert.Equal(t, 0, columns[ColDescription])
	assert.Equal(t, 1, columns[ColCategory])
	assert.Equal(t, 2, columns[ColValue])
}

func TestResolveColumns_MissingRequired(t *testing.T) {
	header := []string{"Descrição", "Valor"}

	columns, err := resolveColumns(header, nil)

	assert.Nil(t, columns)
	var missing *MissingColumnError
	assert.ErrorAs(t, err, &missing)
	assert.Equal(t, ColCategory, missing.Column)
	assert.Equal(t, "categoria", missing.Label)
}

func TestResolveColumns_MissingRequiredReportsOverrideLabel(t *testing.T) {
	header := []string{"Descrição", "Categoria", "Valor"}
	mapping := map[string]string{ColValue: "custo"}

	_, err := resolveColumns(header, mapping)

	var missing *MissingColumnError
	assert.ErrorAs(t, err, &missing)
	assert.Equal(t, ColValue, missing.Column)
	assert.Equal(t, "custo", missing.Label)
}

func TestResolveColumns_SkipsBlankHeaderCells(t *testing.T) {
	header := []string{"", "Descrição", "  ", "Categoria", "Valor"}

	columns, err := resolveColumns(header, nil)

	assert.NoError(t, err)
	assert.Equal(t, 1, columns[ColDescription])
	assert.Equal(t, 3, columns[ColCategory])
	assert.Equal(t, 4, columns[ColValue])
}
