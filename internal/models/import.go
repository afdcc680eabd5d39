package models

// ImportFormat represents the file format for import
type ImportFormat string

const (
	ImportFormatCSV  ImportFormat = "csv"
	ImportFormatXLSX ImportFormat = "xlsx"
)

// ImportTemplateColumn defines a column in the import template
type ImportTemplateColumn struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Required    bool   `json:"required"`
	Type        string `json:"type"` // string, number, boolean
	Example     string `json:"example"`
}

// ImportTemplate defines the structure of an import template
type ImportTemplate struct {
	Entity  string                 `json:"entity"`
	Version string                 `json:"version"`
	Columns []ImportTemplateColumn `json:"columns"`
}

// CatalogImportColumns returns the column definitions for catalog import.
// Header labels follow the price lists suppliers actually send, which are in
// Portuguese; the header resolver matches them by substring so decorated
// headers ("Descrição do Produto") still resolve.
func CatalogImportColumns() []ImportTemplateColumn {
	return []ImportTemplateColumn{
		{Name: "descrição", Description: "Product name/description", Required: true, Type: "string", Example: "Arroz Branco 5kg"},
		{Name: "categoria", Description: "Category name - auto-creates if not exists", Required: true, Type: "string", Example: "Grãos"},
		{Name: "valor", Description: "Unit price (comma or dot decimal separator)", Required: true, Type: "number", Example: "20,00"},
		{Name: "marca", Description: "Brand name", Required: false, Type: "string", Example: "Tio João"},
		{Name: "subcategoria", Description: "Subcategory name", Required: false, Type: "string", Example: "Arroz"},
		{Name: "status", Description: "Availability (ativo/disponível/indisponível)", Required: false, Type: "string", Example: "disponível"},
	}
}

// CatalogImportTemplate returns the template definition for catalog import
func CatalogImportTemplate() ImportTemplate {
	return ImportTemplate{
		Entity:  "catalog",
		Version: "1.0",
		Columns: CatalogImportColumns(),
	}
}
