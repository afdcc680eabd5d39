package handlers

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"

	"catalog-service/internal/events"
	"catalog-service/internal/importer"
	"catalog-service/internal/middleware"
	"catalog-service/internal/models"
)

// EventPublisher is the event surface the import endpoints need
type EventPublisher interface {
	PublishProductCreated(product *models.Product, tenantIDs []string)
	PublishImportCompleted(tenantIDs []string, created, existing, errors int)
}

var _ EventPublisher = (*events.Publisher)(nil)

type ImportHandler struct {
	service   *importer.Service
	publisher EventPublisher
	logger    *logrus.Entry
}

func NewImportHandler(service *importer.Service, publisher EventPublisher, logger *logrus.Logger) *ImportHandler {
	return &ImportHandler{
		service:   service,
		publisher: publisher,
		logger:    logger.WithField("component", "import-handler"),
	}
}

// GetImportTemplate returns the import template definition or file
// GET /api/v1/catalog/import/template
func (h *ImportHandler) GetImportTemplate(c *gin.Context) {
	format := c.DefaultQuery("format", "json")

	template := models.CatalogImportTemplate()

	switch format {
	case "csv":
		h.generateCSVTemplate(c, template)
	case "xlsx":
		h.generateXLSXTemplate(c, template)
	default:
		c.JSON(http.StatusOK, gin.H{
			"success":  true,
			"template": template,
		})
	}
}

// generateCSVTemplate generates and downloads a CSV template (headers only)
func (h *ImportHandler) generateCSVTemplate(c *gin.Context, template models.ImportTemplate) {
	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", "attachment; filename=catalog_import_template.csv")

	writer := csv.NewWriter(c.Writer)
	defer writer.Flush()

	headers := make([]string, len(template.Columns))
	for i, col := range template.Columns {
		headers[i] = col.Name
	}
	writer.Write(headers)
}

// generateXLSXTemplate generates and downloads an Excel template
func (h *ImportHandler) generateXLSXTemplate(c *gin.Context, template models.ImportTemplate) {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Catálogo"
	f.SetSheetName("Sheet1", sheetName)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
		Border: []excelize.Border{
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})

	requiredStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"C65911"}, Pattern: 1},
		Border: []excelize.Border{
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})

	for i, col := range template.Columns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		headerText := col.Name
		if col.Required {
			headerText = col.Name + " *"
		}
		f.SetCellValue(sheetName, cell, headerText)

		if col.Required {
			f.SetCellStyle(sheetName, cell, cell, requiredStyle)
		} else {
			f.SetCellStyle(sheetName, cell, cell, headerStyle)
		}

		colName, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(sheetName, colName, colName, 20)
	}

	// Instructions sheet with one row per column
	f.NewSheet("Instruções")
	f.SetCellValue("Instruções", "A1", "Coluna")
	f.SetCellValue("Instruções", "B1", "Descrição")
	f.SetCellValue("Instruções", "C1", "Obrigatória")
	f.SetCellValue("Instruções", "D1", "Exemplo")
	for i, col := range template.Columns {
		row := i + 2
		required := "Não"
		if col.Required {
			required = "Sim"
		}
		f.SetCellValue("Instruções", fmt.Sprintf("A%d", row), col.Name)
		f.SetCellValue("Instruções", fmt.Sprintf("B%d", row), col.Description)
		f.SetCellValue("Instruções", fmt.Sprintf("C%d", row), required)
		f.SetCellValue("Instruções", fmt.Sprintf("D%d", row), col.Example)
	}
	f.SetColWidth("Instruções", "A", "A", 20)
	f.SetColWidth("Instruções", "B", "B", 60)
	f.SetColWidth("Instruções", "C", "C", 12)
	f.SetColWidth("Instruções", "D", "D", 30)

	sheetIdx, _ := f.GetSheetIndex(sheetName)
	f.SetActiveSheet(sheetIdx)

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", "attachment; filename=catalog_import_template.xlsx")

	f.Write(c.Writer)
}

// ImportCatalog imports products from a CSV or Excel file
// POST /api/v1/catalog/import
//
// Form fields: file (the sheet), tenantIds (comma-separated), confirm
// ("true" writes, anything else previews), columnMapping (optional JSON
// object mapping logical columns to header labels).
func (h *ImportHandler) ImportCatalog(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "FILE_REQUIRED",
				Message: "Please upload a CSV or Excel file",
			},
		})
		return
	}
	defer file.Close()

	tenantIDs := parseTenantIDs(c.PostForm("tenantIds"))
	confirm := c.DefaultPostForm("confirm", "false") == "true"

	var columnMapping map[string]string
	if raw := c.PostForm("columnMapping"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &columnMapping); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{
				Success: false,
				Error: models.Error{
					Code:    "INVALID_COLUMN_MAPPING",
					Message: "columnMapping must be a JSON object of column to header label",
					Field:   "columnMapping",
				},
			})
			return
		}
	}

	filename := strings.ToLower(header.Filename)
	var rows []importer.Row
	var parseErr error

	switch {
	case strings.HasSuffix(filename, ".csv"):
		rows, parseErr = parseCSV(file)
	case strings.HasSuffix(filename, ".xlsx"):
		rows, parseErr = parseXLSX(file)
	default:
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "INVALID_FORMAT",
				Message: "Only CSV and XLSX files are supported",
			},
		})
		return
	}

	if parseErr != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "PARSE_ERROR",
				Message: parseErr.Error(),
			},
		})
		return
	}

	result, err := h.service.Run(c.Request.Context(), rows, tenantIDs, confirm, columnMapping)
	if err != nil {
		h.respondRunError(c, err)
		return
	}

	if confirm {
		middleware.RecordImportOutcomes(result.CreatedCount, result.ExistingCount, result.ErrorCount)
		h.publishResult(result, tenantIDs)
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"result":  result,
	})
}

// ImportRecordRequest is the body for the single-record correction endpoint
type ImportRecordRequest struct {
	Line      int                   `json:"line"`
	Record    importer.ParsedRecord `json:"record" binding:"required"`
	TenantIDs []string              `json:"tenantIds" binding:"required"`
}

// ImportCatalogRecord imports one corrected record
// POST /api/v1/catalog/import/record
//
// The body carries the rawFields of a previously failed row, corrected by
// the caller. Always writes; there is no preview for a single record.
func (h *ImportHandler) ImportCatalogRecord(c *gin.Context) {
	var req ImportRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "INVALID_REQUEST",
				Message: err.Error(),
			},
		})
		return
	}

	result, err := h.service.ImportRecord(c.Request.Context(), req.Line, req.Record, req.TenantIDs)
	if err != nil {
		h.respondRunError(c, err)
		return
	}

	if result.CreatedCount > 0 || result.ExistingCount > 0 {
		h.publishResult(result, req.TenantIDs)
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"result":  result,
	})
}

// publishResult emits one product.created event per persisted product plus
// the batch summary
func (h *ImportHandler) publishResult(result *importer.Result, tenantIDs []string) {
	if h.publisher == nil {
		return
	}
	for _, product := range result.CreatedProducts {
		h.publisher.PublishProductCreated(product, tenantIDs)
	}
	h.publisher.PublishImportCompleted(tenantIDs, result.CreatedCount, result.ExistingCount, result.ErrorCount)
}

// respondRunError maps structural import errors to 400 and everything else
// to 500
func (h *ImportHandler) respondRunError(c *gin.Context, err error) {
	var missing *importer.MissingColumnError
	switch {
	case errors.Is(err, importer.ErrNoTenantsSelected):
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "NO_TENANTS_SELECTED",
				Message: "At least one tenant must be selected",
				Field:   "tenantIds",
			},
		})
	case errors.Is(err, importer.ErrEmptySheet):
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "EMPTY_FILE",
				Message: "The file contains no rows",
			},
		})
	case errors.As(err, &missing):
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "MISSING_COLUMN",
				Message: missing.Error(),
				Field:   missing.Column,
			},
		})
	default:
		h.logger.WithError(err).Error("Import failed")
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "IMPORT_FAILED",
				Message: "Failed to process import",
			},
		})
	}
}

// parseTenantIDs splits the comma-separated tenantIds form field
func parseTenantIDs(raw string) []string {
	parts := strings.Split(raw, ",")
	tenantIDs := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			tenantIDs = append(tenantIDs, trimmed)
		}
	}
	return tenantIDs
}

// parseCSV reads a CSV file into rows, keeping 1-based line numbers. The
// header row is rows[0].
func parseCSV(file io.Reader) ([]importer.Row, error) {
	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	var rows []importer.Row
	line := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading line %d: %w", line+1, err)
		}
		line++
		rows = append(rows, importer.Row{Line: line, Cells: record})
	}

	return rows, nil
}

// parseXLSX reads the first sheet of an Excel file into rows
func parseXLSX(file io.Reader) ([]importer.Row, error) {
	f, err := excelize.OpenReader(file)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("no sheets found in Excel file")
	}

	excelRows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet: %w", err)
	}

	rows := make([]importer.Row, 0, len(excelRows))
	for i, cells := range excelRows {
		rows = append(rows, importer.Row{Line: i + 1, Cells: cells})
	}

	return rows, nil
}
