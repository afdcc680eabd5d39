package importer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"catalog-service/internal/models"
	"catalog-service/internal/repository"
)

// FallbackCategoryName receives products whose category name arrives blank.
// Row validation rejects blank categories before resolution runs, so on the
// batch and correction paths this is a guard for callers that hand
// resolveCategory an unvalidated name.
const FallbackCategoryName = "Sem categoria"

// Service runs catalog import batches against the store. The same pipeline
// serves both preview and confirm; the mode only selects the Writer.
type Service struct {
	store  repository.CatalogStore
	logger *logrus.Entry
}

func NewService(store repository.CatalogStore, logger *logrus.Logger) *Service {
	return &Service{
		store:  store,
		logger: logger.WithField("component", "importer"),
	}
}

// batchState carries the per-batch caches. The product index is primed once
// from the store; batchNew collapses duplicate rows onto the first creation;
// countedExisting keeps existing counts at one per unique name.
type batchState struct {
	index           map[string]*models.Product
	batchNew        map[string]*models.Product
	countedExisting map[string]bool
	categories      map[string]*models.Category
	newCategories   map[string]bool
}

func newBatchState() *batchState {
	return &batchState{
		index:           make(map[string]*models.Product),
		batchNew:        make(map[string]*models.Product),
		countedExisting: make(map[string]bool),
		categories:      make(map[string]*models.Category),
		newCategories:   make(map[string]bool),
	}
}

// Run processes one uploaded sheet. rows[0] is the header row; tenantIDs are
// the tenants every imported product gets a price row for. With confirm false
// nothing is written and the Result predicts what a confirm would do.
//
// Row-level failures land in the Result and never abort the batch. The only
// returned errors are structural: no tenants, no header, or a required
// column that cannot be resolved.
func (s *Service) Run(ctx context.Context, rows []Row, tenantIDs []string, confirm bool, columnMapping map[string]string) (*Result, error) {
	if len(tenantIDs) == 0 {
		return nil, ErrNoTenantsSelected
	}
	if len(rows) == 0 {
		return nil, ErrEmptySheet
	}

	columns, err := resolveColumns(rows[0].Cells, columnMapping)
	if err != nil {
		return nil, err
	}

	var writer Writer = dryWriter{}
	if confirm {
		writer = &storeWriter{store: s.store}
	}

	state, err := s.primeState(ctx)
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"rows":    len(rows) - 1,
		"tenants": len(tenantIDs),
		"confirm": confirm,
	}).Info("Starting catalog import")

	result := newResult()
	for _, row := range rows[1:] {
		if isEmptyRow(row.Cells) {
			continue
		}
		s.processRow(ctx, writer, state, result, row, columns, tenantIDs, confirm)
	}

	if confirm {
		result.Message = fmt.Sprintf("import finished: %d created, %d existing, %d errors",
			result.CreatedCount, result.ExistingCount, result.ErrorCount)
	}

	s.logger.WithFields(logrus.Fields{
		"created":  result.CreatedCount,
		"existing": result.ExistingCount,
		"errors":   result.ErrorCount,
		"preview":  len(result.PreviewItems),
		"confirm":  confirm,
	}).Info("Catalog import finished")

	return result, nil
}

func (s *Service) primeState(ctx context.Context) (*batchState, error) {
	products, err := s.store.ListProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load product index: %w", err)
	}

	state := newBatchState()
	for i := range products {
		state.index[normalizeName(products[i].Name)] = &products[i]
	}
	return state, nil
}

func (s *Service) processRow(ctx context.Context, writer Writer, state *batchState, result *Result, row Row, columns map[string]int, tenantIDs []string, confirm bool) {
	rec := parseRecord(row.Cells, columns)

	item, reason := ValidateRecord(rec)
	if reason != "" {
		result.addError(row.Line, reason, rec)
		return
	}

	category, err := s.resolveCategory(ctx, writer, state, result, item.CategoryName)
	if err != nil {
		s.logger.WithError(err).WithField("line", row.Line).Error("Failed to resolve category")
		result.addError(row.Line, "failed to resolve category: "+err.Error(), rec)
		return
	}

	product, err := s.resolveProduct(ctx, writer, state, result, item, category, confirm)
	if err != nil {
		s.logger.WithError(err).WithField("line", row.Line).Error("Failed to create product")
		result.addError(row.Line, "failed to create product: "+err.Error(), rec)
		return
	}

	if _, err := writer.CreateTenantPrices(ctx, product, tenantIDs, item.Price); err != nil {
		s.logger.WithError(err).WithField("line", row.Line).Error("Failed to create tenant prices")
		result.addError(row.Line, "failed to create tenant prices: "+err.Error(), rec)
	}
}

// resolveCategory finds or creates the category for one row. Resolutions are
// cached per batch so each distinct name hits the store once, and a created
// name is reported once no matter how many rows referenced it.
func (s *Service) resolveCategory(ctx context.Context, writer Writer, state *batchState, result *Result, name string) (*models.Category, error) {
	if name == "" {
		name = FallbackCategoryName
	}

	if cached, ok := state.categories[name]; ok {
		return cached, nil
	}

	category, err := s.store.FindCategoryByName(ctx, name)
	if err != nil {
		if !errors.Is(err, repository.ErrCategoryNotFound) {
			return nil, err
		}
		category, err = writer.CreateCategory(ctx, name)
		if err != nil {
			return nil, err
		}
		if !state.newCategories[name] {
			state.newCategories[name] = true
			result.CreatedCategoryNames = append(result.CreatedCategoryNames, name)
		}
	}

	state.categories[name] = category
	return category, nil
}

// resolveProduct maps one validated row onto a product. Identity is the
// normalized name, checked against the primed index first and then against
// products already created earlier in this batch, so a name repeated across
// rows yields exactly one creation and one count.
func (s *Service) resolveProduct(ctx context.Context, writer Writer, state *batchState, result *Result, item ValidatedItem, category *models.Category, confirm bool) (*models.Product, error) {
	key := normalizeName(item.Name)

	if existing, ok := state.index[key]; ok {
		s.countExisting(state, result, key, existing.Name)
		return existing, nil
	}
	if pending, ok := state.batchNew[key]; ok {
		return pending, nil
	}

	product, err := writer.CreateProduct(ctx, item, category.ID)
	if err != nil {
		if !isDuplicateError(err) {
			return nil, err
		}
		// A concurrent import created it between priming and now
		winner, findErr := s.store.FindProductByName(ctx, item.Name)
		if findErr != nil {
			return nil, err
		}
		state.index[key] = winner
		s.countExisting(state, result, key, winner.Name)
		return winner, nil
	}

	state.batchNew[key] = product
	if confirm {
		result.CreatedCount++
		result.CreatedNames = append(result.CreatedNames, item.Name)
		result.CreatedProducts = append(result.CreatedProducts, product)
	} else {
		result.PreviewItems = append(result.PreviewItems, PreviewItem{
			Name:         item.Name,
			CategoryName: category.Name,
			Price:        item.Price.StringFixed(2),
			Active:       item.Active,
		})
	}
	return product, nil
}

func (s *Service) countExisting(state *batchState, result *Result, key, name string) {
	if state.countedExisting[key] {
		return
	}
	state.countedExisting[key] = true
	result.ExistingCount++
	result.ExistingNames = append(result.ExistingNames, name)
}

// ImportRecord imports a single corrected record, always writing. line is
// the sheet line the record came from so a second failure still points at
// the original row.
func (s *Service) ImportRecord(ctx context.Context, line int, rec ParsedRecord, tenantIDs []string) (*Result, error) {
	if len(tenantIDs) == 0 {
		return nil, ErrNoTenantsSelected
	}

	writer := &storeWriter{store: s.store}
	result := newResult()

	item, reason := ValidateRecord(rec)
	if reason != "" {
		result.addError(line, reason, rec)
		return result, nil
	}

	state := newBatchState()

	if existing, err := s.store.FindProductByName(ctx, item.Name); err == nil {
		state.index[normalizeName(item.Name)] = existing
	} else if !errors.Is(err, repository.ErrProductNotFound) {
		return nil, err
	}

	category, err := s.resolveCategory(ctx, writer, state, result, item.CategoryName)
	if err != nil {
		result.addError(line, "failed to resolve category: "+err.Error(), rec)
		return result, nil
	}

	product, err := s.resolveProduct(ctx, writer, state, result, item, category, true)
	if err != nil {
		result.addError(line, "failed to create product: "+err.Error(), rec)
		return result, nil
	}

	if _, err := writer.CreateTenantPrices(ctx, product, tenantIDs, item.Price); err != nil {
		result.addError(line, "failed to create tenant prices: "+err.Error(), rec)
		return result, nil
	}

	result.Message = fmt.Sprintf("import finished: %d created, %d existing, %d errors",
		result.CreatedCount, result.ExistingCount, result.ErrorCount)
	return result, nil
}

func isDuplicateError(err error) bool {
	return err != nil && strings.Contains(err.Error(), "duplicate")
}
