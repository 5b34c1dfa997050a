package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/angelmondragon/boq-builder/pkg/db"
	"github.com/angelmondragon/boq-builder/pkg/db/models"
	"github.com/angelmondragon/boq-builder/pkg/enums"
	pkgerrors "github.com/angelmondragon/boq-builder/pkg/errors"
	"github.com/angelmondragon/boq-builder/pkg/logger"
	"github.com/angelmondragon/boq-builder/pkg/metrics"
	"github.com/angelmondragon/boq-builder/pkg/pagination"
	"github.com/angelmondragon/boq-builder/pkg/types"
	"github.com/angelmondragon/boq-builder/pkg/validation"
)

// Service exposes catalog management operations. Every write runs through
// the validation context before it reaches storage.
type Service interface {
	CreateItem(ctx context.Context, rec validation.Record) (*ItemDTO, error)
	UpdateItem(ctx context.Context, id string, rec validation.Record) (*ItemDTO, error)
	DeleteItem(ctx context.Context, id string) error
	GetItem(ctx context.Context, id string) (*ItemDTO, error)
	ListItems(ctx context.Context, input ListItemsInput) (*ItemListResult, error)
	Snapshot(ctx context.Context) ([]types.CatalogItem, error)
	ImportItems(ctx context.Context, records []validation.Record, stopOnError bool) (*ImportReport, error)

	CreateCategory(ctx context.Context, rec validation.Record) (*CategoryDTO, error)
	ListCategories(ctx context.Context) ([]CategoryDTO, error)
	DeleteCategory(ctx context.Context, id string) error
}

// ImportFailure describes one rejected import record.
type ImportFailure struct {
	Index    int      `json:"index"`
	ID       string   `json:"id,omitempty"`
	Messages []string `json:"messages"`
}

// ImportReport summarizes a bulk import.
type ImportReport struct {
	Created  int             `json:"created"`
	Updated  int             `json:"updated"`
	Failures []ImportFailure `json:"failures"`
}

type service struct {
	repo     *Repository
	dbClient *db.Client
	rules    *validation.Context
	metrics  *metrics.ValidationMetrics
	logg     *logger.Logger
}

// NewService constructs a catalog service instance.
func NewService(repo *Repository, dbClient *db.Client, rules *validation.Context, m *metrics.ValidationMetrics, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	if rules == nil {
		return nil, fmt.Errorf("validation context required")
	}
	if logg == nil {
		logg = logger.Nop()
	}
	return &service{
		repo:     repo,
		dbClient: dbClient,
		rules:    rules,
		metrics:  m,
		logg:     logg,
	}, nil
}

func (s *service) validateItem(rec validation.Record) (validation.Result, error) {
	res := s.rules.ValidateItem(rec)
	s.metrics.Observe(enums.RecordKindItem.String(), res.IsValid, len(res.Errors))
	return res, res.Err("item validation failed")
}

// CreateItem validates and stores a new catalog item. A missing id is
// generated.
func (s *service) CreateItem(ctx context.Context, rec validation.Record) (*ItemDTO, error) {
	res, err := s.validateItem(rec)
	if err != nil {
		return nil, err
	}
	item := itemFromRecord(res.Data)
	if item.ID == "" {
		item.ID = uuid.NewString()
	}

	if err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		return s.insertItem(ctx, s.repo.WithTx(tx), item)
	}); err != nil {
		return nil, err
	}

	ctx = s.logg.WithItemID(ctx, item.ID)
	s.logg.Info(ctx, "catalog item created")
	return s.GetItem(ctx, item.ID)
}

func (s *service) insertItem(ctx context.Context, repo *Repository, item *models.Item) error {
	if _, err := repo.FindItem(ctx, item.ID); err == nil {
		return pkgerrors.New(pkgerrors.CodeConflict, fmt.Sprintf("item %q already exists", item.ID))
	} else if !db.IsNotFound(err) {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load item")
	}
	if err := ensureCategory(ctx, repo, item.Category); err != nil {
		return err
	}
	deps := item.Dependencies
	if _, err := repo.CreateItem(ctx, item); err != nil {
		if db.IsUniqueViolation(err, "") {
			return pkgerrors.New(pkgerrors.CodeConflict, fmt.Sprintf("item %q already exists", item.ID))
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert item")
	}
	if err := repo.ReplaceDependencies(ctx, item.ID, deps); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert item dependencies")
	}
	return nil
}

func ensureCategory(ctx context.Context, repo *Repository, name string) error {
	if _, err := repo.FindCategoryByName(ctx, name); err == nil {
		return nil
	} else if !db.IsNotFound(err) {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load category")
	}
	_, err := repo.CreateCategory(ctx, &models.Category{ID: uuid.NewString(), Name: name})
	if err != nil && !db.IsUniqueViolation(err, "") {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert category")
	}
	return nil
}

// UpdateItem merges rec over the stored item and re-validates the whole
// record. The id cannot be changed.
func (s *service) UpdateItem(ctx context.Context, id string, rec validation.Record) (*ItemDTO, error) {
	existing, err := s.repo.FindItem(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load item")
	}

	merged := ItemRecord(existing.ToCatalogItem())
	for k, v := range rec {
		merged[k] = v
	}
	merged["id"] = id

	res, err := s.validateItem(merged)
	if err != nil {
		return nil, err
	}
	item := itemFromRecord(res.Data)
	item.CreatedAt = existing.CreatedAt

	if err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		if err := ensureCategory(ctx, txRepo, item.Category); err != nil {
			return err
		}
		deps := item.Dependencies
		if _, err := txRepo.UpdateItem(ctx, item); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update item")
		}
		if err := txRepo.ReplaceDependencies(ctx, item.ID, deps); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: replace item dependencies")
		}
		return nil
	}); err != nil {
		return nil, err
	}

	ctx = s.logg.WithItemID(ctx, id)
	s.logg.Info(ctx, "catalog item updated")
	return s.GetItem(ctx, id)
}

// DeleteItem removes an item. BOQ lines keep their snapshot.
func (s *service) DeleteItem(ctx context.Context, id string) error {
	var affected int64
	if err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		var err error
		affected, err = s.repo.WithTx(tx).DeleteItem(ctx, id)
		return err
	}); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete item")
	}
	if affected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "item not found")
	}
	return nil
}

// GetItem loads a single item.
func (s *service) GetItem(ctx context.Context, id string) (*ItemDTO, error) {
	item, err := s.repo.FindItem(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load item")
	}
	return NewItemDTO(item), nil
}

// ListItems returns one page of filtered items.
func (s *service) ListItems(ctx context.Context, input ListItemsInput) (*ItemListResult, error) {
	if lo, hi := input.Filters.PriceMin, input.Filters.PriceMax; lo != nil && hi != nil && lo.GreaterThan(*hi) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price_min must not exceed price_max")
	}
	if _, err := pagination.ParseCursor(input.Pagination.Cursor); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}
	rows, next, err := s.repo.ListItems(ctx, input)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list items")
	}
	out := &ItemListResult{Items: make([]ItemDTO, 0, len(rows)), NextCursor: next}
	for i := range rows {
		out.Items = append(out.Items, *NewItemDTO(&rows[i]))
	}
	return out, nil
}

// Snapshot returns the whole catalog for dependency resolution.
func (s *service) Snapshot(ctx context.Context) ([]types.CatalogItem, error) {
	rows, err := s.repo.AllItems(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load catalog")
	}
	out := make([]types.CatalogItem, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.ToCatalogItem())
	}
	return out, nil
}

// ImportItems validates and upserts each record. Invalid records are
// reported and skipped unless stopOnError is set. The returned error
// aggregates every failure.
func (s *service) ImportItems(ctx context.Context, records []validation.Record, stopOnError bool) (*ImportReport, error) {
	report := &ImportReport{Failures: []ImportFailure{}}
	var errs error

	for i, rec := range records {
		created, id, err := s.importOne(ctx, rec)
		if err == nil {
			if created {
				report.Created++
			} else {
				report.Updated++
			}
			continue
		}

		failure := ImportFailure{Index: i, ID: id, Messages: failureMessages(err)}
		report.Failures = append(report.Failures, failure)
		errs = multierr.Append(errs, fmt.Errorf("record %d: %w", i, err))
		if stopOnError {
			break
		}
	}

	ctx = s.logg.WithFields(ctx, map[string]any{
		"created": report.Created,
		"updated": report.Updated,
		"failed":  len(report.Failures),
	})
	s.logg.Info(ctx, "catalog import finished")
	return report, errs
}

func (s *service) importOne(ctx context.Context, rec validation.Record) (bool, string, error) {
	id, _ := rec["id"].(string)
	id = strings.TrimSpace(id)
	if id != "" {
		if _, err := s.repo.FindItem(ctx, id); err == nil {
			_, err := s.UpdateItem(ctx, id, rec)
			return false, id, err
		} else if !db.IsNotFound(err) {
			return false, id, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load item")
		}
	}
	created, err := s.CreateItem(ctx, rec)
	if err != nil {
		return false, id, err
	}
	return true, created.ID, nil
}

func failureMessages(err error) []string {
	if typed := pkgerrors.As(err); typed != nil {
		if details, ok := typed.Details().(validation.ErrorDetails); ok {
			return details.Messages
		}
		return []string{typed.Message()}
	}
	return []string{err.Error()}
}

// CreateCategory validates and stores a category.
func (s *service) CreateCategory(ctx context.Context, rec validation.Record) (*CategoryDTO, error) {
	res := s.rules.ValidateCategory(rec)
	s.metrics.Observe(enums.RecordKindCategory.String(), res.IsValid, len(res.Errors))
	if err := res.Err("category validation failed"); err != nil {
		return nil, err
	}

	category := &models.Category{
		ID:          uuid.NewString(),
		Name:        res.Data.Text("name"),
		Description: res.Data.Text("description"),
	}
	if _, err := s.repo.CreateCategory(ctx, category); err != nil {
		if db.IsUniqueViolation(err, "idx_categories_name") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, fmt.Sprintf("category %q already exists", category.Name))
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "insert category")
	}
	dto := newCategoryDTO(*category, 0)
	return &dto, nil
}

// ListCategories returns all categories with their item counts.
func (s *service) ListCategories(ctx context.Context) ([]CategoryDTO, error) {
	rows, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list categories")
	}
	out := make([]CategoryDTO, 0, len(rows))
	for _, row := range rows {
		count, err := s.repo.CountItemsInCategory(ctx, row.Name)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count category items")
		}
		out = append(out, newCategoryDTO(row, count))
	}
	return out, nil
}

// DeleteCategory removes an empty category.
func (s *service) DeleteCategory(ctx context.Context, id string) error {
	category, err := s.repo.FindCategory(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load category")
	}
	count, err := s.repo.CountItemsInCategory(ctx, category.Name)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count category items")
	}
	if count > 0 {
		return pkgerrors.New(pkgerrors.CodeConflict, fmt.Sprintf("category %q still has %d items", category.Name, count))
	}
	if err := s.repo.DeleteCategory(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete category")
	}
	return nil
}
