package projects

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/angelmondragon/boq-builder/internal/catalog"
	"github.com/angelmondragon/boq-builder/internal/dependencies"
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

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type itemLoader interface {
	GetItem(ctx context.Context, id string) (*catalog.ItemDTO, error)
	Snapshot(ctx context.Context) ([]types.CatalogItem, error)
}

// Service manages projects and their bills of quantities.
type Service interface {
	CreateProject(ctx context.Context, rec validation.Record) (*ProjectDTO, error)
	GetProject(ctx context.Context, id string) (*ProjectDTO, error)
	ListProjects(ctx context.Context, params pagination.Params) (*ProjectListResult, error)
	UpdateProject(ctx context.Context, id string, rec validation.Record) (*ProjectDTO, error)
	DeleteProject(ctx context.Context, id string) error

	AddLine(ctx context.Context, projectID string, rec validation.Record) (*LineDTO, error)
	UpdateLine(ctx context.Context, projectID, itemID string, rec validation.Record) (*LineDTO, error)
	RemoveLine(ctx context.Context, projectID, itemID string) error
	GetBOQ(ctx context.Context, projectID string) (*BOQDTO, error)

	MissingDependencies(ctx context.Context, projectID string) ([]types.MissingDependency, error)
	AcceptDependency(ctx context.Context, projectID, itemID string) (*LineDTO, error)
}

type service struct {
	repo    ProjectRepository
	tx      txRunner
	items   itemLoader
	rules   *validation.Context
	metrics *metrics.ValidationMetrics
	logg    *logger.Logger
}

// NewService builds a project service backed by the provided stack.
func NewService(repo ProjectRepository, tx txRunner, items itemLoader, rules *validation.Context, m *metrics.ValidationMetrics, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("project repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if items == nil {
		return nil, fmt.Errorf("item loader required")
	}
	if rules == nil {
		return nil, fmt.Errorf("validation context required")
	}
	if logg == nil {
		logg = logger.Nop()
	}
	return &service{
		repo:    repo,
		tx:      tx,
		items:   items,
		rules:   rules,
		metrics: m,
		logg:    logg,
	}, nil
}

func (s *service) check(kind enums.RecordKind, res validation.Result, message string) error {
	s.metrics.Observe(kind.String(), res.IsValid, len(res.Errors))
	return res.Err(message)
}

func (s *service) loadProject(ctx context.Context, id string) (*models.Project, error) {
	project, err := s.repo.FindProject(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "project not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load project")
	}
	return project, nil
}

func (s *service) toProjectDTO(ctx context.Context, project models.Project) (*ProjectDTO, error) {
	count, err := s.repo.CountLines(ctx, project.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count project lines")
	}
	dto := newProjectDTO(project, count)
	return &dto, nil
}

// CreateProject validates and stores a new project.
func (s *service) CreateProject(ctx context.Context, rec validation.Record) (*ProjectDTO, error) {
	res := s.rules.ValidateProject(rec)
	if err := s.check(enums.RecordKindProject, res, "project validation failed"); err != nil {
		return nil, err
	}

	project := &models.Project{
		ID:          uuid.NewString(),
		Name:        res.Data.Text("name"),
		Description: res.Data.Text("description"),
	}
	if _, err := s.repo.CreateProject(ctx, project); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "insert project")
	}

	ctx = s.logg.WithProjectID(ctx, project.ID)
	s.logg.Info(ctx, "project created")
	dto := newProjectDTO(*project, 0)
	return &dto, nil
}

// GetProject loads a project with its line count.
func (s *service) GetProject(ctx context.Context, id string) (*ProjectDTO, error) {
	project, err := s.loadProject(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.toProjectDTO(ctx, *project)
}

// ListProjects returns one page of projects ordered by name.
func (s *service) ListProjects(ctx context.Context, params pagination.Params) (*ProjectListResult, error) {
	if _, err := pagination.ParseCursor(params.Cursor); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}
	rows, next, err := s.repo.ListProjects(ctx, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list projects")
	}
	out := &ProjectListResult{Projects: make([]ProjectDTO, 0, len(rows)), NextCursor: next}
	for _, row := range rows {
		dto, err := s.toProjectDTO(ctx, row)
		if err != nil {
			return nil, err
		}
		out.Projects = append(out.Projects, *dto)
	}
	return out, nil
}

// UpdateProject merges rec over the stored project and re-validates it.
func (s *service) UpdateProject(ctx context.Context, id string, rec validation.Record) (*ProjectDTO, error) {
	project, err := s.loadProject(ctx, id)
	if err != nil {
		return nil, err
	}

	merged := projectRecord(*project)
	for k, v := range rec {
		merged[k] = v
	}
	res := s.rules.ValidateProject(merged)
	if err := s.check(enums.RecordKindProject, res, "project validation failed"); err != nil {
		return nil, err
	}

	project.Name = res.Data.Text("name")
	project.Description = res.Data.Text("description")
	if _, err := s.repo.UpdateProject(ctx, project); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update project")
	}
	return s.toProjectDTO(ctx, *project)
}

// DeleteProject removes a project and its BOQ.
func (s *service) DeleteProject(ctx context.Context, id string) error {
	var affected int64
	if err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		var err error
		affected, err = s.repo.WithTx(tx).DeleteProject(ctx, id)
		return err
	}); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete project")
	}
	if affected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "project not found")
	}
	ctx = s.logg.WithProjectID(ctx, id)
	s.logg.Info(ctx, "project deleted")
	return nil
}

// AddLine places a catalog item in the project. The record is validated as
// a boqItem carrying the item's name and unit. Adding an item that is
// already in the BOQ increases its quantity and refreshes the snapshot.
func (s *service) AddLine(ctx context.Context, projectID string, rec validation.Record) (*LineDTO, error) {
	if _, err := s.loadProject(ctx, projectID); err != nil {
		return nil, err
	}

	rec = rec.Clone()
	if rec == nil {
		rec = validation.Record{}
	}
	if _, ok := rec["id"]; !ok {
		if alias, ok := rec["itemId"]; ok {
			rec["id"] = alias
			delete(rec, "itemId")
		}
	}

	var item *types.CatalogItem
	if id := rec.ID("id"); id != "" {
		found, err := s.items.GetItem(ctx, id)
		if err != nil {
			if pkgerrors.HasCode(err, pkgerrors.CodeNotFound) {
				return nil, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("item %q not found", id))
			}
			return nil, err
		}
		item = &found.CatalogItem
		rec = lineRecord(rec, *item)
	}

	res := s.rules.ValidateBOQItem(rec)
	if err := s.check(enums.RecordKindBOQItem, res, "line validation failed"); err != nil {
		return nil, err
	}
	if item == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "item not found")
	}
	qty := res.Data.Decimal("quantity").Round(validation.QuantityScale)

	var saved *models.BOQLine
	if err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		var err error
		saved, err = s.upsertLine(ctx, s.repo.WithTx(tx), projectID, *item, qty, true)
		return err
	}); err != nil {
		return nil, err
	}

	ctx = s.logg.WithProjectID(ctx, projectID)
	ctx = s.logg.WithItemID(ctx, item.ID)
	s.logg.Info(ctx, "boq line added")
	dto := newLineDTO(*saved)
	return &dto, nil
}

func (s *service) upsertLine(ctx context.Context, repo ProjectRepository, projectID string, item types.CatalogItem, qty decimal.Decimal, accumulate bool) (*models.BOQLine, error) {
	existing, err := repo.FindLine(ctx, projectID, item.ID)
	if err != nil && !db.IsNotFound(err) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load line")
	}

	if existing != nil {
		if accumulate {
			qty = existing.Quantity.Add(qty)
		}
		snapshotItem(existing, item)
		existing.Quantity = qty
		if _, err := repo.UpdateLine(ctx, existing); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update line")
		}
		return existing, nil
	}

	position, err := repo.NextPosition(ctx, projectID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: line position")
	}
	line := &models.BOQLine{
		ProjectID: projectID,
		ItemID:    item.ID,
		Quantity:  qty,
		Position:  position,
	}
	snapshotItem(line, item)
	if _, err := repo.CreateLine(ctx, line); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert line")
	}
	return line, nil
}

func snapshotItem(line *models.BOQLine, item types.CatalogItem) {
	line.Name = item.Name
	line.Unit = item.Unit
	line.UnitPrice = item.UnitPrice
	line.Dependencies = append([]types.ItemDependency{}, item.Dependencies...)
}

// UpdateLine replaces the quantity of an existing line.
func (s *service) UpdateLine(ctx context.Context, projectID, itemID string, rec validation.Record) (*LineDTO, error) {
	line, err := s.repo.FindLine(ctx, projectID, itemID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "line not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load line")
	}

	merged := lineRecord(rec, types.CatalogItem{ID: line.ItemID, Name: line.Name, Unit: line.Unit})
	res := s.rules.ValidateBOQItem(merged)
	if err := s.check(enums.RecordKindBOQItem, res, "line validation failed"); err != nil {
		return nil, err
	}

	line.Quantity = res.Data.Decimal("quantity").Round(validation.QuantityScale)
	if _, err := s.repo.UpdateLine(ctx, line); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update line")
	}
	dto := newLineDTO(*line)
	return &dto, nil
}

// RemoveLine deletes one line from the BOQ.
func (s *service) RemoveLine(ctx context.Context, projectID, itemID string) error {
	affected, err := s.repo.DeleteLine(ctx, projectID, itemID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete line")
	}
	if affected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "line not found")
	}
	return nil
}

// GetBOQ returns the project with every line priced and the project total.
func (s *service) GetBOQ(ctx context.Context, projectID string) (*BOQDTO, error) {
	project, err := s.loadProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	rows, err := s.repo.ListLines(ctx, projectID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list lines")
	}

	out := &BOQDTO{
		Project: newProjectDTO(*project, int64(len(rows))),
		Lines:   make([]LineDTO, 0, len(rows)),
		Total:   decimal.Zero,
	}
	for _, row := range rows {
		line := newLineDTO(row)
		out.Lines = append(out.Lines, line)
		out.Total = out.Total.Add(line.LineTotal)
	}
	return out, nil
}

// MissingDependencies reports catalog items the BOQ requires but lacks.
func (s *service) MissingDependencies(ctx context.Context, projectID string) ([]types.MissingDependency, error) {
	if _, err := s.loadProject(ctx, projectID); err != nil {
		return nil, err
	}
	rows, err := s.repo.ListLines(ctx, projectID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list lines")
	}
	catalogItems, err := s.items.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	lines := make([]types.BOQLine, 0, len(rows))
	for _, row := range rows {
		lines = append(lines, row.ToBOQLine())
	}
	return dependencies.ComputeMissing(lines, catalogItems), nil
}

// AcceptDependency adds a missing dependency to the BOQ at its total
// required quantity. Count units are rounded up to a whole number.
func (s *service) AcceptDependency(ctx context.Context, projectID, itemID string) (*LineDTO, error) {
	missing, err := s.MissingDependencies(ctx, projectID)
	if err != nil {
		return nil, err
	}
	dep, ok := dependencies.Find(missing, itemID)
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("item %q is not a missing dependency", itemID))
	}

	qty := dep.TotalQuantity
	if validation.IsCountUnit(dep.Item.Unit) {
		qty = qty.Ceil()
	}
	rec := lineRecord(validation.Record{"quantity": qty.InexactFloat64()}, dep.Item)
	res := s.rules.ValidateBOQItem(rec)
	if err := s.check(enums.RecordKindBOQItem, res, "dependency line validation failed"); err != nil {
		return nil, err
	}
	qty = res.Data.Decimal("quantity").Round(validation.QuantityScale)

	var saved *models.BOQLine
	if err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		var err error
		saved, err = s.upsertLine(ctx, s.repo.WithTx(tx), projectID, dep.Item, qty, false)
		return err
	}); err != nil {
		return nil, err
	}

	ctx = s.logg.WithProjectID(ctx, projectID)
	ctx = s.logg.WithItemID(ctx, itemID)
	s.logg.Info(ctx, "missing dependency accepted")
	dto := newLineDTO(*saved)
	return &dto, nil
}
