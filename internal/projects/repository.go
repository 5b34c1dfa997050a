package projects

import (
	"context"

	"gorm.io/gorm"

	"github.com/angelmondragon/boq-builder/internal/repo"
	"github.com/angelmondragon/boq-builder/pkg/db/models"
	"github.com/angelmondragon/boq-builder/pkg/pagination"
)

// Repository persists projects and their BOQ lines.
type Repository struct {
	repo.Base
}

// NewRepository constructs a project repository bound to the provided DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// WithTx binds the repository to a transaction.
func (r *Repository) WithTx(tx *gorm.DB) ProjectRepository {
	if tx == nil {
		return r
	}
	return &Repository{Base: r.Bind(tx)}
}

// FindProject loads a project without its lines.
func (r *Repository) FindProject(ctx context.Context, id string) (*models.Project, error) {
	var project models.Project
	if err := r.DB(ctx).First(&project, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

// CreateProject inserts a new project.
func (r *Repository) CreateProject(ctx context.Context, project *models.Project) (*models.Project, error) {
	if err := r.DB(ctx).Omit("Lines").Create(project).Error; err != nil {
		return nil, err
	}
	return project, nil
}

// UpdateProject saves the project columns.
func (r *Repository) UpdateProject(ctx context.Context, project *models.Project) (*models.Project, error) {
	if err := r.DB(ctx).Omit("Lines").Save(project).Error; err != nil {
		return nil, err
	}
	return project, nil
}

// DeleteProject removes the project and its lines.
func (r *Repository) DeleteProject(ctx context.Context, id string) (int64, error) {
	tx := r.DB(ctx)
	if err := tx.Where("project_id = ?", id).Delete(&models.BOQLine{}).Error; err != nil {
		return 0, err
	}
	res := tx.Where("id = ?", id).Delete(&models.Project{})
	return res.RowsAffected, res.Error
}

// ListProjects pages through projects ordered by (name, id).
func (r *Repository) ListProjects(ctx context.Context, params pagination.Params) ([]models.Project, string, error) {
	pageSize := pagination.NormalizeLimit(params.Limit)
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, "", err
	}

	qb := r.DB(ctx).Model(&models.Project{})
	if cursor != nil {
		qb = qb.Where("(name > ?) OR (name = ? AND id > ?)", cursor.Key, cursor.Key, cursor.ID)
	}

	var rows []models.Project
	if err := qb.Order("name ASC").Order("id ASC").Limit(pageSize + 1).Find(&rows).Error; err != nil {
		return nil, "", err
	}

	next := ""
	if len(rows) > pageSize {
		rows = rows[:pageSize]
		last := rows[len(rows)-1]
		next = pagination.EncodeCursor(pagination.Cursor{Key: last.Name, ID: last.ID})
	}
	return rows, next, nil
}

// CountLines counts the BOQ lines of a project.
func (r *Repository) CountLines(ctx context.Context, projectID string) (int64, error) {
	var count int64
	err := r.DB(ctx).Model(&models.BOQLine{}).Where("project_id = ?", projectID).Count(&count).Error
	return count, err
}

// ListLines returns the lines of a project in the order they were added.
func (r *Repository) ListLines(ctx context.Context, projectID string) ([]models.BOQLine, error) {
	var rows []models.BOQLine
	err := r.DB(ctx).
		Where("project_id = ?", projectID).
		Order("position ASC").
		Order("item_id ASC").
		Find(&rows).
		Error
	return rows, err
}

// FindLine loads one line by its composite key.
func (r *Repository) FindLine(ctx context.Context, projectID, itemID string) (*models.BOQLine, error) {
	var line models.BOQLine
	if err := r.DB(ctx).First(&line, "project_id = ? AND item_id = ?", projectID, itemID).Error; err != nil {
		return nil, err
	}
	return &line, nil
}

// CreateLine inserts a new line.
func (r *Repository) CreateLine(ctx context.Context, line *models.BOQLine) (*models.BOQLine, error) {
	if err := r.DB(ctx).Create(line).Error; err != nil {
		return nil, err
	}
	return line, nil
}

// UpdateLine saves every column of an existing line.
func (r *Repository) UpdateLine(ctx context.Context, line *models.BOQLine) (*models.BOQLine, error) {
	if err := r.DB(ctx).Save(line).Error; err != nil {
		return nil, err
	}
	return line, nil
}

// DeleteLine removes one line.
func (r *Repository) DeleteLine(ctx context.Context, projectID, itemID string) (int64, error) {
	res := r.DB(ctx).Where("project_id = ? AND item_id = ?", projectID, itemID).Delete(&models.BOQLine{})
	return res.RowsAffected, res.Error
}

// NextPosition returns the position for a line appended to the project.
func (r *Repository) NextPosition(ctx context.Context, projectID string) (int, error) {
	var next int
	err := r.DB(ctx).
		Model(&models.BOQLine{}).
		Where("project_id = ?", projectID).
		Select("COALESCE(MAX(position), -1) + 1").
		Scan(&next).
		Error
	return next, err
}
