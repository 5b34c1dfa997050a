package projects

import (
	"context"

	"gorm.io/gorm"

	"github.com/angelmondragon/boq-builder/pkg/db/models"
	"github.com/angelmondragon/boq-builder/pkg/pagination"
)

// ProjectRepository captures the persistence contract used by the service.
type ProjectRepository interface {
	WithTx(tx *gorm.DB) ProjectRepository

	FindProject(ctx context.Context, id string) (*models.Project, error)
	CreateProject(ctx context.Context, project *models.Project) (*models.Project, error)
	UpdateProject(ctx context.Context, project *models.Project) (*models.Project, error)
	DeleteProject(ctx context.Context, id string) (int64, error)
	ListProjects(ctx context.Context, params pagination.Params) ([]models.Project, string, error)
	CountLines(ctx context.Context, projectID string) (int64, error)

	ListLines(ctx context.Context, projectID string) ([]models.BOQLine, error)
	FindLine(ctx context.Context, projectID, itemID string) (*models.BOQLine, error)
	CreateLine(ctx context.Context, line *models.BOQLine) (*models.BOQLine, error)
	UpdateLine(ctx context.Context, line *models.BOQLine) (*models.BOQLine, error)
	DeleteLine(ctx context.Context, projectID, itemID string) (int64, error)
	NextPosition(ctx context.Context, projectID string) (int, error)
}
