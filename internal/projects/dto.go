package projects

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/boq-builder/pkg/db/models"
	"github.com/angelmondragon/boq-builder/pkg/types"
	"github.com/angelmondragon/boq-builder/pkg/validation"
)

// ProjectDTO is the API representation of a project.
type ProjectDTO struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	LineCount   int64     `json:"lineCount"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// ProjectListResult wraps one page of projects.
type ProjectListResult struct {
	Projects   []ProjectDTO `json:"projects"`
	NextCursor string       `json:"nextCursor,omitempty"`
}

// LineDTO is one BOQ line with its extended total.
type LineDTO struct {
	ItemID       string                 `json:"itemId"`
	Name         string                 `json:"name"`
	Unit         string                 `json:"unit"`
	Quantity     decimal.Decimal        `json:"quantity"`
	UnitPrice    decimal.Decimal        `json:"unitPrice"`
	LineTotal    decimal.Decimal        `json:"lineTotal"`
	Dependencies []types.ItemDependency `json:"dependencies"`
}

// BOQDTO is a project with its priced lines.
type BOQDTO struct {
	Project ProjectDTO      `json:"project"`
	Lines   []LineDTO       `json:"lines"`
	Total   decimal.Decimal `json:"total"`
}

func newProjectDTO(project models.Project, lineCount int64) ProjectDTO {
	return ProjectDTO{
		ID:          project.ID,
		Name:        project.Name,
		Description: project.Description,
		LineCount:   lineCount,
		CreatedAt:   project.CreatedAt,
		UpdatedAt:   project.UpdatedAt,
	}
}

func newLineDTO(line models.BOQLine) LineDTO {
	deps := line.Dependencies
	if deps == nil {
		deps = []types.ItemDependency{}
	}
	return LineDTO{
		ItemID:       line.ItemID,
		Name:         line.Name,
		Unit:         line.Unit,
		Quantity:     line.Quantity,
		UnitPrice:    line.UnitPrice,
		LineTotal:    line.Quantity.Mul(line.UnitPrice).Round(validation.MoneyScale),
		Dependencies: deps,
	}
}

func projectRecord(project models.Project) validation.Record {
	return validation.Record{
		"name":        project.Name,
		"description": project.Description,
	}
}

// lineRecord builds the boqItem record for a catalog item at qty. The item
// fields overwrite whatever the caller sent.
func lineRecord(rec validation.Record, item types.CatalogItem) validation.Record {
	out := rec.Clone()
	if out == nil {
		out = validation.Record{}
	}
	out["id"] = item.ID
	out["name"] = item.Name
	out["unit"] = item.Unit
	return out
}
