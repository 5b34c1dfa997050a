package repo

import (
	"context"

	"gorm.io/gorm"
)

// Base holds the connection shared by the catalog and project repositories.
type Base struct {
	db *gorm.DB
}

// NewBase wraps a GORM connection or transaction.
func NewBase(db *gorm.DB) Base {
	return Base{db: db}
}

// DB returns the connection bound to ctx. A nil ctx returns the raw handle.
func (b Base) DB(ctx context.Context) *gorm.DB {
	if ctx == nil {
		return b.db
	}
	return b.db.WithContext(ctx)
}

// Bind returns a Base on tx, or b unchanged when tx is nil.
func (b Base) Bind(tx *gorm.DB) Base {
	if tx == nil {
		return b
	}
	return Base{db: tx}
}
