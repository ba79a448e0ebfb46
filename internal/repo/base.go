package repo

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Base provides a shared foundation for domain repositories.
type Base struct {
	db *gorm.DB
}

// NewBase constructs a Base repository backed by the provided GORM connection.
func NewBase(db *gorm.DB) Base {
	return Base{db: db}
}

// DB returns the GORM connection bound to the supplied context (if any).
func (b Base) DB(ctx context.Context) *gorm.DB {
	if ctx == nil {
		return b.db
	}
	return b.db.WithContext(ctx)
}

// Exists reports whether any row of model matches the condition.
func (b Base) Exists(ctx context.Context, model any, query string, args ...any) (bool, error) {
	var count int64
	if err := b.DB(ctx).Model(model).Where(query, args...).Limit(1).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// LockMode selects the row lock a lookup takes inside a transaction.
type LockMode int

const (
	NoLock LockMode = iota
	ShareLock
	UpdateLock
)

// Query returns a context-bound query carrying the requested row lock.
func (b Base) Query(ctx context.Context, mode LockMode) *gorm.DB {
	switch mode {
	case ShareLock:
		return b.ForShare(ctx)
	case UpdateLock:
		return b.ForUpdate(ctx)
	default:
		return b.DB(ctx)
	}
}

// ForUpdate returns a query holding exclusive row locks until the surrounding
// transaction ends. SQLite ignores the clause; its single writer serializes instead.
func (b Base) ForUpdate(ctx context.Context) *gorm.DB {
	return b.DB(ctx).Clauses(clause.Locking{Strength: clause.LockingStrengthUpdate})
}

// ForShare returns a query holding shared row locks until the surrounding
// transaction ends.
func (b Base) ForShare(ctx context.Context) *gorm.DB {
	return b.DB(ctx).Clauses(clause.Locking{Strength: clause.LockingStrengthShare})
}
