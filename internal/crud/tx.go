package crud

import (
	"context"

	"gorm.io/gorm"
)

// Transaction executes fn within a database transaction.
// It commits on success, rolls back on error or panic. When db is already
// bound to a transaction, fn joins it and the outer caller decides.
func Transaction(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if _, ok := db.Statement.ConnPool.(gorm.TxCommitter); ok {
		return fn(db.WithContext(ctx))
	}

	tx := db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return tx.Error
	}

	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit().Error
}
