package repos

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/renantorres0/smartcommerce/internal/domain"
)

// InTx runs fn inside one transaction. Any error from fn, or a panic, rolls
// everything back; begin and commit failures surface as storage failures.
func InTx(ctx context.Context, db *sqlx.DB, fn func(tx *sqlx.Tx) error) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return domain.Storage("begin", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return domain.Storage("commit", err)
	}
	return nil
}
