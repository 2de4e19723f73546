package migrations

import (
	"context"

	"github.com/rolegraph/rolegraph/internal/sqlx"
	"github.com/rolegraph/rolegraph/logx"
)

var createPermissionsTable = `
CREATE TABLE IF NOT EXISTS permission
(
  id BIGINT NOT NULL AUTO_INCREMENT PRIMARY KEY,
  uuid BINARY(16) NOT NULL UNIQUE,
  name VARCHAR(255) NOT NULL UNIQUE,
  action VARCHAR(255) NOT NULL,
  subject VARCHAR(255) NOT NULL,
  fields TEXT,
  conditions TEXT,
  inverted TINYINT(1) NOT NULL DEFAULT 0,
  reason TEXT
)
`

var deletePermissionsTable = `DROP TABLE permission`

func createPermissionsTableUp(ctx context.Context, logger logx.Logger, tx *sqlx.Tx) error {
	logger = logger.WithName("create-permissions-table")
	logger.Debug(starting)
	defer logger.Debug(finished)

	_, err := tx.ExecContext(ctx, createPermissionsTable)
	return err
}

func createPermissionsTableDown(ctx context.Context, logger logx.Logger, tx *sqlx.Tx) error {
	logger = logger.WithName("create-permissions-table")
	logger.Debug(starting)
	defer logger.Debug(finished)

	_, err := tx.ExecContext(ctx, deletePermissionsTable)
	return err
}
