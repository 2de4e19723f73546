package migrations

import (
	"context"

	"github.com/rolegraph/rolegraph/internal/sqlx"
	"github.com/rolegraph/rolegraph/logx"
)

// The permission_name index keeps the in-use query used before
// permission removal from scanning the whole relation.
var createRolePermissionsTable = `
CREATE TABLE IF NOT EXISTS role_permission
(
  id BIGINT NOT NULL AUTO_INCREMENT PRIMARY KEY,
  uuid BINARY(16) NOT NULL UNIQUE,
  role_name VARCHAR(255) NOT NULL,
  permission_name VARCHAR(255) NOT NULL,
  UNIQUE KEY unique_role_permission (role_name, permission_name),
  INDEX idx_role_permission_permission_name (permission_name)
)
`

var deleteRolePermissionsTable = `DROP TABLE role_permission`

func createRolePermissionsTableUp(ctx context.Context, logger logx.Logger, tx *sqlx.Tx) error {
	logger = logger.WithName("create-role-permissions-table")
	logger.Debug(starting)
	defer logger.Debug(finished)

	_, err := tx.ExecContext(ctx, createRolePermissionsTable)
	return err
}

func createRolePermissionsTableDown(ctx context.Context, logger logx.Logger, tx *sqlx.Tx) error {
	logger = logger.WithName("create-role-permissions-table")
	logger.Debug(starting)
	defer logger.Debug(finished)

	_, err := tx.ExecContext(ctx, deleteRolePermissionsTable)
	return err
}
