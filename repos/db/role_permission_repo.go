package db

import (
	"context"
	"database/sql"

	"github.com/Masterminds/squirrel"
	"github.com/go-sql-driver/mysql"
	"github.com/rolegraph/rolegraph"
	"github.com/rolegraph/rolegraph/logx"
	"github.com/rolegraph/rolegraph/repos"
	uuid "github.com/satori/go.uuid"
)

func (s *Store) AttachPermission(
	ctx context.Context,
	logger logx.Logger,
	roleName string,
	permission rolegraph.Permission,
) error {
	logger = logger.WithName("attach-permission").WithData(
		logx.Data{Key: "role.name", Value: roleName},
		logx.Data{Key: "permission.name", Value: permission.Name},
	)

	u := uuid.NewV4().Bytes()

	_, err := squirrel.Insert("role_permission").
		Columns("uuid", "role_name", "permission_name").
		Values(u, roleName, permission.Name).
		RunWith(s.conn).
		ExecContext(ctx)

	switch e := err.(type) {
	case nil:
		return nil
	case *mysql.MySQLError:
		if e.Number == MySQLErrorCodeDuplicateKey {
			logger.Debug(errPermissionAlreadyAttached)
			return rolegraph.ErrPermissionAlreadyAttached
		}

		logger.Error(failedToAttachPermission, err)
		return err
	default:
		logger.Error(failedToAttachPermission, err)
		return err
	}
}

func (s *Store) DetachPermission(
	ctx context.Context,
	logger logx.Logger,
	roleName string,
	permissionName string,
) error {
	logger = logger.WithName("detach-permission").WithData(
		logx.Data{Key: "role.name", Value: roleName},
		logx.Data{Key: "permission.name", Value: permissionName},
	)

	result, err := squirrel.Delete("role_permission").
		Where(squirrel.Eq{
			"role_name":       roleName,
			"permission_name": permissionName,
		}).
		RunWith(s.conn).
		ExecContext(ctx)

	switch err {
	case nil:
		n, e := result.RowsAffected()
		if e != nil {
			logger.Error(failedToCountRowsAffected, e)
			return e
		}

		if n == 0 {
			logger.Debug(errPermissionNotAttached)
			return rolegraph.ErrPermissionNotAttached
		}

		return nil
	case sql.ErrNoRows:
		logger.Debug(errPermissionNotAttached)
		return rolegraph.ErrPermissionNotAttached
	default:
		logger.Error(failedToDetachPermission, err)
		return err
	}
}

func (s *Store) HasAttachment(
	ctx context.Context,
	logger logx.Logger,
	query repos.HasAttachmentQuery,
) (bool, error) {
	logger = logger.WithName("has-attachment")

	var count int

	err := squirrel.Select("count(id)").
		From("role_permission").
		Where(squirrel.Eq{
			"role_name":       query.RoleName,
			"permission_name": query.PermissionName,
		}).
		RunWith(s.conn).
		ScanContext(ctx, &count)
	if err != nil {
		logger.Error(failedToFindAttachment, err)
		return false, err
	}

	return count > 0, nil
}

func (s *Store) ListRolePermissions(
	ctx context.Context,
	logger logx.Logger,
	query repos.ListRolePermissionsQuery,
) ([]rolegraph.Permission, error) {
	logger = logger.WithName("list-role-permissions").WithData(
		logx.Data{Key: "role.name", Value: query.RoleName},
	)

	rows, err := squirrel.Select(
		"permission.name", "permission.action", "permission.subject",
		"permission.fields", "permission.conditions", "permission.inverted", "permission.reason").
		From("role_permission").
		JoinClause("INNER JOIN permission ON role_permission.permission_name = permission.name").
		Where(squirrel.Eq{
			"role_permission.role_name": query.RoleName,
		}).
		OrderBy("role_permission.id").
		RunWith(s.conn).
		QueryContext(ctx)
	if err != nil {
		logger.Error(failedToListPermissions, err)
		return nil, err
	}
	defer rows.Close()

	var permissions []rolegraph.Permission
	for rows.Next() {
		var (
			name       string
			action     string
			subject    string
			fields     sql.NullString
			conditions sql.NullString
			inverted   bool
			reason     sql.NullString
		)

		e := rows.Scan(&name, &action, &subject, &fields, &conditions, &inverted, &reason)
		if e != nil {
			logger.Error(failedToScanRow, e)
			return nil, e
		}

		permission, e := decodePermissionRow(name, action, subject, fields, conditions, inverted, reason)
		if e != nil {
			logger.Error(failedToDecodePermission, e)
			return nil, e
		}

		permissions = append(permissions, permission)
	}

	err = rows.Err()
	if err != nil {
		logger.Error(failedToIterateOverRows, err)
		return nil, err
	}

	return permissions, nil
}

func (s *Store) PermissionInUse(
	ctx context.Context,
	logger logx.Logger,
	permissionName string,
) (bool, error) {
	logger = logger.WithName("permission-in-use").WithData(
		logx.Data{Key: "permission.name", Value: permissionName},
	)

	var count int

	err := squirrel.Select("count(id)").
		From("role_permission").
		Where(squirrel.Eq{
			"permission_name": permissionName,
		}).
		RunWith(s.conn).
		ScanContext(ctx, &count)
	if err != nil {
		logger.Error(failedToFindAttachment, err)
		return false, err
	}

	return count > 0, nil
}

func (s *Store) ClearRolePermissions(
	ctx context.Context,
	logger logx.Logger,
	roleName string,
) error {
	logger = logger.WithName("clear-role-permissions").WithData(
		logx.Data{Key: "role.name", Value: roleName},
	)

	_, err := squirrel.Delete("role_permission").
		Where(squirrel.Eq{
			"role_name": roleName,
		}).
		RunWith(s.conn).
		ExecContext(ctx)
	if err != nil {
		logger.Error(failedToDetachPermission, err)
		return err
	}

	return nil
}
