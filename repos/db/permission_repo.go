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

func (s *Store) CreatePermission(
	ctx context.Context,
	logger logx.Logger,
	permission rolegraph.Permission,
) (rolegraph.Permission, error) {
	logger = logger.WithName("create-permission")

	fields, err := encodeFields(permission.Fields)
	if err != nil {
		logger.Error(failedToEncodePermission, err)
		return rolegraph.Permission{}, err
	}

	conditions, err := encodeConditions(permission.Conditions)
	if err != nil {
		logger.Error(failedToEncodePermission, err)
		return rolegraph.Permission{}, err
	}

	u := uuid.NewV4().Bytes()

	_, err = squirrel.Insert("permission").
		Columns("uuid", "name", "action", "subject", "fields", "conditions", "inverted", "reason").
		Values(u, permission.Name, permission.Action, permission.Subject, fields, conditions, permission.Inverted, encodeReason(permission.Reason)).
		RunWith(s.conn).
		ExecContext(ctx)

	switch e := err.(type) {
	case nil:
		return permission, nil
	case *mysql.MySQLError:
		if e.Number == MySQLErrorCodeDuplicateKey {
			logger.Debug(errPermissionAlreadyExists)
			return rolegraph.Permission{}, rolegraph.ErrPermissionAlreadyExists
		}

		logger.Error(failedToCreatePermission, err)
		return rolegraph.Permission{}, err
	default:
		logger.Error(failedToCreatePermission, err)
		return rolegraph.Permission{}, err
	}
}

func (s *Store) FindPermission(
	ctx context.Context,
	logger logx.Logger,
	query repos.FindPermissionQuery,
) (rolegraph.Permission, error) {
	logger = logger.WithName("find-permission")

	var (
		name       string
		action     string
		subject    string
		fields     sql.NullString
		conditions sql.NullString
		inverted   bool
		reason     sql.NullString
	)

	err := squirrel.Select("name", "action", "subject", "fields", "conditions", "inverted", "reason").
		From("permission").
		Where(squirrel.Eq{
			"name": query.PermissionName,
		}).
		RunWith(s.conn).
		ScanContext(ctx, &name, &action, &subject, &fields, &conditions, &inverted, &reason)

	switch err {
	case nil:
		permission, decodeErr := decodePermissionRow(name, action, subject, fields, conditions, inverted, reason)
		if decodeErr != nil {
			logger.Error(failedToDecodePermission, decodeErr)
			return rolegraph.Permission{}, decodeErr
		}
		return permission, nil
	case sql.ErrNoRows:
		logger.Debug(errPermissionNotFound)
		return rolegraph.Permission{}, rolegraph.ErrPermissionNotFound
	default:
		logger.Error(failedToFindPermission, err)
		return rolegraph.Permission{}, err
	}
}

func (s *Store) PermissionExists(
	ctx context.Context,
	logger logx.Logger,
	permissionName string,
) (bool, error) {
	logger = logger.WithName("permission-exists")

	var count int

	err := squirrel.Select("count(id)").
		From("permission").
		Where(squirrel.Eq{
			"name": permissionName,
		}).
		RunWith(s.conn).
		ScanContext(ctx, &count)
	if err != nil {
		logger.Error(failedToFindPermission, err)
		return false, err
	}

	return count > 0, nil
}

func (s *Store) DeletePermission(
	ctx context.Context,
	logger logx.Logger,
	permissionName string,
) error {
	logger = logger.WithName("delete-permission")

	result, err := squirrel.Delete("permission").
		Where(squirrel.Eq{
			"name": permissionName,
		}).
		RunWith(s.conn).
		ExecContext(ctx)

	switch err {
	case nil:
		n, err2 := result.RowsAffected()
		if err2 != nil {
			logger.Error(failedToCountRowsAffected, err2)
			return err2
		}

		if n == 0 {
			logger.Debug(errPermissionNotFound)
			return rolegraph.ErrPermissionNotFound
		}

		return nil
	case sql.ErrNoRows:
		logger.Debug(errPermissionNotFound)
		return rolegraph.ErrPermissionNotFound
	default:
		logger.Error(failedToDeletePermission, err)
		return err
	}
}

func (s *Store) ListPermissions(
	ctx context.Context,
	logger logx.Logger,
) ([]rolegraph.Permission, error) {
	logger = logger.WithName("list-permissions")

	rows, err := squirrel.Select("name", "action", "subject", "fields", "conditions", "inverted", "reason").
		From("permission").
		OrderBy("id").
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

func (s *Store) ClearPermissions(
	ctx context.Context,
	logger logx.Logger,
) error {
	logger = logger.WithName("clear-permissions")

	_, err := squirrel.Delete("permission").
		RunWith(s.conn).
		ExecContext(ctx)
	if err != nil {
		logger.Error(failedToDeletePermission, err)
		return err
	}

	return nil
}
