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

func (s *Store) CreateRole(
	ctx context.Context,
	logger logx.Logger,
	name string,
) (rolegraph.Role, error) {
	logger = logger.WithName("create-role")
	u := uuid.NewV4().Bytes()

	_, err := squirrel.Insert("role").
		Columns("uuid", "name").
		Values(u, name).
		RunWith(s.conn).
		ExecContext(ctx)

	switch e := err.(type) {
	case nil:
		return rolegraph.Role{
			Name: name,
		}, nil
	case *mysql.MySQLError:
		if e.Number == MySQLErrorCodeDuplicateKey {
			logger.Debug(errRoleAlreadyExists)
			return rolegraph.Role{}, rolegraph.ErrRoleAlreadyExists
		}

		logger.Error(failedToCreateRole, err)
		return rolegraph.Role{}, err
	default:
		logger.Error(failedToCreateRole, err)
		return rolegraph.Role{}, err
	}
}

func (s *Store) FindRole(
	ctx context.Context,
	logger logx.Logger,
	query repos.FindRoleQuery,
) (rolegraph.Role, error) {
	logger = logger.WithName("find-role")

	var name string

	err := squirrel.Select("name").
		From("role").
		Where(squirrel.Eq{
			"name": query.RoleName,
		}).
		RunWith(s.conn).
		ScanContext(ctx, &name)

	switch err {
	case nil:
		return rolegraph.Role{
			Name: name,
		}, nil
	case sql.ErrNoRows:
		logger.Debug(errRoleNotFound)
		return rolegraph.Role{}, rolegraph.ErrRoleNotFound
	default:
		logger.Error(failedToFindRole, err)
		return rolegraph.Role{}, err
	}
}

func (s *Store) RoleExists(
	ctx context.Context,
	logger logx.Logger,
	roleName string,
) (bool, error) {
	logger = logger.WithName("role-exists")

	var count int

	err := squirrel.Select("count(id)").
		From("role").
		Where(squirrel.Eq{
			"name": roleName,
		}).
		RunWith(s.conn).
		ScanContext(ctx, &count)
	if err != nil {
		logger.Error(failedToFindRole, err)
		return false, err
	}

	return count > 0, nil
}

func (s *Store) DeleteRole(
	ctx context.Context,
	logger logx.Logger,
	roleName string,
) error {
	logger = logger.WithName("delete-role")

	result, err := squirrel.Delete("role").
		Where(squirrel.Eq{
			"name": roleName,
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
			logger.Debug(errRoleNotFound)
			return rolegraph.ErrRoleNotFound
		}

		return nil
	case sql.ErrNoRows:
		logger.Debug(errRoleNotFound)
		return rolegraph.ErrRoleNotFound
	default:
		logger.Error(failedToDeleteRole, err)
		return err
	}
}

func (s *Store) ListRoles(
	ctx context.Context,
	logger logx.Logger,
) ([]rolegraph.Role, error) {
	logger = logger.WithName("list-roles")

	rows, err := squirrel.Select("name").
		From("role").
		OrderBy("id").
		RunWith(s.conn).
		QueryContext(ctx)
	if err != nil {
		logger.Error(failedToListRoles, err)
		return nil, err
	}
	defer rows.Close()

	var roles []rolegraph.Role
	for rows.Next() {
		var name string

		e := rows.Scan(&name)
		if e != nil {
			logger.Error(failedToScanRow, e)
			return nil, e
		}

		roles = append(roles, rolegraph.Role{Name: name})
	}

	err = rows.Err()
	if err != nil {
		logger.Error(failedToIterateOverRows, err)
		return nil, err
	}

	return roles, nil
}

func (s *Store) ClearRoles(
	ctx context.Context,
	logger logx.Logger,
) error {
	logger = logger.WithName("clear-roles")

	_, err := squirrel.Delete("role").
		RunWith(s.conn).
		ExecContext(ctx)
	if err != nil {
		logger.Error(failedToDeleteRole, err)
		return err
	}

	return nil
}
