package db

import (
	"context"
	"database/sql"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/go-sql-driver/mysql"
	"github.com/rolegraph/rolegraph"
	"github.com/rolegraph/rolegraph/logx"
	"github.com/rolegraph/rolegraph/repos"
	uuid "github.com/satori/go.uuid"
)

func (s *Store) CreateAssignment(
	ctx context.Context,
	logger logx.Logger,
	roleName string,
	userID string,
) error {
	logger = logger.WithName("create-assignment").WithData(
		logx.Data{Key: "role.name", Value: roleName},
		logx.Data{Key: "assignment.user_id", Value: userID},
	)

	u := uuid.NewV4().Bytes()

	_, err := squirrel.Insert("assignment").
		Columns("uuid", "role_name", "user_id", "created_at").
		Values(u, roleName, userID, time.Now()).
		RunWith(s.conn).
		ExecContext(ctx)

	switch e := err.(type) {
	case nil:
		return nil
	case *mysql.MySQLError:
		if e.Number == MySQLErrorCodeDuplicateKey {
			logger.Debug(errAssignmentAlreadyExists)
			return rolegraph.ErrAssignmentAlreadyExists
		}

		logger.Error(failedToCreateAssignment, err)
		return err
	default:
		logger.Error(failedToCreateAssignment, err)
		return err
	}
}

func (s *Store) DeleteAssignment(
	ctx context.Context,
	logger logx.Logger,
	roleName string,
	userID string,
) error {
	logger = logger.WithName("delete-assignment").WithData(
		logx.Data{Key: "role.name", Value: roleName},
		logx.Data{Key: "assignment.user_id", Value: userID},
	)

	result, err := squirrel.Delete("assignment").
		Where(squirrel.Eq{
			"role_name": roleName,
			"user_id":   userID,
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
			logger.Debug(errAssignmentNotFound)
			return rolegraph.ErrAssignmentNotFound
		}

		return nil
	case sql.ErrNoRows:
		logger.Debug(errAssignmentNotFound)
		return rolegraph.ErrAssignmentNotFound
	default:
		logger.Error(failedToDeleteAssignment, err)
		return err
	}
}

func (s *Store) FindAssignment(
	ctx context.Context,
	logger logx.Logger,
	query repos.FindAssignmentQuery,
) (rolegraph.Assignment, error) {
	logger = logger.WithName("find-assignment")

	var (
		roleName  string
		userID    string
		createdAt time.Time
	)

	err := squirrel.Select("role_name", "user_id", "created_at").
		From("assignment").
		Where(squirrel.Eq{
			"role_name": query.RoleName,
			"user_id":   query.UserID,
		}).
		RunWith(s.conn).
		ScanContext(ctx, &roleName, &userID, &createdAt)

	switch err {
	case nil:
		return rolegraph.Assignment{
			UserID:    userID,
			RoleName:  roleName,
			CreatedAt: createdAt,
		}, nil
	case sql.ErrNoRows:
		logger.Debug(errAssignmentNotFound)
		return rolegraph.Assignment{}, rolegraph.ErrAssignmentNotFound
	default:
		logger.Error(failedToFindAssignment, err)
		return rolegraph.Assignment{}, err
	}
}

func (s *Store) ListUserAssignments(
	ctx context.Context,
	logger logx.Logger,
	query repos.ListUserAssignmentsQuery,
) ([]rolegraph.Assignment, error) {
	logger = logger.WithName("list-user-assignments").WithData(
		logx.Data{Key: "assignment.user_id", Value: query.UserID},
	)

	rows, err := squirrel.Select("role_name", "user_id", "created_at").
		From("assignment").
		Where(squirrel.Eq{
			"user_id": query.UserID,
		}).
		OrderBy("id").
		RunWith(s.conn).
		QueryContext(ctx)
	if err != nil {
		logger.Error(failedToListAssignments, err)
		return nil, err
	}
	defer rows.Close()

	var assignments []rolegraph.Assignment
	for rows.Next() {
		var (
			roleName  string
			userID    string
			createdAt time.Time
		)

		e := rows.Scan(&roleName, &userID, &createdAt)
		if e != nil {
			logger.Error(failedToScanRow, e)
			return nil, e
		}

		assignments = append(assignments, rolegraph.Assignment{
			UserID:    userID,
			RoleName:  roleName,
			CreatedAt: createdAt,
		})
	}

	err = rows.Err()
	if err != nil {
		logger.Error(failedToIterateOverRows, err)
		return nil, err
	}

	return assignments, nil
}

func (s *Store) HasAssignments(
	ctx context.Context,
	logger logx.Logger,
	roleName string,
) (bool, error) {
	logger = logger.WithName("has-assignments").WithData(
		logx.Data{Key: "role.name", Value: roleName},
	)

	var count int

	err := squirrel.Select("count(id)").
		From("assignment").
		Where(squirrel.Eq{
			"role_name": roleName,
		}).
		RunWith(s.conn).
		ScanContext(ctx, &count)
	if err != nil {
		logger.Error(failedToFindAssignment, err)
		return false, err
	}

	return count > 0, nil
}

func (s *Store) DeleteUserAssignments(
	ctx context.Context,
	logger logx.Logger,
	userID string,
) error {
	logger = logger.WithName("delete-user-assignments").WithData(
		logx.Data{Key: "assignment.user_id", Value: userID},
	)

	_, err := squirrel.Delete("assignment").
		Where(squirrel.Eq{
			"user_id": userID,
		}).
		RunWith(s.conn).
		ExecContext(ctx)
	if err != nil {
		logger.Error(failedToDeleteAssignment, err)
		return err
	}

	return nil
}

func (s *Store) DeleteRoleAssignments(
	ctx context.Context,
	logger logx.Logger,
	roleName string,
) error {
	logger = logger.WithName("delete-role-assignments").WithData(
		logx.Data{Key: "role.name", Value: roleName},
	)

	_, err := squirrel.Delete("assignment").
		Where(squirrel.Eq{
			"role_name": roleName,
		}).
		RunWith(s.conn).
		ExecContext(ctx)
	if err != nil {
		logger.Error(failedToDeleteAssignment, err)
		return err
	}

	return nil
}

func (s *Store) HasPermission(
	ctx context.Context,
	logger logx.Logger,
	query repos.HasPermissionQuery,
) (bool, error) {
	logger = logger.WithName("has-permission").WithData(
		logx.Data{Key: "assignment.user_id", Value: query.UserID},
		logx.Data{Key: "permission.name", Value: query.PermissionName},
	)

	var count int

	err := squirrel.Select("count(assignment.id)").
		From("assignment").
		JoinClause("INNER JOIN role_permission ON role_permission.role_name = assignment.role_name").
		Where(squirrel.Eq{
			"assignment.user_id":              query.UserID,
			"role_permission.permission_name": query.PermissionName,
		}).
		RunWith(s.conn).
		ScanContext(ctx, &count)
	if err != nil {
		logger.Error(failedToFindAssignment, err)
		return false, err
	}

	return count > 0, nil
}
