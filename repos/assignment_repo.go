package repos

import (
	"context"

	"github.com/rolegraph/rolegraph"
	"github.com/rolegraph/rolegraph/logx"
)

type FindAssignmentQuery struct {
	RoleName string
	UserID   string
}

type ListUserAssignmentsQuery struct {
	UserID string
}

type HasPermissionQuery struct {
	UserID         string
	PermissionName string
}

// AssignmentRepo owns the role-user assignment relation, both index
// directions kept consistent. HasPermission is the authorization fast
// path joining assignments with role-permission attachments; the SQL
// store expresses it as a join, the in-memory store as a lookup over
// both indices under one lock.
type AssignmentRepo interface {
	CreateAssignment(
		ctx context.Context,
		logger logx.Logger,
		roleName string,
		userID string,
	) error

	DeleteAssignment(
		ctx context.Context,
		logger logx.Logger,
		roleName string,
		userID string,
	) error

	FindAssignment(
		ctx context.Context,
		logger logx.Logger,
		query FindAssignmentQuery,
	) (rolegraph.Assignment, error)

	// ListUserAssignments returns a user's assignments in assign order.
	ListUserAssignments(
		ctx context.Context,
		logger logx.Logger,
		query ListUserAssignmentsQuery,
	) ([]rolegraph.Assignment, error)

	HasAssignments(
		ctx context.Context,
		logger logx.Logger,
		roleName string,
	) (bool, error)

	DeleteUserAssignments(
		ctx context.Context,
		logger logx.Logger,
		userID string,
	) error

	DeleteRoleAssignments(
		ctx context.Context,
		logger logx.Logger,
		roleName string,
	) error

	HasPermission(
		ctx context.Context,
		logger logx.Logger,
		query HasPermissionQuery,
	) (bool, error)
}

// Store is the full storage surface the authorization manager consumes.
type Store interface {
	PermissionRepo
	RoleRepo
	RolePermissionRepo
	AssignmentRepo
}
