package repos

import (
	"context"

	"github.com/rolegraph/rolegraph"
	"github.com/rolegraph/rolegraph/logx"
)

type FindRoleQuery struct {
	RoleName string
}

type RoleRepo interface {
	CreateRole(
		ctx context.Context,
		logger logx.Logger,
		name string,
	) (rolegraph.Role, error)

	FindRole(
		ctx context.Context,
		logger logx.Logger,
		query FindRoleQuery,
	) (rolegraph.Role, error)

	RoleExists(
		ctx context.Context,
		logger logx.Logger,
		roleName string,
	) (bool, error)

	DeleteRole(
		ctx context.Context,
		logger logx.Logger,
		roleName string,
	) error

	// ListRoles returns roles in creation order.
	ListRoles(
		ctx context.Context,
		logger logx.Logger,
	) ([]rolegraph.Role, error)

	ClearRoles(
		ctx context.Context,
		logger logx.Logger,
	) error
}
