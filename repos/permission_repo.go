package repos

import (
	"context"

	"github.com/rolegraph/rolegraph"
	"github.com/rolegraph/rolegraph/logx"
)

type FindPermissionQuery struct {
	PermissionName string
}

// PermissionRepo owns the named permission collection. It performs no
// cross-collection validation; that is the manager's job.
type PermissionRepo interface {
	CreatePermission(
		ctx context.Context,
		logger logx.Logger,
		permission rolegraph.Permission,
	) (rolegraph.Permission, error)

	FindPermission(
		ctx context.Context,
		logger logx.Logger,
		query FindPermissionQuery,
	) (rolegraph.Permission, error)

	PermissionExists(
		ctx context.Context,
		logger logx.Logger,
		permissionName string,
	) (bool, error)

	DeletePermission(
		ctx context.Context,
		logger logx.Logger,
		permissionName string,
	) error

	// ListPermissions returns permissions in creation order.
	ListPermissions(
		ctx context.Context,
		logger logx.Logger,
	) ([]rolegraph.Permission, error)

	ClearPermissions(
		ctx context.Context,
		logger logx.Logger,
	) error
}
