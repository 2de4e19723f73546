package repos

import (
	"context"

	"github.com/rolegraph/rolegraph"
	"github.com/rolegraph/rolegraph/logx"
)

type HasAttachmentQuery struct {
	RoleName       string
	PermissionName string
}

type ListRolePermissionsQuery struct {
	RoleName string
}

// RolePermissionRepo owns the role-permission attachment relation. Both
// index directions are updated together; neither is ever exposed
// half-written. PermissionInUse must not degrade to a scan over every
// role: implementations keep a reverse index (or an indexed column).
type RolePermissionRepo interface {
	AttachPermission(
		ctx context.Context,
		logger logx.Logger,
		roleName string,
		permission rolegraph.Permission,
	) error

	DetachPermission(
		ctx context.Context,
		logger logx.Logger,
		roleName string,
		permissionName string,
	) error

	HasAttachment(
		ctx context.Context,
		logger logx.Logger,
		query HasAttachmentQuery,
	) (bool, error)

	// ListRolePermissions returns a role's permissions in attach order.
	ListRolePermissions(
		ctx context.Context,
		logger logx.Logger,
		query ListRolePermissionsQuery,
	) ([]rolegraph.Permission, error)

	PermissionInUse(
		ctx context.Context,
		logger logx.Logger,
		permissionName string,
	) (bool, error)

	ClearRolePermissions(
		ctx context.Context,
		logger logx.Logger,
		roleName string,
	) error
}
