package rolegraph

import "github.com/rolegraph/rolegraph/errdefs"

var (
	ErrRoleNotFound      = errdefs.NewErrNotFound("role")
	ErrRoleAlreadyExists = errdefs.NewErrAlreadyExists("role")
	ErrRoleInUse         = errdefs.NewErrInUse("role")

	ErrPermissionNotFound      = errdefs.NewErrNotFound("permission")
	ErrPermissionAlreadyExists = errdefs.NewErrAlreadyExists("permission")
	ErrPermissionInUse         = errdefs.NewErrInUse("permission")

	ErrPermissionAlreadyAttached = errdefs.NewErrAlreadyAttached("permission")
	ErrPermissionNotAttached     = errdefs.NewErrNotAttached("permission")

	ErrAssignmentNotFound      = errdefs.NewErrNotFound("assignment")
	ErrAssignmentAlreadyExists = errdefs.NewErrAlreadyExists("assignment")

	ErrStorageUnavailable = errdefs.NewErrUnavailable("storage")
)
