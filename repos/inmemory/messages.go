package inmemory

const (
	success = "success"

	errPermissionAlreadyExists   = "permission-already-exists"
	errPermissionNotFound        = "permission-not-found"
	errRoleAlreadyExists         = "role-already-exists"
	errRoleNotFound              = "role-not-found"
	errPermissionAlreadyAttached = "permission-already-attached"
	errPermissionNotAttached     = "permission-not-attached"
	errAssignmentAlreadyExists   = "assignment-already-exists"
	errAssignmentNotFound        = "assignment-not-found"
)
