package db

const (
	errPermissionAlreadyExists   = "permission-already-exists"
	errPermissionNotFound        = "permission-not-found"
	errRoleAlreadyExists         = "role-already-exists"
	errRoleNotFound              = "role-not-found"
	errPermissionAlreadyAttached = "permission-already-attached"
	errPermissionNotAttached     = "permission-not-attached"
	errAssignmentAlreadyExists   = "assignment-already-exists"
	errAssignmentNotFound        = "assignment-not-found"

	failedToCreatePermission     = "failed-to-create-permission"
	failedToFindPermission       = "failed-to-find-permission"
	failedToDeletePermission     = "failed-to-delete-permission"
	failedToListPermissions      = "failed-to-list-permissions"
	failedToCreateRole           = "failed-to-create-role"
	failedToFindRole             = "failed-to-find-role"
	failedToDeleteRole           = "failed-to-delete-role"
	failedToListRoles            = "failed-to-list-roles"
	failedToAttachPermission     = "failed-to-attach-permission"
	failedToDetachPermission     = "failed-to-detach-permission"
	failedToFindAttachment       = "failed-to-find-attachment"
	failedToCreateAssignment     = "failed-to-create-assignment"
	failedToDeleteAssignment     = "failed-to-delete-assignment"
	failedToFindAssignment       = "failed-to-find-assignment"
	failedToListAssignments      = "failed-to-list-assignments"
	failedToCountRowsAffected    = "failed-to-count-rows-affected"
	failedToScanRow              = "failed-to-scan-row"
	failedToIterateOverRows      = "failed-to-iterate-over-rows"
	failedToEncodePermission     = "failed-to-encode-permission"
	failedToDecodePermission     = "failed-to-decode-permission"
)
