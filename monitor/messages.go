package monitor

const (
	starting = "starting"
	finished = "finished"
	failed   = "failed"

	failedToRecordHistogramValue = "failed-to-record-histogram-value"
	failedToSendMetric           = "failed-to-send-metric"

	failedToCreatePermission = "failed-to-create-permission"
	failedToCreateRole       = "failed-to-create-role"
	failedToAttachPermission = "failed-to-attach-permission"
	failedToAssignRole       = "failed-to-assign-role"
	failedToRevokeRole       = "failed-to-revoke-role"
	failedToDetachPermission = "failed-to-detach-permission"
	failedToDeleteRole       = "failed-to-delete-role"
	failedToDeletePermission = "failed-to-delete-permission"

	failedToFindPermissions = "failed-to-find-permissions"
	failedToCheckAbility    = "failed-to-check-ability"
)
