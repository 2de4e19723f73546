package authz

const (
	starting = "starting"
	finished = "finished"

	errRoleInUse       = "role-in-use"
	errPermissionInUse = "permission-in-use"

	checkSignature = "authz-check"
	checkAllowed   = "allowed"
	checkDenied    = "denied"

	metricCheckDuration = "rolegraph.check.duration"
	metricCheckAllowed  = "rolegraph.check.allowed"
	metricCheckDenied   = "rolegraph.check.denied"
)
