package monitor

type ExceededMaxLatencyError struct{}

func (e ExceededMaxLatencyError) Error() string {
	return "probe: an API call timed out"
}

type HasAssignedPermissionError struct{}

func (e HasAssignedPermissionError) Error() string {
	return "probe: incorrect result, HasPermission should have returned true"
}

type DeniedAllowedCheckError struct{}

func (e DeniedAllowedCheckError) Error() string {
	return "probe: incorrect result, Can should have allowed the matching request"
}

type AllowedDeniedCheckError struct{}

func (e AllowedDeniedCheckError) Error() string {
	return "probe: incorrect result, Can should have denied the mismatched request"
}
