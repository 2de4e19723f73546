package logx

import "context"

type SecurityData struct {
	Key   string
	Value string
}

// SecurityLogger records security-relevant events, e.g. the outcome of
// an authorization check, separately from the operational log stream.
type SecurityLogger interface {
	Log(ctx context.Context, signature string, name string, args ...SecurityData)
}
