// Package monitor exercises a full authorization cycle against a
// manager and reports timing and correctness stats, for black-box
// health monitoring of a deployment.
package monitor

import (
	"context"
	"time"

	"github.com/rolegraph/rolegraph"
	"github.com/rolegraph/rolegraph/ability"
	"github.com/rolegraph/rolegraph/logx"
)

const (
	ProbeRoleName       = "system.probe"
	ProbePermissionName = "system.probe.permission"
	ProbeUserID         = "system.probe.user"

	ProbeAction  = "probe"
	ProbeSubject = "system.probe.subject"
)

// ProbeConditions restrict the probe permission to the probe's own
// subject instance, so a mismatched instance must be denied.
var ProbeConditions = rolegraph.Conditions{"owner": "system.probe"}

var (
	probeMatchingAttributes   = map[string]interface{}{"owner": "system.probe"}
	probeMismatchedAttributes = map[string]interface{}{"owner": "someone-else"}
)

// Client is the slice of the authorization manager the probe drives.
type Client interface {
	CreatePermission(ctx context.Context, permission rolegraph.Permission) (rolegraph.Permission, error)
	CreateRole(ctx context.Context, name string) (rolegraph.Role, error)
	AttachPermission(ctx context.Context, roleName, permissionName string) error
	Assign(ctx context.Context, roleName, userID string) error
	HasPermission(ctx context.Context, userID, permissionName string) (bool, error)
	Can(ctx context.Context, userID, action, subject string, attributes map[string]interface{}) (ability.Decision, error)
	Revoke(ctx context.Context, roleName, userID string) error
	DetachPermission(ctx context.Context, roleName, permissionName string) error
	DeleteRole(ctx context.Context, name string) error
	DeletePermission(ctx context.Context, name string) error
}

type Probe struct {
	client Client
	opts   *options
}

type LabeledDuration struct {
	Label    string
	Duration time.Duration
}

func NewProbe(client Client, opts ...Option) *Probe {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	return &Probe{
		client: client,
		opts:   o,
	}
}

// Cycle runs one full setup/check/cleanup pass and reports it to the
// statter. Incorrect answers and API failures each lower the
// correctness and success gauges; a correct pass slower than the
// configured max latency still counts as correct but not successful.
func (p *Probe) Cycle(ctx context.Context, logger logx.Logger, statter ProbeStatter, uniqueSuffix string) {
	logger = logger.WithName("cycle")
	logger.Debug(starting)
	defer logger.Debug(finished)

	runCtx, cancel := context.WithTimeout(ctx, p.opts.timeout)
	defer cancel()

	correct, durations, err := p.runOnce(runCtx, logger, uniqueSuffix)

	cleanupCtx, cleanupCancel := context.WithTimeout(ctx, p.opts.cleanupTimeout)
	defer cleanupCancel()
	p.Cleanup(cleanupCtx, logger, uniqueSuffix)

	for _, d := range durations {
		statter.RecordProbeDuration(logger, d.Duration)
	}

	switch {
	case err != nil:
		statter.SendFailedProbe(logger)
	case !correct:
		statter.SendIncorrectProbe(logger)
	case exceedsMaxLatency(durations, p.opts.maxLatency):
		logger.Error(failed, ExceededMaxLatencyError{})
		statter.SendFailedProbe(logger)
	default:
		statter.SendCorrectProbe(logger)
	}
}

func (p *Probe) runOnce(ctx context.Context, logger logx.Logger, uniqueSuffix string) (bool, []LabeledDuration, error) {
	durations, err := p.Setup(ctx, logger, uniqueSuffix)
	if err != nil {
		return false, durations, err
	}

	correct, runDurations, err := p.Run(ctx, logger, uniqueSuffix)
	durations = append(durations, runDurations...)

	return correct, durations, err
}

// Setup creates the probe's permission and role, attaches one to the
// other, and assigns the role to the probe user. Leftovers from an
// earlier interrupted pass are tolerated.
func (p *Probe) Setup(ctx context.Context, logger logx.Logger, uniqueSuffix string) ([]LabeledDuration, error) {
	logger = logger.WithName("setup")
	logger.Debug(starting)
	defer logger.Debug(finished)

	var durations []LabeledDuration

	permissionName := ProbePermissionName + "." + uniqueSuffix
	roleName := ProbeRoleName + "." + uniqueSuffix

	duration, err := p.timed("CreatePermission", func() error {
		_, err := p.client.CreatePermission(ctx, rolegraph.Permission{
			Name:       permissionName,
			Action:     ProbeAction,
			Subject:    ProbeSubject,
			Conditions: ProbeConditions,
		})
		return err
	})
	durations = append(durations, duration)
	if err != nil && err != rolegraph.ErrPermissionAlreadyExists {
		logger.Error(failedToCreatePermission, err, logx.Data{Key: "permission.name", Value: permissionName})
		return durations, err
	}

	duration, err = p.timed("CreateRole", func() error {
		_, err := p.client.CreateRole(ctx, roleName)
		return err
	})
	durations = append(durations, duration)
	if err != nil && err != rolegraph.ErrRoleAlreadyExists {
		logger.Error(failedToCreateRole, err, logx.Data{Key: "role.name", Value: roleName})
		return durations, err
	}

	duration, err = p.timed("AttachPermission", func() error {
		return p.client.AttachPermission(ctx, roleName, permissionName)
	})
	durations = append(durations, duration)
	if err != nil && err != rolegraph.ErrPermissionAlreadyAttached {
		logger.Error(failedToAttachPermission, err, logx.Data{Key: "role.name", Value: roleName})
		return durations, err
	}

	duration, err = p.timed("Assign", func() error {
		return p.client.Assign(ctx, roleName, ProbeUserID)
	})
	durations = append(durations, duration)
	if err != nil && err != rolegraph.ErrAssignmentAlreadyExists {
		logger.Error(failedToAssignRole, err, logx.Data{Key: "role.name", Value: roleName})
		return durations, err
	}

	return durations, nil
}

// Run asks the three questions whose answers are known in advance: the
// probe user holds the permission, may act on its own subject instance,
// and must be denied on anyone else's.
func (p *Probe) Run(ctx context.Context, logger logx.Logger, uniqueSuffix string) (bool, []LabeledDuration, error) {
	logger = logger.WithName("run")
	logger.Debug(starting)
	defer logger.Debug(finished)

	var durations []LabeledDuration

	permissionName := ProbePermissionName + "." + uniqueSuffix

	var hasPermission bool
	duration, err := p.timed("HasPermission", func() error {
		var err error
		hasPermission, err = p.client.HasPermission(ctx, ProbeUserID, permissionName)
		return err
	})
	durations = append(durations, duration)
	if err != nil {
		logger.Error(failedToFindPermissions, err)
		return false, durations, err
	}
	if !hasPermission {
		logger.Error(failed, HasAssignedPermissionError{})
		return false, durations, nil
	}

	var decision ability.Decision
	duration, err = p.timed("Can", func() error {
		var err error
		decision, err = p.client.Can(ctx, ProbeUserID, ProbeAction, ProbeSubject, probeMatchingAttributes)
		return err
	})
	durations = append(durations, duration)
	if err != nil {
		logger.Error(failedToCheckAbility, err)
		return false, durations, err
	}
	if !decision.Allowed {
		logger.Error(failed, DeniedAllowedCheckError{})
		return false, durations, nil
	}

	duration, err = p.timed("Can", func() error {
		var err error
		decision, err = p.client.Can(ctx, ProbeUserID, ProbeAction, ProbeSubject, probeMismatchedAttributes)
		return err
	})
	durations = append(durations, duration)
	if err != nil {
		logger.Error(failedToCheckAbility, err)
		return false, durations, err
	}
	if decision.Allowed {
		logger.Error(failed, AllowedDeniedCheckError{})
		return false, durations, nil
	}

	return true, durations, nil
}

// Cleanup tears the probe fixtures down in dependency order. Cleanup is
// best effort; a pass that failed before setup completed leaves nothing
// behind and every step tolerates the matching not-found error.
func (p *Probe) Cleanup(ctx context.Context, logger logx.Logger, uniqueSuffix string) {
	logger = logger.WithName("cleanup")
	logger.Debug(starting)
	defer logger.Debug(finished)

	permissionName := ProbePermissionName + "." + uniqueSuffix
	roleName := ProbeRoleName + "." + uniqueSuffix

	err := p.client.Revoke(ctx, roleName, ProbeUserID)
	if err != nil && err != rolegraph.ErrAssignmentNotFound && err != rolegraph.ErrRoleNotFound {
		logger.Error(failedToRevokeRole, err, logx.Data{Key: "role.name", Value: roleName})
	}

	err = p.client.DetachPermission(ctx, roleName, permissionName)
	if err != nil && err != rolegraph.ErrPermissionNotAttached && err != rolegraph.ErrPermissionNotFound {
		logger.Error(failedToDetachPermission, err, logx.Data{Key: "role.name", Value: roleName})
	}

	err = p.client.DeleteRole(ctx, roleName)
	if err != nil && err != rolegraph.ErrRoleNotFound {
		logger.Error(failedToDeleteRole, err, logx.Data{Key: "role.name", Value: roleName})
	}

	err = p.client.DeletePermission(ctx, permissionName)
	if err != nil && err != rolegraph.ErrPermissionNotFound {
		logger.Error(failedToDeletePermission, err, logx.Data{Key: "permission.name", Value: permissionName})
	}
}

func (p *Probe) timed(label string, f func() error) (LabeledDuration, error) {
	start := p.opts.clock.Now()
	err := f()
	duration := p.opts.clock.Since(start)

	return LabeledDuration{Label: label, Duration: duration}, err
}

func exceedsMaxLatency(durations []LabeledDuration, maxLatency time.Duration) bool {
	for _, d := range durations {
		if d.Duration > maxLatency {
			return true
		}
	}

	return false
}
