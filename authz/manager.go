// Package authz coordinates the permission, role, attachment, and
// assignment repos behind one authorization surface. The repos enforce
// their own uniqueness; the manager enforces the rules that span repos,
// holding a per-name lock across each check and the mutation it guards.
package authz

import (
	"context"
	"time"

	"github.com/rolegraph/rolegraph"
	"github.com/rolegraph/rolegraph/ability"
	"github.com/rolegraph/rolegraph/logx"
	"github.com/rolegraph/rolegraph/metrics"
	"github.com/rolegraph/rolegraph/repos"
)

type Manager struct {
	logger logx.Logger

	permissions repos.PermissionRepo
	roles       repos.RoleRepo
	links       repos.RolePermissionRepo
	assignments repos.AssignmentRepo

	statter        metrics.Statter
	securityLogger logx.SecurityLogger

	locks keyedMutex
}

func NewManager(
	logger logx.Logger,
	permissions repos.PermissionRepo,
	roles repos.RoleRepo,
	links repos.RolePermissionRepo,
	assignments repos.AssignmentRepo,
	opts ...Option,
) *Manager {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	return &Manager{
		logger:         logger,
		permissions:    permissions,
		roles:          roles,
		links:          links,
		assignments:    assignments,
		statter:        o.statter,
		securityLogger: o.securityLogger,
	}
}

func (m *Manager) CreatePermission(ctx context.Context, permission rolegraph.Permission) (rolegraph.Permission, error) {
	logger := m.logger.WithName("create-permission").WithData(logx.Data{Key: "permission.name", Value: permission.Name})
	logger.Debug(starting)
	defer logger.Debug(finished)

	unlock := m.locks.lock(permissionKey(permission.Name))
	defer unlock()

	return m.permissions.CreatePermission(ctx, logger, permission)
}

func (m *Manager) GetPermission(ctx context.Context, name string) (rolegraph.Permission, error) {
	logger := m.logger.WithName("get-permission").WithData(logx.Data{Key: "permission.name", Value: name})

	return m.permissions.FindPermission(ctx, logger, repos.FindPermissionQuery{
		PermissionName: name,
	})
}

func (m *Manager) ListPermissions(ctx context.Context) ([]rolegraph.Permission, error) {
	logger := m.logger.WithName("list-permissions")

	return m.permissions.ListPermissions(ctx, logger)
}

// DeletePermission refuses to delete a permission while any role still
// holds it. The in-use check and the delete run under the permission's
// lock so a concurrent attach cannot slip between them.
func (m *Manager) DeletePermission(ctx context.Context, name string) error {
	logger := m.logger.WithName("delete-permission").WithData(logx.Data{Key: "permission.name", Value: name})
	logger.Debug(starting)
	defer logger.Debug(finished)

	unlock := m.locks.lock(permissionKey(name))
	defer unlock()

	exists, err := m.permissions.PermissionExists(ctx, logger, name)
	if err != nil {
		return err
	}
	if !exists {
		return rolegraph.ErrPermissionNotFound
	}

	inUse, err := m.links.PermissionInUse(ctx, logger, name)
	if err != nil {
		return err
	}
	if inUse {
		logger.Debug(errPermissionInUse)
		return rolegraph.ErrPermissionInUse
	}

	return m.permissions.DeletePermission(ctx, logger, name)
}

func (m *Manager) CreateRole(ctx context.Context, name string) (rolegraph.Role, error) {
	logger := m.logger.WithName("create-role").WithData(logx.Data{Key: "role.name", Value: name})
	logger.Debug(starting)
	defer logger.Debug(finished)

	unlock := m.locks.lock(roleKey(name))
	defer unlock()

	return m.roles.CreateRole(ctx, logger, name)
}

func (m *Manager) GetRole(ctx context.Context, name string) (rolegraph.Role, error) {
	logger := m.logger.WithName("get-role").WithData(logx.Data{Key: "role.name", Value: name})

	return m.roles.FindRole(ctx, logger, repos.FindRoleQuery{
		RoleName: name,
	})
}

func (m *Manager) ListRoles(ctx context.Context) ([]rolegraph.Role, error) {
	logger := m.logger.WithName("list-roles")

	return m.roles.ListRoles(ctx, logger)
}

// DeleteRole refuses to delete a role while any user is still assigned
// to it. Once the check passes the role's attachments are cleared and
// the role removed, all under the role's lock.
func (m *Manager) DeleteRole(ctx context.Context, name string) error {
	logger := m.logger.WithName("delete-role").WithData(logx.Data{Key: "role.name", Value: name})
	logger.Debug(starting)
	defer logger.Debug(finished)

	unlock := m.locks.lock(roleKey(name))
	defer unlock()

	exists, err := m.roles.RoleExists(ctx, logger, name)
	if err != nil {
		return err
	}
	if !exists {
		return rolegraph.ErrRoleNotFound
	}

	assigned, err := m.assignments.HasAssignments(ctx, logger, name)
	if err != nil {
		return err
	}
	if assigned {
		logger.Debug(errRoleInUse)
		return rolegraph.ErrRoleInUse
	}

	err = m.links.ClearRolePermissions(ctx, logger, name)
	if err != nil {
		return err
	}

	return m.roles.DeleteRole(ctx, logger, name)
}

// AttachPermission links an existing permission to an existing role.
// Both the role's and the permission's locks are held, role first, so
// the attach cannot race a concurrent delete of either side.
func (m *Manager) AttachPermission(ctx context.Context, roleName, permissionName string) error {
	logger := m.logger.WithName("attach-permission").WithData(
		logx.Data{Key: "role.name", Value: roleName},
		logx.Data{Key: "permission.name", Value: permissionName},
	)
	logger.Debug(starting)
	defer logger.Debug(finished)

	unlockRole := m.locks.lock(roleKey(roleName))
	defer unlockRole()
	unlockPermission := m.locks.lock(permissionKey(permissionName))
	defer unlockPermission()

	exists, err := m.roles.RoleExists(ctx, logger, roleName)
	if err != nil {
		return err
	}
	if !exists {
		return rolegraph.ErrRoleNotFound
	}

	permission, err := m.permissions.FindPermission(ctx, logger, repos.FindPermissionQuery{
		PermissionName: permissionName,
	})
	if err != nil {
		return err
	}

	return m.links.AttachPermission(ctx, logger, roleName, permission)
}

// DetachPermission unlinks a permission from a role. The permission
// must exist; detaching one that was never created fails before the
// attachment is consulted.
func (m *Manager) DetachPermission(ctx context.Context, roleName, permissionName string) error {
	logger := m.logger.WithName("detach-permission").WithData(
		logx.Data{Key: "role.name", Value: roleName},
		logx.Data{Key: "permission.name", Value: permissionName},
	)
	logger.Debug(starting)
	defer logger.Debug(finished)

	unlock := m.locks.lock(permissionKey(permissionName))
	defer unlock()

	exists, err := m.permissions.PermissionExists(ctx, logger, permissionName)
	if err != nil {
		return err
	}
	if !exists {
		return rolegraph.ErrPermissionNotFound
	}

	return m.links.DetachPermission(ctx, logger, roleName, permissionName)
}

func (m *Manager) ListRolePermissions(ctx context.Context, roleName string) ([]rolegraph.Permission, error) {
	logger := m.logger.WithName("list-role-permissions").WithData(logx.Data{Key: "role.name", Value: roleName})

	exists, err := m.roles.RoleExists(ctx, logger, roleName)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, rolegraph.ErrRoleNotFound
	}

	return m.links.ListRolePermissions(ctx, logger, repos.ListRolePermissionsQuery{
		RoleName: roleName,
	})
}

func (m *Manager) ClearRolePermissions(ctx context.Context, roleName string) error {
	logger := m.logger.WithName("clear-role-permissions").WithData(logx.Data{Key: "role.name", Value: roleName})
	logger.Debug(starting)
	defer logger.Debug(finished)

	unlock := m.locks.lock(roleKey(roleName))
	defer unlock()

	exists, err := m.roles.RoleExists(ctx, logger, roleName)
	if err != nil {
		return err
	}
	if !exists {
		return rolegraph.ErrRoleNotFound
	}

	return m.links.ClearRolePermissions(ctx, logger, roleName)
}

// Assign gives userID the named role. The role must exist; the check
// and the insert run under the role's lock so the role cannot be
// deleted in between.
func (m *Manager) Assign(ctx context.Context, roleName, userID string) error {
	logger := m.logger.WithName("assign").WithData(
		logx.Data{Key: "role.name", Value: roleName},
		logx.Data{Key: "assignment.user_id", Value: userID},
	)
	logger.Debug(starting)
	defer logger.Debug(finished)

	unlock := m.locks.lock(roleKey(roleName))
	defer unlock()

	exists, err := m.roles.RoleExists(ctx, logger, roleName)
	if err != nil {
		return err
	}
	if !exists {
		return rolegraph.ErrRoleNotFound
	}

	return m.assignments.CreateAssignment(ctx, logger, roleName, userID)
}

// Revoke removes userID's assignment to the named role. The role must
// exist.
func (m *Manager) Revoke(ctx context.Context, roleName, userID string) error {
	logger := m.logger.WithName("revoke").WithData(
		logx.Data{Key: "role.name", Value: roleName},
		logx.Data{Key: "assignment.user_id", Value: userID},
	)
	logger.Debug(starting)
	defer logger.Debug(finished)

	unlock := m.locks.lock(roleKey(roleName))
	defer unlock()

	exists, err := m.roles.RoleExists(ctx, logger, roleName)
	if err != nil {
		return err
	}
	if !exists {
		return rolegraph.ErrRoleNotFound
	}

	return m.assignments.DeleteAssignment(ctx, logger, roleName, userID)
}

// RevokeAll removes every role assignment userID holds. Revoking a user
// with no assignments is not an error.
func (m *Manager) RevokeAll(ctx context.Context, userID string) error {
	logger := m.logger.WithName("revoke-all").WithData(logx.Data{Key: "assignment.user_id", Value: userID})
	logger.Debug(starting)
	defer logger.Debug(finished)

	return m.assignments.DeleteUserAssignments(ctx, logger, userID)
}

func (m *Manager) GetAssignment(ctx context.Context, roleName, userID string) (rolegraph.Assignment, error) {
	logger := m.logger.WithName("get-assignment").WithData(
		logx.Data{Key: "role.name", Value: roleName},
		logx.Data{Key: "assignment.user_id", Value: userID},
	)

	return m.assignments.FindAssignment(ctx, logger, repos.FindAssignmentQuery{
		RoleName: roleName,
		UserID:   userID,
	})
}

func (m *Manager) ListUserAssignments(ctx context.Context, userID string) ([]rolegraph.Assignment, error) {
	logger := m.logger.WithName("list-user-assignments").WithData(logx.Data{Key: "assignment.user_id", Value: userID})

	return m.assignments.ListUserAssignments(ctx, logger, repos.ListUserAssignmentsQuery{
		UserID: userID,
	})
}

// HasPermission reports whether any role assigned to userID carries the
// named permission, ignoring conditions and fields.
func (m *Manager) HasPermission(ctx context.Context, userID, permissionName string) (bool, error) {
	logger := m.logger.WithName("has-permission").WithData(
		logx.Data{Key: "assignment.user_id", Value: userID},
		logx.Data{Key: "permission.name", Value: permissionName},
	)

	return m.assignments.HasPermission(ctx, logger, repos.HasPermissionQuery{
		UserID:         userID,
		PermissionName: permissionName,
	})
}

// Can resolves every permission attached to the user's roles and
// evaluates the requested action on the subject instance described by
// attributes. The decision is timed, counted, and audit logged.
func (m *Manager) Can(ctx context.Context, userID, action, subject string, attributes map[string]interface{}) (ability.Decision, error) {
	return m.check(ctx, userID, action, subject, "", attributes)
}

// CanOnField is Can restricted to a single field of the subject.
func (m *Manager) CanOnField(ctx context.Context, userID, action, subject, field string, attributes map[string]interface{}) (ability.Decision, error) {
	return m.check(ctx, userID, action, subject, field, attributes)
}

func (m *Manager) check(ctx context.Context, userID, action, subject, field string, attributes map[string]interface{}) (ability.Decision, error) {
	logger := m.logger.WithName("check").WithData(
		logx.Data{Key: "assignment.user_id", Value: userID},
		logx.Data{Key: "action", Value: action},
		logx.Data{Key: "subject", Value: subject},
	)
	logger.Debug(starting)
	defer logger.Debug(finished)

	start := time.Now()

	userAbility, err := m.resolveAbility(ctx, logger, userID)
	if err != nil {
		return ability.Decision{}, err
	}

	decision := userAbility.ExplainOnField(action, subject, field, attributes)

	m.statter.TimingDuration(metricCheckDuration, time.Since(start))
	m.auditCheck(ctx, userID, action, subject, decision)

	return decision, nil
}

// resolveAbility gathers the user's rules role by role in assign order.
// A permission attached to several of the user's roles contributes one
// rule, the first one resolved.
func (m *Manager) resolveAbility(ctx context.Context, logger logx.Logger, userID string) (*ability.Ability, error) {
	assignments, err := m.assignments.ListUserAssignments(ctx, logger, repos.ListUserAssignmentsQuery{
		UserID: userID,
	})
	if err != nil {
		return nil, err
	}

	var rules []rolegraph.Permission
	seen := make(map[string]struct{})

	for _, assignment := range assignments {
		permissions, err := m.links.ListRolePermissions(ctx, logger, repos.ListRolePermissionsQuery{
			RoleName: assignment.RoleName,
		})
		if err != nil {
			return nil, err
		}

		for _, permission := range permissions {
			if _, ok := seen[permission.Name]; ok {
				continue
			}
			seen[permission.Name] = struct{}{}
			rules = append(rules, permission)
		}
	}

	return ability.New(rules...), nil
}

func (m *Manager) auditCheck(ctx context.Context, userID, action, subject string, decision ability.Decision) {
	outcome := checkAllowed
	metric := metricCheckAllowed
	if !decision.Allowed {
		outcome = checkDenied
		metric = metricCheckDenied
	}
	m.statter.Inc(metric, 1)

	args := []logx.SecurityData{
		{Key: "outcome", Value: outcome},
		{Key: "userID", Value: userID},
		{Key: "action", Value: action},
		{Key: "subject", Value: subject},
	}
	if decision.Reason != "" {
		args = append(args, logx.SecurityData{Key: "reason", Value: decision.Reason})
	}

	m.securityLogger.Log(ctx, checkSignature, "authorization decision", args...)
}
