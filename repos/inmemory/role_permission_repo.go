package inmemory

import (
	"context"

	"github.com/rolegraph/rolegraph"
	"github.com/rolegraph/rolegraph/logx"
	"github.com/rolegraph/rolegraph/repos"
)

func (s *Store) AttachPermission(
	ctx context.Context,
	logger logx.Logger,
	roleName string,
	permission rolegraph.Permission,
) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if roles, ok := s.permissionRoles[permission.Name]; ok {
		if _, attached := roles[roleName]; attached {
			logger.Debug(errPermissionAlreadyAttached)
			return rolegraph.ErrPermissionAlreadyAttached
		}
	}

	s.attach(roleName, permission)

	return nil
}

func (s *Store) DetachPermission(
	ctx context.Context,
	logger logx.Logger,
	roleName string,
	permissionName string,
) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.detach(roleName, permissionName) {
		logger.Debug(errPermissionNotAttached)
		return rolegraph.ErrPermissionNotAttached
	}

	logger.Debug(success)

	return nil
}

func (s *Store) HasAttachment(
	ctx context.Context,
	logger logx.Logger,
	query repos.HasAttachmentQuery,
) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	roles, ok := s.permissionRoles[query.PermissionName]
	if !ok {
		return false, nil
	}

	_, attached := roles[query.RoleName]
	return attached, nil
}

func (s *Store) ListRolePermissions(
	ctx context.Context,
	logger logx.Logger,
	query repos.ListRolePermissionsQuery,
) ([]rolegraph.Permission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	attached := s.rolePermissions[query.RoleName]

	permissions := make([]rolegraph.Permission, len(attached))
	copy(permissions, attached)

	return permissions, nil
}

func (s *Store) PermissionInUse(
	ctx context.Context,
	logger logx.Logger,
	permissionName string,
) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	roles, ok := s.permissionRoles[permissionName]
	return ok && len(roles) > 0, nil
}

func (s *Store) ClearRolePermissions(
	ctx context.Context,
	logger logx.Logger,
	roleName string,
) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, permission := range s.rolePermissions[roleName] {
		if roles, ok := s.permissionRoles[permission.Name]; ok {
			delete(roles, roleName)
			if len(roles) == 0 {
				delete(s.permissionRoles, permission.Name)
			}
		}
	}
	delete(s.rolePermissions, roleName)

	logger.Debug(success)

	return nil
}
