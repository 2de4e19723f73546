package inmemory

import (
	"context"

	"github.com/rolegraph/rolegraph"
	"github.com/rolegraph/rolegraph/logx"
	"github.com/rolegraph/rolegraph/repos"
)

func (s *Store) CreatePermission(
	ctx context.Context,
	logger logx.Logger,
	permission rolegraph.Permission,
) (rolegraph.Permission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.permissions[permission.Name]; exists {
		logger.Debug(errPermissionAlreadyExists)
		return rolegraph.Permission{}, rolegraph.ErrPermissionAlreadyExists
	}

	s.permissions[permission.Name] = permission
	s.permissionOrder = append(s.permissionOrder, permission.Name)

	return permission, nil
}

func (s *Store) FindPermission(
	ctx context.Context,
	logger logx.Logger,
	query repos.FindPermissionQuery,
) (rolegraph.Permission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	permission, exists := s.permissions[query.PermissionName]
	if !exists {
		logger.Debug(errPermissionNotFound)
		return rolegraph.Permission{}, rolegraph.ErrPermissionNotFound
	}

	return permission, nil
}

func (s *Store) PermissionExists(
	ctx context.Context,
	logger logx.Logger,
	permissionName string,
) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, exists := s.permissions[permissionName]
	return exists, nil
}

func (s *Store) DeletePermission(
	ctx context.Context,
	logger logx.Logger,
	permissionName string,
) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.permissions[permissionName]; !exists {
		logger.Debug(errPermissionNotFound)
		return rolegraph.ErrPermissionNotFound
	}

	delete(s.permissions, permissionName)
	s.permissionOrder = removeName(s.permissionOrder, permissionName)

	logger.Debug(success)

	return nil
}

func (s *Store) ListPermissions(
	ctx context.Context,
	logger logx.Logger,
) ([]rolegraph.Permission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	permissions := make([]rolegraph.Permission, 0, len(s.permissionOrder))
	for _, name := range s.permissionOrder {
		permissions = append(permissions, s.permissions[name])
	}

	return permissions, nil
}

func (s *Store) ClearPermissions(
	ctx context.Context,
	logger logx.Logger,
) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.permissions = make(map[string]rolegraph.Permission)
	s.permissionOrder = nil

	return nil
}

func removeName(names []string, name string) []string {
	for i, n := range names {
		if n == name {
			return append(names[:i], names[i+1:]...)
		}
	}

	return names
}
