package inmemory

import (
	"context"

	"github.com/rolegraph/rolegraph"
	"github.com/rolegraph/rolegraph/logx"
	"github.com/rolegraph/rolegraph/repos"
)

func (s *Store) CreateRole(
	ctx context.Context,
	logger logx.Logger,
	name string,
) (rolegraph.Role, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.roles[name]; exists {
		logger.Debug(errRoleAlreadyExists)
		return rolegraph.Role{}, rolegraph.ErrRoleAlreadyExists
	}

	role := rolegraph.Role{
		Name: name,
	}
	s.roles[name] = role
	s.roleOrder = append(s.roleOrder, name)

	return role, nil
}

func (s *Store) FindRole(
	ctx context.Context,
	logger logx.Logger,
	query repos.FindRoleQuery,
) (rolegraph.Role, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	role, exists := s.roles[query.RoleName]
	if !exists {
		logger.Debug(errRoleNotFound)
		return rolegraph.Role{}, rolegraph.ErrRoleNotFound
	}

	return role, nil
}

func (s *Store) RoleExists(
	ctx context.Context,
	logger logx.Logger,
	roleName string,
) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, exists := s.roles[roleName]
	return exists, nil
}

func (s *Store) DeleteRole(
	ctx context.Context,
	logger logx.Logger,
	roleName string,
) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.roles[roleName]; !exists {
		logger.Debug(errRoleNotFound)
		return rolegraph.ErrRoleNotFound
	}

	delete(s.roles, roleName)
	s.roleOrder = removeName(s.roleOrder, roleName)

	logger.Debug(success)

	return nil
}

func (s *Store) ListRoles(
	ctx context.Context,
	logger logx.Logger,
) ([]rolegraph.Role, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	roles := make([]rolegraph.Role, 0, len(s.roleOrder))
	for _, name := range s.roleOrder {
		roles = append(roles, s.roles[name])
	}

	return roles, nil
}

func (s *Store) ClearRoles(
	ctx context.Context,
	logger logx.Logger,
) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.roles = make(map[string]rolegraph.Role)
	s.roleOrder = nil

	return nil
}
