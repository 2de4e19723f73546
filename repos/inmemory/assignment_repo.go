package inmemory

import (
	"context"

	"github.com/rolegraph/rolegraph"
	"github.com/rolegraph/rolegraph/logx"
	"github.com/rolegraph/rolegraph/repos"
)

func (s *Store) CreateAssignment(
	ctx context.Context,
	logger logx.Logger,
	roleName string,
	userID string,
) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if users, ok := s.roleUsers[roleName]; ok {
		if _, assigned := users[userID]; assigned {
			logger.Debug(errAssignmentAlreadyExists)
			return rolegraph.ErrAssignmentAlreadyExists
		}
	}

	s.assign(rolegraph.Assignment{
		UserID:    userID,
		RoleName:  roleName,
		CreatedAt: s.clock.Now(),
	})

	return nil
}

func (s *Store) DeleteAssignment(
	ctx context.Context,
	logger logx.Logger,
	roleName string,
	userID string,
) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.unassign(roleName, userID) {
		logger.Debug(errAssignmentNotFound)
		return rolegraph.ErrAssignmentNotFound
	}

	logger.Debug(success)

	return nil
}

func (s *Store) FindAssignment(
	ctx context.Context,
	logger logx.Logger,
	query repos.FindAssignmentQuery,
) (rolegraph.Assignment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users, ok := s.roleUsers[query.RoleName]
	if !ok {
		logger.Debug(errAssignmentNotFound)
		return rolegraph.Assignment{}, rolegraph.ErrAssignmentNotFound
	}

	assignment, ok := users[query.UserID]
	if !ok {
		logger.Debug(errAssignmentNotFound)
		return rolegraph.Assignment{}, rolegraph.ErrAssignmentNotFound
	}

	return assignment, nil
}

func (s *Store) ListUserAssignments(
	ctx context.Context,
	logger logx.Logger,
	query repos.ListUserAssignmentsQuery,
) ([]rolegraph.Assignment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	owned := s.userAssignments[query.UserID]

	assignments := make([]rolegraph.Assignment, len(owned))
	copy(assignments, owned)

	return assignments, nil
}

func (s *Store) HasAssignments(
	ctx context.Context,
	logger logx.Logger,
	roleName string,
) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users, ok := s.roleUsers[roleName]
	return ok && len(users) > 0, nil
}

func (s *Store) DeleteUserAssignments(
	ctx context.Context,
	logger logx.Logger,
	userID string,
) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, assignment := range s.userAssignments[userID] {
		users, ok := s.roleUsers[assignment.RoleName]
		if !ok {
			continue
		}

		delete(users, userID)
		if len(users) == 0 {
			delete(s.roleUsers, assignment.RoleName)
		}
	}
	delete(s.userAssignments, userID)

	logger.Debug(success)

	return nil
}

func (s *Store) DeleteRoleAssignments(
	ctx context.Context,
	logger logx.Logger,
	roleName string,
) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for userID := range s.roleUsers[roleName] {
		assignments := s.userAssignments[userID]
		for i, assignment := range assignments {
			if assignment.RoleName == roleName {
				s.userAssignments[userID] = append(assignments[:i], assignments[i+1:]...)
				break
			}
		}
		if len(s.userAssignments[userID]) == 0 {
			delete(s.userAssignments, userID)
		}
	}
	delete(s.roleUsers, roleName)

	logger.Debug(success)

	return nil
}

func (s *Store) HasPermission(
	ctx context.Context,
	logger logx.Logger,
	query repos.HasPermissionQuery,
) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, assignment := range s.userAssignments[query.UserID] {
		for _, permission := range s.rolePermissions[assignment.RoleName] {
			if permission.Name == query.PermissionName {
				return true, nil
			}
		}
	}

	return false, nil
}

var _ repos.Store = (*Store)(nil)
