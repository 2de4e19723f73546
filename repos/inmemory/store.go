package inmemory

import (
	"sync"

	"code.cloudfoundry.org/clock"
	"github.com/rolegraph/rolegraph"
)

// Store keeps all four collections behind one RWMutex so that a
// check-and-mutate inside a single operation, and every bulk cascade,
// is atomic with respect to readers. Each relation is held in both
// directions and only ever updated through the paired helpers below.
type Store struct {
	mu sync.RWMutex

	permissions     map[string]rolegraph.Permission
	permissionOrder []string

	roles     map[string]rolegraph.Role
	roleOrder []string

	// role -> permissions in attach order
	rolePermissions map[string][]rolegraph.Permission
	// permission -> set of role names using it
	permissionRoles map[string]map[string]struct{}

	// user -> assignments in assign order
	userAssignments map[string][]rolegraph.Assignment
	// role -> user -> assignment
	roleUsers map[string]map[string]rolegraph.Assignment

	clock clock.Clock
}

func NewStore(c clock.Clock) *Store {
	return &Store{
		permissions:     make(map[string]rolegraph.Permission),
		roles:           make(map[string]rolegraph.Role),
		rolePermissions: make(map[string][]rolegraph.Permission),
		permissionRoles: make(map[string]map[string]struct{}),
		userAssignments: make(map[string][]rolegraph.Assignment),
		roleUsers:       make(map[string]map[string]rolegraph.Assignment),
		clock:           c,
	}
}

// attach updates both directions of the role-permission relation.
// Callers hold s.mu.
func (s *Store) attach(roleName string, permission rolegraph.Permission) {
	s.rolePermissions[roleName] = append(s.rolePermissions[roleName], permission)

	roles, ok := s.permissionRoles[permission.Name]
	if !ok {
		roles = make(map[string]struct{})
		s.permissionRoles[permission.Name] = roles
	}
	roles[roleName] = struct{}{}
}

// detach removes both directions of the role-permission relation and
// reports whether the pair existed. Callers hold s.mu.
func (s *Store) detach(roleName, permissionName string) bool {
	attached := s.rolePermissions[roleName]

	for i, permission := range attached {
		if permission.Name != permissionName {
			continue
		}

		s.rolePermissions[roleName] = append(attached[:i], attached[i+1:]...)

		if roles, ok := s.permissionRoles[permissionName]; ok {
			delete(roles, roleName)
			if len(roles) == 0 {
				delete(s.permissionRoles, permissionName)
			}
		}

		return true
	}

	return false
}

// assign updates both directions of the role-user relation. Callers
// hold s.mu.
func (s *Store) assign(assignment rolegraph.Assignment) {
	s.userAssignments[assignment.UserID] = append(s.userAssignments[assignment.UserID], assignment)

	users, ok := s.roleUsers[assignment.RoleName]
	if !ok {
		users = make(map[string]rolegraph.Assignment)
		s.roleUsers[assignment.RoleName] = users
	}
	users[assignment.UserID] = assignment
}

// unassign removes both directions of the role-user relation and
// reports whether the pair existed. Callers hold s.mu.
func (s *Store) unassign(roleName, userID string) bool {
	users, ok := s.roleUsers[roleName]
	if !ok {
		return false
	}

	if _, ok := users[userID]; !ok {
		return false
	}

	delete(users, userID)
	if len(users) == 0 {
		delete(s.roleUsers, roleName)
	}

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

	return true
}
