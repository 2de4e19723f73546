package inmemory_test

import (
	"time"

	"code.cloudfoundry.org/clock/fakeclock"
	"github.com/rolegraph/rolegraph/repos"
	. "github.com/rolegraph/rolegraph/repos/inmemory"
	. "github.com/rolegraph/rolegraph/repos/reposbehaviors"

	. "github.com/onsi/ginkgo"
)

var _ = Describe("Store", func() {
	var (
		store *Store
	)

	BeforeEach(func() {
		store = NewStore(fakeclock.NewFakeClock(time.Now()))
	})

	BehavesLikeAPermissionRepo(func() repos.PermissionRepo { return store })
	BehavesLikeARoleRepo(func() repos.RoleRepo { return store })
	BehavesLikeARolePermissionRepo(func() repos.RolePermissionRepo { return store })
	BehavesLikeAnAssignmentRepo(func() repos.Store { return store })
})
