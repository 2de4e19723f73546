package authz_test

import (
	"context"
	"sync"
	"time"

	"code.cloudfoundry.org/clock/fakeclock"
	"code.cloudfoundry.org/lager/lagertest"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
	"github.com/rolegraph/rolegraph"
	"github.com/rolegraph/rolegraph/authz"
	"github.com/rolegraph/rolegraph/logx/lagerx"
	"github.com/rolegraph/rolegraph/repos/inmemory"
)

var _ = Describe("Manager", func() {
	var (
		subject *authz.Manager
		store   *inmemory.Store

		ctx context.Context
	)

	BeforeEach(func() {
		store = inmemory.NewStore(fakeclock.NewFakeClock(time.Now()))
		logger := lagerx.NewLogger(lagertest.NewTestLogger("rolegraph-test"))

		subject = authz.NewManager(logger, store, store, store, store)

		ctx = context.Background()
	})

	Describe("permission lifecycle", func() {
		It("enforces name uniqueness", func() {
			permission := rolegraph.Permission{Name: "read-post", Action: "read", Subject: "Post"}

			_, err := subject.CreatePermission(ctx, permission)
			Expect(err).NotTo(HaveOccurred())

			_, err = subject.CreatePermission(ctx, permission)
			Expect(err).To(Equal(rolegraph.ErrPermissionAlreadyExists))
		})

		It("refuses to delete a permission attached to a role", func() {
			_, err := subject.CreatePermission(ctx, rolegraph.Permission{Name: "read-post", Action: "read", Subject: "Post"})
			Expect(err).NotTo(HaveOccurred())
			_, err = subject.CreateRole(ctx, "reader")
			Expect(err).NotTo(HaveOccurred())
			Expect(subject.AttachPermission(ctx, "reader", "read-post")).To(Succeed())

			err = subject.DeletePermission(ctx, "read-post")
			Expect(err).To(Equal(rolegraph.ErrPermissionInUse))

			Expect(subject.DetachPermission(ctx, "reader", "read-post")).To(Succeed())
			Expect(subject.DeletePermission(ctx, "read-post")).To(Succeed())
		})

		It("fails to delete a permission that does not exist", func() {
			err := subject.DeletePermission(ctx, "missing")

			Expect(err).To(Equal(rolegraph.ErrPermissionNotFound))
		})
	})

	Describe("role lifecycle", func() {
		It("enforces name uniqueness", func() {
			_, err := subject.CreateRole(ctx, "editor")
			Expect(err).NotTo(HaveOccurred())

			_, err = subject.CreateRole(ctx, "editor")
			Expect(err).To(Equal(rolegraph.ErrRoleAlreadyExists))
		})

		It("refuses to delete a role while a user holds it", func() {
			_, err := subject.CreateRole(ctx, "editor")
			Expect(err).NotTo(HaveOccurred())
			Expect(subject.Assign(ctx, "editor", "1")).To(Succeed())

			err = subject.DeleteRole(ctx, "editor")
			Expect(err).To(Equal(rolegraph.ErrRoleInUse))

			Expect(subject.Revoke(ctx, "editor", "1")).To(Succeed())
			Expect(subject.DeleteRole(ctx, "editor")).To(Succeed())
		})

		It("detaches the role's permissions when deleting it", func() {
			_, err := subject.CreatePermission(ctx, rolegraph.Permission{Name: "read-post", Action: "read", Subject: "Post"})
			Expect(err).NotTo(HaveOccurred())
			_, err = subject.CreateRole(ctx, "reader")
			Expect(err).NotTo(HaveOccurred())
			Expect(subject.AttachPermission(ctx, "reader", "read-post")).To(Succeed())

			Expect(subject.DeleteRole(ctx, "reader")).To(Succeed())

			Expect(subject.DeletePermission(ctx, "read-post")).To(Succeed())
		})
	})

	Describe("#AttachPermission", func() {
		It("requires both the role and the permission to exist", func() {
			_, err := subject.CreateRole(ctx, "editor")
			Expect(err).NotTo(HaveOccurred())

			err = subject.AttachPermission(ctx, "missing", "read-post")
			Expect(err).To(Equal(rolegraph.ErrRoleNotFound))

			err = subject.AttachPermission(ctx, "editor", "missing")
			Expect(err).To(Equal(rolegraph.ErrPermissionNotFound))
		})

		It("fails on a duplicate attachment", func() {
			_, err := subject.CreatePermission(ctx, rolegraph.Permission{Name: "read-post", Action: "read", Subject: "Post"})
			Expect(err).NotTo(HaveOccurred())
			_, err = subject.CreateRole(ctx, "reader")
			Expect(err).NotTo(HaveOccurred())

			Expect(subject.AttachPermission(ctx, "reader", "read-post")).To(Succeed())

			err = subject.AttachPermission(ctx, "reader", "read-post")
			Expect(err).To(Equal(rolegraph.ErrPermissionAlreadyAttached))
		})
	})

	Describe("#DetachPermission", func() {
		It("requires the permission to exist", func() {
			_, err := subject.CreateRole(ctx, "editor")
			Expect(err).NotTo(HaveOccurred())

			err = subject.DetachPermission(ctx, "editor", "missing")

			Expect(err).To(Equal(rolegraph.ErrPermissionNotFound))
		})

		It("fails when the permission exists but is not attached", func() {
			_, err := subject.CreatePermission(ctx, rolegraph.Permission{Name: "read-post", Action: "read", Subject: "Post"})
			Expect(err).NotTo(HaveOccurred())
			_, err = subject.CreateRole(ctx, "editor")
			Expect(err).NotTo(HaveOccurred())

			err = subject.DetachPermission(ctx, "editor", "read-post")

			Expect(err).To(Equal(rolegraph.ErrPermissionNotAttached))
		})
	})

	Describe("#Revoke", func() {
		It("requires the role to exist", func() {
			err := subject.Revoke(ctx, "missing", "1")

			Expect(err).To(Equal(rolegraph.ErrRoleNotFound))
		})

		It("fails when the role exists but the user is not assigned", func() {
			_, err := subject.CreateRole(ctx, "editor")
			Expect(err).NotTo(HaveOccurred())

			err = subject.Revoke(ctx, "editor", "1")

			Expect(err).To(Equal(rolegraph.ErrAssignmentNotFound))
		})
	})

	Describe("#Assign", func() {
		It("requires the role to exist", func() {
			err := subject.Assign(ctx, "missing", "1")

			Expect(err).To(Equal(rolegraph.ErrRoleNotFound))
		})

		It("fails on a duplicate assignment", func() {
			_, err := subject.CreateRole(ctx, "editor")
			Expect(err).NotTo(HaveOccurred())

			Expect(subject.Assign(ctx, "editor", "1")).To(Succeed())

			err = subject.Assign(ctx, "editor", "1")
			Expect(err).To(Equal(rolegraph.ErrAssignmentAlreadyExists))
		})

		It("records the assignment time", func() {
			_, err := subject.CreateRole(ctx, "editor")
			Expect(err).NotTo(HaveOccurred())
			Expect(subject.Assign(ctx, "editor", "1")).To(Succeed())

			assignment, err := subject.GetAssignment(ctx, "editor", "1")

			Expect(err).NotTo(HaveOccurred())
			Expect(assignment.CreatedAt).NotTo(BeZero())
		})
	})

	Describe("#RevokeAll", func() {
		It("removes every role the user holds", func() {
			_, err := subject.CreateRole(ctx, "editor")
			Expect(err).NotTo(HaveOccurred())
			_, err = subject.CreateRole(ctx, "reviewer")
			Expect(err).NotTo(HaveOccurred())
			Expect(subject.Assign(ctx, "editor", "1")).To(Succeed())
			Expect(subject.Assign(ctx, "reviewer", "1")).To(Succeed())

			Expect(subject.RevokeAll(ctx, "1")).To(Succeed())

			assignments, err := subject.ListUserAssignments(ctx, "1")
			Expect(err).NotTo(HaveOccurred())
			Expect(assignments).To(BeEmpty())
		})
	})

	Describe("#HasPermission", func() {
		It("follows the user's roles to their permissions", func() {
			_, err := subject.CreatePermission(ctx, rolegraph.Permission{Name: "read-post", Action: "read", Subject: "Post"})
			Expect(err).NotTo(HaveOccurred())
			_, err = subject.CreateRole(ctx, "reader")
			Expect(err).NotTo(HaveOccurred())
			Expect(subject.AttachPermission(ctx, "reader", "read-post")).To(Succeed())
			Expect(subject.Assign(ctx, "reader", "1")).To(Succeed())

			hasPermission, err := subject.HasPermission(ctx, "1", "read-post")
			Expect(err).NotTo(HaveOccurred())
			Expect(hasPermission).To(BeTrue())

			hasPermission, err = subject.HasPermission(ctx, "2", "read-post")
			Expect(err).NotTo(HaveOccurred())
			Expect(hasPermission).To(BeFalse())
		})
	})

	Describe("#Can", func() {
		BeforeEach(func() {
			_, err := subject.CreatePermission(ctx, rolegraph.Permission{
				Name:       "createPost",
				Action:     "create",
				Subject:    "Post",
				Conditions: rolegraph.Conditions{"isAuthor": true},
			})
			Expect(err).NotTo(HaveOccurred())

			_, err = subject.CreateRole(ctx, "author")
			Expect(err).NotTo(HaveOccurred())

			Expect(subject.AttachPermission(ctx, "author", "createPost")).To(Succeed())
			Expect(subject.Assign(ctx, "author", "1")).To(Succeed())
		})

		It("allows when the user's rules grant the action and conditions hold", func() {
			decision, err := subject.Can(ctx, "1", "create", "Post", map[string]interface{}{"isAuthor": true})

			Expect(err).NotTo(HaveOccurred())
			Expect(decision.Allowed).To(BeTrue())
		})

		It("denies when the conditions do not hold", func() {
			decision, err := subject.Can(ctx, "1", "create", "Post", map[string]interface{}{"isAuthor": false})

			Expect(err).NotTo(HaveOccurred())
			Expect(decision.Allowed).To(BeFalse())
		})

		It("denies a user with no matching rules", func() {
			decision, err := subject.Can(ctx, "2", "create", "Post", map[string]interface{}{"isAuthor": true})

			Expect(err).NotTo(HaveOccurred())
			Expect(decision.Allowed).To(BeFalse())
		})

		It("surfaces the reason of a forbidding rule on another role", func() {
			_, err := subject.CreatePermission(ctx, rolegraph.Permission{
				Name:     "suspended",
				Action:   "create",
				Subject:  "Post",
				Inverted: true,
				Reason:   "account suspended",
			})
			Expect(err).NotTo(HaveOccurred())
			_, err = subject.CreateRole(ctx, "suspended-users")
			Expect(err).NotTo(HaveOccurred())
			Expect(subject.AttachPermission(ctx, "suspended-users", "suspended")).To(Succeed())
			Expect(subject.Assign(ctx, "suspended-users", "1")).To(Succeed())

			decision, err := subject.Can(ctx, "1", "create", "Post", map[string]interface{}{"isAuthor": true})

			Expect(err).NotTo(HaveOccurred())
			Expect(decision.Allowed).To(BeFalse())
			Expect(decision.Reason).To(Equal("account suspended"))
		})
	})

	Describe("#CanOnField", func() {
		It("scopes the decision to the requested field", func() {
			_, err := subject.CreatePermission(ctx, rolegraph.Permission{
				Name:    "update-title",
				Action:  "update",
				Subject: "Post",
				Fields:  []string{"title"},
			})
			Expect(err).NotTo(HaveOccurred())
			_, err = subject.CreateRole(ctx, "editor")
			Expect(err).NotTo(HaveOccurred())
			Expect(subject.AttachPermission(ctx, "editor", "update-title")).To(Succeed())
			Expect(subject.Assign(ctx, "editor", "1")).To(Succeed())

			decision, err := subject.CanOnField(ctx, "1", "update", "Post", "title", nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(decision.Allowed).To(BeTrue())

			decision, err = subject.CanOnField(ctx, "1", "update", "Post", "body", nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(decision.Allowed).To(BeFalse())
		})
	})

	Describe("concurrent delete and attach", func() {
		It("never deletes a permission that ends up attached", func() {
			for i := 0; i < 25; i++ {
				_, err := subject.CreatePermission(ctx, rolegraph.Permission{Name: "read-post", Action: "read", Subject: "Post"})
				Expect(err).NotTo(HaveOccurred())
				_, err = subject.CreateRole(ctx, "reader")
				Expect(err).NotTo(HaveOccurred())

				var wg sync.WaitGroup
				wg.Add(2)

				var attachErr, deleteErr error
				go func() {
					defer wg.Done()
					attachErr = subject.AttachPermission(ctx, "reader", "read-post")
				}()
				go func() {
					defer wg.Done()
					deleteErr = subject.DeletePermission(ctx, "read-post")
				}()
				wg.Wait()

				if attachErr == nil && deleteErr == nil {
					Fail("both attach and delete succeeded")
				}

				if attachErr == nil {
					Expect(deleteErr).To(Equal(rolegraph.ErrPermissionInUse))
					Expect(subject.DetachPermission(ctx, "reader", "read-post")).To(Succeed())
					Expect(subject.DeletePermission(ctx, "read-post")).To(Succeed())
				} else {
					Expect(attachErr).To(Equal(rolegraph.ErrPermissionNotFound))
					Expect(deleteErr).NotTo(HaveOccurred())
				}

				Expect(subject.DeleteRole(ctx, "reader")).To(Succeed())
			}
		})
	})
})
