package reposbehaviors_test

import (
	"context"
	"time"

	"code.cloudfoundry.org/lager/lagertest"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
	"github.com/rolegraph/rolegraph"
	"github.com/rolegraph/rolegraph/logx/lagerx"
	"github.com/rolegraph/rolegraph/repos"
	uuid "github.com/satori/go.uuid"
)

func BehavesLikeAPermissionRepo(subjectCreator func() repos.PermissionRepo) {
	var (
		subject repos.PermissionRepo

		ctx    context.Context
		logger *lagerx.Logger

		cancelFunc context.CancelFunc
	)

	BeforeEach(func() {
		subject = subjectCreator()

		ctx, cancelFunc = context.WithTimeout(context.Background(), 1*time.Second)
		logger = lagerx.NewLogger(lagertest.NewTestLogger("rolegraph-test"))
	})

	AfterEach(func() {
		cancelFunc()
	})

	Describe("#CreatePermission", func() {
		It("saves the permission", func() {
			permission := rolegraph.Permission{
				Name:       uuid.NewV4().String(),
				Action:     "read",
				Subject:    "Post",
				Fields:     []string{"title", "body"},
				Conditions: rolegraph.Conditions{"authorId": "1"},
			}

			created, err := subject.CreatePermission(ctx, logger, permission)

			Expect(err).NotTo(HaveOccurred())
			Expect(created).To(Equal(permission))

			found, err := subject.FindPermission(ctx, logger, repos.FindPermissionQuery{PermissionName: permission.Name})

			Expect(err).NotTo(HaveOccurred())
			Expect(found).To(Equal(permission))
		})

		It("fails if a permission with the name already exists", func() {
			permission := rolegraph.Permission{
				Name:    uuid.NewV4().String(),
				Action:  "read",
				Subject: "Post",
			}

			_, err := subject.CreatePermission(ctx, logger, permission)
			Expect(err).NotTo(HaveOccurred())

			_, err = subject.CreatePermission(ctx, logger, permission)
			Expect(err).To(Equal(rolegraph.ErrPermissionAlreadyExists))
		})
	})

	Describe("#FindPermission", func() {
		It("fails if the permission does not exist", func() {
			name := uuid.NewV4().String()

			_, err := subject.FindPermission(ctx, logger, repos.FindPermissionQuery{PermissionName: name})

			Expect(err).To(Equal(rolegraph.ErrPermissionNotFound))
		})
	})

	Describe("#PermissionExists", func() {
		It("reports whether the permission has been created", func() {
			name := uuid.NewV4().String()

			exists, err := subject.PermissionExists(ctx, logger, name)
			Expect(err).NotTo(HaveOccurred())
			Expect(exists).To(BeFalse())

			_, err = subject.CreatePermission(ctx, logger, rolegraph.Permission{Name: name, Action: "read", Subject: "Post"})
			Expect(err).NotTo(HaveOccurred())

			exists, err = subject.PermissionExists(ctx, logger, name)
			Expect(err).NotTo(HaveOccurred())
			Expect(exists).To(BeTrue())
		})
	})

	Describe("#DeletePermission", func() {
		It("deletes the permission if it exists", func() {
			name := uuid.NewV4().String()

			_, err := subject.CreatePermission(ctx, logger, rolegraph.Permission{Name: name, Action: "read", Subject: "Post"})
			Expect(err).NotTo(HaveOccurred())

			err = subject.DeletePermission(ctx, logger, name)
			Expect(err).NotTo(HaveOccurred())

			_, err = subject.FindPermission(ctx, logger, repos.FindPermissionQuery{PermissionName: name})
			Expect(err).To(Equal(rolegraph.ErrPermissionNotFound))
		})

		It("fails if the permission does not exist", func() {
			err := subject.DeletePermission(ctx, logger, uuid.NewV4().String())

			Expect(err).To(Equal(rolegraph.ErrPermissionNotFound))
		})
	})

	Describe("#ListPermissions", func() {
		It("returns the permissions in creation order", func() {
			name1 := uuid.NewV4().String()
			name2 := uuid.NewV4().String()

			_, err := subject.CreatePermission(ctx, logger, rolegraph.Permission{Name: name1, Action: "read", Subject: "Post"})
			Expect(err).NotTo(HaveOccurred())
			_, err = subject.CreatePermission(ctx, logger, rolegraph.Permission{Name: name2, Action: "update", Subject: "Post"})
			Expect(err).NotTo(HaveOccurred())

			permissions, err := subject.ListPermissions(ctx, logger)

			Expect(err).NotTo(HaveOccurred())
			Expect(permissions).To(HaveLen(2))
			Expect(permissions[0].Name).To(Equal(name1))
			Expect(permissions[1].Name).To(Equal(name2))
		})
	})

	Describe("#ClearPermissions", func() {
		It("removes every permission", func() {
			_, err := subject.CreatePermission(ctx, logger, rolegraph.Permission{Name: uuid.NewV4().String(), Action: "read", Subject: "Post"})
			Expect(err).NotTo(HaveOccurred())

			err = subject.ClearPermissions(ctx, logger)
			Expect(err).NotTo(HaveOccurred())

			permissions, err := subject.ListPermissions(ctx, logger)
			Expect(err).NotTo(HaveOccurred())
			Expect(permissions).To(BeEmpty())
		})
	})
}
