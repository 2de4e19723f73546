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

func BehavesLikeARolePermissionRepo(subjectCreator func() repos.RolePermissionRepo) {
	var (
		subject repos.RolePermissionRepo

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

	Describe("#AttachPermission", func() {
		It("records the attachment", func() {
			roleName := uuid.NewV4().String()
			permission := rolegraph.Permission{Name: uuid.NewV4().String(), Action: "read", Subject: "Post"}

			err := subject.AttachPermission(ctx, logger, roleName, permission)
			Expect(err).NotTo(HaveOccurred())

			hasAttachment, err := subject.HasAttachment(ctx, logger, repos.HasAttachmentQuery{
				RoleName:       roleName,
				PermissionName: permission.Name,
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(hasAttachment).To(BeTrue())
		})

		It("fails if the permission is already attached to the role", func() {
			roleName := uuid.NewV4().String()
			permission := rolegraph.Permission{Name: uuid.NewV4().String(), Action: "read", Subject: "Post"}

			err := subject.AttachPermission(ctx, logger, roleName, permission)
			Expect(err).NotTo(HaveOccurred())

			err = subject.AttachPermission(ctx, logger, roleName, permission)
			Expect(err).To(Equal(rolegraph.ErrPermissionAlreadyAttached))
		})
	})

	Describe("#DetachPermission", func() {
		It("removes the attachment", func() {
			roleName := uuid.NewV4().String()
			permission := rolegraph.Permission{Name: uuid.NewV4().String(), Action: "read", Subject: "Post"}

			err := subject.AttachPermission(ctx, logger, roleName, permission)
			Expect(err).NotTo(HaveOccurred())

			err = subject.DetachPermission(ctx, logger, roleName, permission.Name)
			Expect(err).NotTo(HaveOccurred())

			hasAttachment, err := subject.HasAttachment(ctx, logger, repos.HasAttachmentQuery{
				RoleName:       roleName,
				PermissionName: permission.Name,
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(hasAttachment).To(BeFalse())
		})

		It("fails if the permission is not attached to the role", func() {
			err := subject.DetachPermission(ctx, logger, uuid.NewV4().String(), uuid.NewV4().String())

			Expect(err).To(Equal(rolegraph.ErrPermissionNotAttached))
		})
	})

	Describe("#ListRolePermissions", func() {
		It("returns the role's permissions in attach order", func() {
			roleName := uuid.NewV4().String()
			permission1 := rolegraph.Permission{Name: uuid.NewV4().String(), Action: "read", Subject: "Post"}
			permission2 := rolegraph.Permission{Name: uuid.NewV4().String(), Action: "update", Subject: "Post", Fields: []string{"title"}}

			err := subject.AttachPermission(ctx, logger, roleName, permission1)
			Expect(err).NotTo(HaveOccurred())
			err = subject.AttachPermission(ctx, logger, roleName, permission2)
			Expect(err).NotTo(HaveOccurred())

			permissions, err := subject.ListRolePermissions(ctx, logger, repos.ListRolePermissionsQuery{
				RoleName: roleName,
			})

			Expect(err).NotTo(HaveOccurred())
			Expect(permissions).To(HaveLen(2))
			Expect(permissions[0]).To(Equal(permission1))
			Expect(permissions[1]).To(Equal(permission2))
		})

		It("returns an empty list for a role with no attachments", func() {
			permissions, err := subject.ListRolePermissions(ctx, logger, repos.ListRolePermissionsQuery{
				RoleName: uuid.NewV4().String(),
			})

			Expect(err).NotTo(HaveOccurred())
			Expect(permissions).To(BeEmpty())
		})
	})

	Describe("#PermissionInUse", func() {
		It("reports whether any role holds the permission", func() {
			roleName := uuid.NewV4().String()
			permission := rolegraph.Permission{Name: uuid.NewV4().String(), Action: "read", Subject: "Post"}

			inUse, err := subject.PermissionInUse(ctx, logger, permission.Name)
			Expect(err).NotTo(HaveOccurred())
			Expect(inUse).To(BeFalse())

			err = subject.AttachPermission(ctx, logger, roleName, permission)
			Expect(err).NotTo(HaveOccurred())

			inUse, err = subject.PermissionInUse(ctx, logger, permission.Name)
			Expect(err).NotTo(HaveOccurred())
			Expect(inUse).To(BeTrue())

			err = subject.DetachPermission(ctx, logger, roleName, permission.Name)
			Expect(err).NotTo(HaveOccurred())

			inUse, err = subject.PermissionInUse(ctx, logger, permission.Name)
			Expect(err).NotTo(HaveOccurred())
			Expect(inUse).To(BeFalse())
		})
	})

	Describe("#ClearRolePermissions", func() {
		It("detaches everything from the role and nothing else", func() {
			roleName := uuid.NewV4().String()
			otherRoleName := uuid.NewV4().String()
			permission := rolegraph.Permission{Name: uuid.NewV4().String(), Action: "read", Subject: "Post"}

			err := subject.AttachPermission(ctx, logger, roleName, permission)
			Expect(err).NotTo(HaveOccurred())
			err = subject.AttachPermission(ctx, logger, otherRoleName, permission)
			Expect(err).NotTo(HaveOccurred())

			err = subject.ClearRolePermissions(ctx, logger, roleName)
			Expect(err).NotTo(HaveOccurred())

			permissions, err := subject.ListRolePermissions(ctx, logger, repos.ListRolePermissionsQuery{RoleName: roleName})
			Expect(err).NotTo(HaveOccurred())
			Expect(permissions).To(BeEmpty())

			inUse, err := subject.PermissionInUse(ctx, logger, permission.Name)
			Expect(err).NotTo(HaveOccurred())
			Expect(inUse).To(BeTrue())
		})
	})
}
