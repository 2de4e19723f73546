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

// BehavesLikeAnAssignmentRepo takes a full store because HasPermission
// joins assignments with role-permission attachments.
func BehavesLikeAnAssignmentRepo(subjectCreator func() repos.Store) {
	var (
		subject repos.Store

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

	Describe("#CreateAssignment", func() {
		It("saves the assignment with a creation time", func() {
			roleName := uuid.NewV4().String()
			userID := uuid.NewV4().String()

			err := subject.CreateAssignment(ctx, logger, roleName, userID)
			Expect(err).NotTo(HaveOccurred())

			assignment, err := subject.FindAssignment(ctx, logger, repos.FindAssignmentQuery{
				RoleName: roleName,
				UserID:   userID,
			})

			Expect(err).NotTo(HaveOccurred())
			Expect(assignment.RoleName).To(Equal(roleName))
			Expect(assignment.UserID).To(Equal(userID))
			Expect(assignment.CreatedAt).NotTo(BeZero())
		})

		It("fails if the user already holds the role", func() {
			roleName := uuid.NewV4().String()
			userID := uuid.NewV4().String()

			err := subject.CreateAssignment(ctx, logger, roleName, userID)
			Expect(err).NotTo(HaveOccurred())

			err = subject.CreateAssignment(ctx, logger, roleName, userID)
			Expect(err).To(Equal(rolegraph.ErrAssignmentAlreadyExists))
		})
	})

	Describe("#DeleteAssignment", func() {
		It("removes the assignment", func() {
			roleName := uuid.NewV4().String()
			userID := uuid.NewV4().String()

			err := subject.CreateAssignment(ctx, logger, roleName, userID)
			Expect(err).NotTo(HaveOccurred())

			err = subject.DeleteAssignment(ctx, logger, roleName, userID)
			Expect(err).NotTo(HaveOccurred())

			_, err = subject.FindAssignment(ctx, logger, repos.FindAssignmentQuery{
				RoleName: roleName,
				UserID:   userID,
			})
			Expect(err).To(Equal(rolegraph.ErrAssignmentNotFound))
		})

		It("fails if the assignment does not exist", func() {
			err := subject.DeleteAssignment(ctx, logger, uuid.NewV4().String(), uuid.NewV4().String())

			Expect(err).To(Equal(rolegraph.ErrAssignmentNotFound))
		})
	})

	Describe("#ListUserAssignments", func() {
		It("returns the user's assignments in assign order", func() {
			roleName1 := uuid.NewV4().String()
			roleName2 := uuid.NewV4().String()
			userID := uuid.NewV4().String()

			err := subject.CreateAssignment(ctx, logger, roleName1, userID)
			Expect(err).NotTo(HaveOccurred())
			err = subject.CreateAssignment(ctx, logger, roleName2, userID)
			Expect(err).NotTo(HaveOccurred())

			assignments, err := subject.ListUserAssignments(ctx, logger, repos.ListUserAssignmentsQuery{
				UserID: userID,
			})

			Expect(err).NotTo(HaveOccurred())
			Expect(assignments).To(HaveLen(2))
			Expect(assignments[0].RoleName).To(Equal(roleName1))
			Expect(assignments[1].RoleName).To(Equal(roleName2))
		})

		It("returns an empty list for a user with no assignments", func() {
			assignments, err := subject.ListUserAssignments(ctx, logger, repos.ListUserAssignmentsQuery{
				UserID: uuid.NewV4().String(),
			})

			Expect(err).NotTo(HaveOccurred())
			Expect(assignments).To(BeEmpty())
		})
	})

	Describe("#HasAssignments", func() {
		It("reports whether any user holds the role", func() {
			roleName := uuid.NewV4().String()
			userID := uuid.NewV4().String()

			hasAssignments, err := subject.HasAssignments(ctx, logger, roleName)
			Expect(err).NotTo(HaveOccurred())
			Expect(hasAssignments).To(BeFalse())

			err = subject.CreateAssignment(ctx, logger, roleName, userID)
			Expect(err).NotTo(HaveOccurred())

			hasAssignments, err = subject.HasAssignments(ctx, logger, roleName)
			Expect(err).NotTo(HaveOccurred())
			Expect(hasAssignments).To(BeTrue())
		})
	})

	Describe("#DeleteUserAssignments", func() {
		It("removes every assignment the user holds", func() {
			roleName1 := uuid.NewV4().String()
			roleName2 := uuid.NewV4().String()
			userID := uuid.NewV4().String()

			err := subject.CreateAssignment(ctx, logger, roleName1, userID)
			Expect(err).NotTo(HaveOccurred())
			err = subject.CreateAssignment(ctx, logger, roleName2, userID)
			Expect(err).NotTo(HaveOccurred())

			err = subject.DeleteUserAssignments(ctx, logger, userID)
			Expect(err).NotTo(HaveOccurred())

			assignments, err := subject.ListUserAssignments(ctx, logger, repos.ListUserAssignmentsQuery{UserID: userID})
			Expect(err).NotTo(HaveOccurred())
			Expect(assignments).To(BeEmpty())
		})

		It("does not fail for a user with no assignments", func() {
			err := subject.DeleteUserAssignments(ctx, logger, uuid.NewV4().String())

			Expect(err).NotTo(HaveOccurred())
		})
	})

	Describe("#DeleteRoleAssignments", func() {
		It("removes every assignment of the role", func() {
			roleName := uuid.NewV4().String()
			userID1 := uuid.NewV4().String()
			userID2 := uuid.NewV4().String()

			err := subject.CreateAssignment(ctx, logger, roleName, userID1)
			Expect(err).NotTo(HaveOccurred())
			err = subject.CreateAssignment(ctx, logger, roleName, userID2)
			Expect(err).NotTo(HaveOccurred())

			err = subject.DeleteRoleAssignments(ctx, logger, roleName)
			Expect(err).NotTo(HaveOccurred())

			hasAssignments, err := subject.HasAssignments(ctx, logger, roleName)
			Expect(err).NotTo(HaveOccurred())
			Expect(hasAssignments).To(BeFalse())
		})
	})

	Describe("#HasPermission", func() {
		It("is true exactly when an assigned role carries the permission", func() {
			roleName := uuid.NewV4().String()
			userID := uuid.NewV4().String()
			permission := rolegraph.Permission{Name: uuid.NewV4().String(), Action: "read", Subject: "Post"}

			err := subject.AttachPermission(ctx, logger, roleName, permission)
			Expect(err).NotTo(HaveOccurred())

			hasPermission, err := subject.HasPermission(ctx, logger, repos.HasPermissionQuery{
				UserID:         userID,
				PermissionName: permission.Name,
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(hasPermission).To(BeFalse())

			err = subject.CreateAssignment(ctx, logger, roleName, userID)
			Expect(err).NotTo(HaveOccurred())

			hasPermission, err = subject.HasPermission(ctx, logger, repos.HasPermissionQuery{
				UserID:         userID,
				PermissionName: permission.Name,
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(hasPermission).To(BeTrue())

			err = subject.DeleteAssignment(ctx, logger, roleName, userID)
			Expect(err).NotTo(HaveOccurred())

			hasPermission, err = subject.HasPermission(ctx, logger, repos.HasPermissionQuery{
				UserID:         userID,
				PermissionName: permission.Name,
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(hasPermission).To(BeFalse())
		})
	})
}
