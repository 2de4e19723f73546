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

func BehavesLikeARoleRepo(subjectCreator func() repos.RoleRepo) {
	var (
		subject repos.RoleRepo

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

	Describe("#CreateRole", func() {
		It("saves the role", func() {
			name := uuid.NewV4().String()

			role, err := subject.CreateRole(ctx, logger, name)

			Expect(err).NotTo(HaveOccurred())
			Expect(role.Name).To(Equal(name))
		})

		It("fails if a role with the name already exists", func() {
			name := uuid.NewV4().String()

			_, err := subject.CreateRole(ctx, logger, name)
			Expect(err).NotTo(HaveOccurred())

			_, err = subject.CreateRole(ctx, logger, name)
			Expect(err).To(Equal(rolegraph.ErrRoleAlreadyExists))
		})
	})

	Describe("#FindRole", func() {
		It("finds a created role", func() {
			name := uuid.NewV4().String()

			_, err := subject.CreateRole(ctx, logger, name)
			Expect(err).NotTo(HaveOccurred())

			role, err := subject.FindRole(ctx, logger, repos.FindRoleQuery{RoleName: name})

			Expect(err).NotTo(HaveOccurred())
			Expect(role.Name).To(Equal(name))
		})

		It("fails if the role does not exist", func() {
			name := uuid.NewV4().String()

			_, err := subject.FindRole(ctx, logger, repos.FindRoleQuery{RoleName: name})

			Expect(err).To(Equal(rolegraph.ErrRoleNotFound))
		})
	})

	Describe("#RoleExists", func() {
		It("reports whether the role has been created", func() {
			name := uuid.NewV4().String()

			exists, err := subject.RoleExists(ctx, logger, name)
			Expect(err).NotTo(HaveOccurred())
			Expect(exists).To(BeFalse())

			_, err = subject.CreateRole(ctx, logger, name)
			Expect(err).NotTo(HaveOccurred())

			exists, err = subject.RoleExists(ctx, logger, name)
			Expect(err).NotTo(HaveOccurred())
			Expect(exists).To(BeTrue())
		})
	})

	Describe("#DeleteRole", func() {
		It("deletes the role if it exists", func() {
			name := uuid.NewV4().String()

			_, err := subject.CreateRole(ctx, logger, name)
			Expect(err).NotTo(HaveOccurred())

			err = subject.DeleteRole(ctx, logger, name)
			Expect(err).NotTo(HaveOccurred())

			_, err = subject.FindRole(ctx, logger, repos.FindRoleQuery{RoleName: name})
			Expect(err).To(Equal(rolegraph.ErrRoleNotFound))
		})

		It("fails if the role does not exist", func() {
			err := subject.DeleteRole(ctx, logger, uuid.NewV4().String())

			Expect(err).To(Equal(rolegraph.ErrRoleNotFound))
		})
	})

	Describe("#ListRoles", func() {
		It("returns the roles in creation order", func() {
			name1 := uuid.NewV4().String()
			name2 := uuid.NewV4().String()

			_, err := subject.CreateRole(ctx, logger, name1)
			Expect(err).NotTo(HaveOccurred())
			_, err = subject.CreateRole(ctx, logger, name2)
			Expect(err).NotTo(HaveOccurred())

			roles, err := subject.ListRoles(ctx, logger)

			Expect(err).NotTo(HaveOccurred())
			Expect(roles).To(HaveLen(2))
			Expect(roles[0].Name).To(Equal(name1))
			Expect(roles[1].Name).To(Equal(name2))
		})
	})

	Describe("#ClearRoles", func() {
		It("removes every role", func() {
			_, err := subject.CreateRole(ctx, logger, uuid.NewV4().String())
			Expect(err).NotTo(HaveOccurred())

			err = subject.ClearRoles(ctx, logger)
			Expect(err).NotTo(HaveOccurred())

			roles, err := subject.ListRoles(ctx, logger)
			Expect(err).NotTo(HaveOccurred())
			Expect(roles).To(BeEmpty())
		})
	})
}
