package db_test

import (
	"context"
	"time"

	"code.cloudfoundry.org/lager/lagertest"
	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
	"github.com/rolegraph/rolegraph"
	"github.com/rolegraph/rolegraph/internal/sqlx"
	"github.com/rolegraph/rolegraph/logx/lagerx"
	"github.com/rolegraph/rolegraph/repos"
	"github.com/rolegraph/rolegraph/repos/db"
)

var _ = Describe("Store", func() {
	var (
		store *db.Store
		conn  *sqlx.DB
		mock  sqlmock.Sqlmock

		ctx    context.Context
		logger *lagerx.Logger

		cancelFunc context.CancelFunc
	)

	BeforeEach(func() {
		fakeConn, sqlMock, err := sqlmock.New()
		Expect(err).NotTo(HaveOccurred())

		mock = sqlMock
		conn = &sqlx.DB{Conn: fakeConn}
		store = db.NewStore(conn)

		ctx, cancelFunc = context.WithTimeout(context.Background(), 1*time.Second)
		logger = lagerx.NewLogger(lagertest.NewTestLogger("rolegraph-test"))
	})

	AfterEach(func() {
		cancelFunc()

		Expect(mock.ExpectationsWereMet()).To(Succeed())
	})

	Describe("#CreatePermission", func() {
		It("inserts the permission with encoded fields and conditions", func() {
			mock.ExpectExec("INSERT INTO permission").
				WithArgs(sqlmock.AnyArg(), "read-post", "read", "Post", `["title","body"]`, `{"authorId":"1"}`, false, nil).
				WillReturnResult(sqlmock.NewResult(1, 1))

			permission := rolegraph.Permission{
				Name:       "read-post",
				Action:     "read",
				Subject:    "Post",
				Fields:     []string{"title", "body"},
				Conditions: rolegraph.Conditions{"authorId": "1"},
			}

			created, err := store.CreatePermission(ctx, logger, permission)

			Expect(err).NotTo(HaveOccurred())
			Expect(created).To(Equal(permission))
		})

		It("maps a duplicate key error", func() {
			mock.ExpectExec("INSERT INTO permission").
				WillReturnError(&mysql.MySQLError{Number: db.MySQLErrorCodeDuplicateKey})

			_, err := store.CreatePermission(ctx, logger, rolegraph.Permission{Name: "read-post", Action: "read", Subject: "Post"})

			Expect(err).To(Equal(rolegraph.ErrPermissionAlreadyExists))
		})
	})

	Describe("#FindPermission", func() {
		It("decodes the stored row", func() {
			mock.ExpectQuery("SELECT name, action, subject, fields, conditions, inverted, reason FROM permission").
				WithArgs("forbid-publish").
				WillReturnRows(sqlmock.NewRows([]string{"name", "action", "subject", "fields", "conditions", "inverted", "reason"}).
					AddRow("forbid-publish", "publish", "Post", nil, `{"published":true}`, true, "already published"),
				)

			permission, err := store.FindPermission(ctx, logger, repos.FindPermissionQuery{PermissionName: "forbid-publish"})

			Expect(err).NotTo(HaveOccurred())
			Expect(permission).To(Equal(rolegraph.Permission{
				Name:       "forbid-publish",
				Action:     "publish",
				Subject:    "Post",
				Conditions: rolegraph.Conditions{"published": true},
				Inverted:   true,
				Reason:     "already published",
			}))
		})

		It("fails if the permission does not exist", func() {
			mock.ExpectQuery("SELECT name, action, subject, fields, conditions, inverted, reason FROM permission").
				WithArgs("missing").
				WillReturnRows(sqlmock.NewRows([]string{"name", "action", "subject", "fields", "conditions", "inverted", "reason"}))

			_, err := store.FindPermission(ctx, logger, repos.FindPermissionQuery{PermissionName: "missing"})

			Expect(err).To(Equal(rolegraph.ErrPermissionNotFound))
		})
	})

	Describe("#DeleteRole", func() {
		It("fails if no row was deleted", func() {
			mock.ExpectExec("DELETE FROM role").
				WithArgs("missing").
				WillReturnResult(sqlmock.NewResult(0, 0))

			err := store.DeleteRole(ctx, logger, "missing")

			Expect(err).To(Equal(rolegraph.ErrRoleNotFound))
		})
	})

	Describe("#AttachPermission", func() {
		It("maps a duplicate key error", func() {
			mock.ExpectExec("INSERT INTO role_permission").
				WillReturnError(&mysql.MySQLError{Number: db.MySQLErrorCodeDuplicateKey})

			err := store.AttachPermission(ctx, logger, "editor", rolegraph.Permission{Name: "read-post", Action: "read", Subject: "Post"})

			Expect(err).To(Equal(rolegraph.ErrPermissionAlreadyAttached))
		})
	})

	Describe("#ListRolePermissions", func() {
		It("joins attachments with the permission rows in attach order", func() {
			mock.ExpectQuery("SELECT permission.name, permission.action, permission.subject, permission.fields, permission.conditions, permission.inverted, permission.reason FROM role_permission INNER JOIN permission ON role_permission.permission_name = permission.name").
				WithArgs("editor").
				WillReturnRows(sqlmock.NewRows([]string{"name", "action", "subject", "fields", "conditions", "inverted", "reason"}).
					AddRow("read-post", "read", "Post", nil, nil, false, nil).
					AddRow("update-title", "update", "Post", `["title"]`, nil, false, nil),
				)

			permissions, err := store.ListRolePermissions(ctx, logger, repos.ListRolePermissionsQuery{RoleName: "editor"})

			Expect(err).NotTo(HaveOccurred())
			Expect(permissions).To(HaveLen(2))
			Expect(permissions[0].Name).To(Equal("read-post"))
			Expect(permissions[1].Fields).To(Equal([]string{"title"}))
		})
	})

	Describe("#HasPermission", func() {
		It("counts the join between assignments and attachments", func() {
			mock.ExpectQuery(`SELECT count\(assignment.id\) FROM assignment INNER JOIN role_permission ON role_permission.role_name = assignment.role_name`).
				WithArgs("1", "read-post").
				WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

			hasPermission, err := store.HasPermission(ctx, logger, repos.HasPermissionQuery{
				UserID:         "1",
				PermissionName: "read-post",
			})

			Expect(err).NotTo(HaveOccurred())
			Expect(hasPermission).To(BeTrue())
		})
	})
})
