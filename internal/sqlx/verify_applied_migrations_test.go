package sqlx_test

import (
	"context"
	"time"

	"code.cloudfoundry.org/lager/lagertest"
	sqlmock "github.com/DATA-DOG/go-sqlmock"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
	. "github.com/rolegraph/rolegraph/internal/sqlx"
	"github.com/rolegraph/rolegraph/logx"
	"github.com/rolegraph/rolegraph/logx/lagerx"
)

var _ = Describe("#VerifyAppliedMigrations", func() {
	var (
		migrationTableName string

		logger *lagerx.Logger

		conn *DB
		mock sqlmock.Sqlmock

		ctx context.Context

		migrations []Migration

		appliedAt time.Time
	)

	BeforeEach(func() {
		migrationTableName = "db_migrations"

		logger = lagerx.NewLogger(lagertest.NewTestLogger("rolegraph-sqlx"))

		fakeConn, sqlMock, err := sqlmock.New()
		Expect(err).NotTo(HaveOccurred())

		mock = sqlMock
		conn = &DB{Conn: fakeConn}

		appliedAt = time.Now()

		ctx = context.Background()

		migrations = []Migration{
			{
				Name: "migration_1",
				Up: func(ctx context.Context, logger logx.Logger, tx *Tx) error {
					_, err := tx.ExecContext(ctx, "SOME FAKE MIGRATION 1")

					return err
				},
			},
			{
				Name: "migration_2",
				Up: func(ctx context.Context, logger logx.Logger, tx *Tx) error {
					_, err := tx.ExecContext(ctx, "SOME FAKE MIGRATION 2")

					return err
				},
			},
		}
	})

	AfterEach(func() {
		Expect(mock.ExpectationsWereMet()).To(Succeed())
	})

	It("succeeds if there are no migrations", func() {
		mock.ExpectQuery("SELECT version, name, applied_at FROM " + migrationTableName).
			WillReturnRows(sqlmock.NewRows([]string{"version", "name", "applied_at"}))

		err := VerifyAppliedMigrations(ctx, logger, conn, migrationTableName, []Migration{})

		Expect(err).NotTo(HaveOccurred())
	})

	It("succeeds if all the migrations match", func() {
		mock.ExpectQuery("SELECT version, name, applied_at FROM " + migrationTableName).
			WillReturnRows(sqlmock.NewRows([]string{"version", "name", "applied_at"}).
				AddRow("0", "migration_1", appliedAt).
				AddRow("1", "migration_2", appliedAt),
			)

		err := VerifyAppliedMigrations(ctx, logger, conn, migrationTableName, migrations)

		Expect(err).NotTo(HaveOccurred())
	})

	It("fails if there is a migration count mismatch", func() {
		mock.ExpectQuery("SELECT version, name, applied_at FROM " + migrationTableName).
			WillReturnRows(sqlmock.NewRows([]string{"version", "name", "applied_at"}).
				AddRow("0", "migration_1", appliedAt),
			)

		err := VerifyAppliedMigrations(ctx, logger, conn, migrationTableName, migrations)

		Expect(err).To(Equal(ErrMigrationsOutOfSync))
	})

	It("fails if the applied migration names do not match", func() {
		mock.ExpectQuery("SELECT version, name, applied_at FROM " + migrationTableName).
			WillReturnRows(sqlmock.NewRows([]string{"version", "name", "applied_at"}).
				AddRow("0", "migration_1", appliedAt).
				AddRow("1", "some_other_migration", appliedAt),
			)

		err := VerifyAppliedMigrations(ctx, logger, conn, migrationTableName, migrations)

		Expect(err).To(Equal(ErrMigrationsOutOfSync))
	})
})
