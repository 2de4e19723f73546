package sqlx

import (
	"context"

	"github.com/Masterminds/squirrel"
	"github.com/rolegraph/rolegraph/logx"
)

func RetrieveAppliedMigrations(
	ctx context.Context,
	logger logx.Logger,
	conn *DB,
	tableName string,
) (map[int]AppliedMigration, error) {
	rows, err := squirrel.Select("version", "name", "applied_at").
		From(tableName).
		RunWith(conn).
		QueryContext(ctx)
	if err != nil {
		logger.Error(failedToQueryMigrations, err)
		return nil, err
	}
	defer rows.Close()

	versions := make(map[int]AppliedMigration)
	for rows.Next() {
		var migration AppliedMigration

		err = rows.Scan(&migration.Version, &migration.Name, &migration.AppliedAt)
		if err != nil {
			return nil, err
		}

		versions[migration.Version] = migration
	}

	err = rows.Err()
	if err != nil {
		return nil, err
	}

	return versions, nil
}
