package migrations

import "github.com/rolegraph/rolegraph/internal/sqlx"

var TableName = "rolegraph_migrations"

var Migrations = []sqlx.Migration{
	{
		Name: "create_roles_table",
		Up:   createRolesTableUp,
		Down: createRolesTableDown,
	},
	{
		Name: "create_permissions_table",
		Up:   createPermissionsTableUp,
		Down: createPermissionsTableDown,
	},
	{
		Name: "create_role_permissions_table",
		Up:   createRolePermissionsTableUp,
		Down: createRolePermissionsTableDown,
	},
	{
		Name: "create_assignments_table",
		Up:   createAssignmentsTableUp,
		Down: createAssignmentsTableDown,
	},
}

const (
	starting = "starting"
	finished = "finished"
)
