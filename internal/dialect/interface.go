package dialect

import "database/sql"

// Dialect abstracts database-specific introspection and teardown. The
// schema builder only ever needs three capabilities from a live
// database: list the tables, fetch a table's canonical CREATE TABLE
// text, and list routine names.
type Dialect interface {
	// TablesQuery returns the query listing base table names; the
	// schema name is bound as its single argument.
	TablesQuery(schema string) string

	// CreateTableText returns canonical CREATE TABLE DDL for one table.
	// Engines without a native SHOW CREATE TABLE synthesize it from
	// their catalog views, so every engine feeds the same parsing path.
	CreateTableText(db *sql.DB, schema, table string) (string, error)

	// RoutinesQuery returns the query listing routine names of the
	// given kind ("FUNCTION" or "PROCEDURE"); the schema name is bound
	// as its single argument.
	RoutinesQuery(kind string) string

	// DropQuery returns the statement dropping one table.
	DropQuery(table string) string

	// Drop hooks, for engines that need constraint checks loosened
	// while tables are dropped out of dependency order.
	BeforeDrop(tx *sql.Tx) error
	AfterDrop(tx *sql.Tx) error

	// SchemaName resolves the effective schema name for this engine
	// when the caller passes an empty one.
	SchemaName(input string) string
}
