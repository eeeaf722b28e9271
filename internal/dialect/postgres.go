package dialect

import (
	"database/sql"
	"fmt"
	"strings"
)

type PostgresDialect struct{}

func (d *PostgresDialect) TablesQuery(schema string) string {
	return `SELECT TABLE_NAME FROM information_schema.TABLES WHERE TABLE_SCHEMA = $1 AND TABLE_TYPE = 'BASE TABLE'`
}

// CreateTableText synthesizes CREATE TABLE text from the catalog;
// Postgres has no SHOW CREATE TABLE. UDT_NAME gives the compact type
// name (int4, varchar) which we normalize to the dump dialect.
func (d *PostgresDialect) CreateTableText(db *sql.DB, schema, table string) (string, error) {
	rows, err := db.Query(`
SELECT c.column_name, c.udt_name, COALESCE(c.character_maximum_length, 0),
       c.is_nullable, COALESCE(c.column_default, '')
FROM information_schema.columns c
WHERE c.table_schema = $1 AND c.table_name = $2
ORDER BY c.ordinal_position`, schema, table)
	if err != nil {
		return "", fmt.Errorf("failed to read columns of %s: %w", table, err)
	}
	defer rows.Close()

	var cols []columnRow
	for rows.Next() {
		var name, udt, nullable, def string
		var size int
		if err := rows.Scan(&name, &udt, &size, &nullable, &def); err != nil {
			return "", fmt.Errorf("failed to scan column of %s: %w", table, err)
		}
		autoInc := strings.HasPrefix(def, "nextval(")
		if autoInc {
			def = ""
		}
		cols = append(cols, columnRow{
			Name:     name,
			DataType: normalizePgType(udt),
			Size:     size,
			Nullable: nullable == "YES",
			Default:  def,
			AutoInc:  autoInc,
		})
	}
	if err := rows.Err(); err != nil {
		return "", err
	}

	pk, err := primaryKeyColumns(db, `
SELECT kcu.column_name
FROM information_schema.key_column_usage kcu
JOIN information_schema.table_constraints tc ON kcu.constraint_name = tc.constraint_name
WHERE kcu.table_schema = $1 AND kcu.table_name = $2 AND tc.constraint_type = 'PRIMARY KEY'
ORDER BY kcu.ordinal_position`, schema, table)
	if err != nil {
		return "", err
	}

	uniques, err := keyColumns(db, `
SELECT tc.constraint_name, kcu.column_name
FROM information_schema.table_constraints tc
JOIN information_schema.key_column_usage kcu ON tc.constraint_name = kcu.constraint_name
WHERE tc.table_schema = $1 AND tc.table_name = $2 AND tc.constraint_type = 'UNIQUE'
ORDER BY tc.constraint_name, kcu.ordinal_position`, schema, table, true)
	if err != nil {
		return "", err
	}

	indexes, err := keyColumns(db, `
SELECT i.relname, a.attname
FROM pg_index ix
JOIN pg_class t ON t.oid = ix.indrelid
JOIN pg_class i ON i.oid = ix.indexrelid
JOIN pg_namespace n ON n.oid = t.relnamespace
JOIN pg_attribute a ON a.attrelid = t.oid AND a.attnum = ANY(ix.indkey)
WHERE n.nspname = $1 AND t.relname = $2 AND NOT ix.indisunique AND NOT ix.indisprimary
ORDER BY i.relname, a.attnum`, schema, table, false)
	if err != nil {
		return "", err
	}

	fks, err := foreignKeys(db, `
SELECT tc.constraint_name, kcu.column_name, ccu.table_name, ccu.column_name
FROM information_schema.table_constraints tc
JOIN information_schema.key_column_usage kcu ON tc.constraint_name = kcu.constraint_name
JOIN information_schema.constraint_column_usage ccu ON tc.constraint_name = ccu.constraint_name
WHERE tc.table_schema = $1 AND tc.table_name = $2 AND tc.constraint_type = 'FOREIGN KEY'
ORDER BY tc.constraint_name, kcu.ordinal_position`, schema, table)
	if err != nil {
		return "", err
	}

	keys := append(append(uniques, indexes...), fks...)
	return composeCreateTable(table, cols, pk, keys), nil
}

func (d *PostgresDialect) RoutinesQuery(kind string) string {
	return fmt.Sprintf(`SELECT routine_name FROM information_schema.routines WHERE routine_schema = $1 AND routine_type = '%s'`, kind)
}

func (d *PostgresDialect) DropQuery(table string) string {
	return fmt.Sprintf(`DROP TABLE IF EXISTS "%s" CASCADE`, table)
}

func (d *PostgresDialect) BeforeDrop(tx *sql.Tx) error {
	// CASCADE on the DROP itself handles dependent constraints
	return nil
}

func (d *PostgresDialect) AfterDrop(tx *sql.Tx) error {
	return nil
}

func (d *PostgresDialect) SchemaName(input string) string {
	if input == "" {
		return "public"
	}
	return input
}

func normalizePgType(udt string) string {
	switch strings.ToLower(udt) {
	case "int2":
		return "smallint"
	case "int4":
		return "int"
	case "int8":
		return "bigint"
	case "float4":
		return "float"
	case "float8":
		return "double"
	case "bpchar":
		return "char"
	case "bool":
		return "tinyint"
	case "timestamptz":
		return "timestamp"
	default:
		return strings.ToLower(udt)
	}
}
