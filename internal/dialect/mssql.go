package dialect

import (
	"database/sql"
	"fmt"
)

type MSSQLDialect struct{}

func (d *MSSQLDialect) TablesQuery(schema string) string {
	return `SELECT TABLE_NAME FROM INFORMATION_SCHEMA.TABLES WHERE TABLE_SCHEMA = @p1 AND TABLE_TYPE = 'BASE TABLE'`
}

// CreateTableText synthesizes CREATE TABLE text from
// INFORMATION_SCHEMA plus sys.columns for identity detection.
func (d *MSSQLDialect) CreateTableText(db *sql.DB, schema, table string) (string, error) {
	rows, err := db.Query(`
SELECT c.COLUMN_NAME, c.DATA_TYPE, COALESCE(c.CHARACTER_MAXIMUM_LENGTH, 0),
       c.IS_NULLABLE, COALESCE(c.COLUMN_DEFAULT, ''),
       COLUMNPROPERTY(OBJECT_ID(c.TABLE_SCHEMA + '.' + c.TABLE_NAME), c.COLUMN_NAME, 'IsIdentity')
FROM INFORMATION_SCHEMA.COLUMNS c
WHERE c.TABLE_SCHEMA = @p1 AND c.TABLE_NAME = @p2
ORDER BY c.ORDINAL_POSITION`, schema, table)
	if err != nil {
		return "", fmt.Errorf("failed to read columns of %s: %w", table, err)
	}
	defer rows.Close()

	var cols []columnRow
	for rows.Next() {
		var name, dataType, nullable, def string
		var size, identity int
		if err := rows.Scan(&name, &dataType, &size, &nullable, &def, &identity); err != nil {
			return "", fmt.Errorf("failed to scan column of %s: %w", table, err)
		}
		if size < 0 {
			// varchar(max)
			size = 0
		}
		cols = append(cols, columnRow{
			Name:     name,
			DataType: dataType,
			Size:     size,
			Nullable: nullable == "YES",
			Default:  def,
			AutoInc:  identity == 1,
		})
	}
	if err := rows.Err(); err != nil {
		return "", err
	}

	pk, err := primaryKeyColumns(db, `
SELECT kcu.COLUMN_NAME
FROM INFORMATION_SCHEMA.TABLE_CONSTRAINTS tc
JOIN INFORMATION_SCHEMA.KEY_COLUMN_USAGE kcu ON tc.CONSTRAINT_NAME = kcu.CONSTRAINT_NAME
WHERE tc.CONSTRAINT_TYPE = 'PRIMARY KEY' AND tc.TABLE_SCHEMA = @p1 AND tc.TABLE_NAME = @p2
ORDER BY kcu.ORDINAL_POSITION`, schema, table)
	if err != nil {
		return "", err
	}

	uniques, err := keyColumns(db, `
SELECT tc.CONSTRAINT_NAME, kcu.COLUMN_NAME
FROM INFORMATION_SCHEMA.TABLE_CONSTRAINTS tc
JOIN INFORMATION_SCHEMA.KEY_COLUMN_USAGE kcu ON tc.CONSTRAINT_NAME = kcu.CONSTRAINT_NAME
WHERE tc.CONSTRAINT_TYPE = 'UNIQUE' AND tc.TABLE_SCHEMA = @p1 AND tc.TABLE_NAME = @p2
ORDER BY tc.CONSTRAINT_NAME, kcu.ORDINAL_POSITION`, schema, table, true)
	if err != nil {
		return "", err
	}

	indexes, err := keyColumns(db, `
SELECT i.name, c.name
FROM sys.indexes i
JOIN sys.index_columns ic ON i.object_id = ic.object_id AND i.index_id = ic.index_id
JOIN sys.columns c ON ic.object_id = c.object_id AND ic.column_id = c.column_id
WHERE i.object_id = OBJECT_ID(@p1 + '.' + @p2)
  AND i.is_unique = 0 AND i.is_primary_key = 0 AND i.type > 0
ORDER BY i.name, ic.key_ordinal`, schema, table, false)
	if err != nil {
		return "", err
	}

	fks, err := foreignKeys(db, `
SELECT rc.CONSTRAINT_NAME, kcu.COLUMN_NAME, kcu2.TABLE_NAME, kcu2.COLUMN_NAME
FROM INFORMATION_SCHEMA.REFERENTIAL_CONSTRAINTS rc
JOIN INFORMATION_SCHEMA.KEY_COLUMN_USAGE kcu
  ON rc.CONSTRAINT_NAME = kcu.CONSTRAINT_NAME
JOIN INFORMATION_SCHEMA.KEY_COLUMN_USAGE kcu2
  ON rc.UNIQUE_CONSTRAINT_NAME = kcu2.CONSTRAINT_NAME AND kcu.ORDINAL_POSITION = kcu2.ORDINAL_POSITION
WHERE kcu.TABLE_SCHEMA = @p1 AND kcu.TABLE_NAME = @p2
ORDER BY rc.CONSTRAINT_NAME, kcu.ORDINAL_POSITION`, schema, table)
	if err != nil {
		return "", err
	}

	keys := append(append(uniques, indexes...), fks...)
	return composeCreateTable(table, cols, pk, keys), nil
}

func (d *MSSQLDialect) RoutinesQuery(kind string) string {
	return fmt.Sprintf(`SELECT ROUTINE_NAME FROM INFORMATION_SCHEMA.ROUTINES WHERE ROUTINE_SCHEMA = @p1 AND ROUTINE_TYPE = '%s'`, kind)
}

func (d *MSSQLDialect) DropQuery(table string) string {
	return fmt.Sprintf("DROP TABLE IF EXISTS [%s]", table)
}

// BeforeDrop disables every FK constraint so tables can go down out of
// dependency order.
func (d *MSSQLDialect) BeforeDrop(tx *sql.Tx) error {
	rows, err := tx.Query("SELECT TABLE_NAME FROM INFORMATION_SCHEMA.TABLES WHERE TABLE_TYPE = 'BASE TABLE' AND TABLE_SCHEMA = 'dbo'")
	if err != nil {
		return err
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return err
		}
		tables = append(tables, t)
	}
	rows.Close()

	for _, t := range tables {
		if _, err := tx.Exec(fmt.Sprintf("ALTER TABLE %s NOCHECK CONSTRAINT all", t)); err != nil {
			return fmt.Errorf("failed to disable constraints on %s: %w", t, err)
		}
	}
	return nil
}

func (d *MSSQLDialect) AfterDrop(tx *sql.Tx) error {
	// dropped tables take their constraints with them
	return nil
}

func (d *MSSQLDialect) SchemaName(input string) string {
	if input == "" {
		return "dbo"
	}
	return input
}
