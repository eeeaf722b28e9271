package dialect

import (
	"database/sql"
	"fmt"
	"strings"
)

type OracleDialect struct{}

func (d *OracleDialect) TablesQuery(schema string) string {
	// USER_TABLES lists tables owned by the connected user; the dummy
	// clause consumes the schema argument passed by the shared caller.
	return `SELECT TABLE_NAME FROM USER_TABLES WHERE :1 IS NOT NULL`
}

// CreateTableText synthesizes CREATE TABLE text from USER_TAB_COLUMNS.
func (d *OracleDialect) CreateTableText(db *sql.DB, schema, table string) (string, error) {
	rows, err := db.Query(`
SELECT t.COLUMN_NAME,
       CASE
           WHEN t.DATA_TYPE = 'NUMBER' AND COALESCE(t.DATA_SCALE, 0) > 0 THEN 'DECIMAL'
           WHEN t.DATA_TYPE = 'NUMBER' THEN 'INT'
           ELSE t.DATA_TYPE
       END,
       COALESCE(t.DATA_PRECISION, t.DATA_LENGTH, 0),
       t.NULLABLE,
       COALESCE(t.DATA_DEFAULT, ''),
       CASE WHEN t.IDENTITY_COLUMN = 'YES' THEN 1 ELSE 0 END
FROM USER_TAB_COLUMNS t
WHERE t.TABLE_NAME = :1 AND :2 IS NOT NULL
ORDER BY t.COLUMN_ID`, table, schema)
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
		cols = append(cols, columnRow{
			Name:     name,
			DataType: normalizeOracleType(dataType),
			Size:     size,
			Nullable: nullable == "Y",
			Default:  strings.TrimSpace(def),
			AutoInc:  identity == 1,
		})
	}
	if err := rows.Err(); err != nil {
		return "", err
	}

	pk, err := primaryKeyColumns(db, `
SELECT cc.COLUMN_NAME
FROM USER_CONS_COLUMNS cc
JOIN USER_CONSTRAINTS uc ON cc.CONSTRAINT_NAME = uc.CONSTRAINT_NAME
WHERE uc.CONSTRAINT_TYPE = 'P' AND :1 IS NOT NULL AND cc.TABLE_NAME = :2
ORDER BY cc.POSITION`, schema, table)
	if err != nil {
		return "", err
	}

	uniques, err := keyColumns(db, `
SELECT uc.CONSTRAINT_NAME, cc.COLUMN_NAME
FROM USER_CONSTRAINTS uc
JOIN USER_CONS_COLUMNS cc ON uc.CONSTRAINT_NAME = cc.CONSTRAINT_NAME
WHERE uc.CONSTRAINT_TYPE = 'U' AND :1 IS NOT NULL AND uc.TABLE_NAME = :2
ORDER BY uc.CONSTRAINT_NAME, cc.POSITION`, schema, table, true)
	if err != nil {
		return "", err
	}

	indexes, err := keyColumns(db, `
SELECT ui.INDEX_NAME, uic.COLUMN_NAME
FROM USER_INDEXES ui
JOIN USER_IND_COLUMNS uic ON ui.INDEX_NAME = uic.INDEX_NAME
WHERE ui.UNIQUENESS = 'NONUNIQUE' AND :1 IS NOT NULL AND ui.TABLE_NAME = :2
ORDER BY ui.INDEX_NAME, uic.COLUMN_POSITION`, schema, table, false)
	if err != nil {
		return "", err
	}

	fks, err := foreignKeys(db, `
SELECT uc.CONSTRAINT_NAME, cc.COLUMN_NAME, rc.TABLE_NAME, rc.COLUMN_NAME
FROM USER_CONSTRAINTS uc
JOIN USER_CONS_COLUMNS cc ON uc.CONSTRAINT_NAME = cc.CONSTRAINT_NAME
JOIN USER_CONS_COLUMNS rc ON uc.R_CONSTRAINT_NAME = rc.CONSTRAINT_NAME AND cc.POSITION = rc.POSITION
WHERE uc.CONSTRAINT_TYPE = 'R' AND :1 IS NOT NULL AND uc.TABLE_NAME = :2
ORDER BY uc.CONSTRAINT_NAME, cc.POSITION`, schema, table)
	if err != nil {
		return "", err
	}

	keys := append(append(uniques, indexes...), fks...)
	return composeCreateTable(table, cols, pk, keys), nil
}

func (d *OracleDialect) RoutinesQuery(kind string) string {
	return fmt.Sprintf(`SELECT OBJECT_NAME FROM USER_OBJECTS WHERE OBJECT_TYPE = '%s' AND :1 IS NOT NULL`, kind)
}

func (d *OracleDialect) DropQuery(table string) string {
	return fmt.Sprintf("DROP TABLE %s CASCADE CONSTRAINTS", table)
}

func (d *OracleDialect) BeforeDrop(tx *sql.Tx) error {
	// CASCADE CONSTRAINTS on the DROP handles referencing keys
	return nil
}

func (d *OracleDialect) AfterDrop(tx *sql.Tx) error {
	return nil
}

func (d *OracleDialect) SchemaName(input string) string {
	return DefaultSchemaName(input)
}

func normalizeOracleType(dataType string) string {
	s := strings.ToLower(dataType)
	switch {
	case strings.HasPrefix(s, "varchar2"), strings.HasPrefix(s, "nvarchar2"):
		return "varchar"
	case s == "clob", s == "nclob":
		return "text"
	case strings.HasPrefix(s, "timestamp"):
		return "timestamp"
	default:
		return s
	}
}
