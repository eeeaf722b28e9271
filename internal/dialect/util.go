package dialect

import (
	"database/sql"
	"fmt"
	"strings"
)

// columnRow is one column as read from an engine's catalog views,
// normalized enough to be rendered into CREATE TABLE text.
type columnRow struct {
	Name     string
	DataType string
	Size     int
	Nullable bool
	Default  string
	AutoInc  bool
}

// keyRow is one named key or constraint read from the catalog. A
// foreign key carries the referenced side; Unique distinguishes unique
// keys from plain indexes.
type keyRow struct {
	Name      string
	Unique    bool
	Foreign   bool
	Columns   []string
	RefTable  string
	RefColumn string
}

// composeCreateTable renders catalog rows into canonical CREATE TABLE
// text so engines without SHOW CREATE TABLE still feed the shared
// CREATE parsing path. Keys and constraints are rendered as body
// clauses so their memberships survive into the table model.
func composeCreateTable(table string, cols []columnRow, pk []string, keys []keyRow) string {
	lines := make([]string, 0, len(cols)+1)
	for _, c := range cols {
		var b strings.Builder
		fmt.Fprintf(&b, "`%s` %s", c.Name, strings.ToLower(c.DataType))
		if c.Size > 0 {
			fmt.Fprintf(&b, "(%d)", c.Size)
		}
		if c.Nullable {
			b.WriteString(" NULL")
		} else {
			b.WriteString(" NOT NULL")
		}
		if c.Default != "" {
			fmt.Fprintf(&b, " DEFAULT %s", c.Default)
		}
		if c.AutoInc {
			b.WriteString(" AUTO_INCREMENT")
		}
		lines = append(lines, b.String())
	}
	if len(pk) > 0 {
		lines = append(lines, fmt.Sprintf("PRIMARY KEY (%s)", quoteIdents(pk)))
	}
	for _, k := range keys {
		switch {
		case k.Foreign:
			lines = append(lines, fmt.Sprintf("CONSTRAINT `%s` FOREIGN KEY (%s) REFERENCES `%s` (`%s`)",
				k.Name, quoteIdents(k.Columns), k.RefTable, k.RefColumn))
		case k.Unique:
			lines = append(lines, fmt.Sprintf("UNIQUE KEY `%s` (%s)", k.Name, quoteIdents(k.Columns)))
		default:
			lines = append(lines, fmt.Sprintf("KEY `%s` (%s)", k.Name, quoteIdents(k.Columns)))
		}
	}
	return fmt.Sprintf("CREATE TABLE `%s` (\n  %s\n)", table, strings.Join(lines, ",\n  "))
}

func quoteIdents(names []string) string {
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = fmt.Sprintf("`%s`", n)
	}
	return strings.Join(quoted, ",")
}

// keyColumns runs a (schema, table) query returning (key name, column
// name) rows ordered by key then column position, and groups them into
// keys.
func keyColumns(db *sql.DB, query, schema, table string, unique bool) ([]keyRow, error) {
	rows, err := db.Query(query, schema, table)
	if err != nil {
		return nil, fmt.Errorf("failed to read keys of %s: %w", table, err)
	}
	defer rows.Close()

	var keys []keyRow
	for rows.Next() {
		var name, col string
		if err := rows.Scan(&name, &col); err != nil {
			return nil, err
		}
		if n := len(keys); n > 0 && keys[n-1].Name == name {
			keys[n-1].Columns = append(keys[n-1].Columns, col)
			continue
		}
		keys = append(keys, keyRow{Name: name, Unique: unique, Columns: []string{col}})
	}
	return keys, rows.Err()
}

// foreignKeys runs a (schema, table) query returning (constraint name,
// column, referenced table, referenced column) rows and groups them
// into keys.
func foreignKeys(db *sql.DB, query, schema, table string) ([]keyRow, error) {
	rows, err := db.Query(query, schema, table)
	if err != nil {
		return nil, fmt.Errorf("failed to read foreign keys of %s: %w", table, err)
	}
	defer rows.Close()

	var keys []keyRow
	for rows.Next() {
		var name, col, refTable, refCol string
		if err := rows.Scan(&name, &col, &refTable, &refCol); err != nil {
			return nil, err
		}
		if n := len(keys); n > 0 && keys[n-1].Name == name {
			keys[n-1].Columns = append(keys[n-1].Columns, col)
			continue
		}
		keys = append(keys, keyRow{
			Name:      name,
			Foreign:   true,
			Columns:   []string{col},
			RefTable:  refTable,
			RefColumn: refCol,
		})
	}
	return keys, rows.Err()
}

// primaryKeyColumns runs a two-argument (schema, table) query returning
// one column name per row.
func primaryKeyColumns(db *sql.DB, query, schema, table string) ([]string, error) {
	rows, err := db.Query(query, schema, table)
	if err != nil {
		return nil, fmt.Errorf("failed to read primary key of %s: %w", table, err)
	}
	defer rows.Close()

	var cols []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		cols = append(cols, name)
	}
	return cols, rows.Err()
}

// DefaultSchemaName is the identity fallback for engines without a
// schema default.
func DefaultSchemaName(input string) string {
	return input
}
