package dialect

import (
	"database/sql"
	"fmt"
)

type MysqlDialect struct{}

func (d *MysqlDialect) TablesQuery(schema string) string {
	return `SELECT TABLE_NAME FROM information_schema.TABLES WHERE TABLE_SCHEMA = ? AND TABLE_TYPE = 'BASE TABLE'`
}

func (d *MysqlDialect) CreateTableText(db *sql.DB, schema, table string) (string, error) {
	var name, ddl string
	row := db.QueryRow(fmt.Sprintf("SHOW CREATE TABLE `%s`", table))
	if err := row.Scan(&name, &ddl); err != nil {
		return "", fmt.Errorf("SHOW CREATE TABLE %s failed: %w", table, err)
	}
	return ddl, nil
}

func (d *MysqlDialect) RoutinesQuery(kind string) string {
	return fmt.Sprintf(`SELECT ROUTINE_NAME FROM information_schema.ROUTINES WHERE ROUTINE_SCHEMA = ? AND ROUTINE_TYPE = '%s'`, kind)
}

func (d *MysqlDialect) DropQuery(table string) string {
	return fmt.Sprintf("DROP TABLE IF EXISTS `%s`", table)
}

func (d *MysqlDialect) BeforeDrop(tx *sql.Tx) error {
	_, err := tx.Exec("SET FOREIGN_KEY_CHECKS = 0")
	return err
}

func (d *MysqlDialect) AfterDrop(tx *sql.Tx) error {
	_, err := tx.Exec("SET FOREIGN_KEY_CHECKS = 1")
	return err
}

func (d *MysqlDialect) SchemaName(input string) string {
	return DefaultSchemaName(input)
}
