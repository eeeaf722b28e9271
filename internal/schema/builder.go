package schema

import (
	"database/sql"
	"fmt"
	"log"
	"regexp"
	"strings"

	"db-align/internal/dialect"
	"db-align/internal/parser"
)

var colNameRe = regexp.MustCompile("^`?(\\w+)`?\\s+")

// FromDump folds the parsed CREATE TABLE and ALTER statements of a dump
// into a catalog. Column lines that fail to parse are skipped with a
// warning; they are unknown to the diff but never abort the build.
func FromDump(d *parser.ParsedDump) *Catalog {
	c := NewCatalog()

	for _, name := range d.TableOrder {
		t := NewTableSchema(name)
		seedColumns(t, d.Tables[name])
		c.Add(t)
	}

	for _, stmt := range d.Alters {
		clause, ok := parser.ParseAlterClause(stmt)
		if !ok {
			continue
		}
		t, ok := c.Tables[clause.Table]
		if !ok {
			continue
		}
		applyAlter(t, clause)
	}

	return c
}

// seedColumns parses each column line of a reduced CREATE TABLE body
// into the table model.
func seedColumns(t *TableSchema, createText string) {
	parts, ok := parser.CreateBodyParts(createText)
	if !ok {
		log.Printf("Warning: no column body found for table %s", t.Name)
		return
	}
	for _, part := range parts {
		m := colNameRe.FindStringSubmatch(part)
		if m == nil {
			continue
		}
		def, ok := parser.ParseColumnDefinition(part[len(m[0]):])
		if !ok {
			log.Printf("Warning: unparseable column in %s: %s", t.Name, part)
			continue
		}
		t.SetColumn(m[1], def)
	}
}

// applyAlter mutates the table model with one parsed ALTER clause.
func applyAlter(t *TableSchema, clause *parser.AlterClause) {
	switch clause.Kind {
	case parser.AlterPrimary:
		for _, col := range clause.Columns {
			if def, ok := t.Columns[col]; ok {
				def.Primary = true
			}
		}

	case parser.AlterModify:
		def := clause.Definition
		if old, ok := t.Columns[clause.Column]; ok {
			// key memberships survive a MODIFY, only the definition
			// fields are replaced
			def.Primary = old.Primary
			def.Unique = old.Unique
			def.Index = old.Index
			def.Foreign = old.Foreign
		}
		t.SetColumn(clause.Column, def)

	case parser.AlterUnique:
		key := parser.KeyInfo{Name: clause.Name, Columns: clause.Columns}
		for _, col := range clause.Columns {
			if def, ok := t.Columns[col]; ok {
				def.Unique = append(def.Unique, key)
			}
		}

	case parser.AlterIndex:
		key := parser.KeyInfo{Name: clause.Name, Columns: clause.Columns}
		for _, col := range clause.Columns {
			if def, ok := t.Columns[col]; ok {
				def.Index = append(def.Index, key)
			}
		}

	case parser.AlterForeign:
		if def, ok := t.Columns[clause.Column]; ok {
			def.Foreign = append(def.Foreign, parser.ForeignKeyInfo{
				Name: clause.Name,
				Ref:  clause.Ref,
			})
		}
	}
}

// FromLive builds a catalog from a live database by listing its tables
// and running each table's canonical CREATE TABLE text through the same
// parsing path as a dump, so both sides of a comparison share one
// shape. Any introspection failure aborts the whole build: comparing
// against a partial model would only produce false ADDED/REMOVED noise.
func FromLive(db *sql.DB, d dialect.Dialect, schemaName string) (*Catalog, error) {
	rows, err := db.Query(d.TablesQuery(schemaName), schemaName)
	if err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan table name: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tables: %w", err)
	}

	c := NewCatalog()
	for _, name := range names {
		createText, err := d.CreateTableText(db, schemaName, name)
		if err != nil {
			return nil, fmt.Errorf("failed to read definition of %s: %w", name, err)
		}
		reduced, alters := parser.StripColumnDefinitionFromCreate(createText)

		t := NewTableSchema(name)
		seedColumns(t, reduced)
		c.Add(t)

		for _, stmt := range alters {
			if clause, ok := parser.ParseAlterClause(stmt); ok {
				applyAlter(t, clause)
			}
		}
	}
	return c, nil
}

// ListRoutines returns the FUNCTION or PROCEDURE names of a live
// schema.
func ListRoutines(db *sql.DB, d dialect.Dialect, schemaName, kind string) ([]string, error) {
	kind = strings.ToUpper(kind)
	rows, err := db.Query(d.RoutinesQuery(kind), schemaName)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s routines: %w", strings.ToLower(kind), err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan routine name: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}
