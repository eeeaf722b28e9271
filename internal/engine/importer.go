package engine

import (
	"database/sql"
	"fmt"
	"log"

	"db-align/internal/dialect"
	"db-align/internal/parser"
	"db-align/internal/schema"
)

// Options controls what an import executes.
type Options struct {
	// WithData imports INSERT statements when true.
	WithData bool

	// SingleInserts expands extended INSERTs into one statement per
	// row, so a failing row is reported on its own instead of sinking
	// the whole batch.
	SingleInserts bool

	// DropFirst drops the dump's tables in reverse dependency order
	// before creating them.
	DropFirst bool
}

// Import executes a parsed dump against the database in dependency
// order: drops (optional), tables, key/constraint alters, views, data,
// functions, procedures, triggers, then whatever landed in Misc. A
// failing statement is recorded and skipped, never fatal; only the
// failure list tells the caller how clean the run was.
//
// onProgress is invoked once per executed statement; pass nil to
// disable.
func Import(db *sql.DB, d dialect.Dialect, plan *schema.Plan, opts Options, onProgress func()) *Result {
	res := NewResult()
	dump := plan.Dump

	exec := func(query string) {
		if _, err := db.Exec(query); err != nil {
			log.Printf("Warning: statement failed: %v", err)
			res.Failed = append(res.Failed, FailedQuery{Query: query, Err: err})
		} else {
			res.Executed++
		}
		if onProgress != nil {
			onProgress()
		}
	}

	if opts.DropFirst {
		for i := len(plan.Order) - 1; i >= 0; i-- {
			exec(d.DropQuery(plan.Order[i]))
		}
	}

	for _, table := range plan.Order {
		if create, ok := dump.Tables[table]; ok {
			exec(create)
			res.TablesCreated++
		}
	}

	for _, stmt := range dump.Alters {
		exec(stmt)
	}

	for _, stmt := range dump.Views {
		exec(stmt)
	}

	if opts.WithData {
		importData(dump, plan.Order, opts, exec)
	}

	// routines go in after the data so triggers do not fire during the
	// bulk load
	for _, stmt := range dump.Functions {
		exec(stmt)
	}
	for _, stmt := range dump.Procedures {
		exec(stmt)
	}
	for _, stmt := range dump.Triggers {
		exec(stmt)
	}

	for _, stmt := range dump.Misc {
		exec(stmt)
	}

	return res
}

// importData replays INSERT statements following the table creation
// order, so parent rows exist before the rows referencing them.
func importData(dump *parser.ParsedDump, order []string, opts Options, exec func(string)) {
	done := make(map[string]bool)

	replay := func(table string) {
		for _, stmt := range dump.Inserts[table] {
			if opts.SingleInserts {
				for _, single := range parser.SplitMultiValueInsert(stmt) {
					exec(single)
				}
			} else {
				exec(stmt)
			}
		}
		done[table] = true
	}

	for _, table := range order {
		if _, ok := dump.Inserts[table]; ok {
			replay(table)
		}
	}
	// inserts into tables the dump never creates (pre-existing ones)
	for _, table := range dump.InsertOrder {
		if !done[table] {
			replay(table)
		}
	}
}

// StatementTotal counts how many statements an import with the given
// options will attempt, for sizing a progress bar.
func StatementTotal(plan *schema.Plan, opts Options) int {
	dump := plan.Dump
	n := len(dump.Tables) + len(dump.Alters) + len(dump.Views) +
		len(dump.Functions) + len(dump.Procedures) + len(dump.Triggers) + len(dump.Misc)
	if opts.DropFirst {
		n += len(plan.Order)
	}
	if opts.WithData {
		for _, stmts := range dump.Inserts {
			if opts.SingleInserts {
				for _, stmt := range stmts {
					n += len(parser.SplitMultiValueInsert(stmt))
				}
			} else {
				n += len(stmts)
			}
		}
	}
	return n
}

// Drop removes every table of the live schema in reverse dependency
// order, inside one transaction with the dialect's drop hooks applied.
func Drop(db *sql.DB, d dialect.Dialect, tables []string) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer func() {
		if tx != nil {
			tx.Rollback()
		}
	}()

	if err := d.BeforeDrop(tx); err != nil {
		log.Printf("Warning: BeforeDrop hook failed: %v (continuing...)", err)
	}

	for i := len(tables) - 1; i >= 0; i-- {
		if _, err := tx.Exec(d.DropQuery(tables[i])); err != nil {
			log.Printf("Warning: failed to drop %s: %v (continuing...)", tables[i], err)
		}
	}

	if err := d.AfterDrop(tx); err != nil {
		log.Printf("Warning: AfterDrop hook failed: %v", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit drop transaction: %w", err)
	}
	tx = nil
	return nil
}
