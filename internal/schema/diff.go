package schema

import (
	"fmt"
	"sort"
	"strings"

	"db-align/internal/parser"
)

// Error bitmask flags, OR-combined over all diff entries.
const (
	ErrRemoved  = 0x01
	ErrModified = 0x02
	ErrAdded    = 0x04
)

// DiffEntry describes one column's divergence between the two sides.
// An empty side means the column does not exist there.
type DiffEntry struct {
	Table  string
	Column string

	Source    string
	Target    string
	HasSource bool
	HasTarget bool
}

// Flag classifies the entry within the error bitmask.
func (e DiffEntry) Flag() int {
	switch {
	case e.HasSource && e.HasTarget:
		return ErrModified
	case e.HasSource:
		return ErrRemoved
	default:
		return ErrAdded
	}
}

// ComparisonResult is the outcome of comparing two catalogs.
type ComparisonResult struct {
	Match   bool
	Entries []DiffEntry
	Mask    int
}

// RenderColumn renders a column definition into deterministic text, so
// two independent renderings of the same logical schema compare equal:
//
//	`t`.`c` varchar(64) NOT NULL DEFAULT 'x'; PRIMARY KEY; UNIQUE KEY `u`(a,b);
func RenderColumn(table, column string, def *parser.ColumnDefinition) string {
	var b strings.Builder
	fmt.Fprintf(&b, "`%s`.`%s` %s", table, column, def.Definition())
	b.WriteString(";")
	if def.Primary {
		b.WriteString(" PRIMARY KEY;")
	}
	for _, k := range def.Unique {
		fmt.Fprintf(&b, " UNIQUE KEY `%s`(%s);", k.Name, strings.Join(k.Columns, ","))
	}
	for _, k := range def.Index {
		fmt.Fprintf(&b, " KEY `%s`(%s);", k.Name, strings.Join(k.Columns, ","))
	}
	for _, fk := range def.Foreign {
		fmt.Fprintf(&b, " FOREIGN KEY `%s` REFERENCES `%s`(`%s`);", fk.Name, fk.Ref.Table, fk.Ref.Column)
	}
	return b.String()
}

// Compare structurally compares two catalogs, side A (source) against
// side B (target). It works on clones, removing every fully identical
// table from both sides in a first pass with A as reference, repeating
// once with roles swapped, and reporting whatever remains as the diff.
func Compare(source, target *Catalog) *ComparisonResult {
	a := source.Clone()
	b := target.Clone()

	dropIdentical(a, b)
	if b.Len() > 0 {
		dropIdentical(b, a)
	}

	res := &ComparisonResult{Match: a.Len() == 0 && b.Len() == 0}
	if res.Match {
		return res
	}

	for _, table := range unionNames(a, b) {
		at := a.Tables[table]
		bt := b.Tables[table]
		for _, column := range unionColumns(at, bt) {
			entry := DiffEntry{Table: table, Column: column}
			if at != nil {
				if def, ok := at.Columns[column]; ok {
					entry.Source = RenderColumn(table, column, def)
					entry.HasSource = true
				}
			}
			if bt != nil {
				if def, ok := bt.Columns[column]; ok {
					entry.Target = RenderColumn(table, column, def)
					entry.HasTarget = true
				}
			}
			if entry.HasSource && entry.HasTarget && entry.Source == entry.Target {
				continue
			}
			res.Entries = append(res.Entries, entry)
			res.Mask |= entry.Flag()
		}
	}
	return res
}

// dropIdentical removes from both catalogs every table of ref that is
// fully identical in cmp: same column count and every attribute of
// every reference column matching.
func dropIdentical(ref, cmp *Catalog) {
	for _, name := range ref.TableNames() {
		rt := ref.Tables[name]
		ct, ok := cmp.Tables[name]
		if !ok {
			continue
		}
		if sameTable(rt, ct) {
			ref.Remove(name)
			cmp.Remove(name)
		}
	}
}

func sameTable(a, b *TableSchema) bool {
	if len(a.Columns) != len(b.Columns) {
		return false
	}
	for name, ad := range a.Columns {
		bd, ok := b.Columns[name]
		if !ok || !sameColumn(ad, bd) {
			return false
		}
	}
	return true
}

func sameColumn(a, b *parser.ColumnDefinition) bool {
	if a.DataType != b.DataType ||
		a.TypeSize != b.TypeSize ||
		a.Length != b.Length ||
		a.Unsigned != b.Unsigned ||
		a.Nullable != b.Nullable ||
		a.HasDefault != b.HasDefault ||
		a.Default != b.Default ||
		a.AutoIncrement != b.AutoIncrement ||
		a.Primary != b.Primary {
		return false
	}
	if !sameKeys(a.Unique, b.Unique) || !sameKeys(a.Index, b.Index) {
		return false
	}
	if len(a.Foreign) != len(b.Foreign) {
		return false
	}
	for i := range a.Foreign {
		if a.Foreign[i].Name != b.Foreign[i].Name || a.Foreign[i].Ref != b.Foreign[i].Ref {
			return false
		}
	}
	return true
}

func sameKeys(a, b []parser.KeyInfo) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Name != b[i].Name {
			return false
		}
		if len(a[i].Columns) != len(b[i].Columns) {
			return false
		}
		for j := range a[i].Columns {
			if a[i].Columns[j] != b[i].Columns[j] {
				return false
			}
		}
	}
	return true
}

func unionNames(a, b *Catalog) []string {
	seen := make(map[string]bool)
	var names []string
	for _, n := range append(a.TableNames(), b.TableNames()...) {
		if !seen[n] {
			seen[n] = true
			names = append(names, n)
		}
	}
	sort.Strings(names)
	return names
}

func unionColumns(a, b *TableSchema) []string {
	seen := make(map[string]bool)
	var names []string
	if a != nil {
		for _, n := range a.Order {
			if !seen[n] {
				seen[n] = true
				names = append(names, n)
			}
		}
	}
	if b != nil {
		for _, n := range b.Order {
			if !seen[n] {
				seen[n] = true
				names = append(names, n)
			}
		}
	}
	return names
}

// Render produces the plain-text diff report: one block per table, one
// line pair per differing column, with "<" marking the source side and
// ">" the target side.
func (r *ComparisonResult) Render() string {
	if r.Match {
		return "schemas match\n"
	}

	var b strings.Builder
	current := ""
	for _, e := range r.Entries {
		if e.Table != current {
			if current != "" {
				b.WriteString("\n")
			}
			fmt.Fprintf(&b, "[%s]\n", e.Table)
			current = e.Table
		}
		fmt.Fprintf(&b, "  %s:\n", e.Column)
		if e.HasSource {
			fmt.Fprintf(&b, "    < %s\n", e.Source)
		} else {
			b.WriteString("    < (absent)\n")
		}
		if e.HasTarget {
			fmt.Fprintf(&b, "    > %s\n", e.Target)
		} else {
			b.WriteString("    > (absent)\n")
		}
	}
	return b.String()
}
