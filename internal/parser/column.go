package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// KeyInfo records a column's membership in a named key.
type KeyInfo struct {
	Name    string
	Columns []string
}

// ForeignKeyRef points at the referenced side of a foreign key.
type ForeignKeyRef struct {
	Table  string
	Column string
}

// ForeignKeyInfo records a column's membership in a named foreign key.
type ForeignKeyInfo struct {
	Name string
	Ref  ForeignKeyRef
}

// ColumnDefinition is the structured form of a single column clause.
// Key memberships (Primary, Unique, Index, Foreign) are filled in later
// when ALTER clauses are applied to the table model.
type ColumnDefinition struct {
	DataType string // base type, e.g. "varchar", "int"
	TypeSize int    // size inside parentheses, 0 when absent or non-numeric
	Length   int    // meaningful only for character types, otherwise 0
	Unsigned bool

	// Nullable is false when the definition carries NOT NULL, true when
	// it carries NULL (including DEFAULT NULL). With no keyword at all
	// the column defaults to NOT NULL, matching common dump conventions.
	Nullable bool

	Default    string
	HasDefault bool

	AutoIncrement bool

	Primary bool
	Unique  []KeyInfo
	Index   []KeyInfo
	Foreign []ForeignKeyInfo
}

var (
	colTypeRe    = regexp.MustCompile(`^\s*([a-zA-Z]\w*)\s*(?:\(([^)]*)\))?`)
	notNullRe    = regexp.MustCompile(`(?i)\bNOT\s+NULL\b`)
	nullRe       = regexp.MustCompile(`(?i)\bNULL\b`)
	unsignedRe   = regexp.MustCompile(`(?i)\bUNSIGNED\b`)
	autoIncRe    = regexp.MustCompile(`(?i)\bAUTO_INCREMENT\b`)
	defaultValRe = regexp.MustCompile(`(?i)\bDEFAULT\s+('(?:[^'\\]|\\.)*'|"(?:[^"\\]|\\.)*"|[^\s,]+)`)
)

// ParseColumnDefinition parses the definition text that follows a column
// name: TYPE[(SIZE)] [UNSIGNED] [NOT NULL|NULL] [CHARACTER SET ...]
// [DEFAULT value] [AUTO_INCREMENT]. It reports false when the leading
// type token cannot be matched; callers treat that as "unknown column"
// rather than an error.
func ParseColumnDefinition(text string) (*ColumnDefinition, bool) {
	m := colTypeRe.FindStringSubmatch(text)
	if m == nil {
		return nil, false
	}

	def := &ColumnDefinition{
		DataType: strings.ToLower(m[1]),
	}
	if m[2] != "" {
		if size, err := strconv.Atoi(strings.TrimSpace(m[2])); err == nil {
			def.TypeSize = size
		}
	}
	if strings.Contains(def.DataType, "char") {
		def.Length = def.TypeSize
	}

	def.Unsigned = unsignedRe.MatchString(text)
	def.AutoIncrement = autoIncRe.MatchString(text)

	// the nullability scan must not look inside the DEFAULT literal
	// (DEFAULT 'NULL-ish' says nothing about nullability), so the
	// matched DEFAULT clause is cut out first; DEFAULT NULL itself
	// still counts as an explicit NULL
	rest := text
	if loc := defaultValRe.FindStringSubmatchIndex(text); loc != nil {
		def.Default = text[loc[2]:loc[3]]
		def.HasDefault = true
		if !strings.EqualFold(def.Default, "NULL") {
			rest = text[:loc[0]] + text[loc[1]:]
		}
	}

	if notNullRe.MatchString(rest) {
		def.Nullable = false
	} else if nullRe.MatchString(rest) {
		def.Nullable = true
	}

	return def, true
}

// Type renders the canonical type text, e.g. "varchar(64)" or
// "int(11) unsigned".
func (d *ColumnDefinition) Type() string {
	t := d.DataType
	if d.TypeSize > 0 {
		t = fmt.Sprintf("%s(%d)", t, d.TypeSize)
	}
	if d.Unsigned {
		t += " unsigned"
	}
	return t
}

// Definition renders the column definition back into DDL text, without
// any key annotations.
func (d *ColumnDefinition) Definition() string {
	var b strings.Builder
	b.WriteString(d.Type())
	if d.Nullable {
		b.WriteString(" NULL")
	} else {
		b.WriteString(" NOT NULL")
	}
	if d.HasDefault {
		b.WriteString(" DEFAULT ")
		b.WriteString(d.Default)
	}
	if d.AutoIncrement {
		b.WriteString(" AUTO_INCREMENT")
	}
	return b.String()
}

// Clone returns a deep copy of the definition.
func (d *ColumnDefinition) Clone() *ColumnDefinition {
	c := *d
	c.Unique = append([]KeyInfo(nil), d.Unique...)
	c.Index = append([]KeyInfo(nil), d.Index...)
	c.Foreign = append([]ForeignKeyInfo(nil), d.Foreign...)
	return &c
}
