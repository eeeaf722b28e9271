package parser

import (
	"fmt"
	"regexp"
	"strings"
)

// AlterKind tags the recognized ALTER TABLE clause variants.
type AlterKind int

const (
	AlterPrimary AlterKind = iota
	AlterModify
	AlterForeign
	AlterUnique
	AlterIndex
)

func (k AlterKind) String() string {
	switch k {
	case AlterPrimary:
		return "PRIMARY"
	case AlterModify:
		return "MODIFY"
	case AlterForeign:
		return "FOREIGN"
	case AlterUnique:
		return "UNIQUE"
	default:
		return "INDEX"
	}
}

// AlterClause is the structured form of a single-clause ALTER TABLE
// statement, one of ADD PRIMARY KEY, MODIFY, ADD FOREIGN KEY, and
// ADD (UNIQUE) KEY/INDEX.
type AlterClause struct {
	Kind    AlterKind
	Table   string
	Name    string   // key name, empty for PRIMARY and MODIFY
	Column  string   // single column, set for MODIFY and FOREIGN
	Columns []string // key column list

	// Ref is the referenced table/column, set only for FOREIGN.
	Ref ForeignKeyRef

	// Definition is the parsed column definition, set only for MODIFY.
	Definition *ColumnDefinition
}

const ident = "`?(\\w+)`?"

var (
	alterPrimaryRe = regexp.MustCompile(`(?is)^ALTER\s+TABLE\s+` + ident + `\s+ADD\s+PRIMARY\s+KEY\s*\(([^)]+)\)`)
	alterModifyRe  = regexp.MustCompile(`(?is)^ALTER\s+TABLE\s+` + ident + `\s+MODIFY\s+(?:COLUMN\s+)?` + ident + `\s+(.+)$`)
	alterForeignRe = regexp.MustCompile(`(?is)^ALTER\s+TABLE\s+` + ident + `\s+ADD\s+(?:CONSTRAINT\s+` + ident + `\s+)?FOREIGN\s+KEY\s*\(\s*` + ident + `\s*\)\s*REFERENCES\s+` + ident + `\s*\(\s*` + ident + `\s*\)`)
	alterKeyRe     = regexp.MustCompile(`(?is)^ALTER\s+TABLE\s+` + ident + `\s+ADD\s+(UNIQUE\s+)?(?:KEY|INDEX)\s+` + ident + `\s*\(([^)]+)\)`)

	addModifyRe = regexp.MustCompile(`(?i)\b(ADD|MODIFY)\b`)
	alterHeadRe = regexp.MustCompile(`(?is)^(ALTER\s+TABLE\s+` + ident + `)\s+(.+)$`)
)

// ParseAlterClause matches the statement against the PRIMARY, MODIFY,
// FOREIGN and UNIQUE/INDEX patterns in that order; the first hit decides
// the variant. It reports false when no pattern matches.
func ParseAlterClause(text string) (*AlterClause, bool) {
	text = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(text), ";"))

	if m := alterPrimaryRe.FindStringSubmatch(text); m != nil {
		return &AlterClause{
			Kind:    AlterPrimary,
			Table:   m[1],
			Columns: identList(m[2]),
		}, true
	}

	if m := alterModifyRe.FindStringSubmatch(text); m != nil {
		def, ok := ParseColumnDefinition(m[3])
		if !ok {
			return nil, false
		}
		return &AlterClause{
			Kind:       AlterModify,
			Table:      m[1],
			Column:     m[2],
			Definition: def,
		}, true
	}

	if m := alterForeignRe.FindStringSubmatch(text); m != nil {
		return &AlterClause{
			Kind:    AlterForeign,
			Table:   m[1],
			Name:    m[2],
			Column:  m[3],
			Columns: []string{m[3]},
			Ref:     ForeignKeyRef{Table: m[4], Column: m[5]},
		}, true
	}

	if m := alterKeyRe.FindStringSubmatch(text); m != nil {
		kind := AlterIndex
		if m[2] != "" {
			kind = AlterUnique
		}
		return &AlterClause{
			Kind:    kind,
			Table:   m[1],
			Name:    m[3],
			Columns: identList(m[4]),
		}, true
	}

	return nil, false
}

// SplitMultiClauseAlter breaks an ALTER TABLE statement with several
// comma separated ADD/MODIFY clauses into self-contained single-clause
// statements, so one failing clause cannot take its siblings down with
// it. Trailing REFERENCES/USING qualifiers stay attached to their
// clause. Statements with a single clause come back unchanged.
func SplitMultiClauseAlter(text string) []string {
	text = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(text), ";"))

	if len(addModifyRe.FindAllString(text, 2)) < 2 {
		return []string{text}
	}

	m := alterHeadRe.FindStringSubmatch(text)
	if m == nil {
		return []string{text}
	}
	head, rest := m[1], m[3]

	var stmts []string
	for _, clause := range splitTopLevel(rest, ',') {
		// a fragment that does not start a new ADD/MODIFY clause belongs
		// to the previous one (e.g. a stray qualifier); reattach it
		loc := addModifyRe.FindStringIndex(clause)
		if loc == nil || loc[0] != 0 {
			if len(stmts) > 0 {
				stmts[len(stmts)-1] += ", " + clause
				continue
			}
		}
		stmts = append(stmts, fmt.Sprintf("%s %s", head, clause))
	}
	if len(stmts) == 0 {
		return []string{text}
	}
	return stmts
}
