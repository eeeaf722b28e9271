package parser

import (
	"fmt"
	"regexp"
	"strings"
)

var insertTableRe = regexp.MustCompile(`(?is)^INSERT\s+INTO\s+` + "`?" + `([\w.]+)` + "`?")

// InsertTableName extracts the target table of an INSERT statement.
func InsertTableName(text string) (string, bool) {
	m := insertTableRe.FindStringSubmatch(strings.TrimSpace(text))
	if m == nil {
		return "", false
	}
	return m[1], true
}

// SplitMultiValueInsert expands an extended INSERT with several value
// tuples into one single-tuple INSERT per row, so a failing row can be
// pinpointed without losing its siblings. A single-tuple INSERT comes
// back unchanged.
func SplitMultiValueInsert(text string) []string {
	text = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(text), ";"))

	if !insertTableRe.MatchString(text) {
		return []string{text}
	}
	// the VALUES keyword is located with a quote-aware scan; a column
	// named `values` in the column list must not end the head early
	idx := indexKeyword(text, "VALUES")
	if idx < 0 {
		return []string{text}
	}
	head := strings.TrimSpace(text[:idx])
	values := strings.TrimSpace(text[idx+len("VALUES"):])

	tuples := splitTopLevel(values, ',')
	if len(tuples) < 2 {
		return []string{text}
	}

	stmts := make([]string, 0, len(tuples))
	for _, tuple := range tuples {
		stmts = append(stmts, fmt.Sprintf("%s VALUES %s", head, tuple))
	}
	return stmts
}
