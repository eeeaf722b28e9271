package parser

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	createTableRe = regexp.MustCompile(`(?is)^CREATE\s+TABLE\s+(?:IF\s+NOT\s+EXISTS\s+)?` + "`?" + `([\w.]+)` + "`?")

	bodyPrimaryRe = regexp.MustCompile(`(?is)^PRIMARY\s+KEY\s*\(([^)]+)\)`)
	bodyUniqueRe  = regexp.MustCompile(`(?is)^UNIQUE\s+(?:KEY|INDEX)\s+` + ident + `\s*\(([^)]+)\)`)
	bodyKeyRe     = regexp.MustCompile(`(?is)^(?:KEY|INDEX)\s+` + ident + `\s*\(([^)]+)\)`)
	bodyForeignRe = regexp.MustCompile(`(?is)^(?:CONSTRAINT\s+` + ident + `\s+)?FOREIGN\s+KEY\s*\(`)
	colNameRe     = regexp.MustCompile("^`?(\\w+)`?\\s+")
)

// CreateTableName extracts the table name of a CREATE TABLE statement.
func CreateTableName(text string) (string, bool) {
	m := createTableRe.FindStringSubmatch(strings.TrimSpace(text))
	if m == nil {
		return "", false
	}
	return m[1], true
}

// CreateBodyParts returns the top-level comma separated clauses of a
// CREATE TABLE body. ok is false when the statement has no balanced
// parenthesized body.
func CreateBodyParts(text string) ([]string, bool) {
	body, _, ok := parenBody(text)
	if !ok {
		return nil, false
	}
	return splitTopLevel(body, ','), true
}

// StripColumnDefinitionFromCreate relocates key clauses (PRIMARY KEY,
// UNIQUE KEY, KEY, CONSTRAINT ... FOREIGN KEY) out of a CREATE TABLE
// body into separate ALTER TABLE ... ADD statements, leaving only plain
// column definitions behind. An inline AUTO_INCREMENT is removed from
// its column and re-emitted as a trailing MODIFY so it runs after the
// key-adding ALTERs (AUTO_INCREMENT needs the PRIMARY/UNIQUE key to
// exist first). A table-level AUTO_INCREMENT=N option is restated as a
// final ALTER, because the MODIFY resets the counter.
//
// An input that is not a parseable CREATE TABLE comes back unchanged
// with no ALTER statements.
func StripColumnDefinitionFromCreate(text string) (string, []string) {
	text = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(text), ";"))

	table, ok := CreateTableName(text)
	if !ok {
		return text, nil
	}
	body, tail, ok := parenBody(text)
	if !ok {
		return text, nil
	}

	var cols []string
	var alters []string
	var autoIncAlter string

	for _, part := range splitTopLevel(body, ',') {
		switch {
		case bodyPrimaryRe.MatchString(part):
			alters = append(alters, fmt.Sprintf("ALTER TABLE `%s` ADD %s", table, part))

		case bodyUniqueRe.MatchString(part), bodyKeyRe.MatchString(part):
			alters = append(alters, fmt.Sprintf("ALTER TABLE `%s` ADD %s", table, part))

		case bodyForeignRe.MatchString(part):
			alters = append(alters, fmt.Sprintf("ALTER TABLE `%s` ADD %s", table, part))

		case autoIncRe.MatchString(part):
			m := colNameRe.FindStringSubmatch(strings.TrimSpace(part))
			if m == nil {
				cols = append(cols, part)
				break
			}
			def := strings.TrimSpace(part[len(m[0]):])
			autoIncAlter = fmt.Sprintf("ALTER TABLE `%s` MODIFY `%s` %s", table, m[1], def)
			// keep the column, minus the AUTO_INCREMENT token
			stripped := strings.TrimSpace(autoIncRe.ReplaceAllString(part, ""))
			cols = append(cols, squashSpaces(stripped))

		default:
			cols = append(cols, part)
		}
	}

	// MODIFY with AUTO_INCREMENT must come after the key alters
	if autoIncAlter != "" {
		alters = append(alters, autoIncAlter)

		// the MODIFY reinitializes the counter, so a table-level
		// AUTO_INCREMENT=N option has to be restated after it
		if m := autoIncOptRe.FindStringSubmatch(tail); m != nil {
			tail = strings.TrimRight(autoIncOptRe.ReplaceAllString(tail, ""), " ")
			alters = append(alters, fmt.Sprintf("ALTER TABLE `%s` AUTO_INCREMENT=%s", table, m[1]))
		}
	}

	reduced := fmt.Sprintf("CREATE TABLE `%s` (\n  %s\n)%s", table, strings.Join(cols, ",\n  "), tail)
	return reduced, alters
}

var autoIncOptRe = regexp.MustCompile(`(?i)\s*AUTO_INCREMENT\s*=\s*(\d+)`)

var multiSpaceRe = regexp.MustCompile(`[ \t]{2,}`)

func squashSpaces(s string) string {
	return multiSpaceRe.ReplaceAllString(s, " ")
}
