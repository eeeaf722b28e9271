package parser

import "strings"

// scanner helpers shared by the splitter and the detail parsers.
// SQL text is scanned byte-wise with quote ('\'' and '"' and '`') and
// parenthesis awareness so separators inside literals or key column
// lists are never mistaken for statement/clause boundaries.

// splitTopLevel splits text on sep, ignoring separators inside quotes
// or parentheses. Empty fragments are dropped, the rest are trimmed.
func splitTopLevel(text string, sep byte) []string {
	var parts []string
	var cur strings.Builder
	depth := 0
	quote := byte(0)

	for i := 0; i < len(text); i++ {
		c := text[i]
		switch {
		case quote != 0:
			cur.WriteByte(c)
			if c == '\\' && quote != '`' && i+1 < len(text) {
				// backslash escape inside a string literal
				i++
				cur.WriteByte(text[i])
			} else if c == quote {
				quote = 0
			}
		case c == '\'' || c == '"' || c == '`':
			quote = c
			cur.WriteByte(c)
		case c == '(':
			depth++
			cur.WriteByte(c)
		case c == ')':
			depth--
			cur.WriteByte(c)
		case c == sep && depth == 0:
			if p := strings.TrimSpace(cur.String()); p != "" {
				parts = append(parts, p)
			}
			cur.Reset()
		default:
			cur.WriteByte(c)
		}
	}
	if p := strings.TrimSpace(cur.String()); p != "" {
		parts = append(parts, p)
	}
	return parts
}

// splitOnToken splits text on a multi-byte delimiter token (e.g. "$$"),
// outside of quoted literals. Used for custom DELIMITER regions.
func splitOnToken(text, token string) []string {
	var parts []string
	var cur strings.Builder
	quote := byte(0)

	for i := 0; i < len(text); i++ {
		c := text[i]
		if quote != 0 {
			cur.WriteByte(c)
			if c == '\\' && quote != '`' && i+1 < len(text) {
				i++
				cur.WriteByte(text[i])
			} else if c == quote {
				quote = 0
			}
			continue
		}
		if c == '\'' || c == '"' || c == '`' {
			quote = c
			cur.WriteByte(c)
			continue
		}
		if strings.HasPrefix(text[i:], token) {
			if p := strings.TrimSpace(cur.String()); p != "" {
				parts = append(parts, p)
			}
			cur.Reset()
			i += len(token) - 1
			continue
		}
		cur.WriteByte(c)
	}
	if p := strings.TrimSpace(cur.String()); p != "" {
		parts = append(parts, p)
	}
	return parts
}

// parenBody returns the text between the first '(' and its matching ')',
// plus the tail after the closing paren. ok is false when the parens
// do not balance.
func parenBody(text string) (body, tail string, ok bool) {
	start := -1
	depth := 0
	quote := byte(0)

	for i := 0; i < len(text); i++ {
		c := text[i]
		if quote != 0 {
			if c == '\\' && quote != '`' && i+1 < len(text) {
				i++
			} else if c == quote {
				quote = 0
			}
			continue
		}
		switch c {
		case '\'', '"', '`':
			quote = c
		case '(':
			if depth == 0 {
				start = i
			}
			depth++
		case ')':
			depth--
			if depth == 0 && start >= 0 {
				return text[start+1 : i], text[i+1:], true
			}
		}
	}
	return "", "", false
}

// indexKeyword returns the byte index of the first word-bounded,
// case-insensitive occurrence of keyword outside quoted literals, or
// -1. Keywords quoted as identifiers (e.g. a column named `values`)
// are skipped.
func indexKeyword(text, keyword string) int {
	quote := byte(0)
	for i := 0; i < len(text); i++ {
		c := text[i]
		if quote != 0 {
			if c == '\\' && quote != '`' && i+1 < len(text) {
				i++
			} else if c == quote {
				quote = 0
			}
			continue
		}
		if c == '\'' || c == '"' || c == '`' {
			quote = c
			continue
		}
		if len(text)-i >= len(keyword) && strings.EqualFold(text[i:i+len(keyword)], keyword) {
			boundedLeft := i == 0 || !isWordByte(text[i-1])
			boundedRight := i+len(keyword) == len(text) || !isWordByte(text[i+len(keyword)])
			if boundedLeft && boundedRight {
				return i
			}
		}
	}
	return -1
}

func isWordByte(c byte) bool {
	return c == '_' || (c >= '0' && c <= '9') || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

// unquoteIdent strips surrounding backticks or double quotes from an
// identifier.
func unquoteIdent(name string) string {
	name = strings.TrimSpace(name)
	name = strings.Trim(name, "`\"")
	return name
}

// identList parses a comma separated identifier list like
// "`a`, b, `c`" into clean names.
func identList(text string) []string {
	var names []string
	for _, part := range strings.Split(text, ",") {
		if n := unquoteIdent(part); n != "" {
			names = append(names, n)
		}
	}
	return names
}
