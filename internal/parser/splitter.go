package parser

import (
	"bufio"
	"fmt"
	"regexp"
	"strings"
)

// Options configures the splitter. User and Host rewrite any
// DEFINER=user@host clause found in routine, trigger and view
// statements, so objects restored from a portable dump are owned by the
// connecting account instead of one from the machine that produced the
// dump.
type Options struct {
	User string
	Host string
}

var (
	delimiterRe = regexp.MustCompile(`(?im)^\s*DELIMITER\s+(\S+)\s*$`)
	definerRe   = regexp.MustCompile("(?i)DEFINER\\s*=\\s*`?[\\w.%-]+`?@`?[\\w.%-]+`?")

	createViewRe = regexp.MustCompile(`(?is)^CREATE\s+(?:OR\s+REPLACE\s+)?(?:ALGORITHM\s*=\s*\S+\s+)?(?:DEFINER\s*=\s*\S+\s+)?(?:SQL\s+SECURITY\s+\w+\s+)?VIEW\b`)
	createTblRe  = regexp.MustCompile(`(?is)^CREATE\s+(?:TEMPORARY\s+)?TABLE\b`)

	functionRe  = regexp.MustCompile(`(?is)^CREATE\s+(?:DEFINER\s*=\s*\S+\s+)?FUNCTION\b`)
	procedureRe = regexp.MustCompile(`(?is)^CREATE\s+(?:DEFINER\s*=\s*\S+\s+)?PROCEDURE\b`)
	triggerRe   = regexp.MustCompile(`(?is)^CREATE\s+(?:DEFINER\s*=\s*\S+\s+)?TRIGGER\b`)

	routineNameRe = regexp.MustCompile(`(?is)^CREATE\s+(?:DEFINER\s*=\s*\S+\s+)?(?:FUNCTION|PROCEDURE|TRIGGER)\s+(?:IF\s+NOT\s+EXISTS\s+)?` + "`?" + `(\w+)` + "`?")
)

// RoutineName extracts the object name from a CREATE
// FUNCTION/PROCEDURE/TRIGGER statement.
func RoutineName(stmt string) (string, bool) {
	m := routineNameRe.FindStringSubmatch(stmt)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// CleanDump strips "--" line comments, "#" comments, conditional
// /*! ... */ directives and blank lines from raw dump text.
func CleanDump(text string) string {
	var b strings.Builder
	sc := bufio.NewScanner(strings.NewReader(text))
	sc.Buffer(make([]byte, 1024*1024), 64*1024*1024)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" ||
			strings.HasPrefix(line, "--") ||
			strings.HasPrefix(line, "#") ||
			strings.HasPrefix(line, "/*") {
			continue
		}
		b.WriteString(sc.Text())
		b.WriteString("\n")
	}
	return b.String()
}

// Parse splits raw SQL text into classified statement buckets. The
// input is expected to be comment-free (see CleanDump). Classification
// is total: anything that matches no known leading keyword lands in
// Misc rather than being dropped.
func Parse(text string, opts Options) *ParsedDump {
	d := NewParsedDump()

	rest := extractDelimiterRegions(text, opts, d)

	for _, raw := range Split(rest) {
		dispatch(raw, opts, d)
	}
	return d
}

// Split breaks comment-free SQL text (with no custom DELIMITER regions
// left in it) into classified statements.
func Split(text string) []RawStatement {
	var out []RawStatement
	for _, stmt := range splitTopLevel(text, ';') {
		out = append(out, RawStatement{SQL: stmt, Kind: Classify(stmt)})
	}
	return out
}

// Classify tags a trimmed statement by its leading keyword.
func Classify(stmt string) StatementKind {
	upper := strings.ToUpper(stmt)
	switch {
	case strings.HasPrefix(upper, "INSERT"):
		return KindInsert
	case strings.HasPrefix(upper, "ALTER"):
		return KindAlter
	case functionRe.MatchString(stmt):
		return KindCreateFunction
	case procedureRe.MatchString(stmt):
		return KindCreateProcedure
	case triggerRe.MatchString(stmt):
		return KindCreateTrigger
	case createViewRe.MatchString(stmt):
		return KindCreateView
	case createTblRe.MatchString(stmt):
		return KindCreateTable
	case strings.HasPrefix(upper, "DROP"):
		return KindDrop
	default:
		return KindMisc
	}
}

// extractDelimiterRegions removes every custom DELIMITER region from
// the text, splitting each region on its token and bucketing the
// fragments as functions, procedures or triggers. It returns the text
// outside the regions.
func extractDelimiterRegions(text string, opts Options, d *ParsedDump) string {
	for {
		locs := delimiterRe.FindStringSubmatchIndex(text)
		if locs == nil {
			return text
		}
		token := text[locs[2]:locs[3]]
		if token == ";" {
			// stray reset to the default delimiter; just drop the line
			text = text[:locs[0]] + text[locs[1]:]
			continue
		}

		after := text[locs[1]:]
		end := len(after)
		regionEnd := end
		if next := delimiterRe.FindStringSubmatchIndex(after); next != nil {
			regionEnd = next[0]
			end = regionEnd
			// a closing "DELIMITER ;" line is consumed with the region;
			// any other directive starts a region of its own
			if after[next[2]:next[3]] == ";" {
				end = next[1]
			}
		}

		region := after[:regionEnd]
		for _, frag := range splitOnToken(region, token) {
			bucketRoutine(frag, opts, d)
		}
		text = text[:locs[0]] + after[end:]
	}
}

// bucketRoutine classifies a DELIMITER region fragment by scanning for
// the routine keyword.
func bucketRoutine(frag string, opts Options, d *ParsedDump) {
	frag = rewriteDefiner(frag, opts)
	switch Classify(frag) {
	case KindCreateFunction:
		d.Functions = append(d.Functions, frag)
	case KindCreateProcedure:
		d.Procedures = append(d.Procedures, frag)
	case KindCreateTrigger:
		d.Triggers = append(d.Triggers, frag)
	default:
		d.Misc = append(d.Misc, frag)
	}
}

func dispatch(raw RawStatement, opts Options, d *ParsedDump) {
	stmt := raw.SQL

	switch raw.Kind {
	case KindInsert:
		table, ok := InsertTableName(stmt)
		if !ok {
			d.Misc = append(d.Misc, stmt)
			return
		}
		if _, seen := d.Inserts[table]; !seen {
			d.InsertOrder = append(d.InsertOrder, table)
		}
		d.Inserts[table] = append(d.Inserts[table], stmt)

	case KindAlter:
		d.Alters = append(d.Alters, SplitMultiClauseAlter(stmt)...)

	// routines can appear outside a DELIMITER region when their body
	// holds no semicolons
	case KindCreateFunction:
		d.Functions = append(d.Functions, rewriteDefiner(stmt, opts))
	case KindCreateProcedure:
		d.Procedures = append(d.Procedures, rewriteDefiner(stmt, opts))
	case KindCreateTrigger:
		d.Triggers = append(d.Triggers, rewriteDefiner(stmt, opts))

	case KindCreateView:
		d.Views = append(d.Views, rewriteDefiner(stmt, opts))

	case KindCreateTable:
		table, ok := CreateTableName(stmt)
		if !ok {
			d.Misc = append(d.Misc, stmt)
			return
		}
		reduced, alters := StripColumnDefinitionFromCreate(stmt)
		if _, seen := d.Tables[table]; !seen {
			d.TableOrder = append(d.TableOrder, table)
		}
		d.Tables[table] = reduced
		d.Alters = append(d.Alters, alters...)

	case KindDrop:
		d.Drops = append(d.Drops, stmt)

	default:
		d.Misc = append(d.Misc, stmt)
	}
}

// rewriteDefiner replaces any DEFINER=user@host clause with the
// configured connection account.
func rewriteDefiner(stmt string, opts Options) string {
	if opts.User == "" {
		return stmt
	}
	host := opts.Host
	if host == "" {
		host = "localhost"
	}
	return definerRe.ReplaceAllString(stmt, fmt.Sprintf("DEFINER=`%s`@`%s`", opts.User, host))
}
