package schema

import (
	"regexp"

	"db-align/internal/parser"
)

var foreignRefRe = regexp.MustCompile(`(?is)FOREIGN\s+KEY[^(]*\([^)]*\)\s*REFERENCES\s+` + "`?" + `(\w+)` + "`?")

var alterTableRe = regexp.MustCompile(`(?is)^ALTER\s+TABLE\s+` + "`?" + `(\w+)` + "`?")

// ExtractForeignKeys scans an ALTER statement for FOREIGN KEY ...
// REFERENCES occurrences and returns the altered table plus the
// distinct referenced table names. A statement that has been through
// SplitMultiClauseAlter carries at most one, but more are tolerated.
func ExtractForeignKeys(alterText string) (string, []string) {
	m := alterTableRe.FindStringSubmatch(alterText)
	if m == nil {
		return "", nil
	}
	table := m[1]

	var refs []string
	seen := make(map[string]bool)
	for _, match := range foreignRefRe.FindAllStringSubmatch(alterText, -1) {
		ref := match[1]
		if ref == table || seen[ref] {
			continue
		}
		seen[ref] = true
		refs = append(refs, ref)
	}
	return table, refs
}

// BuildDependencyGraph derives a table -> referenced-tables mapping
// from a list of ALTER statements. Only FOREIGN KEY clauses contribute
// edges.
func BuildDependencyGraph(alters []string) map[string][]string {
	graph := make(map[string][]string)
	for _, stmt := range alters {
		table, refs := ExtractForeignKeys(stmt)
		if table == "" || len(refs) == 0 {
			continue
		}
		seen := make(map[string]bool)
		for _, r := range graph[table] {
			seen[r] = true
		}
		for _, r := range refs {
			if !seen[r] {
				graph[table] = append(graph[table], r)
				seen[r] = true
			}
		}
	}
	return graph
}

// TopologicalOrder peels tables whose dependencies are already resolved
// into the output, keeping the original encounter order among ties.
// When a full pass resolves nothing (a cycle, or a reference to a table
// outside the list), the remaining tables are appended in their
// original order instead of failing, and returned as unresolved so the
// caller can decide whether to warn.
func TopologicalOrder(tables []string, graph map[string][]string) (order, unresolved []string) {
	resolved := make(map[string]bool)

	for len(order) < len(tables) {
		added := false
		for _, t := range tables {
			if resolved[t] {
				continue
			}
			ready := true
			for _, dep := range graph[t] {
				if !resolved[dep] {
					ready = false
					break
				}
			}
			if ready {
				order = append(order, t)
				resolved[t] = true
				added = true
			}
		}
		if !added {
			break
		}
	}

	for _, t := range tables {
		if !resolved[t] {
			order = append(order, t)
			unresolved = append(unresolved, t)
		}
	}
	return order, unresolved
}

// Plan is the parse-path output: the statement buckets of a dump plus
// the dependency-resolved table creation order.
type Plan struct {
	Dump       *parser.ParsedDump
	Order      []string
	Unresolved []string
}

// NewPlan resolves the creation order for a parsed dump.
func NewPlan(d *parser.ParsedDump) *Plan {
	graph := BuildDependencyGraph(d.Alters)
	order, unresolved := TopologicalOrder(d.TableOrder, graph)
	return &Plan{Dump: d, Order: order, Unresolved: unresolved}
}
