package engine

import (
	"fmt"
	"strings"
)

// FailedQuery records one statement that the database rejected.
type FailedQuery struct {
	Query string
	Err   error
}

// Result summarizes an import run.
type Result struct {
	Executed      int
	TablesCreated int
	Failed        []FailedQuery
}

func NewResult() *Result {
	return &Result{}
}

func (r *Result) OK() bool {
	return len(r.Failed) == 0
}

// Summary renders the final report block printed after an import.
func (r *Result) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Executed: %d statements (%d tables created)\n", r.Executed, r.TablesCreated)
	if r.OK() {
		b.WriteString("No failures.\n")
		return b.String()
	}
	fmt.Fprintf(&b, "Failed: %d\n", len(r.Failed))
	for i, f := range r.Failed {
		query := f.Query
		if len(query) > 120 {
			query = query[:120] + "..."
		}
		fmt.Fprintf(&b, "[%02d] %s\n    └ %v\n", i+1, query, f.Err)
	}
	return b.String()
}
