package engine_test

import (
	"errors"
	"strings"
	"testing"

	"db-align/internal/engine"
	"db-align/internal/parser"
	"db-align/internal/schema"
)

const countDump = `
CREATE TABLE ` + "`d_lab`" + ` (
  ` + "`code`" + ` varchar(8) NOT NULL,
  PRIMARY KEY (` + "`code`" + `)
);
INSERT INTO ` + "`d_lab`" + ` (` + "`code`" + `) VALUES ('A'),('B'),('C');
SET FOREIGN_KEY_CHECKS = 1;
`

func TestStatementTotal(t *testing.T) {
	dump := parser.Parse(parser.CleanDump(countDump), parser.Options{})
	plan := schema.NewPlan(dump)

	// 1 create + 1 relocated alter + 1 misc
	if n := engine.StatementTotal(plan, engine.Options{}); n != 3 {
		t.Errorf("schema only = %d, want 3", n)
	}
	if n := engine.StatementTotal(plan, engine.Options{WithData: true}); n != 4 {
		t.Errorf("with data = %d, want 4", n)
	}
	opts := engine.Options{WithData: true, SingleInserts: true}
	if n := engine.StatementTotal(plan, opts); n != 6 {
		t.Errorf("single inserts = %d, want 6", n)
	}
	opts = engine.Options{WithData: true, DropFirst: true}
	if n := engine.StatementTotal(plan, opts); n != 5 {
		t.Errorf("drop first = %d, want 5", n)
	}
}

func TestResultSummary(t *testing.T) {
	res := engine.NewResult()
	res.Executed = 12
	res.TablesCreated = 3
	if !res.OK() {
		t.Error("fresh result should be OK")
	}
	if out := res.Summary(); !strings.Contains(out, "No failures") {
		t.Errorf("summary = %q", out)
	}

	res.Failed = append(res.Failed, engine.FailedQuery{
		Query: "INSERT INTO `d_lab` (`code`) VALUES ('" + strings.Repeat("x", 200) + "')",
		Err:   errors.New("Duplicate entry"),
	})
	if res.OK() {
		t.Error("result with failures should not be OK")
	}
	out := res.Summary()
	if !strings.Contains(out, "Failed: 1") {
		t.Errorf("summary = %q", out)
	}
	if !strings.Contains(out, "...") {
		t.Error("long queries should be truncated")
	}
	if !strings.Contains(out, "Duplicate entry") {
		t.Errorf("summary misses the error: %q", out)
	}
}
