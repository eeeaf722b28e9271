package dialect

import (
	"strings"
	"testing"

	"db-align/internal/parser"
)

// Synthesized CREATE text must carry keys and constraints through the
// shared parse path, or a table with a UNIQUE KEY would diff as
// modified against its own dump.
func TestComposeCreateTableCarriesKeys(t *testing.T) {
	cols := []columnRow{
		{Name: "id", DataType: "int", Size: 11, AutoInc: true},
		{Name: "email", DataType: "varchar", Size: 128},
		{Name: "lab", DataType: "varchar", Size: 8, Nullable: true},
	}
	keys := []keyRow{
		{Name: "uq_email", Unique: true, Columns: []string{"email"}},
		{Name: "idx_lab", Columns: []string{"lab"}},
		{Name: "fk_lab", Foreign: true, Columns: []string{"lab"}, RefTable: "d_lab", RefColumn: "code"},
	}

	text := composeCreateTable("users", cols, []string{"id"}, keys)
	_, alters := parser.StripColumnDefinitionFromCreate(text)

	byKind := make(map[parser.AlterKind]*parser.AlterClause)
	for _, stmt := range alters {
		clause, ok := parser.ParseAlterClause(stmt)
		if !ok {
			t.Fatalf("relocated clause does not parse: %q", stmt)
		}
		byKind[clause.Kind] = clause
	}

	if c := byKind[parser.AlterUnique]; c == nil || c.Name != "uq_email" || len(c.Columns) != 1 || c.Columns[0] != "email" {
		t.Errorf("unique key lost: %+v", c)
	}
	if c := byKind[parser.AlterIndex]; c == nil || c.Name != "idx_lab" {
		t.Errorf("index lost: %+v", c)
	}
	if c := byKind[parser.AlterForeign]; c == nil || c.Name != "fk_lab" ||
		c.Ref.Table != "d_lab" || c.Ref.Column != "code" {
		t.Errorf("foreign key lost: %+v", c)
	}
	if c := byKind[parser.AlterPrimary]; c == nil || len(c.Columns) != 1 || c.Columns[0] != "id" {
		t.Errorf("primary key lost: %+v", c)
	}
	if c := byKind[parser.AlterModify]; c == nil || !c.Definition.AutoIncrement {
		t.Errorf("auto_increment lost: %+v", c)
	}
}

func TestComposeCreateTableColumns(t *testing.T) {
	cols := []columnRow{
		{Name: "code", DataType: "varchar", Size: 8},
		{Name: "name", DataType: "varchar", Size: 64, Nullable: true, Default: "'x'"},
	}
	text := composeCreateTable("d_lab", cols, nil, nil)

	if !strings.Contains(text, "`code` varchar(8) NOT NULL") {
		t.Errorf("code column = %q", text)
	}
	if !strings.Contains(text, "`name` varchar(64) NULL DEFAULT 'x'") {
		t.Errorf("name column = %q", text)
	}

	parts, ok := parser.CreateBodyParts(text)
	if !ok || len(parts) != 2 {
		t.Fatalf("body parts = %v, ok = %v", parts, ok)
	}
}
