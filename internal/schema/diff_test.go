package schema_test

import (
	"strings"
	"testing"

	"db-align/internal/parser"
	"db-align/internal/schema"
)

func catalogOf(t *testing.T, columns map[string]string) *schema.Catalog {
	t.Helper()
	c := schema.NewCatalog()
	table := schema.NewTableSchema("users")
	for _, name := range []string{"id", "email", "name", "lab"} {
		text, ok := columns[name]
		if !ok {
			continue
		}
		def, ok := parser.ParseColumnDefinition(text)
		if !ok {
			t.Fatalf("bad column text %q", text)
		}
		table.SetColumn(name, def)
	}
	c.Add(table)
	return c
}

func TestCompare_Identical(t *testing.T) {
	cols := map[string]string{
		"id":    "int(11) unsigned NOT NULL AUTO_INCREMENT",
		"email": "varchar(64) NOT NULL",
	}
	res := schema.Compare(catalogOf(t, cols), catalogOf(t, cols))
	if !res.Match {
		t.Fatalf("identical catalogs differ:\n%s", res.Render())
	}
	if len(res.Entries) != 0 || res.Mask != 0 {
		t.Errorf("entries = %d, mask = %#x", len(res.Entries), res.Mask)
	}
	if !strings.Contains(res.Render(), "match") {
		t.Errorf("render = %q", res.Render())
	}
}

func TestCompare_Added(t *testing.T) {
	live := catalogOf(t, map[string]string{
		"id":    "int(11) NOT NULL",
		"email": "varchar(64) NOT NULL",
	})
	dump := catalogOf(t, map[string]string{
		"id":    "int(11) NOT NULL",
		"email": "varchar(64) NOT NULL",
		"name":  "varchar(128) DEFAULT NULL",
	})

	res := schema.Compare(live, dump)
	if res.Match {
		t.Fatal("want mismatch")
	}
	if res.Mask != schema.ErrAdded {
		t.Errorf("mask = %#x, want %#x", res.Mask, schema.ErrAdded)
	}
	if len(res.Entries) != 1 {
		t.Fatalf("entries = %+v", res.Entries)
	}
	e := res.Entries[0]
	if e.Table != "users" || e.Column != "name" {
		t.Errorf("entry = %+v", e)
	}
	if e.HasSource || !e.HasTarget {
		t.Errorf("entry sides = %+v", e)
	}
	if e.Flag() != schema.ErrAdded {
		t.Errorf("flag = %#x", e.Flag())
	}
}

func TestCompare_Removed(t *testing.T) {
	live := catalogOf(t, map[string]string{
		"id":  "int(11) NOT NULL",
		"lab": "varchar(8) NOT NULL",
	})
	dump := catalogOf(t, map[string]string{
		"id": "int(11) NOT NULL",
	})

	res := schema.Compare(live, dump)
	if res.Mask != schema.ErrRemoved {
		t.Errorf("mask = %#x, want %#x", res.Mask, schema.ErrRemoved)
	}
}

func TestCompare_Modified(t *testing.T) {
	live := catalogOf(t, map[string]string{
		"email": "varchar(64) NOT NULL",
	})
	dump := catalogOf(t, map[string]string{
		"email": "varchar(128) NOT NULL",
	})

	res := schema.Compare(live, dump)
	if res.Mask != schema.ErrModified {
		t.Errorf("mask = %#x, want %#x", res.Mask, schema.ErrModified)
	}
	if len(res.Entries) != 1 {
		t.Fatalf("entries = %+v", res.Entries)
	}
	e := res.Entries[0]
	if !e.HasSource || !e.HasTarget {
		t.Errorf("entry sides = %+v", e)
	}
	out := res.Render()
	if !strings.Contains(out, "varchar(64)") || !strings.Contains(out, "varchar(128)") {
		t.Errorf("render misses the two sides:\n%s", out)
	}
}

func TestCompare_CombinedMask(t *testing.T) {
	live := catalogOf(t, map[string]string{
		"id":  "int(11) NOT NULL",
		"lab": "varchar(8) NOT NULL",
	})
	dump := catalogOf(t, map[string]string{
		"id":   "bigint(20) NOT NULL",
		"name": "varchar(128) DEFAULT NULL",
	})

	res := schema.Compare(live, dump)
	want := schema.ErrRemoved | schema.ErrModified | schema.ErrAdded
	if res.Mask != want {
		t.Errorf("mask = %#x, want %#x", res.Mask, want)
	}
	if len(res.Entries) != 3 {
		t.Errorf("entries = %+v", res.Entries)
	}
}

func TestCompare_LeavesInputsUsable(t *testing.T) {
	live := catalogOf(t, map[string]string{"id": "int(11) NOT NULL"})
	dump := catalogOf(t, map[string]string{"id": "bigint(20) NOT NULL"})

	schema.Compare(live, dump)
	if live.Len() != 1 || dump.Len() != 1 {
		t.Errorf("compare mutated its inputs: live=%d dump=%d", live.Len(), dump.Len())
	}
}

func TestRenderColumn(t *testing.T) {
	def, ok := parser.ParseColumnDefinition("varchar(64) NOT NULL DEFAULT 'x'")
	if !ok {
		t.Fatal("parse failed")
	}
	def.Primary = true
	out := schema.RenderColumn("users", "email", def)
	if !strings.Contains(out, "`users`.`email`") {
		t.Errorf("out = %q", out)
	}
	if !strings.Contains(out, "PRIMARY KEY") {
		t.Errorf("out = %q", out)
	}
	if !strings.Contains(out, "DEFAULT 'x'") {
		t.Errorf("out = %q", out)
	}
}
