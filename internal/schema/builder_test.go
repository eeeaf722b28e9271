package schema_test

import (
	"testing"

	"db-align/internal/parser"
	"db-align/internal/schema"
)

const labDump = `
CREATE TABLE ` + "`d_lab`" + ` (
  ` + "`code`" + ` varchar(8) NOT NULL,
  ` + "`name`" + ` varchar(64) DEFAULT NULL,
  PRIMARY KEY (` + "`code`" + `)
) ENGINE=InnoDB;
CREATE TABLE ` + "`d_access_proposal`" + ` (
  ` + "`id`" + ` int(11) unsigned NOT NULL AUTO_INCREMENT,
  ` + "`labCode`" + ` varchar(8) NOT NULL,
  PRIMARY KEY (` + "`id`" + `),
  KEY ` + "`idx_lab`" + ` (` + "`labCode`" + `),
  CONSTRAINT ` + "`fk_lab`" + ` FOREIGN KEY (` + "`labCode`" + `) REFERENCES ` + "`d_lab`" + ` (` + "`code`" + `)
) ENGINE=InnoDB;
`

func parseDump(t *testing.T, text string) *parser.ParsedDump {
	t.Helper()
	return parser.Parse(parser.CleanDump(text), parser.Options{})
}

func TestFromDump(t *testing.T) {
	c := schema.FromDump(parseDump(t, labDump))

	if c.Len() != 2 {
		t.Fatalf("tables = %d, want 2", c.Len())
	}

	lab := c.Tables["d_lab"]
	if lab == nil {
		t.Fatal("d_lab missing")
	}
	code := lab.Columns["code"]
	if code == nil {
		t.Fatal("d_lab.code missing")
	}
	if !code.Primary {
		t.Error("d_lab.code should be primary")
	}
	if code.DataType != "varchar" || code.TypeSize != 8 {
		t.Errorf("d_lab.code type = %s(%d)", code.DataType, code.TypeSize)
	}
	if name := lab.Columns["name"]; name == nil || !name.Nullable {
		t.Error("d_lab.name should be nullable")
	}

	prop := c.Tables["d_access_proposal"]
	if prop == nil {
		t.Fatal("d_access_proposal missing")
	}
	id := prop.Columns["id"]
	if id == nil || !id.Primary {
		t.Error("d_access_proposal.id should be primary")
	}
	// the inline AUTO_INCREMENT travels through the relocated MODIFY
	if !id.AutoIncrement {
		t.Error("d_access_proposal.id should be auto_increment")
	}
	if !id.Unsigned {
		t.Error("d_access_proposal.id should be unsigned")
	}

	labCode := prop.Columns["labCode"]
	if labCode == nil {
		t.Fatal("d_access_proposal.labCode missing")
	}
	if len(labCode.Index) != 1 || labCode.Index[0].Name != "idx_lab" {
		t.Errorf("labCode index memberships = %+v", labCode.Index)
	}
	if len(labCode.Foreign) != 1 {
		t.Fatalf("labCode foreign memberships = %+v", labCode.Foreign)
	}
	fk := labCode.Foreign[0]
	if fk.Name != "fk_lab" || fk.Ref.Table != "d_lab" || fk.Ref.Column != "code" {
		t.Errorf("labCode foreign key = %+v", fk)
	}
}

// Splitting a CREATE TABLE into a reduced CREATE plus ALTERs and
// re-applying them must model exactly what the unsplit statement says.
// The expectation is built by hand, not derived from the parse path.
func TestStripAndReapplyRoundTrip(t *testing.T) {
	want := schema.NewCatalog()

	lab := schema.NewTableSchema("d_lab")
	lab.SetColumn("code", &parser.ColumnDefinition{
		DataType: "varchar", TypeSize: 8, Length: 8,
		Primary: true,
	})
	lab.SetColumn("name", &parser.ColumnDefinition{
		DataType: "varchar", TypeSize: 64, Length: 64,
		Nullable: true, HasDefault: true, Default: "NULL",
	})
	want.Add(lab)

	prop := schema.NewTableSchema("d_access_proposal")
	prop.SetColumn("id", &parser.ColumnDefinition{
		DataType: "int", TypeSize: 11,
		Unsigned: true, AutoIncrement: true, Primary: true,
	})
	prop.SetColumn("labCode", &parser.ColumnDefinition{
		DataType: "varchar", TypeSize: 8, Length: 8,
		Index: []parser.KeyInfo{{Name: "idx_lab", Columns: []string{"labCode"}}},
		Foreign: []parser.ForeignKeyInfo{{
			Name: "fk_lab",
			Ref:  parser.ForeignKeyRef{Table: "d_lab", Column: "code"},
		}},
	})
	want.Add(prop)

	got := schema.FromDump(parseDump(t, labDump))
	res := schema.Compare(got, want)
	if !res.Match {
		t.Fatalf("built model diverges from the unsplit statements:\n%s", res.Render())
	}
}
