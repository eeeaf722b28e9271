package parser

// StatementKind classifies a top-level statement from a dump.
type StatementKind int

const (
	KindMisc StatementKind = iota
	KindCreateTable
	KindCreateView
	KindCreateFunction
	KindCreateProcedure
	KindCreateTrigger
	KindAlter
	KindInsert
	KindDrop
)

func (k StatementKind) String() string {
	switch k {
	case KindCreateTable:
		return "CREATE_TABLE"
	case KindCreateView:
		return "CREATE_VIEW"
	case KindCreateFunction:
		return "CREATE_FUNCTION"
	case KindCreateProcedure:
		return "CREATE_PROCEDURE"
	case KindCreateTrigger:
		return "CREATE_TRIGGER"
	case KindAlter:
		return "ALTER"
	case KindInsert:
		return "INSERT"
	case KindDrop:
		return "DROP"
	default:
		return "MISC"
	}
}

// RawStatement is a single trimmed statement with its classification.
type RawStatement struct {
	SQL  string
	Kind StatementKind
}

// ParsedDump holds every statement of a dump, grouped by kind.
// Statements keep their encounter order within each bucket.
type ParsedDump struct {
	Functions  []string
	Procedures []string
	Triggers   []string

	// Tables maps table name to its reduced CREATE TABLE text
	// (key clauses relocated into Alters, see StripColumnDefinitionFromCreate).
	Tables     map[string]string
	TableOrder []string

	Alters []string
	Views  []string

	// Inserts groups INSERT statements by target table.
	Inserts     map[string][]string
	InsertOrder []string

	Drops []string

	// Misc collects statements that match no known leading keyword.
	// They are kept verbatim rather than dropped.
	Misc []string
}

// NewParsedDump returns an empty dump with initialized maps.
func NewParsedDump() *ParsedDump {
	return &ParsedDump{
		Tables:  make(map[string]string),
		Inserts: make(map[string][]string),
	}
}

// TableNames returns the tables seen in CREATE TABLE statements, in
// encounter order.
func (d *ParsedDump) TableNames() []string {
	out := make([]string, len(d.TableOrder))
	copy(out, d.TableOrder)
	return out
}

// StatementCount reports the total number of classified statements.
func (d *ParsedDump) StatementCount() int {
	n := len(d.Functions) + len(d.Procedures) + len(d.Triggers) +
		len(d.Tables) + len(d.Alters) + len(d.Views) + len(d.Drops) + len(d.Misc)
	for _, stmts := range d.Inserts {
		n += len(stmts)
	}
	return n
}
