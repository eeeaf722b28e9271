package schema

import (
	"db-align/internal/parser"
)

// TableSchema is the structural model of one table: a mapping from
// column name to its parsed definition. Column order is irrelevant for
// comparison; Order keeps the encounter order for rendering.
type TableSchema struct {
	Name    string
	Columns map[string]*parser.ColumnDefinition
	Order   []string
}

func NewTableSchema(name string) *TableSchema {
	return &TableSchema{
		Name:    name,
		Columns: make(map[string]*parser.ColumnDefinition),
	}
}

// SetColumn adds or replaces a column definition.
func (t *TableSchema) SetColumn(name string, def *parser.ColumnDefinition) {
	if _, ok := t.Columns[name]; !ok {
		t.Order = append(t.Order, name)
	}
	t.Columns[name] = def
}

// ColumnNames returns the column names in encounter order.
func (t *TableSchema) ColumnNames() []string {
	out := make([]string, len(t.Order))
	copy(out, t.Order)
	return out
}

// Catalog is a collection of table schemas built from one source (a
// dump or a live database). It is created fresh per invocation and
// never retained across calls.
type Catalog struct {
	Tables map[string]*TableSchema
	Order  []string
}

func NewCatalog() *Catalog {
	return &Catalog{Tables: make(map[string]*TableSchema)}
}

func (c *Catalog) Add(t *TableSchema) {
	if _, ok := c.Tables[t.Name]; !ok {
		c.Order = append(c.Order, t.Name)
	}
	c.Tables[t.Name] = t
}

func (c *Catalog) Remove(name string) {
	if _, ok := c.Tables[name]; !ok {
		return
	}
	delete(c.Tables, name)
	for i, n := range c.Order {
		if n == name {
			c.Order = append(c.Order[:i], c.Order[i+1:]...)
			break
		}
	}
}

func (c *Catalog) Len() int {
	return len(c.Tables)
}

// TableNames returns the table names in encounter order.
func (c *Catalog) TableNames() []string {
	out := make([]string, len(c.Order))
	copy(out, c.Order)
	return out
}

// Clone returns a deep copy. Compare shrinks the catalogs it works on,
// so it clones both sides up front and leaves the originals intact.
func (c *Catalog) Clone() *Catalog {
	out := NewCatalog()
	for _, name := range c.Order {
		src := c.Tables[name]
		t := NewTableSchema(name)
		for _, col := range src.Order {
			t.SetColumn(col, src.Columns[col].Clone())
		}
		out.Add(t)
	}
	return out
}
