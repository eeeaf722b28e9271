package cmd

import (
	"log"

	"db-align/internal/dialect"
	"db-align/internal/engine"
	"db-align/internal/schema"

	"github.com/spf13/cobra"
)

var dropCmd = &cobra.Command{
	Use:   "drop",
	Short: "Drop every table of the live schema in reverse dependency order",
	RunE: func(cmd *cobra.Command, args []string) error {
		d := dialect.GetDialect(DriverName)
		log.Printf("Using Dialect: %s\n", DriverName)

		log.Println("Analyzing live schema...")
		catalog, err := schema.FromLive(DB, d, d.SchemaName(SchemaName))
		if err != nil {
			return err
		}

		// order by dependencies so the reverse walk drops children first
		graph := make(map[string][]string)
		for _, name := range catalog.TableNames() {
			t := catalog.Tables[name]
			for _, col := range t.Order {
				for _, fk := range t.Columns[col].Foreign {
					graph[name] = append(graph[name], fk.Ref.Table)
				}
			}
		}
		order, unresolved := schema.TopologicalOrder(catalog.TableNames(), graph)
		if len(unresolved) > 0 {
			log.Printf("Warning: unresolved dependencies for tables %v", unresolved)
		}

		if err := engine.Drop(DB, d, order); err != nil {
			return err
		}
		log.Printf("Dropped %d tables.", len(order))
		return nil
	},
}

func init() {
	RootCmd.AddCommand(dropCmd)
}
