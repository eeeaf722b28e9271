package cmd

import (
	"fmt"
	"log"
	"os"

	"db-align/internal/dialect"
	"db-align/internal/parser"
	"db-align/internal/schema"

	"github.com/spf13/cobra"
)

var diffRoutines bool

var diffCmd = &cobra.Command{
	Use:   "diff <dump.sql>",
	Short: "Compare the live schema against a SQL dump",
	Long: `Builds one schema model from the live database and one from the dump,
compares them column by column and prints the differences. The process
exit code carries the error bitmask: REMOVED=1, MODIFIED=2, ADDED=4,
OR-combined.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		plan, err := loadPlan(args[0])
		if err != nil {
			return err
		}
		dumpCatalog := schema.FromDump(plan.Dump)

		d := dialect.GetDialect(DriverName)
		log.Printf("Using Dialect: %s\n", DriverName)

		liveCatalog, err := schema.FromLive(DB, d, d.SchemaName(SchemaName))
		if err != nil {
			// a partial live model would only produce false diff noise
			return fmt.Errorf("introspection failed: %w", err)
		}

		res := schema.Compare(liveCatalog, dumpCatalog)
		fmt.Print(res.Render())

		if diffRoutines {
			if err := reportRoutineDiff(d, plan.Dump); err != nil {
				return err
			}
		}

		if !res.Match {
			os.Exit(res.Mask)
		}
		return nil
	},
}

// reportRoutineDiff compares routine names only. Bodies are not
// introspected, so a routine present on both sides is assumed equal.
func reportRoutineDiff(d dialect.Dialect, dump *parser.ParsedDump) error {
	kinds := []struct {
		kind  string
		stmts []string
	}{
		{"FUNCTION", dump.Functions},
		{"PROCEDURE", dump.Procedures},
	}

	for _, k := range kinds {
		live, err := schema.ListRoutines(DB, d, d.SchemaName(SchemaName), k.kind)
		if err != nil {
			return err
		}
		onLive := make(map[string]bool, len(live))
		for _, name := range live {
			onLive[name] = true
		}

		inDump := make(map[string]bool, len(k.stmts))
		for _, stmt := range k.stmts {
			name, ok := parser.RoutineName(stmt)
			if !ok {
				continue
			}
			inDump[name] = true
			if !onLive[name] {
				fmt.Printf("%s `%s`: in dump only\n", k.kind, name)
			}
		}
		for _, name := range live {
			if !inDump[name] {
				fmt.Printf("%s `%s`: live only\n", k.kind, name)
			}
		}
	}
	return nil
}

func init() {
	RootCmd.AddCommand(diffCmd)

	diffCmd.Flags().BoolVar(&diffRoutines, "routines", false, "Also compare FUNCTION and PROCEDURE names")
}
