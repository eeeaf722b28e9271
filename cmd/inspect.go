package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <dump.sql>",
	Short: "Show the classified statements and creation order of a dump",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		plan, err := loadPlan(args[0])
		if err != nil {
			return err
		}
		dump := plan.Dump

		fmt.Printf("Statements: %d\n", dump.StatementCount())
		fmt.Printf("  tables:     %d\n", len(dump.Tables))
		fmt.Printf("  views:      %d\n", len(dump.Views))
		fmt.Printf("  alters:     %d\n", len(dump.Alters))
		fmt.Printf("  functions:  %d\n", len(dump.Functions))
		fmt.Printf("  procedures: %d\n", len(dump.Procedures))
		fmt.Printf("  triggers:   %d\n", len(dump.Triggers))
		fmt.Printf("  drops:      %d\n", len(dump.Drops))
		fmt.Printf("  misc:       %d\n", len(dump.Misc))

		inserts := 0
		for _, stmts := range dump.Inserts {
			inserts += len(stmts)
		}
		fmt.Printf("  inserts:    %d (into %d tables)\n", inserts, len(dump.Inserts))

		fmt.Println("\nCreation order:")
		for i, t := range plan.Order {
			fmt.Printf("[%02d] %s\n", i+1, t)
		}
		if len(plan.Unresolved) > 0 {
			fmt.Printf("\nUnresolved dependencies (appended last): %v\n", plan.Unresolved)
		}
		return nil
	},
}

func init() {
	RootCmd.AddCommand(inspectCmd)
}
