package cmd

import (
	"fmt"
	"log"
	"os"
	"time"

	"db-align/internal/dialect"
	"db-align/internal/engine"
	"db-align/internal/parser"
	"db-align/internal/schema"

	"github.com/gosuri/uiprogress"
	"github.com/spf13/cobra"
)

var (
	noData        bool
	singleInserts bool
	dropFirst     bool
	dryRun        bool
)

var importCmd = &cobra.Command{
	Use:   "import <dump.sql>",
	Short: "Import a SQL dump in dependency order",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		plan, err := loadPlan(args[0])
		if err != nil {
			return err
		}
		if len(plan.Unresolved) > 0 {
			log.Printf("Warning: unresolved dependencies for tables %v (appended last)", plan.Unresolved)
		}

		opts := engine.Options{
			WithData:      !noData,
			SingleInserts: singleInserts,
			DropFirst:     dropFirst,
		}

		if dryRun {
			log.Println("[SIMULATION] Dry-Run Mode Active: No statement will be executed.")
			fmt.Printf("Creation order:\n")
			for i, t := range plan.Order {
				fmt.Printf("[%02d] %s\n", i+1, t)
			}
			fmt.Printf("Total statements: %d\n", engine.StatementTotal(plan, opts))
			return nil
		}

		d := dialect.GetDialect(DriverName)
		log.Printf("Using Dialect: %s\n", DriverName)

		total := engine.StatementTotal(plan, opts)
		log.Printf("Importing %d statements...", total)
		start := time.Now()

		uiprogress.Start()
		bar := uiprogress.AddBar(total).AppendCompleted().PrependElapsed()
		bar.PrependFunc(func(b *uiprogress.Bar) string {
			return "Importing: "
		})

		res := engine.Import(DB, d, plan, opts, func() {
			bar.Incr()
		})

		uiprogress.Stop()

		elapsed := time.Since(start)
		fmt.Println("\nImport Report:")
		fmt.Print(res.Summary())
		log.Printf("Import Done! Time Elapsed: %s", elapsed)

		if !res.OK() {
			return fmt.Errorf("%d statement(s) failed", len(res.Failed))
		}
		return nil
	},
}

func init() {
	RootCmd.AddCommand(importCmd)

	importCmd.Flags().BoolVar(&noData, "no-data", false, "Skip INSERT statements (schema only)")
	importCmd.Flags().BoolVar(&singleInserts, "single-inserts", false, "Expand extended INSERTs into one statement per row")
	importCmd.Flags().BoolVar(&dropFirst, "drop-first", false, "Drop the dump's tables before creating them")
	importCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Parse and order only, execute nothing")
}

// loadPlan reads, cleans, parses and dependency-orders a dump file.
func loadPlan(path string) (*schema.Plan, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read dump file: %w", err)
	}

	opts := parser.Options{User: connUser(), Host: connHost()}
	dump := parser.Parse(parser.CleanDump(string(raw)), opts)
	return schema.NewPlan(dump), nil
}
