package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ChrisMcGann/ProtStats/pkg/loader"
)

var validateCmd = &cobra.Command{
	Use:   "validate [file]",
	Short: "Validate that a file is a protein group export of the selected software",
	Long: `Validate that an input file can be parsed and contains the columns the selected
software writes.

Examples:
  protstats validate proteinGroups.txt
  protstats validate report_final.pg_matrix.tsv --software DIANN`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := readTable(args[0])
		if err != nil {
			return err
		}
		if err := loader.Check(t, software); err != nil {
			return err
		}
		rows, cols := t.Shape()
		fmt.Printf("Valid %s file: %d rows, %d columns\n", software, rows, cols)
		return nil
	},
}
