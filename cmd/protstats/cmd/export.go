package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ChrisMcGann/ProtStats/pkg/writer/sqlite"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write a preprocessed data set to a SQLite database",
	Long: `Write the raw and preprocessed intensity matrices, the metadata and the applied
preprocessing steps to a SQLite database.

Examples:
  protstats export --in proteinGroups.txt --metadata metadata.xlsx --log2 --out session.db`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ds, err := loadDataSet()
		if err != nil {
			return err
		}

		writer, err := sqlite.NewWriter(outputFile)
		if err != nil {
			return fmt.Errorf("failed to create output database: %w", err)
		}
		defer writer.Close()

		if err := writer.WriteDataSet(ds); err != nil {
			return err
		}
		writer.SetDescription(inputFile)

		if err := writer.Finalize(); err != nil {
			return fmt.Errorf("failed to finalize database: %w", err)
		}
		fmt.Printf("Output: %s\n", outputFile)
		return nil
	},
}
