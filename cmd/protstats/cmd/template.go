package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ChrisMcGann/ProtStats/pkg/writer/xlsx"
)

var templateCmd = &cobra.Command{
	Use:   "template [file]",
	Short: "Write a metadata template listing the samples of a file",
	Long: `Write metadata.xlsx with a sample column listing every sample of the input file.
Add one column per sample annotation and use it with --metadata.

Examples:
  protstats template proteinGroups.txt
  protstats template combined_protein.tsv --software FragPipe --out fragpipe_metadata.xlsx`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		src, err := loadSource(args[0])
		if err != nil {
			return err
		}

		f, err := os.Create(templateOutput)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		if err := xlsx.WriteMetadataTemplate(f, src.Samples); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
		fmt.Printf("Wrote %d samples to %s\n", len(src.Samples), templateOutput)
		return nil
	},
}
