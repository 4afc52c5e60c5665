// Package cmd provides CLI command implementations
package cmd

import (
	"github.com/spf13/cobra"
)

var (
	// Flags shared by every command
	configFile string

	// Flags for commands that load a data set
	inputFile        string
	software         string
	intensityColumns []string
	indexColumn      string
	metadataFile     string
	sampleColumn     string

	// Preprocessing flags
	removeContaminations bool
	subsetToMetadata     bool
	removeSamples        []string
	minValidFraction     float64
	log2Transform        bool
	normalization        string
	imputation           string

	// Output flags
	outputFile string
	params     map[string]string
	format     string
	width      int
	height     int

	// Flags for serve
	address string

	// Flags for template
	templateOutput string
)

var rootCmd = &cobra.Command{
	Use:   "protstats",
	Short: "ProtStats - Proteomics data analysis",
	Long: `ProtStats loads protein group tables exported by MaxQuant, AlphaPept, DIA-NN,
Spectronaut, FragPipe or any other software, aligns them with sample metadata and
runs statistics and plots on the intensity matrix.

Use it from the browser with 'protstats serve' or script it with:
- validate, summarize and template to check an export
- plot and stats to run a single analysis
- export to write the processed data set to SQLite`,
	Version:       "1.0.0",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Path to a YAML configuration file")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(summarizeCmd)
	rootCmd.AddCommand(templateCmd)
	rootCmd.AddCommand(plotCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(exportCmd)

	serveCmd.Flags().StringVar(&address, "addr", "", "Listen address (default from config, localhost:8501)")

	for _, c := range []*cobra.Command{validateCmd, summarizeCmd, templateCmd, plotCmd, statsCmd, exportCmd} {
		c.Flags().StringVarP(&software, "software", "s", "MaxQuant", "Software that exported the file: MaxQuant, AlphaPept, DIANN, Spectronaut, FragPipe or Other")
	}
	for _, c := range []*cobra.Command{summarizeCmd, templateCmd, plotCmd, statsCmd, exportCmd} {
		c.Flags().StringSliceVar(&intensityColumns, "intensity", nil, "Intensity column pattern, or the intensity columns for Other (comma-separated)")
		c.Flags().StringVar(&indexColumn, "index", "", "Protein group column (default depends on the software)")
	}
	for _, c := range []*cobra.Command{plotCmd, statsCmd, exportCmd} {
		c.Flags().StringVarP(&inputFile, "in", "i", "", "Input file path (required)")
		c.Flags().StringVarP(&metadataFile, "metadata", "m", "", "Sample metadata file")
		c.Flags().StringVar(&sampleColumn, "sample-column", "sample", "Metadata column holding the sample names")
		c.Flags().StringVarP(&outputFile, "out", "o", "", "Output file (required for plot and export, stdout for stats)")

		c.Flags().BoolVar(&removeContaminations, "remove-contaminations", false, "Remove protein groups flagged as contaminants")
		c.Flags().BoolVar(&subsetToMetadata, "subset", false, "Keep only samples described in the metadata")
		c.Flags().StringSliceVar(&removeSamples, "remove-samples", nil, "Samples to remove (comma-separated)")
		c.Flags().Float64Var(&minValidFraction, "min-valid", 0, "Keep protein groups observed in at least this share of samples (0 = keep all)")
		c.Flags().BoolVar(&log2Transform, "log2", false, "Log2 transform the intensities")
		c.Flags().StringVar(&normalization, "normalization", "", "Normalization: zscore, quantile or linear")
		c.Flags().StringVar(&imputation, "imputation", "", "Imputation: mean, median or knn")

		c.MarkFlagRequired("in")
	}
	for _, c := range []*cobra.Command{plotCmd, statsCmd} {
		c.Flags().StringToStringVarP(&params, "param", "p", nil, "Method setting as name=value, repeatable")
	}
	plotCmd.Flags().StringVar(&format, "format", "", "Output format: png or json (default from the output extension)")
	plotCmd.Flags().IntVar(&width, "width", 900, "PNG width in pixels")
	plotCmd.Flags().IntVar(&height, "height", 600, "PNG height in pixels")
	plotCmd.MarkFlagRequired("out")
	exportCmd.MarkFlagRequired("out")
	templateCmd.Flags().StringVarP(&templateOutput, "out", "o", "metadata.xlsx", "Output template file")
}
