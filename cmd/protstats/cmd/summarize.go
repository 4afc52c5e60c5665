package cmd

import (
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/aybabtme/uniplot/histogram"
	"github.com/spf13/cobra"

	"github.com/ChrisMcGann/ProtStats/pkg/core"
	"github.com/ChrisMcGann/ProtStats/pkg/stats"
)

const (
	histogramBins  = 20
	histogramWidth = 50
)

var summarizeCmd = &cobra.Command{
	Use:   "summarize [file]",
	Short: "Summarize the intensity matrix of a protein group export",
	Long:  `Print the matrix shape, the samples, the share of missing values, a per sample summary and a histogram of the log2 intensities.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		src, err := loadSource(args[0])
		if err != nil {
			return err
		}
		m, err := src.Matrix()
		if err != nil {
			return err
		}
		return summarize(m)
	},
}

func summarize(m *core.Matrix) error {
	samples, proteins := m.Dims()
	fmt.Printf("Software: %s\n", software)
	fmt.Printf("Samples: %d\n", samples)
	fmt.Printf("Protein groups: %d\n", proteins)
	fmt.Printf("Missing values: %.1f%%\n", 100*m.MissingFraction())
	fmt.Printf("Sample names: %s\n\n", strings.Join(m.Samples, ", "))

	summary, err := stats.ToTable(stats.Describe(m))
	if err != nil {
		return err
	}
	fmt.Println(summary.String())

	var values []float64
	for i := 0; i < samples; i++ {
		for _, v := range m.Row(i) {
			if !math.IsNaN(v) && v > 0 {
				values = append(values, math.Log2(v))
			}
		}
	}
	if len(values) == 0 {
		fmt.Fprintf(os.Stderr, "Warning: no positive intensities to plot\n")
		return nil
	}

	fmt.Println("log2 intensity histogram:")
	hist := histogram.Hist(histogramBins, values)
	return histogram.Fprint(os.Stdout, hist, histogram.Linear(histogramWidth))
}
