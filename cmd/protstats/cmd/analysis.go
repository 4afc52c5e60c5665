package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ChrisMcGann/ProtStats/pkg/analysis"
	"github.com/ChrisMcGann/ProtStats/pkg/render"
)

var plotCmd = &cobra.Command{
	Use:   "plot [method]",
	Short: "Draw one plot of a data set",
	Long: `Draw one plot and write it as PNG or JSON. Settings are passed with --param.

Methods: ` + methodList(analysis.PlottingOptions) + `

Examples:
  protstats plot pca --in proteinGroups.txt --metadata metadata.xlsx --log2 --imputation knn \
    --param group=disease --out pca.png
  protstats plot volcano --in proteinGroups.txt --metadata metadata.xlsx --log2 \
    -p column=disease -p group1=healthy -p group2=sick -p method=ttest --out volcano.json`,
	Args: cobra.ExactArgs(1),
	RunE: runPlot,
}

var statsCmd = &cobra.Command{
	Use:   "stats [method]",
	Short: "Run one statistic on a data set and write the result table as CSV",
	Long: `Run one statistic and write its result table as CSV to --out, or to stdout.

Methods: ` + methodList(analysis.StatisticOptions) + `

Examples:
  protstats stats ttest --in proteinGroups.txt --metadata metadata.xlsx --log2 \
    -p column=disease -p group1=healthy -p group2=sick
  protstats stats anova --in proteinGroups.txt --metadata metadata.xlsx -p column=disease -p tukey=true`,
	Args: cobra.ExactArgs(1),
	RunE: runStats,
}

func methodList(methods []analysis.Method) string {
	names := make([]string, len(methods))
	for i, m := range methods {
		names[i] = m.Name
	}
	return strings.Join(names, ", ")
}

// lookup finds a method and checks that it is a plot or a statistic as wanted.
func lookup(name string, plot bool) (analysis.Method, error) {
	m, err := analysis.Lookup(name)
	if err != nil {
		return m, err
	}
	if m.IsPlot() != plot {
		kind := "plot"
		if plot {
			kind = "statistic"
		}
		return m, fmt.Errorf("%s is a %s", name, kind)
	}
	return m, nil
}

func runPlot(cmd *cobra.Command, args []string) error {
	m, err := lookup(args[0], true)
	if err != nil {
		return err
	}
	if format == "" {
		format = strings.TrimPrefix(strings.ToLower(filepath.Ext(outputFile)), ".")
	}
	if format != "png" && format != "json" {
		return fmt.Errorf("invalid format '%s', must be png or json", format)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	ds, err := loadDataSet()
	if err != nil {
		return err
	}

	fmt.Printf("Running %s...\n", m.Label)
	res, err := analysis.Run(ds, cfg.Plotter(ds), m.Name, params)
	if err != nil {
		return err
	}

	f, err := os.Create(outputFile)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if format == "png" {
		err = render.PNG(f, res.Figure, width, height)
	} else {
		err = render.JSON(f, res.Figure)
	}
	if err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", outputFile, err)
	}
	if err := f.Close(); err != nil {
		return err
	}

	fmt.Printf("Plotted %d points\n", res.Figure.Points())
	fmt.Printf("Output: %s\n", outputFile)
	return nil
}

func runStats(cmd *cobra.Command, args []string) error {
	m, err := lookup(args[0], false)
	if err != nil {
		return err
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	// Progress goes to stderr when the table is written to stdout
	var w io.Writer = os.Stdout
	if outputFile == "" {
		stdout := os.Stdout
		os.Stdout = os.Stderr
		defer func() { os.Stdout = stdout }()
	} else {
		f, err := os.Create(outputFile)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		w = f
	}

	ds, err := loadDataSet()
	if err != nil {
		return err
	}
	fmt.Printf("Running %s...\n", m.Label)
	res, err := analysis.Run(ds, cfg.Plotter(ds), m.Name, params)
	if err != nil {
		return err
	}

	if err := res.Table.WriteCSV(w); err != nil {
		return fmt.Errorf("failed to write result: %w", err)
	}
	rows, _ := res.Table.Shape()
	fmt.Printf("Wrote %d rows\n", rows)
	return nil
}
