package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/ppiankov/reviewlens/internal/pipeline"
	"github.com/ppiankov/reviewlens/internal/worker"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	exportDir      string
	exportNames    string
	exportTimeout  time.Duration
	exportNoFooter bool
)

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write reports for many companies in parallel",
	Long: `Export renders a JSON report, a Markdown report and a word cloud SVG for
every company, or for the companies listed in a file (one name per line,
# starts a comment). Files are named after a slug of the company name.

Example:
  reviewlens export
  reviewlens export --names companies.txt --output-dir ./reports --workers 8`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVar(&exportDir, "output-dir", "./reviewlens-reports", "output directory for reports")
	exportCmd.Flags().StringVar(&exportNames, "names", "", "file listing the companies to export (default: all)")
	exportCmd.Flags().DurationVar(&exportTimeout, "timeout", 10*time.Minute, "total timeout for the export")
	exportCmd.Flags().BoolVar(&exportNoFooter, "no-footer", false, "disable footer in Markdown reports")
	exportCmd.Flags().Int("workers", 0, "number of concurrent workers (default from config)")

	_ = viper.BindPFlag("concurrency.workers", exportCmd.Flags().Lookup("workers"))
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if exportNoFooter {
		cfg.Output.IncludeFooter = false
	}

	ctx, cancel := context.WithTimeout(context.Background(), exportTimeout)
	defer cancel()

	data, err := loadDataset(ctx, cfg)
	if err != nil {
		return err
	}

	names := data.Names()
	source := "dataset"
	if exportNames != "" {
		if names, err = worker.ReadNamesFromFile(exportNames); err != nil {
			return fmt.Errorf("read names: %w", err)
		}
		source = exportNames
	}

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  reviewlens Export\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Companies:    %d (from %s)\n", len(names), source)
	fmt.Fprintf(os.Stderr, "  Workers:      %d\n", cfg.Concurrency.Workers)
	fmt.Fprintf(os.Stderr, "  Output dir:   %s\n", exportDir)
	fmt.Fprintf(os.Stderr, "  Timeout:      %v\n", exportTimeout)
	fmt.Fprintf(os.Stderr, "\n")

	p := pipeline.NewPipeline(cfg, data)
	exporter := worker.NewExporter(p, cfg.Concurrency.Workers)

	start := time.Now()
	results, err := exporter.ExportAll(ctx, names, exportDir)
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}

	successCount := 0
	failureCount := 0
	for _, result := range results {
		if result.Error != nil {
			failureCount++
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", result.Company, result.Error)
			continue
		}
		successCount++
		fmt.Fprintf(os.Stderr, "✓ %s (%d reviews)\n", result.Company, result.Report.Summary.ReviewCount)
	}

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Export Complete\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Total:     %d companies\n", len(results))
	fmt.Fprintf(os.Stderr, "  Success:   %d\n", successCount)
	fmt.Fprintf(os.Stderr, "  Failures:  %d\n", failureCount)
	fmt.Fprintf(os.Stderr, "  Elapsed:   %s\n", time.Since(start).Round(time.Millisecond))
	fmt.Fprintf(os.Stderr, "  Output:    %s\n", exportDir)
	fmt.Fprintf(os.Stderr, "\n")

	if failureCount > 0 {
		return fmt.Errorf("%d of %d exports failed", failureCount, len(results))
	}
	return nil
}
