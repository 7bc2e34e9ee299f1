package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/ppiankov/reviewlens/internal/pipeline"
	"github.com/spf13/cobra"
)

var (
	showJSON     string
	showMD       string
	showSVG      string
	showTimeout  time.Duration
	showNoFooter bool
)

// showCmd represents the show command
var showCmd = &cobra.Command{
	Use:   "show <company>",
	Short: "Show one company's insights in the terminal",
	Long: `Show prints a company's ID, cluster assignments, sentiment distribution,
most frequent word-cloud terms and cluster terms, and optionally writes the
report to files.

The company name must match exactly. When several companies share a name
the first one in the company table is shown.

Example:
  reviewlens show Acme
  reviewlens show "Acme Corp" --json acme.json --md acme.md --svg acme.svg`,
	Args: cobra.ExactArgs(1),
	RunE: runShow,
}

func init() {
	rootCmd.AddCommand(showCmd)

	showCmd.Flags().StringVar(&showJSON, "json", "", "also write the report as JSON")
	showCmd.Flags().StringVar(&showMD, "md", "", "also write the report as Markdown")
	showCmd.Flags().StringVar(&showSVG, "svg", "", "also write the word cloud as SVG")
	showCmd.Flags().DurationVar(&showTimeout, "timeout", time.Minute, "overall timeout")
	showCmd.Flags().BoolVar(&showNoFooter, "no-footer", false, "disable footer in Markdown reports")
}

func runShow(cmd *cobra.Command, args []string) error {
	company := args[0]

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if showNoFooter {
		cfg.Output.IncludeFooter = false
	}

	ctx, cancel := context.WithTimeout(context.Background(), showTimeout)
	defer cancel()

	data, err := loadDataset(ctx, cfg)
	if err != nil {
		return err
	}

	p := pipeline.NewPipeline(cfg, data)

	report, err := p.Build(ctx, company)
	if err != nil {
		return fmt.Errorf("show %q: %w", company, err)
	}

	p.Renderer().RenderSummary(os.Stdout, report)

	out := pipeline.Outputs{JSON: showJSON, Markdown: showMD, WordCloud: showSVG}
	if showSVG != "" && len(report.Words) == 0 {
		fmt.Fprintf(os.Stderr, "Warning: %s has no text for a word cloud, skipping %s\n", company, showSVG)
	}
	if err := p.RenderReport(ctx, report, out, true); err != nil {
		return fmt.Errorf("render failed: %w", err)
	}

	return nil
}
