// Package pipeline ties the dataset, aggregator, word cloud and renderers
// together into per-company reports.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/ppiankov/reviewlens/internal/cache"
	"github.com/ppiankov/reviewlens/internal/dataset"
	"github.com/ppiankov/reviewlens/internal/insight"
	"github.com/ppiankov/reviewlens/internal/model"
	"github.com/ppiankov/reviewlens/internal/render"
	"github.com/ppiankov/reviewlens/internal/wordcloud"
)

// Pipeline builds company reports from a loaded dataset
type Pipeline struct {
	data       *dataset.Dataset
	aggregator *insight.Aggregator
	cloud      *wordcloud.Builder
	renderer   *render.Renderer
	cache      cache.Cache
	config     *model.Config
}

// NewPipeline creates a pipeline over an already loaded dataset
func NewPipeline(cfg *model.Config, data *dataset.Dataset) *Pipeline {
	return &Pipeline{
		data:       data,
		aggregator: insight.NewAggregator(data, cfg.Data.TermsColumn),
		cloud:      wordcloud.NewBuilder(wordcloud.OptionsFromConfig(cfg.WordCloud)),
		renderer:   render.NewRenderer(cfg.Output.IncludeFooter),
		cache:      cache.New(cfg.Cache),
		config:     cfg,
	}
}

// Names returns the selectable company names
func (p *Pipeline) Names() []string {
	return p.aggregator.Names()
}

// Dataset returns the dataset the pipeline reads
func (p *Pipeline) Dataset() *dataset.Dataset {
	return p.data
}

// Renderer returns the pipeline's renderer
func (p *Pipeline) Renderer() *render.Renderer {
	return p.renderer
}

// Build summarizes one company and weighs its word-cloud terms
func (p *Pipeline) Build(ctx context.Context, company string) (*model.Report, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// 1. Select and aggregate
	summary, err := p.aggregator.Summarize(company)
	if err != nil {
		return nil, fmt.Errorf("summarize: %w", err)
	}

	report := &model.Report{
		Summary:     summary,
		GeneratedAt: time.Now().UTC(),
		Fingerprint: p.data.Fingerprint,
	}

	// 2. Weigh word-cloud terms, skipped entirely without text
	if summary.HasWordCloud() {
		report.Words = p.cloud.Words(summary.WordCloudText)
	}

	return report, nil
}

// WordCloudSVG renders the report's word cloud, reusing a cached rendering
// of the same dataset, company and canvas when one exists. Reports without
// words yield nil.
func (p *Pipeline) WordCloudSVG(ctx context.Context, report *model.Report) ([]byte, error) {
	if len(report.Words) == 0 {
		return nil, nil
	}

	key := cache.Key("wordcloud", report.Fingerprint, report.Summary.CompanyName, p.cloud.Options().Key())
	if svg, ok := p.cache.Get(key); ok {
		return svg, nil
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	svg := p.cloud.RenderSVG(report.Words)
	if err := p.cache.Set(key, svg, 0); err != nil {
		// A cold cache only costs a re-render
		fmt.Fprintf(os.Stderr, "Warning: failed to cache word cloud for %s: %v\n", report.Summary.CompanyName, err)
	}

	return svg, nil
}

// Outputs names the files RenderReport writes; empty paths are skipped
type Outputs struct {
	JSON      string
	Markdown  string
	WordCloud string
}

// RenderReport renders the report to the requested outputs
func (p *Pipeline) RenderReport(ctx context.Context, report *model.Report, out Outputs, verbose bool) error {
	if out.JSON != "" {
		if err := p.renderer.RenderJSON(report, out.JSON); err != nil {
			return fmt.Errorf("render JSON: %w", err)
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "✓ Wrote JSON: %s\n", out.JSON)
		}
	}

	if out.Markdown != "" {
		if err := p.renderer.RenderMarkdown(report, out.Markdown); err != nil {
			return fmt.Errorf("render markdown: %w", err)
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "✓ Wrote Markdown: %s\n", out.Markdown)
		}
	}

	if out.WordCloud != "" && len(report.Words) > 0 {
		svg, err := p.WordCloudSVG(ctx, report)
		if err != nil {
			return fmt.Errorf("render word cloud: %w", err)
		}
		if err := os.WriteFile(out.WordCloud, svg, 0644); err != nil {
			return fmt.Errorf("write word cloud: %w", err)
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "✓ Wrote word cloud: %s\n", out.WordCloud)
		}
	}

	return nil
}
