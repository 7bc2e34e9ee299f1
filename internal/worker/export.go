package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"github.com/ppiankov/reviewlens/internal/model"
	"github.com/ppiankov/reviewlens/internal/pipeline"
)

// ReportBuilder builds and renders company reports
type ReportBuilder interface {
	Build(ctx context.Context, company string) (*model.Report, error)
	RenderReport(ctx context.Context, report *model.Report, out pipeline.Outputs, verbose bool) error
}

// ExportJob exports one company's report
type ExportJob struct {
	Company string
	Outputs pipeline.Outputs
	Builder ReportBuilder
}

// Execute builds the report and writes its outputs
func (j *ExportJob) Execute(ctx context.Context) Result {
	report, err := j.Builder.Build(ctx, j.Company)
	if err != nil {
		return &ExportResult{Company: j.Company, Error: err}
	}

	if err := j.Builder.RenderReport(ctx, report, j.Outputs, false); err != nil {
		return &ExportResult{Company: j.Company, Report: report, Error: err}
	}

	return &ExportResult{Company: j.Company, Report: report, Outputs: j.Outputs}
}

// ExportResult is the outcome of an ExportJob
type ExportResult struct {
	Company string
	Report  *model.Report
	Outputs pipeline.Outputs
	Error   error
}

// GetError returns the export error, if any
func (r *ExportResult) GetError() error {
	return r.Error
}

// Exporter writes reports for many companies concurrently
type Exporter struct {
	builder     ReportBuilder
	concurrency int
}

// NewExporter creates an exporter
func NewExporter(builder ReportBuilder, concurrency int) *Exporter {
	return &Exporter{
		builder:     builder,
		concurrency: concurrency,
	}
}

// ExportAll writes one JSON, Markdown and SVG file per company into dir.
// Results are sorted by company name. A failed company does not stop the
// others.
func (e *Exporter) ExportAll(ctx context.Context, companies []string, dir string) ([]*ExportResult, error) {
	if len(companies) == 0 {
		return []*ExportResult{}, nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}

	pool := NewPool(ctx, e.concurrency)
	pool.Start()

	slugs := UniqueSlugs(companies)
	go func() {
		defer pool.Close()
		for i, company := range companies {
			base := filepath.Join(dir, slugs[i])
			job := &ExportJob{
				Company: company,
				Builder: e.builder,
				Outputs: pipeline.Outputs{
					JSON:      base + ".json",
					Markdown:  base + ".md",
					WordCloud: base + ".svg",
				},
			}
			if err := pool.Submit(job); err != nil {
				return
			}
		}
	}()

	results := pool.Wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	exported := make([]*ExportResult, len(results))
	for i, result := range results {
		exported[i] = result.(*ExportResult)
	}
	sort.Slice(exported, func(i, j int) bool {
		return exported[i].Company < exported[j].Company
	})

	return exported, nil
}

// ReadNamesFromFile reads company names, one per line. Blank lines and
// lines starting with # are skipped and duplicates are dropped.
func ReadNamesFromFile(filePath string) ([]string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var names []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if !seen[line] {
			seen[line] = true
			names = append(names, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return names, nil
}

// Slug turns a company name into a file name stem
func Slug(name string) string {
	var sb strings.Builder
	dash := false

	for _, r := range strings.ToLower(name) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			sb.WriteRune(r)
			dash = false
			continue
		}
		if !dash && sb.Len() > 0 {
			sb.WriteByte('-')
			dash = true
		}
	}

	slug := strings.TrimSuffix(sb.String(), "-")
	if slug == "" {
		return "company"
	}
	return slug
}

// UniqueSlugs slugs every name, suffixing repeats with -2, -3, ...
func UniqueSlugs(names []string) []string {
	slugs := make([]string, len(names))
	used := make(map[string]bool, len(names))

	for i, name := range names {
		base := Slug(name)
		slug := base
		for n := 2; used[slug]; n++ {
			slug = base + "-" + strconv.Itoa(n)
		}
		used[slug] = true
		slugs[i] = slug
	}

	return slugs
}
