// Package render turns company reports into JSON, Markdown and terminal
// output.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/ppiankov/reviewlens/internal/model"
)

// Section titles shared by every view
const (
	TitleClusters  = "Cluster assignments"
	TitleSentiment = "Sentiment distribution"
	TitleWordCloud = "Word cloud"
	TitleTerms     = "Top TF-IDF terms per cluster"
)

// markdownTopWords caps the word list printed in place of the cloud image
const markdownTopWords = 25

// Renderer writes reports to files and terminals
type Renderer struct {
	includeFooter bool
}

// NewRenderer creates a renderer
func NewRenderer(includeFooter bool) *Renderer {
	return &Renderer{includeFooter: includeFooter}
}

// WriteJSON encodes the report as indented JSON
func (r *Renderer) WriteJSON(w io.Writer, report *model.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

// RenderJSON writes the report as JSON to path
func (r *Renderer) RenderJSON(report *model.Report, path string) error {
	return writeFile(path, func(w io.Writer) error {
		return r.WriteJSON(w, report)
	})
}

// RenderMarkdown writes the report as Markdown to path
func (r *Renderer) RenderMarkdown(report *model.Report, path string) error {
	return writeFile(path, func(w io.Writer) error {
		_, err := io.WriteString(w, r.Markdown(report))
		return err
	})
}

// Markdown renders the report as a Markdown document. Sections without
// data are omitted the same way the dashboard omits them.
func (r *Renderer) Markdown(report *model.Report) string {
	s := report.Summary
	var sb strings.Builder

	fmt.Fprintf(&sb, "# %s\n\n", s.CompanyName)
	fmt.Fprintf(&sb, "Company ID: %d\n\n", s.CompanyID)

	if len(s.Clusters) > 0 {
		fmt.Fprintf(&sb, "## %s\n\n", TitleClusters)
		for _, c := range s.Clusters {
			fmt.Fprintf(&sb, "- %s: %d\n", c.Column, c.Value)
		}
		sb.WriteString("\n")
	}

	if len(s.Sentiment) > 0 {
		fmt.Fprintf(&sb, "## %s\n\n", TitleSentiment)
		sb.WriteString("| Sentiment | Reviews | Share | |\n")
		sb.WriteString("|---|---:|---:|---|\n")
		for _, b := range Bars(s) {
			fmt.Fprintf(&sb, "| %s | %s | %.1f%% | %s |\n",
				b.Label, humanize.Comma(int64(b.Count)), b.Percent, strings.Repeat("█", b.Blocks(20)))
		}
		sb.WriteString("\n")
	}

	if s.HasWordCloud() && len(report.Words) > 0 {
		fmt.Fprintf(&sb, "## %s\n\n", TitleWordCloud)
		words := report.Words
		if len(words) > markdownTopWords {
			words = words[:markdownTopWords]
		}
		parts := make([]string, len(words))
		for i, w := range words {
			parts[i] = fmt.Sprintf("%s (%d)", w.Text, w.Count)
		}
		fmt.Fprintf(&sb, "Most frequent words from %s: %s\n\n", textSourceLabel(s.TextSource), strings.Join(parts, ", "))
	}

	if s.TermsStatus != model.TermsUnavailable {
		fmt.Fprintf(&sb, "## %s\n\n", TitleTerms)
		fmt.Fprintf(&sb, "Cluster %d (%s): %s\n\n", s.ClusterID, s.ClusterColumn, TermsLine(s))
	}

	if r.includeFooter {
		sb.WriteString("---\n\n")
		fmt.Fprintf(&sb, "_Generated by reviewlens %s from dataset %s._\n",
			report.GeneratedAt.Format("2006-01-02 15:04 UTC"), report.Fingerprint)
	}

	return sb.String()
}

// RenderSummary prints a compact terminal view of the report
func (r *Renderer) RenderSummary(w io.Writer, report *model.Report) {
	s := report.Summary
	sep := strings.Repeat("═", 59)
	thin := strings.Repeat("─", 59)

	fmt.Fprintf(w, "\n%s\n", sep)
	fmt.Fprintf(w, "  %s (id %d)\n", s.CompanyName, s.CompanyID)
	fmt.Fprintf(w, "%s\n\n", sep)

	if len(s.Clusters) > 0 {
		fmt.Fprintf(w, "  %s\n  %s\n", TitleClusters, thin)
		for _, c := range s.Clusters {
			fmt.Fprintf(w, "  %-28s %d\n", c.Column, c.Value)
		}
		fmt.Fprintln(w)
	}

	if len(s.Sentiment) > 0 {
		fmt.Fprintf(w, "  %s (%s reviews)\n  %s\n", TitleSentiment, humanize.Comma(int64(s.ReviewCount)), thin)
		for _, b := range Bars(s) {
			fmt.Fprintf(w, "  %-12s %-30s %s (%.1f%%)\n",
				b.Label, strings.Repeat("█", b.Blocks(30)), humanize.Comma(int64(b.Count)), b.Percent)
		}
		fmt.Fprintln(w)
	}

	if s.HasWordCloud() && len(report.Words) > 0 {
		fmt.Fprintf(w, "  %s (from %s)\n  %s\n", TitleWordCloud, textSourceLabel(s.TextSource), thin)
		words := report.Words
		if len(words) > 10 {
			words = words[:10]
		}
		for _, word := range words {
			fmt.Fprintf(w, "  %-28s %s\n", word.Text, humanize.Comma(int64(word.Count)))
		}
		fmt.Fprintln(w)
	}

	if s.TermsStatus != model.TermsUnavailable {
		fmt.Fprintf(w, "  %s\n  %s\n", TitleTerms, thin)
		fmt.Fprintf(w, "  Cluster %d: %s\n\n", s.ClusterID, TermsLine(s))
	}

	fmt.Fprintf(w, "%s\n\n", sep)
}

// TermsLine is the text of the terms panel
func TermsLine(s *model.CompanySummary) string {
	if s.TermsStatus == model.TermsFound {
		return strings.Join(s.Terms, ", ")
	}
	return model.NoTermsMessage
}

func textSourceLabel(src model.TextSource) string {
	switch src {
	case model.TextSourceDoc:
		return "the aggregated company document"
	case model.TextSourceReviews:
		return "review text"
	default:
		return "no text"
	}
}

// writeFile creates path (and its directory) and streams into it
func writeFile(path string, write func(io.Writer) error) (err error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create directory: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", path, closeErr)
		}
	}()

	if err := write(f); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
