package render

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ppiankov/reviewlens/internal/model"
)

func acmeReport() *model.Report {
	return &model.Report{
		Summary: &model.CompanySummary{
			CompanyID:   7,
			CompanyName: "Acme",
			Clusters:    []model.ClusterAssignment{{Column: "cluster_kmeans", Value: 2}},
			Sentiment: []model.SentimentCount{
				{Sentiment: "positive", Count: 3},
				{Sentiment: "negative", Count: 1},
			},
			ReviewCount:   4,
			WordCloudText: "great place to work",
			TextSource:    model.TextSourceDoc,
			ClusterColumn: "cluster_kmeans",
			ClusterID:     2,
			Terms:         []string{"growth", "culture"},
			TermsStatus:   model.TermsFound,
		},
		Words: []model.WeightedWord{
			{Text: "great", Count: 1, Weight: 1},
			{Text: "place", Count: 1, Weight: 1},
		},
		GeneratedAt: time.Date(2026, 1, 2, 3, 4, 0, 0, time.UTC),
		Fingerprint: "abc123",
	}
}

func TestBars(t *testing.T) {
	bars := Bars(acmeReport().Summary)
	if len(bars) != 2 {
		t.Fatalf("expected 2 bars, got %d", len(bars))
	}
	if bars[0].Label != "positive" || bars[0].Percent != 75 || bars[0].Scale != 1 {
		t.Errorf("unexpected first bar: %+v", bars[0])
	}
	if bars[1].Percent != 25 || bars[1].Blocks(30) != 10 {
		t.Errorf("unexpected second bar: %+v (blocks %d)", bars[1], bars[1].Blocks(30))
	}

	if Bars(&model.CompanySummary{}) != nil {
		t.Error("expected no bars for an empty distribution")
	}
}

func TestBar_BlocksNeverHidesNonZero(t *testing.T) {
	b := Bar{Count: 1, Scale: 0.001}
	if b.Blocks(20) != 1 {
		t.Errorf("expected a visible bar, got %d blocks", b.Blocks(20))
	}
}

func TestMarkdown(t *testing.T) {
	md := NewRenderer(true).Markdown(acmeReport())

	for _, want := range []string{
		"# Acme",
		"Company ID: 7",
		"## Cluster assignments",
		"- cluster_kmeans: 2",
		"## Sentiment distribution",
		"| positive | 3 | 75.0% |",
		"## Word cloud",
		"great (1)",
		"## Top TF-IDF terms per cluster",
		"Cluster 2 (cluster_kmeans): growth, culture",
		"dataset abc123",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown missing %q:\n%s", want, md)
		}
	}
}

func TestMarkdown_OmitsEmptySections(t *testing.T) {
	report := &model.Report{
		Summary: &model.CompanySummary{
			CompanyID:   1,
			CompanyName: "Quiet",
			TextSource:  model.TextSourceNone,
			TermsStatus: model.TermsUnavailable,
		},
	}

	md := NewRenderer(false).Markdown(report)
	for _, absent := range []string{TitleClusters, TitleSentiment, TitleWordCloud, TitleTerms, "Generated by"} {
		if strings.Contains(md, absent) {
			t.Errorf("expected %q to be omitted:\n%s", absent, md)
		}
	}
}

func TestMarkdown_NoTermsMessage(t *testing.T) {
	report := acmeReport()
	report.Summary.Terms = nil
	report.Summary.TermsStatus = model.TermsMissing

	md := NewRenderer(false).Markdown(report)
	if !strings.Contains(md, model.NoTermsMessage) {
		t.Errorf("expected no-terms message:\n%s", md)
	}
}

func TestRenderJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "acme.json")

	if err := NewRenderer(true).RenderJSON(acmeReport(), path); err != nil {
		t.Fatalf("RenderJSON: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var decoded model.Report
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if decoded.Summary.CompanyName != "Acme" || decoded.Summary.TermsStatus != model.TermsFound {
		t.Errorf("unexpected decoded summary: %+v", decoded.Summary)
	}
}

func TestRenderSummary(t *testing.T) {
	var buf bytes.Buffer
	NewRenderer(true).RenderSummary(&buf, acmeReport())

	out := buf.String()
	for _, want := range []string{"Acme (id 7)", "cluster_kmeans", "positive", "4 reviews", "growth, culture"} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}
}
