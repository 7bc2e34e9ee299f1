package worker

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"sync"
	"testing"

	"github.com/ppiankov/reviewlens/internal/model"
	"github.com/ppiankov/reviewlens/internal/pipeline"
)

// fakeBuilder records rendered outputs instead of writing reports
type fakeBuilder struct {
	mu       sync.Mutex
	rendered map[string]pipeline.Outputs
	missing  map[string]bool
}

func (b *fakeBuilder) Build(ctx context.Context, company string) (*model.Report, error) {
	if b.missing[company] {
		return nil, errors.New("company not found")
	}
	return &model.Report{Summary: &model.CompanySummary{CompanyName: company}}, nil
}

func (b *fakeBuilder) RenderReport(ctx context.Context, report *model.Report, out pipeline.Outputs, verbose bool) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.rendered == nil {
		b.rendered = make(map[string]pipeline.Outputs)
	}
	b.rendered[report.Summary.CompanyName] = out
	return nil
}

func TestExporter_ExportAll(t *testing.T) {
	builder := &fakeBuilder{missing: map[string]bool{"Ghost": true}}
	dir := filepath.Join(t.TempDir(), "reports")

	results, err := NewExporter(builder, 2).ExportAll(context.Background(), []string{"Globex", "Acme Corp", "Ghost"}, dir)
	if err != nil {
		t.Fatalf("ExportAll: %v", err)
	}

	var names []string
	for _, r := range results {
		names = append(names, r.Company)
	}
	if !reflect.DeepEqual(names, []string{"Acme Corp", "Ghost", "Globex"}) {
		t.Errorf("results not sorted by company: %v", names)
	}

	if results[1].Error == nil {
		t.Error("expected an error for the missing company")
	}
	if results[0].Error != nil || results[0].Outputs.JSON != filepath.Join(dir, "acme-corp.json") {
		t.Errorf("unexpected result: %+v", results[0])
	}

	if _, err := os.Stat(dir); err != nil {
		t.Errorf("expected output directory: %v", err)
	}
	if len(builder.rendered) != 2 {
		t.Errorf("expected 2 rendered reports, got %d", len(builder.rendered))
	}
}

func TestExporter_ExportAll_Empty(t *testing.T) {
	results, err := NewExporter(&fakeBuilder{}, 2).ExportAll(context.Background(), nil, t.TempDir())
	if err != nil || len(results) != 0 {
		t.Errorf("expected no results, got %v, %v", results, err)
	}
}

func TestReadNamesFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "names.txt")
	content := "# companies\nAcme\n\n  Globex  \nAcme\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	names, err := ReadNamesFromFile(path)
	if err != nil {
		t.Fatalf("ReadNamesFromFile: %v", err)
	}
	if !reflect.DeepEqual(names, []string{"Acme", "Globex"}) {
		t.Errorf("names = %v", names)
	}

	if _, err := ReadNamesFromFile(filepath.Join(t.TempDir(), "missing.txt")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestSlug(t *testing.T) {
	tests := map[string]string{
		"Acme Corp":        "acme-corp",
		"  AT&T, Inc. ":    "at-t-inc",
		"Müller GmbH":      "müller-gmbh",
		"!!!":              "company",
		"Globex--Holdings": "globex-holdings",
	}
	for in, want := range tests {
		if got := Slug(in); got != want {
			t.Errorf("Slug(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestUniqueSlugs(t *testing.T) {
	got := UniqueSlugs([]string{"Acme", "ACME", "acme!", "Globex"})
	want := []string{"acme", "acme-2", "acme-3", "globex"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("UniqueSlugs = %v, want %v", got, want)
	}
}
