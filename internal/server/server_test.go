package server

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/ppiankov/reviewlens/internal/dataset"
	"github.com/ppiankov/reviewlens/internal/model"
	"github.com/ppiankov/reviewlens/internal/pipeline"
)

func newTestServer(t *testing.T, rps float64, burst int) *Server {
	t.Helper()
	dir := t.TempDir()

	files := map[string]string{
		"clean_reviews.csv":  "id,sentiment,clean_review\n7,positive,great\n7,negative,slow\n9,neutral,\n",
		"company_df.csv":     "id,CompanyName,cluster_kmeans,doc\n7,Acme,2,great place to work\n9,Globex,1,\n",
		"cluster_terms.json": `{"2": ["growth", "culture"]}`,
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}

	cfg := model.DefaultConfig()
	cfg.Data.Reviews = filepath.Join(dir, "clean_reviews.csv")
	cfg.Data.Companies = filepath.Join(dir, "company_df.csv")
	cfg.Data.Terms = filepath.Join(dir, "cluster_terms.json")
	cfg.Cache.Enabled = false

	d, err := dataset.Load(context.Background(), dataset.SourceFromConfig(cfg.Data), dataset.Options{})
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	return NewServer(Config{
		Pipeline:          pipeline.NewPipeline(cfg, d),
		Logger:            slog.New(slog.NewTextHandler(io.Discard, nil)),
		Addr:              "127.0.0.1:0",
		RequestsPerSecond: rps,
		Burst:             burst,
	})
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestCompanies(t *testing.T) {
	rec := get(t, newTestServer(t, 0, 1).Handler(), "/api/companies")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var body struct {
		Companies []string `json:"companies"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !reflect.DeepEqual(body.Companies, []string{"Acme", "Globex"}) {
		t.Errorf("companies = %v", body.Companies)
	}
}

func TestSummary(t *testing.T) {
	s := newTestServer(t, 0, 1)
	rec := get(t, s.Handler(), "/api/summary?company=Acme")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body)
	}

	var report model.Report
	if err := json.Unmarshal(rec.Body.Bytes(), &report); err != nil {
		t.Fatalf("decode: %v", err)
	}

	want, err := s.pipeline.Build(context.Background(), "Acme")
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(report.Summary, want.Summary) {
		t.Errorf("summary = %+v, want %+v", report.Summary, want.Summary)
	}
}

func TestSummary_Errors(t *testing.T) {
	h := newTestServer(t, 0, 1).Handler()

	if rec := get(t, h, "/api/summary?company=Initech"); rec.Code != http.StatusNotFound {
		t.Errorf("unknown company: status = %d", rec.Code)
	}
	if rec := get(t, h, "/api/summary"); rec.Code != http.StatusBadRequest {
		t.Errorf("missing company: status = %d", rec.Code)
	}
}

func TestDashboard(t *testing.T) {
	h := newTestServer(t, 0, 1).Handler()

	rec := get(t, h, "/")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	page := rec.Body.String()
	for _, want := range []string{
		`<option value="Acme" selected>`,
		"Company ID: 7",
		"cluster_kmeans",
		"Sentiment distribution",
		"/wordcloud.svg?company=Acme",
		"Cluster 2: growth, culture",
	} {
		if !strings.Contains(page, want) {
			t.Errorf("dashboard missing %q", want)
		}
	}
}

func TestDashboard_NoTextNoCloud(t *testing.T) {
	page := get(t, newTestServer(t, 0, 1).Handler(), "/?company=Globex").Body.String()

	if strings.Contains(page, "/wordcloud.svg") {
		t.Error("expected no word cloud without text")
	}
	if !strings.Contains(page, model.NoTermsMessage) {
		t.Error("expected the no-terms message for a cluster without terms")
	}
}

func TestDashboard_UnknownCompany(t *testing.T) {
	rec := get(t, newTestServer(t, 0, 1).Handler(), "/?company=Initech")
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "No company named") {
		t.Error("expected not-found message")
	}
}

func TestWordCloud(t *testing.T) {
	h := newTestServer(t, 0, 1).Handler()

	rec := get(t, h, "/wordcloud.svg?company=Acme")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/svg+xml" {
		t.Errorf("content type = %q", ct)
	}
	if !strings.Contains(rec.Body.String(), "<svg") {
		t.Error("expected SVG body")
	}

	if rec := get(t, h, "/wordcloud.svg?company=Globex"); rec.Code != http.StatusNotFound {
		t.Errorf("no-text company: status = %d", rec.Code)
	}
}

func TestHealth(t *testing.T) {
	rec := get(t, newTestServer(t, 0, 1).Handler(), "/healthz")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"status": "ok"`) {
		t.Errorf("healthz = %d %s", rec.Code, rec.Body)
	}
}

func TestRateLimit(t *testing.T) {
	h := newTestServer(t, 0.001, 2).Handler()

	for i := 0; i < 2; i++ {
		if rec := get(t, h, "/healthz"); rec.Code != http.StatusOK {
			t.Fatalf("request %d: status = %d", i, rec.Code)
		}
	}
	rec := get(t, h, "/healthz")
	if rec.Code != http.StatusTooManyRequests {
		t.Errorf("expected 429, got %d", rec.Code)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Error("expected Retry-After header")
	}
}

func TestServe_GracefulShutdown(t *testing.T) {
	s := newTestServer(t, 0, 1)
	s.maxConnections = 4

	ln, err := s.listen()
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.serve(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/healthz")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d", resp.StatusCode)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("serve returned %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
