package server

import (
	"embed"
	"fmt"
	"html/template"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/ppiankov/reviewlens/internal/model"
	"github.com/ppiankov/reviewlens/internal/render"
)

//go:embed templates/*.html
var templateFS embed.FS

// Bar chart geometry in SVG user units
const (
	chartLabelWidth = 110
	chartBarWidth   = 360
	chartRowHeight  = 28
	chartBarHeight  = 20
)

type pageRenderer struct {
	tmpl *template.Template
}

func newPageRenderer() *pageRenderer {
	tmpl := template.Must(template.New("dashboard.html").Funcs(template.FuncMap{
		"comma": func(n int) string { return humanize.Comma(int64(n)) },
	}).ParseFS(templateFS, "templates/dashboard.html"))

	return &pageRenderer{tmpl: tmpl}
}

func (p *pageRenderer) render(w io.Writer, view dashboardView) error {
	return p.tmpl.Execute(w, view)
}

// dashboardView is everything the dashboard template reads
type dashboardView struct {
	Names    []string
	Selected string
	NotFound bool

	Summary      *model.CompanySummary
	Bars         []chartBar
	ChartHeight  int
	WordCloud    bool
	ShowTerms    bool
	TermsLine    string
	Fingerprint  string
	SourceLabel  string
	GeneratedAgo string
}

// chartBar is one positioned bar of the sentiment chart
type chartBar struct {
	Label   string
	Count   int
	Percent string
	Y       int
	TextY   int
	Width   int
	CountX  int
}

func (v *dashboardView) setReport(report *model.Report) {
	s := report.Summary

	v.Summary = s
	v.Fingerprint = report.Fingerprint
	v.GeneratedAgo = humanize.Time(report.GeneratedAt)
	v.WordCloud = s.HasWordCloud() && len(report.Words) > 0
	v.ShowTerms = s.TermsStatus != model.TermsUnavailable
	v.TermsLine = render.TermsLine(s)
	v.SourceLabel = sourceLabel(s.TextSource)

	for i, b := range render.Bars(s) {
		width := int(b.Scale * chartBarWidth)
		if width == 0 && b.Count > 0 {
			width = 1
		}
		v.Bars = append(v.Bars, chartBar{
			Label:   b.Label,
			Count:   b.Count,
			Percent: fmt.Sprintf("%.1f%%", b.Percent),
			Y:       i * chartRowHeight,
			TextY:   i*chartRowHeight + chartBarHeight - 5,
			Width:   width,
			CountX:  chartLabelWidth + width + 6,
		})
	}
	v.ChartHeight = len(v.Bars) * chartRowHeight
}

func sourceLabel(src model.TextSource) string {
	if src == model.TextSourceDoc {
		return "company document"
	}
	return "review text"
}

func (dashboardView) ChartLabelWidth() int { return chartLabelWidth }
func (dashboardView) ChartBarHeight() int  { return chartBarHeight }
