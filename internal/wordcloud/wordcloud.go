// Package wordcloud turns free text into a weighted term list and lays it
// out as an SVG word cloud.
package wordcloud

import (
	"bytes"
	"fmt"
	"html"
	"math"
	"unicode/utf8"

	"github.com/ppiankov/reviewlens/internal/model"
)

// Options controls term selection and canvas geometry
type Options struct {
	Width       int
	Height      int
	MaxWords    int
	MinFontSize int
	MaxFontSize int
	Background  string
	Stopwords   []string // Added to the default list
}

// OptionsFromConfig maps the wordcloud config section
func OptionsFromConfig(cfg model.WordCloudConfig) Options {
	return Options{
		Width:       cfg.Width,
		Height:      cfg.Height,
		MaxWords:    cfg.MaxWords,
		MinFontSize: cfg.MinFontSize,
		MaxFontSize: cfg.MaxFontSize,
		Background:  cfg.Background,
		Stopwords:   cfg.Stopwords,
	}
}

func (o Options) withDefaults() Options {
	if o.Width <= 0 {
		o.Width = 800
	}
	if o.Height <= 0 {
		o.Height = 400
	}
	if o.MaxWords <= 0 {
		o.MaxWords = 200
	}
	if o.MinFontSize <= 0 {
		o.MinFontSize = 10
	}
	if o.MaxFontSize <= 0 {
		o.MaxFontSize = 72
	}
	if o.MaxFontSize < o.MinFontSize {
		o.MaxFontSize = o.MinFontSize
	}
	if o.Background == "" {
		o.Background = "white"
	}
	return o
}

// Key identifies the options that affect rendering, for cache keys
func (o Options) Key() string {
	o = o.withDefaults()
	return fmt.Sprintf("%dx%d:%d:%d-%d:%s:%v", o.Width, o.Height, o.MaxWords, o.MinFontSize, o.MaxFontSize, o.Background, o.Stopwords)
}

// Builder builds and renders word clouds with fixed options
type Builder struct {
	opts Options
	stop map[string]bool
}

// NewBuilder creates a builder; zero option fields take defaults
func NewBuilder(opts Options) *Builder {
	opts = opts.withDefaults()
	return &Builder{
		opts: opts,
		stop: NewStopwords(opts.Stopwords),
	}
}

// Options returns the effective options
func (b *Builder) Options() Options {
	return b.opts
}

// Words returns the weighted terms of text
func (b *Builder) Words(text string) []model.WeightedWord {
	return Frequencies(Tokenize(text, b.stop), b.opts.MaxWords)
}

// Placement is a word positioned on the canvas. X and Y are the top-left
// corner of its bounding box.
type Placement struct {
	Word     model.WeightedWord
	FontSize float64
	X, Y     float64
	W, H     float64
}

func (p Placement) overlaps(q Placement) bool {
	return p.X < q.X+q.W && q.X < p.X+p.W && p.Y < q.Y+q.H && q.Y < p.Y+p.H
}

// Glyph metrics used to estimate text boxes without a font rasterizer
const (
	charWidthRatio  = 0.6
	lineHeightRatio = 1.15
	spiralStep      = 0.1
	shrinkFactor    = 0.85
)

// Layout places words along an Archimedean spiral from the canvas centre,
// largest first. A word that collides everywhere is shrunk and retried down
// to the minimum font size. Once a word fits nowhere at the minimum size the
// canvas is considered full and the remaining words are dropped.
func (b *Builder) Layout(words []model.WeightedWord) []Placement {
	width := float64(b.opts.Width)
	height := float64(b.opts.Height)
	minSize := float64(b.opts.MinFontSize)
	maxSize := float64(b.opts.MaxFontSize)

	cx, cy := width/2, height/2
	aspect := height / width
	maxRadius := math.Hypot(cx, cy)

	placed := make([]Placement, 0, len(words))
	for _, w := range words {
		size := minSize + (maxSize-minSize)*w.Weight
		for {
			if p, ok := b.place(w, size, cx, cy, aspect, maxRadius, placed); ok {
				placed = append(placed, p)
				break
			}
			if size <= minSize {
				return placed
			}
			size = math.Max(minSize, size*shrinkFactor)
		}
	}

	return placed
}

// place walks the spiral until the word's box fits inside the canvas
// without touching any placed box
func (b *Builder) place(w model.WeightedWord, size, cx, cy, aspect, maxRadius float64, placed []Placement) (Placement, bool) {
	bw := float64(utf8.RuneCountInString(w.Text)) * size * charWidthRatio
	bh := size * lineHeightRatio
	if bw > float64(b.opts.Width) || bh > float64(b.opts.Height) {
		return Placement{}, false
	}

	for t := 0.0; ; t += spiralStep {
		r := 2 * t
		if r > maxRadius {
			return Placement{}, false
		}
		p := Placement{
			Word:     w,
			FontSize: size,
			X:        cx + r*math.Cos(t) - bw/2,
			Y:        cy + r*aspect*math.Sin(t) - bh/2,
			W:        bw,
			H:        bh,
		}
		if p.X < 0 || p.Y < 0 || p.X+p.W > float64(b.opts.Width) || p.Y+p.H > float64(b.opts.Height) {
			continue
		}
		if !collides(p, placed) {
			return p, true
		}
	}
}

func collides(p Placement, placed []Placement) bool {
	for _, q := range placed {
		if p.overlaps(q) {
			return true
		}
	}
	return false
}

// palette is cycled by rank
var palette = []string{
	"#440154", "#482878", "#3e4989", "#31688e", "#26828e",
	"#1f9e89", "#35b779", "#6ece58", "#b5de2b", "#fde725",
}

// RenderSVG renders the words as a standalone SVG document
func (b *Builder) RenderSVG(words []model.WeightedWord) []byte {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">`,
		b.opts.Width, b.opts.Height, b.opts.Width, b.opts.Height)
	buf.WriteByte('\n')
	fmt.Fprintf(&buf, `<rect width="100%%" height="100%%" fill="%s"/>`, html.EscapeString(b.opts.Background))
	buf.WriteByte('\n')

	for i, p := range b.Layout(words) {
		// Baseline sits roughly 80% down the box
		fmt.Fprintf(&buf, `<text x="%.1f" y="%.1f" font-size="%.1f" font-family="sans-serif" fill="%s"><title>%s (%d)</title>%s</text>`,
			p.X, p.Y+p.H*0.8, p.FontSize, palette[i%len(palette)],
			html.EscapeString(p.Word.Text), p.Word.Count, html.EscapeString(p.Word.Text))
		buf.WriteByte('\n')
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}
