package render

import (
	"math"

	"github.com/ppiankov/reviewlens/internal/model"
)

// Bar is one bar of the sentiment chart
type Bar struct {
	Label   string
	Count   int
	Percent float64 // Share of all counted reviews
	Scale   float64 // Length relative to the longest bar, 0..1
}

// Blocks returns the bar length in character cells for a chart width
func (b Bar) Blocks(width int) int {
	n := int(math.Round(b.Scale * float64(width)))
	if n == 0 && b.Count > 0 {
		n = 1
	}
	return n
}

// Bars computes the sentiment chart in distribution order
func Bars(s *model.CompanySummary) []Bar {
	if len(s.Sentiment) == 0 {
		return nil
	}

	total, longest := 0, 0
	for _, c := range s.Sentiment {
		total += c.Count
		if c.Count > longest {
			longest = c.Count
		}
	}

	bars := make([]Bar, len(s.Sentiment))
	for i, c := range s.Sentiment {
		bars[i] = Bar{
			Label: string(c.Sentiment),
			Count: c.Count,
		}
		if total > 0 {
			bars[i].Percent = 100 * float64(c.Count) / float64(total)
		}
		if longest > 0 {
			bars[i].Scale = float64(c.Count) / float64(longest)
		}
	}

	return bars
}
