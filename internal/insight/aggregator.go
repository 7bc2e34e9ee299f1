// Package insight selects one company from a loaded dataset and aggregates
// everything the views show about it.
package insight

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/ppiankov/reviewlens/internal/dataset"
	"github.com/ppiankov/reviewlens/internal/model"
)

// ErrCompanyNotFound is returned when no company row carries the name
var ErrCompanyNotFound = errors.New("company not found")

// DefaultTermsColumn is the cluster column whose label keys the terms lookup
const DefaultTermsColumn = dataset.DefaultTermsColumn

// Aggregator builds company summaries over a read-only dataset
type Aggregator struct {
	data        *dataset.Dataset
	termsColumn string
}

// NewAggregator creates an aggregator. An empty termsColumn selects the
// column the dataset resolved at load.
func NewAggregator(data *dataset.Dataset, termsColumn string) *Aggregator {
	if termsColumn == "" {
		termsColumn = data.TermsColumn
	}
	if termsColumn == "" {
		termsColumn = DefaultTermsColumn
	}
	return &Aggregator{
		data:        data,
		termsColumn: termsColumn,
	}
}

// Names returns the selectable company names
func (a *Aggregator) Names() []string {
	return a.data.Names()
}

// Summarize aggregates the company whose name equals name
func (a *Aggregator) Summarize(name string) (*model.CompanySummary, error) {
	company, ok := a.data.CompanyByName(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrCompanyNotFound, name)
	}

	reviews := a.data.ReviewsFor(company.ID)

	summary := &model.CompanySummary{
		CompanyID:   company.ID,
		CompanyName: company.Name,
		Clusters:    append([]model.ClusterAssignment(nil), company.Clusters...),
		Sentiment:   CountSentiment(reviews),
		ReviewCount: len(reviews),
	}

	summary.WordCloudText, summary.TextSource = WordCloudText(company, reviews)

	summary.ClusterColumn = a.termsColumn
	summary.ClusterID = a.termsCluster(company)
	summary.Terms, summary.TermsStatus = LookupTerms(a.data.Terms, summary.ClusterID)

	return summary, nil
}

// termsCluster reads the company's label in the terms column. Columns other
// than the one resolved at load fall back to the prefixed assignments.
func (a *Aggregator) termsCluster(company *model.Company) int {
	if a.termsColumn == a.data.TermsColumn {
		return company.TermsCluster
	}
	id, _ := company.Cluster(a.termsColumn)
	return id
}

// CountSentiment groups reviews by sentiment label. The result is ordered by
// count descending, then label. Blank labels are not counted.
func CountSentiment(reviews []model.Review) []model.SentimentCount {
	counts := make(map[model.Sentiment]int)
	for _, r := range reviews {
		if r.Sentiment == "" {
			continue
		}
		counts[r.Sentiment]++
	}

	out := make([]model.SentimentCount, 0, len(counts))
	for s, n := range counts {
		out = append(out, model.SentimentCount{Sentiment: s, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Sentiment < out[j].Sentiment
	})

	return out
}

// WordCloudText picks the text to draw: the precomputed doc when it has
// content, otherwise the joined reviews
func WordCloudText(company *model.Company, reviews []model.Review) (string, model.TextSource) {
	if company.HasDoc && strings.TrimSpace(company.Doc) != "" {
		return company.Doc, model.TextSourceDoc
	}

	parts := make([]string, 0, len(reviews))
	for _, r := range reviews {
		if strings.TrimSpace(r.CleanReview) == "" {
			continue
		}
		parts = append(parts, r.CleanReview)
	}
	if len(parts) == 0 {
		return "", model.TextSourceNone
	}

	return strings.Join(parts, " "), model.TextSourceReviews
}

// LookupTerms resolves the top terms of a cluster
func LookupTerms(terms model.ClusterTerms, clusterID int) ([]string, model.TermsStatus) {
	if len(terms) == 0 {
		return nil, model.TermsUnavailable
	}

	found, ok := terms[dataset.ClusterKey(clusterID)]
	if !ok || len(found) == 0 {
		return nil, model.TermsMissing
	}

	return found, model.TermsFound
}
