package model

import "time"

// CompanySummary is everything the views need to describe one company
type CompanySummary struct {
	CompanyID   int                 `json:"company_id"`
	CompanyName string              `json:"company_name"`
	Clusters    []ClusterAssignment `json:"clusters"`

	Sentiment   []SentimentCount `json:"sentiment"`    // Sorted by count, descending
	ReviewCount int              `json:"review_count"` // Reviews matching CompanyID

	WordCloudText string     `json:"word_cloud_text,omitempty"`
	TextSource    TextSource `json:"text_source"`

	ClusterColumn string      `json:"cluster_column"` // Column the terms lookup used
	ClusterID     int         `json:"cluster_id"`
	Terms         []string    `json:"terms,omitempty"`
	TermsStatus   TermsStatus `json:"terms_status"`
}

// TextSource records where the word-cloud text came from
type TextSource string

const (
	TextSourceDoc     TextSource = "doc"     // Precomputed doc column
	TextSourceReviews TextSource = "reviews" // Joined clean_review values
	TextSourceNone    TextSource = "none"    // Nothing to draw
)

// TermsStatus tells the views how to present the cluster terms panel
type TermsStatus string

const (
	TermsUnavailable TermsStatus = "unavailable" // No terms lookup loaded; hide the panel
	TermsMissing     TermsStatus = "missing"     // Lookup loaded but nothing saved for this cluster
	TermsFound       TermsStatus = "found"
)

// NoTermsMessage is shown when TermsStatus is TermsMissing
const NoTermsMessage = "No terms saved for this cluster."

// HasWordCloud reports whether there is any text to draw
func (s *CompanySummary) HasWordCloud() bool {
	return s.TextSource != TextSourceNone && s.WordCloudText != ""
}

// WeightedWord is a word-cloud term with its relative weight in (0, 1]
type WeightedWord struct {
	Text   string  `json:"text"`
	Count  int     `json:"count"`
	Weight float64 `json:"weight"`
}

// Report is a rendered-ready view of one company
type Report struct {
	Summary     *CompanySummary `json:"summary"`
	Words       []WeightedWord  `json:"words,omitempty"` // Empty when there is no word cloud
	GeneratedAt time.Time       `json:"generated_at"`
	Fingerprint string          `json:"dataset_fingerprint"` // Identifies the artifacts the report came from
}
