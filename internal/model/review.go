package model

// Review is one cleaned review row from the reviews table
type Review struct {
	CompanyID   int       `json:"company_id"`             // Foreign key into the company table ("id" column)
	Sentiment   Sentiment `json:"sentiment"`              // Label assigned upstream
	CleanReview string    `json:"clean_review,omitempty"` // Preprocessed review text
}

// Sentiment is the categorical label attached to a review.
// Labels are taken verbatim from the artifact; the constants below are the
// ones the upstream classifier emits but any other label is kept as-is.
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNegative Sentiment = "negative"
	SentimentNeutral  Sentiment = "neutral"
)

// SentimentCount is one bar of a sentiment distribution
type SentimentCount struct {
	Sentiment Sentiment `json:"sentiment"`
	Count     int       `json:"count"`
}
