package models

import "time"

// NewsArticle is a single headline retrieved for a symbol.
type NewsArticle struct {
	Title       string
	Content     string // provider description or snippet
	Source      string
	URL         string
	PublishedAt time.Time
}

// SentimentScore holds the polarity breakdown of one piece of text.
// Compound is bounded to [-1, 1]; positive/negative/neutral are fractions.
type SentimentScore struct {
	Compound float64
	Positive float64
	Negative float64
	Neutral  float64
}

// ArticleSentiment is the per-article analysis result.
type ArticleSentiment struct {
	Title    string
	Score    SentimentScore
	Keywords map[string]int // lexicon hits, e.g. "positive_surge": 2
}

// SentimentSummary aggregates article scores into the shape the signal
// generator consumes: field-wise averages over the analyzed batch.
type SentimentSummary struct {
	Compound     float64
	Positive     float64
	Negative     float64
	Neutral      float64
	ArticleCount int
}

// NewsSentiment is the full sentiment view for one symbol.
type NewsSentiment struct {
	Symbol     string
	Summary    SentimentSummary
	Articles   []ArticleSentiment
	Keywords   map[string]int
	AnalyzedAt time.Time
}
