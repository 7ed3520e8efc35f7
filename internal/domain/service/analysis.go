package service

import (
	"StockPulse/internal/domain/models"
)

// SentimentAnalyzer scores news text and aggregates batches into the
// summary shape the signal generator consumes.
type SentimentAnalyzer interface {
	AnalyzeArticle(article models.NewsArticle) models.ArticleSentiment
	Summarize(articles []models.NewsArticle) (models.SentimentSummary, []models.ArticleSentiment)
}

// SignalGenerator turns a sentiment summary and a price history into a
// trading signal. Pure and deterministic: identical inputs yield an
// identical record.
type SignalGenerator interface {
	Generate(symbol string, sentiment *models.SentimentSummary, bars []models.PriceBar) (*models.TradingSignal, error)
}
