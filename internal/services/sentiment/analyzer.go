// Package sentiment scores news text with a financial lexicon. No
// external NLP service: polarity comes from positive/negative word
// ratios, damped by hedging language, scaled into the same
// compound/positive/negative/neutral shape VADER-style scorers emit.
package sentiment

import (
	"strings"
	"unicode"

	"StockPulse/internal/domain/models"
	domsvc "StockPulse/internal/domain/service"
)

// compoundScale amplifies the net word ratio: a few percent of polar
// words in a headline is already a strong signal.
const compoundScale = 10.0

// Analyzer is a lexicon-based sentiment scorer.
type Analyzer struct {
	positiveWords    map[string]bool
	negativeWords    map[string]bool
	uncertaintyWords map[string]bool
}

func NewAnalyzer() *Analyzer {
	return &Analyzer{
		positiveWords:    loadPositiveWords(),
		negativeWords:    loadNegativeWords(),
		uncertaintyWords: loadUncertaintyWords(),
	}
}

// AnalyzeArticle scores one article over its title and content.
func (a *Analyzer) AnalyzeArticle(article models.NewsArticle) models.ArticleSentiment {
	text := strings.ToLower(article.Title + " " + article.Content)
	words := tokenize(text)

	var positive, negative, uncertainty int
	for _, w := range words {
		if a.positiveWords[w] {
			positive++
		}
		if a.negativeWords[w] {
			negative++
		}
		if a.uncertaintyWords[w] {
			uncertainty++
		}
	}

	score := models.SentimentScore{Neutral: 1}
	if len(words) > 0 {
		total := float64(len(words))
		score.Positive = float64(positive) / total
		score.Negative = float64(negative) / total
		score.Neutral = 1 - score.Positive - score.Negative

		// Hedged language halves the conviction at full saturation.
		uncertaintyScore := clamp(float64(uncertainty)/total*20, 0, 1)
		net := (score.Positive - score.Negative) * compoundScale
		net *= 1 - uncertaintyScore*0.5
		score.Compound = clamp(net, -1, 1)
	}

	return models.ArticleSentiment{
		Title:    article.Title,
		Score:    score,
		Keywords: countKeywords(words),
	}
}

// Summarize scores a batch and averages the per-article results into
// the summary the signal generator consumes. An empty batch yields a
// zero summary, not an error: "no recent news" is a valid state.
func (a *Analyzer) Summarize(articles []models.NewsArticle) (models.SentimentSummary, []models.ArticleSentiment) {
	if len(articles) == 0 {
		return models.SentimentSummary{}, nil
	}

	results := make([]models.ArticleSentiment, 0, len(articles))
	var sum models.SentimentScore
	for _, article := range articles {
		res := a.AnalyzeArticle(article)
		results = append(results, res)
		sum.Compound += res.Score.Compound
		sum.Positive += res.Score.Positive
		sum.Negative += res.Score.Negative
		sum.Neutral += res.Score.Neutral
	}

	n := float64(len(articles))
	return models.SentimentSummary{
		Compound:     sum.Compound / n,
		Positive:     sum.Positive / n,
		Negative:     sum.Negative / n,
		Neutral:      sum.Neutral / n,
		ArticleCount: len(articles),
	}, results
}

// countKeywords tallies the tracked dashboard keywords, keyed
// "category_word" (e.g. "positive_surge").
func countKeywords(words []string) map[string]int {
	counts := make(map[string]int)
	for category, keywords := range trackedKeywords {
		for _, kw := range keywords {
			n := 0
			for _, w := range words {
				if w == kw {
					n++
				}
			}
			if n > 0 {
				counts[category+"_"+kw] = n
			}
		}
	}
	return counts
}

// MergeKeywords folds per-article keyword counts into one map.
func MergeKeywords(results []models.ArticleSentiment) map[string]int {
	merged := make(map[string]int)
	for _, r := range results {
		for k, v := range r.Keywords {
			merged[k] += v
		}
	}
	return merged
}

// tokenize splits text into letter/number runs.
func tokenize(text string) []string {
	var words []string
	var current strings.Builder

	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsNumber(r) {
			current.WriteRune(r)
		} else if current.Len() > 0 {
			words = append(words, current.String())
			current.Reset()
		}
	}
	if current.Len() > 0 {
		words = append(words, current.String())
	}
	return words
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

var _ domsvc.SentimentAnalyzer = (*Analyzer)(nil)
