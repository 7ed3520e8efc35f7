package sentiment

import (
	"math"
	"strings"
	"testing"

	"StockPulse/internal/domain/models"
)

func TestAnalyzeArticlePositive(t *testing.T) {
	a := NewAnalyzer()
	res := a.AnalyzeArticle(models.NewsArticle{
		Title:   "Apple stock surges on record profit",
		Content: "Shares climb as growth beats forecasts",
	})
	if res.Score.Compound <= 0 {
		t.Fatalf("expected positive compound, got %v", res.Score.Compound)
	}
	if res.Score.Positive <= res.Score.Negative {
		t.Fatalf("expected positive fraction to dominate: %+v", res.Score)
	}
}

func TestAnalyzeArticleNegative(t *testing.T) {
	a := NewAnalyzer()
	res := a.AnalyzeArticle(models.NewsArticle{
		Title:   "Shares plunge as losses deepen",
		Content: "Recession fears drive a broad selloff",
	})
	if res.Score.Compound >= 0 {
		t.Fatalf("expected negative compound, got %v", res.Score.Compound)
	}
}

func TestAnalyzeArticleEmptyText(t *testing.T) {
	a := NewAnalyzer()
	res := a.AnalyzeArticle(models.NewsArticle{})
	if res.Score.Compound != 0 || res.Score.Neutral != 1 {
		t.Fatalf("expected neutral score for empty text, got %+v", res.Score)
	}
}

func TestAnalyzeArticleUncertaintyDamping(t *testing.T) {
	a := NewAnalyzer()
	padding := strings.TrimSpace(strings.Repeat("the ", 17))

	plain := a.AnalyzeArticle(models.NewsArticle{Title: padding + " gain now here"})
	hedged := a.AnalyzeArticle(models.NewsArticle{Title: padding + " gain maybe now"})

	// Same polar hit rate; the hedged variant is damped by half at
	// saturated uncertainty.
	if math.Abs(plain.Score.Compound-0.5) > 1e-9 {
		t.Fatalf("unexpected plain compound %v", plain.Score.Compound)
	}
	if math.Abs(hedged.Score.Compound-0.25) > 1e-9 {
		t.Fatalf("unexpected hedged compound %v", hedged.Score.Compound)
	}
}

func TestAnalyzeArticleCompoundClamped(t *testing.T) {
	a := NewAnalyzer()
	res := a.AnalyzeArticle(models.NewsArticle{Title: "surge surge surge surge"})
	if res.Score.Compound != 1 {
		t.Fatalf("expected clamped compound, got %v", res.Score.Compound)
	}
}

func TestKeywordCounts(t *testing.T) {
	a := NewAnalyzer()
	res := a.AnalyzeArticle(models.NewsArticle{Title: "surge in profit, strong risk, surge again"})
	if res.Keywords["positive_surge"] != 2 {
		t.Fatalf("unexpected surge count %d", res.Keywords["positive_surge"])
	}
	if res.Keywords["positive_profit"] != 1 || res.Keywords["positive_strong"] != 1 {
		t.Fatalf("unexpected keyword counts %v", res.Keywords)
	}
	if res.Keywords["negative_risk"] != 1 {
		t.Fatalf("unexpected risk count %v", res.Keywords)
	}
	if _, ok := res.Keywords["negative_loss"]; ok {
		t.Fatalf("did not expect zero-count keyword in map")
	}
}

func TestSummarizeAverages(t *testing.T) {
	a := NewAnalyzer()
	articles := []models.NewsArticle{
		{Title: "record profit growth and strong gains"},
		{Title: "losses mount as shares fall on weak results"},
	}
	summary, results := a.Summarize(articles)
	if summary.ArticleCount != 2 {
		t.Fatalf("unexpected article count %d", summary.ArticleCount)
	}
	if len(results) != 2 {
		t.Fatalf("unexpected result count %d", len(results))
	}
	want := (results[0].Score.Compound + results[1].Score.Compound) / 2
	if math.Abs(summary.Compound-want) > 1e-9 {
		t.Fatalf("summary compound %v, want %v", summary.Compound, want)
	}
	wantPos := (results[0].Score.Positive + results[1].Score.Positive) / 2
	if math.Abs(summary.Positive-wantPos) > 1e-9 {
		t.Fatalf("summary positive %v, want %v", summary.Positive, wantPos)
	}
}

func TestSummarizeEmptyBatch(t *testing.T) {
	a := NewAnalyzer()
	summary, results := a.Summarize(nil)
	if summary.ArticleCount != 0 || summary.Compound != 0 {
		t.Fatalf("expected zero summary, got %+v", summary)
	}
	if results != nil {
		t.Fatalf("expected nil results, got %v", results)
	}
}

func TestMergeKeywords(t *testing.T) {
	merged := MergeKeywords([]models.ArticleSentiment{
		{Keywords: map[string]int{"positive_surge": 2, "negative_risk": 1}},
		{Keywords: map[string]int{"positive_surge": 1}},
	})
	if merged["positive_surge"] != 3 {
		t.Fatalf("unexpected merged count %d", merged["positive_surge"])
	}
	if merged["negative_risk"] != 1 {
		t.Fatalf("unexpected merged count %d", merged["negative_risk"])
	}
}

func TestTokenize(t *testing.T) {
	words := tokenize("q2 earnings: up 5%, beats-estimates!")
	want := []string{"q2", "earnings", "up", "5", "beats", "estimates"}
	if len(words) != len(want) {
		t.Fatalf("unexpected tokens %v", words)
	}
	for i := range want {
		if words[i] != want[i] {
			t.Fatalf("token %d = %q, want %q", i, words[i], want[i])
		}
	}
}
