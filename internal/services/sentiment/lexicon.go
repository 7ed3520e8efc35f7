package sentiment

// Word lists based on financial sentiment dictionaries
// (Loughran-McDonald style, extended with common headline vocabulary).

func loadPositiveWords() map[string]bool {
	words := []string{
		"achieve", "advance", "beat", "beats", "benefit", "better", "boom",
		"boost", "bullish", "climb", "climbs", "delight", "exceed", "exceeds",
		"excellent", "exceptional", "expand", "expansion", "favorable", "gain",
		"gains", "good", "great", "grew", "growth", "high", "improve",
		"improved", "improvement", "innovative", "jump", "jumps", "leading",
		"opportunity", "optimistic", "outperform", "positive", "profit",
		"profitable", "profits", "progress", "rally", "rebound", "record",
		"recover", "recovery", "rise", "rises", "rising", "robust", "soar",
		"soars", "solid", "strength", "strong", "succeed", "success",
		"successful", "surge", "surges", "surpass", "up", "upbeat", "upgrade",
		"upside", "win", "winning",
	}
	m := make(map[string]bool)
	for _, w := range words {
		m[w] = true
	}
	return m
}

func loadNegativeWords() map[string]bool {
	words := []string{
		"adverse", "bankruptcy", "bearish", "challenge", "challenging",
		"concern", "concerns", "crash", "crisis", "cut", "cuts", "damage",
		"debt", "decline", "declines", "declining", "decrease", "deficit",
		"deteriorate", "difficult", "disappoint", "disappointing", "down",
		"downgrade", "downturn", "drop", "drops", "fail", "failure", "fall",
		"falling", "falls", "fear", "fears", "fell", "headwind", "inadequate",
		"lawsuit", "layoff", "layoffs", "loss", "losses", "low", "miss",
		"missed", "negative", "plunge", "plunges", "poor", "probe",
		"recession", "risk", "risks", "selloff", "slowdown", "slump",
		"struggle", "struggles", "tumble", "tumbles", "uncertain",
		"uncertainty", "underperform", "unfavorable", "unprofitable", "weak",
		"weakness", "worse", "worst",
	}
	m := make(map[string]bool)
	for _, w := range words {
		m[w] = true
	}
	return m
}

func loadUncertaintyWords() map[string]bool {
	words := []string{
		"almost", "anticipate", "anticipates", "appear", "appears",
		"approximately", "assume", "assumes", "believe", "believes", "could",
		"depend", "depending", "estimate", "estimates", "expect", "expects",
		"forecast", "forecasts", "if", "intend", "intends", "likely", "may",
		"maybe", "might", "outlook", "pending", "perhaps", "plan", "plans",
		"possible", "possibly", "potential", "predict", "predicts", "project",
		"projects", "reportedly", "rumor", "rumors", "should", "somewhat",
		"speculation", "suggest", "suggests", "unclear", "unlikely", "would",
	}
	m := make(map[string]bool)
	for _, w := range words {
		m[w] = true
	}
	return m
}

// trackedKeywords are the per-category keywords surfaced individually in
// the dashboard's keyword breakdown (counts keyed "category_word").
var trackedKeywords = map[string][]string{
	"positive": {"surge", "growth", "profit", "gain", "up", "rise", "positive", "strong"},
	"negative": {"decline", "loss", "down", "fall", "negative", "weak", "risk", "concern"},
}
