package sentiment

// Word lists based on financial sentiment dictionaries
// (Loughran-McDonald financial sentiment word lists)

func loadPositiveWords() map[string]bool {
	words := []string{
		"achieve", "attain", "beat", "benefit", "better", "competitive",
		"delight", "enhance", "excellent", "exceptional", "extraordinary",
		"favorable", "gain", "gains", "good", "great", "grew", "growth",
		"improve", "improved", "improvement", "increasing", "innovation",
		"innovative", "leader", "leading", "opportunity", "optimal",
		"optimistic", "outperform", "positive", "profitable", "progress",
		"prosper", "rally", "rallies", "record", "remarkable", "robust",
		"rise", "rises", "soar", "soars", "solid", "strength", "strong",
		"succeed", "success", "successful", "superior", "surge", "surges",
		"surpass", "tremendous", "upbeat", "upgrade", "valuable", "winning",
	}
	m := make(map[string]bool)
	for _, w := range words {
		m[w] = true
	}
	return m
}

func loadNegativeWords() map[string]bool {
	words := []string{
		"abandon", "adverse", "challenge", "challenging", "concern",
		"concerns", "crash", "crisis", "damage", "debt", "decline",
		"decrease", "deficit", "deteriorate", "difficult", "difficulty",
		"disappoint", "disappointing", "disadvantage", "downgrade",
		"downturn", "drop", "drops", "erode", "fail", "failure", "fall",
		"falling", "falls", "fear", "headwind", "impair", "impairment",
		"inability", "inadequate", "ineffective", "lawsuit", "loss",
		"losses", "miss", "misses", "negative", "obstacle", "plunge",
		"plunges", "poor", "problem", "recession", "restructuring", "risk",
		"risks", "slow", "slowdown", "slump", "tumble", "tumbles",
		"uncertain", "uncertainty", "underperform", "unfavorable",
		"unprofitable", "volatile", "volatility", "weak", "weakness",
		"worse", "worsen", "worst",
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
		"approximately", "assume", "assumes", "believe", "believes",
		"could", "depend", "depending", "estimate", "estimates", "expect",
		"expects", "forecast", "forecasts", "if", "intend", "intends",
		"likely", "may", "maybe", "might", "outlook", "pending", "perhaps",
		"plan", "plans", "possible", "possibly", "potential", "predict",
		"predicts", "project", "projects", "should", "somewhat", "suggest",
		"suggests", "unclear", "unlikely", "variable", "would",
	}
	m := make(map[string]bool)
	for _, w := range words {
		m[w] = true
	}
	return m
}
