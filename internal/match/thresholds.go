package match

// Thresholds holds the decision cutoffs for each matching stage. Embedding
// scores are cosine similarities in [0, 1]; fuzzy scores are 0-100.
//
// A league hint narrows the candidate pool, so the league thresholds can
// afford to be looser without pulling in cross-league surname collisions.
type Thresholds struct {
	// EmbedAuto accepts an embedding match without asking the user.
	EmbedAuto float64
	// EmbedSuggestLeague and EmbedSuggestNoLeague gate embedding
	// suggestions depending on whether a league hint was provided.
	EmbedSuggestLeague   float64
	EmbedSuggestNoLeague float64

	// Fuzzy cutoffs for the primary pass.
	FuzzyAutoLeague      int
	FuzzySuggestLeague   int
	FuzzyAutoNoLeague    int
	FuzzySuggestNoLeague int

	// Fallback cutoffs for the stricter pass after a generation came back
	// with the not-found sentinel.
	FallbackAutoLeague      int
	FallbackSuggestLeague   int
	FallbackAutoNoLeague    int
	FallbackSuggestNoLeague int

	// VeryStrong is the overall score above which a weaker first-name
	// signal is still acceptable.
	VeryStrong int
}

// DefaultThresholds returns the tuned production cutoffs.
func DefaultThresholds() Thresholds {
	return Thresholds{
		EmbedAuto:            0.95,
		EmbedSuggestLeague:   0.75,
		EmbedSuggestNoLeague: 0.78,

		FuzzyAutoLeague:      78,
		FuzzySuggestLeague:   68,
		FuzzyAutoNoLeague:    88,
		FuzzySuggestNoLeague: 75,

		FallbackAutoLeague:      88,
		FallbackSuggestLeague:   75,
		FallbackAutoNoLeague:    92,
		FallbackSuggestNoLeague: 78,

		VeryStrong: 95,
	}
}

// fuzzy returns the (auto, suggest) cutoffs for the primary fuzzy pass.
func (t Thresholds) fuzzy(hasLeague bool) (int, int) {
	if hasLeague {
		return t.FuzzyAutoLeague, t.FuzzySuggestLeague
	}
	return t.FuzzyAutoNoLeague, t.FuzzySuggestNoLeague
}

// fallback returns the (auto, suggest) cutoffs for the post-sentinel pass.
func (t Thresholds) fallback(hasLeague bool) (int, int) {
	if hasLeague {
		return t.FallbackAutoLeague, t.FallbackSuggestLeague
	}
	return t.FallbackAutoNoLeague, t.FallbackSuggestNoLeague
}

// embedSuggest returns the embedding suggestion cutoff.
func (t Thresholds) embedSuggest(hasLeague bool) float64 {
	if hasLeague {
		return t.EmbedSuggestLeague
	}
	return t.EmbedSuggestNoLeague
}
