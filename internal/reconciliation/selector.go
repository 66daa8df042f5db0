package reconciliation

// selectBestCandidate picks the oracle candidate with the highest confidence.
// Ties keep the earliest candidate, preserving the oracle's own ordering.
// Returns nil when the oracle found nothing.
func selectBestCandidate(result *MatchResult) *MatchCandidate {
	if result == nil || !result.Found || len(result.Candidates) == 0 {
		return nil
	}

	best := 0
	for i := 1; i < len(result.Candidates); i++ {
		if result.Candidates[i].Confidence > result.Candidates[best].Confidence {
			best = i
		}
	}
	return &result.Candidates[best]
}
