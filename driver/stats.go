package driver

// Stats holds the outcome of a simulation run.
type Stats struct {
	// Branches is the number of branches simulated.
	Branches uint64
	// Correct is the number of correct predictions.
	Correct uint64
	// Mispredictions is the number of incorrect predictions.
	Mispredictions uint64
	// Taken is the number of branches that were taken.
	Taken uint64
	// Sites is the number of distinct branch PCs seen.
	Sites int
}

// Accuracy returns the prediction accuracy as a percentage.
func (s Stats) Accuracy() float64 {
	if s.Branches == 0 {
		return 0
	}
	return float64(s.Correct) / float64(s.Branches) * 100
}

// MispredictionRate returns the misprediction rate as a percentage.
func (s Stats) MispredictionRate() float64 {
	if s.Branches == 0 {
		return 0
	}
	return float64(s.Mispredictions) / float64(s.Branches) * 100
}

// TakenRate returns the share of taken branches as a percentage.
func (s Stats) TakenRate() float64 {
	if s.Branches == 0 {
		return 0
	}
	return float64(s.Taken) / float64(s.Branches) * 100
}
