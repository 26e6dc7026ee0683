package predictor

// Outcome is the resolved direction of a conditional branch.
type Outcome uint8

const (
	// NotTaken means the branch fell through.
	NotTaken Outcome = iota
	// Taken means the branch jumped to its target.
	Taken
)

// OutcomeOf converts a taken flag to an Outcome.
func OutcomeOf(taken bool) Outcome {
	if taken {
		return Taken
	}
	return NotTaken
}

// IsTaken reports whether o is Taken.
func (o Outcome) IsTaken() bool {
	return o == Taken
}

// Sign returns +1 for Taken and -1 for NotTaken.
func (o Outcome) Sign() int32 {
	if o == Taken {
		return 1
	}
	return -1
}

// bit returns 1 for Taken and 0 for NotTaken.
func (o Outcome) bit() uint32 {
	if o == Taken {
		return 1
	}
	return 0
}

// String returns "Taken" or "NotTaken".
func (o Outcome) String() string {
	if o == Taken {
		return "Taken"
	}
	return "NotTaken"
}
