package predictor

// Counter is a 2-bit saturating counter.
// States: 0=Strongly Not Taken, 1=Weakly Not Taken, 2=Weakly Taken,
// 3=Strongly Taken.
type Counter uint8

// Counter states, ordered by confidence in Taken.
const (
	StrongNotTaken Counter = iota
	WeakNotTaken
	WeakTaken
	StrongTaken
)

// InitialCounter is the state every counter table and meta counter starts in.
const InitialCounter = WeakNotTaken

// Next returns the state after observing outcome o. Taken moves the counter
// toward StrongTaken, NotTaken toward StrongNotTaken, saturating at both ends.
func (c Counter) Next(o Outcome) Counter {
	if o == Taken {
		if c < StrongTaken {
			return c + 1
		}
		return StrongTaken
	}

	if c > StrongNotTaken {
		return c - 1
	}
	return StrongNotTaken
}

// Prediction returns Taken for the two taken states and NotTaken otherwise.
func (c Counter) Prediction() Outcome {
	return OutcomeOf(c >= WeakTaken)
}

// String returns the state name.
func (c Counter) String() string {
	switch c {
	case StrongNotTaken:
		return "StrongNotTaken"
	case WeakNotTaken:
		return "WeakNotTaken"
	case WeakTaken:
		return "WeakTaken"
	case StrongTaken:
		return "StrongTaken"
	default:
		return "Invalid"
	}
}
