package predictor

// Static always predicts Taken. It is the baseline the other schemes are
// measured against.
type Static struct{}

// NewStatic creates a static predictor.
func NewStatic() *Static {
	return &Static{}
}

// Predict always returns Taken.
func (*Static) Predict(uint32) Outcome {
	return Taken
}

// Train does nothing.
func (*Static) Train(uint32, Outcome) {}
