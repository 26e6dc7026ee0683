// Package predictor implements the branch prediction schemes simulated by
// bpsim: a static baseline, gshare, a tournament predictor and a perceptron
// predictor. Every scheme is a single-threaded state object driven by one
// caller that alternates Predict and Train for each executed branch.
package predictor

// Predictor is a conditional branch direction predictor.
//
// For every branch the caller invokes Predict first and then Train with the
// real outcome of the same branch. Implementations are not safe for
// concurrent use.
type Predictor interface {
	// Predict returns the predicted direction of the branch at pc.
	// It does not change the predictor state.
	Predict(pc uint32) Outcome

	// Train updates the predictor with the resolved outcome of the branch
	// at pc.
	Train(pc uint32, outcome Outcome)
}

var (
	_ Predictor = (*Static)(nil)
	_ Predictor = (*GShare)(nil)
	_ Predictor = (*Tournament)(nil)
	_ Predictor = (*Perceptron)(nil)
)
