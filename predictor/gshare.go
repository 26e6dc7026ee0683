package predictor

// GShare indexes a single table of 2-bit counters with the branch PC XORed
// with the global history.
type GShare struct {
	historyBits uint32
	history     *History
	table       *CounterTable
}

// NewGShare creates a gshare predictor with a global history of historyBits
// outcomes. Only the newest 32 outcomes reach the index, so widths above 32
// behave like 32 and only 32 outcomes are kept.
func NewGShare(historyBits uint32) *GShare {
	indexBits := historyBits
	if indexBits > 32 {
		indexBits = 32
	}

	return &GShare{
		historyBits: historyBits,
		history:     NewHistory(indexBits),
		table:       NewCounterTable(indexBits),
	}
}

// HistoryBits returns the configured history length.
func (g *GShare) HistoryBits() uint32 {
	return g.historyBits
}

// Index returns the table index for pc under the current history.
func (g *GShare) Index(pc uint32) uint32 {
	return (pc ^ g.history.Fold()) & g.table.Mask()
}

// Predict returns the prediction of the counter selected by pc and the
// global history.
func (g *GShare) Predict(pc uint32) Outcome {
	return g.table.Predict(g.Index(pc))
}

// Train updates the counter selected under the pre-update history, then
// shifts the outcome into the history.
func (g *GShare) Train(pc uint32, outcome Outcome) {
	g.table.Update(g.Index(pc), outcome)
	g.history.Push(outcome)
}
