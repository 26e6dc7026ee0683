package predictor

// TournamentConfig holds the table geometry of a tournament predictor.
type TournamentConfig struct {
	// GlobalHistoryBits is the length of the global history register and
	// the index width of the global counter table.
	GlobalHistoryBits uint32
	// LocalHistoryBits is the length of each per-branch history pattern and
	// the index width of the local counter table.
	LocalHistoryBits uint32
	// PCIndexBits is the number of low PC bits that select a local history
	// pattern.
	PCIndexBits uint32
}

// Tournament combines a global-history predictor and a local-history
// predictor. A meta counter picks which of the two to trust: its taken side
// selects local, its not-taken side selects global.
type Tournament struct {
	config TournamentConfig

	// Global predictor
	globalHistory uint32
	globalMask    uint32
	global        *CounterTable

	// Local predictor
	patterns  indexedTable[uint32]
	localMask uint32
	local     *CounterTable

	meta Counter
}

// NewTournament creates a tournament predictor.
func NewTournament(config TournamentConfig) *Tournament {
	global := NewCounterTable(config.GlobalHistoryBits)
	local := NewCounterTable(config.LocalHistoryBits)

	return &Tournament{
		config:     config,
		globalMask: global.Mask(),
		global:     global,
		patterns:   newIndexedTable[uint32](config.PCIndexBits, 0),
		localMask:  local.Mask(),
		local:      local,
		meta:       InitialCounter,
	}
}

// Config returns the geometry the predictor was built with.
func (t *Tournament) Config() TournamentConfig {
	return t.config
}

// Meta returns the state of the meta counter.
func (t *Tournament) Meta() Counter {
	return t.meta
}

func (t *Tournament) slot(pc uint32) uint32 {
	return pc & t.patterns.mask
}

func (t *Tournament) localIndex(pc uint32) uint32 {
	return t.patterns.at(t.slot(pc)) & t.localMask
}

func (t *Tournament) globalIndex() uint32 {
	return t.globalHistory & t.globalMask
}

// LocalVote returns the prediction of the local predictor for pc.
func (t *Tournament) LocalVote(pc uint32) Outcome {
	return t.local.Predict(t.localIndex(pc))
}

// GlobalVote returns the prediction of the global predictor.
func (t *Tournament) GlobalVote(uint32) Outcome {
	return t.global.Predict(t.globalIndex())
}

// Predict returns the vote of the sub-predictor the meta counter selects.
func (t *Tournament) Predict(pc uint32) Outcome {
	if t.meta.Prediction() == Taken {
		return t.LocalVote(pc)
	}
	return t.GlobalVote(pc)
}

// Train updates the meta counter from the pre-update votes, then both
// sub-predictors and their histories.
func (t *Tournament) Train(pc uint32, outcome Outcome) {
	slot := t.slot(pc)
	localIdx := t.localIndex(pc)
	globalIdx := t.globalIndex()

	localVote := t.local.Predict(localIdx)
	globalVote := t.global.Predict(globalIdx)

	// The meta counter only moves when the two disagree. Taken rewards
	// local, NotTaken rewards global.
	if localVote != globalVote {
		t.meta = t.meta.Next(OutcomeOf(localVote == outcome))
	}

	t.global.Update(globalIdx, outcome)
	t.globalHistory = (t.globalHistory<<1 | outcome.bit()) & t.globalMask

	t.local.Update(localIdx, outcome)
	t.patterns.set(slot, (t.patterns.at(slot)<<1|outcome.bit())&t.localMask)
}
