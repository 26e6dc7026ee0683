// Package driver runs a branch trace through a predictor. For every record
// it asks the predictor for a prediction, scores it against the real
// outcome, and then trains the predictor with that outcome.
package driver

import (
	"io"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/sarchlab/akita/v4/sim"

	"github.com/sarchlab/bpsim/predictor"
	"github.com/sarchlab/bpsim/trace"
)

// HookPosBranch marks the hook invocation made after each simulated branch.
// The hook item is a BranchEvent.
var HookPosBranch = &sim.HookPos{Name: "Branch"}

// BranchEvent describes one simulated branch.
type BranchEvent struct {
	// Seq is the 0-based position of the branch in the trace.
	Seq uint64
	// Record is the branch as read from the trace.
	Record trace.Record
	// Prediction is what the predictor returned before training.
	Prediction predictor.Outcome
}

// Correct reports whether the prediction matched the outcome.
func (e BranchEvent) Correct() bool {
	return e.Prediction == e.Record.Outcome
}

// Simulator drives a single predictor over a trace.
type Simulator struct {
	*sim.HookableBase

	predictor predictor.Predictor
	stats     Stats
	sites     mapset.Set[uint32]
}

// Option configures a Simulator.
type Option func(*Simulator)

// WithHook attaches a hook that observes every branch.
func WithHook(hook sim.Hook) Option {
	return func(s *Simulator) {
		s.AcceptHook(hook)
	}
}

// NewSimulator creates a simulator for p.
func NewSimulator(p predictor.Predictor, opts ...Option) *Simulator {
	s := &Simulator{
		HookableBase: sim.NewHookableBase(),
		predictor:    p,
		sites:        mapset.NewThreadUnsafeSet[uint32](),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Predictor returns the simulated predictor.
func (s *Simulator) Predictor() predictor.Predictor {
	return s.predictor
}

// Stats returns the statistics gathered so far.
func (s *Simulator) Stats() Stats {
	stats := s.stats
	stats.Sites = s.sites.Cardinality()
	return stats
}

// Step simulates one branch and reports whether it was predicted correctly.
func (s *Simulator) Step(rec trace.Record) bool {
	prediction := s.predictor.Predict(rec.PC)

	event := BranchEvent{
		Seq:        s.stats.Branches,
		Record:     rec,
		Prediction: prediction,
	}

	s.stats.Branches++
	if event.Correct() {
		s.stats.Correct++
	} else {
		s.stats.Mispredictions++
	}
	if rec.Outcome == predictor.Taken {
		s.stats.Taken++
	}
	s.sites.Add(rec.PC)

	s.predictor.Train(rec.PC, rec.Outcome)

	if s.NumHooks() > 0 {
		s.InvokeHook(sim.HookCtx{
			Domain: s,
			Pos:    HookPosBranch,
			Item:   event,
		})
	}

	return event.Correct()
}

// Run simulates every record r yields. A malformed record stops the run; the
// statistics up to that record are returned with the error.
func (s *Simulator) Run(r *trace.Reader) (Stats, error) {
	for {
		rec, err := r.Next()
		if err == io.EOF {
			return s.Stats(), nil
		}
		if err != nil {
			return s.Stats(), err
		}

		s.Step(rec)
	}
}
