package predictor

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
)

// Perceptron predicts with a table of linear perceptrons over the global
// history. The branch PC selects the perceptron; each history position
// contributes its weight when the outcome there was Taken and the negated
// weight when it was NotTaken. There is no bias weight.
type Perceptron struct {
	historyLength uint32
	tableSize     uint32
	theta         int64

	history *History
	weights []int32 // tableSize rows of historyLength weights
}

// NewPerceptron creates a perceptron predictor with tableSize perceptrons of
// historyLength weights each, trained until the score magnitude reaches
// theta. historyLength and tableSize must be positive.
func NewPerceptron(historyLength, tableSize, theta uint32) *Perceptron {
	if historyLength == 0 {
		panic("predictor: perceptron history length must be > 0")
	}
	if tableSize == 0 {
		panic("predictor: perceptron table size must be > 0")
	}

	return &Perceptron{
		historyLength: historyLength,
		tableSize:     tableSize,
		theta:         int64(theta),
		history:       NewHistory(historyLength),
		weights:       make([]int32, uint64(historyLength)*uint64(tableSize)),
	}
}

// HistoryLength returns the number of weights per perceptron.
func (p *Perceptron) HistoryLength() uint32 {
	return p.historyLength
}

// TableSize returns the number of perceptrons.
func (p *Perceptron) TableSize() uint32 {
	return p.tableSize
}

// Theta returns the training threshold.
func (p *Perceptron) Theta() uint32 {
	return uint32(p.theta)
}

// Slot returns the perceptron index pc hashes to.
func (p *Perceptron) Slot(pc uint32) uint32 {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], pc)
	return uint32(xxhash.Sum64(buf[:]) % uint64(p.tableSize))
}

func (p *Perceptron) row(pc uint32) []int32 {
	start := uint64(p.Slot(pc)) * uint64(p.historyLength)
	return p.weights[start : start+uint64(p.historyLength)]
}

// Weights returns a copy of the weights of the perceptron pc selects.
func (p *Perceptron) Weights(pc uint32) []int32 {
	return append([]int32(nil), p.row(pc)...)
}

// Score returns the output of the perceptron pc selects under the current
// history.
func (p *Perceptron) Score(pc uint32) int64 {
	return p.score(p.row(pc))
}

func (p *Perceptron) score(w []int32) int64 {
	var y int64
	for i := range w {
		y += int64(w[i] * p.history.At(i).Sign())
	}
	return y
}

// Predict returns Taken when the score is positive. A zero score predicts
// NotTaken.
func (p *Perceptron) Predict(pc uint32) Outcome {
	return OutcomeOf(p.Score(pc) > 0)
}

// Train adjusts the selected perceptron when it mispredicted or its score
// magnitude is below theta, then shifts the outcome into the history.
func (p *Perceptron) Train(pc uint32, outcome Outcome) {
	w := p.row(pc)
	y := p.score(w)
	t := outcome.Sign()

	if sign(y) != t || abs(y) < p.theta {
		for i := range w {
			w[i] += t * p.history.At(i).Sign()
		}
	}

	p.history.Push(outcome)
}

// sign returns -1, 0 or +1. A zero score never matches an outcome.
func sign(y int64) int32 {
	switch {
	case y > 0:
		return 1
	case y < 0:
		return -1
	default:
		return 0
	}
}

func abs(y int64) int64 {
	if y < 0 {
		return -y
	}
	return y
}
