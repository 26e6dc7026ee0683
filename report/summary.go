// Package report renders the result of a simulation run.
package report

import (
	"github.com/sarchlab/bpsim/driver"
	"github.com/sarchlab/bpsim/profile"
)

// Summary is the result of one simulation run.
type Summary struct {
	Scheme            string          `json:"scheme" yaml:"scheme"`
	Branches          uint64          `json:"branches" yaml:"branches"`
	Correct           uint64          `json:"correct" yaml:"correct"`
	Mispredictions    uint64          `json:"mispredictions" yaml:"mispredictions"`
	Taken             uint64          `json:"taken" yaml:"taken"`
	Sites             int             `json:"sites" yaml:"sites"`
	MispredictionRate float64         `json:"misprediction_rate" yaml:"misprediction_rate"`
	Hot               []profile.Entry `json:"hot,omitempty" yaml:"hot,omitempty"`
}

// NewSummary builds a Summary from run statistics and, optionally, the
// hottest branch sites.
func NewSummary(scheme string, stats driver.Stats, hot []profile.Entry) Summary {
	return Summary{
		Scheme:            scheme,
		Branches:          stats.Branches,
		Correct:           stats.Correct,
		Mispredictions:    stats.Mispredictions,
		Taken:             stats.Taken,
		Sites:             stats.Sites,
		MispredictionRate: stats.MispredictionRate(),
		Hot:               hot,
	}
}
