// Package config describes which predictor to simulate and how the run is
// set up. A predictor is named by a scheme descriptor such as "gshare:13";
// the remaining settings come from an optional JSON or YAML file.
package config

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/pflag"

	"github.com/sarchlab/bpsim/predictor"
)

// Kind names a prediction scheme.
type Kind string

// Supported schemes.
const (
	Static     Kind = "static"
	GShare     Kind = "gshare"
	Tournament Kind = "tournament"
	Perceptron Kind = "perceptron"
)

// customPrefix is accepted as another name for the perceptron scheme.
const customPrefix = "custom"

// ErrUnknownScheme is returned for a descriptor that names no scheme.
var ErrUnknownScheme = errors.New("invalid predictor type")

// Scheme is a parsed scheme descriptor.
type Scheme struct {
	Kind   Kind
	Params []uint32
}

var _ pflag.Value = (*Scheme)(nil)

// ParseScheme parses descriptors of the form
//
//	static
//	gshare:<history bits>
//	tournament:<ghistory>:<lhistory>:<index>
//	perceptron:<history size>:<num perceptrons>:<theta>
//
// "custom:" is accepted for "perceptron:". Empty fields are ignored, as are
// fields beyond the ones a scheme uses.
func ParseScheme(s string) (Scheme, error) {
	scheme, err := parseScheme(s)
	if err != nil {
		return Scheme{}, err
	}
	if err := scheme.Validate(); err != nil {
		return Scheme{}, err
	}
	return scheme, nil
}

// parseScheme parses without checking the parameter count.
func parseScheme(s string) (Scheme, error) {
	var kind Kind
	var rest string

	switch {
	case strings.HasPrefix(s, string(Static)):
		return Scheme{Kind: Static}, nil
	case strings.HasPrefix(s, string(GShare)):
		kind, rest = GShare, strings.TrimPrefix(s, string(GShare))
	case strings.HasPrefix(s, string(Tournament)):
		kind, rest = Tournament, strings.TrimPrefix(s, string(Tournament))
	case strings.HasPrefix(s, string(Perceptron)):
		kind, rest = Perceptron, strings.TrimPrefix(s, string(Perceptron))
	case strings.HasPrefix(s, customPrefix):
		kind, rest = Perceptron, strings.TrimPrefix(s, customPrefix)
	default:
		return Scheme{}, errors.Wrapf(ErrUnknownScheme, "%q", s)
	}

	var params []uint32
	for _, field := range strings.Split(rest, ":") {
		if field == "" {
			continue
		}
		v, err := strconv.ParseUint(field, 10, 32)
		if err != nil {
			return Scheme{}, errors.Wrapf(err, "%s parameter %q", kind, field)
		}
		params = append(params, uint32(v))
	}

	return Scheme{Kind: kind, Params: params}, nil
}

// Arity returns the number of parameters the scheme kind takes.
func (k Kind) Arity() int {
	switch k {
	case GShare:
		return 1
	case Tournament, Perceptron:
		return 3
	default:
		return 0
	}
}

// Usage returns the descriptor form of the scheme kind.
func (k Kind) Usage() string {
	switch k {
	case GShare:
		return "gshare:<history bits>"
	case Tournament:
		return "tournament:<ghistory>:<lhistory>:<index>"
	case Perceptron:
		return "perceptron:<history_size>:<num_perceptrons>:<theta>"
	default:
		return string(k)
	}
}

// Validate checks the parameter count and the perceptron geometry.
func (s Scheme) Validate() error {
	switch s.Kind {
	case Static:
		return nil
	case GShare, Tournament, Perceptron:
	default:
		return errors.Wrapf(ErrUnknownScheme, "%q", s.Kind)
	}

	if len(s.Params) < s.Kind.Arity() {
		return errors.Errorf("%s required for %s predictor", s.Kind.Usage(), s.Kind)
	}

	if s.Kind == Perceptron {
		if s.Params[0] == 0 {
			return errors.New("perceptron history size must be >= 1")
		}
		if s.Params[1] == 0 {
			return errors.New("perceptron count must be >= 1")
		}
	}
	return nil
}

// Build creates the predictor the scheme describes.
func (s Scheme) Build() (predictor.Predictor, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	switch s.Kind {
	case GShare:
		return predictor.NewGShare(s.Params[0]), nil
	case Tournament:
		return predictor.NewTournament(predictor.TournamentConfig{
			GlobalHistoryBits: s.Params[0],
			LocalHistoryBits:  s.Params[1],
			PCIndexBits:       s.Params[2],
		}), nil
	case Perceptron:
		return predictor.NewPerceptron(s.Params[0], s.Params[1], s.Params[2]), nil
	default:
		return predictor.NewStatic(), nil
	}
}

// String formats the scheme as a descriptor.
func (s *Scheme) String() string {
	if s == nil || s.Kind == "" {
		return ""
	}

	n := s.Kind.Arity()
	if n > len(s.Params) {
		n = len(s.Params)
	}

	var b strings.Builder
	b.WriteString(string(s.Kind))
	for _, p := range s.Params[:n] {
		b.WriteByte(':')
		b.WriteString(strconv.FormatUint(uint64(p), 10))
	}
	return b.String()
}

// Set parses a descriptor given on the command line. The parameter count is
// checked later so that a perceptron history alone can be completed from a
// storage budget.
func (s *Scheme) Set(v string) error {
	scheme, err := parseScheme(v)
	if err != nil {
		return err
	}
	*s = scheme
	return nil
}

// Type names the flag value type in usage output.
func (*Scheme) Type() string {
	return "scheme"
}
