// Package trace reads branch traces. Each line of a trace records one
// executed conditional branch as "0x<hex pc> <0|1>", where 1 means taken.
// Anything after the first character of the outcome field is ignored.
package trace

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/sarchlab/bpsim/predictor"
)

// Record is one executed branch.
type Record struct {
	PC      uint32
	Outcome predictor.Outcome
}

// String formats the record as a trace line.
func (r Record) String() string {
	return fmt.Sprintf("0x%x %d", r.PC, r.Outcome)
}

// ParseError reports a malformed trace line.
type ParseError struct {
	Line int    // 1-based line number
	Text string // the offending line
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("trace line %d: %v: %q", e.Line, e.Err, e.Text)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Errors returned inside a ParseError.
var (
	ErrMissingOutcome = errors.New("missing outcome field")
	ErrBadPC          = errors.New("malformed pc")
	ErrBadOutcome     = errors.New("outcome must be 0 or 1")
)

// ParseLine parses a single trace line.
func ParseLine(line string) (Record, error) {
	line = strings.TrimRight(line, "\r\n")

	rawPC, rest, found := strings.Cut(line, " ")
	if !found {
		return Record{}, ErrMissingOutcome
	}

	pc, err := parsePC(rawPC)
	if err != nil {
		return Record{}, err
	}

	rawOutcome, _, _ := strings.Cut(rest, " ")
	if rawOutcome == "" {
		return Record{}, ErrMissingOutcome
	}

	var outcome predictor.Outcome
	switch rawOutcome[0] {
	case '0':
		outcome = predictor.NotTaken
	case '1':
		outcome = predictor.Taken
	default:
		return Record{}, ErrBadOutcome
	}

	return Record{PC: pc, Outcome: outcome}, nil
}

func parsePC(raw string) (uint32, error) {
	if len(raw) < 3 || raw[0] != '0' || (raw[1] != 'x' && raw[1] != 'X') {
		return 0, ErrBadPC
	}

	v, err := strconv.ParseUint(raw[2:], 16, 32)
	if err != nil {
		return 0, errors.Wrap(ErrBadPC, err.Error())
	}
	return uint32(v), nil
}
