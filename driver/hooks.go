package driver

import (
	"fmt"
	"io"

	"github.com/sarchlab/akita/v4/sim"
)

// VerboseHook prints the prediction of every branch on its own line.
type VerboseHook struct {
	w   io.Writer
	err error
}

// NewVerboseHook creates a VerboseHook writing to w.
func NewVerboseHook(w io.Writer) *VerboseHook {
	return &VerboseHook{w: w}
}

// Func prints the prediction carried by a branch event.
func (h *VerboseHook) Func(ctx sim.HookCtx) {
	if ctx.Pos != HookPosBranch || h.err != nil {
		return
	}

	event := ctx.Item.(BranchEvent)
	_, h.err = fmt.Fprintln(h.w, event.Prediction)
}

// Err returns the first write error, if any.
func (h *VerboseHook) Err() error {
	return h.err
}

// CountHook calls a function every Interval branches. It is used for
// progress reporting on long traces.
type CountHook struct {
	Interval uint64
	Report   func(branches uint64, stats Stats)
}

// Func invokes Report when the branch count reaches a multiple of Interval.
func (h *CountHook) Func(ctx sim.HookCtx) {
	if ctx.Pos != HookPosBranch || h.Interval == 0 {
		return
	}

	event := ctx.Item.(BranchEvent)
	n := event.Seq + 1
	if n%h.Interval != 0 {
		return
	}

	s, ok := ctx.Domain.(*Simulator)
	if !ok {
		return
	}
	h.Report(n, s.Stats())
}
