package ledstrip

// This file contains the bridge between program selections and the animation
// package. A Runner owns the program built from the most recent selection and
// renders it into a pixel buffer on request

import (
	"bytes"

	"github.com/karlmutch/errors"

	"github.com/Axil12/ws2812b-christmas-strip/animation"
	"github.com/Axil12/ws2812b-christmas-strip/colors"
	"github.com/Axil12/ws2812b-christmas-strip/model"
	"github.com/Axil12/ws2812b-christmas-strip/strip"
)

type Runner struct {
	buf     *strip.Buffer
	program animation.Program
	hash    []byte // selection the running program was built from
	failed  []byte // last selection that could not be built
	level   float64
}

// NewRunner creates a Runner for a strip of leds pixels, it shows black until a
// selection is made
func NewRunner(leds int) (r *Runner) {
	return &Runner{
		buf:   strip.NewBuffer(leds),
		level: 1,
	}
}

// Select switches to the program described by sel. The program is only rebuilt
// when the program or seed differ from the one running, so stateful programs
// carry on undisturbed across brightness changes. A selection that fails to
// build is reported once and the previous program keeps running
func (r *Runner) Select(sel *model.Selection) (changed bool, err errors.Error) {
	if sel == nil {
		return false, nil
	}
	r.level = sel.Level()

	hash := sel.ProgramHash()
	if bytes.Equal(r.hash, hash) || bytes.Equal(r.failed, hash) {
		return false, nil
	}

	prog, err := model.BuildSelection(sel, r.buf.NumPixels())
	if err != nil {
		r.failed = hash
		return false, err
	}
	r.program = prog
	r.hash = hash
	r.failed = nil
	return true, nil
}

// Program returns the program currently running, nil before the first
// successful selection
func (r *Runner) Program() animation.Program {
	return r.program
}

// Frame renders the current program at time t, in seconds, and returns the
// buffer holding the result. The buffer is reused by the next call
func (r *Runner) Frame(t float64) *strip.Buffer {
	if r.program == nil {
		r.buf.Fill(colors.Black)
		return r.buf
	}
	r.program.Render(r.buf, t)
	if r.level < 1 {
		r.buf.ApplyBrightness(r.level)
	}
	return r.buf
}
