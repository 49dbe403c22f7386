// Package animation moves objects along arcs one frame at a time. The host
// owns the frame cadence and calls Step once per frame.
package animation

import (
	"fmt"

	"github.com/golang/geo/r3"

	"worldview/core"
)

// Target is anything that can be positioned in the scene
type Target interface {
	SetPosition(p r3.Vector)
}

// Stage owns the targets. Detach must tolerate a target that is already gone.
type Stage interface {
	Attached(t Target) bool
	Detach(t Target)
}

// State of an animator
type State int

const (
	Traveling State = iota
	Done
)

func (s State) String() string {
	switch s {
	case Traveling:
		return "traveling"
	case Done:
		return "done"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// cursor is created on the first step and counts the steps left to travel
type cursor struct {
	remaining int
}

// ArcAnimator walks a target along an arc over a fixed number of frames
type ArcAnimator struct {
	path     *core.ArcPath
	target   Target
	stage    Stage
	duration int

	cursor *cursor
	state  State
}

// New returns an animator that will take duration frames
func New(path *core.ArcPath, target Target, stage Stage, duration int) (*ArcAnimator, error) {
	if path == nil || target == nil || stage == nil {
		return nil, fmt.Errorf("%w: animator needs a path, a target and a stage", core.ErrInvalidGeometry)
	}
	if duration <= 0 {
		return nil, fmt.Errorf("%w: animation duration %d must be positive", core.ErrInvalidGeometry, duration)
	}
	return &ArcAnimator{path: path, target: target, stage: stage, duration: duration}, nil
}

// Step advances one frame and reports whether more frames are wanted.
// The target is placed at PointAt(remaining/duration); when no steps remain
// it is detached from the stage. A target removed by someone else ends the
// animation without touching it.
func (a *ArcAnimator) Step() bool {
	if a.state == Done {
		return false
	}
	if !a.stage.Attached(a.target) {
		a.finish()
		return false
	}
	if a.cursor == nil {
		a.cursor = &cursor{remaining: a.duration}
	}

	progress := float64(a.cursor.remaining) / float64(a.duration)
	a.target.SetPosition(a.path.PointAt(progress))
	a.cursor.remaining--

	if a.cursor.remaining <= 0 {
		a.finish()
		a.stage.Detach(a.target)
		return false
	}
	return true
}

func (a *ArcAnimator) finish() {
	a.state = Done
	a.cursor = nil
}

// State returns the current state
func (a *ArcAnimator) State() State {
	return a.state
}

// Remaining returns the steps left, duration before the first step
func (a *ArcAnimator) Remaining() int {
	switch {
	case a.state == Done:
		return 0
	case a.cursor == nil:
		return a.duration
	}
	return a.cursor.remaining
}

// Target returns the animated object
func (a *ArcAnimator) Target() Target {
	return a.target
}

// Path returns the arc being followed
func (a *ArcAnimator) Path() *core.ArcPath {
	return a.path
}
