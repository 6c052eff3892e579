/*
Package chain runs a list of animation units against one item, one after
another, driven by an external tick.

A Sequence never starts a timer of its own. The caller advances it by calling
Run with a monotonically increasing tick (milliseconds in this repository).
Each unit is initialised lazily when it becomes the head of the queue, so the
units of a sequence never overlap:

	seq, err := chain.New(element, []chain.Step{
		{Translate: &chain.Vec3{40, 0, 0}, Duration: 1000},
		{Opacity: &zero, Duration: 500, Ease: "out-quad"},
	}, chain.Defaults{Ease: "linear"})
	seq.Init(now, false)
	for tick := range ticks {
		seq.Run(tick)
	}

A Sequence is not safe for concurrent use. Serialise calls from the loop that
owns the clock.
*/
package chain

import "fmt"

// Vec3 is an x, y, z triple.
type Vec3 [3]float64

// Transform is the animatable state of an Item.
type Transform struct {
	Translate Vec3    `json:"translate"`
	Rotate    Vec3    `json:"rotate"`
	Scale     Vec3    `json:"scale"`
	Opacity   float64 `json:"opacity"`
}

// Identity returns the resting transform: no offset, no rotation, unit scale,
// fully opaque.
func Identity() Transform {
	return Transform{
		Scale:   Vec3{1, 1, 1},
		Opacity: 1,
	}
}

// CSS renders the transform as CSS declarations.
func (t Transform) CSS() string {
	return fmt.Sprintf(
		"transform: translate3d(%gpx, %gpx, %gpx) rotateX(%gdeg) rotateY(%gdeg) rotateZ(%gdeg) scale3d(%g, %g, %g); opacity: %g;",
		t.Translate[0], t.Translate[1], t.Translate[2],
		t.Rotate[0], t.Rotate[1], t.Rotate[2],
		t.Scale[0], t.Scale[1], t.Scale[2],
		t.Opacity)
}

// Item is the visual target shared by every unit of a sequence.
type Item interface {
	// Animate queues a new chained animation on the item.
	Animate(steps ...Step) (*Sequence, error)
	CSS() string
	SetInfinite(infinite bool)
	State() Transform
	Apply(t Transform)
}

// Unit is a single animation phase.
//
// Init is idempotent unless force is set. Start reports the absolute tick at
// which the unit begins (its init tick plus delay); ok is false until Init has
// been called.
type Unit interface {
	Init(tick int64, force bool)
	Run(tick int64)
	End(abort bool)
	Pause()
	Resume()
	Start() (tick int64, ok bool)
	Duration() int64
	Delay() int64
}

// UnitFactory builds the unit for one merged step.
type UnitFactory func(item Item, step Step) (Unit, error)
