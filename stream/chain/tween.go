package chain

import (
	"fmt"

	"github.com/matt-g-everett/ledseq/util"
)

// ErrUnknownEase is returned when a step names an ease that is not registered.
var ErrUnknownEase = util.ErrUnknownEase

// A Tween is the default Unit. It interpolates the item's transform from the
// state captured at Init toward the targets set on its step.
type Tween struct {
	item  Item
	step  Step
	curve util.EaseFunc

	start   int64
	started bool
	last    int64
	paused  bool
	initial Transform
}

// NewTween creates a Tween for an already merged step.
func NewTween(item Item, step Step) (*Tween, error) {
	curve, err := util.Ease(step.Ease)
	if err != nil {
		return nil, err
	}
	if step.Duration < 0 || step.Delay < 0 {
		return nil, fmt.Errorf("negative timing: duration %d, delay %d", step.Duration, step.Delay)
	}

	t := new(Tween)
	t.item = item
	t.step = step
	t.curve = curve
	return t, nil
}

func newTweenUnit(item Item, step Step) (Unit, error) {
	return NewTween(item, step)
}

// Init stamps the start tick and snapshots the item's current transform.
func (t *Tween) Init(tick int64, force bool) {
	if t.started && !force {
		return
	}
	t.start = tick + t.step.Delay
	t.started = true
	t.last = tick
	t.initial = t.item.State()
}

// Run applies the interpolated transform for tick.
func (t *Tween) Run(tick int64) {
	if !t.started {
		return
	}
	if t.paused {
		// Hold progress by sliding the start along with the clock.
		if tick > t.last {
			t.start += tick - t.last
		}
		t.last = tick
		return
	}
	t.last = tick
	if tick < t.start {
		return
	}
	t.item.Apply(t.at(t.curve(t.progress(tick))))
}

// End snaps the item to the step's targets unless abort is set.
func (t *Tween) End(abort bool) {
	if abort {
		return
	}
	if !t.started {
		t.initial = t.item.State()
	}
	t.item.Apply(t.at(1))
}

func (t *Tween) Pause() {
	t.paused = true
}

func (t *Tween) Resume() {
	t.paused = false
}

func (t *Tween) Start() (int64, bool) {
	return t.start, t.started
}

func (t *Tween) Duration() int64 {
	return t.step.Duration
}

func (t *Tween) Delay() int64 {
	return t.step.Delay
}

func (t *Tween) progress(tick int64) float64 {
	if t.step.Duration <= 0 {
		return 1
	}
	p := float64(tick-t.start) / float64(t.step.Duration)
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}

func (t *Tween) at(e float64) Transform {
	out := t.initial
	if t.step.Translate != nil {
		out.Translate = lerpVec(t.initial.Translate, *t.step.Translate, e)
	}
	if t.step.Rotate != nil {
		out.Rotate = lerpVec(t.initial.Rotate, *t.step.Rotate, e)
	}
	if t.step.Scale != nil {
		out.Scale = lerpVec(t.initial.Scale, *t.step.Scale, e)
	}
	if t.step.Opacity != nil {
		out.Opacity = lerp(t.initial.Opacity, *t.step.Opacity, e)
	}
	return out
}

func lerp(a, b, e float64) float64 {
	return a + (b-a)*e
}

func lerpVec(a, b Vec3, e float64) Vec3 {
	return Vec3{lerp(a[0], b[0], e), lerp(a[1], b[1], e), lerp(a[2], b[2], e)}
}
