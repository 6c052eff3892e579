package chain

import "fmt"

// recorder collects calls from fake units in the order they happen.
type recorder struct {
	calls []string
}

func (r *recorder) add(format string, args ...any) {
	r.calls = append(r.calls, fmt.Sprintf(format, args...))
}

type fakeUnit struct {
	name     string
	rec      *recorder
	duration int64
	delay    int64

	start   int64
	started bool
	inits   int
	runs    []int64
	ends    []bool
}

func (u *fakeUnit) Init(tick int64, force bool) {
	if u.started && !force {
		return
	}
	u.inits++
	u.start = tick + u.delay
	u.started = true
	u.rec.add("%s.init(%d,%t)", u.name, tick, force)
}

func (u *fakeUnit) Run(tick int64) {
	u.runs = append(u.runs, tick)
	u.rec.add("%s.run(%d)", u.name, tick)
}

func (u *fakeUnit) End(abort bool) {
	u.ends = append(u.ends, abort)
	u.rec.add("%s.end(%t)", u.name, abort)
}

func (u *fakeUnit) Pause()  { u.rec.add("%s.pause", u.name) }
func (u *fakeUnit) Resume() { u.rec.add("%s.resume", u.name) }

func (u *fakeUnit) Start() (int64, bool) { return u.start, u.started }
func (u *fakeUnit) Duration() int64      { return u.duration }
func (u *fakeUnit) Delay() int64         { return u.delay }

// fakeItem is a minimal Item holding a transform.
type fakeItem struct {
	state    Transform
	infinite bool
	animated [][]Step
	applied  int
}

func newFakeItem() *fakeItem {
	return &fakeItem{state: Identity()}
}

func (i *fakeItem) Animate(steps ...Step) (*Sequence, error) {
	i.animated = append(i.animated, steps)
	return New(i, steps, Defaults{})
}

func (i *fakeItem) CSS() string              { return i.state.CSS() }
func (i *fakeItem) SetInfinite(infinite bool) { i.infinite = infinite }
func (i *fakeItem) State() Transform          { return i.state }

func (i *fakeItem) Apply(t Transform) {
	i.applied++
	i.state = t
}

// fakeFactory hands out fakeUnits named a, b, c... and keeps them for
// inspection.
type fakeFactory struct {
	rec   *recorder
	units []*fakeUnit
}

func (f *fakeFactory) build(item Item, step Step) (Unit, error) {
	u := &fakeUnit{
		name:     string(rune('a' + len(f.units))),
		rec:      f.rec,
		duration: step.Duration,
		delay:    step.Delay,
	}
	f.units = append(f.units, u)
	return u, nil
}

func newFakeSequence(steps ...Step) (*Sequence, *fakeFactory, error) {
	f := &fakeFactory{rec: &recorder{}}
	s, err := New(newFakeItem(), steps, Defaults{}, WithUnitFactory(f.build))
	return s, f, err
}
