package chain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEmitterOrder(t *testing.T) {
	e := NewEmitter()
	var got []string
	e.On(EventStart, func(ev Event) { got = append(got, "first:"+ev.SequenceID) })
	e.On(EventStart, func(ev Event) { got = append(got, "second:"+ev.SequenceID) })
	e.On(EventEnd, func(ev Event) { got = append(got, "end") })
	e.On(EventEnd, nil)

	e.Emit(Event{Name: EventStart, SequenceID: "x"})
	assert.Equal(t, []string{"first:x", "second:x"}, got)

	e.Emit(Event{Name: EventEnd})
	assert.Equal(t, []string{"first:x", "second:x", "end"}, got)

	e.Emit(Event{Name: "other"})
	assert.Len(t, got, 3)
}

func TestEmitterSubscribeDuringEmit(t *testing.T) {
	e := NewEmitter()
	calls := 0
	e.On(EventStart, func(Event) {
		calls++
		e.On(EventStart, func(Event) { calls++ })
	})

	e.Emit(Event{Name: EventStart})
	assert.Equal(t, 1, calls)
	e.Emit(Event{Name: EventStart})
	assert.Equal(t, 3, calls)
}

func TestStepWithDefaults(t *testing.T) {
	d := Defaults{Duration: 300, Ease: "in-out-sine", Delay: 40}

	got := Step{}.WithDefaults(d)
	assert.Equal(t, int64(300), got.Duration)
	assert.Equal(t, "in-out-sine", got.Ease)
	assert.Equal(t, int64(40), got.Delay)

	got = Step{Duration: 10, Ease: "out-bounce", Delay: 5}.WithDefaults(d)
	assert.Equal(t, int64(10), got.Duration)
	assert.Equal(t, "out-bounce", got.Ease)
	assert.Equal(t, int64(5), got.Delay)

	got = Step{}.WithDefaults(Defaults{})
	assert.Equal(t, DefaultEase, got.Ease)
}

func TestTransformCSS(t *testing.T) {
	tr := Identity()
	tr.Translate = Vec3{12, 0, 0}
	tr.Rotate = Vec3{0, 0, 45}
	tr.Opacity = 0.5
	assert.Equal(t,
		"transform: translate3d(12px, 0px, 0px) rotateX(0deg) rotateY(0deg) rotateZ(45deg) scale3d(1, 1, 1); opacity: 0.5;",
		tr.CSS())
}
