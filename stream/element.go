package stream

import (
	"fmt"
	"math"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/matt-g-everett/ledseq/stream/chain"
	"github.com/rs/zerolog"
)

// An Element is a lit segment of the strip that sequences can move, scale,
// recolour and fade.
//
// translate[0] shifts the segment along the strip in pixels, scale[0]
// stretches its length, rotate[0] turns its hue in degrees and opacity blends
// it over whatever is underneath.
type Element struct {
	Name     string
	Position int
	Length   int
	Colour   colorful.Color

	defaults  chain.Defaults
	state     chain.Transform
	infinite  bool
	paused    bool
	sequences []*chain.Sequence
	emitter   chain.Emitter
	logger    zerolog.Logger
}

// ElementStatus is a point-in-time view of an Element.
type ElementStatus struct {
	Name      string          `json:"name"`
	CSS       string          `json:"css"`
	Transform chain.Transform `json:"transform"`
	Sequences int             `json:"sequences"`
	Infinite  bool            `json:"infinite"`
	Paused    bool            `json:"paused"`
}

// NewElement creates an Element at rest.
func NewElement(name string, position int, length int, colour colorful.Color) *Element {
	e := new(Element)
	e.Name = name
	e.Position = position
	e.Length = length
	e.Colour = colour
	e.state = chain.Identity()
	e.emitter = chain.NewEmitter()
	e.logger = zerolog.Nop()
	return e
}

// SetDefaults sets the timing and easing used by steps that leave them out.
func (e *Element) SetDefaults(d chain.Defaults) {
	e.defaults = d
}

// SetLogger sets the logger handed to new sequences.
func (e *Element) SetLogger(l zerolog.Logger) {
	e.logger = l.With().Str("element", e.Name).Logger()
}

// UseEmitter routes the events of sequences created from now on through em.
func (e *Element) UseEmitter(em chain.Emitter) {
	e.emitter = em
}

// Animate chains steps into a new sequence on the element. The sequence
// starts on the next Run, held if the element is paused.
func (e *Element) Animate(steps ...chain.Step) (*chain.Sequence, error) {
	seq, err := chain.New(e, steps, e.defaults,
		chain.WithEmitter(e.emitter),
		chain.WithLogger(e.logger))
	if err != nil {
		return nil, fmt.Errorf("animate %s: %w", e.Name, err)
	}
	if e.paused {
		seq.Pause()
	}
	e.sequences = append(e.sequences, seq)
	return seq, nil
}

// Run advances every live sequence to tick. Drained sequences are ended and
// dropped, or rewound when the element loops. Sequences ended from outside
// are dropped as they stand. Sequences added by listeners during Run start
// on the following tick.
func (e *Element) Run(tick int64) {
	current := e.sequences
	e.sequences = nil
	live := make([]*chain.Sequence, 0, len(current))
	for _, seq := range current {
		if seq.Ended() {
			continue
		}
		seq.Init(tick, false)
		seq.Run(tick)
		if seq.Done() {
			seq.End(false)
			if !e.infinite {
				continue
			}
			seq.Rewind()
		}
		live = append(live, seq)
	}
	e.sequences = append(live, e.sequences...)
}

func (e *Element) Pause() {
	e.paused = true
	for _, seq := range e.sequences {
		seq.Pause()
	}
}

func (e *Element) Resume() {
	e.paused = false
	for _, seq := range e.sequences {
		seq.Resume()
	}
}

// Abort ends every live sequence where it stands and drops them.
func (e *Element) Abort() {
	for _, seq := range e.sequences {
		seq.End(true)
	}
	e.sequences = nil
}

// Render draws the element into f.
func (e *Element) Render(f *Frame) {
	s := e.state
	if s.Opacity <= 0 {
		return
	}

	// Clamp to the strip in float64; transforms can be arbitrarily large.
	first := float64(e.Position) + math.Round(s.Translate[0])
	last := first + math.Round(float64(e.Length)*s.Scale[0])
	from := math.Max(first, 0)
	to := math.Min(last, float64(f.Len()))
	if !(from < to) {
		return
	}

	colour := e.rotatedColour(s.Rotate[0])
	for i := int(from); i < int(to); i++ {
		f.Blend(i, colour, math.Min(s.Opacity, 1))
	}
}

func (e *Element) rotatedColour(degrees float64) colorful.Color {
	if degrees == 0 {
		return e.Colour
	}
	h, c, l := e.Colour.Hcl()
	h = math.Mod(h+degrees, 360)
	if h < 0 {
		h += 360
	}
	return colorful.Hcl(h, c, l)
}

func (e *Element) CSS() string {
	return e.state.CSS()
}

func (e *Element) SetInfinite(infinite bool) {
	e.infinite = infinite
}

func (e *Element) Infinite() bool {
	return e.infinite
}

func (e *Element) State() chain.Transform {
	return e.state
}

func (e *Element) Apply(t chain.Transform) {
	e.state = t
}

// Live is the number of sequences still attached to the element.
func (e *Element) Live() int {
	return len(e.sequences)
}

func (e *Element) Status() ElementStatus {
	return ElementStatus{
		Name:      e.Name,
		CSS:       e.CSS(),
		Transform: e.state,
		Sequences: len(e.sequences),
		Infinite:  e.infinite,
		Paused:    e.paused,
	}
}
