package chain

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ErrNoSteps is returned when a sequence is built from an empty step list.
var ErrNoSteps = errors.New("sequence needs at least one step")

// State is the lifecycle state of a Sequence.
type State string

const (
	StateUnstarted State = "unstarted"
	StateRunning   State = "running"
	StateDrained   State = "drained"
	StateEnded     State = "ended"
)

// Option configures a Sequence.
type Option func(*Sequence)

// WithEmitter routes start and end events through e instead of a private
// emitter.
func WithEmitter(e Emitter) Option {
	return func(s *Sequence) {
		s.emitter = e
	}
}

// WithUnitFactory replaces the Tween used for each step.
func WithUnitFactory(f UnitFactory) Option {
	return func(s *Sequence) {
		s.newUnit = f
	}
}

// WithLogger sets the logger for lifecycle messages.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Sequence) {
		s.logger = l
	}
}

// A Sequence chains units on one item. Only the unit at the cursor (the
// head) is live; the ones behind it are initialised as they reach the head.
type Sequence struct {
	id   string
	item Item

	units  []Unit
	stale  []bool // unit must be force-initialised when it next becomes head
	cursor int

	start   int64
	started bool
	ended   bool
	paused  bool
	handoff int64 // completion tick of the last retired unit
	chained bool

	delay    int64
	easeName string
	duration int64

	newUnit UnitFactory
	emitter Emitter
	logger  zerolog.Logger
}

// New builds one unit per step, merging each step with defaults.
func New(item Item, steps []Step, defaults Defaults, opts ...Option) (*Sequence, error) {
	if len(steps) == 0 {
		return nil, ErrNoSteps
	}

	s := &Sequence{
		id:       uuid.NewString(),
		item:     item,
		easeName: defaults.Ease,
		newUnit:  newTweenUnit,
		logger:   zerolog.Nop(),
	}
	if s.easeName == "" {
		s.easeName = DefaultEase
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.emitter == nil {
		s.emitter = NewEmitter()
	}
	s.logger = s.logger.With().Str("sequence", s.id).Logger()

	defaults.Ease = s.easeName
	s.units = make([]Unit, len(steps))
	s.stale = make([]bool, len(steps))
	for i, step := range steps {
		u, err := s.newUnit(item, step.WithDefaults(defaults))
		if err != nil {
			return nil, fmt.Errorf("step %d: %w", i, err)
		}
		s.units[i] = u
		if end := u.Duration() + u.Delay(); i == 0 || end > s.duration {
			s.duration = end
		}
	}

	return s, nil
}

// Init starts the sequence at tick and initialises the head unit. It does
// nothing if the sequence has already started, unless force is set.
func (s *Sequence) Init(tick int64, force bool) {
	if s.started && !force {
		return
	}
	s.start = tick
	s.started = true
	if s.cursor < len(s.units) {
		s.units[s.cursor].Init(tick, force || s.stale[s.cursor])
		s.stale[s.cursor] = false
	}
	s.logger.Debug().Int64("tick", tick).Bool("force", force).Int("remaining", s.Remaining()).Msg("sequence start")
	s.emit(EventStart)
}

// Run advances the sequence to tick. Every head that has completed by tick
// is retired with a graceful End; the first head that has not is run.
//
// A head reached by retiring its predecessor is initialised at the
// predecessor's completion tick, so a single Run across a large gap plays the
// chain out exactly as if every intermediate tick had been seen.
func (s *Sequence) Run(tick int64) {
	if s.ended {
		return
	}
	for s.cursor < len(s.units) {
		head := s.units[s.cursor]
		at := tick
		if s.chained {
			at = s.handoff
		}
		head.Init(at, s.stale[s.cursor])
		s.stale[s.cursor] = false

		// A paused head is never retired; it gets the tick to hold its place.
		if s.paused {
			head.Run(tick)
			return
		}

		if start, _ := head.Start(); start+head.Duration() <= tick {
			s.cursor++
			s.handoff, s.chained = start+head.Duration(), true
			head.End(false)
			s.logger.Debug().Int64("tick", tick).Int("remaining", s.Remaining()).Msg("unit retired")
			continue
		}

		head.Run(tick)
		return
	}
}

// Pause pauses the head unit. Until Resume, Run only hands ticks to the
// head and never retires it.
func (s *Sequence) Pause() {
	if head, ok := s.live(); ok {
		s.paused = true
		head.Pause()
	}
}

// Resume resumes the head unit.
func (s *Sequence) Resume() {
	if head, ok := s.live(); ok {
		s.paused = false
		head.Resume()
	}
}

// Paused reports whether the sequence is holding its head.
func (s *Sequence) Paused() bool {
	return s.paused
}

// End ends every remaining unit in queue order, passing abort through, and
// emits a single end event. The sequence is inert afterwards.
func (s *Sequence) End(abort bool) {
	for _, u := range s.units[s.cursor:] {
		u.End(abort)
	}
	s.ended = true
	s.logger.Debug().Bool("abort", abort).Int("remaining", s.Remaining()).Msg("sequence end")
	s.emit(EventEnd)
}

// Rewind puts the sequence back before its first unit so it can be played
// again. Each unit is force-initialised when it next becomes head.
func (s *Sequence) Rewind() {
	s.cursor = 0
	s.started = false
	s.ended = false
	s.chained = false
	for i := range s.stale {
		s.stale[i] = true
	}
}

// Animate queues a new sequence on the underlying item.
func (s *Sequence) Animate(steps ...Step) (*Sequence, error) {
	return s.item.Animate(steps...)
}

// CSS returns the underlying item's CSS.
func (s *Sequence) CSS() string {
	return s.item.CSS()
}

// Infinite marks the underlying item to loop.
func (s *Sequence) Infinite() *Sequence {
	s.item.SetInfinite(true)
	return s
}

// On subscribes fn to the named event of this sequence. Events from other
// sequences sharing the emitter are not delivered to fn.
func (s *Sequence) On(name string, fn Listener) {
	if fn == nil {
		return
	}
	id := s.id
	s.emitter.On(name, func(ev Event) {
		if ev.SequenceID == id {
			fn(ev)
		}
	})
}

func (s *Sequence) ID() string {
	return s.id
}

// Start returns the tick the sequence was initialised at.
func (s *Sequence) Start() (int64, bool) {
	return s.start, s.started
}

// Delay is always zero; per-unit delays live on the units.
func (s *Sequence) Delay() int64 {
	return s.delay
}

func (s *Sequence) EaseName() string {
	return s.easeName
}

// Duration is the latest duration+delay over all units, as if they ran
// side by side. It does not gate advancement.
func (s *Sequence) Duration() int64 {
	return s.duration
}

// Len is the number of units the sequence was built with.
func (s *Sequence) Len() int {
	return len(s.units)
}

// Remaining is the number of units not yet retired.
func (s *Sequence) Remaining() int {
	return len(s.units) - s.cursor
}

// Head returns the current head unit.
func (s *Sequence) Head() (Unit, bool) {
	if s.cursor >= len(s.units) {
		return nil, false
	}
	return s.units[s.cursor], true
}

// Done reports whether every unit has been retired or the sequence ended.
func (s *Sequence) Done() bool {
	return s.ended || s.cursor >= len(s.units)
}

// Ended reports whether End has been called since the last Rewind.
func (s *Sequence) Ended() bool {
	return s.ended
}

func (s *Sequence) State() State {
	switch {
	case s.ended:
		return StateEnded
	case s.Done():
		return StateDrained
	case !s.started:
		return StateUnstarted
	default:
		return StateRunning
	}
}

func (s *Sequence) live() (Unit, bool) {
	if s.ended {
		return nil, false
	}
	return s.Head()
}

func (s *Sequence) emit(name string) {
	s.emitter.Emit(Event{Name: name, SequenceID: s.id})
}
