package stream

import (
	"sync"

	"github.com/matt-g-everett/ledseq/stream/chain"
	"github.com/rs/zerolog"
)

// Controller that manages the live scene. It serialises the streamer's frame
// loop against control calls from the API, and cross-fades when a new scene
// replaces the current one.
type Controller struct {
	mu                  sync.Mutex
	scene               *Scene
	nextScene           *Scene
	runtimeMs           int64
	frameRate           float64
	transition          float64
	transitionTimeSecs  float64
	transitionIncrement float64
	logger              zerolog.Logger
}

// NewController creates an instance of a Controller.
func NewController(scene *Scene, frameRate float64, logger zerolog.Logger) *Controller {
	c := new(Controller)
	c.logger = logger
	c.frameRate = frameRate
	c.transition = 0.0
	c.transitionTimeSecs = 5.0
	c.transitionIncrement = 1.0 / (c.frameRate * c.transitionTimeSecs)
	c.scene = scene
	c.watch(scene)
	return c
}

func (c *Controller) watch(s *Scene) {
	s.On(chain.EventStart, func(ev chain.Event) {
		c.logger.Debug().Str("sequence", ev.SequenceID).Msg("sequence started")
	})
	s.On(chain.EventEnd, func(ev chain.Event) {
		c.logger.Debug().Str("sequence", ev.SequenceID).Msg("sequence ended")
	})
}

// SetTransitionTime sets how long a scene change takes to fade in.
func (c *Controller) SetTransitionTime(secs float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.transitionTimeSecs = secs
	c.transitionIncrement = 1.0
	if secs > 0 {
		c.transitionIncrement = 1.0 / (c.frameRate * secs)
	}
}

// SetScene fades from the current scene to s.
func (c *Controller) SetScene(s *Scene) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.watch(s)
	c.nextScene = s
	c.transition = 0.0
	c.logger.Info().Int("elements", len(s.Elements())).Msg("scene queued")
}

// CalculateFrame runs the scene (or both scenes mid-transition) to runtimeMs.
func (c *Controller) CalculateFrame(runtimeMs int64) *Frame {
	c.mu.Lock()
	defer c.mu.Unlock()

	var f *Frame
	c.runtimeMs = runtimeMs
	if c.nextScene != nil {
		f1 := c.scene.CalculateFrame(runtimeMs)
		f2 := c.nextScene.CalculateFrame(runtimeMs)
		f = f1.InterpolateFrame(f2, c.transition)
		c.transition += c.transitionIncrement

		if c.transition >= 1.0 {
			c.scene.Abort()
			c.scene = c.nextScene
			c.nextScene = nil
			c.transition = 0.0
			c.logger.Info().Int64("runtimeMs", runtimeMs).Msg("scene switched")
		}
	} else {
		f = c.scene.CalculateFrame(runtimeMs)
	}

	return f
}

func (c *Controller) current() *Scene {
	if c.nextScene != nil {
		return c.nextScene
	}
	return c.scene
}

func (c *Controller) Pause() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current().Pause()
	c.logger.Info().Msg("paused")
}

func (c *Controller) Resume() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current().Resume()
	c.logger.Info().Msg("resumed")
}

// Abort stops every sequence in the scene where it stands.
func (c *Controller) Abort() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current().Abort()
	c.logger.Info().Msg("aborted")
}

// Animate chains steps on the named element and returns the sequence ID.
func (c *Controller) Animate(name string, steps []chain.Step, infinite bool) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, err := c.current().Element(name)
	if err != nil {
		return "", err
	}
	seq, err := e.Animate(steps...)
	if err != nil {
		return "", err
	}
	if infinite {
		seq.Infinite()
	}
	c.logger.Info().Str("element", name).Str("sequence", seq.ID()).Int("steps", seq.Len()).Msg("animation queued")
	return seq.ID(), nil
}

// Statuses reports the elements of the scene being shown, or faded to.
func (c *Controller) Statuses() []ElementStatus {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current().Statuses()
}

// RuntimeMs is the tick of the last frame calculated.
func (c *Controller) RuntimeMs() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.runtimeMs
}
