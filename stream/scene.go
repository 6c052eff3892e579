package stream

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/matt-g-everett/ledseq/stream/chain"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v2"
)

// Scene errors.
var (
	ErrElementNotFound  = errors.New("element not found")
	ErrDuplicateElement = errors.New("duplicate element")
	ErrNoElements       = errors.New("scene has no elements")
)

// gradientChroma and gradientLuminance keep gradient backgrounds dim enough
// for elements to stand out.
const (
	gradientChroma    = 1.0
	gradientLuminance = 0.05
)

// A Scene is a background plus the elements drawn over it. It is an
// Animation: each frame runs every element's sequences to runtimeMs and
// renders them in order.
type Scene struct {
	Background colorful.Color
	Gradient   GradientTable

	numPixels int
	elements  []*Element
	byName    map[string]*Element
	events    chain.Emitter
	logger    zerolog.Logger
}

// NewScene creates an empty Scene for a strip of numPixels.
func NewScene(numPixels int, background colorful.Color) *Scene {
	s := new(Scene)
	s.Background = background
	s.numPixels = numPixels
	s.byName = make(map[string]*Element)
	s.events = chain.NewEmitter()
	s.logger = zerolog.Nop()
	return s
}

// SetLogger sets the logger handed to elements added from now on.
func (s *Scene) SetLogger(l zerolog.Logger) {
	s.logger = l
}

// Add attaches e to the scene. Sequences created on e afterwards report
// their events through the scene.
func (s *Scene) Add(e *Element) error {
	if _, ok := s.byName[e.Name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateElement, e.Name)
	}
	e.UseEmitter(s.events)
	e.SetLogger(s.logger)
	s.elements = append(s.elements, e)
	s.byName[e.Name] = e
	return nil
}

// Element finds an element by name.
func (s *Scene) Element(name string) (*Element, error) {
	e, ok := s.byName[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrElementNotFound, name)
	}
	return e, nil
}

// Elements returns the elements in draw order.
func (s *Scene) Elements() []*Element {
	return s.elements
}

// On subscribes fn to sequence events from every element in the scene.
func (s *Scene) On(name string, fn chain.Listener) {
	s.events.On(name, fn)
}

// CalculateFrame creates a new Frame instance.
func (s *Scene) CalculateFrame(runtimeMs int64) *Frame {
	f := NewFrame(s.numPixels)
	if len(s.Gradient) > 0 {
		s.Gradient.Paint(f, gradientChroma, gradientLuminance)
	} else {
		f.Fill(s.Background)
	}

	for _, e := range s.elements {
		e.Run(runtimeMs)
		e.Render(f)
	}

	return f
}

func (s *Scene) Pause() {
	for _, e := range s.elements {
		e.Pause()
	}
}

func (s *Scene) Resume() {
	for _, e := range s.elements {
		e.Resume()
	}
}

func (s *Scene) Abort() {
	for _, e := range s.elements {
		e.Abort()
	}
}

// Statuses reports every element in draw order.
func (s *Scene) Statuses() []ElementStatus {
	out := make([]ElementStatus, 0, len(s.elements))
	for _, e := range s.elements {
		out = append(out, e.Status())
	}
	return out
}

type sceneFile struct {
	Background string        `yaml:"background"`
	Gradient   GradientTable `yaml:"gradient"`
	Elements   []elementSpec `yaml:"elements"`
}

type elementSpec struct {
	Name     string         `yaml:"name"`
	Position int            `yaml:"position"`
	Length   int            `yaml:"length"`
	Colour   string         `yaml:"colour"`
	Infinite bool           `yaml:"infinite"`
	Defaults chain.Defaults `yaml:"defaults"`
	Steps    []stepSpec     `yaml:"steps"`
}

type stepSpec struct {
	Translate []float64 `yaml:"translate"`
	Rotate    []float64 `yaml:"rotate"`
	Scale     []float64 `yaml:"scale"`
	Opacity   *float64  `yaml:"opacity"`
	Duration  int64     `yaml:"duration"`
	Ease      string    `yaml:"ease"`
	Delay     int64     `yaml:"delay"`
}

func (sp stepSpec) step() (chain.Step, error) {
	var step chain.Step
	var err error
	if step.Translate, err = vec3("translate", sp.Translate); err != nil {
		return step, err
	}
	if step.Rotate, err = vec3("rotate", sp.Rotate); err != nil {
		return step, err
	}
	if step.Scale, err = vec3("scale", sp.Scale); err != nil {
		return step, err
	}
	step.Opacity = sp.Opacity
	step.Duration = sp.Duration
	step.Ease = sp.Ease
	step.Delay = sp.Delay
	return step, nil
}

// vec3 accepts one to three components; missing ones are zero.
func vec3(field string, v []float64) (*chain.Vec3, error) {
	if v == nil {
		return nil, nil
	}
	if len(v) == 0 || len(v) > 3 {
		return nil, fmt.Errorf("%s needs 1 to 3 values, got %d", field, len(v))
	}
	var out chain.Vec3
	copy(out[:], v)
	return &out, nil
}

func parseColour(field, hex string) (colorful.Color, error) {
	if strings.TrimSpace(hex) == "" {
		return colorful.Color{}, nil
	}
	c, err := colorful.Hex(hex)
	if err != nil {
		return colorful.Color{}, fmt.Errorf("%s %q: %w", field, hex, err)
	}
	return c, nil
}

// ParseScene builds a Scene from YAML. Each element's steps are chained into
// one sequence that starts on the first frame.
func ParseScene(data []byte, numPixels int, logger zerolog.Logger) (*Scene, error) {
	var file sceneFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("decode scene: %w", err)
	}
	if len(file.Elements) == 0 {
		return nil, ErrNoElements
	}

	background, err := parseColour("background", file.Background)
	if err != nil {
		return nil, err
	}

	s := NewScene(numPixels, background)
	s.Gradient = file.Gradient
	s.SetLogger(logger)

	for i, spec := range file.Elements {
		name := strings.TrimSpace(spec.Name)
		if name == "" {
			return nil, fmt.Errorf("element %d: name is required", i)
		}
		colour, err := parseColour("colour", spec.Colour)
		if err != nil {
			return nil, fmt.Errorf("element %s: %w", name, err)
		}

		e := NewElement(name, spec.Position, spec.Length, colour)
		e.SetDefaults(spec.Defaults)
		e.SetInfinite(spec.Infinite)
		if err := s.Add(e); err != nil {
			return nil, err
		}

		if len(spec.Steps) == 0 {
			continue
		}
		steps := make([]chain.Step, 0, len(spec.Steps))
		for j, sp := range spec.Steps {
			step, err := sp.step()
			if err != nil {
				return nil, fmt.Errorf("element %s step %d: %w", name, j, err)
			}
			steps = append(steps, step)
		}
		if _, err := e.Animate(steps...); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// LoadScene reads a scene file from disk.
func LoadScene(path string, numPixels int, logger zerolog.Logger) (*Scene, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("scene path is required")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scene %s: %w", path, err)
	}

	s, err := ParseScene(data, numPixels, logger)
	if err != nil {
		return nil, fmt.Errorf("parse scene %s: %w", path, err)
	}
	return s, nil
}
