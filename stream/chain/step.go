package chain

// DefaultEase is used when neither a step nor its sequence names an ease.
const DefaultEase = "linear"

// Step configures one unit of a sequence. Only the properties that are set
// are animated; the rest of the item's transform is left alone.
type Step struct {
	Translate *Vec3    `json:"translate,omitempty"`
	Rotate    *Vec3    `json:"rotate,omitempty"`
	Scale     *Vec3    `json:"scale,omitempty"`
	Opacity   *float64 `json:"opacity,omitempty"`
	Duration  int64    `json:"duration,omitempty"`
	Ease      string   `json:"ease,omitempty"`
	Delay     int64    `json:"delay,omitempty"`
}

// Defaults are the sequence-level fallbacks for Step timing and easing.
type Defaults struct {
	Duration int64  `yaml:"duration,omitempty" json:"duration,omitempty"`
	Ease     string `yaml:"ease,omitempty" json:"ease,omitempty"`
	Delay    int64  `yaml:"delay,omitempty" json:"delay,omitempty"`
}

// WithDefaults fills the unset timing fields of s from d. A zero or empty
// step value counts as unset. The ease falls back to DefaultEase when d has
// none either.
func (s Step) WithDefaults(d Defaults) Step {
	if s.Duration == 0 {
		s.Duration = d.Duration
	}
	if s.Delay == 0 {
		s.Delay = d.Delay
	}
	if s.Ease == "" {
		s.Ease = d.Ease
	}
	if s.Ease == "" {
		s.Ease = DefaultEase
	}
	return s
}
