package util

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/fogleman/ease"
)

// ErrUnknownEase is returned when an easing name has no registered curve.
var ErrUnknownEase = errors.New("unknown ease")

// EaseFunc maps linear progress in [0, 1] to eased progress.
type EaseFunc func(t float64) float64

var eases = map[string]EaseFunc{
	"linear": ease.Linear,

	"inquad":    ease.InQuad,
	"outquad":   ease.OutQuad,
	"inoutquad": ease.InOutQuad,

	"incubic":    ease.InCubic,
	"outcubic":   ease.OutCubic,
	"inoutcubic": ease.InOutCubic,

	"inquart":    ease.InQuart,
	"outquart":   ease.OutQuart,
	"inoutquart": ease.InOutQuart,

	"inquint":    ease.InQuint,
	"outquint":   ease.OutQuint,
	"inoutquint": ease.InOutQuint,

	"insine":    ease.InSine,
	"outsine":   ease.OutSine,
	"inoutsine": ease.InOutSine,

	"inexpo":    ease.InExpo,
	"outexpo":   ease.OutExpo,
	"inoutexpo": ease.InOutExpo,

	"incirc":    ease.InCirc,
	"outcirc":   ease.OutCirc,
	"inoutcirc": ease.InOutCirc,

	"inelastic":    ease.InElastic,
	"outelastic":   ease.OutElastic,
	"inoutelastic": ease.InOutElastic,

	"inback":    ease.InBack,
	"outback":   ease.OutBack,
	"inoutback": ease.InOutBack,

	"inbounce":    ease.InBounce,
	"outbounce":   ease.OutBounce,
	"inoutbounce": ease.InOutBounce,
}

// NormaliseEase folds an easing name into its registry key, so that
// "easeInOutQuad", "in-out-quad" and "InOutQuad" all resolve the same way.
func NormaliseEase(name string) string {
	key := strings.ToLower(strings.TrimSpace(name))
	key = strings.NewReplacer("-", "", "_", "", " ", "").Replace(key)
	if key != "ease" {
		key = strings.TrimPrefix(key, "ease")
	}
	return key
}

// Ease looks up an easing curve by name.
func Ease(name string) (EaseFunc, error) {
	f, ok := eases[NormaliseEase(name)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownEase, name)
	}
	return f, nil
}

// EaseNames lists the registered easing names in sorted order.
func EaseNames() []string {
	names := make([]string, 0, len(eases))
	for name := range eases {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
