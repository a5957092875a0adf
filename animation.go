package pptxhtml

import (
	"encoding/json"
	"fmt"
	"math"
)

// Effect is the name of an entrance animation.
type Effect string

// Supported entrance effects. Each has a keyframes rule in the rendered stylesheet.
const (
	EffectFade       Effect = "fade"
	EffectSlideLeft  Effect = "slide-left"
	EffectSlideRight Effect = "slide-right"
	EffectSlideUp    Effect = "slide-up"
	EffectSlideDown  Effect = "slide-down"
	EffectZoomIn     Effect = "zoom-in"
	EffectZoomOut    Effect = "zoom-out"
	EffectRotate     Effect = "rotate"
)

// Effects lists every supported effect.
var Effects = []Effect{
	EffectFade, EffectSlideLeft, EffectSlideRight, EffectSlideUp,
	EffectSlideDown, EffectZoomIn, EffectZoomOut, EffectRotate,
}

// Sequencing constants, in seconds.
const (
	stepDelay       = 0.2
	defaultDuration = 1.0
)

// AnimationEntry schedules the entrance of one shape.
type AnimationEntry struct {
	TargetID string  `json:"target"`
	Effect   Effect  `json:"effect"`
	Step     int     `json:"step"`
	Delay    float64 `json:"delay"`
	Duration float64 `json:"duration"`
}

// newAnimationEntry returns the entry for the shape at index within its slide.
func newAnimationEntry(targetID string, index int) AnimationEntry {
	return AnimationEntry{
		TargetID: targetID,
		Effect:   EffectFade,
		Step:     index,
		Delay:    math.Round(float64(index)*stepDelay*1000) / 1000,
		Duration: defaultDuration,
	}
}

// Style returns the inline declarations that keep the shape hidden until its step plays.
func (a AnimationEntry) Style() string {
	return fmt.Sprintf("visibility: hidden; animation-delay: %ss; animation-duration: %ss;",
		formatNum(a.Delay), formatNum(a.Duration))
}

// Schedule is the ordered animation sequence of one slide.
type Schedule []AnimationEntry

// JSON serializes the schedule for the client runtime. An empty schedule is "[]".
func (s Schedule) JSON() string {
	if len(s) == 0 {
		return "[]"
	}
	b, err := json.Marshal(s)
	if err != nil {
		return "[]"
	}
	return string(b)
}
