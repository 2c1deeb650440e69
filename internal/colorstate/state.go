// Package colorstate holds the canonical color of a session in both RGB and
// HSL form and the one-directional conversions that keep the two in step.
package colorstate

import (
	"fmt"

	"github.com/lucasb-eyer/go-colorful"
)

// Channel bounds as exposed by the sliders.
const (
	RGBMax        = 255
	HueMax        = 360
	SaturationMax = 100
	LightnessMax  = 100
)

// ColorState is one color expressed on both axes. Values are only ever
// replaced through SyncFromRGB or SyncFromHSL.
type ColorState struct {
	R int `json:"r"`
	G int `json:"g"`
	B int `json:"b"`
	H int `json:"h"`
	S int `json:"s"`
	L int `json:"l"`
}

// Default returns the mid-gray starting color.
func Default() ColorState {
	return ColorState{R: 128, G: 128, B: 128, H: 0, S: 0, L: 50}
}

// Axis names the half of the state a user edited.
type Axis int

const (
	AxisRGB Axis = iota
	AxisHSL
)

func (a Axis) String() string {
	switch a {
	case AxisRGB:
		return "RGB"
	case AxisHSL:
		return "HSL"
	}
	return fmt.Sprintf("Axis(%d)", int(a))
}

// SyncFromRGB recomputes H, S and L from R, G and B. The RGB fields are
// returned unchanged.
func SyncFromRGB(state ColorState) ColorState {
	h, l, s := RGBToHLS(
		float64(state.R)/RGBMax,
		float64(state.G)/RGBMax,
		float64(state.B)/RGBMax,
	)
	state.H = int(h * HueMax)
	state.S = int(s * SaturationMax)
	state.L = int(l * LightnessMax)
	return state
}

// SyncFromHSL recomputes R, G and B from H, S and L. The HSL fields are
// returned unchanged.
func SyncFromHSL(state ColorState) ColorState {
	r, g, b := HLSToRGB(
		float64(state.H)/HueMax,
		float64(state.L)/LightnessMax,
		float64(state.S)/SaturationMax,
	)
	state.R = int(r * RGBMax)
	state.G = int(g * RGBMax)
	state.B = int(b * RGBMax)
	return state
}

// Apply runs the single sync function matching the edited axis.
func Apply(state ColorState, edited Axis) ColorState {
	if edited == AxisHSL {
		return SyncFromHSL(state)
	}
	return SyncFromRGB(state)
}

// Hex renders the RGB triple as a lowercase #rrggbb string.
func (c ColorState) Hex() string {
	return colorful.Color{
		R: float64(c.R) / RGBMax,
		G: float64(c.G) / RGBMax,
		B: float64(c.B) / RGBMax,
	}.Hex()
}

// RGBSummary and HSLSummary are the read-only captions shown for the
// inactive axis.
func (c ColorState) RGBSummary() string {
	return fmt.Sprintf("Current RGB: %d, %d, %d", c.R, c.G, c.B)
}

func (c ColorState) HSLSummary() string {
	return fmt.Sprintf("Current HSL: %d°, %d%%, %d%%", c.H, c.S, c.L)
}
