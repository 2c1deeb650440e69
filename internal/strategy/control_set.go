package strategy

import (
	"fmt"
	"strings"

	"go-color-mood/internal/colorstate"
	apperrors "go-color-mood/internal/errors"
	"go-color-mood/pkg/validation"
)

// Mode names the writable slider set
type Mode string

const (
	ModeRGB Mode = "rgb"
	ModeHSL Mode = "hsl"
)

// ParseMode accepts "rgb" or "hsl" in any case
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeRGB:
		return ModeRGB, nil
	case ModeHSL:
		return ModeHSL, nil
	}
	return "", apperrors.NewValidationError(fmt.Sprintf("unknown mode %q", s), nil).
		WithDetails("mode must be rgb or hsl")
}

// Label is the toggle caption for the mode
func (m Mode) Label() string {
	return strings.ToUpper(string(m))
}

// ControlSet defines the interface for one editable representation of a color
type ControlSet interface {
	// Mode identifies the control set
	Mode() Mode

	// Sliders lists the writable channels in display order
	Sliders() []validation.SliderRange

	// Read returns the current value of each writable channel
	Read(state colorstate.ColorState) map[string]int

	// Apply writes edits to this set's channels and resynchronizes the
	// other axis exactly once
	Apply(state colorstate.ColorState, edits map[string]int) (colorstate.ColorState, error)

	// Derived is the read-only caption for the other axis
	Derived(state colorstate.ColorState) string
}

// channelSet implements ControlSet for one axis of ColorState
type channelSet struct {
	mode      Mode
	axis      colorstate.Axis
	sliders   []validation.SliderRange
	fields    func(state *colorstate.ColorState) map[string]*int
	derived   func(state colorstate.ColorState) string
	validator *validation.SliderValidator
}

// NewRGBControlSet creates the red, green and blue slider set
func NewRGBControlSet() ControlSet {
	return &channelSet{
		mode: ModeRGB,
		axis: colorstate.AxisRGB,
		sliders: []validation.SliderRange{
			{Key: "r", Label: "Red", Min: 0, Max: colorstate.RGBMax},
			{Key: "g", Label: "Green", Min: 0, Max: colorstate.RGBMax},
			{Key: "b", Label: "Blue", Min: 0, Max: colorstate.RGBMax},
		},
		fields: func(s *colorstate.ColorState) map[string]*int {
			return map[string]*int{"r": &s.R, "g": &s.G, "b": &s.B}
		},
		derived:   colorstate.ColorState.HSLSummary,
		validator: validation.NewSliderValidator(),
	}
}

// NewHSLControlSet creates the hue, saturation and lightness slider set
func NewHSLControlSet() ControlSet {
	return &channelSet{
		mode: ModeHSL,
		axis: colorstate.AxisHSL,
		sliders: []validation.SliderRange{
			{Key: "h", Label: "Hue", Min: 0, Max: colorstate.HueMax},
			{Key: "s", Label: "Saturation", Min: 0, Max: colorstate.SaturationMax},
			{Key: "l", Label: "Lightness", Min: 0, Max: colorstate.LightnessMax},
		},
		fields: func(s *colorstate.ColorState) map[string]*int {
			return map[string]*int{"h": &s.H, "s": &s.S, "l": &s.L}
		},
		derived:   colorstate.ColorState.RGBSummary,
		validator: validation.NewSliderValidator(),
	}
}

// ForMode returns the control set for mode
func ForMode(mode Mode) (ControlSet, error) {
	switch mode {
	case ModeRGB:
		return NewRGBControlSet(), nil
	case ModeHSL:
		return NewHSLControlSet(), nil
	}
	return nil, apperrors.NewValidationError(fmt.Sprintf("unknown mode %q", mode), nil)
}

func (c *channelSet) Mode() Mode {
	return c.mode
}

func (c *channelSet) Sliders() []validation.SliderRange {
	out := make([]validation.SliderRange, len(c.sliders))
	copy(out, c.sliders)
	return out
}

func (c *channelSet) Read(state colorstate.ColorState) map[string]int {
	values := make(map[string]int, len(c.sliders))
	for key, ptr := range c.fields(&state) {
		values[key] = *ptr
	}
	return values
}

func (c *channelSet) Apply(state colorstate.ColorState, edits map[string]int) (colorstate.ColorState, error) {
	if err := c.validator.Validate(c.sliders, edits); err != nil {
		return state, err
	}

	next := state
	fields := c.fields(&next)
	for key, value := range edits {
		*fields[key] = value
	}
	return colorstate.Apply(next, c.axis), nil
}

func (c *channelSet) Derived(state colorstate.ColorState) string {
	return c.derived(state)
}
