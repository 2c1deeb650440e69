package validation

import (
	"fmt"
	"sort"

	apperrors "go-color-mood/internal/errors"
)

// SliderRange describes one writable slider
type SliderRange struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Min   int    `json:"min"`
	Max   int    `json:"max"`
}

// SliderValidator checks a slider edit against the active control set
type SliderValidator struct{}

// NewSliderValidator creates a slider validator
func NewSliderValidator() *SliderValidator {
	return &SliderValidator{}
}

// Validate rejects empty edits, channels outside ranges, and values beyond
// their slider bounds
func (v *SliderValidator) Validate(ranges []SliderRange, edits map[string]int) error {
	if len(edits) == 0 {
		return apperrors.NewValidationError("no slider values given", nil)
	}

	byKey := make(map[string]SliderRange, len(ranges))
	for _, r := range ranges {
		byKey[r.Key] = r
	}

	// Sorted so the reported problem is stable across requests
	keys := make([]string, 0, len(edits))
	for k := range edits {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		r, ok := byKey[key]
		if !ok {
			return apperrors.NewValidationError(
				fmt.Sprintf("channel %q is not editable in this mode", key), nil)
		}
		if value := edits[key]; value < r.Min || value > r.Max {
			return apperrors.NewValidationError(
				fmt.Sprintf("%s must be between %d and %d (got %d)", r.Label, r.Min, r.Max, value), nil)
		}
	}
	return nil
}
