package mlmodel

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// StandardScaler applies (x - mean) / scale per feature.
type StandardScaler struct {
	Mean  []float64 `json:"mean"`
	Scale []float64 `json:"scale"`
}

func (s *StandardScaler) prepare(features int) error {
	if len(s.Mean) != features || len(s.Scale) != features {
		return invalid("scaler has %d means and %d scales, want %d", len(s.Mean), len(s.Scale), features)
	}
	// Constant features were fitted with a zero variance; they pass through unscaled.
	for i, v := range s.Scale {
		if v == 0 {
			s.Scale[i] = 1
		}
	}
	return nil
}

func (s *StandardScaler) Transform(x []float64) ([]float64, error) {
	if err := checkFeatures(x, len(s.Mean)); err != nil {
		return nil, err
	}
	out := make([]float64, len(x))
	floats.SubTo(out, x, s.Mean)
	floats.Div(out, s.Scale)
	return out, nil
}

// LabelEncoder maps encoded class indices back to their labels.
type LabelEncoder struct {
	Classes []string `json:"classes"`
}

func (e *LabelEncoder) prepare(int) error {
	if len(e.Classes) == 0 {
		return invalid("label encoder has no classes")
	}
	return nil
}

func (e *LabelEncoder) InverseTransform(code int) (string, error) {
	if code < 0 || code >= len(e.Classes) {
		return "", fmt.Errorf("%w: %d outside [0,%d)", ErrUnknownClass, code, len(e.Classes))
	}
	return e.Classes[code], nil
}
