// Package mood turns a color into a mood label using one of the pre-trained
// classifiers in a Bundle.
package mood

import (
	"errors"
	"fmt"

	"go-color-mood/internal/colorstate"
)

var (
	// ErrUnavailable is returned when the model bundle could not be loaded.
	ErrUnavailable = errors.New("prediction unavailable")

	// ErrUnknownModel is returned for identifiers outside the enumeration.
	ErrUnknownModel = errors.New("unknown model")

	// ErrIncompleteBundle is returned by Bundle.Validate.
	ErrIncompleteBundle = errors.New("incomplete model bundle")
)

// FeatureNames is the column order the models were trained on.
var FeatureNames = [...]string{"R", "G", "B", "Hue", "Saturation", "Lightness"}

// FeatureCount is the length of every feature vector.
const FeatureCount = len(FeatureNames)

// Classifier maps a feature vector to an encoded class index.
type Classifier interface {
	Predict(features []float64) (int, error)
}

// Scaler applies a fitted transform to a feature vector.
type Scaler interface {
	Transform(features []float64) ([]float64, error)
}

// LabelDecoder maps an encoded class index back to its label.
type LabelDecoder interface {
	InverseTransform(code int) (string, error)
}

// Bundle is the immutable set of fitted artifacts.
type Bundle struct {
	Models map[ModelID]Classifier
	Scaler Scaler
	Labels LabelDecoder
}

// Validate checks that every model, the scaler and the label decoder are set.
func (b *Bundle) Validate() error {
	if b == nil {
		return fmt.Errorf("%w: nil bundle", ErrIncompleteBundle)
	}
	var missing []error
	for _, id := range AllModels() {
		if b.Models[id] == nil {
			missing = append(missing, fmt.Errorf("%w: no %s model", ErrIncompleteBundle, id))
		}
	}
	if b.Scaler == nil {
		missing = append(missing, fmt.Errorf("%w: no scaler", ErrIncompleteBundle))
	}
	if b.Labels == nil {
		missing = append(missing, fmt.Errorf("%w: no label decoder", ErrIncompleteBundle))
	}
	return errors.Join(missing...)
}

// Features builds the model input in the fixed R, G, B, H, S, L order.
func Features(state colorstate.ColorState) []float64 {
	return []float64{
		float64(state.R),
		float64(state.G),
		float64(state.B),
		float64(state.H),
		float64(state.S),
		float64(state.L),
	}
}

// Predictor dispatches predictions to the bundle. A Predictor built with
// Unavailable answers every call with ErrUnavailable.
type Predictor struct {
	bundle  *Bundle
	loadErr error
}

// NewPredictor wraps a complete bundle.
func NewPredictor(bundle *Bundle) (*Predictor, error) {
	if err := bundle.Validate(); err != nil {
		return nil, err
	}
	return &Predictor{bundle: bundle}, nil
}

// Unavailable returns a Predictor that reports loadErr on every call.
func Unavailable(loadErr error) *Predictor {
	if loadErr == nil {
		loadErr = errors.New("no model bundle")
	}
	return &Predictor{loadErr: loadErr}
}

// Available reports whether predictions can be made.
func (p *Predictor) Available() bool {
	return p != nil && p.bundle != nil
}

// LoadError is the reason the predictor is unavailable, or nil.
func (p *Predictor) LoadError() error {
	if p == nil {
		return ErrUnavailable
	}
	return p.loadErr
}

// Predict returns the mood label the chosen model assigns to state.
func (p *Predictor) Predict(state colorstate.ColorState, id ModelID) (string, error) {
	if !p.Available() {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, p.LoadError())
	}
	if !id.Valid() {
		return "", fmt.Errorf("%w: %d", ErrUnknownModel, int(id))
	}

	features := Features(state)
	if id.RequiresScaling() {
		scaled, err := p.bundle.Scaler.Transform(features)
		if err != nil {
			return "", fmt.Errorf("scale features for %s: %w", id, err)
		}
		features = scaled
	}

	code, err := p.bundle.Models[id].Predict(features)
	if err != nil {
		return "", fmt.Errorf("%s inference: %w", id, err)
	}

	label, err := p.bundle.Labels.InverseTransform(code)
	if err != nil {
		return "", fmt.Errorf("decode %s output %d: %w", id, code, err)
	}
	return label, nil
}
