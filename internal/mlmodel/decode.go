// Package mlmodel decodes exported classifier, scaler and label encoder
// artifacts and runs inference on them.
//
// Every artifact is a JSON object with a "kind" discriminator; the remaining
// fields mirror the attributes of the fitted estimator it was exported from.
package mlmodel

import (
	"encoding/json"
	"errors"
	"fmt"

	"go-color-mood/internal/mood"
)

// Artifact kinds.
const (
	KindLogisticRegression = "logistic_regression"
	KindDecisionTree       = "decision_tree"
	KindRandomForest       = "random_forest"
	KindGradientBoosting   = "gradient_boosting"
	KindStandardScaler     = "standard_scaler"
	KindLabelEncoder       = "label_encoder"
)

var (
	// ErrUnsupportedKind is returned for an unknown or mismatched "kind".
	ErrUnsupportedKind = errors.New("unsupported artifact kind")

	// ErrInvalidArtifact is returned when an artifact is malformed.
	ErrInvalidArtifact = errors.New("invalid artifact")

	// ErrFeatureCount is returned when an input vector has the wrong length.
	ErrFeatureCount = errors.New("unexpected feature count")

	// ErrUnknownClass is returned when decoding a class index the encoder
	// was not fitted with.
	ErrUnknownClass = errors.New("unknown class index")
)

type envelope struct {
	Kind string `json:"kind"`
}

func peekKind(data []byte) (string, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidArtifact, err)
	}
	if env.Kind == "" {
		return "", fmt.Errorf("%w: missing kind", ErrInvalidArtifact)
	}
	return env.Kind, nil
}

// validator is implemented by every decoded artifact.
type validator interface {
	prepare(features int) error
}

func decodeInto(data []byte, v validator) error {
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidArtifact, err)
	}
	return v.prepare(mood.FeatureCount)
}

// DecodeClassifier decodes any of the supported classifier kinds.
func DecodeClassifier(data []byte) (mood.Classifier, error) {
	kind, err := peekKind(data)
	if err != nil {
		return nil, err
	}

	var c interface {
		mood.Classifier
		validator
	}
	switch kind {
	case KindLogisticRegression:
		c = &LogisticRegression{}
	case KindDecisionTree:
		c = &DecisionTree{}
	case KindRandomForest:
		c = &RandomForest{}
	case KindGradientBoosting:
		c = &GradientBoosting{}
	default:
		return nil, fmt.Errorf("%w: %q is not a classifier", ErrUnsupportedKind, kind)
	}

	if err := decodeInto(data, c); err != nil {
		return nil, fmt.Errorf("%s: %w", kind, err)
	}
	return c, nil
}

// DecodeScaler decodes a standard_scaler artifact.
func DecodeScaler(data []byte) (*StandardScaler, error) {
	kind, err := peekKind(data)
	if err != nil {
		return nil, err
	}
	if kind != KindStandardScaler {
		return nil, fmt.Errorf("%w: %q is not a scaler", ErrUnsupportedKind, kind)
	}
	s := &StandardScaler{}
	if err := decodeInto(data, s); err != nil {
		return nil, fmt.Errorf("%s: %w", kind, err)
	}
	return s, nil
}

// DecodeLabelEncoder decodes a label_encoder artifact.
func DecodeLabelEncoder(data []byte) (*LabelEncoder, error) {
	kind, err := peekKind(data)
	if err != nil {
		return nil, err
	}
	if kind != KindLabelEncoder {
		return nil, fmt.Errorf("%w: %q is not a label encoder", ErrUnsupportedKind, kind)
	}
	e := &LabelEncoder{}
	if err := decodeInto(data, e); err != nil {
		return nil, fmt.Errorf("%s: %w", kind, err)
	}
	return e, nil
}

func checkFeatures(x []float64, want int) error {
	if len(x) != want {
		return fmt.Errorf("%w: got %d, want %d", ErrFeatureCount, len(x), want)
	}
	return nil
}

// classAt maps an output index to its encoded class. An empty class list
// means the index is the class.
func classAt(classes []int, idx int) int {
	if len(classes) == 0 {
		return idx
	}
	return classes[idx]
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidArtifact, fmt.Sprintf(format, args...))
}
