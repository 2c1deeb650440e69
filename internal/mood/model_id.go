package mood

import (
	"fmt"
	"strings"
)

// ModelID identifies one of the four shipped classifiers.
type ModelID int

const (
	LogisticRegression ModelID = iota
	RandomForest
	XGBoost
	DecisionTree
)

type modelMeta struct {
	name     string
	display  string
	artifact string
	scaled   bool
}

// Only the logistic regression was fitted on standardized features.
var modelMetas = [...]modelMeta{
	LogisticRegression: {name: "LogisticRegression", display: "Logistic Regression", artifact: "lrmodel.json", scaled: true},
	RandomForest:       {name: "RandomForest", display: "Random Forest", artifact: "rfmodel.json"},
	XGBoost:            {name: "XGBoost", display: "XGBoost", artifact: "xgmodel.json"},
	DecisionTree:       {name: "DecisionTree", display: "Decision Tree", artifact: "dtreemodel.json"},
}

// AllModels lists every model in menu order.
func AllModels() []ModelID {
	return []ModelID{LogisticRegression, RandomForest, XGBoost, DecisionTree}
}

// Valid reports whether m is one of the declared models.
func (m ModelID) Valid() bool {
	return m >= LogisticRegression && int(m) < len(modelMetas)
}

func (m ModelID) String() string {
	if !m.Valid() {
		return fmt.Sprintf("ModelID(%d)", int(m))
	}
	return modelMetas[m].name
}

// DisplayName is the label shown in the model menu.
func (m ModelID) DisplayName() string {
	if !m.Valid() {
		return m.String()
	}
	return modelMetas[m].display
}

// ArtifactName is the file holding the fitted model.
func (m ModelID) ArtifactName() string {
	if !m.Valid() {
		return ""
	}
	return modelMetas[m].artifact
}

// RequiresScaling reports whether features go through the scaler first.
func (m ModelID) RequiresScaling() bool {
	return m.Valid() && modelMetas[m].scaled
}

// ParseModelID accepts the identifier, the display name or a snake_case
// form, ignoring case.
func ParseModelID(s string) (ModelID, error) {
	key := normalizeName(s)
	for _, id := range AllModels() {
		if key == normalizeName(id.String()) || key == normalizeName(id.DisplayName()) {
			return id, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownModel, s)
}

func normalizeName(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer(" ", "", "_", "", "-", "").Replace(s)
}

// MarshalText lets ModelID travel as its identifier in JSON.
func (m ModelID) MarshalText() ([]byte, error) {
	if !m.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownModel, int(m))
	}
	return []byte(m.String()), nil
}

func (m *ModelID) UnmarshalText(text []byte) error {
	id, err := ParseModelID(string(text))
	if err != nil {
		return err
	}
	*m = id
	return nil
}
