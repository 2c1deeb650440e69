package mlmodel

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// LogisticRegression is a fitted linear classifier. A single coefficient row
// denotes a binary model.
type LogisticRegression struct {
	Classes   []int       `json:"classes"`
	Coef      [][]float64 `json:"coef"`
	Intercept []float64   `json:"intercept"`

	weights  *mat.Dense
	features int
}

func (m *LogisticRegression) prepare(features int) error {
	rows := len(m.Coef)
	if rows == 0 {
		return invalid("no coefficients")
	}
	if len(m.Intercept) != rows {
		return invalid("intercept has %d entries for %d coefficient rows", len(m.Intercept), rows)
	}
	outputs := rows
	if rows == 1 {
		outputs = 2
	}
	if len(m.Classes) != 0 && len(m.Classes) != outputs {
		return invalid("%d classes for %d outputs", len(m.Classes), outputs)
	}

	flat := make([]float64, 0, rows*features)
	for i, row := range m.Coef {
		if len(row) != features {
			return invalid("coefficient row %d has %d entries, want %d", i, len(row), features)
		}
		flat = append(flat, row...)
	}
	m.weights = mat.NewDense(rows, features, flat)
	m.features = features
	return nil
}

// DecisionFunction returns coef·x + intercept for every row.
func (m *LogisticRegression) DecisionFunction(x []float64) ([]float64, error) {
	if err := checkFeatures(x, m.features); err != nil {
		return nil, err
	}
	rows, _ := m.weights.Dims()
	scores := mat.NewVecDense(rows, nil)
	scores.MulVec(m.weights, mat.NewVecDense(len(x), x))
	out := scores.RawVector().Data
	floats.Add(out, m.Intercept)
	return out, nil
}

func (m *LogisticRegression) Predict(x []float64) (int, error) {
	scores, err := m.DecisionFunction(x)
	if err != nil {
		return 0, err
	}
	if len(scores) == 1 {
		if scores[0] > 0 {
			return classAt(m.Classes, 1), nil
		}
		return classAt(m.Classes, 0), nil
	}
	return classAt(m.Classes, floats.MaxIdx(scores)), nil
}
