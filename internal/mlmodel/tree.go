package mlmodel

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
)

const leafMarker = -1

// DecisionTree uses the parallel-array node layout of a fitted CART tree.
// A node whose left child is -1 is a leaf; Value holds per-class weights.
type DecisionTree struct {
	Classes       []int       `json:"classes"`
	ChildrenLeft  []int       `json:"children_left"`
	ChildrenRight []int       `json:"children_right"`
	Feature       []int       `json:"feature"`
	Threshold     []float64   `json:"threshold"`
	Value         [][]float64 `json:"value"`

	features int
}

func (t *DecisionTree) prepare(features int) error {
	n := len(t.ChildrenLeft)
	if n == 0 {
		return invalid("tree has no nodes")
	}
	if len(t.ChildrenRight) != n || len(t.Feature) != n || len(t.Threshold) != n || len(t.Value) != n {
		return invalid("tree arrays disagree on node count %d", n)
	}
	outputs := len(t.Value[0])
	if outputs == 0 {
		return invalid("tree has empty node values")
	}
	if len(t.Classes) != 0 && len(t.Classes) != outputs {
		return invalid("%d classes for %d outputs", len(t.Classes), outputs)
	}
	for i := 0; i < n; i++ {
		if len(t.Value[i]) != outputs {
			return invalid("node %d has %d values, want %d", i, len(t.Value[i]), outputs)
		}
		left, right := t.ChildrenLeft[i], t.ChildrenRight[i]
		if left == leafMarker {
			continue
		}
		if left <= i || left >= n || right <= i || right >= n {
			return invalid("node %d has children %d/%d outside (%d,%d)", i, left, right, i, n)
		}
		if t.Feature[i] < 0 || t.Feature[i] >= features {
			return invalid("node %d splits on feature %d", i, t.Feature[i])
		}
	}
	t.features = features
	return nil
}

// apply returns the index of the leaf reached by x. Children always have a
// higher index than their parent, so the walk terminates.
func (t *DecisionTree) apply(x []float64) int {
	node := 0
	for t.ChildrenLeft[node] != leafMarker {
		if x[t.Feature[node]] <= t.Threshold[node] {
			node = t.ChildrenLeft[node]
		} else {
			node = t.ChildrenRight[node]
		}
	}
	return node
}

// PredictProba returns the normalized class weights at the leaf reached by x.
func (t *DecisionTree) PredictProba(x []float64) ([]float64, error) {
	if err := checkFeatures(x, t.features); err != nil {
		return nil, err
	}
	leaf := t.Value[t.apply(x)]
	proba := append([]float64(nil), leaf...)
	if total := floats.Sum(proba); total > 0 {
		floats.Scale(1/total, proba)
	}
	return proba, nil
}

func (t *DecisionTree) Predict(x []float64) (int, error) {
	if err := checkFeatures(x, t.features); err != nil {
		return 0, err
	}
	return classAt(t.Classes, floats.MaxIdx(t.Value[t.apply(x)])), nil
}

// RandomForest averages the leaf distributions of its trees.
type RandomForest struct {
	Classes    []int          `json:"classes"`
	Estimators []DecisionTree `json:"estimators"`

	outputs int
}

func (f *RandomForest) prepare(features int) error {
	if len(f.Estimators) == 0 {
		return invalid("forest has no estimators")
	}
	for i := range f.Estimators {
		tree := &f.Estimators[i]
		if err := tree.prepare(features); err != nil {
			return fmt.Errorf("estimator %d: %w", i, err)
		}
		outputs := len(tree.Value[0])
		if i == 0 {
			f.outputs = outputs
		} else if outputs != f.outputs {
			return invalid("estimator %d has %d outputs, want %d", i, outputs, f.outputs)
		}
	}
	if len(f.Classes) != 0 && len(f.Classes) != f.outputs {
		return invalid("%d classes for %d outputs", len(f.Classes), f.outputs)
	}
	return nil
}

func (f *RandomForest) PredictProba(x []float64) ([]float64, error) {
	sum := make([]float64, f.outputs)
	for i := range f.Estimators {
		proba, err := f.Estimators[i].PredictProba(x)
		if err != nil {
			return nil, err
		}
		floats.Add(sum, proba)
	}
	floats.Scale(1/float64(len(f.Estimators)), sum)
	return sum, nil
}

func (f *RandomForest) Predict(x []float64) (int, error) {
	proba, err := f.PredictProba(x)
	if err != nil {
		return 0, err
	}
	return classAt(f.Classes, floats.MaxIdx(proba)), nil
}
