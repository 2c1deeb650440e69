package mlmodel

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// BoostedNode is one node of a dumped gradient-boosted tree. Leaf is set on
// leaves only; internal nodes send x[Split] < SplitCondition to Yes.
type BoostedNode struct {
	Split          int      `json:"split"`
	SplitCondition float64  `json:"split_condition"`
	Yes            int      `json:"yes"`
	No             int      `json:"no"`
	Leaf           *float64 `json:"leaf,omitempty"`
}

type BoostedTree struct {
	Nodes []BoostedNode `json:"nodes"`
}

// GradientBoosting sums per-class tree outputs. Tree i contributes to class
// i mod NumClass; with NumClass <= 2 every tree adds to one logit margin.
type GradientBoosting struct {
	Classes   []int         `json:"classes"`
	NumClass  int           `json:"num_class"`
	BaseScore float64       `json:"base_score"`
	Trees     []BoostedTree `json:"trees"`

	outputs  int
	features int
}

func (g *GradientBoosting) prepare(features int) error {
	if len(g.Trees) == 0 {
		return invalid("model has no trees")
	}
	g.outputs = g.NumClass
	if g.outputs <= 2 {
		g.outputs = 1
		if g.BaseScore <= 0 || g.BaseScore >= 1 {
			return invalid("binary base_score %v outside (0,1)", g.BaseScore)
		}
	}
	classes := g.outputs
	if classes == 1 {
		classes = 2
	}
	if len(g.Classes) != 0 && len(g.Classes) != classes {
		return invalid("%d classes for %d outputs", len(g.Classes), classes)
	}

	for ti, tree := range g.Trees {
		n := len(tree.Nodes)
		if n == 0 {
			return invalid("tree %d has no nodes", ti)
		}
		for i, node := range tree.Nodes {
			if node.Leaf != nil {
				continue
			}
			if node.Yes <= i || node.Yes >= n || node.No <= i || node.No >= n {
				return invalid("tree %d node %d has children %d/%d outside (%d,%d)", ti, i, node.Yes, node.No, i, n)
			}
			if node.Split < 0 || node.Split >= features {
				return invalid("tree %d node %d splits on feature %d", ti, i, node.Split)
			}
		}
	}
	g.features = features
	return nil
}

func (t *BoostedTree) score(x []float64) float64 {
	node := 0
	for t.Nodes[node].Leaf == nil {
		n := t.Nodes[node]
		if x[n.Split] < n.SplitCondition {
			node = n.Yes
		} else {
			node = n.No
		}
	}
	return *t.Nodes[node].Leaf
}

// Margins returns the raw per-output scores before the link function.
func (g *GradientBoosting) Margins(x []float64) ([]float64, error) {
	if err := checkFeatures(x, g.features); err != nil {
		return nil, err
	}
	margins := make([]float64, g.outputs)
	base := g.BaseScore
	if g.outputs == 1 {
		base = math.Log(g.BaseScore / (1 - g.BaseScore))
	}
	for i := range margins {
		margins[i] = base
	}
	for i := range g.Trees {
		margins[i%g.outputs] += g.Trees[i].score(x)
	}
	return margins, nil
}

func (g *GradientBoosting) Predict(x []float64) (int, error) {
	margins, err := g.Margins(x)
	if err != nil {
		return 0, err
	}
	if g.outputs == 1 {
		if margins[0] > 0 {
			return classAt(g.Classes, 1), nil
		}
		return classAt(g.Classes, 0), nil
	}
	return classAt(g.Classes, floats.MaxIdx(margins)), nil
}
