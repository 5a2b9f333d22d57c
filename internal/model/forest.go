package model

import (
	"fmt"
)

const leaf = -1

// Tree is one fitted decision tree in array form. Node 0 is the root; a
// node is a leaf when ChildrenLeft is -1.
type Tree struct {
	ChildrenLeft  []int       `json:"children_left"`
	ChildrenRight []int       `json:"children_right"`
	Feature       []int       `json:"feature"`
	Threshold     []float64   `json:"threshold"`
	Value         [][]float64 `json:"value"`
}

// RandomForest averages the normalised leaf distributions of its trees.
type RandomForest struct {
	nFeatures int
	classes   []int
	trees     []Tree
}

// NewRandomForest validates every tree against the feature count and class
// list so that prediction cannot index out of range.
func NewRandomForest(nFeatures int, classes []int, trees []Tree) (*RandomForest, error) {
	if nFeatures <= 0 {
		return nil, fmt.Errorf("n_features must be positive, got %d", nFeatures)
	}
	if len(classes) == 0 {
		return nil, fmt.Errorf("forest has no classes")
	}
	if len(trees) == 0 {
		return nil, fmt.Errorf("forest has no trees")
	}
	for i := range trees {
		if err := trees[i].validate(nFeatures, len(classes)); err != nil {
			return nil, fmt.Errorf("tree %d: %w", i, err)
		}
	}
	return &RandomForest{
		nFeatures: nFeatures,
		classes:   append([]int(nil), classes...),
		trees:     trees,
	}, nil
}

func (t *Tree) validate(nFeatures, nClasses int) error {
	n := len(t.ChildrenLeft)
	if n == 0 {
		return fmt.Errorf("empty tree")
	}
	if len(t.ChildrenRight) != n || len(t.Feature) != n || len(t.Threshold) != n || len(t.Value) != n {
		return fmt.Errorf("node arrays have inconsistent lengths")
	}
	for i := 0; i < n; i++ {
		if len(t.Value[i]) != nClasses {
			return fmt.Errorf("node %d has %d class weights, want %d", i, len(t.Value[i]), nClasses)
		}
		if t.ChildrenLeft[i] == leaf {
			continue
		}
		// children always come after their parent in fitted trees
		l, r := t.ChildrenLeft[i], t.ChildrenRight[i]
		if l <= i || l >= n || r <= i || r >= n {
			return fmt.Errorf("node %d has invalid children %d/%d", i, l, r)
		}
		if f := t.Feature[i]; f < 0 || f >= nFeatures {
			return fmt.Errorf("node %d splits on feature %d outside [0,%d)", i, f, nFeatures)
		}
	}
	return nil
}

func (f *RandomForest) NumFeatures() int { return f.nFeatures }

func (f *RandomForest) Classes() []int { return append([]int(nil), f.classes...) }

func (f *RandomForest) PredictProba(x []float64) ([]float64, error) {
	if len(x) != f.nFeatures {
		return nil, fmt.Errorf("input has %d features, model expects %d", len(x), f.nFeatures)
	}

	proba := make([]float64, len(f.classes))
	for i := range f.trees {
		dist := f.trees[i].Value[f.trees[i].apply(x)]
		var total float64
		for _, w := range dist {
			total += w
		}
		if total == 0 {
			continue
		}
		for c, w := range dist {
			proba[c] += w / total
		}
	}
	n := float64(len(f.trees))
	for c := range proba {
		proba[c] /= n
	}
	return proba, nil
}

// apply returns the index of the leaf x lands in. Features are compared at
// single precision, as the trees were fitted.
func (t *Tree) apply(x []float64) int {
	node := 0
	for t.ChildrenLeft[node] != leaf {
		if float64(float32(x[t.Feature[node]])) <= t.Threshold[node] {
			node = t.ChildrenLeft[node]
		} else {
			node = t.ChildrenRight[node]
		}
	}
	return node
}
