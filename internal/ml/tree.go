package ml

import (
	"sort"
)

// minSplitGain is the smallest loss reduction that justifies a split
const minSplitGain = 1e-6

// Node is one tree node. Leaves carry the already shrunk output value.
type Node struct {
	Leaf      bool    `json:"leaf"`
	Value     float64 `json:"value,omitempty"`
	Feature   int     `json:"feature,omitempty"`
	Threshold float64 `json:"threshold,omitempty"`
	Left      int     `json:"left,omitempty"`
	Right     int     `json:"right,omitempty"`
	Gain      float64 `json:"gain,omitempty"`
	Cover     float64 `json:"cover"`
}

// Tree is a regression tree stored as a flat node list rooted at index 0
type Tree struct {
	Nodes []Node `json:"nodes"`
}

// Predict walks x down to a leaf; x[f] < threshold goes left
func (t *Tree) Predict(x []float64) float64 {
	i := 0
	for {
		n := t.Nodes[i]
		if n.Leaf {
			return n.Value
		}
		if x[n.Feature] < n.Threshold {
			i = n.Left
		} else {
			i = n.Right
		}
	}
}

type split struct {
	feature   int
	threshold float64
	gain      float64
}

// treeBuilder grows one tree on second-order gradient statistics
type treeBuilder struct {
	X        [][]float64
	grad     []float64
	hess     []float64
	features []int
	params   Params
}

func (b *treeBuilder) build(rows []int) Tree {
	var t Tree
	b.grow(&t, rows, 0)
	return t
}

func (b *treeBuilder) grow(t *Tree, rows []int, depth int) int {
	var G, H float64
	for _, r := range rows {
		G += b.grad[r]
		H += b.hess[r]
	}

	id := len(t.Nodes)
	t.Nodes = append(t.Nodes, Node{
		Leaf:  true,
		Value: -G / (H + b.params.Lambda) * b.params.LearningRate,
		Cover: H,
	})
	if depth >= b.params.MaxDepth || len(rows) < 2 {
		return id
	}

	best, ok := b.bestSplit(rows, G, H)
	if !ok {
		return id
	}

	var left, right []int
	for _, r := range rows {
		if b.X[r][best.feature] < best.threshold {
			left = append(left, r)
		} else {
			right = append(right, r)
		}
	}

	l := b.grow(t, left, depth+1)
	r := b.grow(t, right, depth+1)
	t.Nodes[id] = Node{
		Feature:   best.feature,
		Threshold: best.threshold,
		Left:      l,
		Right:     r,
		Gain:      best.gain,
		Cover:     H,
	}
	return id
}

// bestSplit scans every sampled feature exhaustively. Ties keep the first
// candidate found, so results depend only on row and feature order.
func (b *treeBuilder) bestSplit(rows []int, G, H float64) (split, bool) {
	lambda := b.params.Lambda
	parent := G * G / (H + lambda)

	best := split{gain: minSplitGain}
	found := false
	sorted := make([]int, len(rows))

	for _, f := range b.features {
		copy(sorted, rows)
		sort.SliceStable(sorted, func(i, j int) bool {
			return b.X[sorted[i]][f] < b.X[sorted[j]][f]
		})

		var GL, HL float64
		for i := 0; i < len(sorted)-1; i++ {
			r := sorted[i]
			GL += b.grad[r]
			HL += b.hess[r]

			lo, hi := b.X[r][f], b.X[sorted[i+1]][f]
			if lo == hi {
				continue
			}
			GR, HR := G-GL, H-HL
			if HL < b.params.MinChildWeight || HR < b.params.MinChildWeight {
				continue
			}

			gain := 0.5 * (GL*GL/(HL+lambda) + GR*GR/(HR+lambda) - parent)
			if gain > best.gain {
				threshold := (lo + hi) / 2
				if threshold <= lo {
					threshold = hi
				}
				best = split{feature: f, threshold: threshold, gain: gain}
				found = true
			}
		}
	}
	return best, found
}
