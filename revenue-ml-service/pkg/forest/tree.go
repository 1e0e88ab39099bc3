/*******************************************************************************
* Contributors: BMC Helix, Inc.
*
* (c) Copyright 2020-2025 BMC Helix, Inc.

* SPDX-License-Identifier: Apache-2.0
*******************************************************************************/

package forest

import (
	"math"
	"math/rand"
	"sort"
)

const (
	leafFeature = -1
	// values closer than this are not split apart
	featureTolerance = 1e-7
	pureImpurity     = 1e-12
)

// Node is one entry of a flattened regression tree. Leaves have Feature -1.
type Node struct {
	Feature   int32   `json:"f"`
	Threshold float64 `json:"t,omitempty"`
	Left      int32   `json:"l,omitempty"`
	Right     int32   `json:"r,omitempty"`
	Value     float64 `json:"v"`
	Samples   int32   `json:"n"`
}

func (n Node) IsLeaf() bool {
	return n.Feature == leafFeature
}

// Tree is a regression tree rooted at Nodes[0]
type Tree struct {
	Nodes []Node `json:"nodes"`
}

// Predict walks x down to a leaf: x[feature] <= threshold goes left
func (t *Tree) Predict(x []float64) float64 {
	i := int32(0)
	for {
		node := t.Nodes[i]
		if node.IsLeaf() {
			return node.Value
		}
		if x[node.Feature] <= node.Threshold {
			i = node.Left
		} else {
			i = node.Right
		}
	}
}

// Depth is the number of edges on the longest root to leaf path
func (t *Tree) Depth() int {
	var walk func(i int32) int
	walk = func(i int32) int {
		node := t.Nodes[i]
		if node.IsLeaf() {
			return 0
		}
		return 1 + max(walk(node.Left), walk(node.Right))
	}
	if len(t.Nodes) == 0 {
		return 0
	}
	return walk(0)
}

type treeBuilder struct {
	cols       [][]float64
	y          []float64
	params     Params
	rng        *rand.Rand
	nodes      []Node
	importance []float64
	scratch    []int
}

type split struct {
	feature   int
	threshold float64
	found     bool
}

func newTreeBuilder(cols [][]float64, y []float64, params Params, seed int64) *treeBuilder {
	return &treeBuilder{
		cols:       cols,
		y:          y,
		params:     params,
		rng:        rand.New(rand.NewSource(seed)),
		importance: make([]float64, len(cols)),
	}
}

// build grows one tree on a bootstrap sample and returns it with its
// per-feature impurity decrease normalised to sum 1 (all zero for a single leaf).
func (b *treeBuilder) build() (Tree, []float64) {
	n := len(b.y)
	sample := make([]int, n)
	for i := range sample {
		sample[i] = b.rng.Intn(n)
	}
	b.scratch = make([]int, n)
	b.grow(sample, 0)

	total := 0.0
	for _, v := range b.importance {
		total += v
	}
	if total > 0 {
		for j := range b.importance {
			b.importance[j] /= total
		}
	}
	return Tree{Nodes: b.nodes}, b.importance
}

func (b *treeBuilder) grow(sample []int, depth int) int32 {
	n := len(sample)
	sum, sumSq := b.moments(sample)
	mean := sum / float64(n)
	impurity := math.Max(0, sumSq/float64(n)-mean*mean)

	idx := int32(len(b.nodes))
	b.nodes = append(b.nodes, Node{Feature: leafFeature, Value: mean, Samples: int32(n)})

	if (b.params.MaxDepth > 0 && depth >= b.params.MaxDepth) ||
		n < b.params.MinSamplesSplit ||
		n < 2*b.params.MinSamplesLeaf ||
		impurity <= pureImpurity {
		return idx
	}

	best := b.bestSplit(sample, sum)
	if !best.found {
		return idx
	}

	left := make([]int, 0, n)
	right := make([]int, 0, n)
	col := b.cols[best.feature]
	for _, s := range sample {
		if col[s] <= best.threshold {
			left = append(left, s)
		} else {
			right = append(right, s)
		}
	}
	if len(left) == 0 || len(right) == 0 {
		return idx
	}

	b.importance[best.feature] += float64(n)*impurity -
		b.weightedImpurity(left) - b.weightedImpurity(right)

	leftIdx := b.grow(left, depth+1)
	rightIdx := b.grow(right, depth+1)
	b.nodes[idx].Feature = int32(best.feature)
	b.nodes[idx].Threshold = best.threshold
	b.nodes[idx].Left = leftIdx
	b.nodes[idx].Right = rightIdx
	return idx
}

// bestSplit scans every feature, in random order, for the threshold that
// minimises the summed squared error of the two children.
func (b *treeBuilder) bestSplit(sample []int, sum float64) split {
	n := len(sample)
	minLeaf := b.params.MinSamplesLeaf
	best := split{}
	bestProxy := math.Inf(-1)

	sorted := b.scratch[:n]
	for _, f := range b.rng.Perm(len(b.cols)) {
		col := b.cols[f]
		copy(sorted, sample)
		sort.Slice(sorted, func(i, j int) bool { return col[sorted[i]] < col[sorted[j]] })

		if col[sorted[n-1]] <= col[sorted[0]]+featureTolerance {
			continue
		}

		leftSum := 0.0
		for i := 0; i < n-1; i++ {
			leftSum += b.y[sorted[i]]
			nLeft := i + 1
			nRight := n - nLeft
			if nLeft < minLeaf {
				continue
			}
			if nRight < minLeaf {
				break
			}
			xi, xn := col[sorted[i]], col[sorted[i+1]]
			if xn <= xi+featureTolerance {
				continue
			}
			rightSum := sum - leftSum
			proxy := leftSum*leftSum/float64(nLeft) + rightSum*rightSum/float64(nRight)
			if proxy > bestProxy {
				bestProxy = proxy
				threshold := xi + (xn-xi)/2
				if threshold >= xn {
					threshold = xi
				}
				best = split{feature: f, threshold: threshold, found: true}
			}
		}
	}
	return best
}

func (b *treeBuilder) moments(sample []int) (sum, sumSq float64) {
	for _, s := range sample {
		v := b.y[s]
		sum += v
		sumSq += v * v
	}
	return sum, sumSq
}

// weightedImpurity is len(sample) times the variance of the sample targets
func (b *treeBuilder) weightedImpurity(sample []int) float64 {
	if len(sample) == 0 {
		return 0
	}
	sum, sumSq := b.moments(sample)
	n := float64(len(sample))
	mean := sum / n
	return n * math.Max(0, sumSq/n-mean*mean)
}
