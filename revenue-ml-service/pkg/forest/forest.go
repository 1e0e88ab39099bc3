/*******************************************************************************
* Contributors: BMC Helix, Inc.
*
* (c) Copyright 2020-2025 BMC Helix, Inc.

* SPDX-License-Identifier: Apache-2.0
*******************************************************************************/

package forest

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"runtime"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// Forest is a bagged ensemble of regression trees. It is immutable once fitted.
type Forest struct {
	Params      Params    `json:"params"`
	NFeatures   int       `json:"n_features"`
	Trees       []Tree    `json:"trees"`
	Importances []float64 `json:"importances"`
}

// Fit grows params.NEstimators trees on bootstrap samples of (X, y). Every tree
// draws from its own generator seeded from RandomState and its position, so the
// result is the same whatever the number of workers.
func Fit(ctx context.Context, X [][]float64, y []float64, params Params) (*Forest, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	cols, err := columns(X, y)
	if err != nil {
		return nil, err
	}

	master := rand.New(rand.NewSource(params.RandomState))
	seeds := make([]int64, params.NEstimators)
	for i := range seeds {
		seeds[i] = master.Int63()
	}

	trees := make([]Tree, params.NEstimators)
	importances := make([][]float64, params.NEstimators)

	jobs := params.NJobs
	if jobs == 0 {
		jobs = runtime.NumCPU()
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for i := range trees {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			trees[i], importances[i] = newTreeBuilder(cols, y, params, seeds[i]).build()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, errors.Wrap(err, "forest training interrupted")
	}

	return &Forest{
		Params:      params,
		NFeatures:   len(cols),
		Trees:       trees,
		Importances: averageImportances(importances, len(cols)),
	}, nil
}

func columns(X [][]float64, y []float64) ([][]float64, error) {
	if len(X) == 0 {
		return nil, fmt.Errorf("cannot fit on an empty training set")
	}
	if len(X) != len(y) {
		return nil, fmt.Errorf("got %d rows but %d targets", len(X), len(y))
	}
	nFeatures := len(X[0])
	if nFeatures == 0 {
		return nil, fmt.Errorf("training rows have no features")
	}
	cols := make([][]float64, nFeatures)
	for j := range cols {
		cols[j] = make([]float64, len(X))
	}
	for i, row := range X {
		if len(row) != nFeatures {
			return nil, fmt.Errorf("row %d has %d features, expected %d", i, len(row), nFeatures)
		}
		if math.IsNaN(y[i]) || math.IsInf(y[i], 0) {
			return nil, fmt.Errorf("target %d is not finite", i)
		}
		for j, v := range row {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, fmt.Errorf("row %d feature %d is not finite", i, j)
			}
			cols[j][i] = v
		}
	}
	return cols, nil
}

// averageImportances averages per-tree importances and renormalises. When no
// tree ever split the importances are uniform.
func averageImportances(perTree [][]float64, nFeatures int) []float64 {
	avg := make([]float64, nFeatures)
	for _, imp := range perTree {
		for j, v := range imp {
			avg[j] += v
		}
	}
	total := 0.0
	for _, v := range avg {
		total += v
	}
	for j := range avg {
		if total > 0 {
			avg[j] /= total
		} else {
			avg[j] = 1 / float64(nFeatures)
		}
	}
	return avg
}

// Predict averages the trees' outputs for one feature vector
func (f *Forest) Predict(x []float64) (float64, error) {
	if len(x) != f.NFeatures {
		return 0, fmt.Errorf("model expects %d features, got %d", f.NFeatures, len(x))
	}
	if len(f.Trees) == 0 {
		return 0, fmt.Errorf("model has no trees")
	}
	sum := 0.0
	for i := range f.Trees {
		sum += f.Trees[i].Predict(x)
	}
	return sum / float64(len(f.Trees)), nil
}

func (f *Forest) PredictAll(X [][]float64) ([]float64, error) {
	out := make([]float64, len(X))
	for i, x := range X {
		p, err := f.Predict(x)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		out[i] = p
	}
	return out, nil
}

// FeatureImportances returns a copy of the normalised impurity-decrease importances
func (f *Forest) FeatureImportances() []float64 {
	return append([]float64(nil), f.Importances...)
}

// Validate checks that every node reference stays inside its tree
func (f *Forest) Validate() error {
	if f.NFeatures <= 0 {
		return fmt.Errorf("model has no features")
	}
	if len(f.Trees) == 0 {
		return fmt.Errorf("model has no trees")
	}
	if len(f.Importances) != f.NFeatures {
		return fmt.Errorf("model has %d importances for %d features", len(f.Importances), f.NFeatures)
	}
	for t, tree := range f.Trees {
		if len(tree.Nodes) == 0 {
			return fmt.Errorf("tree %d is empty", t)
		}
		for i, node := range tree.Nodes {
			if node.IsLeaf() {
				continue
			}
			if node.Feature < 0 || int(node.Feature) >= f.NFeatures {
				return fmt.Errorf("tree %d node %d splits on unknown feature %d", t, i, node.Feature)
			}
			// children are always stored after their parent
			if node.Left <= int32(i) || node.Right <= int32(i) ||
				int(node.Left) >= len(tree.Nodes) || int(node.Right) >= len(tree.Nodes) {
				return fmt.Errorf("tree %d node %d has invalid children", t, i)
			}
		}
	}
	return nil
}
