// backend-go/internal/forecast/forest.go
package forecast

import (
	"math"
	"math/rand"
	"sort"
)

// ModelParams are the ensemble hyperparameters. They are fixed in normal
// operation so two runs over the same history produce identical forecasts.
type ModelParams struct {
	Trees           int
	MaxDepth        int
	MinSamplesSplit int
	Seed            int64
}

// DefaultModelParams returns the production configuration.
func DefaultModelParams() ModelParams {
	return ModelParams{
		Trees:           100,
		MaxDepth:        15,
		MinSamplesSplit: 2,
		Seed:            42,
	}
}

// forest is a bagged ensemble of regression trees. Each tree trains on a
// bootstrap sample drawn from a single seeded source, so the whole ensemble
// is reproducible.
type forest struct {
	trees []*treeNode
}

type treeNode struct {
	leaf      bool
	value     float64
	feature   int
	threshold float64
	left      *treeNode
	right     *treeNode
}

func fitForest(xs [][]float64, ys []float64, p ModelParams) *forest {
	rng := rand.New(rand.NewSource(p.Seed))
	f := &forest{trees: make([]*treeNode, 0, p.Trees)}

	n := len(ys)
	for t := 0; t < p.Trees; t++ {
		sample := make([]int, n)
		for i := range sample {
			sample[i] = rng.Intn(n)
		}
		f.trees = append(f.trees, buildTree(xs, ys, sample, 0, p))
	}

	return f
}

func (f *forest) predict(x []float64) float64 {
	var sum float64
	for _, t := range f.trees {
		sum += t.predict(x)
	}

	return sum / float64(len(f.trees))
}

func (n *treeNode) predict(x []float64) float64 {
	for !n.leaf {
		if x[n.feature] <= n.threshold {
			n = n.left
		} else {
			n = n.right
		}
	}

	return n.value
}

func buildTree(xs [][]float64, ys []float64, idx []int, depth int, p ModelParams) *treeNode {
	if depth >= p.MaxDepth || len(idx) < p.MinSamplesSplit {
		return &treeNode{leaf: true, value: meanAt(ys, idx)}
	}

	feature, threshold, ok := bestSplit(xs, ys, idx)
	if !ok {
		return &treeNode{leaf: true, value: meanAt(ys, idx)}
	}

	var left, right []int
	for _, i := range idx {
		if xs[i][feature] <= threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}
	if len(left) == 0 || len(right) == 0 {
		return &treeNode{leaf: true, value: meanAt(ys, idx)}
	}

	return &treeNode{
		feature:   feature,
		threshold: threshold,
		left:      buildTree(xs, ys, left, depth+1, p),
		right:     buildTree(xs, ys, right, depth+1, p),
	}
}

type splitPair struct{ x, y float64 }

// bestSplit scans every feature for the threshold that minimizes the summed
// squared error of the two halves. Candidates are midpoints between
// consecutive distinct values; ties keep the first candidate found so the
// tree shape is stable across runs.
func bestSplit(xs [][]float64, ys []float64, idx []int) (feature int, threshold float64, ok bool) {
	if allEqual(ys, idx) {
		return 0, 0, false
	}

	nFeatures := len(xs[idx[0]])
	n := len(idx)
	pairs := make([]splitPair, n)

	best := math.Inf(1)
	for f := 0; f < nFeatures; f++ {
		for i, id := range idx {
			pairs[i] = splitPair{x: xs[id][f], y: ys[id]}
		}
		sort.Slice(pairs, func(a, b int) bool { return pairs[a].x < pairs[b].x })

		var totalSum, totalSq float64
		for _, pr := range pairs {
			totalSum += pr.y
			totalSq += pr.y * pr.y
		}

		var leftSum, leftSq float64
		for i := 1; i < n; i++ {
			leftSum += pairs[i-1].y
			leftSq += pairs[i-1].y * pairs[i-1].y
			if pairs[i].x == pairs[i-1].x {
				continue
			}

			nl, nr := float64(i), float64(n-i)
			rightSum, rightSq := totalSum-leftSum, totalSq-leftSq
			score := (leftSq - leftSum*leftSum/nl) + (rightSq - rightSum*rightSum/nr)
			if score < best {
				best = score
				feature = f
				threshold = (pairs[i-1].x + pairs[i].x) / 2
				ok = true
			}
		}
	}

	return feature, threshold, ok
}

func meanAt(ys []float64, idx []int) float64 {
	var sum float64
	for _, i := range idx {
		sum += ys[i]
	}

	return sum / float64(len(idx))
}

func allEqual(ys []float64, idx []int) bool {
	first := ys[idx[0]]
	for _, i := range idx[1:] {
		if ys[i] != first {
			return false
		}
	}

	return true
}
