package ml

import (
	"encoding/json"
	"errors"
	"math"
	"os"
	"sort"
)

const defaultMaxDepth = 8

// DecisionTree is a gini classifier over wine quality classes. Nodes are
// stored flat; children are indices into nodes.
type DecisionTree struct {
	maxDepth int
	nodes    []TreeNode
}

type TreeNode struct {
	FeatureIdx int     `json:"feature_idx"`
	Threshold  float64 `json:"threshold"`
	LeftChild  int     `json:"left_child"`
	RightChild int     `json:"right_child"`
	ClassLabel int     `json:"class_label"`
	Confidence float64 `json:"confidence"`
	IsLeaf     bool    `json:"is_leaf"`
}

func NewDecisionTree(maxDepth int) *DecisionTree {
	if maxDepth <= 0 {
		maxDepth = defaultMaxDepth
	}
	return &DecisionTree{maxDepth: maxDepth}
}

func (dt *DecisionTree) Train(features [][]float64, labels []int) error {
	if len(features) == 0 || len(labels) == 0 {
		return errors.New("features or labels empty")
	}
	if len(features) != len(labels) {
		return errors.New("features and labels size mismatch")
	}
	width := len(features[0])
	for _, row := range features {
		if len(row) != width {
			return errors.New("feature rows have different lengths")
		}
	}
	if dt.maxDepth <= 0 {
		dt.maxDepth = defaultMaxDepth
	}

	dt.nodes = dt.buildNode(features, labels, 0)
	return nil
}

func (dt *DecisionTree) Predict(features []float64) (int, float64, error) {
	if len(dt.nodes) == 0 {
		return 0, 0, errors.New("model not trained")
	}
	idx := 0
	for steps := 0; steps <= len(dt.nodes); steps++ {
		node := dt.nodes[idx]
		if node.IsLeaf {
			return node.ClassLabel, node.Confidence, nil
		}
		if node.FeatureIdx < 0 || node.FeatureIdx >= len(features) {
			return 0, 0, errors.New("feature index out of range")
		}
		if features[node.FeatureIdx] <= node.Threshold {
			idx = node.LeftChild
		} else {
			idx = node.RightChild
		}
		if idx < 0 || idx >= len(dt.nodes) {
			return 0, 0, errors.New("invalid tree state")
		}
	}
	return 0, 0, errors.New("invalid tree state")
}

func (dt *DecisionTree) Save(path string) error {
	if len(dt.nodes) == 0 {
		return errors.New("model not trained")
	}
	payload, err := json.Marshal(dt.nodes)
	if err != nil {
		return err
	}
	return os.WriteFile(path, payload, 0o600)
}

func (dt *DecisionTree) Load(path string) error {
	payload, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var nodes []TreeNode
	if err := json.Unmarshal(payload, &nodes); err != nil {
		return err
	}
	if len(nodes) == 0 {
		return errors.New("model file has no nodes")
	}
	dt.nodes = nodes
	return nil
}

func (dt *DecisionTree) buildNode(features [][]float64, labels []int, depth int) []TreeNode {
	label, share := majorityLabel(labels)
	leaf := []TreeNode{{
		FeatureIdx: -1,
		LeftChild:  -1,
		RightChild: -1,
		ClassLabel: label,
		Confidence: share,
		IsLeaf:     true,
	}}
	if depth >= dt.maxDepth || isPure(labels) {
		return leaf
	}

	bestFeature, threshold, ok := findBestSplit(features, labels)
	if !ok {
		return leaf
	}

	leftFeatures, leftLabels, rightFeatures, rightLabels := splitData(features, labels, bestFeature, threshold)
	if len(leftLabels) == 0 || len(rightLabels) == 0 {
		return leaf
	}

	leftNodes := dt.buildNode(leftFeatures, leftLabels, depth+1)
	rightNodes := dt.buildNode(rightFeatures, rightLabels, depth+1)

	root := TreeNode{
		FeatureIdx: bestFeature,
		Threshold:  threshold,
		LeftChild:  1,
		RightChild: 1 + len(leftNodes),
		ClassLabel: label,
		Confidence: share,
	}

	nodes := make([]TreeNode, 0, 1+len(leftNodes)+len(rightNodes))
	nodes = append(nodes, root)
	nodes = append(nodes, offsetChildren(leftNodes, 1)...)
	nodes = append(nodes, offsetChildren(rightNodes, 1+len(leftNodes))...)
	return nodes
}

// offsetChildren rebases subtree child indices after it is placed at offset.
func offsetChildren(nodes []TreeNode, offset int) []TreeNode {
	for i := range nodes {
		if nodes[i].IsLeaf {
			continue
		}
		nodes[i].LeftChild += offset
		nodes[i].RightChild += offset
	}
	return nodes
}

func findBestSplit(features [][]float64, labels []int) (int, float64, bool) {
	featureCount := len(features[0])
	bestFeature := -1
	bestThreshold := 0.0
	bestImpurity := math.MaxFloat64

	for featureIdx := 0; featureIdx < featureCount; featureIdx++ {
		values := make([]float64, len(features))
		for i := range features {
			values[i] = features[i][featureIdx]
		}
		threshold := median(values)
		leftLabels, rightLabels := splitLabels(features, labels, featureIdx, threshold)
		if len(leftLabels) == 0 || len(rightLabels) == 0 {
			continue
		}
		impurity := weightedGini(leftLabels, rightLabels)
		if impurity < bestImpurity {
			bestImpurity = impurity
			bestFeature = featureIdx
			bestThreshold = threshold
		}
	}
	if bestFeature == -1 {
		return -1, 0, false
	}
	return bestFeature, bestThreshold, true
}

func splitData(features [][]float64, labels []int, featureIdx int, threshold float64) ([][]float64, []int, [][]float64, []int) {
	var leftFeatures, rightFeatures [][]float64
	var leftLabels, rightLabels []int
	for i, feature := range features {
		if feature[featureIdx] <= threshold {
			leftFeatures = append(leftFeatures, feature)
			leftLabels = append(leftLabels, labels[i])
		} else {
			rightFeatures = append(rightFeatures, feature)
			rightLabels = append(rightLabels, labels[i])
		}
	}
	return leftFeatures, leftLabels, rightFeatures, rightLabels
}

func splitLabels(features [][]float64, labels []int, featureIdx int, threshold float64) ([]int, []int) {
	var leftLabels, rightLabels []int
	for i, feature := range features {
		if feature[featureIdx] <= threshold {
			leftLabels = append(leftLabels, labels[i])
		} else {
			rightLabels = append(rightLabels, labels[i])
		}
	}
	return leftLabels, rightLabels
}

func weightedGini(leftLabels, rightLabels []int) float64 {
	leftWeight := float64(len(leftLabels))
	rightWeight := float64(len(rightLabels))
	total := leftWeight + rightWeight
	return (leftWeight/total)*gini(leftLabels) + (rightWeight/total)*gini(rightLabels)
}

func gini(labels []int) float64 {
	if len(labels) == 0 {
		return 0
	}
	counts := make(map[int]int)
	for _, label := range labels {
		counts[label]++
	}
	impurity := 1.0
	for _, count := range counts {
		prob := float64(count) / float64(len(labels))
		impurity -= prob * prob
	}
	return impurity
}

func median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}

// majorityLabel returns the most frequent label and its share. Ties go to
// the smaller label so training is deterministic.
func majorityLabel(labels []int) (int, float64) {
	if len(labels) == 0 {
		return 0, 0
	}
	counts := make(map[int]int)
	for _, label := range labels {
		counts[label]++
	}
	bestLabel, bestCount := 0, -1
	for label, count := range counts {
		if count > bestCount || (count == bestCount && label < bestLabel) {
			bestLabel, bestCount = label, count
		}
	}
	return bestLabel, float64(bestCount) / float64(len(labels))
}

func isPure(labels []int) bool {
	if len(labels) == 0 {
		return true
	}
	first := labels[0]
	for _, label := range labels[1:] {
		if label != first {
			return false
		}
	}
	return true
}
