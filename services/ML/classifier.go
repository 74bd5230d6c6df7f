package ml

import (
	"fmt"
	"sort"
)

// TreeNode represents a node in a crop decision tree.
// Every node keeps the class counts of the training samples that reached it,
// so class distributions are available along the whole decision path, not only
// at the leaves.
type TreeNode struct {
	IsLeaf       bool           `json:"is_leaf"`
	Class        string         `json:"class,omitempty"`
	ClassCounts  map[string]int `json:"class_counts,omitempty"`
	Confidence   float64        `json:"confidence"`
	Feature      string         `json:"feature,omitempty"`
	FeatureIndex int            `json:"feature_index,omitempty"`
	Threshold    float64        `json:"threshold,omitempty"`
	Left         *TreeNode      `json:"left,omitempty"`
	Right        *TreeNode      `json:"right,omitempty"`
	SamplesCount int            `json:"samples_count"`
	Depth        int            `json:"depth"`
}

// ClassShare returns the fraction of samples at this node belonging to class
func (n *TreeNode) ClassShare(class string) float64 {
	if n.SamplesCount == 0 {
		return 0.0
	}
	return float64(n.ClassCounts[class]) / float64(n.SamplesCount)
}

// CropTree is a single decision tree over soil/climate features
type CropTree struct {
	Root            *TreeNode `json:"root"`
	MaxDepth        int       `json:"max_depth"`
	MinSamplesSplit int       `json:"min_samples_split"`
	MinSamplesLeaf  int       `json:"min_samples_leaf"`
	FeatureNames    []string  `json:"feature_names"`
	Classes         []string  `json:"classes"`
	NumFeatures     int       `json:"num_features"`
}

// NewCropTree creates a decision tree with the given hyperparameters.
// Non-positive values fall back to defaults.
func NewCropTree(maxDepth, minSamplesSplit, minSamplesLeaf int) *CropTree {
	if maxDepth <= 0 {
		maxDepth = 10
	}
	if minSamplesSplit <= 0 {
		minSamplesSplit = 2
	}
	if minSamplesLeaf <= 0 {
		minSamplesLeaf = 1
	}

	return &CropTree{
		MaxDepth:        maxDepth,
		MinSamplesSplit: minSamplesSplit,
		MinSamplesLeaf:  minSamplesLeaf,
	}
}

// Train builds the tree from training data.
// X: feature matrix (rows = samples, cols = features)
// y: crop labels (one per sample)
func (ct *CropTree) Train(X [][]float64, y []string, featureNames []string) error {
	if len(X) == 0 {
		return fmt.Errorf("empty training data")
	}
	if len(X) != len(y) {
		return fmt.Errorf("X and y must have same number of samples")
	}
	if len(featureNames) != len(X[0]) {
		return fmt.Errorf("feature names must match number of features")
	}

	ct.FeatureNames = featureNames
	ct.NumFeatures = len(X[0])
	ct.Classes = uniqueStrings(y)

	indices := make([]int, len(X))
	for i := range indices {
		indices[i] = i
	}

	ct.Root = ct.buildTree(X, y, indices, 0)
	return nil
}

// buildTree recursively builds the decision tree
func (ct *CropTree) buildTree(X [][]float64, y []string, indices []int, depth int) *TreeNode {
	node := &TreeNode{
		SamplesCount: len(indices),
		Depth:        depth,
	}

	currentLabels := make([]string, len(indices))
	for i, idx := range indices {
		currentLabels[i] = y[idx]
	}

	classCounts := countClasses(currentLabels)
	node.ClassCounts = classCounts

	majorityClass, majorityCount := getMajorityClass(classCounts)
	node.Class = majorityClass
	node.Confidence = float64(majorityCount) / float64(len(indices))

	if depth >= ct.MaxDepth || len(indices) < ct.MinSamplesSplit || len(classCounts) == 1 {
		node.IsLeaf = true
		return node
	}

	bestFeature, bestThreshold, bestGain := ct.findBestSplit(X, y, indices)
	if bestGain <= 0 {
		node.IsLeaf = true
		return node
	}

	leftIndices, rightIndices := ct.splitData(X, indices, bestFeature, bestThreshold)

	if len(leftIndices) < ct.MinSamplesLeaf || len(rightIndices) < ct.MinSamplesLeaf {
		node.IsLeaf = true
		return node
	}

	node.IsLeaf = false
	node.Feature = ct.FeatureNames[bestFeature]
	node.FeatureIndex = bestFeature
	node.Threshold = bestThreshold

	node.Left = ct.buildTree(X, y, leftIndices, depth+1)
	node.Right = ct.buildTree(X, y, rightIndices, depth+1)

	return node
}

// findBestSplit finds the feature and threshold with the highest Gini gain
func (ct *CropTree) findBestSplit(X [][]float64, y []string, indices []int) (int, float64, float64) {
	bestGain := 0.0
	bestFeature := -1
	bestThreshold := 0.0

	currentLabels := make([]string, len(indices))
	for i, idx := range indices {
		currentLabels[i] = y[idx]
	}
	parentGini := giniImpurity(currentLabels)

	for feature := 0; feature < ct.NumFeatures; feature++ {
		values := make([]float64, len(indices))
		for i, idx := range indices {
			values[i] = X[idx][feature]
		}

		thresholds := getThresholds(values)

		for _, threshold := range thresholds {
			leftIndices, rightIndices := ct.splitData(X, indices, feature, threshold)

			if len(leftIndices) == 0 || len(rightIndices) == 0 {
				continue
			}

			leftLabels := make([]string, len(leftIndices))
			for i, idx := range leftIndices {
				leftLabels[i] = y[idx]
			}
			rightLabels := make([]string, len(rightIndices))
			for i, idx := range rightIndices {
				rightLabels[i] = y[idx]
			}

			leftGini := giniImpurity(leftLabels)
			rightGini := giniImpurity(rightLabels)

			n := float64(len(indices))
			nLeft := float64(len(leftIndices))
			nRight := float64(len(rightIndices))

			weightedGini := (nLeft/n)*leftGini + (nRight/n)*rightGini
			gain := parentGini - weightedGini

			if gain > bestGain {
				bestGain = gain
				bestFeature = feature
				bestThreshold = threshold
			}
		}
	}

	return bestFeature, bestThreshold, bestGain
}

// splitData splits indices based on feature and threshold
func (ct *CropTree) splitData(X [][]float64, indices []int, feature int, threshold float64) ([]int, []int) {
	var leftIndices, rightIndices []int

	for _, idx := range indices {
		if X[idx][feature] <= threshold {
			leftIndices = append(leftIndices, idx)
		} else {
			rightIndices = append(rightIndices, idx)
		}
	}

	return leftIndices, rightIndices
}

// Predict predicts the crop for a single sample
func (ct *CropTree) Predict(x []float64) (string, float64, error) {
	if ct.Root == nil {
		return "", 0.0, fmt.Errorf("model not trained")
	}
	if len(x) != ct.NumFeatures {
		return "", 0.0, fmt.Errorf("expected %d features, got %d", ct.NumFeatures, len(x))
	}

	leaf := ct.traverseToLeaf(ct.Root, x)
	return leaf.Class, leaf.Confidence, nil
}

// PredictProba predicts class probabilities for a single sample.
// Every class known to the tree gets an entry, zero for classes absent
// from the reached leaf.
func (ct *CropTree) PredictProba(x []float64) (map[string]float64, error) {
	if ct.Root == nil {
		return nil, fmt.Errorf("model not trained")
	}
	if len(x) != ct.NumFeatures {
		return nil, fmt.Errorf("expected %d features, got %d", ct.NumFeatures, len(x))
	}

	leaf := ct.traverseToLeaf(ct.Root, x)
	proba := make(map[string]float64, len(ct.Classes))

	for _, class := range ct.Classes {
		proba[class] = leaf.ClassShare(class)
	}

	return proba, nil
}

// traverseToLeaf traverses the tree to the leaf matching x
func (ct *CropTree) traverseToLeaf(node *TreeNode, x []float64) *TreeNode {
	if node.IsLeaf {
		return node
	}

	if x[node.FeatureIndex] <= node.Threshold {
		return ct.traverseToLeaf(node.Left, x)
	}
	return ct.traverseToLeaf(node.Right, x)
}

// DecisionPath returns the nodes visited for x, root first, leaf last
func (ct *CropTree) DecisionPath(x []float64) ([]*TreeNode, error) {
	if ct.Root == nil {
		return nil, fmt.Errorf("model not trained")
	}
	if len(x) != ct.NumFeatures {
		return nil, fmt.Errorf("expected %d features, got %d", ct.NumFeatures, len(x))
	}

	var path []*TreeNode
	node := ct.Root
	for {
		path = append(path, node)
		if node.IsLeaf {
			return path, nil
		}
		if x[node.FeatureIndex] <= node.Threshold {
			node = node.Left
		} else {
			node = node.Right
		}
	}
}

// FeatureImportance calculates importance based on how often each feature
// splits the data, weighted by the number of samples at the split
func (ct *CropTree) FeatureImportance() map[string]float64 {
	importance := make(map[string]float64)
	for _, name := range ct.FeatureNames {
		importance[name] = 0.0
	}

	if ct.Root != nil {
		accumulateImportance(ct.Root, importance)
	}

	total := 0.0
	for _, val := range importance {
		total += val
	}
	if total > 0 {
		for name := range importance {
			importance[name] /= total
		}
	}

	return importance
}

// accumulateImportance recursively sums split weights per feature
func accumulateImportance(node *TreeNode, importance map[string]float64) {
	if node.IsLeaf {
		return
	}

	importance[node.Feature] += float64(node.SamplesCount)

	if node.Left != nil {
		accumulateImportance(node.Left, importance)
	}
	if node.Right != nil {
		accumulateImportance(node.Right, importance)
	}
}

// Depth returns the maximum depth of the tree
func (ct *CropTree) Depth() int {
	if ct.Root == nil {
		return 0
	}
	return nodeDepth(ct.Root)
}

func nodeDepth(node *TreeNode) int {
	if node.IsLeaf {
		return node.Depth
	}

	leftDepth := nodeDepth(node.Left)
	rightDepth := nodeDepth(node.Right)

	if leftDepth > rightDepth {
		return leftDepth
	}
	return rightDepth
}

// NumNodes returns the total number of nodes in the tree
func (ct *CropTree) NumNodes() int {
	return countNodes(ct.Root)
}

func countNodes(node *TreeNode) int {
	if node == nil {
		return 0
	}
	return 1 + countNodes(node.Left) + countNodes(node.Right)
}

// Helper functions

func giniImpurity(labels []string) float64 {
	if len(labels) == 0 {
		return 0.0
	}

	counts := countClasses(labels)
	n := float64(len(labels))
	gini := 1.0

	for _, count := range counts {
		p := float64(count) / n
		gini -= p * p
	}

	return gini
}

func countClasses(labels []string) map[string]int {
	counts := make(map[string]int)
	for _, label := range labels {
		counts[label]++
	}
	return counts
}

func getMajorityClass(classCounts map[string]int) (string, int) {
	// Iterate classes in sorted order so ties resolve deterministically
	classes := make([]string, 0, len(classCounts))
	for class := range classCounts {
		classes = append(classes, class)
	}
	sort.Strings(classes)

	maxClass := ""
	maxCount := 0
	for _, class := range classes {
		if classCounts[class] > maxCount {
			maxClass = class
			maxCount = classCounts[class]
		}
	}
	return maxClass, maxCount
}

func uniqueStrings(strs []string) []string {
	seen := make(map[string]bool)
	unique := []string{}
	for _, s := range strs {
		if !seen[s] {
			seen[s] = true
			unique = append(unique, s)
		}
	}
	sort.Strings(unique)
	return unique
}

func getThresholds(values []float64) []float64 {
	if len(values) == 0 {
		return nil
	}

	uniqueVals := make([]float64, 0, len(values))
	seen := make(map[float64]bool)
	for _, v := range values {
		if !seen[v] {
			seen[v] = true
			uniqueVals = append(uniqueVals, v)
		}
	}

	if len(uniqueVals) == 1 {
		return nil
	}

	sort.Float64s(uniqueVals)

	thresholds := make([]float64, len(uniqueVals)-1)
	for i := 0; i < len(uniqueVals)-1; i++ {
		thresholds[i] = (uniqueVals[i] + uniqueVals[i+1]) / 2.0
	}

	return thresholds
}
