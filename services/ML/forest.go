package ml

import (
	"encoding/json"
	"fmt"
	"math"
	"math/rand"
	"os"
	"sync"
	"time"
)

// CropForest is a bagged ensemble of crop decision trees.
// Class probabilities are the average of the per-tree leaf distributions,
// which keeps them consistent with the per-instance attribution derived
// from the same decision paths.
type CropForest struct {
	Trees           []*CropTree `json:"trees"`
	TreeFeatures    [][]int     `json:"tree_features"` // global feature indices used by each tree
	NumTrees        int         `json:"num_trees"`
	MaxDepth        int         `json:"max_depth"`
	MinSamplesSplit int         `json:"min_samples_split"`
	MinSamplesLeaf  int         `json:"min_samples_leaf"`
	MaxFeatures     int         `json:"max_features"`
	FeatureNames    []string    `json:"feature_names"`
	Classes         []string    `json:"classes"`
	NumFeatures     int         `json:"num_features"`
	RandomSeed      int64       `json:"random_seed"`

	rng *rand.Rand
}

// NewCropForest creates a forest with the given hyperparameters.
// Non-positive values fall back to defaults.
func NewCropForest(numTrees, maxDepth, minSamplesSplit, minSamplesLeaf int) *CropForest {
	if numTrees <= 0 {
		numTrees = 100
	}
	if maxDepth <= 0 {
		maxDepth = 10
	}
	if minSamplesSplit <= 0 {
		minSamplesSplit = 2
	}
	if minSamplesLeaf <= 0 {
		minSamplesLeaf = 1
	}

	seed := time.Now().UnixNano()
	return &CropForest{
		NumTrees:        numTrees,
		MaxDepth:        maxDepth,
		MinSamplesSplit: minSamplesSplit,
		MinSamplesLeaf:  minSamplesLeaf,
		RandomSeed:      seed,
		rng:             rand.New(rand.NewSource(seed)),
	}
}

// SetSeed fixes the random seed for reproducible training
func (cf *CropForest) SetSeed(seed int64) {
	cf.RandomSeed = seed
	cf.rng = rand.New(rand.NewSource(seed))
}

// Train builds the forest from training data
func (cf *CropForest) Train(X [][]float64, y []string, featureNames []string) error {
	if len(X) == 0 {
		return fmt.Errorf("empty training data")
	}
	if len(X) != len(y) {
		return fmt.Errorf("X and y must have same number of samples")
	}
	if len(featureNames) != len(X[0]) {
		return fmt.Errorf("feature names must match number of features")
	}

	cf.FeatureNames = featureNames
	cf.NumFeatures = len(X[0])
	cf.Classes = uniqueStrings(y)

	cf.MaxFeatures = int(math.Sqrt(float64(cf.NumFeatures)))
	if cf.MaxFeatures < 1 {
		cf.MaxFeatures = 1
	}

	// Bootstrap samples and feature subsets are drawn up front from the
	// forest rng so that training stays reproducible even though the
	// trees are built in parallel.
	type treeTask struct {
		bootX    [][]float64
		bootY    []string
		features []int
	}

	tasks := make([]treeTask, cf.NumTrees)
	for i := range tasks {
		bootX, bootY := cf.bootstrapSample(X, y)
		tasks[i] = treeTask{
			bootX:    bootX,
			bootY:    bootY,
			features: cf.selectRandomFeatures(),
		}
	}

	cf.Trees = make([]*CropTree, cf.NumTrees)
	cf.TreeFeatures = make([][]int, cf.NumTrees)

	var wg sync.WaitGroup
	var mu sync.Mutex
	var trainErr error

	for i := 0; i < cf.NumTrees; i++ {
		wg.Add(1)
		go func(treeIdx int) {
			defer wg.Done()

			task := tasks[treeIdx]
			subX, subFeatureNames := extractFeatures(task.bootX, task.features, cf.FeatureNames)

			tree := NewCropTree(cf.MaxDepth, cf.MinSamplesSplit, cf.MinSamplesLeaf)
			if err := tree.Train(subX, task.bootY, subFeatureNames); err != nil {
				mu.Lock()
				if trainErr == nil {
					trainErr = fmt.Errorf("tree %d training failed: %w", treeIdx, err)
				}
				mu.Unlock()
				return
			}

			mu.Lock()
			cf.Trees[treeIdx] = tree
			cf.TreeFeatures[treeIdx] = task.features
			mu.Unlock()
		}(i)
	}

	wg.Wait()

	return trainErr
}

// bootstrapSample creates a bootstrap sample (with replacement)
func (cf *CropForest) bootstrapSample(X [][]float64, y []string) ([][]float64, []string) {
	n := len(X)
	bootX := make([][]float64, n)
	bootY := make([]string, n)

	for i := 0; i < n; i++ {
		idx := cf.rng.Intn(n)
		bootX[i] = X[idx]
		bootY[i] = y[idx]
	}

	return bootX, bootY
}

// selectRandomFeatures randomly selects the feature subset for one tree
func (cf *CropForest) selectRandomFeatures() []int {
	features := make([]int, cf.NumFeatures)
	for i := range features {
		features[i] = i
	}

	cf.rng.Shuffle(len(features), func(i, j int) {
		features[i], features[j] = features[j], features[i]
	})

	return features[:cf.MaxFeatures]
}

// extractFeatures projects data onto the selected feature subset
func extractFeatures(X [][]float64, features []int, featureNames []string) ([][]float64, []string) {
	subX := make([][]float64, len(X))
	subFeatureNames := make([]string, len(features))

	for i := range X {
		subX[i] = make([]float64, len(features))
		for j, fIdx := range features {
			subX[i][j] = X[i][fIdx]
		}
	}

	for i, fIdx := range features {
		subFeatureNames[i] = featureNames[fIdx]
	}

	return subX, subFeatureNames
}

// projectSample projects a full sample onto a tree's feature subset
func projectSample(x []float64, features []int) []float64 {
	sub := make([]float64, len(features))
	for j, fIdx := range features {
		sub[j] = x[fIdx]
	}
	return sub
}

// PredictProba predicts class probabilities for a single sample by averaging
// the leaf class distributions of all trees. Every class known to the forest
// gets an entry.
func (cf *CropForest) PredictProba(x []float64) (map[string]float64, error) {
	if len(cf.Trees) == 0 {
		return nil, fmt.Errorf("model not trained")
	}
	if len(x) != cf.NumFeatures {
		return nil, fmt.Errorf("expected %d features, got %d", cf.NumFeatures, len(x))
	}

	sums := make(map[string]float64, len(cf.Classes))
	for _, class := range cf.Classes {
		sums[class] = 0.0
	}

	validTrees := 0
	for i, tree := range cf.Trees {
		if tree == nil {
			continue
		}

		leafProba, err := tree.PredictProba(projectSample(x, cf.TreeFeatures[i]))
		if err != nil {
			continue
		}

		for class, p := range leafProba {
			sums[class] += p
		}
		validTrees++
	}

	if validTrees == 0 {
		return nil, fmt.Errorf("no valid predictions from trees")
	}

	for class := range sums {
		sums[class] /= float64(validTrees)
	}

	return sums, nil
}

// Predict predicts the crop for a single sample.
// Probability ties resolve to the class that sorts first.
func (cf *CropForest) Predict(x []float64) (string, float64, error) {
	proba, err := cf.PredictProba(x)
	if err != nil {
		return "", 0.0, err
	}

	best := ""
	bestP := -1.0
	for _, class := range cf.Classes {
		if proba[class] > bestP {
			best = class
			bestP = proba[class]
		}
	}

	return best, bestP, nil
}

// FeatureImportance averages the impurity-based importances of all trees.
// Weights are normalized to sum to 1 over the full feature set.
func (cf *CropForest) FeatureImportance() map[string]float64 {
	importance := make(map[string]float64, len(cf.FeatureNames))
	for _, name := range cf.FeatureNames {
		importance[name] = 0.0
	}

	valid := 0
	for _, tree := range cf.Trees {
		if tree == nil {
			continue
		}
		for name, val := range tree.FeatureImportance() {
			importance[name] += val
		}
		valid++
	}

	if valid == 0 {
		return importance
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

// Attribution decomposes the forest probability of one crop for one sample
// into additive per-feature contributions along the decision paths.
//
// For each tree, walking from root to leaf, the change in the crop's class
// share between a node and the chosen child is attributed to the feature the
// node splits on. The baseline is the average root-node class share across
// trees, so baseline + sum(contributions) equals the forest probability for
// the crop.
func (cf *CropForest) Attribution(x []float64, crop string) (map[string]float64, float64, error) {
	if len(cf.Trees) == 0 {
		return nil, 0.0, fmt.Errorf("model not trained")
	}
	if len(x) != cf.NumFeatures {
		return nil, 0.0, fmt.Errorf("expected %d features, got %d", cf.NumFeatures, len(x))
	}

	known := false
	for _, class := range cf.Classes {
		if class == crop {
			known = true
			break
		}
	}
	if !known {
		return nil, 0.0, fmt.Errorf("unknown crop: %s", crop)
	}

	contributions := make(map[string]float64, len(cf.FeatureNames))
	for _, name := range cf.FeatureNames {
		contributions[name] = 0.0
	}

	baseSum := 0.0
	validTrees := 0

	for i, tree := range cf.Trees {
		if tree == nil {
			continue
		}

		path, err := tree.DecisionPath(projectSample(x, cf.TreeFeatures[i]))
		if err != nil || len(path) == 0 {
			continue
		}

		baseSum += path[0].ClassShare(crop)
		for step := 0; step < len(path)-1; step++ {
			parent := path[step]
			child := path[step+1]
			delta := child.ClassShare(crop) - parent.ClassShare(crop)
			contributions[parent.Feature] += delta
		}
		validTrees++
	}

	if validTrees == 0 {
		return nil, 0.0, fmt.Errorf("no valid decision paths")
	}

	for name := range contributions {
		contributions[name] /= float64(validTrees)
	}

	return contributions, baseSum / float64(validTrees), nil
}

// Save writes the forest to a JSON file
func (cf *CropForest) Save(path string) error {
	data, err := json.MarshalIndent(cf, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal model: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write model file: %w", err)
	}

	return nil
}

// Load reads a forest from a JSON file
func (cf *CropForest) Load(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read model file: %w", err)
	}

	if err := json.Unmarshal(data, cf); err != nil {
		return fmt.Errorf("failed to unmarshal model: %w", err)
	}

	if cf.RandomSeed == 0 {
		cf.RandomSeed = time.Now().UnixNano()
	}
	cf.rng = rand.New(rand.NewSource(cf.RandomSeed))

	return nil
}

// Validate checks whether the forest is ready for predictions
func (cf *CropForest) Validate() error {
	if len(cf.Trees) == 0 {
		return fmt.Errorf("model has no trees")
	}
	if len(cf.FeatureNames) == 0 {
		return fmt.Errorf("model has no feature names")
	}
	if len(cf.Classes) == 0 {
		return fmt.Errorf("model has no classes")
	}
	if cf.NumFeatures != len(cf.FeatureNames) {
		return fmt.Errorf("num_features mismatch")
	}

	validTrees := 0
	for _, tree := range cf.Trees {
		if tree != nil && tree.Root != nil {
			validTrees++
		}
	}
	if validTrees == 0 {
		return fmt.Errorf("no valid trees in forest")
	}

	return nil
}

// ModelInfo returns summary information about the forest
func (cf *CropForest) ModelInfo() map[string]any {
	avgDepth := 0
	totalNodes := 0
	valid := 0

	for _, tree := range cf.Trees {
		if tree != nil {
			avgDepth += tree.Depth()
			totalNodes += tree.NumNodes()
			valid++
		}
	}

	if valid > 0 {
		avgDepth /= valid
		totalNodes /= valid
	}

	return map[string]any{
		"algorithm":          "random_forest",
		"num_trees":          cf.NumTrees,
		"num_features":       cf.NumFeatures,
		"num_classes":        len(cf.Classes),
		"max_depth":          cf.MaxDepth,
		"avg_tree_depth":     avgDepth,
		"avg_nodes_per_tree": totalNodes,
		"max_features":       cf.MaxFeatures,
		"min_samples_split":  cf.MinSamplesSplit,
		"min_samples_leaf":   cf.MinSamplesLeaf,
		"feature_names":      cf.FeatureNames,
		"classes":            cf.Classes,
	}
}
