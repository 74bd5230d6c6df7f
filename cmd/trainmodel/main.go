// Trains the crop recommendation forest from a labeled CSV dataset and
// saves it as the JSON model the server loads at startup.
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"

	ml "github.com/AgroMind-AI/AgroMind-Go/services/ML"
)

// Expected CSV header: N,P,K,temperature,humidity,ph,rainfall,label
var csvFeatureOrder = []string{"N", "P", "K", "temperature", "humidity", "ph", "rainfall"}

// modelFeatureNames is the canonical feature order the server expects
var modelFeatureNames = []string{"N", "P", "K", "pH", "temperature", "humidity", "rainfall"}

func main() {
	dataPath := flag.String("data", "data/Crop_recommendation.csv", "path to the training dataset")
	outputPath := flag.String("output", "models/crop_model.json", "path for the trained model")
	numTrees := flag.Int("trees", 100, "number of trees in the forest")
	maxDepth := flag.Int("max-depth", 12, "maximum tree depth")
	testFraction := flag.Float64("test-fraction", 0.2, "fraction of data held out for evaluation")
	seed := flag.Int64("seed", 42, "random seed for reproducible training")
	flag.Parse()

	X, y, err := loadDataset(*dataPath)
	if err != nil {
		log.Fatalf("Failed to load dataset: %v", err)
	}
	log.Printf("Loaded %d samples from %s", len(X), *dataPath)

	trainX, trainY, testX, testY, err := ml.StratifiedSplit(X, y, *testFraction, *seed)
	if err != nil {
		log.Fatalf("Failed to split dataset: %v", err)
	}
	log.Printf("Training on %d samples, evaluating on %d", len(trainX), len(testX))

	forest := ml.NewCropForest(*numTrees, *maxDepth, 2, 1)
	forest.SetSeed(*seed)

	if err := forest.Train(trainX, trainY, modelFeatureNames); err != nil {
		log.Fatalf("Training failed: %v", err)
	}

	report, err := ml.Evaluate(forest, testX, testY)
	if err != nil {
		log.Fatalf("Evaluation failed: %v", err)
	}
	log.Printf("Accuracy: %.4f  macro-F1: %.4f  (%d test samples)",
		report.Accuracy, report.MacroF1, report.NumSamples)

	if err := forest.Save(*outputPath); err != nil {
		log.Fatalf("Failed to save model: %v", err)
	}
	log.Printf("Model saved to %s", *outputPath)
}

// loadDataset reads the labeled CSV and returns samples in canonical
// feature order. The CSV stores pH in a column named "ph" and places
// temperature and humidity before it; columns are reordered here.
func loadDataset(path string) ([][]float64, []string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read CSV: %w", err)
	}
	if len(rows) < 2 {
		return nil, nil, fmt.Errorf("dataset has no data rows")
	}

	header := rows[0]
	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[name] = i
	}

	for _, name := range csvFeatureOrder {
		if _, ok := columns[name]; !ok {
			return nil, nil, fmt.Errorf("dataset is missing column %q", name)
		}
	}
	labelCol, ok := columns["label"]
	if !ok {
		return nil, nil, fmt.Errorf("dataset is missing column \"label\"")
	}

	// Map canonical feature order onto CSV columns
	csvColumn := map[string]string{
		"N": "N", "P": "P", "K": "K", "pH": "ph",
		"temperature": "temperature", "humidity": "humidity", "rainfall": "rainfall",
	}

	var X [][]float64
	var y []string
	for lineNum, row := range rows[1:] {
		sample := make([]float64, len(modelFeatureNames))
		for j, name := range modelFeatureNames {
			raw := row[columns[csvColumn[name]]]
			value, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return nil, nil, fmt.Errorf("line %d: invalid value %q for %s", lineNum+2, raw, name)
			}
			sample[j] = value
		}
		X = append(X, sample)
		y = append(y, row[labelCol])
	}

	return X, y, nil
}
