package ml

import (
	"fmt"
	"math/rand"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// ClassMetrics holds per-class evaluation metrics
type ClassMetrics struct {
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	F1        float64 `json:"f1"`
	Support   int     `json:"support"`
}

// EvaluationReport summarizes classifier quality on a held-out set
type EvaluationReport struct {
	Accuracy       float64                 `json:"accuracy"`
	MacroPrecision float64                 `json:"macro_precision"`
	MacroRecall    float64                 `json:"macro_recall"`
	MacroF1        float64                 `json:"macro_f1"`
	PerClass       map[string]ClassMetrics `json:"per_class"`
	NumSamples     int                     `json:"num_samples"`
}

// Evaluate computes accuracy and per-class precision/recall/F1 for the
// forest on a labeled set
func Evaluate(forest *CropForest, X [][]float64, y []string) (*EvaluationReport, error) {
	if len(X) == 0 {
		return nil, fmt.Errorf("empty evaluation data")
	}
	if len(X) != len(y) {
		return nil, fmt.Errorf("X and y must have same number of samples")
	}

	truePos := make(map[string]int)
	falsePos := make(map[string]int)
	falseNeg := make(map[string]int)
	support := make(map[string]int)
	correct := 0

	for i := range X {
		predicted, _, err := forest.Predict(X[i])
		if err != nil {
			return nil, fmt.Errorf("prediction failed for sample %d: %w", i, err)
		}

		support[y[i]]++
		if predicted == y[i] {
			truePos[y[i]]++
			correct++
		} else {
			falsePos[predicted]++
			falseNeg[y[i]]++
		}
	}

	classes := make([]string, 0, len(support))
	for class := range support {
		classes = append(classes, class)
	}
	sort.Strings(classes)

	perClass := make(map[string]ClassMetrics, len(classes))
	precisions := make([]float64, 0, len(classes))
	recalls := make([]float64, 0, len(classes))
	f1s := make([]float64, 0, len(classes))

	for _, class := range classes {
		tp := float64(truePos[class])
		fp := float64(falsePos[class])
		fn := float64(falseNeg[class])

		precision := 0.0
		if tp+fp > 0 {
			precision = tp / (tp + fp)
		}
		recall := 0.0
		if tp+fn > 0 {
			recall = tp / (tp + fn)
		}
		f1 := 0.0
		if precision+recall > 0 {
			f1 = 2 * precision * recall / (precision + recall)
		}

		perClass[class] = ClassMetrics{
			Precision: precision,
			Recall:    recall,
			F1:        f1,
			Support:   support[class],
		}

		precisions = append(precisions, precision)
		recalls = append(recalls, recall)
		f1s = append(f1s, f1)
	}

	return &EvaluationReport{
		Accuracy:       float64(correct) / float64(len(X)),
		MacroPrecision: stat.Mean(precisions, nil),
		MacroRecall:    stat.Mean(recalls, nil),
		MacroF1:        stat.Mean(f1s, nil),
		PerClass:       perClass,
		NumSamples:     len(X),
	}, nil
}

// StratifiedSplit splits a labeled dataset into train and test sets,
// preserving the class proportions. testFraction must be in (0,1).
func StratifiedSplit(X [][]float64, y []string, testFraction float64, seed int64) (trainX [][]float64, trainY []string, testX [][]float64, testY []string, err error) {
	if len(X) != len(y) {
		return nil, nil, nil, nil, fmt.Errorf("X and y must have same number of samples")
	}
	if testFraction <= 0 || testFraction >= 1 {
		return nil, nil, nil, nil, fmt.Errorf("test fraction must be in (0,1), got %g", testFraction)
	}

	byClass := make(map[string][]int)
	for i, label := range y {
		byClass[label] = append(byClass[label], i)
	}

	classes := make([]string, 0, len(byClass))
	for class := range byClass {
		classes = append(classes, class)
	}
	sort.Strings(classes)

	rng := rand.New(rand.NewSource(seed))

	for _, class := range classes {
		indices := byClass[class]
		rng.Shuffle(len(indices), func(i, j int) {
			indices[i], indices[j] = indices[j], indices[i]
		})

		nTest := int(float64(len(indices)) * testFraction)
		if nTest == 0 && len(indices) > 1 {
			nTest = 1
		}

		for i, idx := range indices {
			if i < nTest {
				testX = append(testX, X[idx])
				testY = append(testY, y[idx])
			} else {
				trainX = append(trainX, X[idx])
				trainY = append(trainY, y[idx])
			}
		}
	}

	return trainX, trainY, testX, testY, nil
}
