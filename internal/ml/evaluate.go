package ml

import "fmt"

// DefaultConfidenceThreshold is the distance from 0.5 that marks a prediction as high confidence
const DefaultConfidenceThreshold = 0.15

// Evaluation scores a model on a labelled partition
type Evaluation struct {
	Total                  int       `json:"total"`
	Correct                int       `json:"correct"`
	Accuracy               float64   `json:"accuracy"`
	HighConfidenceTotal    int       `json:"high_confidence_total"`
	HighConfidenceCorrect  int       `json:"high_confidence_correct"`
	HighConfidenceAccuracy float64   `json:"high_confidence_accuracy"`
	LogLoss                float64   `json:"log_loss"`
	Probabilities          []float64 `json:"probabilities"`
	Predicted              []int     `json:"predicted"`
	HighConfidence         []bool    `json:"high_confidence"`
}

// Evaluate predicts the home side when p > 0.5 and counts a prediction as high
// confidence when |p - 0.5| > threshold. Empty subsets report zero accuracy.
func Evaluate(model *Model, X [][]float64, y []float64, threshold float64) (Evaluation, error) {
	if len(X) != len(y) {
		return Evaluation{}, fmt.Errorf("evaluation set has %d rows but %d labels", len(X), len(y))
	}
	probs, err := model.Predict(X)
	if err != nil {
		return Evaluation{}, err
	}

	ev := Evaluation{
		Total:          len(X),
		Probabilities:  probs,
		Predicted:      make([]int, len(X)),
		HighConfidence: make([]bool, len(X)),
		LogLoss:        LogLoss(probs, y),
	}
	for i, p := range probs {
		pred := 0
		if p > 0.5 {
			pred = 1
		}
		ev.Predicted[i] = pred
		hit := float64(pred) == y[i]
		if hit {
			ev.Correct++
		}

		conf := p - 0.5
		if conf < 0 {
			conf = -conf
		}
		if conf > threshold {
			ev.HighConfidence[i] = true
			ev.HighConfidenceTotal++
			if hit {
				ev.HighConfidenceCorrect++
			}
		}
	}
	ev.Accuracy = ratio(ev.Correct, ev.Total)
	ev.HighConfidenceAccuracy = ratio(ev.HighConfidenceCorrect, ev.HighConfidenceTotal)
	return ev, nil
}

func ratio(num, den int) float64 {
	if den == 0 {
		return 0
	}
	return float64(num) / float64(den)
}
