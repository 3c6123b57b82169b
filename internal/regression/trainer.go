// Package regression fits the per-target linear models behind study-time
// recommendations and scores how far each fit can be trusted.
package regression

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

const (
	// MinTrainingSamples is the smallest training set a model is fitted on.
	MinTrainingSamples = 5

	// SaturationSamples is the sample count at which dataFactor reaches 1.
	SaturationSamples = 20

	// MAPECeiling is the MAPE (percent) at which base confidence hits 0.
	MAPECeiling = 20.0

	// MaxMAPE is reported when no target value is non-zero.
	MaxMAPE = 100.0
)

// TrainedModel is a scaler plus linear fit for one target.
type TrainedModel struct {
	Scaler     *StandardScaler
	Model      *LinearModel
	Confidence float64
	MAPE       float64
	Samples    int
}

// Predict scales one raw feature row and evaluates the fit on it.
func (t *TrainedModel) Predict(features []float64) float64 {
	return t.Model.Predict(t.Scaler.TransformVec(features))
}

// Train fits a model of y on x. With fewer than MinTrainingSamples rows it
// returns (nil, 0, nil): too little data is a normal outcome, not an error.
func Train(x [][]float64, y []float64) (*TrainedModel, float64, error) {
	n := len(x)
	if n < MinTrainingSamples {
		return nil, 0, nil
	}
	if len(y) != n {
		return nil, 0, fmt.Errorf("regression: %d feature rows but %d targets", n, len(y))
	}

	cols := len(x[0])
	data := make([]float64, 0, n*cols)
	for i, row := range x {
		if len(row) != cols {
			return nil, 0, fmt.Errorf("regression: row %d has %d features, want %d", i, len(row), cols)
		}
		data = append(data, row...)
	}
	design := mat.NewDense(n, cols, data)

	scaler, err := FitScaler(design)
	if err != nil {
		return nil, 0, fmt.Errorf("fit scaler: %w", err)
	}
	scaled := scaler.Transform(design)

	model, err := FitLinear(scaled, y)
	if err != nil {
		return nil, 0, fmt.Errorf("fit linear model: %w", err)
	}

	mape := MAPE(y, model.PredictAll(scaled))
	if !finite(mape) {
		return nil, 0, fmt.Errorf("regression: non-finite MAPE %v", mape)
	}
	confidence := Confidence(mape, n)

	return &TrainedModel{
		Scaler:     scaler,
		Model:      model,
		Confidence: confidence,
		MAPE:       mape,
		Samples:    n,
	}, confidence, nil
}

// MAPE is the mean absolute percentage error over entries with a non-zero
// actual value. It is MaxMAPE when every actual is zero.
func MAPE(actual, predicted []float64) float64 {
	var sum float64
	var count int
	for i, a := range actual {
		if a == 0 {
			continue
		}
		sum += math.Abs((a - predicted[i]) / a)
		count++
	}
	if count == 0 {
		return MaxMAPE
	}
	return sum / float64(count) * 100
}

// DataFactor scales confidence by training-set size, saturating at 1.
func DataFactor(n int) float64 {
	return math.Min(1.0, float64(n)/SaturationSamples)
}

// BaseConfidence maps MAPE to [0,1]; it is 0 from MAPECeiling upward.
func BaseConfidence(mape float64) float64 {
	return math.Max(0, 1-mape/MAPECeiling)
}

// Confidence combines fit accuracy and sample count.
func Confidence(mape float64, n int) float64 {
	return BaseConfidence(mape) * DataFactor(n)
}
