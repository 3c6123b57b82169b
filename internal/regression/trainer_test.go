package regression

import (
	"math"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// linearSessions returns n feature rows in the service's value ranges and
// targets that are an exact positive linear function of them.
func linearSessions(n int) ([][]float64, []float64) {
	timeWeights := []float64{1.0, 0.8, 0.7, 0.5}
	x := make([][]float64, n)
	y := make([]float64, n)
	for i := 0; i < n; i++ {
		weekend := 1.0
		if i%3 == 0 {
			weekend = 0.8
		}
		score := float64(40+(i*7)%60) / 100
		x[i] = []float64{timeWeights[i%4], weekend, score}
		y[i] = 600*x[i][0] + 300*x[i][1] + 1200*x[i][2] + 100
	}
	return x, y
}

func TestTrain_TooFewSamples(t *testing.T) {
	x, y := linearSessions(MinTrainingSamples - 1)
	model, confidence, err := Train(x, y)
	if err != nil {
		t.Fatalf("Train() error = %v", err)
	}
	if model != nil {
		t.Error("Train() with too few samples returned a model")
	}
	if confidence != 0 {
		t.Errorf("confidence = %v, want 0", confidence)
	}
}

func TestTrain_PerfectFit(t *testing.T) {
	x, y := linearSessions(SaturationSamples)
	model, confidence, err := Train(x, y)
	if err != nil {
		t.Fatalf("Train() error = %v", err)
	}
	if model == nil {
		t.Fatal("Train() returned nil model")
	}
	if model.MAPE > 1e-6 {
		t.Errorf("MAPE = %v, want ~0", model.MAPE)
	}
	if !approxEqual(confidence, 1, 1e-6) {
		t.Errorf("confidence = %v, want ~1", confidence)
	}
	if model.Samples != SaturationSamples {
		t.Errorf("Samples = %d, want %d", model.Samples, SaturationSamples)
	}

	want := 600*0.7 + 300*1.0 + 1200*0.55 + 100
	if got := model.Predict([]float64{0.7, 1.0, 0.55}); !approxEqual(got, want, 1e-6) {
		t.Errorf("Predict() = %v, want %v", got, want)
	}
}

func TestTrain_DataFactorScalesConfidence(t *testing.T) {
	x, y := linearSessions(10)
	_, confidence, err := Train(x, y)
	if err != nil {
		t.Fatalf("Train() error = %v", err)
	}
	if !approxEqual(confidence, 0.5, 1e-6) {
		t.Errorf("confidence = %v, want ~0.5 for 10 samples", confidence)
	}
}

func TestTrain_AllZeroTargets(t *testing.T) {
	x, _ := linearSessions(10)
	y := make([]float64, len(x))

	model, confidence, err := Train(x, y)
	if err != nil {
		t.Fatalf("Train() error = %v", err)
	}
	if model == nil {
		t.Fatal("Train() returned nil model for 10 samples")
	}
	if model.MAPE != MaxMAPE {
		t.Errorf("MAPE = %v, want %v", model.MAPE, MaxMAPE)
	}
	if confidence != 0 {
		t.Errorf("confidence = %v, want 0", confidence)
	}
}

func TestTrain_RaggedRows(t *testing.T) {
	x, y := linearSessions(6)
	x[3] = x[3][:2]
	if _, _, err := Train(x, y); err == nil {
		t.Error("Train() with a short row returned nil error")
	}
}

func TestMAPE(t *testing.T) {
	tests := []struct {
		name      string
		actual    []float64
		predicted []float64
		want      float64
	}{
		{name: "exact", actual: []float64{10, 20}, predicted: []float64{10, 20}, want: 0},
		{name: "ten percent", actual: []float64{100, 200}, predicted: []float64{110, 180}, want: 10},
		{name: "zeros skipped", actual: []float64{0, 100}, predicted: []float64{50, 150}, want: 50},
		{name: "all zero", actual: []float64{0, 0, 0}, predicted: []float64{1, 2, 3}, want: MaxMAPE},
		{name: "negative actual", actual: []float64{-100}, predicted: []float64{-90}, want: 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MAPE(tt.actual, tt.predicted); !approxEqual(got, tt.want, 1e-9) {
				t.Errorf("MAPE() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDataFactor(t *testing.T) {
	tests := []struct {
		n    int
		want float64
	}{
		{n: 0, want: 0},
		{n: 5, want: 0.25},
		{n: 10, want: 0.5},
		{n: 20, want: 1},
		{n: 500, want: 1},
	}
	for _, tt := range tests {
		if got := DataFactor(tt.n); got != tt.want {
			t.Errorf("DataFactor(%d) = %v, want %v", tt.n, got, tt.want)
		}
	}
}

func TestConfidenceProperties(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("confidence stays within [0,1]", prop.ForAll(
		func(mape float64, n int) bool {
			c := Confidence(mape, n)
			return c >= 0 && c <= 1
		},
		gen.Float64Range(0, 1000),
		gen.IntRange(0, 1000),
	))

	properties.Property("base confidence is zero at or above the ceiling", prop.ForAll(
		func(mape float64) bool {
			return BaseConfidence(mape) == 0
		},
		gen.Float64Range(MAPECeiling, 1e6),
	))

	properties.Property("data factor saturates from twenty samples", prop.ForAll(
		func(n int) bool {
			return DataFactor(n) == 1
		},
		gen.IntRange(SaturationSamples, 10000),
	))

	properties.Property("data factor is linear below saturation", prop.ForAll(
		func(n int) bool {
			return math.Abs(DataFactor(n)-float64(n)/SaturationSamples) < 1e-12
		},
		gen.IntRange(0, SaturationSamples),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}
