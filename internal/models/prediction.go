package models

// PredictRequest is the body of POST /predict.
type PredictRequest struct {
	TrainingData []RawSession `json:"trainingData"`
	CurrentHour  *int         `json:"currentHour"`
	DayOfWeek    *int         `json:"dayOfWeek,omitempty"`
}

// PredictionResult is the recommended study/break pair, in seconds.
type PredictionResult struct {
	Duration   int     `json:"duration"`
	BreakTime  int     `json:"break_time"`
	Confidence float64 `json:"confidence"`
	Message    string  `json:"message"`
}

// FeatureVector is the model input for one session or for the current moment.
type FeatureVector struct {
	TimeWeight      float64 `json:"time_weight"`
	WeekendWeight   float64 `json:"weekend_weight"`
	NormalizedScore float64 `json:"normalized_score"`
}

// Slice returns the vector in column order.
func (f FeatureVector) Slice() []float64 {
	return []float64{f.TimeWeight, f.WeekendWeight, f.NormalizedScore}
}
