package models

// TimeOfDay labels the buckets used by pattern analysis.
type TimeOfDay string

const (
	TimeOfDayMorning   TimeOfDay = "morning"
	TimeOfDayAfternoon TimeOfDay = "afternoon"
	TimeOfDayEvening   TimeOfDay = "evening"
	TimeOfDayNight     TimeOfDay = "night"
)

// FeedbackRequest is the body of POST /feedback.
type FeedbackRequest struct {
	TrainingData []RawSession `json:"trainingData"`
}

// BucketStat holds score totals for one time-of-day bucket.
type BucketStat struct {
	Label      TimeOfDay `json:"label"`
	Count      int       `json:"count"`
	TotalScore float64   `json:"total_score"`
	AvgScore   float64   `json:"avg_score"`
}

// PatternStats is the output of pattern analysis over processed sessions.
type PatternStats struct {
	TotalSessions   int          `json:"total_sessions"`
	AvgStudyMinutes float64      `json:"avg_study_minutes"`
	AvgBreakMinutes float64      `json:"avg_break_minutes"`
	AvgScore        float64      `json:"avg_score"`
	TimeOfDay       []BucketStat `json:"time_of_day"`
	BestTimeOfDay   TimeOfDay    `json:"best_time_of_day,omitempty"`
	WeekdayAvgScore float64      `json:"weekday_avg_score"`
	WeekendAvgScore float64      `json:"weekend_avg_score"`
	WeekdayCount    int          `json:"weekday_count"`
	WeekendCount    int          `json:"weekend_count"`
}

// FeedbackReport is the narrative study-pattern report.
type FeedbackReport struct {
	Summary             string        `json:"summary"`
	Strengths           []string      `json:"strengths"`
	AreasForImprovement []string      `json:"areasForImprovement"`
	Recommendations     []string      `json:"recommendations"`
	Stats               *PatternStats `json:"stats,omitempty"`
}
