package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rivermin01/personal-study-guide/internal/logger"
	"github.com/rivermin01/personal-study-guide/internal/models"
)

const (
	highScoreThreshold     = 80.0
	lowScoreThreshold      = 60.0
	weekendGapThreshold    = 10.0
	shortSessionMinutes    = 20.0
	longSessionMinutes     = 40.0
	minSessionsForPatterns = 5
)

const (
	msgNoDataSummary        = "There are no study sessions to analyze yet."
	msgNoDataRecommendation = "Record a few study sessions and try again. We'll analyze your study patterns and give you personalized feedback!"
	msgErrorSummary         = "An error occurred while generating feedback."
	msgNeedMoreData         = "There is not enough data yet, or no clear pattern has emerged. Keep recording study sessions!"
	msgRoutine              = "Build a consistent study routine. Starting and taking breaks at the same time each day helps improve focus."
	msgGoals                = "Set concrete study goals and review how well you met them after each session."
)

// ErrNoFeedbackRequest is returned when the feedback body is JSON null.
var ErrNoFeedbackRequest = errors.New("feedback request body is null")

var timeOfDayNames = map[models.TimeOfDay]string{
	models.TimeOfDayMorning:   "the morning",
	models.TimeOfDayAfternoon: "the afternoon",
	models.TimeOfDayEvening:   "the evening",
	models.TimeOfDayNight:     "at night",
}

// NoDataReport is returned when there are no sessions to analyze.
func NoDataReport() models.FeedbackReport {
	return models.FeedbackReport{
		Summary:             msgNoDataSummary,
		Strengths:           []string{},
		AreasForImprovement: []string{},
		Recommendations:     []string{msgNoDataRecommendation},
	}
}

// ErrorReport is the degraded report returned alongside a failure.
func ErrorReport(err error) models.FeedbackReport {
	return models.FeedbackReport{
		Summary:             msgErrorSummary,
		Strengths:           []string{},
		AreasForImprovement: []string{},
		Recommendations:     []string{fmt.Sprintf("error: %v. Please contact the server administrator.", err)},
	}
}

// ComposeFeedback turns pattern statistics into the narrative report.
// Whole-number figures in messages are truncated, not rounded.
func ComposeFeedback(stats models.PatternStats) models.FeedbackReport {
	strengths := []string{}
	improvements := []string{}
	recommendations := []string{}
	enough := stats.TotalSessions >= minSessionsForPatterns

	if stats.BestTimeOfDay != "" {
		strengths = append(strengths, fmt.Sprintf(
			"Your best focus time is %s. Schedule important study during this time.",
			timeOfDayNames[stats.BestTimeOfDay]))
	}

	if stats.AvgScore > highScoreThreshold {
		strengths = append(strengths, fmt.Sprintf(
			"Your average focus score is %d, which is excellent. Keep up the great concentration!",
			int(stats.AvgScore)))
	} else if stats.AvgScore < lowScoreThreshold && enough {
		improvements = append(improvements, fmt.Sprintf(
			"Your average focus score is %d, which is somewhat low. Try improving your study environment or practicing focus with shorter sessions.",
			int(stats.AvgScore)))
	}

	if stats.WeekdayAvgScore > 0 && stats.WeekendAvgScore > 0 {
		weekday, weekend := stats.WeekdayAvgScore, stats.WeekendAvgScore
		switch {
		case weekday-weekend > weekendGapThreshold:
			improvements = append(improvements, fmt.Sprintf(
				"Your focus on weekends (avg %d) tends to be lower than on weekdays (avg %d). Weekends may be better suited to light review.",
				int(weekend), int(weekday)))
		case weekend-weekday > weekendGapThreshold:
			strengths = append(strengths, fmt.Sprintf(
				"Your focus on weekends (avg %d) is higher than on weekdays (avg %d). Make the most of your weekends!",
				int(weekend), int(weekday)))
		}
	}

	if stats.AvgStudyMinutes < shortSessionMinutes && enough {
		improvements = append(improvements, fmt.Sprintf(
			"Your average study session is %d minutes, which is on the short side. Try gradually extending your sessions to build focus.",
			int(stats.AvgStudyMinutes)))
	} else if stats.AvgStudyMinutes > longSessionMinutes && enough {
		strengths = append(strengths, fmt.Sprintf(
			"Your average study session is %d minutes, so you are good at sustained focus. Take regular breaks so long sessions stay effective.",
			int(stats.AvgStudyMinutes)))
	}

	if len(strengths) == 0 && len(improvements) == 0 {
		recommendations = append(recommendations, msgNeedMoreData)
	}
	if stats.AvgScore > 0 {
		recommendations = append(recommendations, msgRoutine, msgGoals)
	}

	return models.FeedbackReport{
		Summary:             fmt.Sprintf("Analyzed %d study sessions.", stats.TotalSessions),
		Strengths:           strengths,
		AreasForImprovement: improvements,
		Recommendations:     recommendations,
	}
}

type feedbackService struct{}

// NewFeedbackService creates a feedback service.
func NewFeedbackService() FeedbackService {
	return &feedbackService{}
}

// Feedback analyzes the request's sessions and composes a report.
func (s *feedbackService) Feedback(ctx context.Context, req *models.FeedbackRequest) (out FeedbackOutcome) {
	log := logger.Ctx(ctx)

	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("feedback panicked: %v", r)
			log.Error("feedback failed", logger.Err(err))
			out = feedbackFailure(err)
		}
	}()

	if req == nil {
		return feedbackFailure(ErrNoFeedbackRequest)
	}
	if len(req.TrainingData) == 0 {
		return FeedbackOutcome{Kind: OutcomeInsufficientData, Report: NoDataReport()}
	}

	sessions, err := AggregateSessions(req.TrainingData)
	if err != nil {
		return feedbackFailure(err)
	}

	stats := AnalyzePatterns(sessions)
	report := ComposeFeedback(stats)
	report.Stats = &stats

	log.Debug("feedback composed",
		logger.Int("sessions", stats.TotalSessions),
		logger.String("best_time_of_day", string(stats.BestTimeOfDay)),
		logger.Int("strengths", len(report.Strengths)),
		logger.Int("improvements", len(report.AreasForImprovement)),
	)

	return FeedbackOutcome{Kind: OutcomeOK, Report: report}
}

func feedbackFailure(err error) FeedbackOutcome {
	return FeedbackOutcome{Kind: OutcomeFailure, Report: ErrorReport(err), Err: err}
}
