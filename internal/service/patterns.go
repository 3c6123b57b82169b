package service

import "github.com/rivermin01/personal-study-guide/internal/models"

// feedbackTimeBands buckets hours for pattern analysis. Hours outside every
// band are night.
//
// Kept separate from predictionTimeBands; see the note there.
var feedbackTimeBands = []timeBand[models.TimeOfDay]{
	{start: 5, end: 12, value: models.TimeOfDayMorning},
	{start: 12, end: 17, value: models.TimeOfDayAfternoon},
	{start: 17, end: 21, value: models.TimeOfDayEvening},
}

// bucketOrder is the iteration order for best-bucket selection; on equal
// averages the earlier bucket wins.
var bucketOrder = []models.TimeOfDay{
	models.TimeOfDayMorning,
	models.TimeOfDayAfternoon,
	models.TimeOfDayEvening,
	models.TimeOfDayNight,
}

// TimeOfDayFor returns the feedback bucket for an hour of day.
func TimeOfDayFor(hour int) models.TimeOfDay {
	return lookupBand(feedbackTimeBands, hour, models.TimeOfDayNight)
}

// AnalyzePatterns computes overall averages, per time-of-day scores and the
// weekday/weekend comparison. Empty input yields zero stats.
func AnalyzePatterns(sessions []models.ProcessedSession) models.PatternStats {
	stats := models.PatternStats{TotalSessions: len(sessions)}

	buckets := make(map[models.TimeOfDay]*models.BucketStat, len(bucketOrder))
	for _, label := range bucketOrder {
		buckets[label] = &models.BucketStat{Label: label}
	}

	var totalStudy, totalBreak, totalScore float64
	var weekdayScore, weekendScore float64
	for _, s := range sessions {
		totalStudy += s.Duration
		totalBreak += s.BreakTime
		totalScore += s.Score

		b := buckets[TimeOfDayFor(s.Hour)]
		b.Count++
		b.TotalScore += s.Score

		if s.IsWeekend() {
			weekendScore += s.Score
			stats.WeekendCount++
		} else {
			weekdayScore += s.Score
			stats.WeekdayCount++
		}
	}

	if n := float64(len(sessions)); n > 0 {
		stats.AvgStudyMinutes = totalStudy / n / 60
		stats.AvgBreakMinutes = totalBreak / n / 60
		stats.AvgScore = totalScore / n
	}
	if stats.WeekdayCount > 0 {
		stats.WeekdayAvgScore = weekdayScore / float64(stats.WeekdayCount)
	}
	if stats.WeekendCount > 0 {
		stats.WeekendAvgScore = weekendScore / float64(stats.WeekendCount)
	}

	highest := -1.0
	stats.TimeOfDay = make([]models.BucketStat, 0, len(bucketOrder))
	for _, label := range bucketOrder {
		b := buckets[label]
		if b.Count > 0 {
			b.AvgScore = b.TotalScore / float64(b.Count)
			if b.AvgScore > highest {
				highest = b.AvgScore
				stats.BestTimeOfDay = label
			}
		}
		stats.TimeOfDay = append(stats.TimeOfDay, *b)
	}

	return stats
}
