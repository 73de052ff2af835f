package service

import (
	"fmt"

	"github.com/acad-scheduler/timetable-api/internal/dto"
	"github.com/acad-scheduler/timetable-api/internal/models"
)

// FormatByYear partitions sessions into the five curriculum-year buckets.
// Sessions whose year falls outside 1..5 are dropped, not errored. Pure
// function, no side effects.
func FormatByYear(sessions []dto.ScheduleSession, metadata dto.SnapshotMetadata, semester models.Semester) dto.YearlyReport {
	report := dto.YearlyReport{
		Metadata:        metadata,
		SchedulesByYear: make(map[string]dto.YearSchedule, len(dto.YearNames)),
	}

	for _, name := range dto.YearNames {
		report.SchedulesByYear[name] = dto.YearSchedule{
			CurriculumName: fmt.Sprintf("%s-Semester%s", name, semester),
			Schedule:       make([]dto.ScheduleSession, 0),
		}
	}

	countedCourses := make(map[string]bool)
	for _, session := range sessions {
		yearIndex := session.Year - 1
		if yearIndex < 0 || yearIndex >= len(dto.YearNames) {
			continue
		}
		name := dto.YearNames[yearIndex]

		bucket := report.SchedulesByYear[name]
		bucket.Schedule = append(bucket.Schedule, session)
		bucket.Statistics.TotalSessions++
		report.GlobalStatistics.TotalSessions++

		// Each course counts once per year bucket regardless of how many
		// sessions it occupies.
		courseKey := name + "-" + session.CourseCode
		if !countedCourses[courseKey] {
			bucket.Statistics.TotalCourses++
			report.GlobalStatistics.TotalCourses++
			countedCourses[courseKey] = true
		}
		report.SchedulesByYear[name] = bucket
	}

	return report
}
