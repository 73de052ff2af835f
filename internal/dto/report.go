package dto

// YearNames label curriculum years in report output, index 0 = year 1.
var YearNames = [5]string{"FirstYear", "SecondYear", "ThirdYear", "FourthYear", "FifthYear"}

// YearStatistics counts distinct courses and total sessions for a bucket.
type YearStatistics struct {
	TotalCourses  int `json:"total_courses"`
	TotalSessions int `json:"total_sessions"`
}

// YearSchedule is one curriculum-year partition of the timetable.
type YearSchedule struct {
	CurriculumName string            `json:"curriculum_name"`
	Schedule       []ScheduleSession `json:"schedule"`
	Statistics     YearStatistics    `json:"statistics"`
}

// SkippedSession records a solver session that could not be reconciled
// against existing entities, with the reason for operator auditing.
type SkippedSession struct {
	Session ScheduleSession `json:"session"`
	Reason  string          `json:"reason"`
}

// YearlyReport is the final, year-partitioned view of a scheduling cycle.
type YearlyReport struct {
	Metadata         SnapshotMetadata        `json:"metadata"`
	SchedulesByYear  map[string]YearSchedule `json:"schedules_by_year"`
	GlobalStatistics YearStatistics          `json:"global_statistics"`
	Skipped          []SkippedSession        `json:"skipped,omitempty"`
}
