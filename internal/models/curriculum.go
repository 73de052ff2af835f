package models

// CurriculumEntry maps a course into a curriculum year/semester bucket.
// It partitions results independently of the Course.Year/Semester fields
// but must reconcile to the same values.
type CurriculumEntry struct {
	ID       string   `db:"id" json:"id"`
	CourseID string   `db:"course_id" json:"course_id"`
	Year     int      `db:"year" json:"year"`
	Semester Semester `db:"semester" json:"semester"`
}
