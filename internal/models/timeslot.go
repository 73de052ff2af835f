package models

import (
	"database/sql/driver"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// TimeOfDay is a pure wall-clock value (hour, minute). Slot identity is
// built from this type, never from calendar timestamps: historical data
// encoded "07:00" as "1970-01-01T07:00:00.000Z" and string comparison of
// those forms produced phantom lookup misses.
type TimeOfDay struct {
	Hour   int
	Minute int
}

// ParseTimeOfDay accepts "HH:MM", "HH:MM:SS", and full ISO timestamps.
// Any date prefix and timezone suffix is stripped, seconds are truncated.
func ParseTimeOfDay(raw string) (TimeOfDay, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return TimeOfDay{}, fmt.Errorf("empty time of day")
	}

	// Drop a calendar prefix such as "1970-01-01T".
	if idx := strings.LastIndex(s, "T"); idx >= 0 {
		s = s[idx+1:]
	}
	s = strings.TrimSuffix(s, "Z")
	// Drop a timezone offset ("07:00:00+05:00" / "07:00-05:00"). Safe to
	// scan for "-" here: any calendar date was already cut at its "T".
	if idx := strings.IndexAny(s, "+-"); idx >= 0 {
		s = s[:idx]
	}
	if idx := strings.Index(s, "."); idx >= 0 {
		s = s[:idx]
	}

	parts := strings.Split(s, ":")
	if len(parts) < 2 {
		return TimeOfDay{}, fmt.Errorf("malformed time of day %q", raw)
	}

	hour, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil || hour < 0 || hour > 23 {
		return TimeOfDay{}, fmt.Errorf("invalid hour in %q", raw)
	}
	minute, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil || minute < 0 || minute > 59 {
		return TimeOfDay{}, fmt.Errorf("invalid minute in %q", raw)
	}

	return TimeOfDay{Hour: hour, Minute: minute}, nil
}

// String renders the canonical zero-padded "HH:MM" form.
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// Before reports whether t precedes other.
func (t TimeOfDay) Before(other TimeOfDay) bool {
	if t.Hour != other.Hour {
		return t.Hour < other.Hour
	}
	return t.Minute < other.Minute
}

// MarshalJSON emits the canonical "HH:MM" form.
func (t TimeOfDay) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(t.String())), nil
}

// UnmarshalJSON accepts any supported serialized form and normalizes it.
func (t *TimeOfDay) UnmarshalJSON(data []byte) error {
	raw, err := strconv.Unquote(string(data))
	if err != nil {
		return fmt.Errorf("time of day must be a string: %w", err)
	}
	parsed, err := ParseTimeOfDay(raw)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Scan implements sql.Scanner for TIME columns.
func (t *TimeOfDay) Scan(src interface{}) error {
	switch v := src.(type) {
	case time.Time:
		*t = TimeOfDay{Hour: v.Hour(), Minute: v.Minute()}
		return nil
	case []byte:
		parsed, err := ParseTimeOfDay(string(v))
		if err != nil {
			return err
		}
		*t = parsed
		return nil
	case string:
		parsed, err := ParseTimeOfDay(v)
		if err != nil {
			return err
		}
		*t = parsed
		return nil
	default:
		return fmt.Errorf("cannot scan %T into TimeOfDay", src)
	}
}

// Value implements driver.Valuer for TIME columns.
func (t TimeOfDay) Value() (driver.Value, error) {
	return fmt.Sprintf("%02d:%02d:00", t.Hour, t.Minute), nil
}

// Canonical day-of-week codes. Legacy seed data used Spanish abbreviations;
// both spellings normalize to the same code.
const (
	DayMonday    = "MON"
	DayTuesday   = "TUE"
	DayWednesday = "WED"
	DayThursday  = "THU"
	DayFriday    = "FRI"
	DaySaturday  = "SAT"
	DaySunday    = "SUN"
)

var dayAliases = map[string]string{
	"MON": DayMonday, "MONDAY": DayMonday, "LUN": DayMonday,
	"TUE": DayTuesday, "TUESDAY": DayTuesday, "MAR": DayTuesday,
	"WED": DayWednesday, "WEDNESDAY": DayWednesday, "MIE": DayWednesday,
	"THU": DayThursday, "THURSDAY": DayThursday, "JUE": DayThursday,
	"FRI": DayFriday, "FRIDAY": DayFriday, "VIE": DayFriday,
	"SAT": DaySaturday, "SATURDAY": DaySaturday, "SAB": DaySaturday,
	"SUN": DaySunday, "SUNDAY": DaySunday, "DOM": DaySunday,
}

var dayOrder = map[string]int{
	DayMonday:    1,
	DayTuesday:   2,
	DayWednesday: 3,
	DayThursday:  4,
	DayFriday:    5,
	DaySaturday:  6,
	DaySunday:    7,
}

// NormalizeDay maps any accepted spelling of a weekday onto its canonical
// three-letter code.
func NormalizeDay(raw string) (string, error) {
	key := strings.ToUpper(strings.TrimSpace(raw))
	if canonical, ok := dayAliases[key]; ok {
		return canonical, nil
	}
	return "", fmt.Errorf("unknown day of week %q", raw)
}

// DayOrder returns the sort index (Monday first) for a canonical day code.
// Unknown codes sort last.
func DayOrder(day string) int {
	if idx, ok := dayOrder[day]; ok {
		return idx
	}
	return len(dayOrder) + 1
}

// TimeSlot is a canonical scheduling period. The (day_of_week, start_time,
// end_time) triple is the only legitimate identity and is unique in the
// database. Slots are created lazily and never mutated or deleted.
type TimeSlot struct {
	ID        string    `db:"id" json:"id"`
	DayOfWeek string    `db:"day_of_week" json:"day_of_week"`
	StartTime TimeOfDay `db:"start_time" json:"start_time"`
	EndTime   TimeOfDay `db:"end_time" json:"end_time"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
