package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimeOfDayNormalizesEncodings(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want TimeOfDay
	}{
		{"plain", "07:00", TimeOfDay{7, 0}},
		{"with seconds", "07:00:30", TimeOfDay{7, 0}},
		{"epoch timestamp", "1970-01-01T07:00:00.000Z", TimeOfDay{7, 0}},
		{"modern timestamp", "2024-03-15T14:30:00Z", TimeOfDay{14, 30}},
		{"positive offset", "07:50:00+05:00", TimeOfDay{7, 50}},
		{"negative offset without seconds", "07:00-05:00", TimeOfDay{7, 0}},
		{"negative offset with fraction", "1970-01-01T09:40:00.000-05:00", TimeOfDay{9, 40}},
		{"padded whitespace", "  08:50  ", TimeOfDay{8, 50}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseTimeOfDay(tc.raw)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestParseTimeOfDayEquivalentEncodingsCollapse(t *testing.T) {
	forms := []string{"07:00", "07:00:00", "1970-01-01T07:00:00.000Z", "07:00:00Z"}
	for _, form := range forms {
		got, err := ParseTimeOfDay(form)
		require.NoError(t, err)
		assert.Equal(t, "07:00", got.String(), "form %q", form)
	}
}

func TestParseTimeOfDayRejectsMalformedInput(t *testing.T) {
	for _, raw := range []string{"", "late", "25:00", "07:61", "07", "aa:bb"} {
		_, err := ParseTimeOfDay(raw)
		assert.Error(t, err, "raw %q", raw)
	}
}

func TestTimeOfDayBefore(t *testing.T) {
	assert.True(t, TimeOfDay{7, 0}.Before(TimeOfDay{7, 50}))
	assert.True(t, TimeOfDay{7, 50}.Before(TimeOfDay{8, 0}))
	assert.False(t, TimeOfDay{8, 0}.Before(TimeOfDay{8, 0}))
	assert.False(t, TimeOfDay{9, 0}.Before(TimeOfDay{8, 59}))
}

func TestTimeOfDayJSONRoundTrip(t *testing.T) {
	payload, err := json.Marshal(TimeOfDay{9, 40})
	require.NoError(t, err)
	assert.Equal(t, `"09:40"`, string(payload))

	var decoded TimeOfDay
	require.NoError(t, json.Unmarshal([]byte(`"1970-01-01T09:40:00.000Z"`), &decoded))
	assert.Equal(t, TimeOfDay{9, 40}, decoded)
}

func TestTimeOfDayScan(t *testing.T) {
	var fromTime TimeOfDay
	require.NoError(t, fromTime.Scan(time.Date(0, 1, 1, 11, 30, 0, 0, time.UTC)))
	assert.Equal(t, TimeOfDay{11, 30}, fromTime)

	var fromBytes TimeOfDay
	require.NoError(t, fromBytes.Scan([]byte("07:50:00")))
	assert.Equal(t, TimeOfDay{7, 50}, fromBytes)

	var fromString TimeOfDay
	require.NoError(t, fromString.Scan("10:40:00"))
	assert.Equal(t, TimeOfDay{10, 40}, fromString)

	var invalid TimeOfDay
	assert.Error(t, invalid.Scan(42))
}

func TestTimeOfDayValue(t *testing.T) {
	v, err := TimeOfDay{7, 5}.Value()
	require.NoError(t, err)
	assert.Equal(t, "07:05:00", v)
}

func TestNormalizeDayAcceptsAliases(t *testing.T) {
	cases := map[string]string{
		"MON":       DayMonday,
		"monday":    DayMonday,
		"LUN":       DayMonday,
		"mar":       DayTuesday,
		"MIE":       DayWednesday,
		"JUE":       DayThursday,
		"vie":       DayFriday,
		"SAB":       DaySaturday,
		"DOM":       DaySunday,
		" friday  ": DayFriday,
	}
	for raw, want := range cases {
		got, err := NormalizeDay(raw)
		require.NoError(t, err, "raw %q", raw)
		assert.Equal(t, want, got, "raw %q", raw)
	}

	_, err := NormalizeDay("FUNDAY")
	assert.Error(t, err)
}

func TestDayOrderSortsMondayFirst(t *testing.T) {
	assert.Less(t, DayOrder(DayMonday), DayOrder(DayTuesday))
	assert.Less(t, DayOrder(DaySaturday), DayOrder(DaySunday))
	assert.Greater(t, DayOrder("???"), DayOrder(DaySunday))
}
