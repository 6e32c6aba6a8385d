package dates

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var monthsEN = []string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

func TestParse(t *testing.T) {
	tests := []struct {
		in    string
		kind  Kind
		year  int
		month int
		day   int
	}{
		{"2021-03-15", Concrete, 2021, 3, 15},
		{"2021-03", Concrete, 2021, 3, 1},
		{"2021", Concrete, 2021, 1, 1},
		{" 2021-03 ", Concrete, 2021, 3, 1},
		{"", Unbounded, 0, 0, 0},
		{"   ", Unbounded, 0, 0, 0},
		{"now", Unbounded, 0, 0, 0},
		{"Present", Unbounded, 0, 0, 0},
		{"CURRENT", Unbounded, 0, 0, 0},
		{"ongoing", Unbounded, 0, 0, 0},
		{"2021-13", Invalid, 0, 0, 0},
		{"2021-02-30", Invalid, 0, 0, 0},
		{"March 2021", Invalid, 0, 0, 0},
		{"21-03", Invalid, 0, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			d := Parse(tt.in)
			require.Equal(t, tt.kind, d.Kind())
			if tt.kind != Concrete {
				return
			}
			tm, ok := d.Time()
			require.True(t, ok)
			assert.Equal(t, tt.year, tm.Year())
			assert.Equal(t, tt.month, int(tm.Month()))
			assert.Equal(t, tt.day, tm.Day())
		})
	}
}

func TestMonthsBetween(t *testing.T) {
	tests := []struct {
		name string
		a, b Date
		want int
		ok   bool
	}{
		{"same date", Of(2020, 5, 10), Of(2020, 5, 10), 0, true},
		{"whole months", Of(2020, 1, 1), Of(2020, 7, 1), 6, true},
		{"across years", Of(2019, 11, 1), Of(2020, 2, 1), 3, true},
		{"partial month not counted", Of(2020, 1, 15), Of(2020, 3, 14), 1, true},
		{"floored at zero", Of(2021, 1, 1), Of(2020, 1, 1), 0, true},
		{"unbounded start", Parse("present"), Of(2020, 1, 1), 0, false},
		{"invalid end", Of(2020, 1, 1), Parse("soon"), 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := MonthsBetween(tt.a, tt.b)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMonthsBetween_NeverNegative(t *testing.T) {
	base := Of(2015, 6, 20)
	for offset := 0; offset < 400; offset += 7 {
		later := FromTime(time.Date(2015, 6, 20+offset, 0, 0, 0, 0, time.UTC))
		got, ok := MonthsBetween(base, later)
		require.True(t, ok)
		assert.GreaterOrEqual(t, got, 0)
	}
}

func TestOrToday(t *testing.T) {
	today := Of(2025, 10, 19)
	assert.Equal(t, today, OrToday(Parse("now"), today))
	assert.Equal(t, today, OrToday(Parse("garbage"), today))
	assert.Equal(t, "2020-01", FormatYearMonth(OrToday(Parse("2020"), today)))
}

func TestFormatYearMonth(t *testing.T) {
	assert.Equal(t, "2020-03", FormatYearMonth(Of(2020, 3, 9)))
	assert.Equal(t, "0999-12", FormatYearMonth(Of(999, 12, 1)))
	assert.Equal(t, "", FormatYearMonth(Parse("ongoing")))
}

func TestFormatLabel(t *testing.T) {
	assert.Equal(t, "Oct 2025", FormatLabel("2025-10", monthsEN))
	assert.Equal(t, "2025", FormatLabel("2025", monthsEN))
	assert.Equal(t, "Mar 2021", FormatLabel("2021-03-15", monthsEN))
	assert.Equal(t, "Dec 2025", FormatLabel("2025-13", monthsEN))
	assert.Equal(t, "Jan 2025", FormatLabel("2025-00", monthsEN))
	assert.Equal(t, "", FormatLabel("", monthsEN))
	assert.Equal(t, "soon", FormatLabel("soon", monthsEN))
}

func TestFormatLabel_MalformedMonthTable(t *testing.T) {
	assert.Equal(t, "2025-10", FormatLabel("2025-10", []string{"Jan", "Feb"}))
	assert.Equal(t, "2021-03-15", FormatLabel("2021-03-15", nil))
	assert.Equal(t, "2025", FormatLabel("2025", nil))
}

func TestClock_Today(t *testing.T) {
	clock := Fixed(time.Date(2024, 2, 29, 23, 59, 0, 0, time.UTC))
	assert.Equal(t, Of(2024, 2, 29), clock.Today())
}
