package availability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 2024-05-12 is a sunday.
func day(offset int) time.Time {
	return time.Date(2024, time.May, 12+offset, 0, 0, 0, 0, time.UTC)
}

var (
	sunday    = day(0)
	monday    = day(1)
	tuesday   = day(2)
	wednesday = day(3)
	thursday  = day(4)
	friday    = day(5)
	saturday  = day(6)
)

func weekWindow() Window {
	return Window{FromWeekday: Monday, ToWeekday: Friday, FromTime: NewClock(9, 0), ToTime: NewClock(17, 0)}
}

func TestWeekdayOf(t *testing.T) {
	require.Equal(t, time.Sunday, sunday.Weekday())
	require.Equal(t, time.Wednesday, wednesday.Weekday())
	assert.Equal(t, Sunday, WeekdayOf(sunday))
	assert.Equal(t, Wednesday, WeekdayOf(wednesday))
	assert.Equal(t, Saturday, WeekdayOf(saturday))
}

func TestCheckScenarios(t *testing.T) {
	validator := NewValidator(CalendarOrdering)
	tests := []struct {
		name string
		date time.Time
		at   Clock
		want error
	}{
		{name: "should accept a wednesday inside the hours", date: wednesday, at: NewClock(10, 0), want: nil},
		{name: "should reject a saturday", date: saturday, at: NewClock(10, 0), want: ErrDayNotWorked},
		{name: "should reject a wednesday after the hours", date: wednesday, at: NewClock(18, 30), want: ErrOutsideHours},
		{name: "should check the weekday before the hours", date: sunday, at: NewClock(23, 0), want: ErrDayNotWorked},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, validator.Check(weekWindow(), tt.date, tt.at))
			assert.Equal(t, tt.want == nil, validator.Contains(weekWindow(), tt.date, tt.at))
		})
	}
}

func TestCheckInclusiveHours(t *testing.T) {
	validator := NewValidator(CalendarOrdering)
	window := Window{FromWeekday: Sunday, ToWeekday: Saturday, FromTime: NewClock(8, 0), ToTime: NewClock(18, 0)}
	assert.True(t, validator.Contains(window, monday, NewClock(8, 0)))
	assert.True(t, validator.Contains(window, monday, NewClock(18, 0)))
	assert.ErrorIs(t, validator.Check(window, monday, NewClock(7, 59)), ErrOutsideHours)
	assert.ErrorIs(t, validator.Check(window, monday, NewClock(18, 1)), ErrOutsideHours)
}

func TestCheckSingleDayWindow(t *testing.T) {
	week := []time.Time{sunday, monday, tuesday, wednesday, thursday, friday, saturday}
	for _, ordering := range []Ordering{CalendarOrdering, LexicalOrdering} {
		validator := NewValidator(ordering)
		for _, only := range week {
			window := Window{FromWeekday: WeekdayOf(only), ToWeekday: WeekdayOf(only), FromTime: NewClock(0, 0), ToTime: NewClock(23, 59)}
			for _, date := range week {
				assert.Equal(t, date.Equal(only), validator.Contains(window, date, NewClock(12, 0)),
					"ordering %s window %s date %s", ordering, window.FromWeekday, WeekdayOf(date))
			}
		}
	}
}

func TestCheckIsIdempotent(t *testing.T) {
	validator := NewValidator(CalendarOrdering)
	first := validator.Check(weekWindow(), wednesday, NewClock(18, 30))
	second := validator.Check(weekWindow(), wednesday, NewClock(18, 30))
	assert.Equal(t, first, second)
}

func TestWeekBoundaryWindow(t *testing.T) {
	window := Window{FromWeekday: Friday, ToWeekday: Monday, FromTime: NewClock(9, 0), ToTime: NewClock(17, 0)}
	at := NewClock(10, 0)
	tests := []struct {
		date         time.Time
		wantCalendar bool
		wantLexical  bool
	}{
		{date: friday, wantCalendar: true, wantLexical: true},
		{date: saturday, wantCalendar: true, wantLexical: false},
		{date: sunday, wantCalendar: true, wantLexical: false},
		{date: monday, wantCalendar: true, wantLexical: true},
		{date: tuesday, wantCalendar: false, wantLexical: false},
		{date: wednesday, wantCalendar: false, wantLexical: false},
		{date: thursday, wantCalendar: false, wantLexical: false},
	}
	calendar := NewValidator(CalendarOrdering)
	lexical := NewValidator(LexicalOrdering)
	for _, tt := range tests {
		assert.Equal(t, tt.wantCalendar, calendar.Contains(window, tt.date, at), "calendar %s", WeekdayOf(tt.date))
		assert.Equal(t, tt.wantLexical, lexical.Contains(window, tt.date, at), "lexical %s", WeekdayOf(tt.date))
	}
}

func TestLexicalWorkWeekRejectsEveryDay(t *testing.T) {
	lexical := NewValidator(LexicalOrdering)
	for _, date := range []time.Time{monday, tuesday, wednesday, thursday, friday} {
		assert.ErrorIs(t, lexical.Check(weekWindow(), date, NewClock(10, 0)), ErrDayNotWorked)
	}
}

func TestNewValidatorDefaultsToCalendar(t *testing.T) {
	assert.Equal(t, CalendarOrdering, NewValidator("").Ordering())
}

func TestParseWeekday(t *testing.T) {
	w, err := ParseWeekday(" Monday ")
	require.NoError(t, err)
	assert.Equal(t, Monday, w)
	_, err = ParseWeekday("funday")
	assert.ErrorIs(t, err, ErrInvalidDay)
}

func TestParseOrdering(t *testing.T) {
	o, err := ParseOrdering("")
	require.NoError(t, err)
	assert.Equal(t, CalendarOrdering, o)
	o, err = ParseOrdering("LEXICAL")
	require.NoError(t, err)
	assert.Equal(t, LexicalOrdering, o)
	_, err = ParseOrdering("alphabetical")
	assert.Error(t, err)
}

func TestParseClock(t *testing.T) {
	tests := []struct {
		in      string
		want    Clock
		wantErr bool
	}{
		{in: "08:00", want: NewClock(8, 0)},
		{in: "18:01:59", want: NewClock(18, 1)},
		{in: "2024-05-15T10:30:00Z", want: NewClock(10, 30)},
		{in: "25:00", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tt := range tests {
		got, err := ParseClock(tt.in)
		if tt.wantErr {
			assert.ErrorIs(t, err, ErrInvalidClock, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestClockFormatting(t *testing.T) {
	c := NewClock(9, 5)
	assert.Equal(t, "09:05", c.String())
	assert.Equal(t, 9, c.Time().Hour())
	assert.Equal(t, 5, c.Time().Minute())
	assert.Equal(t, c, ClockOf(c.Time()))
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-05-15")
	require.NoError(t, err)
	assert.Equal(t, Wednesday, WeekdayOf(d))
	d, err = ParseDate("2024-05-18T23:00:00Z")
	require.NoError(t, err)
	assert.Equal(t, Saturday, WeekdayOf(d))
	_, err = ParseDate("15/05/2024")
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestWindowValidate(t *testing.T) {
	assert.NoError(t, weekWindow().Validate())
	assert.ErrorIs(t, Window{FromWeekday: "funday", ToWeekday: Friday}.Validate(), ErrInvalidDay)
	assert.ErrorIs(t, Window{FromWeekday: Monday, ToWeekday: Friday, FromTime: NewClock(18, 0), ToTime: NewClock(9, 0)}.Validate(), ErrInvertedHours)
	assert.ErrorIs(t, Window{FromWeekday: Monday, ToWeekday: Friday, FromTime: NewClock(9, 0), ToTime: NewClock(24, 0)}.Validate(), ErrInvalidClock)
}
