package datectx

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompareChristmasWeek(t *testing.T) {
	holidays := &fakeHolidaySource{byYear: map[int][]Holiday{2024: us2024Holidays()}}
	agg := New(holidays, &fakeFeedSource{}, testLogger())

	report, err := agg.Compare(context.Background(), []string{"2024-12-25", "2024-12-26"}, "US")
	require.NoError(t, err)

	// Both dates share one year, so exactly one fetch is issued
	assert.Equal(t, []int{2024}, holidays.yearsFetched())

	require.Len(t, report.Dates, 2)

	christmas := report.Dates[0]
	assert.Equal(t, "Wednesday", christmas.DayOfWeek)
	assert.False(t, christmas.IsWeekend)
	assert.True(t, christmas.IsHoliday)
	assert.Equal(t, []string{"Christmas Day"}, christmas.Holidays)

	boxing := report.Dates[1]
	assert.Equal(t, "Thursday", boxing.DayOfWeek)
	assert.False(t, boxing.IsWeekend)
	assert.False(t, boxing.IsHoliday)

	assert.Equal(t, 0, report.Summary.Weekends)
	assert.Equal(t, 1, report.Summary.Holidays)
	assert.False(t, report.Summary.AllWeekends)
	assert.False(t, report.Summary.AllHolidays)
	assert.True(t, report.Summary.NoWeekends)
}

func TestCompareDistinctYears(t *testing.T) {
	holidays := &fakeHolidaySource{byYear: map[int][]Holiday{
		2023: {{Date: "2023-12-25", Name: "Christmas Day", LocalName: "Christmas Day"}},
		2024: us2024Holidays(),
	}}
	agg := New(holidays, &fakeFeedSource{}, testLogger())

	report, err := agg.Compare(context.Background(),
		[]string{"2023-12-25", "2024-12-25", "2024-01-01"}, "US")
	require.NoError(t, err)

	assert.ElementsMatch(t, []int{2023, 2024}, holidays.yearsFetched())
	assert.Equal(t, 3, report.Summary.Holidays)
	assert.True(t, report.Summary.AllHolidays)
}

func TestCompareAllWeekends(t *testing.T) {
	holidays := &fakeHolidaySource{byYear: map[int][]Holiday{2024: {}}}
	agg := New(holidays, &fakeFeedSource{}, testLogger())

	// 2024-07-06 is Saturday, 2024-07-07 Sunday
	report, err := agg.Compare(context.Background(), []string{"2024-07-06", "2024-07-07"}, "US")
	require.NoError(t, err)

	assert.Equal(t, 2, report.Summary.Weekends)
	assert.True(t, report.Summary.AllWeekends)
	assert.False(t, report.Summary.NoWeekends)
}

func TestCompareDegradesFailedYear(t *testing.T) {
	holidays := &fakeHolidaySource{err: errors.New("provider unavailable")}
	agg := New(holidays, &fakeFeedSource{}, testLogger())

	report, err := agg.Compare(context.Background(), []string{"2024-12-25", "2024-12-26"}, "US")
	require.NoError(t, err, "a failed year must not abort the batch")

	for _, d := range report.Dates {
		assert.False(t, d.IsHoliday)
		assert.Empty(t, d.Holidays)
	}
	assert.Equal(t, 0, report.Summary.Holidays)
}

func TestCompareDegradesOnlyFailedYear(t *testing.T) {
	holidays := &fakeHolidaySource{
		byYear:    map[int][]Holiday{2024: us2024Holidays()},
		errByYear: map[int]error{2023: errors.New("provider unavailable")},
	}
	agg := New(holidays, &fakeFeedSource{}, testLogger())

	report, err := agg.Compare(context.Background(), []string{"2023-12-25", "2024-12-25"}, "US")
	require.NoError(t, err)

	assert.ElementsMatch(t, []int{2023, 2024}, holidays.yearsFetched())

	failed := report.Dates[0]
	assert.False(t, failed.IsHoliday)
	assert.Empty(t, failed.Holidays)

	survived := report.Dates[1]
	assert.True(t, survived.IsHoliday)
	assert.Equal(t, []string{"Christmas Day"}, survived.Holidays)

	assert.Equal(t, 1, report.Summary.Holidays)
}

func TestCompareBadDate(t *testing.T) {
	agg := New(&fakeHolidaySource{}, &fakeFeedSource{}, testLogger())

	_, err := agg.Compare(context.Background(), []string{"2024-12-25", "12/26/2024"}, "US")
	require.Error(t, err)
}

func TestCompareDefaultsCountry(t *testing.T) {
	holidays := &fakeHolidaySource{byYear: map[int][]Holiday{2024: {}}}
	agg := New(holidays, &fakeFeedSource{}, testLogger())

	report, err := agg.Compare(context.Background(), []string{"2024-05-01", "2024-05-02"}, "")
	require.NoError(t, err)
	assert.Equal(t, OverviewCountry, report.Country)
}
