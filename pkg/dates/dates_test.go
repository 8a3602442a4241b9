package dates

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_DayFirst(t *testing.T) {
	want := time.Date(2024, time.March, 4, 0, 0, 0, 0, time.UTC)

	for _, in := range []string{"2024-03-04", "04/03/2024", "4/3/2024", "4/3/24", "04-03-2024", "4 Mar 2024", "Monday, 4 March 2024", "2024-03-04 09:30:00"} {
		got, err := Parse(in)
		require.NoError(t, err, in)
		assert.True(t, want.Equal(got), "input %q gave %s", in, got)
	}
}

func TestParse_Invalid(t *testing.T) {
	for _, in := range []string{"", "  ", "not a date", "31/02/2024", "13/13/2024"} {
		_, err := Parse(in)
		assert.Error(t, err, in)
	}
}

func TestRange(t *testing.T) {
	start := time.Date(2024, 1, 30, 15, 0, 0, 0, time.Local)
	end := time.Date(2024, 2, 2, 0, 0, 0, 0, time.UTC)

	days := Range(start, end)
	require.Len(t, days, 4)
	assert.Equal(t, "2024-01-30", days[0].Format(ISO))
	assert.Equal(t, "2024-02-02", days[3].Format(ISO))

	assert.Empty(t, Range(end, start))
}
