package holidays

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const vic2025 = `{
  "region": "VIC",
  "years": [
    {"year": 2025, "months": [
      {"month": 1, "days": "1, 27"},
      {"month": 4, "days": "18,21,25"},
      {"month": 12, "days": "25,26*"}
    ]}
  ]
}`

func TestParse(t *testing.T) {
	cal, err := Parse(strings.NewReader(vic2025))
	require.NoError(t, err)

	assert.Equal(t, "VIC", cal.Region)
	assert.Equal(t, 7, cal.Len())
	assert.True(t, cal.Contains(time.Date(2025, 1, 27, 0, 0, 0, 0, time.UTC)))
	assert.True(t, cal.Contains(time.Date(2025, 12, 26, 0, 0, 0, 0, time.UTC)))
	assert.False(t, cal.Contains(time.Date(2025, 1, 28, 0, 0, 0, 0, time.UTC)))

	dates := cal.Dates()
	require.Len(t, dates, 7)
	assert.Equal(t, "2025-01-01", dates[0].Format("2006-01-02"))
	assert.Equal(t, "2025-12-26", dates[6].Format("2006-01-02"))
}

func TestParse_Errors(t *testing.T) {
	_, err := Parse(strings.NewReader(`{"years":[{"year":2025,"months":[{"month":2,"days":"30"}]}]}`))
	assert.Error(t, err)

	_, err = Parse(strings.NewReader(`{"years":[{"year":2025,"months":[{"month":13,"days":"1"}]}]}`))
	assert.Error(t, err)

	_, err = Parse(strings.NewReader(`{"years":[{"year":2025,"months":[{"month":1,"days":"x"}]}]}`))
	assert.Error(t, err)

	_, err = Parse(strings.NewReader(`not json`))
	assert.Error(t, err)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "holidays.json")
	require.NoError(t, os.WriteFile(path, []byte(vic2025), 0o600))

	cal, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 7, cal.Len())

	_, err = Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestNilCalendar(t *testing.T) {
	var cal *Calendar
	assert.False(t, cal.Contains(time.Now()))
	assert.Zero(t, cal.Len())
	assert.Nil(t, cal.Dates())
}
