package timenorm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	cases := map[string]string{
		"9am":      "09:00",
		"12am":     "00:00",
		"12pm":     "12:00",
		"5pm":      "17:00",
		"5am":      "05:00",
		" 11PM ":   "23:00",
		"1730":     "17:30",
		"0900":     "09:00",
		"17305":    "17305",
		"lunch":    "lunch",
		"  Lunch ": "lunch",
		"09:00":    "09:00",
		"":         "",
		"   ":      "",
		"9am-ish":  "09:00",
	}

	for in, want := range cases {
		assert.Equal(t, want, Normalize(in), "input %q", in)
	}
}

func TestSplitRange(t *testing.T) {
	start, finish := SplitRange("9am-5pm")
	assert.Equal(t, "09:00", start)
	assert.Equal(t, "17:00", finish)

	start, finish = SplitRange("0830")
	assert.Equal(t, "08:30", start)
	assert.Empty(t, finish)

	start, finish = SplitRange("")
	assert.Empty(t, start)
	assert.Empty(t, finish)
}

func TestParseRange(t *testing.T) {
	tests := []struct {
		input  string
		start  string
		finish string
		ok     bool
	}{
		{"9am-5pm", "09:00", "17:00", true},
		{"08:30-1630", "08:30", "16:30", true},
		{"off-site", "", "", false},
		{"9am", "", "", false},
		{"9-5", "", "", false},
		{"9am-5pm-7pm", "", "", false},
	}

	for _, tt := range tests {
		start, finish, ok := ParseRange(tt.input)
		assert.Equal(t, tt.ok, ok, tt.input)
		assert.Equal(t, tt.start, start, tt.input)
		assert.Equal(t, tt.finish, finish, tt.input)
	}

	assert.True(t, IsClock("23:59"))
	assert.False(t, IsClock("24:00"))
}
