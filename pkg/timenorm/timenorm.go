package timenorm

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	amPmPattern   = regexp.MustCompile(`^(\d{1,2})([ap]m)`)
	fourDigitOnly = regexp.MustCompile(`^\d{4}$`)
	clockPattern  = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)
)

// Normalize приводит время к виду HH:MM.
// Поддерживаются "9am", "12pm", "1730". Неизвестные форматы возвращаются как есть
// (в нижнем регистре, без пробелов по краям).
func Normalize(input string) string {
	s := strings.ToLower(strings.TrimSpace(input))
	if s == "" {
		return ""
	}

	if m := amPmPattern.FindStringSubmatch(s); m != nil {
		hour, err := strconv.Atoi(m[1])
		if err == nil {
			switch {
			case m[2] == "pm" && hour != 12:
				hour += 12
			case m[2] == "am" && hour == 12:
				hour = 0
			}
			return fmt.Sprintf("%02d:00", hour)
		}
	}

	if fourDigitOnly.MatchString(s) {
		return s[:2] + ":" + s[2:]
	}

	return s
}

// SplitRange разбирает диапазон вида "09:00-17:00" и нормализует обе части.
// Отсутствующая часть возвращается пустой строкой.
func SplitRange(input string) (start, finish string) {
	parts := strings.Split(input, "-")
	if len(parts) > 0 {
		start = Normalize(parts[0])
	}
	if len(parts) > 1 {
		finish = Normalize(parts[1])
	}
	return start, finish
}

// IsClock проверяет, что значение имеет вид HH:MM
func IsClock(s string) bool {
	return clockPattern.MatchString(s)
}

// ParseRange разбирает диапазон, только если обе части - время.
func ParseRange(input string) (start, finish string, ok bool) {
	if strings.Count(input, "-") != 1 {
		return "", "", false
	}
	start, finish = SplitRange(input)
	if !IsClock(start) || !IsClock(finish) {
		return "", "", false
	}
	return start, finish, true
}
