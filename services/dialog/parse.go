// File: services/dialog/parse.go
package dialog

import (
	"regexp"
	"strings"
	"time"

	"frontdesk/models"
)

var (
	bedroomDigit = regexp.MustCompile(`\b([1-5])\b`)
	isoDay       = regexp.MustCompile(`(20\d{2}-\d{2}-\d{2})`)
	amToken      = regexp.MustCompile(`\b(am|morning)\b`)
	pmToken      = regexp.MustCompile(`\b(pm|evening|afternoon)\b`)
)

// wordNumbers is evaluated in order; the first word found wins.
var wordNumbers = []struct {
	word string
	n    int
}{
	{"one", 1}, {"two", 2}, {"three", 3}, {"four", 4}, {"five", 5},
}

// parseBedrooms extracts a bedroom count 1-5 from an utterance, digits
// first, then spelled-out words. Returns 0 when nothing matches; the
// funnel still advances in that case.
func parseBedrooms(utterance string) int {
	if m := bedroomDigit.FindStringSubmatch(utterance); m != nil {
		return int(m[1][0] - '0')
	}
	t := strings.ToLower(utterance)
	for _, w := range wordNumbers {
		if strings.Contains(t, w.word) {
			return w.n
		}
	}
	return 0
}

// parseDay resolves "today", "tomorrow", or an explicit YYYY-MM-DD
// literal against the given clock. Empty string means no day found.
func parseDay(utterance string, now time.Time) string {
	t := strings.ToLower(utterance)
	switch {
	case strings.Contains(t, "today"):
		return now.Format("2006-01-02")
	case strings.Contains(t, "tomorrow"):
		return now.AddDate(0, 0, 1).Format("2006-01-02")
	}
	return isoDay.FindString(t)
}

// parseHalfDay resolves the AM/PM half of a slot. Empty string means no
// half-day token found.
func parseHalfDay(utterance string) string {
	t := strings.ToLower(utterance)
	switch {
	case amToken.MatchString(t):
		return models.SlotAM
	case pmToken.MatchString(t):
		return models.SlotPM
	}
	return ""
}

// isAffirmative reports whether the utterance confirms the booking.
func isAffirmative(utterance string) bool {
	t := strings.ToLower(utterance)
	return strings.Contains(t, "yes") ||
		strings.Contains(t, "sure") ||
		strings.Contains(t, "please")
}
