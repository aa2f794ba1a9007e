// File: services/dialog/intent.go
package dialog

import (
	"regexp"
	"strings"

	"frontdesk/models"
)

var emailPattern = regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`)

// Rule order is fixed: booking beats email beats location beats
// availability beats service names; everything else is a question for
// the free-form answerer. Misclassification degrades gracefully there.
var (
	bookingKeywords = []string{
		"book", "schedule", "appointment", "clean my", "need cleaning",
		"i need", "i want cleaning", "can you clean",
	}
	locationKeywords = []string{
		"where are you", "location", "located", "directions", "which city",
	}
	availabilityKeywords = []string{
		"available", "availability", "opening", "free slot", "when can",
	}
	serviceKeywords = []string{
		"cleaning", "deep clean", "move in", "move out",
		"post construction", "hourly",
	}
)

func containsAny(t string, kws []string) bool {
	for _, kw := range kws {
		if strings.Contains(t, kw) {
			return true
		}
	}
	return false
}

// Classify maps a raw utterance to a coarse intent tag. Pure and total:
// it always returns a tag.
func Classify(utterance string) models.IntentTag {
	t := strings.ToLower(strings.TrimSpace(utterance))
	switch {
	case containsAny(t, bookingKeywords):
		return models.IntentBooking
	case emailPattern.MatchString(utterance):
		return models.IntentEmail
	case containsAny(t, locationKeywords):
		return models.IntentLocation
	case containsAny(t, availabilityKeywords):
		return models.IntentAvailability
	case containsAny(t, serviceKeywords):
		return models.IntentService
	default:
		return models.IntentQuestion
	}
}

// ExtractEmail returns the first email address in the utterance, if any.
func ExtractEmail(utterance string) string {
	return emailPattern.FindString(utterance)
}
