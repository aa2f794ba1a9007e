// File: services/dialog/intent_test.go
package dialog

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"frontdesk/models"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		utterance string
		want      models.IntentTag
	}{
		{"I want to book an appointment", models.IntentBooking},
		{"can you clean my place", models.IntentBooking},
		{"reach me at jane@example.com", models.IntentEmail},
		{"where are you located", models.IntentLocation},
		{"are you available this week", models.IntentAvailability},
		{"tell me about deep cleaning", models.IntentService},
		{"how long have you been in business", models.IntentQuestion},
		{"", models.IntentQuestion},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Classify(tc.utterance), tc.utterance)
	}
}

// Booking keywords outrank everything else in the fixed rule order.
func TestClassifyOrderBookingFirst(t *testing.T) {
	assert.Equal(t, models.IntentBooking, Classify("book a deep cleaning at jane@example.com"))
	assert.Equal(t, models.IntentEmail, Classify("my address is jane@example.com for the cleaning quote"))
}

func TestExtractEmail(t *testing.T) {
	assert.Equal(t, "jane.doe+home@example.co", ExtractEmail("it's jane.doe+home@example.co thanks"))
	assert.Empty(t, ExtractEmail("no email here"))
}
