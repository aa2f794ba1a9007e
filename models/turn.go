package models

// TurnInput is one inbound utterance from the telephony layer.
type TurnInput struct {
	CallerID  string `json:"callerId"`
	Utterance string `json:"utterance"`
}

// TurnResult is the engine's answer for one turn: the next prompt and
// whether the conversation should keep gathering input.
type TurnResult struct {
	Prompt   string `json:"prompt"`
	Continue bool   `json:"continue"`
}

// IntentTag is the coarse classification of an utterance.
type IntentTag string

const (
	IntentBooking      IntentTag = "booking"
	IntentEmail        IntentTag = "email"
	IntentLocation     IntentTag = "location"
	IntentAvailability IntentTag = "availability"
	IntentService      IntentTag = "service"
	IntentQuestion     IntentTag = "question"
)

// TriggerCallRequest seeds a session and asks the telephony layer to
// place an outbound call.
type TriggerCallRequest struct {
	Name    string `json:"name" binding:"required"`
	Phone   string `json:"phone" binding:"required"`
	Service string `json:"service" binding:"required"`
	Message string `json:"message" binding:"required"`
	Email   string `json:"email,omitempty"`
	City    string `json:"city,omitempty"`
	Address string `json:"address,omitempty"`
}
