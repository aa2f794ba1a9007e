package models

import "time"

// Stage identifies where a caller is in the booking funnel.
type Stage string

const (
	StageGreeting       Stage = "greeting"
	StageAskService     Stage = "ask_service"
	StageAskBedrooms    Stage = "ask_bedrooms"
	StageConfirmBooking Stage = "confirm_booking"
	StageAskName        Stage = "ask_name"
	StageAskCity        Stage = "ask_city"
	StageAskAddress     Stage = "ask_address"
	StageAskSlot        Stage = "ask_slot"
	StageDone           Stage = "done"
)

// InFunnel reports whether the stage is one of the information-gathering
// steps between ask_service and ask_slot.
func (s Stage) InFunnel() bool {
	switch s {
	case StageAskService, StageAskBedrooms, StageConfirmBooking,
		StageAskName, StageAskCity, StageAskAddress, StageAskSlot:
		return true
	}
	return false
}

// Session holds the per-caller conversation state for the duration of a
// call. It is owned by the session store; the dialog engine mutates it
// for exactly one turn at a time.
type Session struct {
	CallerID string `json:"callerId"`
	Stage    Stage  `json:"stage"`
	Name     string `json:"name,omitempty"`
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	City     string `json:"city,omitempty"`
	Address  string `json:"address,omitempty"`
	Service  string `json:"service,omitempty"`
	Bedrooms int    `json:"bedrooms,omitempty"` // 0 means not captured
	Message  string `json:"message,omitempty"`
	// SilentTurns counts consecutive empty utterances; the engine ends
	// the call after repeated silence.
	SilentTurns int       `json:"silentTurns,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// NewSession returns a fresh session at the greeting stage.
func NewSession(callerID string) *Session {
	now := time.Now().UTC()
	return &Session{
		CallerID:  callerID,
		Stage:     StageGreeting,
		Phone:     callerID,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Touch bumps the last-activity timestamp.
func (s *Session) Touch() {
	s.UpdatedAt = time.Now().UTC()
}
