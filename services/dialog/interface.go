// File: services/dialog/interface.go
package dialog

import (
	"context"

	"frontdesk/models"
)

// Engine is the conversation state machine. HandleTurn consumes one
// utterance, mutates the session for this turn, and always produces a
// prompt; collaborator failures degrade, they never surface as errors.
type Engine interface {
	HandleTurn(ctx context.Context, sess *models.Session, utterance string) models.TurnResult
}

// AuditLogger persists interaction-log entries best-effort. Record must
// never block prompt generation; implementations enqueue and return.
type AuditLogger interface {
	Record(entry models.InteractionLogEntry)
}

// AuditLoggerFunc adapts a function to the AuditLogger interface.
type AuditLoggerFunc func(entry models.InteractionLogEntry)

func (f AuditLoggerFunc) Record(entry models.InteractionLogEntry) {
	f(entry)
}
