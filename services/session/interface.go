// File: services/session/interface.go
package session

import (
	"context"

	"frontdesk/models"
)

// Store holds per-caller conversation state. Implementations expire
// sessions after an idle period; GetOrCreate of an expired or unknown
// caller returns a fresh session at the greeting stage.
//
// Turns for the same caller must be serialized by the transport layer
// (see Keyed) around the GetOrCreate -> mutate -> Put sequence.
type Store interface {
	GetOrCreate(ctx context.Context, callerID string) (*models.Session, error)
	Put(ctx context.Context, sess *models.Session) error
	Delete(ctx context.Context, callerID string) error
}
