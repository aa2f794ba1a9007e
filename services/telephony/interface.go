// File: services/telephony/interface.go
package telephony

import "context"

// CallPlacer asks the telephony provider to place an outbound call whose
// first webhook hits answerURL. Returns the provider's call id.
type CallPlacer interface {
	PlaceCall(ctx context.Context, to, answerURL string) (string, error)
}
