// File: services/voice/interface.go
package voice

import "context"

// Renderer turns a prompt into a playable audio reference. An empty URL
// is the first-class "no audio backend" outcome, not a failure: the
// transport then speaks the text directly.
type Renderer interface {
	Render(ctx context.Context, text string) string
}

// NoopRenderer always yields the text-to-speech-by-text fallback.
type NoopRenderer struct{}

func (NoopRenderer) Render(context.Context, string) string { return "" }
