// File: services/intelligence/interface.go
package intelligence

import "context"

// Apology is returned whenever the free-form backend is missing or
// failing, so the caller always hears something sensible.
const Apology = "I'm sorry, I didn't quite get that. Could you rephrase, or would you like to book a cleaning?"

// Answerer produces a free-form reply for utterances the dialog engine
// could not handle with the knowledge base or the booking funnel.
// Implementations never return an error; failures degrade to Apology.
type Answerer interface {
	Answer(ctx context.Context, prompt string) string
}

// AnswererFunc adapts a function to the Answerer interface.
type AnswererFunc func(ctx context.Context, prompt string) string

func (f AnswererFunc) Answer(ctx context.Context, prompt string) string {
	return f(ctx, prompt)
}

// NoopAnswerer is the first-class "no AI backend configured" path.
type NoopAnswerer struct{}

func (NoopAnswerer) Answer(context.Context, string) string {
	return Apology
}
