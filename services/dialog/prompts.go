// File: services/dialog/prompts.go
package dialog

import (
	"fmt"
	"unicode/utf8"
)

const (
	assistantName = "Ava"
	companyName   = "Kepsten"

	// snippetCap bounds description snippets in knowledge replies.
	snippetCap = 200
)

const (
	promptReprompt = "Sorry, I didn't catch that. How can I help you?"
	promptMenu     = "Sure — which service would you like? We offer Standard Cleaning, Deep Cleaning, Move In/Move Out, Post Construction, and Hourly Packages."
	promptBedrooms = "How many bedrooms should we plan for? (1, 2, 3, 4, 5)"
	promptQuote    = "I can get you a quote based on bedrooms — would you like me to book a slot and then confirm price by email?"
	promptProceed  = " Would you like to proceed and book?"
	promptName     = "Great — may I have your full name, please?"
	promptCity     = "Thanks. Which city are you in?"
	promptAddress  = "And your full address (or nearest intersection)?"
	promptSlot     = "When would you like the service — today or tomorrow, AM or PM?"
	promptSlotAsk  = "Could you say if you want AM or PM, and is it for today or tomorrow?"
	promptDecline  = "No problem — anything else I can help with?"
	promptFollowUp = " Would you like to book this or hear more options?"
	promptGoodbye  = "It seems we got disconnected. Goodbye!"
)

// GreetingPrompt opens an inbound call.
func GreetingPrompt() string {
	return fmt.Sprintf("Hi, I'm %s from %s. How can I help you today?", assistantName, companyName)
}

// OutboundGreetingPrompt opens an outbound call seeded by an operator.
func OutboundGreetingPrompt(name, service string) string {
	if name == "" {
		name = "there"
	}
	if service == "" {
		service = "cleaning"
	}
	return fmt.Sprintf("Hi %s, this is %s from %s. We received your request for %s. How can I help you today?",
		name, assistantName, companyName, service)
}

// personaPrompt frames an unmatched utterance for the free-form answerer.
func personaPrompt(utterance string) string {
	return fmt.Sprintf("You are %s from %s. The user said: %q. Answer briefly, warmly, and helpfully. If useful, mention we can book a cleaning.",
		assistantName, companyName, utterance)
}

// bookedPrompt confirms a finalized booking, echoing the email address
// or a placeholder when none was captured.
func bookedPrompt(service, bookingTime, email string) string {
	if service == "" {
		service = "service"
	}
	if email == "" {
		email = "the email you provided"
	}
	return fmt.Sprintf("Booked %s for %s. We'll email confirmation to %s. Thank you, goodbye!",
		service, bookingTime, email)
}

// priceFoundPrompt names the matched bedroom package and its price.
func priceFoundPrompt(name, price string) string {
	return fmt.Sprintf("The %s costs %s.", name, price)
}

// knowledgeReply builds the spoken summary for the best knowledge hit:
// name plus price when present, otherwise a capped description snippet.
func knowledgeReply(name, description, price string) string {
	summary := name + "."
	if price != "" {
		summary += fmt.Sprintf(" Price: %s.", price)
	} else if description != "" {
		snippet := description
		if len(snippet) > snippetCap {
			// Back off to a rune boundary so the cut never splits a
			// multi-byte character.
			cut := snippetCap
			for cut > 0 && !utf8.RuneStart(snippet[cut]) {
				cut--
			}
			snippet = snippet[:cut] + "..."
		}
		summary += " " + snippet
	}
	return summary + promptFollowUp
}
