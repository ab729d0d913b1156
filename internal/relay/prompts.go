package relay

import "fmt"

// Defaults applied when optional request fields are empty.
const (
	DefaultTone           = "professional"
	DefaultTargetLanguage = "en"
)

// Sampling settings per endpoint.
const (
	defaultTemperature  float32 = 0.7
	practiceTemperature float32 = 0.8
	phrasesMaxTokens            = 120
)

const (
	emailSystemPrompt     = "You are a friendly, easy-going assistant who writes like a helpful friend."
	translateSystemPrompt = "You are a helpful assistant that translates text into English."
	phrasesSystemPrompt   = "You are a helpful assistant for English communication."
	practiceSystemPrompt  = "You are a patient, friendly conversational partner helping with pronunciation and word choice."
)

// emailPrompt asks for a business-casual rewrite. The tone is folded in only
// when it differs from the default.
func emailPrompt(email, tone string) string {
	if tone == "" || tone == DefaultTone {
		return fmt.Sprintf("Hey! Can you rewrite this email to sound business-casual and friendly, fixing the grammar?\n\n%s", email)
	}
	return fmt.Sprintf("Hey! Can you rewrite this email to sound %s, business-casual and friendly, fixing the grammar?\n\n%s", tone, email)
}

func translatePrompt(text, targetLanguage string) string {
	return fmt.Sprintf("Translate the following text to %s, preserving nuances and context:\n\n%s", targetLanguage, text)
}

func phrasesPrompt(query string) string {
	return "You are a friendly language assistant. " +
		"Provide exactly 5 short, polite, culturally appropriate English phrases " +
		fmt.Sprintf("someone could say or write when they want to %s. ", query) +
		"Return your answer as a JSON array of strings, nothing else."
}

func practicePrompt(text string) string {
	return fmt.Sprintf("Simulate this scenario and respond as a conversation partner for speaking practice:\n\n%s", text)
}
