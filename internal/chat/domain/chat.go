package domain

import "errors"

// ErrTurnInFlight is returned when a message is sent while a reply is pending
var ErrTurnInFlight = errors.New("a chat turn is already in flight")

// ErrEmptyMessage is returned for blank input
var ErrEmptyMessage = errors.New("message is empty")

// Topic is the gate's classification of a message
type Topic string

const (
	TopicGreeting    Topic = "greeting"
	TopicInDomain    Topic = "in_domain"
	TopicOutOfDomain Topic = "out_of_domain"
)

// TurnState is where the current chat turn is
type TurnState string

const (
	StateIdle      TurnState = "idle"
	StateSending   TurnState = "sending"
	StateResponded TurnState = "responded"
	StateFailed    TurnState = "failed"
)

// ChatMessage is one bubble in the transcript
type ChatMessage struct {
	ID     string `json:"id"`
	Text   string `json:"text"`
	IsUser bool   `json:"isUser"`
}

// Canned assistant texts
const (
	WelcomeText     = "Hello! I'm your Allergy Assistant. Ask me about food allergies, symptoms, or ingredients."
	GreetingReply   = "Hi there! 👋 I'm your Allergy Assistant. Ask me anything about food allergies, symptoms, or safe ingredients."
	OffTopicReply   = "I specialize in food allergies, symptoms, and ingredients. Please ask something related to that."
	EmptyAnswerText = "I'm not sure how to answer that. Please ask about food allergies, symptoms, or ingredients."
	FailureText     = "Oops! I couldn't connect right now. Please try again shortly."

	Preamble = "You are a knowledgeable assistant focused only on food allergies, symptoms, and product ingredients. Respond concisely (under 100 words) to the following question:\n\n"
)

// Prompt wraps a user question for the assistant
func Prompt(question string) string {
	return Preamble + question
}
