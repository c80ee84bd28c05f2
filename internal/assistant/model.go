package assistant

import (
	"time"

	"github.com/rpggio/wandernest/internal/domain/trip"
)

// Role identifies who wrote a chat message.
type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

// ChatMessage is one turn of a conversation.
type ChatMessage struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// ChatContext describes what the user is looking at.
type ChatContext struct {
	View string
	Trip *trip.Trip
}

// ChatRequest is a single model call.
type ChatRequest struct {
	Model             string
	SystemInstruction string
	History           []ChatMessage
	Message           string
}

// Replies used when the model cannot be reached.
const (
	MissingKeyReply        = "Please add your Gemini API key in Settings to start chatting."
	UnavailableReply       = "I'm having trouble connecting. Please verify your API Key in Settings."
	MissingKeySuggestions  = "Please add your Google Gemini API key in Settings to get suggestions."
	UnavailableSuggestions = "Sorry, I couldn't fetch suggestions. Please check your API Key."
	NoSuggestions          = "No suggestions found."
)
