// Package assistant wraps a generative model for trip-planning chat and
// activity suggestions.
package assistant

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "gemini-2.5-flash"

const (
	// DefaultMaxConversations caps how many sessions keep a transcript.
	DefaultMaxConversations = 1000
	// DefaultConversationIdle is how long a transcript survives without
	// a new message.
	DefaultConversationIdle = 24 * time.Hour
)

// conversation is one session's transcript.
type conversation struct {
	messages     []ChatMessage
	lastActivity time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithClock replaces the time source for message timestamps and expiry.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// WithConversationLimits bounds the transcripts kept in memory. When more
// than limit sessions are active the least recently used is dropped;
// transcripts idle longer than idle are dropped. Zero keeps the default.
func WithConversationLimits(limit int, idle time.Duration) Option {
	return func(s *Service) {
		if limit > 0 {
			s.maxConversations = limit
		}
		if idle > 0 {
			s.idleExpiry = idle
		}
	}
}

// Service keeps one in-memory conversation per client session and holds
// the credential used for model calls.
type Service struct {
	gen    Generator
	keys   KeyStore
	model  string
	logger *slog.Logger
	now    func() time.Time

	maxConversations int
	idleExpiry       time.Duration

	mu            sync.Mutex
	apiKey        string
	conversations map[string]*conversation
}

// NewService creates a new assistant service. keys may be nil when the
// credential is not persisted.
func NewService(gen Generator, keys KeyStore, model string, logger *slog.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if model == "" {
		model = DefaultModel
	}
	s := &Service{
		gen:              gen,
		keys:             keys,
		model:            model,
		logger:           logger,
		now:              time.Now,
		maxConversations: DefaultMaxConversations,
		idleExpiry:       DefaultConversationIdle,
		conversations:    make(map[string]*conversation),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// LoadAPIKey reads the saved credential. An empty saved key leaves the
// current one in place.
func (s *Service) LoadAPIKey(ctx context.Context) error {
	if s.keys == nil {
		return nil
	}
	key, err := s.keys.AssistantKey(ctx)
	if err != nil {
		return fmt.Errorf("loading assistant key: %w", err)
	}
	if key != "" {
		s.SetAPIKey(key)
	}
	return nil
}

// SaveAPIKey stores and activates a credential.
func (s *Service) SaveAPIKey(ctx context.Context, key string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return ErrInvalidInput
	}
	if s.keys != nil {
		if err := s.keys.SetAssistantKey(ctx, key); err != nil {
			return fmt.Errorf("saving assistant key: %w", err)
		}
	}
	s.SetAPIKey(key)
	return nil
}

// ClearAPIKey forgets the credential.
func (s *Service) ClearAPIKey(ctx context.Context) error {
	if s.keys != nil {
		if err := s.keys.ClearAssistantKey(ctx); err != nil {
			return fmt.Errorf("clearing assistant key: %w", err)
		}
	}
	s.SetAPIKey("")
	return nil
}

// SetAPIKey replaces the in-memory credential without persisting it.
func (s *Service) SetAPIKey(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.apiKey = key
}

// HasAPIKey reports whether a credential is configured.
func (s *Service) HasAPIKey() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.apiKey != ""
}

// Chat sends a message in the session's conversation and returns the
// reply. Without a credential, or when the model fails, a fixed reply is
// recorded instead.
func (s *Service) Chat(ctx context.Context, sessionID, message string, c ChatContext) (*ChatMessage, error) {
	message = strings.TrimSpace(message)
	if sessionID == "" || message == "" {
		return nil, ErrInvalidInput
	}
	if c.View == "" {
		c.View = "home"
	}

	s.mu.Lock()
	key := s.apiKey
	conv := s.conversationLocked(sessionID)
	history := append([]ChatMessage(nil), conv.messages...)
	conv.messages = append(conv.messages, s.message(RoleUser, message))
	s.mu.Unlock()

	text := MissingKeyReply
	if key != "" {
		reply, err := s.gen.Chat(ctx, key, ChatRequest{
			Model:             s.model,
			SystemInstruction: systemInstruction(c),
			History:           history,
			Message:           message,
		})
		switch {
		case err != nil:
			s.logger.Error("assistant chat failed", "session_id", sessionID, "error", err)
			text = UnavailableReply
		case strings.TrimSpace(reply) == "":
			text = UnavailableReply
		default:
			text = reply
		}
	}

	reply := s.message(RoleModel, text)
	s.mu.Lock()
	conv = s.conversationLocked(sessionID)
	conv.messages = append(conv.messages, reply)
	s.mu.Unlock()
	return &reply, nil
}

// conversationLocked returns the session's transcript, creating it and
// pruning idle or excess transcripts as needed. Callers hold s.mu.
func (s *Service) conversationLocked(sessionID string) *conversation {
	now := s.now()
	for id, c := range s.conversations {
		if now.Sub(c.lastActivity) > s.idleExpiry {
			delete(s.conversations, id)
		}
	}

	conv, ok := s.conversations[sessionID]
	if !ok {
		for len(s.conversations) >= s.maxConversations {
			s.evictOldestLocked()
		}
		conv = &conversation{}
		s.conversations[sessionID] = conv
	}
	conv.lastActivity = now
	return conv
}

func (s *Service) evictOldestLocked() {
	var (
		oldestID string
		oldest   time.Time
	)
	for id, c := range s.conversations {
		if oldestID == "" || c.lastActivity.Before(oldest) {
			oldestID, oldest = id, c.lastActivity
		}
	}
	if oldestID == "" {
		return
	}
	delete(s.conversations, oldestID)
	s.logger.Debug("dropped least recent conversation", "session_id", oldestID)
}

// Transcript returns the session's conversation so far.
func (s *Service) Transcript(sessionID string) []ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	conv, ok := s.conversations[sessionID]
	if !ok || s.now().Sub(conv.lastActivity) > s.idleExpiry {
		return []ChatMessage{}
	}
	return append([]ChatMessage{}, conv.messages...)
}

// ResetConversation drops the session's conversation.
func (s *Service) ResetConversation(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.conversations, sessionID)
}

// Suggest asks for activity ideas at a destination.
func (s *Service) Suggest(ctx context.Context, destination string, interests []string) (string, error) {
	destination = strings.TrimSpace(destination)
	if destination == "" {
		return "", ErrInvalidInput
	}

	s.mu.Lock()
	key := s.apiKey
	s.mu.Unlock()
	if key == "" {
		return MissingKeySuggestions, nil
	}

	text, err := s.gen.Generate(ctx, key, s.model, suggestPrompt(destination, interests))
	if err != nil {
		s.logger.Error("assistant suggestions failed", "destination", destination, "error", err)
		return UnavailableSuggestions, nil
	}
	if strings.TrimSpace(text) == "" {
		return NoSuggestions, nil
	}
	return text, nil
}

func (s *Service) message(role Role, text string) ChatMessage {
	return ChatMessage{ID: uuid.NewString(), Role: role, Text: text, Timestamp: s.now()}
}
