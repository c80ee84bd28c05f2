package transport

import (
	"context"

	"github.com/rpggio/wandernest/internal/assistant"
	"github.com/rpggio/wandernest/internal/domain/journal"
	"github.com/rpggio/wandernest/internal/domain/session"
	"github.com/rpggio/wandernest/internal/domain/trip"
	"github.com/rpggio/wandernest/internal/reconcile"
)

// TripService defines trip operations needed by the HTTP API.
type TripService interface {
	List() []trip.Trip
	Get(id string) (*trip.Trip, error)
	CreateTrip(ctx context.Context, req trip.CreateRequest) (*trip.Trip, error)
	UpdateTrip(ctx context.Context, t trip.Trip) (*trip.Trip, error)
	DeleteTrip(ctx context.Context, id string) error
	SaveActivity(ctx context.Context, tripID string, a trip.Activity) (*trip.Trip, error)
	DeleteActivity(ctx context.Context, tripID, activityID string) (*trip.Trip, error)
	UpdateBudget(ctx context.Context, tripID string, cats []trip.BudgetCategory) (*trip.Trip, error)
	SortedActivities(tripID string, key trip.SortKey) ([]trip.Activity, error)
	Overview() trip.Overview
	Analytics() trip.Analytics
}

// SessionService defines client view state operations.
type SessionService interface {
	Navigate(req session.NavigateRequest) (*session.ViewState, error)
	Get(sessionID string) (*session.ViewState, error)
}

// SyncController defines remote store settings operations.
type SyncController interface {
	Connect(ctx context.Context, raw string) (*reconcile.Status, error)
	Disconnect(ctx context.Context) error
	SyncToCloud(ctx context.Context) (*reconcile.SyncResult, error)
	Reset(ctx context.Context) error
	Status() reconcile.Status
}

// AssistantService defines AI assistant operations.
type AssistantService interface {
	Chat(ctx context.Context, sessionID, message string, c assistant.ChatContext) (*assistant.ChatMessage, error)
	Transcript(sessionID string) []assistant.ChatMessage
	ResetConversation(sessionID string)
	Suggest(ctx context.Context, destination string, interests []string) (string, error)
	SaveAPIKey(ctx context.Context, key string) error
	ClearAPIKey(ctx context.Context) error
	HasAPIKey() bool
}

// WriteLog lists journaled trip writes.
type WriteLog interface {
	Recent(ctx context.Context, opts journal.ListOptions) ([]journal.Write, error)
}

// Services contains everything the HTTP API serves.
type Services struct {
	Trips     TripService
	Sessions  SessionService
	Sync      SyncController
	Assistant AssistantService
	Writes    WriteLog
}
