package transport

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/rpggio/wandernest/internal/apierror"
	"github.com/rpggio/wandernest/internal/assistant"
	"github.com/rpggio/wandernest/internal/domain/journal"
	"github.com/rpggio/wandernest/internal/domain/session"
)

type navigateRequest struct {
	View   session.View `json:"view"`
	TripID string       `json:"tripId"`
}

type chatRequest struct {
	Message string `json:"message"`
}

type suggestRequest struct {
	Destination string   `json:"destination"`
	Interests   []string `json:"interests"`
}

type suggestResponse struct {
	Text string `json:"text"`
}

type assistantKeyRequest struct {
	APIKey string `json:"apiKey"`
}

type assistantKeyResponse struct {
	Configured bool `json:"configured"`
}

type connectRequest struct {
	Descriptor string `json:"descriptor"`
}

func requireSession(r *http.Request) (string, error) {
	sessionID, ok := SessionIDFromContext(r.Context())
	if !ok || sessionID == "" {
		return "", apierror.BadRequest("missing " + SessionHeader + " header")
	}
	return sessionID, nil
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sessionID, err := requireSession(r)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	state, err := s.svc.Sessions.Get(sessionID)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

func (s *Server) handleNavigate(w http.ResponseWriter, r *http.Request) {
	sessionID, err := requireSession(r)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	var req navigateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, s.logger, err)
		return
	}
	state, err := s.svc.Sessions.Navigate(session.NavigateRequest{
		SessionID: sessionID,
		View:      req.View,
		TripID:    req.TripID,
	})
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

func (s *Server) handleTranscript(w http.ResponseWriter, r *http.Request) {
	sessionID, err := requireSession(r)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	msgs := s.svc.Assistant.Transcript(sessionID)
	if msgs == nil {
		msgs = []assistant.ChatMessage{}
	}
	writeJSON(w, http.StatusOK, msgs)
}

// handleChat sends the message with the client's current view and selected
// trip as context.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	sessionID, err := requireSession(r)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	var req chatRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, s.logger, err)
		return
	}

	var chatCtx assistant.ChatContext
	if state, err := s.svc.Sessions.Get(sessionID); err == nil {
		chatCtx.View = string(state.View)
		if state.SelectedTripID != "" {
			if t, err := s.svc.Trips.Get(state.SelectedTripID); err == nil {
				chatCtx.Trip = t
			}
		}
	}

	reply, err := s.svc.Assistant.Chat(r.Context(), sessionID, req.Message, chatCtx)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, reply)
}

func (s *Server) handleResetChat(w http.ResponseWriter, r *http.Request) {
	sessionID, err := requireSession(r)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	s.svc.Assistant.ResetConversation(sessionID)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSuggest(w http.ResponseWriter, r *http.Request) {
	var req suggestRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, s.logger, err)
		return
	}
	text, err := s.svc.Assistant.Suggest(r.Context(), req.Destination, req.Interests)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, suggestResponse{Text: text})
}

func (s *Server) handleAssistantKeyStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, assistantKeyResponse{Configured: s.svc.Assistant.HasAPIKey()})
}

func (s *Server) handleSetAssistantKey(w http.ResponseWriter, r *http.Request) {
	var req assistantKeyRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, s.logger, err)
		return
	}
	if err := s.svc.Assistant.SaveAPIKey(r.Context(), req.APIKey); err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, assistantKeyResponse{Configured: true})
}

func (s *Server) handleClearAssistantKey(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Assistant.ClearAPIKey(r.Context()); err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, assistantKeyResponse{Configured: false})
}

func (s *Server) handleRemoteStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.svc.Sync.Status())
}

func (s *Server) handleConnectRemote(w http.ResponseWriter, r *http.Request) {
	var req connectRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, s.logger, err)
		return
	}
	status, err := s.svc.Sync.Connect(r.Context(), req.Descriptor)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, status)
}

func (s *Server) handleDisconnectRemote(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Sync.Disconnect(r.Context()); err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, s.svc.Sync.Status())
}

func (s *Server) handleSyncRemote(w http.ResponseWriter, r *http.Request) {
	result, err := s.svc.Sync.SyncToCloud(r.Context())
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Sync.Reset(r.Context()); err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, s.svc.Sync.Status())
}

func (s *Server) handleListWrites(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	opts := journal.ListOptions{TripID: q.Get("trip_id")}
	if raw := strings.TrimSpace(q.Get("status")); raw != "" {
		status := journal.Status(raw)
		opts.Status = &status
	}
	var err error
	if opts.Limit, err = intParam(q.Get("limit")); err != nil {
		writeError(w, s.logger, apierror.BadRequest("invalid limit"))
		return
	}
	if opts.Offset, err = intParam(q.Get("offset")); err != nil {
		writeError(w, s.logger, apierror.BadRequest("invalid offset"))
		return
	}

	writes, err := s.svc.Writes.Recent(r.Context(), opts)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	if writes == nil {
		writes = []journal.Write{}
	}
	writeJSON(w, http.StatusOK, writes)
}

func intParam(raw string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, apierror.BadRequest("invalid integer")
	}
	return n, nil
}
