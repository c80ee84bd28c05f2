package transport

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server wires HTTP handlers.
type Server struct {
	svc    Services
	logger *slog.Logger
}

// NewServer creates the HTTP router. mcpHandler, when non-nil, is mounted
// at /mcp.
func NewServer(svc Services, mcpHandler http.Handler, logger *slog.Logger) *chi.Mux {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(logger))
	r.Use(SessionMiddleware)

	srv := &Server{svc: svc, logger: logger}

	r.Get("/health", srv.handleHealth)
	if mcpHandler != nil {
		r.Handle("/mcp", mcpHandler)
		r.Handle("/mcp/*", mcpHandler)
	}

	r.Route("/api", func(r chi.Router) {
		r.Route("/trips", func(r chi.Router) {
			r.Get("/", srv.handleListTrips)
			r.Post("/", srv.handleCreateTrip)
			r.Route("/{tripID}", func(r chi.Router) {
				r.Get("/", srv.handleGetTrip)
				r.Put("/", srv.handleUpdateTrip)
				r.Delete("/", srv.handleDeleteTrip)
				r.Get("/activities", srv.handleListActivities)
				r.Post("/activities", srv.handleSaveActivity)
				r.Delete("/activities/{activityID}", srv.handleDeleteActivity)
				r.Put("/budget", srv.handleUpdateBudget)
			})
		})
		r.Get("/overview", srv.handleOverview)
		r.Get("/analytics", srv.handleAnalytics)

		r.Get("/session", srv.handleGetSession)
		r.Put("/session", srv.handleNavigate)

		r.Route("/assistant", func(r chi.Router) {
			r.Get("/chat", srv.handleTranscript)
			r.Post("/chat", srv.handleChat)
			r.Delete("/chat", srv.handleResetChat)
			r.Post("/suggest", srv.handleSuggest)
		})

		r.Route("/settings", func(r chi.Router) {
			r.Get("/assistant-key", srv.handleAssistantKeyStatus)
			r.Put("/assistant-key", srv.handleSetAssistantKey)
			r.Delete("/assistant-key", srv.handleClearAssistantKey)
			r.Get("/remote", srv.handleRemoteStatus)
			r.Post("/remote", srv.handleConnectRemote)
			r.Delete("/remote", srv.handleDisconnectRemote)
			r.Post("/remote/sync", srv.handleSyncRemote)
			r.Post("/reset", srv.handleReset)
		})

		r.Get("/writes", srv.handleListWrites)
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !logger.Enabled(r.Context(), slog.LevelDebug) {
				next.ServeHTTP(w, r)
				return
			}
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			logger.Debug("http request", "method", r.Method, "path", r.URL.Path, "status", ww.Status(), "duration", time.Since(start))
		})
	}
}
