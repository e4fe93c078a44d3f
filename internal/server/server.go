// Package server is the HTTP face of the sync collaborator: per-owner
// fetch-all, push-all, and fine-grained program/workout upserts and deletes.
package server

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/claude/liftlog/internal/models"
	"github.com/go-chi/chi/v5"
)

// SyncStore is the persistence behind the sync endpoints. Implemented by
// storage.DB; tests use an in-memory fake.
type SyncStore interface {
	FetchState(ctx context.Context, owner string) (*models.SyncState, error)
	ReplaceState(ctx context.Context, owner string, state *models.SyncState) error
	UpsertProgram(ctx context.Context, owner string, p models.Program) error
	DeleteProgram(ctx context.Context, owner, id string) error
	SetActiveProgram(ctx context.Context, owner, id string) error
	UpsertWorkoutLog(ctx context.Context, owner string, l models.WorkoutLog) error
	DeleteWorkoutLog(ctx context.Context, owner, id string) error
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	store  SyncStore
	log    *slog.Logger
	apiKey string
	router chi.Router
}

// New creates a new Server with all routes configured.
func New(store SyncStore, apiKey string, log *slog.Logger) *Server {
	s := &Server{
		store:  store,
		log:    log,
		apiKey: apiKey,
		router: chi.NewRouter(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Use(RequestLogging(s.log))

	// Availability probe — unauthenticated so a client can detect the server
	// before committing to sync.
	s.router.Get("/api/v1/ping", s.handlePing)

	s.router.Route("/api/v1/sync/{owner}", func(r chi.Router) {
		r.Use(APIKeyAuth(s.apiKey))
		r.Get("/", s.handleFetchState)
		r.Put("/", s.handlePushState)
		r.Put("/active-program", s.handleSetActiveProgram)
		r.Put("/programs/{id}", s.handleUpsertProgram)
		r.Delete("/programs/{id}", s.handleDeleteProgram)
		r.Put("/workouts/{id}", s.handleUpsertWorkout)
		r.Delete("/workouts/{id}", s.handleDeleteWorkout)
	})
}
