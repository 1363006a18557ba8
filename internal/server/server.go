package server

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/mossburrow/hearth/internal/handler"
	"github.com/mossburrow/hearth/internal/middleware"
	"github.com/mossburrow/hearth/internal/store"
)

type Server struct {
	db      *sql.DB
	memberH *handler.MemberHandler
	choreH  *handler.ChoreHandler
	viewH   *handler.ViewHandler
	logger  *slog.Logger
}

func New(db *sql.DB, logger *slog.Logger) *Server {
	memberStore := store.NewMemberStore(db)
	choreStore := store.NewChoreStore(db)
	completionStore := store.NewCompletionStore(db)
	ackStore := store.NewAcknowledgmentStore(db)
	assignmentStore := store.NewAssignmentStore(db)
	snapshotStore := store.NewSnapshotStore(memberStore, choreStore, completionStore, ackStore, assignmentStore)

	return &Server{
		db:      db,
		memberH: handler.NewMemberHandler(memberStore),
		choreH:  handler.NewChoreHandler(choreStore, memberStore, completionStore, ackStore, assignmentStore),
		viewH:   handler.NewViewHandler(snapshotStore, memberStore),
		logger:  logger,
	}
}

func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.healthHandler)

	// Members
	mux.HandleFunc("GET /api/members", s.memberH.List)
	mux.HandleFunc("POST /api/members", s.memberH.Create)
	mux.HandleFunc("PUT /api/members/{id}", s.memberH.Update)
	mux.HandleFunc("DELETE /api/members/{id}", s.memberH.Delete)

	// Chores
	mux.HandleFunc("GET /api/chores", s.choreH.List)
	mux.HandleFunc("POST /api/chores", s.choreH.Create)
	mux.HandleFunc("PUT /api/chores/{id}", s.choreH.Update)
	mux.HandleFunc("DELETE /api/chores/{id}", s.choreH.Delete)
	mux.HandleFunc("PUT /api/chores/{id}/assignment", s.choreH.SetAssignment)
	mux.HandleFunc("POST /api/chores/{id}/complete", s.choreH.Complete)
	mux.HandleFunc("DELETE /api/chores/{id}/completions/{completion_id}", s.choreH.UndoComplete)
	mux.HandleFunc("POST /api/chores/{id}/acknowledge", s.choreH.Acknowledge)

	// Read models
	mux.HandleFunc("GET /api/members/{id}/chores", s.viewH.MemberChores)
	mux.HandleFunc("GET /api/overdue", s.viewH.OverdueRoster)
	mux.HandleFunc("GET /api/overview", s.viewH.TeamOverview)

	return middleware.RequestLogger(s.logger.With("component", "http"))(mux)
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
