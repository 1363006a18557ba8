package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/mossburrow/hearth/internal/chore"
	"github.com/mossburrow/hearth/internal/store"
)

// ViewHandler serves the read models. Each request materializes one
// snapshot at a single cutoff and evaluates the status engine against it;
// the ?at= parameter moves the cutoff for historical views.
type ViewHandler struct {
	snapshots *store.SnapshotStore
	members   *store.MemberStore
	now       func() time.Time
}

func NewViewHandler(snapshots *store.SnapshotStore, members *store.MemberStore) *ViewHandler {
	return &ViewHandler{snapshots: snapshots, members: members, now: time.Now}
}

func (h *ViewHandler) load(w http.ResponseWriter, r *http.Request) (*store.Snapshot, *chore.Index, bool) {
	cutoff, err := parseCutoff(r, h.now().UTC())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return nil, nil, false
	}
	snap, err := h.snapshots.Load(cutoff)
	if err != nil {
		slog.Error("load snapshot", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load snapshot")
		return nil, nil, false
	}
	return snap, chore.NewIndex(snap.Completions, snap.Acks), true
}

// MemberChores serves one member's pending/overdue/completed lists.
func (h *ViewHandler) MemberChores(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	member, err := h.members.GetByID(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to check member")
		return
	}
	if member == nil {
		writeError(w, http.StatusNotFound, "member not found")
		return
	}

	snap, ix, ok := h.load(w, r)
	if !ok {
		return
	}
	view := chore.BuildMemberView(snap.Chores, snap.Assignments, ix, id, snap.TakenAt)
	writeJSON(w, http.StatusOK, view)
}

// OverdueRoster serves the household-wide overdue listing.
func (h *ViewHandler) OverdueRoster(w http.ResponseWriter, r *http.Request) {
	snap, ix, ok := h.load(w, r)
	if !ok {
		return
	}
	roster := chore.BuildOverdueRoster(snap.Members, snap.Chores, snap.Assignments, ix, snap.TakenAt)
	writeJSON(w, http.StatusOK, roster)
}

// TeamOverview serves the combined per-member, per-chore status grid.
func (h *ViewHandler) TeamOverview(w http.ResponseWriter, r *http.Request) {
	snap, ix, ok := h.load(w, r)
	if !ok {
		return
	}
	overview := chore.BuildTeamOverview(snap.Members, snap.Chores, snap.Assignments, ix, snap.TakenAt)
	writeJSON(w, http.StatusOK, overview)
}
