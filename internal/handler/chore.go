package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mossburrow/hearth/internal/model"
	"github.com/mossburrow/hearth/internal/schedule"
	"github.com/mossburrow/hearth/internal/store"
)

type ChoreHandler struct {
	chores      *store.ChoreStore
	members     *store.MemberStore
	completions *store.CompletionStore
	acks        *store.AcknowledgmentStore
	assignments *store.AssignmentStore
}

func NewChoreHandler(cs *store.ChoreStore, ms *store.MemberStore, comps *store.CompletionStore, acks *store.AcknowledgmentStore, assigns *store.AssignmentStore) *ChoreHandler {
	return &ChoreHandler{chores: cs, members: ms, completions: comps, acks: acks, assignments: assigns}
}

type choreRequest struct {
	Name      string     `json:"name"`
	Frequency string     `json:"frequency"`
	Optional  bool       `json:"optional"`
	StartDate *time.Time `json:"start_date"`
}

func (h *ChoreHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req choreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	freq, err := schedule.Parse(req.Frequency)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid frequency: "+err.Error())
		return
	}

	chore, err := h.chores.Create(req.Name, freq, req.Optional, req.StartDate)
	if err != nil {
		slog.Error("create chore", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create chore")
		return
	}
	writeJSON(w, http.StatusCreated, chore)
}

func (h *ChoreHandler) List(w http.ResponseWriter, r *http.Request) {
	chores, err := h.chores.List()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list chores")
		return
	}
	if chores == nil {
		chores = []model.Chore{}
	}
	writeJSON(w, http.StatusOK, chores)
}

func (h *ChoreHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	existing, err := h.chores.GetByID(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get chore")
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "chore not found")
		return
	}

	var req choreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	freq, err := schedule.Parse(req.Frequency)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid frequency: "+err.Error())
		return
	}

	chore, err := h.chores.Update(id, req.Name, freq, req.Optional, req.StartDate)
	if err != nil {
		slog.Error("update chore", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update chore")
		return
	}
	writeJSON(w, http.StatusOK, chore)
}

func (h *ChoreHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	existing, err := h.chores.GetByID(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get chore")
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "chore not found")
		return
	}
	if err := h.chores.Delete(id); err != nil {
		slog.Error("delete chore", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete chore")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *ChoreHandler) SetAssignment(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	existing, err := h.chores.GetByID(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get chore")
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "chore not found")
		return
	}

	var req struct {
		MemberIDs  []uuid.UUID `json:"member_ids"`
		AllMembers bool        `json:"all_members"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	for _, mid := range req.MemberIDs {
		member, err := h.members.GetByID(mid)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to check member")
			return
		}
		if member == nil {
			writeError(w, http.StatusBadRequest, "member not found: "+mid.String())
			return
		}
	}

	assignment, err := h.assignments.Set(id, req.MemberIDs, req.AllMembers)
	if err != nil {
		slog.Error("set assignment", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to set assignment")
		return
	}
	writeJSON(w, http.StatusOK, assignment)
}

// Complete records a completion. A member completing a chore they are not
// assigned to is first added to the assignment, additively.
func (h *ChoreHandler) Complete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	existing, err := h.chores.GetByID(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get chore")
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "chore not found")
		return
	}

	var req struct {
		MemberID    uuid.UUID  `json:"member_id"`
		CompletedAt *time.Time `json:"completed_at"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	member, err := h.members.GetByID(req.MemberID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to check member")
		return
	}
	if member == nil {
		writeError(w, http.StatusBadRequest, "member not found")
		return
	}

	if _, err := h.assignments.AddMember(id, req.MemberID); err != nil {
		slog.Error("auto-assign on complete", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update assignment")
		return
	}

	completedAt := time.Now().UTC()
	if req.CompletedAt != nil {
		completedAt = req.CompletedAt.UTC()
	}
	completion, err := h.completions.Add(id, req.MemberID, completedAt)
	if err != nil {
		slog.Error("record completion", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to record completion")
		return
	}
	writeJSON(w, http.StatusCreated, completion)
}

func (h *ChoreHandler) UndoComplete(w http.ResponseWriter, r *http.Request) {
	completionID, err := parseIDParam(r, "completion_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid completion id")
		return
	}
	existing, err := h.completions.GetByID(completionID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get completion")
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "completion not found")
		return
	}
	if err := h.completions.Delete(completionID); err != nil {
		slog.Error("undo completion", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to undo completion")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// Acknowledge records an accepted miss for one period, silencing its
// overdue flag.
func (h *ChoreHandler) Acknowledge(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	existing, err := h.chores.GetByID(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get chore")
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "chore not found")
		return
	}
	if existing.Frequency.Kind == schedule.Once {
		writeError(w, http.StatusBadRequest, "one-off chores have no periods to acknowledge")
		return
	}

	var req struct {
		MemberID  uuid.UUID `json:"member_id"`
		PeriodKey string    `json:"period_key"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if strings.TrimSpace(req.PeriodKey) == "" {
		writeError(w, http.StatusBadRequest, "period_key is required")
		return
	}
	member, err := h.members.GetByID(req.MemberID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to check member")
		return
	}
	if member == nil {
		writeError(w, http.StatusBadRequest, "member not found")
		return
	}

	ack, err := h.acks.Add(id, req.MemberID, req.PeriodKey)
	if err != nil {
		slog.Error("record acknowledgment", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to record acknowledgment")
		return
	}
	writeJSON(w, http.StatusCreated, ack)
}
