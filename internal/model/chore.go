package model

import (
	"time"

	"github.com/google/uuid"

	"github.com/mossburrow/hearth/internal/schedule"
)

type Chore struct {
	ID        uuid.UUID          `json:"id"`
	Name      string             `json:"name"`
	Frequency schedule.Frequency `json:"frequency"`
	Optional  bool               `json:"optional"`
	// StartDate is the earliest date the chore can be due. Nil means the
	// chore's creation time is used.
	StartDate *time.Time `json:"start_date,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// EffectiveStart is the configured start date, or the creation timestamp
// when none was set.
func (c Chore) EffectiveStart() time.Time {
	if c.StartDate != nil {
		return *c.StartDate
	}
	return c.CreatedAt
}

// Completion records one member finishing one chore at one instant.
// Completions are append-only.
type Completion struct {
	ID          uuid.UUID `json:"id"`
	ChoreID     uuid.UUID `json:"chore_id"`
	MemberID    uuid.UUID `json:"member_id"`
	CompletedAt time.Time `json:"completed_at"`
}

// Acknowledgment records a member explicitly accepting a missed period for
// a chore. It suppresses the overdue flag for that exact period key only.
type Acknowledgment struct {
	ID        uuid.UUID `json:"id"`
	ChoreID   uuid.UUID `json:"chore_id"`
	MemberID  uuid.UUID `json:"member_id"`
	PeriodKey string    `json:"period_key"`
	CreatedAt time.Time `json:"created_at"`
}

// Assignment is the latest-wins resolution of who a chore applies to.
type Assignment struct {
	ChoreID    uuid.UUID   `json:"chore_id"`
	MemberIDs  []uuid.UUID `json:"member_ids"`
	AllMembers bool        `json:"all_members"`
}

// Includes reports whether the assignment covers the given member.
func (a Assignment) Includes(memberID uuid.UUID) bool {
	if a.AllMembers {
		return true
	}
	for _, id := range a.MemberIDs {
		if id == memberID {
			return true
		}
	}
	return false
}
