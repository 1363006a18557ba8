package store

import (
	"time"

	"github.com/google/uuid"

	"github.com/mossburrow/hearth/internal/model"
)

// Snapshot is one consistent view of the household at a single cutoff
// instant: exactly what the status engine consumes. Every list is filtered
// to records that existed at or before TakenAt, so current-period and
// prior-period questions never observe a torn view.
type Snapshot struct {
	TakenAt     time.Time
	Members     []model.Member
	Chores      []model.Chore
	Assignments map[uuid.UUID]model.Assignment
	Completions []model.Completion
	Acks        []model.Acknowledgment
}

// SnapshotStore materializes snapshots from the underlying logs.
type SnapshotStore struct {
	members     *MemberStore
	chores      *ChoreStore
	completions *CompletionStore
	acks        *AcknowledgmentStore
	assignments *AssignmentStore
}

func NewSnapshotStore(members *MemberStore, chores *ChoreStore, completions *CompletionStore, acks *AcknowledgmentStore, assignments *AssignmentStore) *SnapshotStore {
	return &SnapshotStore{
		members:     members,
		chores:      chores,
		completions: completions,
		acks:        acks,
		assignments: assignments,
	}
}

// Load builds the snapshot as of the cutoff. Tombstoned chores are already
// excluded; assignment history is reduced to latest-wins.
func (s *SnapshotStore) Load(cutoff time.Time) (*Snapshot, error) {
	cutoff = cutoff.UTC()

	members, err := s.members.List()
	if err != nil {
		return nil, err
	}
	chores, err := s.chores.ListAsOf(cutoff)
	if err != nil {
		return nil, err
	}
	completions, err := s.completions.ListAsOf(cutoff)
	if err != nil {
		return nil, err
	}
	acks, err := s.acks.ListAsOf(cutoff)
	if err != nil {
		return nil, err
	}
	assignments, err := s.assignments.ResolveAll(cutoff)
	if err != nil {
		return nil, err
	}

	return &Snapshot{
		TakenAt:     cutoff,
		Members:     members,
		Chores:      chores,
		Assignments: assignments,
		Completions: completions,
		Acks:        acks,
	}, nil
}
