package chore

import (
	"github.com/google/uuid"

	"github.com/mossburrow/hearth/internal/model"
)

// AckSet is the set of acknowledged period keys for one (chore, member)
// scope.
type AckSet map[string]struct{}

// Contains reports whether the period key has been acknowledged.
func (s AckSet) Contains(periodKey string) bool {
	_, ok := s[periodKey]
	return ok
}

type choreMember struct {
	choreID  uuid.UUID
	memberID uuid.UUID
}

// Index groups a snapshot's completion and acknowledgment records for fast
// per-chore and per-member lookup. Build one per request from a consistent
// snapshot and share it freely: it is never mutated after construction.
type Index struct {
	byChore       map[uuid.UUID][]model.Completion
	byChoreMember map[choreMember][]model.Completion
	acks          map[choreMember]AckSet
}

func NewIndex(completions []model.Completion, acks []model.Acknowledgment) *Index {
	ix := &Index{
		byChore:       make(map[uuid.UUID][]model.Completion),
		byChoreMember: make(map[choreMember][]model.Completion),
		acks:          make(map[choreMember]AckSet),
	}
	for _, c := range completions {
		key := choreMember{c.ChoreID, c.MemberID}
		ix.byChore[c.ChoreID] = append(ix.byChore[c.ChoreID], c)
		ix.byChoreMember[key] = append(ix.byChoreMember[key], c)
	}
	for _, a := range acks {
		key := choreMember{a.ChoreID, a.MemberID}
		set, ok := ix.acks[key]
		if !ok {
			set = make(AckSet)
			ix.acks[key] = set
		}
		set[a.PeriodKey] = struct{}{}
	}
	return ix
}

// ForChore returns every completion of the chore, by any member.
func (ix *Index) ForChore(choreID uuid.UUID) []model.Completion {
	return ix.byChore[choreID]
}

// ForMember returns the member's completions of the chore.
func (ix *Index) ForMember(choreID, memberID uuid.UUID) []model.Completion {
	return ix.byChoreMember[choreMember{choreID, memberID}]
}

// AcksFor returns the member's acknowledged period keys for the chore. A
// nil return is a valid empty set.
func (ix *Index) AcksFor(choreID, memberID uuid.UUID) AckSet {
	return ix.acks[choreMember{choreID, memberID}]
}
