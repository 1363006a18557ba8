package store

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mossburrow/hearth/internal/model"
)

// AssignmentStore keeps an append-only history of assignment revisions per
// chore. Reads resolve to the newest revision at or before a cutoff; a
// chore with no revision yet resolves to an empty assignment.
type AssignmentStore struct {
	db *sql.DB
}

func NewAssignmentStore(db *sql.DB) *AssignmentStore {
	return &AssignmentStore{db: db}
}

// Set appends a new revision replacing the chore's assignment entirely.
func (s *AssignmentStore) Set(choreID uuid.UUID, memberIDs []uuid.UUID, allMembers bool) (*model.Assignment, error) {
	ids := make([]string, len(memberIDs))
	for i, id := range memberIDs {
		ids[i] = id.String()
	}
	_, err := s.db.Exec(
		`INSERT INTO assignment_revisions (id, chore_id, member_ids, all_members, created_at) VALUES (?, ?, ?, ?, ?)`,
		uuid.New().String(), choreID.String(), strings.Join(ids, ","), allMembers, time.Now().UTC(),
	)
	if err != nil {
		return nil, fmt.Errorf("insert assignment revision: %w", err)
	}
	return &model.Assignment{ChoreID: choreID, MemberIDs: memberIDs, AllMembers: allMembers}, nil
}

// AddMember extends the chore's assignment to include the member, keeping
// every existing assignee. Used when someone completes a chore they were
// not assigned to. No revision is written if the member is already covered.
func (s *AssignmentStore) AddMember(choreID, memberID uuid.UUID) (*model.Assignment, error) {
	current, err := s.Resolve(choreID, time.Now().UTC())
	if err != nil {
		return nil, err
	}
	if current.Includes(memberID) {
		return current, nil
	}
	return s.Set(choreID, append(current.MemberIDs, memberID), current.AllMembers)
}

// Resolve returns the chore's assignment as of the cutoff.
func (s *AssignmentStore) Resolve(choreID uuid.UUID, cutoff time.Time) (*model.Assignment, error) {
	row := s.db.QueryRow(
		`SELECT member_ids, all_members FROM assignment_revisions
		 WHERE chore_id = ? AND created_at <= ?
		 ORDER BY created_at DESC, rowid DESC LIMIT 1`,
		choreID.String(), cutoff.UTC(),
	)
	var raw string
	var allMembers bool
	err := row.Scan(&raw, &allMembers)
	if err == sql.ErrNoRows {
		return &model.Assignment{ChoreID: choreID}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query assignment: %w", err)
	}
	ids, err := parseMemberIDs(raw)
	if err != nil {
		return nil, err
	}
	return &model.Assignment{ChoreID: choreID, MemberIDs: ids, AllMembers: allMembers}, nil
}

// ResolveAll returns the latest assignment per chore as of the cutoff,
// keyed by chore id. Chores without revisions are absent; the zero
// Assignment covers nobody, which is what callers want for them.
func (s *AssignmentStore) ResolveAll(cutoff time.Time) (map[uuid.UUID]model.Assignment, error) {
	rows, err := s.db.Query(
		`SELECT chore_id, member_ids, all_members FROM assignment_revisions
		 WHERE created_at <= ?
		 ORDER BY created_at, rowid`,
		cutoff.UTC(),
	)
	if err != nil {
		return nil, fmt.Errorf("query assignments: %w", err)
	}
	defer rows.Close()

	// Later rows overwrite earlier ones.
	out := make(map[uuid.UUID]model.Assignment)
	for rows.Next() {
		var choreRaw, idsRaw string
		var allMembers bool
		if err := rows.Scan(&choreRaw, &idsRaw, &allMembers); err != nil {
			return nil, fmt.Errorf("scan assignment: %w", err)
		}
		choreID, err := uuid.Parse(choreRaw)
		if err != nil {
			return nil, fmt.Errorf("parse chore id: %w", err)
		}
		ids, err := parseMemberIDs(idsRaw)
		if err != nil {
			return nil, err
		}
		out[choreID] = model.Assignment{ChoreID: choreID, MemberIDs: ids, AllMembers: allMembers}
	}
	return out, rows.Err()
}

func parseMemberIDs(raw string) ([]uuid.UUID, error) {
	if raw == "" {
		return nil, nil
	}
	parts := strings.Split(raw, ",")
	ids := make([]uuid.UUID, 0, len(parts))
	for _, p := range parts {
		id, err := uuid.Parse(p)
		if err != nil {
			return nil, fmt.Errorf("parse member id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
