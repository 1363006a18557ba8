package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mossburrow/hearth/internal/model"
)

// CompletionStore is the append-only completion log. Records are only ever
// added or explicitly undone by id; nothing updates in place.
type CompletionStore struct {
	db *sql.DB
}

func NewCompletionStore(db *sql.DB) *CompletionStore {
	return &CompletionStore{db: db}
}

func (s *CompletionStore) Add(choreID, memberID uuid.UUID, completedAt time.Time) (*model.Completion, error) {
	c := model.Completion{
		ID:          uuid.New(),
		ChoreID:     choreID,
		MemberID:    memberID,
		CompletedAt: completedAt.UTC(),
	}
	_, err := s.db.Exec(
		`INSERT INTO completions (id, chore_id, member_id, completed_at) VALUES (?, ?, ?, ?)`,
		c.ID.String(), c.ChoreID.String(), c.MemberID.String(), c.CompletedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert completion: %w", err)
	}
	return &c, nil
}

func (s *CompletionStore) GetByID(id uuid.UUID) (*model.Completion, error) {
	row := s.db.QueryRow(
		`SELECT id, chore_id, member_id, completed_at FROM completions WHERE id = ?`,
		id.String(),
	)
	c, err := scanCompletion(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query completion: %w", err)
	}
	return c, nil
}

// Delete undoes a completion. This is the one permitted removal from the
// log: a mis-tap on the complete button.
func (s *CompletionStore) Delete(id uuid.UUID) error {
	_, err := s.db.Exec(`DELETE FROM completions WHERE id = ?`, id.String())
	if err != nil {
		return fmt.Errorf("delete completion: %w", err)
	}
	return nil
}

// ListAsOf returns every completion recorded at or before the cutoff.
func (s *CompletionStore) ListAsOf(cutoff time.Time) ([]model.Completion, error) {
	rows, err := s.db.Query(
		`SELECT id, chore_id, member_id, completed_at FROM completions WHERE completed_at <= ? ORDER BY completed_at`,
		cutoff.UTC(),
	)
	if err != nil {
		return nil, fmt.Errorf("query completions: %w", err)
	}
	defer rows.Close()

	var completions []model.Completion
	for rows.Next() {
		c, err := scanCompletion(rows)
		if err != nil {
			return nil, fmt.Errorf("scan completion: %w", err)
		}
		completions = append(completions, *c)
	}
	return completions, rows.Err()
}

func scanCompletion(scanner interface{ Scan(...any) error }) (*model.Completion, error) {
	var c model.Completion
	var id, choreID, memberID string
	if err := scanner.Scan(&id, &choreID, &memberID, &c.CompletedAt); err != nil {
		return nil, err
	}
	var err error
	if c.ID, err = uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("parse completion id: %w", err)
	}
	if c.ChoreID, err = uuid.Parse(choreID); err != nil {
		return nil, fmt.Errorf("parse chore id: %w", err)
	}
	if c.MemberID, err = uuid.Parse(memberID); err != nil {
		return nil, fmt.Errorf("parse member id: %w", err)
	}
	return &c, nil
}
