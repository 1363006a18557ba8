package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mossburrow/hearth/internal/model"
	"github.com/mossburrow/hearth/internal/schedule"
)

type ChoreStore struct {
	db *sql.DB
}

func NewChoreStore(db *sql.DB) *ChoreStore {
	return &ChoreStore{db: db}
}

const choreCols = `id, name, frequency, optional, start_date, created_at, updated_at`

func scanChore(scanner interface{ Scan(...any) error }) (*model.Chore, error) {
	var c model.Chore
	var id, freq string
	var startDate sql.NullTime

	err := scanner.Scan(&id, &c.Name, &freq, &c.Optional, &startDate, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	c.ID, err = uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("parse chore id: %w", err)
	}
	c.Frequency, err = schedule.Parse(freq)
	if err != nil {
		return nil, fmt.Errorf("parse frequency: %w", err)
	}
	if startDate.Valid {
		t := startDate.Time
		c.StartDate = &t
	}
	return &c, nil
}

func (s *ChoreStore) Create(name string, freq schedule.Frequency, optional bool, startDate *time.Time) (*model.Chore, error) {
	id := uuid.New()
	now := time.Now().UTC()
	_, err := s.db.Exec(
		`INSERT INTO chores (id, name, frequency, optional, start_date, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id.String(), name, freq.String(), optional, startDate, now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("insert chore: %w", err)
	}
	return s.GetByID(id)
}

// List returns non-deleted chores. Tombstoned chores never come back.
func (s *ChoreStore) List() ([]model.Chore, error) {
	rows, err := s.db.Query(`SELECT ` + choreCols + ` FROM chores WHERE deleted_at IS NULL ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("query chores: %w", err)
	}
	defer rows.Close()

	var chores []model.Chore
	for rows.Next() {
		c, err := scanChore(rows)
		if err != nil {
			return nil, fmt.Errorf("scan chore: %w", err)
		}
		chores = append(chores, *c)
	}
	return chores, rows.Err()
}

// ListAsOf returns chores that existed and were not yet deleted at the
// cutoff instant.
func (s *ChoreStore) ListAsOf(cutoff time.Time) ([]model.Chore, error) {
	rows, err := s.db.Query(
		`SELECT `+choreCols+` FROM chores WHERE created_at <= ? AND (deleted_at IS NULL OR deleted_at > ?) ORDER BY name`,
		cutoff.UTC(), cutoff.UTC(),
	)
	if err != nil {
		return nil, fmt.Errorf("query chores: %w", err)
	}
	defer rows.Close()

	var chores []model.Chore
	for rows.Next() {
		c, err := scanChore(rows)
		if err != nil {
			return nil, fmt.Errorf("scan chore: %w", err)
		}
		chores = append(chores, *c)
	}
	return chores, rows.Err()
}

func (s *ChoreStore) GetByID(id uuid.UUID) (*model.Chore, error) {
	row := s.db.QueryRow(`SELECT `+choreCols+` FROM chores WHERE id = ? AND deleted_at IS NULL`, id.String())
	c, err := scanChore(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query chore: %w", err)
	}
	return c, nil
}

func (s *ChoreStore) Update(id uuid.UUID, name string, freq schedule.Frequency, optional bool, startDate *time.Time) (*model.Chore, error) {
	_, err := s.db.Exec(
		`UPDATE chores SET name = ?, frequency = ?, optional = ?, start_date = ?, updated_at = ? WHERE id = ? AND deleted_at IS NULL`,
		name, freq.String(), optional, startDate, time.Now().UTC(), id.String(),
	)
	if err != nil {
		return nil, fmt.Errorf("update chore: %w", err)
	}
	return s.GetByID(id)
}

// Delete tombstones the chore. The event log underneath it is kept.
func (s *ChoreStore) Delete(id uuid.UUID) error {
	_, err := s.db.Exec(`UPDATE chores SET deleted_at = ? WHERE id = ? AND deleted_at IS NULL`, time.Now().UTC(), id.String())
	if err != nil {
		return fmt.Errorf("delete chore: %w", err)
	}
	return nil
}
