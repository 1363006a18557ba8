package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mossburrow/hearth/internal/model"
)

type MemberStore struct {
	db *sql.DB
}

func NewMemberStore(db *sql.DB) *MemberStore {
	return &MemberStore{db: db}
}

const memberCols = `id, name, color, avatar_emoji, sort_order, created_at, updated_at`

func scanMember(scanner interface{ Scan(...any) error }) (*model.Member, error) {
	var m model.Member
	var id string
	err := scanner.Scan(&id, &m.Name, &m.Color, &m.AvatarEmoji, &m.SortOrder, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, err
	}
	m.ID, err = uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("parse member id: %w", err)
	}
	return &m, nil
}

func (s *MemberStore) Create(name, color, avatarEmoji string) (*model.Member, error) {
	var maxOrder int
	err := s.db.QueryRow(`SELECT COALESCE(MAX(sort_order), -1) FROM members`).Scan(&maxOrder)
	if err != nil {
		return nil, fmt.Errorf("query max sort_order: %w", err)
	}

	id := uuid.New()
	now := time.Now().UTC()
	_, err = s.db.Exec(
		`INSERT INTO members (id, name, color, avatar_emoji, sort_order, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id.String(), name, color, avatarEmoji, maxOrder+1, now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("insert member: %w", err)
	}
	return s.GetByID(id)
}

func (s *MemberStore) List() ([]model.Member, error) {
	rows, err := s.db.Query(`SELECT ` + memberCols + ` FROM members ORDER BY sort_order, name`)
	if err != nil {
		return nil, fmt.Errorf("query members: %w", err)
	}
	defer rows.Close()

	var members []model.Member
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, fmt.Errorf("scan member: %w", err)
		}
		members = append(members, *m)
	}
	return members, rows.Err()
}

func (s *MemberStore) GetByID(id uuid.UUID) (*model.Member, error) {
	row := s.db.QueryRow(`SELECT `+memberCols+` FROM members WHERE id = ?`, id.String())
	m, err := scanMember(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query member: %w", err)
	}
	return m, nil
}

func (s *MemberStore) Update(id uuid.UUID, name, color, avatarEmoji string) (*model.Member, error) {
	_, err := s.db.Exec(
		`UPDATE members SET name = ?, color = ?, avatar_emoji = ?, updated_at = ? WHERE id = ?`,
		name, color, avatarEmoji, time.Now().UTC(), id.String(),
	)
	if err != nil {
		return nil, fmt.Errorf("update member: %w", err)
	}
	return s.GetByID(id)
}

func (s *MemberStore) Delete(id uuid.UUID) error {
	_, err := s.db.Exec(`DELETE FROM members WHERE id = ?`, id.String())
	if err != nil {
		return fmt.Errorf("delete member: %w", err)
	}
	return nil
}
