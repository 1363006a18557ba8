package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mossburrow/hearth/internal/model"
)

// AcknowledgmentStore is the append-only acknowledged-miss log.
type AcknowledgmentStore struct {
	db *sql.DB
}

func NewAcknowledgmentStore(db *sql.DB) *AcknowledgmentStore {
	return &AcknowledgmentStore{db: db}
}

func (s *AcknowledgmentStore) Add(choreID, memberID uuid.UUID, periodKey string) (*model.Acknowledgment, error) {
	a := model.Acknowledgment{
		ID:        uuid.New(),
		ChoreID:   choreID,
		MemberID:  memberID,
		PeriodKey: periodKey,
		CreatedAt: time.Now().UTC(),
	}
	_, err := s.db.Exec(
		`INSERT INTO acknowledgments (id, chore_id, member_id, period_key, created_at) VALUES (?, ?, ?, ?, ?)`,
		a.ID.String(), a.ChoreID.String(), a.MemberID.String(), a.PeriodKey, a.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert acknowledgment: %w", err)
	}
	return &a, nil
}

// ListAsOf returns every acknowledgment recorded at or before the cutoff.
func (s *AcknowledgmentStore) ListAsOf(cutoff time.Time) ([]model.Acknowledgment, error) {
	rows, err := s.db.Query(
		`SELECT id, chore_id, member_id, period_key, created_at FROM acknowledgments WHERE created_at <= ? ORDER BY created_at`,
		cutoff.UTC(),
	)
	if err != nil {
		return nil, fmt.Errorf("query acknowledgments: %w", err)
	}
	defer rows.Close()

	var acks []model.Acknowledgment
	for rows.Next() {
		var a model.Acknowledgment
		var id, choreID, memberID string
		if err := rows.Scan(&id, &choreID, &memberID, &a.PeriodKey, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan acknowledgment: %w", err)
		}
		if a.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("parse acknowledgment id: %w", err)
		}
		if a.ChoreID, err = uuid.Parse(choreID); err != nil {
			return nil, fmt.Errorf("parse chore id: %w", err)
		}
		if a.MemberID, err = uuid.Parse(memberID); err != nil {
			return nil, fmt.Errorf("parse member id: %w", err)
		}
		acks = append(acks, a)
	}
	return acks, rows.Err()
}
