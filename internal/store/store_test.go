package store

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/mossburrow/hearth/internal/database"
	"github.com/mossburrow/hearth/internal/schedule"
)

type testStores struct {
	members     *MemberStore
	chores      *ChoreStore
	completions *CompletionStore
	acks        *AcknowledgmentStore
	assignments *AssignmentStore
	snapshots   *SnapshotStore
}

func setupTestDB(t *testing.T) testStores {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	s := testStores{
		members:     NewMemberStore(db),
		chores:      NewChoreStore(db),
		completions: NewCompletionStore(db),
		acks:        NewAcknowledgmentStore(db),
		assignments: NewAssignmentStore(db),
	}
	s.snapshots = NewSnapshotStore(s.members, s.chores, s.completions, s.acks, s.assignments)
	return s
}

func mustFreq(t *testing.T, s string) schedule.Frequency {
	t.Helper()
	f, err := schedule.Parse(s)
	if err != nil {
		t.Fatalf("parse frequency %q: %v", s, err)
	}
	return f
}

func TestMemberCRUD(t *testing.T) {
	s := setupTestDB(t)

	m, err := s.members.Create("Alice", "#ff0000", "🦊")
	if err != nil {
		t.Fatalf("create member: %v", err)
	}
	if m.Name != "Alice" || m.SortOrder != 0 {
		t.Errorf("created = %+v", m)
	}

	second, err := s.members.Create("Bob", "", "")
	if err != nil {
		t.Fatalf("create second member: %v", err)
	}
	if second.SortOrder != 1 {
		t.Errorf("sort_order = %d, want 1", second.SortOrder)
	}

	updated, err := s.members.Update(m.ID, "Alice B", "#00ff00", "🦝")
	if err != nil {
		t.Fatalf("update member: %v", err)
	}
	if updated.Name != "Alice B" || updated.Color != "#00ff00" {
		t.Errorf("updated = %+v", updated)
	}

	if err := s.members.Delete(second.ID); err != nil {
		t.Fatalf("delete member: %v", err)
	}
	members, err := s.members.List()
	if err != nil {
		t.Fatalf("list members: %v", err)
	}
	if len(members) != 1 || members[0].ID != m.ID {
		t.Errorf("members = %+v, want just Alice", members)
	}
}

func TestChoreFrequencyRoundTrip(t *testing.T) {
	s := setupTestDB(t)

	for _, freq := range []string{"", "FREQ=DAILY", "FREQ=WEEKLY;BYDAY=MO,TH", "FREQ=INTERVAL;DAYS=3"} {
		c, err := s.chores.Create("Chore "+freq, mustFreq(t, freq), false, nil)
		if err != nil {
			t.Fatalf("create chore %q: %v", freq, err)
		}
		got, err := s.chores.GetByID(c.ID)
		if err != nil {
			t.Fatalf("get chore: %v", err)
		}
		if got.Frequency.String() != freq {
			t.Errorf("frequency round trip %q -> %q", freq, got.Frequency.String())
		}
	}
}

func TestChoreStartDate(t *testing.T) {
	s := setupTestDB(t)

	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	c, err := s.chores.Create("Water plants", mustFreq(t, "FREQ=DAILY"), false, &start)
	if err != nil {
		t.Fatalf("create chore: %v", err)
	}
	got, err := s.chores.GetByID(c.ID)
	if err != nil {
		t.Fatalf("get chore: %v", err)
	}
	if got.StartDate == nil || !got.StartDate.Equal(start) {
		t.Errorf("start_date = %v, want %v", got.StartDate, start)
	}
	if !got.EffectiveStart().Equal(start) {
		t.Errorf("effective start = %v, want %v", got.EffectiveStart(), start)
	}
}

func TestChoreTombstone(t *testing.T) {
	s := setupTestDB(t)

	c, err := s.chores.Create("Old chore", mustFreq(t, "FREQ=DAILY"), false, nil)
	if err != nil {
		t.Fatalf("create chore: %v", err)
	}
	if err := s.chores.Delete(c.ID); err != nil {
		t.Fatalf("delete chore: %v", err)
	}

	got, err := s.chores.GetByID(c.ID)
	if err != nil {
		t.Fatalf("get chore: %v", err)
	}
	if got != nil {
		t.Errorf("tombstoned chore still gettable: %+v", got)
	}
	chores, err := s.chores.List()
	if err != nil {
		t.Fatalf("list chores: %v", err)
	}
	if len(chores) != 0 {
		t.Errorf("tombstoned chore still listed: %+v", chores)
	}

	// But it was alive before deletion.
	asOf, err := s.chores.ListAsOf(c.CreatedAt)
	if err != nil {
		t.Fatalf("list as of: %v", err)
	}
	if len(asOf) != 1 {
		t.Errorf("chore invisible at a cutoff before its deletion: %+v", asOf)
	}
}

func TestCompletionAddUndoAndCutoff(t *testing.T) {
	s := setupTestDB(t)

	m, _ := s.members.Create("Alice", "", "")
	c, _ := s.chores.Create("Dishes", mustFreq(t, "FREQ=DAILY"), false, nil)

	early, err := s.completions.Add(c.ID, m.ID, time.Date(2026, 2, 10, 9, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("add completion: %v", err)
	}
	late, err := s.completions.Add(c.ID, m.ID, time.Date(2026, 2, 12, 9, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("add completion: %v", err)
	}

	// Cutoff between the two records sees only the first.
	got, err := s.completions.ListAsOf(time.Date(2026, 2, 11, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("list completions: %v", err)
	}
	if len(got) != 1 || got[0].ID != early.ID {
		t.Errorf("cutoff list = %+v, want just the earlier record", got)
	}

	// Undo removes one record only.
	if err := s.completions.Delete(late.ID); err != nil {
		t.Fatalf("delete completion: %v", err)
	}
	got, err = s.completions.ListAsOf(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("list completions: %v", err)
	}
	if len(got) != 1 || got[0].ID != early.ID {
		t.Errorf("after undo = %+v, want just the earlier record", got)
	}
}

func TestAcknowledgmentLog(t *testing.T) {
	s := setupTestDB(t)

	m, _ := s.members.Create("Alice", "", "")
	c, _ := s.chores.Create("Dishes", mustFreq(t, "FREQ=DAILY"), false, nil)

	a, err := s.acks.Add(c.ID, m.ID, "2026-02-13")
	if err != nil {
		t.Fatalf("add acknowledgment: %v", err)
	}
	got, err := s.acks.ListAsOf(time.Now().UTC().Add(time.Minute))
	if err != nil {
		t.Fatalf("list acknowledgments: %v", err)
	}
	if len(got) != 1 || got[0].ID != a.ID || got[0].PeriodKey != "2026-02-13" {
		t.Errorf("acks = %+v", got)
	}
}

func TestAssignmentLatestWins(t *testing.T) {
	s := setupTestDB(t)

	alice, _ := s.members.Create("Alice", "", "")
	bob, _ := s.members.Create("Bob", "", "")
	c, _ := s.chores.Create("Dishes", mustFreq(t, "FREQ=DAILY"), false, nil)

	if _, err := s.assignments.Set(c.ID, []uuid.UUID{alice.ID}, false); err != nil {
		t.Fatalf("set assignment: %v", err)
	}
	if _, err := s.assignments.Set(c.ID, []uuid.UUID{bob.ID}, false); err != nil {
		t.Fatalf("set assignment: %v", err)
	}

	got, err := s.assignments.Resolve(c.ID, time.Now().UTC().Add(time.Minute))
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if got.Includes(alice.ID) {
		t.Error("replaced assignee still included")
	}
	if !got.Includes(bob.ID) {
		t.Error("latest assignee missing")
	}
}

func TestAssignmentAddMemberIsAdditive(t *testing.T) {
	s := setupTestDB(t)

	alice, _ := s.members.Create("Alice", "", "")
	bob, _ := s.members.Create("Bob", "", "")
	c, _ := s.chores.Create("Dishes", mustFreq(t, "FREQ=DAILY"), false, nil)

	if _, err := s.assignments.Set(c.ID, []uuid.UUID{alice.ID}, false); err != nil {
		t.Fatalf("set assignment: %v", err)
	}
	got, err := s.assignments.AddMember(c.ID, bob.ID)
	if err != nil {
		t.Fatalf("add member: %v", err)
	}
	if !got.Includes(alice.ID) || !got.Includes(bob.ID) {
		t.Errorf("assignment = %+v, want both members", got)
	}

	// Adding an existing assignee writes nothing new.
	again, err := s.assignments.AddMember(c.ID, bob.ID)
	if err != nil {
		t.Fatalf("add member again: %v", err)
	}
	if len(again.MemberIDs) != 2 {
		t.Errorf("assignment grew on redundant add: %+v", again)
	}
}

func TestAssignmentUnsetChore(t *testing.T) {
	s := setupTestDB(t)
	c, _ := s.chores.Create("Dishes", mustFreq(t, "FREQ=DAILY"), false, nil)

	got, err := s.assignments.Resolve(c.ID, time.Now().UTC())
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if got.AllMembers || len(got.MemberIDs) != 0 {
		t.Errorf("unassigned chore resolves to %+v, want empty", got)
	}
}

func TestSnapshotIsCutoffConsistent(t *testing.T) {
	s := setupTestDB(t)

	m, _ := s.members.Create("Alice", "", "")
	c, _ := s.chores.Create("Dishes", mustFreq(t, "FREQ=DAILY"), false, nil)
	if _, err := s.assignments.Set(c.ID, nil, true); err != nil {
		t.Fatalf("set assignment: %v", err)
	}

	now := time.Now().UTC()
	cutoff := now.Add(time.Hour)
	if _, err := s.completions.Add(c.ID, m.ID, now); err != nil {
		t.Fatalf("add completion: %v", err)
	}
	// Timestamped after the cutoff: invisible to a view at that cutoff.
	if _, err := s.completions.Add(c.ID, m.ID, now.Add(2*time.Hour)); err != nil {
		t.Fatalf("add completion: %v", err)
	}

	snap, err := s.snapshots.Load(cutoff)
	if err != nil {
		t.Fatalf("load snapshot: %v", err)
	}
	if len(snap.Completions) != 1 {
		t.Fatalf("snapshot completions = %d, want 1", len(snap.Completions))
	}
	if !snap.Assignments[c.ID].AllMembers {
		t.Errorf("assignment missing from snapshot: %+v", snap.Assignments)
	}
	if len(snap.Members) != 1 {
		t.Errorf("members = %d, want 1", len(snap.Members))
	}
	if len(snap.Chores) != 1 {
		t.Errorf("chores = %d, want 1", len(snap.Chores))
	}
	if !snap.TakenAt.Equal(cutoff) {
		t.Errorf("taken_at = %v, want %v", snap.TakenAt, cutoff)
	}
}
