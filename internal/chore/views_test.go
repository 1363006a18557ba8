package chore

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/mossburrow/hearth/internal/model"
)

func member(name string) model.Member {
	return model.Member{ID: uuid.New(), Name: name}
}

func assignAll(chores ...model.Chore) map[uuid.UUID]model.Assignment {
	out := make(map[uuid.UUID]model.Assignment)
	for _, c := range chores {
		out[c.ID] = model.Assignment{ChoreID: c.ID, AllMembers: true}
	}
	return out
}

func TestMemberViewPartitions(t *testing.T) {
	alice := member("Alice")
	now := date(2026, 2, 18) // Wednesday

	dishes := testChore(t, "FREQ=DAILY", date(2026, 2, 1))
	dishes.Name = "Dishes"
	vacuum := testChore(t, "FREQ=WEEKLY", date(2026, 1, 5))
	vacuum.Name = "Vacuum"
	bins := testChore(t, "FREQ=DAILY", date(2026, 2, 1))
	bins.Name = "Bins"

	comps := []model.Completion{
		{ID: uuid.New(), ChoreID: vacuum.ID, MemberID: alice.ID, CompletedAt: time.Date(2026, 2, 17, 9, 0, 0, 0, time.UTC)},
		{ID: uuid.New(), ChoreID: bins.ID, MemberID: alice.ID, CompletedAt: time.Date(2026, 2, 17, 20, 0, 0, 0, time.UTC)},
	}
	ix := NewIndex(comps, nil)
	chores := []model.Chore{dishes, vacuum, bins}

	view := BuildMemberView(chores, assignAll(chores...), ix, alice.ID, now)

	// Dishes: nothing today, missed yesterday -> pending and overdue.
	// Bins: done yesterday, not today -> pending only.
	// Vacuum: done this week -> completed.
	if len(view.Pending) != 2 {
		t.Fatalf("pending = %d entries, want 2", len(view.Pending))
	}
	if view.Pending[0].Chore.Name != "Bins" || view.Pending[1].Chore.Name != "Dishes" {
		t.Errorf("pending order = %q, %q, want name ascending", view.Pending[0].Chore.Name, view.Pending[1].Chore.Name)
	}
	if len(view.Overdue) != 1 || view.Overdue[0].Chore.Name != "Dishes" {
		t.Fatalf("overdue = %+v, want just Dishes", view.Overdue)
	}
	if view.Overdue[0].Overdue == nil || view.Overdue[0].Overdue.Label != "yesterday" {
		t.Errorf("overdue entry = %+v, want yesterday label", view.Overdue[0].Overdue)
	}
	if len(view.Completed) != 1 || view.Completed[0].Chore.Name != "Vacuum" {
		t.Fatalf("completed = %+v, want just Vacuum", view.Completed)
	}
}

func TestMemberViewSameChorePendingAndOverdue(t *testing.T) {
	alice := member("Alice")
	c := testChore(t, "FREQ=DAILY", date(2026, 2, 1))
	ix := NewIndex(nil, nil)

	view := BuildMemberView([]model.Chore{c}, assignAll(c), ix, alice.ID, date(2026, 2, 18))
	if len(view.Pending) != 1 || len(view.Overdue) != 1 {
		t.Errorf("pending=%d overdue=%d, want the chore in both buckets", len(view.Pending), len(view.Overdue))
	}
}

func TestMemberViewCompletedSortedByTimeDescending(t *testing.T) {
	alice := member("Alice")
	now := date(2026, 2, 18)

	first := testChore(t, "FREQ=DAILY", date(2026, 2, 1))
	first.Name = "A"
	second := testChore(t, "FREQ=DAILY", date(2026, 2, 1))
	second.Name = "B"

	comps := []model.Completion{
		{ID: uuid.New(), ChoreID: first.ID, MemberID: alice.ID, CompletedAt: time.Date(2026, 2, 18, 8, 0, 0, 0, time.UTC)},
		{ID: uuid.New(), ChoreID: second.ID, MemberID: alice.ID, CompletedAt: time.Date(2026, 2, 18, 11, 0, 0, 0, time.UTC)},
	}
	ix := NewIndex(comps, nil)

	view := BuildMemberView([]model.Chore{first, second}, assignAll(first, second), ix, alice.ID, now)
	if len(view.Completed) != 2 {
		t.Fatalf("completed = %d entries, want 2", len(view.Completed))
	}
	if view.Completed[0].Chore.Name != "B" {
		t.Errorf("completed[0] = %q, want the most recent completion first", view.Completed[0].Chore.Name)
	}
}

func TestMemberViewVisibility(t *testing.T) {
	alice := member("Alice")
	bob := member("Bob")
	c := testChore(t, "FREQ=DAILY", date(2026, 2, 1))
	now := date(2026, 2, 18)

	// Assigned to Bob only: invisible to Alice.
	assignments := map[uuid.UUID]model.Assignment{
		c.ID: {ChoreID: c.ID, MemberIDs: []uuid.UUID{bob.ID}},
	}
	view := BuildMemberView([]model.Chore{c}, assignments, NewIndex(nil, nil), alice.ID, now)
	if len(view.Pending)+len(view.Overdue)+len(view.Completed) != 0 {
		t.Errorf("unassigned chore visible to Alice: %+v", view)
	}

	// A completion by Alice makes it visible even without assignment.
	ix := NewIndex([]model.Completion{
		{ID: uuid.New(), ChoreID: c.ID, MemberID: alice.ID, CompletedAt: time.Date(2026, 2, 18, 8, 0, 0, 0, time.UTC)},
	}, nil)
	view = BuildMemberView([]model.Chore{c}, assignments, ix, alice.ID, now)
	if len(view.Completed) != 1 {
		t.Errorf("completed chore invisible to Alice: %+v", view)
	}
}

func TestOverdueRosterOrdering(t *testing.T) {
	alice := member("Alice")
	bob := member("Bob")
	carol := member("Carol")
	now := date(2026, 2, 18)

	dishes := testChore(t, "FREQ=DAILY", date(2026, 2, 1))
	dishes.Name = "Dishes"
	vacuum := testChore(t, "FREQ=WEEKLY", date(2026, 1, 5))
	vacuum.Name = "Vacuum"

	// Bob cleared both yesterday's dishes and last week's vacuuming; Carol
	// only the dishes; Alice nothing.
	comps := []model.Completion{
		{ID: uuid.New(), ChoreID: dishes.ID, MemberID: bob.ID, CompletedAt: date(2026, 2, 17)},
		{ID: uuid.New(), ChoreID: vacuum.ID, MemberID: bob.ID, CompletedAt: date(2026, 2, 12)},
		{ID: uuid.New(), ChoreID: dishes.ID, MemberID: carol.ID, CompletedAt: date(2026, 2, 17)},
	}
	ix := NewIndex(comps, nil)

	roster := BuildOverdueRoster(
		[]model.Member{alice, bob, carol},
		[]model.Chore{dishes, vacuum},
		assignAll(dishes, vacuum), ix, now,
	)
	if len(roster) != 3 {
		t.Fatalf("roster = %d entries, want 3", len(roster))
	}
	if roster[0].Member.Name != "Alice" || roster[0].Count != 2 {
		t.Errorf("roster[0] = %s (%d), want Alice with 2", roster[0].Member.Name, roster[0].Count)
	}
	if roster[1].Member.Name != "Carol" || roster[1].Count != 1 {
		t.Errorf("roster[1] = %s (%d), want Carol with 1", roster[1].Member.Name, roster[1].Count)
	}
	if roster[2].Member.Name != "Bob" || roster[2].Count != 0 {
		t.Errorf("roster[2] = %s (%d), want Bob with 0", roster[2].Member.Name, roster[2].Count)
	}
}

func TestOverdueRosterSkipsOptionalChores(t *testing.T) {
	alice := member("Alice")
	c := testChore(t, "FREQ=DAILY", date(2026, 2, 1))
	c.Optional = true
	roster := BuildOverdueRoster([]model.Member{alice}, []model.Chore{c}, assignAll(c), NewIndex(nil, nil), date(2026, 2, 18))
	if roster[0].Count != 0 {
		t.Errorf("optional chore counted as overdue: %+v", roster[0])
	}
}

func TestTeamOverviewCombinedStatus(t *testing.T) {
	alice := member("Alice")
	now := date(2026, 2, 18)

	done := testChore(t, "FREQ=DAILY", date(2026, 2, 1))
	done.Name = "Dishes"
	missed := testChore(t, "FREQ=DAILY", date(2026, 2, 1))
	missed.Name = "Bins"
	fresh := testChore(t, "FREQ=WEEKLY", date(2026, 2, 16))
	fresh.Name = "Vacuum"

	// Dishes done today but missed yesterday: the current completion wins
	// for display.
	comps := []model.Completion{
		{ID: uuid.New(), ChoreID: done.ID, MemberID: alice.ID, CompletedAt: time.Date(2026, 2, 18, 8, 0, 0, 0, time.UTC)},
	}
	ix := NewIndex(comps, nil)
	chores := []model.Chore{done, missed, fresh}

	overview := BuildTeamOverview([]model.Member{alice}, chores, assignAll(chores...), ix, now)
	if len(overview) != 1 {
		t.Fatalf("overview = %d rows, want 1", len(overview))
	}
	row := overview[0]
	if len(row.Chores) != 3 {
		t.Fatalf("row has %d chores, want 3", len(row.Chores))
	}

	got := map[string]Status{}
	for _, oc := range row.Chores {
		got[oc.Chore.Name] = oc.Status
	}
	if got["Dishes"] != StatusCompleted {
		t.Errorf("Dishes = %q, want completed (current completion wins)", got["Dishes"])
	}
	if got["Bins"] != StatusOverdue {
		t.Errorf("Bins = %q, want overdue", got["Bins"])
	}
	if got["Vacuum"] != StatusPending {
		t.Errorf("Vacuum = %q, want pending", got["Vacuum"])
	}
	if row.Completed != 1 || row.Overdue != 1 || row.Pending != 1 {
		t.Errorf("totals = %d/%d/%d, want 1/1/1", row.Completed, row.Pending, row.Overdue)
	}
}

func TestIndexScopesByMember(t *testing.T) {
	alice := member("Alice")
	bob := member("Bob")
	c := testChore(t, "FREQ=DAILY", date(2026, 2, 1))

	comps := []model.Completion{
		{ID: uuid.New(), ChoreID: c.ID, MemberID: alice.ID, CompletedAt: date(2026, 2, 18)},
	}
	acks := []model.Acknowledgment{
		{ID: uuid.New(), ChoreID: c.ID, MemberID: bob.ID, PeriodKey: "2026-02-17"},
	}
	ix := NewIndex(comps, acks)

	if n := len(ix.ForMember(c.ID, alice.ID)); n != 1 {
		t.Errorf("alice completions = %d, want 1", n)
	}
	if n := len(ix.ForMember(c.ID, bob.ID)); n != 0 {
		t.Errorf("bob completions = %d, want 0", n)
	}
	if n := len(ix.ForChore(c.ID)); n != 1 {
		t.Errorf("chore completions = %d, want 1", n)
	}
	if !ix.AcksFor(c.ID, bob.ID).Contains("2026-02-17") {
		t.Error("bob's acknowledgment missing")
	}
	if ix.AcksFor(c.ID, alice.ID).Contains("2026-02-17") {
		t.Error("acknowledgment leaked across members")
	}
}
