package chore

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/mossburrow/hearth/internal/model"
)

// MemberChore is one chore's entry in a member's view.
type MemberChore struct {
	Chore       model.Chore `json:"chore"`
	CompletedAt *time.Time  `json:"completed_at,omitempty"`
	DueDate     *time.Time  `json:"due_date,omitempty"`
	Overdue     *Overdue    `json:"overdue,omitempty"`
}

// MemberView partitions a member's chores by status. A chore can sit in
// both Pending and Overdue at once: the current period and the missed
// previous period are independent questions.
type MemberView struct {
	MemberID  uuid.UUID     `json:"member_id"`
	Pending   []MemberChore `json:"pending"`
	Overdue   []MemberChore `json:"overdue"`
	Completed []MemberChore `json:"completed"`
}

// BuildMemberView computes one member's pending/overdue/completed lists. A
// chore is visible to the member when they are assigned to it or have ever
// completed it.
func BuildMemberView(chores []model.Chore, assignments map[uuid.UUID]model.Assignment, ix *Index, memberID uuid.UUID, now time.Time) MemberView {
	view := MemberView{
		MemberID:  memberID,
		Pending:   []MemberChore{},
		Overdue:   []MemberChore{},
		Completed: []MemberChore{},
	}

	for _, c := range chores {
		mine := ix.ForMember(c.ID, memberID)
		if !assignments[c.ID].Includes(memberID) && len(mine) == 0 {
			continue
		}

		cur := CurrentStatus(c, mine, now)
		entry := MemberChore{Chore: c, CompletedAt: cur.CompletedAt, DueDate: cur.DueDate}
		if cur.Status == StatusCompleted {
			view.Completed = append(view.Completed, entry)
		} else {
			view.Pending = append(view.Pending, entry)
		}

		if ov := PriorOverdue(c, mine, ix.AcksFor(c.ID, memberID), now); ov != nil {
			view.Overdue = append(view.Overdue, MemberChore{Chore: c, Overdue: ov})
		}
	}

	byName := func(list []MemberChore) {
		sort.Slice(list, func(i, j int) bool { return list[i].Chore.Name < list[j].Chore.Name })
	}
	byName(view.Pending)
	byName(view.Overdue)
	sort.Slice(view.Completed, func(i, j int) bool {
		// Most recent first; entries with no completion record sort last.
		var ti, tj time.Time
		if view.Completed[i].CompletedAt != nil {
			ti = *view.Completed[i].CompletedAt
		}
		if view.Completed[j].CompletedAt != nil {
			tj = *view.Completed[j].CompletedAt
		}
		return ti.After(tj)
	})

	return view
}

// RosterEntry is one member's overdue chores in the household roster.
type RosterEntry struct {
	Member  model.Member  `json:"member"`
	Overdue []MemberChore `json:"overdue"`
	Count   int           `json:"count"`
}

// BuildOverdueRoster computes every assigned member's missed previous
// periods across all chores. Members with overdue chores sort first, most
// overdue first.
func BuildOverdueRoster(members []model.Member, chores []model.Chore, assignments map[uuid.UUID]model.Assignment, ix *Index, now time.Time) []RosterEntry {
	roster := make([]RosterEntry, 0, len(members))

	for _, m := range members {
		entry := RosterEntry{Member: m, Overdue: []MemberChore{}}
		for _, c := range chores {
			if c.Optional || !assignments[c.ID].Includes(m.ID) {
				continue
			}
			mine := ix.ForMember(c.ID, m.ID)
			if ov := PriorOverdue(c, mine, ix.AcksFor(c.ID, m.ID), now); ov != nil {
				entry.Overdue = append(entry.Overdue, MemberChore{Chore: c, Overdue: ov})
			}
		}
		sort.Slice(entry.Overdue, func(i, j int) bool {
			return entry.Overdue[i].Chore.Name < entry.Overdue[j].Chore.Name
		})
		entry.Count = len(entry.Overdue)
		roster = append(roster, entry)
	}

	sort.SliceStable(roster, func(i, j int) bool {
		return roster[i].Count > roster[j].Count
	})
	return roster
}

// OverviewChore is one chore's combined display status for one member:
// completed when the current period is satisfied, otherwise overdue when a
// previous period was missed, otherwise pending.
type OverviewChore struct {
	Chore  model.Chore `json:"chore"`
	Status Status      `json:"status"`
}

// OverviewMember is one member's row in the team overview.
type OverviewMember struct {
	Member    model.Member    `json:"member"`
	Chores    []OverviewChore `json:"chores"`
	Completed int             `json:"completed"`
	Pending   int             `json:"pending"`
	Overdue   int             `json:"overdue"`
}

// BuildTeamOverview computes the combined per-member, per-chore status grid
// with per-member totals. Only assigned chores appear.
func BuildTeamOverview(members []model.Member, chores []model.Chore, assignments map[uuid.UUID]model.Assignment, ix *Index, now time.Time) []OverviewMember {
	sorted := make([]model.Chore, len(chores))
	copy(sorted, chores)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })

	overview := make([]OverviewMember, 0, len(members))
	for _, m := range members {
		row := OverviewMember{Member: m, Chores: []OverviewChore{}}
		for _, c := range sorted {
			if !assignments[c.ID].Includes(m.ID) {
				continue
			}
			mine := ix.ForMember(c.ID, m.ID)
			status := StatusPending
			if CurrentStatus(c, mine, now).Status == StatusCompleted {
				status = StatusCompleted
			} else if PriorOverdue(c, mine, ix.AcksFor(c.ID, m.ID), now) != nil {
				status = StatusOverdue
			}
			row.Chores = append(row.Chores, OverviewChore{Chore: c, Status: status})
			switch status {
			case StatusCompleted:
				row.Completed++
			case StatusOverdue:
				row.Overdue++
			default:
				row.Pending++
			}
		}
		overview = append(overview, row)
	}
	return overview
}
