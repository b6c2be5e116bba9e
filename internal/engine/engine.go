// Package engine computes per-participant money shares for a session bill.
// All functions are pure reads over a bill snapshot: they never mutate their
// input, never touch storage and never fail. Missing or malformed user input
// degrades to zero durations and equal splits instead of errors.
package engine

import (
	"fmt"

	"github.com/s-min-sys/poolbillbe/internal/model"
)

const minutesPerDay = 24 * 60

// clockDiffMinutes returns the whole-minute difference between two clock
// strings. A negative raw difference means the interval crossed midnight, so
// one day of minutes is added back. This wrap rule is applied everywhere a
// duration is computed.
func clockDiffMinutes(start, end string) int {
	if start == "" || end == "" {
		return 0
	}

	startAt, err := model.ParseClock(start)
	if err != nil {
		return 0
	}

	endAt, err := model.ParseClock(end)
	if err != nil {
		return 0
	}

	minutes := int(endAt.Sub(startAt).Minutes())
	if minutes < 0 {
		minutes += minutesPerDay
	}

	return minutes
}

// SessionDuration returns the session length in minutes, 0 when either bound
// is blank.
func SessionDuration(bill model.Bill) int {
	return clockDiffMinutes(bill.SessionStart, bill.SessionEnd)
}

// ParticipantDuration returns one participant's attendance in minutes, 0 when
// either bound is blank.
func ParticipantDuration(p model.Participant) int {
	return clockDiffMinutes(p.StartTime, p.EndTime)
}

// IndividualCost sums the consumable lines charged to this participant alone.
func IndividualCost(p model.Participant) (cost float64) {
	for _, line := range p.Consumables {
		cost += line.Cost()
	}

	return
}

// SharedCost sums the consumable lines charged to the whole group. Every
// entry on the shared list counts.
func SharedCost(bill model.Bill) (cost float64) {
	for _, line := range bill.SharedConsumables {
		cost += line.Cost()
	}

	return
}

// Share is the final amount owed by one participant and the pieces it is
// built from.
type Share struct {
	Minutes        int
	TimeShare      float64
	IndividualCost float64
	SharedShare    float64
	Amount         float64
}

// Breakdown is the engine output: one share per participating player plus the
// intermediate aggregates the presentation layer shows alongside them.
type Breakdown struct {
	SessionMinutes          int
	ParticipantCount        int
	TotalParticipantMinutes int
	IndividualCost          float64
	SharedCost              float64
	BaseAmount              float64
	SharedPerHead           float64
	Shares                  map[uint64]Share
}

// Allocate splits a bill's total across its participating players.
//
// The base pool is the recorded total minus all consumable costs, clamped at
// zero so over-entered consumables cannot produce a negative pool. The base
// pool splits proportionally to attendance minutes, falling back to an equal
// split when nobody has recorded time. Shared consumable cost splits evenly
// per head; individual consumables charge their owner alone.
//
// Players with Participated unset get no share entry and affect no sum.
func Allocate(bill model.Bill) (breakdown Breakdown) {
	breakdown.SessionMinutes = SessionDuration(bill)
	breakdown.Shares = make(map[uint64]Share)

	participants := make([]model.Participant, 0, len(bill.Players))

	for _, p := range bill.Players {
		if p.Participated {
			participants = append(participants, p)
		}
	}

	breakdown.ParticipantCount = len(participants)
	if len(participants) == 0 {
		return
	}

	for _, p := range participants {
		breakdown.IndividualCost += IndividualCost(p)
		breakdown.TotalParticipantMinutes += ParticipantDuration(p)
	}

	breakdown.SharedCost = SharedCost(bill)

	breakdown.BaseAmount = bill.TotalAmount - breakdown.IndividualCost - breakdown.SharedCost
	if breakdown.BaseAmount < 0 {
		breakdown.BaseAmount = 0
	}

	breakdown.SharedPerHead = breakdown.SharedCost / float64(len(participants))

	for _, p := range participants {
		share := Share{
			Minutes:        ParticipantDuration(p),
			IndividualCost: IndividualCost(p),
			SharedShare:    breakdown.SharedPerHead,
		}

		if breakdown.TotalParticipantMinutes > 0 {
			share.TimeShare = breakdown.BaseAmount * float64(share.Minutes) /
				float64(breakdown.TotalParticipantMinutes)
		} else {
			share.TimeShare = breakdown.BaseAmount / float64(len(participants))
		}

		share.Amount = share.TimeShare + share.IndividualCost + share.SharedShare

		breakdown.Shares[p.ID] = share
	}

	return
}

// FormatDuration renders minutes as "2h", "45m" or "1h 30m" for display.
func FormatDuration(minutes int) string {
	if minutes < 0 {
		minutes = 0
	}

	hours := minutes / 60
	minutes %= 60

	if hours == 0 {
		return fmt.Sprintf("%dm", minutes)
	}

	if minutes == 0 {
		return fmt.Sprintf("%dh", hours)
	}

	return fmt.Sprintf("%dh %dm", hours, minutes)
}
