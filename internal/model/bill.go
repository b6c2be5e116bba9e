package model

import (
	"time"
)

// ClockLayout is the wire format for all time-of-day values. There is no
// date component and no timezone: only the clock difference matters.
const ClockLayout = "15:04"

func ParseClock(value string) (t time.Time, err error) {
	return time.Parse(ClockLayout, value)
}

func ValidClock(value string) bool {
	if value == "" {
		return true
	}

	_, err := ParseClock(value)

	return err == nil
}

type ConsumableLine struct {
	ID          uint64  `json:"id"`
	Name        string  `json:"name"`
	Quantity    int     `json:"quantity"`
	CostPerUnit float64 `json:"costPerUnit"`
}

func (line ConsumableLine) Cost() float64 {
	return float64(line.Quantity) * line.CostPerUnit
}

func (line ConsumableLine) Valid() bool {
	return line.Quantity >= 1 && line.CostPerUnit >= 0
}

type Participant struct {
	ID            uint64           `json:"id"`
	Name          string           `json:"name"`
	Participated  bool             `json:"participated"`
	StartTime     string           `json:"startTime"`
	EndTime       string           `json:"endTime"`
	IsFullSession bool             `json:"isFullSession"`
	Consumables   []ConsumableLine `json:"consumables"`
}

func (p *Participant) Valid() bool {
	if !ValidClock(p.StartTime) || !ValidClock(p.EndTime) {
		return false
	}

	for _, line := range p.Consumables {
		if !line.Valid() {
			return false
		}
	}

	return true
}

type Bill struct {
	TotalAmount       float64          `json:"totalAmount"`
	SessionStart      string           `json:"sessionStart"`
	SessionEnd        string           `json:"sessionEnd"`
	Players           []Participant    `json:"players"`
	SharedConsumables []ConsumableLine `json:"sharedConsumables"`
}

func (bill *Bill) Valid() bool {
	if bill.TotalAmount < 0 {
		return false
	}

	if !ValidClock(bill.SessionStart) || !ValidClock(bill.SessionEnd) {
		return false
	}

	for idx := range bill.Players {
		if !bill.Players[idx].Valid() {
			return false
		}
	}

	for _, line := range bill.SharedConsumables {
		if !line.Valid() {
			return false
		}
	}

	return true
}

// Normalize makes a bill safe for the share computation: absent lists become
// empty lists, full-session participants take the session bounds, and other
// participants' times are clamped into the session window. Clock strings
// compare lexically. A session whose end clock is below its start clock spans
// midnight; its window is [start, 24:00) plus [00:00, end], and a clock
// outside both halves snaps to the nearer bound.
func (bill *Bill) Normalize() {
	if bill.Players == nil {
		bill.Players = make([]Participant, 0)
	}

	if bill.SharedConsumables == nil {
		bill.SharedConsumables = make([]ConsumableLine, 0)
	}

	for idx := range bill.Players {
		p := &bill.Players[idx]

		if p.Consumables == nil {
			p.Consumables = make([]ConsumableLine, 0)
		}

		if p.IsFullSession {
			p.StartTime = bill.SessionStart
			p.EndTime = bill.SessionEnd

			continue
		}

		if bill.SessionStart != "" && bill.SessionEnd != "" && bill.SessionEnd < bill.SessionStart {
			if p.StartTime != "" && p.StartTime < bill.SessionStart && p.StartTime > bill.SessionEnd {
				p.StartTime = bill.SessionStart
			}

			if p.EndTime != "" && p.EndTime < bill.SessionStart && p.EndTime > bill.SessionEnd {
				p.EndTime = bill.SessionEnd
			}

			continue
		}

		if bill.SessionStart != "" && p.StartTime != "" && p.StartTime < bill.SessionStart {
			p.StartTime = bill.SessionStart
		}

		if bill.SessionEnd != "" && p.EndTime != "" && p.EndTime > bill.SessionEnd {
			p.EndTime = bill.SessionEnd
		}
	}
}

type BillRecord struct {
	Bill      `json:",inline"`
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
}

type DeletedBillRecord struct {
	BillRecord `json:",inline"`
	DeletedAt  time.Time `json:"deletedAt"`
}
