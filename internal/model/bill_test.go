package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidClock(t *testing.T) {
	assert.True(t, ValidClock(""))
	assert.True(t, ValidClock("00:00"))
	assert.True(t, ValidClock("23:59"))
	assert.False(t, ValidClock("24:00"))
	assert.False(t, ValidClock("9:00pm"))
}

func TestConsumableLine(t *testing.T) {
	line := ConsumableLine{Name: "Coke", Quantity: 2, CostPerUnit: 20}

	assert.InDelta(t, 40, line.Cost(), 1e-9)
	assert.True(t, line.Valid())

	assert.False(t, ConsumableLine{Quantity: 0, CostPerUnit: 20}.Valid())
	assert.False(t, ConsumableLine{Quantity: 1, CostPerUnit: -1}.Valid())
}

func TestBillValid(t *testing.T) {
	bill := Bill{
		TotalAmount:  300,
		SessionStart: "19:00",
		SessionEnd:   "22:00",
		Players: []Participant{
			{Name: "Nam", StartTime: "19:00", EndTime: "21:00"},
		},
	}

	assert.True(t, bill.Valid())

	bill.TotalAmount = -1
	assert.False(t, bill.Valid())

	bill.TotalAmount = 300
	bill.SessionEnd = "26:00"
	assert.False(t, bill.Valid())
}

func TestBillNormalizeLists(t *testing.T) {
	bill := Bill{
		Players: []Participant{{Name: "Nam"}},
	}

	bill.Normalize()

	assert.NotNil(t, bill.SharedConsumables)
	assert.NotNil(t, bill.Players[0].Consumables)
}

func TestBillNormalizeFullSession(t *testing.T) {
	bill := Bill{
		SessionStart: "19:00",
		SessionEnd:   "22:00",
		Players: []Participant{
			{Name: "Nam", IsFullSession: true, StartTime: "20:00", EndTime: "21:00"},
		},
	}

	bill.Normalize()

	assert.Equal(t, "19:00", bill.Players[0].StartTime)
	assert.Equal(t, "22:00", bill.Players[0].EndTime)
}

func TestBillNormalizeClamp(t *testing.T) {
	bill := Bill{
		SessionStart: "19:00",
		SessionEnd:   "22:00",
		Players: []Participant{
			{Name: "Chung", StartTime: "18:30", EndTime: "22:30"},
			{Name: "Huy", StartTime: "", EndTime: ""},
		},
	}

	bill.Normalize()

	assert.Equal(t, "19:00", bill.Players[0].StartTime)
	assert.Equal(t, "22:00", bill.Players[0].EndTime)

	// blank times stay blank so the equal-split fallback can apply
	assert.Equal(t, "", bill.Players[1].StartTime)
	assert.Equal(t, "", bill.Players[1].EndTime)
}

func TestBillNormalizeClampOvernight(t *testing.T) {
	bill := Bill{
		SessionStart: "23:00",
		SessionEnd:   "01:00",
		Players: []Participant{
			{Name: "Nam", StartTime: "23:10", EndTime: "23:50"},
			{Name: "Chung", StartTime: "00:10", EndTime: "00:40"},
			{Name: "Huy", StartTime: "23:30", EndTime: "00:30"},
			{Name: "Long", StartTime: "22:30", EndTime: "01:30"},
		},
	}

	bill.Normalize()

	// clocks inside either half of the overnight window are untouched
	assert.Equal(t, "23:10", bill.Players[0].StartTime)
	assert.Equal(t, "23:50", bill.Players[0].EndTime)
	assert.Equal(t, "00:10", bill.Players[1].StartTime)
	assert.Equal(t, "00:40", bill.Players[1].EndTime)
	assert.Equal(t, "23:30", bill.Players[2].StartTime)
	assert.Equal(t, "00:30", bill.Players[2].EndTime)

	// clocks outside the window snap to the session bounds
	assert.Equal(t, "23:00", bill.Players[3].StartTime)
	assert.Equal(t, "01:00", bill.Players[3].EndTime)
}
