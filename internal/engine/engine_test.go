package engine

import (
	"testing"

	"github.com/s-min-sys/poolbillbe/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestClockDiffMinutes(t *testing.T) {
	tests := []struct {
		name  string
		start string
		end   string
		want  int
	}{
		{"normal", "19:00", "21:30", 150},
		{"zero length", "19:00", "19:00", 0},
		{"blank start", "", "21:30", 0},
		{"blank end", "19:00", "", 0},
		{"both blank", "", "", 0},
		{"crosses midnight", "23:30", "01:00", 90},
		{"malformed start", "25:99", "21:30", 0},
		{"malformed end", "19:00", "9pm", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, clockDiffMinutes(tt.start, tt.end))
		})
	}
}

func TestSessionDuration(t *testing.T) {
	assert.Equal(t, 180, SessionDuration(model.Bill{
		SessionStart: "19:00",
		SessionEnd:   "22:00",
	}))

	assert.Equal(t, 0, SessionDuration(model.Bill{}))
}

func TestParticipantDuration(t *testing.T) {
	assert.Equal(t, 45, ParticipantDuration(model.Participant{
		StartTime: "20:00",
		EndTime:   "20:45",
	}))

	assert.Equal(t, 0, ParticipantDuration(model.Participant{}))
}

func TestConsumableCosts(t *testing.T) {
	p := model.Participant{
		Consumables: []model.ConsumableLine{
			{Name: "Coke", Quantity: 2, CostPerUnit: 20},
			{Name: "Bánh mì", Quantity: 1, CostPerUnit: 25},
		},
	}

	assert.InDelta(t, 65, IndividualCost(p), 1e-9)
	assert.InDelta(t, 0, IndividualCost(model.Participant{}), 1e-9)

	bill := model.Bill{
		SharedConsumables: []model.ConsumableLine{
			{Name: "Nước lọc", Quantity: 3, CostPerUnit: 15},
		},
	}

	assert.InDelta(t, 45, SharedCost(bill), 1e-9)
	assert.InDelta(t, 0, SharedCost(model.Bill{}), 1e-9)
}

func TestAllocateNoParticipants(t *testing.T) {
	bill := model.Bill{
		TotalAmount:  500,
		SessionStart: "19:00",
		SessionEnd:   "22:00",
		Players: []model.Participant{
			{ID: 1, Name: "Nam", StartTime: "19:00", EndTime: "22:00"},
		},
	}

	breakdown := Allocate(bill)

	assert.Equal(t, 0, breakdown.ParticipantCount)
	assert.Empty(t, breakdown.Shares)
}

func TestAllocateZeroBill(t *testing.T) {
	bill := model.Bill{
		Players: []model.Participant{
			{ID: 1, Participated: true, StartTime: "19:00", EndTime: "20:00"},
			{ID: 2, Participated: true, StartTime: "19:00", EndTime: "20:00"},
		},
	}

	breakdown := Allocate(bill)

	assert.Len(t, breakdown.Shares, 2)

	for _, share := range breakdown.Shares {
		assert.InDelta(t, 0, share.Amount, 1e-9)
	}
}

func TestAllocateTimeProportional(t *testing.T) {
	bill := model.Bill{
		TotalAmount:  300,
		SessionStart: "19:00",
		SessionEnd:   "20:00",
		Players: []model.Participant{
			{ID: 1, Name: "A", Participated: true, StartTime: "19:00", EndTime: "20:00"},
			{ID: 2, Name: "B", Participated: true, StartTime: "19:00", EndTime: "19:30"},
		},
	}

	breakdown := Allocate(bill)

	assert.Equal(t, 60, breakdown.SessionMinutes)
	assert.Equal(t, 90, breakdown.TotalParticipantMinutes)
	assert.InDelta(t, 300, breakdown.BaseAmount, 1e-9)
	assert.InDelta(t, 200, breakdown.Shares[1].Amount, 1e-9)
	assert.InDelta(t, 100, breakdown.Shares[2].Amount, 1e-9)
}

func TestAllocateSharedConsumables(t *testing.T) {
	bill := model.Bill{
		TotalAmount:  200,
		SessionStart: "19:00",
		SessionEnd:   "21:00",
		Players: []model.Participant{
			{ID: 1, Participated: true, StartTime: "19:00", EndTime: "21:00"},
			{ID: 2, Participated: true, StartTime: "19:00", EndTime: "21:00"},
		},
		SharedConsumables: []model.ConsumableLine{
			{Name: "Coke", Quantity: 2, CostPerUnit: 20},
		},
	}

	breakdown := Allocate(bill)

	assert.InDelta(t, 40, breakdown.SharedCost, 1e-9)
	assert.InDelta(t, 160, breakdown.BaseAmount, 1e-9)
	assert.InDelta(t, 20, breakdown.SharedPerHead, 1e-9)

	for _, share := range breakdown.Shares {
		assert.InDelta(t, 100, share.Amount, 1e-9)
	}
}

func TestAllocateIndividualConsumables(t *testing.T) {
	bill := model.Bill{
		TotalAmount:  300,
		SessionStart: "19:00",
		SessionEnd:   "20:00",
		Players: []model.Participant{
			{
				ID: 1, Participated: true, StartTime: "19:00", EndTime: "20:00",
				Consumables: []model.ConsumableLine{
					{Name: "Mì tôm", Quantity: 1, CostPerUnit: 35},
				},
			},
			{ID: 2, Participated: true, StartTime: "19:00", EndTime: "20:00"},
		},
	}

	breakdown := Allocate(bill)

	// base = 300 - 35 = 265, split evenly by equal minutes
	assert.InDelta(t, 265, breakdown.BaseAmount, 1e-9)
	assert.InDelta(t, 132.5+35, breakdown.Shares[1].Amount, 1e-9)
	assert.InDelta(t, 132.5, breakdown.Shares[2].Amount, 1e-9)
}

func TestAllocateBlankTimesEqualSplit(t *testing.T) {
	bill := model.Bill{
		TotalAmount: 100,
		Players: []model.Participant{
			{ID: 1, Participated: true},
			{ID: 2, Participated: true},
		},
	}

	breakdown := Allocate(bill)

	assert.Equal(t, 0, breakdown.TotalParticipantMinutes)
	assert.InDelta(t, 50, breakdown.Shares[1].Amount, 1e-9)
	assert.InDelta(t, 50, breakdown.Shares[2].Amount, 1e-9)
}

func TestAllocateSingleParticipant(t *testing.T) {
	bill := model.Bill{
		TotalAmount:  180,
		SessionStart: "19:00",
		SessionEnd:   "21:00",
		Players: []model.Participant{
			{
				ID: 1, Participated: true, StartTime: "19:00", EndTime: "21:00",
				Consumables: []model.ConsumableLine{
					{Name: "Coke", Quantity: 1, CostPerUnit: 20},
				},
			},
		},
		SharedConsumables: []model.ConsumableLine{
			{Name: "Nước lọc", Quantity: 2, CostPerUnit: 15},
		},
	}

	breakdown := Allocate(bill)

	// single participant carries the whole bill
	assert.Len(t, breakdown.Shares, 1)
	assert.InDelta(t, 180, breakdown.Shares[1].Amount, 1e-9)
}

func TestAllocateNonParticipantsIgnored(t *testing.T) {
	bill := model.Bill{
		TotalAmount:  300,
		SessionStart: "19:00",
		SessionEnd:   "20:00",
		Players: []model.Participant{
			{ID: 1, Participated: true, StartTime: "19:00", EndTime: "20:00"},
			{ID: 2, Participated: true, StartTime: "19:00", EndTime: "19:30"},
			{
				ID: 3, StartTime: "19:00", EndTime: "20:00",
				Consumables: []model.ConsumableLine{
					{Name: "Coke", Quantity: 5, CostPerUnit: 20},
				},
			},
		},
	}

	breakdown := Allocate(bill)

	assert.NotContains(t, breakdown.Shares, uint64(3))

	withIdle := breakdown

	bill.Players[2].StartTime = "19:45"
	bill.Players[2].EndTime = "19:50"

	assert.Equal(t, withIdle, Allocate(bill))
}

func TestAllocateSumMatchesTotal(t *testing.T) {
	bill := model.Bill{
		TotalAmount:  473,
		SessionStart: "18:15",
		SessionEnd:   "22:40",
		Players: []model.Participant{
			{ID: 1, Participated: true, StartTime: "18:15", EndTime: "22:40"},
			{ID: 2, Participated: true, StartTime: "19:00", EndTime: "21:10"},
			{
				ID: 3, Participated: true, StartTime: "20:05", EndTime: "22:40",
				Consumables: []model.ConsumableLine{
					{Name: "Bánh mì", Quantity: 2, CostPerUnit: 25},
				},
			},
		},
		SharedConsumables: []model.ConsumableLine{
			{Name: "Nước lọc", Quantity: 3, CostPerUnit: 15},
		},
	}

	breakdown := Allocate(bill)

	var sum float64

	for _, share := range breakdown.Shares {
		sum += share.Amount
	}

	assert.InDelta(t, bill.TotalAmount, sum, 1e-6)
}

func TestAllocateOverEnteredConsumables(t *testing.T) {
	bill := model.Bill{
		TotalAmount: 30,
		Players: []model.Participant{
			{
				ID: 1, Participated: true, StartTime: "19:00", EndTime: "20:00",
				Consumables: []model.ConsumableLine{
					{Name: "Mì tôm", Quantity: 2, CostPerUnit: 35},
				},
			},
			{ID: 2, Participated: true, StartTime: "19:00", EndTime: "20:00"},
		},
	}

	breakdown := Allocate(bill)

	// consumables exceed the total: base pool clamps to zero, no negative shares
	assert.InDelta(t, 0, breakdown.BaseAmount, 1e-9)
	assert.InDelta(t, 70, breakdown.Shares[1].Amount, 1e-9)
	assert.InDelta(t, 0, breakdown.Shares[2].Amount, 1e-9)
}

func TestAllocateMidnightWrap(t *testing.T) {
	bill := model.Bill{
		TotalAmount:  300,
		SessionStart: "23:00",
		SessionEnd:   "01:00",
		Players: []model.Participant{
			{ID: 1, Participated: true, StartTime: "23:00", EndTime: "01:00"},
			{ID: 2, Participated: true, StartTime: "23:00", EndTime: "00:00"},
		},
	}

	breakdown := Allocate(bill)

	assert.Equal(t, 120, breakdown.SessionMinutes)
	assert.Equal(t, 180, breakdown.TotalParticipantMinutes)
	assert.InDelta(t, 200, breakdown.Shares[1].Amount, 1e-9)
	assert.InDelta(t, 100, breakdown.Shares[2].Amount, 1e-9)
}

func TestAllocatePure(t *testing.T) {
	bill := model.Bill{
		TotalAmount:  250,
		SessionStart: "19:00",
		SessionEnd:   "21:00",
		Players: []model.Participant{
			{ID: 1, Participated: true, StartTime: "19:00", EndTime: "21:00"},
			{ID: 2, Participated: true, StartTime: "20:00", EndTime: "21:00"},
		},
		SharedConsumables: []model.ConsumableLine{
			{Name: "Coke", Quantity: 1, CostPerUnit: 20},
		},
	}

	first := Allocate(bill)
	second := Allocate(bill)

	assert.Equal(t, first, second)
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		minutes int
		want    string
	}{
		{0, "0m"},
		{45, "45m"},
		{60, "1h"},
		{90, "1h 30m"},
		{150, "2h 30m"},
		{-5, "0m"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatDuration(tt.minutes))
	}
}
