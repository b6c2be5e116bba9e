package server

import (
	"fmt"

	"github.com/godruoyi/go-snowflake"
	"github.com/s-min-sys/poolbillbe/internal/engine"
	"github.com/s-min-sys/poolbillbe/internal/model"
)

const timeDisplayLayout = "2006-01-02 15:04:05"

type ResponseWrapper struct {
	Code    Code        `json:"code"`
	Message string      `json:"message"`
	Resp    interface{} `json:"resp,omitempty"`
}

func (wr *ResponseWrapper) Apply(code Code, msg string) {
	wr.Code = code
	wr.Message = CodeToMessage(code, msg)
}

//
// requests
//

type ConsumableLinePayload struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Quantity    int     `json:"quantity"`
	CostPerUnit float64 `json:"costPerUnit"`

	DID uint64 `json:"-"`
}

func (payload *ConsumableLinePayload) Valid() (ok bool) {
	if payload.ID != "" {
		var err error

		payload.DID, err = idS2N(payload.ID)
		if err != nil {
			return
		}
	}

	if payload.Quantity < 1 || payload.CostPerUnit < 0 {
		return
	}

	ok = true

	return
}

func (payload *ConsumableLinePayload) toLine() model.ConsumableLine {
	id := payload.DID
	if id == 0 {
		id = snowflake.ID()
	}

	return model.ConsumableLine{
		ID:          id,
		Name:        payload.Name,
		Quantity:    payload.Quantity,
		CostPerUnit: payload.CostPerUnit,
	}
}

type PlayerPayload struct {
	ID            string                  `json:"id"`
	Name          string                  `json:"name"`
	Participated  bool                    `json:"participated"`
	StartTime     string                  `json:"startTime"`
	EndTime       string                  `json:"endTime"`
	IsFullSession bool                    `json:"isFullSession"`
	Consumables   []ConsumableLinePayload `json:"consumables"`

	DID uint64 `json:"-"`
}

func (payload *PlayerPayload) Valid() (ok bool) {
	if payload.ID != "" {
		var err error

		payload.DID, err = idS2N(payload.ID)
		if err != nil {
			return
		}
	}

	if !model.ValidClock(payload.StartTime) || !model.ValidClock(payload.EndTime) {
		return
	}

	for idx := range payload.Consumables {
		if !payload.Consumables[idx].Valid() {
			return
		}
	}

	ok = true

	return
}

func (payload *PlayerPayload) toParticipant() model.Participant {
	id := payload.DID
	if id == 0 {
		id = snowflake.ID()
	}

	consumables := make([]model.ConsumableLine, 0, len(payload.Consumables))

	for idx := range payload.Consumables {
		consumables = append(consumables, payload.Consumables[idx].toLine())
	}

	return model.Participant{
		ID:            id,
		Name:          payload.Name,
		Participated:  payload.Participated,
		StartTime:     payload.StartTime,
		EndTime:       payload.EndTime,
		IsFullSession: payload.IsFullSession,
		Consumables:   consumables,
	}
}

// BillPayload is the wire shape of an editable bill, used both to save a
// bill and to preview its share breakdown.
type BillPayload struct {
	TotalAmount       float64                 `json:"totalAmount"`
	SessionStart      string                  `json:"sessionStart"`
	SessionEnd        string                  `json:"sessionEnd"`
	Players           []PlayerPayload         `json:"players"`
	SharedConsumables []ConsumableLinePayload `json:"sharedConsumables"`
}

func (payload *BillPayload) Valid() (ok bool) {
	if payload.TotalAmount < 0 {
		return
	}

	if !model.ValidClock(payload.SessionStart) || !model.ValidClock(payload.SessionEnd) {
		return
	}

	for idx := range payload.Players {
		if !payload.Players[idx].Valid() {
			return
		}
	}

	for idx := range payload.SharedConsumables {
		if !payload.SharedConsumables[idx].Valid() {
			return
		}
	}

	ok = true

	return
}

// ToBill mints ids for new players and lines, so repeated saves of the same
// payload keep stable ids while fresh entries get fresh ones.
func (payload *BillPayload) ToBill() model.Bill {
	players := make([]model.Participant, 0, len(payload.Players))

	for idx := range payload.Players {
		players = append(players, payload.Players[idx].toParticipant())
	}

	sharedConsumables := make([]model.ConsumableLine, 0, len(payload.SharedConsumables))

	for idx := range payload.SharedConsumables {
		sharedConsumables = append(sharedConsumables, payload.SharedConsumables[idx].toLine())
	}

	bill := model.Bill{
		TotalAmount:       payload.TotalAmount,
		SessionStart:      payload.SessionStart,
		SessionEnd:        payload.SessionEnd,
		Players:           players,
		SharedConsumables: sharedConsumables,
	}

	bill.Normalize()

	return bill
}

//
// responses
//

type ConsumableLineInfo struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Quantity    int     `json:"quantity"`
	CostPerUnit float64 `json:"costPerUnit"`
	Cost        float64 `json:"cost"`
}

type PlayerInfo struct {
	ID            string               `json:"id"`
	Name          string               `json:"name"`
	Participated  bool                 `json:"participated"`
	StartTime     string               `json:"startTime"`
	EndTime       string               `json:"endTime"`
	IsFullSession bool                 `json:"isFullSession"`
	Consumables   []ConsumableLineInfo `json:"consumables"`
}

type BillInfo struct {
	ID                string               `json:"id"`
	CreatedAt         int64                `json:"createdAt"`
	CreatedAtS        string               `json:"createdAtS"`
	TotalAmount       float64              `json:"totalAmount"`
	SessionStart      string               `json:"sessionStart"`
	SessionEnd        string               `json:"sessionEnd"`
	Players           []PlayerInfo         `json:"players"`
	SharedConsumables []ConsumableLineInfo `json:"sharedConsumables"`
}

type ShareInfo struct {
	PlayerID       string  `json:"playerID"`
	PlayerName     string  `json:"playerName"`
	Minutes        int     `json:"minutes"`
	MinutesS       string  `json:"minutesS"`
	TimeShare      float64 `json:"timeShare"`
	IndividualCost float64 `json:"individualCost"`
	SharedShare    float64 `json:"sharedShare"`
	Amount         float64 `json:"amount"`
	AmountS        string  `json:"amountS"`
}

type BreakdownInfo struct {
	SessionMinutes          int         `json:"sessionMinutes"`
	SessionMinutesS         string      `json:"sessionMinutesS"`
	ParticipantCount        int         `json:"participantCount"`
	TotalParticipantMinutes int         `json:"totalParticipantMinutes"`
	IndividualCost          float64     `json:"individualCost"`
	SharedCost              float64     `json:"sharedCost"`
	BaseAmount              float64     `json:"baseAmount"`
	SharedPerHead           float64     `json:"sharedPerHead"`
	Shares                  []ShareInfo `json:"shares"`
}

type BillWithBreakdown struct {
	Bill      BillInfo      `json:"bill"`
	Breakdown BreakdownInfo `json:"breakdown"`
}

type GetBillsResponse struct {
	Bills   []BillWithBreakdown `json:"bills"`
	HasMore bool                `json:"hasMore"`
}

type DeletedBillInfo struct {
	BillInfo   `json:",inline"`
	DeletedAt  int64  `json:"deletedAt"`
	DeletedAtS string `json:"deletedAtS"`
}

type GetDeletedBillsResponse struct {
	Bills []DeletedBillInfo `json:"bills"`
}

type ItemInfo struct {
	Name        string  `json:"name"`
	CostPerUnit float64 `json:"costPerUnit"`
	UsedCount   int     `json:"usedCount"`
}

type GetItemsResponse struct {
	Items []ItemInfo `json:"items"`
}

type Statistics struct {
	BillCount   int `json:"billCount"`
	TotalAmount int `json:"totalAmount"`
}

type StatisticsResponse struct {
	DayStatistics    Statistics `json:"dayStatistics"`
	WeekStatistics   Statistics `json:"weekStatistics"`
	MonthStatistics  Statistics `json:"monthStatistics"`
	SeasonStatistics Statistics `json:"seasonStatistics"`
	YearStatistics   Statistics `json:"yearStatistics"`
}

//
// builders
//

func newConsumableLineInfos(lines []model.ConsumableLine) (infos []ConsumableLineInfo) {
	infos = make([]ConsumableLineInfo, 0, len(lines))

	for _, line := range lines {
		infos = append(infos, ConsumableLineInfo{
			ID:          idN2S(line.ID),
			Name:        line.Name,
			Quantity:    line.Quantity,
			CostPerUnit: line.CostPerUnit,
			Cost:        line.Cost(),
		})
	}

	return
}

func newBillInfo(rec model.BillRecord) BillInfo {
	players := make([]PlayerInfo, 0, len(rec.Players))

	for idx := range rec.Players {
		p := &rec.Players[idx]

		players = append(players, PlayerInfo{
			ID:            idN2S(p.ID),
			Name:          p.Name,
			Participated:  p.Participated,
			StartTime:     p.StartTime,
			EndTime:       p.EndTime,
			IsFullSession: p.IsFullSession,
			Consumables:   newConsumableLineInfos(p.Consumables),
		})
	}

	return BillInfo{
		ID:                rec.ID,
		CreatedAt:         rec.CreatedAt.Unix(),
		CreatedAtS:        rec.CreatedAt.Format(timeDisplayLayout),
		TotalAmount:       rec.TotalAmount,
		SessionStart:      rec.SessionStart,
		SessionEnd:        rec.SessionEnd,
		Players:           players,
		SharedConsumables: newConsumableLineInfos(rec.SharedConsumables),
	}
}

// newBreakdownInfo flattens an engine breakdown into wire shape, with shares
// ordered like the bill's player list. Amounts round to whole units only in
// the display strings.
func newBreakdownInfo(bill model.Bill, breakdown engine.Breakdown) BreakdownInfo {
	info := BreakdownInfo{
		SessionMinutes:          breakdown.SessionMinutes,
		SessionMinutesS:         engine.FormatDuration(breakdown.SessionMinutes),
		ParticipantCount:        breakdown.ParticipantCount,
		TotalParticipantMinutes: breakdown.TotalParticipantMinutes,
		IndividualCost:          breakdown.IndividualCost,
		SharedCost:              breakdown.SharedCost,
		BaseAmount:              breakdown.BaseAmount,
		SharedPerHead:           breakdown.SharedPerHead,
		Shares:                  make([]ShareInfo, 0, len(breakdown.Shares)),
	}

	for idx := range bill.Players {
		p := &bill.Players[idx]

		share, ok := breakdown.Shares[p.ID]
		if !ok {
			continue
		}

		info.Shares = append(info.Shares, ShareInfo{
			PlayerID:       idN2S(p.ID),
			PlayerName:     p.Name,
			Minutes:        share.Minutes,
			MinutesS:       engine.FormatDuration(share.Minutes),
			TimeShare:      share.TimeShare,
			IndividualCost: share.IndividualCost,
			SharedShare:    share.SharedShare,
			Amount:         share.Amount,
			AmountS:        fmt.Sprintf("%.0fk", share.Amount),
		})
	}

	return info
}

func newBillWithBreakdown(rec model.BillRecord) BillWithBreakdown {
	return BillWithBreakdown{
		Bill:      newBillInfo(rec),
		Breakdown: newBreakdownInfo(rec.Bill, engine.Allocate(rec.Bill)),
	}
}

func newDeletedBillInfo(rec model.DeletedBillRecord) DeletedBillInfo {
	return DeletedBillInfo{
		BillInfo:   newBillInfo(rec.BillRecord),
		DeletedAt:  rec.DeletedAt.Unix(),
		DeletedAtS: rec.DeletedAt.Format(timeDisplayLayout),
	}
}
