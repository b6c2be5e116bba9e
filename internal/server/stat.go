package server

import (
	"math"
	"time"

	"github.com/s-min-sys/poolbillbe/internal/model"
	"github.com/sgostarter/libcomponents/statistic/memdate/ex"
)

const statBillsKey = "bills"

// Saved bills count as outgoing cost in the rollups: one bill, its total
// amount, on its creation day.

func statAmount(totalAmount float64) int {
	return int(math.Round(totalAmount))
}

func billRecord2LifeCostData4Add(rec model.BillRecord) ex.LifeCostData {
	return ex.LifeCostData{
		T:             ex.ListCostDataAdd,
		ConsumeCount:  1,
		ConsumeAmount: statAmount(rec.TotalAmount),
	}
}

func billRecord2LifeCostData4Delete(rec model.BillRecord) ex.LifeCostData {
	return ex.LifeCostData{
		T:             ex.ListCostDataDelete,
		ConsumeCount:  1,
		ConsumeAmount: statAmount(rec.TotalAmount),
	}
}

func (s *Server) statOnAddBill(rec model.BillRecord) {
	s.stat.SetDayData(statBillsKey, rec.CreatedAt, billRecord2LifeCostData4Add(rec))
}

func (s *Server) statOnRemoveBill(rec model.BillRecord) {
	s.stat.SetDayData(statBillsKey, rec.CreatedAt, billRecord2LifeCostData4Delete(rec))
}

func (s *Server) doStatistics() (dayStatistics, weekStatistics, monthStatistics,
	seasonStatistics, yearStatistics Statistics) {
	timeNow := time.Now()

	fnTotalD2Statistics := func(totalD ex.LifeCostTotalData) Statistics {
		return Statistics{
			BillCount:   totalD.ConsumeCount,
			TotalAmount: totalD.ConsumeAmount,
		}
	}

	totalD, exists := s.stat.GetYearOn(statBillsKey, timeNow)
	if exists {
		yearStatistics = fnTotalD2Statistics(totalD)
	}

	totalD, exists = s.stat.GetSeasonOn(statBillsKey, timeNow)
	if exists {
		seasonStatistics = fnTotalD2Statistics(totalD)
	}

	totalD, exists = s.stat.GetMonthOn(statBillsKey, timeNow)
	if exists {
		monthStatistics = fnTotalD2Statistics(totalD)
	}

	totalD, exists = s.stat.GetWeekOn(statBillsKey, timeNow)
	if exists {
		weekStatistics = fnTotalD2Statistics(totalD)
	}

	totalD, exists = s.stat.GetDayOn(statBillsKey, timeNow)
	if exists {
		dayStatistics = fnTotalD2Statistics(totalD)
	}

	return
}
