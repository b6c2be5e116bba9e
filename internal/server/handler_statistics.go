package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (s *Server) handleStatistics(c *gin.Context) {
	respWrapper := &ResponseWrapper{}

	dayStatistics, weekStatistics, monthStatistics, seasonStatistics, yearStatistics := s.doStatistics()

	respWrapper.Resp = StatisticsResponse{
		DayStatistics:    dayStatistics,
		WeekStatistics:   weekStatistics,
		MonthStatistics:  monthStatistics,
		SeasonStatistics: seasonStatistics,
		YearStatistics:   yearStatistics,
	}

	respWrapper.Apply(CodeSuccess, "")

	c.JSON(http.StatusOK, respWrapper)
}
