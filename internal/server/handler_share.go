package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/s-min-sys/poolbillbe/internal/engine"
)

// handleSharePreview runs the allocation engine on a transient bill without
// persisting anything, so an in-progress edit can show live shares.
func (s *Server) handleSharePreview(c *gin.Context) {
	respWrapper := &ResponseWrapper{}

	breakdown, code, msg := s.handleSharePreviewInner(c)
	if code == CodeSuccess {
		respWrapper.Resp = breakdown
	}

	respWrapper.Apply(code, msg)

	c.JSON(http.StatusOK, respWrapper)
}

func (s *Server) handleSharePreviewInner(c *gin.Context) (breakdown BreakdownInfo, code Code, msg string) {
	var req BillPayload

	err := c.BindJSON(&req)
	if err != nil {
		code = CodeProtocol
		msg = err.Error()

		return
	}

	if !req.Valid() {
		code = CodeInvalidArgs

		return
	}

	bill := req.ToBill()

	breakdown = newBreakdownInfo(bill, engine.Allocate(bill))

	return
}
