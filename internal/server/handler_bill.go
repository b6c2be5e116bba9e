package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/s-min-sys/poolbillbe/internal/model"
	"github.com/sgostarter/i/commerr"
	"github.com/sgostarter/i/l"
	"github.com/spf13/cast"
)

func codeFromStorageError(err error) Code {
	if errors.Is(err, commerr.ErrNotFound) {
		return CodeNotFound
	}

	if errors.Is(err, commerr.ErrInvalidArgument) {
		return CodeInvalidArgs
	}

	return CodeInternalError
}

func (s *Server) handleBillNew(c *gin.Context) {
	respWrapper := &ResponseWrapper{}

	rec, code, msg := s.handleBillNewInner(c)
	if code == CodeSuccess {
		respWrapper.Resp = newBillWithBreakdown(rec)
	}

	respWrapper.Apply(code, msg)

	c.JSON(http.StatusOK, respWrapper)
}

func (s *Server) handleBillNewInner(c *gin.Context) (rec model.BillRecord, code Code, msg string) {
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

	rec, err = s.storage.CreateBill(req.ToBill())
	if err != nil {
		s.logger.WithFields(l.ErrorField(err)).Error("create bill failed")

		code = codeFromStorageError(err)
		msg = err.Error()

		return
	}

	s.statOnAddBill(rec)

	return
}

func (s *Server) handleBillGet(c *gin.Context) {
	respWrapper := &ResponseWrapper{}

	rec, code, msg := s.handleBillGetInner(c)
	if code == CodeSuccess {
		respWrapper.Resp = newBillWithBreakdown(rec)
	}

	respWrapper.Apply(code, msg)

	c.JSON(http.StatusOK, respWrapper)
}

func (s *Server) handleBillGetInner(c *gin.Context) (rec model.BillRecord, code Code, msg string) {
	billID := c.Param("id")
	if billID == "" {
		code = CodeMissArgs

		return
	}

	rec, err := s.storage.GetBill(billID)
	if err != nil {
		code = codeFromStorageError(err)
		msg = err.Error()

		return
	}

	return
}

func (s *Server) handleBillList(c *gin.Context) {
	respWrapper := &ResponseWrapper{}

	recs, hasMore, code, msg := s.handleBillListInner(c)
	if code == CodeSuccess {
		resp := GetBillsResponse{
			Bills:   make([]BillWithBreakdown, 0, len(recs)),
			HasMore: hasMore,
		}

		for _, rec := range recs {
			resp.Bills = append(resp.Bills, newBillWithBreakdown(rec))
		}

		respWrapper.Resp = resp
	}

	respWrapper.Apply(code, msg)

	c.JSON(http.StatusOK, respWrapper)
}

// handleBillListInner pages through saved bills. Without a cursor it returns
// the most recent records; with a cursor it continues from that record, older
// records by default, newer ones with dirNew.
func (s *Server) handleBillListInner(c *gin.Context) (recs []model.BillRecord, hasMore bool, code Code, msg string) {
	count := cast.ToInt(c.Query("count"))
	if count <= 0 || count > s.cfg.HistoryLimit {
		count = s.cfg.HistoryLimit
	}

	recs, hasMore, err := s.storage.ListBills(c.Query("cursor"), count, cast.ToBool(c.Query("dirNew")))
	if err != nil {
		s.logger.WithFields(l.ErrorField(err)).Error("list bills failed")

		code = codeFromStorageError(err)
		msg = err.Error()

		return
	}

	return
}

func (s *Server) handleBillDelete(c *gin.Context) {
	respWrapper := &ResponseWrapper{}

	respWrapper.Apply(s.handleBillDeleteInner(c))

	c.JSON(http.StatusOK, respWrapper)
}

func (s *Server) handleBillDeleteInner(c *gin.Context) (code Code, msg string) {
	billID := c.Param("id")
	if billID == "" {
		code = CodeMissArgs

		return
	}

	rec, err := s.storage.GetBill(billID)
	if err != nil {
		code = codeFromStorageError(err)
		msg = err.Error()

		return
	}

	err = s.storage.DeleteBill(billID)
	if err != nil {
		s.logger.WithFields(l.ErrorField(err), l.StringField("billID", billID)).Error("delete bill failed")

		code = codeFromStorageError(err)
		msg = err.Error()

		return
	}

	s.statOnRemoveBill(rec)

	return
}
