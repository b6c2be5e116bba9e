package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/s-min-sys/poolbillbe/internal/model"
	"github.com/sgostarter/i/l"
)

func (s *Server) handleDeletedBillList(c *gin.Context) {
	respWrapper := &ResponseWrapper{}

	recs, code, msg := s.handleDeletedBillListInner(c)
	if code == CodeSuccess {
		resp := GetDeletedBillsResponse{
			Bills: make([]DeletedBillInfo, 0, len(recs)),
		}

		for _, rec := range recs {
			resp.Bills = append(resp.Bills, newDeletedBillInfo(rec))
		}

		respWrapper.Resp = resp
	}

	respWrapper.Apply(code, msg)

	c.JSON(http.StatusOK, respWrapper)
}

func (s *Server) handleDeletedBillListInner(_ *gin.Context) (recs []model.DeletedBillRecord, code Code, msg string) {
	recs, err := s.storage.GetDeletedBills()
	if err != nil {
		s.logger.WithFields(l.ErrorField(err)).Error("list deleted bills failed")

		code = codeFromStorageError(err)
		msg = err.Error()

		return
	}

	return
}

func (s *Server) handleDeletedBillRestore(c *gin.Context) {
	respWrapper := &ResponseWrapper{}

	rec, code, msg := s.handleDeletedBillRestoreInner(c)
	if code == CodeSuccess {
		respWrapper.Resp = newBillWithBreakdown(rec)
	}

	respWrapper.Apply(code, msg)

	c.JSON(http.StatusOK, respWrapper)
}

func (s *Server) handleDeletedBillRestoreInner(c *gin.Context) (rec model.BillRecord, code Code, msg string) {
	billID := c.Param("id")
	if billID == "" {
		code = CodeMissArgs

		return
	}

	rec, err := s.storage.RestoreDeletedBill(billID)
	if err != nil {
		s.logger.WithFields(l.ErrorField(err), l.StringField("billID", billID)).Error("restore bill failed")

		code = codeFromStorageError(err)
		msg = err.Error()

		return
	}

	s.statOnAddBill(rec)

	return
}

func (s *Server) handleDeletedBillClean(c *gin.Context) {
	respWrapper := &ResponseWrapper{}

	respWrapper.Apply(s.handleDeletedBillCleanInner(c))

	c.JSON(http.StatusOK, respWrapper)
}

func (s *Server) handleDeletedBillCleanInner(c *gin.Context) (code Code, msg string) {
	billID := c.Param("id")
	if billID == "" {
		code = CodeMissArgs

		return
	}

	err := s.storage.CleanDeletedBill(billID)
	if err != nil {
		code = codeFromStorageError(err)
		msg = err.Error()

		return
	}

	return
}
