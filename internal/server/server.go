package server

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/gzip"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/s-min-sys/poolbillbe/internal/config"
	"github.com/s-min-sys/poolbillbe/internal/storage"
	"github.com/sgostarter/i/l"
	"github.com/sgostarter/libcomponents/statistic/memdate"
	"github.com/sgostarter/libcomponents/statistic/memdate/ex"
	"github.com/sgostarter/libeasygo/routineman"
	"github.com/sgostarter/libeasygo/stg/fs/rawfs"
	"github.com/sgostarter/libeasygo/stg/mwf"
)

const (
	dataRoot     = "data"
	statFileName = "stat"
)

type billStatistics = memdate.Statistics[string, ex.LifeCostTotalData, ex.LifeCostData,
	ex.LifeCostDataTrans, mwf.Serial, mwf.Lock]

type Server struct {
	routineMan routineman.RoutineMan
	cfg        *config.Config
	logger     l.Wrapper

	storage storage.Storage
	stat    *billStatistics
}

func NewServer(ctx context.Context, routineMan routineman.RoutineMan, cfg *config.Config, logger l.Wrapper) *Server {
	if logger == nil {
		logger = l.NewNopLoggerWrapper()
	}

	if routineMan == nil {
		routineMan = routineman.NewRoutineMan(ctx, logger)
	}

	if cfg == nil || !cfg.Valid() {
		logger.Error("no valid config")

		return nil
	}

	s := &Server{
		routineMan: routineMan,
		cfg:        cfg,
		logger:     logger.WithFields(l.StringField(l.ClsKey, "Server")),
		storage:    storage.NewStorage(dataRoot, cfg.Debug, logger),
		stat: memdate.NewMemDateStatistics[string, ex.LifeCostTotalData, ex.LifeCostData,
			ex.LifeCostDataTrans, mwf.Serial, mwf.Lock](&mwf.JSONSerial{}, &mwf.NoLock{}, time.Local,
			statFileName, rawfs.NewFSStorage(dataRoot)),
	}

	s.init()

	return s
}

func (s *Server) Wait() {
	s.routineMan.Wait()
}

func (s *Server) init() {
	s.routineMan.StartRoutine(s.httpRoutine, "httpRoutine")
}

func JSONMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Content-Type", "application/json")
		c.Next()
	}
}

func (s *Server) httpRoutine(ctx context.Context, exiting func() bool) {
	logger := s.logger.WithFields(l.StringField(l.RoutineKey, "httpRoutine"))

	logger.Debug("enter")

	defer logger.Debug("leave")

	if s.cfg.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gzip.Gzip(gzip.DefaultCompression))
	r.Use(gin.Recovery())
	r.Use(requestid.New())
	r.Use(JSONMiddleware())

	r.Any("/healthy", func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	r.POST("/api/bills", s.handleBillNew)
	r.GET("/api/bills", s.handleBillList)
	r.GET("/api/bills/:id", s.handleBillGet)
	r.DELETE("/api/bills/:id", s.handleBillDelete)

	r.GET("/api/deleted-bills", s.handleDeletedBillList)
	r.POST("/api/deleted-bills/:id/restore", s.handleDeletedBillRestore)
	r.DELETE("/api/deleted-bills/:id", s.handleDeletedBillClean)

	r.POST("/api/share/preview", s.handleSharePreview)
	r.GET("/api/items", s.handleItemSuggestions)
	r.GET("/api/statistics", s.handleStatistics)

	fnListen := func(listen string) {
		srv := &http.Server{
			Addr:        listen,
			ReadTimeout: time.Second,
			Handler:     r,
		}

		logger.WithFields(l.StringField("listen", listen)).Debug("start listen")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithFields(l.ErrorField(err), l.StringField("listen", listen)).Error("listen failed")
		}
	}

	listens := strings.Split(s.cfg.Listen, " ")

	for idx := 0; idx < len(listens)-1; idx++ {
		go fnListen(listens[idx])
	}

	fnListen(listens[len(listens)-1])
}
