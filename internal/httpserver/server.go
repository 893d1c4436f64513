package httpserver

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tinytelemetry/secdash/internal/aggregate"
	"github.com/tinytelemetry/secdash/internal/model"
)

// Session is the session contract required by the HTTP API.
type Session interface {
	Load(name string, data []byte) (model.LoadReport, error)
	Report() (model.LoadReport, bool)
	Records() []model.LogRecord
	Filter(term string) []model.LogRecord
	Summary(now time.Time) model.Summary
	View(term string, now time.Time) model.Dashboard
	Engine() *aggregate.Engine
}

// Config holds optional server settings.
type Config struct {
	MaxUploadBytes int64               // defaults to model.DefaultMaxUploadBytes
	Store          model.SchemaQuerier // nil disables /api/schema and /api/query
	Now            func() time.Time    // clock for metrics and export names
}

// Server provides the dashboard HTTP API.
type Server struct {
	addr      string
	session   Session
	store     model.SchemaQuerier
	maxUpload int64
	now       func() time.Time
	server    *http.Server
	ctx       context.Context
	cancel    context.CancelFunc
	startTime time.Time
}

// NewServer creates a new HTTP API server.
func NewServer(addr string, session Session, conf ...Config) *Server {
	if addr == "" {
		addr = "127.0.0.1:3000"
	}
	var cfg Config
	if len(conf) > 0 {
		cfg = conf[0]
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = model.DefaultMaxUploadBytes
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if gin.Mode() == gin.DebugMode {
		gin.SetMode(gin.ReleaseMode)
	}
	ctx, cancel := context.WithCancel(context.Background())
	s := &Server{
		addr:      addr,
		session:   session,
		store:     cfg.Store,
		maxUpload: cfg.MaxUploadBytes,
		now:       cfg.Now,
		ctx:       ctx,
		cancel:    cancel,
		startTime: time.Now(),
	}
	s.server = &http.Server{
		Handler:           s.Handler(),
		BaseContext:       func(_ net.Listener) context.Context { return s.ctx },
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      60 * time.Second,
	}
	return s
}

// Handler builds the route table.
func (s *Server) Handler() http.Handler {
	r := gin.New()
	r.Use(gin.Recovery())
	r.MaxMultipartMemory = s.maxUpload

	api := r.Group("/api")
	api.GET("/health", s.handleHealth)

	api.POST("/logs", s.handleUpload)
	api.GET("/logs", s.handleListLogs)
	api.GET("/export.csv", s.handleExport)

	api.GET("/summary", s.handleSummary)
	api.GET("/dashboard", s.handleDashboard)

	charts := api.Group("/charts")
	charts.GET("/severity", s.handleSeverityChart)
	charts.GET("/event-types", s.handleEventTypeChart)
	charts.GET("/timeline", s.handleTimelineChart)
	charts.GET("/heatmap", s.handleHeatmapChart)
	charts.GET("/trends", s.handleTrendChart)

	if s.store != nil {
		api.GET("/schema", s.handleSchema)
		api.POST("/query", s.handleQuery)
	}
	return r
}

// Listen binds the configured address.
func (s *Server) Listen() (net.Listener, error) {
	return net.Listen("tcp", s.addr)
}

// Serve handles requests on l until Stop. It returns nil after Stop and the
// listener error otherwise.
func (s *Server) Serve(l net.Listener) error {
	if err := s.server.Serve(l); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop gracefully shuts down the HTTP server.
func (s *Server) Stop() error {
	s.cancel()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}

func (s *Server) handleHealth(c *gin.Context) {
	body := gin.H{
		"status":  "ok",
		"uptime":  time.Since(s.startTime).String(),
		"records": len(s.session.Records()),
		"sql":     s.store != nil,
	}
	if report, ok := s.session.Report(); ok {
		body["file"] = report.FileName
		body["load_id"] = report.LoadID
		body["loaded_at"] = report.LoadedAt
	}
	c.JSON(http.StatusOK, body)
}
