package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tinytelemetry/secdash/internal/aggregate"
)

func (s *Server) handleSummary(c *gin.Context) {
	c.JSON(http.StatusOK, s.session.Summary(s.now()))
}

func (s *Server) handleDashboard(c *gin.Context) {
	c.JSON(http.StatusOK, s.session.View(c.Query("q"), s.now()))
}

func (s *Server) handleSeverityChart(c *gin.Context) {
	records := s.session.Filter(c.Query("q"))
	c.JSON(http.StatusOK, gin.H{"data": s.session.Engine().SeverityDistribution(records)})
}

func (s *Server) handleEventTypeChart(c *gin.Context) {
	records := s.session.Filter(c.Query("q"))
	items := s.session.Engine().EventTypeDistribution(records)

	colors := make([]string, len(items))
	for i := range items {
		colors[i] = aggregate.EventColor(i)
	}
	c.JSON(http.StatusOK, gin.H{"data": items, "colors": colors})
}

func (s *Server) handleTimelineChart(c *gin.Context) {
	records := s.session.Filter(c.Query("q"))
	c.JSON(http.StatusOK, gin.H{"data": s.session.Engine().DailyTimeline(records)})
}

func (s *Server) handleHeatmapChart(c *gin.Context) {
	records := s.session.Filter(c.Query("q"))
	grid := s.session.Engine().HourDayMatrix(records)

	colors := make([]string, len(grid.Cells))
	for i, cell := range grid.Cells {
		colors[i] = aggregate.HeatmapColor(cell.Count, grid.Max)
	}
	c.JSON(http.StatusOK, gin.H{
		"data":     grid.Cells,
		"max":      grid.Max,
		"colors":   colors,
		"weekdays": aggregate.WeekdayNames,
	})
}

func (s *Server) handleTrendChart(c *gin.Context) {
	records := s.session.Filter(c.Query("q"))
	c.JSON(http.StatusOK, gin.H{
		"data":   s.session.Engine().DailyTrend(records),
		"colors": aggregate.SeverityColors,
	})
}
