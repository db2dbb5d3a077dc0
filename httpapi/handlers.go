package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kydenul/dlt"
)

type frequenciesResponse struct {
	Front        []dlt.Bucket  `json:"front"`
	Back         []dlt.Bucket  `json:"back"`
	DrawsCounted int           `json:"draws_counted"`
	FetchedAt    time.Time     `json:"fetched_at"`
	Message      string        `json:"message"`
	ErrorCode    dlt.ErrorCode `json:"error_code,omitempty"`
}

type recommendationResponse struct {
	Front []int  `json:"front"`
	Back  []int  `json:"back"`
	Text  string `json:"text"`
}

// reportStatus maps a failed report to 502; the body still carries the empty
// table and the diagnostic message
func reportStatus(r *dlt.Report) int {
	if r.Err != nil {
		return http.StatusBadGateway
	}
	return http.StatusOK
}

func (s *Server) handleDraws(c *gin.Context) {
	report := s.engine.Refresh(c.Request.Context())
	c.JSON(reportStatus(report), report)
}

func (s *Server) handleFrequencies(c *gin.Context) {
	report := s.engine.Refresh(c.Request.Context())
	c.JSON(reportStatus(report), frequenciesResponse{
		Front:        report.FrontHistogram(),
		Back:         report.BackHistogram(),
		DrawsCounted: report.ValidCount(),
		FetchedAt:    report.FetchedAt,
		Message:      report.Message,
		ErrorCode:    report.ErrorCode,
	})
}

func (s *Server) handleRecommendation(c *gin.Context) {
	set, err := s.engine.Recommend()
	if err != nil {
		s.logger.Error("Recommendation failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, recommendationResponse{
		Front: set.Front,
		Back:  set.Back,
		Text:  set.String(),
	})
}

func (s *Server) handleHealth(c *gin.Context) {
	health := s.engine.Health()
	status := http.StatusOK
	if healthy, ok := health["healthy"].(bool); ok && !healthy {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, health)
}

func (s *Server) handleMetrics(c *gin.Context) {
	m := s.engine.PerformanceMetrics()
	c.JSON(http.StatusOK, gin.H{
		"metrics":            m,
		"success_rate":       m.GetSuccessRate(),
		"average_fetch_time": m.GetAverageFetchTime().String(),
	})
}
