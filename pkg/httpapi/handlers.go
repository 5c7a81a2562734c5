package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/domainlens/domainlens/pkg/errs"
)

type analyzeRequest struct {
	ProjectPath string `json:"projectPath" binding:"required"`
}

type impactRequest struct {
	ProjectPath string `json:"projectPath" binding:"required"`
	RuleID      string `json:"ruleId" binding:"required"`
}

// handleAnalyze runs the full pipeline over the request's projectPath and
// returns the assembled TechnicalReport.
func (s *Server) handleAnalyze(c *gin.Context) {
	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleError(c, errs.NewAppError(http.StatusBadRequest, "invalid request body", err))
		return
	}

	report, err := s.engine.Analyze(c.Request.Context(), req.ProjectPath)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// handleImpact simulates the blast radius of one named rule.
func (s *Server) handleImpact(c *gin.Context) {
	var req impactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleError(c, errs.NewAppError(http.StatusBadRequest, "invalid request body", err))
		return
	}

	result, err := s.engine.SimulateRuleImpact(c.Request.Context(), req.ProjectPath, req.RuleID)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func handleError(c *gin.Context, err error) {
	appErr := errs.MapError(err)
	c.JSON(appErr.Code, gin.H{"error": appErr.Message})
}
