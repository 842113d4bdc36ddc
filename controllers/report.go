// controllers/report.go
package controllers

import (
	"context"
	"net/http"

	"groompro-backend/services"
	"groompro-backend/utils"

	"github.com/gin-gonic/gin"
)

type Reports interface {
	Summary(ctx context.Context) (*services.ReportSummary, error)
}

// ReportController handles all reporting functions
type ReportController struct {
	reports Reports
}

func NewReportController(reports Reports) *ReportController {
	return &ReportController{reports: reports}
}

// GetReportAnalytics returns revenue, growth and the top lists for this month.
func (rc *ReportController) GetReportAnalytics(c *gin.Context) {
	summary, err := rc.reports.Summary(c.Request.Context())
	if err != nil {
		respondWithServiceError(c, err, "Failed to build report")
		return
	}
	utils.RespondWithData(c, http.StatusOK, summary)
}
