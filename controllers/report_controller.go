package controllers

import (
	"net/http"

	"hotel-pms-backend/services"
	"hotel-pms-backend/utils"

	"github.com/gin-gonic/gin"
)

type ReportController struct {
	Reports *services.ReportService
}

func NewReportController(reports *services.ReportService) *ReportController {
	return &ReportController{Reports: reports}
}

func (rc *ReportController) Occupancy(c *gin.Context) {
	start, end, ok := requireDateRange(c)
	if !ok {
		return
	}
	rows, err := rc.Reports.Occupancy(start, end)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, rows)
}

func (rc *ReportController) Revenue(c *gin.Context) {
	start, end, ok := requireDateRange(c)
	if !ok {
		return
	}
	period := c.DefaultQuery("period", "daily")
	switch period {
	case "daily", "weekly", "monthly":
	default:
		utils.JSONError(c, http.StatusBadRequest, "period must be one of daily, weekly, monthly")
		return
	}

	rows, err := rc.Reports.Revenue(period, start, end)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, rows)
}

func (rc *ReportController) Financial(c *gin.Context) {
	start, end, ok := requireDateRange(c)
	if !ok {
		return
	}
	summary, err := rc.Reports.Financial(start, end)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, summary)
}

func (rc *ReportController) Guests(c *gin.Context) {
	start, end, ok := requireDateRange(c)
	if !ok {
		return
	}
	stats, err := rc.Reports.GuestStats(start, end)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, stats)
}

func (rc *ReportController) RoomPerformance(c *gin.Context) {
	start, end, ok := requireDateRange(c)
	if !ok {
		return
	}
	report, err := rc.Reports.RoomPerformance(start, end)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, report)
}

// Export streams a report as a CSV download. The format query parameter
// exists for API symmetry; anything other than csv is rejected.
func (rc *ReportController) Export(c *gin.Context) {
	start, end, ok := requireDateRange(c)
	if !ok {
		return
	}
	if format := c.DefaultQuery("format", "csv"); format != "csv" {
		utils.JSONError(c, http.StatusBadRequest, "unsupported export format: "+format)
		return
	}

	reportType := c.Query("type")
	name, data, err := rc.Reports.ExportCSV(reportType, start, end)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+name+`"`)
	c.Data(http.StatusOK, "text/csv", data)
}
