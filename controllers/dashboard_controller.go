package controllers

import (
	"net/http"
	"strconv"

	"hotel-pms-backend/services"
	"hotel-pms-backend/utils"

	"github.com/gin-gonic/gin"
)

type DashboardController struct {
	Reports *services.ReportService
}

func NewDashboardController(reports *services.ReportService) *DashboardController {
	return &DashboardController{Reports: reports}
}

func (dc *DashboardController) Stats(c *gin.Context) {
	stats, err := dc.Reports.Dashboard()
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, stats)
}

func (dc *DashboardController) Activities(c *gin.Context) {
	limit := 20
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 100 {
			utils.JSONError(c, http.StatusBadRequest, "limit must be between 1 and 100")
			return
		}
		limit = n
	}

	activities, err := dc.Reports.RecentActivities(limit)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, activities)
}
