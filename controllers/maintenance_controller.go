package controllers

import (
	"net/http"
	"strconv"

	"hotel-pms-backend/middleware"
	"hotel-pms-backend/models"
	"hotel-pms-backend/services"
	"hotel-pms-backend/utils"

	"github.com/gin-gonic/gin"
)

type MaintenanceController struct {
	Maintenance *services.MaintenanceService
}

func NewMaintenanceController(maintenance *services.MaintenanceService) *MaintenanceController {
	return &MaintenanceController{Maintenance: maintenance}
}

type reportMaintenancePayload struct {
	RoomID           uint   `json:"room_id" binding:"required"`
	IssueDescription string `json:"issue_description" binding:"required"`
	Priority         string `json:"priority" binding:"required"`
}

func (mc *MaintenanceController) Create(c *gin.Context) {
	var payload reportMaintenancePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid request payload: "+err.Error())
		return
	}

	ticket, err := mc.Maintenance.Report(services.ReportMaintenanceInput{
		RoomID:           payload.RoomID,
		IssueDescription: payload.IssueDescription,
		Priority:         models.MaintenancePriority(payload.Priority),
		ReportedBy:       middleware.ActingUserID(c),
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, ticket)
}

func (mc *MaintenanceController) List(c *gin.Context) {
	filter := services.MaintenanceFilter{
		Status:   models.MaintenanceStatus(c.Query("status")),
		Priority: models.MaintenancePriority(c.Query("priority")),
	}
	if raw := c.Query("room_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			utils.JSONError(c, http.StatusBadRequest, "invalid room_id")
			return
		}
		filter.RoomID = uint(id)
	}
	if raw := c.Query("assigned_to"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			utils.JSONError(c, http.StatusBadRequest, "invalid assigned_to")
			return
		}
		filter.AssignedTo = uint(id)
	}

	tickets, err := mc.Maintenance.List(filter)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, tickets)
}

func (mc *MaintenanceController) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	ticket, err := mc.Maintenance.GetByID(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, ticket)
}

func (mc *MaintenanceController) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var fields map[string]interface{}
	if err := c.ShouldBindJSON(&fields); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid request payload: "+err.Error())
		return
	}

	ticket, err := mc.Maintenance.Update(id, fields)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, ticket)
}

type assignPayload struct {
	StaffID uint `json:"staff_id" binding:"required"`
}

func (mc *MaintenanceController) Assign(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var payload assignPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "staff_id is required")
		return
	}

	ticket, err := mc.Maintenance.Assign(id, payload.StaffID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, ticket)
}

type completePayload struct {
	Notes string `json:"notes"`
}

func (mc *MaintenanceController) Complete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var payload completePayload
	_ = c.ShouldBindJSON(&payload) // notes are optional

	ticket, err := mc.Maintenance.Complete(id, payload.Notes)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, ticket)
}

func (mc *MaintenanceController) Cancel(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	ticket, err := mc.Maintenance.Cancel(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, ticket)
}

func (mc *MaintenanceController) Pending(c *gin.Context) {
	tickets, err := mc.Maintenance.Pending()
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, tickets)
}

func (mc *MaintenanceController) ByRoom(c *gin.Context) {
	id, ok := parseIDParam(c, "roomId")
	if !ok {
		return
	}
	tickets, err := mc.Maintenance.ByRoom(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, tickets)
}
