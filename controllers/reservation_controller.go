package controllers

import (
	"net/http"

	"hotel-pms-backend/middleware"
	"hotel-pms-backend/models"
	"hotel-pms-backend/services"
	"hotel-pms-backend/utils"

	"github.com/gin-gonic/gin"
)

type ReservationController struct {
	Reservations *services.ReservationService
}

func NewReservationController(reservations *services.ReservationService) *ReservationController {
	return &ReservationController{Reservations: reservations}
}

type createReservationPayload struct {
	GuestID         uint    `json:"guest_id" binding:"required"`
	RoomID          uint    `json:"room_id" binding:"required"`
	CheckInDate     string  `json:"check_in_date" binding:"required"`
	CheckOutDate    string  `json:"check_out_date" binding:"required"`
	Adults          int     `json:"adults" binding:"required"`
	Children        int     `json:"children"`
	SpecialRequests *string `json:"special_requests"`
}

func (rc *ReservationController) Create(c *gin.Context) {
	var payload createReservationPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid request payload: "+err.Error())
		return
	}
	checkIn, err := parseDate(payload.CheckInDate)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid check_in_date")
		return
	}
	checkOut, err := parseDate(payload.CheckOutDate)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid check_out_date")
		return
	}

	res, err := rc.Reservations.Create(services.CreateReservationInput{
		GuestID:         payload.GuestID,
		RoomID:          payload.RoomID,
		CheckInDate:     checkIn,
		CheckOutDate:    checkOut,
		Adults:          payload.Adults,
		Children:        payload.Children,
		SpecialRequests: payload.SpecialRequests,
		CreatedBy:       middleware.ActingUserID(c),
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, res)
}

func (rc *ReservationController) List(c *gin.Context) {
	filter := services.ReservationFilter{
		Status:        models.ReservationStatus(c.Query("status")),
		PaymentStatus: models.PaymentStatus(c.Query("payment_status")),
		GuestName:     c.Query("guest_name"),
	}
	from, ok := parseDateQuery(c, "check_in_from")
	if !ok {
		return
	}
	to, ok := parseDateQuery(c, "check_in_to")
	if !ok {
		return
	}
	filter.CheckInFrom, filter.CheckInTo = from, to

	list, err := rc.Reservations.List(filter)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, list)
}

func (rc *ReservationController) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	res, err := rc.Reservations.GetByID(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, res)
}

type updateReservationPayload struct {
	GuestID         *uint   `json:"guest_id"`
	RoomID          *uint   `json:"room_id"`
	CheckInDate     *string `json:"check_in_date"`
	CheckOutDate    *string `json:"check_out_date"`
	Adults          *int    `json:"adults"`
	Children        *int    `json:"children"`
	SpecialRequests *string `json:"special_requests"`
}

func (rc *ReservationController) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var payload updateReservationPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid request payload: "+err.Error())
		return
	}

	in := services.UpdateReservationInput{
		GuestID:         payload.GuestID,
		RoomID:          payload.RoomID,
		Adults:          payload.Adults,
		Children:        payload.Children,
		SpecialRequests: payload.SpecialRequests,
	}
	if payload.CheckInDate != nil {
		t, err := parseDate(*payload.CheckInDate)
		if err != nil {
			utils.JSONError(c, http.StatusBadRequest, "invalid check_in_date")
			return
		}
		in.CheckInDate = &t
	}
	if payload.CheckOutDate != nil {
		t, err := parseDate(*payload.CheckOutDate)
		if err != nil {
			utils.JSONError(c, http.StatusBadRequest, "invalid check_out_date")
			return
		}
		in.CheckOutDate = &t
	}

	res, err := rc.Reservations.Update(id, in)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, res)
}

func (rc *ReservationController) Confirm(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	res, err := rc.Reservations.Confirm(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, res)
}

func (rc *ReservationController) CheckIn(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	res, err := rc.Reservations.CheckIn(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, res)
}

func (rc *ReservationController) CheckOut(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	res, err := rc.Reservations.CheckOut(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, res)
}

type cancelPayload struct {
	Reason string `json:"reason"`
}

func (rc *ReservationController) Cancel(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var payload cancelPayload
	_ = c.ShouldBindJSON(&payload) // reason is optional

	res, err := rc.Reservations.Cancel(id, payload.Reason)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, res)
}

func (rc *ReservationController) TodayArrivals(c *gin.Context) {
	list, err := rc.Reservations.TodayArrivals()
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, list)
}

func (rc *ReservationController) TodayDepartures(c *gin.Context) {
	list, err := rc.Reservations.TodayDepartures()
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, list)
}
