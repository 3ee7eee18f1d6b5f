package controllers

import (
	"net/http"
	"strconv"

	"hotel-pms-backend/middleware"
	"hotel-pms-backend/services"
	"hotel-pms-backend/utils"

	"github.com/gin-gonic/gin"
)

type PaymentController struct {
	Payments *services.PaymentService
}

func NewPaymentController(payments *services.PaymentService) *PaymentController {
	return &PaymentController{Payments: payments}
}

type recordPaymentPayload struct {
	ReservationID        uint    `json:"reservation_id" binding:"required"`
	Amount               float64 `json:"amount" binding:"required"`
	PaymentMethod        string  `json:"payment_method" binding:"required"`
	TransactionReference *string `json:"transaction_reference"`
	Notes                *string `json:"notes"`
}

func (pc *PaymentController) Create(c *gin.Context) {
	var payload recordPaymentPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid request payload: "+err.Error())
		return
	}

	payment, err := pc.Payments.Record(services.RecordPaymentInput{
		ReservationID:        payload.ReservationID,
		Amount:               payload.Amount,
		PaymentMethod:        payload.PaymentMethod,
		TransactionReference: payload.TransactionReference,
		Notes:                payload.Notes,
		ProcessedBy:          middleware.ActingUserID(c),
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, payment)
}

func (pc *PaymentController) List(c *gin.Context) {
	filter := services.PaymentFilter{
		PaymentMethod: c.Query("payment_method"),
	}
	from, ok := parseDateQuery(c, "date_from")
	if !ok {
		return
	}
	to, ok := parseDateQuery(c, "date_to")
	if !ok {
		return
	}
	filter.DateFrom, filter.DateTo = from, to
	if raw := c.Query("processed_by"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			utils.JSONError(c, http.StatusBadRequest, "invalid processed_by")
			return
		}
		filter.ProcessedBy = uint(id)
	}

	payments, err := pc.Payments.List(filter)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, payments)
}

func (pc *PaymentController) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	payment, err := pc.Payments.GetByID(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, payment)
}

func (pc *PaymentController) ByReservation(c *gin.Context) {
	id, ok := parseIDParam(c, "reservationId")
	if !ok {
		return
	}
	payments, err := pc.Payments.ListByReservation(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, payments)
}

func (pc *PaymentController) Summary(c *gin.Context) {
	id, ok := parseIDParam(c, "reservationId")
	if !ok {
		return
	}
	summary, err := pc.Payments.Summary(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, summary)
}

type refundPayload struct {
	Amount float64 `json:"amount" binding:"required"`
	Reason string  `json:"reason"`
}

func (pc *PaymentController) Refund(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var payload refundPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid request payload: "+err.Error())
		return
	}

	refund, err := pc.Payments.Refund(id, payload.Amount, payload.Reason, middleware.ActingUserID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, refund)
}
