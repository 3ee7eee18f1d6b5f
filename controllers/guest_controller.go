package controllers

import (
	"net/http"

	"hotel-pms-backend/models"
	"hotel-pms-backend/services"
	"hotel-pms-backend/utils"

	"github.com/gin-gonic/gin"
)

type GuestController struct {
	Guests *services.GuestService
}

func NewGuestController(guests *services.GuestService) *GuestController {
	return &GuestController{Guests: guests}
}

type createGuestPayload struct {
	FirstName      string  `json:"first_name" binding:"required"`
	LastName       string  `json:"last_name" binding:"required"`
	Email          string  `json:"email" binding:"required"`
	Phone          string  `json:"phone" binding:"required"`
	IdentityNumber string  `json:"identity_number" binding:"required"`
	Gender         string  `json:"gender" binding:"required"`
	DateOfBirth    *string `json:"date_of_birth"`
	Nationality    string  `json:"nationality" binding:"required"`
	Address        *string `json:"address"`
}

func (gc *GuestController) Create(c *gin.Context) {
	var payload createGuestPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid request payload: "+err.Error())
		return
	}

	guest := models.Guest{
		FirstName:      payload.FirstName,
		LastName:       payload.LastName,
		Email:          payload.Email,
		Phone:          payload.Phone,
		IdentityNumber: payload.IdentityNumber,
		Gender:         models.Gender(payload.Gender),
		Nationality:    payload.Nationality,
		Address:        payload.Address,
	}
	if payload.DateOfBirth != nil && *payload.DateOfBirth != "" {
		dob, err := parseDate(*payload.DateOfBirth)
		if err != nil {
			utils.JSONError(c, http.StatusBadRequest, "invalid date_of_birth")
			return
		}
		guest.DateOfBirth = &dob
	}

	if err := gc.Guests.Create(&guest); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, guest)
}

func (gc *GuestController) List(c *gin.Context) {
	guests, err := gc.Guests.List(services.GuestFilter{
		Name:        c.Query("name"),
		Email:       c.Query("email"),
		Phone:       c.Query("phone"),
		Nationality: c.Query("nationality"),
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, guests)
}

func (gc *GuestController) Search(c *gin.Context) {
	guests, err := gc.Guests.Search(c.Query("q"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, guests)
}

func (gc *GuestController) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	guest, err := gc.Guests.GetByID(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, guest)
}

func (gc *GuestController) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var fields map[string]interface{}
	if err := c.ShouldBindJSON(&fields); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid request payload: "+err.Error())
		return
	}

	guest, err := gc.Guests.Update(id, fields)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, guest)
}

func (gc *GuestController) Reservations(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	reservations, err := gc.Guests.Reservations(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, reservations)
}

func (gc *GuestController) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := gc.Guests.Delete(id); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"deleted": id})
}
