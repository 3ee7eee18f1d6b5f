package controllers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"hotel-pms-backend/models"
	"hotel-pms-backend/services"
	"hotel-pms-backend/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
)

type RoomController struct {
	Rooms *services.RoomService
}

func NewRoomController(rooms *services.RoomService) *RoomController {
	return &RoomController{Rooms: rooms}
}

type createRoomPayload struct {
	RoomNumber    string   `json:"room_number" binding:"required"`
	RoomType      string   `json:"room_type" binding:"required"`
	Floor         int      `json:"floor" binding:"required"`
	Capacity      int      `json:"capacity" binding:"required"`
	PricePerNight float64  `json:"price_per_night"`
	Amenities     []string `json:"amenities"`
	Description   *string  `json:"description"`
}

func (rc *RoomController) Create(c *gin.Context) {
	var payload createRoomPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid request payload: "+err.Error())
		return
	}

	room := models.Room{
		RoomNumber:    payload.RoomNumber,
		RoomType:      models.RoomType(payload.RoomType),
		Floor:         payload.Floor,
		Capacity:      payload.Capacity,
		PricePerNight: payload.PricePerNight,
		Description:   payload.Description,
	}
	if len(payload.Amenities) > 0 {
		raw, err := json.Marshal(payload.Amenities)
		if err != nil {
			utils.JSONError(c, http.StatusBadRequest, "invalid amenities")
			return
		}
		room.Amenities = datatypes.JSON(raw)
	}

	if err := rc.Rooms.Create(&room); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, room)
}

func (rc *RoomController) List(c *gin.Context) {
	filter := services.RoomFilter{
		Status:   models.RoomStatus(c.Query("status")),
		RoomType: models.RoomType(c.Query("room_type")),
	}
	if raw := c.Query("floor"); raw != "" {
		floor, err := strconv.Atoi(raw)
		if err != nil {
			utils.JSONError(c, http.StatusBadRequest, "invalid floor")
			return
		}
		filter.Floor = &floor
	}
	from, ok := parseDateQuery(c, "available_from")
	if !ok {
		return
	}
	to, ok := parseDateQuery(c, "available_to")
	if !ok {
		return
	}
	filter.AvailableFrom, filter.AvailableTo = from, to

	rooms, err := rc.Rooms.List(filter)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, rooms)
}

func (rc *RoomController) Available(c *gin.Context) {
	checkIn, err := parseDate(c.Query("check_in"))
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid check_in")
		return
	}
	checkOut, err := parseDate(c.Query("check_out"))
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid check_out")
		return
	}
	capacity := 0
	if raw := c.Query("capacity"); raw != "" {
		capacity, err = strconv.Atoi(raw)
		if err != nil {
			utils.JSONError(c, http.StatusBadRequest, "invalid capacity")
			return
		}
	}

	rooms, err := rc.Rooms.Available(checkIn, checkOut, capacity)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, rooms)
}

func (rc *RoomController) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	room, err := rc.Rooms.GetByID(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, room)
}

func (rc *RoomController) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var fields map[string]interface{}
	if err := c.ShouldBindJSON(&fields); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid request payload: "+err.Error())
		return
	}

	room, err := rc.Rooms.Update(id, fields)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, room)
}

type roomStatusPayload struct {
	Status string `json:"status" binding:"required"`
}

// UpdateStatus handles the housekeeping flip between available and
// cleaning. Occupied/maintenance transitions belong to the
// reservation and maintenance endpoints.
func (rc *RoomController) UpdateStatus(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var payload roomStatusPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "status is required")
		return
	}
	status := models.RoomStatus(payload.Status)
	if !status.Valid() {
		utils.JSONError(c, http.StatusBadRequest, "invalid status")
		return
	}

	room, err := rc.Rooms.SetHousekeepingStatus(id, status)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, room)
}

func (rc *RoomController) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := rc.Rooms.Delete(id); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"deleted": id})
}
