package controllers

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"hotel-pms-backend/services"
	"hotel-pms-backend/utils"

	"github.com/gin-gonic/gin"
)

// respondServiceError maps the service error kinds onto HTTP statuses.
func respondServiceError(c *gin.Context, err error) {
	var code int
	switch {
	case errors.Is(err, services.ErrNotFound):
		code = http.StatusNotFound
	case errors.Is(err, services.ErrConflict):
		code = http.StatusConflict
	case errors.Is(err, services.ErrInvalidTransition):
		code = http.StatusConflict
	case errors.Is(err, services.ErrPrecondition):
		code = http.StatusPreconditionFailed
	case errors.Is(err, services.ErrValidation):
		code = http.StatusBadRequest
	default:
		log.Printf("internal error: %v", err)
		utils.JSONError(c, http.StatusInternalServerError, "internal error")
		return
	}
	utils.JSONError(c, code, err.Error())
}

func parseIDParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		utils.JSONError(c, http.StatusBadRequest, "invalid "+name)
		return 0, false
	}
	return uint(id), true
}

// parseDate accepts a plain date or an RFC3339 timestamp.
func parseDate(value string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, value)
}

// parseDateQuery reads an optional date query parameter.
func parseDateQuery(c *gin.Context, name string) (*time.Time, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	t, err := parseDate(raw)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid "+name)
		return nil, false
	}
	return &t, true
}

// requireDateRange reads mandatory start_date/end_date query params.
func requireDateRange(c *gin.Context) (time.Time, time.Time, bool) {
	start, err := parseDate(c.Query("start_date"))
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid start_date")
		return time.Time{}, time.Time{}, false
	}
	end, err := parseDate(c.Query("end_date"))
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid end_date")
		return time.Time{}, time.Time{}, false
	}
	return start, end, true
}
