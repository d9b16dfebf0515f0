package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"hotel-backoffice/services"
	"hotel-backoffice/utils"

	"github.com/gin-gonic/gin"
)

var errorStatuses = []struct {
	kind   error
	status int
	code   string
}{
	{services.ErrValidation, http.StatusBadRequest, "error.validation"},
	{services.ErrPolicyViolation, http.StatusUnprocessableEntity, "error.policyViolation"},
	{services.ErrRoomUnavailable, http.StatusConflict, "error.roomUnavailable"},
	{services.ErrScheduleOverlap, http.StatusConflict, "error.scheduleOverlap"},
	{services.ErrNotFound, http.StatusNotFound, "error.notFound"},
}

// respondError maps a service error to its HTTP status. Anything without a
// known kind is reported as a generic database failure.
func respondError(c *gin.Context, err error) {
	_ = c.Error(err)
	for _, e := range errorStatuses {
		if errors.Is(err, e.kind) {
			utils.JSONError(c, e.status, e.code, services.Message(err))
			return
		}
	}
	utils.JSONError(c, http.StatusInternalServerError, "error.database",
		services.Message(services.ErrDatabase))
}

func respondBadRequest(c *gin.Context, message string) {
	utils.JSONError(c, http.StatusBadRequest, "error.invalidRequest", message)
}

// paramID parses a positive numeric path parameter, writing a 400 when it
// is not one.
func paramID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		respondBadRequest(c, name+" must be a positive number")
		return 0, false
	}
	return uint(id), true
}

// queryID parses an optional numeric query parameter; absent means 0.
func queryID(c *gin.Context, name string) (uint, bool) {
	raw := c.Query(name)
	if raw == "" {
		return 0, true
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		respondBadRequest(c, name+" must be a number")
		return 0, false
	}
	return uint(id), true
}
