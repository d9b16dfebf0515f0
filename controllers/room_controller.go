package controllers

import (
	"net/http"

	"hotel-backoffice/middleware"
	"hotel-backoffice/models"
	"hotel-backoffice/services"
	"hotel-backoffice/utils"

	"github.com/gin-gonic/gin"
)

type RoomController struct {
	RoomTypeSvc *services.RoomTypeService
	StatusSvc   *services.RoomStatusService
}

func NewRoomController(roomTypes *services.RoomTypeService, status *services.RoomStatusService) *RoomController {
	return &RoomController{RoomTypeSvc: roomTypes, StatusSvc: status}
}

type roomStatusPayload struct {
	Status models.RoomStatus `json:"status" binding:"required"`
	Reason string            `json:"reason"`
}

// GET /api/rooms?room_type_id=
func (ctrl *RoomController) GetRooms(c *gin.Context) {
	roomTypeID, ok := queryID(c, "room_type_id")
	if !ok {
		return
	}
	rooms, err := ctrl.RoomTypeSvc.ListRooms(c.Request.Context(), roomTypeID)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, rooms)
}

// GET /api/rooms/:id/policy
func (ctrl *RoomController) GetRoomPolicy(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	policy, err := ctrl.RoomTypeSvc.RoomPolicy(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, policy)
}

// PATCH /api/rooms/:id/status
func (ctrl *RoomController) UpdateRoomStatus(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var payload roomStatusPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	room, err := ctrl.StatusSvc.UpdateRoomStatus(c.Request.Context(), id, payload.Status, payload.Reason, middleware.ActingAdmin(c))
	if err != nil {
		respondError(c, err)
		return
	}
	message := "Room status updated"
	if room.Status != payload.Status {
		message = "Room is under active maintenance and stays in " + string(room.Status)
	}
	utils.JSONMessage(c, http.StatusOK, message, room)
}
