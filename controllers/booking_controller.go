package controllers

import (
	"net/http"

	"hotel-backoffice/middleware"
	"hotel-backoffice/services"
	"hotel-backoffice/utils"

	"github.com/gin-gonic/gin"
)

type BookingController struct {
	BookingSvc *services.BookingEditService
}

func NewBookingController(svc *services.BookingEditService) *BookingController {
	return &BookingController{BookingSvc: svc}
}

// GET /api/bookings/:id
func (ctrl *BookingController) GetBooking(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	booking, err := ctrl.BookingSvc.GetBooking(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, booking)
}

// PUT /api/bookings/:id
func (ctrl *BookingController) UpdateBooking(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req services.EditBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	res, err := ctrl.BookingSvc.EditBooking(c.Request.Context(), id, req, middleware.ActingAdmin(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":            true,
		"message":            res.Message,
		"data":               res.Booking,
		"quote":              res.Quote,
		"changes":            res.Changes,
		"notification_sent":  res.NotificationSent,
		"notification_error": res.NotificationError,
	})
}

// POST /api/bookings/quote
func (ctrl *BookingController) Quote(c *gin.Context) {
	var req services.QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}
	quote, err := ctrl.BookingSvc.Quote(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, quote)
}
