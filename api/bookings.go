package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lejet/booking-gateway/internal/service/workflow"
)

type BookingHandler struct {
	service workflow.WorkflowUseCase
}

func NewBookingHandler(service workflow.WorkflowUseCase) *BookingHandler {
	return &BookingHandler{service: service}
}

func (h *BookingHandler) Register(router *gin.RouterGroup) {
	router.GET("/bookings", h.list)
	router.DELETE("/bookings/:id", h.cancel)
}

func (h *BookingHandler) list(c *gin.Context) {
	bookings, err := h.service.ListBookings(c.Request.Context(), currentIdentity(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, bookings)
}

func (h *BookingHandler) cancel(c *gin.Context) {
	if err := h.service.Cancel(c.Request.Context(), currentIdentity(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "booking cancelled successfully"})
}
