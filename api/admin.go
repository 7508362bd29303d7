package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/lejet/booking-gateway/internal/domain"
	"github.com/lejet/booking-gateway/internal/service/admin"
)

type AdminHandler struct {
	service admin.AdminUseCase
}

func NewAdminHandler(service admin.AdminUseCase) *AdminHandler {
	return &AdminHandler{service: service}
}

func (h *AdminHandler) Register(router *gin.RouterGroup) {
	router.GET("/airplanes", h.listAirplanes)
	router.POST("/airplanes", h.addAirplane)
	router.GET("/flights", h.listFlights)
	router.POST("/flights", h.scheduleFlight)
	router.GET("/reports/monthly-revenue", h.monthlyReport)
}

func (h *AdminHandler) listAirplanes(c *gin.Context) {
	airplanes, err := h.service.ListAirplanes(c.Request.Context(), currentIdentity(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, airplanes)
}

func (h *AdminHandler) addAirplane(c *gin.Context) {
	var airplane domain.Airplane
	if err := c.ShouldBindJSON(&airplane); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.service.AddAirplane(c.Request.Context(), currentIdentity(c), airplane); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "airplane added successfully"})
}

func (h *AdminHandler) listFlights(c *gin.Context) {
	flights, err := h.service.ListFlights(c.Request.Context(), currentIdentity(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, flights)
}

func (h *AdminHandler) scheduleFlight(c *gin.Context) {
	var in admin.ScheduleInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.service.ScheduleFlight(c.Request.Context(), currentIdentity(c), in); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "flight scheduled successfully"})
}

func (h *AdminHandler) monthlyReport(c *gin.Context) {
	month, err := strconv.Atoi(c.Query("month"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid month"})
		return
	}
	year, err := strconv.Atoi(c.Query("year"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid year"})
		return
	}

	report, err := h.service.MonthlyReport(c.Request.Context(), currentIdentity(c), month, year)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}
