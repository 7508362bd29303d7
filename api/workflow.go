package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lejet/booking-gateway/internal/domain"
	"github.com/lejet/booking-gateway/internal/service/workflow"
)

type WorkflowHandler struct {
	service workflow.WorkflowUseCase
}

func NewWorkflowHandler(service workflow.WorkflowUseCase) *WorkflowHandler {
	return &WorkflowHandler{service: service}
}

// Register wires the public search route; RegisterAuthenticated wires the
// steps that need a logged-in traveller.
func (h *WorkflowHandler) Register(router *gin.RouterGroup) {
	router.GET("/flights/search", h.search)
	router.GET("/flights/:id", h.flight)
	router.POST("/workflow/outbound", h.selectOutbound)
	router.POST("/workflow/return", h.selectReturn)
}

func (h *WorkflowHandler) RegisterAuthenticated(router *gin.RouterGroup) {
	router.POST("/workflow/confirm", h.confirm)
	router.POST("/workflow/payment", h.payment)
	router.POST("/tickets/resolve", h.resolveTicket)
	router.GET("/tickets/:id", h.ticket)
	router.GET("/tickets/:id/print", h.printTicket)
}

func searchInputFromQuery(c *gin.Context) (workflow.SearchInput, error) {
	passengers, err := strconv.Atoi(c.DefaultQuery("passengers", "1"))
	if err != nil {
		return workflow.SearchInput{}, &workflow.ValidationError{Reason: "invalid passenger count"}
	}

	in := workflow.SearchInput{
		Trip:       domain.TripType(c.DefaultQuery("trip", string(domain.TripOneWay))),
		From:       c.Query("from"),
		To:         c.Query("to"),
		Passengers: passengers,
		SeatClass:  domain.SeatClass(c.DefaultQuery("seatClass", string(domain.SeatClassEconomy))),
	}

	if raw := c.Query("departureDate"); raw != "" {
		date, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return workflow.SearchInput{}, &workflow.ValidationError{Reason: "invalid departure date"}
		}
		in.DepartureDate = date
	}
	if raw := c.Query("returnDate"); raw != "" {
		date, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return workflow.SearchInput{}, &workflow.ValidationError{Reason: "invalid return date"}
		}
		in.ReturnDate = date
	}
	return in, nil
}

func (h *WorkflowHandler) search(c *gin.Context) {
	in, err := searchInputFromQuery(c)
	if err != nil {
		respondError(c, err)
		return
	}

	var result *workflow.SearchResult
	if c.Query("leg") == "return" {
		result, err = h.service.SearchReturnLeg(c.Request.Context(), currentSessionID(c), in)
	} else {
		result, err = h.service.Search(c.Request.Context(), currentSessionID(c), in)
	}
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *WorkflowHandler) flight(c *gin.Context) {
	flight, err := h.service.FlightDetails(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, flight)
}

type selectOutboundRequest struct {
	Search workflow.SearchInput `json:"search"`
	Flight *domain.Flight       `json:"flight"`
}

func (h *WorkflowHandler) selectOutbound(c *gin.Context) {
	var req selectOutboundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	selection, err := h.service.SelectOutbound(req.Search, req.Flight)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, selection)
}

type selectReturnRequest struct {
	Search       workflow.SearchInput `json:"search"`
	Outbound     *domain.Flight       `json:"outbound"`
	ReturnFlight *domain.Flight       `json:"returnFlight"`
}

func (h *WorkflowHandler) selectReturn(c *gin.Context) {
	var req selectReturnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	selection, err := h.service.SelectReturn(req.Search, req.Outbound, req.ReturnFlight)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, selection)
}

type confirmRequest struct {
	Draft *domain.BookingDraft `json:"draft"`
}

func (h *WorkflowHandler) confirm(c *gin.Context) {
	var req confirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	pc, err := h.service.Confirm(c.Request.Context(), currentIdentity(c), req.Draft)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, pc)
}

type paymentRequest struct {
	Context *workflow.PaymentContext `json:"context"`
	Method  domain.PaymentMethod     `json:"paymentMethod"`
	Details domain.PaymentDetails    `json:"paymentDetails"`
}

func (h *WorkflowHandler) payment(c *gin.Context) {
	var req paymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	booking, err := h.service.SubmitPayment(c.Request.Context(), currentIdentity(c), req.Context, req.Method, req.Details)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"booking": booking})
}

type resolveTicketRequest struct {
	BookingID string          `json:"bookingId"`
	Booking   *domain.Booking `json:"booking,omitempty"`
}

// resolveTicket accepts the navigation-carried booking; ticket falls back to
// re-fetching by id for direct entries.
func (h *WorkflowHandler) resolveTicket(c *gin.Context) {
	var req resolveTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	view, err := h.service.ResolveTicket(c.Request.Context(), currentIdentity(c), req.BookingID, req.Booking)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *WorkflowHandler) ticket(c *gin.Context) {
	view, err := h.service.ResolveTicket(c.Request.Context(), currentIdentity(c), c.Param("id"), nil)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *WorkflowHandler) printTicket(c *gin.Context) {
	view, err := h.service.ResolveTicket(c.Request.Context(), currentIdentity(c), c.Param("id"), nil)
	if err != nil {
		respondError(c, err)
		return
	}
	c.String(http.StatusOK, view.PrintableDocument())
}
