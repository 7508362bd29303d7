package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lejet/booking-gateway/internal/service/admin"
	"github.com/lejet/booking-gateway/internal/service/workflow"
	"github.com/lejet/booking-gateway/internal/session"
	"github.com/lejet/booking-gateway/internal/upstream"
)

// respondError maps the error taxonomy onto HTTP responses: validation
// failures are 400s that never reached the network, credential failures are
// 401s that force re-authentication, a missing workflow precursor redirects
// to search, and upstream rejections keep their message verbatim. Anything
// else is a generic retry-eligible failure.
func respondError(c *gin.Context, err error) {
	var wfValidation *workflow.ValidationError
	var adminValidation *admin.ValidationError
	var apiErr *upstream.APIError

	switch {
	case errors.As(err, &wfValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": wfValidation.Reason})
	case errors.As(err, &adminValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": adminValidation.Reason})
	case errors.Is(err, upstream.ErrUnauthorized), errors.Is(err, session.ErrNoSession):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "please log in to continue", "reauth": true})
	case errors.Is(err, workflow.ErrMissingPrecursor):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "redirect": "/booking"})
	case errors.Is(err, workflow.ErrSubmissionInFlight):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, workflow.ErrCancelWindowClosed):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.As(err, &apiErr):
		c.JSON(apiErr.StatusCode, gin.H{"error": apiErr.Error()})
	default:
		c.JSON(http.StatusBadGateway, gin.H{"error": "something went wrong, please try again"})
	}
}
