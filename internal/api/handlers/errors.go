package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/andresuchdata/konveksi/backend-go/internal/domain"
	"github.com/andresuchdata/konveksi/backend-go/internal/service"
)

// ErrorBody is the JSON shape of every failed request
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

type shortageDetails struct {
	ItemID    string `json:"item_id"`
	ItemName  string `json:"item_name"`
	Available string `json:"available"`
	Requested string `json:"requested"`
	Shortage  string `json:"shortage"`
}

// statusFor maps a service error onto its HTTP status and error code
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest, "invalid_input"
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, domain.ErrInsufficientStock):
		return http.StatusConflict, "insufficient_stock"
	case errors.Is(err, domain.ErrInvalidStateTransition):
		return http.StatusConflict, "invalid_state_transition"
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, "forbidden"
	case errors.Is(err, service.ErrStorageDisabled):
		return http.StatusServiceUnavailable, "storage_disabled"
	default:
		return http.StatusInternalServerError, "internal"
	}
}

func respondError(c *gin.Context, err error) {
	status, code := statusFor(err)
	body := ErrorBody{Code: code, Message: err.Error()}

	var short *domain.InsufficientStockError
	if errors.As(err, &short) {
		body.Details = shortageDetails{
			ItemID:    short.ItemID,
			ItemName:  short.ItemName,
			Available: short.Available.String(),
			Requested: short.Requested.String(),
			Shortage:  short.Shortage().String(),
		}
	}

	if status >= http.StatusInternalServerError {
		log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("request failed")
		body.Message = "internal server error"
	} else if errors.Is(err, domain.ErrNotFound) {
		log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("unknown record referenced")
	}
	c.AbortWithStatusJSON(status, body)
}

func badRequest(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, ErrorBody{Code: "invalid_input", Message: message})
}

func parsePositiveIntWithDefault(value string, fallback int) int {
	if fallback <= 0 {
		fallback = 50
	}
	if v, err := strconv.Atoi(strings.TrimSpace(value)); err == nil && v > 0 {
		return v
	}
	return fallback
}
