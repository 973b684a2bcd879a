package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/andresuchdata/konveksi/backend-go/internal/api/middleware"
	"github.com/andresuchdata/konveksi/backend-go/internal/domain"
	"github.com/andresuchdata/konveksi/backend-go/internal/service"
)

type AdjustmentHandler struct {
	adjustments *service.AdjustmentService
}

func NewAdjustmentHandler(adjustments *service.AdjustmentService) *AdjustmentHandler {
	return &AdjustmentHandler{adjustments: adjustments}
}

func (h *AdjustmentHandler) GetAdjustments(c *gin.Context) {
	var status domain.AdjustmentStatus
	if raw := c.Query("status"); raw != "" {
		parsed, ok := domain.ParseAdjustmentStatus(raw)
		if !ok {
			badRequest(c, "unknown status "+raw)
			return
		}
		status = parsed
	}

	adjustments, err := h.adjustments.List(c.Request.Context(), status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, adjustments)
}

func (h *AdjustmentHandler) GetAdjustment(c *gin.Context) {
	adjustment, err := h.adjustments.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, adjustment)
}

func (h *AdjustmentHandler) SubmitAdjustment(c *gin.Context) {
	var cmd domain.SubmitAdjustmentCommand
	if err := c.ShouldBindJSON(&cmd); err != nil {
		badRequest(c, "invalid request body: "+err.Error())
		return
	}

	adjustment, err := h.adjustments.Submit(c.Request.Context(), middleware.ActorFrom(c), cmd)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, adjustment)
}

// ReviewAdjustment approves or rejects; approval applies the deltas to stock
func (h *AdjustmentHandler) ReviewAdjustment(c *gin.Context) {
	var cmd domain.ReviewAdjustmentCommand
	if err := c.ShouldBindJSON(&cmd); err != nil {
		badRequest(c, "invalid request body: "+err.Error())
		return
	}

	adjustment, err := h.adjustments.Review(c.Request.Context(), middleware.ActorFrom(c), c.Param("id"), cmd)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, adjustment)
}
