package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/andresuchdata/konveksi/backend-go/internal/api/middleware"
	"github.com/andresuchdata/konveksi/backend-go/internal/domain"
	"github.com/andresuchdata/konveksi/backend-go/internal/service"
)

// ProductionHandler serves the cost calculator and production reports
type ProductionHandler struct {
	production *service.ProductionService
}

func NewProductionHandler(production *service.ProductionService) *ProductionHandler {
	return &ProductionHandler{production: production}
}

// Calculate prices a run; the response keeps the calculator's success envelope
func (h *ProductionHandler) Calculate(c *gin.Context) {
	var cmd domain.CalculateCommand
	if err := c.ShouldBindJSON(&cmd); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid request body: " + err.Error(), "data": nil})
		return
	}

	result, err := h.production.Calculate(c.Request.Context(), cmd)
	if err != nil {
		status, _ := statusFor(err)
		message := err.Error()
		if status >= http.StatusInternalServerError {
			message = "internal server error"
		}
		c.JSON(status, gin.H{"success": false, "message": message, "data": nil})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "HPP berhasil dihitung", "data": result})
}

func (h *ProductionHandler) GetGarmentTypes(c *gin.Context) {
	garments, err := h.production.GarmentTypes(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, garments)
}

// ConfirmProduction debits the run's material and records a report
func (h *ProductionHandler) ConfirmProduction(c *gin.Context) {
	var cmd domain.ConfirmProductionCommand
	if err := c.ShouldBindJSON(&cmd); err != nil {
		badRequest(c, "invalid request body: "+err.Error())
		return
	}

	report, err := h.production.ConfirmProduction(c.Request.Context(), middleware.ActorFrom(c), cmd)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, report)
}

// GetReports lists reports; ?unreceived=true keeps only those awaiting the warehouse
func (h *ProductionHandler) GetReports(c *gin.Context) {
	unreceived := false
	if raw := c.Query("unreceived"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			badRequest(c, "unreceived must be a boolean")
			return
		}
		unreceived = parsed
	}

	reports, err := h.production.Reports(c.Request.Context(), unreceived)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, reports)
}

func (h *ProductionHandler) GetReport(c *gin.Context) {
	report, err := h.production.Report(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// ReceiveGoods credits the report's finished goods into the warehouse
func (h *ProductionHandler) ReceiveGoods(c *gin.Context) {
	report, err := h.production.ReceiveProductionGoods(c.Request.Context(), middleware.ActorFrom(c), c.Param("id"))
	if err != nil {
		if errors.Is(err, domain.ErrAlreadyReceived) {
			c.AbortWithStatusJSON(http.StatusConflict, ErrorBody{Code: "already_received", Message: err.Error()})
			return
		}
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}
