package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/andresuchdata/konveksi/backend-go/internal/api/middleware"
	"github.com/andresuchdata/konveksi/backend-go/internal/domain"
	"github.com/andresuchdata/konveksi/backend-go/internal/service"
)

// RequestHandler serves the warehouse to production request workflow
type RequestHandler struct {
	requests *service.RequestService
}

func NewRequestHandler(requests *service.RequestService) *RequestHandler {
	return &RequestHandler{requests: requests}
}

type fulfillRequestBody struct {
	HPP domain.HPPResult `json:"hpp_result"`
}

// GetRequests lists requests newest first, optionally by ?status=
func (h *RequestHandler) GetRequests(c *gin.Context) {
	var status domain.RequestStatus
	if raw := c.Query("status"); raw != "" {
		parsed, ok := domain.ParseRequestStatus(raw)
		if !ok {
			badRequest(c, "unknown status "+raw)
			return
		}
		status = parsed
	}

	requests, err := h.requests.List(c.Request.Context(), status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, requests)
}

func (h *RequestHandler) GetRequest(c *gin.Context) {
	request, err := h.requests.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, request)
}

func (h *RequestHandler) CreateRequest(c *gin.Context) {
	var cmd domain.CreateRequestCommand
	if err := c.ShouldBindJSON(&cmd); err != nil {
		badRequest(c, "invalid request body: "+err.Error())
		return
	}

	request, err := h.requests.CreateRequest(c.Request.Context(), middleware.ActorFrom(c), cmd)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, request)
}

func (h *RequestHandler) ApproveRequest(c *gin.Context) {
	request, err := h.requests.Approve(c.Request.Context(), middleware.ActorFrom(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, request)
}

// RejectRequest accepts an optional {"reason": "..."} body
func (h *RequestHandler) RejectRequest(c *gin.Context) {
	var cmd domain.RejectRequestCommand
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&cmd); err != nil {
			badRequest(c, "invalid request body: "+err.Error())
			return
		}
	}

	request, err := h.requests.Reject(c.Request.Context(), middleware.ActorFrom(c), c.Param("id"), cmd)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, request)
}

// FulfillRequest confirms a production run against an approved request
func (h *RequestHandler) FulfillRequest(c *gin.Context) {
	var body fulfillRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, "invalid request body: "+err.Error())
		return
	}

	report, err := h.requests.Fulfill(c.Request.Context(), middleware.ActorFrom(c), c.Param("id"), body.HPP)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, report)
}
