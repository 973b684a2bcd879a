package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/andresuchdata/konveksi/backend-go/internal/api/middleware"
	"github.com/andresuchdata/konveksi/backend-go/internal/domain"
	"github.com/andresuchdata/konveksi/backend-go/internal/service"
)

const defaultHistoryLimit = 100

// StockHandler serves the stock catalogue and ledger
type StockHandler struct {
	ledger *service.LedgerService
}

func NewStockHandler(ledger *service.LedgerService) *StockHandler {
	return &StockHandler{ledger: ledger}
}

func (h *StockHandler) GetMaterials(c *gin.Context) {
	materials, err := h.ledger.Materials(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, materials)
}

func (h *StockHandler) GetFinishedGoods(c *gin.Context) {
	goods, err := h.ledger.FinishedGoods(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, goods)
}

// GetHistory lists ledger entries newest first, filtered by item_id and change_type
func (h *StockHandler) GetHistory(c *gin.Context) {
	filter := domain.HistoryFilter{
		ItemID: c.Query("item_id"),
		Limit:  parsePositiveIntWithDefault(c.Query("limit"), defaultHistoryLimit),
	}
	if raw := c.Query("change_type"); raw != "" {
		changeType := domain.ChangeType(raw)
		if !changeType.IsValid() {
			badRequest(c, "unknown change_type "+raw)
			return
		}
		filter.ChangeType = changeType
	}

	entries, err := h.ledger.History(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

// PostChanges applies a batch of stock updates atomically
func (h *StockHandler) PostChanges(c *gin.Context) {
	var cmd domain.PostStockCommand
	if err := c.ShouldBindJSON(&cmd); err != nil {
		badRequest(c, "invalid request body: "+err.Error())
		return
	}

	entries, err := h.ledger.ApplyStockChanges(c.Request.Context(), middleware.ActorFrom(c), cmd.Updates)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, entries)
}
