package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// LowStockMaterial is a material whose stock fell below its minimum
type LowStockMaterial struct {
	MaterialID string          `json:"material_id"`
	Name       string          `json:"name"`
	Unit       MaterialUnit    `json:"unit"`
	Stock      decimal.Decimal `json:"stock"`
	MinStock   decimal.Decimal `json:"min_stock"`
}

// RequestStatusCount is the number of production requests in one status
type RequestStatusCount struct {
	Status RequestStatus `json:"status"`
	Label  string        `json:"label"`
	Count  int           `json:"count"`
}

// DashboardSummary aggregates the back-office summary cards
type DashboardSummary struct {
	MaterialStockValue     decimal.Decimal      `json:"material_stock_value"`
	FinishedGoodsValue     decimal.Decimal      `json:"finished_goods_value"`
	FinishedGoodsUnits     decimal.Decimal      `json:"finished_goods_units"`
	LowStockMaterials      []LowStockMaterial   `json:"low_stock_materials"`
	RequestsByStatus       []RequestStatusCount `json:"requests_by_status"`
	PendingAdjustments     int                  `json:"pending_adjustments"`
	UnreceivedReports      int                  `json:"unreceived_reports"`
	ProductionReportsTotal int                  `json:"production_reports_total"`
	SalesRevenue           decimal.Decimal      `json:"sales_revenue"`
	SalesCount             int                  `json:"sales_count"`
	GeneratedAt            time.Time            `json:"generated_at"`
}
