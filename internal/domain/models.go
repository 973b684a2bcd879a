// backend-go/internal/domain/models.go
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// MaterialUnit is the unit a raw material is stocked and priced in
type MaterialUnit string

const (
	UnitKg    MaterialUnit = "kg"
	UnitMeter MaterialUnit = "meter"
	UnitRoll  MaterialUnit = "roll"
)

// IsValid reports whether u is a known unit
func (u MaterialUnit) IsValid() bool {
	switch u {
	case UnitKg, UnitMeter, UnitRoll:
		return true
	}
	return false
}

// ItemKind tells the ledger which table a stock line belongs to
type ItemKind string

const (
	ItemMaterial     ItemKind = "material"
	ItemFinishedGood ItemKind = "finished_good"
)

// Material is a raw-material inventory row (fabric, thread, ...).
// Stock is kept in Unit (kg or meter); the price may be quoted per roll.
type Material struct {
	ID               string          `json:"id"`
	Name             string          `json:"name"`
	Unit             MaterialUnit    `json:"unit"`
	Stock            decimal.Decimal `json:"stock"`
	PriceUnit        MaterialUnit    `json:"price_unit"`
	PricePerUnit     decimal.Decimal `json:"price_per_unit"`
	RollToBaseFactor decimal.Decimal `json:"roll_to_base_factor"`
	MinStock         decimal.Decimal `json:"min_stock"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// FinishedGood is a sellable garment variant (model x size x color)
type FinishedGood struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Size         string          `json:"size"`
	ColorName    string          `json:"color_name"`
	ColorCode    string          `json:"color_code"`
	Stock        decimal.Decimal `json:"stock"`
	HPP          decimal.Decimal `json:"hpp"`
	SellingPrice decimal.Decimal `json:"selling_price"`
	ImageURLs    []string        `json:"image_urls,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// GarmentType defines how much of which material one unit of a garment consumes
type GarmentType struct {
	ID                         string          `json:"id"`
	Name                       string          `json:"name"`
	MaterialID                 string          `json:"material_id"`
	MaterialConsumptionPerUnit decimal.Decimal `json:"material_consumption_per_unit"`
}

// ChangeType classifies a stock history entry
type ChangeType string

const (
	ChangeInitial       ChangeType = "initial"
	ChangeInPurchase    ChangeType = "in-purchase"
	ChangeOutProduction ChangeType = "out-production"
	ChangeInProduction  ChangeType = "in-production"
	ChangeAdjustment    ChangeType = "adjustment"
	ChangeSale          ChangeType = "sale"
)

// IsValid reports whether c is a known change type
func (c ChangeType) IsValid() bool {
	switch c {
	case ChangeInitial, ChangeInPurchase, ChangeOutProduction, ChangeInProduction, ChangeAdjustment, ChangeSale:
		return true
	}
	return false
}

// StockUpdate is one signed line of a ledger batch
type StockUpdate struct {
	ItemID         string          `json:"item_id" validate:"required"`
	QuantityChange decimal.Decimal `json:"quantity_change"`
	ChangeType     ChangeType      `json:"change_type" validate:"required"`
	Note           string          `json:"note"`
}

// StockHistoryEntry is an immutable audit record of one stock mutation
type StockHistoryEntry struct {
	ID             int64           `json:"id,string"`
	ItemID         string          `json:"item_id"`
	ItemName       string          `json:"item_name"`
	ItemKind       ItemKind        `json:"item_kind"`
	ChangeType     ChangeType      `json:"change_type"`
	QuantityChange decimal.Decimal `json:"quantity_change"`
	FinalStock     decimal.Decimal `json:"final_stock"`
	Note           string          `json:"note"`
	Actor          string          `json:"actor"`
	Timestamp      time.Time       `json:"timestamp"`
}

// HistoryFilter narrows a stock history listing
type HistoryFilter struct {
	ItemID     string
	ChangeType ChangeType
	Limit      int
}

// GarmentOrderItem is one line of a production order
type GarmentOrderItem struct {
	ProductID string `json:"product_id,omitempty"`
	Model     string `json:"model"`
	Size      string `json:"size"`
	Quantity  int    `json:"quantity"`
	ColorName string `json:"color_name"`
	ColorCode string `json:"color_code"`
}

// AdditionalCost is a named per-unit cost applied to every unit of a run
type AdditionalCost struct {
	Name   string          `json:"name"`
	Amount decimal.Decimal `json:"amount"`
}

// MaterialUsage is the material consumption line of an HPP result
type MaterialUsage struct {
	MaterialID string          `json:"material_id"`
	Name       string          `json:"name"`
	Quantity   decimal.Decimal `json:"quantity"`
	Unit       MaterialUnit    `json:"unit"`
	Cost       decimal.Decimal `json:"cost"`
}

// HPPResult is the output of a production cost calculation
type HPPResult struct {
	GarmentTypeID       string             `json:"garment_type_id"`
	GarmentName         string             `json:"garment_name"`
	TotalUnits          int                `json:"total_units"`
	TotalMaterialCost   decimal.Decimal    `json:"total_material_cost"`
	TotalAdditionalCost decimal.Decimal    `json:"total_additional_cost"`
	TotalProductionCost decimal.Decimal    `json:"total_production_cost"`
	HPPPerUnit          decimal.Decimal    `json:"hpp_per_unit"`
	SellingPricePerUnit decimal.Decimal    `json:"selling_price_per_unit"`
	ProfitMargin        decimal.Decimal    `json:"profit_margin"`
	Orders              []GarmentOrderItem `json:"orders"`
	AdditionalCosts     []AdditionalCost   `json:"additional_costs"`
	Materials           []MaterialUsage    `json:"materials"`
}

// PrimaryMaterial returns the single material line of the result
func (r *HPPResult) PrimaryMaterial() (MaterialUsage, bool) {
	if r == nil || len(r.Materials) == 0 {
		return MaterialUsage{}, false
	}
	return r.Materials[0], true
}

// Clone returns a deep copy so embedded results cannot be mutated through shared slices
func (r HPPResult) Clone() HPPResult {
	out := r
	out.Orders = append([]GarmentOrderItem(nil), r.Orders...)
	out.AdditionalCosts = append([]AdditionalCost(nil), r.AdditionalCosts...)
	out.Materials = append([]MaterialUsage(nil), r.Materials...)
	return out
}

// ProductionReport records a confirmed production run
type ProductionReport struct {
	ID                    string     `json:"id"`
	CreatedAt             time.Time  `json:"created_at"`
	CreatedBy             string     `json:"created_by"`
	GarmentType           string     `json:"garment_type"`
	HPP                   HPPResult  `json:"hpp_result"`
	IsReceivedInWarehouse bool       `json:"is_received_in_warehouse"`
	ReceivedAt            *time.Time `json:"received_at,omitempty"`
	ReceivedBy            string     `json:"received_by,omitempty"`
	SourceRequestID       string     `json:"source_request_id,omitempty"`
}

// RequestedItem is one product line of a production request
type RequestedItem struct {
	ProductID string `json:"product_id" validate:"required"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity" validate:"gt=0"`
}

// ProductionRequest is a warehouse-to-production restock ask
type ProductionRequest struct {
	ID                     string          `json:"id"`
	CreatedAt              time.Time       `json:"created_at"`
	RequestedBy            string          `json:"requested_by"`
	Items                  []RequestedItem `json:"items"`
	Notes                  string          `json:"notes"`
	Status                 RequestStatus   `json:"status"`
	ApprovedByProductionAt *time.Time      `json:"approved_by_production_at,omitempty"`
	CompletedProductionAt  *time.Time      `json:"completed_production_at,omitempty"`
	ApprovedByWarehouseAt  *time.Time      `json:"approved_by_warehouse_at,omitempty"`
	RejectedAt             *time.Time      `json:"rejected_at,omitempty"`
	RejectReason           string          `json:"reject_reason,omitempty"`
	ReportID               string          `json:"report_id,omitempty"`
}

// AdjustmentItem is one signed correction line
type AdjustmentItem struct {
	ItemID         string          `json:"item_id" validate:"required"`
	ItemKind       ItemKind        `json:"item_kind"`
	Name           string          `json:"name"`
	QuantityChange decimal.Decimal `json:"quantity_change"`
}

// StockAdjustment is a manual correction awaiting a second-party review
type StockAdjustment struct {
	ID          string           `json:"id"`
	CreatedAt   time.Time        `json:"created_at"`
	RequestedBy string           `json:"requested_by"`
	Items       []AdjustmentItem `json:"items"`
	Notes       string           `json:"notes"`
	Status      AdjustmentStatus `json:"status"`
	ReviewedBy  string           `json:"reviewed_by,omitempty"`
	ReviewedAt  *time.Time       `json:"reviewed_at,omitempty"`
	ReviewNote  string           `json:"review_note,omitempty"`
}

// SaleLine is one product sold in a sale
type SaleLine struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// Sale records finished goods leaving the warehouse to a customer
type Sale struct {
	ID        string          `json:"id"`
	CreatedAt time.Time       `json:"created_at"`
	SoldBy    string          `json:"sold_by"`
	Customer  string          `json:"customer"`
	Lines     []SaleLine      `json:"lines"`
	Total     decimal.Decimal `json:"total"`
}
