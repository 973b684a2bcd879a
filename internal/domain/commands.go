package domain

import "github.com/shopspring/decimal"

// CreateRequestCommand asks production for more finished goods
type CreateRequestCommand struct {
	Items []RequestedItem `json:"items" validate:"required,min=1,dive"`
	Notes string          `json:"notes"`
}

// RejectRequestCommand closes a pending request
type RejectRequestCommand struct {
	Reason string `json:"reason"`
}

// SubmitAdjustmentCommand proposes signed stock corrections
type SubmitAdjustmentCommand struct {
	Items []AdjustmentItem `json:"items" validate:"required,min=1,dive"`
	Notes string           `json:"notes" validate:"required"`
}

// ReviewAdjustmentCommand resolves a pending adjustment
type ReviewAdjustmentCommand struct {
	Decision ReviewDecision `json:"decision" validate:"required,oneof=approve reject"`
	Note     string         `json:"note"`
}

// SaleLineInput is one product of a sale as entered at the counter
type SaleLineInput struct {
	ProductID string           `json:"product_id" validate:"required"`
	Quantity  int              `json:"quantity" validate:"gt=0"`
	UnitPrice *decimal.Decimal `json:"unit_price,omitempty"`
}

// RecordSaleCommand debits sold goods from stock
type RecordSaleCommand struct {
	Customer string          `json:"customer"`
	Lines    []SaleLineInput `json:"lines" validate:"required,min=1,dive"`
}

// PostStockCommand submits a raw ledger batch (purchases, initial stock)
type PostStockCommand struct {
	Updates []StockUpdate `json:"updates" validate:"required,min=1,dive"`
}

// CalculateCommand prices a run of a catalogued garment against the live material price
type CalculateCommand struct {
	GarmentTypeID   string             `json:"garment_type_id" validate:"required"`
	MaterialPrice   *decimal.Decimal   `json:"material_price,omitempty"`
	Orders          []GarmentOrderItem `json:"orders"`
	AdditionalCosts []AdditionalCost   `json:"additional_costs"`
	ProfitMargin    decimal.Decimal    `json:"profit_margin"`
}

// ConfirmProductionCommand commits a calculated run, optionally fulfilling a request
type ConfirmProductionCommand struct {
	HPP             HPPResult `json:"hpp_result"`
	SourceRequestID string    `json:"source_request_id,omitempty"`
}
