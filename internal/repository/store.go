// backend-go/internal/repository/store.go
package repository

import (
	"context"
	"errors"

	"github.com/andresuchdata/konveksi/backend-go/internal/domain"
	"github.com/shopspring/decimal"
)

var (
	// ErrReadOnly is returned by writes inside a View
	ErrReadOnly = errors.New("repository: write in read-only transaction")
	// ErrStockOwnedByLedger is returned when a row write would change stock outside SetStock
	ErrStockOwnedByLedger = errors.New("repository: stock may only change through the ledger")
)

// Store owns the whole back-office state tree.
//
// WithTx runs fn with exclusive access; its writes become visible only if fn
// returns nil. View runs fn against a consistent read-only snapshot.
type Store interface {
	WithTx(ctx context.Context, fn func(tx Tx) error) error
	View(ctx context.Context, fn func(tx Tx) error) error
}

// Tx is the set of reads and writes available inside a transaction.
// Getters return copies; callers write changes back with the Put methods.
type Tx interface {
	Material(id string) (domain.Material, error)
	Materials() []domain.Material
	PutMaterial(m domain.Material) error

	FinishedGood(id string) (domain.FinishedGood, error)
	FinishedGoods() []domain.FinishedGood
	PutFinishedGood(g domain.FinishedGood) error

	// SetStock is the single write path for stock quantities
	SetStock(kind domain.ItemKind, id string, stock decimal.Decimal) error
	AppendHistory(entries ...domain.StockHistoryEntry) error
	History(filter domain.HistoryFilter) []domain.StockHistoryEntry

	GarmentType(id string) (domain.GarmentType, error)
	GarmentTypes() []domain.GarmentType
	PutGarmentType(g domain.GarmentType) error

	Report(id string) (domain.ProductionReport, error)
	Reports() []domain.ProductionReport
	PutReport(r domain.ProductionReport) error

	Request(id string) (domain.ProductionRequest, error)
	Requests() []domain.ProductionRequest
	PutRequest(r domain.ProductionRequest) error

	Adjustment(id string) (domain.StockAdjustment, error)
	Adjustments() []domain.StockAdjustment
	PutAdjustment(a domain.StockAdjustment) error

	Sales() []domain.Sale
	PutSale(s domain.Sale) error
}
