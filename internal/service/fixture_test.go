package service

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/andresuchdata/konveksi/backend-go/internal/domain"
	"github.com/andresuchdata/konveksi/backend-go/internal/hpp"
	"github.com/andresuchdata/konveksi/backend-go/internal/idgen"
	"github.com/andresuchdata/konveksi/backend-go/internal/repository"
	"github.com/andresuchdata/konveksi/backend-go/internal/repository/memory"
	"github.com/andresuchdata/konveksi/backend-go/internal/seed"
)

var (
	warehouse  = domain.Actor{Name: "sari", Role: domain.RoleWarehouse}
	production = domain.Actor{Name: "budi", Role: domain.RoleProduction}
	owner      = domain.Actor{Name: "rina", Role: domain.RoleOwner}
	admin      = domain.Actor{Name: "admin", Role: domain.RoleAdmin}
)

const (
	cottonID   = "MAT-COTTON"
	drillID    = "MAT-DRILL"
	kaosGarID  = "GAR-KAOS"
	kaosMID    = "FG-KAOS-M-HITAM"
	kaosLID    = "FG-KAOS-L-HITAM"
	kemejaLID  = "FG-KEMEJA-L-NAVY"
	fixtureDay = "20240815"
)

type fixture struct {
	ctx         context.Context
	store       *memory.Store
	ids         *idgen.Generator
	ledger      *LedgerService
	production  *ProductionService
	requests    *RequestService
	adjustments *AdjustmentService
	sales       *SalesService
	dashboard   *DashboardService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	ids, err := idgen.New(1)
	require.NoError(t, err)
	ids.WithClock(func() time.Time { return time.Date(2024, 8, 15, 9, 30, 0, 0, time.UTC) }).WithSeed(42)

	store := memory.NewStore()
	ledger := NewLedgerService(store, ids)
	prod := NewProductionService(store, ids, ledger, hpp.NewCalculator())
	f := &fixture{
		ctx:         context.Background(),
		store:       store,
		ids:         ids,
		ledger:      ledger,
		production:  prod,
		requests:    NewRequestService(store, ids, prod),
		adjustments: NewAdjustmentService(store, ids, ledger),
		sales:       NewSalesService(store, ids, ledger),
		dashboard:   NewDashboardService(store, ids, nil),
	}

	// Cotton 100 kg at Rp50000/kg, 0.2 kg per kaos
	cat := &seed.Catalog{
		Materials: []domain.Material{
			{ID: cottonID, Name: "Cotton", Unit: domain.UnitKg, PriceUnit: domain.UnitKg, PricePerUnit: dec("50000"), MinStock: dec("20")},
			{ID: drillID, Name: "Drill", Unit: domain.UnitMeter, PriceUnit: domain.UnitRoll, PricePerUnit: dec("2500000"), RollToBaseFactor: dec("100"), MinStock: dec("50")},
		},
		FinishedGoods: []domain.FinishedGood{
			{ID: kaosMID, Name: "Kaos Polos", Size: "M", ColorName: "Hitam", ColorCode: "#000000", HPP: dec("14000"), SellingPrice: dec("19000")},
			{ID: kaosLID, Name: "Kaos Polos", Size: "L", ColorName: "Hitam", ColorCode: "#000000", HPP: dec("14000"), SellingPrice: dec("19000")},
			{ID: kemejaLID, Name: "Kemeja Kerja", Size: "L", ColorName: "Navy", HPP: dec("62000"), SellingPrice: dec("85000")},
		},
		Garments: []domain.GarmentType{
			{ID: kaosGarID, Name: "Kaos Polos", MaterialID: cottonID, MaterialConsumptionPerUnit: dec("0.2")},
		},
		Opening: []domain.StockUpdate{
			{ItemID: cottonID, QuantityChange: dec("100"), ChangeType: domain.ChangeInitial},
			{ItemID: drillID, QuantityChange: dec("30"), ChangeType: domain.ChangeInitial},
			{ItemID: kaosMID, QuantityChange: dec("10"), ChangeType: domain.ChangeInitial},
			{ItemID: kemejaLID, QuantityChange: dec("2"), ChangeType: domain.ChangeInitial},
		},
	}
	require.NoError(t, ledger.Seed(f.ctx, admin, cat))
	return f
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// kaosRun is the 40-unit cotton run: 24 M + 16 L with Rp5000/unit printing
func kaosRun() domain.CalculateCommand {
	return domain.CalculateCommand{
		GarmentTypeID: kaosGarID,
		Orders: []domain.GarmentOrderItem{
			{ProductID: kaosMID, Model: "Kaos Polos", Size: "M", Quantity: 24, ColorName: "Hitam", ColorCode: "#000000"},
			{ProductID: kaosLID, Model: "Kaos Polos", Size: "L", Quantity: 16, ColorName: "Hitam", ColorCode: "#000000"},
		},
		AdditionalCosts: []domain.AdditionalCost{{Name: "Sablon", Amount: dec("5000")}},
		ProfitMargin:    dec("30"),
	}
}

func (f *fixture) calculate(t *testing.T, cmd domain.CalculateCommand) domain.HPPResult {
	t.Helper()
	result, err := f.production.Calculate(f.ctx, cmd)
	require.NoError(t, err)
	return *result
}

func (f *fixture) stock(t *testing.T, id string) decimal.Decimal {
	t.Helper()
	var out decimal.Decimal
	err := f.store.View(f.ctx, func(tx repository.Tx) error {
		_, _, stock, err := resolveItem(tx, id)
		out = stock
		return err
	})
	require.NoError(t, err)
	return out
}

func (f *fixture) history(t *testing.T, filter domain.HistoryFilter) []domain.StockHistoryEntry {
	t.Helper()
	entries, err := f.ledger.History(f.ctx, filter)
	require.NoError(t, err)
	return entries
}

func (f *fixture) approvedRequest(t *testing.T) domain.ProductionRequest {
	t.Helper()
	req, err := f.requests.CreateRequest(f.ctx, warehouse, domain.CreateRequestCommand{
		Items: []domain.RequestedItem{{ProductID: kaosMID, Quantity: 24}, {ProductID: kaosLID, Quantity: 16}},
		Notes: "stok menipis",
	})
	require.NoError(t, err)
	approved, err := f.requests.Approve(f.ctx, production, req.ID)
	require.NoError(t, err)
	return *approved
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...any) {
	t.Helper()
	require.Truef(t, dec(want).Equal(got), "want %s, got %s %v", want, got.String(), msgAndArgs)
}
