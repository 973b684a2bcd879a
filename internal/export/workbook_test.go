package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/andresuchdata/konveksi/backend-go/internal/domain"
)

func sampleSnapshot() Snapshot {
	at := time.Date(2024, 8, 15, 9, 30, 0, 0, time.UTC)
	return Snapshot{
		GeneratedAt: at,
		Materials: []domain.Material{
			{ID: "MAT-COTTON", Name: "Cotton", Unit: domain.UnitKg, PriceUnit: domain.UnitKg, Stock: decimal.NewFromInt(92), PricePerUnit: decimal.NewFromInt(50000)},
		},
		FinishedGoods: []domain.FinishedGood{
			{ID: "FG-1", Name: "Kaos Polos", Size: "M", ColorName: "Hitam", Stock: decimal.NewFromInt(24), HPP: decimal.NewFromInt(15000), SellingPrice: decimal.NewFromInt(19500)},
		},
		History: []domain.StockHistoryEntry{
			{ID: 1820000000000000001, ItemID: "MAT-COTTON", ItemName: "Cotton", ItemKind: domain.ItemMaterial, ChangeType: domain.ChangeOutProduction,
				QuantityChange: decimal.NewFromInt(-8), FinalStock: decimal.NewFromInt(92), Actor: "budi", Timestamp: at},
		},
		Reports: []domain.ProductionReport{
			{ID: "PROD-20240815-K3F9", CreatedAt: at, CreatedBy: "budi", GarmentType: "Kaos Polos",
				HPP: domain.HPPResult{TotalUnits: 40, TotalProductionCost: decimal.NewFromInt(600000), HPPPerUnit: decimal.NewFromInt(15000)}},
		},
	}
}

func TestWriteProducesAllSheets(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, sampleSnapshot()))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetMaterials, SheetFinishedGoods, SheetStockHistory, SheetReports}, f.GetSheetList())

	rows, err := f.GetRows(SheetMaterials)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "ID", rows[0][0])
	assert.Equal(t, "MAT-COTTON", rows[1][0])
	assert.Equal(t, "92", rows[1][3])

	history, err := f.GetRows(SheetStockHistory)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "1820000000000000001", history[1][0], "snowflake ids stay exact")
	assert.Equal(t, "out-production", history[1][5])
	assert.Equal(t, "-8", history[1][6])

	reports, err := f.GetRows(SheetReports)
	require.NoError(t, err)
	require.Len(t, reports, 2)
	assert.Equal(t, "PROD-20240815-K3F9", reports[1][0])
	assert.Equal(t, "40", reports[1][4])
	assert.Equal(t, "Belum", reports[1][10])
}

func TestBytesOnEmptySnapshot(t *testing.T) {
	data, err := Bytes(Snapshot{GeneratedAt: time.Now()})
	require.NoError(t, err)
	require.NotEmpty(t, data)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(SheetFinishedGoods)
	require.NoError(t, err)
	require.Len(t, rows, 1, "header only")
	assert.Equal(t, "Harga Jual", rows[0][7])
}
