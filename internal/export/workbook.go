// Package export lays the stock state out as an XLSX workbook.
package export

import (
	"bytes"
	"fmt"
	"io"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/andresuchdata/konveksi/backend-go/internal/domain"
)

const (
	SheetMaterials     = "Materials"
	SheetFinishedGoods = "FinishedGoods"
	SheetStockHistory  = "StockHistory"
	SheetReports       = "ProductionReports"

	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	timeLayout = "2006-01-02 15:04:05"
)

// Snapshot is the state a workbook is built from
type Snapshot struct {
	Materials     []domain.Material
	FinishedGoods []domain.FinishedGood
	History       []domain.StockHistoryEntry
	Reports       []domain.ProductionReport
	GeneratedAt   time.Time
}

type sheet struct {
	name    string
	headers []string
	rows    [][]any
}

// Build renders the snapshot into a new workbook. The caller closes it.
func Build(snap Snapshot) (*excelize.File, error) {
	f := excelize.NewFile()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
	})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("create header style: %w", err)
	}

	for i, sh := range sheets(snap) {
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), sh.name); err != nil {
				f.Close()
				return nil, fmt.Errorf("rename sheet: %w", err)
			}
		} else if _, err := f.NewSheet(sh.name); err != nil {
			f.Close()
			return nil, fmt.Errorf("create sheet %s: %w", sh.name, err)
		}
		if err := writeSheet(f, sh, headerStyle); err != nil {
			f.Close()
			return nil, err
		}
	}
	f.SetActiveSheet(0)
	if err := f.SetDocProps(&excelize.DocProperties{
		Title:   "Laporan Stok Konveksi",
		Created: snap.GeneratedAt.UTC().Format(time.RFC3339),
	}); err != nil {
		f.Close()
		return nil, fmt.Errorf("set workbook properties: %w", err)
	}

	return f, nil
}

// Write renders the snapshot straight into w
func Write(w io.Writer, snap Snapshot) error {
	f, err := Build(snap)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// Bytes renders the snapshot into memory, for uploads
func Bytes(snap Snapshot) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(&buf, snap); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeSheet(f *excelize.File, sh sheet, headerStyle int) error {
	header := make([]any, len(sh.headers))
	for i, h := range sh.headers {
		header[i] = h
	}
	if err := f.SetSheetRow(sh.name, "A1", &header); err != nil {
		return fmt.Errorf("write %s header: %w", sh.name, err)
	}

	last, err := excelize.CoordinatesToCellName(len(sh.headers), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sh.name, "A1", last, headerStyle); err != nil {
		return fmt.Errorf("style %s header: %w", sh.name, err)
	}

	for i, row := range sh.rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sh.name, cell, &row); err != nil {
			return fmt.Errorf("write %s row %d: %w", sh.name, i+2, err)
		}
	}

	if err := f.SetPanes(sh.name, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"}); err != nil {
		return fmt.Errorf("freeze %s header: %w", sh.name, err)
	}
	return nil
}

func sheets(snap Snapshot) []sheet {
	materials := sheet{
		name:    SheetMaterials,
		headers: []string{"ID", "Nama", "Satuan", "Stok", "Satuan Harga", "Harga", "Faktor Roll", "Stok Minimum"},
	}
	for _, m := range snap.Materials {
		materials.rows = append(materials.rows, []any{
			m.ID, m.Name, string(m.Unit), num(m.Stock), string(m.PriceUnit), num(m.PricePerUnit), num(m.RollToBaseFactor), num(m.MinStock),
		})
	}

	goods := sheet{
		name:    SheetFinishedGoods,
		headers: []string{"ID", "Model", "Ukuran", "Warna", "Kode Warna", "Stok", "HPP", "Harga Jual"},
	}
	for _, g := range snap.FinishedGoods {
		goods.rows = append(goods.rows, []any{
			g.ID, g.Name, g.Size, g.ColorName, g.ColorCode, num(g.Stock), num(g.HPP), num(g.SellingPrice),
		})
	}

	history := sheet{
		name:    SheetStockHistory,
		headers: []string{"ID", "Waktu", "Item", "Nama Item", "Jenis Item", "Jenis Perubahan", "Perubahan", "Stok Akhir", "Catatan", "Oleh"},
	}
	for _, h := range snap.History {
		history.rows = append(history.rows, []any{
			fmt.Sprint(h.ID), h.Timestamp.Format(timeLayout), h.ItemID, h.ItemName, string(h.ItemKind), string(h.ChangeType),
			num(h.QuantityChange), num(h.FinalStock), h.Note, h.Actor,
		})
	}

	reports := sheet{
		name:    SheetReports,
		headers: []string{"ID", "Tanggal", "Dibuat Oleh", "Jenis Pakaian", "Total Unit", "Biaya Bahan", "Biaya Tambahan", "Total Biaya", "HPP/Unit", "Harga Jual/Unit", "Diterima Gudang", "Permintaan"},
	}
	for _, r := range snap.Reports {
		received := "Belum"
		if r.IsReceivedInWarehouse {
			received = "Sudah"
		}
		reports.rows = append(reports.rows, []any{
			r.ID, r.CreatedAt.Format(timeLayout), r.CreatedBy, r.GarmentType, r.HPP.TotalUnits,
			num(r.HPP.TotalMaterialCost), num(r.HPP.TotalAdditionalCost), num(r.HPP.TotalProductionCost),
			num(r.HPP.HPPPerUnit.Round(2)), num(r.HPP.SellingPricePerUnit.Round(2)), received, r.SourceRequestID,
		})
	}

	return []sheet{materials, goods, history, reports}
}

func num(d decimal.Decimal) float64 {
	return d.InexactFloat64()
}
