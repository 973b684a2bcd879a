// Package memory holds the whole back-office state in process.
package memory

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/semaphore"

	"github.com/andresuchdata/konveksi/backend-go/internal/domain"
	"github.com/andresuchdata/konveksi/backend-go/internal/repository"
)

// ErrReportImmutable is returned when a write would alter a report's HPP result
var ErrReportImmutable = errors.New("memory: production report cost result is immutable")

// Store is an in-memory repository.Store. Writers are serialised; a
// transaction's writes are applied only when its callback succeeds.
// Readers are only blocked while a commit is being applied.
type Store struct {
	writers       *semaphore.Weighted
	mu            sync.RWMutex
	materials     *table[domain.Material]
	finishedGoods *table[domain.FinishedGood]
	garments      *table[domain.GarmentType]
	reports       *table[domain.ProductionReport]
	requests      *table[domain.ProductionRequest]
	adjustments   *table[domain.StockAdjustment]
	sales         *table[domain.Sale]
	history       []domain.StockHistoryEntry
}

// Verify interface compliance
var _ repository.Store = (*Store)(nil)

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{
		writers:       semaphore.NewWeighted(1),
		materials:     newTable[domain.Material](nil),
		finishedGoods: newTable(cloneFinishedGood),
		garments:      newTable[domain.GarmentType](nil),
		reports:       newTable(cloneReport),
		requests:      newTable(cloneRequest),
		adjustments:   newTable(cloneAdjustment),
		sales:         newTable(cloneSale),
	}
}

// WithTx executes fn within a transaction
func (s *Store) WithTx(ctx context.Context, fn func(tx repository.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := s.writers.Acquire(ctx, 1); err != nil {
		return fmt.Errorf("could not acquire writer slot: %w", err)
	}
	defer s.writers.Release(1)

	// Only the writer slot holder mutates the tables, so the base state
	// seen while staging is still current when the commit takes the lock.
	txn := s.begin(false)
	s.mu.RLock()
	err := fn(txn)
	s.mu.RUnlock()
	if err != nil {
		return err
	}

	s.mu.Lock()
	txn.commit()
	s.mu.Unlock()
	return nil
}

// View executes fn against a read-only view
func (s *Store) View(ctx context.Context, fn func(tx repository.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	return fn(s.begin(true))
}

func (s *Store) begin(readOnly bool) *tx {
	return &tx{
		store:         s,
		readOnly:      readOnly,
		materials:     newOverlay(s.materials),
		finishedGoods: newOverlay(s.finishedGoods),
		garments:      newOverlay(s.garments),
		reports:       newOverlay(s.reports),
		requests:      newOverlay(s.requests),
		adjustments:   newOverlay(s.adjustments),
		sales:         newOverlay(s.sales),
	}
}

type tx struct {
	store         *Store
	readOnly      bool
	materials     *overlay[domain.Material]
	finishedGoods *overlay[domain.FinishedGood]
	garments      *overlay[domain.GarmentType]
	reports       *overlay[domain.ProductionReport]
	requests      *overlay[domain.ProductionRequest]
	adjustments   *overlay[domain.StockAdjustment]
	sales         *overlay[domain.Sale]
	history       []domain.StockHistoryEntry
}

func (t *tx) commit() {
	t.materials.commit()
	t.finishedGoods.commit()
	t.garments.commit()
	t.reports.commit()
	t.requests.commit()
	t.adjustments.commit()
	t.sales.commit()
	t.store.history = append(t.store.history, t.history...)
}

func (t *tx) writable() error {
	if t.readOnly {
		return repository.ErrReadOnly
	}
	return nil
}

func (t *tx) Material(id string) (domain.Material, error) {
	m, ok := t.materials.get(id)
	if !ok {
		return domain.Material{}, domain.NotFoundf("material", id)
	}
	return m, nil
}

func (t *tx) Materials() []domain.Material {
	return t.materials.list()
}

func (t *tx) PutMaterial(m domain.Material) error {
	if err := t.writable(); err != nil {
		return err
	}
	current, exists := t.materials.get(m.ID)
	if err := checkStockUntouched(exists, current.Stock, m.Stock); err != nil {
		return fmt.Errorf("material %s: %w", m.ID, err)
	}
	t.materials.put(m.ID, m)
	return nil
}

func (t *tx) FinishedGood(id string) (domain.FinishedGood, error) {
	g, ok := t.finishedGoods.get(id)
	if !ok {
		return domain.FinishedGood{}, domain.NotFoundf("finished good", id)
	}
	return g, nil
}

func (t *tx) FinishedGoods() []domain.FinishedGood {
	return t.finishedGoods.list()
}

func (t *tx) PutFinishedGood(g domain.FinishedGood) error {
	if err := t.writable(); err != nil {
		return err
	}
	current, exists := t.finishedGoods.get(g.ID)
	if err := checkStockUntouched(exists, current.Stock, g.Stock); err != nil {
		return fmt.Errorf("finished good %s: %w", g.ID, err)
	}
	t.finishedGoods.put(g.ID, g)
	return nil
}

func checkStockUntouched(exists bool, current, next decimal.Decimal) error {
	if !exists && !next.IsZero() {
		return repository.ErrStockOwnedByLedger
	}
	if exists && !current.Equal(next) {
		return repository.ErrStockOwnedByLedger
	}
	return nil
}

func (t *tx) SetStock(kind domain.ItemKind, id string, stock decimal.Decimal) error {
	if err := t.writable(); err != nil {
		return err
	}
	switch kind {
	case domain.ItemMaterial:
		m, ok := t.materials.get(id)
		if !ok {
			return domain.NotFoundf("material", id)
		}
		m.Stock = stock
		t.materials.put(id, m)
	case domain.ItemFinishedGood:
		g, ok := t.finishedGoods.get(id)
		if !ok {
			return domain.NotFoundf("finished good", id)
		}
		g.Stock = stock
		t.finishedGoods.put(id, g)
	default:
		return domain.InvalidInputf("unknown item kind %q", kind)
	}
	return nil
}

func (t *tx) AppendHistory(entries ...domain.StockHistoryEntry) error {
	if err := t.writable(); err != nil {
		return err
	}
	t.history = append(t.history, entries...)
	return nil
}

// History returns matching entries newest first
func (t *tx) History(filter domain.HistoryFilter) []domain.StockHistoryEntry {
	all := make([]domain.StockHistoryEntry, 0, len(t.store.history)+len(t.history))
	all = append(all, t.store.history...)
	all = append(all, t.history...)

	out := make([]domain.StockHistoryEntry, 0)
	for i := len(all) - 1; i >= 0; i-- {
		entry := all[i]
		if filter.ItemID != "" && entry.ItemID != filter.ItemID {
			continue
		}
		if filter.ChangeType != "" && entry.ChangeType != filter.ChangeType {
			continue
		}
		out = append(out, entry)
		if filter.Limit > 0 && len(out) == filter.Limit {
			break
		}
	}
	return out
}

func (t *tx) GarmentType(id string) (domain.GarmentType, error) {
	g, ok := t.garments.get(id)
	if !ok {
		return domain.GarmentType{}, domain.NotFoundf("garment type", id)
	}
	return g, nil
}

func (t *tx) GarmentTypes() []domain.GarmentType {
	return t.garments.list()
}

func (t *tx) PutGarmentType(g domain.GarmentType) error {
	if err := t.writable(); err != nil {
		return err
	}
	t.garments.put(g.ID, g)
	return nil
}

func (t *tx) Report(id string) (domain.ProductionReport, error) {
	r, ok := t.reports.get(id)
	if !ok {
		return domain.ProductionReport{}, domain.NotFoundf("production report", id)
	}
	return r, nil
}

func (t *tx) Reports() []domain.ProductionReport {
	return t.reports.list()
}

func (t *tx) PutReport(r domain.ProductionReport) error {
	if err := t.writable(); err != nil {
		return err
	}
	if current, exists := t.reports.get(r.ID); exists && !reflect.DeepEqual(current.HPP, r.HPP) {
		return fmt.Errorf("report %s: %w", r.ID, ErrReportImmutable)
	}
	t.reports.put(r.ID, r)
	return nil
}

func (t *tx) Request(id string) (domain.ProductionRequest, error) {
	r, ok := t.requests.get(id)
	if !ok {
		return domain.ProductionRequest{}, domain.NotFoundf("production request", id)
	}
	return r, nil
}

func (t *tx) Requests() []domain.ProductionRequest {
	return t.requests.list()
}

func (t *tx) PutRequest(r domain.ProductionRequest) error {
	if err := t.writable(); err != nil {
		return err
	}
	t.requests.put(r.ID, r)
	return nil
}

func (t *tx) Adjustment(id string) (domain.StockAdjustment, error) {
	a, ok := t.adjustments.get(id)
	if !ok {
		return domain.StockAdjustment{}, domain.NotFoundf("stock adjustment", id)
	}
	return a, nil
}

func (t *tx) Adjustments() []domain.StockAdjustment {
	return t.adjustments.list()
}

func (t *tx) PutAdjustment(a domain.StockAdjustment) error {
	if err := t.writable(); err != nil {
		return err
	}
	t.adjustments.put(a.ID, a)
	return nil
}

func (t *tx) Sales() []domain.Sale {
	return t.sales.list()
}

func (t *tx) PutSale(s domain.Sale) error {
	if err := t.writable(); err != nil {
		return err
	}
	t.sales.put(s.ID, s)
	return nil
}

func cloneFinishedGood(g domain.FinishedGood) domain.FinishedGood {
	g.ImageURLs = append([]string(nil), g.ImageURLs...)
	return g
}

func cloneReport(r domain.ProductionReport) domain.ProductionReport {
	r.HPP = r.HPP.Clone()
	return r
}

func cloneRequest(r domain.ProductionRequest) domain.ProductionRequest {
	r.Items = append([]domain.RequestedItem(nil), r.Items...)
	return r
}

func cloneAdjustment(a domain.StockAdjustment) domain.StockAdjustment {
	a.Items = append([]domain.AdjustmentItem(nil), a.Items...)
	return a
}

func cloneSale(s domain.Sale) domain.Sale {
	s.Lines = append([]domain.SaleLine(nil), s.Lines...)
	return s
}
