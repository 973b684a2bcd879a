package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/andresuchdata/konveksi/backend-go/internal/domain"
	"github.com/andresuchdata/konveksi/backend-go/internal/idgen"
	"github.com/andresuchdata/konveksi/backend-go/internal/repository"
)

// LedgerService is the only writer of material and finished-good stock.
// Every batch is all-or-nothing and every applied line leaves one history entry.
type LedgerService struct {
	store    repository.Store
	ids      *idgen.Generator
	notifier ChangeNotifier
}

func NewLedgerService(store repository.Store, ids *idgen.Generator) *LedgerService {
	return &LedgerService{store: store, ids: ids, notifier: noopNotifier{}}
}

// SetNotifier registers who hears about committed batches
func (s *LedgerService) SetNotifier(n ChangeNotifier) {
	if n == nil {
		n = noopNotifier{}
	}
	s.notifier = n
}

// ApplyStockChanges validates and applies a batch in one transaction
func (s *LedgerService) ApplyStockChanges(ctx context.Context, actor domain.Actor, updates []domain.StockUpdate) ([]domain.StockHistoryEntry, error) {
	if err := actor.Authorize(domain.ActionPostStock); err != nil {
		return nil, err
	}

	var entries []domain.StockHistoryEntry
	err := s.store.WithTx(ctx, func(tx repository.Tx) error {
		var err error
		entries, err = s.apply(tx, actor, updates)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.notifier.StateChanged(ctx)
	return entries, nil
}

type plannedLine struct {
	update domain.StockUpdate
	kind   domain.ItemKind
	name   string
	after  decimal.Decimal
}

// apply runs inside the caller's transaction so that stock writes commit
// together with whatever record the caller writes.
func (s *LedgerService) apply(tx repository.Tx, actor domain.Actor, updates []domain.StockUpdate) ([]domain.StockHistoryEntry, error) {
	if len(updates) == 0 {
		return nil, domain.InvalidInputf("batch stok kosong")
	}

	// 1. Validate the whole batch against running balances, in submission order
	running := make(map[string]decimal.Decimal, len(updates))
	plan := make([]plannedLine, 0, len(updates))
	for i, u := range updates {
		if u.ItemID == "" {
			return nil, domain.InvalidInputf("baris %d: item id wajib diisi", i+1)
		}
		if u.QuantityChange.IsZero() {
			return nil, domain.InvalidInputf("baris %d: perubahan jumlah tidak boleh 0", i+1)
		}
		if !u.ChangeType.IsValid() {
			return nil, domain.InvalidInputf("baris %d: jenis perubahan %q tidak dikenal", i+1, u.ChangeType)
		}

		kind, name, current, err := resolveItem(tx, u.ItemID)
		if err != nil {
			log.Error().Err(err).Str("item_id", u.ItemID).Msg("ledger: unknown item in batch")
			return nil, err
		}
		if kind == domain.ItemFinishedGood && !u.QuantityChange.IsInteger() {
			return nil, domain.InvalidInputf("baris %d: stok barang jadi %s harus bilangan bulat", i+1, name)
		}

		balance, seen := running[u.ItemID]
		if !seen {
			balance = current
		}
		next := balance.Add(u.QuantityChange)
		if next.IsNegative() {
			shortErr := &domain.InsufficientStockError{
				ItemID:    u.ItemID,
				ItemName:  name,
				Available: balance,
				Requested: u.QuantityChange.Neg(),
			}
			log.Warn().
				Str("item_id", u.ItemID).
				Str("available", balance.String()).
				Str("requested", shortErr.Requested.String()).
				Msg("ledger: batch rejected, insufficient stock")
			return nil, shortErr
		}

		running[u.ItemID] = next
		plan = append(plan, plannedLine{update: u, kind: kind, name: name, after: next})
	}

	// 2. Apply every line and record its history entry
	now := s.ids.Now()
	entries := make([]domain.StockHistoryEntry, 0, len(plan))
	for _, line := range plan {
		if err := tx.SetStock(line.kind, line.update.ItemID, line.after); err != nil {
			return nil, err
		}
		entries = append(entries, domain.StockHistoryEntry{
			ID:             s.ids.EntryID(),
			ItemID:         line.update.ItemID,
			ItemName:       line.name,
			ItemKind:       line.kind,
			ChangeType:     line.update.ChangeType,
			QuantityChange: line.update.QuantityChange,
			FinalStock:     line.after,
			Note:           line.update.Note,
			Actor:          actor.Name,
			Timestamp:      now,
		})
	}
	if err := tx.AppendHistory(entries...); err != nil {
		return nil, err
	}

	log.Info().Int("lines", len(entries)).Str("actor", actor.Name).Msg("ledger: batch applied")
	return entries, nil
}

// resolveItem looks the id up in materials first, then in finished goods
func resolveItem(tx repository.Tx, id string) (domain.ItemKind, string, decimal.Decimal, error) {
	m, err := tx.Material(id)
	if err == nil {
		return domain.ItemMaterial, m.Name, m.Stock, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return "", "", decimal.Zero, err
	}

	g, err := tx.FinishedGood(id)
	if err == nil {
		return domain.ItemFinishedGood, finishedGoodLabel(g), g.Stock, nil
	}
	if errors.Is(err, domain.ErrNotFound) {
		return "", "", decimal.Zero, domain.NotFoundf("stock item", id)
	}
	return "", "", decimal.Zero, err
}

func finishedGoodLabel(g domain.FinishedGood) string {
	label := g.Name
	if g.Size != "" {
		label += " " + g.Size
	}
	if g.ColorName != "" {
		label += " " + g.ColorName
	}
	return label
}

// Materials returns every material row
func (s *LedgerService) Materials(ctx context.Context) ([]domain.Material, error) {
	var out []domain.Material
	err := s.store.View(ctx, func(tx repository.Tx) error {
		out = tx.Materials()
		return nil
	})
	return out, err
}

// FinishedGoods returns every finished good row
func (s *LedgerService) FinishedGoods(ctx context.Context) ([]domain.FinishedGood, error) {
	var out []domain.FinishedGood
	err := s.store.View(ctx, func(tx repository.Tx) error {
		out = tx.FinishedGoods()
		return nil
	})
	return out, err
}

// History returns stock history newest first
func (s *LedgerService) History(ctx context.Context, filter domain.HistoryFilter) ([]domain.StockHistoryEntry, error) {
	var out []domain.StockHistoryEntry
	err := s.store.View(ctx, func(tx repository.Tx) error {
		out = tx.History(filter)
		return nil
	})
	return out, err
}
