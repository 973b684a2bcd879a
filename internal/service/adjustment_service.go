package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/andresuchdata/konveksi/backend-go/internal/domain"
	"github.com/andresuchdata/konveksi/backend-go/internal/idgen"
	"github.com/andresuchdata/konveksi/backend-go/internal/repository"
)

// AdjustmentService runs manual stock corrections through a second-party review
type AdjustmentService struct {
	store    repository.Store
	ids      *idgen.Generator
	ledger   *LedgerService
	notifier ChangeNotifier
}

func NewAdjustmentService(store repository.Store, ids *idgen.Generator, ledger *LedgerService) *AdjustmentService {
	return &AdjustmentService{store: store, ids: ids, ledger: ledger, notifier: noopNotifier{}}
}

// SetNotifier registers who hears about committed changes
func (s *AdjustmentService) SetNotifier(n ChangeNotifier) {
	if n == nil {
		n = noopNotifier{}
	}
	s.notifier = n
}

// Submit records a pending adjustment. Zero deltas are dropped; nothing touches stock yet.
func (s *AdjustmentService) Submit(ctx context.Context, actor domain.Actor, cmd domain.SubmitAdjustmentCommand) (*domain.StockAdjustment, error) {
	if err := actor.Authorize(domain.ActionSubmitAdjustment); err != nil {
		return nil, err
	}
	if err := validateCommand(cmd); err != nil {
		return nil, err
	}
	notes := strings.TrimSpace(cmd.Notes)
	if notes == "" {
		return nil, domain.InvalidInputf("alasan penyesuaian wajib diisi")
	}

	var created domain.StockAdjustment
	err := s.store.WithTx(ctx, func(tx repository.Tx) error {
		items := make([]domain.AdjustmentItem, 0, len(cmd.Items))
		for _, item := range cmd.Items {
			if item.QuantityChange.IsZero() {
				continue
			}
			kind, name, _, err := resolveItem(tx, item.ItemID)
			if err != nil {
				return err
			}
			if kind == domain.ItemFinishedGood && !item.QuantityChange.IsInteger() {
				return domain.InvalidInputf("stok barang jadi %s harus bilangan bulat", name)
			}
			items = append(items, domain.AdjustmentItem{
				ItemID:         item.ItemID,
				ItemKind:       kind,
				Name:           name,
				QuantityChange: item.QuantityChange,
			})
		}
		if len(items) == 0 {
			return domain.InvalidInputf("tidak ada item penyesuaian yang valid")
		}

		created = domain.StockAdjustment{
			ID:          s.ids.Document(idgen.PrefixAdjustment),
			CreatedAt:   s.ids.Now(),
			RequestedBy: actor.Name,
			Items:       items,
			Notes:       notes,
			Status:      domain.AdjustmentPending,
		}
		return tx.PutAdjustment(created)
	})
	if err != nil {
		return nil, err
	}

	log.Info().Str("adjustment_id", created.ID).Int("items", len(created.Items)).Msg("stock adjustment submitted")
	s.notifier.StateChanged(ctx)
	return &created, nil
}

// Review resolves a pending adjustment exactly once. An approval whose batch
// the ledger rejects leaves the adjustment pending and returns the shortage.
func (s *AdjustmentService) Review(ctx context.Context, actor domain.Actor, id string, cmd domain.ReviewAdjustmentCommand) (*domain.StockAdjustment, error) {
	if err := actor.Authorize(domain.ActionReviewAdjustment); err != nil {
		return nil, err
	}
	if err := validateCommand(cmd); err != nil {
		return nil, err
	}
	target, _ := cmd.Decision.Target()

	var reviewed domain.StockAdjustment
	err := s.store.WithTx(ctx, func(tx repository.Tx) error {
		adj, err := tx.Adjustment(id)
		if err != nil {
			return err
		}
		if adj.Status != domain.AdjustmentPending {
			return domain.TransitionError("stock adjustment", id, adj.Status, target)
		}
		if adj.RequestedBy != "" && strings.EqualFold(adj.RequestedBy, actor.Name) {
			return fmt.Errorf("%s cannot review their own adjustment %s: %w", actor.Name, id, domain.ErrForbidden)
		}

		if target == domain.AdjustmentApproved {
			updates := make([]domain.StockUpdate, 0, len(adj.Items))
			for _, item := range adj.Items {
				updates = append(updates, domain.StockUpdate{
					ItemID:         item.ItemID,
					QuantityChange: item.QuantityChange,
					ChangeType:     domain.ChangeAdjustment,
					Note:           fmt.Sprintf("Penyesuaian %s: %s", adj.ID, adj.Notes),
				})
			}
			if _, err := s.ledger.apply(tx, actor, updates); err != nil {
				return err
			}
		}

		now := s.ids.Now()
		adj.Status = target
		adj.ReviewedBy = actor.Name
		adj.ReviewedAt = &now
		adj.ReviewNote = strings.TrimSpace(cmd.Note)
		reviewed = adj
		return tx.PutAdjustment(adj)
	})
	if err != nil {
		log.Warn().Err(err).Str("adjustment_id", id).Str("decision", string(cmd.Decision)).Msg("stock adjustment review failed")
		return nil, err
	}

	log.Info().Str("adjustment_id", id).Str("status", string(reviewed.Status)).Str("reviewer", actor.Name).Msg("stock adjustment reviewed")
	s.notifier.StateChanged(ctx)
	return &reviewed, nil
}

// Get returns one adjustment
func (s *AdjustmentService) Get(ctx context.Context, id string) (*domain.StockAdjustment, error) {
	var out domain.StockAdjustment
	err := s.store.View(ctx, func(tx repository.Tx) error {
		var err error
		out, err = tx.Adjustment(id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// List returns adjustments, optionally only those in status
func (s *AdjustmentService) List(ctx context.Context, status domain.AdjustmentStatus) ([]domain.StockAdjustment, error) {
	out := make([]domain.StockAdjustment, 0)
	err := s.store.View(ctx, func(tx repository.Tx) error {
		for _, a := range tx.Adjustments() {
			if status == "" || a.Status == status {
				out = append(out, a)
			}
		}
		return nil
	})
	return out, err
}
