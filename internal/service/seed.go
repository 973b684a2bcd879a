package service

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/andresuchdata/konveksi/backend-go/internal/domain"
	"github.com/andresuchdata/konveksi/backend-go/internal/repository"
	"github.com/andresuchdata/konveksi/backend-go/internal/seed"
)

// Seed registers the catalog rows and posts their opening stock as
// `initial` ledger entries, all in one transaction.
func (s *LedgerService) Seed(ctx context.Context, actor domain.Actor, cat *seed.Catalog) error {
	if err := actor.Authorize(domain.ActionPostStock); err != nil {
		return err
	}
	if cat == nil {
		return nil
	}

	err := s.store.WithTx(ctx, func(tx repository.Tx) error {
		now := s.ids.Now()
		for _, m := range cat.Materials {
			m.CreatedAt, m.UpdatedAt = now, now
			if err := tx.PutMaterial(m); err != nil {
				return err
			}
		}
		for _, g := range cat.FinishedGoods {
			g.CreatedAt, g.UpdatedAt = now, now
			if err := tx.PutFinishedGood(g); err != nil {
				return err
			}
		}
		for _, g := range cat.Garments {
			if err := tx.PutGarmentType(g); err != nil {
				return err
			}
		}
		if len(cat.Opening) == 0 {
			return nil
		}
		_, err := s.apply(tx, actor, cat.Opening)
		return err
	})
	if err != nil {
		return err
	}

	log.Info().
		Int("materials", len(cat.Materials)).
		Int("finished_goods", len(cat.FinishedGoods)).
		Int("garments", len(cat.Garments)).
		Int("opening_lines", len(cat.Opening)).
		Msg("catalog seeded")
	s.notifier.StateChanged(ctx)
	return nil
}
