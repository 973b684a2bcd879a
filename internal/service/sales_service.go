package service

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/andresuchdata/konveksi/backend-go/internal/domain"
	"github.com/andresuchdata/konveksi/backend-go/internal/idgen"
	"github.com/andresuchdata/konveksi/backend-go/internal/repository"
)

// SalesService debits sold finished goods and keeps the sale records
type SalesService struct {
	store    repository.Store
	ids      *idgen.Generator
	ledger   *LedgerService
	notifier ChangeNotifier
}

func NewSalesService(store repository.Store, ids *idgen.Generator, ledger *LedgerService) *SalesService {
	return &SalesService{store: store, ids: ids, ledger: ledger, notifier: noopNotifier{}}
}

// SetNotifier registers who hears about committed changes
func (s *SalesService) SetNotifier(n ChangeNotifier) {
	if n == nil {
		n = noopNotifier{}
	}
	s.notifier = n
}

// RecordSale debits every line in one ledger batch. Unit price defaults to the good's selling price.
func (s *SalesService) RecordSale(ctx context.Context, actor domain.Actor, cmd domain.RecordSaleCommand) (*domain.Sale, error) {
	if err := actor.Authorize(domain.ActionRecordSale); err != nil {
		return nil, err
	}
	if err := validateCommand(cmd); err != nil {
		return nil, err
	}

	var sale domain.Sale
	err := s.store.WithTx(ctx, func(tx repository.Tx) error {
		sale = domain.Sale{
			ID:        s.ids.Document(idgen.PrefixSale),
			CreatedAt: s.ids.Now(),
			SoldBy:    actor.Name,
			Customer:  strings.TrimSpace(cmd.Customer),
			Lines:     make([]domain.SaleLine, 0, len(cmd.Lines)),
			Total:     decimal.Zero,
		}

		debits := make([]domain.StockUpdate, 0, len(cmd.Lines))
		for _, in := range cmd.Lines {
			good, err := tx.FinishedGood(in.ProductID)
			if err != nil {
				return err
			}
			price := good.SellingPrice
			if in.UnitPrice != nil {
				price = *in.UnitPrice
			}
			if price.IsNegative() {
				return domain.InvalidInputf("harga jual %s tidak boleh negatif", good.Name)
			}

			qty := decimal.NewFromInt(int64(in.Quantity))
			line := domain.SaleLine{
				ProductID: good.ID,
				Name:      finishedGoodLabel(good),
				Quantity:  in.Quantity,
				UnitPrice: price,
				Subtotal:  price.Mul(qty),
			}
			sale.Lines = append(sale.Lines, line)
			sale.Total = sale.Total.Add(line.Subtotal)

			note := "Penjualan " + sale.ID
			if sale.Customer != "" {
				note += " ke " + sale.Customer
			}
			debits = append(debits, domain.StockUpdate{
				ItemID:         good.ID,
				QuantityChange: qty.Neg(),
				ChangeType:     domain.ChangeSale,
				Note:           note,
			})
		}

		if _, err := s.ledger.apply(tx, actor, debits); err != nil {
			return err
		}
		return tx.PutSale(sale)
	})
	if err != nil {
		return nil, err
	}

	log.Info().Str("sale_id", sale.ID).Str("total", sale.Total.StringFixed(2)).Int("lines", len(sale.Lines)).Msg("sale recorded")
	s.notifier.StateChanged(ctx)
	return &sale, nil
}

// ListSales returns every recorded sale
func (s *SalesService) ListSales(ctx context.Context) ([]domain.Sale, error) {
	var out []domain.Sale
	err := s.store.View(ctx, func(tx repository.Tx) error {
		out = tx.Sales()
		return nil
	})
	return out, err
}
