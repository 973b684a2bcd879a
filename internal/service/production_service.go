package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/andresuchdata/konveksi/backend-go/internal/domain"
	"github.com/andresuchdata/konveksi/backend-go/internal/hpp"
	"github.com/andresuchdata/konveksi/backend-go/internal/idgen"
	"github.com/andresuchdata/konveksi/backend-go/internal/repository"
)

// ProductionService turns cost calculations into committed production runs
// and later receives the finished goods into the warehouse.
type ProductionService struct {
	store    repository.Store
	ids      *idgen.Generator
	ledger   *LedgerService
	calc     *hpp.Calculator
	notifier ChangeNotifier
}

func NewProductionService(store repository.Store, ids *idgen.Generator, ledger *LedgerService, calc *hpp.Calculator) *ProductionService {
	if calc == nil {
		calc = hpp.NewCalculator()
	}
	return &ProductionService{store: store, ids: ids, ledger: ledger, calc: calc, notifier: noopNotifier{}}
}

// SetNotifier registers who hears about committed changes
func (s *ProductionService) SetNotifier(n ChangeNotifier) {
	if n == nil {
		n = noopNotifier{}
	}
	s.notifier = n
}

// Calculate prices a run of a catalogued garment using the current material row
func (s *ProductionService) Calculate(ctx context.Context, cmd domain.CalculateCommand) (*domain.HPPResult, error) {
	if err := validateCommand(cmd); err != nil {
		return nil, err
	}

	var in hpp.Input
	err := s.store.View(ctx, func(tx repository.Tx) error {
		garment, err := tx.GarmentType(cmd.GarmentTypeID)
		if err != nil {
			return err
		}
		material, err := tx.Material(garment.MaterialID)
		if err != nil {
			return err
		}
		in = hpp.InputFor(garment, material, cmd.Orders, cmd.AdditionalCosts, cmd.ProfitMargin)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if cmd.MaterialPrice != nil {
		in.MaterialPrice = *cmd.MaterialPrice
	}

	return s.calc.Calculate(in)
}

// GarmentTypes returns the garment catalog
func (s *ProductionService) GarmentTypes(ctx context.Context) ([]domain.GarmentType, error) {
	var out []domain.GarmentType
	err := s.store.View(ctx, func(tx repository.Tx) error {
		out = tx.GarmentTypes()
		return nil
	})
	return out, err
}

// ConfirmProduction debits the run's material, records the production report
// and, when the run fulfils a request, moves it to completed_production.
// Either all of it happens or none of it.
func (s *ProductionService) ConfirmProduction(ctx context.Context, actor domain.Actor, cmd domain.ConfirmProductionCommand) (*domain.ProductionReport, error) {
	if err := actor.Authorize(domain.ActionConfirmProduct); err != nil {
		return nil, err
	}
	usage, err := validateResult(cmd.HPP)
	if err != nil {
		return nil, err
	}
	requestID := strings.TrimSpace(cmd.SourceRequestID)

	var report domain.ProductionReport
	err = s.store.WithTx(ctx, func(tx repository.Tx) error {
		// 1. The result must be what the catalogue garment would cost
		garment, err := tx.GarmentType(cmd.HPP.GarmentTypeID)
		if err != nil {
			return err
		}
		if err := s.calc.Verify(garment, cmd.HPP); err != nil {
			return err
		}

		// 2. The request must be waiting for production and covered by the run
		if requestID != "" {
			req, err := tx.Request(requestID)
			if err != nil {
				return err
			}
			if !req.Status.CanTransitionTo(domain.RequestCompletedProduction) {
				return domain.TransitionError("production request", requestID, req.Status, domain.RequestCompletedProduction)
			}
			if err := checkCoversRequest(tx, req, cmd.HPP.Orders); err != nil {
				return err
			}
		}

		// 3. Debit the material
		debit := domain.StockUpdate{
			ItemID:         usage.MaterialID,
			QuantityChange: usage.Quantity.Neg(),
			ChangeType:     domain.ChangeOutProduction,
			Note:           fmt.Sprintf("Produksi %s (%d pcs)", cmd.HPP.GarmentName, cmd.HPP.TotalUnits),
		}
		if _, err := s.ledger.apply(tx, actor, []domain.StockUpdate{debit}); err != nil {
			return err
		}

		// 4. Record the report
		id := s.ids.Document(idgen.PrefixReport)
		if requestID != "" {
			id = idgen.ReportIDForRequest(requestID)
		}
		if _, err := tx.Report(id); err == nil {
			return fmt.Errorf("production report %s already exists: %w", id, domain.ErrInvalidStateTransition)
		}
		report = domain.ProductionReport{
			ID:              id,
			CreatedAt:       s.ids.Now(),
			CreatedBy:       actor.Name,
			GarmentType:     cmd.HPP.GarmentName,
			HPP:             cmd.HPP.Clone(),
			SourceRequestID: requestID,
		}
		if err := tx.PutReport(report); err != nil {
			return err
		}

		// 5. Advance the request
		if requestID != "" {
			_, err := advanceRequest(tx, requestID, domain.RequestCompletedProduction, report.CreatedAt, func(r *domain.ProductionRequest) {
				r.ReportID = report.ID
			})
			return err
		}
		return nil
	})
	if err != nil {
		log.Warn().Err(err).Str("material_id", usage.MaterialID).Msg("production: confirmation aborted")
		return nil, err
	}

	log.Info().
		Str("report_id", report.ID).
		Str("request_id", requestID).
		Int("units", report.HPP.TotalUnits).
		Str("hpp_per_unit", report.HPP.HPPPerUnit.StringFixed(2)).
		Msg("production confirmed")
	s.notifier.StateChanged(ctx)
	return &report, nil
}

func validateResult(result domain.HPPResult) (domain.MaterialUsage, error) {
	if result.TotalUnits <= 0 {
		return domain.MaterialUsage{}, domain.InvalidInputf("hasil HPP tanpa unit produksi")
	}
	if len(result.Materials) != 1 {
		return domain.MaterialUsage{}, domain.InvalidInputf("hasil HPP harus memuat tepat satu bahan, ada %d", len(result.Materials))
	}
	usage, _ := result.PrimaryMaterial()
	if usage.MaterialID == "" {
		return domain.MaterialUsage{}, domain.InvalidInputf("hasil HPP tanpa id bahan")
	}
	if !usage.Quantity.IsPositive() {
		return domain.MaterialUsage{}, domain.InvalidInputf("pemakaian bahan harus lebih dari 0")
	}
	units, err := hpp.TotalUnits(result.Orders)
	if err != nil {
		return domain.MaterialUsage{}, err
	}
	if units != result.TotalUnits {
		return domain.MaterialUsage{}, domain.InvalidInputf("total unit %d tidak sesuai baris pesanan (%d)", result.TotalUnits, units)
	}
	return usage, nil
}

// checkCoversRequest requires the run to produce at least the quantity of every requested product
func checkCoversRequest(tx repository.Tx, req domain.ProductionRequest, orders []domain.GarmentOrderItem) error {
	produced := make(map[string]int, len(orders))
	for _, line := range orders {
		good, err := matchFinishedGood(tx, line)
		if err != nil {
			return err
		}
		produced[good.ID] += line.Quantity
	}
	for _, item := range req.Items {
		if produced[item.ProductID] < item.Quantity {
			return domain.InvalidInputf("produksi %s hanya %d pcs, permintaan %s meminta %d pcs",
				item.ProductID, produced[item.ProductID], req.ID, item.Quantity)
		}
	}
	return nil
}

// ReceiveProductionGoods credits the finished goods of a report into the
// warehouse. A report is received once; a second call fails with ErrAlreadyReceived.
func (s *ProductionService) ReceiveProductionGoods(ctx context.Context, actor domain.Actor, reportID string) (*domain.ProductionReport, error) {
	if err := actor.Authorize(domain.ActionReceiveGoods); err != nil {
		return nil, err
	}

	var report domain.ProductionReport
	err := s.store.WithTx(ctx, func(tx repository.Tx) error {
		var err error
		report, err = tx.Report(reportID)
		if err != nil {
			return err
		}
		if report.IsReceivedInWarehouse {
			return fmt.Errorf("report %s: %w", reportID, domain.ErrAlreadyReceived)
		}

		// 1. Credit every order line to its finished good
		credits := make([]domain.StockUpdate, 0, len(report.HPP.Orders))
		goodIDs := make([]string, 0, len(report.HPP.Orders))
		for _, line := range report.HPP.Orders {
			good, err := matchFinishedGood(tx, line)
			if err != nil {
				return err
			}
			credits = append(credits, domain.StockUpdate{
				ItemID:         good.ID,
				QuantityChange: decimal.NewFromInt(int64(line.Quantity)),
				ChangeType:     domain.ChangeInProduction,
				Note:           "Hasil produksi " + report.ID,
			})
			goodIDs = append(goodIDs, good.ID)
		}
		if _, err := s.ledger.apply(tx, actor, credits); err != nil {
			return err
		}

		// 2. Received goods take the run's cost and suggested price
		for _, id := range goodIDs {
			good, err := tx.FinishedGood(id)
			if err != nil {
				return err
			}
			good.HPP = report.HPP.HPPPerUnit
			good.SellingPrice = report.HPP.SellingPricePerUnit
			good.UpdatedAt = s.ids.Now()
			if err := tx.PutFinishedGood(good); err != nil {
				return err
			}
		}

		// 3. Mark the report received, exactly once
		now := s.ids.Now()
		report.IsReceivedInWarehouse = true
		report.ReceivedAt = &now
		report.ReceivedBy = actor.Name
		if err := tx.PutReport(report); err != nil {
			return err
		}

		if report.SourceRequestID != "" {
			if _, err := advanceRequest(tx, report.SourceRequestID, domain.RequestApprovedByWarehouse, now, nil); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.Warn().Err(err).Str("report_id", reportID).Msg("production: receipt failed")
		return nil, err
	}

	log.Info().Str("report_id", report.ID).Int("units", report.HPP.TotalUnits).Msg("production goods received")
	s.notifier.StateChanged(ctx)
	return &report, nil
}

// matchFinishedGood resolves an order line by product id, or else by model, size and color
func matchFinishedGood(tx repository.Tx, line domain.GarmentOrderItem) (domain.FinishedGood, error) {
	if line.ProductID != "" {
		return tx.FinishedGood(line.ProductID)
	}

	for _, g := range tx.FinishedGoods() {
		if !strings.EqualFold(g.Name, line.Model) || !strings.EqualFold(g.Size, line.Size) {
			continue
		}
		if line.ColorCode != "" && g.ColorCode != "" {
			if strings.EqualFold(g.ColorCode, line.ColorCode) {
				return g, nil
			}
			continue
		}
		if strings.EqualFold(g.ColorName, line.ColorName) {
			return g, nil
		}
	}
	return domain.FinishedGood{}, domain.NotFoundf("finished good", fmt.Sprintf("%s/%s/%s", line.Model, line.Size, line.ColorName))
}

// Report returns one production report
func (s *ProductionService) Report(ctx context.Context, id string) (*domain.ProductionReport, error) {
	var out domain.ProductionReport
	err := s.store.View(ctx, func(tx repository.Tx) error {
		var err error
		out, err = tx.Report(id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Reports returns every production report, optionally only those not yet received
func (s *ProductionService) Reports(ctx context.Context, unreceivedOnly bool) ([]domain.ProductionReport, error) {
	out := make([]domain.ProductionReport, 0)
	err := s.store.View(ctx, func(tx repository.Tx) error {
		for _, r := range tx.Reports() {
			if unreceivedOnly && r.IsReceivedInWarehouse {
				continue
			}
			out = append(out, r)
		}
		return nil
	})
	return out, err
}
