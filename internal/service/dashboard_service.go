package service

import (
	"context"
	"sort"
	"sync/atomic"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/singleflight"

	"github.com/andresuchdata/konveksi/backend-go/internal/cache"
	"github.com/andresuchdata/konveksi/backend-go/internal/domain"
	"github.com/andresuchdata/konveksi/backend-go/internal/idgen"
	"github.com/andresuchdata/konveksi/backend-go/internal/repository"
)

const dashboardFlightKey = "summary"

var requestStatusOrder = []domain.RequestStatus{
	domain.RequestPending,
	domain.RequestApprovedByProduction,
	domain.RequestCompletedProduction,
	domain.RequestApprovedByWarehouse,
	domain.RequestRejected,
}

// DashboardService aggregates the summary cards. It is also the
// ChangeNotifier of the other services: every commit drops the cached summary.
type DashboardService struct {
	store  repository.Store
	ids    *idgen.Generator
	cache  cache.DashboardSummaryCache
	flight singleflight.Group

	// generation counts StateChanged calls; a summary computed under an
	// older generation is never left in the cache
	generation atomic.Uint64
}

func NewDashboardService(store repository.Store, ids *idgen.Generator, summaryCache cache.DashboardSummaryCache) *DashboardService {
	if summaryCache == nil {
		summaryCache = cache.NewNoopDashboardCache()
	}
	return &DashboardService{store: store, ids: ids, cache: summaryCache}
}

// StateChanged invalidates the cached summary
func (s *DashboardService) StateChanged(ctx context.Context) {
	s.generation.Add(1)
	s.flight.Forget(dashboardFlightKey)
	if err := s.cache.InvalidateAll(ctx); err != nil {
		log.Warn().Err(err).Msg("dashboard: cache invalidation failed")
	}
}

// Summary returns the cached summary or computes it once for all concurrent callers
func (s *DashboardService) Summary(ctx context.Context) (*domain.DashboardSummary, error) {
	if cached, ok, err := s.cache.GetSummary(ctx); err != nil {
		log.Warn().Err(err).Msg("dashboard: cache read failed")
	} else if ok {
		return cached, nil
	}

	v, err, shared := s.flight.Do(dashboardFlightKey, func() (any, error) {
		gen := s.generation.Load()
		summary, err := s.compute(ctx)
		if err != nil {
			return nil, err
		}
		s.cacheSummary(ctx, gen, summary)
		return summary, nil
	})
	if err != nil {
		return nil, err
	}
	log.Debug().Bool("shared", shared).Msg("dashboard summary computed")

	out := *v.(*domain.DashboardSummary)
	return &out, nil
}

// cacheSummary caches a summary computed at generation gen, unless a commit has
// landed since. A commit racing the write itself drops the entry again.
func (s *DashboardService) cacheSummary(ctx context.Context, gen uint64, summary *domain.DashboardSummary) {
	if s.generation.Load() != gen {
		log.Debug().Msg("dashboard: state changed while computing, summary not cached")
		return
	}
	if err := s.cache.SetSummary(ctx, summary); err != nil {
		log.Warn().Err(err).Msg("dashboard: cache write failed")
	}
	if s.generation.Load() != gen {
		if err := s.cache.InvalidateAll(ctx); err != nil {
			log.Warn().Err(err).Msg("dashboard: cache invalidation failed")
		}
	}
}

func (s *DashboardService) compute(ctx context.Context) (*domain.DashboardSummary, error) {
	summary := &domain.DashboardSummary{
		MaterialStockValue: decimal.Zero,
		FinishedGoodsValue: decimal.Zero,
		FinishedGoodsUnits: decimal.Zero,
		LowStockMaterials:  make([]domain.LowStockMaterial, 0),
		SalesRevenue:       decimal.Zero,
		GeneratedAt:        s.ids.Now(),
	}

	err := s.store.View(ctx, func(tx repository.Tx) error {
		for _, m := range tx.Materials() {
			summary.MaterialStockValue = summary.MaterialStockValue.Add(m.Stock.Mul(basePrice(m)))
			if m.MinStock.IsPositive() && m.Stock.LessThan(m.MinStock) {
				summary.LowStockMaterials = append(summary.LowStockMaterials, domain.LowStockMaterial{
					MaterialID: m.ID,
					Name:       m.Name,
					Unit:       m.Unit,
					Stock:      m.Stock,
					MinStock:   m.MinStock,
				})
			}
		}
		sort.SliceStable(summary.LowStockMaterials, func(i, j int) bool {
			return summary.LowStockMaterials[i].Stock.LessThan(summary.LowStockMaterials[j].Stock)
		})

		for _, g := range tx.FinishedGoods() {
			summary.FinishedGoodsUnits = summary.FinishedGoodsUnits.Add(g.Stock)
			summary.FinishedGoodsValue = summary.FinishedGoodsValue.Add(g.Stock.Mul(g.HPP))
		}

		counts := make(map[domain.RequestStatus]int, len(requestStatusOrder))
		for _, r := range tx.Requests() {
			counts[r.Status]++
		}
		summary.RequestsByStatus = make([]domain.RequestStatusCount, 0, len(requestStatusOrder))
		for _, status := range requestStatusOrder {
			summary.RequestsByStatus = append(summary.RequestsByStatus, domain.RequestStatusCount{
				Status: status,
				Label:  domain.RequestStatusLabel(status),
				Count:  counts[status],
			})
		}

		for _, a := range tx.Adjustments() {
			if a.Status == domain.AdjustmentPending {
				summary.PendingAdjustments++
			}
		}

		reports := tx.Reports()
		summary.ProductionReportsTotal = len(reports)
		for _, r := range reports {
			if !r.IsReceivedInWarehouse {
				summary.UnreceivedReports++
			}
		}

		sales := tx.Sales()
		summary.SalesCount = len(sales)
		for _, sale := range sales {
			summary.SalesRevenue = summary.SalesRevenue.Add(sale.Total)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return summary, nil
}

// basePrice is the material price per stock unit
func basePrice(m domain.Material) decimal.Decimal {
	if m.PriceUnit == domain.UnitRoll && m.Unit != domain.UnitRoll && m.RollToBaseFactor.IsPositive() {
		return m.PricePerUnit.Div(m.RollToBaseFactor)
	}
	return m.PricePerUnit
}
