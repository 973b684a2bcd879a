package service

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/andresuchdata/konveksi/backend-go/internal/domain"
	"github.com/andresuchdata/konveksi/backend-go/internal/idgen"
	"github.com/andresuchdata/konveksi/backend-go/internal/repository"
)

// RequestService runs the production request workflow:
// pending -> approved_by_production -> completed_production -> approved_by_warehouse,
// or pending -> rejected.
type RequestService struct {
	store      repository.Store
	ids        *idgen.Generator
	production *ProductionService
	notifier   ChangeNotifier
}

func NewRequestService(store repository.Store, ids *idgen.Generator, production *ProductionService) *RequestService {
	return &RequestService{store: store, ids: ids, production: production, notifier: noopNotifier{}}
}

// SetNotifier registers who hears about committed changes
func (s *RequestService) SetNotifier(n ChangeNotifier) {
	if n == nil {
		n = noopNotifier{}
	}
	s.notifier = n
}

// CreateRequest records a warehouse ask for more finished goods
func (s *RequestService) CreateRequest(ctx context.Context, actor domain.Actor, cmd domain.CreateRequestCommand) (*domain.ProductionRequest, error) {
	if err := actor.Authorize(domain.ActionCreateRequest); err != nil {
		return nil, err
	}
	if err := validateCommand(cmd); err != nil {
		return nil, err
	}

	var created domain.ProductionRequest
	err := s.store.WithTx(ctx, func(tx repository.Tx) error {
		items := make([]domain.RequestedItem, 0, len(cmd.Items))
		for _, item := range cmd.Items {
			good, err := tx.FinishedGood(item.ProductID)
			if err != nil {
				return err
			}
			items = append(items, domain.RequestedItem{
				ProductID: good.ID,
				Name:      finishedGoodLabel(good),
				Quantity:  item.Quantity,
			})
		}

		created = domain.ProductionRequest{
			ID:          s.ids.Document(idgen.PrefixRequest),
			CreatedAt:   s.ids.Now(),
			RequestedBy: actor.Name,
			Items:       items,
			Notes:       strings.TrimSpace(cmd.Notes),
			Status:      domain.RequestPending,
		}
		return tx.PutRequest(created)
	})
	if err != nil {
		return nil, err
	}

	log.Info().Str("request_id", created.ID).Int("items", len(created.Items)).Msg("production request created")
	s.notifier.StateChanged(ctx)
	return &created, nil
}

// Approve moves a pending request to approved_by_production
func (s *RequestService) Approve(ctx context.Context, actor domain.Actor, id string) (*domain.ProductionRequest, error) {
	if err := actor.Authorize(domain.ActionApproveRequest); err != nil {
		return nil, err
	}
	return s.transition(ctx, id, domain.RequestApprovedByProduction, nil)
}

// Reject closes a pending request for good
func (s *RequestService) Reject(ctx context.Context, actor domain.Actor, id string, cmd domain.RejectRequestCommand) (*domain.ProductionRequest, error) {
	if err := actor.Authorize(domain.ActionRejectRequest); err != nil {
		return nil, err
	}
	reason := strings.TrimSpace(cmd.Reason)
	return s.transition(ctx, id, domain.RequestRejected, func(r *domain.ProductionRequest) {
		r.RejectReason = reason
	})
}

// Fulfill confirms a production run against an approved request
func (s *RequestService) Fulfill(ctx context.Context, actor domain.Actor, id string, hpp domain.HPPResult) (*domain.ProductionReport, error) {
	return s.production.ConfirmProduction(ctx, actor, domain.ConfirmProductionCommand{HPP: hpp, SourceRequestID: id})
}

func (s *RequestService) transition(ctx context.Context, id string, next domain.RequestStatus, mutate func(*domain.ProductionRequest)) (*domain.ProductionRequest, error) {
	var updated domain.ProductionRequest
	err := s.store.WithTx(ctx, func(tx repository.Tx) error {
		var err error
		updated, err = advanceRequest(tx, id, next, s.ids.Now(), mutate)
		return err
	})
	if err != nil {
		return nil, err
	}

	log.Info().Str("request_id", id).Str("status", string(next)).Msg("production request updated")
	s.notifier.StateChanged(ctx)
	return &updated, nil
}

// Get returns one request
func (s *RequestService) Get(ctx context.Context, id string) (*domain.ProductionRequest, error) {
	var out domain.ProductionRequest
	err := s.store.View(ctx, func(tx repository.Tx) error {
		var err error
		out, err = tx.Request(id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// List returns requests, optionally only those in status
func (s *RequestService) List(ctx context.Context, status domain.RequestStatus) ([]domain.ProductionRequest, error) {
	out := make([]domain.ProductionRequest, 0)
	err := s.store.View(ctx, func(tx repository.Tx) error {
		for _, r := range tx.Requests() {
			if status == "" || r.Status == status {
				out = append(out, r)
			}
		}
		return nil
	})
	return out, err
}

// advanceRequest moves a request one step along its transition table and
// stamps the time of the step. It writes inside the caller's transaction.
func advanceRequest(tx repository.Tx, id string, next domain.RequestStatus, now time.Time, mutate func(*domain.ProductionRequest)) (domain.ProductionRequest, error) {
	req, err := tx.Request(id)
	if err != nil {
		return domain.ProductionRequest{}, err
	}
	if !req.Status.CanTransitionTo(next) {
		return domain.ProductionRequest{}, domain.TransitionError("production request", id, req.Status, next)
	}

	req.Status = next
	switch next {
	case domain.RequestApprovedByProduction:
		req.ApprovedByProductionAt = &now
	case domain.RequestCompletedProduction:
		req.CompletedProductionAt = &now
	case domain.RequestApprovedByWarehouse:
		req.ApprovedByWarehouseAt = &now
	case domain.RequestRejected:
		req.RejectedAt = &now
	}
	if mutate != nil {
		mutate(&req)
	}

	if err := tx.PutRequest(req); err != nil {
		return domain.ProductionRequest{}, err
	}
	return req, nil
}
