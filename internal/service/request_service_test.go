package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andresuchdata/konveksi/backend-go/internal/domain"
)

func TestRequestWorkflow_FullCycle(t *testing.T) {
	f := newFixture(t)

	created, err := f.requests.CreateRequest(f.ctx, warehouse, domain.CreateRequestCommand{
		Items: []domain.RequestedItem{{ProductID: kaosMID, Quantity: 24}, {ProductID: kaosLID, Quantity: 16}},
		Notes: "  stok menipis  ",
	})
	require.NoError(t, err)
	assert.Regexp(t, `^REQ-`+fixtureDay+`-[A-Z2-9]{4}$`, created.ID)
	assert.Equal(t, domain.RequestPending, created.Status)
	assert.Equal(t, "stok menipis", created.Notes)
	assert.Equal(t, "Kaos Polos M Hitam", created.Items[0].Name)

	approved, err := f.requests.Approve(f.ctx, production, created.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RequestApprovedByProduction, approved.Status)
	assert.NotNil(t, approved.ApprovedByProductionAt)

	report, err := f.requests.Fulfill(f.ctx, production, created.ID, f.calculate(t, kaosRun()))
	require.NoError(t, err)
	assert.Equal(t, "PROD-"+created.ID, report.ID)
	assert.Equal(t, created.ID, report.SourceRequestID)

	completed, err := f.requests.Get(f.ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RequestCompletedProduction, completed.Status)
	assert.NotNil(t, completed.CompletedProductionAt)
	assert.Equal(t, report.ID, completed.ReportID)
	assert.Equal(t, created.Items, completed.Items)

	_, err = f.production.ReceiveProductionGoods(f.ctx, warehouse, report.ID)
	require.NoError(t, err)

	done, err := f.requests.Get(f.ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RequestApprovedByWarehouse, done.Status)
	assert.NotNil(t, done.ApprovedByWarehouseAt)
	assert.True(t, done.Status.IsTerminal())
}

func TestRequestWorkflow_CannotSkipApproval(t *testing.T) {
	f := newFixture(t)
	req, err := f.requests.CreateRequest(f.ctx, warehouse, domain.CreateRequestCommand{
		Items: []domain.RequestedItem{{ProductID: kaosMID, Quantity: 10}},
	})
	require.NoError(t, err)
	before := len(f.history(t, domain.HistoryFilter{}))

	_, err = f.requests.Fulfill(f.ctx, production, req.ID, f.calculate(t, kaosRun()))
	require.ErrorIs(t, err, domain.ErrInvalidStateTransition)

	assertDecimal(t, "100", f.stock(t, cottonID))
	assert.Len(t, f.history(t, domain.HistoryFilter{}), before)
	reports, err := f.production.Reports(f.ctx, false)
	require.NoError(t, err)
	assert.Empty(t, reports)

	got, err := f.requests.Get(f.ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RequestPending, got.Status)
}

func TestRequestWorkflow_FulfillTwiceFails(t *testing.T) {
	f := newFixture(t)
	req := f.approvedRequest(t)

	_, err := f.requests.Fulfill(f.ctx, production, req.ID, f.calculate(t, kaosRun()))
	require.NoError(t, err)
	_, err = f.requests.Fulfill(f.ctx, production, req.ID, f.calculate(t, kaosRun()))
	require.ErrorIs(t, err, domain.ErrInvalidStateTransition)
	assertDecimal(t, "92", f.stock(t, cottonID))
}

func TestRequestWorkflow_ShortageKeepsRequestApproved(t *testing.T) {
	f := newFixture(t)
	req := f.approvedRequest(t)

	cmd := kaosRun()
	cmd.Orders[0].Quantity = 600
	_, err := f.requests.Fulfill(f.ctx, production, req.ID, f.calculate(t, cmd))
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	got, err := f.requests.Get(f.ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RequestApprovedByProduction, got.Status)
	assert.Empty(t, got.ReportID)
}

func TestRequestWorkflow_FulfillMustCoverRequestedItems(t *testing.T) {
	f := newFixture(t)
	req := f.approvedRequest(t)

	// the request wants 24 M and 16 L; a run of 40 M leaves L uncovered
	cmd := kaosRun()
	cmd.Orders = []domain.GarmentOrderItem{
		{ProductID: kaosMID, Model: "Kaos Polos", Size: "M", Quantity: 40, ColorName: "Hitam"},
	}
	_, err := f.requests.Fulfill(f.ctx, production, req.ID, f.calculate(t, cmd))
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	// too few L is no better
	cmd = kaosRun()
	cmd.Orders[1].Quantity = 15
	_, err = f.requests.Fulfill(f.ctx, production, req.ID, f.calculate(t, cmd))
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	got, err := f.requests.Get(f.ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RequestApprovedByProduction, got.Status)
	assertDecimal(t, "100", f.stock(t, cottonID))

	// extra lines on top of the request are fine, matched by model, size and color
	cmd = kaosRun()
	cmd.Orders[1].ProductID = ""
	cmd.Orders = append(cmd.Orders, domain.GarmentOrderItem{ProductID: kaosMID, Model: "Kaos Polos", Size: "M", Quantity: 4})
	_, err = f.requests.Fulfill(f.ctx, production, req.ID, f.calculate(t, cmd))
	require.NoError(t, err)
}

func TestRequestWorkflow_RejectIsFinal(t *testing.T) {
	f := newFixture(t)
	req, err := f.requests.CreateRequest(f.ctx, warehouse, domain.CreateRequestCommand{
		Items: []domain.RequestedItem{{ProductID: kaosMID, Quantity: 10}},
	})
	require.NoError(t, err)

	rejected, err := f.requests.Reject(f.ctx, production, req.ID, domain.RejectRequestCommand{Reason: "bahan habis"})
	require.NoError(t, err)
	assert.Equal(t, domain.RequestRejected, rejected.Status)
	assert.Equal(t, "bahan habis", rejected.RejectReason)
	assert.NotNil(t, rejected.RejectedAt)

	_, err = f.requests.Approve(f.ctx, production, req.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidStateTransition)
	_, err = f.requests.Reject(f.ctx, production, req.ID, domain.RejectRequestCommand{})
	assert.ErrorIs(t, err, domain.ErrInvalidStateTransition)
	_, err = f.requests.Fulfill(f.ctx, production, req.ID, f.calculate(t, kaosRun()))
	assert.ErrorIs(t, err, domain.ErrInvalidStateTransition)

	got, err := f.requests.Get(f.ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RequestRejected, got.Status)
}

func TestRequestWorkflow_ApprovedCannotBeRejected(t *testing.T) {
	f := newFixture(t)
	req := f.approvedRequest(t)

	_, err := f.requests.Reject(f.ctx, production, req.ID, domain.RejectRequestCommand{Reason: "batal"})
	assert.ErrorIs(t, err, domain.ErrInvalidStateTransition)
}

func TestCreateRequest_Validation(t *testing.T) {
	tests := []struct {
		name    string
		actor   domain.Actor
		cmd     domain.CreateRequestCommand
		wantErr error
	}{
		{"no items", warehouse, domain.CreateRequestCommand{}, domain.ErrInvalidInput},
		{"zero quantity", warehouse, domain.CreateRequestCommand{Items: []domain.RequestedItem{{ProductID: kaosMID}}}, domain.ErrInvalidInput},
		{"unknown product", warehouse, domain.CreateRequestCommand{Items: []domain.RequestedItem{{ProductID: "FG-NOPE", Quantity: 1}}}, domain.ErrNotFound},
		{"material is not a product", warehouse, domain.CreateRequestCommand{Items: []domain.RequestedItem{{ProductID: cottonID, Quantity: 1}}}, domain.ErrNotFound},
		{"production may not request", production, domain.CreateRequestCommand{Items: []domain.RequestedItem{{ProductID: kaosMID, Quantity: 1}}}, domain.ErrForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			_, err := f.requests.CreateRequest(f.ctx, tt.actor, tt.cmd)
			assert.ErrorIs(t, err, tt.wantErr)

			list, err := f.requests.List(f.ctx, "")
			require.NoError(t, err)
			assert.Empty(t, list)
		})
	}
}

func TestRequestWorkflow_RoleGuards(t *testing.T) {
	f := newFixture(t)
	req, err := f.requests.CreateRequest(f.ctx, warehouse, domain.CreateRequestCommand{
		Items: []domain.RequestedItem{{ProductID: kaosMID, Quantity: 10}},
	})
	require.NoError(t, err)

	_, err = f.requests.Approve(f.ctx, warehouse, req.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, err = f.requests.Reject(f.ctx, owner, req.ID, domain.RejectRequestCommand{})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = f.requests.Approve(f.ctx, admin, req.ID)
	assert.NoError(t, err)

	_, err = f.requests.Approve(f.ctx, production, "REQ-NOPE")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRequestList_FiltersByStatus(t *testing.T) {
	f := newFixture(t)
	f.approvedRequest(t)
	_, err := f.requests.CreateRequest(f.ctx, warehouse, domain.CreateRequestCommand{
		Items: []domain.RequestedItem{{ProductID: kaosMID, Quantity: 1}},
	})
	require.NoError(t, err)

	all, err := f.requests.List(f.ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	pending, err := f.requests.List(f.ctx, domain.RequestPending)
	require.NoError(t, err)
	assert.Len(t, pending, 1)
}
