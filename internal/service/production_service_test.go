package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andresuchdata/konveksi/backend-go/internal/domain"
)

func TestCalculate_CottonRun(t *testing.T) {
	f := newFixture(t)

	result := f.calculate(t, kaosRun())

	assert.Equal(t, 40, result.TotalUnits)
	assertDecimal(t, "400000", result.TotalMaterialCost)
	assertDecimal(t, "200000", result.TotalAdditionalCost)
	assertDecimal(t, "600000", result.TotalProductionCost)
	assertDecimal(t, "15000", result.HPPPerUnit)
	assertDecimal(t, "19500", result.SellingPricePerUnit)
	require.Len(t, result.Materials, 1)
	assert.Equal(t, cottonID, result.Materials[0].MaterialID)
	assertDecimal(t, "8", result.Materials[0].Quantity)
	assert.Equal(t, domain.UnitKg, result.Materials[0].Unit)
}

func TestCalculate_PriceOverrideAndErrors(t *testing.T) {
	f := newFixture(t)

	cmd := kaosRun()
	price := dec("60000")
	cmd.MaterialPrice = &price
	result := f.calculate(t, cmd)
	assertDecimal(t, "480000", result.TotalMaterialCost)

	cmd = kaosRun()
	cmd.GarmentTypeID = "GAR-NOPE"
	_, err := f.production.Calculate(f.ctx, cmd)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	cmd = kaosRun()
	cmd.Orders = nil
	_, err = f.production.Calculate(f.ctx, cmd)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	zero := dec("0")
	cmd = kaosRun()
	cmd.MaterialPrice = &zero
	_, err = f.production.Calculate(f.ctx, cmd)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestConfirmProduction_DebitsMaterialOnce(t *testing.T) {
	f := newFixture(t)
	before := len(f.history(t, domain.HistoryFilter{}))

	report, err := f.production.ConfirmProduction(f.ctx, production, domain.ConfirmProductionCommand{HPP: f.calculate(t, kaosRun())})
	require.NoError(t, err)

	assertDecimal(t, "92", f.stock(t, cottonID))
	all := f.history(t, domain.HistoryFilter{})
	require.Len(t, all, before+1)
	assert.Equal(t, cottonID, all[0].ItemID)
	assert.Equal(t, domain.ChangeOutProduction, all[0].ChangeType)
	assertDecimal(t, "-8", all[0].QuantityChange)
	assertDecimal(t, "92", all[0].FinalStock)

	assert.Regexp(t, `^PROD-`+fixtureDay+`-[A-Z2-9]{4}$`, report.ID)
	assert.False(t, report.IsReceivedInWarehouse)
	assert.Equal(t, "budi", report.CreatedBy)
	assert.Equal(t, "Kaos Polos", report.GarmentType)
	assert.Empty(t, report.SourceRequestID)

	stored, err := f.production.Report(f.ctx, report.ID)
	require.NoError(t, err)
	assertDecimal(t, "15000", stored.HPP.HPPPerUnit)
}

func TestConfirmProduction_InsufficientMaterialCreatesNothing(t *testing.T) {
	f := newFixture(t)
	before := len(f.history(t, domain.HistoryFilter{}))

	// 750 units x 0.2 kg = 150 kg against 100 kg in stock
	cmd := kaosRun()
	cmd.Orders = []domain.GarmentOrderItem{{ProductID: kaosMID, Model: "Kaos Polos", Size: "M", Quantity: 750}}
	result := f.calculate(t, cmd)
	assertDecimal(t, "150", result.Materials[0].Quantity)

	report, err := f.production.ConfirmProduction(f.ctx, production, domain.ConfirmProductionCommand{HPP: result})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Nil(t, report)

	assertDecimal(t, "100", f.stock(t, cottonID))
	assert.Len(t, f.history(t, domain.HistoryFilter{}), before)
	reports, err := f.production.Reports(f.ctx, false)
	require.NoError(t, err)
	assert.Empty(t, reports)
}

func TestConfirmProduction_RejectsMalformedResults(t *testing.T) {
	f := newFixture(t)
	good := f.calculate(t, kaosRun())

	noMaterial := good.Clone()
	noMaterial.Materials = nil

	twoMaterials := good.Clone()
	twoMaterials.Materials = append(twoMaterials.Materials, twoMaterials.Materials[0])

	unitsMismatch := good.Clone()
	unitsMismatch.TotalUnits = 41

	noUnits := good.Clone()
	noUnits.TotalUnits = 0

	for name, result := range map[string]domain.HPPResult{
		"no material":    noMaterial,
		"two materials":  twoMaterials,
		"units mismatch": unitsMismatch,
		"no units":       noUnits,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := f.production.ConfirmProduction(f.ctx, production, domain.ConfirmProductionCommand{HPP: result})
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}

	_, err := f.production.ConfirmProduction(f.ctx, warehouse, domain.ConfirmProductionCommand{HPP: good})
	assert.ErrorIs(t, err, domain.ErrForbidden)
	assertDecimal(t, "100", f.stock(t, cottonID))
}

func TestConfirmProduction_RejectsResultsTheCatalogueCannotProduce(t *testing.T) {
	f := newFixture(t)
	good := f.calculate(t, kaosRun())

	// 40 kaos need 8 kg of cotton; a result claiming 0.001 kg must not pass
	lightDebit := good.Clone()
	lightDebit.Materials[0].Quantity = dec("0.001")

	otherMaterial := good.Clone()
	otherMaterial.Materials[0].MaterialID = drillID

	cheaperUnits := good.Clone()
	cheaperUnits.HPPPerUnit = dec("1000")

	for name, result := range map[string]domain.HPPResult{
		"light debit":    lightDebit,
		"other material": otherMaterial,
		"cheaper units":  cheaperUnits,
	} {
		t.Run(name, func(t *testing.T) {
			report, err := f.production.ConfirmProduction(f.ctx, production, domain.ConfirmProductionCommand{HPP: result})
			require.ErrorIs(t, err, domain.ErrInvalidInput)
			assert.Nil(t, report)
		})
	}

	unknownGarment := good.Clone()
	unknownGarment.GarmentTypeID = "GAR-NOPE"
	_, err := f.production.ConfirmProduction(f.ctx, production, domain.ConfirmProductionCommand{HPP: unknownGarment})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	assertDecimal(t, "100", f.stock(t, cottonID))
	assertDecimal(t, "30", f.stock(t, drillID))
	reports, err := f.production.Reports(f.ctx, false)
	require.NoError(t, err)
	assert.Empty(t, reports)
}

func TestConfirmProduction_AcceptsOverriddenMaterialPrice(t *testing.T) {
	f := newFixture(t)
	cmd := kaosRun()
	price := dec("61500")
	cmd.MaterialPrice = &price

	report, err := f.production.ConfirmProduction(f.ctx, production, domain.ConfirmProductionCommand{HPP: f.calculate(t, cmd)})
	require.NoError(t, err)
	assertDecimal(t, "492000", report.HPP.TotalMaterialCost)
	assertDecimal(t, "92", f.stock(t, cottonID))
}

func TestReceiveProductionGoods_CreditsExactlyOnce(t *testing.T) {
	f := newFixture(t)
	report, err := f.production.ConfirmProduction(f.ctx, production, domain.ConfirmProductionCommand{HPP: f.calculate(t, kaosRun())})
	require.NoError(t, err)

	received, err := f.production.ReceiveProductionGoods(f.ctx, warehouse, report.ID)
	require.NoError(t, err)
	assert.True(t, received.IsReceivedInWarehouse)
	require.NotNil(t, received.ReceivedAt)
	assert.Equal(t, "sari", received.ReceivedBy)

	assertDecimal(t, "34", f.stock(t, kaosMID))
	assertDecimal(t, "16", f.stock(t, kaosLID))
	credits := f.history(t, domain.HistoryFilter{ChangeType: domain.ChangeInProduction})
	assert.Len(t, credits, 2)

	goods, err := f.ledger.FinishedGoods(f.ctx)
	require.NoError(t, err)
	for _, g := range goods {
		if g.ID == kaosMID || g.ID == kaosLID {
			assertDecimal(t, "15000", g.HPP)
			assertDecimal(t, "19500", g.SellingPrice)
		}
	}

	_, err = f.production.ReceiveProductionGoods(f.ctx, warehouse, report.ID)
	require.ErrorIs(t, err, domain.ErrAlreadyReceived)
	assert.ErrorIs(t, err, domain.ErrInvalidStateTransition)
	assertDecimal(t, "34", f.stock(t, kaosMID))
	assert.Len(t, f.history(t, domain.HistoryFilter{ChangeType: domain.ChangeInProduction}), 2)

	stored, err := f.production.Report(f.ctx, report.ID)
	require.NoError(t, err)
	assertDecimal(t, "15000", stored.HPP.HPPPerUnit, "receipt leaves the cost result intact")
}

func TestReceiveProductionGoods_MatchesByModelSizeColor(t *testing.T) {
	f := newFixture(t)
	cmd := kaosRun()
	cmd.Orders = []domain.GarmentOrderItem{
		{Model: "kaos polos", Size: "l", Quantity: 5, ColorName: "Hitam", ColorCode: "#000000"},
		{Model: "Kaos Polos", Size: "M", Quantity: 3, ColorName: "HITAM"},
	}
	report, err := f.production.ConfirmProduction(f.ctx, production, domain.ConfirmProductionCommand{HPP: f.calculate(t, cmd)})
	require.NoError(t, err)

	_, err = f.production.ReceiveProductionGoods(f.ctx, warehouse, report.ID)
	require.NoError(t, err)
	assertDecimal(t, "5", f.stock(t, kaosLID))
	assertDecimal(t, "13", f.stock(t, kaosMID))
}

func TestReceiveProductionGoods_UnmatchedLineCreditsNothing(t *testing.T) {
	f := newFixture(t)
	cmd := kaosRun()
	cmd.Orders = []domain.GarmentOrderItem{
		{ProductID: kaosMID, Model: "Kaos Polos", Size: "M", Quantity: 2},
		{Model: "Kaos Polos", Size: "XXL", Quantity: 2, ColorName: "Putih"},
	}
	report, err := f.production.ConfirmProduction(f.ctx, production, domain.ConfirmProductionCommand{HPP: f.calculate(t, cmd)})
	require.NoError(t, err)

	_, err = f.production.ReceiveProductionGoods(f.ctx, warehouse, report.ID)
	require.ErrorIs(t, err, domain.ErrNotFound)
	assertDecimal(t, "10", f.stock(t, kaosMID))

	stored, err := f.production.Report(f.ctx, report.ID)
	require.NoError(t, err)
	assert.False(t, stored.IsReceivedInWarehouse)

	_, err = f.production.ReceiveProductionGoods(f.ctx, warehouse, "PROD-NOPE")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestReportsFilter(t *testing.T) {
	f := newFixture(t)
	first, err := f.production.ConfirmProduction(f.ctx, production, domain.ConfirmProductionCommand{HPP: f.calculate(t, kaosRun())})
	require.NoError(t, err)
	_, err = f.production.ConfirmProduction(f.ctx, production, domain.ConfirmProductionCommand{HPP: f.calculate(t, kaosRun())})
	require.NoError(t, err)
	_, err = f.production.ReceiveProductionGoods(f.ctx, warehouse, first.ID)
	require.NoError(t, err)

	all, err := f.production.Reports(f.ctx, false)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	open, err := f.production.Reports(f.ctx, true)
	require.NoError(t, err)
	require.Len(t, open, 1)
	assert.NotEqual(t, first.ID, open[0].ID)
}
