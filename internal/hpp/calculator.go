package hpp

import (
	"github.com/andresuchdata/konveksi/backend-go/internal/domain"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Input is everything needed to price one production run
type Input struct {
	Garment          domain.GarmentType
	MaterialName     string
	MaterialUnit     domain.MaterialUnit
	MaterialPrice    decimal.Decimal
	PriceUnit        domain.MaterialUnit
	RollToBaseFactor decimal.Decimal
	Orders           []domain.GarmentOrderItem
	AdditionalCosts  []domain.AdditionalCost
	ProfitMargin     decimal.Decimal
}

// Calculator computes HPP (cost of goods produced) and the suggested selling price.
// It has no side effects.
type Calculator struct{}

// NewCalculator creates a new cost calculator
func NewCalculator() *Calculator {
	return &Calculator{}
}

// Calculate prices a production run. Nothing is rounded; presentation rounds.
func (c *Calculator) Calculate(in Input) (*domain.HPPResult, error) {
	if in.MaterialPrice.LessThanOrEqual(decimal.Zero) {
		return nil, domain.InvalidInputf("harga bahan harus lebih dari 0")
	}
	if in.Garment.MaterialConsumptionPerUnit.LessThanOrEqual(decimal.Zero) {
		return nil, domain.InvalidInputf("kebutuhan bahan per unit untuk %q harus lebih dari 0", in.Garment.Name)
	}
	if in.ProfitMargin.IsNegative() {
		return nil, domain.InvalidInputf("margin keuntungan tidak boleh negatif")
	}

	// 1. Base-unit material price (a roll is converted with its factor)
	basePrice, err := basePrice(in)
	if err != nil {
		return nil, err
	}

	// 2. Total units
	totalUnits, err := TotalUnits(in.Orders)
	if err != nil {
		return nil, err
	}
	units := decimal.NewFromInt(int64(totalUnits))

	// 3. Additional cost per unit
	perUnitExtra, err := perUnitExtra(in.AdditionalCosts)
	if err != nil {
		return nil, err
	}

	// 4. Material consumption and cost
	consumption := units.Mul(in.Garment.MaterialConsumptionPerUnit)
	materialCost := consumption.Mul(basePrice)

	// 5. Totals
	t := runTotals(units, materialCost, perUnitExtra, in.ProfitMargin)

	materialName := in.MaterialName
	if materialName == "" {
		materialName = in.Garment.MaterialID
	}

	return &domain.HPPResult{
		GarmentTypeID:       in.Garment.ID,
		GarmentName:         in.Garment.Name,
		TotalUnits:          totalUnits,
		TotalMaterialCost:   t.material,
		TotalAdditionalCost: t.additional,
		TotalProductionCost: t.production,
		HPPPerUnit:          t.perUnit,
		SellingPricePerUnit: t.selling,
		ProfitMargin:        in.ProfitMargin,
		Orders:              append([]domain.GarmentOrderItem(nil), in.Orders...),
		AdditionalCosts:     append([]domain.AdditionalCost(nil), in.AdditionalCosts...),
		Materials: []domain.MaterialUsage{{
			MaterialID: in.Garment.MaterialID,
			Name:       materialName,
			Quantity:   consumption,
			Unit:       baseUnit(in),
			Cost:       materialCost,
		}},
	}, nil
}

// MaxLineQuantity caps one order line so unit totals stay far from int overflow
const MaxLineQuantity = 1_000_000

// TotalUnits sums the order lines; every line must be between 1 and MaxLineQuantity
func TotalUnits(orders []domain.GarmentOrderItem) (int, error) {
	total := 0
	for i, line := range orders {
		if line.Quantity <= 0 {
			return 0, domain.InvalidInputf("jumlah pesanan baris %d harus lebih dari 0", i+1)
		}
		if line.Quantity > MaxLineQuantity {
			return 0, domain.InvalidInputf("jumlah pesanan baris %d melebihi %d", i+1, MaxLineQuantity)
		}
		total += line.Quantity
	}
	if total <= 0 {
		return 0, domain.InvalidInputf("total jumlah pesanan harus lebih dari 0")
	}
	return total, nil
}

func perUnitExtra(costs []domain.AdditionalCost) (decimal.Decimal, error) {
	extra := decimal.Zero
	for _, cost := range costs {
		if cost.Amount.IsNegative() {
			return decimal.Zero, domain.InvalidInputf("biaya tambahan %q tidak boleh negatif", cost.Name)
		}
		extra = extra.Add(cost.Amount)
	}
	return extra, nil
}

type totals struct {
	material   decimal.Decimal
	additional decimal.Decimal
	production decimal.Decimal
	perUnit    decimal.Decimal
	selling    decimal.Decimal
}

func runTotals(units, materialCost, perUnitExtra, margin decimal.Decimal) totals {
	additional := perUnitExtra.Mul(units)
	production := materialCost.Add(additional)
	perUnit := production.Div(units)
	return totals{
		material:   materialCost,
		additional: additional,
		production: production,
		perUnit:    perUnit,
		selling:    perUnit.Mul(decimal.NewFromInt(1).Add(margin.Div(hundred))),
	}
}

// Verify checks that a result posted back for confirmation is one this
// calculator could have produced for garment. The material price is not
// checked since callers may price a run with an override, but the material,
// its consumption and every total derived from the material cost must agree.
func (c *Calculator) Verify(garment domain.GarmentType, result domain.HPPResult) error {
	if result.GarmentTypeID != garment.ID {
		return domain.InvalidInputf("hasil HPP untuk %q, bukan %q", result.GarmentTypeID, garment.ID)
	}
	if result.ProfitMargin.IsNegative() {
		return domain.InvalidInputf("margin keuntungan tidak boleh negatif")
	}
	totalUnits, err := TotalUnits(result.Orders)
	if err != nil {
		return err
	}
	if totalUnits != result.TotalUnits {
		return domain.InvalidInputf("total unit %d tidak sesuai baris pesanan (%d)", result.TotalUnits, totalUnits)
	}
	if len(result.Materials) != 1 {
		return domain.InvalidInputf("hasil HPP harus memuat tepat satu bahan, ada %d", len(result.Materials))
	}
	usage := result.Materials[0]
	if usage.MaterialID != garment.MaterialID {
		return domain.InvalidInputf("bahan %q bukan bahan %s (%s)", usage.MaterialID, garment.Name, garment.MaterialID)
	}

	units := decimal.NewFromInt(int64(totalUnits))
	if want := units.Mul(garment.MaterialConsumptionPerUnit); !usage.Quantity.Equal(want) {
		return domain.InvalidInputf("pemakaian bahan %s tidak sesuai, seharusnya %s untuk %d pcs", usage.Quantity, want, totalUnits)
	}
	if !usage.Cost.IsPositive() || !usage.Cost.Equal(result.TotalMaterialCost) {
		return domain.InvalidInputf("biaya bahan %s tidak sesuai total biaya bahan %s", usage.Cost, result.TotalMaterialCost)
	}

	extra, err := perUnitExtra(result.AdditionalCosts)
	if err != nil {
		return err
	}
	want := runTotals(units, usage.Cost, extra, result.ProfitMargin)
	switch {
	case !want.additional.Equal(result.TotalAdditionalCost),
		!want.production.Equal(result.TotalProductionCost),
		!want.perUnit.Equal(result.HPPPerUnit),
		!want.selling.Equal(result.SellingPricePerUnit):
		return domain.InvalidInputf("total biaya hasil HPP tidak konsisten")
	}
	return nil
}

func basePrice(in Input) (decimal.Decimal, error) {
	switch in.PriceUnit {
	case domain.UnitKg, domain.UnitMeter, "":
		return in.MaterialPrice, nil
	case domain.UnitRoll:
		if in.RollToBaseFactor.LessThanOrEqual(decimal.Zero) {
			return decimal.Zero, domain.InvalidInputf("faktor konversi roll wajib diisi dan lebih dari 0")
		}
		return in.MaterialPrice.Div(in.RollToBaseFactor), nil
	default:
		return decimal.Zero, domain.InvalidInputf("satuan harga %q tidak dikenal", in.PriceUnit)
	}
}

// consumption is expressed in the unit the material is stocked in, never in rolls
func baseUnit(in Input) domain.MaterialUnit {
	if in.MaterialUnit != "" && in.MaterialUnit != domain.UnitRoll {
		return in.MaterialUnit
	}
	if in.PriceUnit == domain.UnitMeter {
		return domain.UnitMeter
	}
	return domain.UnitKg
}

// InputFor builds an Input from the live material row of the garment
func InputFor(garment domain.GarmentType, material domain.Material, orders []domain.GarmentOrderItem, costs []domain.AdditionalCost, margin decimal.Decimal) Input {
	priceUnit := material.PriceUnit
	if priceUnit == "" {
		priceUnit = material.Unit
	}
	return Input{
		Garment:          garment,
		MaterialName:     material.Name,
		MaterialUnit:     material.Unit,
		MaterialPrice:    material.PricePerUnit,
		PriceUnit:        priceUnit,
		RollToBaseFactor: material.RollToBaseFactor,
		Orders:           orders,
		AdditionalCosts:  costs,
		ProfitMargin:     margin,
	}
}
