// Package seed reads the workshop's starting catalog: materials, finished
// goods, garment definitions and their opening stock.
package seed

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"

	"github.com/andresuchdata/konveksi/backend-go/internal/domain"
)

// Quantities and prices are read as strings so that "0.2" stays exact
type materialRow struct {
	ID               string `mapstructure:"id"`
	Name             string `mapstructure:"name"`
	Unit             string `mapstructure:"unit"`
	PriceUnit        string `mapstructure:"price_unit"`
	PricePerUnit     string `mapstructure:"price_per_unit"`
	RollToBaseFactor string `mapstructure:"roll_to_base_factor"`
	MinStock         string `mapstructure:"min_stock"`
	InitialStock     string `mapstructure:"initial_stock"`
}

type finishedGoodRow struct {
	ID           string   `mapstructure:"id"`
	Name         string   `mapstructure:"name"`
	Size         string   `mapstructure:"size"`
	ColorName    string   `mapstructure:"color_name"`
	ColorCode    string   `mapstructure:"color_code"`
	HPP          string   `mapstructure:"hpp"`
	SellingPrice string   `mapstructure:"selling_price"`
	ImageURLs    []string `mapstructure:"image_urls"`
	InitialStock string   `mapstructure:"initial_stock"`
}

type garmentRow struct {
	ID                         string `mapstructure:"id"`
	Name                       string `mapstructure:"name"`
	MaterialID                 string `mapstructure:"material_id"`
	MaterialConsumptionPerUnit string `mapstructure:"material_consumption_per_unit"`
}

type file struct {
	Materials     []materialRow     `mapstructure:"materials"`
	FinishedGoods []finishedGoodRow `mapstructure:"finished_goods"`
	Garments      []garmentRow      `mapstructure:"garments"`
}

// Catalog is a parsed seed file. Stock fields of the rows are zero; the
// opening quantities live in Opening and go through the ledger.
type Catalog struct {
	Materials     []domain.Material
	FinishedGoods []domain.FinishedGood
	Garments      []domain.GarmentType
	Opening       []domain.StockUpdate
}

// Load reads a YAML or JSON seed file with its own viper instance
func Load(path string) (*Catalog, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read seed file %s: %w", path, err)
	}
	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Catalog, error) {
	var raw file
	if err := v.Unmarshal(&raw); err != nil {
		return nil, fmt.Errorf("decode seed file: %w", err)
	}

	cat := &Catalog{}
	for _, row := range raw.Materials {
		m, opening, err := row.toMaterial()
		if err != nil {
			return nil, fmt.Errorf("material %q: %w", row.ID, err)
		}
		cat.Materials = append(cat.Materials, m)
		if opening.IsPositive() {
			cat.Opening = append(cat.Opening, openingLine(m.ID, opening))
		}
	}
	for _, row := range raw.FinishedGoods {
		g, opening, err := row.toFinishedGood()
		if err != nil {
			return nil, fmt.Errorf("finished good %q: %w", row.ID, err)
		}
		cat.FinishedGoods = append(cat.FinishedGoods, g)
		if opening.IsPositive() {
			cat.Opening = append(cat.Opening, openingLine(g.ID, opening))
		}
	}
	for _, row := range raw.Garments {
		consumption, err := parseDecimal(row.MaterialConsumptionPerUnit)
		if err != nil {
			return nil, fmt.Errorf("garment %q: %w", row.ID, err)
		}
		cat.Garments = append(cat.Garments, domain.GarmentType{
			ID:                         row.ID,
			Name:                       row.Name,
			MaterialID:                 row.MaterialID,
			MaterialConsumptionPerUnit: consumption,
		})
	}

	if err := cat.validate(); err != nil {
		return nil, err
	}
	return cat, nil
}

func (row materialRow) toMaterial() (domain.Material, decimal.Decimal, error) {
	unit := domain.MaterialUnit(strings.ToLower(row.Unit))
	if !unit.IsValid() {
		return domain.Material{}, decimal.Zero, fmt.Errorf("unknown unit %q", row.Unit)
	}
	priceUnit := unit
	if row.PriceUnit != "" {
		priceUnit = domain.MaterialUnit(strings.ToLower(row.PriceUnit))
		if !priceUnit.IsValid() {
			return domain.Material{}, decimal.Zero, fmt.Errorf("unknown price unit %q", row.PriceUnit)
		}
	}

	values := make([]decimal.Decimal, 4)
	for i, s := range []string{row.PricePerUnit, row.RollToBaseFactor, row.MinStock, row.InitialStock} {
		d, err := parseDecimal(s)
		if err != nil {
			return domain.Material{}, decimal.Zero, err
		}
		values[i] = d
	}

	return domain.Material{
		ID:               row.ID,
		Name:             row.Name,
		Unit:             unit,
		PriceUnit:        priceUnit,
		PricePerUnit:     values[0],
		RollToBaseFactor: values[1],
		MinStock:         values[2],
	}, values[3], nil
}

func (row finishedGoodRow) toFinishedGood() (domain.FinishedGood, decimal.Decimal, error) {
	values := make([]decimal.Decimal, 3)
	for i, s := range []string{row.HPP, row.SellingPrice, row.InitialStock} {
		d, err := parseDecimal(s)
		if err != nil {
			return domain.FinishedGood{}, decimal.Zero, err
		}
		values[i] = d
	}
	if !values[2].IsInteger() {
		return domain.FinishedGood{}, decimal.Zero, fmt.Errorf("initial stock %s is not a whole number", values[2])
	}

	return domain.FinishedGood{
		ID:           row.ID,
		Name:         row.Name,
		Size:         row.Size,
		ColorName:    row.ColorName,
		ColorCode:    row.ColorCode,
		HPP:          values[0],
		SellingPrice: values[1],
		ImageURLs:    row.ImageURLs,
	}, values[2], nil
}

func (c *Catalog) validate() error {
	ids := make(map[string]struct{})
	materials := make(map[string]struct{})
	claim := func(kind, id string) error {
		if strings.TrimSpace(id) == "" {
			return fmt.Errorf("%s without id: %w", kind, domain.ErrInvalidInput)
		}
		if _, dup := ids[id]; dup {
			return fmt.Errorf("duplicate id %q: %w", id, domain.ErrInvalidInput)
		}
		ids[id] = struct{}{}
		return nil
	}

	for _, m := range c.Materials {
		if err := claim("material", m.ID); err != nil {
			return err
		}
		materials[m.ID] = struct{}{}
	}
	for _, g := range c.FinishedGoods {
		if err := claim("finished good", g.ID); err != nil {
			return err
		}
	}
	for _, g := range c.Garments {
		if strings.TrimSpace(g.ID) == "" {
			return fmt.Errorf("garment without id: %w", domain.ErrInvalidInput)
		}
		if _, ok := materials[g.MaterialID]; !ok {
			return fmt.Errorf("garment %q references unknown material %q: %w", g.ID, g.MaterialID, domain.ErrInvalidInput)
		}
	}
	return nil
}

func openingLine(id string, qty decimal.Decimal) domain.StockUpdate {
	return domain.StockUpdate{
		ItemID:         id,
		QuantityChange: qty,
		ChangeType:     domain.ChangeInitial,
		Note:           "Stok awal",
	}
}

func parseDecimal(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid number %q: %w", s, domain.ErrInvalidInput)
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("negative number %q: %w", s, domain.ErrInvalidInput)
	}
	return d, nil
}
