package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"github.com/urfave/cli/v2"

	"github.com/andresuchdata/konveksi/backend-go/internal/app"
	"github.com/andresuchdata/konveksi/backend-go/internal/config"
	"github.com/andresuchdata/konveksi/backend-go/internal/domain"
	"github.com/andresuchdata/konveksi/backend-go/internal/seed"
	"github.com/andresuchdata/konveksi/backend-go/pkg/logger"
)

func newSeedFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "seed",
		Usage:   "Catalogue file loaded before the command runs",
		Value:   "./data/seed.yaml",
		EnvVars: []string{"SEED_FILE"},
	}
}

// bootWorkshop builds an in-memory workshop from the seed flag
func bootWorkshop(c *cli.Context) (*app.App, error) {
	cfg := config.Load()
	cfg.App.SeedFile = c.String("seed")
	return app.New(c.Context, cfg)
}

func main() {
	cliApp := &cli.App{
		Name:  "konveksi",
		Usage: "Garment workshop tooling: cost calculation, catalogue checks and stock exports",
		Before: func(c *cli.Context) error {
			logger.SetLevel(config.Load().LogLevel)
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:  "calculate",
				Usage: "Price a production run against the seeded catalogue",
				Flags: []cli.Flag{
					newSeedFlag(),
					&cli.StringFlag{Name: "garment", Usage: "Garment type id", Required: true},
					&cli.StringSliceFlag{Name: "order", Usage: "PRODUCT_ID=QUANTITY, repeatable", Required: true},
					&cli.StringSliceFlag{Name: "cost", Usage: "NAME=AMOUNT per unit, repeatable"},
					&cli.StringFlag{Name: "margin", Usage: "Profit margin in percent", Value: "0"},
					&cli.StringFlag{Name: "material-price", Usage: "Override the catalogue material price"},
				},
				Action: runCalculate,
			},
			{
				Name:  "export",
				Usage: "Write the stock workbook of the seeded catalogue",
				Flags: []cli.Flag{
					newSeedFlag(),
					&cli.StringFlag{Name: "out", Usage: "Output file, defaults to a timestamped name"},
					&cli.BoolFlag{Name: "upload", Usage: "Also upload the workbook to object storage"},
				},
				Action: runExport,
			},
			{
				Name:  "check-seed",
				Usage: "Validate a catalogue file without starting anything",
				Flags: []cli.Flag{newSeedFlag()},
				Action: func(c *cli.Context) error {
					cat, err := seed.Load(c.String("seed"))
					if err != nil {
						return err
					}
					fmt.Fprintf(c.App.Writer, "%d materials, %d finished goods, %d garment types\n",
						len(cat.Materials), len(cat.FinishedGoods), len(cat.Garments))
					return nil
				},
			},
		},
	}

	if err := cliApp.RunContext(context.Background(), os.Args); err != nil {
		logger.Log.Fatal().Err(err).Msg("konveksi failed")
	}
}

func runCalculate(c *cli.Context) error {
	workshop, err := bootWorkshop(c)
	if err != nil {
		return err
	}

	goods, err := workshop.Services.Ledger.FinishedGoods(c.Context)
	if err != nil {
		return err
	}
	orders, err := parseOrders(c.StringSlice("order"), goods)
	if err != nil {
		return err
	}
	costs, err := parseCosts(c.StringSlice("cost"))
	if err != nil {
		return err
	}
	margin, err := decimal.NewFromString(c.String("margin"))
	if err != nil {
		return fmt.Errorf("margin: %w", err)
	}

	cmd := domain.CalculateCommand{
		GarmentTypeID:   c.String("garment"),
		Orders:          orders,
		AdditionalCosts: costs,
		ProfitMargin:    margin,
	}
	if raw := c.String("material-price"); raw != "" {
		price, err := decimal.NewFromString(raw)
		if err != nil {
			return fmt.Errorf("material-price: %w", err)
		}
		cmd.MaterialPrice = &price
	}

	result, err := workshop.Services.Production.Calculate(c.Context, cmd)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(c.App.Writer)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

func runExport(c *cli.Context) error {
	workshop, err := bootWorkshop(c)
	if err != nil {
		return err
	}
	exports := workshop.Services.Exports

	out := c.String("out")
	if out == "" {
		out = exports.FileName()
	}
	f, err := os.Create(out)
	if err != nil {
		return err
	}
	if err := exports.WriteWorkbook(c.Context, f); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "workbook written to %s\n", out)

	if c.Bool("upload") {
		key, err := exports.Upload(c.Context)
		if err != nil {
			return err
		}
		fmt.Fprintf(c.App.Writer, "workbook uploaded as %s\n", key)
	}
	return nil
}
