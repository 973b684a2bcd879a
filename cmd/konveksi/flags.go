package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/andresuchdata/konveksi/backend-go/internal/domain"
)

func splitPair(raw string) (string, string, error) {
	key, value, ok := strings.Cut(raw, "=")
	key, value = strings.TrimSpace(key), strings.TrimSpace(value)
	if !ok || key == "" || value == "" {
		return "", "", fmt.Errorf("%q: expected KEY=VALUE", raw)
	}
	return key, value, nil
}

// parseOrders turns PRODUCT_ID=QTY pairs into order lines described by the catalogue
func parseOrders(raw []string, goods []domain.FinishedGood) ([]domain.GarmentOrderItem, error) {
	byID := make(map[string]domain.FinishedGood, len(goods))
	for _, g := range goods {
		byID[g.ID] = g
	}

	orders := make([]domain.GarmentOrderItem, 0, len(raw))
	for _, pair := range raw {
		id, qty, err := splitPair(pair)
		if err != nil {
			return nil, fmt.Errorf("order %w", err)
		}
		good, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("order %q: unknown finished good", id)
		}
		n, err := strconv.Atoi(qty)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("order %q: quantity must be a positive integer", id)
		}
		orders = append(orders, domain.GarmentOrderItem{
			ProductID: good.ID,
			Model:     good.Name,
			Size:      good.Size,
			ColorName: good.ColorName,
			ColorCode: good.ColorCode,
			Quantity:  n,
		})
	}
	return orders, nil
}

func parseCosts(raw []string) ([]domain.AdditionalCost, error) {
	costs := make([]domain.AdditionalCost, 0, len(raw))
	for _, pair := range raw {
		name, amount, err := splitPair(pair)
		if err != nil {
			return nil, fmt.Errorf("cost %w", err)
		}
		value, err := decimal.NewFromString(amount)
		if err != nil {
			return nil, fmt.Errorf("cost %q: %w", name, err)
		}
		costs = append(costs, domain.AdditionalCost{Name: name, Amount: value})
	}
	return costs, nil
}
