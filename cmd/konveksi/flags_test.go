package main

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andresuchdata/konveksi/backend-go/internal/domain"
)

func TestParseOrders(t *testing.T) {
	goods := []domain.FinishedGood{
		{ID: "FG-KAOS-M", Name: "Kaos Polos", Size: "M", ColorName: "Hitam", ColorCode: "#000000"},
	}

	orders, err := parseOrders([]string{" FG-KAOS-M = 24 "}, goods)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, domain.GarmentOrderItem{
		ProductID: "FG-KAOS-M", Model: "Kaos Polos", Size: "M", ColorName: "Hitam", ColorCode: "#000000", Quantity: 24,
	}, orders[0])

	for _, bad := range []string{"FG-KAOS-M", "FG-KAOS-M=0", "FG-KAOS-M=1.5", "FG-NOPE=3", "=3"} {
		_, err := parseOrders([]string{bad}, goods)
		assert.Error(t, err, bad)
	}
}

func TestParseCosts(t *testing.T) {
	costs, err := parseCosts([]string{"Sablon=5000", "Jahit=3500.50"})
	require.NoError(t, err)
	require.Len(t, costs, 2)
	assert.Equal(t, "Jahit", costs[1].Name)
	assert.True(t, decimal.RequireFromString("3500.5").Equal(costs[1].Amount))

	_, err = parseCosts([]string{"Sablon=lima ribu"})
	assert.Error(t, err)
}
