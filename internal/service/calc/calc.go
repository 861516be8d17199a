package calc

import (
	"github.com/shopspring/decimal"
)

// UnitEconomyParams of one sell position on a marketplace
type UnitEconomyParams struct {
	BuyPrice       decimal.Decimal `json:"buy_price"`
	PackCost       decimal.Decimal `json:"pack_cost"`
	TransitPrice   decimal.Decimal `json:"transit_price"`
	TransitCount   int64           `json:"transit_count"`
	SellPrice      decimal.Decimal `json:"sell_price"`
	CommissionRate decimal.Decimal `json:"commission_rate"`
	LogisticsCost  decimal.Decimal `json:"logistics_cost"`
}

type UnitEconomyResult struct {
	UnitCost   decimal.Decimal `json:"unit_cost"`
	Commission decimal.Decimal `json:"commission"`
	Profit     decimal.Decimal `json:"profit"`
	Margin     decimal.Decimal `json:"margin"`
	ROI        decimal.Decimal `json:"roi"`
}

// UnitEconomyCalculator is the opaque domain engine the service proxies to
type UnitEconomyCalculator interface {
	UnitEconomy(params UnitEconomyParams) UnitEconomyResult
}

// Default marketplace unit economy calculator.
// All money math runs on decimals, rounded to kopecks at the edges.
type MarketplaceCalculator struct{}

func (MarketplaceCalculator) UnitEconomy(p UnitEconomyParams) UnitEconomyResult {
	unitCost := p.BuyPrice.Add(p.PackCost)
	if p.TransitCount > 0 {
		perUnitTransit := p.TransitPrice.Div(decimal.NewFromInt(p.TransitCount))
		unitCost = unitCost.Add(perUnitTransit)
	}

	commission := p.SellPrice.Mul(p.CommissionRate).Round(2)
	profit := p.SellPrice.Sub(unitCost).Sub(commission).Sub(p.LogisticsCost)

	margin := decimal.Zero
	if !p.SellPrice.IsZero() {
		margin = profit.Div(p.SellPrice).Round(4)
	}
	roi := decimal.Zero
	if !unitCost.IsZero() {
		roi = profit.Div(unitCost).Round(4)
	}

	return UnitEconomyResult{
		UnitCost:   unitCost.Round(2),
		Commission: commission,
		Profit:     profit.Round(2),
		Margin:     margin,
		ROI:        roi,
	}
}
