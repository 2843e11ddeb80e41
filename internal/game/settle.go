package game

import (
	"math"

	"github.com/shopspring/decimal"
)

func PriceFactor(priceCents int) float64 {
	if priceCents < referencePriceCents {
		return float64(referencePriceCents-priceCents)/referencePriceCents*0.8*30 + 30
	}
	return float64(referencePriceCents*referencePriceCents*30) / float64(priceCents*priceCents)
}

// SignUplift saturates towards 1, i.e. at most doubling demand.
func SignUplift(signs int) float64 {
	return 1 - math.Exp(-0.5*float64(signs))
}

func BaseSales(multiplier float64, priceCents, signs int) float64 {
	pf := PriceFactor(priceCents)
	return multiplier * (pf + pf*SignUplift(signs))
}

func GlassesSold(day DayContext, d Decision) int {
	if day.Weather == Thunderstorm || d.Glasses <= 0 {
		return 0
	}
	sales := math.Min(BaseSales(day.Multiplier, d.PriceCents, d.Signs), float64(d.Glasses))
	if sales <= 0 {
		return 0
	}
	return int(math.Floor(sales))
}

// SettlePlayer applies one day's decision to p in place.
func SettlePlayer(day DayContext, p *PlayerState, d Decision) SettlementResult {
	sold := GlassesSold(day, d)
	income := CentsToMoney(sold * d.PriceCents)
	expenses := DecisionCost(day, d)
	profit := income.Sub(expenses)

	assets := p.Assets.Add(profit)
	if assets.IsNegative() {
		assets = decimal.Zero
	}
	p.Assets = assets

	res := SettlementResult{
		PlayerID:    p.ID,
		Decision:    d,
		GlassesSold: sold,
		Income:      income,
		Expenses:    expenses,
		Profit:      profit,
		Assets:      assets,
	}
	if assets.LessThan(day.LemonadeCost) {
		p.Bankrupt = true
		res.NewlyBankrupt = true
	}
	return res
}

// Settle runs the day for every solvent player. Bankrupt players are skipped
// and a solvent player with no decision is settled as having made nothing.
func Settle(day DayContext, players []PlayerState, decisions map[int]Decision) []SettlementResult {
	out := make([]SettlementResult, 0, len(players))
	for i := range players {
		if players[i].Bankrupt {
			continue
		}
		out = append(out, SettlePlayer(day, &players[i], decisions[players[i].ID]))
	}
	return out
}

func AllBankrupt(players []PlayerState) bool {
	for _, p := range players {
		if !p.Bankrupt {
			return false
		}
	}
	return true
}

// ResolveWinners reports every player holding the maximum assets; ties are
// not broken.
func ResolveWinners(players []PlayerState) Outcome {
	if len(players) == 0 {
		return Outcome{MaxAssets: decimal.Zero}
	}
	best := players[0].Assets
	for _, p := range players[1:] {
		if p.Assets.GreaterThan(best) {
			best = p.Assets
		}
	}
	out := Outcome{MaxAssets: best}
	for _, p := range players {
		if p.Assets.Equal(best) {
			out.Winners = append(out.Winners, p.ID)
		}
	}
	return out
}
