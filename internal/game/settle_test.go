package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPriceFactor(t *testing.T) {
	assert.InDelta(t, 54.0, PriceFactor(0), 1e-9)
	assert.InDelta(t, 42.0, PriceFactor(5), 1e-9)
	assert.InDelta(t, 30.0, PriceFactor(10), 1e-9)
	assert.InDelta(t, 7.5, PriceFactor(20), 1e-9)
	assert.InDelta(t, 0.3, PriceFactor(100), 1e-9)
}

func TestSignUpliftMonotone(t *testing.T) {
	assert.Zero(t, SignUplift(0))
	prev := BaseSales(1.0, 12, 0)
	for signs := 1; signs <= DefaultMaxSigns; signs++ {
		cur := BaseSales(1.0, 12, signs)
		assert.GreaterOrEqualf(t, cur, prev, "signs=%d", signs)
		assert.LessOrEqual(t, SignUplift(signs), 1.0)
		prev = cur
	}
}

func TestSettleExampleDay(t *testing.T) {
	p := PlayerState{ID: 0, Assets: money("2.00")}
	res := SettlePlayer(dayOne(), &p, Decision{Glasses: 50, Signs: 2, PriceCents: 5})

	assert.InDelta(t, 68.5, BaseSales(1.0, 5, 2), 0.1)
	assert.Equal(t, 50, res.GlassesSold)
	assert.True(t, res.Income.Equal(money("2.50")), res.Income.String())
	assert.True(t, res.Expenses.Equal(money("1.30")), res.Expenses.String())
	assert.True(t, res.Profit.Equal(money("1.20")), res.Profit.String())
	assert.True(t, p.Assets.Equal(money("3.20")), p.Assets.String())
	assert.False(t, res.NewlyBankrupt)
}

func TestSalesNeverExceedProduction(t *testing.T) {
	for _, w := range []Weather{Sunny, HotDry, Cloudy} {
		day := dayOne()
		day.Weather = w
		day.Multiplier = w.Multiplier()
		for _, price := range []int{0, 1, 5, 9, 10, 11, 25, 100} {
			for _, glasses := range []int{0, 1, 7, 30, 200} {
				for _, signs := range []int{0, 1, 5, 50} {
					sold := GlassesSold(day, Decision{Glasses: glasses, Signs: signs, PriceCents: price})
					assert.GreaterOrEqual(t, sold, 0)
					assert.LessOrEqual(t, sold, glasses)
				}
			}
		}
	}
}

func TestThunderstormSellsNothing(t *testing.T) {
	day := dayOne()
	day.Weather = Thunderstorm
	day.Multiplier = Thunderstorm.Multiplier()

	players := []PlayerState{{ID: 0, Assets: money("2.00")}, {ID: 1, Assets: money("2.00")}}
	results := Settle(day, players, map[int]Decision{
		0: {Glasses: 50, Signs: 2, PriceCents: 5},
		1: {Glasses: 10, Signs: 0, PriceCents: 1},
	})
	require.Len(t, results, 2)
	for _, r := range results {
		assert.Zero(t, r.GlassesSold)
		assert.True(t, r.Income.IsZero())
	}
	assert.True(t, players[0].Assets.Equal(money("0.70")), players[0].Assets.String())
	assert.True(t, players[1].Assets.Equal(money("1.80")), players[1].Assets.String())
}

func TestSettleClampsAndBankrupts(t *testing.T) {
	p := PlayerState{ID: 0, Assets: money("0.10")}
	res := SettlePlayer(dayOne(), &p, Decision{Glasses: 50})

	assert.True(t, res.Profit.Equal(money("-1.00")))
	assert.True(t, p.Assets.IsZero())
	assert.True(t, res.Assets.IsZero())
	assert.True(t, res.NewlyBankrupt)
	assert.True(t, p.Bankrupt)
}

func TestBankruptcyThresholdIsLemonadeCost(t *testing.T) {
	day := dayOne()
	day.LemonadeCost = money("0.05")

	p := PlayerState{ID: 0, Assets: money("0.04")}
	res := SettlePlayer(day, &p, Decision{})
	assert.True(t, res.NewlyBankrupt, "0.04 cannot buy a 0.05 glass")

	p = PlayerState{ID: 0, Assets: money("0.05")}
	res = SettlePlayer(day, &p, Decision{})
	assert.False(t, res.NewlyBankrupt)
}

func TestSettleSkipsBankrupt(t *testing.T) {
	players := []PlayerState{
		{ID: 0, Assets: money("0"), Bankrupt: true},
		{ID: 1, Assets: money("2.00")},
	}
	results := Settle(dayOne(), players, map[int]Decision{0: {Glasses: 5, PriceCents: 5}})
	require.Len(t, results, 1)
	assert.Equal(t, 1, results[0].PlayerID)
	assert.True(t, players[0].Bankrupt)
	assert.True(t, players[0].Assets.IsZero())
}

func TestAllBankrupt(t *testing.T) {
	assert.False(t, AllBankrupt([]PlayerState{{Bankrupt: true}, {Bankrupt: false}}))
	assert.True(t, AllBankrupt([]PlayerState{{Bankrupt: true}, {Bankrupt: true}}))
}

func TestResolveWinnersTie(t *testing.T) {
	out := ResolveWinners([]PlayerState{
		{ID: 0, Assets: money("5.00")},
		{ID: 1, Assets: money("5")},
		{ID: 2, Assets: money("3.00")},
	})
	assert.Equal(t, []int{0, 1}, out.Winners)
	assert.True(t, out.Tie())
	assert.Equal(t, "It's a tie between players: 1, 2 with $5.00 each!", out.String())
}

func TestResolveWinnersSingle(t *testing.T) {
	out := ResolveWinners([]PlayerState{
		{ID: 0, Assets: money("1.00")},
		{ID: 1, Assets: money("0")},
		{ID: 2, Assets: money("4.25")},
	})
	assert.Equal(t, []int{2}, out.Winners)
	assert.False(t, out.Tie())
	assert.Equal(t, "Player 3 wins with $4.25!", out.String())
}
