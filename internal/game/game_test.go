package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGame(t *testing.T, players int, rng Source) *Game {
	t.Helper()
	g, err := NewGame(players, DefaultRules(), rng, nil)
	require.NoError(t, err)
	return g
}

func TestNewGameRejectsNoPlayers(t *testing.T) {
	_, err := NewGame(0, DefaultRules(), nil, nil)
	assert.ErrorIs(t, err, ErrNoPlayers)
}

func TestNewGameInitialState(t *testing.T) {
	g := newTestGame(t, 3, script(0.1))
	assert.NotEmpty(t, g.ID())
	for i, p := range g.Players() {
		assert.Equal(t, i, p.ID)
		assert.True(t, p.Assets.Equal(money("2.00")))
		assert.False(t, p.Bankrupt)
	}
	assert.False(t, g.Over())
}

func TestDayCycle(t *testing.T) {
	g := newTestGame(t, 2, script(0.1))

	_, err := g.Settle()
	require.ErrorIs(t, err, ErrDayNotStarted)
	require.ErrorIs(t, g.Decide(0, Decision{}), ErrDayNotStarted)

	day, err := g.BeginDay()
	require.NoError(t, err)
	assert.Equal(t, 1, day.Day)
	assert.Equal(t, Sunny, day.Weather)
	assert.Equal(t, 1.0, day.Multiplier)
	assert.True(t, day.LemonadeCost.Equal(money("0.02")))
	assert.True(t, day.SignCost.Equal(money("0.15")))

	_, err = g.BeginDay()
	require.ErrorIs(t, err, ErrDayInProgress)

	assert.Equal(t, []int{0, 1}, g.Pending())
	require.NoError(t, g.Decide(0, Decision{Glasses: 50, Signs: 2, PriceCents: 5}))

	_, err = g.Settle()
	require.ErrorIs(t, err, ErrDecisionsPending)

	require.ErrorIs(t, g.Decide(1, Decision{Glasses: 500}), ErrInsufficientFunds)
	require.ErrorIs(t, g.Decide(2, Decision{}), ErrUnknownPlayer)
	require.NoError(t, g.Decide(1, Decision{}))
	assert.Empty(t, g.Pending())

	report, err := g.Settle()
	require.NoError(t, err)
	assert.False(t, report.Stormed)
	require.Len(t, report.Results, 2)
	assert.Equal(t, 50, report.Results[0].GlassesSold)
	assert.True(t, report.Results[0].Assets.Equal(money("3.20")))
	assert.True(t, report.Results[1].Assets.Equal(money("2.00")))

	p0, err := g.Player(0)
	require.NoError(t, err)
	assert.True(t, p0.Assets.Equal(money("3.20")))
}

func TestDecisionOverwrittenWithinDay(t *testing.T) {
	g := newTestGame(t, 1, script(0.1))
	_, err := g.BeginDay()
	require.NoError(t, err)

	require.NoError(t, g.Decide(0, Decision{Glasses: 10, PriceCents: 5}))
	require.NoError(t, g.Decide(0, Decision{Glasses: 20, PriceCents: 5}))
	report, err := g.Settle()
	require.NoError(t, err)
	assert.Equal(t, 20, report.Results[0].Decision.Glasses)
}

func TestCostScheduleNews(t *testing.T) {
	g := newTestGame(t, 1, script(0.1))
	news := map[int]string{}
	costs := map[int]string{}
	for i := 0; i < 8; i++ {
		day, err := g.BeginDay()
		require.NoError(t, err)
		news[day.Day] = day.News
		costs[day.Day] = day.LemonadeCost.StringFixed(2)
		require.NoError(t, g.Decide(0, Decision{}))
		_, err = g.Settle()
		require.NoError(t, err)
	}
	assert.Equal(t, "0.02", costs[2])
	assert.Equal(t, "0.04", costs[3])
	assert.Equal(t, "0.04", costs[6])
	assert.Equal(t, "0.05", costs[7])
	assert.Equal(t, "0.05", costs[8])
	assert.Empty(t, news[1])
	assert.Equal(t, "(YOUR MOTHER QUIT GIVING YOU FREE SUGAR)", news[3])
	assert.Empty(t, news[4])
	assert.Equal(t, "(THE PRICE OF LEMONADE MIX JUST WENT UP)", news[7])
}

func TestStormOverrideAfterDecisions(t *testing.T) {
	// cloudy draw, then a storm draw under 0.25
	g := newTestGame(t, 1, script(0.5, 0.1))
	day, err := g.BeginDay()
	require.NoError(t, err)
	assert.Equal(t, Cloudy, day.Weather)
	assert.Equal(t, 0.6, day.Multiplier)

	require.NoError(t, g.Decide(0, Decision{Glasses: 50, Signs: 2, PriceCents: 5}))
	report, err := g.Settle()
	require.NoError(t, err)
	assert.True(t, report.Stormed)
	assert.Equal(t, Thunderstorm, report.Day.Weather)
	assert.Zero(t, report.Day.Multiplier)
	assert.Zero(t, report.Results[0].GlassesSold)
	assert.Equal(t, Thunderstorm, g.Day().Weather)
}

func TestCloudyWithoutStorm(t *testing.T) {
	g := newTestGame(t, 1, script(0.5, 0.9))
	_, err := g.BeginDay()
	require.NoError(t, err)
	require.NoError(t, g.Decide(0, Decision{Glasses: 50, Signs: 2, PriceCents: 5}))
	report, err := g.Settle()
	require.NoError(t, err)
	assert.False(t, report.Stormed)
	assert.Equal(t, Cloudy, report.Day.Weather)
	// 0.6 * 42 * (1 + 0.632) ~= 41.1
	assert.Equal(t, 41, report.Results[0].GlassesSold)
}

func TestBankruptcyIsPermanentAndGameEnds(t *testing.T) {
	g := newTestGame(t, 2, script(0.1))

	_, err := g.BeginDay()
	require.NoError(t, err)
	require.NoError(t, g.Decide(0, Decision{Glasses: 100}))
	require.NoError(t, g.Decide(1, Decision{Glasses: 10, PriceCents: 5}))
	report, err := g.Settle()
	require.NoError(t, err)
	assert.True(t, report.Results[0].NewlyBankrupt)
	assert.False(t, g.Over())

	_, err = g.BeginDay()
	require.NoError(t, err)
	assert.Equal(t, []int{1}, g.Pending())
	require.ErrorIs(t, g.Decide(0, Decision{}), ErrPlayerBankrupt)

	require.NoError(t, g.Decide(1, Decision{Glasses: 115}))
	report, err = g.Settle()
	require.NoError(t, err)
	assert.Equal(t, []int{0}, report.Bankrupt)
	require.Len(t, report.Results, 1)
	assert.Equal(t, 1, report.Results[0].PlayerID)
	assert.True(t, report.Results[0].NewlyBankrupt)

	for _, p := range g.Players() {
		assert.True(t, p.Bankrupt)
	}
	assert.True(t, g.Over())
	_, err = g.BeginDay()
	assert.ErrorIs(t, err, ErrGameOver)

	out := g.Winners()
	assert.Equal(t, []int{0, 1}, out.Winners)
	assert.True(t, out.MaxAssets.IsZero())
}
