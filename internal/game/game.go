package game

import (
	"fmt"
	"log/slog"
	mathrand "math/rand"
	"time"

	"github.com/google/uuid"
)

// Game owns the player arena and the day cycle:
// BeginDay -> Decide (per active player) -> Settle -> Over.
type Game struct {
	id        string
	rules     Rules
	rng       Source
	log       *slog.Logger
	players   []PlayerState
	day       DayContext
	drawn     Weather
	open      bool
	decisions map[int]Decision
}

// NewSource returns a seeded source; seed 0 seeds from the clock.
func NewSource(seed int64) Source {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return mathrand.New(mathrand.NewSource(seed))
}

func NewGame(players int, rules Rules, rng Source, logger *slog.Logger) (*Game, error) {
	if players < 1 {
		return nil, ErrNoPlayers
	}
	if err := rules.Validate(); err != nil {
		return nil, err
	}
	if rng == nil {
		rng = NewSource(0)
	}
	if logger == nil {
		logger = slog.Default()
	}
	g := &Game{
		id:      uuid.NewString(),
		rules:   rules,
		rng:     rng,
		players: make([]PlayerState, players),
	}
	g.log = logger.With("game_id", g.id)
	for i := range g.players {
		g.players[i] = PlayerState{ID: i, Assets: rules.InitialAssets}
	}
	g.log.Debug("game created", "players", players)
	return g, nil
}

func (g *Game) ID() string {
	return g.id
}

func (g *Game) Rules() Rules {
	return g.rules
}

// Day is the current (or last settled) day.
func (g *Game) Day() DayContext {
	return g.day
}

func (g *Game) Players() []PlayerState {
	out := make([]PlayerState, len(g.players))
	copy(out, g.players)
	return out
}

func (g *Game) Player(id int) (PlayerState, error) {
	if id < 0 || id >= len(g.players) {
		return PlayerState{}, fmt.Errorf("%w: %d", ErrUnknownPlayer, id)
	}
	return g.players[id], nil
}

func (g *Game) BeginDay() (DayContext, error) {
	if g.open {
		return g.day, ErrDayInProgress
	}
	if g.Over() {
		return g.day, ErrGameOver
	}

	n := g.day.Day + 1
	step := g.rules.CostStepForDay(n)
	g.drawn = DrawWeather(g.rng, g.rules.Weights)
	g.day = DayContext{
		Day:          n,
		LemonadeCost: step.Cost,
		SignCost:     g.rules.SignCost,
		Weather:      g.drawn,
		Multiplier:   g.drawn.Multiplier(),
	}
	if step.FromDay == n {
		g.day.News = step.News
	}
	g.decisions = make(map[int]Decision, len(g.players))
	g.open = true

	g.log.Debug("day started", "day", n, "weather", g.drawn.String(), "lemonade_cost", step.Cost.String())
	return g.day, nil
}

// Decide records a player's decision for the open day. A later call for the
// same player replaces the earlier one.
func (g *Game) Decide(id int, d Decision) error {
	if !g.open {
		return ErrDayNotStarted
	}
	p, err := g.Player(id)
	if err != nil {
		return err
	}
	if p.Bankrupt {
		return fmt.Errorf("%w: player %d", ErrPlayerBankrupt, id+1)
	}
	if err := g.rules.ValidateDecision(g.day, p.Assets, d); err != nil {
		return err
	}
	g.decisions[id] = d
	return nil
}

// Pending lists solvent players who have not decided yet, in turn order.
func (g *Game) Pending() []int {
	var out []int
	if !g.open {
		return out
	}
	for _, p := range g.players {
		if p.Bankrupt {
			continue
		}
		if _, ok := g.decisions[p.ID]; !ok {
			out = append(out, p.ID)
		}
	}
	return out
}

func (g *Game) Settle() (DayReport, error) {
	if !g.open {
		return DayReport{}, ErrDayNotStarted
	}
	if pending := g.Pending(); len(pending) > 0 {
		return DayReport{}, fmt.Errorf("%w: %d player(s)", ErrDecisionsPending, len(pending))
	}

	report := DayReport{}
	if StormStrikes(g.rng, g.drawn, g.rules.StormChance) {
		g.day.Weather = Thunderstorm
		g.day.Multiplier = Thunderstorm.Multiplier()
		report.Stormed = true
		g.log.Debug("storm override", "day", g.day.Day)
	}
	for _, p := range g.players {
		if p.Bankrupt {
			report.Bankrupt = append(report.Bankrupt, p.ID)
		}
	}

	report.Day = g.day
	report.Results = Settle(g.day, g.players, g.decisions)
	g.open = false

	for _, r := range report.Results {
		g.log.Debug("player settled",
			"day", g.day.Day,
			"player", r.PlayerID+1,
			"sold", r.GlassesSold,
			"profit", r.Profit.String(),
			"assets", r.Assets.String(),
		)
		if r.NewlyBankrupt {
			g.log.Info("player bankrupt", "day", g.day.Day, "player", r.PlayerID+1)
		}
	}
	if g.Over() {
		g.log.Info("game over", "days", g.day.Day)
	}
	return report, nil
}

func (g *Game) Over() bool {
	return AllBankrupt(g.players)
}

func (g *Game) Winners() Outcome {
	return ResolveWinners(g.players)
}
