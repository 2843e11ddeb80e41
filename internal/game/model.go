package game

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	DefaultMaxGlasses    = 1000
	DefaultMaxSigns      = 50
	DefaultMaxPriceCents = 100
	DefaultStormChance   = 0.25

	// Demand peaks around this price; above it sales fall off quadratically.
	referencePriceCents = 10
)

var (
	DefaultInitialAssets = decimal.RequireFromString("2.00")
	DefaultSignCost      = decimal.RequireFromString("0.15")
)

var (
	ErrMalformedInput    = errors.New("please enter valid numbers")
	ErrGlassesOutOfRange = errors.New("please enter a reasonable number of glasses")
	ErrSignsOutOfRange   = errors.New("please enter a reasonable number of signs")
	ErrPriceOutOfRange   = errors.New("please enter a reasonable price")
	ErrInsufficientFunds = errors.New("you don't have enough money")
	ErrPlayerBankrupt    = errors.New("player is bankrupt")
	ErrUnknownPlayer     = errors.New("unknown player")
	ErrDecisionsPending  = errors.New("decisions still pending")
	ErrDayNotStarted     = errors.New("day has not started")
	ErrDayInProgress     = errors.New("day already in progress")
	ErrGameOver          = errors.New("game is over")
	ErrNoPlayers         = errors.New("at least one player is required")
	ErrInvalidRules      = errors.New("invalid rules")
)

type CostStep struct {
	FromDay int
	Cost    decimal.Decimal
	News    string
}

type WeatherWeights struct {
	Sunny  float64
	Cloudy float64
	HotDry float64
}

type Rules struct {
	InitialAssets decimal.Decimal
	SignCost      decimal.Decimal
	CostSchedule  []CostStep
	Weights       WeatherWeights
	StormChance   float64
	MaxGlasses    int
	MaxSigns      int
	MaxPriceCents int
}

func DefaultRules() Rules {
	return Rules{
		InitialAssets: DefaultInitialAssets,
		SignCost:      DefaultSignCost,
		CostSchedule: []CostStep{
			{FromDay: 1, Cost: decimal.RequireFromString("0.02")},
			{FromDay: 3, Cost: decimal.RequireFromString("0.04"), News: "(YOUR MOTHER QUIT GIVING YOU FREE SUGAR)"},
			{FromDay: 7, Cost: decimal.RequireFromString("0.05"), News: "(THE PRICE OF LEMONADE MIX JUST WENT UP)"},
		},
		Weights:       WeatherWeights{Sunny: 0.4, Cloudy: 0.3, HotDry: 0.3},
		StormChance:   DefaultStormChance,
		MaxGlasses:    DefaultMaxGlasses,
		MaxSigns:      DefaultMaxSigns,
		MaxPriceCents: DefaultMaxPriceCents,
	}
}

func (r Rules) Validate() error {
	if !r.InitialAssets.IsPositive() {
		return fmt.Errorf("%w: initial assets must be > 0", ErrInvalidRules)
	}
	if r.SignCost.IsNegative() {
		return fmt.Errorf("%w: sign cost must be >= 0", ErrInvalidRules)
	}
	if len(r.CostSchedule) == 0 {
		return fmt.Errorf("%w: cost schedule is empty", ErrInvalidRules)
	}
	if r.CostSchedule[0].FromDay != 1 {
		return fmt.Errorf("%w: cost schedule must start at day 1", ErrInvalidRules)
	}
	for i, step := range r.CostSchedule {
		if !step.Cost.IsPositive() {
			return fmt.Errorf("%w: lemonade cost from day %d must be > 0", ErrInvalidRules, step.FromDay)
		}
		if i > 0 && step.FromDay <= r.CostSchedule[i-1].FromDay {
			return fmt.Errorf("%w: cost schedule days must be increasing", ErrInvalidRules)
		}
	}
	w := r.Weights
	if w.Sunny < 0 || w.Cloudy < 0 || w.HotDry < 0 {
		return fmt.Errorf("%w: weather weights must be >= 0", ErrInvalidRules)
	}
	if sum := w.Sunny + w.Cloudy + w.HotDry; sum < 1-1e-9 || sum > 1+1e-9 {
		return fmt.Errorf("%w: weather weights sum to %.4f, want 1", ErrInvalidRules, sum)
	}
	if r.StormChance < 0 || r.StormChance > 1 {
		return fmt.Errorf("%w: storm chance must be within [0,1]", ErrInvalidRules)
	}
	if r.MaxGlasses < 0 || r.MaxSigns < 0 || r.MaxPriceCents < 0 {
		return fmt.Errorf("%w: input limits must be >= 0", ErrInvalidRules)
	}
	return nil
}

// CostStepForDay returns the schedule step in force on day.
func (r Rules) CostStepForDay(day int) CostStep {
	steps := r.CostSchedule
	i := sort.Search(len(steps), func(i int) bool { return steps[i].FromDay > day })
	if i == 0 {
		return steps[0]
	}
	return steps[i-1]
}

func (r Rules) CheckGlasses(n int) error {
	if n < 0 || n > r.MaxGlasses {
		return fmt.Errorf("%w (0-%d)", ErrGlassesOutOfRange, r.MaxGlasses)
	}
	return nil
}

func (r Rules) CheckSigns(n int) error {
	if n < 0 || n > r.MaxSigns {
		return fmt.Errorf("%w (0-%d)", ErrSignsOutOfRange, r.MaxSigns)
	}
	return nil
}

func (r Rules) CheckPrice(cents int) error {
	if cents < 0 || cents > r.MaxPriceCents {
		return fmt.Errorf("%w (0-%d cents)", ErrPriceOutOfRange, r.MaxPriceCents)
	}
	return nil
}

// DecisionCost is what producing d costs up front on the given day.
func DecisionCost(day DayContext, d Decision) decimal.Decimal {
	lemonade := day.LemonadeCost.Mul(decimal.NewFromInt(int64(d.Glasses)))
	signs := day.SignCost.Mul(decimal.NewFromInt(int64(d.Signs)))
	return lemonade.Add(signs)
}

func (r Rules) ValidateDecision(day DayContext, assets decimal.Decimal, d Decision) error {
	if err := r.CheckGlasses(d.Glasses); err != nil {
		return err
	}
	if err := r.CheckSigns(d.Signs); err != nil {
		return err
	}
	if err := r.CheckPrice(d.PriceCents); err != nil {
		return err
	}
	if cost := DecisionCost(day, d); cost.GreaterThan(assets) {
		return fmt.Errorf("%w! You have %s but need %s", ErrInsufficientFunds, FormatMoney(assets), FormatMoney(cost))
	}
	return nil
}

// ParseCount reads one whole-number answer; field names it in the error.
func ParseCount(field, text string) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		return 0, fmt.Errorf("%w: %s %q is not a whole number", ErrMalformedInput, field, strings.TrimSpace(text))
	}
	return v, nil
}

func CentsToMoney(cents int) decimal.Decimal {
	return decimal.New(int64(cents), -2)
}

func FormatMoney(v decimal.Decimal) string {
	if v.IsNegative() {
		return "-$" + v.Neg().StringFixed(2)
	}
	return "$" + v.StringFixed(2)
}
