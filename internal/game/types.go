package game

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

type Weather int

const (
	Sunny Weather = iota
	HotDry
	Cloudy
	Thunderstorm
)

func (w Weather) String() string {
	switch w {
	case Sunny:
		return "sunny"
	case HotDry:
		return "hot_dry"
	case Cloudy:
		return "cloudy"
	case Thunderstorm:
		return "thunderstorm"
	default:
		return fmt.Sprintf("weather(%d)", int(w))
	}
}

// Label is the wording used on the weather report.
func (w Weather) Label() string {
	switch w {
	case Sunny:
		return "SUNNY"
	case HotDry:
		return "HOT AND DRY"
	case Cloudy:
		return "CLOUDY"
	case Thunderstorm:
		return "THUNDERSTORM!"
	default:
		return strings.ToUpper(w.String())
	}
}

func (w Weather) Multiplier() float64 {
	switch w {
	case Sunny:
		return 1.0
	case HotDry:
		return 2.0
	case Cloudy:
		return 0.6
	default:
		return 0.0
	}
}

type DayContext struct {
	Day          int             `json:"day"`
	LemonadeCost decimal.Decimal `json:"lemonade_cost"`
	SignCost     decimal.Decimal `json:"sign_cost"`
	Weather      Weather         `json:"weather"`
	Multiplier   float64         `json:"multiplier"`
	News         string          `json:"news,omitempty"`
}

type Decision struct {
	Glasses    int `json:"glasses"`
	Signs      int `json:"signs"`
	PriceCents int `json:"price_cents"`
}

type PlayerState struct {
	ID       int             `json:"id"`
	Assets   decimal.Decimal `json:"assets"`
	Bankrupt bool            `json:"bankrupt"`
}

type SettlementResult struct {
	PlayerID      int             `json:"player_id"`
	Decision      Decision        `json:"decision"`
	GlassesSold   int             `json:"glasses_sold"`
	Income        decimal.Decimal `json:"income"`
	Expenses      decimal.Decimal `json:"expenses"`
	Profit        decimal.Decimal `json:"profit"`
	Assets        decimal.Decimal `json:"assets"`
	NewlyBankrupt bool            `json:"newly_bankrupt"`
}

type DayReport struct {
	Day     DayContext         `json:"day"`
	Stormed bool               `json:"stormed"`
	Results []SettlementResult `json:"results"`
	// Players already bankrupt before this day, reported by id only.
	Bankrupt []int `json:"bankrupt"`
}

type Outcome struct {
	MaxAssets decimal.Decimal `json:"max_assets"`
	Winners   []int           `json:"winners"`
}

func (o Outcome) Tie() bool {
	return len(o.Winners) > 1
}

func (o Outcome) String() string {
	if len(o.Winners) == 1 {
		return fmt.Sprintf("Player %d wins with %s!", o.Winners[0]+1, FormatMoney(o.MaxAssets))
	}
	names := make([]string, 0, len(o.Winners))
	for _, id := range o.Winners {
		names = append(names, fmt.Sprint(id+1))
	}
	return fmt.Sprintf("It's a tie between players: %s with %s each!", strings.Join(names, ", "), FormatMoney(o.MaxAssets))
}
