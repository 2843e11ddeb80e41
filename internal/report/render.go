package report

import (
	"fmt"
	"io"
	"strings"

	"lemonade/internal/game"

	"github.com/fatih/color"
)

type Renderer interface {
	Welcome(w io.Writer)
	Instructions(w io.Writer, rules game.Rules)
	Weather(w io.Writer, day game.DayContext)
	News(w io.Writer, day game.DayContext)
	DayReport(w io.Writer, r game.DayReport)
	Outcome(w io.Writer, o game.Outcome)
}

type palette struct {
	header  *color.Color
	text    *color.Color
	good    *color.Color
	bad     *color.Color
	weather map[game.Weather]*color.Color
	art     bool
}

type renderer struct {
	p palette
}

func New(theme Theme) Renderer {
	if theme == Classic {
		green := color.New(color.FgHiGreen)
		return &renderer{p: palette{
			header: color.New(color.FgHiGreen, color.Bold),
			text:   green,
			good:   green,
			bad:    green,
			weather: map[game.Weather]*color.Color{
				game.Sunny:        green,
				game.HotDry:       green,
				game.Cloudy:       green,
				game.Thunderstorm: green,
			},
			art: true,
		}}
	}
	return &renderer{p: palette{
		header: color.New(color.FgCyan, color.Bold),
		text:   color.New(color.FgHiWhite),
		good:   color.New(color.FgGreen, color.Bold),
		bad:    color.New(color.FgRed, color.Bold),
		weather: map[game.Weather]*color.Color{
			game.Sunny:        color.New(color.FgYellow, color.Bold),
			game.HotDry:       color.New(color.FgRed, color.Bold),
			game.Cloudy:       color.New(color.FgWhite, color.Bold),
			game.Thunderstorm: color.New(color.FgMagenta, color.Bold),
		},
	}}
}

func (r *renderer) Welcome(w io.Writer) {
	r.p.header.Fprintln(w, "\n== LEMONADE STAND ==")
	r.p.text.Fprintln(w, "Hi! Welcome to Lemonsville, California!")
	r.p.text.Fprintln(w, "In this small town, you are in charge of running your own lemonade stand.")
	r.p.text.Fprintln(w, "You can compete with as many other people as you wish, but how much profit")
	r.p.text.Fprintln(w, "you make is up to you. If you make the most money, you're the winner!!")
	fmt.Fprintln(w)
}

func (r *renderer) Instructions(w io.Writer, rules game.Rules) {
	first := rules.CostStepForDay(1).Cost
	r.p.header.Fprintln(w, "== HOW TO PLAY ==")
	r.p.text.Fprintln(w, "To manage your lemonade stand, you will need to make these decisions every day:")
	r.p.text.Fprintf(w, "  1. How many glasses of lemonade to make (only one batch is made each morning)\n")
	r.p.text.Fprintf(w, "  2. How many advertising signs to make (the signs cost %s each)\n", game.FormatMoney(rules.SignCost))
	r.p.text.Fprintf(w, "  3. What price to charge for each glass\n")
	r.p.text.Fprintf(w, "You will begin with %s cash (assets).\n", game.FormatMoney(rules.InitialAssets))
	r.p.text.Fprintf(w, "Because your mother gave you some sugar, your cost to make lemonade is %s a glass\n", game.FormatMoney(first))
	r.p.text.Fprintln(w, "(this may change in the future).")
	fmt.Fprintln(w)
	r.p.text.Fprintln(w, "Your expenses are the sum of the cost of the lemonade and the cost of the signs.")
	r.p.text.Fprintln(w, "Your profits are the difference between the income from sales and your expenses.")
	r.p.text.Fprintln(w, "The number of glasses you sell each day depends on the price you charge,")
	r.p.text.Fprintln(w, "and on the number of advertising signs you use.")
	r.p.text.Fprintln(w, "Keep track of your assets, because you can't spend more money than you have!")
	fmt.Fprintln(w)
}

func (r *renderer) Weather(w io.Writer, day game.DayContext) {
	r.p.header.Fprintf(w, "\n== LEMONSVILLE WEATHER REPORT (DAY %d) ==\n", day.Day)
	c := r.p.weather[day.Weather]
	if c == nil {
		c = r.p.text
	}
	c.Fprintln(w, day.Weather.Label())
	if r.p.art {
		r.p.text.Fprintln(w, weatherArt(day.Weather))
	}
}

func (r *renderer) News(w io.Writer, day game.DayContext) {
	if strings.TrimSpace(day.News) == "" {
		return
	}
	r.p.header.Fprintln(w, "NEWS FLASH")
	r.p.bad.Fprintln(w, day.News)
}

func (r *renderer) DayReport(w io.Writer, rep game.DayReport) {
	if rep.Stormed {
		r.p.bad.Fprintln(w, "\nWEATHER REPORT: A SEVERE THUNDERSTORM HIT LEMONSVILLE EARLIER TODAY,")
		r.p.bad.Fprintln(w, "JUST AS THE LEMONADE STANDS WERE BEING SET UP.")
		r.p.bad.Fprintln(w, "UNFORTUNATELY, EVERYTHING WAS RUINED!!")
	}
	r.p.header.Fprintln(w, "\n$$ LEMONSVILLE DAILY FINANCIAL REPORT $$")

	bankrupt := make(map[int]bool, len(rep.Bankrupt))
	for _, id := range rep.Bankrupt {
		bankrupt[id] = true
	}
	results := make(map[int]game.SettlementResult, len(rep.Results))
	maxID := -1
	for _, res := range rep.Results {
		results[res.PlayerID] = res
		maxID = max(maxID, res.PlayerID)
	}
	for _, id := range rep.Bankrupt {
		maxID = max(maxID, id)
	}

	for id := 0; id <= maxID; id++ {
		if bankrupt[id] {
			r.p.text.Fprintf(w, "\nSTAND %d: BANKRUPT\n", id+1)
			continue
		}
		res, ok := results[id]
		if !ok {
			continue
		}
		if res.NewlyBankrupt {
			r.p.text.Fprintf(w, "\nSTAND %d\n", id+1)
			r.p.bad.Fprintln(w, "...YOU DON'T HAVE ENOUGH MONEY LEFT TO STAY IN BUSINESS. YOU'RE BANKRUPT!")
			continue
		}
		r.stand(w, rep.Day, res)
	}
	if r.p.art {
		r.p.text.Fprintln(w, standArt)
	}
}

func (r *renderer) stand(w io.Writer, day game.DayContext, res game.SettlementResult) {
	d := res.Decision
	r.p.header.Fprintf(w, "\nDAY %-6d STAND %d\n", day.Day, res.PlayerID+1)
	r.p.text.Fprintf(w, "%d GLASSES SOLD\n", res.GlassesSold)
	r.p.text.Fprintf(w, "%-28s INCOME   %s\n", fmt.Sprintf("%s PER GLASS", game.FormatMoney(game.CentsToMoney(d.PriceCents))), game.FormatMoney(res.Income))
	r.p.text.Fprintf(w, "%d GLASSES MADE\n", d.Glasses)
	r.p.text.Fprintf(w, "%-28s EXPENSES %s\n", fmt.Sprintf("%d SIGNS MADE", d.Signs), game.FormatMoney(res.Expenses))

	profit := r.p.good
	if res.Profit.IsNegative() {
		profit = r.p.bad
	}
	r.p.text.Fprintf(w, "%-28s PROFIT   ", "")
	profit.Fprintln(w, game.FormatMoney(res.Profit))
	r.p.text.Fprintf(w, "%-28s ASSETS   %s\n", "", game.FormatMoney(res.Assets))
	r.p.text.Fprintln(w, strings.Repeat("-", 45))
}

func (r *renderer) Outcome(w io.Writer, o game.Outcome) {
	r.p.header.Fprintln(w, "\n== GAME OVER ==")
	r.p.good.Fprintln(w, o.String())
}
