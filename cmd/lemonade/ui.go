package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"lemonade/internal/game"
	"lemonade/internal/report"

	"github.com/fatih/color"
)

var (
	accent  = color.New(color.FgCyan, color.Bold)
	success = color.New(color.FgGreen, color.Bold)
	warn    = color.New(color.FgYellow, color.Bold)
	danger  = color.New(color.FgRed, color.Bold)
	neutral = color.New(color.FgHiWhite)
)

type prompter struct {
	in  *bufio.Reader
	out io.Writer
}

func newPrompter(in io.Reader, out io.Writer) *prompter {
	return &prompter{in: bufio.NewReader(in), out: out}
}

func (p *prompter) printSuccess(msg string) {
	success.Fprintln(p.out, msg)
}

func (p *prompter) printWarn(msg string) {
	warn.Fprintln(p.out, msg)
}

func (p *prompter) printError(msg string) {
	danger.Fprintln(p.out, msg)
}

func (p *prompter) printInfo(msg string) {
	neutral.Fprintln(p.out, msg)
}

type lineResult struct {
	text string
	err  error
}

// readLine returns as soon as ctx is cancelled, even while a read is
// blocked. A line that arrives after cancellation is discarded.
func (p *prompter) readLine(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	ch := make(chan lineResult, 1)
	go func() {
		text, err := p.in.ReadString('\n')
		ch <- lineResult{text: text, err: err}
	}()

	var res lineResult
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res = <-ch:
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if res.err != nil && !(errors.Is(res.err, io.EOF) && res.text != "") {
		return "", res.err
	}
	return strings.TrimSpace(res.text), nil
}

func (p *prompter) promptOptional(ctx context.Context, label string) (string, error) {
	fmt.Fprintf(p.out, "%s: ", label)
	return p.readLine(ctx)
}

func (p *prompter) promptChoice(ctx context.Context, label string, options []string, defaultValue string) (string, error) {
	normalized := make(map[string]struct{}, len(options))
	for _, opt := range options {
		normalized[strings.ToLower(strings.TrimSpace(opt))] = struct{}{}
	}
	for {
		fmt.Fprintf(p.out, "%s (%s) [%s]: ", label, strings.Join(options, "/"), defaultValue)
		text, err := p.readLine(ctx)
		if err != nil {
			return "", err
		}
		text = strings.ToLower(text)
		if text == "" {
			text = strings.ToLower(strings.TrimSpace(defaultValue))
		}
		if _, ok := normalized[text]; ok {
			return text, nil
		}
		if s := report.Suggest(text, options); s != "" {
			p.printWarn(fmt.Sprintf("Invalid option. Did you mean %q?", s))
			continue
		}
		p.printWarn("Invalid option. Please pick one of the listed values.")
	}
}

func (p *prompter) promptYesNo(ctx context.Context, label string, defaultYes bool) (bool, error) {
	def := "no"
	if defaultYes {
		def = "yes"
	}
	choice, err := p.promptChoice(ctx, label, []string{"yes", "no"}, def)
	if err != nil {
		return false, err
	}
	return choice == "yes", nil
}

func (p *prompter) promptInt(ctx context.Context, label string, min, max, defaultValue int) (int, error) {
	for {
		fmt.Fprintf(p.out, "%s [%d]: ", label, defaultValue)
		text, err := p.readLine(ctx)
		if err != nil {
			return 0, err
		}
		if text == "" {
			return defaultValue, nil
		}
		v, err := strconv.Atoi(text)
		if err != nil {
			p.printWarn("Enter a whole number.")
			continue
		}
		if v < min || v > max {
			p.printWarn(fmt.Sprintf("Value must be between %d and %d.", min, max))
			continue
		}
		return v, nil
	}
}

// promptCount re-asks until the answer parses and passes check. An empty
// answer counts as zero.
func (p *prompter) promptCount(ctx context.Context, label, field string, check func(int) error) (int, error) {
	for {
		fmt.Fprintf(p.out, "%s ", label)
		text, err := p.readLine(ctx)
		if err != nil {
			return 0, err
		}
		if text == "" {
			text = "0"
		}
		v, err := game.ParseCount(field, text)
		if err != nil {
			p.printWarn(capitalize(err.Error()) + ".")
			continue
		}
		if err := check(v); err != nil {
			p.printWarn(capitalize(err.Error()) + ".")
			continue
		}
		return v, nil
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func (p *prompter) promptDecision(ctx context.Context, g *game.Game, id int) (game.Decision, error) {
	rules := g.Rules()
	day := g.Day()
	for {
		player, err := g.Player(id)
		if err != nil {
			return game.Decision{}, err
		}
		accent.Fprintf(p.out, "\nDay %d - Stand %d\n", day.Day, id+1)
		fmt.Fprintf(p.out, "Assets:                     %s\n", game.FormatMoney(player.Assets))
		fmt.Fprintf(p.out, "Cost per glass of lemonade: %s\n", game.FormatMoney(day.LemonadeCost))

		var d game.Decision
		if d.Glasses, err = p.promptCount(ctx, "How many glasses of lemonade do you wish to make?", "glasses", rules.CheckGlasses); err != nil {
			return game.Decision{}, err
		}
		signsLabel := fmt.Sprintf("How many advertising signs (%s each) do you want to make?", game.FormatMoney(day.SignCost))
		if d.Signs, err = p.promptCount(ctx, signsLabel, "signs", rules.CheckSigns); err != nil {
			return game.Decision{}, err
		}
		if d.PriceCents, err = p.promptCount(ctx, "What price (in cents) do you wish to charge for lemonade?", "price", rules.CheckPrice); err != nil {
			return game.Decision{}, err
		}

		err = g.Decide(id, d)
		if err == nil {
			return d, nil
		}
		if !isRetryable(err) {
			p.printError(fmt.Sprintf("Stand %d could not open today: %v", id+1, err))
			return game.Decision{}, err
		}
		if errors.Is(err, game.ErrInsufficientFunds) {
			p.printError(capitalize(err.Error()))
			continue
		}
		p.printWarn(capitalize(err.Error()))
	}
}

func isRetryable(err error) bool {
	for _, target := range []error{
		game.ErrInsufficientFunds,
		game.ErrGlassesOutOfRange,
		game.ErrSignsOutOfRange,
		game.ErrPriceOutOfRange,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
