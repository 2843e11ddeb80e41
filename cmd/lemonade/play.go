package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"lemonade/internal/game"
	"lemonade/internal/history"
	"lemonade/internal/report"
)

const maxPlayers = 10

type session struct {
	rules  game.Rules
	theme  report.Theme
	render report.Renderer
	rec    history.Recorder
	log    *slog.Logger
	prompt *prompter
	pause  time.Duration
	sleep  func(time.Duration)
	intro  bool
}

func (s *session) playGame(ctx context.Context, players int, seed int64) (game.Outcome, error) {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	g, err := game.NewGame(players, s.rules, game.NewSource(seed), s.log)
	if err != nil {
		return game.Outcome{}, err
	}
	s.log.Info("game started", "game_id", g.ID(), "players", players, "seed", seed)
	// a settled day is recorded even if the player quits right after it
	recCtx := context.WithoutCancel(ctx)
	if err := s.rec.StartGame(recCtx, history.GameRecord{
		ID:        g.ID(),
		Players:   players,
		Seed:      seed,
		Theme:     string(s.theme),
		StartedAt: time.Now(),
	}); err != nil {
		s.log.Warn("history start failed", "err", err)
	}

	for !g.Over() {
		if err := ctx.Err(); err != nil {
			return game.Outcome{}, err
		}
		day, err := g.BeginDay()
		if err != nil {
			return game.Outcome{}, err
		}
		s.render.Weather(s.prompt.out, day)
		if s.pause > 0 && s.sleep != nil {
			s.sleep(s.pause)
		}
		s.render.News(s.prompt.out, day)

		for _, id := range g.Pending() {
			if _, err := s.prompt.promptDecision(ctx, g, id); err != nil {
				return game.Outcome{}, err
			}
		}

		rep, err := g.Settle()
		if err != nil {
			return game.Outcome{}, err
		}
		s.render.DayReport(s.prompt.out, rep)
		if err := s.rec.RecordDay(recCtx, g.ID(), rep); err != nil {
			s.log.Warn("history record failed", "day", rep.Day.Day, "err", err)
		}

		if !g.Over() {
			if _, err := s.prompt.promptOptional(ctx, "Press Enter for the next day"); err != nil {
				return game.Outcome{}, err
			}
		}
	}

	out := g.Winners()
	s.render.Outcome(s.prompt.out, out)
	if err := s.rec.FinishGame(recCtx, g.ID(), g.Day().Day, out); err != nil {
		s.log.Warn("history finish failed", "err", err)
	}
	return out, nil
}

// run plays games until the players decline a rematch.
func (s *session) run(ctx context.Context, players int, seed int64) error {
	if s.intro {
		s.render.Welcome(s.prompt.out)
		s.render.Instructions(s.prompt.out, s.rules)
	}
	for {
		if _, err := s.playGame(ctx, players, seed); err != nil {
			if errors.Is(err, context.Canceled) {
				s.prompt.printInfo("\nGame abandoned.")
			}
			return err
		}
		again, err := s.prompt.promptYesNo(ctx, "Would you like to play again?", false)
		if err != nil {
			return err
		}
		if !again {
			s.prompt.printSuccess("Thanks for playing!")
			return nil
		}
		// a fixed seed would replay the same weather
		seed = 0
		if players, err = s.prompt.promptInt(ctx, "How many people will be playing?", 1, maxPlayers, players); err != nil {
			return err
		}
	}
}

// quitOnEOF treats closed input or an interrupt as the player walking away.
func quitOnEOF(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, io.EOF), errors.Is(err, context.Canceled):
		return nil
	default:
		return fmt.Errorf("play: %w", err)
	}
}
