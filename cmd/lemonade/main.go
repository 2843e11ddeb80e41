package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	cl "lemonade/internal/cli"
	"lemonade/internal/config"
	"lemonade/internal/game"
	"lemonade/internal/history"
	"lemonade/internal/report"
	"lemonade/internal/syncq"

	"github.com/spf13/cobra"
)

type rootOptions struct {
	configPath string
	logLevel   string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	opts := &rootOptions{}
	root := &cobra.Command{
		Use:          "lemonade",
		Short:        "Run a lemonade stand in Lemonsville",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", config.PathFromEnv(), "path to the YAML config file")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level (debug, info, warn, error)")

	root.AddCommand(
		newPlayCmd(opts),
		newHistoryCmd(opts),
		newRulesCmd(opts),
		newPrefsCmd(),
	)

	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func (o *rootOptions) load() (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, nil, err
	}
	if strings.TrimSpace(o.logLevel) != "" {
		cfg.LogLevel = o.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("config %s: %w", o.configPath, err)
	}
	level, err := config.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, nil, err
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	return cfg, logger, nil
}

func openRecorder(ctx context.Context, cfg *config.Config, logger *slog.Logger) history.Recorder {
	rec, err := history.Open(ctx, history.Options{
		SQLitePath:  cfg.History.SQLitePath,
		DatabaseURL: cfg.History.DatabaseURL,
	}, logger)
	if err != nil {
		logger.Warn("history unavailable, games will not be recorded", "err", err)
		return history.NewNoopRecorder()
	}
	if _, ok := rec.(*history.NoopRecorder); ok {
		return rec
	}
	dir, err := syncq.DefaultDir()
	if err != nil {
		logger.Warn("history queue unavailable", "err", err)
		return rec
	}
	q, err := syncq.Open(dir)
	if err != nil {
		logger.Warn("history queue unavailable", "err", err)
		return rec
	}
	spooled := history.NewSpooledRecorder(rec, q, logger)
	if _, err := spooled.Flush(ctx); err != nil {
		logger.Warn("replaying queued history failed", "err", err)
	}
	return spooled
}

func newPlayCmd(opts *rootOptions) *cobra.Command {
	var (
		players int
		theme   string
		seed    int64
		fast    bool
		noIntro bool
	)
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Start a new game",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := opts.load()
			if err != nil {
				return err
			}
			prefs, err := cl.LoadPrefs()
			if err != nil {
				logger.Warn("load prefs failed", "err", err)
			}

			if !cmd.Flags().Changed("theme") {
				theme = cfg.Theme
				if prefs.Theme != "" && os.Getenv("LEMONADE_THEME") == "" {
					theme = prefs.Theme
				}
			}
			th, err := report.ParseTheme(theme)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("seed") {
				seed = cfg.Seed
			}

			ctx := cmd.Context()
			p := newPrompter(cmd.InOrStdin(), cmd.OutOrStdout())
			if !cmd.Flags().Changed("players") {
				if players, err = p.promptInt(ctx, "How many people will be playing?", 1, maxPlayers, defaultPlayers(prefs.Players)); err != nil {
					return quitOnEOF(err)
				}
			}
			if players < 1 || players > maxPlayers {
				return fmt.Errorf("players must be between 1 and %d", maxPlayers)
			}

			rec := openRecorder(ctx, cfg, logger)
			defer rec.Close()

			s := &session{
				rules:  cfg.GameRules(),
				theme:  th,
				render: report.New(th),
				rec:    rec,
				log:    logger,
				prompt: p,
				pause:  cfg.WeatherPause,
				sleep:  time.Sleep,
				intro:  !noIntro,
			}
			if fast {
				s.pause = 0
			}
			if err := cl.SavePrefs(cl.Prefs{Players: players, Theme: string(th)}); err != nil {
				logger.Warn("save prefs failed", "err", err)
			}
			return quitOnEOF(s.run(ctx, players, seed))
		},
	}
	cmd.Flags().IntVarP(&players, "players", "n", 1, "number of stands (1-10)")
	cmd.Flags().StringVar(&theme, "theme", string(report.Modern), "report theme (modern, classic)")
	cmd.Flags().Int64Var(&seed, "seed", 0, "weather seed; 0 picks one from the clock")
	cmd.Flags().BoolVar(&fast, "fast", false, "skip the pause after the forecast")
	cmd.Flags().BoolVar(&noIntro, "no-intro", false, "skip the welcome screen and instructions")
	return cmd
}

func newRulesCmd(opts *rootOptions) *cobra.Command {
	var theme string
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "Show how the game is played",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := opts.load()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("theme") {
				theme = cfg.Theme
			}
			th, err := report.ParseTheme(theme)
			if err != nil {
				return err
			}
			r := report.New(th)
			r.Welcome(cmd.OutOrStdout())
			r.Instructions(cmd.OutOrStdout(), cfg.GameRules())
			return nil
		},
	}
	cmd.Flags().StringVar(&theme, "theme", string(report.Modern), "report theme (modern, classic)")
	return cmd
}

func newHistoryCmd(opts *rootOptions) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent games",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := opts.load()
			if err != nil {
				return err
			}
			rec := openRecorder(cmd.Context(), cfg, logger)
			defer rec.Close()

			games, err := rec.RecentGames(cmd.Context(), limit)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(games) == 0 {
				warn.Fprintln(out, "No games recorded. Set history.sqlite_path or LEMONADE_SQLITE_PATH to keep a record.")
				return nil
			}
			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "GAME\tSTARTED\tPLAYERS\tDAYS\tWINNERS\tBEST")
			for _, g := range games {
				winners := "in progress"
				best := "-"
				if g.Finished() {
					winners = formatStands(g.Winners)
					best = game.FormatMoney(g.MaxAssets)
				}
				fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%s\t%s\n",
					g.ID, g.StartedAt.Local().Format("2006-01-02 15:04"), g.Players, g.Days, winners, best)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 10, "number of games to list")
	cmd.AddCommand(newHistoryShowCmd(opts))
	return cmd
}

func newHistoryShowCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show <game-id>",
		Short: "Show the day-by-day results of one game",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := opts.load()
			if err != nil {
				return err
			}
			rec := openRecorder(cmd.Context(), cfg, logger)
			defer rec.Close()

			rows, err := rec.DayResults(cmd.Context(), strings.TrimSpace(args[0]))
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(rows) == 0 {
				warn.Fprintln(out, "No results for that game.")
				return nil
			}
			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "DAY\tWEATHER\tSTAND\tMADE\tSIGNS\tPRICE\tSOLD\tPROFIT\tASSETS")
			for _, r := range rows {
				weather := r.Weather
				if r.Stormed {
					weather += " (storm)"
				}
				res := r.Result
				fmt.Fprintf(tw, "%d\t%s\t%d\t%d\t%d\t%dc\t%d\t%s\t%s\n",
					r.Day, weather, res.PlayerID+1, res.Decision.Glasses, res.Decision.Signs,
					res.Decision.PriceCents, res.GlassesSold, game.FormatMoney(res.Profit), game.FormatMoney(res.Assets))
			}
			return tw.Flush()
		},
	}
}

func newPrefsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prefs",
		Short: "Show or clear saved preferences",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Show saved preferences",
			RunE: func(cmd *cobra.Command, args []string) error {
				p, err := cl.LoadPrefs()
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if p.Players == 0 && p.Theme == "" {
					fmt.Fprintln(out, "No saved preferences.")
					return nil
				}
				fmt.Fprintf(out, "Players: %d\nTheme:   %s\n", p.Players, p.Theme)
				return nil
			},
		},
		&cobra.Command{
			Use:   "clear",
			Short: "Forget saved preferences",
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := cl.ClearPrefs(); err != nil {
					return err
				}
				success.Fprintln(cmd.OutOrStdout(), "Preferences cleared.")
				return nil
			},
		},
	)
	return cmd
}

// defaultPlayers keeps a saved player count usable as a prompt default.
func defaultPlayers(saved int) int {
	return min(max(saved, 1), maxPlayers)
}

func formatStands(ids []int) string {
	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		parts = append(parts, fmt.Sprintf("%d", id+1))
	}
	return strings.Join(parts, ", ")
}
