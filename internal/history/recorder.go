// Package history keeps a record of finished and in-progress games.
package history

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"lemonade/internal/game"

	"github.com/shopspring/decimal"
)

type GameRecord struct {
	ID        string
	Players   int
	Seed      int64
	Theme     string
	StartedAt time.Time
}

type Summary struct {
	ID         string
	Players    int
	Days       int
	StartedAt  time.Time
	FinishedAt *time.Time
	Winners    []int
	MaxAssets  decimal.Decimal
}

func (s Summary) Finished() bool {
	return s.FinishedAt != nil
}

type DayResult struct {
	Day     int
	Weather string
	Stormed bool
	Result  game.SettlementResult
}

// Recorder persists games for later listing.
type Recorder interface {
	StartGame(ctx context.Context, rec GameRecord) error
	RecordDay(ctx context.Context, gameID string, rep game.DayReport) error
	FinishGame(ctx context.Context, gameID string, days int, out game.Outcome) error
	RecentGames(ctx context.Context, limit int) ([]Summary, error)
	DayResults(ctx context.Context, gameID string) ([]DayResult, error)
	Close() error
}

type Options struct {
	SQLitePath  string
	DatabaseURL string
}

// Open picks Postgres when a database URL is set, then SQLite, then a noop
// recorder.
func Open(ctx context.Context, opts Options, logger *slog.Logger) (Recorder, error) {
	if logger == nil {
		logger = slog.Default()
	}
	switch {
	case strings.TrimSpace(opts.DatabaseURL) != "":
		return NewPostgresRecorder(ctx, opts.DatabaseURL, logger)
	case strings.TrimSpace(opts.SQLitePath) != "":
		return NewSQLiteRecorder(opts.SQLitePath, logger)
	default:
		return NewNoopRecorder(), nil
	}
}

func encodeWinners(ids []int) string {
	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		parts = append(parts, strconv.Itoa(id))
	}
	return strings.Join(parts, ",")
}

func decodeWinners(s string) ([]int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		id, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("decode winners %q: %w", s, err)
		}
		out = append(out, id)
	}
	return out, nil
}

func parseMoney(s string) (decimal.Decimal, error) {
	if strings.TrimSpace(s) == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s)
}

func parseAmounts(res *game.SettlementResult, income, expenses, profit, assets string) error {
	var err error
	if res.Income, err = parseMoney(income); err != nil {
		return err
	}
	if res.Expenses, err = parseMoney(expenses); err != nil {
		return err
	}
	if res.Profit, err = parseMoney(profit); err != nil {
		return err
	}
	if res.Assets, err = parseMoney(assets); err != nil {
		return err
	}
	return nil
}
