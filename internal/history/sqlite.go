package history

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"lemonade/internal/game"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// SQLiteRecorder stores history in a local SQLite file.
type SQLiteRecorder struct {
	db  *sqlx.DB
	log *slog.Logger
	mu  sync.Mutex
}

func NewSQLiteRecorder(path string, logger *slog.Logger) (*SQLiteRecorder, error) {
	if logger == nil {
		logger = slog.Default()
	}
	db, err := sqlx.Open("sqlite", path+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)

	r := &SQLiteRecorder{db: db, log: logger}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	logger.Info("sqlite history opened", "path", path)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS games (
			id          TEXT PRIMARY KEY,
			players     INTEGER NOT NULL,
			seed        INTEGER NOT NULL,
			theme       TEXT NOT NULL DEFAULT '',
			started_at  INTEGER NOT NULL,
			finished_at INTEGER,
			days        INTEGER NOT NULL DEFAULT 0,
			winners     TEXT NOT NULL DEFAULT '',
			max_assets  TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE INDEX IF NOT EXISTS idx_games_started ON games(started_at)`,

		`CREATE TABLE IF NOT EXISTS day_results (
			id             INTEGER PRIMARY KEY AUTOINCREMENT,
			game_id        TEXT NOT NULL REFERENCES games(id),
			day            INTEGER NOT NULL,
			weather        TEXT NOT NULL,
			stormed        INTEGER NOT NULL,
			player         INTEGER NOT NULL,
			glasses_made   INTEGER NOT NULL,
			signs_made     INTEGER NOT NULL,
			price_cents    INTEGER NOT NULL,
			glasses_sold   INTEGER NOT NULL,
			income         TEXT NOT NULL,
			expenses       TEXT NOT NULL,
			profit         TEXT NOT NULL,
			assets         TEXT NOT NULL,
			newly_bankrupt INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_day_results_game ON day_results(game_id, day)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_day_results_player ON day_results(game_id, day, player)`,
	}
	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) StartGame(ctx context.Context, rec GameRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.ExecContext(ctx, `INSERT OR IGNORE INTO games (id, players, seed, theme, started_at)
		VALUES (?,?,?,?,?)`,
		rec.ID, rec.Players, rec.Seed, rec.Theme, rec.StartedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("start game: %w", err)
	}
	return nil
}

func (r *SQLiteRecorder) RecordDay(ctx context.Context, gameID string, rep game.DayReport) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("record day: %w", err)
	}
	defer tx.Rollback()

	for _, res := range rep.Results {
		_, err := tx.ExecContext(ctx, `INSERT OR IGNORE INTO day_results
			(game_id, day, weather, stormed, player, glasses_made, signs_made, price_cents,
			 glasses_sold, income, expenses, profit, assets, newly_bankrupt)
			VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
			gameID, rep.Day.Day, rep.Day.Weather.String(), rep.Stormed, res.PlayerID,
			res.Decision.Glasses, res.Decision.Signs, res.Decision.PriceCents,
			res.GlassesSold, res.Income.String(), res.Expenses.String(), res.Profit.String(),
			res.Assets.String(), res.NewlyBankrupt,
		)
		if err != nil {
			return fmt.Errorf("record day %d: %w", rep.Day.Day, err)
		}
	}
	if _, err := tx.ExecContext(ctx, `UPDATE games SET days = ? WHERE id = ?`, rep.Day.Day, gameID); err != nil {
		return fmt.Errorf("record day %d: %w", rep.Day.Day, err)
	}
	return tx.Commit()
}

func (r *SQLiteRecorder) FinishGame(ctx context.Context, gameID string, days int, out game.Outcome) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.ExecContext(ctx, `UPDATE games
		SET finished_at = ?, days = ?, winners = ?, max_assets = ?
		WHERE id = ?`,
		time.Now().Unix(), days, encodeWinners(out.Winners), out.MaxAssets.String(), gameID,
	)
	if err != nil {
		return fmt.Errorf("finish game: %w", err)
	}
	return nil
}

type sqliteSummaryRow struct {
	ID         string        `db:"id"`
	Players    int           `db:"players"`
	Days       int           `db:"days"`
	StartedAt  int64         `db:"started_at"`
	FinishedAt sql.NullInt64 `db:"finished_at"`
	Winners    string        `db:"winners"`
	MaxAssets  string        `db:"max_assets"`
}

func (r *SQLiteRecorder) RecentGames(ctx context.Context, limit int) ([]Summary, error) {
	if limit <= 0 {
		limit = 10
	}
	var rows []sqliteSummaryRow
	err := r.db.SelectContext(ctx, &rows, `SELECT id, players, days, started_at, finished_at, winners, max_assets
		FROM games
		ORDER BY started_at DESC, rowid DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("recent games: %w", err)
	}

	out := make([]Summary, 0, len(rows))
	for _, row := range rows {
		s := Summary{
			ID:        row.ID,
			Players:   row.Players,
			Days:      row.Days,
			StartedAt: time.Unix(row.StartedAt, 0),
		}
		if row.FinishedAt.Valid {
			t := time.Unix(row.FinishedAt.Int64, 0)
			s.FinishedAt = &t
		}
		if s.Winners, err = decodeWinners(row.Winners); err != nil {
			return nil, err
		}
		if s.MaxAssets, err = parseMoney(row.MaxAssets); err != nil {
			return nil, fmt.Errorf("recent games: %w", err)
		}
		out = append(out, s)
	}
	return out, nil
}

type sqliteDayRow struct {
	Day           int    `db:"day"`
	Weather       string `db:"weather"`
	Stormed       bool   `db:"stormed"`
	Player        int    `db:"player"`
	GlassesMade   int    `db:"glasses_made"`
	SignsMade     int    `db:"signs_made"`
	PriceCents    int    `db:"price_cents"`
	GlassesSold   int    `db:"glasses_sold"`
	Income        string `db:"income"`
	Expenses      string `db:"expenses"`
	Profit        string `db:"profit"`
	Assets        string `db:"assets"`
	NewlyBankrupt bool   `db:"newly_bankrupt"`
}

func (r *SQLiteRecorder) DayResults(ctx context.Context, gameID string) ([]DayResult, error) {
	var rows []sqliteDayRow
	err := r.db.SelectContext(ctx, &rows, `SELECT day, weather, stormed, player, glasses_made, signs_made,
		price_cents, glasses_sold, income, expenses, profit, assets, newly_bankrupt
		FROM day_results
		WHERE game_id = ?
		ORDER BY day, player`, gameID)
	if err != nil {
		return nil, fmt.Errorf("day results: %w", err)
	}

	out := make([]DayResult, 0, len(rows))
	for _, row := range rows {
		d := DayResult{
			Day:     row.Day,
			Weather: row.Weather,
			Stormed: row.Stormed,
			Result: game.SettlementResult{
				PlayerID:      row.Player,
				Decision:      game.Decision{Glasses: row.GlassesMade, Signs: row.SignsMade, PriceCents: row.PriceCents},
				GlassesSold:   row.GlassesSold,
				NewlyBankrupt: row.NewlyBankrupt,
			},
		}
		if err := parseAmounts(&d.Result, row.Income, row.Expenses, row.Profit, row.Assets); err != nil {
			return nil, fmt.Errorf("day results: %w", err)
		}
		out = append(out, d)
	}
	return out, nil
}

func (r *SQLiteRecorder) Close() error {
	r.log.Info("closing sqlite history")
	return r.db.Close()
}
