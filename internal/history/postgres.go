package history

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"lemonade/internal/db"
	"lemonade/internal/game"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRecorder stores history in the lemonade schema of a Postgres database.
type PostgresRecorder struct {
	pool *pgxpool.Pool
	log  *slog.Logger
}

func NewPostgresRecorder(ctx context.Context, databaseURL string, logger *slog.Logger) (*PostgresRecorder, error) {
	if logger == nil {
		logger = slog.Default()
	}
	pool, err := db.Connect(ctx, databaseURL)
	if err != nil {
		return nil, err
	}
	r := &PostgresRecorder{pool: pool, log: logger}
	if err := r.migrate(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	logger.Info("postgres history opened")
	return r, nil
}

func (r *PostgresRecorder) migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE SCHEMA IF NOT EXISTS lemonade`,
		`CREATE TABLE IF NOT EXISTS lemonade.games (
			id          TEXT PRIMARY KEY,
			players     INTEGER NOT NULL,
			seed        BIGINT NOT NULL,
			theme       TEXT NOT NULL DEFAULT '',
			started_at  TIMESTAMPTZ NOT NULL,
			finished_at TIMESTAMPTZ,
			days        INTEGER NOT NULL DEFAULT 0,
			winners     TEXT NOT NULL DEFAULT '',
			max_assets  NUMERIC(14,2)
		)`,
		`CREATE INDEX IF NOT EXISTS games_started_idx ON lemonade.games (started_at DESC)`,
		`CREATE TABLE IF NOT EXISTS lemonade.day_results (
			id             BIGSERIAL PRIMARY KEY,
			game_id        TEXT NOT NULL REFERENCES lemonade.games (id) ON DELETE CASCADE,
			day            INTEGER NOT NULL,
			weather        TEXT NOT NULL,
			stormed        BOOLEAN NOT NULL,
			player         INTEGER NOT NULL,
			glasses_made   INTEGER NOT NULL,
			signs_made     INTEGER NOT NULL,
			price_cents    INTEGER NOT NULL,
			glasses_sold   INTEGER NOT NULL,
			income         NUMERIC(14,2) NOT NULL,
			expenses       NUMERIC(14,2) NOT NULL,
			profit         NUMERIC(14,2) NOT NULL,
			assets         NUMERIC(14,2) NOT NULL,
			newly_bankrupt BOOLEAN NOT NULL,
			UNIQUE (game_id, day, player)
		)`,
	}
	for _, s := range stmts {
		if _, err := r.pool.Exec(ctx, s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:30], err)
		}
	}
	return nil
}

func (r *PostgresRecorder) StartGame(ctx context.Context, rec GameRecord) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO lemonade.games (id, players, seed, theme, started_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO NOTHING
	`, rec.ID, rec.Players, rec.Seed, rec.Theme, rec.StartedAt)
	if err != nil {
		return fmt.Errorf("start game: %w", err)
	}
	return nil
}

func (r *PostgresRecorder) RecordDay(ctx context.Context, gameID string, rep game.DayReport) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return fmt.Errorf("record day: %w", err)
	}
	defer tx.Rollback(ctx)

	batch := &pgx.Batch{}
	for _, res := range rep.Results {
		batch.Queue(`
			INSERT INTO lemonade.day_results
				(game_id, day, weather, stormed, player, glasses_made, signs_made, price_cents,
				 glasses_sold, income, expenses, profit, assets, newly_bankrupt)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9,
				$10::text::numeric, $11::text::numeric, $12::text::numeric, $13::text::numeric, $14)
			ON CONFLICT (game_id, day, player) DO NOTHING
		`, gameID, rep.Day.Day, rep.Day.Weather.String(), rep.Stormed, res.PlayerID,
			res.Decision.Glasses, res.Decision.Signs, res.Decision.PriceCents, res.GlassesSold,
			res.Income.String(), res.Expenses.String(), res.Profit.String(), res.Assets.String(),
			res.NewlyBankrupt,
		)
	}
	batch.Queue(`UPDATE lemonade.games SET days = $1 WHERE id = $2`, rep.Day.Day, gameID)
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("record day %d: %w", rep.Day.Day, err)
	}
	return tx.Commit(ctx)
}

func (r *PostgresRecorder) FinishGame(ctx context.Context, gameID string, days int, out game.Outcome) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE lemonade.games
		SET finished_at = now(), days = $1, winners = $2, max_assets = $3::text::numeric
		WHERE id = $4
	`, days, encodeWinners(out.Winners), out.MaxAssets.String(), gameID)
	if err != nil {
		return fmt.Errorf("finish game: %w", err)
	}
	return nil
}

func (r *PostgresRecorder) RecentGames(ctx context.Context, limit int) ([]Summary, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := r.pool.Query(ctx, `
		SELECT id, players, days, started_at, finished_at, winners, COALESCE(max_assets::text, '')
		FROM lemonade.games
		ORDER BY started_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("recent games: %w", err)
	}
	defer rows.Close()

	out := make([]Summary, 0, limit)
	for rows.Next() {
		var (
			s          Summary
			finishedAt *time.Time
			winners    string
			maxAssets  string
		)
		if err := rows.Scan(&s.ID, &s.Players, &s.Days, &s.StartedAt, &finishedAt, &winners, &maxAssets); err != nil {
			return nil, fmt.Errorf("recent games: %w", err)
		}
		s.FinishedAt = finishedAt
		if s.Winners, err = decodeWinners(winners); err != nil {
			return nil, err
		}
		if s.MaxAssets, err = parseMoney(maxAssets); err != nil {
			return nil, fmt.Errorf("recent games: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *PostgresRecorder) DayResults(ctx context.Context, gameID string) ([]DayResult, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT day, weather, stormed, player, glasses_made, signs_made, price_cents, glasses_sold,
			income::text, expenses::text, profit::text, assets::text, newly_bankrupt
		FROM lemonade.day_results
		WHERE game_id = $1
		ORDER BY day, player
	`, gameID)
	if err != nil {
		return nil, fmt.Errorf("day results: %w", err)
	}
	defer rows.Close()

	var out []DayResult
	for rows.Next() {
		var d DayResult
		var income, expenses, profit, assets string
		res := &d.Result
		if err := rows.Scan(&d.Day, &d.Weather, &d.Stormed, &res.PlayerID,
			&res.Decision.Glasses, &res.Decision.Signs, &res.Decision.PriceCents, &res.GlassesSold,
			&income, &expenses, &profit, &assets, &res.NewlyBankrupt); err != nil {
			return nil, fmt.Errorf("day results: %w", err)
		}
		if err := parseAmounts(res, income, expenses, profit, assets); err != nil {
			return nil, fmt.Errorf("day results: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (r *PostgresRecorder) Close() error {
	r.log.Info("closing postgres history")
	r.pool.Close()
	return nil
}
