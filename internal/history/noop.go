package history

import (
	"context"

	"lemonade/internal/game"
)

// NoopRecorder is used when no history backend is configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) StartGame(context.Context, GameRecord) error { return nil }
func (n *NoopRecorder) RecordDay(context.Context, string, game.DayReport) error { return nil }
func (n *NoopRecorder) FinishGame(context.Context, string, int, game.Outcome) error { return nil }
func (n *NoopRecorder) RecentGames(context.Context, int) ([]Summary, error) { return nil, nil }
func (n *NoopRecorder) DayResults(context.Context, string) ([]DayResult, error) { return nil, nil }
func (n *NoopRecorder) Close() error { return nil }
