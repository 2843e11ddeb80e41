package history

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"lemonade/internal/game"
	"lemonade/internal/syncq"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type flakyRecorder struct {
	NoopRecorder
	down  bool
	calls []string
}

var errDown = errors.New("backend down")

func (f *flakyRecorder) StartGame(ctx context.Context, rec GameRecord) error {
	if f.down {
		return errDown
	}
	f.calls = append(f.calls, "start:"+rec.ID)
	return nil
}

func (f *flakyRecorder) RecordDay(ctx context.Context, gameID string, rep game.DayReport) error {
	if f.down {
		return errDown
	}
	f.calls = append(f.calls, "day:"+gameID)
	return nil
}

func (f *flakyRecorder) FinishGame(ctx context.Context, gameID string, days int, out game.Outcome) error {
	if f.down {
		return errDown
	}
	f.calls = append(f.calls, "finish:"+gameID)
	return nil
}

func newSpool(t *testing.T, inner Recorder) *SpooledRecorder {
	t.Helper()
	q, err := syncq.Open(t.TempDir())
	require.NoError(t, err)
	return NewSpooledRecorder(inner, q, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestSpooledRecorderPassesThrough(t *testing.T) {
	inner := &flakyRecorder{}
	s := newSpool(t, inner)
	ctx := context.Background()

	require.NoError(t, s.StartGame(ctx, GameRecord{ID: "g1", Players: 1}))
	require.NoError(t, s.FinishGame(ctx, "g1", 1, game.Outcome{Winners: []int{0}}))
	assert.Equal(t, []string{"start:g1", "finish:g1"}, inner.calls)

	n, err := s.Flush(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestSpooledRecorderQueuesAndReplaysInOrder(t *testing.T) {
	inner := &flakyRecorder{down: true}
	s := newSpool(t, inner)
	ctx := context.Background()

	require.NoError(t, s.StartGame(ctx, GameRecord{ID: "g1", Players: 2}))
	inner.down = false
	// the start is still queued, so the day must queue behind it
	rep := game.DayReport{Day: game.DayContext{Day: 1, Weather: game.Cloudy}, Stormed: true}
	require.NoError(t, s.RecordDay(ctx, "g1", rep))
	require.NoError(t, s.FinishGame(ctx, "g1", 1, game.Outcome{MaxAssets: decimal.New(70, -2), Winners: []int{1}}))
	assert.Empty(t, inner.calls)

	n, err := s.Flush(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, []string{"start:g1", "day:g1", "finish:g1"}, inner.calls)

	require.NoError(t, s.StartGame(ctx, GameRecord{ID: "g2"}))
	assert.Equal(t, "start:g2", inner.calls[len(inner.calls)-1])
}

func TestSpooledRecorderFlushWhileDown(t *testing.T) {
	inner := &flakyRecorder{down: true}
	s := newSpool(t, inner)
	ctx := context.Background()

	require.NoError(t, s.StartGame(ctx, GameRecord{ID: "g1"}))
	n, err := s.Flush(ctx)
	assert.ErrorIs(t, err, errDown)
	assert.Zero(t, n)

	events, err := s.queue.Load()
	require.NoError(t, err)
	assert.Len(t, events, 1)
}
