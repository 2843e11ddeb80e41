package history

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"lemonade/internal/game"
	"lemonade/internal/syncq"
)

type finishPayload struct {
	Days    int          `json:"days"`
	Outcome game.Outcome `json:"outcome"`
}

// SpooledRecorder queues writes the backend rejects and replays them on
// Flush. Once a game has queued writes, later writes for that game are
// queued behind them so they land in order.
type SpooledRecorder struct {
	Recorder
	queue *syncq.Queue
	log   *slog.Logger

	mu      sync.Mutex
	pending map[string]bool
}

func NewSpooledRecorder(inner Recorder, queue *syncq.Queue, logger *slog.Logger) *SpooledRecorder {
	if logger == nil {
		logger = slog.Default()
	}
	return &SpooledRecorder{
		Recorder: inner,
		queue:    queue,
		log:      logger,
		pending:  map[string]bool{},
	}
}

func (s *SpooledRecorder) StartGame(ctx context.Context, rec GameRecord) error {
	return s.write(ctx, syncq.KindStart, rec.ID, rec, func() error {
		return s.Recorder.StartGame(ctx, rec)
	})
}

func (s *SpooledRecorder) RecordDay(ctx context.Context, gameID string, rep game.DayReport) error {
	return s.write(ctx, syncq.KindDay, gameID, rep, func() error {
		return s.Recorder.RecordDay(ctx, gameID, rep)
	})
}

func (s *SpooledRecorder) FinishGame(ctx context.Context, gameID string, days int, out game.Outcome) error {
	return s.write(ctx, syncq.KindFinish, gameID, finishPayload{Days: days, Outcome: out}, func() error {
		return s.Recorder.FinishGame(ctx, gameID, days, out)
	})
}

func (s *SpooledRecorder) write(ctx context.Context, kind syncq.Kind, gameID string, payload any, direct func() error) error {
	s.mu.Lock()
	queued := s.pending[gameID]
	s.mu.Unlock()

	if !queued {
		err := direct()
		if err == nil {
			return nil
		}
		if ctx.Err() != nil {
			return err
		}
		s.log.Warn("history write failed, queueing", "kind", kind, "game_id", gameID, "err", err)
	}

	ev, err := syncq.NewEvent(kind, gameID, payload)
	if err != nil {
		return err
	}
	if err := s.queue.Push(ev); err != nil {
		return fmt.Errorf("queue %s for %s: %w", kind, gameID, err)
	}
	s.mu.Lock()
	s.pending[gameID] = true
	s.mu.Unlock()
	return nil
}

// Flush replays queued writes against the backend and reports how many
// landed.
func (s *SpooledRecorder) Flush(ctx context.Context) (int, error) {
	n, err := s.queue.Drain(func(ev syncq.Event) error {
		return s.apply(ctx, ev)
	})
	if n > 0 {
		s.log.Info("replayed queued history", "events", n)
	}
	if err == nil {
		s.mu.Lock()
		s.pending = map[string]bool{}
		s.mu.Unlock()
	}
	return n, err
}

func (s *SpooledRecorder) apply(ctx context.Context, ev syncq.Event) error {
	switch ev.Kind {
	case syncq.KindStart:
		var rec GameRecord
		if err := json.Unmarshal(ev.Payload, &rec); err != nil {
			return s.drop(ev, err)
		}
		return s.Recorder.StartGame(ctx, rec)
	case syncq.KindDay:
		var rep game.DayReport
		if err := json.Unmarshal(ev.Payload, &rep); err != nil {
			return s.drop(ev, err)
		}
		return s.Recorder.RecordDay(ctx, ev.GameID, rep)
	case syncq.KindFinish:
		var p finishPayload
		if err := json.Unmarshal(ev.Payload, &p); err != nil {
			return s.drop(ev, err)
		}
		return s.Recorder.FinishGame(ctx, ev.GameID, p.Days, p.Outcome)
	default:
		return s.drop(ev, fmt.Errorf("unknown kind %q", ev.Kind))
	}
}

// drop skips an event that can never be applied so it does not block the
// rest of the queue.
func (s *SpooledRecorder) drop(ev syncq.Event, err error) error {
	s.log.Warn("dropping queued history event", "kind", ev.Kind, "key", ev.Key, "err", err)
	return nil
}
