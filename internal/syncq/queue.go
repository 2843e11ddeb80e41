// Package syncq is a small on-disk queue of history writes that could not
// reach their backend.
package syncq

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
)

type Kind string

const (
	KindStart  Kind = "start"
	KindDay    Kind = "day"
	KindFinish Kind = "finish"
)

type Event struct {
	Key      string          `json:"key"`
	Kind     Kind            `json:"kind"`
	GameID   string          `json:"game_id"`
	Payload  json.RawMessage `json:"payload"`
	QueuedAt time.Time       `json:"queued_at"`
}

// NewEvent marshals payload and stamps the event with a fresh key.
func NewEvent(kind Kind, gameID string, payload any) (Event, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Event{}, err
	}
	return Event{
		Key:      uuid.NewString(),
		Kind:     kind,
		GameID:   gameID,
		Payload:  raw,
		QueuedAt: time.Now().UTC(),
	}, nil
}

type Queue struct {
	mu   sync.Mutex
	path string
}

func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".lemonade"), nil
}

func Open(dir string) (*Queue, error) {
	if dir == "" {
		return nil, errors.New("syncq: empty directory")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, err
	}
	return &Queue{path: filepath.Join(dir, "queue.json")}, nil
}

func (q *Queue) Load() ([]Event, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.load()
}

func (q *Queue) load() ([]Event, error) {
	raw, err := os.ReadFile(q.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []Event{}, nil
		}
		return nil, err
	}
	if len(raw) == 0 {
		return []Event{}, nil
	}
	var out []Event
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (q *Queue) save(events []Event) error {
	if len(events) == 0 {
		if err := os.Remove(q.path); err != nil && !os.IsNotExist(err) {
			return err
		}
		return nil
	}
	raw, err := json.MarshalIndent(events, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(q.path, raw, 0o600)
}

func (q *Queue) Push(ev Event) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	events, err := q.load()
	if err != nil {
		return err
	}
	return q.save(append(events, ev))
}

// Drain applies queued events in order. It stops at the first failure and
// keeps that event and everything after it for the next attempt.
func (q *Queue) Drain(apply func(Event) error) (int, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	events, err := q.load()
	if err != nil {
		return 0, err
	}
	done := 0
	var applyErr error
	for _, ev := range events {
		if applyErr = apply(ev); applyErr != nil {
			break
		}
		done++
	}
	if done == 0 && applyErr == nil {
		return 0, nil
	}
	if err := q.save(events[done:]); err != nil {
		return done, err
	}
	return done, applyErr
}
