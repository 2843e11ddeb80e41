package syncq

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPushLoadDrain(t *testing.T) {
	q, err := Open(t.TempDir())
	require.NoError(t, err)

	events, err := q.Load()
	require.NoError(t, err)
	assert.Empty(t, events)

	for i, kind := range []Kind{KindStart, KindDay, KindFinish} {
		ev, err := NewEvent(kind, "g1", map[string]int{"n": i})
		require.NoError(t, err)
		require.NoError(t, q.Push(ev))
	}

	events, err = q.Load()
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Equal(t, KindStart, events[0].Kind)
	assert.NotEqual(t, events[0].Key, events[1].Key)
	assert.JSONEq(t, `{"n":1}`, string(events[1].Payload))

	var seen []Kind
	n, err := q.Drain(func(ev Event) error {
		seen = append(seen, ev.Kind)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, []Kind{KindStart, KindDay, KindFinish}, seen)

	events, err = q.Load()
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestDrainKeepsFailedTail(t *testing.T) {
	q, err := Open(t.TempDir())
	require.NoError(t, err)
	for _, kind := range []Kind{KindStart, KindDay, KindFinish} {
		ev, err := NewEvent(kind, "g1", nil)
		require.NoError(t, err)
		require.NoError(t, q.Push(ev))
	}

	boom := errors.New("backend down")
	n, err := q.Drain(func(ev Event) error {
		if ev.Kind == KindDay {
			return boom
		}
		return nil
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, n)

	events, err := q.Load()
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, KindDay, events[0].Kind)
	assert.Equal(t, KindFinish, events[1].Kind)
}

func TestOpenRejectsEmptyDir(t *testing.T) {
	_, err := Open("")
	assert.Error(t, err)
}
