package state

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m3rciful/profilebot/core/telegram/telegramtest"

	tele "gopkg.in/telebot.v4"
)

func TestInProgressOnlyForRegisteredContinuations(t *testing.T) {
	ctx := context.Background()
	m := NewMachine(NewMemoryStore())
	m.RegisterContinuation(WaitingFeedback, func(tele.Context, Record) error { return nil })

	assert.False(t, m.InProgress(ctx, 1), "idle user")

	require.NoError(t, m.Begin(ctx, 1, WaitingFeedback, nil))
	assert.True(t, m.InProgress(ctx, 1))

	// waiting_delete has no text continuation; routing must keep going.
	require.NoError(t, m.Begin(ctx, 2, WaitingDelete, EncodeDeletePayload("tok")))
	assert.False(t, m.InProgress(ctx, 2))
}

func TestHandleDispatchesContinuationWithRecord(t *testing.T) {
	ctx := context.Background()
	m := NewMachine(NewMemoryStore())

	var got Record
	m.RegisterContinuation(WaitingName, func(_ tele.Context, rec Record) error {
		got = rec
		return nil
	})

	require.NoError(t, m.Begin(ctx, 5, WaitingName, []byte(`{"hint":"x"}`)))

	c := telegramtest.NewMessage(5, "my new nickname")
	require.NoError(t, m.Handle(c))
	assert.Equal(t, WaitingName, got.Label)
	assert.JSONEq(t, `{"hint":"x"}`, string(got.Payload))
}

func TestEndReturnsUserToIdle(t *testing.T) {
	ctx := context.Background()
	m := NewMachine(NewMemoryStore())
	m.RegisterContinuation(WaitingFeedback, func(tele.Context, Record) error { return nil })

	require.NoError(t, m.Begin(ctx, 9, WaitingFeedback, nil))
	require.True(t, m.InProgress(ctx, 9))
	require.NoError(t, m.End(ctx, 9))
	assert.False(t, m.InProgress(ctx, 9))

	rec, err := m.Current(ctx, 9)
	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestWithUserLockSerializesSameUser(t *testing.T) {
	m := NewMachine(NewMemoryStore())

	const workers = 32
	counter := 0
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			_ = m.WithUserLock(42, func() error {
				counter++
				return nil
			})
		}()
	}
	wg.Wait()

	assert.Equal(t, workers, counter)

	// the refcounted entry must be released once nobody holds it
	m.locksMu.Lock()
	defer m.locksMu.Unlock()
	assert.Empty(t, m.locks)
}

func TestDeletePayloadRoundTrip(t *testing.T) {
	raw := EncodeDeletePayload("4c1f")
	assert.Equal(t, "4c1f", DecodeDeletePayload(raw).Token)

	assert.Empty(t, DecodeDeletePayload(nil).Token)
	assert.Empty(t, DecodeDeletePayload([]byte("not json")).Token)
}
