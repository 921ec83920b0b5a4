package sweeper

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m3rciful/profilebot/core/logger"
	"github.com/m3rciful/profilebot/internal/state"
)

func TestMain(m *testing.M) {
	_ = logger.Init(logger.Settings{Level: "error", Format: "kv", Profile: "debug"})
	os.Exit(m.Run())
}

type recordingClearer struct {
	labels []string
	cutoff time.Time
	n      int64
	err    error
	calls  int
}

func (r *recordingClearer) ClearStale(_ context.Context, labels []string, cutoff time.Time) (int64, error) {
	r.calls++
	r.labels = labels
	r.cutoff = cutoff
	return r.n, r.err
}

func TestNewDisabledWithoutTTL(t *testing.T) {
	assert.Nil(t, New(&recordingClearer{}, Options{TTL: 0}))
	assert.Nil(t, New(&recordingClearer{}, Options{TTL: -time.Minute}))
}

func TestSweepTargetsWaitingLabelsWithTTLCutoff(t *testing.T) {
	clearer := &recordingClearer{n: 2}
	s := New(clearer, Options{TTL: 30 * time.Minute, Interval: time.Minute})
	require.NotNil(t, s)

	before := time.Now().Add(-30 * time.Minute)
	s.sweep()
	after := time.Now().Add(-30 * time.Minute)

	assert.Equal(t, 1, clearer.calls)
	assert.Equal(t, state.WaitingLabels, clearer.labels)
	assert.False(t, clearer.cutoff.Before(before))
	assert.False(t, clearer.cutoff.After(after.Add(time.Second)))
}

func TestSweepSurvivesStoreFailure(t *testing.T) {
	clearer := &recordingClearer{err: context.DeadlineExceeded}
	s := New(clearer, Options{TTL: time.Minute})
	require.NotNil(t, s)

	s.sweep()
	assert.Equal(t, 1, clearer.calls)
}
