package archive

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ocmhub/internal/blob"
)

func TestNewSchedulerRejectsBadSpec(t *testing.T) {
	_, a := newFixture(t, blob.NewMemory())
	_, err := NewScheduler(a, "every tuesday")
	assert.Error(t, err)
}

func TestSchedulerTickArchivesOnce(t *testing.T) {
	ctx := context.Background()
	store := blob.NewMemory()
	svc, a := newFixture(t, store)
	addModule(t, svc, "Workbench")

	s, err := NewScheduler(a, "*/5 * * * *")
	require.NoError(t, err)
	s.tick()
	s.tick()

	got, err := a.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestSchedulerStartStop(t *testing.T) {
	_, a := newFixture(t, blob.NewMemory())
	s, err := NewScheduler(a, "@hourly")
	require.NoError(t, err)
	s.Start()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	assert.NoError(t, s.Stop(ctx))
}
