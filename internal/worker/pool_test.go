package worker_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/flashdeck/internal/worker"
)

type funcJob struct {
	name string
	fn   func(context.Context) error
}

func (j funcJob) Name() string                  { return j.name }
func (j funcJob) Run(ctx context.Context) error { return j.fn(ctx) }

func TestPool_RunsSubmittedJobs(t *testing.T) {
	pool := worker.NewPool(2, 8)
	pool.Start(context.Background())

	var ran atomic.Int32
	for i := 0; i < 5; i++ {
		require.NoError(t, pool.Submit(funcJob{name: "count", fn: func(context.Context) error {
			ran.Add(1)
			return nil
		}}))
	}

	pool.Stop()
	assert.Equal(t, int32(5), ran.Load(), "stop should drain queued jobs")
}

func TestPool_FailingAndPanickingJobsDoNotKillWorkers(t *testing.T) {
	pool := worker.NewPool(1, 4)
	pool.Start(context.Background())

	var ran atomic.Int32
	require.NoError(t, pool.Submit(funcJob{name: "fail", fn: func(context.Context) error { return errors.New("boom") }}))
	require.NoError(t, pool.Submit(funcJob{name: "panic", fn: func(context.Context) error { panic("boom") }}))
	require.NoError(t, pool.Submit(funcJob{name: "ok", fn: func(context.Context) error {
		ran.Add(1)
		return nil
	}}))

	pool.Stop()
	assert.Equal(t, int32(1), ran.Load())
}

func TestPool_SubmitWhenFull(t *testing.T) {
	pool := worker.NewPool(1, 1)
	release := make(chan struct{})
	started := make(chan struct{})
	pool.Start(context.Background())

	require.NoError(t, pool.Submit(funcJob{name: "block", fn: func(context.Context) error {
		close(started)
		<-release
		return nil
	}}))
	<-started
	require.NoError(t, pool.Submit(funcJob{name: "queued", fn: func(context.Context) error { return nil }}))

	err := pool.Submit(funcJob{name: "overflow", fn: func(context.Context) error { return nil }})
	assert.ErrorIs(t, err, worker.ErrQueueFull)

	close(release)
	pool.Stop()
}

func TestPool_SubmitAfterStop(t *testing.T) {
	pool := worker.NewPool(1, 1)
	pool.Start(context.Background())
	pool.Stop()
	pool.Stop()

	err := pool.Submit(funcJob{name: "late", fn: func(context.Context) error { return nil }})
	assert.ErrorIs(t, err, worker.ErrPoolStopped)
}

func TestPool_JobContextCarriesLogger(t *testing.T) {
	pool := worker.NewPool(1, 1)
	pool.Start(context.Background())

	done := make(chan error, 1)
	require.NoError(t, pool.Submit(funcJob{name: "ctx", fn: func(ctx context.Context) error {
		done <- ctx.Err()
		return nil
	}}))

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("job did not run")
	}
	pool.Stop()
}
