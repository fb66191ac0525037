package workers

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/lunahealth/luna/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPool_RunsAllJobs(t *testing.T) {
	pool := NewPool(3, common.GetLogger())
	pool.Start()

	var done int32
	for i := 0; i < 10; i++ {
		require.NoError(t, pool.Submit(func(ctx context.Context) error {
			atomic.AddInt32(&done, 1)
			return nil
		}))
	}
	pool.Wait()

	assert.Equal(t, int32(10), atomic.LoadInt32(&done))
	assert.Empty(t, pool.Errors())
}

func TestPool_CollectsErrors(t *testing.T) {
	pool := NewPool(2, common.GetLogger())
	pool.Start()

	boom := errors.New("batch failed")
	require.NoError(t, pool.Submit(func(ctx context.Context) error { return boom }))
	require.NoError(t, pool.Submit(func(ctx context.Context) error { return nil }))
	pool.Wait()

	errs := pool.Errors()
	require.Len(t, errs, 1)
	assert.Equal(t, boom, errs[0])
}

func TestPool_ErrorsReturnsSnapshot(t *testing.T) {
	pool := NewPool(2, common.GetLogger())
	pool.Start()

	require.NoError(t, pool.Submit(func(ctx context.Context) error { return errors.New("first") }))
	pool.Wait()

	errs := pool.Errors()
	require.Len(t, errs, 1)
	errs[0] = nil

	again := pool.Errors()
	require.Len(t, again, 1)
	assert.NotNil(t, again[0], "callers must not be able to mutate the pool's error list")
}
