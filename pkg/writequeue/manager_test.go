package writequeue

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecute_SerializesSameKey(t *testing.T) {
	m := New(nil, nil)
	defer m.Shutdown(context.Background())

	var inFlight, maxInFlight atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := m.Execute(context.Background(), "diary_2025-03-10.txt", func() error {
				n := inFlight.Add(1)
				for {
					cur := maxInFlight.Load()
					if n <= cur || maxInFlight.CompareAndSwap(cur, n) {
						break
					}
				}
				time.Sleep(time.Millisecond)
				inFlight.Add(-1)
				return nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), maxInFlight.Load())
}

func TestExecute_KeysAreIndependent(t *testing.T) {
	m := New(nil, nil)
	defer m.Shutdown(context.Background())

	release := make(chan struct{})
	started := make(chan struct{})
	go func() {
		_ = m.Execute(context.Background(), "a", func() error {
			close(started)
			<-release
			return nil
		})
	}()
	<-started

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	err := m.Execute(ctx, "b", func() error { return nil })
	assert.NoError(t, err)

	close(release)
}

func TestExecute_ReturnsFnError(t *testing.T) {
	m := New(nil, nil)
	defer m.Shutdown(context.Background())

	boom := assert.AnError
	err := m.Execute(context.Background(), "k", func() error { return boom })
	assert.ErrorIs(t, err, boom)
}

func TestExecute_QueueFull(t *testing.T) {
	m := New(&Config{QueueCapacity: 1}, nil)
	defer m.Shutdown(context.Background())

	release := make(chan struct{})
	started := make(chan struct{})
	go func() {
		_ = m.Execute(context.Background(), "k", func() error {
			close(started)
			<-release
			return nil
		})
	}()
	<-started

	// occupies the single slot
	go func() {
		_ = m.Execute(context.Background(), "k", func() error { return nil })
	}()
	require.Eventually(t, func() bool { return m.QueuedCount("k") == 2 }, time.Second, time.Millisecond)

	err := m.Execute(context.Background(), "k", func() error { return nil })
	assert.ErrorIs(t, err, ErrWriteQueueFull)

	close(release)
}

func TestExecute_AfterShutdown(t *testing.T) {
	m := New(nil, nil)
	require.NoError(t, m.Shutdown(context.Background()))

	err := m.Execute(context.Background(), "k", func() error { return nil })
	assert.ErrorIs(t, err, ErrWriteQueueClosed)
	assert.True(t, m.IsClosed())
}

func TestCleanup_RemovesIdleQueues(t *testing.T) {
	m := New(&Config{IdleTimeout: 20 * time.Millisecond}, nil)
	defer m.Shutdown(context.Background())

	require.NoError(t, m.Execute(context.Background(), "k", func() error { return nil }))

	assert.Eventually(t, func() bool { return m.QueueCount() == 0 }, time.Second, 5*time.Millisecond)

	// a fresh queue is created on demand
	require.NoError(t, m.Execute(context.Background(), "k", func() error { return nil }))
}

func TestShutdown_DrainsAcceptedWrites(t *testing.T) {
	m := New(nil, nil)

	release := make(chan struct{})
	started := make(chan struct{})
	go func() {
		_ = m.Execute(context.Background(), "k", func() error {
			close(started)
			<-release
			return nil
		})
	}()
	<-started

	var ran atomic.Int32
	for i := 0; i < 2; i++ {
		go func() {
			_ = m.Execute(context.Background(), "k", func() error {
				ran.Add(1)
				return nil
			})
		}()
	}
	require.Eventually(t, func() bool { return m.QueuedCount("k") == 3 }, time.Second, time.Millisecond)

	go func() {
		time.Sleep(10 * time.Millisecond)
		close(release)
	}()

	require.NoError(t, m.Shutdown(context.Background()))
	assert.Equal(t, int32(2), ran.Load())
}

func TestExecute_TimedOutQueuedWriteIsNotApplied(t *testing.T) {
	m := New(&Config{WriteTimeout: 50 * time.Millisecond}, nil)
	defer m.Shutdown(context.Background())

	release := make(chan struct{})
	started := make(chan struct{})
	firstDone := make(chan error, 1)
	go func() {
		firstDone <- m.Execute(context.Background(), "k", func() error {
			close(started)
			<-release
			return nil
		})
	}()
	<-started

	var applied atomic.Bool
	err := m.Execute(context.Background(), "k", func() error {
		applied.Store(true)
		return nil
	})
	assert.ErrorIs(t, err, ErrWriteTimeout)

	close(release)
	// the running write outlived its timeout and still reports its own result
	assert.NoError(t, <-firstDone)

	require.Eventually(t, func() bool { return m.QueuedCount("k") == 0 }, time.Second, time.Millisecond)
	assert.False(t, applied.Load())
}

func TestExecute_ClaimedWriteReportsRealResult(t *testing.T) {
	m := New(&Config{WriteTimeout: 20 * time.Millisecond}, nil)
	defer m.Shutdown(context.Background())

	boom := assert.AnError
	err := m.Execute(context.Background(), "k", func() error {
		time.Sleep(100 * time.Millisecond)
		return boom
	})
	assert.ErrorIs(t, err, boom)

	err = m.Execute(context.Background(), "k", func() error {
		time.Sleep(100 * time.Millisecond)
		return nil
	})
	assert.NoError(t, err)
}

func TestExecute_CancelledQueuedWriteIsNotApplied(t *testing.T) {
	m := New(nil, nil)
	defer m.Shutdown(context.Background())

	release := make(chan struct{})
	started := make(chan struct{})
	go func() {
		_ = m.Execute(context.Background(), "k", func() error {
			close(started)
			<-release
			return nil
		})
	}()
	<-started

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		assert.Eventually(t, func() bool { return m.QueuedCount("k") == 2 }, time.Second, time.Millisecond)
		cancel()
	}()

	var applied atomic.Bool
	err := m.Execute(ctx, "k", func() error {
		applied.Store(true)
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)

	close(release)
	require.Eventually(t, func() bool { return m.QueuedCount("k") == 0 }, time.Second, time.Millisecond)
	assert.False(t, applied.Load())
}

func TestExecute_ConcurrentWithShutdown(t *testing.T) {
	for i := 0; i < 50; i++ {
		m := New(&Config{WriteTimeout: 5 * time.Second}, nil)

		var wg sync.WaitGroup
		var ran, accepted atomic.Int32
		for j := 0; j < 8; j++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				err := m.Execute(context.Background(), "k", func() error {
					ran.Add(1)
					return nil
				})
				if err == nil {
					accepted.Add(1)
					return
				}
				assert.ErrorIs(t, err, ErrWriteQueueClosed)
			}()
		}
		require.NoError(t, m.Shutdown(context.Background()))

		done := make(chan struct{})
		go func() {
			wg.Wait()
			close(done)
		}()
		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("write accepted during shutdown never completed")
		}
		assert.Equal(t, accepted.Load(), ran.Load())
	}
}
