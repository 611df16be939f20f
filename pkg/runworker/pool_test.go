package runworker

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPoolProcessesJobs(t *testing.T) {
	pool := NewPool(2, 8)
	pool.Start(context.Background())
	defer pool.Stop()

	var wg sync.WaitGroup
	var mu sync.Mutex
	seen := make(map[string]int)

	for i := 0; i < 10; i++ {
		wg.Add(1)
		user := string(rune('a' + i%3))
		ok := pool.TryDispatch(RunJob{
			UserID: user,
			Handler: func(ctx context.Context) {
				defer wg.Done()
				mu.Lock()
				seen[user]++
				mu.Unlock()
			},
		})
		require.True(t, ok)
	}

	wg.Wait()
	mu.Lock()
	defer mu.Unlock()
	total := 0
	for _, n := range seen {
		total += n
	}
	assert.Equal(t, 10, total)
}

func TestPoolSameUserSequential(t *testing.T) {
	pool := NewPool(4, 16)
	pool.Start(context.Background())
	defer pool.Stop()

	var mu sync.Mutex
	var order []int
	var wg sync.WaitGroup

	for i := 0; i < 5; i++ {
		wg.Add(1)
		idx := i
		ok := pool.TryDispatch(RunJob{
			UserID: "same-user",
			Handler: func(ctx context.Context) {
				defer wg.Done()
				time.Sleep(5 * time.Millisecond)
				mu.Lock()
				order = append(order, idx)
				mu.Unlock()
			},
		})
		require.True(t, ok)
	}

	wg.Wait()
	assert.Equal(t, []int{0, 1, 2, 3, 4}, order)
}

func TestPoolDropsWhenQueueFull(t *testing.T) {
	pool := NewPool(1, 1)
	pool.Start(context.Background())
	defer pool.Stop()

	release := make(chan struct{})
	started := make(chan struct{})
	require.True(t, pool.TryDispatch(RunJob{
		UserID: "u",
		Handler: func(ctx context.Context) {
			close(started)
			<-release
		},
	}))
	<-started

	// one slot in the queue, then it overflows
	require.True(t, pool.TryDispatch(RunJob{UserID: "u", Handler: func(ctx context.Context) {}}))
	assert.False(t, pool.TryDispatch(RunJob{UserID: "u", Handler: func(ctx context.Context) {}}))

	close(release)

	stats := pool.Stats()
	assert.Equal(t, int64(1), stats.TotalDropped)
}

func TestPoolRejectsAfterStop(t *testing.T) {
	pool := NewPool(1, 1)
	pool.Start(context.Background())
	pool.Stop()

	assert.False(t, pool.TryDispatch(RunJob{UserID: "u", Handler: func(ctx context.Context) {}}))
}

func TestShardForIsStable(t *testing.T) {
	pool := NewPool(4, 1)
	a := pool.shardFor("user@example.com")
	for i := 0; i < 10; i++ {
		assert.Equal(t, a, pool.shardFor("user@example.com"))
	}
}
