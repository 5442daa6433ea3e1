package lock

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/renantorres0/smartcommerce/internal/domain"
)

func TestLocalSerializesSameKey(t *testing.T) {
	l := NewLocal()
	ctx := context.Background()

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		inside  int
		maxSeen int
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rel, err := l.Acquire(ctx, Key("p1"))
			if !assert.NoError(t, err) {
				return
			}
			mu.Lock()
			inside++
			maxSeen = max(maxSeen, inside)
			mu.Unlock()
			time.Sleep(time.Millisecond)
			mu.Lock()
			inside--
			mu.Unlock()
			rel()
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, maxSeen)
	assert.Empty(t, l.slots)
}

func TestLocalHonorsContext(t *testing.T) {
	l := NewLocal()
	rel, err := l.Acquire(context.Background(), "k")
	require.NoError(t, err)
	defer rel()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err = l.Acquire(ctx, "k")
	assert.ErrorIs(t, err, domain.ErrStorageFailure)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestLocalReleaseIsIdempotent(t *testing.T) {
	l := NewLocal()
	rel, err := l.Acquire(context.Background(), "k")
	require.NoError(t, err)
	rel()
	rel()

	rel2, err := l.Acquire(context.Background(), "k")
	require.NoError(t, err)
	rel2()
}

func TestAcquireAllDedupesAndReleases(t *testing.T) {
	l := NewLocal()
	ctx := context.Background()

	rel, err := AcquireAll(ctx, l, "b", "a", "b")
	require.NoError(t, err)
	assert.Len(t, l.slots, 2)
	rel()
	assert.Empty(t, l.slots)
}

func TestAcquireAllReleasesOnFailure(t *testing.T) {
	l := NewLocal()
	held, err := l.Acquire(context.Background(), "b")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err = AcquireAll(ctx, l, "a", "b")
	assert.ErrorIs(t, err, domain.ErrStorageFailure)

	held()
	rel, err := l.Acquire(context.Background(), "a")
	require.NoError(t, err, "a must have been released")
	rel()
}

func newRedisLocker(t *testing.T) (*Redis, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	r := NewRedis(client)
	r.Backoff = time.Millisecond
	return r, mr
}

func TestRedisAcquireRelease(t *testing.T) {
	r, mr := newRedisLocker(t)
	ctx := context.Background()

	rel, err := r.Acquire(ctx, Key("p1"))
	require.NoError(t, err)
	assert.True(t, mr.Exists(Key("p1")))

	_, err = r.Acquire(ctx, Key("p1"))
	assert.ErrorIs(t, err, ErrBusy)
	assert.ErrorIs(t, err, domain.ErrStorageFailure)

	rel()
	assert.False(t, mr.Exists(Key("p1")))

	rel2, err := r.Acquire(ctx, Key("p1"))
	require.NoError(t, err)
	rel2()
}

func TestRedisReleaseLeavesForeignLockAlone(t *testing.T) {
	r, mr := newRedisLocker(t)

	rel, err := r.Acquire(context.Background(), "k")
	require.NoError(t, err)

	// Lock expired and someone else took it.
	require.NoError(t, mr.Set("k", "other-owner"))
	rel()

	got, err := mr.Get("k")
	require.NoError(t, err)
	assert.Equal(t, "other-owner", got)
}

func TestRedisGivesUpWithoutFinalBackoff(t *testing.T) {
	r, mr := newRedisLocker(t)
	require.NoError(t, mr.Set(Key("p1"), "other-owner"))
	r.Retries = 1
	r.Backoff = time.Hour

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	start := time.Now()
	_, err := r.Acquire(ctx, Key("p1"))
	assert.ErrorIs(t, err, ErrBusy)
	assert.Less(t, time.Since(start), time.Second)
}
