package jobs

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rob-j-au/djtip/internal/uploads"
)

func newTestStore(t *testing.T) *uploads.Store {
	t.Helper()
	base := t.TempDir()
	return uploads.NewStore(base+"/cache", base+"/store", "test-secret")
}

func TestQueuePushesJobPayloads(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	queue := NewQueue(client, "djtip:test", nil)

	recordID := uuid.New()
	require.NoError(t, queue.SchedulePromotion("user", recordID))

	payload, err := mr.Lpop("djtip:test")
	require.NoError(t, err)

	var job Job
	require.NoError(t, json.Unmarshal([]byte(payload), &job))
	assert.Equal(t, TypePromoteImage, job.Type)
	assert.Equal(t, "user", job.Entity)
	assert.Equal(t, recordID, job.RecordID)

	tipID := uuid.New()
	require.NoError(t, queue.ScheduleTipNotification(tipID))
	require.NoError(t, queue.ScheduleDestruction([]string{"store/a.jpg", "store/b.jpg"}))
	items, err := mr.List("djtip:test")
	require.NoError(t, err)
	assert.Len(t, items, 2)
}

func TestWorkConsumesQueuedJobs(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	store := newTestStore(t)
	require.NoError(t, os.MkdirAll(store.StoreDir, 0o755))
	target := filepath.Join(store.StoreDir, "doomed.jpg")
	require.NoError(t, os.WriteFile(target, []byte("jpeg bytes"), 0o644))

	queue := NewQueue(client, "djtip:test", NewRunner(nil, store))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go queue.Work(ctx)

	require.NoError(t, queue.ScheduleDestruction([]string{"store/doomed.jpg"}))

	assert.Eventually(t, func() bool {
		_, err := os.Stat(target)
		return os.IsNotExist(err)
	}, 5*time.Second, 10*time.Millisecond)
}

func TestQueueWithoutRedisRunsInline(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, os.MkdirAll(store.StoreDir, 0o755))
	target := filepath.Join(store.StoreDir, "doomed.jpg")
	require.NoError(t, os.WriteFile(target, []byte("jpeg bytes"), 0o644))

	queue := NewQueue(nil, "djtip:test", NewRunner(nil, store))
	require.NoError(t, queue.ScheduleDestruction([]string{"store/doomed.jpg"}))

	assert.Eventually(t, func() bool {
		_, err := os.Stat(target)
		return os.IsNotExist(err)
	}, 5*time.Second, 10*time.Millisecond)
}
