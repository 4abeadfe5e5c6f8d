package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const popTimeout = time.Second

// Queue is a redis-list backed job queue (LPUSH to enqueue, BRPOP to
// consume). With no redis client it degrades to running jobs inline in a
// goroutine, so the app keeps working without the broker.
type Queue struct {
	client *redis.Client
	name   string
	runner *Runner
}

func NewQueue(client *redis.Client, name string, runner *Runner) *Queue {
	return &Queue{client: client, name: name, runner: runner}
}

func (q *Queue) SchedulePromotion(entity string, recordID uuid.UUID) error {
	return q.enqueue(Job{Type: TypePromoteImage, Entity: entity, RecordID: recordID})
}

func (q *Queue) ScheduleDestruction(paths []string) error {
	return q.enqueue(Job{Type: TypeDestroyFiles, Paths: paths})
}

func (q *Queue) ScheduleTipNotification(tipID uuid.UUID) error {
	return q.enqueue(Job{Type: TypeTipNotification, TipID: tipID})
}

func (q *Queue) enqueue(job Job) error {
	if q.client == nil {
		go func() {
			if err := q.runner.Handle(context.Background(), job); err != nil {
				log.Printf("job %s failed: %v", job.Type, err)
			}
		}()
		return nil
	}

	payload, err := json.Marshal(job)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return q.client.LPush(ctx, q.name, payload).Err()
}

// Work consumes jobs until the context is cancelled. Meant to run in its
// own goroutine next to the HTTP server.
func (q *Queue) Work(ctx context.Context) {
	if q.client == nil {
		return
	}
	for {
		if ctx.Err() != nil {
			return
		}

		result, err := q.client.BRPop(ctx, popTimeout, q.name).Result()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				continue
			}
			if ctx.Err() != nil {
				return
			}
			log.Printf("queue pop error: %v", err)
			time.Sleep(time.Second)
			continue
		}
		if len(result) < 2 {
			continue
		}

		var job Job
		if err := json.Unmarshal([]byte(result[1]), &job); err != nil {
			log.Printf("dropping malformed job payload: %v", err)
			continue
		}
		if err := q.runner.Handle(ctx, job); err != nil {
			log.Printf("job %s failed: %v", job.Type, err)
		}
	}
}
