package worker

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrEmpty is returned by Pop when no job arrived before the timeout.
var ErrEmpty = errors.New("worker: queue empty")

// Queue is the list store the dispatcher pushes to and the pool pops from.
type Queue interface {
	Push(ctx context.Context, queue string, data []byte) error
	Pop(ctx context.Context, timeout time.Duration, queues ...string) (string, []byte, error)
	Len(ctx context.Context, queue string) (int64, error)
}

// RedisQueue stores jobs in Redis lists: LPUSH to enqueue, BRPOP to consume.
type RedisQueue struct{ rdb *redis.Client }

func NewRedisQueue(rdb *redis.Client) *RedisQueue { return &RedisQueue{rdb: rdb} }

func (q *RedisQueue) Push(ctx context.Context, queue string, data []byte) error {
	return q.rdb.LPush(ctx, queue, data).Err()
}

func (q *RedisQueue) Pop(ctx context.Context, timeout time.Duration, queues ...string) (string, []byte, error) {
	result, err := q.rdb.BRPop(ctx, timeout, queues...).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil, ErrEmpty
	}
	if err != nil {
		return "", nil, err
	}
	if len(result) < 2 {
		return "", nil, ErrEmpty
	}
	return result[0], []byte(result[1]), nil
}

func (q *RedisQueue) Len(ctx context.Context, queue string) (int64, error) {
	return q.rdb.LLen(ctx, queue).Result()
}

// MemoryQueue keeps jobs in process. Used when Redis is not configured;
// queued jobs are lost on restart.
type MemoryQueue struct {
	mu     sync.Mutex
	lists  map[string][][]byte
	notify chan struct{}
}

func NewMemoryQueue() *MemoryQueue {
	return &MemoryQueue{lists: make(map[string][][]byte), notify: make(chan struct{}, 1)}
}

func (q *MemoryQueue) Push(_ context.Context, queue string, data []byte) error {
	q.mu.Lock()
	q.lists[queue] = append(q.lists[queue], append([]byte(nil), data...))
	q.mu.Unlock()
	select {
	case q.notify <- struct{}{}:
	default:
	}
	return nil
}

func (q *MemoryQueue) Pop(ctx context.Context, timeout time.Duration, queues ...string) (string, []byte, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	for {
		if name, data, ok := q.take(queues); ok {
			return name, data, nil
		}
		select {
		case <-ctx.Done():
			return "", nil, ctx.Err()
		case <-timer.C:
			return "", nil, ErrEmpty
		case <-q.notify:
		}
	}
}

func (q *MemoryQueue) take(queues []string) (string, []byte, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for _, name := range queues {
		if l := q.lists[name]; len(l) > 0 {
			q.lists[name] = l[1:]
			if len(l) > 1 {
				// wake another waiter for the remaining items
				select {
				case q.notify <- struct{}{}:
				default:
				}
			}
			return name, l[0], true
		}
	}
	return "", nil, false
}

func (q *MemoryQueue) Len(_ context.Context, queue string) (int64, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return int64(len(q.lists[queue])), nil
}
