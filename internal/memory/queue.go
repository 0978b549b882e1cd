// Package memory forwards journal entries to the LLM service, which derives
// long-lived semantic memories from them. Delivery is asynchronous and best
// effort; failures land in a Redis dead-letter list.
package memory

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"journal-service/internal/metrics"
)

const (
	DeadLetterKey = "memory:dead-letter"

	defaultWorkers   = 2
	defaultQueueSize = 100
	deadLetterTTL    = 5 * time.Second
)

type Task struct {
	UserID   string         `json:"userId"`
	Content  string         `json:"content"`
	Metadata map[string]any `json:"metadata"`
}

type Config struct {
	LLMServiceURL string
	APIKey        string
	Workers       int
	QueueSize     int
	HTTPClient    *http.Client
	// DeadLetter is optional; without it failed tasks are only logged.
	DeadLetter redis.Cmdable
}

type Queue struct {
	endpoint string
	apiKey   string
	workers  int
	client   *http.Client
	rdb      redis.Cmdable

	mu       sync.RWMutex
	closed   bool
	tasks    chan Task
	rejected chan deadLetterEntry
}

func NewQueue(cfg Config) *Queue {
	if cfg.Workers <= 0 {
		cfg.Workers = defaultWorkers
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = defaultQueueSize
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Queue{
		endpoint: strings.TrimRight(cfg.LLMServiceURL, "/") + "/semantic-memory",
		apiKey:   cfg.APIKey,
		workers:  cfg.Workers,
		client:   cfg.HTTPClient,
		rdb:      cfg.DeadLetter,
		tasks:    make(chan Task, cfg.QueueSize),
		rejected: make(chan deadLetterEntry, cfg.QueueSize),
	}
}

// Enqueue hands t to the workers without blocking and without I/O. It
// reports false when the queue is full or shut down; full-queue rejections
// are pushed to the dead-letter list later by Run.
func (q *Queue) Enqueue(t Task) bool {
	if t.Metadata == nil {
		t.Metadata = map[string]any{}
	}

	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.closed {
		q.reject(t, "queue closed", false)
		return false
	}
	select {
	case q.tasks <- t:
		metrics.MemoryTasks.WithLabelValues("queued").Inc()
		return true
	default:
		q.reject(t, "queue full", true)
		return false
	}
}

// reject logs and counts a task Enqueue turned away. When park is set the
// task is buffered for the dead-letter pusher; a full buffer drops it.
func (q *Queue) reject(t Task, reason string, park bool) {
	metrics.MemoryTasks.WithLabelValues("dead_letter").Inc()
	log.Printf("memory: dead-letter task for user %s: %s", t.UserID, reason)
	if !park || q.rdb == nil {
		return
	}
	select {
	case q.rejected <- deadLetterEntry{Task: t, Reason: reason, FailedAt: time.Now().UTC()}:
	default:
		log.Printf("memory: dead-letter buffer full, dropping task for user %s", t.UserID)
	}
}

// Run starts the workers and blocks until ctx is done. It then stops
// accepting tasks and waits for everything already queued to be delivered.
func (q *Queue) Run(ctx context.Context) error {
	var wg sync.WaitGroup
	sendCtx := context.WithoutCancel(ctx)
	for i := 0; i < q.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for t := range q.tasks {
				q.deliver(sendCtx, t)
			}
		}()
	}

	pushed := make(chan struct{})
	go func() {
		defer close(pushed)
		for e := range q.rejected {
			q.push(sendCtx, e)
		}
	}()
	log.Printf("memory: %d workers started", q.workers)

	<-ctx.Done()

	q.mu.Lock()
	q.closed = true
	close(q.tasks)
	close(q.rejected)
	q.mu.Unlock()

	wg.Wait()
	<-pushed
	log.Printf("memory: queue drained")
	return nil
}

func (q *Queue) deliver(ctx context.Context, t Task) {
	body, err := json.Marshal(t)
	if err != nil {
		q.deadLetter(ctx, t, fmt.Sprintf("encode: %v", err))
		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, q.endpoint, bytes.NewReader(body))
	if err != nil {
		q.deadLetter(ctx, t, fmt.Sprintf("build request: %v", err))
		return
	}
	req.Header.Set("Content-Type", "application/json")
	if q.apiKey != "" {
		req.Header.Set("x-api-key", q.apiKey)
	}

	resp, err := q.client.Do(req)
	if err != nil {
		q.deadLetter(ctx, t, fmt.Sprintf("send: %v", err))
		return
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		q.deadLetter(ctx, t, fmt.Sprintf("status %d", resp.StatusCode))
		return
	}
	metrics.MemoryTasks.WithLabelValues(metrics.ResultOK).Inc()
}

type deadLetterEntry struct {
	Task     Task      `json:"task"`
	Reason   string    `json:"reason"`
	FailedAt time.Time `json:"failedAt"`
}

func (q *Queue) deadLetter(ctx context.Context, t Task, reason string) {
	metrics.MemoryTasks.WithLabelValues("dead_letter").Inc()
	log.Printf("memory: dead-letter task for user %s: %s", t.UserID, reason)
	if q.rdb == nil {
		return
	}
	q.push(ctx, deadLetterEntry{Task: t, Reason: reason, FailedAt: time.Now().UTC()})
}

func (q *Queue) push(ctx context.Context, e deadLetterEntry) {
	data, err := json.Marshal(e)
	if err != nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, deadLetterTTL)
	defer cancel()
	if err := q.rdb.LPush(ctx, DeadLetterKey, data).Err(); err != nil {
		log.Printf("memory: dead-letter push failed: %v", err)
	}
}
