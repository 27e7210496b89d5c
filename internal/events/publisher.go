package events

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/KirillGluhov/gallery-api/internal/ids"
)

const (
	TypeFileCleanup = "file.cleanup"
	TypeSweep       = "sweep"
)

type Task struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Path string `json:"path,omitempty"`
	At   string `json:"at"`
}

// Publisher appends tasks to a Redis stream. A nil client turns every
// publish into a no-op so the API can run without Redis.
type Publisher struct {
	client *redis.Client
	stream string
}

func NewPublisher(client *redis.Client, stream string) *Publisher {
	return &Publisher{client: client, stream: stream}
}

func (p *Publisher) Enabled() bool {
	return p != nil && p.client != nil
}

func (p *Publisher) Publish(ctx context.Context, taskType, path string) (Task, error) {
	task := Task{
		ID:   ids.New(),
		Type: taskType,
		Path: path,
		At:   time.Now().UTC().Format(time.RFC3339),
	}
	if !p.Enabled() {
		return task, nil
	}

	values := map[string]any{
		"id":   task.ID,
		"type": task.Type,
		"at":   task.At,
	}
	if task.Path != "" {
		values["path"] = task.Path
	}

	if _, err := p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: p.stream,
		Values: values,
	}).Result(); err != nil {
		return task, fmt.Errorf("xadd %s: %w", p.stream, err)
	}
	return task, nil
}
