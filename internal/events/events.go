// Package events publishes search activity to an event bus.
package events

import (
	"context"
	"time"

	"github.com/sharpfind/sf/internal/model"
)

// Event topic constants
const (
	TopicMatch     = "sharpfind.search.match"
	TopicCompleted = "sharpfind.search.completed"
	TopicIndexed   = "sharpfind.index.updated"

	// TopicAll matches every sharpfind subject.
	TopicAll = "sharpfind.>"
)

// Match is emitted once per emitted search result.
type Match struct {
	RunID     string          `json:"run_id"`
	Root      string          `json:"root"`
	Candidate model.Candidate `json:"candidate"`
}

// Completed summarizes a finished search run.
type Completed struct {
	RunID        string        `json:"run_id"`
	Root         string        `json:"root"`
	Backend      model.Backend `json:"backend"`
	Drawn        int           `json:"drawn"`
	Accepted     int           `json:"accepted"`
	LimitReached bool          `json:"limit_reached"`
	Elapsed      time.Duration `json:"elapsed_ns"`
	Error        string        `json:"error,omitempty"`
}

// Indexed summarizes an index update run.
type Indexed struct {
	RunID    string        `json:"run_id"`
	Root     string        `json:"root"`
	Upserted int           `json:"upserted"`
	Removed  int64         `json:"removed"`
	Elapsed  time.Duration `json:"elapsed_ns"`
}

// Publisher is the interface for emitting events.
type Publisher interface {
	Publish(ctx context.Context, topic string, event any) error
	Close() error
}

// Message is a raw event as received from the bus.
type Message struct {
	Topic string
	Data  []byte
}

// Subscriber receives events from the event bus.
type Subscriber interface {
	Subscribe(topic string) (<-chan Message, func(), error)
	Close() error
}
