package events

import "context"

// NoopPublisher drops match, completion and index-update events. The search
// and index commands use it unless --publish selects the NATS publisher.
type NoopPublisher struct{}

var _ Publisher = (*NoopPublisher)(nil)

// Publish discards event.
func (*NoopPublisher) Publish(context.Context, string, any) error { return nil }

// Close has nothing to release.
func (*NoopPublisher) Close() error { return nil }
