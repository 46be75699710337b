package events

import "context"

// NoopPublisher используется, когда шина не настроена.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, string, any) error { return nil }

func (NoopPublisher) Close() error { return nil }
