// Package events публикует доменные события бота во внешние шины (NATS)
// и во внутренние подписчики (ленту монитора).
package events

import (
	"context"
	"time"
)

const (
	TopicContentSaved       = "kino.content.saved"
	TopicChannelAdded       = "kino.channel.added"
	TopicChannelRemoved     = "kino.channel.removed"
	TopicBroadcastCompleted = "kino.broadcast.completed"
	TopicRecipientPruned    = "kino.recipient.pruned"
	TopicGateBlocked        = "kino.gate.blocked"
)

// Publisher доставляет событие в топик. Ошибка публикации не должна ломать
// пользовательский сценарий: вызывающий код только логирует её.
type Publisher interface {
	Publish(ctx context.Context, topic string, event any) error
	Close() error
}

type ContentSaved struct {
	Code     string    `json:"code"`
	Kind     string    `json:"kind"`
	Operator int64     `json:"operator"`
	At       time.Time `json:"at"`
}

type ChannelChanged struct {
	Channel  string    `json:"channel"`
	Operator int64     `json:"operator,omitempty"`
	At       time.Time `json:"at"`
}

type BroadcastCompleted struct {
	ID     string    `json:"id"`
	Sent   int       `json:"sent"`
	Total  int       `json:"total"`
	Pruned int       `json:"pruned"`
	Failed int       `json:"failed"`
	At     time.Time `json:"at"`
}

type RecipientPruned struct {
	UserID    int64     `json:"user_id"`
	Reason    string    `json:"reason"`
	Broadcast string    `json:"broadcast"`
	At        time.Time `json:"at"`
}

type GateBlocked struct {
	UserID int64     `json:"user_id"`
	Code   string    `json:"code"`
	At     time.Time `json:"at"`
}
