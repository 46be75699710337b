// Package backup выгружает все реестры бота в JSONL и сохраняет выгрузку
// в файл или в S3-совместимое хранилище.
package backup

import (
	"bytes"
	"context"
	"io"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"

	"github.com/ahror172/kino/internal/model"
)

const FormatVersion = "1"

// Source: реестры, которые попадают в выгрузку.
type Source interface {
	ListContents(ctx context.Context) ([]*model.Content, error)
	LoadChannels(ctx context.Context) ([]string, error)
	LoadRecipients(ctx context.Context) ([]int64, error)
}

// Header: первая строка выгрузки.
type Header struct {
	Version        string    `json:"version"`
	Type           string    `json:"type"`
	Timestamp      time.Time `json:"timestamp"`
	ContentCount   int       `json:"content_count"`
	ChannelCount   int       `json:"channel_count"`
	RecipientCount int       `json:"recipient_count"`
}

type record struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

type channelRecord struct {
	Identifier string `json:"identifier"`
	Position   int    `json:"position"`
}

type recipientRecord struct {
	UserID int64 `json:"user_id"`
}

var json = jsoniter.Config{EscapeHTML: false, SortMapKeys: true}.Froze()

// ExportJSONL пишет заголовок, затем записи content (по коду), channel (в
// порядке реестра) и recipient.
func ExportJSONL(ctx context.Context, src Source, w io.Writer) error {
	contents, err := src.ListContents(ctx)
	if err != nil {
		return errors.Wrap(err, "list contents")
	}
	channels, err := src.LoadChannels(ctx)
	if err != nil {
		return errors.Wrap(err, "load channels")
	}
	recipients, err := src.LoadRecipients(ctx)
	if err != nil {
		return errors.Wrap(err, "load recipients")
	}

	enc := json.NewEncoder(w)
	if err := enc.Encode(Header{
		Version:        FormatVersion,
		Type:           "header",
		Timestamp:      time.Now().UTC(),
		ContentCount:   len(contents),
		ChannelCount:   len(channels),
		RecipientCount: len(recipients),
	}); err != nil {
		return errors.Wrap(err, "encode header")
	}
	for _, c := range contents {
		if err := enc.Encode(record{Type: "content", Data: c}); err != nil {
			return errors.Wrapf(err, "encode content %s", c.Code)
		}
	}
	for i, ch := range channels {
		if err := enc.Encode(record{Type: "channel", Data: channelRecord{Identifier: ch, Position: i}}); err != nil {
			return errors.Wrapf(err, "encode channel %s", ch)
		}
	}
	for _, id := range recipients {
		if err := enc.Encode(record{Type: "recipient", Data: recipientRecord{UserID: id}}); err != nil {
			return errors.Wrapf(err, "encode recipient %d", id)
		}
	}
	return nil
}

// Destination: куда сохраняется выгрузка.
type Destination interface {
	Write(ctx context.Context, data []byte) error
	String() string
}

// Run делает одну выгрузку и отправляет её во все назначения. Ошибка одного
// назначения не мешает остальным; возвращается первая.
func Run(ctx context.Context, src Source, dests ...Destination) error {
	var buf bytes.Buffer
	if err := ExportJSONL(ctx, src, &buf); err != nil {
		return err
	}
	var first error
	for _, d := range dests {
		if err := d.Write(ctx, buf.Bytes()); err != nil && first == nil {
			first = errors.Wrapf(err, "write backup to %s", d)
		}
	}
	return first
}
