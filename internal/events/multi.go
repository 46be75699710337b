package events

import (
	"context"
	"strings"

	"github.com/pkg/errors"
)

// Multi рассылает событие всем издателям. Ошибка одного не мешает остальным.
type Multi []Publisher

func (m Multi) Publish(ctx context.Context, topic string, event any) error {
	var errs []string
	for _, p := range m {
		if err := p.Publish(ctx, topic, event); err != nil {
			errs = append(errs, err.Error())
		}
	}
	if len(errs) > 0 {
		return errors.Errorf("publish %s: %s", topic, strings.Join(errs, "; "))
	}
	return nil
}

func (m Multi) Close() error {
	var first error
	for _, p := range m {
		if err := p.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
