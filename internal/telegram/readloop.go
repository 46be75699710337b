package telegram

import (
	"context"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/pkg/errors"
)

const (
	minBackoff = time.Second
	maxBackoff = 30 * time.Second
)

func (c *Client) readLoop(ctx context.Context) {
	defer func() {
		c.closed.Store(true)
		c.mu.Lock()
		done := c.done
		c.mu.Unlock()
		if c.OnDisconnected != nil {
			c.OnDisconnected()
		}
		close(done)
	}()

	backoff := minBackoff

	for {
		if ctx.Err() != nil || c.closed.Load() {
			return
		}
		api, err := c.bot()
		if err != nil {
			return
		}

		cfg := tgbotapi.NewUpdate(c.offset)
		cfg.Timeout = int(c.pollTimeout / time.Second)
		updates, err := api.GetUpdates(cfg)
		if err == nil {
			for _, u := range updates {
				if u.UpdateID >= c.offset {
					c.offset = u.UpdateID + 1
				}
				if cu := convertUpdate(u); cu != nil && c.OnUpdate != nil {
					c.OnUpdate(*cu)
				}
			}
			backoff = minBackoff
			continue
		}

		if ctx.Err() != nil || c.closed.Load() {
			return
		}

		wait := backoff
		var apiErr *tgbotapi.Error
		if errors.As(err, &apiErr) && apiErr.RetryAfter > 0 {
			wait = time.Duration(apiErr.RetryAfter) * time.Second
		}
		if c.OnError != nil {
			c.OnError(errors.Wrapf(err, "getUpdates failed (wait %v)", wait))
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(wait):
		}
		if backoff < maxBackoff {
			backoff *= 2
			if backoff > maxBackoff {
				backoff = maxBackoff
			}
		}
	}
}
