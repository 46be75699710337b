package store

import (
	"context"
	"strings"

	"github.com/pkg/errors"
)

// AddChannel дописывает требование в конец реестра. added=false, если оно
// уже есть; реестр при этом не переписывается.
func AddChannel(ctx context.Context, s Store, channel string) (added bool, err error) {
	channel = strings.TrimSpace(channel)
	channels, err := s.LoadChannels(ctx)
	if err != nil {
		return false, errors.Wrap(err, "load channels")
	}
	for _, ch := range channels {
		if ch == channel {
			return false, nil
		}
	}
	if err := s.ReplaceChannels(ctx, append(channels, channel)); err != nil {
		return false, errors.Wrap(err, "save channels")
	}
	return true, nil
}

// RemoveChannel убирает требование из реестра. removed=false, если его
// не было; реестр при этом не переписывается.
func RemoveChannel(ctx context.Context, s Store, channel string) (removed bool, err error) {
	channel = strings.TrimSpace(channel)
	channels, err := s.LoadChannels(ctx)
	if err != nil {
		return false, errors.Wrap(err, "load channels")
	}
	keep := make([]string, 0, len(channels))
	for _, ch := range channels {
		if ch == channel {
			removed = true
			continue
		}
		keep = append(keep, ch)
	}
	if !removed {
		return false, nil
	}
	if err := s.ReplaceChannels(ctx, keep); err != nil {
		return false, errors.Wrap(err, "save channels")
	}
	return true, nil
}

// Stats: размеры реестров.
type Stats struct {
	Contents   int `json:"contents"`
	Channels   int `json:"channels"`
	Recipients int `json:"recipients"`
}

func CollectStats(ctx context.Context, s Store) (Stats, error) {
	contents, err := s.ListContents(ctx)
	if err != nil {
		return Stats{}, errors.Wrap(err, "list contents")
	}
	channels, err := s.LoadChannels(ctx)
	if err != nil {
		return Stats{}, errors.Wrap(err, "load channels")
	}
	recipients, err := s.LoadRecipients(ctx)
	if err != nil {
		return Stats{}, errors.Wrap(err, "load recipients")
	}
	return Stats{Contents: len(contents), Channels: len(channels), Recipients: len(recipients)}, nil
}
