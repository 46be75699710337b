package bot

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/ahror172/kino/internal/backup"
)

// RunBackup делает одну выгрузку во все назначения.
func (b *Bot) RunBackup(ctx context.Context) error {
	if len(b.backups) == 0 {
		return errors.New("no backup destinations configured")
	}
	return backup.Run(ctx, b.store, b.backups...)
}

func (b *Bot) StartBackups(every time.Duration) {
	b.bkMu.Lock()
	defer b.bkMu.Unlock()
	if b.bkRunning || every <= 0 {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	b.bkCancel = cancel
	b.bkDone = make(chan struct{})
	b.bkRunning = true

	go b.backupLoop(ctx, every, b.bkDone)
}

// StopBackups останавливает цикл и ждёт текущую выгрузку.
func (b *Bot) StopBackups() {
	b.bkMu.Lock()
	if !b.bkRunning {
		b.bkMu.Unlock()
		return
	}
	b.bkRunning = false
	b.bkCancel()
	done := b.bkDone
	b.bkMu.Unlock()
	<-done
}

// backupLoop: живёт, пока не вызовут StopBackups. Ошибки только логируются,
// при серии сбоев интервал растёт вдвое, но не больше часа.
func (b *Bot) backupLoop(ctx context.Context, every time.Duration, done chan struct{}) {
	defer close(done)

	const maxWait = time.Hour
	wait := every
	t := time.NewTimer(wait)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			start := time.Now()
			if err := b.RunBackup(ctx); err != nil {
				b.log.WithError(err).Warn("periodic backup failed")
				if wait < maxWait {
					wait *= 2
					if wait > maxWait {
						wait = maxWait
					}
				}
			} else {
				b.log.WithField("took", time.Since(start)).Debug("periodic backup done")
				wait = every
			}
			t.Reset(wait)
		}
	}
}
