package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ahror172/kino/internal/backup"
	"github.com/ahror172/kino/internal/bot"
	"github.com/ahror172/kino/internal/chat"
	"github.com/ahror172/kino/internal/config"
	"github.com/ahror172/kino/internal/events"
	"github.com/ahror172/kino/internal/monitor"
	"github.com/ahror172/kino/internal/telegram"
)

func newServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "serve",
		Short:   "Run the bot until SIGINT/SIGTERM",
		GroupID: "bot",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.cfg.Validate(); err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, a.cfg, a.log)
		},
	}
}

func serve(ctx context.Context, cfg *config.Config, log *logrus.Logger) error {
	st, err := openStore(cfg.Storage)
	if err != nil {
		return err
	}
	defer st.Close()

	_ = tgbotapi.SetLogger(log.WithField("component", "tgbotapi"))

	tg := telegram.New(cfg.Token, telegram.Options{PollTimeout: cfg.PollTimeout})
	b := bot.New(cfg, st, tg, tg, log.WithField("component", "bot"))

	var pubs events.Multi
	if cfg.NATSURL != "" {
		np, err := events.NewNATSPublisher(cfg.NATSURL)
		if err != nil {
			return err
		}
		pubs = append(pubs, np)
	}
	if cfg.MonitorAddr != "" {
		feed := monitor.NewFeed(log.WithField("component", "feed"))
		pubs = append(pubs, feed)
		srv := monitor.New(st, feed, log.WithField("component", "monitor"))
		if err := srv.Start(ctx, cfg.MonitorAddr); err != nil {
			_ = pubs.Close()
			return err
		}
	}
	if len(pubs) > 0 {
		b.SetPublisher(pubs)
		defer pubs.Close()
	}

	dests, err := backupDestinations(ctx, cfg.Backup, "")
	if err != nil {
		return err
	}
	b.SetBackupDestinations(dests...)

	tg.OnConnected = func(self tgbotapi.User) {
		log.WithFields(logrus.Fields{"id": self.ID, "username": self.UserName}).Info("connected to Telegram")
	}
	tg.OnUpdate = func(u chat.Update) { b.Dispatch(ctx, u) }
	tg.OnError = func(err error) { log.WithError(err).Warn("telegram") }
	tg.OnDisconnected = func() { log.Info("disconnected from Telegram") }

	if err := tg.Connect(ctx); err != nil {
		return err
	}
	b.Start(ctx, tg.SelfID())

	log.Info("running… press Ctrl+C to stop")
	<-ctx.Done()

	tg.Disconnect()
	b.Stop()
	log.Info("stopped")
	return nil
}

// backupDestinations собирает назначения из конфига; file переопределяет
// backup.file.
func backupDestinations(ctx context.Context, c config.BackupConfig, file string) ([]backup.Destination, error) {
	if file == "" {
		file = c.File
	}
	var dests []backup.Destination
	if file != "" {
		dests = append(dests, backup.FileDestination{Path: file})
	}
	if c.S3Bucket != "" {
		s3, err := backup.NewS3Destination(ctx, c.S3Bucket, c.S3Key, c.S3Region, c.S3Endpoint)
		if err != nil {
			return nil, err
		}
		dests = append(dests, s3)
	}
	return dests, nil
}
