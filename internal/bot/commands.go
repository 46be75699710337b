package bot

import (
	"context"
	stderrors "errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/text/message"

	"github.com/ahror172/kino/internal/backup"
	"github.com/ahror172/kino/internal/broadcast"
	"github.com/ahror172/kino/internal/chat"
	"github.com/ahror172/kino/internal/events"
	"github.com/ahror172/kino/internal/model"
	"github.com/ahror172/kino/internal/store"
	"github.com/ahror172/kino/internal/texts"
)

// сплит с поддержкой кавычек: /save "M 1" не пройдёт ValidCode, но разберётся
var reArg = regexp.MustCompile(`"([^"]*)"|(\S+)`)

// операторские команды; остальные доступны всем
var operatorCommands = map[string]bool{
	"save":       true,
	"addchannel": true,
	"delchannel": true,
	"channels":   true,
	"reklama":    true,
	"broadcast":  true,
	"stats":      true,
	"backup":     true,
}

func (b *Bot) handleMessage(ctx context.Context, in *chat.Incoming) {
	if in.Command == "" {
		b.redeem(ctx, in)
		return
	}

	cmd := strings.ToLower(in.Command)
	p := b.printer(in.LanguageCode)

	if operatorCommands[cmd] && !b.cfg.IsAdmin(in.UserID) {
		b.reply(ctx, in.ChatID, p.Sprintf(texts.NotAdmin))
		return
	}

	switch cmd {
	case "start":
		b.reply(ctx, in.ChatID, p.Sprintf(texts.Greeting))

	case "help":
		text := p.Sprintf(texts.Help)
		if b.cfg.IsAdmin(in.UserID) {
			text += "\n\n" + p.Sprintf(texts.HelpOperator)
		}
		b.reply(ctx, in.ChatID, text)

	// ---------- контент ----------
	case "save":
		b.saveContent(ctx, in, p)

	// ---------- каналы ----------
	case "addchannel", "delchannel":
		b.changeChannel(ctx, in, p, cmd)

	case "channels":
		b.listChannels(ctx, in, p)

	// ---------- рассылка ----------
	case "reklama", "broadcast":
		b.broadcast(ctx, in, p)

	case "stats":
		st, err := store.CollectStats(ctx, b.store)
		if err != nil {
			b.log.WithError(err).Error("collect stats")
			b.reply(ctx, in.ChatID, p.Sprintf(texts.InternalError))
			return
		}
		b.reply(ctx, in.ChatID, p.Sprintf(texts.Stats, st.Contents, st.Channels, st.Recipients))

	case "backup":
		if err := b.RunBackup(ctx); err != nil {
			b.log.WithError(err).Error("backup")
			b.reply(ctx, in.ChatID, p.Sprintf(texts.BackupFailed))
			return
		}
		b.reply(ctx, in.ChatID, p.Sprintf(texts.BackupDone, describe(b.backups)))

	default:
		b.log.WithFields(logrus.Fields{"user": in.UserID, "command": cmd}).Debug("unknown command")
	}
}

func (b *Bot) handleCallback(ctx context.Context, cb *chat.Callback) {
	if err := b.msgr.AnswerCallback(ctx, cb.ID, ""); err != nil {
		b.log.WithError(err).WithField("user", cb.UserID).Debug("answer callback")
	}
	code, ok := model.ParseCheckData(cb.Data)
	if !ok {
		return
	}
	b.recheck(ctx, cb, code)
}

// saveContent: /save CODE ответом на сообщение с видео, документом или фото.
func (b *Bot) saveContent(ctx context.Context, in *chat.Incoming, p *message.Printer) {
	if !in.HasReply {
		b.reply(ctx, in.ChatID, p.Sprintf(texts.SaveNeedReply))
		return
	}
	args := splitArgs(in.Args)
	if len(args) == 0 {
		b.reply(ctx, in.ChatID, p.Sprintf(texts.SaveNeedCode))
		return
	}
	code := args[0]
	if !model.ValidCode(code) {
		b.reply(ctx, in.ChatID, p.Sprintf(texts.SaveBadCode, model.MaxCodeLen))
		return
	}
	if in.Reply == nil {
		b.reply(ctx, in.ChatID, p.Sprintf(texts.SaveUnsupported))
		return
	}

	c := &model.Content{
		Code:      code,
		FileID:    in.Reply.FileID,
		Kind:      in.Reply.Kind,
		Caption:   in.Reply.Caption,
		UpdatedAt: b.now().UTC(),
	}
	if err := b.store.PutContent(ctx, c); err != nil {
		b.log.WithError(err).WithField("code", code).Error("save content")
		b.reply(ctx, in.ChatID, p.Sprintf(texts.InternalError))
		return
	}
	b.log.WithFields(logrus.Fields{"code": code, "kind": c.Kind, "user": in.UserID}).Info("content saved")
	b.reply(ctx, in.ChatID, p.Sprintf(texts.Saved, code))
	b.publish(ctx, events.TopicContentSaved, events.ContentSaved{
		Code:     code,
		Kind:     string(c.Kind),
		Operator: in.UserID,
		At:       c.UpdatedAt,
	})
}

func (b *Bot) changeChannel(ctx context.Context, in *chat.Incoming, p *message.Printer, cmd string) {
	args := splitArgs(in.Args)
	if len(args) == 0 {
		b.reply(ctx, in.ChatID, p.Sprintf(texts.ChannelNeedArg, cmd))
		return
	}
	channel := args[0]

	var (
		changed bool
		err     error
	)
	if cmd == "addchannel" {
		changed, err = store.AddChannel(ctx, b.store, channel)
	} else {
		changed, err = store.RemoveChannel(ctx, b.store, channel)
	}
	if err != nil {
		b.log.WithError(err).WithField("channel", channel).Error(cmd)
		b.reply(ctx, in.ChatID, p.Sprintf(texts.InternalError))
		return
	}

	event := events.ChannelChanged{Channel: channel, Operator: in.UserID, At: b.now().UTC()}
	switch {
	case cmd == "addchannel" && changed:
		b.reply(ctx, in.ChatID, p.Sprintf(texts.ChannelAdded, channel))
		b.publish(ctx, events.TopicChannelAdded, event)
	case cmd == "addchannel":
		b.reply(ctx, in.ChatID, p.Sprintf(texts.ChannelExists))
	case changed:
		b.reply(ctx, in.ChatID, p.Sprintf(texts.ChannelRemoved, channel))
		b.publish(ctx, events.TopicChannelRemoved, event)
	default:
		b.reply(ctx, in.ChatID, p.Sprintf(texts.ChannelAbsent))
	}
}

func (b *Bot) listChannels(ctx context.Context, in *chat.Incoming, p *message.Printer) {
	channels, err := b.store.LoadChannels(ctx)
	if err != nil {
		b.log.WithError(err).Error("load channels")
		b.reply(ctx, in.ChatID, p.Sprintf(texts.InternalError))
		return
	}
	if len(channels) == 0 {
		b.reply(ctx, in.ChatID, p.Sprintf(texts.ChannelsEmpty))
		return
	}
	lines := []string{p.Sprintf(texts.ChannelsHeader)}
	for i, ch := range channels {
		mark := ""
		if model.IsLink(ch) {
			mark = " 🔗"
		}
		lines = append(lines, fmt.Sprintf("%d. %s%s", i+1, ch, mark))
	}
	b.reply(ctx, in.ChatID, strings.Join(lines, "\n"))
}

// broadcast: /reklama [текст]. Работает до конца даже после остановки бота.
func (b *Bot) broadcast(ctx context.Context, in *chat.Incoming, p *message.Printer) {
	msg, err := broadcast.NewPayload(in.Args, in)
	if stderrors.Is(err, broadcast.ErrEmptyPayload) {
		b.reply(ctx, in.ChatID, p.Sprintf(texts.BroadcastEmpty))
		return
	}
	if err != nil {
		b.reply(ctx, in.ChatID, p.Sprintf(texts.InternalError))
		return
	}

	rep, err := b.engine.Run(ctx, msg)
	if stderrors.Is(err, broadcast.ErrNoRecipients) {
		b.reply(ctx, in.ChatID, p.Sprintf(texts.NoUsers))
		return
	}
	if err != nil {
		b.log.WithError(err).WithField("broadcast", rep.ID).Error("broadcast")
		if rep.Total == 0 {
			b.reply(ctx, in.ChatID, p.Sprintf(texts.InternalError))
			return
		}
	}
	b.reply(context.WithoutCancel(ctx), in.ChatID, p.Sprintf(texts.BroadcastDone, rep.Sent, rep.Total))
}

func describe(dests []backup.Destination) string {
	names := make([]string, 0, len(dests))
	for _, d := range dests {
		names = append(names, d.String())
	}
	return strings.Join(names, ", ")
}

func splitArgs(s string) []string {
	var out []string
	for _, m := range reArg.FindAllStringSubmatch(s, -1) {
		if m[1] != "" {
			out = append(out, m[1])
		} else {
			out = append(out, m[2])
		}
	}
	return out
}
