package bot

import (
	"context"
	stderrors "errors"

	"golang.org/x/text/message"

	"github.com/ahror172/kino/internal/chat"
	"github.com/ahror172/kino/internal/events"
	"github.com/ahror172/kino/internal/gate"
	"github.com/ahror172/kino/internal/model"
	"github.com/ahror172/kino/internal/store"
	"github.com/ahror172/kino/internal/texts"
)

// redeem: выдача по коду из текста сообщения. Состояние между сообщением
// и повторной проверкой не хранится: код уезжает в callback-данных кнопки.
func (b *Bot) redeem(ctx context.Context, in *chat.Incoming) {
	p := b.printer(in.LanguageCode)
	code := model.NormalizeCode(in.Text)
	if code == "" {
		return
	}
	if !model.ValidCode(code) {
		// такой код нельзя было сохранить
		b.reply(ctx, in.ChatID, p.Sprintf(texts.NotFound))
		return
	}

	channels, err := b.store.LoadChannels(ctx)
	if err != nil {
		b.log.WithError(err).Error("load channels")
		b.reply(ctx, in.ChatID, p.Sprintf(texts.InternalError))
		return
	}

	if b.gate.Evaluate(ctx, in.UserID, channels) == gate.Fail {
		b.send(ctx, in.ChatID, blockedMessage(p, channels, code))
		b.publish(ctx, events.TopicGateBlocked, events.GateBlocked{UserID: in.UserID, Code: code, At: b.now().UTC()})
		return
	}
	b.deliver(ctx, in.ChatID, p, code, texts.NotFound)
}

// recheck: нажатие «проверить» под сообщением со списком каналов.
func (b *Bot) recheck(ctx context.Context, cb *chat.Callback, code string) {
	p := b.printer(cb.LanguageCode)

	channels, err := b.store.LoadChannels(ctx)
	if err != nil {
		b.log.WithError(err).Error("load channels")
		b.reply(ctx, cb.ChatID, p.Sprintf(texts.InternalError))
		return
	}
	if b.gate.Evaluate(ctx, cb.UserID, channels) == gate.Fail {
		b.reply(ctx, cb.ChatID, p.Sprintf(texts.StillNotSubscribed))
		return
	}
	b.deliver(ctx, cb.ChatID, p, code, texts.CallbackNotFound)
}

// deliver отправляет контент по коду или сообщение notFound.
func (b *Bot) deliver(ctx context.Context, chatID int64, p *message.Printer, code, notFound string) {
	c, err := b.store.GetContent(ctx, code)
	if stderrors.Is(err, store.ErrNotFound) {
		b.reply(ctx, chatID, p.Sprintf(notFound))
		return
	}
	if err != nil {
		b.log.WithError(err).WithField("code", code).Error("get content")
		b.reply(ctx, chatID, p.Sprintf(texts.InternalError))
		return
	}
	b.send(ctx, chatID, chat.Message{
		Kind:   c.MediaKindOrDefault(),
		FileID: c.FileID,
		Text:   c.Caption,
	})
}

// blockedMessage: список всех каналов реестра кнопками-ссылками в порядке
// реестра и кнопка повторной проверки для кода.
func blockedMessage(p *message.Printer, channels []string, code string) chat.Message {
	kb := make(chat.Keyboard, 0, len(channels)+1)
	for i, ch := range channels {
		kb = append(kb, []chat.Button{{Label: p.Sprintf(texts.ChannelButton, i+1), URL: model.JoinURL(ch)}})
	}
	kb = append(kb, []chat.Button{{Label: p.Sprintf(texts.CheckButton), Data: model.CheckData(code)}})
	return chat.Message{Text: p.Sprintf(texts.SubscribeFirst), Buttons: kb}
}
