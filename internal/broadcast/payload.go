package broadcast

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/ahror172/kino/internal/chat"
	"github.com/ahror172/kino/internal/model"
)

var ErrEmptyPayload = errors.New("broadcast payload is empty")

// ParsePayload разбирает текст рассылки построчно. Строка вида
// "target=label" становится кнопкой-ссылкой (одна на строку, "@x" ведёт на
// https://t.me/x), остальные непустые строки склеиваются через "\n".
func ParsePayload(text string) (body string, buttons chat.Keyboard) {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		target, label, ok := strings.Cut(line, "=")
		if !ok {
			lines = append(lines, line)
			continue
		}
		buttons = append(buttons, []chat.Button{{
			Label: strings.TrimSpace(label),
			URL:   model.ExpandTarget(strings.TrimSpace(target)),
		}})
	}
	return strings.Join(lines, "\n"), buttons
}

// NewPayload собирает сообщение рассылки из команды оператора. Текст после
// команды важнее подписи сообщения, на которое ответили; вложение берётся из
// ответа. Без текста и без вложения возвращает ErrEmptyPayload.
func NewPayload(inline string, in *chat.Incoming) (chat.Message, error) {
	text := strings.TrimSpace(inline)
	if text == "" && in != nil && in.HasReply {
		text = in.ReplyCaption
	}
	body, buttons := ParsePayload(text)

	msg := chat.Message{Text: body, Buttons: buttons}
	if in != nil && in.Reply != nil {
		msg.Kind = in.Reply.Kind
		msg.FileID = in.Reply.FileID
	}
	if !msg.HasMedia() && msg.Text == "" {
		return chat.Message{}, ErrEmptyPayload
	}
	return msg, nil
}
