package telegram

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/ahror172/kino/internal/chat"
	"github.com/ahror172/kino/internal/model"
)

// convertUpdate переводит обновление Bot API во внутренний тип. Обновления
// без отправителя и прочие виды (редактирование, посты в каналах) отбрасываются.
func convertUpdate(u tgbotapi.Update) *chat.Update {
	switch {
	case u.Message != nil:
		in := convertMessage(u.Message)
		if in == nil {
			return nil
		}
		return &chat.Update{Message: in}
	case u.CallbackQuery != nil:
		cq := u.CallbackQuery
		if cq.From == nil {
			return nil
		}
		cb := &chat.Callback{
			ID:           cq.ID,
			ChatID:       cq.From.ID,
			UserID:       cq.From.ID,
			LanguageCode: cq.From.LanguageCode,
			Data:         cq.Data,
		}
		if cq.Message != nil && cq.Message.Chat != nil {
			cb.ChatID = cq.Message.Chat.ID
		}
		return &chat.Update{Callback: cb}
	}
	return nil
}

func convertMessage(m *tgbotapi.Message) *chat.Incoming {
	if m.From == nil || m.Chat == nil {
		return nil
	}
	in := &chat.Incoming{
		ChatID:       m.Chat.ID,
		UserID:       m.From.ID,
		LanguageCode: m.From.LanguageCode,
		Text:         m.Text,
	}
	if m.IsCommand() {
		in.Command = m.Command()
		in.Args = m.CommandArguments()
	}
	if r := m.ReplyToMessage; r != nil {
		in.HasReply = true
		in.ReplyCaption = r.Caption
		in.Reply = attachment(r)
	}
	return in
}

// attachment достаёт вложение: видео, документ или фото наибольшего размера.
func attachment(m *tgbotapi.Message) *chat.Attachment {
	switch {
	case m.Video != nil:
		return &chat.Attachment{Kind: model.MediaVideo, FileID: m.Video.FileID, Caption: m.Caption}
	case m.Document != nil:
		return &chat.Attachment{Kind: model.MediaDocument, FileID: m.Document.FileID, Caption: m.Caption}
	case len(m.Photo) > 0:
		return &chat.Attachment{Kind: model.MediaPhoto, FileID: m.Photo[len(m.Photo)-1].FileID, Caption: m.Caption}
	}
	return nil
}
