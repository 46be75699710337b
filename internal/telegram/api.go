package telegram

import (
	"context"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/pkg/errors"

	"github.com/ahror172/kino/internal/chat"
	"github.com/ahror172/kino/internal/model"
)

// Send отправляет сообщение в чат: медиа нужного вида с подписью или текст.
func (c *Client) Send(ctx context.Context, chatID int64, msg chat.Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	api, err := c.bot()
	if err != nil {
		return err
	}
	_, err = api.Send(chattable(chatID, msg))
	return deliveryError(err)
}

func chattable(chatID int64, msg chat.Message) tgbotapi.Chattable {
	markup := keyboard(msg.Buttons)
	if msg.HasMedia() {
		file := tgbotapi.FileID(msg.FileID)
		switch msg.Kind {
		case model.MediaPhoto:
			cfg := tgbotapi.NewPhoto(chatID, file)
			cfg.Caption = msg.Text
			if markup != nil {
				cfg.ReplyMarkup = markup
			}
			return cfg
		case model.MediaDocument:
			cfg := tgbotapi.NewDocument(chatID, file)
			cfg.Caption = msg.Text
			if markup != nil {
				cfg.ReplyMarkup = markup
			}
			return cfg
		default:
			cfg := tgbotapi.NewVideo(chatID, file)
			cfg.Caption = msg.Text
			if markup != nil {
				cfg.ReplyMarkup = markup
			}
			return cfg
		}
	}
	cfg := tgbotapi.NewMessage(chatID, msg.Text)
	if markup != nil {
		cfg.ReplyMarkup = markup
	}
	return cfg
}

func keyboard(kb chat.Keyboard) *tgbotapi.InlineKeyboardMarkup {
	if len(kb) == 0 {
		return nil
	}
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(kb))
	for _, row := range kb {
		buttons := make([]tgbotapi.InlineKeyboardButton, 0, len(row))
		for _, b := range row {
			if b.URL != "" {
				buttons = append(buttons, tgbotapi.NewInlineKeyboardButtonURL(b.Label, b.URL))
			} else {
				buttons = append(buttons, tgbotapi.NewInlineKeyboardButtonData(b.Label, b.Data))
			}
		}
		rows = append(rows, buttons)
	}
	markup := tgbotapi.NewInlineKeyboardMarkup(rows...)
	return &markup
}

// MemberStatus возвращает статус пользователя в канале. Канал задаётся
// как @username или числовым id.
func (c *Client) MemberStatus(ctx context.Context, channel string, userID int64) (chat.MemberStatus, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	api, err := c.bot()
	if err != nil {
		return "", err
	}
	member, err := api.GetChatMember(tgbotapi.GetChatMemberConfig{
		ChatConfigWithUser: chatWithUser(channel, userID),
	})
	if err != nil {
		return "", errors.Wrapf(err, "getChatMember %s", channel)
	}
	return chat.MemberStatus(member.Status), nil
}

func chatWithUser(channel string, userID int64) tgbotapi.ChatConfigWithUser {
	cfg := tgbotapi.ChatConfigWithUser{UserID: userID}
	if !strings.HasPrefix(channel, "@") {
		if id, err := strconv.ParseInt(channel, 10, 64); err == nil {
			cfg.ChatID = id
			return cfg
		}
	}
	cfg.SuperGroupUsername = channel
	return cfg
}

// AnswerCallback снимает «часики» с нажатой кнопки.
func (c *Client) AnswerCallback(ctx context.Context, callbackID, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	api, err := c.bot()
	if err != nil {
		return err
	}
	_, err = api.Request(tgbotapi.NewCallback(callbackID, text))
	return errors.Wrap(err, "answerCallbackQuery")
}
