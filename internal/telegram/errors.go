package telegram

import (
	"net/http"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/pkg/errors"

	"github.com/ahror172/kino/internal/chat"
)

// deliveryError оборачивает ошибку отправки причиной по error_code. 403
// всегда означает, что писать пользователю нельзя; уточнение берётся из
// описания. Прочие ошибки возвращаются как есть.
func deliveryError(err error) error {
	if err == nil {
		return nil
	}
	var apiErr *tgbotapi.Error
	if !errors.As(err, &apiErr) {
		return err
	}
	desc := strings.ToLower(apiErr.Message)
	reason := chat.ReasonUnknown
	switch apiErr.Code {
	case http.StatusForbidden:
		switch {
		case strings.Contains(desc, "blocked"):
			reason = chat.ReasonBlocked
		case strings.Contains(desc, "deactivated"):
			reason = chat.ReasonDeactivated
		default:
			reason = chat.ReasonForbidden
		}
	case http.StatusBadRequest:
		if strings.Contains(desc, "chat not found") {
			reason = chat.ReasonChatNotFound
		}
	}
	if reason == chat.ReasonUnknown {
		return err
	}
	return &chat.DeliveryError{Reason: reason, Err: err}
}
