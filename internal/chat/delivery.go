package chat

import (
	"errors"
	"fmt"
	"strings"
)

// FailureReason: причина, по которой сообщение не доставлено.
type FailureReason int

const (
	ReasonUnknown FailureReason = iota
	ReasonBlocked
	ReasonForbidden
	ReasonChatNotFound
	ReasonDeactivated
)

func (r FailureReason) String() string {
	switch r {
	case ReasonBlocked:
		return "blocked"
	case ReasonForbidden:
		return "forbidden"
	case ReasonChatNotFound:
		return "chat_not_found"
	case ReasonDeactivated:
		return "deactivated"
	}
	return "unknown"
}

// Permanent: получатель недостижим навсегда, его нужно убрать из списка.
func (r FailureReason) Permanent() bool {
	return r != ReasonUnknown
}

// DeliveryError: ошибка отправки с причиной, которую определил транспорт.
type DeliveryError struct {
	Reason FailureReason
	Err    error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("delivery failed (%s): %v", e.Reason, e.Err)
}

func (e *DeliveryError) Unwrap() error { return e.Err }

// Classify определяет причину недоставки. Сначала смотрит структурную
// причину от транспорта; если её нет: ищет подстроки в тексте ошибки.
// Поиск по тексту унаследован от первой версии бота и хрупок: он
// срабатывает только на формулировки Bot API и ничего не угадывает сверх них.
func Classify(err error) FailureReason {
	if err == nil {
		return ReasonUnknown
	}
	var de *DeliveryError
	if errors.As(err, &de) && de.Reason != ReasonUnknown {
		return de.Reason
	}
	return classifyText(err.Error())
}

func classifyText(text string) FailureReason {
	s := strings.ToLower(text)
	switch {
	case strings.Contains(s, "blocked"):
		return ReasonBlocked
	case strings.Contains(s, "deactivated"):
		return ReasonDeactivated
	case strings.Contains(s, "forbidden"):
		return ReasonForbidden
	case strings.Contains(s, "chat not found"):
		return ReasonChatNotFound
	}
	return ReasonUnknown
}
