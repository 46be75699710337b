// Package gate решает, может ли пользователь получить контент: он должен
// состоять во всех проверяемых каналах из реестра.
//
// Проверка fail-closed: любой статус кроме участника/админа/владельца и любая
// ошибка запроса дают Fail, оставшиеся каналы уже не опрашиваются.
package gate

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/ahror172/kino/internal/chat"
	"github.com/ahror172/kino/internal/model"
)

// MembershipChecker запрашивает статус пользователя в канале.
type MembershipChecker interface {
	MemberStatus(ctx context.Context, channel string, userID int64) (chat.MemberStatus, error)
}

type Result int

const (
	Fail Result = iota
	Pass
)

func (r Result) String() string {
	if r == Pass {
		return "pass"
	}
	return "fail"
}

type Evaluator struct {
	checker MembershipChecker
	log     logrus.FieldLogger
}

func NewEvaluator(checker MembershipChecker, log logrus.FieldLogger) *Evaluator {
	return &Evaluator{checker: checker, log: log}
}

// Evaluate проверяет пользователя по каналам в порядке реестра. Каналы-ссылки
// пропускаются; если проверять нечего, результат Pass.
func (e *Evaluator) Evaluate(ctx context.Context, userID int64, channels []string) Result {
	for _, ch := range model.Enforceable(channels) {
		status, err := e.checker.MemberStatus(ctx, ch, userID)
		if err != nil {
			e.log.WithFields(logrus.Fields{
				"user":    userID,
				"channel": ch,
				"err":     err,
			}).Warn("membership check failed")
			return Fail
		}
		if !status.Subscribed() {
			return Fail
		}
	}
	return Pass
}
