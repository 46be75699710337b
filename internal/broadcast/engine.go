// Package broadcast рассылает одно сообщение всем получателям, считает
// доставку и вычищает из реестра тех, до кого писать больше нельзя.
package broadcast

import (
	"context"
	"time"

	nanoid "github.com/matoous/go-nanoid/v2"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/ahror172/kino/internal/chat"
	"github.com/ahror172/kino/internal/events"
)

var ErrNoRecipients = errors.New("no recipients")

const (
	idPrefix   = "bc-"
	idAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"
	idLength   = 10
)

// Sender отправляет сообщение в чат. Ошибку недоставки транспорт должен
// оборачивать в *chat.DeliveryError, если причина известна.
type Sender interface {
	Send(ctx context.Context, chatID int64, msg chat.Message) error
}

// Recipients: реестр получателей.
type Recipients interface {
	LoadRecipients(ctx context.Context) ([]int64, error)
	ReplaceRecipients(ctx context.Context, ids []int64) error
}

// Report: итог одной рассылки.
type Report struct {
	ID     string
	Sent   int
	Total  int
	Pruned int
	Failed int // временные ошибки, получатель остаётся в реестре
}

type Engine struct {
	sender     Sender
	recipients Recipients
	pub        events.Publisher
	log        logrus.FieldLogger
	now        func() time.Time
}

func NewEngine(sender Sender, recipients Recipients, pub events.Publisher, log logrus.FieldLogger) *Engine {
	if pub == nil {
		pub = events.NoopPublisher{}
	}
	return &Engine{sender: sender, recipients: recipients, pub: pub, log: log, now: time.Now}
}

// Run отправляет msg каждому получателю по очереди. Отмена ctx рассылку не
// прерывает. Постоянно недоступные получатели удаляются одной записью реестра
// после прохода; перед записью реестр перечитывается, чтобы не потерять тех,
// кто появился во время рассылки.
func (e *Engine) Run(ctx context.Context, msg chat.Message) (Report, error) {
	ctx = context.WithoutCancel(ctx)

	ids, err := e.recipients.LoadRecipients(ctx)
	if err != nil {
		return Report{}, errors.Wrap(err, "load recipients")
	}
	if len(ids) == 0 {
		return Report{}, ErrNoRecipients
	}

	id, err := nanoid.Generate(idAlphabet, idLength)
	if err != nil {
		return Report{}, errors.Wrap(err, "broadcast id")
	}
	rep := Report{ID: idPrefix + id, Total: len(ids)}
	log := e.log.WithField("broadcast", rep.ID)

	pruned := map[int64]struct{}{}
	for _, uid := range ids {
		err := e.sender.Send(ctx, uid, msg)
		if err == nil {
			rep.Sent++
			continue
		}
		reason := chat.Classify(err)
		log.WithFields(logrus.Fields{"user": uid, "reason": reason, "err": err}).Debug("delivery failed")
		if !reason.Permanent() {
			rep.Failed++
			continue
		}
		pruned[uid] = struct{}{}
		e.publish(ctx, events.TopicRecipientPruned, events.RecipientPruned{
			UserID:    uid,
			Reason:    reason.String(),
			Broadcast: rep.ID,
			At:        e.now().UTC(),
		})
	}
	rep.Pruned = len(pruned)

	if len(pruned) > 0 {
		if err := e.prune(ctx, pruned); err != nil {
			return rep, err
		}
	}

	log.WithFields(logrus.Fields{
		"sent":   rep.Sent,
		"total":  rep.Total,
		"pruned": rep.Pruned,
		"failed": rep.Failed,
	}).Info("broadcast finished")
	e.publish(ctx, events.TopicBroadcastCompleted, events.BroadcastCompleted{
		ID:     rep.ID,
		Sent:   rep.Sent,
		Total:  rep.Total,
		Pruned: rep.Pruned,
		Failed: rep.Failed,
		At:     e.now().UTC(),
	})
	return rep, nil
}

// prune перечитывает реестр и записывает его без удалённых. Между чтением и
// записью окно остаётся, но оно короче всей рассылки.
func (e *Engine) prune(ctx context.Context, pruned map[int64]struct{}) error {
	current, err := e.recipients.LoadRecipients(ctx)
	if err != nil {
		return errors.Wrap(err, "reload recipients")
	}
	keep := make([]int64, 0, len(current))
	for _, uid := range current {
		if _, drop := pruned[uid]; !drop {
			keep = append(keep, uid)
		}
	}
	return errors.Wrap(e.recipients.ReplaceRecipients(ctx, keep), "save recipients")
}

func (e *Engine) publish(ctx context.Context, topic string, event any) {
	if err := e.pub.Publish(ctx, topic, event); err != nil {
		e.log.WithError(err).WithField("topic", topic).Warn("publish event")
	}
}
