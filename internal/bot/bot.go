package bot

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/ahror172/kino/internal/backup"
	"github.com/ahror172/kino/internal/broadcast"
	"github.com/ahror172/kino/internal/chat"
	"github.com/ahror172/kino/internal/config"
	"github.com/ahror172/kino/internal/events"
	"github.com/ahror172/kino/internal/gate"
	"github.com/ahror172/kino/internal/store"
	"github.com/ahror172/kino/internal/texts"
)

// Messenger: исходящая сторона транспорта.
type Messenger interface {
	Send(ctx context.Context, chatID int64, msg chat.Message) error
	AnswerCallback(ctx context.Context, callbackID, text string) error
}

type Bot struct {
	cfg     *config.Config
	store   store.Store
	msgr    Messenger
	checker gate.MembershipChecker
	gate    *gate.Evaluator
	engine  *broadcast.Engine
	pub     events.Publisher
	log     logrus.FieldLogger
	locale  language.Tag
	now     func() time.Time

	backups []backup.Destination
	auditor *gate.Auditor

	inflight sync.WaitGroup

	mu      sync.Mutex
	running bool

	// периодический бэкап
	bkMu      sync.Mutex
	bkRunning bool
	bkCancel  context.CancelFunc
	bkDone    chan struct{}
}

func New(cfg *config.Config, st store.Store, m Messenger, checker gate.MembershipChecker, log logrus.FieldLogger) *Bot {
	b := &Bot{
		cfg:     cfg,
		store:   st,
		msgr:    m,
		checker: checker,
		gate:    gate.NewEvaluator(checker, log),
		pub:     events.NoopPublisher{},
		log:     log,
		locale:  texts.ParseLocale(cfg.Locale),
		now:     time.Now,
	}
	b.engine = broadcast.NewEngine(m, st, b.pub, log)
	return b
}

func (b *Bot) SetPublisher(pub events.Publisher) {
	if pub == nil {
		pub = events.NoopPublisher{}
	}
	b.pub = pub
	b.engine = broadcast.NewEngine(b.msgr, b.store, pub, b.log)
}

func (b *Bot) SetBackupDestinations(dests ...backup.Destination) {
	b.backups = dests
}

// Start запускает фоновые задачи: аудит каналов (нужен id самого бота) и
// периодический бэкап. Повторный вызов ничего не делает.
func (b *Bot) Start(ctx context.Context, selfID int64) {
	b.mu.Lock()
	if b.running {
		b.mu.Unlock()
		return
	}
	b.running = true
	b.mu.Unlock()

	if b.cfg.AuditInterval > 0 && selfID != 0 {
		b.auditor = gate.NewAuditor(b.checker, b.store, selfID, b.log)
		b.auditor.Start(ctx, b.cfg.AuditInterval, b.notifyAudit)
	}
	if b.cfg.Backup.Interval > 0 && len(b.backups) > 0 {
		b.StartBackups(b.cfg.Backup.Interval)
	}
}

// Stop останавливает фоновые задачи и ждёт обработки начатых обновлений.
func (b *Bot) Stop() {
	b.mu.Lock()
	running := b.running
	b.running = false
	b.mu.Unlock()

	if running {
		if b.auditor != nil {
			b.auditor.Stop()
		}
		b.StopBackups()
	}
	b.inflight.Wait()
}

// Dispatch обрабатывает обновление в отдельной горутине.
func (b *Bot) Dispatch(ctx context.Context, u chat.Update) {
	b.inflight.Add(1)
	go func() {
		defer b.inflight.Done()
		defer func() {
			if r := recover(); r != nil {
				b.log.WithField("panic", r).Error("update handler panicked")
			}
		}()
		b.HandleUpdate(ctx, u)
	}()
}

// HandleUpdate обрабатывает обновление синхронно.
func (b *Bot) HandleUpdate(ctx context.Context, u chat.Update) {
	switch {
	case u.Message != nil:
		b.register(ctx, u.Message.UserID)
		b.handleMessage(ctx, u.Message)
	case u.Callback != nil:
		b.register(ctx, u.Callback.UserID)
		b.handleCallback(ctx, u.Callback)
	}
}

// register добавляет пользователя в получатели рассылки.
func (b *Bot) register(ctx context.Context, userID int64) {
	if userID == 0 {
		return
	}
	added, err := b.store.AddRecipient(ctx, userID)
	if err != nil {
		b.log.WithError(err).WithField("user", userID).Warn("register recipient")
		return
	}
	if added {
		b.log.WithField("user", userID).Debug("new recipient")
	}
}

func (b *Bot) printer(languageCode string) *message.Printer {
	return texts.Printer(languageCode, b.locale)
}

func (b *Bot) reply(ctx context.Context, chatID int64, text string) {
	b.send(ctx, chatID, chat.Message{Text: text})
}

func (b *Bot) send(ctx context.Context, chatID int64, msg chat.Message) {
	if err := b.msgr.Send(ctx, chatID, msg); err != nil {
		b.log.WithError(err).WithField("chat", chatID).Warn("send reply")
	}
}

func (b *Bot) publish(ctx context.Context, topic string, event any) {
	if err := b.pub.Publish(ctx, topic, event); err != nil {
		b.log.WithError(err).WithField("topic", topic).Warn("publish event")
	}
}

// notifyAudit сообщает администраторам о смене состояния канала.
func (b *Bot) notifyAudit(tr gate.Transition) {
	p := message.NewPrinter(b.locale)
	key := texts.AuditBroken
	if tr.OK {
		key = texts.AuditRestored
	}
	b.log.WithFields(logrus.Fields{"channel": tr.Channel, "ok": tr.OK}).Info("channel audit transition")
	for _, admin := range b.cfg.Admins {
		b.reply(context.Background(), admin, p.Sprintf(key, tr.Channel))
	}
}
