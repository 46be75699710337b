package gate

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ahror172/kino/internal/model"
)

// ChannelSource отдаёт текущий реестр каналов.
type ChannelSource interface {
	LoadChannels(ctx context.Context) ([]string, error)
}

// Transition: смена состояния канала между двумя сканами.
type Transition struct {
	Channel string
	OK      bool
}

// Auditor периодически проверяет, что сам бот администратор в каждом
// проверяемом канале. Без этого Telegram не отдаёт статусы участников и
// гейт закрыт для всех. Первый скан только запоминает состояние.
type Auditor struct {
	checker MembershipChecker
	source  ChannelSource
	self    int64
	log     logrus.FieldLogger

	mu      sync.Mutex
	last    map[string]bool
	scanned bool
	running bool
	stopCh  chan struct{}
	done    chan struct{}
}

func NewAuditor(checker MembershipChecker, source ChannelSource, self int64, log logrus.FieldLogger) *Auditor {
	return &Auditor{
		checker: checker,
		source:  source,
		self:    self,
		log:     log,
		last:    map[string]bool{},
	}
}

// Scan опрашивает каналы и возвращает переходы относительно прошлого скана.
// Каналы, удалённые из реестра, забываются без уведомления.
func (a *Auditor) Scan(ctx context.Context) ([]Transition, error) {
	channels, err := a.source.LoadChannels(ctx)
	if err != nil {
		return nil, err
	}

	cur := make(map[string]bool, len(channels))
	for _, ch := range model.Enforceable(channels) {
		status, err := a.checker.MemberStatus(ctx, ch, a.self)
		ok := err == nil && status.CanModerate()
		if !ok {
			a.log.WithFields(logrus.Fields{"channel": ch, "status": status, "err": err}).
				Debug("bot cannot read channel members")
		}
		cur[ch] = ok
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	var out []Transition
	if a.scanned {
		for ch, ok := range cur {
			prev, known := a.last[ch]
			switch {
			case !known && !ok:
				// новый канал сразу сломан
				out = append(out, Transition{Channel: ch, OK: false})
			case known && prev != ok:
				out = append(out, Transition{Channel: ch, OK: ok})
			}
		}
	}
	a.last = cur
	a.scanned = true
	return out, nil
}

// Start запускает фоновый опрос; notify вызывается на каждый переход.
func (a *Auditor) Start(ctx context.Context, interval time.Duration, notify func(Transition)) {
	a.mu.Lock()
	if a.running || interval <= 0 {
		a.mu.Unlock()
		return
	}
	a.running = true
	a.stopCh = make(chan struct{})
	a.done = make(chan struct{})
	stopCh, done := a.stopCh, a.done
	a.mu.Unlock()

	// стартовый скан без уведомлений
	if _, err := a.Scan(ctx); err != nil {
		a.log.WithError(err).Warn("initial channel audit failed")
	}

	go func() {
		defer close(done)
		t := time.NewTicker(interval)
		defer t.Stop()

		for {
			select {
			case <-t.C:
				changes, err := a.Scan(ctx)
				if err != nil {
					a.log.WithError(err).Warn("channel audit failed")
					continue
				}
				for _, tr := range changes {
					notify(tr)
				}
			case <-stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

func (a *Auditor) Stop() {
	a.mu.Lock()
	if !a.running {
		a.mu.Unlock()
		return
	}
	close(a.stopCh)
	a.running = false
	done := a.done
	a.mu.Unlock()
	<-done
}

// Broken возвращает каналы, в которых бот сейчас не может проверять подписку.
func (a *Auditor) Broken() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	var out []string
	for ch, ok := range a.last {
		if !ok {
			out = append(out, ch)
		}
	}
	return out
}
