package telegram

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/pkg/errors"

	"github.com/ahror172/kino/internal/chat"
)

type Options struct {
	// Endpoint: шаблон адреса API с двумя %s (токен, метод).
	// Пусто: api.telegram.org.
	Endpoint    string
	PollTimeout time.Duration
	HTTPClient  *http.Client
}

type Client struct {
	token       string
	endpoint    string
	pollTimeout time.Duration
	httpClient  *http.Client
	transport   *pollTransport

	api    *tgbotapi.BotAPI
	offset int
	closed atomic.Bool
	cancel context.CancelFunc
	done   chan struct{}
	mu     sync.Mutex

	OnConnected    func(self tgbotapi.User)
	OnUpdate       func(chat.Update)
	OnError        func(error)
	OnDisconnected func()
}

func New(token string, opts Options) *Client {
	if opts.Endpoint == "" {
		opts.Endpoint = tgbotapi.APIEndpoint
	}
	if opts.PollTimeout <= 0 {
		opts.PollTimeout = time.Minute
	}
	base := http.DefaultTransport
	if opts.HTTPClient != nil && opts.HTTPClient.Transport != nil {
		base = opts.HTTPClient.Transport
	}
	pt := &pollTransport{base: base}
	return &Client{
		token:       token,
		endpoint:    opts.Endpoint,
		pollTimeout: opts.PollTimeout,
		transport:   pt,
		// запас сверху, чтобы long poll успел вернуться сам
		httpClient: &http.Client{Transport: pt, Timeout: opts.PollTimeout + 15*time.Second},
	}
}

// Connect проверяет токен (getMe) и запускает readLoop. Отмена ctx
// прерывает текущий long poll и завершает цикл.
func (c *Client) Connect(ctx context.Context) error {
	api, err := c.dial()
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.api = api
	ctx, c.cancel = context.WithCancel(ctx)
	c.done = make(chan struct{})
	c.mu.Unlock()
	c.transport.setContext(ctx)
	c.closed.Store(false)

	if c.OnConnected != nil {
		c.OnConnected(api.Self)
	}

	go c.readLoop(ctx)
	return nil
}

// Disconnect останавливает readLoop и ждёт его завершения.
func (c *Client) Disconnect() {
	c.closed.Store(true)
	c.mu.Lock()
	cancel, done := c.cancel, c.done
	c.mu.Unlock()
	if cancel != nil {
		cancel()
	}
	if done != nil {
		<-done
	}
}

func (c *Client) IsConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.api != nil && !c.closed.Load()
}

// SelfID: id самого бота; 0 до Connect.
func (c *Client) SelfID() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.api == nil {
		return 0
	}
	return c.api.Self.ID
}

func (c *Client) dial() (*tgbotapi.BotAPI, error) {
	api, err := tgbotapi.NewBotAPIWithClient(c.token, c.endpoint, c.httpClient)
	if err != nil {
		return nil, errors.Wrap(err, "telegram getMe")
	}
	return api, nil
}

func (c *Client) bot() (*tgbotapi.BotAPI, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.api == nil {
		return nil, errors.New("telegram: not connected")
	}
	return c.api, nil
}

// pollTransport привязывает к контексту клиента только getUpdates, чтобы
// остановка прерывала long poll, но не отправку сообщений (рассылка
// доживает до конца).
type pollTransport struct {
	base http.RoundTripper
	ctx  atomic.Value // pollContext
}

type pollContext struct{ ctx context.Context }

func (t *pollTransport) setContext(ctx context.Context) {
	t.ctx.Store(pollContext{ctx})
}

func (t *pollTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if strings.HasSuffix(req.URL.Path, "/getUpdates") {
		if pc, ok := t.ctx.Load().(pollContext); ok {
			req = req.WithContext(pc.ctx)
		}
	}
	return t.base.RoundTrip(req)
}
