package monitor

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/ahror172/kino/internal/events"
)

const (
	feedSendBuffer = 32
	pingInterval   = 10 * time.Second
	pongWait       = 30 * time.Second
	writeWait      = 5 * time.Second
)

// Feed раздаёт события подключённым websocket-клиентам. Каждое событие уходит
// бинарным кадром с protobuf google.protobuf.Struct{topic, at, data}.
// Медленный клиент теряет события, остальных это не задерживает.
type Feed struct {
	upgrader websocket.Upgrader
	log      logrus.FieldLogger
	now      func() time.Time

	mu      sync.Mutex
	clients map[*feedClient]struct{}
	closed  bool
}

var _ events.Publisher = (*Feed)(nil)

type feedClient struct {
	conn *websocket.Conn
	send chan []byte
	once sync.Once
	done chan struct{}
}

func (c *feedClient) close() {
	c.once.Do(func() { close(c.done) })
}

func NewFeed(log logrus.FieldLogger) *Feed {
	return &Feed{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		log:     log,
		now:     time.Now,
		clients: map[*feedClient]struct{}{},
	}
}

// EncodeFrame собирает кадр ленты. data: событие, приведённое к JSON-объекту.
func EncodeFrame(topic string, at time.Time, event any) ([]byte, error) {
	raw, err := json.Marshal(event)
	if err != nil {
		return nil, errors.Wrap(err, "marshal event")
	}
	var data interface{}
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, errors.Wrap(err, "normalize event")
	}
	st, err := structpb.NewStruct(map[string]interface{}{
		"topic": topic,
		"at":    at.UTC().Format(time.RFC3339Nano),
		"data":  data,
	})
	if err != nil {
		return nil, errors.Wrap(err, "build frame")
	}
	return proto.Marshal(st)
}

func (f *Feed) Publish(_ context.Context, topic string, event any) error {
	frame, err := EncodeFrame(topic, f.now(), event)
	if err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for c := range f.clients {
		select {
		case c.send <- frame:
		default:
			f.log.WithField("topic", topic).Debug("feed client too slow, event dropped")
		}
	}
	return nil
}

func (f *Feed) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	for c := range f.clients {
		c.close()
		delete(f.clients, c)
	}
	return nil
}

// Clients: число подключённых клиентов.
func (f *Feed) Clients() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.clients)
}

func (f *Feed) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := f.upgrader.Upgrade(w, r, nil)
	if err != nil {
		f.log.WithError(err).Debug("feed upgrade failed")
		return
	}
	c := &feedClient{conn: conn, send: make(chan []byte, feedSendBuffer), done: make(chan struct{})}

	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		_ = conn.Close()
		return
	}
	f.clients[c] = struct{}{}
	f.mu.Unlock()

	go f.readPump(c)
	f.writePump(c)

	f.mu.Lock()
	delete(f.clients, c)
	f.mu.Unlock()
}

// readPump только обрабатывает pong и закрытие; входящие данные игнорируются.
func (f *Feed) readPump(c *feedClient) {
	defer c.close()
	c.conn.SetReadLimit(512)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (f *Feed) writePump(c *feedClient) {
	t := time.NewTicker(pingInterval)
	defer func() {
		t.Stop()
		_ = c.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, "closing"),
			time.Now().Add(500*time.Millisecond))
		_ = c.conn.Close()
	}()

	for {
		select {
		case frame := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.BinaryMessage, frame); err != nil {
				return
			}
		case <-t.C:
			if err := c.conn.WriteControl(websocket.PingMessage, []byte("ping"), time.Now().Add(writeWait)); err != nil {
				return
			}
		case <-c.done:
			return
		}
	}
}
