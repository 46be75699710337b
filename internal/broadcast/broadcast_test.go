package broadcast

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/ccbrown/keyvaluestore/memorystore"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahror172/kino/internal/chat"
	"github.com/ahror172/kino/internal/events"
	"github.com/ahror172/kino/internal/model"
	"github.com/ahror172/kino/internal/store/kvstore"
)

type fakeSender struct {
	mu   sync.Mutex
	errs map[int64]error
	got  map[int64]chat.Message
	hook func(chatID int64)
}

func (f *fakeSender) Send(_ context.Context, chatID int64, msg chat.Message) error {
	if f.hook != nil {
		f.hook(chatID)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.errs[chatID]; err != nil {
		return err
	}
	if f.got == nil {
		f.got = map[int64]chat.Message{}
	}
	f.got[chatID] = msg
	return nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	topics []string
}

func (r *recordingPublisher) Publish(_ context.Context, topic string, _ any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.topics = append(r.topics, topic)
	return nil
}

func (r *recordingPublisher) Close() error { return nil }

func newRecipients(t *testing.T, ids ...int64) *kvstore.Store {
	t.Helper()
	s := kvstore.New(memorystore.NewBackend())
	require.NoError(t, s.ReplaceRecipients(context.Background(), ids))
	return s
}

func TestRunPrunesPermanentAndKeepsTransient(t *testing.T) {
	const a, b, c = 1, 2, 3
	recipients := newRecipients(t, a, b, c)
	sender := &fakeSender{errs: map[int64]error{
		b: &chat.DeliveryError{Reason: chat.ReasonForbidden, Err: errors.New("Forbidden: bot was kicked")},
		c: errors.New("Too Many Requests: retry after 5"),
	}}
	pub := &recordingPublisher{}
	log, _ := test.NewNullLogger()

	e := NewEngine(sender, recipients, pub, log)
	rep, err := e.Run(context.Background(), chat.Message{Text: "hi"})
	require.NoError(t, err)

	assert.Equal(t, 1, rep.Sent)
	assert.Equal(t, 3, rep.Total)
	assert.Equal(t, 1, rep.Pruned)
	assert.Equal(t, 1, rep.Failed)
	assert.True(t, strings.HasPrefix(rep.ID, "bc-"))

	ids, err := recipients.LoadRecipients(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []int64{a, c}, ids)
	assert.Equal(t, []string{events.TopicRecipientPruned, events.TopicBroadcastCompleted}, pub.topics)
}

func TestRunTextFallbackClassification(t *testing.T) {
	recipients := newRecipients(t, 1, 2, 3)
	sender := &fakeSender{errs: map[int64]error{
		1: errors.New("Forbidden: bot was blocked by the user"),
		2: errors.New("Forbidden: user is deactivated"),
		3: errors.New("Bad Request: chat not found"),
	}}
	log, _ := test.NewNullLogger()

	rep, err := NewEngine(sender, recipients, nil, log).Run(context.Background(), chat.Message{Text: "x"})
	require.NoError(t, err)
	assert.Equal(t, 0, rep.Sent)
	assert.Equal(t, 3, rep.Pruned)

	ids, err := recipients.LoadRecipients(context.Background())
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestRunNoRecipients(t *testing.T) {
	log, _ := test.NewNullLogger()
	_, err := NewEngine(&fakeSender{}, newRecipients(t), nil, log).Run(context.Background(), chat.Message{Text: "x"})
	require.ErrorIs(t, err, ErrNoRecipients)
}

func TestRunIgnoresCancellation(t *testing.T) {
	recipients := newRecipients(t, 1, 2)
	ctx, cancel := context.WithCancel(context.Background())
	sender := &fakeSender{hook: func(int64) { cancel() }}
	log, _ := test.NewNullLogger()

	rep, err := NewEngine(sender, recipients, nil, log).Run(ctx, chat.Message{Text: "x"})
	require.NoError(t, err)
	assert.Equal(t, 2, rep.Sent)
}

func TestRunKeepsRecipientsAddedDuringBroadcast(t *testing.T) {
	recipients := newRecipients(t, 1, 2)
	sender := &fakeSender{errs: map[int64]error{2: &chat.DeliveryError{Reason: chat.ReasonBlocked, Err: errors.New("blocked")}}}
	sender.hook = func(chatID int64) {
		if chatID == 1 {
			_, err := recipients.AddRecipient(context.Background(), 9)
			require.NoError(t, err)
		}
	}
	log, _ := test.NewNullLogger()

	_, err := NewEngine(sender, recipients, nil, log).Run(context.Background(), chat.Message{Text: "x"})
	require.NoError(t, err)

	ids, err := recipients.LoadRecipients(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 9}, ids)
}

func TestParsePayload(t *testing.T) {
	body, buttons := ParsePayload("  New movie!\n\n@kino=Join\nhttps://x.io/a=b = Site \nSee you")
	assert.Equal(t, "New movie!\nSee you", body)
	assert.Equal(t, chat.Keyboard{
		{{Label: "Join", URL: "https://t.me/kino"}},
		{{Label: "b = Site", URL: "https://x.io/a"}},
	}, buttons)
}

func TestNewPayload(t *testing.T) {
	_, err := NewPayload("", nil)
	require.ErrorIs(t, err, ErrEmptyPayload)

	_, err = NewPayload("", &chat.Incoming{HasReply: true})
	require.ErrorIs(t, err, ErrEmptyPayload)

	msg, err := NewPayload("", &chat.Incoming{
		HasReply:     true,
		Reply:        &chat.Attachment{Kind: model.MediaPhoto, FileID: "ph"},
		ReplyCaption: "Promo\n@c=Go",
	})
	require.NoError(t, err)
	assert.Equal(t, model.MediaPhoto, msg.Kind)
	assert.Equal(t, "ph", msg.FileID)
	assert.Equal(t, "Promo", msg.Text)
	require.Len(t, msg.Buttons, 1)

	msg, err = NewPayload("Inline wins", &chat.Incoming{HasReply: true, ReplyCaption: "caption"})
	require.NoError(t, err)
	assert.Equal(t, "Inline wins", msg.Text)
	assert.False(t, msg.HasMedia())
}
