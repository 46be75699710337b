package monitor

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ccbrown/keyvaluestore/memorystore"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/ahror172/kino/internal/events"
	"github.com/ahror172/kino/internal/model"
	"github.com/ahror172/kino/internal/store"
	"github.com/ahror172/kino/internal/store/kvstore"
)

func newTestServer(t *testing.T) (*httptest.Server, *Feed, *kvstore.Store) {
	t.Helper()
	log, _ := test.NewNullLogger()
	st := kvstore.New(memorystore.NewBackend())
	feed := NewFeed(log)
	srv := httptest.NewServer(New(st, feed, log).Handler())
	t.Cleanup(func() {
		_ = feed.Close()
		srv.Close()
	})
	return srv, feed, st
}

func TestHealthz(t *testing.T) {
	srv, _, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestStats(t *testing.T) {
	srv, _, st := newTestServer(t)
	ctx := context.Background()
	require.NoError(t, st.PutContent(ctx, &model.Content{Code: "M1", FileID: "f"}))
	require.NoError(t, st.ReplaceChannels(ctx, []string{"@a", "@b"}))
	require.NoError(t, st.ReplaceRecipients(ctx, []int64{1, 2, 3}))

	resp, err := http.Get(srv.URL + "/stats")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got store.Stats
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, store.Stats{Contents: 1, Channels: 2, Recipients: 3}, got)
}

func TestFeedDeliversProtobufFrames(t *testing.T) {
	srv, feed, _ := newTestServer(t)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/feed"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return feed.Clients() == 1 }, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, feed.Publish(context.Background(), events.TopicBroadcastCompleted,
		events.BroadcastCompleted{ID: "bc-1", Sent: 1, Total: 3}))

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	typ, data, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.Equal(t, websocket.BinaryMessage, typ)

	var st structpb.Struct
	require.NoError(t, proto.Unmarshal(data, &st))
	fields := st.GetFields()
	assert.Equal(t, events.TopicBroadcastCompleted, fields["topic"].GetStringValue())
	payload := fields["data"].GetStructValue().GetFields()
	assert.Equal(t, "bc-1", payload["id"].GetStringValue())
	assert.Equal(t, float64(3), payload["total"].GetNumberValue())
}

func TestEncodeFrameRejectsUnencodable(t *testing.T) {
	_, err := EncodeFrame("t", time.Now(), make(chan int))
	require.Error(t, err)
}
