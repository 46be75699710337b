package backup

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/ccbrown/keyvaluestore/memorystore"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahror172/kino/internal/model"
	"github.com/ahror172/kino/internal/store/kvstore"
)

func seededStore(t *testing.T) *kvstore.Store {
	t.Helper()
	ctx := context.Background()
	s := kvstore.New(memorystore.NewBackend())
	require.NoError(t, s.PutContent(ctx, &model.Content{Code: "B2", FileID: "f2", Kind: model.MediaPhoto}))
	require.NoError(t, s.PutContent(ctx, &model.Content{Code: "A1", FileID: "f1", Kind: model.MediaVideo, Caption: "<b>x</b>"}))
	require.NoError(t, s.ReplaceChannels(ctx, []string{"@z", "@a"}))
	require.NoError(t, s.ReplaceRecipients(ctx, []int64{5, 6}))
	return s
}

func TestExportJSONL(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, ExportJSONL(context.Background(), seededStore(t), &buf))

	var lines []map[string]interface{}
	sc := bufio.NewScanner(&buf)
	for sc.Scan() {
		var m map[string]interface{}
		require.NoError(t, json.Unmarshal(sc.Bytes(), &m))
		lines = append(lines, m)
	}
	require.Len(t, lines, 1+2+2+2)

	assert.Equal(t, "header", lines[0]["type"])
	assert.Equal(t, float64(2), lines[0]["content_count"])
	assert.Equal(t, float64(2), lines[0]["recipient_count"])

	assert.Equal(t, "content", lines[1]["type"])
	assert.Equal(t, "A1", lines[1]["data"].(map[string]interface{})["code"])
	assert.Equal(t, "<b>x</b>", lines[1]["data"].(map[string]interface{})["caption"])
	assert.Equal(t, "B2", lines[2]["data"].(map[string]interface{})["code"])

	assert.Equal(t, "channel", lines[3]["type"])
	assert.Equal(t, "@z", lines[3]["data"].(map[string]interface{})["identifier"])
	assert.Equal(t, "recipient", lines[5]["type"])
}

func TestFileDestination(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "backup.jsonl")
	d := FileDestination{Path: path}

	require.NoError(t, Run(context.Background(), seededStore(t), d))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), `{"version":"1","type":"header"`))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

type failingDestination struct{}

func (failingDestination) Write(context.Context, []byte) error { return errors.New("disk full") }
func (failingDestination) String() string                       { return "broken" }

func TestRunWritesAllDestinations(t *testing.T) {
	path := filepath.Join(t.TempDir(), "b.jsonl")
	err := Run(context.Background(), seededStore(t), failingDestination{}, FileDestination{Path: path})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken")
	_, statErr := os.Stat(path)
	assert.NoError(t, statErr)
}

func TestS3Destination(t *testing.T) {
	var (
		mu   sync.Mutex
		path string
		body []byte
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		if r.Method == http.MethodPut {
			path = r.URL.Path
			body, _ = io.ReadAll(r.Body)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	t.Setenv("AWS_ACCESS_KEY_ID", "test")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "test")

	d, err := NewS3Destination(context.Background(), "bucket", "kino/backup.jsonl", "us-east-1", srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "s3://bucket/kino/backup.jsonl", d.String())

	require.NoError(t, d.Write(context.Background(), []byte("{}\n")))
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, "/bucket/kino/backup.jsonl", path)
	assert.Contains(t, string(body), "{}")
}
