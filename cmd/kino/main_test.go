package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahror172/kino/internal/backup"
	"github.com/ahror172/kino/internal/config"
	"github.com/ahror172/kino/internal/model"
)

func writeConfig(t *testing.T) (path, dir string) {
	t.Helper()
	dir = t.TempDir()
	path = filepath.Join(dir, "kino.toml")
	body := "[storage]\ndriver = \"file\"\ndir = \"" + filepath.ToSlash(filepath.Join(dir, "data")) + "\"\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path, dir
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestChannelsCommands(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	cfg, _ := writeConfig(t)

	out, err := run(t, "--config", cfg, "channels", "add", "@one")
	require.NoError(t, err)
	assert.Equal(t, "added @one\n", out)

	out, err = run(t, "--config", cfg, "channels", "add", "@one")
	require.NoError(t, err)
	assert.Contains(t, out, "already")

	_, err = run(t, "--config", cfg, "channels", "add", "https://t.me/+invite")
	require.NoError(t, err)

	out, err = run(t, "--config", cfg, "channels", "list")
	require.NoError(t, err)
	assert.Equal(t, " 1. @one\n 2. https://t.me/+invite (link, not checked)\n", out)

	out, err = run(t, "--config", cfg, "channels", "rm", "@two")
	require.NoError(t, err)
	assert.Contains(t, out, "not in the registry")

	out, err = run(t, "--config", cfg, "channels", "remove", "@one")
	require.NoError(t, err)
	assert.Equal(t, "removed @one\n", out)
}

func TestContentAndRecipients(t *testing.T) {
	cfg, dir := writeConfig(t)
	ctx := context.Background()

	st, err := openStore(config.StorageConfig{Driver: config.DriverFile, Dir: filepath.Join(dir, "data")})
	require.NoError(t, err)
	require.NoError(t, st.PutContent(ctx, &model.Content{Code: "M1", FileID: "f", Kind: model.MediaPhoto, Caption: "poster"}))
	require.NoError(t, st.ReplaceRecipients(ctx, []int64{1, 2, 3}))
	require.NoError(t, st.Close())

	out, err := run(t, "--config", cfg, "content", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "CODE")
	assert.Contains(t, out, "M1")
	assert.Contains(t, out, "photo")

	out, err = run(t, "--config", cfg, "content", "show", "M1")
	require.NoError(t, err)
	assert.Contains(t, out, "Caption:  poster")

	_, err = run(t, "--config", cfg, "content", "show", "nope")
	assert.Error(t, err)

	out, err = run(t, "--config", cfg, "recipients", "count")
	require.NoError(t, err)
	assert.Equal(t, "3\n", out)
}

func TestBackupCommand(t *testing.T) {
	cfg, dir := writeConfig(t)

	_, err := run(t, "--config", cfg, "backup")
	assert.Error(t, err)

	target := filepath.Join(dir, "out.jsonl")
	out, err := run(t, "--config", cfg, "backup", "--file", target)
	require.NoError(t, err)
	assert.Equal(t, "wrote "+target+"\n", out)

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "{"))
}

func TestMissingExplicitConfig(t *testing.T) {
	_, err := run(t, "--config", filepath.Join(t.TempDir(), "absent.toml"), "recipients", "count")
	assert.Error(t, err)
}

func TestServeRequiresToken(t *testing.T) {
	t.Setenv("KINO_BOT_TOKEN", "")
	cfg, _ := writeConfig(t)
	_, err := run(t, "--config", cfg, "serve")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "token")
}

func TestNewLogger(t *testing.T) {
	log, err := newLogger(config.LogConfig{Level: "debug", Format: "json"})
	require.NoError(t, err)
	assert.Equal(t, logrus.DebugLevel, log.GetLevel())
	assert.IsType(t, &logrus.JSONFormatter{}, log.Formatter)

	_, err = newLogger(config.LogConfig{Level: "loud"})
	assert.Error(t, err)
	_, err = newLogger(config.LogConfig{Level: "info", Format: "xml"})
	assert.Error(t, err)
}

func TestOpenStoreMemory(t *testing.T) {
	st, err := openStore(config.StorageConfig{Driver: config.DriverMemory})
	require.NoError(t, err)
	added, err := st.AddRecipient(context.Background(), 7)
	require.NoError(t, err)
	assert.True(t, added)

	_, err = openStore(config.StorageConfig{Driver: "mongo"})
	assert.Error(t, err)
}

func TestBackupDestinations(t *testing.T) {
	dests, err := backupDestinations(context.Background(), config.BackupConfig{File: "a.jsonl"}, "")
	require.NoError(t, err)
	assert.Equal(t, []backup.Destination{backup.FileDestination{Path: "a.jsonl"}}, dests)

	dests, err = backupDestinations(context.Background(), config.BackupConfig{File: "a.jsonl"}, "b.jsonl")
	require.NoError(t, err)
	assert.Equal(t, []backup.Destination{backup.FileDestination{Path: "b.jsonl"}}, dests)

	dests, err = backupDestinations(context.Background(), config.BackupConfig{}, "")
	require.NoError(t, err)
	assert.Empty(t, dests)
}
