package backup

import (
	"context"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// FileDestination пишет выгрузку в локальный файл через временный файл и
// rename, чтобы прерванная запись не портила прошлую копию.
type FileDestination struct {
	Path string
}

func (d FileDestination) String() string { return d.Path }

func (d FileDestination) Write(_ context.Context, data []byte) error {
	dir := filepath.Dir(d.Path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrap(err, "create backup dir")
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(d.Path)+".*.tmp")
	if err != nil {
		return errors.Wrap(err, "create temp file")
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return errors.Wrap(err, "write backup")
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return errors.Wrap(err, "sync backup")
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(err, "close backup")
	}
	return errors.Wrap(os.Rename(tmp.Name(), d.Path), "rename backup")
}
