// Package filestore хранит реестры в JSON-файлах каталога:
// contents.json, channels.json, users.json.
//
// Каждый файл перезаписывается целиком: запись во временный файл и rename.
// Между процессами запись сериализуется advisory-локом на .lock.
package filestore

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"

	"github.com/ahror172/kino/internal/model"
	"github.com/ahror172/kino/internal/store"
)

const (
	contentsFile = "contents.json"
	channelsFile = "channels.json"
	usersFile    = "users.json"
	lockFile     = ".lock"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type Store struct {
	mu  sync.Mutex
	dir string
	now func() time.Time
}

var _ store.Store = (*Store)(nil)

// New открывает (и при необходимости создаёт) каталог с файлами реестров.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrapf(err, "create %s", dir)
	}
	return &Store{dir: dir, now: time.Now}, nil
}

func (s *Store) Close() error { return nil }

func (s *Store) path(name string) string {
	return filepath.Join(s.dir, name)
}

// load читает файл в out; отсутствующий файл: пустая коллекция.
func (s *Store) load(name string, out any) error {
	b, err := os.ReadFile(s.path(name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errors.Wrapf(err, "read %s", name)
	}
	if len(b) == 0 {
		return nil
	}
	if err := json.Unmarshal(b, out); err != nil {
		return errors.Wrapf(err, "decode %s", name)
	}
	return nil
}

// save атомарно заменяет файл целиком.
func (s *Store) save(name string, data any) error {
	b, err := json.MarshalIndent(data, "", "    ")
	if err != nil {
		return errors.Wrapf(err, "encode %s", name)
	}

	unlock, err := lockDir(s.path(lockFile))
	if err != nil {
		return errors.Wrap(err, "lock")
	}
	defer unlock()

	tmp, err := os.CreateTemp(s.dir, name+".*.tmp")
	if err != nil {
		return errors.Wrapf(err, "create temp for %s", name)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return errors.Wrapf(err, "write %s", name)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return errors.Wrapf(err, "sync %s", name)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return errors.Wrapf(err, "close %s", name)
	}
	if err := os.Rename(tmpName, s.path(name)); err != nil {
		os.Remove(tmpName)
		return errors.Wrapf(err, "replace %s", name)
	}
	return nil
}

// ---------- контент ----------

func (s *Store) loadContents() (map[string]*model.Content, error) {
	m := map[string]*model.Content{}
	if err := s.load(contentsFile, &m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *Store) GetContent(ctx context.Context, code string) (*model.Content, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, err := s.loadContents()
	if err != nil {
		return nil, err
	}
	c, ok := m[code]
	if !ok {
		return nil, store.ErrNotFound
	}
	c.Code = code
	return c, nil
}

func (s *Store) PutContent(ctx context.Context, c *model.Content) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, err := s.loadContents()
	if err != nil {
		return err
	}
	cp := *c
	if cp.UpdatedAt.IsZero() {
		cp.UpdatedAt = s.now().UTC()
	}
	m[c.Code] = &cp
	return s.save(contentsFile, m)
}

func (s *Store) ListContents(ctx context.Context) ([]*model.Content, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, err := s.loadContents()
	if err != nil {
		return nil, err
	}
	out := make([]*model.Content, 0, len(m))
	for code, c := range m {
		c.Code = code
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

// ---------- каналы ----------

func (s *Store) LoadChannels(ctx context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []string
	if err := s.load(channelsFile, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) ReplaceChannels(ctx context.Context, channels []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if channels == nil {
		channels = []string{}
	}
	return s.save(channelsFile, channels)
}

// ---------- получатели ----------

func (s *Store) LoadRecipients(ctx context.Context) ([]int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadRecipients()
}

func (s *Store) loadRecipients() ([]int64, error) {
	var out []int64
	if err := s.load(usersFile, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) ReplaceRecipients(ctx context.Context, ids []int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ids == nil {
		ids = []int64{}
	}
	return s.save(usersFile, ids)
}

// AddRecipient дописывает id, если его ещё нет. Файл переписывается только
// при добавлении.
func (s *Store) AddRecipient(ctx context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids, err := s.loadRecipients()
	if err != nil {
		return false, err
	}
	for _, u := range ids {
		if u == id {
			return false, nil
		}
	}
	return true, s.save(usersFile, append(ids, id))
}
