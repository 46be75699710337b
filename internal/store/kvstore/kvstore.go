// Package kvstore хранит данные бота в key-value бэкенде (память или Redis).
//
// Раскладка ключей:
//
//	content:<code>  msgpack(model.Content)
//	contents        множество кодов
//	channels        msgpack([]string)
//	recipients      msgpack([]int64)
package kvstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/ccbrown/keyvaluestore"
	"github.com/pkg/errors"
	"github.com/vmihailenco/msgpack"

	"github.com/ahror172/kino/internal/model"
	"github.com/ahror172/kino/internal/store"
)

const (
	contentPrefix = "content:"
	contentsKey   = "contents"
	channelsKey   = "channels"
	recipientsKey = "recipients"
)

// Store: store.Store поверх keyvaluestore.Backend. Списки каналов и
// получателей переписываются целиком под mu, так что один процесс не теряет
// собственных записей.
type Store struct {
	Backend keyvaluestore.Backend

	mu  sync.Mutex
	now func() time.Time
}

var _ store.Store = (*Store)(nil)

func New(backend keyvaluestore.Backend) *Store {
	return &Store{Backend: backend, now: time.Now}
}

func serialize(v interface{}) (string, error) {
	b, err := msgpack.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func deserialize(s string, dest interface{}) error {
	return msgpack.Unmarshal([]byte(s), dest)
}

func (s *Store) Close() error { return nil }

// getMany читает ключи одним батчем. Отсутствующие ключи дают nil.
func (s *Store) getMany(keys ...string) ([]*string, error) {
	batch := s.Backend.Batch()
	gets := make([]keyvaluestore.GetResult, 0, len(keys))
	for _, k := range keys {
		gets = append(gets, batch.Get(k))
	}
	if err := batch.Exec(); err != nil {
		return nil, err
	}
	out := make([]*string, len(gets))
	for i, g := range gets {
		v, err := g.Result()
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (s *Store) GetContent(_ context.Context, code string) (*model.Content, error) {
	vals, err := s.getMany(contentPrefix + code)
	if err != nil {
		return nil, errors.Wrapf(err, "get content %q", code)
	}
	if vals[0] == nil {
		return nil, store.ErrNotFound
	}
	var c model.Content
	if err := deserialize(*vals[0], &c); err != nil {
		return nil, errors.Wrapf(err, "decode content %q", code)
	}
	return &c, nil
}

func (s *Store) PutContent(_ context.Context, c *model.Content) error {
	rec := *c
	if rec.UpdatedAt.IsZero() {
		rec.UpdatedAt = s.now().UTC()
	}
	serialized, err := serialize(&rec)
	if err != nil {
		return errors.Wrap(err, "encode content")
	}
	tx := s.Backend.AtomicWrite()
	tx.Set(contentPrefix+rec.Code, serialized)
	tx.SAdd(contentsKey, rec.Code)
	_, err = tx.Exec()
	return errors.Wrapf(err, "put content %q", rec.Code)
}

func (s *Store) ListContents(_ context.Context) ([]*model.Content, error) {
	codes, err := s.Backend.SMembers(contentsKey)
	if err != nil {
		return nil, errors.Wrap(err, "list content codes")
	}
	sort.Strings(codes)
	keys := make([]string, len(codes))
	for i, code := range codes {
		keys[i] = contentPrefix + code
	}
	vals, err := s.getMany(keys...)
	if err != nil {
		return nil, errors.Wrap(err, "list contents")
	}
	var out []*model.Content
	for i, v := range vals {
		if v == nil {
			continue
		}
		var c model.Content
		if err := deserialize(*v, &c); err != nil {
			return nil, errors.Wrapf(err, "decode content %q", codes[i])
		}
		out = append(out, &c)
	}
	return out, nil
}

func (s *Store) loadBlob(key string, dest interface{}) error {
	vals, err := s.getMany(key)
	if err != nil {
		return err
	}
	if vals[0] == nil {
		return nil
	}
	return deserialize(*vals[0], dest)
}

func (s *Store) saveBlob(key string, v interface{}) error {
	serialized, err := serialize(v)
	if err != nil {
		return err
	}
	tx := s.Backend.AtomicWrite()
	tx.Set(key, serialized)
	_, err = tx.Exec()
	return err
}

func (s *Store) LoadChannels(_ context.Context) ([]string, error) {
	var out []string
	return out, errors.Wrap(s.loadBlob(channelsKey, &out), "load channels")
}

func (s *Store) ReplaceChannels(_ context.Context, channels []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if channels == nil {
		channels = []string{}
	}
	return errors.Wrap(s.saveBlob(channelsKey, channels), "save channels")
}

func (s *Store) LoadRecipients(_ context.Context) ([]int64, error) {
	var out []int64
	return out, errors.Wrap(s.loadBlob(recipientsKey, &out), "load recipients")
}

func (s *Store) ReplaceRecipients(_ context.Context, ids []int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ids == nil {
		ids = []int64{}
	}
	return errors.Wrap(s.saveBlob(recipientsKey, ids), "save recipients")
}

func (s *Store) AddRecipient(_ context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var ids []int64
	if err := s.loadBlob(recipientsKey, &ids); err != nil {
		return false, errors.Wrap(err, "load recipients")
	}
	for _, existing := range ids {
		if existing == id {
			return false, nil
		}
	}
	ids = append(ids, id)
	if err := s.saveBlob(recipientsKey, ids); err != nil {
		return false, errors.Wrapf(err, "add recipient %d", id)
	}
	return true, nil
}
