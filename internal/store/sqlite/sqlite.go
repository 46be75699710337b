// Package sqlite содержит реализацию store.Store поверх встроенной SQLite
// (modernc.org/sqlite, без cgo). Схема накатывается миграциями при открытии.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"path/filepath"
	"strings"
	"time"

	"github.com/golang-migrate/migrate/v4"
	msqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/pkg/errors"
	_ "modernc.org/sqlite"

	"github.com/ahror172/kino/internal/model"
	"github.com/ahror172/kino/internal/store"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

type Store struct {
	db  *sql.DB
	now func() time.Time
}

var _ store.Store = (*Store)(nil)

// Open открывает файл базы и применяет миграции.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("sqlite path is required")
	}
	dsn := "file:" + filepath.Clean(path) + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, errors.Wrap(err, "open sqlite")
	}
	// один писатель: иначе SQLITE_BUSY при параллельных обновлениях
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "ping sqlite")
	}
	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "run migrations")
	}
	return &Store{db: db, now: time.Now}, nil
}

func runMigrations(db *sql.DB) error {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return errors.Wrap(err, "migration source")
	}
	drv, err := msqlite.WithInstance(db, &msqlite.Config{})
	if err != nil {
		return errors.Wrap(err, "migration driver")
	}
	m, err := migrate.NewWithInstance("iofs", src, "sqlite", drv)
	if err != nil {
		return errors.Wrap(err, "migrator")
	}
	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return errors.Wrap(err, "apply migrations")
	}
	return nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// ---------- контент ----------

func (s *Store) GetContent(ctx context.Context, code string) (*model.Content, error) {
	var (
		c       model.Content
		kind    string
		updated int64
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT code, file_id, kind, caption, updated_at FROM contents WHERE code = ?`, code).
		Scan(&c.Code, &c.FileID, &kind, &c.Caption, &updated)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrapf(err, "get content %q", code)
	}
	c.Kind = model.MediaKind(kind)
	c.UpdatedAt = time.UnixMilli(updated).UTC()
	return &c, nil
}

func (s *Store) PutContent(ctx context.Context, c *model.Content) error {
	updated := c.UpdatedAt
	if updated.IsZero() {
		updated = s.now()
	}
	_, err := s.db.ExecContext(ctx, `
INSERT INTO contents (code, file_id, kind, caption, updated_at) VALUES (?, ?, ?, ?, ?)
ON CONFLICT(code) DO UPDATE SET
    file_id = excluded.file_id,
    kind = excluded.kind,
    caption = excluded.caption,
    updated_at = excluded.updated_at`,
		c.Code, c.FileID, string(c.Kind), c.Caption, updated.UTC().UnixMilli())
	return errors.Wrapf(err, "put content %q", c.Code)
}

func (s *Store) ListContents(ctx context.Context) ([]*model.Content, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT code, file_id, kind, caption, updated_at FROM contents ORDER BY code`)
	if err != nil {
		return nil, errors.Wrap(err, "list contents")
	}
	defer rows.Close()

	var out []*model.Content
	for rows.Next() {
		var (
			c       model.Content
			kind    string
			updated int64
		)
		if err := rows.Scan(&c.Code, &c.FileID, &kind, &c.Caption, &updated); err != nil {
			return nil, errors.Wrap(err, "scan content")
		}
		c.Kind = model.MediaKind(kind)
		c.UpdatedAt = time.UnixMilli(updated).UTC()
		out = append(out, &c)
	}
	return out, errors.Wrap(rows.Err(), "list contents")
}

// ---------- каналы ----------

func (s *Store) LoadChannels(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT identifier FROM channels ORDER BY position`)
	if err != nil {
		return nil, errors.Wrap(err, "load channels")
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var ch string
		if err := rows.Scan(&ch); err != nil {
			return nil, errors.Wrap(err, "scan channel")
		}
		out = append(out, ch)
	}
	return out, errors.Wrap(rows.Err(), "load channels")
}

func (s *Store) ReplaceChannels(ctx context.Context, channels []string) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM channels`); err != nil {
			return errors.Wrap(err, "clear channels")
		}
		for i, ch := range channels {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO channels (identifier, position) VALUES (?, ?)`, ch, i); err != nil {
				return errors.Wrapf(err, "insert channel %q", ch)
			}
		}
		return nil
	})
}

// ---------- получатели ----------

func (s *Store) LoadRecipients(ctx context.Context) ([]int64, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT user_id FROM recipients ORDER BY added_at, user_id`)
	if err != nil {
		return nil, errors.Wrap(err, "load recipients")
	}
	defer rows.Close()

	var out []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, errors.Wrap(err, "scan recipient")
		}
		out = append(out, id)
	}
	return out, errors.Wrap(rows.Err(), "load recipients")
}

func (s *Store) ReplaceRecipients(ctx context.Context, ids []int64) error {
	now := s.now().UTC().UnixMilli()
	return s.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM recipients`); err != nil {
			return errors.Wrap(err, "clear recipients")
		}
		stmt, err := tx.PrepareContext(ctx,
			`INSERT INTO recipients (user_id, added_at) VALUES (?, ?) ON CONFLICT(user_id) DO NOTHING`)
		if err != nil {
			return errors.Wrap(err, "prepare recipient insert")
		}
		defer stmt.Close()
		for _, id := range ids {
			if _, err := stmt.ExecContext(ctx, id, now); err != nil {
				return errors.Wrapf(err, "insert recipient %d", id)
			}
		}
		return nil
	})
}

func (s *Store) AddRecipient(ctx context.Context, id int64) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO recipients (user_id, added_at) VALUES (?, ?) ON CONFLICT(user_id) DO NOTHING`,
		id, s.now().UTC().UnixMilli())
	if err != nil {
		return false, errors.Wrapf(err, "add recipient %d", id)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, errors.Wrap(err, "rows affected")
	}
	return n == 1, nil
}

func (s *Store) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin tx")
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return errors.Wrap(tx.Commit(), "commit")
}
