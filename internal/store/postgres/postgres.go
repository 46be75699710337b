// Package postgres реализует store.Store поверх PostgreSQL. Замена реестров
// целиком выполняется в одной транзакции.
package postgres

import (
	"context"
	"database/sql"
	"embed"
	"time"

	"github.com/golang-migrate/migrate/v4"
	mpostgres "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/lib/pq"
	"github.com/pkg/errors"

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

// New подключается к базе, настраивает пул и накатывает миграции.
func New(databaseURL string) (*Store, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, errors.Wrap(err, "open database")
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "ping database")
	}
	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "run migrations")
	}
	return newStore(db), nil
}

func newStore(db *sql.DB) *Store {
	return &Store{db: db, now: time.Now}
}

func runMigrations(db *sql.DB) error {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return errors.Wrap(err, "migration source")
	}
	drv, err := mpostgres.WithInstance(db, &mpostgres.Config{})
	if err != nil {
		return errors.Wrap(err, "migration driver")
	}
	m, err := migrate.NewWithInstance("iofs", src, "postgres", drv)
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

const contentColumns = `code, file_id, kind, caption, updated_at`

func (s *Store) GetContent(ctx context.Context, code string) (*model.Content, error) {
	var (
		c    model.Content
		kind string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT `+contentColumns+` FROM contents WHERE code = $1`, code).
		Scan(&c.Code, &c.FileID, &kind, &c.Caption, &c.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrapf(err, "get content %q", code)
	}
	c.Kind = model.MediaKind(kind)
	return &c, nil
}

func (s *Store) PutContent(ctx context.Context, c *model.Content) error {
	updated := c.UpdatedAt
	if updated.IsZero() {
		updated = s.now().UTC()
	}
	_, err := s.db.ExecContext(ctx, `
INSERT INTO contents (`+contentColumns+`) VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (code) DO UPDATE SET
    file_id = EXCLUDED.file_id,
    kind = EXCLUDED.kind,
    caption = EXCLUDED.caption,
    updated_at = EXCLUDED.updated_at`,
		c.Code, c.FileID, string(c.Kind), c.Caption, updated)
	return errors.Wrapf(err, "put content %q", c.Code)
}

func (s *Store) ListContents(ctx context.Context) ([]*model.Content, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+contentColumns+` FROM contents ORDER BY code`)
	if err != nil {
		return nil, errors.Wrap(err, "list contents")
	}
	defer rows.Close()

	var out []*model.Content
	for rows.Next() {
		var (
			c    model.Content
			kind string
		)
		if err := rows.Scan(&c.Code, &c.FileID, &kind, &c.Caption, &c.UpdatedAt); err != nil {
			return nil, errors.Wrap(err, "scan content")
		}
		c.Kind = model.MediaKind(kind)
		out = append(out, &c)
	}
	return out, errors.Wrap(rows.Err(), "list contents")
}

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
				`INSERT INTO channels (identifier, position) VALUES ($1, $2)`, ch, i); err != nil {
				return errors.Wrapf(err, "insert channel %q", ch)
			}
		}
		return nil
	})
}

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

// ReplaceRecipients переписывает таблицу одним INSERT через unnest.
func (s *Store) ReplaceRecipients(ctx context.Context, ids []int64) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM recipients`); err != nil {
			return errors.Wrap(err, "clear recipients")
		}
		if len(ids) == 0 {
			return nil
		}
		_, err := tx.ExecContext(ctx,
			`INSERT INTO recipients (user_id) SELECT DISTINCT unnest($1::bigint[]) ON CONFLICT DO NOTHING`,
			pq.Array(ids))
		return errors.Wrap(err, "insert recipients")
	})
}

func (s *Store) AddRecipient(ctx context.Context, id int64) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO recipients (user_id) VALUES ($1) ON CONFLICT (user_id) DO NOTHING`, id)
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
