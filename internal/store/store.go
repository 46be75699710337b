// Package store задаёт интерфейс хранилища трёх реестров бота: контент по
// кодам, список каналов и список получателей рассылки.
//
// Каналы и получатели читаются и заменяются целиком. При параллельных
// изменениях одного реестра выигрывает последняя запись: это принятое
// ограничение модели «весь реестр одним снимком».
package store

import (
	"context"
	"errors"

	"github.com/ahror172/kino/internal/model"
)

// ErrNotFound возвращается, когда записи с таким ключом нет.
var ErrNotFound = errors.New("not found")

type Store interface {
	// Контент
	GetContent(ctx context.Context, code string) (*model.Content, error)
	PutContent(ctx context.Context, c *model.Content) error // last-write-wins
	ListContents(ctx context.Context) ([]*model.Content, error)

	// Каналы (упорядоченный список без дублей)
	LoadChannels(ctx context.Context) ([]string, error)
	ReplaceChannels(ctx context.Context, channels []string) error

	// Получатели рассылки
	LoadRecipients(ctx context.Context) ([]int64, error)
	ReplaceRecipients(ctx context.Context, ids []int64) error
	AddRecipient(ctx context.Context, id int64) (bool, error)

	Close() error
}
