// Package model описывает доменные типы бота: записи контента под кодами
// и требования каналов для гейта подписки.
package model

import (
	"strings"
	"time"
)

// MediaKind: вид вложения, под которым сохранён контент.
type MediaKind string

const (
	MediaNone     MediaKind = ""
	MediaPhoto    MediaKind = "photo"
	MediaVideo    MediaKind = "video"
	MediaDocument MediaKind = "document"
)

// MaxCodeLen: максимальная длина кода в байтах. Код уходит в callback_data
// вида "check_<code>", а Telegram ограничивает её 64 байтами.
const MaxCodeLen = 64 - len(CheckPrefix)

// Content описывает запись хранилища контента, Code служит первичным ключом.
type Content struct {
	Code      string    `json:"code" msgpack:"code"`
	FileID    string    `json:"file_id" msgpack:"file_id"`
	Kind      MediaKind `json:"kind,omitempty" msgpack:"kind"`
	Caption   string    `json:"caption,omitempty" msgpack:"caption"`
	UpdatedAt time.Time `json:"updated_at" msgpack:"updated_at"`
}

// MediaKindOrDefault возвращает вид вложения; старые записи без вида
// отправлялись как видео.
func (c *Content) MediaKindOrDefault() MediaKind {
	if c.Kind == MediaNone {
		return MediaVideo
	}
	return c.Kind
}

// NormalizeCode приводит присланный текст к ключу поиска.
func NormalizeCode(text string) string {
	return strings.TrimSpace(text)
}

// ValidCode проверяет, что код непустой и влезает в callback_data.
func ValidCode(code string) bool {
	return code != "" && len(code) <= MaxCodeLen && !strings.ContainsAny(code, " \t\r\n")
}
