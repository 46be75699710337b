// Package chat описывает транспортно-независимые типы входящих событий и исходящих
// сообщений. Ядро бота (гейт, выдача по коду, рассылка) работает только с
// ними; адаптер Telegram переводит их в вызовы Bot API и обратно.
package chat

import "github.com/ahror172/kino/internal/model"

// Button описывает кнопку под сообщением, это либо ссылка (URL), либо callback (Data).
type Button struct {
	Label string
	URL   string
	Data  string
}

// Keyboard: inline-клавиатура, по строкам.
type Keyboard [][]Button

// Message: исходящее сообщение. Если FileID пустой, уходит как текст.
type Message struct {
	Kind    model.MediaKind
	FileID  string
	Text    string // текст или подпись к медиа
	Buttons Keyboard
}

// HasMedia сообщает, что сообщение несёт вложение.
func (m Message) HasMedia() bool {
	return m.FileID != "" && m.Kind != model.MediaNone
}

// Attachment: вложение входящего сообщения. Для фото берётся вариант
// с наибольшим разрешением.
type Attachment struct {
	Kind    model.MediaKind
	FileID  string
	Caption string
}

// Incoming: входящее сообщение от пользователя.
type Incoming struct {
	ChatID       int64
	UserID       int64
	LanguageCode string
	Text         string
	Command      string // без "/" и без @botname; пусто, если не команда
	Args         string // всё после команды
	Reply        *Attachment
	ReplyCaption string // подпись/текст сообщения, на которое ответили
	HasReply     bool
}

// Callback: нажатие inline-кнопки.
type Callback struct {
	ID           string
	ChatID       int64
	UserID       int64
	LanguageCode string
	Data         string
}

// Update несёт одно входящее событие, сообщение или нажатие кнопки.
type Update struct {
	Message  *Incoming
	Callback *Callback
}
