// Package texts содержит все пользовательские строки бота. Каталоги
// регистрируются в x/text/message при инициализации пакета; ключ сообщения
// служит и строкой формата.
package texts

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	Greeting           = "greeting"
	Help               = "help"
	HelpOperator       = "help.operator"
	NotAdmin           = "not_admin"
	InternalError      = "internal_error"
	SubscribeFirst     = "gate.subscribe_first"
	ChannelButton      = "gate.channel_button"
	CheckButton        = "gate.check_button"
	StillNotSubscribed = "gate.still_not_subscribed"
	NotFound           = "redeem.not_found"
	CallbackNotFound   = "redeem.callback_not_found"
	SaveNeedReply      = "save.need_reply"
	SaveNeedCode       = "save.need_code"
	SaveBadCode        = "save.bad_code"
	SaveUnsupported    = "save.unsupported"
	Saved              = "save.done"
	ChannelNeedArg     = "channel.need_arg"
	ChannelAdded       = "channel.added"
	ChannelExists      = "channel.exists"
	ChannelRemoved     = "channel.removed"
	ChannelAbsent      = "channel.absent"
	ChannelsEmpty      = "channel.list_empty"
	ChannelsHeader     = "channel.list_header"
	NoUsers            = "broadcast.no_users"
	BroadcastEmpty     = "broadcast.empty"
	BroadcastDone      = "broadcast.done"
	Stats              = "stats"
	BackupDone         = "backup.done"
	BackupFailed       = "backup.failed"
	AuditBroken        = "audit.broken"
	AuditRestored      = "audit.restored"
)

// Uzbek не объявлен среди именованных тегов x/text.
var Uzbek = language.MustParse("uz")

var supported = []language.Tag{Uzbek, language.Russian, language.English}

var matcher = language.NewMatcher(supported)

func init() {
	register(Uzbek, uz)
	register(language.Russian, ru)
	register(language.English, en)
}

func register(tag language.Tag, msgs map[string]string) {
	for key, msg := range msgs {
		if err := message.SetString(tag, key, msg); err != nil {
			panic(err)
		}
	}
}

// Supported возвращает поддерживаемые языки, первым идёт язык по умолчанию.
func Supported() []language.Tag {
	out := make([]language.Tag, len(supported))
	copy(out, supported)
	return out
}

// ParseLocale разбирает локаль из конфига. Неизвестная локаль даёт узбекский.
func ParseLocale(locale string) language.Tag {
	tag, ok := match(locale)
	if !ok {
		return Uzbek
	}
	return tag
}

// Resolve выбирает язык по language_code пользователя Telegram.
func Resolve(code string, fallback language.Tag) language.Tag {
	tag, ok := match(code)
	if !ok {
		return fallback
	}
	return tag
}

func match(code string) (language.Tag, bool) {
	code = strings.TrimSpace(code)
	if code == "" {
		return language.Und, false
	}
	tag, err := language.Parse(code)
	if err != nil {
		return language.Und, false
	}
	_, idx, conf := matcher.Match(tag)
	if conf == language.No {
		return language.Und, false
	}
	return supported[idx], true
}

// Printer возвращает принтер для языка пользователя.
func Printer(code string, fallback language.Tag) *message.Printer {
	return message.NewPrinter(Resolve(code, fallback))
}
