package model

import "strings"

// CheckPrefix: префикс callback-данных кнопки повторной проверки.
const CheckPrefix = "check_"

// JoinURLBase: канонический адрес для вступления в канал по username.
const JoinURLBase = "https://t.me/"

// IsLink сообщает, что требование задано ссылкой (http/https). Такие
// записи показываются пользователю, но подписка на них не проверяется.
func IsLink(channel string) bool {
	return strings.HasPrefix(channel, "http")
}

// JoinURL возвращает ссылку для кнопки. Ссылка возвращается как есть, username
// превращается в https://t.me/<username>.
func JoinURL(channel string) string {
	if IsLink(channel) {
		return channel
	}
	return JoinURLBase + strings.ReplaceAll(channel, "@", "")
}

// ExpandTarget раскрывает цель кнопки рассылки: "@name" -> https://t.me/name.
func ExpandTarget(target string) string {
	if strings.HasPrefix(target, "@") {
		return JoinURLBase + strings.TrimLeft(target, "@")
	}
	return target
}

// Enforceable возвращает требования, которые реально проверяются гейтом,
// сохраняя порядок.
func Enforceable(channels []string) []string {
	out := make([]string, 0, len(channels))
	for _, ch := range channels {
		if !IsLink(ch) {
			out = append(out, ch)
		}
	}
	return out
}

// CheckData собирает callback-данные кнопки повторной проверки для кода.
func CheckData(code string) string {
	return CheckPrefix + code
}

// ParseCheckData достаёт код из callback-данных. ok=false, если это не
// кнопка повторной проверки.
func ParseCheckData(data string) (code string, ok bool) {
	if !strings.HasPrefix(data, CheckPrefix) {
		return "", false
	}
	return strings.TrimPrefix(data, CheckPrefix), true
}
