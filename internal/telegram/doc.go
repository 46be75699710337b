// Package telegram реализует клиент Telegram Bot API для бота. Получает обновления
// long polling'ом, переводит их в chat.Update и отдаёт через колбэки,
// автоматически переподключаясь при сетевых ошибках.
//
// События (колбэки поля структуры):
//   - OnConnected, OnUpdate, OnError, OnDisconnected.
//
// Исходящие вызовы (Send, MemberStatus, AnswerCallback) реализуют узкие
// интерфейсы ядра: broadcast.Sender, gate.MembershipChecker, bot.Messenger.
// Ошибки доставки возвращаются как *chat.DeliveryError с причиной,
// определённой по error_code ответа.
//
// Пример:
//
//	c := telegram.New(token, telegram.Options{PollTimeout: time.Minute})
//	c.OnUpdate = func(u chat.Update) { ... }
//	if err := c.Connect(ctx); err != nil { log.Fatal(err) }
//	defer c.Disconnect()
package telegram
