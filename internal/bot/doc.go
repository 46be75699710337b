// Package bot содержит прикладную логику бота выдачи фильмов по кодам. Бот:
//   - выдаёт контент по коду, если пользователь подписан на все каналы
//     из реестра (иначе присылает кнопки каналов и кнопку «проверить»);
//   - принимает команды администраторов (/save, /addchannel, /delchannel,
//     /channels, /reklama, /stats, /backup);
//   - регистрирует каждого написавшего как получателя рассылки;
//   - периодически сохраняет резервную копию и проверяет, что бот может
//     читать участников каналов.
//
// Жизненный цикл:
//   - Создать бота через New(cfg, store, messenger, checker, log).
//   - (Опционально) SetPublisher(...), SetBackupDestinations(...).
//   - Передавать входящие обновления в Dispatch.
//   - Запустить Start(ctx, selfID) и остановить Stop().
//
// Пример:
//
//	b := bot.New(cfg, st, tg, tg, log)
//	tg.OnUpdate = func(u chat.Update) { b.Dispatch(ctx, u) }
//	if err := tg.Connect(ctx); err != nil { log.Fatal(err) }
//	b.Start(ctx, tg.SelfID())
//	defer b.Stop()
//
// Каждое обновление обрабатывается в своей горутине. Общего изменяемого
// состояния в памяти нет, всё живёт в store.Store.
package bot
