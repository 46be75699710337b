package texts

var uz = map[string]string{
	Greeting:           "Salom! 🎬 Kod yuboring va men kino chiqarib beraman.",
	Help:               "🎬 Kino kodini yuboring, men uni chiqarib beraman.\n/start: boshlash\n/help: yordam",
	HelpOperator:       "Admin buyruqlari:\n/save CODE: faylga reply qilib saqlash\n/addchannel @kanal\n/delchannel @kanal\n/channels: kanallar ro‘yxati\n/reklama matn: reklama yuborish\n/stats: statistika\n/backup: zaxira nusxa",
	NotAdmin:           "⛔ Siz admin emassiz!",
	InternalError:      "⚠️ Xatolik yuz berdi, birozdan keyin qayta urinib ko‘ring.",
	SubscribeFirst:     "❌ Avval quyidagi kanallarga a’zo bo‘ling, keyin qayta urinib ko‘ring 👇",
	ChannelButton:      "➕ Kanal-%d",
	CheckButton:        "✅ Tekshirish",
	StillNotSubscribed: "❌ Hali hamma kanallarga a’zo bo‘lmadingiz.",
	NotFound:           "❌ Bunday kod topilmadi.",
	CallbackNotFound:   "❌ Kod topilmadi.",
	SaveNeedReply:      "❌ Kino fayliga reply qilib /save CODE yozing.",
	SaveNeedCode:       "❌ Kod yozmadingiz. Masalan: /save M1",
	SaveBadCode:        "❌ Kod bo‘sh joysiz va %d belgidan oshmasligi kerak.",
	SaveUnsupported:    "❌ Faqat video, rasm yoki faylga reply qiling.",
	Saved:              "✅ Kino saqlandi! Kod: %s",
	ChannelNeedArg:     "❌ Kanal username yoki link yozing. Masalan: /%s @mychannel",
	ChannelAdded:       "✅ %s qo‘shildi.",
	ChannelExists:      "❌ Bu kanal allaqachon ro‘yxatda bor.",
	ChannelRemoved:     "✅ %s o‘chirildi.",
	ChannelAbsent:      "❌ Bu kanal ro‘yxatda yo‘q.",
	ChannelsEmpty:      "Kanallar ro‘yxati bo‘sh.",
	ChannelsHeader:     "📋 Majburiy kanallar:",
	NoUsers:            "❌ Hech qanday foydalanuvchi ro'yxatda yo'q.",
	BroadcastEmpty:     "❌ Reklama matnini yozing yoki postga reply qiling. Tugma uchun: @kanal=Nomi",
	BroadcastDone:      "✅ Reklama yuborildi: %d/%d foydalanuvchiga.",
	Stats:              "📊 Kodlar: %d\nKanallar: %d\nFoydalanuvchilar: %d",
	BackupDone:         "✅ Zaxira nusxa saqlandi: %s",
	BackupFailed:       "❌ Zaxira nusxa saqlanmadi.",
	AuditBroken:        "⚠️ Bot %s kanalida a’zolikni tekshira olmayapti. Botni kanalga admin qiling.",
	AuditRestored:      "✅ %s kanali yana tekshirilmoqda.",
}

var ru = map[string]string{
	Greeting:           "Привет! 🎬 Отправь код, и я пришлю фильм.",
	Help:               "🎬 Отправь код фильма, и я его пришлю.\n/start: начать\n/help: помощь",
	HelpOperator:       "Команды администратора:\n/save CODE: ответом на файл\n/addchannel @канал\n/delchannel @канал\n/channels: список каналов\n/reklama текст: рассылка\n/stats: статистика\n/backup: резервная копия",
	NotAdmin:           "⛔ Вы не администратор!",
	InternalError:      "⚠️ Произошла ошибка, попробуйте позже.",
	SubscribeFirst:     "❌ Сначала подпишитесь на каналы ниже, затем попробуйте снова 👇",
	ChannelButton:      "➕ Канал-%d",
	CheckButton:        "✅ Проверить",
	StillNotSubscribed: "❌ Вы ещё не подписались на все каналы.",
	NotFound:           "❌ Такой код не найден.",
	CallbackNotFound:   "❌ Код не найден.",
	SaveNeedReply:      "❌ Ответьте на файл фильма командой /save CODE.",
	SaveNeedCode:       "❌ Вы не указали код. Например: /save M1",
	SaveBadCode:        "❌ Код должен быть без пробелов и не длиннее %d символов.",
	SaveUnsupported:    "❌ Ответьте на видео, фото или файл.",
	Saved:              "✅ Фильм сохранён! Код: %s",
	ChannelNeedArg:     "❌ Укажите username или ссылку канала. Например: /%s @mychannel",
	ChannelAdded:       "✅ %s добавлен.",
	ChannelExists:      "❌ Этот канал уже в списке.",
	ChannelRemoved:     "✅ %s удалён.",
	ChannelAbsent:      "❌ Этого канала нет в списке.",
	ChannelsEmpty:      "Список каналов пуст.",
	ChannelsHeader:     "📋 Обязательные каналы:",
	NoUsers:            "❌ В списке нет ни одного пользователя.",
	BroadcastEmpty:     "❌ Напишите текст рассылки или ответьте на пост. Кнопка: @канал=Название",
	BroadcastDone:      "✅ Рассылка отправлена: %d/%d пользователям.",
	Stats:              "📊 Кодов: %d\nКаналов: %d\nПользователей: %d",
	BackupDone:         "✅ Резервная копия сохранена: %s",
	BackupFailed:       "❌ Не удалось сохранить резервную копию.",
	AuditBroken:        "⚠️ Бот не может проверять подписку в %s. Сделайте бота администратором канала.",
	AuditRestored:      "✅ Проверка подписки в %s снова работает.",
}

var en = map[string]string{
	Greeting:           "Hi! 🎬 Send me a code and I'll send you the movie.",
	Help:               "🎬 Send a movie code and I'll send the movie.\n/start: start\n/help: help",
	HelpOperator:       "Admin commands:\n/save CODE: as a reply to a file\n/addchannel @channel\n/delchannel @channel\n/channels: list channels\n/reklama text: broadcast\n/stats: statistics\n/backup: backup",
	NotAdmin:           "⛔ You are not an admin!",
	InternalError:      "⚠️ Something went wrong, please try again later.",
	SubscribeFirst:     "❌ Join the channels below first, then try again 👇",
	ChannelButton:      "➕ Channel-%d",
	CheckButton:        "✅ Check",
	StillNotSubscribed: "❌ You haven't joined all the channels yet.",
	NotFound:           "❌ No such code.",
	CallbackNotFound:   "❌ Code not found.",
	SaveNeedReply:      "❌ Reply to the movie file with /save CODE.",
	SaveNeedCode:       "❌ No code given. Example: /save M1",
	SaveBadCode:        "❌ The code must have no spaces and be at most %d characters.",
	SaveUnsupported:    "❌ Reply to a video, photo or file only.",
	Saved:              "✅ Movie saved! Code: %s",
	ChannelNeedArg:     "❌ Give a channel username or link. Example: /%s @mychannel",
	ChannelAdded:       "✅ %s added.",
	ChannelExists:      "❌ This channel is already listed.",
	ChannelRemoved:     "✅ %s removed.",
	ChannelAbsent:      "❌ This channel is not listed.",
	ChannelsEmpty:      "The channel list is empty.",
	ChannelsHeader:     "📋 Required channels:",
	NoUsers:            "❌ There are no users in the list.",
	BroadcastEmpty:     "❌ Write the broadcast text or reply to a post. Button: @channel=Title",
	BroadcastDone:      "✅ Broadcast sent: %d/%d users.",
	Stats:              "📊 Codes: %d\nChannels: %d\nUsers: %d",
	BackupDone:         "✅ Backup saved: %s",
	BackupFailed:       "❌ Backup failed.",
	AuditBroken:        "⚠️ The bot can't check membership in %s. Make the bot a channel admin.",
	AuditRestored:      "✅ Membership checks in %s work again.",
}
