package i18n

import "tempmail/bot/internal/domain"

// 用户界面
const (
	ChooseLanguage      Key = "choose_language"
	LanguageChanged     Key = "language_changed"
	MainMenu            Key = "main_menu"
	Help                Key = "help"
	EmailCreated        Key = "email_created"
	NoEmails            Key = "no_emails"
	SelectEmail         Key = "select_email"
	MyEmails            Key = "my_emails"
	ViewEmail           Key = "view_email"
	NoMessages          Key = "no_messages"
	MessagesList        Key = "messages_list"
	MessageDetail       Key = "message_detail"
	OTPFound            Key = "otp_found"
	NewMail             Key = "new_mail"
	TooLong             Key = "too_long"
	NoSubject           Key = "no_subject"
	NoContent           Key = "no_content"
	EmailDeleted        Key = "email_deleted"
	AllEmailsDeleted    Key = "all_emails_deleted"
	ConfirmDelete       Key = "confirm_delete"
	ConfirmDeleteAll    Key = "confirm_delete_all"
	UserStats           Key = "user_stats"
	Cancelled           Key = "cancelled"
	NothingToCancel     Key = "nothing_to_cancel"
	UseMenu             Key = "use_menu"
	MessageForwarded    Key = "message_forwarded"
	InputExpired        Key = "input_expired"
	MailboxLimit        Key = "mailbox_limit"
	SubscriptionPrompt  Key = "subscription_prompt"
	SubscriptionOK      Key = "subscription_ok"
	SubscriptionMissing Key = "subscription_missing"
	Banned              Key = "banned"
	BannedReason        Key = "banned_reason"
	OfflineDefault      Key = "offline_default"
	ServiceUnavailable  Key = "service_unavailable"
	Unauthorized        Key = "unauthorized"
	StateOn             Key = "state_on"
	StateOff            Key = "state_off"
)

// 错误
const (
	ErrGeneric        Key = "error"
	ErrCreateEmail    Key = "error_create_email"
	ErrLoadMessages   Key = "error_load_messages"
	ErrLoadMessage    Key = "error_load_message"
	ErrMailboxExpired Key = "error_mailbox_expired"
	ErrMailboxGone    Key = "error_mailbox_gone"
)

// 按钮
const (
	BtnCreate      Key = "btn_create"
	BtnMyEmails    Key = "btn_my_emails"
	BtnInbox       Key = "btn_inbox"
	BtnStats       Key = "btn_stats"
	BtnDeleteAll   Key = "btn_delete_all"
	BtnLanguage    Key = "btn_language"
	BtnBack        Key = "btn_back"
	BtnMainMenu    Key = "btn_main_menu"
	BtnDelete      Key = "btn_delete"
	BtnConfirm     Key = "btn_confirm"
	BtnCancel      Key = "btn_cancel"
	BtnRefresh     Key = "btn_refresh"
	BtnRetry       Key = "btn_retry"
	BtnAdminPanel  Key = "btn_admin_panel"
	BtnJoinChannel Key = "btn_join_channel"
	BtnVerify      Key = "btn_verify"
)

// 管理面板
const (
	AdminPanel           Key = "admin_panel"
	AdminStats           Key = "admin_stats"
	ChannelPanel         Key = "channel_panel"
	ChannelNone          Key = "channel_none"
	AskChannel           Key = "ask_channel"
	AskChannelMessage    Key = "ask_channel_message"
	AskWelcome           Key = "ask_welcome"
	AskBanTarget         Key = "ask_ban_target"
	AskUnbanTarget       Key = "ask_unban_target"
	AskBroadcast         Key = "ask_broadcast"
	AskOfflineMessage    Key = "ask_offline_message"
	AskAddAdmin          Key = "ask_add_admin"
	AskRemoveAdmin       Key = "ask_remove_admin"
	ChannelSaved         Key = "channel_saved"
	ChannelUnresolved    Key = "channel_unresolved"
	ChannelInvalid       Key = "channel_invalid"
	ChannelMessageSaved  Key = "channel_message_saved"
	SubscriptionToggled  Key = "subscription_toggled"
	ChannelDeleted       Key = "channel_deleted"
	WelcomeSaved         Key = "welcome_saved"
	WelcomeCleared       Key = "welcome_cleared"
	UserBanned           Key = "user_banned"
	UserUnbanned         Key = "user_unbanned"
	UserNotBanned        Key = "user_not_banned"
	CannotBanAdmin       Key = "cannot_ban_admin"
	UserNotFound         Key = "user_not_found"
	BroadcastStarted     Key = "broadcast_started"
	BroadcastDone        Key = "broadcast_done"
	BroadcastBusy        Key = "broadcast_busy"
	BotToggled           Key = "bot_toggled"
	ForwardingToggled    Key = "forwarding_toggled"
	OfflineMessageSaved  Key = "offline_message_saved"
	AdminAdded           Key = "admin_added"
	AdminExists          Key = "admin_exists"
	AdminRemoved         Key = "admin_removed"
	AdminNotFound        Key = "admin_not_found"
	CannotRemoveSuper    Key = "cannot_remove_super"
	AdminsList           Key = "admins_list"
	AdminsEmpty          Key = "admins_empty"
	PurgeDone            Key = "purge_done"
	PurgeUsage           Key = "purge_usage"
	ForwardedFromUser    Key = "forwarded_from_user"
	BtnAdminStats        Key = "btn_admin_stats"
	BtnChannel           Key = "btn_channel"
	BtnSetChannel        Key = "btn_set_channel"
	BtnSetChannelMessage Key = "btn_set_channel_message"
	BtnToggleSub         Key = "btn_toggle_subscription"
	BtnDeleteChannel     Key = "btn_delete_channel"
	BtnWelcome           Key = "btn_welcome"
	BtnBan               Key = "btn_ban"
	BtnUnban             Key = "btn_unban"
	BtnBroadcast         Key = "btn_broadcast"
	BtnToggleBot         Key = "btn_toggle_bot"
	BtnOfflineMessage    Key = "btn_offline_message"
	BtnToggleForwarding  Key = "btn_toggle_forwarding"
	BtnAdmins            Key = "btn_admins"
	BtnAddAdmin          Key = "btn_add_admin"
	BtnRemoveAdmin       Key = "btn_remove_admin"
)

var tables = map[domain.Language]map[Key]string{
	domain.LangArabic: {
		ChooseLanguage:      "🎉 مرحباً بك في بوت الإيميلات المؤقتة!\n\nاختر لغتك المفضلة:",
		LanguageChanged:     "✅ تم تغيير اللغة إلى العربية",
		MainMenu:            "📬 القائمة الرئيسية\n\nعدد الإيميلات النشطة: %d",
		Help:                "ℹ️ <b>المساعدة</b>\n\n/start - القائمة الرئيسية\n/help - هذه الرسالة\n/cancel - إلغاء العملية الحالية\n\nأنشئ إيميلاً مؤقتاً وستصلك الرسائل الجديدة تلقائياً مع رمز التحقق إن وجد.",
		EmailCreated:        "✅ تم إنشاء بريد إلكتروني جديد!\n\n📧 الإيميل: <code>%s</code>\n\nاضغط على الإيميل للنسخ",
		NoEmails:            "❌ لا توجد إيميلات نشطة\n\nقم بإنشاء إيميل جديد أولاً",
		SelectEmail:         "📋 اختر الإيميل لعرض الرسائل:\n\nعدد الإيميلات: %d",
		MyEmails:            "📧 إيميلاتك (%d)\n\nاختر إيميلاً لعرض تفاصيله:",
		ViewEmail:           "📧 <code>%s</code>\n🔑 <code>%s</code>",
		NoMessages:          "📭 لا توجد رسائل في هذا الإيميل\n\n📧 %s",
		MessagesList:        "📬 الرسائل الواردة (%d)\n📧 الإيميل: %s",
		MessageDetail:       "✉️ تفاصيل الرسالة\n\n📧 من: %s\n📌 الموضوع: %s\n📅 التاريخ: %s\n\n📝 المحتوى:\n%s",
		OTPFound:            "🔢 تم العثور على رمز OTP:\n\nالرمز: <code>%s</code>\n\nاضغط على الرمز للنسخ",
		NewMail:             "📨 <b>رسالة جديدة</b>\n📧 %s",
		TooLong:             "... (الرسالة طويلة جداً)",
		NoSubject:           "(بدون موضوع)",
		NoContent:           "(لا يوجد محتوى)",
		EmailDeleted:        "🗑️ تم حذف الإيميل بنجاح\n\n📧 %s",
		AllEmailsDeleted:    "🗑️ تم حذف جميع الإيميلات (%d)",
		ConfirmDelete:       "⚠️ هل أنت متأكد من حذف هذا الإيميل؟\n\n📧 %s",
		ConfirmDeleteAll:    "⚠️ هل أنت متأكد من حذف جميع الإيميلات؟\n\nالعدد: %d",
		UserStats:           "📊 الإحصائيات\n\n👤 المستخدمين الكليين: %d\n📧 إيميلاتك النشطة: %d\n🌐 اللغة: العربية",
		Cancelled:           "✅ تم الإلغاء",
		NothingToCancel:     "لا توجد عملية لإلغائها",
		UseMenu:             "استخدم أزرار القائمة 👇",
		MessageForwarded:    "✅ تم إرسال رسالتك إلى المشرف",
		InputExpired:        "⌛ انتهت مهلة الإدخال، ابدأ من جديد",
		MailboxLimit:        "⚠️ وصلت إلى الحد الأقصى لعدد الإيميلات (%d). احذف إيميلاً أولاً.",
		SubscriptionPrompt:  "⚠️ يجب عليك الاشتراك في القناة للاستخدام\n\n🔗 القناة: %s\n\n%s\n\nبعد الاشتراك، اضغط على زر '✅ التحقق من الاشتراك'",
		SubscriptionOK:      "✅ تم التحقق من الاشتراك",
		SubscriptionMissing: "❌ لم يتم العثور على اشتراكك بعد",
		Banned:              "⛔ تم حظرك من استخدام البوت.",
		BannedReason:        "⛔ تم حظرك من استخدام البوت.\n\nالسبب: %s",
		OfflineDefault:      "🔧 البوت متوقف مؤقتاً للصيانة، حاول لاحقاً.",
		ServiceUnavailable:  "⚠️ الخدمة غير متاحة حالياً، حاول لاحقاً.",
		Unauthorized:        "⛔ عذراً، هذا الأمر متاح للمشرف فقط",
		StateOn:             "مفعّل ✅",
		StateOff:            "معطّل ❌",

		ErrGeneric:        "❌ حدث خطأ، حاول مرة أخرى",
		ErrCreateEmail:    "❌ فشل إنشاء الإيميل\n\nقد تكون الخدمة مشغولة حالياً.\nالرجاء المحاولة مرة أخرى.",
		ErrLoadMessages:   "❌ فشل تحميل الرسائل\n\nقد يكون الاتصال بالخدمة بطيئاً.\nاضغط 🔄 إعادة المحاولة.",
		ErrLoadMessage:    "❌ فشل تحميل الرسالة\n\nحاول مرة أخرى لاحقاً.",
		ErrMailboxExpired: "⚠️ انتهت صلاحية هذا الإيميل لدى المزود ولا يمكن استعادته.\n\n📧 %s\n\nاحذفه وأنشئ إيميلاً جديداً.",
		ErrMailboxGone:    "❌ هذا الإيميل لم يعد موجوداً",

		BtnCreate:      "✨ إنشاء إيميل جديد",
		BtnMyEmails:    "📧 إيميلاتي",
		BtnInbox:       "📥 الرسائل الواردة",
		BtnStats:       "📊 الإحصائيات",
		BtnDeleteAll:   "🗑️ حذف الكل",
		BtnLanguage:    "🌐 تغيير اللغة",
		BtnBack:        "🔙 رجوع",
		BtnMainMenu:    "🏠 القائمة الرئيسية",
		BtnDelete:      "🗑️ حذف",
		BtnConfirm:     "✅ تأكيد",
		BtnCancel:      "❌ إلغاء",
		BtnRefresh:     "🔄 تحديث",
		BtnRetry:       "🔄 إعادة المحاولة",
		BtnAdminPanel:  "👑 لوحة المشرف",
		BtnJoinChannel: "📢 الانضمام للقناة",
		BtnVerify:      "✅ التحقق من الاشتراك",

		AdminPanel:           "👑 لوحة تحكم المشرف\n\n🤖 البوت: %s\n📨 تحويل الرسائل: %s",
		AdminStats:           "👑 إحصائيات المشرف\n\n👥 إجمالي المستخدمين: %d\n🔄 المستخدمون النشطون: %d\n📧 إجمالي الإيميلات: %d\n⛔ المحظورون: %d\n👮 المشرفون: %d",
		ChannelPanel:         "📢 إعدادات القناة\n\nالقناة: %s\nالاسم: %s\nالاشتراك الإجباري: %s\n\nالرسالة:\n%s",
		ChannelNone:          "📢 لا توجد قناة مضبوطة",
		AskChannel:           "أرسل معرف القناة (مثال: @channel)\n\nيجب أن يكون البوت مشرفاً في القناة.",
		AskChannelMessage:    "أرسل رسالة الاشتراك التي ستظهر للمستخدمين:",
		AskWelcome:           "أرسل رسالة الترحيب الجديدة، أو أرسل - لحذفها:",
		AskBanTarget:         "أرسل معرف المستخدم الرقمي أو @username، ويمكن إضافة السبب بعده:",
		AskUnbanTarget:       "أرسل معرف المستخدم الرقمي أو @username لإلغاء الحظر:",
		AskBroadcast:         "أرسل نص الرسالة التي سيتم إرسالها لجميع المستخدمين:",
		AskOfflineMessage:    "أرسل رسالة التوقف التي ستظهر للمستخدمين:",
		AskAddAdmin:          "أرسل معرف المستخدم الرقمي أو @username لإضافته مشرفاً:",
		AskRemoveAdmin:       "أرسل معرف المشرف الرقمي لإزالته:",
		ChannelSaved:         "✅ تم ضبط القناة %s",
		ChannelUnresolved:    "⚠️ تم حفظ القناة %s لكن تعذر الوصول إليها. تأكد من أن البوت مشرف فيها.",
		ChannelInvalid:       "❌ معرف القناة غير صالح",
		ChannelMessageSaved:  "✅ تم حفظ رسالة الاشتراك",
		SubscriptionToggled:  "✅ الاشتراك الإجباري: %s",
		ChannelDeleted:       "🗑️ تم حذف القناة",
		WelcomeSaved:         "✅ تم حفظ رسالة الترحيب",
		WelcomeCleared:       "🗑️ تم حذف رسالة الترحيب",
		UserBanned:           "⛔ تم حظر المستخدم %d",
		UserUnbanned:         "✅ تم إلغاء حظر المستخدم %d",
		UserNotBanned:        "ℹ️ المستخدم %d غير محظور",
		CannotBanAdmin:       "❌ لا يمكن حظر مشرف",
		UserNotFound:         "❌ لم يتم العثور على المستخدم",
		BroadcastStarted:     "📣 جاري الإرسال إلى %d مستخدم...",
		BroadcastDone:        "📣 اكتمل الإرسال\n\n✅ نجح: %d\n❌ فشل: %d",
		BroadcastBusy:        "⏳ هناك إذاعة قيد الإرسال حالياً، انتظر حتى تنتهي.",
		BotToggled:           "🤖 البوت: %s",
		ForwardingToggled:    "📨 تحويل الرسائل: %s",
		OfflineMessageSaved:  "✅ تم حفظ رسالة التوقف",
		AdminAdded:           "✅ تمت إضافة المشرف %d",
		AdminExists:          "ℹ️ المستخدم %d مشرف بالفعل",
		AdminRemoved:         "🗑️ تمت إزالة المشرف %d",
		AdminNotFound:        "❌ المستخدم %d ليس مشرفاً",
		CannotRemoveSuper:    "❌ لا يمكن إزالة المشرف الرئيسي",
		AdminsList:           "👮 المشرفون:\n\n%s",
		AdminsEmpty:          "👮 لا يوجد مشرفون إضافيون",
		PurgeDone:            "🧹 تم حذف المستخدم %d و %d إيميل",
		PurgeUsage:           "الاستخدام: /purge &lt;user_id&gt;",
		ForwardedFromUser:    "📨 <b>رسالة جديدة من مستخدم:</b>\n\n👤 %s\n🆔 <code>%d</code>\n\n%s",
		BtnAdminStats:        "📊 الإحصائيات",
		BtnChannel:           "📢 القناة",
		BtnSetChannel:        "✏️ ضبط القناة",
		BtnSetChannelMessage: "💬 رسالة الاشتراك",
		BtnToggleSub:         "🔁 تفعيل/تعطيل الاشتراك",
		BtnDeleteChannel:     "🗑️ حذف القناة",
		BtnWelcome:           "👋 رسالة الترحيب",
		BtnBan:               "⛔ حظر مستخدم",
		BtnUnban:             "✅ إلغاء حظر",
		BtnBroadcast:         "📣 إذاعة",
		BtnToggleBot:         "🤖 تشغيل/إيقاف البوت",
		BtnOfflineMessage:    "🔧 رسالة التوقف",
		BtnToggleForwarding:  "📨 تحويل الرسائل",
		BtnAdmins:            "👮 المشرفون",
		BtnAddAdmin:          "➕ إضافة مشرف",
		BtnRemoveAdmin:       "➖ إزالة مشرف",
	},
	domain.LangEnglish: {
		ChooseLanguage:      "🎉 Welcome to Temp Email Bot!\n\nChoose your preferred language:",
		LanguageChanged:     "✅ Language changed to English",
		MainMenu:            "📬 Main Menu\n\nActive emails: %d",
		Help:                "ℹ️ <b>Help</b>\n\n/start - main menu\n/help - this message\n/cancel - cancel the current operation\n\nCreate a temporary email and new messages will be delivered here automatically, with the verification code when one is found.",
		EmailCreated:        "✅ New email created successfully!\n\n📧 Email: <code>%s</code>\n\nTap to copy",
		NoEmails:            "❌ No active emails\n\nCreate a new email first",
		SelectEmail:         "📋 Select email to view messages:\n\nTotal emails: %d",
		MyEmails:            "📧 Your emails (%d)\n\nSelect one to see its details:",
		ViewEmail:           "📧 <code>%s</code>\n🔑 <code>%s</code>",
		NoMessages:          "📭 No messages in this email\n\n📧 %s",
		MessagesList:        "📬 Inbox (%d)\n📧 Email: %s",
		MessageDetail:       "✉️ Message Details\n\n📧 From: %s\n📌 Subject: %s\n📅 Date: %s\n\n📝 Content:\n%s",
		OTPFound:            "🔢 OTP Code Found:\n\nCode: <code>%s</code>\n\nTap to copy",
		NewMail:             "📨 <b>New email received</b>\n📧 %s",
		TooLong:             "... (message too long)",
		NoSubject:           "(no subject)",
		NoContent:           "(no content)",
		EmailDeleted:        "🗑️ Email deleted successfully\n\n📧 %s",
		AllEmailsDeleted:    "🗑️ All emails deleted (%d)",
		ConfirmDelete:       "⚠️ Are you sure you want to delete this email?\n\n📧 %s",
		ConfirmDeleteAll:    "⚠️ Are you sure you want to delete all emails?\n\nCount: %d",
		UserStats:           "📊 Statistics\n\n👤 Total Users: %d\n📧 Your Active Emails: %d\n🌐 Language: English",
		Cancelled:           "✅ Cancelled",
		NothingToCancel:     "Nothing to cancel",
		UseMenu:             "Use the menu buttons 👇",
		MessageForwarded:    "✅ Your message was sent to the admin",
		InputExpired:        "⌛ The input window expired, please start again",
		MailboxLimit:        "⚠️ You reached the maximum number of emails (%d). Delete one first.",
		SubscriptionPrompt:  "⚠️ You must join the channel to use the bot\n\n🔗 Channel: %s\n\n%s\n\nAfter joining, press '✅ Verify Subscription'",
		SubscriptionOK:      "✅ Subscription verified",
		SubscriptionMissing: "❌ You are not subscribed yet",
		Banned:              "⛔ You are banned from using this bot.",
		BannedReason:        "⛔ You are banned from using this bot.\n\nReason: %s",
		OfflineDefault:      "🔧 The bot is temporarily offline for maintenance. Please try again later.",
		ServiceUnavailable:  "⚠️ The service is temporarily unavailable. Please try again later.",
		Unauthorized:        "⛔ Sorry, this command is for admin only",
		StateOn:             "enabled ✅",
		StateOff:            "disabled ❌",

		ErrGeneric:        "❌ An error occurred, please try again",
		ErrCreateEmail:    "❌ Failed to create email\n\nThe service may be busy.\nPlease try again.",
		ErrLoadMessages:   "❌ Failed to load messages\n\nConnection may be slow.\nPress 🔄 Retry to try again.",
		ErrLoadMessage:    "❌ Failed to load message\n\nPlease try again later.",
		ErrMailboxExpired: "⚠️ This email has expired at the provider and cannot be recovered.\n\n📧 %s\n\nDelete it and create a new one.",
		ErrMailboxGone:    "❌ This email no longer exists",

		BtnCreate:      "✨ Create New Email",
		BtnMyEmails:    "📧 My Emails",
		BtnInbox:       "📥 Inbox",
		BtnStats:       "📊 Statistics",
		BtnDeleteAll:   "🗑️ Delete All",
		BtnLanguage:    "🌐 Change Language",
		BtnBack:        "🔙 Back",
		BtnMainMenu:    "🏠 Main Menu",
		BtnDelete:      "🗑️ Delete",
		BtnConfirm:     "✅ Confirm",
		BtnCancel:      "❌ Cancel",
		BtnRefresh:     "🔄 Refresh",
		BtnRetry:       "🔄 Retry",
		BtnAdminPanel:  "👑 Admin Panel",
		BtnJoinChannel: "📢 Join Channel",
		BtnVerify:      "✅ Verify Subscription",

		AdminPanel:           "👑 Admin Control Panel\n\n🤖 Bot: %s\n📨 Forwarding: %s",
		AdminStats:           "👑 Admin Statistics\n\n👥 Total Users: %d\n🔄 Active Users: %d\n📧 Total Emails: %d\n⛔ Banned: %d\n👮 Admins: %d",
		ChannelPanel:         "📢 Channel settings\n\nChannel: %s\nTitle: %s\nForced subscription: %s\n\nMessage:\n%s",
		ChannelNone:          "📢 No channel configured",
		AskChannel:           "Send the channel username (e.g. @channel)\n\nThe bot must be an admin of the channel.",
		AskChannelMessage:    "Send the subscription message shown to users:",
		AskWelcome:           "Send the new welcome message, or send - to remove it:",
		AskBanTarget:         "Send the numeric user id or @username, optionally followed by a reason:",
		AskUnbanTarget:       "Send the numeric user id or @username to unban:",
		AskBroadcast:         "Send the text to broadcast to all users:",
		AskOfflineMessage:    "Send the offline message shown to users:",
		AskAddAdmin:          "Send the numeric user id or @username to make admin:",
		AskRemoveAdmin:       "Send the numeric id of the admin to remove:",
		ChannelSaved:         "✅ Channel set to %s",
		ChannelUnresolved:    "⚠️ Channel %s saved but could not be reached. Make sure the bot is an admin there.",
		ChannelInvalid:       "❌ Invalid channel username",
		ChannelMessageSaved:  "✅ Subscription message saved",
		SubscriptionToggled:  "✅ Forced subscription: %s",
		ChannelDeleted:       "🗑️ Channel deleted",
		WelcomeSaved:         "✅ Welcome message saved",
		WelcomeCleared:       "🗑️ Welcome message removed",
		UserBanned:           "⛔ User %d banned",
		UserUnbanned:         "✅ User %d unbanned",
		UserNotBanned:        "ℹ️ User %d is not banned",
		CannotBanAdmin:       "❌ Admins cannot be banned",
		UserNotFound:         "❌ User not found",
		BroadcastStarted:     "📣 Sending to %d users...",
		BroadcastDone:        "📣 Broadcast finished\n\n✅ Sent: %d\n❌ Failed: %d",
		BroadcastBusy:        "⏳ A broadcast is already in progress, wait for it to finish.",
		BotToggled:           "🤖 Bot: %s",
		ForwardingToggled:    "📨 Forwarding: %s",
		OfflineMessageSaved:  "✅ Offline message saved",
		AdminAdded:           "✅ Admin %d added",
		AdminExists:          "ℹ️ User %d is already an admin",
		AdminRemoved:         "🗑️ Admin %d removed",
		AdminNotFound:        "❌ User %d is not an admin",
		CannotRemoveSuper:    "❌ The main admin cannot be removed",
		AdminsList:           "👮 Admins:\n\n%s",
		AdminsEmpty:          "👮 No additional admins",
		PurgeDone:            "🧹 User %d deleted with %d emails",
		PurgeUsage:           "Usage: /purge &lt;user_id&gt;",
		ForwardedFromUser:    "📨 <b>New message from user:</b>\n\n👤 %s\n🆔 <code>%d</code>\n\n%s",
		BtnAdminStats:        "📊 Statistics",
		BtnChannel:           "📢 Channel",
		BtnSetChannel:        "✏️ Set Channel",
		BtnSetChannelMessage: "💬 Subscription Message",
		BtnToggleSub:         "🔁 Toggle Subscription",
		BtnDeleteChannel:     "🗑️ Delete Channel",
		BtnWelcome:           "👋 Welcome Message",
		BtnBan:               "⛔ Ban User",
		BtnUnban:             "✅ Unban User",
		BtnBroadcast:         "📣 Broadcast",
		BtnToggleBot:         "🤖 Bot On/Off",
		BtnOfflineMessage:    "🔧 Offline Message",
		BtnToggleForwarding:  "📨 Forwarding",
		BtnAdmins:            "👮 Admins",
		BtnAddAdmin:          "➕ Add Admin",
		BtnRemoveAdmin:       "➖ Remove Admin",
	},
}
