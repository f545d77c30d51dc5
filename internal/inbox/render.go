package inbox

import (
	"html"
	"strings"
	"time"
	"unicode/utf8"

	"tempmail/bot/internal/domain"
	"tempmail/bot/internal/i18n"
	"tempmail/bot/internal/mailtm"
	"tempmail/bot/internal/security"
)

// DefaultMaxBody 正文最大字符数，保证整条消息低于 Telegram 4096 字符上限
const DefaultMaxBody = 3500

const timeLayout = "2006-01-02 15:04 MST"

// MaxMessageLength Telegram 单条消息解析后的长度上限
const MaxMessageLength = 4096

// maxHeaderField 发件人、主题和地址的最大字符数
const maxHeaderField = 256

// RenderMessage 渲染邮件详情，识别到验证码时在顶部显示。输出为 HTML 模式。
func RenderMessage(lang domain.Language, msg *mailtm.Message, otp string, maxBody int) string {
	return render(lang, "", msg, otp, maxBody)
}

// RenderNotification 渲染新邮件推送
func RenderNotification(lang domain.Language, address string, msg NewMessage, maxBody int) string {
	header := i18n.F(lang, i18n.NewMail, Truncate(lang, address, maxHeaderField)) + "\n\n"
	return render(lang, header, msg.Message, msg.OTP, maxBody)
}

// render 组装整条消息；正文在 maxBody 之外还受 Telegram 长度上限约束，
// 其余部分占用的长度从正文预算中扣除
func render(lang domain.Language, header string, msg *mailtm.Message, otp string, maxBody int) string {
	var b strings.Builder
	b.WriteString(header)
	if otp != "" {
		b.WriteString(i18n.F(lang, i18n.OTPFound, html.EscapeString(otp)))
		b.WriteString("\n\n")
	}
	prefix := b.String()

	subject := strings.TrimSpace(msg.Subject)
	if subject == "" {
		subject = i18n.T(lang, i18n.NoSubject)
	}
	body := strings.TrimSpace(msg.Body())
	if body == "" {
		body = i18n.T(lang, i18n.NoContent)
	}
	from := Truncate(lang, msg.From.String(), maxHeaderField)
	subject = Truncate(lang, subject, maxHeaderField)
	when := formatTime(msg.CreatedAt)

	compose := func(escapedBody string) string {
		return prefix + i18n.F(lang, i18n.MessageDetail, from, subject, when, escapedBody)
	}

	if maxBody <= 0 {
		maxBody = DefaultMaxBody
	}
	marker := security.VisibleLength("\n" + i18n.T(lang, i18n.TooLong))
	if budget := MaxMessageLength - security.VisibleLength(compose("")) - marker; budget < maxBody {
		maxBody = budget
	}
	if maxBody < 1 {
		maxBody = 1
	}
	for {
		out := compose(Truncate(lang, body, maxBody))
		over := security.VisibleLength(out) - MaxMessageLength
		if over <= 0 || maxBody <= 1 {
			return out
		}
		// 宽字符按两个码元计数，按超出量继续收缩
		maxBody -= over
		if maxBody < 1 {
			maxBody = 1
		}
	}
}

// Truncate 按字符截断文本并转义，被截断时追加本地化提示
func Truncate(lang domain.Language, body string, max int) string {
	if max <= 0 {
		max = DefaultMaxBody
	}
	if utf8.RuneCountInString(body) <= max {
		return html.EscapeString(body)
	}
	runes := []rune(body)
	return html.EscapeString(string(runes[:max])) + "\n" + i18n.T(lang, i18n.TooLong)
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.UTC().Format(timeLayout)
}
