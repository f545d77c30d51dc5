package inbox

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"

	"tempmail/bot/internal/domain"
	"tempmail/bot/internal/i18n"
	"tempmail/bot/internal/mailtm"
	"tempmail/bot/internal/security"
)

func TestRenderMessage_EscapesAndBannersOTP(t *testing.T) {
	msg := &mailtm.Message{
		MessageSummary: mailtm.MessageSummary{
			From:      mailtm.Address{Address: "no-reply@shop.test", Name: "Shop <Team>"},
			Subject:   "Code & more",
			CreatedAt: base,
		},
		Text: "<b>123456</b>",
	}

	out := RenderMessage(domain.LangEnglish, msg, "123456", 0)

	assert.True(t, strings.HasPrefix(out, i18n.F(domain.LangEnglish, i18n.OTPFound, "123456")))
	assert.Contains(t, out, "Shop &lt;Team&gt; &lt;no-reply@shop.test&gt;")
	assert.Contains(t, out, "Code &amp; more")
	assert.Contains(t, out, "&lt;b&gt;123456&lt;/b&gt;")
	assert.Contains(t, out, "2026-03-01 12:00 UTC")
}

func TestRenderMessage_Placeholders(t *testing.T) {
	msg := &mailtm.Message{}
	out := RenderMessage(domain.LangArabic, msg, "", 0)

	assert.Contains(t, out, i18n.T(domain.LangArabic, i18n.NoSubject))
	assert.Contains(t, out, i18n.T(domain.LangArabic, i18n.NoContent))
	assert.NotContains(t, out, "<code>")
}

func TestTruncate(t *testing.T) {
	short := "hello"
	assert.Equal(t, short, Truncate(domain.LangEnglish, short, 10))

	long := strings.Repeat("é", 20)
	out := Truncate(domain.LangEnglish, long, 10)
	assert.True(t, strings.HasSuffix(out, i18n.T(domain.LangEnglish, i18n.TooLong)))
	assert.True(t, utf8.ValidString(out))
	assert.Equal(t, strings.Repeat("é", 10), strings.SplitN(out, "\n", 2)[0])
}

func TestRenderNotification(t *testing.T) {
	msg := NewMessage{Message: &mailtm.Message{Text: "hi"}, OTP: ""}
	out := RenderNotification(domain.LangEnglish, "a@b.test", msg, 0)
	assert.True(t, strings.HasPrefix(out, i18n.F(domain.LangEnglish, i18n.NewMail, "a@b.test")))
	assert.Contains(t, out, "hi")
}

func TestRenderNotification_FitsTelegramLimit(t *testing.T) {
	for _, lang := range []domain.Language{domain.LangEnglish, domain.LangArabic} {
		for _, body := range []string{strings.Repeat("x", 5000), strings.Repeat("😀", 5000)} {
			msg := NewMessage{
				Message: &mailtm.Message{
					MessageSummary: mailtm.MessageSummary{
						From:      mailtm.Address{Address: strings.Repeat("f", 400) + "@shop.test", Name: strings.Repeat("<N>", 200)},
						Subject:   strings.Repeat("S&", 300),
						CreatedAt: base,
					},
					Text: body,
				},
				OTP: "123456",
			}

			out := RenderNotification(lang, strings.Repeat("a", 300)+"@b.test", msg, 0)
			assert.LessOrEqual(t, security.VisibleLength(out), MaxMessageLength)
			assert.Contains(t, out, i18n.T(lang, i18n.TooLong))
			assert.Contains(t, out, "<code>123456</code>")
		}
	}
}

func TestRenderMessage_ShortMessageKeepsFullBody(t *testing.T) {
	body := strings.Repeat("b", 3000)
	out := RenderMessage(domain.LangEnglish, &mailtm.Message{Text: body}, "", 0)
	assert.Contains(t, out, body)
	assert.NotContains(t, out, i18n.T(domain.LangEnglish, i18n.TooLong))
	assert.LessOrEqual(t, security.VisibleLength(out), MaxMessageLength)
}
