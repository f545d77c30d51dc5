package i18n

import (
	"html"
	"strings"

	"tempmail/bot/internal/domain"
)

// GatePrompts 渲染访问闸门的拒绝文案，输出为 HTML 模式
type GatePrompts struct{}

// BanNotice 封禁提示，有原因时附带原因
func (GatePrompts) BanNotice(lang domain.Language, ban *domain.Ban) string {
	if ban != nil && strings.TrimSpace(ban.Reason) != "" {
		return F(lang, BannedReason, html.EscapeString(ban.Reason))
	}
	return T(lang, Banned)
}

// OfflineNotice 停机提示，未设置自定义文案时使用默认文案
func (GatePrompts) OfflineNotice(lang domain.Language, custom string) string {
	if strings.TrimSpace(custom) != "" {
		return html.EscapeString(custom)
	}
	return T(lang, OfflineDefault)
}

// SubscriptionPrompt 强制订阅提示
func (GatePrompts) SubscriptionPrompt(lang domain.Language, ch *domain.Channel) string {
	return F(lang, SubscriptionPrompt, html.EscapeString(ch.Handle()), html.EscapeString(ch.Prompt))
}

// UnavailableNotice 服务不可用提示
func (GatePrompts) UnavailableNotice(lang domain.Language) string {
	return T(lang, ServiceUnavailable)
}
