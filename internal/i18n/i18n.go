// Package i18n 提供机器人界面的阿拉伯语和英语文案。
package i18n

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"

	"tempmail/bot/internal/domain"
)

// Key 文案键
type Key string

var supported = []language.Tag{language.Arabic, language.English}

var matcher = language.NewMatcher(supported)

// Match 把 Telegram 提供的 language_code 映射为支持的界面语言
func Match(code string) domain.Language {
	code = strings.TrimSpace(code)
	if code == "" {
		return domain.DefaultLanguage
	}
	tag, err := language.Parse(code)
	if err != nil {
		return domain.DefaultLanguage
	}
	_, idx, conf := matcher.Match(tag)
	if conf == language.No {
		return domain.DefaultLanguage
	}
	base, _ := supported[idx].Base()
	return domain.Language(base.String())
}

// T 返回文案，缺失时回退到默认语言，再缺失则返回键名
func T(lang domain.Language, key Key) string {
	if s, ok := tables[lang.OrDefault()][key]; ok {
		return s
	}
	if s, ok := tables[domain.DefaultLanguage][key]; ok {
		return s
	}
	return string(key)
}

// F 返回格式化后的文案
func F(lang domain.Language, key Key, args ...any) string {
	return fmt.Sprintf(T(lang, key), args...)
}

// OnOff 返回本地化的开关状态
func OnOff(lang domain.Language, on bool) string {
	if on {
		return T(lang, StateOn)
	}
	return T(lang, StateOff)
}
