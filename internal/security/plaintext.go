// Package security 把不可信的邮件 HTML 转换为可安全展示的纯文本
package security

import (
	"regexp"
	"strings"
	"unicode/utf16"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// skipped 内容不展示的元素，脚本与嵌入对象一律丢弃
var skipped = map[atom.Atom]bool{
	atom.Script:   true,
	atom.Style:    true,
	atom.Head:     true,
	atom.Iframe:   true,
	atom.Object:   true,
	atom.Embed:    true,
	atom.Noscript: true,
	atom.Template: true,
}

// blocks 前后需要换行的块级元素
var blocks = map[atom.Atom]bool{
	atom.P: true, atom.Div: true, atom.Br: true, atom.Tr: true, atom.Li: true,
	atom.H1: true, atom.H2: true, atom.H3: true, atom.H4: true, atom.H5: true, atom.H6: true,
	atom.Table: true, atom.Ul: true, atom.Ol: true, atom.Blockquote: true, atom.Hr: true,
}

var (
	spaces     = regexp.MustCompile(`[ \t\f\v\x{00a0}]+`)
	blankLines = regexp.MustCompile(`\n{3,}`)
)

// PlainText 提取 HTML 中的可见文本。
//
// 链接保留为 "文字 (地址)" 的形式，方便用户复制验证链接；javascript: 链接被丢弃。
func PlainText(src string) string {
	if strings.TrimSpace(src) == "" {
		return ""
	}

	var (
		b     strings.Builder
		depth int
		hrefs []string
	)
	z := html.NewTokenizer(strings.NewReader(src))
	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			return normalize(b.String())
		case html.StartTagToken, html.SelfClosingTagToken:
			tok := z.Token()
			if skipped[tok.DataAtom] {
				if tt == html.StartTagToken {
					depth++
				}
				continue
			}
			if blocks[tok.DataAtom] {
				b.WriteByte('\n')
			}
			if tok.DataAtom == atom.A && tt == html.StartTagToken {
				hrefs = append(hrefs, safeHref(tok))
			}
		case html.EndTagToken:
			tok := z.Token()
			if skipped[tok.DataAtom] {
				if depth > 0 {
					depth--
				}
				continue
			}
			if tok.DataAtom == atom.A && len(hrefs) > 0 {
				href := hrefs[len(hrefs)-1]
				hrefs = hrefs[:len(hrefs)-1]
				if href != "" && depth == 0 {
					b.WriteString(" (" + href + ")")
				}
			}
			if blocks[tok.DataAtom] {
				b.WriteByte('\n')
			}
		case html.TextToken:
			if depth == 0 {
				b.Write(z.Text())
			}
		}
	}
}

func safeHref(tok html.Token) string {
	for _, attr := range tok.Attr {
		if attr.Key != "href" {
			continue
		}
		href := strings.TrimSpace(attr.Val)
		lower := strings.ToLower(href)
		if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
			return href
		}
		return ""
	}
	return ""
}

func normalize(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(spaces.ReplaceAllString(line, " "))
	}
	return strings.TrimSpace(blankLines.ReplaceAllString(strings.Join(lines, "\n"), "\n\n"))
}

// VisibleLength 返回 HTML 解析后可见文本的长度，按 UTF-16 码元计数，与 Telegram 的消息长度上限一致
func VisibleLength(src string) int {
	n := 0
	z := html.NewTokenizer(strings.NewReader(src))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return n
		case html.TextToken:
			for _, r := range string(z.Text()) {
				n += utf16.RuneLen(r)
			}
		}
	}
}
