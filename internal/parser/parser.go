package parser

import (
	"bytes"
	"fmt"
	"html"
	"regexp"
	"strings"

	"github.com/wikicore-next/internal/constants"

	"github.com/yuin/goldmark"
	gmhtml "github.com/yuin/goldmark/renderer/html"
)

// Kind 标记语言种类，按格式常量映射后统一派发
type Kind int

const (
	KindText Kind = iota
	KindWiki
	KindWikiHTML
	KindWikiCode
	KindHTML
	KindCode
	KindMarkdown
)

// Context 解析时的调用方身份
// 部分标记规则是权限敏感的，须随调用传入
type Context struct {
	UserID        uint
	IsAdmin       bool
	Authenticated bool
	PostID        uint
	CreatedBy     uint
}

// KindForFormat 格式常量到解析种类的映射，未知格式按纯文本处理
func KindForFormat(constant string) Kind {
	switch strings.ToLower(strings.TrimSpace(constant)) {
	case constants.FormatWiki:
		return KindWiki
	case constants.FormatWikiHTML:
		return KindWikiHTML
	case constants.FormatWikiCode:
		return KindWikiCode
	case constants.FormatHTML:
		return KindHTML
	case constants.FormatCode:
		return KindCode
	case constants.FormatMarkdown:
		return KindMarkdown
	default:
		return KindText
	}
}

var markdown = goldmark.New(
	goldmark.WithRendererOptions(gmhtml.WithHardWraps()),
)

// 仅对已登录用户可见的块
var authBlockRe = regexp.MustCompile(`(?s)<auth>.*?</auth>`)

// 仅对管理员与创建者可见的块
var privBlockRe = regexp.MustCompile(`(?s)<priv>.*?</priv>`)

var authTagRe = regexp.MustCompile(`</?auth>`)
var privTagRe = regexp.MustCompile(`</?priv>`)

// 列表展示时一律隐藏的块
var hiddenBlockRes = []*regexp.Regexp{
	authBlockRe,
	privBlockRe,
	regexp.MustCompile(`(?s)<html>.*?</html>`),
	regexp.MustCompile(`(?s)<php>.*?</php>`),
	regexp.MustCompile(`(?s)<phpw>.*?</phpw>`),
	regexp.MustCompile(`(?s)<info>.*?</info>`),
	regexp.MustCompile(`(?s)<infol>.*?</infol>`),
}

// StripHiddenBlocks 去除所有不可见内容块，摘要提取前调用
func StripHiddenBlocks(text string) string {
	for _, re := range hiddenBlockRes {
		text = re.ReplaceAllString(text, "")
	}
	return text
}

// applyVisibility 按调用方身份处理权限敏感块
func applyVisibility(text string, pctx Context) string {
	if pctx.Authenticated {
		text = authTagRe.ReplaceAllString(text, "")
	} else {
		text = authBlockRe.ReplaceAllString(text, "")
	}
	if pctx.IsAdmin || (pctx.CreatedBy != 0 && pctx.UserID == pctx.CreatedBy) {
		text = privTagRe.ReplaceAllString(text, "")
	} else {
		text = privBlockRe.ReplaceAllString(text, "")
	}
	return text
}

// Parse 把原始文本解析为可展示输出
func Parse(kind Kind, text string, pctx Context) (string, error) {
	switch kind {
	case KindWiki:
		return parseWiki(applyVisibility(text, pctx), false), nil
	case KindWikiHTML:
		return parseWiki(applyVisibility(text, pctx), true), nil
	case KindWikiCode:
		return "<pre><code>" + html.EscapeString(applyVisibility(text, pctx)) + "</code></pre>", nil
	case KindHTML:
		return applyVisibility(text, pctx), nil
	case KindCode:
		return "<pre><code>" + html.EscapeString(text) + "</code></pre>", nil
	case KindMarkdown:
		var buf bytes.Buffer
		if err := markdown.Convert([]byte(applyVisibility(text, pctx)), &buf); err != nil {
			return "", fmt.Errorf("parser: markdown: %w", err)
		}
		return buf.String(), nil
	default:
		return "<p>" + strings.ReplaceAll(html.EscapeString(text), "\n", "<br>\n") + "</p>", nil
	}
}

var wikiHeadingRe = regexp.MustCompile(`(?m)^(={2,6})\s*(.+?)\s*=*\s*$`)
var wikiBoldRe = regexp.MustCompile(`\*\*(.+?)\*\*`)
var wikiItalicRe = regexp.MustCompile(`//(.+?)//`)
var wikiLinkRe = regexp.MustCompile(`\[\[([^|\]]+)\|?([^\]]*)\]\]`)
var wikiListRe = regexp.MustCompile(`(?m)^\s*\*\s+(.+)$`)
var wikiRuleRe = regexp.MustCompile(`(?m)^-{4,}\s*$`)

// parseWiki 基础 wiki 语法渲染，rawHTML 决定是否保留内嵌 HTML
func parseWiki(text string, rawHTML bool) string {
	if !rawHTML {
		text = html.EscapeString(text)
	}
	text = wikiHeadingRe.ReplaceAllStringFunc(text, func(m string) string {
		sub := wikiHeadingRe.FindStringSubmatch(m)
		level := len(sub[1])
		return fmt.Sprintf("<h%d>%s</h%d>", level, sub[2], level)
	})
	text = wikiBoldRe.ReplaceAllString(text, "<strong>$1</strong>")
	text = wikiItalicRe.ReplaceAllString(text, "<em>$1</em>")
	text = wikiLinkRe.ReplaceAllStringFunc(text, func(m string) string {
		sub := wikiLinkRe.FindStringSubmatch(m)
		target, label := sub[1], sub[2]
		if label == "" {
			label = target
		}
		return fmt.Sprintf(`<a href="%s">%s</a>`, target, label)
	})
	text = wikiListRe.ReplaceAllString(text, "<li>$1</li>")
	text = wikiRuleRe.ReplaceAllString(text, "<hr>")
	return strings.ReplaceAll(text, "\n\n", "\n<br>\n")
}
