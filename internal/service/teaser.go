package service

import (
	"regexp"
	"strings"

	"github.com/wikicore-next/internal/parser"
)

var teaserBlockRe = regexp.MustCompile(`(?s)<teaser>(.*?)</teaser>`)

const teaserOpenTag = "<teaser>"

// 摘要回退路径中需要剥离的标记符号序列
var teaserMarkupRes = []*regexp.Regexp{
	regexp.MustCompile(`\[\[|\]\]`),          // 链接括号
	regexp.MustCompile(`(?m)^\s*={2,6}\s*`),  // 标题标记（行首）
	regexp.MustCompile(`(?m)={2,6}\s*$`),     // 标题标记（行尾）
	regexp.MustCompile(`(?m)^\s*[*#-]+\s+`),  // 列表标记
	regexp.MustCompile(`\*\*|//|__`),         // 强调标记
	regexp.MustCompile(`(?m)^\s*\|.*\|\s*$`), // 表格行
	regexp.MustCompile(`(?m)^-{4,}\s*$`),     // 水平线
}

// ExtractTeaser 由提交明文确定性地产出摘要
// 先剥离不可见内容块；有 <teaser> 区段则原样取其内容，
// 只有起始标签且位于开头时取其后全部内容，
// 否则剥离标记符号后截断到上限并补省略号
func ExtractTeaser(content string, maxLen int) string {
	content = parser.StripHiddenBlocks(content)

	if m := teaserBlockRe.FindStringSubmatch(content); m != nil {
		return m[1]
	}
	if strings.HasPrefix(content, teaserOpenTag) {
		return content[len(teaserOpenTag):]
	}

	for _, re := range teaserMarkupRes {
		content = re.ReplaceAllString(content, "")
	}
	content = strings.TrimSpace(content)
	if maxLen <= 0 {
		maxLen = 500
	}
	runes := []rune(content)
	if len(runes) <= maxLen {
		return content
	}
	return string(runes[:maxLen]) + "..."
}
