// Package text 评论正文的清洗与渲染
package text

import (
	"bytes"
	"html"
	"strings"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	gmhtml "github.com/yuin/goldmark/renderer/html"
)

var (
	md = goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithRendererOptions(
			gmhtml.WithHardWraps(),
			gmhtml.WithXHTML(),
		),
	)
	ugc = bluemonday.UGCPolicy()
)

func init() {
	ugc.AddTargetBlankToFullyQualifiedLinks(true)
	ugc.RequireNoReferrerOnLinks(true)
}

// Normalize 只去掉首尾空白，原文入库，输出时再由 Render 清洗
func Normalize(s string) string {
	return strings.TrimSpace(s)
}

// Length 按字符计数
func Length(s string) int {
	return utf8.RuneCountInString(s)
}

// Render markdown 转为安全的 html
func Render(source string) string {
	var buf bytes.Buffer
	if err := md.Convert([]byte(source), &buf); err != nil {
		return html.EscapeString(source)
	}
	return strings.TrimSpace(ugc.Sanitize(buf.String()))
}
