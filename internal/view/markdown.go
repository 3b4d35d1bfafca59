package view

import (
	"bytes"
	"html/template"
	"regexp"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

var (
	markdownEngine = goldmark.New(
		goldmark.WithExtensions(extension.GFM, extension.Linkify, extension.Table),
		goldmark.WithRendererOptions(html.WithHardWraps(), html.WithXHTML()),
	)
	sanitizer = buildContentSanitizer()

	codeLanguagePattern = regexp.MustCompile(`^language-[\w+#-]+$`)
)

// buildContentSanitizer 在 UGC 策略基础上保留代码块的语言标记，供前端高亮使用。
func buildContentSanitizer() *bluemonday.Policy {
	policy := bluemonday.UGCPolicy()
	policy.AllowAttrs("class").Matching(codeLanguagePattern).OnElements("code")
	return policy
}

// RenderMarkdown 把文章正文渲染为 HTML 并做 XSS 清洗，结果可直接嵌入模板。
func RenderMarkdown(source string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := markdownEngine.Convert([]byte(source), &buf); err != nil {
		return "", err
	}
	return template.HTML(sanitizer.SanitizeBytes(buf.Bytes())), nil
}
