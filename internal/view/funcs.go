package view

import (
	"html/template"
	"time"
)

// FuncMap 返回模板使用的全部辅助函数
func FuncMap() template.FuncMap {
	return template.FuncMap{
		"markdown":     RenderMarkdown,
		"linebreaks":   Linebreaks,
		"categoryIcon": CategoryIconSVG,
		"pluralize":    Pluralize,
		"timeago": func(t time.Time, language string) string {
			return FormatRelativeTime(time.Now(), t, language)
		},
		"date": func(t time.Time) string {
			if t.IsZero() {
				return ""
			}
			return t.Format("Jan 2, 2006")
		},
		"add": func(a, b int) int {
			return a + b
		},
	}
}
