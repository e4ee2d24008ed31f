package view

import (
	"fmt"
	"time"

	"github.com/youvshr/internal/locale"
)

// FormatRelativeTime 以 now 为基准输出 "5 minutes ago" 一类的相对时间
func FormatRelativeTime(now, t time.Time, language string) string {
	if t.IsZero() {
		return ""
	}
	diff := now.Sub(t)
	if diff < time.Minute {
		return locale.Pick(language, "just now", "刚刚")
	}

	var (
		value int
		unit  string
		zh    string
	)
	switch {
	case diff < time.Hour:
		value, unit, zh = int(diff/time.Minute), "minute", "分钟"
	case diff < 24*time.Hour:
		value, unit, zh = int(diff/time.Hour), "hour", "小时"
	case diff < 30*24*time.Hour:
		value, unit, zh = int(diff/(24*time.Hour)), "day", "天"
	case diff < 365*24*time.Hour:
		value, unit, zh = int(diff/(30*24*time.Hour)), "month", "个月"
	default:
		value, unit, zh = int(diff/(365*24*time.Hour)), "year", "年"
	}

	english := fmt.Sprintf("%d %s ago", value, unit)
	if value != 1 {
		english = fmt.Sprintf("%d %ss ago", value, unit)
	}
	return locale.Pick(language, english, fmt.Sprintf("%d%s前", value, zh))
}

// Pluralize 在数量不为 1 时返回复数后缀
func Pluralize(count interface{}, suffix string) string {
	var n int64
	switch v := count.(type) {
	case int:
		n = int64(v)
	case int64:
		n = v
	case uint:
		n = int64(v)
	default:
		return suffix
	}
	if n == 1 {
		return ""
	}
	return suffix
}
