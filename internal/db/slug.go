package db

import (
	"fmt"
	"strings"

	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

const maxSlugLength = 190

// reservedSlugs 与静态路由冲突，例如 /story/create/ 永远指向新建页面
var reservedSlugs = map[string]struct{}{
	"create": {},
}

// IsReservedSlug 判断 slug 是否被路由占用
func IsReservedSlug(value string) bool {
	_, ok := reservedSlugs[strings.ToLower(strings.TrimSpace(value))]
	return ok
}

// Slugify 将标题转换为 URL 安全的 slug，例如 "Test Story" -> "test-story"。
func Slugify(title string) string {
	made := slug.Make(strings.TrimSpace(title))
	if len(made) > maxSlugLength {
		made = strings.TrimRight(made[:maxSlugLength], "-")
	}
	return made
}

// UniqueSlug 根据标题生成 slug，若已被占用（含保留 slug）则依次追加 -2、-3 …
// fallback 用于标题无法转写出任何字符的情况。
func UniqueSlug(tx *gorm.DB, model interface{}, title, fallback string) (string, error) {
	base := Slugify(title)
	if base == "" {
		base = fallback
	}

	candidate := base
	for i := 2; ; i++ {
		if IsReservedSlug(candidate) {
			candidate = fmt.Sprintf("%s-%d", base, i)
			continue
		}
		var count int64
		if err := tx.Unscoped().Model(model).Where("slug = ?", candidate).Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, i)
	}
}
