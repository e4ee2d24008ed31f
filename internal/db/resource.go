package db

import (
	"fmt"

	"gorm.io/gorm"
)

// ResourceCategory 用于组织资源目录，SortOrder 值越小越靠前
type ResourceCategory struct {
	gorm.Model
	Name      string     `gorm:"size:100;uniqueIndex;not null"`
	SortOrder int        `gorm:"default:0"`
	Icon      string     `gorm:"size:50"`
	Resources []Resource `gorm:"foreignKey:CategoryID;constraint:OnDelete:CASCADE;"`
}

// TableName 返回自定义表名
func (ResourceCategory) TableName() string {
	return "resource_categories"
}

func (c ResourceCategory) String() string {
	return c.Name
}

// Resource 是目录中的单条外部链接，Active 为 false 时不在前台展示
type Resource struct {
	gorm.Model
	CategoryID  uint             `gorm:"index;not null"`
	Category    ResourceCategory `gorm:"foreignKey:CategoryID"`
	Title       string           `gorm:"size:200;not null"`
	URL         string           `gorm:"size:200;not null"`
	Description string           `gorm:"type:text"`
	SortOrder   int              `gorm:"default:0"`
	Active      bool             `gorm:"not null"`
}

func (r Resource) String() string {
	return fmt.Sprintf("%s (%s)", r.Title, r.Category.Name)
}
