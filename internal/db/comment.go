package db

import (
	"fmt"

	"gorm.io/gorm"
)

// Comment 是故事下的评论。Approved 为 false 时前台不可见，需管理员审核。
type Comment struct {
	gorm.Model
	StoryID  uint   `gorm:"index;not null"`
	Story    Story  `gorm:"foreignKey:StoryID"`
	AuthorID uint   `gorm:"index;not null"`
	Author   User   `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE;"`
	Content  string `gorm:"type:text;not null"`
	Approved bool   `gorm:"index;default:false"`
}

func (c Comment) String() string {
	return fmt.Sprintf("Comment by %s on %s", c.Author.Username, c.Story.Title)
}
