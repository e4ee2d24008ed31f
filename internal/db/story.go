package db

import (
	"strings"

	"gorm.io/gorm"
)

// Story 是用户发布的经历分享，删除时级联删除评论
type Story struct {
	gorm.Model
	Title    string    `gorm:"size:200;not null"`
	Slug     string    `gorm:"size:200;uniqueIndex;not null"`
	Content  string    `gorm:"type:text;not null"`
	AuthorID uint      `gorm:"index;not null"`
	Author   User      `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE;"`
	Comments []Comment `gorm:"foreignKey:StoryID;constraint:OnDelete:CASCADE;"`
}

// BeforeCreate 在首次保存时由标题生成 slug，之后的保存不会再改动。
func (s *Story) BeforeCreate(tx *gorm.DB) error {
	if strings.TrimSpace(s.Slug) != "" {
		return nil
	}
	generated, err := UniqueSlug(tx.Session(&gorm.Session{NewDB: true}), &Story{}, s.Title, "story")
	if err != nil {
		return err
	}
	s.Slug = generated
	return nil
}

func (s Story) String() string {
	return s.Title
}
