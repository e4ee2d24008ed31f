package db

import (
	"strings"

	"gorm.io/gorm"
)

// AboutPageSlug 是关于与政策页面的固定 slug。
const AboutPageSlug = "about-policies"

// Page represents a standalone content page such as About & Policies.
// The four policy sections are optional and rendered only when filled in.
type Page struct {
	gorm.Model
	Title         string `gorm:"size:200;uniqueIndex;not null"`
	Slug          string `gorm:"size:200;uniqueIndex;not null"`
	Content       string `gorm:"type:text"`
	Mission       string `gorm:"type:text"`
	Guidelines    string `gorm:"type:text"`
	PrivacyPolicy string `gorm:"type:text"`
	TermsOfUse    string `gorm:"type:text"`
}

func (p Page) String() string {
	return p.Title
}

// BeforeCreate 未填写 slug 时由标题生成。
func (p *Page) BeforeCreate(tx *gorm.DB) error {
	if strings.TrimSpace(p.Slug) != "" {
		return nil
	}
	generated, err := UniqueSlug(tx.Session(&gorm.Session{NewDB: true}), &Page{}, p.Title, "page")
	if err != nil {
		return err
	}
	p.Slug = generated
	return nil
}
