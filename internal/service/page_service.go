package service

import (
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/youvshr/internal/db"
	"gorm.io/gorm"
)

// PageInput 描述后台编辑页面时提交的字段
type PageInput struct {
	Title         string
	Slug          string
	Content       string
	Mission       string
	Guidelines    string
	PrivacyPolicy string
	TermsOfUse    string
}

// PageService provides access to static pages such as About & Policies.
type PageService struct {
	db *gorm.DB
}

// NewPageService returns a new PageService instance.
func NewPageService(gdb *gorm.DB) *PageService {
	return &PageService{db: gdb}
}

// GetBySlug fetches a page for a given slug.
func (s *PageService) GetBySlug(slug string) (*db.Page, error) {
	var page db.Page
	if err := s.db.Where("slug = ?", strings.TrimSpace(slug)).First(&page).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPageNotFound
		}
		return nil, err
	}
	return &page, nil
}

// Save creates or updates a page keyed by slug. An empty slug is derived from the title.
func (s *PageService) Save(input PageInput) (*db.Page, error) {
	title := strings.TrimSpace(input.Title)
	verr := &ValidationError{}
	if title == "" {
		verr.add("title", "This field is required.")
	} else if utf8.RuneCountInString(title) > 200 {
		verr.add("title", "Ensure this value has at most 200 characters.")
	}

	slug := db.Slugify(input.Slug)
	if slug == "" {
		slug = db.Slugify(title)
	}
	if slug == "" && title != "" {
		verr.add("slug", "Enter a valid slug consisting of letters, numbers, underscores or hyphens.")
	}
	if title != "" && slug != "" {
		var count int64
		if err := s.db.Model(&db.Page{}).Where("title = ? AND slug <> ?", title, slug).Count(&count).Error; err != nil {
			return nil, err
		}
		if count > 0 {
			verr.add("title", "Page with this Title already exists.")
		}
	}
	if err := verr.err(); err != nil {
		return nil, err
	}

	var page db.Page
	err := s.db.Where("slug = ?", slug).First(&page).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	page.Title = title
	page.Slug = slug
	page.Content = strings.TrimSpace(input.Content)
	page.Mission = strings.TrimSpace(input.Mission)
	page.Guidelines = strings.TrimSpace(input.Guidelines)
	page.PrivacyPolicy = strings.TrimSpace(input.PrivacyPolicy)
	page.TermsOfUse = strings.TrimSpace(input.TermsOfUse)

	if err := s.db.Save(&page).Error; err != nil {
		return nil, err
	}
	return &page, nil
}
