package service

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/youvshr/internal/db"
	"gorm.io/gorm"
)

const (
	maxStoryTitleLength = 200
	// 并发创建同名故事时，重新生成 slug 的次数上限
	maxSlugAttempts = 3
)

const msgStorySlugExists = "Story with this Slug already exists."

// StoryInput 是创建或编辑故事时提交的表单字段
type StoryInput struct {
	Title   string
	Content string
	Slug    string
}

// StoryService 负责故事的增删改查
type StoryService struct {
	db *gorm.DB
}

// NewStoryService 创建故事服务
func NewStoryService(gdb *gorm.DB) *StoryService {
	return &StoryService{db: gdb}
}

// List 按发布时间倒序返回全部故事
func (s *StoryService) List() ([]db.Story, error) {
	var stories []db.Story
	if err := s.db.Preload("Author").Order("created_at DESC").Order("id DESC").Find(&stories).Error; err != nil {
		return nil, err
	}
	return stories, nil
}

// GetBySlug 根据 slug 获取故事
func (s *StoryService) GetBySlug(slug string) (*db.Story, error) {
	var story db.Story
	if err := s.db.Preload("Author").Where("slug = ?", strings.TrimSpace(slug)).First(&story).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStoryNotFound
		}
		return nil, err
	}
	return &story, nil
}

// Create 以 authorID 为作者创建故事，未提供 slug 时由标题生成。
func (s *StoryService) Create(input StoryInput, authorID uint) (*db.Story, error) {
	title, content, verr := validateStoryInput(input)

	slug := ""
	if raw := strings.TrimSpace(input.Slug); raw != "" {
		slug = db.Slugify(raw)
		if slug == "" {
			verr.add("slug", "Enter a valid slug consisting of letters, numbers, underscores or hyphens.")
		} else if db.IsReservedSlug(slug) {
			verr.add("slug", fmt.Sprintf("%q is reserved and cannot be used as a slug.", slug))
		} else {
			var count int64
			if err := s.db.Unscoped().Model(&db.Story{}).Where("slug = ?", slug).Count(&count).Error; err != nil {
				return nil, err
			}
			if count > 0 {
				verr.add("slug", msgStorySlugExists)
			}
		}
	}
	if authorID == 0 {
		return nil, errors.New("story author is required")
	}
	if err := verr.err(); err != nil {
		return nil, err
	}

	// 唯一性检查与插入之间可能被并发请求抢占 slug：
	// 自动生成的 slug 重新计算，显式 slug 返回字段错误。
	for attempt := 1; ; attempt++ {
		story := db.Story{
			Title:    title,
			Slug:     slug,
			Content:  content,
			AuthorID: authorID,
		}
		err := s.db.Create(&story).Error
		if err == nil {
			return s.GetBySlug(story.Slug)
		}
		if !db.IsDuplicateKey(err) {
			return nil, fmt.Errorf("create story: %w", err)
		}
		if slug != "" {
			return nil, &ValidationError{Fields: map[string]string{"slug": msgStorySlugExists}}
		}
		if attempt >= maxSlugAttempts {
			return nil, fmt.Errorf("create story: slug still taken after %d attempts: %w", attempt, err)
		}
	}
}

// Update 修改标题与正文，slug 保持不变
func (s *StoryService) Update(story *db.Story, input StoryInput) (*db.Story, error) {
	if story == nil || story.ID == 0 {
		return nil, ErrStoryNotFound
	}
	title, content, verr := validateStoryInput(input)
	if err := verr.err(); err != nil {
		return nil, err
	}

	result := s.db.Model(&db.Story{}).Where("id = ?", story.ID).Updates(map[string]interface{}{
		"title":   title,
		"content": content,
	})
	if result.Error != nil {
		return nil, fmt.Errorf("update story: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, ErrStoryNotFound
	}

	story.Title = title
	story.Content = content
	return story, nil
}

// Delete 删除故事并级联删除其全部评论
func (s *StoryService) Delete(story *db.Story) error {
	if story == nil || story.ID == 0 {
		return ErrStoryNotFound
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("story_id = ?", story.ID).Delete(&db.Comment{}).Error; err != nil {
			return err
		}
		result := tx.Unscoped().Delete(&db.Story{}, story.ID)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrStoryNotFound
		}
		return nil
	})
}

func validateStoryInput(input StoryInput) (string, string, *ValidationError) {
	verr := &ValidationError{}
	title := strings.TrimSpace(input.Title)
	content := strings.TrimSpace(input.Content)

	if title == "" {
		verr.add("title", "This field is required.")
	} else if utf8.RuneCountInString(title) > maxStoryTitleLength {
		verr.add("title", fmt.Sprintf("Ensure this value has at most %d characters.", maxStoryTitleLength))
	}
	if content == "" {
		verr.add("content", "This field is required.")
	}
	return title, content, verr
}
