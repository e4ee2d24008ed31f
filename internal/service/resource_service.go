package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/asaskevich/govalidator"
	"github.com/youvshr/internal/db"
	"gorm.io/gorm"
)

// CategoryInput 描述资源分类的可编辑字段
type CategoryInput struct {
	Name      string
	SortOrder int
	Icon      string
}

// ResourceInput 描述单条资源的可编辑字段，Active 为 nil 时默认启用
type ResourceInput struct {
	CategoryID  uint
	Title       string
	URL         string
	Description string
	SortOrder   int
	Active      *bool
}

// ResourceService 管理资源目录
type ResourceService struct {
	db *gorm.DB
}

// NewResourceService 创建资源目录服务
func NewResourceService(gdb *gorm.DB) *ResourceService {
	return &ResourceService{db: gdb}
}

// Directory 返回至少包含一条启用资源的分类，分类按 (排序, 名称)，资源按 (排序, 标题) 排列。
// 停用的资源不会出现在结果中。
func (s *ResourceService) Directory() ([]db.ResourceCategory, error) {
	var categories []db.ResourceCategory
	err := s.db.
		Where("EXISTS (SELECT 1 FROM resources WHERE resources.category_id = resource_categories.id AND resources.active = ? AND resources.deleted_at IS NULL)", true).
		Preload("Resources", func(tx *gorm.DB) *gorm.DB {
			return tx.Where("active = ?", true).Order("sort_order ASC").Order("title ASC")
		}).
		Order("sort_order ASC").
		Order("name ASC").
		Find(&categories).Error
	if err != nil {
		return nil, err
	}
	return categories, nil
}

// CreateCategory 新建资源分类
func (s *ResourceService) CreateCategory(input CategoryInput) (*db.ResourceCategory, error) {
	name := strings.TrimSpace(input.Name)
	verr := &ValidationError{}
	if name == "" {
		verr.add("name", "This field is required.")
	} else if len([]rune(name)) > 100 {
		verr.add("name", "Ensure this value has at most 100 characters.")
	} else {
		var count int64
		if err := s.db.Model(&db.ResourceCategory{}).Where("name = ?", name).Count(&count).Error; err != nil {
			return nil, err
		}
		if count > 0 {
			verr.add("name", "Resource category with this Name already exists.")
		}
	}
	if err := verr.err(); err != nil {
		return nil, err
	}

	category := db.ResourceCategory{
		Name:      name,
		SortOrder: input.SortOrder,
		Icon:      strings.TrimSpace(input.Icon),
	}
	if err := s.db.Create(&category).Error; err != nil {
		return nil, fmt.Errorf("create resource category: %w", err)
	}
	return &category, nil
}

// DeleteCategory 删除分类并级联删除其下全部资源
func (s *ResourceService) DeleteCategory(id uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("category_id = ?", id).Delete(&db.Resource{}).Error; err != nil {
			return err
		}
		result := tx.Unscoped().Delete(&db.ResourceCategory{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrCategoryNotFound
		}
		return nil
	})
}

// CreateResource 在指定分类下新增资源
func (s *ResourceService) CreateResource(input ResourceInput) (*db.Resource, error) {
	title := strings.TrimSpace(input.Title)
	link := strings.TrimSpace(input.URL)

	verr := &ValidationError{}
	if title == "" {
		verr.add("title", "This field is required.")
	}
	if link == "" {
		verr.add("url", "This field is required.")
	} else if !isAbsoluteURL(link) {
		verr.add("url", "Enter a valid URL.")
	}
	if err := verr.err(); err != nil {
		return nil, err
	}

	var category db.ResourceCategory
	if err := s.db.First(&category, input.CategoryID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}

	active := true
	if input.Active != nil {
		active = *input.Active
	}

	resource := db.Resource{
		CategoryID:  category.ID,
		Title:       title,
		URL:         link,
		Description: strings.TrimSpace(input.Description),
		SortOrder:   input.SortOrder,
		Active:      active,
	}
	if err := s.db.Create(&resource).Error; err != nil {
		return nil, fmt.Errorf("create resource: %w", err)
	}
	resource.Category = category
	return &resource, nil
}

// SetResourceActive 启用或停用资源
func (s *ResourceService) SetResourceActive(id uint, active bool) error {
	result := s.db.Model(&db.Resource{}).Where("id = ?", id).Update("active", active)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrResourceNotFound
	}
	return nil
}

func isAbsoluteURL(raw string) bool {
	if !govalidator.IsURL(raw) {
		return false
	}
	lower := strings.ToLower(raw)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}
