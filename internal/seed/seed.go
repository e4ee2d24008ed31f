package seed

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/youvshr/internal/db"
	"github.com/youvshr/internal/logger"
	"github.com/youvshr/internal/service"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
)

//go:embed default.yml
var defaultFixtures []byte

// Fixtures 是 YAML 种子文件的结构
type Fixtures struct {
	Pages      []PageFixture     `yaml:"pages"`
	Categories []CategoryFixture `yaml:"categories"`
}

type PageFixture struct {
	Title         string `yaml:"title"`
	Slug          string `yaml:"slug"`
	Content       string `yaml:"content"`
	Mission       string `yaml:"mission"`
	Guidelines    string `yaml:"guidelines"`
	PrivacyPolicy string `yaml:"privacy_policy"`
	TermsOfUse    string `yaml:"terms_of_use"`
}

type CategoryFixture struct {
	Name      string            `yaml:"name"`
	Icon      string            `yaml:"icon"`
	SortOrder int               `yaml:"sort_order"`
	Resources []ResourceFixture `yaml:"resources"`
}

type ResourceFixture struct {
	Title       string `yaml:"title"`
	URL         string `yaml:"url"`
	Description string `yaml:"description"`
	SortOrder   int    `yaml:"sort_order"`
	// Active 缺省时视为启用
	Active *bool `yaml:"active"`
}

// Result 统计一次导入新建与更新的条数
type Result struct {
	PagesSaved        int
	CategoriesCreated int
	CategoriesUpdated int
	ResourcesCreated  int
	ResourcesUpdated  int
}

func (r Result) String() string {
	return fmt.Sprintf("pages saved: %d, categories created: %d, updated: %d, resources created: %d, updated: %d",
		r.PagesSaved, r.CategoriesCreated, r.CategoriesUpdated, r.ResourcesCreated, r.ResourcesUpdated)
}

// Default 返回内置的示例数据
func Default() (*Fixtures, error) {
	return Parse(defaultFixtures)
}

// LoadFile 读取并解析 YAML 种子文件
func LoadFile(path string) (*Fixtures, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixtures: %w", err)
	}
	return Parse(data)
}

// Parse 解析 YAML 内容
func Parse(data []byte) (*Fixtures, error) {
	var fixtures Fixtures
	if err := yaml.Unmarshal(data, &fixtures); err != nil {
		return nil, fmt.Errorf("parse fixtures: %w", err)
	}
	return &fixtures, nil
}

// Apply 在一个事务中按名称（页面按 slug）写入或更新种子数据，重复执行结果一致。
func Apply(gdb *gorm.DB, fixtures *Fixtures) (Result, error) {
	var result Result
	if gdb == nil {
		return result, errors.New("database not initialized")
	}
	if fixtures == nil {
		return result, nil
	}

	err := gdb.Transaction(func(tx *gorm.DB) error {
		pages := service.NewPageService(tx)
		for _, fixture := range fixtures.Pages {
			if _, err := pages.Save(service.PageInput{
				Title:         fixture.Title,
				Slug:          fixture.Slug,
				Content:       fixture.Content,
				Mission:       fixture.Mission,
				Guidelines:    fixture.Guidelines,
				PrivacyPolicy: fixture.PrivacyPolicy,
				TermsOfUse:    fixture.TermsOfUse,
			}); err != nil {
				return fmt.Errorf("page %q: %w", fixture.Title, err)
			}
			result.PagesSaved++
		}

		resources := service.NewResourceService(tx)
		for _, fixture := range fixtures.Categories {
			category, created, err := upsertCategory(tx, resources, fixture)
			if err != nil {
				return fmt.Errorf("category %q: %w", fixture.Name, err)
			}
			if created {
				result.CategoriesCreated++
			} else {
				result.CategoriesUpdated++
			}

			for _, item := range fixture.Resources {
				created, err := upsertResource(tx, resources, category.ID, item)
				if err != nil {
					return fmt.Errorf("resource %q: %w", item.Title, err)
				}
				if created {
					result.ResourcesCreated++
				} else {
					result.ResourcesUpdated++
				}
			}
		}
		return nil
	})
	if err != nil {
		return Result{}, err
	}

	logger.Infow("fixtures applied",
		"pages", result.PagesSaved,
		"categories_created", result.CategoriesCreated,
		"resources_created", result.ResourcesCreated,
	)
	return result, nil
}

func upsertCategory(tx *gorm.DB, resources *service.ResourceService, fixture CategoryFixture) (*db.ResourceCategory, bool, error) {
	name := strings.TrimSpace(fixture.Name)

	var existing db.ResourceCategory
	err := tx.Where("name = ?", name).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		category, err := resources.CreateCategory(service.CategoryInput{
			Name:      name,
			SortOrder: fixture.SortOrder,
			Icon:      fixture.Icon,
		})
		return category, true, err
	}
	if err != nil {
		return nil, false, err
	}

	err = tx.Model(&existing).Updates(map[string]interface{}{
		"sort_order": fixture.SortOrder,
		"icon":       strings.TrimSpace(fixture.Icon),
	}).Error
	return &existing, false, err
}

func upsertResource(tx *gorm.DB, resources *service.ResourceService, categoryID uint, fixture ResourceFixture) (bool, error) {
	title := strings.TrimSpace(fixture.Title)

	var existing db.Resource
	err := tx.Where("category_id = ? AND title = ?", categoryID, title).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		_, err := resources.CreateResource(service.ResourceInput{
			CategoryID:  categoryID,
			Title:       title,
			URL:         fixture.URL,
			Description: fixture.Description,
			SortOrder:   fixture.SortOrder,
			Active:      fixture.Active,
		})
		return true, err
	}
	if err != nil {
		return false, err
	}

	active := true
	if fixture.Active != nil {
		active = *fixture.Active
	}
	err = tx.Model(&existing).Updates(map[string]interface{}{
		"url":         strings.TrimSpace(fixture.URL),
		"description": strings.TrimSpace(fixture.Description),
		"sort_order":  fixture.SortOrder,
	}).Error
	if err != nil {
		return false, err
	}
	return false, resources.SetResourceActive(existing.ID, active)
}
