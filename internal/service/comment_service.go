package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/youvshr/internal/db"
	"github.com/youvshr/internal/metrics"
	"gorm.io/gorm"
)

// CommentService 管理评论及其审核状态。新建或编辑后的评论一律处于待审核状态。
type CommentService struct {
	db *gorm.DB
}

// NewCommentService 创建评论服务
func NewCommentService(gdb *gorm.DB) *CommentService {
	return &CommentService{db: gdb}
}

// Get 根据 ID 获取评论，同时加载所属故事与作者
func (s *CommentService) Get(id uint) (*db.Comment, error) {
	var comment db.Comment
	if err := s.db.Preload("Story").Preload("Author").First(&comment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCommentNotFound
		}
		return nil, err
	}
	return &comment, nil
}

// Create 提交评论，审核状态始终由服务端置为未通过
func (s *CommentService) Create(storyID, authorID uint, content string) (*db.Comment, error) {
	trimmed, err := validateCommentContent(content)
	if err != nil {
		return nil, err
	}

	var count int64
	if err := s.db.Model(&db.Story{}).Where("id = ?", storyID).Count(&count).Error; err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, ErrStoryNotFound
	}

	comment := db.Comment{
		StoryID:  storyID,
		AuthorID: authorID,
		Content:  trimmed,
		Approved: false,
	}
	if err := s.db.Create(&comment).Error; err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}
	metrics.CommentsSubmitted.Inc()
	return &comment, nil
}

// ListApproved 返回故事下已审核的评论，最新的在前
func (s *CommentService) ListApproved(storyID uint) ([]db.Comment, error) {
	var comments []db.Comment
	err := s.db.Preload("Author").
		Where("story_id = ? AND approved = ?", storyID, true).
		Order("created_at DESC").
		Order("id DESC").
		Find(&comments).Error
	if err != nil {
		return nil, err
	}
	return comments, nil
}

// CountApproved 统计故事下已审核的评论数量
func (s *CommentService) CountApproved(storyID uint) (int64, error) {
	var count int64
	if err := s.db.Model(&db.Comment{}).Where("story_id = ? AND approved = ?", storyID, true).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Update 修改评论内容并重新进入审核
func (s *CommentService) Update(comment *db.Comment, content string) (*db.Comment, error) {
	if comment == nil || comment.ID == 0 {
		return nil, ErrCommentNotFound
	}
	trimmed, err := validateCommentContent(content)
	if err != nil {
		return nil, err
	}

	result := s.db.Model(&db.Comment{}).Where("id = ?", comment.ID).Updates(map[string]interface{}{
		"content":  trimmed,
		"approved": false,
	})
	if result.Error != nil {
		return nil, fmt.Errorf("update comment: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, ErrCommentNotFound
	}

	comment.Content = trimmed
	comment.Approved = false
	metrics.CommentsSubmitted.Inc()
	return comment, nil
}

// Delete 删除评论
func (s *CommentService) Delete(comment *db.Comment) error {
	if comment == nil || comment.ID == 0 {
		return ErrCommentNotFound
	}
	result := s.db.Unscoped().Delete(&db.Comment{}, comment.ID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrCommentNotFound
	}
	return nil
}

// ListPending 返回待审核评论，按提交时间先后排列
func (s *CommentService) ListPending() ([]db.Comment, error) {
	var comments []db.Comment
	err := s.db.Preload("Story").Preload("Author").
		Where("approved = ?", false).
		Order("created_at ASC").
		Order("id ASC").
		Find(&comments).Error
	if err != nil {
		return nil, err
	}
	return comments, nil
}

// Approve 以单条 UPDATE 批量通过评论，返回实际由待审核变为通过的数量。
// 已通过或不存在的 ID 不计入。
func (s *CommentService) Approve(ids []uint) (int64, error) {
	ids = uniqueIDs(ids)
	if len(ids) == 0 {
		return 0, nil
	}

	result := s.db.Model(&db.Comment{}).
		Where("id IN ? AND approved = ?", ids, false).
		Update("approved", true)
	if result.Error != nil {
		return 0, fmt.Errorf("approve comments: %w", result.Error)
	}
	metrics.CommentsApproved.Add(float64(result.RowsAffected))
	return result.RowsAffected, nil
}

// ApprovedMessage 生成批量审核后的提示文案
func ApprovedMessage(count int64) string {
	return fmt.Sprintf("%d comment(s) approved successfully.", count)
}

func validateCommentContent(content string) (string, error) {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		verr := &ValidationError{}
		verr.add("content", "This field is required.")
		return "", verr
	}
	return trimmed, nil
}

func uniqueIDs(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	result := make([]uint, 0, len(ids))
	for _, id := range ids {
		if id == 0 {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		result = append(result, id)
	}
	return result
}
