package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/youvshr/internal/authz"
	"github.com/youvshr/internal/db"
	"github.com/youvshr/internal/locale"
	"github.com/youvshr/internal/logger"
	"github.com/youvshr/internal/metrics"
	"github.com/youvshr/internal/service"
)

type storyForm struct {
	Title   string
	Content string
}

// ListStories 首页：按时间倒序展示全部故事
func (a *API) ListStories(c *gin.Context) {
	stories, err := a.stories.List()
	if err != nil {
		a.renderServerError(c, err)
		return
	}
	a.renderHTML(c, http.StatusOK, "index.html", gin.H{
		"title":   "Stories",
		"stories": stories,
	})
}

// loadStory 根据路由中的 slug 加载故事，不存在时直接渲染 404
func (a *API) loadStory(c *gin.Context) (*db.Story, bool) {
	story, err := a.stories.GetBySlug(c.Param("slug"))
	if err != nil {
		if errors.Is(err, service.ErrStoryNotFound) {
			a.renderNotFound(c)
			return nil, false
		}
		a.renderServerError(c, err)
		return nil, false
	}
	return story, true
}

func (a *API) renderStoryDetail(c *gin.Context, status int, story *db.Story, extra gin.H) {
	comments, err := a.comments.ListApproved(story.ID)
	if err != nil {
		a.renderServerError(c, err)
		return
	}

	actor := a.currentUser(c)
	data := gin.H{
		"title":        story.Title,
		"story":        story,
		"comments":     comments,
		"commentCount": len(comments),
		"canModify":    authz.CanModifyStory(actor, story) == authz.Allowed,
	}
	for key, value := range extra {
		data[key] = value
	}
	a.renderHTML(c, status, "story_detail.html", data)
}

// ShowStory 故事详情，只展示已审核的评论
func (a *API) ShowStory(c *gin.Context) {
	story, ok := a.loadStory(c)
	if !ok {
		return
	}
	a.renderStoryDetail(c, http.StatusOK, story, nil)
}

// AddComment 提交评论，新评论进入待审核状态
func (a *API) AddComment(c *gin.Context) {
	story, ok := a.loadStory(c)
	if !ok {
		return
	}
	actor := a.currentUser(c)
	if actor == nil {
		redirectWithFlash(c, loginURL(storyURL(story.Slug)), flashInfo, a.t(c, locale.MsgLoginRequired))
		return
	}

	content := c.PostForm("content")
	comment, err := a.comments.Create(story.ID, actor.ID, content)
	if err != nil {
		if verr, ok := service.AsValidationError(err); ok {
			a.renderStoryDetail(c, http.StatusOK, story, gin.H{
				"commentContent": strings.TrimSpace(content),
				"errors":         verr.Fields,
			})
			return
		}
		a.renderServerError(c, err)
		return
	}

	logger.Infow("comment submitted", "story", story.Slug, "comment_id", comment.ID, "user_id", actor.ID)
	redirectWithFlash(c, storyURL(story.Slug), flashSuccess, a.t(c, locale.MsgCommentSubmitted))
}

// ShowCreateStory 渲染新建故事表单
func (a *API) ShowCreateStory(c *gin.Context) {
	a.renderHTML(c, http.StatusOK, "story_form.html", gin.H{
		"title": "Share Your Story",
		"form":  storyForm{},
	})
}

// CreateStory 当前用户作为作者发布故事
func (a *API) CreateStory(c *gin.Context) {
	actor := a.currentUser(c)
	if actor == nil {
		redirectWithFlash(c, loginURL(c.Request.URL.RequestURI()), flashInfo, a.t(c, locale.MsgLoginRequired))
		return
	}

	form := storyForm{Title: c.PostForm("title"), Content: c.PostForm("content")}
	story, err := a.stories.Create(service.StoryInput{Title: form.Title, Content: form.Content}, actor.ID)
	if err != nil {
		if verr, ok := service.AsValidationError(err); ok {
			a.renderHTML(c, http.StatusOK, "story_form.html", gin.H{
				"title":  "Share Your Story",
				"form":   form,
				"errors": verr.Fields,
			})
			return
		}
		a.renderServerError(c, err)
		return
	}

	logger.Infow("story created", "story", story.Slug, "user_id", actor.ID)
	redirectWithFlash(c, storyURL(story.Slug), flashSuccess, a.t(c, locale.MsgStoryCreated))
}

// authorizeStory 非作者时记录并跳回故事详情，不做任何修改
func (a *API) authorizeStory(c *gin.Context, story *db.Story, deniedKey string) bool {
	actor := a.currentUser(c)
	if authz.CanModifyStory(actor, story) == authz.Allowed {
		return true
	}
	metrics.AuthzDenied.WithLabelValues("story").Inc()
	var actorID uint
	if actor != nil {
		actorID = actor.ID
	}
	logger.Warnw("forbidden story mutation", "story", story.Slug, "user_id", actorID, "method", c.Request.Method)
	redirectWithFlash(c, storyURL(story.Slug), flashError, a.t(c, deniedKey))
	return false
}

// ShowEditStory 渲染编辑表单，仅作者可见
func (a *API) ShowEditStory(c *gin.Context) {
	story, ok := a.loadStory(c)
	if !ok || !a.authorizeStory(c, story, locale.MsgStoryEditDenied) {
		return
	}
	a.renderHTML(c, http.StatusOK, "story_form.html", gin.H{
		"title": "Edit Story",
		"story": story,
		"form":  storyForm{Title: story.Title, Content: story.Content},
	})
}

// UpdateStory 保存作者对故事的修改
func (a *API) UpdateStory(c *gin.Context) {
	story, ok := a.loadStory(c)
	if !ok || !a.authorizeStory(c, story, locale.MsgStoryEditDenied) {
		return
	}

	form := storyForm{Title: c.PostForm("title"), Content: c.PostForm("content")}
	if _, err := a.stories.Update(story, service.StoryInput{Title: form.Title, Content: form.Content}); err != nil {
		if verr, ok := service.AsValidationError(err); ok {
			a.renderHTML(c, http.StatusOK, "story_form.html", gin.H{
				"title":  "Edit Story",
				"story":  story,
				"form":   form,
				"errors": verr.Fields,
			})
			return
		}
		a.renderServerError(c, err)
		return
	}

	redirectWithFlash(c, storyURL(story.Slug), flashSuccess, a.t(c, locale.MsgStoryUpdated))
}

// ShowDeleteStory 渲染删除确认页
func (a *API) ShowDeleteStory(c *gin.Context) {
	story, ok := a.loadStory(c)
	if !ok || !a.authorizeStory(c, story, locale.MsgStoryDeleteDenied) {
		return
	}
	a.renderHTML(c, http.StatusOK, "story_confirm_delete.html", gin.H{
		"title": "Delete Story",
		"story": story,
	})
}

// DeleteStory 删除故事及其评论
func (a *API) DeleteStory(c *gin.Context) {
	story, ok := a.loadStory(c)
	if !ok || !a.authorizeStory(c, story, locale.MsgStoryDeleteDenied) {
		return
	}
	if err := a.stories.Delete(story); err != nil {
		a.renderServerError(c, err)
		return
	}

	logger.Infow("story deleted", "story", story.Slug, "user_id", story.AuthorID)
	redirectWithFlash(c, "/", flashSuccess, a.t(c, locale.MsgStoryDeleted))
}
