package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/youvshr/internal/authz"
	"github.com/youvshr/internal/db"
	"github.com/youvshr/internal/locale"
	"github.com/youvshr/internal/logger"
	"github.com/youvshr/internal/metrics"
	"github.com/youvshr/internal/service"
)

func (a *API) loadComment(c *gin.Context) (*db.Comment, bool) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		a.renderNotFound(c)
		return nil, false
	}
	comment, err := a.comments.Get(id)
	if err != nil {
		if errors.Is(err, service.ErrCommentNotFound) {
			a.renderNotFound(c)
			return nil, false
		}
		a.renderServerError(c, err)
		return nil, false
	}
	return comment, true
}

func (a *API) authorizeComment(c *gin.Context, comment *db.Comment, deniedKey string) bool {
	actor := a.currentUser(c)
	if authz.CanModifyComment(actor, comment) == authz.Allowed {
		return true
	}
	metrics.AuthzDenied.WithLabelValues("comment").Inc()
	var actorID uint
	if actor != nil {
		actorID = actor.ID
	}
	logger.Warnw("forbidden comment mutation", "comment_id", comment.ID, "user_id", actorID, "method", c.Request.Method)
	redirectWithFlash(c, storyURL(comment.Story.Slug), flashError, a.t(c, deniedKey))
	return false
}

// ShowEditComment 渲染评论编辑表单
func (a *API) ShowEditComment(c *gin.Context) {
	comment, ok := a.loadComment(c)
	if !ok || !a.authorizeComment(c, comment, locale.MsgCommentEditDenied) {
		return
	}
	a.renderHTML(c, http.StatusOK, "comment_form.html", gin.H{
		"title":   "Edit Comment",
		"comment": comment,
		"story":   &comment.Story,
		"content": comment.Content,
	})
}

// UpdateComment 保存修改，评论重新进入待审核
func (a *API) UpdateComment(c *gin.Context) {
	comment, ok := a.loadComment(c)
	if !ok || !a.authorizeComment(c, comment, locale.MsgCommentEditDenied) {
		return
	}

	content := c.PostForm("content")
	if _, err := a.comments.Update(comment, content); err != nil {
		if verr, ok := service.AsValidationError(err); ok {
			a.renderHTML(c, http.StatusOK, "comment_form.html", gin.H{
				"title":   "Edit Comment",
				"comment": comment,
				"story":   &comment.Story,
				"content": content,
				"errors":  verr.Fields,
			})
			return
		}
		a.renderServerError(c, err)
		return
	}

	logger.Infow("comment edited, pending review", "comment_id", comment.ID, "story", comment.Story.Slug)
	redirectWithFlash(c, storyURL(comment.Story.Slug), flashSuccess, a.t(c, locale.MsgCommentUpdated))
}

// ShowDeleteComment 渲染评论删除确认页
func (a *API) ShowDeleteComment(c *gin.Context) {
	comment, ok := a.loadComment(c)
	if !ok || !a.authorizeComment(c, comment, locale.MsgCommentDeleteDenied) {
		return
	}
	a.renderHTML(c, http.StatusOK, "comment_confirm_delete.html", gin.H{
		"title":   "Delete Comment",
		"comment": comment,
		"story":   &comment.Story,
	})
}

// DeleteComment 删除评论
func (a *API) DeleteComment(c *gin.Context) {
	comment, ok := a.loadComment(c)
	if !ok || !a.authorizeComment(c, comment, locale.MsgCommentDeleteDenied) {
		return
	}
	if err := a.comments.Delete(comment); err != nil {
		a.renderServerError(c, err)
		return
	}
	redirectWithFlash(c, storyURL(comment.Story.Slug), flashSuccess, a.t(c, locale.MsgCommentDeleted))
}
