package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/youvshr/internal/locale"
	"github.com/youvshr/internal/logger"
	"github.com/youvshr/internal/metrics"
)

const moderationPath = "/admin/comments/"

// ModeratorRequired 需要登录且拥有审核权限：staff 用户直接放行，其余用户交由 casbin 判定。
func (a *API) ModeratorRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := a.currentUser(c)
		if actor == nil {
			redirectWithFlash(c, loginURL(c.Request.URL.RequestURI()), flashInfo, a.t(c, locale.MsgLoginRequired))
			return
		}
		if actor.IsStaff {
			c.Next()
			return
		}

		if a.authz != nil {
			allowed, err := a.authz.EnforceUser(actor.ID, c.Request.URL.Path, c.Request.Method)
			if err != nil {
				a.renderServerError(c, err)
				return
			}
			if allowed {
				c.Next()
				return
			}
		}

		metrics.AuthzDenied.WithLabelValues("moderation").Inc()
		logger.Warnw("moderation access denied", "user_id", actor.ID, "path", c.Request.URL.Path)
		redirectWithFlash(c, "/", flashError, a.t(c, locale.MsgModeratorRequired))
	}
}

// ShowPendingComments 审核队列
func (a *API) ShowPendingComments(c *gin.Context) {
	comments, err := a.comments.ListPending()
	if err != nil {
		a.renderServerError(c, err)
		return
	}
	a.renderHTML(c, http.StatusOK, "admin_comments.html", gin.H{
		"title":    "Pending Comments",
		"comments": comments,
	})
}

// ApproveComments 批量通过选中的评论
func (a *API) ApproveComments(c *gin.Context) {
	ids := parseUintQuerySlice(c.PostFormArray("ids"))
	if len(ids) == 0 {
		redirectWithFlash(c, moderationPath, flashInfo, a.t(c, locale.MsgNoCommentsSelected))
		return
	}

	count, err := a.comments.Approve(ids)
	if err != nil {
		a.renderServerError(c, err)
		return
	}

	var moderatorID uint
	if actor := a.currentUser(c); actor != nil {
		moderatorID = actor.ID
	}
	logger.Infow("comments approved", "count", count, "requested", len(ids), "moderator_id", moderatorID)
	redirectWithFlash(c, moderationPath, flashSuccess, a.t(c, locale.MsgCommentsApproved, count))
}
