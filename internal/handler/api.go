package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/youvshr/internal/authz"
	"github.com/youvshr/internal/db"
	"github.com/youvshr/internal/locale"
	"github.com/youvshr/internal/logger"
	"github.com/youvshr/internal/service"
	"gorm.io/gorm"
)

const defaultSiteName = "You VS HR"

// Options 构造 API 时的可选依赖
type Options struct {
	SiteName string
	// Authz 为空时仅 IsStaff 用户可以进入审核后台
	Authz *authz.Service
}

// API bundles shared dependencies for HTTP handlers.
type API struct {
	stories   *service.StoryService
	comments  *service.CommentService
	pages     *service.PageService
	resources *service.ResourceService
	users     *service.UserService
	authz     *authz.Service
	siteName  string
}

// NewAPI constructs a handler set with shared services.
func NewAPI(gdb *gorm.DB, opts Options) *API {
	name := strings.TrimSpace(opts.SiteName)
	if name == "" {
		name = defaultSiteName
	}

	return &API{
		stories:   service.NewStoryService(gdb),
		comments:  service.NewCommentService(gdb),
		pages:     service.NewPageService(gdb),
		resources: service.NewResourceService(gdb),
		users:     service.NewUserService(gdb),
		authz:     opts.Authz,
		siteName:  name,
	}
}

func (a *API) language(c *gin.Context) string {
	if lang := locale.LanguageFromAcceptLanguage(c.GetHeader("Accept-Language")); lang != "" {
		return lang
	}
	return locale.LanguageEnglish
}

func (a *API) t(c *gin.Context, key string, args ...interface{}) string {
	return locale.T(a.language(c), key, args...)
}

func (a *API) renderHTML(c *gin.Context, status int, template string, data gin.H) {
	payload := gin.H{}
	for key, value := range data {
		payload[key] = value
	}

	lang := a.language(c)
	pref := locale.PreferenceForLanguage(lang)

	if _, exists := payload["site"]; !exists {
		payload["site"] = gin.H{"name": a.siteName}
	}
	if _, exists := payload["siteName"]; !exists {
		payload["siteName"] = a.siteName
	}
	actor := a.currentUser(c)
	if _, exists := payload["currentUser"]; !exists {
		payload["currentUser"] = actor
	}
	payload["canModerate"] = a.canModerate(actor)
	if _, exists := payload["flashes"]; !exists {
		payload["flashes"] = popFlashes(c)
	}
	payload["lang"] = pref.Language
	payload["htmlLang"] = pref.HTMLLang

	c.HTML(status, template, payload)
}

// canModerate 决定是否在导航中展示审核入口：管理员或拥有审核员角色的用户
func (a *API) canModerate(actor *db.User) bool {
	if actor == nil {
		return false
	}
	if actor.IsStaff {
		return true
	}
	if a.authz == nil {
		return false
	}
	ok, err := a.authz.IsModerator(actor.ID)
	if err != nil {
		logger.Warnw("moderator lookup failed", "user_id", actor.ID, "error", err)
		return false
	}
	return ok
}

func (a *API) renderNotFound(c *gin.Context) {
	a.renderHTML(c, http.StatusNotFound, "error.html", gin.H{
		"title":   "Page not found",
		"status":  http.StatusNotFound,
		"message": "The page you requested could not be found.",
	})
	c.Abort()
}

func (a *API) renderServerError(c *gin.Context, err error) {
	c.Error(err)
	logger.Errorw("request failed", "path", c.Request.URL.Path, "error", err)
	a.renderHTML(c, http.StatusInternalServerError, "error.html", gin.H{
		"title":   "Server error",
		"status":  http.StatusInternalServerError,
		"message": "Something went wrong. Please try again later.",
	})
	c.Abort()
}

// NotFound 用作路由未命中时的兜底处理
func (a *API) NotFound(c *gin.Context) {
	a.renderNotFound(c)
}
