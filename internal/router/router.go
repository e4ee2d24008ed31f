package router

import (
	"net/http"
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/youvshr/internal/authz"
	"github.com/youvshr/internal/config"
	"github.com/youvshr/internal/handler"
	"github.com/youvshr/internal/logger"
	"github.com/youvshr/internal/metrics"
	"github.com/youvshr/internal/view"
	"gorm.io/gorm"
)

// Options 组装路由所需的配置与依赖
type Options struct {
	SessionName   string
	SessionSecret string
	SessionMaxAge int
	SessionSecure bool
	SiteName      string
	// TemplateGlob 为空时不加载模板，测试可自行设置 HTMLRender
	TemplateGlob string
	StaticDir    string
	Redis        *redis.Client
	RateLimit    RateLimitRule
	Authz        *authz.Service
}

// OptionsFromConfig 从应用配置生成路由参数
func OptionsFromConfig(cfg config.AppConfig) Options {
	return Options{
		SessionName:   cfg.Session.Name,
		SessionSecret: cfg.Session.Secret,
		SessionMaxAge: cfg.Session.MaxAgeSeconds,
		SessionSecure: cfg.Session.Secure,
		SiteName:      cfg.SiteName,
		TemplateGlob:  cfg.TemplateGlob,
		StaticDir:     cfg.StaticDir,
		RateLimit: RateLimitRule{
			WindowSeconds: cfg.RateLimit.WindowSeconds,
			MaxRequests:   cfg.RateLimit.MaxRequests,
		},
	}
}

// SetupRouter 配置 Gin 引擎和路由
func SetupRouter(gdb *gorm.DB, opts Options) *gin.Engine {
	r := gin.New()
	r.Use(RequestIDMiddleware(), LoggerMiddleware(logger.Z()), MetricsMiddleware(), gin.Recovery())

	// 配置会话中间件
	sessionName := strings.TrimSpace(opts.SessionName)
	if sessionName == "" {
		sessionName = "youvshr_session"
	}
	store := cookie.NewStore([]byte(opts.SessionSecret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   opts.SessionMaxAge,
		HttpOnly: true,
		Secure:   opts.SessionSecure,
		SameSite: http.SameSiteLaxMode,
	})
	r.Use(sessions.Sessions(sessionName, store))

	// 加载模板并添加自定义函数
	r.SetFuncMap(view.FuncMap())
	if glob := strings.TrimSpace(opts.TemplateGlob); glob != "" {
		r.LoadHTMLGlob(glob)
	}

	// 静态文件服务
	if dir := strings.TrimSpace(opts.StaticDir); dir != "" {
		r.Static("/static", dir)
	}

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	api := handler.NewAPI(gdb, handler.Options{SiteName: opts.SiteName, Authz: opts.Authz})
	r.NoRoute(api.CurrentUser(), api.NotFound)

	loginLimit := RateLimitMiddleware(opts.Redis, ruleWithPrefix(opts.RateLimit, "rl:login"), KeyByIPAndFormField("username"))
	registerLimit := RateLimitMiddleware(opts.Redis, ruleWithPrefix(opts.RateLimit, "rl:register"), KeyByIP)
	commentLimit := RateLimitMiddleware(opts.Redis, ruleWithPrefix(opts.RateLimit, "rl:comment"), KeyByIP)

	site := r.Group("")
	site.Use(api.CurrentUser())
	{
		site.GET("/", api.ListStories)
		site.GET("/about/", api.ShowAbout)
		site.GET("/resources/", api.ShowResources)

		site.GET("/register/", api.ShowRegister)
		site.POST("/register/", registerLimit, api.Register)
		site.GET("/login/", api.ShowLogin)
		site.POST("/login/", loginLimit, api.Login)
		site.POST("/logout/", api.Logout)

		site.GET("/story/:slug/", api.ShowStory)
		site.POST("/story/:slug/", api.AuthRequired(), commentLimit, api.AddComment)

		// 需要登录的路由
		auth := site.Group("")
		auth.Use(api.AuthRequired())
		{
			auth.GET("/story/create/", api.ShowCreateStory)
			auth.POST("/story/create/", api.CreateStory)
			auth.GET("/story/:slug/edit/", api.ShowEditStory)
			auth.POST("/story/:slug/edit/", api.UpdateStory)
			auth.GET("/story/:slug/delete/", api.ShowDeleteStory)
			auth.POST("/story/:slug/delete/", api.DeleteStory)

			auth.GET("/comment/:id/edit/", api.ShowEditComment)
			auth.POST("/comment/:id/edit/", api.UpdateComment)
			auth.GET("/comment/:id/delete/", api.ShowDeleteComment)
			auth.POST("/comment/:id/delete/", api.DeleteComment)
		}

		// 评论审核后台
		moderation := site.Group("/admin/comments")
		moderation.Use(api.ModeratorRequired())
		{
			moderation.GET("/", api.ShowPendingComments)
			moderation.POST("/approve", api.ApproveComments)
		}
	}

	return r
}

func ruleWithPrefix(rule RateLimitRule, prefix string) RateLimitRule {
	if rule.Prefix == "" {
		rule.Prefix = prefix
	} else {
		rule.Prefix = rule.Prefix + ":" + prefix
	}
	return rule
}
