package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/youvshr/internal/db"
	"github.com/youvshr/internal/locale"
	"github.com/youvshr/internal/logger"
	"github.com/youvshr/internal/service"
)

const (
	sessionUserIDKey   = "user_id"
	sessionUsernameKey = "username"
	currentUserKey     = "__current_user"
)

type registerForm struct {
	Username string
	Email    string
}

// CurrentUser 从会话中加载当前用户并放入上下文，会话中的用户不存在时清除会话。
func (a *API) CurrentUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		a.loadCurrentUser(c)
		c.Next()
	}
}

func (a *API) loadCurrentUser(c *gin.Context) *db.User {
	if cached, exists := c.Get(currentUserKey); exists {
		user, _ := cached.(*db.User)
		return user
	}

	var user *db.User
	if session := sessionFrom(c); session != nil {
		if userID, ok := sessionUserID(session.Get(sessionUserIDKey)); ok {
			loaded, err := a.users.Get(userID)
			switch {
			case err == nil:
				user = loaded
			case errors.Is(err, service.ErrUserNotFound):
				session.Delete(sessionUserIDKey)
				session.Delete(sessionUsernameKey)
				_ = session.Save()
			default:
				c.Error(err)
			}
		}
	}

	c.Set(currentUserKey, user)
	return user
}

func (a *API) currentUser(c *gin.Context) *db.User {
	return a.loadCurrentUser(c)
}

func sessionUserID(value interface{}) (uint, bool) {
	switch v := value.(type) {
	case uint:
		return v, v > 0
	case int:
		return uint(v), v > 0
	case int64:
		return uint(v), v > 0
	case uint64:
		return uint(v), v > 0
	default:
		return 0, false
	}
}

// AuthRequired 未登录时跳转到登录页，并在 next 中带上原始地址
func (a *API) AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if a.currentUser(c) == nil {
			redirectWithFlash(c, loginURL(c.Request.URL.RequestURI()), flashInfo, a.t(c, locale.MsgLoginRequired))
			return
		}
		c.Next()
	}
}

func (a *API) startSession(c *gin.Context, user *db.User) error {
	session := sessionFrom(c)
	if session == nil {
		return errors.New("session middleware not installed")
	}
	session.Set(sessionUserIDKey, user.ID)
	session.Set(sessionUsernameKey, user.Username)
	c.Set(currentUserKey, user)
	return session.Save()
}

// ShowRegister 渲染注册页
func (a *API) ShowRegister(c *gin.Context) {
	a.renderHTML(c, http.StatusOK, "register.html", gin.H{
		"title": "Register",
		"form":  registerForm{},
	})
}

// Register 创建账号并直接登录
func (a *API) Register(c *gin.Context) {
	form := registerForm{
		Username: strings.TrimSpace(c.PostForm("username")),
		Email:    strings.TrimSpace(c.PostForm("email")),
	}

	user, err := a.users.Register(service.RegisterInput{
		Username:        form.Username,
		Email:           form.Email,
		Password:        c.PostForm("password1"),
		PasswordConfirm: c.PostForm("password2"),
	})
	if err != nil {
		fieldErrors := map[string]string{}
		if verr, ok := service.AsValidationError(err); ok {
			fieldErrors = verr.Fields
		} else if errors.Is(err, service.ErrUserExists) {
			fieldErrors["username"] = "A user with that username already exists."
		} else {
			a.renderServerError(c, err)
			return
		}
		a.renderHTML(c, http.StatusOK, "register.html", gin.H{
			"title":  "Register",
			"form":   form,
			"errors": fieldErrors,
		})
		return
	}

	if err := a.startSession(c, user); err != nil {
		a.renderServerError(c, err)
		return
	}
	logger.Infow("user registered", "user_id", user.ID, "username", user.Username)
	redirectWithFlash(c, "/", flashSuccess, a.t(c, locale.MsgAccountCreated, a.siteName))
}

// ShowLogin 渲染登录页
func (a *API) ShowLogin(c *gin.Context) {
	a.renderHTML(c, http.StatusOK, "login.html", gin.H{
		"title": "Login",
		"next":  safeRedirectTarget(c.Query("next"), ""),
	})
}

// Login 校验账号密码，成功后跳转到 next 指定的站内地址
func (a *API) Login(c *gin.Context) {
	username := strings.TrimSpace(c.PostForm("username"))
	next := safeRedirectTarget(c.PostForm("next"), "/")

	user, err := a.users.Authenticate(username, c.PostForm("password"))
	if err != nil {
		if !errors.Is(err, service.ErrInvalidCredentials) {
			a.renderServerError(c, err)
			return
		}
		logger.Warnw("login failed", "username", username, "client_ip", c.ClientIP())
		a.renderHTML(c, http.StatusOK, "login.html", gin.H{
			"title":    "Login",
			"username": username,
			"next":     next,
			"error":    a.t(c, locale.MsgInvalidLogin),
		})
		return
	}

	if err := a.startSession(c, user); err != nil {
		a.renderServerError(c, err)
		return
	}
	redirectWithFlash(c, next, flashSuccess, a.t(c, locale.MsgWelcomeBack, user.Username))
}

// Logout 清除会话
func (a *API) Logout(c *gin.Context) {
	if session := sessionFrom(c); session != nil {
		session.Clear()
	}
	c.Set(currentUserKey, (*db.User)(nil))
	redirectWithFlash(c, "/", flashSuccess, a.t(c, locale.MsgLoggedOut))
}
