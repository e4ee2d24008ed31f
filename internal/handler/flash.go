package handler

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const (
	flashSuccess = "success"
	flashInfo    = "info"
	flashError   = "error"

	flashKeyPrefix = "_flash_"
)

var flashLevels = []string{flashSuccess, flashInfo, flashError}

type flashMessage struct {
	Level   string
	Message string
}

func sessionFrom(c *gin.Context) sessions.Session {
	if _, exists := c.Get(sessions.DefaultKey); !exists {
		return nil
	}
	return sessions.Default(c)
}

func addFlash(c *gin.Context, level, message string) {
	session := sessionFrom(c)
	if session == nil || message == "" {
		return
	}
	session.AddFlash(message, flashKeyPrefix+level)
}

// popFlashes 取出并清除会话中的全部提示消息
func popFlashes(c *gin.Context) []flashMessage {
	session := sessionFrom(c)
	if session == nil {
		return nil
	}

	var messages []flashMessage
	for _, level := range flashLevels {
		for _, raw := range session.Flashes(flashKeyPrefix + level) {
			if text, ok := raw.(string); ok && text != "" {
				messages = append(messages, flashMessage{Level: level, Message: text})
			}
		}
	}
	if len(messages) > 0 {
		_ = session.Save()
	}
	return messages
}

// redirectWithFlash 写入提示后跳转，会话保存失败时仍然跳转
func redirectWithFlash(c *gin.Context, location, level, message string) {
	addFlash(c, level, message)
	if session := sessionFrom(c); session != nil {
		if err := session.Save(); err != nil {
			c.Error(err)
		}
	}
	c.Redirect(http.StatusFound, location)
	c.Abort()
}
