package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/youvshr/internal/db"
	"github.com/youvshr/internal/service"
)

// ShowAbout 渲染关于与政策页面，未配置时返回 404
func (a *API) ShowAbout(c *gin.Context) {
	page, err := a.pages.GetBySlug(db.AboutPageSlug)
	if err != nil {
		if errors.Is(err, service.ErrPageNotFound) {
			a.renderNotFound(c)
			return
		}
		a.renderServerError(c, err)
		return
	}

	a.renderHTML(c, http.StatusOK, "about.html", gin.H{
		"title": page.Title,
		"page":  page,
	})
}

// ShowResources 资源目录，只列出启用的资源
func (a *API) ShowResources(c *gin.Context) {
	categories, err := a.resources.Directory()
	if err != nil {
		a.renderServerError(c, err)
		return
	}

	a.renderHTML(c, http.StatusOK, "resources.html", gin.H{
		"title":      "Resources",
		"categories": categories,
	})
}
