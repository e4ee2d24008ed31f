package handler

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/render"
	"github.com/youvshr/internal/db"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type stubHTMLRender struct {
	lastName string
	lastData interface{}
}

type stubHTMLInstance struct {
	name string
	data interface{}
}

func (r *stubHTMLRender) Instance(name string, data interface{}) render.Render {
	r.lastName = name
	r.lastData = data
	return &stubHTMLInstance{name: name, data: data}
}

func (r *stubHTMLInstance) Render(http.ResponseWriter) error {
	return nil
}

func (r *stubHTMLInstance) WriteContentType(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
}

func (r *stubHTMLRender) payload(t *testing.T) gin.H {
	t.Helper()
	data, ok := r.lastData.(gin.H)
	if !ok {
		t.Fatalf("expected payload to be gin.H, got %T", r.lastData)
	}
	return data
}

type testServer struct {
	api      *API
	router   *gin.Engine
	renderer *stubHTMLRender
	db       *gorm.DB
}

func setupHandlerTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:handler-%d?mode=memory&cache=shared", time.Now().UnixNano())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("failed to migrate test db: %v", err)
	}

	t.Cleanup(func() {
		sqlDB, err := gdb.DB()
		if err == nil {
			sqlDB.Close()
		}
	})
	return gdb
}

func newTestServer(t *testing.T, opts Options) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	gdb := setupHandlerTestDB(t)
	api := NewAPI(gdb, opts)
	renderer := &stubHTMLRender{}

	r := gin.New()
	r.HTMLRender = renderer
	r.Use(sessions.Sessions("youvshr_session", cookie.NewStore([]byte("test-secret"))))
	r.Use(api.CurrentUser())

	r.GET("/test/login/:id", func(c *gin.Context) {
		id, _ := parseUintParam(c, "id")
		session := sessions.Default(c)
		session.Set(sessionUserIDKey, id)
		_ = session.Save()
		c.Status(http.StatusNoContent)
	})

	r.GET("/", api.ListStories)
	r.GET("/story/create/", api.AuthRequired(), api.ShowCreateStory)
	r.POST("/story/create/", api.AuthRequired(), api.CreateStory)
	r.GET("/story/:slug/", api.ShowStory)
	r.POST("/story/:slug/", api.AuthRequired(), api.AddComment)
	r.GET("/story/:slug/edit/", api.AuthRequired(), api.ShowEditStory)
	r.POST("/story/:slug/edit/", api.AuthRequired(), api.UpdateStory)
	r.GET("/story/:slug/delete/", api.AuthRequired(), api.ShowDeleteStory)
	r.POST("/story/:slug/delete/", api.AuthRequired(), api.DeleteStory)
	r.GET("/comment/:id/edit/", api.AuthRequired(), api.ShowEditComment)
	r.POST("/comment/:id/edit/", api.AuthRequired(), api.UpdateComment)
	r.GET("/comment/:id/delete/", api.AuthRequired(), api.ShowDeleteComment)
	r.POST("/comment/:id/delete/", api.AuthRequired(), api.DeleteComment)
	r.GET("/register/", api.ShowRegister)
	r.POST("/register/", api.Register)
	r.GET("/login/", api.ShowLogin)
	r.POST("/login/", api.Login)
	r.POST("/logout/", api.Logout)
	r.GET("/about/", api.ShowAbout)
	r.GET("/resources/", api.ShowResources)

	moderation := r.Group("/admin/comments")
	moderation.Use(api.ModeratorRequired())
	moderation.GET("/", api.ShowPendingComments)
	moderation.POST("/approve", api.ApproveComments)

	return &testServer{api: api, router: r, renderer: renderer, db: gdb}
}

type testClient struct {
	t       *testing.T
	srv     *testServer
	cookies map[string]*http.Cookie
}

func (s *testServer) client(t *testing.T) *testClient {
	return &testClient{t: t, srv: s, cookies: map[string]*http.Cookie{}}
}

// loggedIn 返回一个已登录为 userID 的客户端
func (s *testServer) loggedIn(t *testing.T, userID uint) *testClient {
	t.Helper()
	client := s.client(t)
	if rec := client.get(fmt.Sprintf("/test/login/%d", userID)); rec.Code != http.StatusNoContent {
		t.Fatalf("failed to log in test user, status %d", rec.Code)
	}
	return client
}

func (c *testClient) do(method, path string, form url.Values) *httptest.ResponseRecorder {
	c.t.Helper()

	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req := httptest.NewRequest(method, path, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	for _, ck := range c.cookies {
		req.AddCookie(ck)
	}

	rec := httptest.NewRecorder()
	c.srv.router.ServeHTTP(rec, req)
	for _, ck := range rec.Result().Cookies() {
		c.cookies[ck.Name] = ck
	}
	return rec
}

func (c *testClient) get(path string) *httptest.ResponseRecorder {
	return c.do(http.MethodGet, path, nil)
}

func (c *testClient) post(path string, form url.Values) *httptest.ResponseRecorder {
	if form == nil {
		form = url.Values{}
	}
	return c.do(http.MethodPost, path, form)
}

// flashesAfter 访问 path 并返回页面渲染时带出的提示消息
func (c *testClient) flashesAfter(path string) []string {
	c.t.Helper()
	c.get(path)
	data := c.srv.renderer.payload(c.t)
	raw, _ := data["flashes"].([]flashMessage)
	messages := make([]string, 0, len(raw))
	for _, msg := range raw {
		messages = append(messages, msg.Message)
	}
	return messages
}

func expectRedirect(t *testing.T, rec *httptest.ResponseRecorder, location string) {
	t.Helper()
	if rec.Code != http.StatusFound {
		t.Fatalf("expected status 302, got %d", rec.Code)
	}
	if got := rec.Header().Get("Location"); got != location {
		t.Fatalf("expected redirect to %q, got %q", location, got)
	}
}

func containsMessage(messages []string, want string) bool {
	for _, msg := range messages {
		if msg == want {
			return true
		}
	}
	return false
}

func seedHandlerUser(t *testing.T, gdb *gorm.DB, username string, staff bool) db.User {
	t.Helper()
	user := db.User{Username: username, Password: "hashed", IsStaff: staff}
	if err := gdb.Create(&user).Error; err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}
	return user
}

func seedHandlerStory(t *testing.T, gdb *gorm.DB, authorID uint, title string) db.Story {
	t.Helper()
	story := db.Story{Title: title, Content: "content", AuthorID: authorID}
	if err := gdb.Create(&story).Error; err != nil {
		t.Fatalf("failed to seed story: %v", err)
	}
	return story
}

func seedHandlerComment(t *testing.T, gdb *gorm.DB, storyID, authorID uint, content string, approved bool) db.Comment {
	t.Helper()
	comment := db.Comment{StoryID: storyID, AuthorID: authorID, Content: content}
	if err := gdb.Create(&comment).Error; err != nil {
		t.Fatalf("failed to seed comment: %v", err)
	}
	if approved {
		if err := gdb.Model(&comment).Update("approved", true).Error; err != nil {
			t.Fatalf("failed to approve comment: %v", err)
		}
		comment.Approved = true
	}
	return comment
}
