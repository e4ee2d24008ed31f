package service

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/youvshr/internal/db"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupServiceTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:service-%d?mode=memory&cache=shared", time.Now().UnixNano())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	t.Cleanup(func() {
		sqlDB, err := gdb.DB()
		if err == nil {
			sqlDB.Close()
		}
	})
	return gdb
}

func seedUser(t *testing.T, gdb *gorm.DB, username string) db.User {
	t.Helper()
	user := db.User{Username: username, Password: "hashed"}
	if err := gdb.Create(&user).Error; err != nil {
		t.Fatalf("failed to seed user %s: %v", username, err)
	}
	return user
}

func TestSavePageCreatesAboutPage(t *testing.T) {
	gdb := setupServiceTestDB(t)

	svc := NewPageService(gdb)
	page, err := svc.Save(PageInput{
		Title:   "About & Policies",
		Slug:    db.AboutPageSlug,
		Content: "# Hello\nWe listen.",
		Mission: "Support employees.",
	})
	if err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	if page.Slug != "about-policies" {
		t.Fatalf("expected slug 'about-policies', got %s", page.Slug)
	}

	fetched, err := svc.GetBySlug(db.AboutPageSlug)
	if err != nil {
		t.Fatalf("GetBySlug returned error: %v", err)
	}
	if fetched.Mission != "Support employees." {
		t.Fatalf("expected mission to be persisted, got %q", fetched.Mission)
	}
}

func TestSavePageUpdatesExisting(t *testing.T) {
	gdb := setupServiceTestDB(t)

	svc := NewPageService(gdb)
	if _, err := svc.Save(PageInput{Title: "About", Slug: "about-policies", Content: "初始内容"}); err != nil {
		t.Fatalf("failed to seed page: %v", err)
	}

	updated, err := svc.Save(PageInput{Title: "About", Slug: "about-policies", Content: "更新后的内容"})
	if err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	if updated.Content != "更新后的内容" {
		t.Fatalf("expected content to be updated, got %s", updated.Content)
	}

	var count int64
	gdb.Model(&db.Page{}).Count(&count)
	if count != 1 {
		t.Fatalf("expected a single page, got %d", count)
	}
}

func TestSavePageDerivesSlugFromTitle(t *testing.T) {
	gdb := setupServiceTestDB(t)

	page, err := NewPageService(gdb).Save(PageInput{Title: "Community Guidelines"})
	if err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	if page.Slug != "community-guidelines" {
		t.Fatalf("expected derived slug, got %s", page.Slug)
	}
}

func TestSavePageRejectsEmptyTitle(t *testing.T) {
	gdb := setupServiceTestDB(t)

	_, err := NewPageService(gdb).Save(PageInput{Content: "body"})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestGetBySlugMissingPage(t *testing.T) {
	gdb := setupServiceTestDB(t)

	if _, err := NewPageService(gdb).GetBySlug(db.AboutPageSlug); !errors.Is(err, ErrPageNotFound) {
		t.Fatalf("expected ErrPageNotFound, got %v", err)
	}
}

func TestSavePageRejectsTitleUsedByAnotherSlug(t *testing.T) {
	gdb := setupServiceTestDB(t)
	svc := NewPageService(gdb)

	if _, err := svc.Save(PageInput{Title: "About", Slug: "about-policies"}); err != nil {
		t.Fatalf("failed to seed page: %v", err)
	}

	_, err := svc.Save(PageInput{Title: "About", Slug: "about-us"})
	verr, ok := AsValidationError(err)
	if !ok {
		t.Fatalf("expected validation error, got %v", err)
	}
	if verr.Field("title") == "" {
		t.Fatalf("expected title field error, got %+v", verr.Fields)
	}
}
