package handler

import (
	"net/http"
	"testing"

	"github.com/youvshr/internal/db"
	"github.com/youvshr/internal/service"
)

func TestShowAboutMissingPage(t *testing.T) {
	srv := newTestServer(t, Options{})

	rec := srv.client(t).get("/about/")

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rec.Code)
	}
}

func TestShowAboutRendersPolicies(t *testing.T) {
	srv := newTestServer(t, Options{})
	if _, err := service.NewPageService(srv.db).Save(service.PageInput{
		Title:         "About & Policies",
		Slug:          db.AboutPageSlug,
		Content:       "Who we are",
		PrivacyPolicy: "We keep little data.",
	}); err != nil {
		t.Fatalf("failed to seed page: %v", err)
	}

	rec := srv.client(t).get("/about/")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if srv.renderer.lastName != "about.html" {
		t.Fatalf("expected about.html, got %s", srv.renderer.lastName)
	}
	page, ok := srv.renderer.payload(t)["page"].(*db.Page)
	if !ok || page.PrivacyPolicy != "We keep little data." {
		t.Fatalf("expected page payload, got %+v", srv.renderer.payload(t)["page"])
	}
}

func TestShowResourcesHidesInactive(t *testing.T) {
	srv := newTestServer(t, Options{})
	resources := service.NewResourceService(srv.db)
	category, err := resources.CreateCategory(service.CategoryInput{Name: "Legal", Icon: "scale"})
	if err != nil {
		t.Fatalf("failed to create category: %v", err)
	}
	inactive := false
	for _, input := range []service.ResourceInput{
		{CategoryID: category.ID, Title: "Visible", URL: "https://visible.example.com"},
		{CategoryID: category.ID, Title: "Hidden", URL: "https://hidden.example.com", Active: &inactive},
	} {
		if _, err := resources.CreateResource(input); err != nil {
			t.Fatalf("failed to create resource: %v", err)
		}
	}

	rec := srv.client(t).get("/resources/")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	categories, ok := srv.renderer.payload(t)["categories"].([]db.ResourceCategory)
	if !ok || len(categories) != 1 {
		t.Fatalf("expected one category, got %+v", srv.renderer.payload(t)["categories"])
	}
	if len(categories[0].Resources) != 1 || categories[0].Resources[0].Title != "Visible" {
		t.Fatalf("expected only the active resource, got %+v", categories[0].Resources)
	}
}
