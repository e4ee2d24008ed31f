package service

import (
	"errors"
	"testing"

	"github.com/youvshr/internal/db"
)

func seedStory(t *testing.T, svc *StoryService, authorID uint, title string) *db.Story {
	t.Helper()
	story, err := svc.Create(StoryInput{Title: title, Content: "content"}, authorID)
	if err != nil {
		t.Fatalf("failed to seed story: %v", err)
	}
	return story
}

func TestCreateCommentStartsPending(t *testing.T) {
	gdb := setupServiceTestDB(t)
	author := seedUser(t, gdb, "alice")
	story := seedStory(t, NewStoryService(gdb), author.ID, "Test Story")

	comment, err := NewCommentService(gdb).Create(story.ID, author.ID, "  first!  ")
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if comment.Approved {
		t.Fatal("expected new comment to be pending")
	}
	if comment.Content != "first!" {
		t.Fatalf("expected trimmed content, got %q", comment.Content)
	}
}

func TestCreateCommentUnknownStory(t *testing.T) {
	gdb := setupServiceTestDB(t)
	author := seedUser(t, gdb, "alice")

	if _, err := NewCommentService(gdb).Create(999, author.ID, "hi"); !errors.Is(err, ErrStoryNotFound) {
		t.Fatalf("expected ErrStoryNotFound, got %v", err)
	}
}

func TestListApprovedHidesPending(t *testing.T) {
	gdb := setupServiceTestDB(t)
	author := seedUser(t, gdb, "alice")
	story := seedStory(t, NewStoryService(gdb), author.ID, "Test Story")
	svc := NewCommentService(gdb)

	approved, err := svc.Create(story.ID, author.ID, "Approved comment")
	if err != nil {
		t.Fatalf("failed to seed comment: %v", err)
	}
	if _, err := svc.Create(story.ID, author.ID, "Pending comment"); err != nil {
		t.Fatalf("failed to seed comment: %v", err)
	}
	if _, err := svc.Approve([]uint{approved.ID}); err != nil {
		t.Fatalf("Approve returned error: %v", err)
	}

	comments, err := svc.ListApproved(story.ID)
	if err != nil {
		t.Fatalf("ListApproved returned error: %v", err)
	}
	if len(comments) != 1 || comments[0].Content != "Approved comment" {
		t.Fatalf("expected only the approved comment, got %+v", comments)
	}
	count, err := svc.CountApproved(story.ID)
	if err != nil {
		t.Fatalf("CountApproved returned error: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected count 1, got %d", count)
	}
}

func TestUpdateCommentResetsApproval(t *testing.T) {
	gdb := setupServiceTestDB(t)
	author := seedUser(t, gdb, "alice")
	story := seedStory(t, NewStoryService(gdb), author.ID, "Test Story")
	svc := NewCommentService(gdb)

	comment, err := svc.Create(story.ID, author.ID, "original")
	if err != nil {
		t.Fatalf("failed to seed comment: %v", err)
	}
	if _, err := svc.Approve([]uint{comment.ID}); err != nil {
		t.Fatalf("Approve returned error: %v", err)
	}

	loaded, err := svc.Get(comment.ID)
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if !loaded.Approved {
		t.Fatal("expected comment to be approved before edit")
	}

	if _, err := svc.Update(loaded, "edited"); err != nil {
		t.Fatalf("Update returned error: %v", err)
	}

	reloaded, err := svc.Get(comment.ID)
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if reloaded.Approved {
		t.Fatal("expected edit to reset approval")
	}
	if reloaded.Content != "edited" {
		t.Fatalf("expected content to change, got %q", reloaded.Content)
	}
}

func TestApproveReportsTransitionedCount(t *testing.T) {
	gdb := setupServiceTestDB(t)
	author := seedUser(t, gdb, "alice")
	story := seedStory(t, NewStoryService(gdb), author.ID, "Test Story")
	svc := NewCommentService(gdb)

	ids := make([]uint, 0, 4)
	for i := 0; i < 4; i++ {
		comment, err := svc.Create(story.ID, author.ID, "pending")
		if err != nil {
			t.Fatalf("failed to seed comment: %v", err)
		}
		ids = append(ids, comment.ID)
	}

	if _, err := svc.Approve(ids[:1]); err != nil {
		t.Fatalf("Approve returned error: %v", err)
	}

	count, err := svc.Approve(append(ids, ids[1], 12345))
	if err != nil {
		t.Fatalf("Approve returned error: %v", err)
	}
	if count != 3 {
		t.Fatalf("expected 3 comments to transition, got %d", count)
	}

	pending, err := svc.ListPending()
	if err != nil {
		t.Fatalf("ListPending returned error: %v", err)
	}
	if len(pending) != 0 {
		t.Fatalf("expected empty queue, got %d", len(pending))
	}
	if msg := ApprovedMessage(count); msg != "3 comment(s) approved successfully." {
		t.Fatalf("unexpected message %q", msg)
	}
}

func TestApproveEmptySelection(t *testing.T) {
	gdb := setupServiceTestDB(t)

	count, err := NewCommentService(gdb).Approve(nil)
	if err != nil || count != 0 {
		t.Fatalf("expected zero without error, got %d, %v", count, err)
	}
}

func TestDeleteComment(t *testing.T) {
	gdb := setupServiceTestDB(t)
	author := seedUser(t, gdb, "alice")
	story := seedStory(t, NewStoryService(gdb), author.ID, "Test Story")
	svc := NewCommentService(gdb)

	comment, err := svc.Create(story.ID, author.ID, "bye")
	if err != nil {
		t.Fatalf("failed to seed comment: %v", err)
	}
	if err := svc.Delete(comment); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if _, err := svc.Get(comment.ID); !errors.Is(err, ErrCommentNotFound) {
		t.Fatalf("expected ErrCommentNotFound, got %v", err)
	}
}
