package service

import (
	"context"
	"errors"
	"testing"

	"loom/internal/domain"
	"loom/internal/domain/models"
	"loom/internal/domain/services"
)

// TestCreateFeedback verifies feedback on an owned chat starts PENDING.
func TestCreateFeedback(t *testing.T) {
	chatRepo := newFakeChatRepo(&models.Chat{ID: "c1", ThreadID: "t1", UserID: "u1"})
	svc := NewFeedbackService(newFakeFeedbackRepo(), chatRepo, testLogger())

	feedback, err := svc.Create(context.Background(), &services.CreateFeedbackRequest{
		UserID:     "u1",
		ChatID:     "c1",
		IsPositive: true,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if feedback.Status != models.FeedbackPending {
		t.Errorf("expected PENDING status, got %s", feedback.Status)
	}
	if !feedback.IsPositive {
		t.Error("expected positive feedback")
	}
}

// TestCreateFeedback_ForeignChat verifies feedback is limited to the chat's
// owner.
func TestCreateFeedback_ForeignChat(t *testing.T) {
	chatRepo := newFakeChatRepo(&models.Chat{ID: "c1", ThreadID: "t1", UserID: "u1"})
	svc := NewFeedbackService(newFakeFeedbackRepo(), chatRepo, testLogger())

	_, err := svc.Create(context.Background(), &services.CreateFeedbackRequest{
		UserID: "u2",
		ChatID: "c1",
	})
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

// TestCreateFeedback_Duplicate verifies one feedback per user per chat.
func TestCreateFeedback_Duplicate(t *testing.T) {
	chatRepo := newFakeChatRepo(&models.Chat{ID: "c1", ThreadID: "t1", UserID: "u1"})
	svc := NewFeedbackService(newFakeFeedbackRepo(), chatRepo, testLogger())

	req := &services.CreateFeedbackRequest{UserID: "u1", ChatID: "c1", IsPositive: true}
	if _, err := svc.Create(context.Background(), req); err != nil {
		t.Fatalf("first Create failed: %v", err)
	}

	_, err := svc.Create(context.Background(), req)
	if !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
	if code := domain.ErrorCode(err); code != domain.CodeDuplicateFeedback {
		t.Errorf("expected code %s, got %s", domain.CodeDuplicateFeedback, code)
	}
}

// TestCreateFeedback_MissingChat verifies feedback on a nonexistent chat
// reports CHAT_NOT_FOUND.
func TestCreateFeedback_MissingChat(t *testing.T) {
	svc := NewFeedbackService(newFakeFeedbackRepo(), newFakeChatRepo(), testLogger())

	_, err := svc.Create(context.Background(), &services.CreateFeedbackRequest{
		UserID: "u1",
		ChatID: "missing",
	})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if code := domain.ErrorCode(err); code != domain.CodeChatNotFound {
		t.Errorf("expected code %s, got %s", domain.CodeChatNotFound, code)
	}
}

// TestUpdateFeedbackStatus verifies the moderator-only review transition.
func TestUpdateFeedbackStatus(t *testing.T) {
	chatRepo := newFakeChatRepo(&models.Chat{ID: "c1", ThreadID: "t1", UserID: "u1"})
	svc := NewFeedbackService(newFakeFeedbackRepo(), chatRepo, testLogger())

	feedback, err := svc.Create(context.Background(), &services.CreateFeedbackRequest{
		UserID: "u1", ChatID: "c1", IsPositive: false,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	member := models.Identity{UserID: "u1", Role: models.RoleMember}
	admin := models.Identity{UserID: "admin", Role: models.RoleAdmin}

	_, err = svc.UpdateStatus(context.Background(), feedback.ID, models.FeedbackResolved, member)
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for member, got %v", err)
	}

	_, err = svc.UpdateStatus(context.Background(), feedback.ID, "NONSENSE", admin)
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation for bad status, got %v", err)
	}

	updated, err := svc.UpdateStatus(context.Background(), feedback.ID, models.FeedbackResolved, admin)
	if err != nil {
		t.Fatalf("UpdateStatus failed: %v", err)
	}
	if updated.Status != models.FeedbackResolved {
		t.Errorf("expected RESOLVED, got %s", updated.Status)
	}
}
