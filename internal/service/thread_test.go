package service

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"loom/internal/domain"
	"loom/internal/domain/models"
	"loom/internal/domain/repositories"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}

func testUser(id string) *models.User {
	now := time.Now()
	return &models.User{
		ID:        id,
		Email:     id + "@example.com",
		Name:      id,
		Role:      models.RoleMember,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// TestResolveActiveThread_ReusesRecentThread verifies that a thread updated
// within the inactivity window is returned instead of creating a new one.
func TestResolveActiveThread_ReusesRecentThread(t *testing.T) {
	userRepo := newFakeUserRepo(testUser("u1"))
	threadRepo := newFakeThreadRepo(&models.Thread{
		ID:        "t1",
		UserID:    "u1",
		CreatedAt: time.Now().Add(-time.Hour),
		UpdatedAt: time.Now().Add(-10 * time.Minute),
	})
	svc := NewThreadService(threadRepo, userRepo, fakeTxManager{}, testLogger())

	thread, err := svc.ResolveActiveThread(context.Background(), "u1")
	if err != nil {
		t.Fatalf("ResolveActiveThread failed: %v", err)
	}

	if thread.ID != "t1" {
		t.Errorf("expected existing thread t1, got %s", thread.ID)
	}
	if len(threadRepo.threads) != 1 {
		t.Errorf("expected 1 thread, got %d", len(threadRepo.threads))
	}

	// Resolution must run under the per-user lock.
	if len(threadRepo.locked) != 1 || threadRepo.locked[0] != "u1" {
		t.Errorf("expected LockUser(u1), got %v", threadRepo.locked)
	}
}

// TestResolveActiveThread_ExpiredWindowCreatesNew verifies that a thread idle
// past the inactivity window is not reused.
func TestResolveActiveThread_ExpiredWindowCreatesNew(t *testing.T) {
	userRepo := newFakeUserRepo(testUser("u1"))
	threadRepo := newFakeThreadRepo(&models.Thread{
		ID:        "t1",
		UserID:    "u1",
		CreatedAt: time.Now().Add(-time.Hour),
		UpdatedAt: time.Now().Add(-31 * time.Minute),
	})
	svc := NewThreadService(threadRepo, userRepo, fakeTxManager{}, testLogger())

	thread, err := svc.ResolveActiveThread(context.Background(), "u1")
	if err != nil {
		t.Fatalf("ResolveActiveThread failed: %v", err)
	}

	if thread.ID == "t1" {
		t.Error("expected a new thread, got the expired one")
	}
	if thread.UserID != "u1" {
		t.Errorf("expected new thread owned by u1, got %s", thread.UserID)
	}
	if len(threadRepo.threads) != 2 {
		t.Errorf("expected 2 threads, got %d", len(threadRepo.threads))
	}
}

// TestResolveActiveThread_FirstThread verifies creation when the user has no
// threads at all.
func TestResolveActiveThread_FirstThread(t *testing.T) {
	userRepo := newFakeUserRepo(testUser("u1"))
	threadRepo := newFakeThreadRepo()
	svc := NewThreadService(threadRepo, userRepo, fakeTxManager{}, testLogger())

	first, err := svc.ResolveActiveThread(context.Background(), "u1")
	if err != nil {
		t.Fatalf("ResolveActiveThread failed: %v", err)
	}

	// A second call inside the window resolves to the same thread.
	second, err := svc.ResolveActiveThread(context.Background(), "u1")
	if err != nil {
		t.Fatalf("second ResolveActiveThread failed: %v", err)
	}
	if first.ID != second.ID {
		t.Errorf("expected the same thread on both calls, got %s and %s", first.ID, second.ID)
	}
	if len(threadRepo.threads) != 1 {
		t.Errorf("expected exactly 1 thread, got %d", len(threadRepo.threads))
	}
}

// TestResolveActiveThread_UnknownUser verifies no thread is created for a
// nonexistent user.
func TestResolveActiveThread_UnknownUser(t *testing.T) {
	svc := NewThreadService(newFakeThreadRepo(), newFakeUserRepo(), fakeTxManager{}, testLogger())

	_, err := svc.ResolveActiveThread(context.Background(), "ghost")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if code := domain.ErrorCode(err); code != domain.CodeUserNotFound {
		t.Errorf("expected code %s, got %s", domain.CodeUserNotFound, code)
	}
}

// TestGetThread_OwnershipCheck verifies that only the owner or a moderator
// can read a thread.
func TestGetThread_OwnershipCheck(t *testing.T) {
	threadRepo := newFakeThreadRepo(&models.Thread{ID: "t1", UserID: "u1"})
	svc := NewThreadService(threadRepo, newFakeUserRepo(), fakeTxManager{}, testLogger())

	owner := models.Identity{UserID: "u1", Role: models.RoleMember}
	other := models.Identity{UserID: "u2", Role: models.RoleMember}
	admin := models.Identity{UserID: "u3", Role: models.RoleAdmin}

	if _, err := svc.GetThread(context.Background(), "t1", owner); err != nil {
		t.Errorf("owner should access own thread: %v", err)
	}
	if _, err := svc.GetThread(context.Background(), "t1", admin); err != nil {
		t.Errorf("admin should access any thread: %v", err)
	}

	_, err := svc.GetThread(context.Background(), "t1", other)
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for foreign thread, got %v", err)
	}
	if code := domain.ErrorCode(err); code != domain.CodeUnauthorizedAccess {
		t.Errorf("expected code %s, got %s", domain.CodeUnauthorizedAccess, code)
	}
}

// TestListThreads_ModeratorSeesAll verifies the admin listing path.
func TestListThreads_ModeratorSeesAll(t *testing.T) {
	threadRepo := newFakeThreadRepo(
		&models.Thread{ID: "t1", UserID: "u1"},
		&models.Thread{ID: "t2", UserID: "u2"},
	)
	svc := NewThreadService(threadRepo, newFakeUserRepo(), fakeTxManager{}, testLogger())
	page := repositories.Page{Limit: 20}

	mine, err := svc.ListThreads(context.Background(), models.Identity{UserID: "u1", Role: models.RoleMember}, page)
	if err != nil {
		t.Fatalf("ListThreads failed: %v", err)
	}
	if len(mine) != 1 {
		t.Errorf("expected member to see 1 thread, got %d", len(mine))
	}

	all, err := svc.ListThreads(context.Background(), models.Identity{UserID: "u3", Role: models.RoleAdmin}, page)
	if err != nil {
		t.Fatalf("ListThreads failed: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("expected admin to see 2 threads, got %d", len(all))
	}
}

// TestDeleteThread_Forbidden verifies a member cannot delete another user's
// thread.
func TestDeleteThread_Forbidden(t *testing.T) {
	threadRepo := newFakeThreadRepo(&models.Thread{ID: "t1", UserID: "u1"})
	svc := NewThreadService(threadRepo, newFakeUserRepo(), fakeTxManager{}, testLogger())

	err := svc.DeleteThread(context.Background(), "t1", models.Identity{UserID: "u2", Role: models.RoleMember})
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if len(threadRepo.threads) != 1 {
		t.Error("thread should not have been deleted")
	}

	if err := svc.DeleteThread(context.Background(), "t1", models.Identity{UserID: "u1", Role: models.RoleMember}); err != nil {
		t.Fatalf("owner delete failed: %v", err)
	}
	if len(threadRepo.threads) != 0 {
		t.Error("thread should have been deleted")
	}
}
