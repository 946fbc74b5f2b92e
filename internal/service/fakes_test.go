package service

import (
	"context"
	"sort"
	"time"

	"loom/internal/domain"
	"loom/internal/domain/models"
	"loom/internal/domain/repositories"
	"loom/internal/domain/services"
)

// In-memory fakes shared by the service tests.

type fakeTxManager struct{}

func (fakeTxManager) ExecTx(ctx context.Context, fn repositories.TxFn) error {
	return fn(ctx)
}

type fakeUserRepo struct {
	users map[string]*models.User // keyed by ID
}

func newFakeUserRepo(users ...*models.User) *fakeUserRepo {
	repo := &fakeUserRepo{users: make(map[string]*models.User)}
	for _, u := range users {
		repo.users[u.ID] = u
	}
	return repo
}

func (r *fakeUserRepo) Create(ctx context.Context, user *models.User) error {
	for _, u := range r.users {
		if u.Email == user.Email {
			return domain.NewError(domain.ErrConflict, domain.CodeDuplicateEmail,
				"email already exists: %s", user.Email)
		}
	}
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, domain.NewError(domain.ErrNotFound, domain.CodeUserNotFound,
			"user not found: %s", id)
	}
	return user, nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, domain.NewError(domain.ErrNotFound, domain.CodeUserNotFound,
		"user not found: %s", email)
}

func (r *fakeUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := r.GetByEmail(ctx, email)
	if err == nil {
		return true, nil
	}
	return false, nil
}

type fakeThreadRepo struct {
	threads map[string]*models.Thread
	locked  []string // user IDs passed to LockUser, in order
}

func newFakeThreadRepo(threads ...*models.Thread) *fakeThreadRepo {
	repo := &fakeThreadRepo{threads: make(map[string]*models.Thread)}
	for _, t := range threads {
		repo.threads[t.ID] = t
	}
	return repo
}

func (r *fakeThreadRepo) Create(ctx context.Context, thread *models.Thread) error {
	r.threads[thread.ID] = thread
	return nil
}

func (r *fakeThreadRepo) GetByID(ctx context.Context, id string) (*models.Thread, error) {
	thread, ok := r.threads[id]
	if !ok {
		return nil, domain.NewError(domain.ErrNotFound, domain.CodeThreadNotFound,
			"thread not found: %s", id)
	}
	return thread, nil
}

func (r *fakeThreadRepo) GetByIDAndUser(ctx context.Context, id, userID string) (*models.Thread, error) {
	thread, ok := r.threads[id]
	if !ok || thread.UserID != userID {
		return nil, domain.NewError(domain.ErrNotFound, domain.CodeThreadNotFound,
			"thread not found: %s", id)
	}
	return thread, nil
}

func (r *fakeThreadRepo) FindActiveByUser(ctx context.Context, userID string, cutoff time.Time) (*models.Thread, error) {
	var active *models.Thread
	for _, t := range r.threads {
		if t.UserID != userID || t.UpdatedAt.Before(cutoff) {
			continue
		}
		if active == nil || t.UpdatedAt.After(active.UpdatedAt) {
			active = t
		}
	}
	if active == nil {
		return nil, domain.NewError(domain.ErrNotFound, domain.CodeThreadNotFound,
			"no active thread for user: %s", userID)
	}
	return active, nil
}

func (r *fakeThreadRepo) ListByUser(ctx context.Context, userID string, page repositories.Page) ([]models.Thread, error) {
	var out []models.Thread
	for _, t := range r.threads {
		if t.UserID == userID {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (r *fakeThreadRepo) ListAll(ctx context.Context, page repositories.Page) ([]models.Thread, error) {
	var out []models.Thread
	for _, t := range r.threads {
		out = append(out, *t)
	}
	return out, nil
}

func (r *fakeThreadRepo) Touch(ctx context.Context, id string, at time.Time) (time.Time, error) {
	thread, ok := r.threads[id]
	if !ok {
		return time.Time{}, domain.NewError(domain.ErrNotFound, domain.CodeThreadNotFound,
			"thread not found: %s", id)
	}
	// Same contract as the SQL GREATEST: never move updated_at backwards.
	if at.After(thread.UpdatedAt) {
		thread.UpdatedAt = at
	}
	return thread.UpdatedAt, nil
}

func (r *fakeThreadRepo) Delete(ctx context.Context, id string) error {
	if _, ok := r.threads[id]; !ok {
		return domain.NewError(domain.ErrNotFound, domain.CodeThreadNotFound,
			"thread not found: %s", id)
	}
	delete(r.threads, id)
	return nil
}

func (r *fakeThreadRepo) LockUser(ctx context.Context, userID string) error {
	r.locked = append(r.locked, userID)
	return nil
}

type fakeChatRepo struct {
	chats map[string]*models.Chat
}

func newFakeChatRepo(chats ...*models.Chat) *fakeChatRepo {
	repo := &fakeChatRepo{chats: make(map[string]*models.Chat)}
	for _, c := range chats {
		repo.chats[c.ID] = c
	}
	return repo
}

func (r *fakeChatRepo) Create(ctx context.Context, chat *models.Chat) error {
	r.chats[chat.ID] = chat
	return nil
}

func (r *fakeChatRepo) GetByID(ctx context.Context, id string) (*models.Chat, error) {
	chat, ok := r.chats[id]
	if !ok {
		return nil, domain.NewError(domain.ErrNotFound, domain.CodeChatNotFound,
			"chat not found: %s", id)
	}
	return chat, nil
}

func (r *fakeChatRepo) byThread(threadID string) []models.Chat {
	var out []models.Chat
	for _, c := range r.chats {
		if c.ThreadID == threadID {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

func (r *fakeChatRepo) ListByThreadAsc(ctx context.Context, threadID string) ([]models.Chat, error) {
	return r.byThread(threadID), nil
}

func (r *fakeChatRepo) ListByThreadDesc(ctx context.Context, threadID string, page repositories.Page) ([]models.Chat, error) {
	asc := r.byThread(threadID)
	desc := make([]models.Chat, 0, len(asc))
	for i := len(asc) - 1; i >= 0; i-- {
		desc = append(desc, asc[i])
	}
	if page.Offset >= len(desc) {
		return nil, nil
	}
	desc = desc[page.Offset:]
	if page.Limit > 0 && page.Limit < len(desc) {
		desc = desc[:page.Limit]
	}
	return desc, nil
}

func (r *fakeChatRepo) ListRecentByThread(ctx context.Context, threadID string, limit int) ([]models.Chat, error) {
	return r.ListByThreadDesc(ctx, threadID, repositories.Page{Limit: limit})
}

func (r *fakeChatRepo) ListByUserDesc(ctx context.Context, userID string) ([]models.Chat, error) {
	var out []models.Chat
	for _, c := range r.chats {
		if c.UserID == userID {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *fakeChatRepo) CountByThread(ctx context.Context, threadID string) (int64, error) {
	return int64(len(r.byThread(threadID))), nil
}

func (r *fakeChatRepo) Delete(ctx context.Context, id string) error {
	if _, ok := r.chats[id]; !ok {
		return domain.NewError(domain.ErrNotFound, domain.CodeChatNotFound,
			"chat not found: %s", id)
	}
	delete(r.chats, id)
	return nil
}

type fakeFeedbackRepo struct {
	feedbacks map[string]*models.Feedback
}

func newFakeFeedbackRepo() *fakeFeedbackRepo {
	return &fakeFeedbackRepo{feedbacks: make(map[string]*models.Feedback)}
}

func (r *fakeFeedbackRepo) Create(ctx context.Context, feedback *models.Feedback) error {
	for _, f := range r.feedbacks {
		if f.UserID == feedback.UserID && f.ChatID == feedback.ChatID {
			return domain.NewError(domain.ErrConflict, domain.CodeDuplicateFeedback,
				"feedback already exists for chat: %s", feedback.ChatID)
		}
	}
	r.feedbacks[feedback.ID] = feedback
	return nil
}

func (r *fakeFeedbackRepo) GetByID(ctx context.Context, id string) (*models.Feedback, error) {
	feedback, ok := r.feedbacks[id]
	if !ok {
		return nil, domain.NewError(domain.ErrNotFound, domain.CodeFeedbackNotFound,
			"feedback not found: %s", id)
	}
	return feedback, nil
}

func (r *fakeFeedbackRepo) ListByUser(ctx context.Context, userID string) ([]models.Feedback, error) {
	var out []models.Feedback
	for _, f := range r.feedbacks {
		if f.UserID == userID {
			out = append(out, *f)
		}
	}
	return out, nil
}

func (r *fakeFeedbackRepo) UpdateStatus(ctx context.Context, id string, status models.FeedbackStatus) (*models.Feedback, error) {
	feedback, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	feedback.Status = status
	feedback.UpdatedAt = time.Now()
	return feedback, nil
}

// fakeCompletion records the last Generate call and returns a canned result.
type fakeCompletion struct {
	answer string
	err    error

	calls       int
	gotMessages []services.Message
	gotParams   services.ModelParams
}

func (f *fakeCompletion) Generate(ctx context.Context, messages []services.Message, params services.ModelParams) (string, error) {
	f.calls++
	f.gotMessages = messages
	f.gotParams = params
	if f.err != nil {
		return "", f.err
	}
	return f.answer, nil
}
