package application_test

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"vn.io.arda/contos/internal/domain"
)

// memStories is an in-memory StoryRepository.
type memStories struct {
	mu   sync.Mutex
	rows map[uuid.UUID]*domain.Story
}

func newMemStories(stories ...*domain.Story) *memStories {
	m := &memStories{rows: map[uuid.UUID]*domain.Story{}}
	for _, s := range stories {
		m.rows[s.ID] = s
	}
	return m
}

func (m *memStories) FindByID(_ context.Context, id uuid.UUID) (*domain.Story, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.rows[id]
	if !ok {
		return nil, domain.ErrStoryNotFound
	}
	cp := *s
	return &cp, nil
}

func (m *memStories) FindByIDWithAuthor(ctx context.Context, id uuid.UUID) (*domain.StoryWithAuthor, error) {
	s, err := m.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &domain.StoryWithAuthor{Story: *s, Author: domain.UserSummary{ID: s.AuthorID}}, nil
}

func (m *memStories) FindAll(_ context.Context, f domain.StoryFilter) ([]*domain.Story, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*domain.Story
	for _, s := range m.rows {
		if f.AuthorID != nil && s.AuthorID != *f.AuthorID {
			continue
		}
		if f.IsPublic != nil && s.IsPublic != *f.IsPublic {
			continue
		}
		if f.Theme != "" && s.Theme != f.Theme {
			continue
		}
		if f.AgeGroup != "" && s.AgeGroup != f.AgeGroup {
			continue
		}
		cp := *s
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if f.Offset >= len(out) {
		return []*domain.Story{}, nil
	}
	out = out[f.Offset:]
	if f.Limit < len(out) {
		out = out[:f.Limit]
	}
	return out, nil
}

func (m *memStories) FindAllWithAuthor(ctx context.Context, f domain.StoryFilter) ([]*domain.StoryWithAuthor, error) {
	list, err := m.FindAll(ctx, f)
	if err != nil {
		return nil, err
	}
	out := make([]*domain.StoryWithAuthor, 0, len(list))
	for _, s := range list {
		out = append(out, &domain.StoryWithAuthor{Story: *s, Author: domain.UserSummary{ID: s.AuthorID}})
	}
	return out, nil
}

func (m *memStories) Create(_ context.Context, in domain.NewStory) (*domain.Story, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now()
	s := &domain.Story{
		ID: uuid.New(), Title: in.Title, Content: in.Content, Theme: in.Theme,
		AgeGroup: in.AgeGroup, AuthorID: in.AuthorID, IsPublic: in.IsPublic,
		CreatedAt: now, UpdatedAt: now,
	}
	m.rows[s.ID] = s
	cp := *s
	return &cp, nil
}

func (m *memStories) Update(_ context.Context, id uuid.UUID, in domain.UpdateStoryInput) (*domain.Story, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.rows[id]
	if !ok {
		return nil, domain.ErrStoryNotFound
	}
	if in.Title != nil {
		s.Title = *in.Title
	}
	if in.IsPublic != nil {
		s.IsPublic = *in.IsPublic
	}
	cp := *s
	return &cp, nil
}

func (m *memStories) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[id]; !ok {
		return domain.ErrStoryNotFound
	}
	delete(m.rows, id)
	return nil
}

func (m *memStories) IncrementLikes(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.rows[id]
	if !ok {
		return domain.ErrStoryNotFound
	}
	s.LikesCount++
	return nil
}

func (m *memStories) DecrementLikes(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.rows[id]
	if !ok {
		return domain.ErrStoryNotFound
	}
	if s.LikesCount > 0 {
		s.LikesCount--
	}
	return nil
}

func (m *memStories) CountByAuthor(_ context.Context, authorID uuid.UUID) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, s := range m.rows {
		if s.AuthorID == authorID {
			n++
		}
	}
	return n, nil
}

func (m *memStories) likes(id uuid.UUID) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rows[id].LikesCount
}

// memLikes is an in-memory LikeRepository.
type memLikes struct {
	mu   sync.Mutex
	rows []*domain.Like
}

func (m *memLikes) FindByUserAndStory(_ context.Context, userID, storyID uuid.UUID) (*domain.Like, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, l := range m.rows {
		if l.UserID == userID && l.StoryID == storyID {
			return l, nil
		}
	}
	return nil, domain.ErrLikeNotFound
}

func (m *memLikes) FindByStory(_ context.Context, storyID uuid.UUID) ([]*domain.LikeWithUser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []*domain.LikeWithUser{}
	for _, l := range m.rows {
		if l.StoryID == storyID {
			out = append(out, &domain.LikeWithUser{Like: *l, User: domain.UserSummary{ID: l.UserID}})
		}
	}
	return out, nil
}

func (m *memLikes) Create(_ context.Context, userID, storyID uuid.UUID) (*domain.Like, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, l := range m.rows {
		if l.UserID == userID && l.StoryID == storyID {
			return nil, domain.ErrAlreadyLiked
		}
	}
	l := &domain.Like{ID: uuid.New(), UserID: userID, StoryID: storyID, CreatedAt: time.Now()}
	m.rows = append(m.rows, l)
	return l, nil
}

func (m *memLikes) Delete(_ context.Context, userID, storyID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, l := range m.rows {
		if l.UserID == userID && l.StoryID == storyID {
			m.rows = append(m.rows[:i], m.rows[i+1:]...)
			return nil
		}
	}
	return domain.ErrLikeNotFound
}

func (m *memLikes) CountByStory(_ context.Context, storyID uuid.UUID) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, l := range m.rows {
		if l.StoryID == storyID {
			n++
		}
	}
	return n, nil
}

// memComments is an in-memory CommentRepository.
type memComments struct {
	mu   sync.Mutex
	rows map[uuid.UUID]*domain.Comment
}

func newMemComments() *memComments {
	return &memComments{rows: map[uuid.UUID]*domain.Comment{}}
}

func (m *memComments) FindByID(_ context.Context, id uuid.UUID) (*domain.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.rows[id]
	if !ok {
		return nil, domain.ErrCommentNotFound
	}
	cp := *c
	return &cp, nil
}

func (m *memComments) FindByIDWithUser(ctx context.Context, id uuid.UUID) (*domain.CommentWithUser, error) {
	c, err := m.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &domain.CommentWithUser{Comment: *c, User: domain.UserSummary{ID: c.UserID}}, nil
}

func (m *memComments) FindByStory(_ context.Context, storyID uuid.UUID, limit, offset int) ([]*domain.CommentWithUser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []*domain.CommentWithUser{}
	for _, c := range m.rows {
		if c.StoryID == storyID {
			out = append(out, &domain.CommentWithUser{Comment: *c, User: domain.UserSummary{ID: c.UserID}})
		}
	}
	if offset >= len(out) {
		return []*domain.CommentWithUser{}, nil
	}
	out = out[offset:]
	if limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (m *memComments) Create(_ context.Context, in domain.NewComment) (*domain.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now()
	c := &domain.Comment{ID: uuid.New(), Content: in.Content, StoryID: in.StoryID, UserID: in.UserID, CreatedAt: now, UpdatedAt: now}
	m.rows[c.ID] = c
	cp := *c
	return &cp, nil
}

func (m *memComments) Update(_ context.Context, id uuid.UUID, content string) (*domain.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.rows[id]
	if !ok {
		return nil, domain.ErrCommentNotFound
	}
	c.Content = content
	cp := *c
	return &cp, nil
}

func (m *memComments) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[id]; !ok {
		return domain.ErrCommentNotFound
	}
	delete(m.rows, id)
	return nil
}

func (m *memComments) CountByStory(_ context.Context, storyID uuid.UUID) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, c := range m.rows {
		if c.StoryID == storyID {
			n++
		}
	}
	return n, nil
}

// memMentions is an in-memory MentionRepository that also records call order.
type memMentions struct {
	mu    sync.Mutex
	rows  []*domain.Mention
	calls []string
}

func (m *memMentions) Create(_ context.Context, in domain.NewMention) (*domain.Mention, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	mn := &domain.Mention{ID: uuid.New(), CommentID: in.CommentID, MentionedUserID: in.MentionedUserID, CreatedAt: time.Now()}
	m.rows = append(m.rows, mn)
	return mn, nil
}

func (m *memMentions) CreateMany(_ context.Context, in []domain.NewMention) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, "createMany")
	for _, nm := range in {
		dup := false
		for _, r := range m.rows {
			if r.CommentID == nm.CommentID && r.MentionedUserID == nm.MentionedUserID {
				dup = true
				break
			}
		}
		if !dup {
			m.rows = append(m.rows, &domain.Mention{ID: uuid.New(), CommentID: nm.CommentID, MentionedUserID: nm.MentionedUserID})
		}
	}
	return nil
}

func (m *memMentions) DeleteByComment(_ context.Context, commentID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, "deleteByComment")
	kept := m.rows[:0]
	for _, r := range m.rows {
		if r.CommentID != commentID {
			kept = append(kept, r)
		}
	}
	m.rows = kept
	return nil
}

func (m *memMentions) FindByUser(_ context.Context, userID uuid.UUID, limit, offset int) ([]*domain.Mention, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []*domain.Mention{}
	for _, r := range m.rows {
		if r.MentionedUserID == userID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memMentions) forComment(commentID uuid.UUID) []*domain.Mention {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*domain.Mention
	for _, r := range m.rows {
		if r.CommentID == commentID {
			out = append(out, r)
		}
	}
	return out
}

// memUsers resolves names case-insensitively.
type memUsers struct {
	users []domain.User
}

func (m *memUsers) FindByUsername(_ context.Context, name string) (*domain.User, error) {
	for _, u := range m.users {
		if strings.EqualFold(u.Name, name) {
			cp := u
			return &cp, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (m *memUsers) FindByUsernames(_ context.Context, names []string) ([]domain.User, error) {
	out := []domain.User{}
	for _, u := range m.users {
		for _, n := range names {
			if strings.EqualFold(u.Name, n) {
				out = append(out, u)
				break
			}
		}
	}
	return out, nil
}

// memNotifications is an in-memory NotificationRepository.
type memNotifications struct {
	mu   sync.Mutex
	rows []*domain.Notification
}

func (m *memNotifications) FindByID(_ context.Context, id uuid.UUID) (*domain.Notification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, n := range m.rows {
		if n.ID == id {
			cp := *n
			return &cp, nil
		}
	}
	return nil, domain.ErrNotificationNotFound
}

func (m *memNotifications) FindByUser(_ context.Context, userID uuid.UUID, limit, offset int) ([]*domain.Notification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []*domain.Notification{}
	for i := len(m.rows) - 1; i >= 0; i-- {
		if m.rows[i].UserID == userID {
			out = append(out, m.rows[i])
		}
	}
	if offset >= len(out) {
		return []*domain.Notification{}, nil
	}
	out = out[offset:]
	if limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (m *memNotifications) FindUnreadByUser(_ context.Context, userID uuid.UUID) ([]*domain.Notification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []*domain.Notification{}
	for _, n := range m.rows {
		if n.UserID == userID && !n.Read {
			out = append(out, n)
		}
	}
	return out, nil
}

func (m *memNotifications) Create(_ context.Context, in domain.CreateNotificationInput) (*domain.Notification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := &domain.Notification{
		ID: uuid.New(), UserID: in.UserID, Type: in.Type, Title: in.Title,
		Message: in.Message, Data: in.Data, CreatedAt: time.Now(),
	}
	m.rows = append(m.rows, n)
	return n, nil
}

func (m *memNotifications) MarkAsRead(_ context.Context, id uuid.UUID) (*domain.Notification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, n := range m.rows {
		if n.ID == id {
			n.Read = true
			cp := *n
			return &cp, nil
		}
	}
	return nil, domain.ErrNotificationNotFound
}

func (m *memNotifications) MarkAllAsRead(_ context.Context, userID uuid.UUID) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, r := range m.rows {
		if r.UserID == userID && !r.Read {
			r.Read = true
			n++
		}
	}
	return n, nil
}

func (m *memNotifications) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, n := range m.rows {
		if n.ID == id {
			m.rows = append(m.rows[:i], m.rows[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotificationNotFound
}

func (m *memNotifications) CountUnread(_ context.Context, userID uuid.UUID) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, r := range m.rows {
		if r.UserID == userID && !r.Read {
			n++
		}
	}
	return n, nil
}

func (m *memNotifications) PurgeOlderThan(_ context.Context, days int) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cutoff := time.Now().AddDate(0, 0, -days)
	kept := m.rows[:0]
	var n int64
	for _, r := range m.rows {
		if r.CreatedAt.Before(cutoff) {
			n++
			continue
		}
		kept = append(kept, r)
	}
	m.rows = kept
	return n, nil
}

// mockNotifier records notifier calls.
type mockNotifier struct {
	mock.Mock
}

func (m *mockNotifier) NotifyLike(ctx context.Context, storyAuthorID uuid.UUID, likerName string, storyID uuid.UUID) error {
	return m.Called(ctx, storyAuthorID, likerName, storyID).Error(0)
}

func (m *mockNotifier) NotifyComment(ctx context.Context, storyAuthorID uuid.UUID, commenterName string, storyID uuid.UUID) error {
	return m.Called(ctx, storyAuthorID, commenterName, storyID).Error(0)
}

func (m *mockNotifier) NotifyMention(ctx context.Context, mentionedUserID, commentID uuid.UUID, mentionerName string) error {
	return m.Called(ctx, mentionedUserID, commentID, mentionerName).Error(0)
}

// mockGenerator is a StoryGenerator double.
type mockGenerator struct {
	mock.Mock
}

func (m *mockGenerator) Generate(ctx context.Context, in domain.GenerateStoryInput) (*domain.GeneratedStory, error) {
	args := m.Called(ctx, in)
	if g, ok := args.Get(0).(*domain.GeneratedStory); ok {
		return g, args.Error(1)
	}
	return nil, args.Error(1)
}

// recordingEmitter captures emitted notifications and whether each was stored first.
type recordingEmitter struct {
	mu      sync.Mutex
	repo    *memNotifications
	emitted []*domain.Notification
	stored  []bool
}

func (e *recordingEmitter) Emit(_ uuid.UUID, n *domain.Notification) {
	_, err := e.repo.FindByID(context.Background(), n.ID)
	e.mu.Lock()
	defer e.mu.Unlock()
	e.emitted = append(e.emitted, n)
	e.stored = append(e.stored, err == nil)
}

// countingTx counts transactions and runs fn directly.
type countingTx struct {
	n int
}

func (t *countingTx) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	t.n++
	return fn(ctx)
}

func newStory(author uuid.UUID) *domain.Story {
	return &domain.Story{
		ID: uuid.New(), Title: "A", Content: "B", Theme: domain.ThemeSpace,
		AgeGroup: domain.AgeGroupEarly, AuthorID: author, CreatedAt: time.Now(),
	}
}
