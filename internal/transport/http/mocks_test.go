package http

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"vn.io.arda/contos/internal/domain"
)

type mockStories struct{ mock.Mock }

func (m *mockStories) GetByIDWithAuthor(ctx context.Context, id uuid.UUID) (*domain.StoryWithAuthor, error) {
	args := m.Called(ctx, id)
	s, _ := args.Get(0).(*domain.StoryWithAuthor)
	return s, args.Error(1)
}

func (m *mockStories) GetPublicStories(ctx context.Context, filter domain.StoryFilter) ([]*domain.StoryWithAuthor, error) {
	args := m.Called(ctx, filter)
	list, _ := args.Get(0).([]*domain.StoryWithAuthor)
	return list, args.Error(1)
}

func (m *mockStories) GetUserStories(ctx context.Context, authorID uuid.UUID, filter domain.StoryFilter) ([]*domain.Story, error) {
	args := m.Called(ctx, authorID, filter)
	list, _ := args.Get(0).([]*domain.Story)
	return list, args.Error(1)
}

func (m *mockStories) Create(ctx context.Context, input domain.CreateStoryInput, authorID uuid.UUID, characterName string) (*domain.Story, error) {
	args := m.Called(ctx, input, authorID, characterName)
	s, _ := args.Get(0).(*domain.Story)
	return s, args.Error(1)
}

func (m *mockStories) Update(ctx context.Context, id uuid.UUID, input domain.UpdateStoryInput, authorID uuid.UUID) (*domain.Story, error) {
	args := m.Called(ctx, id, input, authorID)
	s, _ := args.Get(0).(*domain.Story)
	return s, args.Error(1)
}

func (m *mockStories) Delete(ctx context.Context, id, authorID uuid.UUID) error {
	return m.Called(ctx, id, authorID).Error(0)
}

type mockLikes struct{ mock.Mock }

func (m *mockLikes) Like(ctx context.Context, userID, storyID uuid.UUID, userName string) (*domain.Like, error) {
	args := m.Called(ctx, userID, storyID, userName)
	l, _ := args.Get(0).(*domain.Like)
	return l, args.Error(1)
}

func (m *mockLikes) Unlike(ctx context.Context, userID, storyID uuid.UUID) error {
	return m.Called(ctx, userID, storyID).Error(0)
}

func (m *mockLikes) IsLiked(ctx context.Context, userID, storyID uuid.UUID) (bool, error) {
	args := m.Called(ctx, userID, storyID)
	return args.Bool(0), args.Error(1)
}

func (m *mockLikes) GetLikesByStory(ctx context.Context, storyID uuid.UUID) ([]*domain.LikeWithUser, error) {
	args := m.Called(ctx, storyID)
	list, _ := args.Get(0).([]*domain.LikeWithUser)
	return list, args.Error(1)
}

type mockComments struct{ mock.Mock }

func (m *mockComments) Create(ctx context.Context, input domain.CreateCommentInput, userID uuid.UUID, userName string) (*domain.Comment, error) {
	args := m.Called(ctx, input, userID, userName)
	c, _ := args.Get(0).(*domain.Comment)
	return c, args.Error(1)
}

func (m *mockComments) Update(ctx context.Context, id uuid.UUID, input domain.UpdateCommentInput, userID uuid.UUID) (*domain.Comment, error) {
	args := m.Called(ctx, id, input, userID)
	c, _ := args.Get(0).(*domain.Comment)
	return c, args.Error(1)
}

func (m *mockComments) Delete(ctx context.Context, id, userID uuid.UUID) error {
	return m.Called(ctx, id, userID).Error(0)
}

func (m *mockComments) GetByStory(ctx context.Context, storyID uuid.UUID, limit, offset int) ([]*domain.CommentWithUser, error) {
	args := m.Called(ctx, storyID, limit, offset)
	list, _ := args.Get(0).([]*domain.CommentWithUser)
	return list, args.Error(1)
}

func (m *mockComments) GetByID(ctx context.Context, id uuid.UUID) (*domain.CommentWithUser, error) {
	args := m.Called(ctx, id)
	c, _ := args.Get(0).(*domain.CommentWithUser)
	return c, args.Error(1)
}

type mockNotifications struct{ mock.Mock }

func (m *mockNotifications) GetByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*domain.NotificationWithMeta, error) {
	args := m.Called(ctx, userID, limit, offset)
	list, _ := args.Get(0).([]*domain.NotificationWithMeta)
	return list, args.Error(1)
}

func (m *mockNotifications) GetUnreadByUser(ctx context.Context, userID uuid.UUID) ([]*domain.NotificationWithMeta, error) {
	args := m.Called(ctx, userID)
	list, _ := args.Get(0).([]*domain.NotificationWithMeta)
	return list, args.Error(1)
}

func (m *mockNotifications) GetUnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockNotifications) MarkAsRead(ctx context.Context, id, userID uuid.UUID) (*domain.Notification, error) {
	args := m.Called(ctx, id, userID)
	n, _ := args.Get(0).(*domain.Notification)
	return n, args.Error(1)
}

func (m *mockNotifications) MarkAllAsRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockNotifications) Delete(ctx context.Context, id, userID uuid.UUID) error {
	return m.Called(ctx, id, userID).Error(0)
}
