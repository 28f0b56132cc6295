package usecase

import (
	"context"
	"fmt"
	"io"
	"testing"

	"cloud-video/internal/entity"
	"cloud-video/internal/repo/persistent"
	"cloud-video/pkg/database"
	"cloud-video/pkg/logger"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockStorage struct {
	mock.Mock
}

func (m *mockStorage) Put(ctx context.Context, ownerID uint, filename, contentType string, r io.Reader) (string, error) {
	args := m.Called(ctx, ownerID, filename, contentType, r)
	return args.String(0), args.Error(1)
}

func (m *mockStorage) Delete(ctx context.Context, locator string) {
	m.Called(ctx, locator)
}

type fixture struct {
	users    persistent.UserRepository
	videos   persistent.VideoRepository
	comments persistent.CommentRepository
	ratings  persistent.RatingRepository
	storage  *mockStorage
	log      *logger.Logger
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	log := logger.NewWithWriter(io.Discard, false)
	db, err := database.Open(fmt.Sprintf("sqlite://file:%s?mode=memory&cache=shared", uuid.NewString()), log)
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })
	require.NoError(t, persistent.AutoMigrate(db))

	return &fixture{
		users:    persistent.NewUserRepository(db),
		videos:   persistent.NewVideoRepository(db),
		comments: persistent.NewCommentRepository(db),
		ratings:  persistent.NewRatingRepository(db),
		storage:  new(mockStorage),
		log:      log,
	}
}

func (f *fixture) user(t *testing.T, name string, role entity.Role) *entity.User {
	t.Helper()
	u := &entity.User{
		Email:        name + "@example.com",
		Username:     name,
		PasswordHash: "unused",
		Role:         role,
	}
	require.NoError(t, f.users.Create(context.Background(), u))
	return u
}

func (f *fixture) video(t *testing.T, owner *entity.User, title string) *entity.Video {
	t.Helper()
	v := &entity.Video{
		Title:     title,
		BlobURI:   "/static/" + title + ".mp4",
		CreatorID: owner.ID,
	}
	require.NoError(t, f.videos.Create(context.Background(), v))
	return v
}

func strPtr(s string) *string { return &s }
