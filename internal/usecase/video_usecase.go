package usecase

import (
	"context"
	"fmt"
	"io"
	"mime"
	"strings"

	"cloud-video/internal/entity"
	"cloud-video/internal/guard"
	"cloud-video/internal/repo/persistent"
	"cloud-video/pkg/logger"
	"cloud-video/pkg/storage"
)

// AllowedVideoTypes lists the accepted upload content types.
var AllowedVideoTypes = map[string]bool{
	"video/mp4":       true,
	"video/quicktime": true,
	"video/webm":      true,
}

type UploadVideoInput struct {
	Title     string
	Publisher *string
	Producer  *string
	Genre     *string
	AgeRating *string

	Filename    string
	ContentType string
	Content     io.Reader
}

type UpdateVideoInput struct {
	Title     *string
	Publisher *string
	Producer  *string
	Genre     *string
	AgeRating *string
}

type VideoUseCase interface {
	Upload(ctx context.Context, actor *entity.User, in UploadVideoInput) (*entity.Video, error)
	Get(ctx context.Context, id uint) (*entity.Video, error)
	List(ctx context.Context, page Page) ([]*entity.Video, error)
	Update(ctx context.Context, actor *entity.User, id uint, in UpdateVideoInput) (*entity.Video, error)
	Delete(ctx context.Context, actor *entity.User, id uint) error
}

type videoUseCase struct {
	videoRepo persistent.VideoRepository
	storage   storage.Storage
	logger    *logger.Logger
}

func NewVideoUseCase(videoRepo persistent.VideoRepository, storage storage.Storage, logger *logger.Logger) VideoUseCase {
	return &videoUseCase{
		videoRepo: videoRepo,
		storage:   storage,
		logger:    logger,
	}
}

// Upload stores the bytes first and then records the video. If recording
// fails the stored object is removed again.
func (uc *videoUseCase) Upload(ctx context.Context, actor *entity.User, in UploadVideoInput) (*entity.Video, error) {
	if err := guard.RequireRole(actor, entity.RoleCreator, entity.RoleAdmin); err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.Title) == "" {
		return nil, fmt.Errorf("%w: title is required", entity.ErrValidation)
	}
	contentType, ok := normalizeContentType(in.ContentType)
	if !ok {
		return nil, fmt.Errorf("%w: unsupported content type %q", entity.ErrValidation, in.ContentType)
	}
	if in.Content == nil {
		return nil, fmt.Errorf("%w: file is required", entity.ErrValidation)
	}

	locator, err := uc.storage.Put(ctx, actor.ID, in.Filename, contentType, in.Content)
	if err != nil {
		uc.logger.Error("Failed to store upload from user %d: %v", actor.ID, err)
		return nil, fmt.Errorf("%w: %v", entity.ErrStorage, err)
	}

	video := &entity.Video{
		Title:     in.Title,
		Publisher: in.Publisher,
		Producer:  in.Producer,
		Genre:     in.Genre,
		AgeRating: in.AgeRating,
		BlobURI:   locator,
		CreatorID: actor.ID,
	}
	if err := uc.videoRepo.Create(ctx, video); err != nil {
		uc.logger.Error("Failed to record video %s, removing blob: %v", locator, err)
		uc.storage.Delete(context.WithoutCancel(ctx), locator)
		return nil, err
	}

	uc.logger.Info("User %d uploaded video %d", actor.ID, video.ID)
	return video, nil
}

func (uc *videoUseCase) Get(ctx context.Context, id uint) (*entity.Video, error) {
	return uc.videoRepo.GetByID(ctx, id)
}

func (uc *videoUseCase) List(ctx context.Context, page Page) ([]*entity.Video, error) {
	offset, limit, err := page.bounds()
	if err != nil {
		return nil, err
	}
	return uc.videoRepo.List(ctx, offset, limit)
}

func (uc *videoUseCase) Update(ctx context.Context, actor *entity.User, id uint, in UpdateVideoInput) (*entity.Video, error) {
	if in.Title != nil && strings.TrimSpace(*in.Title) == "" {
		return nil, fmt.Errorf("%w: title must not be empty", entity.ErrValidation)
	}

	video, err := uc.videoRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := guard.RequireOwnerOrAdmin(actor, video.CreatorID); err != nil {
		return nil, err
	}

	if in.Title != nil {
		video.Title = *in.Title
	}
	if in.Publisher != nil {
		video.Publisher = in.Publisher
	}
	if in.Producer != nil {
		video.Producer = in.Producer
	}
	if in.Genre != nil {
		video.Genre = in.Genre
	}
	if in.AgeRating != nil {
		video.AgeRating = in.AgeRating
	}

	if err := uc.videoRepo.Update(ctx, video); err != nil {
		return nil, err
	}
	return video, nil
}

// Delete removes the record first; the stored bytes are removed afterwards
// on a best-effort basis.
func (uc *videoUseCase) Delete(ctx context.Context, actor *entity.User, id uint) error {
	video, err := uc.videoRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := guard.RequireOwnerOrAdmin(actor, video.CreatorID); err != nil {
		return err
	}

	locator := video.BlobURI
	if err := uc.videoRepo.Delete(ctx, id); err != nil {
		return err
	}
	uc.storage.Delete(context.WithoutCancel(ctx), locator)

	uc.logger.Info("User %d deleted video %d", actor.ID, id)
	return nil
}

func normalizeContentType(raw string) (string, bool) {
	mediaType, _, err := mime.ParseMediaType(raw)
	if err != nil {
		return "", false
	}
	return mediaType, AllowedVideoTypes[mediaType]
}
