package usecase

import (
	"context"
	"fmt"
	"strings"

	"cloud-video/internal/entity"
	"cloud-video/internal/guard"
	"cloud-video/internal/repo/persistent"
	"cloud-video/pkg/logger"
)

type CommentUseCase interface {
	Create(ctx context.Context, actor *entity.User, videoID uint, text string) (*entity.Comment, error)
	List(ctx context.Context, videoID uint, page Page) ([]*entity.Comment, error)
	Update(ctx context.Context, actor *entity.User, videoID, commentID uint, text string) (*entity.Comment, error)
	Delete(ctx context.Context, actor *entity.User, videoID, commentID uint) error
}

type commentUseCase struct {
	commentRepo persistent.CommentRepository
	videoRepo   persistent.VideoRepository
	logger      *logger.Logger
}

func NewCommentUseCase(commentRepo persistent.CommentRepository, videoRepo persistent.VideoRepository, logger *logger.Logger) CommentUseCase {
	return &commentUseCase{
		commentRepo: commentRepo,
		videoRepo:   videoRepo,
		logger:      logger,
	}
}

func (uc *commentUseCase) Create(ctx context.Context, actor *entity.User, videoID uint, text string) (*entity.Comment, error) {
	if err := validateCommentText(text); err != nil {
		return nil, err
	}
	if _, err := uc.videoRepo.GetByID(ctx, videoID); err != nil {
		return nil, err
	}

	comment := &entity.Comment{
		VideoID: videoID,
		UserID:  actor.ID,
		Text:    text,
	}
	if err := uc.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

func (uc *commentUseCase) List(ctx context.Context, videoID uint, page Page) ([]*entity.Comment, error) {
	offset, limit, err := page.bounds()
	if err != nil {
		return nil, err
	}
	if _, err := uc.videoRepo.GetByID(ctx, videoID); err != nil {
		return nil, err
	}
	return uc.commentRepo.ListByVideo(ctx, videoID, offset, limit)
}

func (uc *commentUseCase) Update(ctx context.Context, actor *entity.User, videoID, commentID uint, text string) (*entity.Comment, error) {
	if err := validateCommentText(text); err != nil {
		return nil, err
	}

	comment, err := uc.find(ctx, videoID, commentID)
	if err != nil {
		return nil, err
	}
	if err := guard.RequireOwnerOrAdmin(actor, comment.UserID); err != nil {
		return nil, err
	}

	comment.Text = text
	if err := uc.commentRepo.Update(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

func (uc *commentUseCase) Delete(ctx context.Context, actor *entity.User, videoID, commentID uint) error {
	comment, err := uc.find(ctx, videoID, commentID)
	if err != nil {
		return err
	}
	if err := guard.RequireOwnerOrAdmin(actor, comment.UserID); err != nil {
		return err
	}
	if err := uc.commentRepo.Delete(ctx, commentID); err != nil {
		return err
	}
	uc.logger.Info("User %d deleted comment %d on video %d", actor.ID, commentID, videoID)
	return nil
}

// find treats a comment attached to a different video as missing.
func (uc *commentUseCase) find(ctx context.Context, videoID, commentID uint) (*entity.Comment, error) {
	comment, err := uc.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if comment.VideoID != videoID {
		return nil, fmt.Errorf("%w: comment", entity.ErrNotFound)
	}
	return comment, nil
}

func validateCommentText(text string) error {
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("%w: comment text must not be empty", entity.ErrValidation)
	}
	return nil
}
