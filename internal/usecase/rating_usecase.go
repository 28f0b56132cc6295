package usecase

import (
	"context"
	"fmt"

	"cloud-video/internal/entity"
	"cloud-video/internal/guard"
	"cloud-video/internal/repo/persistent"
	"cloud-video/pkg/logger"
)

type RatingUseCase interface {
	// Rate sets the actor's rating of a video, replacing an earlier one.
	Rate(ctx context.Context, actor *entity.User, videoID uint, value int) (*entity.Rating, error)
	Summary(ctx context.Context, videoID uint) (*entity.RatingSummary, error)
	Delete(ctx context.Context, actor *entity.User, videoID, ratingID uint) error
}

type ratingUseCase struct {
	ratingRepo persistent.RatingRepository
	videoRepo  persistent.VideoRepository
	logger     *logger.Logger
}

func NewRatingUseCase(ratingRepo persistent.RatingRepository, videoRepo persistent.VideoRepository, logger *logger.Logger) RatingUseCase {
	return &ratingUseCase{
		ratingRepo: ratingRepo,
		videoRepo:  videoRepo,
		logger:     logger,
	}
}

func (uc *ratingUseCase) Rate(ctx context.Context, actor *entity.User, videoID uint, value int) (*entity.Rating, error) {
	if value < entity.MinRating || value > entity.MaxRating {
		return nil, fmt.Errorf("%w: rating must be between %d and %d", entity.ErrValidation, entity.MinRating, entity.MaxRating)
	}
	if _, err := uc.videoRepo.GetByID(ctx, videoID); err != nil {
		return nil, err
	}

	rating := &entity.Rating{
		VideoID: videoID,
		UserID:  actor.ID,
		Value:   value,
	}
	if err := uc.ratingRepo.Upsert(ctx, rating); err != nil {
		return nil, err
	}
	return rating, nil
}

func (uc *ratingUseCase) Summary(ctx context.Context, videoID uint) (*entity.RatingSummary, error) {
	if _, err := uc.videoRepo.GetByID(ctx, videoID); err != nil {
		return nil, err
	}
	return uc.ratingRepo.Summary(ctx, videoID)
}

func (uc *ratingUseCase) Delete(ctx context.Context, actor *entity.User, videoID, ratingID uint) error {
	rating, err := uc.ratingRepo.GetByID(ctx, ratingID)
	if err != nil {
		return err
	}
	if rating.VideoID != videoID {
		return fmt.Errorf("%w: rating", entity.ErrNotFound)
	}
	if err := guard.RequireOwnerOrAdmin(actor, rating.UserID); err != nil {
		return err
	}
	if err := uc.ratingRepo.Delete(ctx, ratingID); err != nil {
		return err
	}
	uc.logger.Info("User %d deleted rating %d on video %d", actor.ID, ratingID, videoID)
	return nil
}
