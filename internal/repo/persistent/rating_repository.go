package persistent

import (
	"context"

	"cloud-video/internal/entity"
	"cloud-video/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type RatingRepository interface {
	// Upsert stores the rating for (VideoID, UserID), replacing the value of
	// an existing row. The stored row is written back into rating.
	Upsert(ctx context.Context, rating *entity.Rating) error
	GetByID(ctx context.Context, id uint) (*entity.Rating, error)
	Delete(ctx context.Context, id uint) error
	Summary(ctx context.Context, videoID uint) (*entity.RatingSummary, error)
}

type ratingRepository struct {
	db *gorm.DB
}

func NewRatingRepository(db *gorm.DB) RatingRepository {
	return &ratingRepository{db: db}
}

func (r *ratingRepository) Upsert(ctx context.Context, rating *entity.Rating) error {
	ratingModel := ToRatingModel(rating)
	ratingModel.ID = 0

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "video_id"}, {Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"rating"}),
		}).Create(ratingModel).Error; err != nil {
			return err
		}

		var stored model.RatingModel
		if err := tx.Where("video_id = ? AND user_id = ?", rating.VideoID, rating.UserID).
			First(&stored).Error; err != nil {
			return err
		}
		*rating = *ToRatingEntity(&stored)
		return nil
	})
	return translateError(err, "rating")
}

func (r *ratingRepository) GetByID(ctx context.Context, id uint) (*entity.Rating, error) {
	var ratingModel model.RatingModel
	if err := r.db.WithContext(ctx).Where("rating_id = ?", id).First(&ratingModel).Error; err != nil {
		return nil, translateError(err, "rating")
	}
	return ToRatingEntity(&ratingModel), nil
}

func (r *ratingRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Where("rating_id = ?", id).Delete(&model.RatingModel{})
	if res.Error != nil {
		return translateError(res.Error, "rating")
	}
	if res.RowsAffected == 0 {
		return translateError(gorm.ErrRecordNotFound, "rating")
	}
	return nil
}

func (r *ratingRepository) Summary(ctx context.Context, videoID uint) (*entity.RatingSummary, error) {
	var row struct {
		Average float64
		Count   int64
	}
	if err := r.db.WithContext(ctx).
		Model(&model.RatingModel{}).
		Select("COALESCE(CAST(AVG(rating) AS FLOAT), 0) AS average, COUNT(*) AS count").
		Where("video_id = ?", videoID).
		Scan(&row).Error; err != nil {
		return nil, translateError(err, "rating summary")
	}

	return &entity.RatingSummary{
		VideoID: videoID,
		Average: row.Average,
		Count:   row.Count,
	}, nil
}
