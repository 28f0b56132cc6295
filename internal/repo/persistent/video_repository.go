package persistent

import (
	"context"

	"cloud-video/internal/entity"
	"cloud-video/internal/model"

	"gorm.io/gorm"
)

type VideoRepository interface {
	Create(ctx context.Context, video *entity.Video) error
	GetByID(ctx context.Context, id uint) (*entity.Video, error)
	// List returns videos newest first.
	List(ctx context.Context, offset, limit int) ([]*entity.Video, error)
	Update(ctx context.Context, video *entity.Video) error
	// Delete removes the video with its comments and ratings.
	Delete(ctx context.Context, id uint) error
}

type videoRepository struct {
	db *gorm.DB
}

func NewVideoRepository(db *gorm.DB) VideoRepository {
	return &videoRepository{db: db}
}

func (r *videoRepository) Create(ctx context.Context, video *entity.Video) error {
	videoModel := ToVideoModel(video)
	if err := r.db.WithContext(ctx).Create(videoModel).Error; err != nil {
		return translateError(err, "video")
	}
	*video = *ToVideoEntity(videoModel)
	return nil
}

func (r *videoRepository) GetByID(ctx context.Context, id uint) (*entity.Video, error) {
	var videoModel model.VideoModel
	if err := r.db.WithContext(ctx).Where("video_id = ?", id).First(&videoModel).Error; err != nil {
		return nil, translateError(err, "video")
	}
	return ToVideoEntity(&videoModel), nil
}

func (r *videoRepository) List(ctx context.Context, offset, limit int) ([]*entity.Video, error) {
	var videoModels []model.VideoModel
	if err := r.db.WithContext(ctx).
		Order("upload_date DESC").
		Order("video_id DESC").
		Offset(offset).
		Limit(limit).
		Find(&videoModels).Error; err != nil {
		return nil, translateError(err, "videos")
	}

	videos := make([]*entity.Video, len(videoModels))
	for i := range videoModels {
		videos[i] = ToVideoEntity(&videoModels[i])
	}
	return videos, nil
}

func (r *videoRepository) Update(ctx context.Context, video *entity.Video) error {
	videoModel := ToVideoModel(video)
	res := r.db.WithContext(ctx).
		Model(videoModel).
		Select("title", "publisher", "producer", "genre", "age_rating").
		Updates(videoModel)
	if res.Error != nil {
		return translateError(res.Error, "video")
	}
	if res.RowsAffected == 0 {
		return translateError(gorm.ErrRecordNotFound, "video")
	}
	return nil
}

func (r *videoRepository) Delete(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("video_id = ?", id).Delete(&model.CommentModel{}).Error; err != nil {
			return err
		}
		if err := tx.Where("video_id = ?", id).Delete(&model.RatingModel{}).Error; err != nil {
			return err
		}
		res := tx.Where("video_id = ?", id).Delete(&model.VideoModel{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	return translateError(err, "video")
}
