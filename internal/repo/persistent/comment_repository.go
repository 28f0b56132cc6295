package persistent

import (
	"context"

	"cloud-video/internal/entity"
	"cloud-video/internal/model"

	"gorm.io/gorm"
)

type CommentRepository interface {
	Create(ctx context.Context, comment *entity.Comment) error
	GetByID(ctx context.Context, id uint) (*entity.Comment, error)
	ListByVideo(ctx context.Context, videoID uint, offset, limit int) ([]*entity.Comment, error)
	Update(ctx context.Context, comment *entity.Comment) error
	Delete(ctx context.Context, id uint) error
}

type commentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Create(ctx context.Context, comment *entity.Comment) error {
	commentModel := ToCommentModel(comment)
	if err := r.db.WithContext(ctx).Create(commentModel).Error; err != nil {
		return translateError(err, "comment")
	}
	*comment = *ToCommentEntity(commentModel)
	return nil
}

func (r *commentRepository) GetByID(ctx context.Context, id uint) (*entity.Comment, error) {
	var commentModel model.CommentModel
	if err := r.db.WithContext(ctx).Where("comment_id = ?", id).First(&commentModel).Error; err != nil {
		return nil, translateError(err, "comment")
	}
	return ToCommentEntity(&commentModel), nil
}

func (r *commentRepository) ListByVideo(ctx context.Context, videoID uint, offset, limit int) ([]*entity.Comment, error) {
	var commentModels []model.CommentModel
	if err := r.db.WithContext(ctx).
		Where("video_id = ?", videoID).
		Order("created_at DESC").
		Order("comment_id DESC").
		Offset(offset).
		Limit(limit).
		Find(&commentModels).Error; err != nil {
		return nil, translateError(err, "comments")
	}

	comments := make([]*entity.Comment, len(commentModels))
	for i := range commentModels {
		comments[i] = ToCommentEntity(&commentModels[i])
	}
	return comments, nil
}

func (r *commentRepository) Update(ctx context.Context, comment *entity.Comment) error {
	res := r.db.WithContext(ctx).
		Model(&model.CommentModel{}).
		Where("comment_id = ?", comment.ID).
		Update("comment_text", comment.Text)
	if res.Error != nil {
		return translateError(res.Error, "comment")
	}
	if res.RowsAffected == 0 {
		return translateError(gorm.ErrRecordNotFound, "comment")
	}
	return nil
}

func (r *commentRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Where("comment_id = ?", id).Delete(&model.CommentModel{})
	if res.Error != nil {
		return translateError(res.Error, "comment")
	}
	if res.RowsAffected == 0 {
		return translateError(gorm.ErrRecordNotFound, "comment")
	}
	return nil
}
