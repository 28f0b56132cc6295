package persistent

import (
	"context"

	"cloud-video/internal/entity"
	"cloud-video/internal/model"

	"gorm.io/gorm"
)

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id uint) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	GetByUsername(ctx context.Context, username string) (*entity.User, error)
	List(ctx context.Context, offset, limit int) ([]*entity.User, error)
	Update(ctx context.Context, user *entity.User) error
	UpdateRole(ctx context.Context, id uint, role entity.Role) error
	// Delete removes the user together with their videos, comments and
	// ratings, and everything attached to those videos. It returns the
	// storage locators of the removed videos.
	Delete(ctx context.Context, id uint) ([]string, error)
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *entity.User) error {
	userModel := ToUserModel(user)
	if err := r.db.WithContext(ctx).Create(userModel).Error; err != nil {
		return translateError(err, "user")
	}
	*user = *ToUserEntity(userModel)
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id uint) (*entity.User, error) {
	var userModel model.UserModel
	if err := r.db.WithContext(ctx).Where("user_id = ?", id).First(&userModel).Error; err != nil {
		return nil, translateError(err, "user")
	}
	return ToUserEntity(&userModel), nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	var userModel model.UserModel
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&userModel).Error; err != nil {
		return nil, translateError(err, "user")
	}
	return ToUserEntity(&userModel), nil
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*entity.User, error) {
	var userModel model.UserModel
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&userModel).Error; err != nil {
		return nil, translateError(err, "user")
	}
	return ToUserEntity(&userModel), nil
}

func (r *userRepository) List(ctx context.Context, offset, limit int) ([]*entity.User, error) {
	var userModels []model.UserModel
	if err := r.db.WithContext(ctx).
		Order("user_id ASC").
		Offset(offset).
		Limit(limit).
		Find(&userModels).Error; err != nil {
		return nil, translateError(err, "users")
	}

	users := make([]*entity.User, len(userModels))
	for i := range userModels {
		users[i] = ToUserEntity(&userModels[i])
	}
	return users, nil
}

func (r *userRepository) Update(ctx context.Context, user *entity.User) error {
	userModel := ToUserModel(user)
	res := r.db.WithContext(ctx).
		Model(userModel).
		Select("email", "username", "display_name", "password_hash", "role").
		Updates(userModel)
	if res.Error != nil {
		return translateError(res.Error, "user")
	}
	if res.RowsAffected == 0 {
		return translateError(gorm.ErrRecordNotFound, "user")
	}
	return nil
}

func (r *userRepository) UpdateRole(ctx context.Context, id uint, role entity.Role) error {
	res := r.db.WithContext(ctx).
		Model(&model.UserModel{}).
		Where("user_id = ?", id).
		Update("role", string(role))
	if res.Error != nil {
		return translateError(res.Error, "user")
	}
	if res.RowsAffected == 0 {
		return translateError(gorm.ErrRecordNotFound, "user")
	}
	return nil
}

func (r *userRepository) Delete(ctx context.Context, id uint) ([]string, error) {
	var locators []string
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var videos []model.VideoModel
		if err := tx.Select("video_id", "blob_uri").Where("creator_id = ?", id).Find(&videos).Error; err != nil {
			return err
		}
		videoIDs := make([]uint, len(videos))
		for i, v := range videos {
			videoIDs[i] = v.ID
			locators = append(locators, v.BlobURI)
		}

		if len(videoIDs) > 0 {
			if err := tx.Where("video_id IN ?", videoIDs).Delete(&model.CommentModel{}).Error; err != nil {
				return err
			}
			if err := tx.Where("video_id IN ?", videoIDs).Delete(&model.RatingModel{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("user_id = ?", id).Delete(&model.CommentModel{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&model.RatingModel{}).Error; err != nil {
			return err
		}
		if err := tx.Where("creator_id = ?", id).Delete(&model.VideoModel{}).Error; err != nil {
			return err
		}

		res := tx.Where("user_id = ?", id).Delete(&model.UserModel{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		return nil, translateError(err, "user")
	}
	return locators, nil
}
