package persistent

import (
	"cloud-video/internal/entity"
	"cloud-video/internal/model"
)

func ToUserEntity(m *model.UserModel) *entity.User {
	if m == nil {
		return nil
	}
	return &entity.User{
		ID:           m.ID,
		Email:        m.Email,
		Username:     m.Username,
		DisplayName:  m.DisplayName,
		PasswordHash: m.PasswordHash,
		Role:         entity.Role(m.Role),
		CreatedAt:    m.CreatedAt,
	}
}

func ToUserModel(e *entity.User) *model.UserModel {
	if e == nil {
		return nil
	}
	return &model.UserModel{
		ID:           e.ID,
		Email:        e.Email,
		Username:     e.Username,
		DisplayName:  e.DisplayName,
		PasswordHash: e.PasswordHash,
		Role:         string(e.Role),
		CreatedAt:    e.CreatedAt,
	}
}

func ToVideoEntity(m *model.VideoModel) *entity.Video {
	if m == nil {
		return nil
	}
	return &entity.Video{
		ID:         m.ID,
		Title:      m.Title,
		Publisher:  m.Publisher,
		Producer:   m.Producer,
		Genre:      m.Genre,
		AgeRating:  m.AgeRating,
		BlobURI:    m.BlobURI,
		UploadDate: m.UploadDate,
		CreatorID:  m.CreatorID,
	}
}

func ToVideoModel(e *entity.Video) *model.VideoModel {
	if e == nil {
		return nil
	}
	return &model.VideoModel{
		ID:         e.ID,
		Title:      e.Title,
		Publisher:  e.Publisher,
		Producer:   e.Producer,
		Genre:      e.Genre,
		AgeRating:  e.AgeRating,
		BlobURI:    e.BlobURI,
		UploadDate: e.UploadDate,
		CreatorID:  e.CreatorID,
	}
}

func ToCommentEntity(m *model.CommentModel) *entity.Comment {
	if m == nil {
		return nil
	}
	return &entity.Comment{
		ID:        m.ID,
		VideoID:   m.VideoID,
		UserID:    m.UserID,
		Text:      m.Text,
		CreatedAt: m.CreatedAt,
	}
}

func ToCommentModel(e *entity.Comment) *model.CommentModel {
	if e == nil {
		return nil
	}
	return &model.CommentModel{
		ID:        e.ID,
		VideoID:   e.VideoID,
		UserID:    e.UserID,
		Text:      e.Text,
		CreatedAt: e.CreatedAt,
	}
}

func ToRatingEntity(m *model.RatingModel) *entity.Rating {
	if m == nil {
		return nil
	}
	return &entity.Rating{
		ID:        m.ID,
		VideoID:   m.VideoID,
		UserID:    m.UserID,
		Value:     m.Value,
		CreatedAt: m.CreatedAt,
	}
}

func ToRatingModel(e *entity.Rating) *model.RatingModel {
	if e == nil {
		return nil
	}
	return &model.RatingModel{
		ID:        e.ID,
		VideoID:   e.VideoID,
		UserID:    e.UserID,
		Value:     e.Value,
		CreatedAt: e.CreatedAt,
	}
}
