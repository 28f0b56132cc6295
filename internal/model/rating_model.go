package model

import "time"

type RatingModel struct {
	ID        uint      `gorm:"primaryKey;column:rating_id"`
	VideoID   uint      `gorm:"not null;uniqueIndex:uq_ratings_video_user"`
	UserID    uint      `gorm:"not null;uniqueIndex:uq_ratings_video_user;index"`
	Value     int       `gorm:"column:rating;not null;check:chk_ratings_range,rating >= 1 AND rating <= 5"`
	CreatedAt time.Time `gorm:"not null"`
}

func (RatingModel) TableName() string {
	return "ratings"
}
