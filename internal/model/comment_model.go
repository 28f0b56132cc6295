package model

import "time"

type CommentModel struct {
	ID        uint      `gorm:"primaryKey;column:comment_id"`
	VideoID   uint      `gorm:"not null;index"`
	UserID    uint      `gorm:"not null;index"`
	Text      string    `gorm:"column:comment_text;type:text;not null"`
	CreatedAt time.Time `gorm:"not null;index"`
}

func (CommentModel) TableName() string {
	return "comments"
}
