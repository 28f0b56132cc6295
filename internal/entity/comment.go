package entity

import "time"

type Comment struct {
	ID        uint      `json:"comment_id"`
	VideoID   uint      `json:"video_id"`
	UserID    uint      `json:"user_id"`
	Text      string    `json:"comment_text"`
	CreatedAt time.Time `json:"created_at"`
}
