package entity

import "time"

type Rating struct {
	ID        uint      `json:"rating_id"`
	VideoID   uint      `json:"video_id"`
	UserID    uint      `json:"user_id"`
	Value     int       `json:"rating"`
	CreatedAt time.Time `json:"created_at"`
}

const (
	MinRating = 1
	MaxRating = 5
)

// RatingSummary aggregates all ratings of one video. Average is 0 when
// Count is 0.
type RatingSummary struct {
	VideoID uint    `json:"video_id"`
	Average float64 `json:"average"`
	Count   int64   `json:"count"`
}
